package ws

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
//
// WebSocket Upgrade nedir?
// WebSocket, normal HTTP bağlantısı olarak başlar ve "upgrade" ile
// kalıcı, çift yönlü (bidirectional) bir bağlantıya dönüşür.
// HTTP: istek → yanıt → bağlantı kapanır
// WebSocket: bağlantı açık kalır, her iki taraf istediği zaman mesaj gönderebilir
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: Production'da domain kontrolü yapılmalı.
	// Şimdilik tüm origin'lere izin veriyoruz (development için).
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
//
// Authentication yok — bu bilinçli bir kapsam sınırı. Kimlik, server'ın
// her bağlantıya ürettiği connection ID'dir; profil client tarafından
// user_join event'i ile beyan edilir.
type Handler struct {
	hub    *Hub
	events SessionEvents
}

// NewHandler, yeni bir WebSocket handler oluşturur.
//
// events parametresi SessionEvents interface'ini karşılayan herhangi bir
// struct olabilir. Pratikte bu sessionService'dir — Go'da interface'ler
// implicit'tir, metodları varsa otomatik olarak karşılar.
func NewHandler(hub *Hub, events SessionEvents) *Handler {
	return &Handler{
		hub:    hub,
		events: events,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Flow:
// 1. HTTP → WebSocket upgrade
// 2. Server connection ID üretir (uuid — çakışmaya dayanıklı)
// 3. Client oluştur, Hub'a kaydet
// 4. Coordinator'a "bağlandı" bildir (default odaya yerleştirir)
// 5. ReadPump ve WritePump goroutine'lerini başlat
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	connID := uuid.NewString()

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		connID: connID,
		events: h.events,
		send:   make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	// Client Hub'a kayıtlı OLDUKTAN sonra bildiriyoruz — coordinator'ın
	// bağlantı anında ürettiği event'ler (ör. oda listesi) kaybolmasın.
	h.events.Connected(connID)

	// `go client.WritePump()` → yeni goroutine başlatır.
	// ReadPump mevcut goroutine'de çalışmalı — aksi halde bu fonksiyon hemen
	// döner ve HTTP handler sonlanır. ReadPump bağlantı kapanana kadar bloklar.
	go client.WritePump()
	client.ReadPump()
}
