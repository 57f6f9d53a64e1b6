package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının WebSocket event'leri broadcast etmek için
// kullandığı interface.
//
// Dependency Inversion: Service'ler Hub'ın concrete struct'ına değil,
// bu interface'e bağımlıdır. Böylece:
// 1. Service test edilirken mock EventPublisher kullanılabilir
// 2. Hub implementasyonu değişse bile service kodu etkilenmez
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToConn(connID string, event Event)
	BroadcastToConns(connIDs []string, event Event)
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Go channel nedir? (register, unregister)
// Goroutine'ler arası güvenli iletişim sağlayan yapılar.
// Hub.Run() goroutine'i bu channel'lardan `select` ile okur:
// - register channel'dan yeni client gelirse → clients map'e ekle
// - unregister channel'dan client gelirse → map'ten çıkar
type Hub struct {
	// clients: connID → Client. Her bağlantının kendi kimliği vardır —
	// hesap sistemi olmadığı için "bir kullanıcının birden fazla tab'ı"
	// diye bir durum yok, her tab ayrı bir katılımcıdır.
	clients map[string]*Client

	// mu: clients map'ini koruyan read-write mutex.
	mu sync.RWMutex

	// register/unregister: Client giriş/çıkış sinyalleri.
	register   chan *Client
	unregister chan *Client

	// seq: Her outbound event'e verilen artan sayaç.
	// atomic.Int64: Birden fazla goroutine'in güvenle okuyup yazabildiği sayı.
	seq atomic.Int64
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bir client'ı Hub'a ekler.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.connID] = client
	log.Printf("[ws] client connected: conn=%s (total: %d)", client.connID, len(h.clients))
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.connID]; ok && existing == client {
		delete(h.clients, client.connID)
		close(client.send)
		log.Printf("[ws] client disconnected: conn=%s (remaining: %d)", client.connID, len(h.clients))
	}
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
// Reaction sayıları gibi oda bağımsız event'ler için kullanılır.
func (h *Hub) BroadcastToAll(event Event) {
	data, ok := h.encode(&event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		h.deliver(client, data)
	}
}

// BroadcastToConn, tek bir bağlantıya event gönderir (ack'ler, özel mesajlar).
func (h *Hub) BroadcastToConn(connID string, event Event) {
	data, ok := h.encode(&event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[connID]; exists {
		h.deliver(client, data)
	}
}

// BroadcastToConns, verilen bağlantı listesine event gönderir.
// Oda kapsamlı broadcast'ler için: hedef listesi presence registry'den
// gelir — Hub oda üyeliğini bilmez, sadece teslim eder.
func (h *Hub) BroadcastToConns(connIDs []string, event Event) {
	data, ok := h.encode(&event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		if client, exists := h.clients[id]; exists {
			h.deliver(client, data)
		}
	}
}

// encode, event'e seq atayıp JSON'a çevirir.
func (h *Hub) encode(event *Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event op=%s: %v", event.Op, err)
		return nil, false
	}
	return data, true
}

// deliver, encode edilmiş event'i client'ın send buffer'ına bırakır.
// Çağıran en az RLock tutuyor olmalı.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Buffer dolu — bu client yavaş, kapat.
		// Doğrudan removeClient çağıramayız (RLock tutuyoruz) —
		// unregister channel'ına ayrı goroutine'den bırakıyoruz.
		go func(c *Client) { h.unregister <- c }(client)
	}
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
	log.Println("[ws] hub shut down, all connections closed")
}
