package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinalp/mingle/models"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	// Bu süre aşılırsa bağlantı kapatılır (ağ sorunu olabilir).
	writeWait = 10 * time.Second

	// pongWait: Client'ın heartbeat göndermesi için beklenen maksimum süre.
	// 3 heartbeat kaçırma = 30s × 3 = 90s.
	// Bu sürede heartbeat gelmezse client bağlantısı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	// WebSocket mesajları küçük olmalı — dosyalar HTTP upload ile gönderilir.
	maxMessageSize = 8192

	// sendBufferSize: Her client'ın send channel'ının buffer boyutu.
	// Buffer doluysa (client yavaş) client disconnect edilir.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Go'da WebSocket bağlantı yönetimi pattern'i:
// Her bağlantı için iki goroutine oluşturulur:
// - ReadPump: Client'dan gelen event'leri okur → coordinator'a iletir
// - WritePump: Hub'dan gelen event'leri client'a yazar
//
// Neden iki goroutine?
// gorilla/websocket aynı anda sadece bir okuma ve bir yazma işlemi destekler.
// İki ayrı goroutine kullanarak okuma ve yazma birbirini bloklamaz.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	connID string
	events SessionEvents

	// send, client'a gönderilecek mesajların buffer'landığı channel.
	send chan []byte
	mu   sync.Mutex // conn.WriteMessage çağrılarını korur
}

// ReadPump, WebSocket bağlantısından gelen event'leri okur ve işler.
//
// Bu fonksiyon bağlantı kapanana kadar döngüde kalır. Kapandığında
// önce coordinator'a haber verir (Disconnected) — oda temizliği,
// reaction release ve kuyruk çıkışı orada yapılır — sonra Hub'dan çıkar.
//
// Disconnected çağrısı da diğer event'ler gibi SENKRON: bu bağlantının
// son event'i olarak işlenir, önceki event'leriyle yarışmaz.
func (c *Client) ReadPump() {
	defer func() {
		c.events.Disconnected(c.connID)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// SetReadDeadline: Bu süre içinde mesaj gelmezse Read hata verir.
	// Her heartbeat geldiğinde deadline yenilenir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for conn %s: %v", c.connID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for conn %s: %v", c.connID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from conn %s: %v", c.connID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'dan gelen event'leri türüne göre coordinator'a iletir.
//
// Hatalı payload hiçbir zaman bağlantıyı ya da coordinator'ı düşürmez —
// log'lanır ve atlanır. Bozuk bir event sadece gönderenin kendi
// deneyimini bozar, paylaşılan state'e asla ulaşmaz.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		// Heartbeat geldi — deadline'ı yenile ve ack gönder.
		//
		// Ack, Hub üzerinden gönderilir, send channel'ına doğrudan
		// yazılMAZ: Hub bu client'ı düşürmüş olabilir (yavaş client ya
		// da shutdown) ve kapalı channel'a yazmak panic'tir. Hub'ın map
		// lookup'ı removeClient ile aynı kilidin altında olduğundan
		// düşürülmüş bağlantıya publish güvenli bir no-op'tur.
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for conn %s: %v", c.connID, err)
			return
		}
		c.hub.BroadcastToConn(c.connID, Event{Op: OpHeartbeatAck})

	case OpUserJoin:
		var req models.JoinRequest
		if !c.decode(event, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			log.Printf("[ws] invalid user_join from conn %s: %v", c.connID, err)
			return
		}
		c.events.Join(c.connID, req)

	case OpJoinRoom:
		var data RoomData
		if !c.decode(event, &data) {
			return
		}
		if err := models.ValidateRoomName(data.Room); err != nil {
			log.Printf("[ws] invalid join_room from conn %s: %v", c.connID, err)
			return
		}
		c.events.JoinRoom(c.connID, data.Room)

	case OpCreateRoom:
		var data RoomData
		if !c.decode(event, &data) {
			return
		}
		if err := models.ValidateRoomName(data.Room); err != nil {
			log.Printf("[ws] invalid create_room from conn %s: %v", c.connID, err)
			return
		}
		c.events.CreateRoom(c.connID, data.Room)

	case OpSendMessage:
		var req models.SendMessageRequest
		if !c.decode(event, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			log.Printf("[ws] invalid send_message from conn %s: %v", c.connID, err)
			return
		}
		c.events.SendMessage(c.connID, req)

	case OpTyping:
		var data TypingData
		if !c.decode(event, &data) {
			return
		}
		c.events.SetTyping(c.connID, data.IsTyping)

	case OpPrivateMessage:
		var data PrivateMessageData
		if !c.decode(event, &data) {
			return
		}
		if data.To == "" || data.Message == "" {
			log.Printf("[ws] private_message missing fields from conn %s", c.connID)
			return
		}
		c.events.PrivateMessage(c.connID, data.To, data.Message)

	case OpLoveMessage:
		var data LoveMessageData
		if !c.decode(event, &data) {
			return
		}
		if data.MessageID == "" {
			log.Printf("[ws] love_message without message_id from conn %s", c.connID)
			return
		}
		c.events.LoveMessage(c.connID, data.MessageID)

	case OpFindMatch:
		// Payload gerekmez — connID yeterli.
		c.events.FindMatch(c.connID)

	default:
		log.Printf("[ws] unknown op from conn %s: %s", c.connID, event.Op)
	}
}

// decode, event.Data'yı hedef payload struct'ına parse eder.
//
// json.Marshal + json.Unmarshal neden?
// event.Data tipi `any` (interface{}), doğrudan cast edemeyiz.
// JSON'a çevirip tekrar parse etmek en güvenli yöntem.
func (c *Client) decode(event Event, target any) bool {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(dataBytes, target); err != nil {
		log.Printf("[ws] invalid %s payload from conn %s: %v", event.Op, c.connID, err)
		return false
	}
	return true
}

// WritePump, Hub'dan gelen mesajları WebSocket bağlantısına yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı.
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, WebSocket'e mesaj yazar (mutex ile korunur).
// gorilla/websocket conn'a aynı anda birden fazla yazma YASAK.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
