// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Client bir event gönderir (ör. send_message)
// 2. Client.ReadPump event'i parse eder, payload'ı validate eder
// 3. Event SessionEvents interface'i üzerinden coordinator'a iletilir
// 4. Coordinator state'i günceller ve Hub üzerinden broadcast üretir
// 5. Her hedef client'ın WritePump'ı event'i WebSocket'e yazar
package ws

import "github.com/akinalp/mingle/models"

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "receive_message", "typing_users" vb.
// Data: Event'e özgü payload — mesaj objesi, profil listesi vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// ────────────────────────────────────────────
// Operation sabitleri
// ────────────────────────────────────────────

// Client → Server operasyonları
const (
	OpHeartbeat      = "heartbeat"       // Client periyodik gönderir — "hâlâ bağlıyım" sinyali
	OpUserJoin       = "user_join"       // Profil tanıtımı (bağlantıdan sonra bir kez)
	OpJoinRoom       = "join_room"       // Odaya geç
	OpCreateRoom     = "create_room"     // Yeni oda oluştur
	OpSendMessage    = "send_message"    // Mevcut odaya mesaj gönder
	OpTyping         = "typing"          // Yazıyor göstergesi aç/kapa
	OpPrivateMessage = "private_message" // Belirli bir bağlantıya özel mesaj
	OpLoveMessage    = "love_message"    // Bir mesaja love reaction'ı
	OpFindMatch      = "find_match"      // Matchmaking kuyruğuna gir
)

// Server → Client operasyonları
const (
	OpHeartbeatAck    = "heartbeat_ack"   // Heartbeat'e yanıt — "seni duydum"
	OpRoomList        = "room_list"       // Tüm oda adları (oda seçici için)
	OpJoinedRoom      = "joined_room"     // "Şu odadasın" ack'i
	OpRoomMessages    = "room_messages"   // Odanın mesaj geçmişi sayfası
	OpUserList        = "user_list"       // Odadaki profiller
	OpReceiveMessage  = "receive_message" // Odaya yeni mesaj düştü
	OpUserJoined      = "user_joined"     // Odaya biri katıldı
	OpUserLeft        = "user_left"       // Odadan biri ayrıldı
	OpTypingUsers     = "typing_users"    // Odanın güncel "yazıyor" listesi
	OpMatched         = "matched"         // Matchmaking eşleşmesi kuruldu
	OpMessageLoved    = "message_loved"   // Bir mesajın reaction sayısı değişti (GLOBAL)
	OpPrivateIncoming = "private_message" // Özel mesaj (hedefe ve gönderene)
)

// ────────────────────────────────────────────
// Payload tipleri
// ────────────────────────────────────────────
//
// Her event'in payload'ı kapalı (closed) bir tip — duck-typed map yerine
// gerekli alanları tanımlı struct'lar. Boundary'de (Client.handleEvent)
// parse edilip validate edilir, coordinator'a ham JSON asla ulaşmaz.

// RoomData, join_room / create_room / joined_room payload'ı.
type RoomData struct {
	Room string `json:"room"`
}

// TypingData, typing event'inin payload'ı.
type TypingData struct {
	IsTyping bool `json:"is_typing"`
}

// PrivateMessageData, private_message isteğinin payload'ı.
// To, hedef bağlantının ID'sidir (user_list'ten gelir).
type PrivateMessageData struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// LoveMessageData, love_message isteğinin payload'ı.
type LoveMessageData struct {
	MessageID string `json:"message_id"`
}

// RoomListData, room_list broadcast'inin payload'ı.
type RoomListData struct {
	Rooms []string `json:"rooms"`
}

// UserLeftData, user_left broadcast'inin payload'ı.
type UserLeftData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MatchedData, matched bildiriminin payload'ı: yeni oda + karşı tarafın profili.
type MatchedData struct {
	Room  string         `json:"room"`
	Match models.Profile `json:"match"`
}

// MessageLovedData, message_loved broadcast'inin payload'ı.
type MessageLovedData struct {
	MessageID string `json:"message_id"`
	Count     int    `json:"count"`
}

// SessionEvents, client event'lerinin iletildiği coordinator interface'i.
//
// Neden services.SessionService yerine kendi interface'imizi tanımlıyoruz?
// Circular dependency'yi önlemek için:
// - services paketi ws.EventPublisher'ı kullanıyor (broadcast için)
// - ws paketi services'i import etseydi → ws → services → ws döngüsü oluşurdu
//
// Metodlar SENKRON çağrılır (ReadPump goroutine'inden): bir bağlantının
// event'leri gönderildiği sırayla işlenir — oda içi mesaj sırası bu
// garantiye dayanır.
type SessionEvents interface {
	Connected(connID string)
	Join(connID string, req models.JoinRequest)
	JoinRoom(connID string, room string)
	CreateRoom(connID string, room string)
	SendMessage(connID string, req models.SendMessageRequest)
	SetTyping(connID string, isTyping bool)
	PrivateMessage(connID string, to string, content string)
	LoveMessage(connID string, messageID string)
	FindMatch(connID string)
	Disconnected(connID string)
}
