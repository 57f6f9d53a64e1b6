// Package services, uygulamanın iş mantığı katmanıdır.
//
// Service'ler repository'lere (state) ve ws.EventPublisher'a (broadcast)
// interface üzerinden bağımlıdır — test ederken ikisi de mock'lanabilir.
package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/mingle/config"
	"github.com/akinalp/mingle/models"
	"github.com/akinalp/mingle/repository"
	"github.com/akinalp/mingle/ws"
)

// AnonymousUsername, profil tanıtmadan event gönderen bağlantılar için
// kullanılan görünen ad. Profilsiz bir event asla error üretmez —
// eksik profil sadece sunumu bozar, paylaşılan state'i değil.
const AnonymousUsername = "Anonymous"

// SessionService, Session Coordinator: transport'tan gelen her inbound
// event'i dört state bileşeni (presence, oda dizini, reaction ledger,
// matchmaking kuyruğu) üzerinde çalıştırıp outbound broadcast'lere çevirir.
//
// ws.SessionEvents interface'ini karşılar; ayrıca HTTP surface'inin
// kullandığı read-path metodlarını sağlar.
type SessionService interface {
	ws.SessionEvents

	// PageMessages, odanın mesajlarını cursor-based pagination ile döner.
	PageMessages(room string, before *time.Time, limit int) *models.MessagePage

	// UsersInRoom, odadaki kayıtlı profilleri döner.
	UsersInRoom(room string) []models.Profile

	// RoomNames, tüm oda adlarının snapshot'ını döner.
	RoomNames() []string
}

type sessionService struct {
	// mu, coordinator mutex'i: her inbound event diğerlerine göre
	// ATOMIK işlenir — event'in ortasında başka bir event'in kısmi
	// mutation'ı görünmez. Dosya upload'ı bilinçli olarak bu kilidin
	// DIŞINDA yaşar (upload service'e bakınız).
	mu sync.Mutex

	presenceRepo repository.PresenceRepository
	roomRepo     repository.RoomRepository
	reactionRepo repository.ReactionRepository
	queueRepo    repository.QueueRepository
	hub          ws.EventPublisher
	chat         config.ChatConfig

	// msgSeq, mesajlara verilen process-scoped kesin artan sıra numarası.
	// Wall-clock + random jitter yerine sayaç: eşzamanlı burst'lerde bile
	// sıralama belirsizliği yok.
	msgSeq atomic.Int64
}

// NewSessionService, constructor.
func NewSessionService(
	presenceRepo repository.PresenceRepository,
	roomRepo repository.RoomRepository,
	reactionRepo repository.ReactionRepository,
	queueRepo repository.QueueRepository,
	hub ws.EventPublisher,
	chat config.ChatConfig,
) SessionService {
	return &sessionService{
		presenceRepo: presenceRepo,
		roomRepo:     roomRepo,
		reactionRepo: reactionRepo,
		queueRepo:    queueRepo,
		hub:          hub,
		chat:         chat,
	}
}

// ─── Inbound event handler'ları (ws.SessionEvents) ───

// Connected, transport bağlantısı kurulduğunda çağrılır.
// Bağlantı daha profil tanıtmadan default odanın üyesidir —
// böylece user_join'den önce bile oda broadcast'lerini alır.
func (s *sessionService) Connected(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roomRepo.Ensure(s.chat.DefaultRoom)
	s.presenceRepo.SetRoom(connID, s.chat.DefaultRoom)
}

// Join, user_join event'ini işler: profili bağlar ve bağlantıyı
// default odaya yerleştirir.
//
// Outbound: oda listesi + joined_room ack (sadece gönderene),
// güncel kullanıcı listesi + user_joined (odadaki herkese).
func (s *sessionService) Join(connID string, req models.JoinRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := req.Profile(connID)
	s.presenceRepo.Register(connID, profile)

	room, _ := s.presenceRepo.RoomOf(connID)

	// Invariant: joined_room ack'inden önce oda dizinde var olmalı.
	s.roomRepo.Ensure(room)

	s.hub.BroadcastToConn(connID, ws.Event{
		Op:   ws.OpRoomList,
		Data: ws.RoomListData{Rooms: s.roomRepo.RoomNames()},
	})
	s.hub.BroadcastToConn(connID, ws.Event{
		Op:   ws.OpJoinedRoom,
		Data: ws.RoomData{Room: room},
	})

	members := s.presenceRepo.ConnsInRoom(room)
	s.hub.BroadcastToConns(members, ws.Event{
		Op:   ws.OpUserList,
		Data: s.presenceRepo.ListInRoom(room),
	})
	s.hub.BroadcastToConns(members, ws.Event{
		Op:   ws.OpUserJoined,
		Data: profile,
	})
}

// JoinRoom, bağlantıyı hedef odaya taşır.
//
// Outbound: joined_room ack + odanın mesaj geçmişi + kullanıcı listesi.
// Önceki odadaki typing kaydı temizlenir — "yazıyor..." göstergesi
// odayı terk eden birini göstermemeli.
func (s *sessionService) JoinRoom(connID string, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearTypingLocked(connID)

	s.roomRepo.Ensure(room)
	s.presenceRepo.SetRoom(connID, room)

	s.hub.BroadcastToConn(connID, ws.Event{
		Op:   ws.OpJoinedRoom,
		Data: ws.RoomData{Room: room},
	})

	messages, _ := s.roomRepo.Page(room, nil, repository.HistoryLimit)
	s.hub.BroadcastToConn(connID, ws.Event{
		Op:   ws.OpRoomMessages,
		Data: messages,
	})

	s.hub.BroadcastToConns(s.presenceRepo.ConnsInRoom(room), ws.Event{
		Op:   ws.OpUserList,
		Data: s.presenceRepo.ListInRoom(room),
	})
}

// CreateRoom, odayı oluşturur (varsa no-op) ve yeni oluştuysa güncel
// oda listesini HERKESE duyurur — oda seçiciler anında güncellensin.
func (s *sessionService) CreateRoom(connID string, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if created := s.roomRepo.Ensure(room); created {
		s.hub.BroadcastToAll(ws.Event{
			Op:   ws.OpRoomList,
			Data: ws.RoomListData{Rooms: s.roomRepo.RoomNames()},
		})
	}
}

// SendMessage, mesajı gönderenin mevcut odasının log'una ekler ve
// SADECE o odanın üyelerine broadcast eder.
func (s *sessionService) SendMessage(connID string, req models.SendMessageRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.currentRoomLocked(connID)
	msg := s.buildMessageLocked(connID, req.Content, req.ThreadID, room, false)

	s.roomRepo.Append(room, msg)

	s.hub.BroadcastToConns(s.presenceRepo.ConnsInRoom(room), ws.Event{
		Op:   ws.OpReceiveMessage,
		Data: msg,
	})
}

// SetTyping, gönderenin mevcut odasının typing set'ini günceller ve
// güncel "yazıyor" listesini odaya broadcast eder.
//
// Profilsiz bağlantılar sessizce atlanır — isimsiz bir "yazıyor"
// göstergesinin anlamı yok.
func (s *sessionService) SetTyping(connID string, isTyping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.presenceRepo.Get(connID)
	if !ok {
		return
	}

	room := s.currentRoomLocked(connID)
	usernames := s.roomRepo.SetTyping(room, connID, profile.Username, isTyping)

	s.hub.BroadcastToConns(s.presenceRepo.ConnsInRoom(room), ws.Event{
		Op:   ws.OpTypingUsers,
		Data: usernames,
	})
}

// PrivateMessage, odadan bağımsız birebir mesaj: hedefe iletilir ve
// gönderene echo edilir. Hiçbir oda log'una YAZILMAZ — özel mesajların
// geçmişi yoktur, teslim edilemezse kaybolur (best-effort).
func (s *sessionService) PrivateMessage(connID string, to string, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.buildMessageLocked(connID, content, nil, "", true)

	event := ws.Event{Op: ws.OpPrivateIncoming, Data: msg}
	s.hub.BroadcastToConn(to, event)
	s.hub.BroadcastToConn(connID, event)
}

// LoveMessage, reaction ledger'a idempotent ekleme yapar ve güncel
// sayıyı TÜM bağlantılara duyurur — reaction'lar bilinçli olarak oda
// kapsamlı değil, globaldir.
func (s *sessionService) LoveMessage(connID string, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.reactionRepo.React(messageID, connID)

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpMessageLoved,
		Data: ws.MessageLovedData{MessageID: messageID, Count: count},
	})
}

// FindMatch, bağlantıyı matchmaking kuyruğuna ekler ve kuyrukta en az
// iki giriş olduğu sürece eşleştirme yapar.
//
// Pairing kuralı: strict FIFO — ilk isteyen ikinci isteyenle eşleşir.
// İki giriş tek atomik adımda çıkarılır, İKİSİNİN de canlılığı pair
// commit edilmeden önce doğrulanır. Biri bu arada disconnect olduysa
// stale giriş düşer, canlı partner kuyruğun ÖNÜNE geri konur —
// sıradaki önceliğini kaybetmez ve bir sonraki istekle eşleşir.
func (s *sessionService) FindMatch(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queueRepo.Enqueue(connID) {
		// Zaten bekliyor — duplicate find_match no-op'tur.
		return
	}

	for {
		first, second, ok := s.queueRepo.DequeuePair()
		if !ok {
			return
		}

		firstProfile, firstLive := s.presenceRepo.Get(first)
		secondProfile, secondLive := s.presenceRepo.Get(second)

		switch {
		case firstLive && secondLive:
			s.commitMatchLocked(first, firstProfile, second, secondProfile)
		case firstLive:
			s.queueRepo.Requeue(first)
		case secondLive:
			s.queueRepo.Requeue(second)
		}
		// İkisi de stale ise ikisi de düşer — temizlik tamam.

		// Requeue sonrası kuyrukta hâlâ ≥2 giriş olabilir, döngü devam eder.
	}
}

// commitMatchLocked, doğrulanmış bir çift için eşleşmeyi kurar:
// benzersiz bir match odası yaratır, iki tarafı da oraya taşır ve
// her birine karşı tarafın profiliyle matched bildirimi gönderir.
func (s *sessionService) commitMatchLocked(first string, firstProfile models.Profile, second string, secondProfile models.Profile) {
	// uuid tabanlı oda adı: iki kimlik + zaman türetmesi yerine
	// çakışmaya dayanıklı üretici (yüksek eşzamanlılıkta da benzersiz).
	room := "match_" + uuid.NewString()
	s.roomRepo.Ensure(room)

	s.clearTypingLocked(first)
	s.clearTypingLocked(second)
	s.presenceRepo.SetRoom(first, room)
	s.presenceRepo.SetRoom(second, room)

	s.hub.BroadcastToConn(first, ws.Event{
		Op:   ws.OpMatched,
		Data: ws.MatchedData{Room: room, Match: secondProfile},
	})
	s.hub.BroadcastToConn(second, ws.Event{
		Op:   ws.OpMatched,
		Data: ws.MatchedData{Room: room, Match: firstProfile},
	})

	members := s.presenceRepo.ConnsInRoom(room)
	s.hub.BroadcastToConns(members, ws.Event{
		Op:   ws.OpUserList,
		Data: s.presenceRepo.ListInRoom(room),
	})
	s.hub.BroadcastToConns(members, ws.Event{
		Op:   ws.OpRoomMessages,
		Data: []models.Message{},
	})
}

// Disconnected, transport bağlantısı koptuğunda çağrılır:
// presence kaydı silinir, (retention kapalıysa) reaction'ları bırakılır,
// matchmaking kuyruğundan çıkarılır, typing set'lerinden temizlenir ve
// son odasına user_left + güncel kullanıcı listesi duyurulur.
func (s *sessionService) Disconnected(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.currentRoomLocked(connID)
	profile, hadProfile := s.presenceRepo.Unregister(connID)

	s.queueRepo.Remove(connID)
	s.clearTypingLocked(connID)

	if !s.chat.RetainReactions {
		// Disconnect eden kullanıcının reaction'ları geri çekilir ve
		// küçülen sayılar herkese duyurulur.
		// CHAT_RETAIN_REACTIONS=true ise ledger'a hiç dokunulmaz.
		for messageID, count := range s.reactionRepo.ReleaseAll(connID) {
			s.hub.BroadcastToAll(ws.Event{
				Op:   ws.OpMessageLoved,
				Data: ws.MessageLovedData{MessageID: messageID, Count: count},
			})
		}
	}

	members := s.presenceRepo.ConnsInRoom(room)
	if hadProfile {
		s.hub.BroadcastToConns(members, ws.Event{
			Op:   ws.OpUserLeft,
			Data: ws.UserLeftData{ID: connID, Username: profile.Username},
		})
	}
	s.hub.BroadcastToConns(members, ws.Event{
		Op:   ws.OpUserList,
		Data: s.presenceRepo.ListInRoom(room),
	})
}

// ─── HTTP read path'leri ───

func (s *sessionService) PageMessages(room string, before *time.Time, limit int) *models.MessagePage {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, hasMore := s.roomRepo.Page(room, before, limit)
	return &models.MessagePage{Messages: messages, HasMore: hasMore}
}

func (s *sessionService) UsersInRoom(room string) []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.presenceRepo.ListInRoom(room)
}

func (s *sessionService) RoomNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.roomRepo.RoomNames()
}

// ─── Yardımcılar ───

// currentRoomLocked, bağlantının mevcut odasını döner; oda kaydı hiç
// oluşmamışsa default oda varsayılır (savunmacı — transport Connected
// çağırmadan event gelirse bile handler çalışır).
func (s *sessionService) currentRoomLocked(connID string) string {
	if room, ok := s.presenceRepo.RoomOf(connID); ok {
		return room
	}
	return s.chat.DefaultRoom
}

// buildMessageLocked, gönderen profil snapshot'ı ile immutable mesaj üretir.
// Profil yoksa gönderen Anonymous'tur — asla error üretilmez.
func (s *sessionService) buildMessageLocked(connID string, content string, threadID *string, room string, isPrivate bool) models.Message {
	sender, ok := s.presenceRepo.Get(connID)
	if !ok {
		sender = models.Profile{ID: connID, Username: AnonymousUsername}
	}

	return models.Message{
		ID:        uuid.NewString(),
		Room:      room,
		SenderID:  connID,
		Sender:    sender,
		Content:   content,
		ThreadID:  threadID,
		IsPrivate: isPrivate,
		CreatedAt: time.Now().UTC(),
		Seq:       s.msgSeq.Add(1),
	}
}

// clearTypingLocked, bağlantıyı tüm typing set'lerinden çıkarır ve
// değişen her odaya güncel listeyi duyurur.
func (s *sessionService) clearTypingLocked(connID string) {
	for _, room := range s.roomRepo.ClearTyping(connID) {
		s.hub.BroadcastToConns(s.presenceRepo.ConnsInRoom(room), ws.Event{
			Op:   ws.OpTypingUsers,
			Data: s.roomRepo.TypingUsernames(room),
		})
	}
}
