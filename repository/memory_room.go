package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/akinalp/mingle/models"
)

// room, dizindeki tek bir odanın iç state'i.
type room struct {
	// messages, kronolojik sırada bounded log. En fazla HistoryLimit
	// eleman — aşınca önden düşer.
	messages []models.Message

	// typing, connID → username. Username'i burada da tutuyoruz çünkü
	// typing_users broadcast'i username listesi ister ve disconnect
	// temizliğinde presence kaydı çoktan silinmiş olabilir.
	typing map[string]string

	// emptySince, reaper'ın odayı en son boş gördüğü an.
	// Sıfır değeri "dolu görüldü" demektir.
	emptySince time.Time
}

// memoryRoomRepo, RoomRepository'nin in-memory implementasyonu.
type memoryRoomRepo struct {
	mu    sync.RWMutex
	rooms map[string]*room
	order []string // oluşturulma sırası (RoomNames kararlılığı için)
}

// NewMemoryRoomRepo, boş bir oda dizini oluşturur.
func NewMemoryRoomRepo() RoomRepository {
	return &memoryRoomRepo{
		rooms: make(map[string]*room),
	}
}

// ensureLocked, odayı oluşturur (yoksa). Çağıran yazma kilidini tutmalı.
func (r *memoryRoomRepo) ensureLocked(name string) (*room, bool) {
	if existing, ok := r.rooms[name]; ok {
		return existing, false
	}
	created := &room{typing: make(map[string]string)}
	r.rooms[name] = created
	r.order = append(r.order, name)
	return created, true
}

func (r *memoryRoomRepo) Ensure(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, created := r.ensureLocked(name)
	return created
}

func (r *memoryRoomRepo) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[name]
	return ok
}

func (r *memoryRoomRepo) Append(name string, msg models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, _ := r.ensureLocked(name)
	rm.messages = append(rm.messages, msg)

	// FIFO eviction: uzunluk HistoryLimit'e inene kadar önden düş.
	if len(rm.messages) > HistoryLimit {
		overflow := len(rm.messages) - HistoryLimit
		// copy + yeniden dilimleme — evict edilen mesajların altta yatan
		// array'de GC'yi engellememesi için yeni slice'a taşıyoruz.
		trimmed := make([]models.Message, HistoryLimit)
		copy(trimmed, rm.messages[overflow:])
		rm.messages = trimmed
	}
}

func (r *memoryRoomRepo) Page(name string, before *time.Time, limit int) ([]models.Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[name]
	if !ok || limit <= 0 {
		// Bilinmeyen oda error değil, boş sonuçtur.
		return []models.Message{}, false
	}

	// Log zaten kronolojik — boundary'den kesin eski olanları al.
	// Strict "<" kullanıyoruz ki boundary mesajının kendisi bir sonraki
	// sayfada tekrar dönmesin.
	eligible := rm.messages
	if before != nil {
		cut := len(eligible)
		for i, msg := range eligible {
			if !msg.CreatedAt.Before(*before) {
				cut = i
				break
			}
		}
		eligible = eligible[:cut]
	}

	start := len(eligible) - limit
	if start < 0 {
		start = 0
	}

	page := make([]models.Message, len(eligible)-start)
	copy(page, eligible[start:])
	return page, start > 0
}

func (r *memoryRoomRepo) SetTyping(name string, connID string, username string, typing bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, _ := r.ensureLocked(name)
	if typing {
		rm.typing[connID] = username
	} else {
		delete(rm.typing, connID)
	}
	return typingUsernames(rm)
}

func (r *memoryRoomRepo) ClearTyping(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := make([]string, 0)
	for _, name := range r.order {
		rm := r.rooms[name]
		if _, ok := rm.typing[connID]; ok {
			delete(rm.typing, connID)
			changed = append(changed, name)
		}
	}
	return changed
}

func (r *memoryRoomRepo) TypingUsernames(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[name]
	if !ok {
		return []string{}
	}
	return typingUsernames(rm)
}

func (r *memoryRoomRepo) RoomNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *memoryRoomRepo) ReapEmpty(grace time.Duration, occupied func(room string) bool, protected map[string]bool) []string {
	if grace <= 0 {
		// Reaping kapalı: odalar sonsuza kadar yaşar.
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	reaped := make([]string, 0)
	surviving := r.order[:0]

	for _, name := range r.order {
		rm := r.rooms[name]

		switch {
		case protected[name] || occupied(name):
			rm.emptySince = time.Time{}
			surviving = append(surviving, name)

		case rm.emptySince.IsZero():
			// İlk kez boş görüldü — grace süresi şimdi başlıyor.
			rm.emptySince = now
			surviving = append(surviving, name)

		case now.Sub(rm.emptySince) >= grace:
			delete(r.rooms, name)
			reaped = append(reaped, name)

		default:
			surviving = append(surviving, name)
		}
	}

	r.order = surviving
	return reaped
}

// typingUsernames, typing set'inin username listesini alfabetik döner.
// Map iterasyonu rastgele sıralıdır — broadcast payload'ının deterministik
// olması için sıralıyoruz.
func typingUsernames(rm *room) []string {
	names := make([]string, 0, len(rm.typing))
	for _, username := range rm.typing {
		names = append(names, username)
	}
	sort.Strings(names)
	return names
}
