package repository

import (
	"sync"

	"github.com/akinalp/mingle/models"
)

// memoryPresenceRepo, PresenceRepository'nin in-memory implementasyonu.
//
// sync.RWMutex nedir?
// Mutex'in gelişmiş hali — birden fazla okuyucu aynı anda erişebilir (RLock),
// ama yazma işlemi sırasında tüm erişim bloklanır (Lock).
// Kullanıcı listesi gibi okuma ağırlıklı işlemlerde performans sağlar.
type memoryPresenceRepo struct {
	mu          sync.RWMutex
	profiles    map[string]models.Profile // connID → profil
	rooms       map[string]string         // connID → mevcut oda
	order       []string                  // kayıt sırası (ListInRoom kararlılığı için)
	defaultRoom string
}

// NewMemoryPresenceRepo, boş bir presence registry oluşturur.
// defaultRoom: henüz bir odası olmayan bağlantıların yerleştirileceği oda.
func NewMemoryPresenceRepo(defaultRoom string) PresenceRepository {
	return &memoryPresenceRepo{
		profiles:    make(map[string]models.Profile),
		rooms:       make(map[string]string),
		defaultRoom: defaultRoom,
	}
}

func (r *memoryPresenceRepo) Register(connID string, profile models.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// İkinci register profili günceller ama kayıt sırasındaki yerini korur.
	if _, exists := r.profiles[connID]; !exists {
		r.order = append(r.order, connID)
	}
	r.profiles[connID] = profile

	if _, ok := r.rooms[connID]; !ok {
		r.rooms[connID] = r.defaultRoom
	}
}

func (r *memoryPresenceRepo) Unregister(connID string) (models.Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[connID]
	if !ok {
		return models.Profile{}, false
	}

	delete(r.profiles, connID)
	delete(r.rooms, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return profile, true
}

func (r *memoryPresenceRepo) Get(connID string) (models.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[connID]
	return profile, ok
}

func (r *memoryPresenceRepo) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[connID]
	return room, ok
}

func (r *memoryPresenceRepo) SetRoom(connID string, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[connID] = room
}

func (r *memoryPresenceRepo) ListInRoom(room string) []models.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// order slice'ı üzerinden yürüyoruz — map iterasyonu Go'da rastgele
	// sıradadır, kararlı sıralama için eklenme sırasını ayrıca tutuyoruz.
	profiles := make([]models.Profile, 0)
	for _, id := range r.order {
		if r.rooms[id] == room {
			profiles = append(profiles, r.profiles[id])
		}
	}
	return profiles
}

func (r *memoryPresenceRepo) ConnsInRoom(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// rooms map'i üzerinden yürüyoruz, order üzerinden değil:
	// henüz user_join göndermemiş (profilsiz) bağlantılar da odadadır
	// ve broadcast'leri almalıdır. Broadcast hedef sırası önemsizdir.
	conns := make([]string, 0)
	for id, roomName := range r.rooms {
		if roomName == room {
			conns = append(conns, id)
		}
	}
	return conns
}
