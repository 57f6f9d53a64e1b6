package services

import (
	"log"
	"time"

	"github.com/akinalp/mingle/repository"
	"github.com/akinalp/mingle/ws"
)

// sweepInterval, reaper'ın oda dizinini tarama aralığı.
// Grace süresinden bağımsızdır — grace "ne kadar boş kalırsa silinir",
// bu ise "ne sıklıkla bakılır" sorusunun cevabıdır.
const sweepInterval = time.Minute

// Reaper, boş odaları grace süresi sonunda dizinden düşüren arka plan
// görevlisi.
//
// Eşleşme odaları kullanım başına üretildiği için dizin temizlenmezse
// sınırsız büyür. Ömür politikası: default oda ve seed odalar korunur,
// geri kalan her oda "içinde canlı bağlantı yok" durumunda grace süresi
// kadar kaldıysa silinir. ROOM_REAP_GRACE_MINUTES=0 reaping'i tamamen
// kapatır (odalar sonsuza kadar yaşar).
type Reaper struct {
	roomRepo     repository.RoomRepository
	presenceRepo repository.PresenceRepository
	hub          ws.EventPublisher
	grace        time.Duration
	protected    map[string]bool
	stop         chan struct{}
}

// NewReaper, constructor. protectedRooms: asla silinmeyecek odalar
// (default oda + seed odalar).
func NewReaper(
	roomRepo repository.RoomRepository,
	presenceRepo repository.PresenceRepository,
	hub ws.EventPublisher,
	grace time.Duration,
	protectedRooms []string,
) *Reaper {
	protected := make(map[string]bool, len(protectedRooms))
	for _, room := range protectedRooms {
		protected[room] = true
	}
	return &Reaper{
		roomRepo:     roomRepo,
		presenceRepo: presenceRepo,
		hub:          hub,
		grace:        grace,
		protected:    protected,
		stop:         make(chan struct{}),
	}
}

// Run, reaper döngüsünü başlatır. main.go'da `go reaper.Run()` ile çağrılır.
func (r *Reaper) Run() {
	if r.grace <= 0 {
		log.Println("[reaper] disabled (ROOM_REAP_GRACE_MINUTES=0), rooms live forever")
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// Stop, reaper'ı durdurur (graceful shutdown).
func (r *Reaper) Stop() {
	close(r.stop)
}

// sweep, tek bir tarama geçişi yapar ve oda silindiyse güncel oda
// listesini herkese duyurur.
func (r *Reaper) sweep() {
	reaped := r.roomRepo.ReapEmpty(r.grace, r.occupied, r.protected)
	if len(reaped) == 0 {
		return
	}

	log.Printf("[reaper] removed %d empty room(s): %v", len(reaped), reaped)
	r.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpRoomList,
		Data: ws.RoomListData{Rooms: r.roomRepo.RoomNames()},
	})
}

// occupied, odada canlı bağlantı olup olmadığını presence registry'den öğrenir.
func (r *Reaper) occupied(room string) bool {
	return len(r.presenceRepo.ConnsInRoom(room)) > 0
}
