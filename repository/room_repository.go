package repository

import (
	"time"

	"github.com/akinalp/mingle/models"
)

// HistoryLimit, bir odanın bellekte tuttuğu maksimum mesaj sayısı.
//
// Bu bir HARD CAP'tir, config'e bilinçli olarak taşınmadı:
// sistemin "kalıcı geçmiş yok" kapsam sınırının sayısal ifadesidir.
// Limit aşıldığında en eski mesajlar önden düşer (FIFO eviction).
const HistoryLimit = 100

// RoomRepository, oda dizini (Room Directory): oda adı → bounded mesaj
// log'u + typing set.
//
// Odalar talep üzerine oluşturulur (Ensure) ve ancak reaper tarafından
// silinir. Invariant: bir bağlantıya "katıldın" denmeden önce oda
// dizinde var olmalıdır — coordinator her joined_room ack'inden önce
// Ensure çağırır.
type RoomRepository interface {
	// Ensure, odayı döndürür ya da boş olarak oluşturur; asla başarısız
	// olmaz. Dönüş değeri true ise oda bu çağrıda yaratıldı demektir
	// (room_list broadcast'i gerekir).
	Ensure(name string) bool

	// Exists, oda dizinde var mı kontrol eder.
	Exists(name string) bool

	// Append, mesajı odanın log'una ekler. Uzunluk HistoryLimit'i
	// aşarsa önden evict eder. Oda yoksa sessizce oluşturulur.
	Append(name string, msg models.Message)

	// Page, before'dan KESİN olarak eski (strict <) en yeni `limit`
	// mesajı kronolojik sırayla döner. before nil ise en yeni `limit`
	// mesaj döner. İkinci dönüş değeri: pencerede daha eski mesaj
	// kaldı mı (has_more).
	//
	// Bellekteki pencere HistoryLimit ile sınırlı olduğu için pencere
	// dışına taşan pagination boş sayfa döner — tükenme sinyali budur.
	Page(name string, before *time.Time, limit int) ([]models.Message, bool)

	// SetTyping, bağlantıyı odanın typing set'ine ekler/çıkarır ve
	// set'in güncel username listesini döner (broadcast payload'ı).
	SetTyping(name string, connID string, username string, typing bool) []string

	// ClearTyping, bağlantıyı TÜM odaların typing set'lerinden çıkarır
	// (disconnect temizliği) ve set'i değişen oda adlarını döner.
	ClearTyping(connID string) []string

	// TypingUsernames, odanın güncel typing listesini döner.
	TypingUsernames(name string) []string

	// RoomNames, tüm oda adlarının snapshot'ını oluşturulma sırasıyla döner.
	RoomNames() []string

	// ReapEmpty, grace süresinden uzun süredir boş duran korumasız
	// odaları siler ve silinenlerin adlarını döner.
	//
	// occupied: odada canlı bağlantı var mı (presence registry'den gelir —
	// dizin kendi başına üyelik bilmez, Dependency Inversion).
	// protected: asla silinmeyecek odalar (default + seed odalar).
	ReapEmpty(grace time.Duration, occupied func(room string) bool, protected map[string]bool) []string
}
