// Package repository, coordinator'ın process-wide state store'larını barındırır.
//
// Repository pattern: her store için önce bir interface, sonra somut bir
// implementasyon. Service katmanı somut tipe değil interface'e bağımlıdır —
// testler izole instance'lar oluşturabilir (global mutable registry YOK,
// her şey main.go'da oluşturulup inject edilir).
//
// Tüm implementasyonlar in-memory'dir: sistemin kalıcı state'i yoktur,
// process restart'ında her şey sıfırdan kurulur. Bu bilinçli bir kapsam
// sınırıdır, bug değil.
package repository

import "github.com/akinalp/mingle/models"

// PresenceRepository, canlı bağlantı → profil + mevcut oda eşlemesi
// (Presence Registry).
//
// Hiçbir operasyon error dönmez — hepsi girdileri üzerinde total'dır.
// Olmayan bir bağlantı sorgulandığında (zero value, false) döner.
type PresenceRepository interface {
	// Register, profili bağlantıya bağlar. İkinci kez çağrılırsa
	// üzerine yazar (last write wins). Yan etki: bağlantı henüz bir
	// odada değilse default odaya yerleştirilir.
	Register(connID string, profile models.Profile)

	// Unregister, bağlantıyı siler ve profilini döner.
	// Bağlantı kayıtlı değilse (zero value, false).
	Unregister(connID string) (models.Profile, bool)

	// Get, bağlantının profilini döner.
	Get(connID string) (models.Profile, bool)

	// RoomOf, bağlantının şu an üyesi olduğu odayı döner.
	RoomOf(connID string) (string, bool)

	// SetRoom, bağlantıyı verilen odaya taşır (önceki üyelik düşer —
	// bir bağlantı aynı anda tam olarak bir odadadır).
	SetRoom(connID string, room string)

	// ListInRoom, odadaki kayıtlı profilleri registry'ye eklenme
	// sırasıyla döner. Sıralamanın dışarıya dönük başka bir anlamı yok,
	// sadece aynı snapshot için kararlıdır.
	ListInRoom(room string) []models.Profile

	// ConnsInRoom, odadaki bağlantı ID'lerini döner (broadcast hedefleri).
	ConnsInRoom(room string) []string
}
