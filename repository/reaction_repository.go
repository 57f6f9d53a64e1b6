package repository

// ReactionRepository, mesaj ID → reaction veren bağlantı set'i
// (Reaction Ledger).
//
// Ledger odalardan bilinçli olarak bağımsızdır: reaction'lar oda
// kapsamında değil, tüm bağlantılara broadcast edilir. Log'dan evict
// edilmiş ya da hiç var olmamış bir mesaja reaction vermek de geçerlidir —
// UI yalnızca sayıyı kullanır, mesajın hâlâ durup durmadığını değil.
type ReactionRepository interface {
	// React, bağlantıyı mesajın reactor set'ine ekler ve yeni set
	// boyutunu döner. Bağlantı zaten set'teyse no-op'tur (idempotent):
	// bir bağlantı bir mesajın sayısına en fazla bir birim katar.
	React(messageID string, connID string) int

	// Count, mesajın güncel reaction sayısını döner (bilinmeyen mesaj: 0).
	Count(messageID string) int

	// ReleaseAll, bağlantıyı tüm reactor set'lerinden çıkarır ve sayısı
	// değişen mesajların yeni sayılarını döner. Disconnect'te reaction
	// retention kapalıysa çağrılır — açıksa ledger'a hiç dokunulmaz.
	ReleaseAll(connID string) map[string]int
}
