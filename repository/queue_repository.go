package repository

// QueueRepository, eşleşme bekleyen bağlantıların FIFO kuyruğu
// (Matchmaking Queue).
//
// Invariant'lar:
//   - Bir bağlantı kuyrukta aynı anda en fazla bir kez bulunur.
//   - DequeuePair, diğer pairing denemelerine göre atomiktir: iki en
//     eski girdi tek bir kilit altında birlikte çıkarılır. İki ayrı
//     "tek çıkar" çağrısıyla pairing YAPILMAZ — araya giren bir çağrı
//     çifti bölebilirdi.
//
// Kuyruk kimlik çözmez; canlılık kontrolü (profil hâlâ var mı)
// coordinator'ın işidir. Stale çıkan girdinin canlı partneri Requeue ile
// kuyruğun ÖNÜNE geri konur — sessizce düşürülmez.
type QueueRepository interface {
	// Enqueue, bağlantıyı kuyruğun sonuna ekler. Zaten bekliyorsa
	// no-op'tur ve false döner (duplicate find_match istekleri).
	Enqueue(connID string) bool

	// DequeuePair, en eski iki girdiyi atomik olarak çıkarır.
	// Kuyrukta ikiden az girdi varsa ok=false döner ve kuyruk değişmez.
	DequeuePair() (first string, second string, ok bool)

	// Requeue, bağlantıyı kuyruğun ÖNÜNE ekler — stale partner
	// durumunda sıradaki önceliğini kaybetmesin diye.
	Requeue(connID string)

	// Remove, bağlantıyı kuyruktan çıkarır (disconnect temizliği).
	// Bulunduysa true döner.
	Remove(connID string) bool

	// Waiting, kuyruktaki girdi sayısını döner.
	Waiting() int
}
