package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Message, bir chat mesajını temsil eder.
//
// Oluşturulduktan sonra immutable'dır — reaction sayısı bile mesajın
// üzerinde tutulmaz, reaction ledger ayrı bir bileşendir. Böylece oda
// log'undan düşen (evict edilen) bir mesaja gelen reaction'lar sorunsuz
// sayılmaya devam eder.
//
// Sender alanı, gönderenin o anki profilinin KOPYASIDIR (snapshot).
// Profil sonradan değişse de geçmiş mesajlar sabit kalır.
type Message struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	SenderID  string    `json:"sender_id"`
	Sender    Profile   `json:"sender"`
	Content   string    `json:"content"`
	ThreadID  *string   `json:"thread_id,omitempty"` // Opsiyonel — bir mesaja cevap ise
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`

	// Seq, process-scoped, kesin artan sıra numarası.
	//
	// Neden timestamp yetmiyor?
	// Aynı milisaniyede gelen iki mesajın timestamp'i eşit olabilir.
	// Seq eşitlik durumunda append sırasını korur — oda içi FIFO garantisi
	// için pagination ve sıralama Seq'e güvenebilir.
	Seq int64 `json:"seq"`
}

// MessagePage, cursor-based pagination (sayfalama) sonucu.
//
// Cursor-based pagination nedir?
// Offset-based ("LIMIT 20 OFFSET 40") yerine "bu zamandan önceki 20 mesajı
// getir" kullanır. Avantajı: Yeni mesaj eklendiğinde sayfa kayması olmaz.
//
// Geçmiş bellekte 100 mesajla sınırlı olduğu için pencerenin dışına
// taşan pagination BOŞ sayfa döner — client bunu "daha eskisi yok"
// olarak yorumlar. Kalıcı depolama bilinçli olarak kapsam dışı.
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

// SendMessageRequest, send_message event'inin payload'ı.
type SendMessageRequest struct {
	Content  string  `json:"message"`
	ThreadID *string `json:"thread_id,omitempty"`
}

// Validate, SendMessageRequest'in geçerli olup olmadığını kontrol eder.
// İçerik 1-2000 karakter arası olmalı.
func (r *SendMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("message content is required")
	}
	if contentLen > 2000 {
		return fmt.Errorf("message content must be at most 2000 characters")
	}
	return nil
}

// UploadResult, /api/upload yanıtı: saklanan dosyanın erişim URL'i ve
// client'ın gönderdiği orijinal ad.
type UploadResult struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
}

// ValidateRoomName, oda adının geçerli olup olmadığını kontrol eder.
// join_room ve create_room event'leri boundary'de bunu çağırır.
func ValidateRoomName(name string) error {
	name = strings.TrimSpace(name)
	nameLen := utf8.RuneCountInString(name)
	if nameLen < 1 {
		return fmt.Errorf("room name is required")
	}
	if nameLen > 64 {
		return fmt.Errorf("room name must be at most 64 characters")
	}
	return nil
}
