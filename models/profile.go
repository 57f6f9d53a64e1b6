package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Profile, bir bağlantının kendini tanıttığı kullanıcı profili.
//
// ID, server'ın ürettiği connection ID'dir (uuid) — kullanıcı hesabı yok,
// kimlik bağlantı ömrü kadar yaşar. Authentication bilinçli olarak kapsam dışı.
//
// Profil mesajlara REFERANS olarak değil, KOPYA olarak girer:
// kullanıcı daha sonra profilini değiştirse bile eski mesajlar
// gönderildikleri andaki sender bilgisini korur (snapshot semantiği).
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// JoinRequest, user_join event'inin payload'ı — client'ın kendini tanıtması.
type JoinRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// Validate, JoinRequest'in geçerli olup olmadığını kontrol eder.
// Username zorunlu, 1-32 karakter. Avatar ve bio opsiyoneldir.
func (r *JoinRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	nameLen := utf8.RuneCountInString(r.Username)
	if nameLen < 1 {
		return fmt.Errorf("username is required")
	}
	if nameLen > 32 {
		return fmt.Errorf("username must be at most 32 characters")
	}
	if utf8.RuneCountInString(r.Bio) > 500 {
		return fmt.Errorf("bio must be at most 500 characters")
	}
	return nil
}

// Profile, JoinRequest'ten verilen connection ID ile bir Profile üretir.
func (r *JoinRequest) Profile(connID string) Profile {
	return Profile{
		ID:        connID,
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		Bio:       r.Bio,
	}
}
