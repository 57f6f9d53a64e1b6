// Package handlers, HTTP endpoint'lerini yöneten katmandır.
//
// Handler'lar stateless'tır: istekleri parse eder, service katmanına
// delege eder ve pkg.JSON / pkg.Error ile standart yanıt üretir.
// Chat'in asıl akışı WebSocket üzerindedir — buradaki endpoint'ler
// core'un read path'lerine açılan yardımcı pencerelerdir.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akinalp/mingle/pkg"
	"github.com/akinalp/mingle/services"
)

// MessageHandler, mesaj okuma endpoint'ini yöneten struct.
type MessageHandler struct {
	sessions services.SessionService
}

// NewMessageHandler, constructor.
func NewMessageHandler(sessions services.SessionService) *MessageHandler {
	return &MessageHandler{sessions: sessions}
}

// List godoc
// GET /api/messages/{room}?before=RFC3339&limit=20
// Odanın mesajlarını cursor-based pagination ile döner.
//
// Query parametreleri:
// - before: Bu zamandan KESİN eski mesajları getir (boş ya da parse
//   edilemezse boundary yok sayılır — en yenilerden başlanır)
// - limit: Kaç mesaj dönsün (default 20, max 100)
//
// Bilinmeyen oda error değildir — boş sayfa döner.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		// Parse edilemeyen boundary "boundary yok" muamelesi görür —
		// client'a error dönmek yerine en yeni sayfayı veririz.
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			before = &parsed
		} else if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			before = &parsed
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	page := h.sessions.PageMessages(room, before, limit)
	pkg.JSON(w, http.StatusOK, page)
}
