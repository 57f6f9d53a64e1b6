package handlers

import (
	"net/http"

	"github.com/akinalp/mingle/pkg"
	"github.com/akinalp/mingle/services"
)

// RoomHandler, oda sorgulama endpoint'lerini yöneten struct.
type RoomHandler struct {
	sessions services.SessionService
}

// NewRoomHandler, constructor.
func NewRoomHandler(sessions services.SessionService) *RoomHandler {
	return &RoomHandler{sessions: sessions}
}

// List godoc
// GET /api/rooms
// Tüm oda adlarının snapshot'ını döner (oda seçici için).
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.sessions.RoomNames())
}

// Users godoc
// GET /api/users/{room}
// Odadaki kayıtlı profilleri döner. Bilinmeyen oda boş liste döner —
// NotFound her zaman boş sonuç olarak ele alınır, error olarak değil.
func (h *RoomHandler) Users(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")
	pkg.JSON(w, http.StatusOK, h.sessions.UsersInRoom(room))
}
