package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/mingle/models"
)

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestRoomListReturnsSnapshot(t *testing.T) {
	sessions := newSeededSessions(0, time.Now())
	sessions.Connected("c1")
	sessions.Join("c1", models.JoinRequest{Username: "alice"})
	sessions.CreateRoom("c1", "Music")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms", NewRoomHandler(sessions).List)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []string
	decodeData(t, rec, &rooms)
	assert.Equal(t, []string{"General", "Music"}, rooms)
}

func TestRoomUsersListsProfiles(t *testing.T) {
	sessions := newSeededSessions(0, time.Now())
	sessions.Connected("c1")
	sessions.Join("c1", models.JoinRequest{Username: "alice", Bio: "merhaba"})
	sessions.Connected("c2")
	sessions.Join("c2", models.JoinRequest{Username: "bob"})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/{room}", NewRoomHandler(sessions).Users)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/General", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.Profile
	decodeData(t, rec, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "merhaba", users[0].Bio)
	assert.Equal(t, "bob", users[1].Username)

	// Bilinmeyen oda: boş liste, error değil.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/Atlantis", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	users = nil
	decodeData(t, rec, &users)
	assert.Empty(t, users)
}
