package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/mingle/models"
)

func profile(id, username string) models.Profile {
	return models.Profile{ID: id, Username: username}
}

func TestRegisterPlacesIntoDefaultRoom(t *testing.T) {
	repo := NewMemoryPresenceRepo("General")

	repo.Register("c1", profile("c1", "alice"))

	room, ok := repo.RoomOf("c1")
	require.True(t, ok)
	assert.Equal(t, "General", room)

	got, ok := repo.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestReRegisterUpdatesProfileKeepsRoom(t *testing.T) {
	repo := NewMemoryPresenceRepo("General")

	repo.Register("c1", profile("c1", "alice"))
	repo.SetRoom("c1", "Music")

	// İkinci user_join: profil güncellenir ama oda değişmez.
	repo.Register("c1", profile("c1", "alice2"))

	got, _ := repo.Get("c1")
	assert.Equal(t, "alice2", got.Username)

	room, _ := repo.RoomOf("c1")
	assert.Equal(t, "Music", room)
}

func TestListInRoomPreservesRegistrationOrder(t *testing.T) {
	repo := NewMemoryPresenceRepo("General")

	repo.Register("c1", profile("c1", "alice"))
	repo.Register("c2", profile("c2", "bob"))
	repo.Register("c3", profile("c3", "carol"))
	repo.SetRoom("c2", "Music")

	users := repo.ListInRoom("General")
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)

	assert.Empty(t, repo.ListInRoom("no-such-room"))
}

func TestConnsInRoomIncludesProfilelessConnections(t *testing.T) {
	repo := NewMemoryPresenceRepo("General")

	// Bağlantı açıldı ama henüz user_join göndermedi: SetRoom ile default
	// odaya yerleştirilir, profili yoktur — broadcast yine de ona ulaşmalı.
	repo.SetRoom("ghost", "General")
	repo.Register("c1", profile("c1", "alice"))

	conns := repo.ConnsInRoom("General")
	assert.ElementsMatch(t, []string{"ghost", "c1"}, conns)

	// Profil listesinde ise görünmez.
	assert.Len(t, repo.ListInRoom("General"), 1)
}

func TestUnregisterRemovesEverything(t *testing.T) {
	repo := NewMemoryPresenceRepo("General")

	repo.Register("c1", profile("c1", "alice"))

	got, ok := repo.Unregister("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	_, ok = repo.Get("c1")
	assert.False(t, ok)
	_, ok = repo.RoomOf("c1")
	assert.False(t, ok)
	assert.Empty(t, repo.ConnsInRoom("General"))

	// İkinci unregister no-op.
	_, ok = repo.Unregister("c1")
	assert.False(t, ok)
}
