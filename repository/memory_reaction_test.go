package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactIsIdempotentPerConnection(t *testing.T) {
	repo := NewMemoryReactionRepo()

	assert.Equal(t, 1, repo.React("msg-1", "bob"))
	// Aynı bağlantının ikinci reaksiyonu sayacı değiştirmez.
	assert.Equal(t, 1, repo.React("msg-1", "bob"))
	assert.Equal(t, 1, repo.Count("msg-1"))
}

func TestReactCountsDistinctConnections(t *testing.T) {
	repo := NewMemoryReactionRepo()

	repo.React("msg-1", "alice")
	repo.React("msg-1", "bob")
	assert.Equal(t, 2, repo.React("msg-1", "carol"))

	// Bilinmeyen mesaj ID'si error değil: sayaç sıfırdan başlar.
	assert.Equal(t, 0, repo.Count("never-seen"))
	assert.Equal(t, 1, repo.React("never-seen", "alice"))
}

func TestReleaseAllReturnsOnlyChangedCounts(t *testing.T) {
	repo := NewMemoryReactionRepo()

	repo.React("msg-1", "alice")
	repo.React("msg-1", "bob")
	repo.React("msg-2", "bob")
	repo.React("msg-3", "alice")

	changed := repo.ReleaseAll("bob")
	assert.Equal(t, map[string]int{"msg-1": 1, "msg-2": 0}, changed)

	// Dokunulmayan mesaj etkilenmez, bob'un izi tamamen silinir.
	assert.Equal(t, 1, repo.Count("msg-3"))
	assert.Equal(t, 0, repo.Count("msg-2"))
	assert.Empty(t, repo.ReleaseAll("bob"))
}
