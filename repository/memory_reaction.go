package repository

import "sync"

// memoryReactionRepo, ReactionRepository'nin in-memory implementasyonu.
//
// Go'da set yoktur — map[string]bool kullanılır. bool değeri her zaman
// true'dur, sadece varlık kontrolü için.
type memoryReactionRepo struct {
	mu       sync.RWMutex
	reactors map[string]map[string]bool // messageID → connID set
}

// NewMemoryReactionRepo, boş bir reaction ledger oluşturur.
func NewMemoryReactionRepo() ReactionRepository {
	return &memoryReactionRepo{
		reactors: make(map[string]map[string]bool),
	}
}

func (r *memoryReactionRepo) React(messageID string, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.reactors[messageID]
	if !ok {
		// Bilinmeyen mesaj ID'si taze bir set yaratır — asla error değil.
		set = make(map[string]bool)
		r.reactors[messageID] = set
	}
	set[connID] = true
	return len(set)
}

func (r *memoryReactionRepo) Count(messageID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.reactors[messageID])
}

func (r *memoryReactionRepo) ReleaseAll(connID string) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := make(map[string]int)
	for messageID, set := range r.reactors {
		if set[connID] {
			delete(set, connID)
			changed[messageID] = len(set)
			if len(set) == 0 {
				delete(r.reactors, messageID)
			}
		}
	}
	return changed
}
