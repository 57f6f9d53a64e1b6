package repository

import "sync"

// memoryQueueRepo, QueueRepository'nin in-memory implementasyonu.
// Slice tabanlı FIFO + üyelik set'i — ikisi aynı mutex altında tutarlı kalır.
type memoryQueueRepo struct {
	mu      sync.Mutex
	waiting []string
	members map[string]bool
}

// NewMemoryQueueRepo, boş bir matchmaking kuyruğu oluşturur.
func NewMemoryQueueRepo() QueueRepository {
	return &memoryQueueRepo{
		members: make(map[string]bool),
	}
}

func (q *memoryQueueRepo) Enqueue(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.members[connID] {
		return false
	}
	q.waiting = append(q.waiting, connID)
	q.members[connID] = true
	return true
}

func (q *memoryQueueRepo) DequeuePair() (string, string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) < 2 {
		return "", "", false
	}

	// Strict FIFO: ilk isteyen ikinci isteyenle eşleşir —
	// rastgele ya da "best match" seçimi yok.
	first, second := q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	delete(q.members, first)
	delete(q.members, second)
	return first, second, true
}

func (q *memoryQueueRepo) Requeue(connID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.members[connID] {
		return
	}
	q.waiting = append([]string{connID}, q.waiting...)
	q.members[connID] = true
}

func (q *memoryQueueRepo) Remove(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.members[connID] {
		return false
	}
	delete(q.members, connID)
	for i, id := range q.waiting {
		if id == connID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			break
		}
	}
	return true
}

func (q *memoryQueueRepo) Waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.waiting)
}
