package storage

import (
	"context"
	"sync"
	"time"

	"convoguard/verdict/pkg/audit"
)

// MemoryStorage is an in-memory audit storage backend for development and
// tests. Records are held in insertion order; all operations are guarded
// by a single mutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[string]*audit.Record
	ordered []*audit.Record // insertion order, oldest first
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID: make(map[string]*audit.Record),
	}
}

// Store persists a record. A record with a duplicate id replaces the
// previous one in the id index but keeps both entries in time order.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.byID[record.ID] = &copied
	s.ordered = append(s.ordered, &copied)
	return nil
}

// GetByID retrieves a record by audit id.
func (s *MemoryStorage) GetByID(ctx context.Context, id string) (*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, &audit.NotFoundError{ID: id}
	}
	copied := *record
	return &copied, nil
}

// GetByConversation retrieves all records for a conversation id, newest
// first.
func (s *MemoryStorage) GetByConversation(ctx context.Context, conversationID string) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*audit.Record
	for i := len(s.ordered) - 1; i >= 0; i-- {
		if s.ordered[i].ConversationID == conversationID {
			copied := *s.ordered[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Recent retrieves the n most recent records, newest first.
func (s *MemoryStorage) Recent(ctx context.Context, n int) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.ordered) {
		n = len(s.ordered)
	}

	out := make([]*audit.Record, 0, n)
	for i := len(s.ordered) - 1; i >= 0 && len(out) < n; i-- {
		copied := *s.ordered[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.ordered)), nil
}

// DeleteOlderThan removes records created before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ordered[:0]
	var deleted int64
	for _, record := range s.ordered {
		if record.CreatedAt.Before(cutoff) {
			delete(s.byID, record.ID)
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.ordered = kept
	return deleted, nil
}

// DeleteOverflow removes the oldest records until at most max remain.
func (s *MemoryStorage) DeleteOverflow(ctx context.Context, max int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overflow := int64(len(s.ordered)) - max
	if overflow <= 0 {
		return 0, nil
	}

	for _, record := range s.ordered[:overflow] {
		delete(s.byID, record.ID)
	}
	s.ordered = append(s.ordered[:0], s.ordered[overflow:]...)
	return overflow, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
