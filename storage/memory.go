package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps room records in process memory. It is the default when
// no database path is configured and what most tests run against.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]RoomRecord
	now   func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]RoomRecord), now: time.Now}
}

// GetRoom returns a copy of the record for code.
func (s *MemoryStore) GetRoom(ctx context.Context, code string) (RoomRecord, error) {
	if err := ctx.Err(); err != nil {
		return RoomRecord{}, err
	}
	s.mu.RLock()
	rec, ok := s.rooms[code]
	s.mu.RUnlock()
	if !ok {
		return RoomRecord{}, ErrNotFound
	}
	return rec.Clone(), nil
}

// PutRoom stores a copy of rec, stamping UpdatedAt when it is zero.
func (s *MemoryStore) PutRoom(ctx context.Context, rec RoomRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.Code) == "" {
		return fmt.Errorf("room code is required")
	}
	rec = rec.Clone()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now().UTC()
	}
	s.mu.Lock()
	s.rooms[rec.Code] = rec
	s.mu.Unlock()
	return nil
}

