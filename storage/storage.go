// Package storage defines persistence contracts for room state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/JoaoCarvalho515/coup/game"
)

// ErrNotFound indicates a requested room record is missing.
var ErrNotFound = errors.New("record not found")

// Member is one lobby roster entry, in join order.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomRecord is the durable snapshot of one room: whether it was created,
// who is in the lobby, who hosts and the game in progress if any.
type RoomRecord struct {
	Code      string
	Created   bool
	HostID    string
	Members   []Member
	State     *game.State
	UpdatedAt time.Time
}

// Clone returns a deep copy of r.
func (r RoomRecord) Clone() RoomRecord {
	out := r
	out.Members = append([]Member(nil), r.Members...)
	out.State = r.State.Clone()
	return out
}

// RoomStore persists room records keyed by room code. PutRoom replaces the
// whole record.
type RoomStore interface {
	GetRoom(ctx context.Context, code string) (RoomRecord, error)
	PutRoom(ctx context.Context, rec RoomRecord) error
}
