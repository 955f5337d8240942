// Package sqlite provides a SQLite-backed room storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JoaoCarvalho515/coup/game"
	"github.com/JoaoCarvalho515/coup/storage"
	"github.com/JoaoCarvalho515/coup/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists room records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.RoomStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite room store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; the coordinator already serializes per room.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetRoom returns the record stored for code.
func (s *Store) GetRoom(ctx context.Context, code string) (storage.RoomRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.RoomRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.RoomRecord{}, fmt.Errorf("storage is not configured")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return storage.RoomRecord{}, fmt.Errorf("room code is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT code, created, host_id, members_json, state_json, updated_at
		   FROM rooms
		  WHERE code = ?`,
		code,
	)

	var (
		rec       storage.RoomRecord
		created   int
		members   string
		state     sql.NullString
		updatedAt int64
	)
	if err := row.Scan(&rec.Code, &created, &rec.HostID, &members, &state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RoomRecord{}, storage.ErrNotFound
		}
		return storage.RoomRecord{}, fmt.Errorf("get room: %w", err)
	}
	rec.Created = created != 0
	rec.UpdatedAt = fromMillis(updatedAt)
	if err := json.Unmarshal([]byte(members), &rec.Members); err != nil {
		return storage.RoomRecord{}, fmt.Errorf("decode members of room %s: %w", code, err)
	}
	if state.Valid && state.String != "" {
		rec.State = &game.State{}
		if err := json.Unmarshal([]byte(state.String), rec.State); err != nil {
			return storage.RoomRecord{}, fmt.Errorf("decode state of room %s: %w", code, err)
		}
	}
	return rec, nil
}

// PutRoom inserts or replaces the record for rec.Code.
func (s *Store) PutRoom(ctx context.Context, rec storage.RoomRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	code := strings.TrimSpace(rec.Code)
	if code == "" {
		return fmt.Errorf("room code is required")
	}

	members := rec.Members
	if members == nil {
		members = []storage.Member{}
	}
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	var stateJSON sql.NullString
	if rec.State != nil {
		raw, err := json.Marshal(rec.State)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		stateJSON = sql.NullString{String: string(raw), Valid: true}
	}
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	created := 0
	if rec.Created {
		created = 1
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO rooms (code, created, host_id, members_json, state_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   created = excluded.created,
		   host_id = excluded.host_id,
		   members_json = excluded.members_json,
		   state_json = excluded.state_json,
		   updated_at = excluded.updated_at`,
		code, created, rec.HostID, string(membersJSON), stateJSON, toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put room %s: %w", code, err)
	}
	return nil
}
