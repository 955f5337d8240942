package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/JoaoCarvalho515/coup/storage"
)

// RoomManager 管理本进程的在线房间，只保护 code 到房间的映射；
// 每个房间由自己的循环保护自身状态。房间有连接时留在内存，状态保存在存储中
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	store storage.RoomStore
	opts  RoomOptions
}

// NewRoomManager 创建通过 store 读写房间的管理器
func NewRoomManager(store storage.RoomStore, opts RoomOptions) *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
		store: store,
		opts:  opts.withDefaults(),
	}
}

// Get 返回 code 对应的在线房间
func (m *RoomManager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Has 判断 code 对应的房间是否在本进程中在线
func (m *RoomManager) Has(code string) bool {
	_, ok := m.Get(code)
	return ok
}

// Open 为一个连接取得 code 对应的房间，调用方随后必须调用 Room.Connect。
// 内存中没有时从存储恢复；从未创建的房间仅在 create 为真时实例化，
// 否则返回 ErrRoomNotFound
func (m *RoomManager) Open(ctx context.Context, code string, create bool) (*Room, error) {
	m.mu.RLock()
	if r, ok := m.rooms[code]; ok {
		r.pending.Add(1)
		m.mu.RUnlock()
		return r, nil
	}
	m.mu.RUnlock()

	rec, err := m.store.GetRoom(ctx, code)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		rec = storage.RoomRecord{Code: code}
	case err != nil:
		return nil, fmt.Errorf("load room %s: %w", code, err)
	}
	if !rec.Created && !create {
		return nil, ErrRoomNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// 读取存储期间可能已有其他连接加载了该房间
	if r, ok := m.rooms[code]; ok {
		r.pending.Add(1)
		return r, nil
	}
	r := newRoom(code, rec, m.store, m.opts)
	r.release = m.unload
	r.pending.Add(1)
	m.rooms[code] = r
	r.start()
	if rec.Created {
		r.log.Infow("room restored", "members", len(rec.Members), "inGame", rec.State != nil)
	}
	return r, nil
}

// unload 将空闲房间移出映射；经 Open 取得但尚未到达房间的连接存在时拒绝
func (m *RoomManager) unload(r *Room) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rooms[r.Code] != r || r.pending.Load() > 0 {
		return false
	}
	delete(m.rooms, r.Code)
	return true
}

// Codes 按字典序列出在线房间码
func (m *RoomManager) Codes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Close 停止所有房间
func (m *RoomManager) Close() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()
	for _, r := range rooms {
		r.Stop()
	}
}
