package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleGenerateCode 生成新的房间码
// GET /api/generate-code -> {"code":"ABCD"}
func (s *Server) HandleGenerateCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": s.Codes.Next()})
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=ABCD
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("room")))
	if code == "" {
		http.Error(w, "missing room query", http.StatusBadRequest)
		return
	}
	room, ok := s.Rooms.Get(code)
	if !ok {
		http.Error(w, "room not loaded", http.StatusNotFound)
		return
	}
	info, err := room.Inspect(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    info,
		"metrics": room.Metrics().Snapshot(),
	})
}

// HandleAdminRooms 列出本进程已加载的全部房间
// GET /admin/rooms
func (s *Server) HandleAdminRooms(w http.ResponseWriter, r *http.Request) {
	rooms := make([]RoomInfo, 0)
	for _, code := range s.Rooms.Codes() {
		room, ok := s.Rooms.Get(code)
		if !ok {
			continue
		}
		info, err := room.Inspect(r.Context())
		if err != nil {
			continue
		}
		rooms = append(rooms, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}
