package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Server 保存各 HTTP 处理器共享的依赖
type Server struct {
	Rooms *RoomManager
	Codes *CodeGenerator

	upgrader websocket.Upgrader
}

// NewServer 将处理器接到房间管理器上；allowedOrigins 为空时允许所有来源
func NewServer(rooms *RoomManager, codes *CodeGenerator, allowedOrigins []string) *Server {
	return &Server{
		Rooms:    rooms,
		Codes:    codes,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// Routes 返回包含全部接口的 HTTP 处理器
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/api/generate-code", s.HandleGenerateCode)
	mux.HandleFunc("/admin/rooms", s.HandleAdminRooms)
	mux.HandleFunc("/metrics", s.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
