package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendQueueSize  = 64
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1 << 20 // 1MB
)

// ClientConn 包装一个 WebSocket。写入经有界队列由 writePump 发出，慢客户端不会拖住房间
type ClientConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClientConn(id string, ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:   id,
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}
}

func (c *ClientConn) ID() string { return c.id }

// Send 将消息压入队列（非阻塞）。队列满则断开该客户端，重连时会收到最新快照
func (c *ClientConn) Send(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		Log.Warnw("send queue full, dropping connection", "conn", c.id)
		c.closed = true
		close(c.send)
	}
}

// Close 停止接收新消息，已排队的消息仍会在关闭前写出
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端文本帧交给房间，连接结束时通知房间离开
func (c *ClientConn) readPump(room *Room) {
	defer func() {
		c.Close()
		_ = room.Leave(c)
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				Log.Debugw("read error", "conn", c.id, "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err := room.Receive(c, payload); err != nil {
			return
		}
	}
}

// newUpgrader 放行不带 Origin 头的请求；白名单非空时只放行名单内来源
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allow := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allow[o] = true
		}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allow) == 0 || allow[origin]
		},
	}
}

// HandleWS WebSocket 接入：/ws?room=ABCD&playerId=alice[&action=create]
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.ToUpper(strings.TrimSpace(q.Get("room")))
	if code == "" {
		http.Error(w, "missing room query", http.StatusBadRequest)
		return
	}
	connID := uuid.NewString()
	playerID := strings.TrimSpace(q.Get("playerId"))
	if playerID == "" {
		playerID = connID
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade failed", "room", code, "error", err)
		return
	}
	client := NewClientConn(connID, ws)
	go client.writePump()

	action := q.Get("action")
	room, err := s.Rooms.Open(r.Context(), code, action == "create")
	if err != nil {
		msg := ErrRoomNotFound
		if !errors.Is(err, ErrRoomNotFound) {
			Log.Errorw("load room", "room", code, "error", err)
			msg = ErrLoadFailed
		}
		client.Send(errorMessage(msg.Error()))
		client.Close()
		return
	}
	if err := room.Connect(client, playerID, action); err != nil {
		client.Close()
		return
	}
	go client.readPump(room)
}
