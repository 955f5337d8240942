package server

import (
	"context"
	"errors"
)

// ErrRoomStopped 房间循环已结束
var ErrRoomStopped = errors.New("room stopped")

// roomEvent 房间循环处理的一个事件
type roomEvent any

type connectEvent struct {
	conn     Conn
	playerID string
	action   string
}

type messageEvent struct {
	conn Conn
	data []byte
}

type leaveEvent struct {
	conn Conn
}

type inspectEvent struct {
	reply chan RoomInfo
}

// start 启动房间循环：事件按到达顺序逐个处理，房间状态只在此协程中读写
func (r *Room) start() {
	go func() {
		defer close(r.stopped)
		for {
			select {
			case ev := <-r.events:
				r.handle(ev)
				if r.unloadIfIdle(ev) {
					return
				}
			case <-r.done:
				for _, sess := range r.conns {
					sess.conn.Close()
				}
				return
			}
		}
	}()
}

func (r *Room) handle(ev roomEvent) {
	ctx := context.Background()
	switch ev := ev.(type) {
	case connectEvent:
		r.pending.Add(-1)
		r.onConnect(ctx, ev.conn, ev.playerID, ev.action)
	case messageEvent:
		r.onMessage(ctx, ev.conn, ev.data)
	case leaveEvent:
		r.onLeave(ctx, ev.conn)
	case inspectEvent:
		ev.reply <- r.info()
	}
}

// unloadIfIdle 连接或离开事件后房间已无连接时结束循环。
// 房间的一切已在存储中，下次 Open 会恢复
func (r *Room) unloadIfIdle(ev roomEvent) bool {
	switch ev.(type) {
	case connectEvent, leaveEvent:
	default:
		return false
	}
	if len(r.conns) > 0 || r.release == nil || !r.release(r) {
		return false
	}
	r.log.Infow("room unloaded", "created", r.created)
	r.stopOnce.Do(func() { close(r.done) })
	return true
}

// post 将事件入队，队列满时阻塞等待；事件从不丢弃，仅在房间停止后失败
func (r *Room) post(ev roomEvent) error {
	select {
	case <-r.done:
		return ErrRoomStopped
	default:
	}
	select {
	case r.events <- ev:
		return nil
	case <-r.done:
		return ErrRoomStopped
	}
}

// Connect 将新连接交给房间；客户端请求建房时 action 为 "create"
func (r *Room) Connect(c Conn, playerID, action string) error {
	return r.post(connectEvent{conn: c, playerID: playerID, action: action})
}

// Receive 排队处理来自 c 的一帧文本
func (r *Room) Receive(c Conn, data []byte) error {
	return r.post(messageEvent{conn: c, data: data})
}

// Leave 通知房间 c 已断开
func (r *Room) Leave(c Conn) error {
	return r.post(leaveEvent{conn: c})
}

// Inspect 在此前入队的事件都处理完后返回房间摘要
func (r *Room) Inspect(ctx context.Context) (RoomInfo, error) {
	reply := make(chan RoomInfo, 1)
	select {
	case r.events <- inspectEvent{reply: reply}:
	case <-r.done:
		return RoomInfo{}, ErrRoomStopped
	case <-ctx.Done():
		return RoomInfo{}, ctx.Err()
	}
	select {
	case info := <-reply:
		return info, nil
	case <-r.done:
		return RoomInfo{}, ErrRoomStopped
	case <-ctx.Done():
		return RoomInfo{}, ctx.Err()
	}
}

// Stop 结束循环并关闭所有在线连接，仍在队列中的事件被丢弃
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	<-r.stopped
}
