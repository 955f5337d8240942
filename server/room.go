package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JoaoCarvalho515/coup/game"
	"github.com/JoaoCarvalho515/coup/storage"
)

// 协调器的拒绝原因，文本即客户端看到的提示
var (
	ErrRoomNotFound     = errors.New("Incorrect Game Code or No Session Found")
	ErrGameStarted      = errors.New("The Game Already Started")
	ErrHostOnlyStart    = errors.New("Only the host can start the game")
	ErrHostOnlyKick     = errors.New("Only the host can kick players")
	ErrHostOnlyReturn   = errors.New("Only the host can end a running game")
	ErrNotEnoughPlayers = errors.New("Need at least 2 players to start")
	ErrLobbyFull        = errors.New("The lobby is full")
	ErrNameRequired     = errors.New("A player name is required")
	ErrKickAfterStart   = errors.New("Cannot kick players after game has started")
	ErrKickSelf         = errors.New("The host cannot kick themselves")
	ErrUnknownMember    = errors.New("Player not found")
	ErrNoGame           = errors.New("No game in progress")
	ErrNotMember        = errors.New("Join the lobby first")
	ErrSaveFailed       = errors.New("Could not save the game, please try again")
	ErrLoadFailed       = errors.New("Could not load the game, please try again")
)

const tracerName = "github.com/JoaoCarvalho515/coup/server"

// Conn 房间眼中的一个客户端连接。Send 不得阻塞；Close 先写完已发送的内容再关闭
type Conn interface {
	ID() string
	Send(msg []byte)
	Close()
}

// RoomOptions RoomManager 创建房间时使用的参数
type RoomOptions struct {
	// SaveTimeout 单次持久化写入的超时
	SaveTimeout time.Duration
	// NewEngine 为每个房间构造规则引擎；nil 时使用按时间播种的引擎
	NewEngine func() *game.Engine
	// Now 持久化记录的时间戳；nil 时使用 time.Now
	Now func() time.Time
}

func (o RoomOptions) withDefaults() RoomOptions {
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 5 * time.Second
	}
	if o.NewEngine == nil {
		o.NewEngine = func() *game.Engine { return game.NewEngine(nil, nil) }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Room 一局游戏的权威拥有者。通道以下的状态只由房间循环读写
type Room struct {
	Code string

	store   storage.RoomStore
	engine  *game.Engine
	opts    RoomOptions
	log     *zap.SugaredLogger
	tracer  trace.Tracer
	metrics *RoomMetrics

	events   chan roomEvent
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	// pending 经 RoomManager.Open 交出、尚未处理的连接数；
	// release 在房间空闲时将其卸载
	pending atomic.Int32
	release func(*Room) bool

	created bool
	lobby   Lobby
	state   *game.State
	conns   sessions
}

// newRoom 由 rec 恢复房间；零值记录即未创建的房间
func newRoom(code string, rec storage.RoomRecord, store storage.RoomStore, opts RoomOptions) *Room {
	opts = opts.withDefaults()
	return &Room{
		Code:    code,
		store:   store,
		engine:  opts.NewEngine(),
		opts:    opts,
		log:     Log.With("room", code),
		tracer:  otel.Tracer(tracerName),
		metrics: &RoomMetrics{},
		events:  make(chan roomEvent, 256),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		created: rec.Created,
		lobby:   Lobby{Members: rec.Members, HostID: rec.HostID}.clone(),
		state:   rec.State.Clone(),
		conns:   make(sessions),
	}
}

// Metrics 暴露房间指标
func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// persist 写入候选房间记录，仅在成功后调用方才采用该候选
func (r *Room) persist(ctx context.Context, created bool, lobby Lobby, state *game.State) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.SaveTimeout)
	defer cancel()
	err := r.store.PutRoom(ctx, storage.RoomRecord{
		Code:      r.Code,
		Created:   created,
		HostID:    lobby.HostID,
		Members:   lobby.Members,
		State:     state,
		UpdatedAt: r.opts.Now(),
	})
	if err != nil {
		r.metrics.IncSaveFailure()
		r.log.Errorw("save room", "error", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// commit 持久化候选状态，成功后采用
func (r *Room) commit(ctx context.Context, created bool, lobby Lobby, state *game.State) error {
	if err := r.persist(ctx, created, lobby, state); err != nil {
		return err
	}
	r.created, r.lobby, r.state = created, lobby, state
	return nil
}

func (r *Room) broadcast(msg []byte) {
	for _, sess := range r.conns {
		sess.conn.Send(msg)
	}
	r.metrics.IncBroadcast()
}

func (r *Room) reject(c Conn, err error) {
	r.metrics.IncRejected()
	text := err.Error()
	if errors.Is(err, ErrSaveFailed) {
		text = ErrSaveFailed.Error()
	}
	c.Send(errorMessage(text))
}

// onConnect 接纳、恢复或拒绝新连接
func (r *Room) onConnect(ctx context.Context, c Conn, playerID, action string) {
	if action == "create" && !r.created {
		if err := r.commit(ctx, true, r.lobby, r.state); err != nil {
			c.Send(errorMessage(ErrSaveFailed.Error()))
			c.Close()
			return
		}
		r.log.Infow("room created", "player", playerID)
	}
	if !r.created {
		c.Send(errorMessage(ErrRoomNotFound.Error()))
		c.Close()
		return
	}

	if r.state != nil {
		if !r.state.HasPlayer(playerID) {
			c.Send(errorMessage(ErrGameStarted.Error()))
			c.Close()
			return
		}
		r.conns.add(c, playerID)
		r.log.Infow("player reconnected", "player", playerID, "conn", c.ID())
		c.Send(stateMessage(r.state))
		return
	}

	r.conns.add(c, playerID)
	r.log.Infow("player connected", "player", playerID, "conn", c.ID())
	c.Send(lobbyMessage(OutWaiting, r.lobby))
}

// onMessage 解析并分发一帧客户端消息
func (r *Room) onMessage(ctx context.Context, c Conn, data []byte) {
	sess, ok := r.conns[c.ID()]
	if !ok {
		// 被踢或被拒的连接可能仍有在途消息
		return
	}
	im, err := decodeInput(data)
	if err != nil {
		r.metrics.IncProtocolError()
		c.Send(errorMessage(ErrInvalidMessage.Error()))
		return
	}

	ctx, span := r.tracer.Start(ctx, "room."+im.Type, trace.WithAttributes(
		attribute.String("room.code", r.Code),
		attribute.String("player.id", sess.playerID),
	))
	defer span.End()

	if err := r.dispatch(ctx, c, sess.playerID, im); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrInvalidMessage) {
			r.metrics.IncProtocolError()
			r.log.Debugw("bad message", "player", sess.playerID, "error", err)
			c.Send(errorMessage(ErrInvalidMessage.Error()))
			return
		}
		r.log.Debugw("intent rejected", "player", sess.playerID, "type", im.Type, "error", err)
		r.reject(c, err)
	}
}

func (r *Room) dispatch(ctx context.Context, c Conn, playerID string, im InputMessage) error {
	switch im.Type {
	case MsgJoin:
		var p joinPayload
		if err := im.decode(&p); err != nil {
			return err
		}
		name := p.Name
		if name == "" {
			name = p.PlayerName
		}
		return r.join(ctx, playerID, name)
	case MsgStartGame:
		return r.startGame(ctx, playerID)
	case MsgKick:
		var p kickPayload
		if err := im.decode(&p); err != nil {
			return err
		}
		return r.kick(ctx, playerID, p.PlayerID)
	case MsgReturnToLobby:
		return r.returnToLobby(ctx, playerID)
	case MsgGetState:
		if r.state != nil {
			c.Send(stateMessage(r.state))
		} else {
			c.Send(lobbyMessage(OutWaiting, r.lobby))
		}
		return nil
	case MsgPing:
		c.Send(pongMessage())
		return nil
	}
	if isGameIntent(im.Type) {
		in, err := intentFor(playerID, im)
		if err != nil {
			return err
		}
		return r.applyIntent(ctx, in)
	}
	return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, im.Type)
}

func (r *Room) join(ctx context.Context, playerID, name string) error {
	if r.state != nil {
		return ErrGameStarted
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if !r.lobby.has(playerID) && len(r.lobby.Members) >= game.MaxPlayers {
		return ErrLobbyFull
	}
	lobby := r.lobby.clone()
	lobby.upsert(storage.Member{ID: playerID, Name: name})
	if err := r.commit(ctx, r.created, lobby, r.state); err != nil {
		return err
	}
	r.metrics.IncAccepted()
	r.log.Infow("player joined", "player", playerID, "name", name, "host", r.lobby.HostID)
	r.broadcast(lobbyMessage(OutPlayersUpdated, r.lobby))
	return nil
}

func (r *Room) startGame(ctx context.Context, playerID string) error {
	if r.state != nil {
		return ErrGameStarted
	}
	if playerID != r.lobby.HostID {
		return ErrHostOnlyStart
	}
	if len(r.lobby.Members) < game.MinPlayers {
		return ErrNotEnoughPlayers
	}
	seats := make([]game.Seat, 0, len(r.lobby.Members))
	for _, m := range r.lobby.Members {
		seats = append(seats, game.Seat{ID: m.ID, Name: m.Name})
	}
	state, err := r.engine.NewGame(seats)
	if err != nil {
		return err
	}
	if err := r.commit(ctx, r.created, r.lobby, state); err != nil {
		return err
	}
	r.metrics.IncAccepted()
	r.metrics.IncGamesStarted()
	r.log.Infow("game started", "game", state.ID, "players", len(seats))
	r.broadcast(gameStartedMessage(r.state))
	return nil
}

func (r *Room) kick(ctx context.Context, playerID, targetID string) error {
	if playerID != r.lobby.HostID {
		return ErrHostOnlyKick
	}
	if r.state != nil {
		return ErrKickAfterStart
	}
	if targetID == playerID {
		return ErrKickSelf
	}
	lobby := r.lobby.clone()
	if !lobby.remove(targetID) {
		return ErrUnknownMember
	}
	if err := r.commit(ctx, r.created, lobby, r.state); err != nil {
		return err
	}
	r.metrics.IncAccepted()
	r.log.Infow("player kicked", "player", targetID, "by", playerID)

	// 先把被踢玩家的连接移出注册表，使其不在名单广播中，关闭时也不算离开
	kicked := r.conns.of(targetID)
	for _, sess := range kicked {
		delete(r.conns, sess.conn.ID())
	}
	r.broadcast(lobbyMessage(OutPlayersUpdated, r.lobby))
	for _, sess := range kicked {
		sess.conn.Send(kickedMessage())
		sess.conn.Close()
	}
	return nil
}

func (r *Room) returnToLobby(ctx context.Context, playerID string) error {
	if r.state == nil {
		return ErrNoGame
	}
	if !r.state.Over() && playerID != r.lobby.HostID {
		return ErrHostOnlyReturn
	}
	if r.state.Over() && playerID != r.lobby.HostID && !r.lobby.has(playerID) && !r.state.HasPlayer(playerID) {
		return ErrNotMember
	}

	lobby := r.lobby.clone()
	for _, m := range r.lobby.Members {
		if r.conns.live(m.ID) == 0 {
			lobby.remove(m.ID)
		}
	}
	if err := r.commit(ctx, r.created, lobby, nil); err != nil {
		return err
	}
	r.metrics.IncAccepted()
	r.log.Infow("returned to lobby", "by", playerID, "members", len(r.lobby.Members))
	r.broadcast(stateMessage(nil))
	r.broadcast(lobbyMessage(OutPlayersUpdated, r.lobby))
	return nil
}

// applyIntent 执行一次引擎状态转换，持久化后广播新的权威状态
func (r *Room) applyIntent(ctx context.Context, in game.Intent) error {
	if r.state == nil {
		return ErrNoGame
	}
	start := time.Now()
	next, err := r.engine.Apply(r.state, in)
	r.metrics.AddApply(time.Since(start))
	if err != nil {
		return err
	}
	if err := r.commit(ctx, r.created, r.lobby, next); err != nil {
		return err
	}
	r.metrics.IncAccepted()
	if r.state.Over() {
		r.log.Infow("game over", "game", r.state.ID, "winner", r.state.Winner)
	}
	r.broadcast(stateMessage(r.state))
	return nil
}

// onLeave 处理关闭的连接；只有玩家的最后一个连接断开才算离开
func (r *Room) onLeave(ctx context.Context, c Conn) {
	sess, ok := r.conns[c.ID()]
	if !ok {
		return
	}
	delete(r.conns, c.ID())
	r.log.Infow("connection closed", "player", sess.playerID, "conn", c.ID())
	if r.conns.live(sess.playerID) > 0 {
		return
	}

	if r.state == nil {
		lobby := r.lobby.clone()
		if !lobby.remove(sess.playerID) {
			return
		}
		if err := r.commit(ctx, r.created, lobby, r.state); err != nil {
			return
		}
		r.broadcast(lobbyMessage(OutPlayersUpdated, r.lobby))
		return
	}

	p := r.state.Player(sess.playerID)
	if r.state.Over() || p == nil || !p.Alive {
		return
	}
	role := r.state.RoleOf(sess.playerID)
	ctx, span := r.tracer.Start(ctx, "room.disconnect", trace.WithAttributes(
		attribute.String("room.code", r.Code),
		attribute.String("player.id", sess.playerID),
		attribute.String("player.role", role.String()),
	))
	defer span.End()
	if err := r.applyIntent(ctx, game.Disconnect{Player: sess.playerID}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Errorw("disconnect elimination failed", "player", sess.playerID, "error", err)
		return
	}
	r.metrics.IncDisconnectElim()
	r.log.Infow("player eliminated by disconnect", "player", sess.playerID, "role", role.String())
}

// RoomInfo 房间某一时刻的摘要，供管理接口与测试使用
type RoomInfo struct {
	Code        string           `json:"code"`
	Created     bool             `json:"created"`
	HostID      string           `json:"hostId"`
	Members     []storage.Member `json:"members"`
	Connections int              `json:"connections"`
	Phase       game.Phase       `json:"phase"`
	Turn        int              `json:"turn"`
	Winner      string           `json:"winner,omitempty"`
	State       *game.State      `json:"-"`
}

func (r *Room) info() RoomInfo {
	info := RoomInfo{
		Code:        r.Code,
		Created:     r.created,
		HostID:      r.lobby.HostID,
		Members:     r.lobby.clone().Members,
		Connections: len(r.conns),
		Phase:       game.PhaseWaiting,
		State:       r.state.Clone(),
	}
	if r.state != nil {
		info.Phase = r.state.Phase
		info.Turn = r.state.Turn
		info.Winner = r.state.Winner
	}
	return info
}
