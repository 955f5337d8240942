package server

import (
	"encoding/json"

	"github.com/JoaoCarvalho515/coup/game"
	"github.com/JoaoCarvalho515/coup/storage"
)

// 服务端消息类型
const (
	OutWaiting        = "waiting"
	OutPlayersUpdated = "players_updated"
	OutGameStarted    = "game_started"
	OutState          = "state"
	OutKicked         = "kicked"
	OutError          = "error"
	OutPong           = "pong"
)

// OutputMessage 服务端消息信封
type OutputMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// LobbyPayload waiting 与 players_updated 携带的名单
type LobbyPayload struct {
	Players []storage.Member `json:"players"`
	HostID  string           `json:"hostId"`
}

// GameStartedPayload 新对局的首个快照
type GameStartedPayload struct {
	GameState game.View `json:"gameState"`
}

// MessagePayload kicked 与 error 携带的提示文本
type MessagePayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload any) []byte {
	b, err := json.Marshal(OutputMessage{Type: msgType, Payload: payload})
	if err != nil {
		// 载荷都是普通结构体，只有编程错误才会走到这里
		Log.Errorw("encode message", "type", msgType, "error", err)
		return []byte(`{"type":"error","payload":{"message":"internal error"}}`)
	}
	return b
}

func lobbyMessage(msgType string, l Lobby) []byte {
	players := l.Members
	if players == nil {
		players = []storage.Member{}
	}
	return encode(msgType, LobbyPayload{Players: players, HostID: l.HostID})
}

// stateMessage 渲染给客户端的状态；nil 状态发送为 null
func stateMessage(s *game.State) []byte {
	if s == nil {
		return encode(OutState, nil)
	}
	return encode(OutState, s.View())
}

func gameStartedMessage(s *game.State) []byte {
	return encode(OutGameStarted, GameStartedPayload{GameState: s.View()})
}

func errorMessage(text string) []byte {
	return encode(OutError, MessagePayload{Message: text})
}

func kickedMessage() []byte {
	return encode(OutKicked, MessagePayload{Message: "You have been kicked from the game"})
}

func pongMessage() []byte {
	return encode(OutPong, nil)
}
