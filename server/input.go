package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JoaoCarvalho515/coup/game"
)

// 客户端消息类型。连字符写法（"start-game"）也接受，统一归一化为下列值
const (
	MsgJoin          = "join"
	MsgStartGame     = "start_game"
	MsgKick          = "kick"
	MsgReturnToLobby = "return_to_lobby"
	MsgAction        = "action"
	MsgBlock         = "block"
	MsgPassBlock     = "pass_block"
	MsgChallenge     = "challenge"
	MsgPassChallenge = "pass_challenge"
	MsgExchange      = "exchange"
	MsgLoseInfluence = "lose_influence"
	MsgGetState      = "get_state"
	MsgPing          = "ping"
)

// ErrInvalidMessage 无法解析为已知消息时返回
var ErrInvalidMessage = errors.New("Invalid message format")

// InputMessage 客户端消息的统一信封，例如
// {"type":"action","payload":{"type":"steal","targetId":"p2"}}
type InputMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	Name       string `json:"name"`
	PlayerName string `json:"playerName"`
}

type kickPayload struct {
	PlayerID string `json:"playerId"`
}

type actionPayload struct {
	Type     game.ActionType `json:"type"`
	TargetID string          `json:"targetId"`
}

type blockPayload struct {
	Claim game.Character `json:"claimedCharacter"`
}

type challengePayload struct {
	TargetID       string         `json:"targetId"`
	TargetPlayerID string         `json:"targetPlayerId"`
	Claim          game.Character `json:"claimedCharacter"`
}

type exchangePayload struct {
	Kept []string `json:"keptCardIds"`
}

type loseInfluencePayload struct {
	CardID string `json:"cardId"`
}

// decodeInput 将一帧文本解析为信封
func decodeInput(data []byte) (InputMessage, error) {
	var im InputMessage
	if err := json.Unmarshal(data, &im); err != nil {
		return InputMessage{}, ErrInvalidMessage
	}
	im.Type = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(im.Type)), "-", "_")
	if im.Type == "kick_player" {
		im.Type = MsgKick
	}
	if im.Type == "" {
		return InputMessage{}, ErrInvalidMessage
	}
	return im, nil
}

func (im InputMessage) decode(v any) error {
	if len(im.Payload) == 0 {
		return fmt.Errorf("%w: %s needs a payload", ErrInvalidMessage, im.Type)
	}
	if err := json.Unmarshal(im.Payload, v); err != nil {
		return ErrInvalidMessage
	}
	return nil
}

// isGameIntent 判断消息类型是否对应引擎意图
func isGameIntent(msgType string) bool {
	switch msgType {
	case MsgAction, MsgBlock, MsgPassBlock, MsgChallenge, MsgPassChallenge, MsgExchange, MsgLoseInfluence:
		return true
	}
	return false
}

// intentFor 将 playerID 发来的游戏消息转换为引擎意图
// 行动者永远取自连接，不信任载荷
func intentFor(playerID string, im InputMessage) (game.Intent, error) {
	switch im.Type {
	case MsgAction:
		var p actionPayload
		if err := im.decode(&p); err != nil {
			return nil, err
		}
		return game.PerformAction{Actor: playerID, Type: p.Type, Target: p.TargetID}, nil
	case MsgBlock:
		var p blockPayload
		if err := im.decode(&p); err != nil {
			return nil, err
		}
		return game.Block{Blocker: playerID, Character: p.Claim}, nil
	case MsgPassBlock:
		return game.PassBlock{Player: playerID}, nil
	case MsgChallenge:
		var p challengePayload
		if err := im.decode(&p); err != nil {
			return nil, err
		}
		target := p.TargetID
		if target == "" {
			target = p.TargetPlayerID
		}
		return game.Challenge{Challenger: playerID, Target: target, Character: p.Claim}, nil
	case MsgPassChallenge:
		return game.PassChallenge{Player: playerID}, nil
	case MsgExchange:
		var p exchangePayload
		if err := im.decode(&p); err != nil {
			return nil, err
		}
		return game.ExchangeCards{Player: playerID, Keep: p.Kept}, nil
	case MsgLoseInfluence:
		var p loseInfluencePayload
		// 载荷为空时翻开第一张未翻开的牌
		if len(im.Payload) > 0 {
			if err := im.decode(&p); err != nil {
				return nil, err
			}
		}
		return game.LoseInfluence{Player: playerID, CardID: p.CardID}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, im.Type)
}
