package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Seat is a lobby member taking part in a new game.
type Seat struct {
	ID   string
	Name string
}

// Intent is a typed request to change the game. The concrete types below are
// the complete set.
type Intent interface {
	intent()
}

// PerformAction declares an action for the current turn.
type PerformAction struct {
	Actor  string
	Type   ActionType
	Target string
}

// Block counters the pending action by claiming a character.
type Block struct {
	Blocker   string
	Character Character
}

// PassBlock declines to block the pending action.
type PassBlock struct {
	Player string
}

// Challenge contests the live character claim held by Target.
type Challenge struct {
	Challenger string
	Target     string
	Character  Character
}

// PassChallenge declines to challenge the live claim.
type PassChallenge struct {
	Player string
}

// LoseInfluence pays an owed influence loss. An empty CardID reveals the
// first unrevealed card.
type LoseInfluence struct {
	Player string
	CardID string
}

// ExchangeCards chooses which cards to keep after an Ambassador draw.
type ExchangeCards struct {
	Player string
	Keep   []string
}

// Disconnect eliminates a player whose connection dropped and unblocks
// whatever the game was waiting on from them.
type Disconnect struct {
	Player string
}

func (PerformAction) intent() {}
func (Block) intent()         {}
func (PassBlock) intent()     {}
func (Challenge) intent()     {}
func (PassChallenge) intent() {}
func (LoseInfluence) intent() {}
func (ExchangeCards) intent() {}
func (Disconnect) intent()    {}

// Engine applies intents to game states. It holds only the shuffle source and
// clock; an Engine is not safe for concurrent use, each room owns one.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine constructs an Engine with the provided rng and clock, or a
// time-seeded source and time.Now when nil.
func NewEngine(rng *rand.Rand, now func() time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{rng: rng, now: now}
}

// NewGame deals a fresh game for seats in the given order.
func (e *Engine) NewGame(seats []Seat) (*State, error) {
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, ErrPlayerCount
	}
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.ID == "" || seen[s.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, s.ID)
		}
		seen[s.ID] = true
	}

	s := &State{
		ID:    "game-" + uuid.NewString(),
		Cards: NewDeck(),
		Phase: PhaseAction,
		Turn:  1,
	}
	s.NextPos = len(s.Cards)
	t := &txn{State: s, e: e}
	t.shuffleCourt()

	for _, seat := range seats {
		s.Players = append(s.Players, Player{
			ID:    seat.ID,
			Name:  seat.Name,
			Coins: StartingCoins,
			Alive: true,
		})
		for i := 0; i < CardsPerPlayer; i++ {
			t.draw(seat.ID)
		}
	}
	s.CurrentPlayerIndex = e.rng.Intn(len(s.Players))
	t.log("Game started", "", "", "")
	return s, nil
}

// Apply validates in against s and returns the resulting state. s itself is
// never modified; on error the returned state is nil.
func (e *Engine) Apply(s *State, in Intent) (*State, error) {
	if s == nil {
		return nil, ErrWrongPhase
	}
	t := &txn{State: s.Clone(), e: e}
	var err error
	switch in := in.(type) {
	case PerformAction:
		err = t.performAction(in)
	case Block:
		err = t.block(in)
	case PassBlock:
		err = t.passBlock(in)
	case Challenge:
		err = t.challenge(in)
	case PassChallenge:
		err = t.passChallenge(in)
	case LoseInfluence:
		err = t.loseInfluence(in)
	case ExchangeCards:
		err = t.exchange(in)
	case Disconnect:
		err = t.disconnect(in)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
	if err != nil {
		return nil, err
	}
	return t.State, nil
}

// txn is a working copy of a state for the duration of one transition.
type txn struct {
	*State
	e *Engine
}

func (t *txn) log(message, playerID string, action ActionType, targetID string) {
	t.Log = append(t.Log, LogEntry{
		Timestamp:  t.e.now().UnixMilli(),
		Message:    message,
		PlayerID:   playerID,
		ActionType: action,
		TargetID:   targetID,
		Turn:       t.Turn,
	})
}

// livePlayer looks up id and requires it to still hold influence.
func (t *txn) livePlayer(id string) (*Player, error) {
	p := t.Player(id)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if !p.Alive {
		return nil, ErrPlayerEliminated
	}
	return p, nil
}

func (t *txn) name(id string) string {
	if p := t.Player(id); p != nil {
		return p.Name
	}
	return id
}

func (t *txn) markPassed(id string) bool {
	if t.HasPassed(id) {
		return false
	}
	t.PassedPlayers = append(t.PassedPlayers, id)
	return true
}

// allPassed reports whether every id in eligible has passed.
func (t *txn) allPassed(eligible []string) bool {
	for _, id := range eligible {
		if !t.HasPassed(id) {
			return false
		}
	}
	return true
}
