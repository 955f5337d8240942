package game

// Phase is the step of the turn protocol the game is waiting on.
type Phase string

const (
	// PhaseWaiting is the coordinator's lobby phase; the engine never
	// produces it.
	PhaseWaiting         Phase = "waiting"
	PhaseAction          Phase = "action"
	PhaseBlockWindow     Phase = "block_window"
	PhaseChallengeWindow Phase = "challenge_window"
	PhaseExchange        Phase = "exchange"
	PhaseLoseInfluence   Phase = "lose_influence"
	PhaseGameOver        Phase = "game_over"
)

// Player is one seat at the table. Cards live in the state's arena.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Coins int    `json:"coins"`
	Alive bool   `json:"isAlive"`
}

// PendingAction is the action declared this turn.
type PendingAction struct {
	Type     ActionType `json:"type"`
	ActorID  string     `json:"actorId"`
	TargetID string     `json:"targetId,omitempty"`
	// Claim is the role the actor asserts; empty for general actions.
	Claim Character `json:"claimedCharacter,omitempty"`
}

// PendingBlock is a counter-claim against the pending action.
type PendingBlock struct {
	BlockerID string    `json:"blockerId"`
	Claim     Character `json:"claimedCharacter"`
}

// PendingChallenge records a resolved challenge until the influence it
// cost has been paid.
type PendingChallenge struct {
	ChallengerID string    `json:"challengerId"`
	ClaimantID   string    `json:"claimantId"`
	Claim        Character `json:"claimedCharacter"`
	OfBlock      bool      `json:"isBlockChallenge"`
}

// LossCause says why an influence loss is owed, which decides what the
// game does once it is paid.
type LossCause string

const (
	// LossActionEffect: a coup or assassination landed; the turn ends.
	LossActionEffect LossCause = "action_effect"
	// LossBluffedAction: the actor lost a challenge; the action is void.
	LossBluffedAction LossCause = "bluffed_action"
	// LossFailedActionChallenge: the challenger was wrong; the action proceeds.
	LossFailedActionChallenge LossCause = "failed_action_challenge"
	// LossBluffedBlock: the blocker lost a challenge; the action resolves.
	LossBluffedBlock LossCause = "bluffed_block"
	// LossFailedBlockChallenge: the block was genuine; the action is cancelled.
	LossFailedBlockChallenge LossCause = "failed_block_challenge"
)

// PendingInfluenceLoss names the player who must reveal a card.
type PendingInfluenceLoss struct {
	PlayerID string    `json:"playerId"`
	Cause    LossCause `json:"cause"`
}

// LogEntry is one line of the append-only game log.
type LogEntry struct {
	Timestamp  int64      `json:"timestamp"`
	Message    string     `json:"message"`
	PlayerID   string     `json:"playerId,omitempty"`
	ActionType ActionType `json:"actionType,omitempty"`
	TargetID   string     `json:"targetId,omitempty"`
	Turn       int        `json:"turn"`
}

// State is the canonical game aggregate. The engine never mutates a State it
// was handed; every transition works on a Clone.
type State struct {
	ID                 string   `json:"id"`
	Players            []Player `json:"players"`
	Cards              []Card   `json:"cards"`
	NextPos            int      `json:"nextPos"`
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
	Phase              Phase    `json:"phase"`

	PendingAction        *PendingAction        `json:"pendingAction"`
	PendingBlock         *PendingBlock         `json:"pendingBlock"`
	PendingChallenge     *PendingChallenge     `json:"pendingChallenge"`
	PendingInfluenceLoss *PendingInfluenceLoss `json:"pendingInfluenceLoss"`
	PassedPlayers        []string              `json:"passedPlayers"`

	Winner string     `json:"winner,omitempty"`
	Turn   int        `json:"turn"`
	Log    []LogEntry `json:"log"`
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = append([]Player(nil), s.Players...)
	out.Cards = append([]Card(nil), s.Cards...)
	out.PassedPlayers = append([]string(nil), s.PassedPlayers...)
	out.Log = append([]LogEntry(nil), s.Log...)
	if s.PendingAction != nil {
		a := *s.PendingAction
		out.PendingAction = &a
	}
	if s.PendingBlock != nil {
		b := *s.PendingBlock
		out.PendingBlock = &b
	}
	if s.PendingChallenge != nil {
		c := *s.PendingChallenge
		out.PendingChallenge = &c
	}
	if s.PendingInfluenceLoss != nil {
		l := *s.PendingInfluenceLoss
		out.PendingInfluenceLoss = &l
	}
	return &out
}

// Player returns the player with id, or nil.
func (s *State) Player(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// AlivePlayers returns the ids of players still holding influence, in seat order.
func (s *State) AlivePlayers() []string {
	var ids []string
	for _, p := range s.Players {
		if p.Alive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// HasPlayer reports whether id has a seat in this game.
func (s *State) HasPlayer(id string) bool { return s.Player(id) != nil }

// Over reports whether the game has a winner.
func (s *State) Over() bool { return s.Phase == PhaseGameOver }

// HasPassed reports whether id already declined in the current window.
func (s *State) HasPassed(id string) bool {
	for _, p := range s.PassedPlayers {
		if p == id {
			return true
		}
	}
	return false
}

// claimant returns the holder of the live character claim and the claim:
// the blocker when a block exists, else the actor of a character action.
func (s *State) claimant() (string, Character) {
	if s.PendingBlock != nil {
		return s.PendingBlock.BlockerID, s.PendingBlock.Claim
	}
	if s.PendingAction != nil && s.PendingAction.Claim != "" {
		return s.PendingAction.ActorID, s.PendingAction.Claim
	}
	return "", ""
}
