package game

// ActionType is something the current player may declare on their turn.
type ActionType string

const (
	Income      ActionType = "income"
	ForeignAid  ActionType = "foreign_aid"
	Coup        ActionType = "coup"
	Tax         ActionType = "tax"
	Assassinate ActionType = "assassinate"
	Steal       ActionType = "steal"
	Exchange    ActionType = "exchange"
)

const (
	// StartingCoins is every player's balance when the game begins.
	StartingCoins = 2
	// CardsPerPlayer is the starting hand size.
	CardsPerPlayer = 2
	// ForcedCoupCoins is the balance at which coup becomes the only legal action.
	ForcedCoupCoins = 10
	// ExchangeDraw is how many court cards an Ambassador exchange draws.
	ExchangeDraw = 2
	// MaxSteal caps what a Captain takes from the target.
	MaxSteal = 2

	MinPlayers = 2
	MaxPlayers = 6
)

// ActionRule describes the cost, claim and counterplay of one action.
type ActionRule struct {
	// Character is the role claimed by declaring the action; empty for
	// general actions that cannot be challenged.
	Character   Character
	Cost        int
	NeedsTarget bool
	// Blockers are the roles that may block the action.
	Blockers []Character
	// Gain is the coin effect credited to the actor on resolution.
	Gain int
}

// Blockable reports whether anyone may block the action.
func (r ActionRule) Blockable() bool { return len(r.Blockers) > 0 }

// Challengeable reports whether declaring the action claims a character.
func (r ActionRule) Challengeable() bool { return r.Character != "" }

// BlockableBy reports whether c may block the action.
func (r ActionRule) BlockableBy(c Character) bool {
	for _, b := range r.Blockers {
		if b == c {
			return true
		}
	}
	return false
}

var actionRules = map[ActionType]ActionRule{
	Income:      {Gain: 1},
	ForeignAid:  {Blockers: []Character{Duke}, Gain: 2},
	Coup:        {Cost: 7, NeedsTarget: true},
	Tax:         {Character: Duke, Gain: 3},
	Assassinate: {Character: Assassin, Cost: 3, NeedsTarget: true, Blockers: []Character{Contessa}},
	Steal:       {Character: Captain, NeedsTarget: true, Blockers: []Character{Captain, Ambassador}},
	Exchange:    {Character: Ambassador},
}

// RuleFor returns the rule for t and whether t is a known action.
func RuleFor(t ActionType) (ActionRule, bool) {
	r, ok := actionRules[t]
	return r, ok
}
