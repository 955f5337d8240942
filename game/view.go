package game

// CardView is a card as clients see it.
type CardView struct {
	ID        string    `json:"id"`
	Character Character `json:"character"`
	Revealed  bool      `json:"revealed"`
}

// PlayerView is a seat with its hand attached.
type PlayerView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Coins     int        `json:"coins"`
	Cards     []CardView `json:"cards"`
	Influence int        `json:"influence"`
	Alive     bool       `json:"isAlive"`
}

// View is the snapshot broadcast to clients after every transition. Hands
// are attached to their players; the court deck is reduced to its size.
type View struct {
	ID                   string            `json:"id"`
	Players              []PlayerView      `json:"players"`
	CurrentPlayerIndex   int               `json:"currentPlayerIndex"`
	CourtDeckSize        int               `json:"courtDeckSize"`
	DiscardPile          []CardView        `json:"discardPile"`
	Phase                Phase             `json:"phase"`
	PendingAction        *PendingAction    `json:"pendingAction"`
	PendingBlock         *PendingBlock     `json:"pendingBlock"`
	PendingChallenge     *PendingChallenge `json:"pendingChallenge"`
	PendingExchangeCards []CardView        `json:"pendingExchangeCards"`
	PendingInfluenceLoss string            `json:"pendingInfluenceLoss,omitempty"`
	PassedPlayers        []string          `json:"passedPlayers"`
	Winner               string            `json:"winner,omitempty"`
	Turn                 int               `json:"turn"`
	Log                  []LogEntry        `json:"log"`
}

// View renders the client snapshot of s.
func (s *State) View() View {
	c := s.Clone()
	v := View{
		ID:                 c.ID,
		CurrentPlayerIndex: c.CurrentPlayerIndex,
		CourtDeckSize:      len(c.cardsAt(courtDeck)),
		DiscardPile:        cardViews(c.cardsAt(discard)),
		Phase:              c.Phase,
		PendingAction:      c.PendingAction,
		PendingBlock:       c.PendingBlock,
		PendingChallenge:   c.PendingChallenge,
		PassedPlayers:      append([]string{}, c.PassedPlayers...),
		Winner:             c.Winner,
		Turn:               c.Turn,
		Log:                c.Log,
	}
	if drawn := c.cardsAt(exchange); len(drawn) > 0 {
		v.PendingExchangeCards = cardViews(drawn)
	}
	if c.PendingInfluenceLoss != nil {
		v.PendingInfluenceLoss = c.PendingInfluenceLoss.PlayerID
	}
	for _, p := range c.Players {
		v.Players = append(v.Players, PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Coins:     p.Coins,
			Cards:     cardViews(c.cardsAt(inHand(p.ID))),
			Influence: c.Influence(p.ID),
			Alive:     p.Alive,
		})
	}
	return v
}

func cardViews(cards []*Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardView{ID: c.ID, Character: c.Character, Revealed: c.Revealed})
	}
	return out
}
