package game

import (
	"fmt"
	"sort"
)

// Character is one of the five court roles printed on influence cards.
type Character string

const (
	Duke       Character = "Duke"
	Assassin   Character = "Assassin"
	Captain    Character = "Captain"
	Ambassador Character = "Ambassador"
	Contessa   Character = "Contessa"
)

// Characters lists every role in deck order.
var Characters = []Character{Duke, Assassin, Captain, Ambassador, Contessa}

// CopiesPerCharacter is how many cards of each role exist in a game.
const CopiesPerCharacter = 3

// Valid reports whether c names a real role.
func (c Character) Valid() bool {
	for _, known := range Characters {
		if c == known {
			return true
		}
	}
	return false
}

// Zone is where a card currently lives.
type Zone string

const (
	ZoneHand     Zone = "hand"
	ZoneCourt    Zone = "court_deck"
	ZoneDiscard  Zone = "discard"
	ZoneExchange Zone = "exchange"
)

// Location tags a card with its zone and, for hands, the owner.
type Location struct {
	Zone     Zone   `json:"zone"`
	PlayerID string `json:"playerId,omitempty"`
}

func inHand(playerID string) Location { return Location{Zone: ZoneHand, PlayerID: playerID} }

var (
	courtDeck = Location{Zone: ZoneCourt}
	discard   = Location{Zone: ZoneDiscard}
	exchange  = Location{Zone: ZoneExchange}
)

// Card is one slot of the card arena. Cards are never created or destroyed
// after NewDeck; they only change Location, Pos and Revealed.
type Card struct {
	ID        string    `json:"id"`
	Character Character `json:"character"`
	Revealed  bool      `json:"revealed"`
	Location  Location  `json:"location"`
	// Pos orders cards within a zone. The top of the court deck is the
	// court card with the highest Pos.
	Pos int `json:"pos"`
}

// NewDeck builds the 15-card arena with every card in the court deck, in
// character order. Callers shuffle it before dealing.
func NewDeck() []Card {
	cards := make([]Card, 0, len(Characters)*CopiesPerCharacter)
	for _, ch := range Characters {
		for i := 0; i < CopiesPerCharacter; i++ {
			cards = append(cards, Card{
				ID:        fmt.Sprintf("%s-%d", ch, i),
				Character: ch,
				Location:  courtDeck,
				Pos:       len(cards),
			})
		}
	}
	return cards
}

// cardsAt returns pointers to the arena cards at loc ordered by Pos.
func (s *State) cardsAt(loc Location) []*Card {
	var out []*Card
	for i := range s.Cards {
		if s.Cards[i].Location == loc {
			out = append(out, &s.Cards[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

func (s *State) card(id string) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// moveCard relocates c to the end of loc.
func (s *State) moveCard(c *Card, loc Location) {
	s.NextPos++
	c.Location = loc
	c.Pos = s.NextPos
}

// Hand returns the player's cards, revealed ones included, in the order
// they were received.
func (s *State) Hand(playerID string) []Card {
	return copyCards(s.cardsAt(inHand(playerID)))
}

// CourtDeck returns the draw pile bottom first.
func (s *State) CourtDeck() []Card { return copyCards(s.cardsAt(courtDeck)) }

// DiscardPile returns the discard pile bottom first.
func (s *State) DiscardPile() []Card { return copyCards(s.cardsAt(discard)) }

// ExchangeCards returns the cards drawn for a pending Ambassador exchange.
func (s *State) ExchangeCards() []Card { return copyCards(s.cardsAt(exchange)) }

// Influence counts the player's unrevealed cards.
func (s *State) Influence(playerID string) int {
	n := 0
	for _, c := range s.cardsAt(inHand(playerID)) {
		if !c.Revealed {
			n++
		}
	}
	return n
}

func copyCards(in []*Card) []Card {
	out := make([]Card, len(in))
	for i, c := range in {
		out[i] = *c
	}
	return out
}
