package game

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a state that breaks a structural rule of the game.
var ErrInvariant = errors.New("state invariant violated")

// CheckInvariants verifies the structural rules every reachable state obeys:
// the card arena is complete, coin balances are non-negative, alive flags
// agree with influence, the current player is alive while the game runs and
// a winner is recorded exactly when the game is over.
func (s *State) CheckInvariants() error {
	counts := map[Character]int{}
	ids := map[string]bool{}
	for _, c := range s.Cards {
		if ids[c.ID] {
			return fmt.Errorf("%w: card %s appears twice", ErrInvariant, c.ID)
		}
		ids[c.ID] = true
		counts[c.Character]++
		if c.Location.Zone == ZoneHand && !s.HasPlayer(c.Location.PlayerID) {
			return fmt.Errorf("%w: card %s held by unknown player %q", ErrInvariant, c.ID, c.Location.PlayerID)
		}
	}
	if len(s.Cards) != len(Characters)*CopiesPerCharacter {
		return fmt.Errorf("%w: %d cards in play", ErrInvariant, len(s.Cards))
	}
	for _, ch := range Characters {
		if counts[ch] != CopiesPerCharacter {
			return fmt.Errorf("%w: %d copies of %s", ErrInvariant, counts[ch], ch)
		}
	}

	alive := 0
	for _, p := range s.Players {
		if p.Coins < 0 {
			return fmt.Errorf("%w: %s has %d coins", ErrInvariant, p.ID, p.Coins)
		}
		if p.Alive != (s.Influence(p.ID) > 0) {
			return fmt.Errorf("%w: %s alive=%v with influence %d", ErrInvariant, p.ID, p.Alive, s.Influence(p.ID))
		}
		if p.Alive {
			alive++
		}
	}

	if s.Phase == PhaseGameOver {
		if alive != 1 || s.Winner == "" {
			return fmt.Errorf("%w: game over with %d alive and winner %q", ErrInvariant, alive, s.Winner)
		}
		if w := s.Player(s.Winner); w == nil || !w.Alive {
			return fmt.Errorf("%w: winner %q is not alive", ErrInvariant, s.Winner)
		}
		return nil
	}
	if s.Winner != "" {
		return fmt.Errorf("%w: winner %q set while phase is %s", ErrInvariant, s.Winner, s.Phase)
	}
	if cur := s.CurrentPlayer(); cur == nil || !cur.Alive {
		return fmt.Errorf("%w: current player index %d is not alive", ErrInvariant, s.CurrentPlayerIndex)
	}
	if s.PendingBlock != nil && s.PendingAction == nil {
		return fmt.Errorf("%w: block without action", ErrInvariant)
	}
	if (s.Phase == PhaseLoseInfluence) != (s.PendingInfluenceLoss != nil) {
		return fmt.Errorf("%w: phase %s with pending loss %v", ErrInvariant, s.Phase, s.PendingInfluenceLoss)
	}
	return nil
}
