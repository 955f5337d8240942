package game

import "fmt"

func (t *txn) loseInfluence(in LoseInfluence) error {
	if t.Phase != PhaseLoseInfluence || t.PendingInfluenceLoss == nil {
		return fmt.Errorf("%w: no influence loss pending", ErrWrongPhase)
	}
	if t.PendingInfluenceLoss.PlayerID != in.Player {
		return ErrNotOwedInfluence
	}
	p := t.Player(in.Player)
	if p == nil {
		return ErrUnknownPlayer
	}

	var card *Card
	for _, c := range t.cardsAt(inHand(p.ID)) {
		if c.Revealed {
			continue
		}
		if in.CardID == "" || c.ID == in.CardID {
			card = c
			break
		}
	}
	if card == nil {
		return ErrCardNotFound
	}

	card.Revealed = true
	t.log(fmt.Sprintf("%s loses influence (%s)", p.Name, card.Character), p.ID, "", "")
	cause := t.PendingInfluenceLoss.Cause
	t.PendingInfluenceLoss = nil

	if t.eliminateIfBroke(p) && t.checkWinner() {
		return nil
	}
	t.afterInfluenceLoss(cause)
	return nil
}

// afterInfluenceLoss continues the turn according to why the loss was owed.
func (t *txn) afterInfluenceLoss(cause LossCause) {
	switch cause {
	case LossActionEffect, LossBluffedAction:
		t.endTurn()
	case LossFailedActionChallenge:
		t.PendingChallenge = nil
		if a := t.PendingAction; a != nil {
			t.log("Challenge failed, action confirmed valid", a.ActorID, a.Type, a.TargetID)
		}
		t.proceedWithAction()
	case LossBluffedBlock:
		t.PendingBlock = nil
		t.PendingChallenge = nil
		t.resolveAction()
	case LossFailedBlockChallenge:
		if b := t.PendingBlock; b != nil {
			t.log(t.name(b.BlockerID)+"'s block stands", b.BlockerID, "", "")
		}
		t.endTurn()
	default:
		t.endTurn()
	}
}

func (t *txn) exchange(in ExchangeCards) error {
	if t.Phase != PhaseExchange {
		return fmt.Errorf("%w: not in exchange phase", ErrWrongPhase)
	}
	cur := t.CurrentPlayer()
	if cur == nil || cur.ID != in.Player {
		return ErrNotYourTurn
	}

	var pool []*Card
	for _, c := range t.cardsAt(inHand(cur.ID)) {
		if !c.Revealed {
			pool = append(pool, c)
		}
	}
	pool = append(pool, t.cardsAt(exchange)...)
	available := make(map[string]*Card, len(pool))
	for _, c := range pool {
		available[c.ID] = c
	}
	if len(in.Keep) != t.Influence(cur.ID) {
		return ErrExchangeCount
	}
	keep := make(map[string]bool, len(in.Keep))
	for _, id := range in.Keep {
		if available[id] == nil || keep[id] {
			return fmt.Errorf("%w: %q", ErrExchangeCard, id)
		}
		keep[id] = true
	}

	// Kept cards are re-dealt in the order chosen.
	for _, id := range in.Keep {
		t.moveCard(available[id], inHand(cur.ID))
	}
	for _, c := range pool {
		if !keep[c.ID] {
			t.moveCard(c, courtDeck)
		}
	}
	t.shuffleCourt()
	t.log(cur.Name+" completes the exchange", cur.ID, Exchange, "")
	t.endTurn()
	return nil
}
