package game

// draw moves the top court card into the player's hand. It reports false
// when the court deck is empty.
func (t *txn) draw(playerID string) bool {
	deck := t.cardsAt(courtDeck)
	if len(deck) == 0 {
		return false
	}
	t.moveCard(deck[len(deck)-1], inHand(playerID))
	return true
}

// shuffleCourt randomises the order of the court deck in place.
func (t *txn) shuffleCourt() {
	deck := t.cardsAt(courtDeck)
	t.e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for _, c := range deck {
		t.NextPos++
		c.Pos = t.NextPos
	}
}

// returnExchangeCards puts any cards drawn for an exchange back in the court
// deck.
func (t *txn) returnExchangeCards() {
	drawn := t.cardsAt(exchange)
	if len(drawn) == 0 {
		return
	}
	for _, c := range drawn {
		t.moveCard(c, courtDeck)
	}
	t.shuffleCourt()
}

func (t *txn) clearPending() {
	t.returnExchangeCards()
	t.PendingAction = nil
	t.PendingBlock = nil
	t.PendingChallenge = nil
	t.PendingInfluenceLoss = nil
	t.PassedPlayers = nil
}

// eliminateIfBroke marks the player dead when they hold no influence.
func (t *txn) eliminateIfBroke(p *Player) bool {
	if !p.Alive || t.Influence(p.ID) > 0 {
		return false
	}
	p.Alive = false
	t.log(p.Name+" is eliminated", p.ID, "", "")
	return true
}

// checkWinner ends the game when at most one player is alive.
func (t *txn) checkWinner() bool {
	alive := t.AlivePlayers()
	if len(alive) > 1 {
		return false
	}
	t.clearPending()
	t.Phase = PhaseGameOver
	if len(alive) == 1 {
		t.Winner = alive[0]
		t.log(t.name(alive[0])+" wins!", alive[0], "", "")
	}
	return true
}

// endTurn hands the turn to the next alive player and resets every
// pending field.
func (t *txn) endTurn() {
	if t.checkWinner() {
		return
	}
	t.clearPending()

	next := t.CurrentPlayerIndex
	for i := 0; i < len(t.Players); i++ {
		next = (next + 1) % len(t.Players)
		if t.Players[next].Alive {
			break
		}
	}
	t.CurrentPlayerIndex = next
	t.Turn++
	t.Phase = PhaseAction

	if len(t.cardsAt(courtDeck)) == 0 {
		if pile := t.cardsAt(discard); len(pile) > 0 {
			for _, c := range pile {
				t.moveCard(c, courtDeck)
			}
			t.shuffleCourt()
			t.log("Court deck reshuffled", "", "", "")
		}
	}
}
