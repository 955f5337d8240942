package game

import "fmt"

func (t *txn) challenge(in Challenge) error {
	if t.Phase != PhaseChallengeWindow {
		return fmt.Errorf("%w: not in challenge window", ErrWrongPhase)
	}
	challenger, err := t.livePlayer(in.Challenger)
	if err != nil {
		return err
	}
	claimantID, claim := t.claimant()
	if claim == "" {
		return ErrNothingToChallenge
	}
	if challenger.ID == claimantID {
		return ErrChallengeSelf
	}
	if in.Target != claimantID {
		return ErrWrongClaimant
	}
	if in.Character != "" && in.Character != claim {
		return ErrClaimMismatch
	}

	ofBlock := t.PendingBlock != nil
	t.PendingChallenge = &PendingChallenge{
		ChallengerID: challenger.ID,
		ClaimantID:   claimantID,
		Claim:        claim,
		OfBlock:      ofBlock,
	}
	t.PassedPlayers = nil
	claimantName := t.name(claimantID)
	t.log(fmt.Sprintf("%s challenges %s's %s", challenger.Name, claimantName, claim), challenger.ID, "", claimantID)

	if card := t.unrevealed(claimantID, claim); card != nil {
		t.log(fmt.Sprintf("%s reveals %s! Challenge failed.", claimantName, claim), claimantID, "", "")
		t.moveCard(card, courtDeck)
		t.shuffleCourt()
		t.draw(claimantID)

		cause := LossFailedActionChallenge
		if ofBlock {
			cause = LossFailedBlockChallenge
		}
		t.oweInfluence(challenger.ID, cause)
		return nil
	}

	t.log(fmt.Sprintf("%s doesn't have %s! Challenge succeeded.", claimantName, claim), claimantID, "", "")
	cause := LossBluffedAction
	if ofBlock {
		cause = LossBluffedBlock
	}
	t.oweInfluence(claimantID, cause)
	return nil
}

func (t *txn) passChallenge(in PassChallenge) error {
	if t.Phase != PhaseChallengeWindow {
		return fmt.Errorf("%w: not in challenge window", ErrWrongPhase)
	}
	p, err := t.livePlayer(in.Player)
	if err != nil {
		return err
	}
	claimantID, _ := t.claimant()
	if claimantID == "" {
		return ErrNothingToChallenge
	}
	if p.ID == claimantID {
		return ErrPassOwnClaim
	}
	if t.markPassed(p.ID) {
		t.log(p.Name+" allows the claim", p.ID, "", "")
	}
	t.closeChallengeWindowIfDone()
	return nil
}

// closeChallengeWindowIfDone settles the window once every living player
// other than the claimant has passed.
func (t *txn) closeChallengeWindowIfDone() {
	claimantID, _ := t.claimant()
	var eligible []string
	for _, id := range t.AlivePlayers() {
		if id != claimantID {
			eligible = append(eligible, id)
		}
	}
	if !t.allPassed(eligible) {
		return
	}
	t.PassedPlayers = nil
	if b := t.PendingBlock; b != nil {
		t.log(t.name(b.BlockerID)+"'s block succeeds", b.BlockerID, "", "")
		t.endTurn()
		return
	}
	t.proceedWithAction()
}

func (t *txn) unrevealed(playerID string, c Character) *Card {
	for _, card := range t.cardsAt(inHand(playerID)) {
		if !card.Revealed && card.Character == c {
			return card
		}
	}
	return nil
}

func (t *txn) oweInfluence(playerID string, cause LossCause) {
	t.log(t.name(playerID)+" must lose influence", playerID, "", "")
	t.PendingInfluenceLoss = &PendingInfluenceLoss{PlayerID: playerID, Cause: cause}
	t.Phase = PhaseLoseInfluence
}
