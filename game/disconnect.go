package game

// DisconnectRole is the part a departing player was playing in the turn.
type DisconnectRole int

const (
	RoleBystander DisconnectRole = iota
	RoleCurrentPlayer
	RoleActionTarget
	RoleBlocker
	RoleChallenger
	RoleInfluenceDebtor
)

func (r DisconnectRole) String() string {
	switch r {
	case RoleCurrentPlayer:
		return "current_player"
	case RoleActionTarget:
		return "action_target"
	case RoleBlocker:
		return "blocker"
	case RoleChallenger:
		return "challenger"
	case RoleInfluenceDebtor:
		return "influence_debtor"
	default:
		return "bystander"
	}
}

// RoleOf classifies playerID against the live turn. When a player holds
// several roles the earliest in the list above wins.
func (s *State) RoleOf(playerID string) DisconnectRole {
	switch {
	case s.CurrentPlayer() != nil && s.CurrentPlayer().ID == playerID:
		return RoleCurrentPlayer
	case s.PendingAction != nil && s.PendingAction.TargetID == playerID:
		return RoleActionTarget
	case s.PendingBlock != nil && s.PendingBlock.BlockerID == playerID:
		return RoleBlocker
	case s.PendingChallenge != nil && s.PendingChallenge.ChallengerID == playerID:
		return RoleChallenger
	case s.PendingInfluenceLoss != nil && s.PendingInfluenceLoss.PlayerID == playerID:
		return RoleInfluenceDebtor
	default:
		return RoleBystander
	}
}

func (t *txn) disconnect(in Disconnect) error {
	if t.Over() {
		return ErrWrongPhase
	}
	p, err := t.livePlayer(in.Player)
	if err != nil {
		return err
	}
	role := t.RoleOf(p.ID)

	for _, c := range t.cardsAt(inHand(p.ID)) {
		c.Revealed = true
	}
	p.Alive = false
	t.log(p.Name+" disconnected and was eliminated", p.ID, "", "")

	if t.checkWinner() {
		return nil
	}

	switch role {
	case RoleCurrentPlayer:
		t.endTurn()
	case RoleActionTarget:
		t.log("Action cancelled because target disconnected", "", "", "")
		t.endTurn()
	case RoleBlocker:
		t.log("Block cancelled because blocker disconnected", "", "", "")
		t.PendingBlock = nil
		t.PendingChallenge = nil
		t.PendingInfluenceLoss = nil
		t.resolveAction()
	case RoleChallenger:
		t.log("Challenge cancelled because challenger disconnected", "", "", "")
		ofBlock := t.PendingChallenge.OfBlock
		t.PendingChallenge = nil
		t.PendingInfluenceLoss = nil
		if ofBlock {
			t.log("Block stands", "", "", "")
			t.endTurn()
		} else {
			t.resolveAction()
		}
	case RoleInfluenceDebtor:
		t.endTurn()
	case RoleBystander:
		t.reopenWindow()
	}
	return nil
}

// reopenWindow re-checks an open block or challenge window after a player
// left it, closing it when everyone still eligible has passed.
func (t *txn) reopenWindow() {
	switch t.Phase {
	case PhaseBlockWindow:
		if t.PendingAction != nil {
			t.closeBlockWindowIfDone()
		}
	case PhaseChallengeWindow:
		t.closeChallengeWindowIfDone()
	}
}
