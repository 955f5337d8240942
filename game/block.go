package game

import "fmt"

func (t *txn) block(in Block) error {
	if t.Phase != PhaseBlockWindow {
		return fmt.Errorf("%w: not in block window", ErrWrongPhase)
	}
	a := t.PendingAction
	if a == nil {
		return fmt.Errorf("%w: no pending action to block", ErrWrongPhase)
	}
	blocker, err := t.livePlayer(in.Blocker)
	if err != nil {
		return err
	}
	rule, _ := RuleFor(a.Type)
	if !rule.Blockable() {
		return ErrNotBlockable
	}
	if !rule.BlockableBy(in.Character) {
		return fmt.Errorf("%w: %s", ErrWrongBlocker, in.Character)
	}
	if a.ActorID == blocker.ID {
		return ErrBlockOwnAction
	}
	if rule.NeedsTarget && a.TargetID != blocker.ID {
		return ErrOnlyTargetBlocks
	}

	t.PendingBlock = &PendingBlock{BlockerID: blocker.ID, Claim: in.Character}
	t.PassedPlayers = nil
	t.Phase = PhaseChallengeWindow
	t.log(fmt.Sprintf("%s claims %s to block", blocker.Name, in.Character), blocker.ID, a.Type, a.ActorID)
	return nil
}

func (t *txn) passBlock(in PassBlock) error {
	if t.Phase != PhaseBlockWindow || t.PendingAction == nil {
		return fmt.Errorf("%w: not in block window", ErrWrongPhase)
	}
	p, err := t.livePlayer(in.Player)
	if err != nil {
		return err
	}
	if p.ID == t.PendingAction.ActorID {
		return ErrPassOwnClaim
	}
	if t.markPassed(p.ID) {
		t.log(p.Name+" allows the action", p.ID, "", "")
	}
	t.closeBlockWindowIfDone()
	return nil
}

// blockEligible lists who must pass before an unblocked action resolves:
// the target of a targeted action, otherwise every other living player.
func (t *txn) blockEligible() []string {
	a := t.PendingAction
	if rule, _ := RuleFor(a.Type); rule.NeedsTarget {
		return []string{a.TargetID}
	}
	var ids []string
	for _, id := range t.AlivePlayers() {
		if id != a.ActorID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *txn) closeBlockWindowIfDone() {
	if t.allPassed(t.blockEligible()) {
		t.resolveAction()
	}
}
