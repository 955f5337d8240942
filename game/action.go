package game

import "fmt"

func (t *txn) performAction(in PerformAction) error {
	actor, err := t.livePlayer(in.Actor)
	if err != nil {
		return err
	}
	if cur := t.CurrentPlayer(); cur == nil || cur.ID != actor.ID {
		return ErrNotYourTurn
	}
	if t.Phase != PhaseAction {
		return fmt.Errorf("%w: not in action phase", ErrWrongPhase)
	}
	rule, ok := RuleFor(in.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, in.Type)
	}
	if actor.Coins < rule.Cost {
		return ErrNotEnoughCoins
	}
	if actor.Coins >= ForcedCoupCoins && in.Type != Coup {
		return ErrMustCoup
	}

	target := ""
	if rule.NeedsTarget {
		if in.Target == "" {
			return ErrTargetRequired
		}
		p := t.Player(in.Target)
		if p == nil || !p.Alive {
			return ErrInvalidTarget
		}
		if p.ID == actor.ID {
			return ErrTargetSelf
		}
		target = p.ID
	}

	actor.Coins -= rule.Cost
	t.PendingAction = &PendingAction{
		Type:     in.Type,
		ActorID:  actor.ID,
		TargetID: target,
		Claim:    rule.Character,
	}
	t.PassedPlayers = nil

	switch {
	case rule.Challengeable():
		t.Phase = PhaseChallengeWindow
		msg := fmt.Sprintf("%s claims %s to %s", actor.Name, rule.Character, in.Type)
		switch in.Type {
		case Steal:
			msg += " from " + t.name(target)
		case Assassinate:
			msg += " " + t.name(target)
		}
		t.log(msg, actor.ID, in.Type, target)
	case rule.Blockable():
		t.Phase = PhaseBlockWindow
		t.log(fmt.Sprintf("%s attempts %s", actor.Name, in.Type), actor.ID, in.Type, target)
	default:
		t.resolveAction()
	}
	return nil
}

// proceedWithAction continues an action whose claim stood: it opens the
// block window when the action is blockable, otherwise resolves it.
func (t *txn) proceedWithAction() {
	a := t.PendingAction
	if a == nil {
		t.endTurn()
		return
	}
	rule, _ := RuleFor(a.Type)
	if rule.Blockable() && t.targetAlive(a) {
		t.Phase = PhaseBlockWindow
		t.PassedPlayers = nil
		return
	}
	t.resolveAction()
}

func (t *txn) targetAlive(a *PendingAction) bool {
	if a.TargetID == "" {
		return true
	}
	p := t.Player(a.TargetID)
	return p != nil && p.Alive
}

// resolveAction applies the pending action's effect. Coup and assassinate
// wait for the target's influence loss and exchange waits for the keep
// selection; every other action ends the turn.
func (t *txn) resolveAction() {
	a := t.PendingAction
	if a == nil {
		t.endTurn()
		return
	}
	t.PendingBlock = nil
	t.PendingChallenge = nil
	t.PassedPlayers = nil

	actor := t.Player(a.ActorID)
	if actor == nil || !actor.Alive {
		t.endTurn()
		return
	}
	if !t.targetAlive(a) {
		t.log(fmt.Sprintf("%s's %s has no living target", actor.Name, a.Type), actor.ID, a.Type, a.TargetID)
		t.endTurn()
		return
	}

	rule, _ := RuleFor(a.Type)
	switch a.Type {
	case Income, ForeignAid, Tax:
		actor.Coins += rule.Gain
		t.log(fmt.Sprintf("%s takes %d coin(s) (%s)", actor.Name, rule.Gain, a.Type), actor.ID, a.Type, "")
	case Steal:
		target := t.Player(a.TargetID)
		stolen := target.Coins
		if stolen > MaxSteal {
			stolen = MaxSteal
		}
		target.Coins -= stolen
		actor.Coins += stolen
		t.log(fmt.Sprintf("%s steals %d coin(s) from %s", actor.Name, stolen, target.Name), actor.ID, a.Type, target.ID)
	case Coup, Assassinate:
		verb := "coups"
		if a.Type == Assassinate {
			verb = "assassinates"
		}
		t.log(fmt.Sprintf("%s %s %s", actor.Name, verb, t.name(a.TargetID)), actor.ID, a.Type, a.TargetID)
		t.log(t.name(a.TargetID)+" must lose influence", a.TargetID, "", "")
		t.PendingInfluenceLoss = &PendingInfluenceLoss{PlayerID: a.TargetID, Cause: LossActionEffect}
		t.Phase = PhaseLoseInfluence
		return
	case Exchange:
		for i := 0; i < ExchangeDraw; i++ {
			deck := t.cardsAt(courtDeck)
			if len(deck) == 0 {
				break
			}
			t.moveCard(deck[len(deck)-1], exchange)
		}
		t.Phase = PhaseExchange
		t.log(actor.Name+" exchanges cards", actor.ID, a.Type, "")
		return
	}
	t.endTurn()
}
