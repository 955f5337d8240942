package game

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var testClock = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

func newTestEngine() *Engine {
	return NewEngine(rand.New(rand.NewSource(7)), testClock)
}

// dealt builds a game in the action phase with one player per hand, named
// p1..pN, each holding exactly the listed characters. p1 moves first.
func dealt(t *testing.T, hands ...[]Character) *State {
	t.Helper()
	s := &State{ID: "game-test", Cards: NewDeck(), Phase: PhaseAction, Turn: 1}
	s.NextPos = len(s.Cards)
	for i, hand := range hands {
		id := fmt.Sprintf("p%d", i+1)
		s.Players = append(s.Players, Player{ID: id, Name: fmt.Sprintf("P%d", i+1), Coins: StartingCoins, Alive: true})
		for _, ch := range hand {
			var picked *Card
			for _, c := range s.cardsAt(courtDeck) {
				if c.Character == ch {
					picked = c
					break
				}
			}
			if picked == nil {
				t.Fatalf("no %s left in the court deck", ch)
			}
			s.moveCard(picked, inHand(id))
		}
	}
	return s
}

// reveal flips one of the player's cards of character ch face up.
func reveal(t *testing.T, s *State, playerID string, ch Character) {
	t.Helper()
	for _, c := range s.cardsAt(inHand(playerID)) {
		if c.Character == ch && !c.Revealed {
			c.Revealed = true
			return
		}
	}
	t.Fatalf("%s holds no hidden %s", playerID, ch)
}

func apply(t *testing.T, e *Engine, s *State, in Intent) *State {
	t.Helper()
	next, err := e.Apply(s, in)
	if err != nil {
		t.Fatalf("apply %T%+v: %v", in, in, err)
	}
	if err := next.CheckInvariants(); err != nil {
		t.Fatalf("after %T%+v: %v", in, in, err)
	}
	return next
}

func TestNewGame(t *testing.T) {
	e := newTestEngine()
	s, err := e.NewGame([]Seat{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Cid"}})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("fresh game: %v", err)
	}
	if s.Phase != PhaseAction || s.Turn != 1 {
		t.Fatalf("phase %s turn %d", s.Phase, s.Turn)
	}
	for _, p := range s.Players {
		if p.Coins != StartingCoins || !p.Alive {
			t.Fatalf("player %s: coins %d alive %v", p.ID, p.Coins, p.Alive)
		}
		if n := len(s.Hand(p.ID)); n != CardsPerPlayer {
			t.Fatalf("player %s holds %d cards", p.ID, n)
		}
	}
	if n := len(s.CourtDeck()); n != 15-3*CardsPerPlayer {
		t.Fatalf("court deck has %d cards", n)
	}
	if len(s.Log) != 1 || s.Log[0].Message != "Game started" {
		t.Fatalf("log = %+v", s.Log)
	}
}

func TestNewGameRejectsBadSeats(t *testing.T) {
	tests := []struct {
		name  string
		seats []Seat
		want  error
	}{
		{"one player", []Seat{{ID: "a"}}, ErrPlayerCount},
		{"seven players", []Seat{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}, {ID: "6"}, {ID: "7"}}, ErrPlayerCount},
		{"duplicate id", []Seat{{ID: "a"}, {ID: "a"}}, ErrDuplicatePlayer},
		{"empty id", []Seat{{ID: "a"}, {ID: ""}}, ErrDuplicatePlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestEngine().NewGame(tt.seats)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIncomeAdvancesTurn(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})

	next := apply(t, e, s, PerformAction{Actor: "p1", Type: Income})

	if c := next.Player("p1").Coins; c != 3 {
		t.Fatalf("p1 coins = %d, want 3", c)
	}
	if next.CurrentPlayerIndex != 1 || next.Turn != 2 || next.Phase != PhaseAction {
		t.Fatalf("index %d turn %d phase %s", next.CurrentPlayerIndex, next.Turn, next.Phase)
	}
	if next.PendingAction != nil {
		t.Fatalf("pending action left behind: %+v", next.PendingAction)
	}
	if s.Player("p1").Coins != 2 || s.Turn != 1 {
		t.Fatal("input state was modified")
	}
}

func TestTaxSurvivesFailedChallenge(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Tax})
	if s.Phase != PhaseChallengeWindow {
		t.Fatalf("phase = %s", s.Phase)
	}
	s = apply(t, e, s, Challenge{Challenger: "p2", Target: "p1", Character: Duke})

	if s.Phase != PhaseLoseInfluence {
		t.Fatalf("phase = %s", s.Phase)
	}
	if l := s.PendingInfluenceLoss; l == nil || l.PlayerID != "p2" || l.Cause != LossFailedActionChallenge {
		t.Fatalf("pending loss = %+v", l)
	}
	if s.Influence("p1") != 2 || len(s.Hand("p1")) != 2 {
		t.Fatalf("p1 should hold two hidden cards after replacing the Duke, hand = %+v", s.Hand("p1"))
	}

	s = apply(t, e, s, LoseInfluence{Player: "p2"})

	if c := s.Player("p1").Coins; c != 5 {
		t.Fatalf("p1 coins = %d, want 5", c)
	}
	if s.Influence("p2") != 1 {
		t.Fatalf("p2 influence = %d", s.Influence("p2"))
	}
	if s.CurrentPlayer().ID != "p2" || s.Phase != PhaseAction {
		t.Fatalf("current %s phase %s", s.CurrentPlayer().ID, s.Phase)
	}
}

func TestBluffedTaxIsVoid(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Captain, Captain}, []Character{Contessa, Assassin})

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Tax})
	s = apply(t, e, s, Challenge{Challenger: "p2", Target: "p1"})
	if l := s.PendingInfluenceLoss; l == nil || l.PlayerID != "p1" || l.Cause != LossBluffedAction {
		t.Fatalf("pending loss = %+v", l)
	}
	s = apply(t, e, s, LoseInfluence{Player: "p1", CardID: s.Hand("p1")[1].ID})

	if c := s.Player("p1").Coins; c != 2 {
		t.Fatalf("p1 coins = %d, want 2", c)
	}
	if h := s.Hand("p1"); h[0].Revealed || !h[1].Revealed {
		t.Fatalf("wrong card revealed: %+v", h)
	}
	if s.CurrentPlayer().ID != "p2" {
		t.Fatalf("turn did not pass")
	}
}

func TestAssassinationBlockedByContessa(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Assassin, Duke}, []Character{Contessa, Captain})
	s.Player("p1").Coins = 3

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Assassinate, Target: "p2"})
	if c := s.Player("p1").Coins; c != 0 {
		t.Fatalf("cost not paid at declaration, coins = %d", c)
	}
	s = apply(t, e, s, PassChallenge{Player: "p2"})
	if s.Phase != PhaseBlockWindow {
		t.Fatalf("phase = %s", s.Phase)
	}
	s = apply(t, e, s, Block{Blocker: "p2", Character: Contessa})
	if s.Phase != PhaseChallengeWindow || s.PendingBlock == nil {
		t.Fatalf("phase %s block %+v", s.Phase, s.PendingBlock)
	}
	s = apply(t, e, s, PassChallenge{Player: "p1"})

	if s.Influence("p2") != 2 {
		t.Fatalf("p2 influence = %d", s.Influence("p2"))
	}
	if c := s.Player("p1").Coins; c != 0 {
		t.Fatalf("p1 coins = %d", c)
	}
	if s.CurrentPlayer().ID != "p2" || s.PendingBlock != nil {
		t.Fatalf("turn not closed: current %s block %+v", s.CurrentPlayer().ID, s.PendingBlock)
	}
}

func TestForcedCoup(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})
	s.Player("p1").Coins = 10
	before := s.Clone()

	_, err := e.Apply(s, PerformAction{Actor: "p1", Type: Income})
	if !errors.Is(err, ErrMustCoup) {
		t.Fatalf("expected ErrMustCoup, got %v", err)
	}
	if !reflect.DeepEqual(before, s) {
		t.Fatal("rejected intent modified the state")
	}

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Coup, Target: "p2"})
	if c := s.Player("p1").Coins; c != 3 {
		t.Fatalf("p1 coins = %d, want 3", c)
	}
	if l := s.PendingInfluenceLoss; l == nil || l.PlayerID != "p2" || l.Cause != LossActionEffect {
		t.Fatalf("pending loss = %+v", l)
	}
}

func TestLastEliminationWinsGame(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})
	reveal(t, s, "p2", Contessa)
	s.Player("p1").Coins = 7

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Coup, Target: "p2"})
	s = apply(t, e, s, LoseInfluence{Player: "p2"})

	if s.Phase != PhaseGameOver || s.Winner != "p1" {
		t.Fatalf("phase %s winner %q", s.Phase, s.Winner)
	}
	if s.Player("p2").Alive {
		t.Fatal("p2 still alive")
	}
	if s.PendingAction != nil || s.PendingInfluenceLoss != nil || len(s.PassedPlayers) != 0 {
		t.Fatal("pending fields not cleared at game over")
	}
	if _, err := e.Apply(s, PerformAction{Actor: "p1", Type: Income}); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase after game over, got %v", err)
	}
}

func TestStealTakesAtMostTwo(t *testing.T) {
	tests := []struct {
		name        string
		targetCoins int
		wantStolen  int
	}{
		{"rich target", 5, 2},
		{"one coin", 1, 1},
		{"broke target", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			s := dealt(t, []Character{Captain, Duke}, []Character{Contessa, Assassin})
			s.Player("p2").Coins = tt.targetCoins

			s = apply(t, e, s, PerformAction{Actor: "p1", Type: Steal, Target: "p2"})
			s = apply(t, e, s, PassChallenge{Player: "p2"})
			s = apply(t, e, s, PassBlock{Player: "p2"})

			if c := s.Player("p1").Coins; c != StartingCoins+tt.wantStolen {
				t.Fatalf("p1 coins = %d", c)
			}
			if c := s.Player("p2").Coins; c != tt.targetCoins-tt.wantStolen {
				t.Fatalf("p2 coins = %d", c)
			}
		})
	}
}

func TestForeignAidBlockBluffCalled(t *testing.T) {
	e := newTestEngine()
	s := dealt(t,
		[]Character{Captain, Contessa},
		[]Character{Captain, Assassin},
		[]Character{Duke, Duke},
	)

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: ForeignAid})
	s = apply(t, e, s, Block{Blocker: "p2", Character: Duke})
	s = apply(t, e, s, Challenge{Challenger: "p1", Target: "p2", Character: Duke})
	if l := s.PendingInfluenceLoss; l == nil || l.PlayerID != "p2" || l.Cause != LossBluffedBlock {
		t.Fatalf("pending loss = %+v", l)
	}
	s = apply(t, e, s, LoseInfluence{Player: "p2"})

	if c := s.Player("p1").Coins; c != 4 {
		t.Fatalf("p1 coins = %d, want 4", c)
	}
	if s.CurrentPlayer().ID != "p2" {
		t.Fatalf("current = %s", s.CurrentPlayer().ID)
	}
}

func TestForeignAidGenuineBlockStands(t *testing.T) {
	e := newTestEngine()
	s := dealt(t,
		[]Character{Captain, Contessa},
		[]Character{Captain, Assassin},
		[]Character{Duke, Ambassador},
	)

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: ForeignAid})
	s = apply(t, e, s, Block{Blocker: "p3", Character: Duke})
	s = apply(t, e, s, Challenge{Challenger: "p1", Target: "p3"})
	if l := s.PendingInfluenceLoss; l == nil || l.PlayerID != "p1" || l.Cause != LossFailedBlockChallenge {
		t.Fatalf("pending loss = %+v", l)
	}
	if s.Influence("p3") != 2 {
		t.Fatalf("p3 should have replaced the revealed Duke")
	}
	s = apply(t, e, s, LoseInfluence{Player: "p1"})

	if c := s.Player("p1").Coins; c != 2 {
		t.Fatalf("p1 coins = %d, want 2", c)
	}
	if s.CurrentPlayer().ID != "p2" {
		t.Fatalf("current = %s", s.CurrentPlayer().ID)
	}
}

func TestForeignAidUnblocked(t *testing.T) {
	e := newTestEngine()
	s := dealt(t,
		[]Character{Captain, Contessa},
		[]Character{Captain, Assassin},
		[]Character{Duke, Ambassador},
	)

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: ForeignAid})
	s = apply(t, e, s, PassBlock{Player: "p2"})
	if s.Phase != PhaseBlockWindow {
		t.Fatalf("window closed before everyone passed")
	}
	s = apply(t, e, s, PassBlock{Player: "p2"})
	if len(s.PassedPlayers) != 1 {
		t.Fatalf("repeated pass recorded twice: %v", s.PassedPlayers)
	}
	s = apply(t, e, s, PassBlock{Player: "p3"})

	if c := s.Player("p1").Coins; c != 4 {
		t.Fatalf("p1 coins = %d, want 4", c)
	}
}

func TestExchange(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Ambassador, Duke}, []Character{Contessa, Assassin})

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Exchange})
	s = apply(t, e, s, PassChallenge{Player: "p2"})
	if s.Phase != PhaseExchange {
		t.Fatalf("phase = %s", s.Phase)
	}
	drawn := s.ExchangeCards()
	if len(drawn) != ExchangeDraw {
		t.Fatalf("drew %d cards", len(drawn))
	}

	if _, err := e.Apply(s, ExchangeCards{Player: "p1", Keep: []string{drawn[0].ID}}); !errors.Is(err, ErrExchangeCount) {
		t.Fatalf("expected ErrExchangeCount, got %v", err)
	}
	if _, err := e.Apply(s, ExchangeCards{Player: "p1", Keep: []string{drawn[0].ID, drawn[0].ID}}); !errors.Is(err, ErrExchangeCard) {
		t.Fatalf("expected ErrExchangeCard for duplicate, got %v", err)
	}
	if _, err := e.Apply(s, ExchangeCards{Player: "p1", Keep: []string{drawn[0].ID, s.Hand("p2")[0].ID}}); !errors.Is(err, ErrExchangeCard) {
		t.Fatalf("expected ErrExchangeCard for foreign card, got %v", err)
	}
	if _, err := e.Apply(s, ExchangeCards{Player: "p2", Keep: []string{drawn[0].ID, drawn[1].ID}}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	s = apply(t, e, s, ExchangeCards{Player: "p1", Keep: []string{drawn[1].ID, drawn[0].ID}})

	hand := s.Hand("p1")
	if len(hand) != 2 || hand[0].ID != drawn[1].ID || hand[1].ID != drawn[0].ID {
		t.Fatalf("hand = %+v", hand)
	}
	if len(s.ExchangeCards()) != 0 {
		t.Fatal("exchange zone not emptied")
	}
	if n := len(s.CourtDeck()); n != 11 {
		t.Fatalf("court deck has %d cards", n)
	}
	if s.CurrentPlayer().ID != "p2" {
		t.Fatalf("current = %s", s.CurrentPlayer().ID)
	}
}

func TestExchangeWithOneInfluenceKeepsOne(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Ambassador, Duke}, []Character{Contessa, Assassin})
	reveal(t, s, "p1", Duke)

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Exchange})
	s = apply(t, e, s, PassChallenge{Player: "p2"})
	drawn := s.ExchangeCards()
	s = apply(t, e, s, ExchangeCards{Player: "p1", Keep: []string{drawn[0].ID}})

	if s.Influence("p1") != 1 {
		t.Fatalf("p1 influence = %d", s.Influence("p1"))
	}
	var kept bool
	for _, c := range s.Hand("p1") {
		if c.ID == drawn[0].ID && !c.Revealed {
			kept = true
		}
	}
	if !kept {
		t.Fatalf("kept card missing from hand %+v", s.Hand("p1"))
	}
}

func TestActionValidation(t *testing.T) {
	tests := []struct {
		name  string
		coins int
		in    Intent
		want  error
	}{
		{"not your turn", 2, PerformAction{Actor: "p2", Type: Income}, ErrNotYourTurn},
		{"unknown player", 2, PerformAction{Actor: "zz", Type: Income}, ErrUnknownPlayer},
		{"unknown action", 2, PerformAction{Actor: "p1", Type: "juggle"}, ErrUnknownAction},
		{"coup without coins", 6, PerformAction{Actor: "p1", Type: Coup, Target: "p2"}, ErrNotEnoughCoins},
		{"assassinate without coins", 2, PerformAction{Actor: "p1", Type: Assassinate, Target: "p2"}, ErrNotEnoughCoins},
		{"missing target", 7, PerformAction{Actor: "p1", Type: Coup}, ErrTargetRequired},
		{"self target", 2, PerformAction{Actor: "p1", Type: Steal, Target: "p1"}, ErrTargetSelf},
		{"unknown target", 2, PerformAction{Actor: "p1", Type: Steal, Target: "zz"}, ErrInvalidTarget},
		{"dead target", 2, PerformAction{Actor: "p1", Type: Steal, Target: "p3"}, ErrInvalidTarget},
		{"block outside window", 2, Block{Blocker: "p2", Character: Duke}, ErrWrongPhase},
		{"pass outside window", 2, PassChallenge{Player: "p2"}, ErrWrongPhase},
		{"lose influence unowed", 2, LoseInfluence{Player: "p2"}, ErrWrongPhase},
		{"exchange outside phase", 2, ExchangeCards{Player: "p1"}, ErrWrongPhase},
		{"nil intent", 2, nil, ErrUnknownIntent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin}, []Character{Ambassador, Ambassador})
			reveal(t, s, "p3", Ambassador)
			reveal(t, s, "p3", Ambassador)
			s.Player("p3").Alive = false
			s.Player("p1").Coins = tt.coins

			_, err := newTestEngine().Apply(s, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBlockValidation(t *testing.T) {
	tests := []struct {
		name   string
		action PerformAction
		block  Block
		want   error
	}{
		{"contessa on foreign aid", PerformAction{Actor: "p1", Type: ForeignAid}, Block{Blocker: "p2", Character: Contessa}, ErrWrongBlocker},
		{"own action", PerformAction{Actor: "p1", Type: ForeignAid}, Block{Blocker: "p1", Character: Duke}, ErrBlockOwnAction},
		{"steal blocked by bystander", PerformAction{Actor: "p1", Type: Steal, Target: "p2"}, Block{Blocker: "p3", Character: Captain}, ErrOnlyTargetBlocks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			s := dealt(t, []Character{Captain, Duke}, []Character{Contessa, Assassin}, []Character{Ambassador, Captain})
			s = apply(t, e, s, tt.action)
			if s.Phase == PhaseChallengeWindow {
				s = apply(t, e, s, PassChallenge{Player: "p2"})
				s = apply(t, e, s, PassChallenge{Player: "p3"})
			}
			if s.Phase != PhaseBlockWindow {
				t.Fatalf("phase = %s", s.Phase)
			}
			if _, err := e.Apply(s, tt.block); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestChallengeValidation(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin}, []Character{Ambassador, Captain})
	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Tax})

	tests := []struct {
		name string
		in   Intent
		want error
	}{
		{"challenge self", Challenge{Challenger: "p1", Target: "p1"}, ErrChallengeSelf},
		{"wrong claimant", Challenge{Challenger: "p2", Target: "p3"}, ErrWrongClaimant},
		{"wrong character", Challenge{Challenger: "p2", Target: "p1", Character: Captain}, ErrClaimMismatch},
		{"claimant passes", PassChallenge{Player: "p1"}, ErrPassOwnClaim},
		{"block in challenge window", Block{Blocker: "p2", Character: Duke}, ErrWrongPhase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Apply(s, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestForeignAidCannotBeChallenged(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})
	s = apply(t, e, s, PerformAction{Actor: "p1", Type: ForeignAid})

	if _, err := e.Apply(s, Challenge{Challenger: "p2", Target: "p1"}); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
}

func TestLoseInfluenceValidation(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})
	s.Player("p1").Coins = 7
	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Coup, Target: "p2"})

	if _, err := e.Apply(s, LoseInfluence{Player: "p1"}); !errors.Is(err, ErrNotOwedInfluence) {
		t.Fatalf("expected ErrNotOwedInfluence, got %v", err)
	}
	if _, err := e.Apply(s, LoseInfluence{Player: "p2", CardID: "Duke-0"}); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
	if _, err := e.Apply(s, PerformAction{Actor: "p2", Type: Income}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
}

func TestAssassinationOfOneCardTargetAfterFailedChallenge(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Assassin, Duke}, []Character{Contessa, Captain}, []Character{Ambassador, Captain})
	reveal(t, s, "p2", Captain)
	s.Player("p1").Coins = 3

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Assassinate, Target: "p2"})
	s = apply(t, e, s, Challenge{Challenger: "p2", Target: "p1"})
	s = apply(t, e, s, LoseInfluence{Player: "p2"})

	// The failed challenge cost p2 their last card, so the assassination
	// fizzles instead of waiting on a dead player.
	if s.Player("p2").Alive {
		t.Fatal("p2 should be eliminated")
	}
	if s.Phase != PhaseAction || s.CurrentPlayer().ID != "p3" {
		t.Fatalf("phase %s current %s", s.Phase, s.CurrentPlayer().ID)
	}
}

func TestTurnSkipsEliminatedPlayers(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin}, []Character{Ambassador, Captain})
	reveal(t, s, "p2", Contessa)
	reveal(t, s, "p2", Assassin)
	s.Player("p2").Alive = false

	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Income})
	if s.CurrentPlayer().ID != "p3" {
		t.Fatalf("current = %s", s.CurrentPlayer().ID)
	}
	s = apply(t, e, s, PerformAction{Actor: "p3", Type: Income})
	if s.CurrentPlayer().ID != "p1" || s.Turn != 3 {
		t.Fatalf("current %s turn %d", s.CurrentPlayer().ID, s.Turn)
	}
}

func TestLogEntriesCarryTurnAndTimestamp(t *testing.T) {
	e := newTestEngine()
	s := dealt(t, []Character{Duke, Captain}, []Character{Contessa, Assassin})
	s = apply(t, e, s, PerformAction{Actor: "p1", Type: Income})

	last := s.Log[len(s.Log)-1]
	if last.Turn != 1 || last.PlayerID != "p1" || last.ActionType != Income {
		t.Fatalf("log entry = %+v", last)
	}
	if last.Timestamp != testClock().UnixMilli() {
		t.Fatalf("timestamp = %d", last.Timestamp)
	}
}
