package game

import "errors"

// Rule violations. The engine returns them before touching any state, so a
// rejected intent never leaves a partial transition behind.
var (
	ErrUnknownPlayer      = errors.New("player not found")
	ErrPlayerEliminated   = errors.New("player is eliminated")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrWrongPhase         = errors.New("not allowed in the current phase")
	ErrUnknownAction      = errors.New("unknown action")
	ErrNotEnoughCoins     = errors.New("not enough coins")
	ErrMustCoup           = errors.New("must coup with 10 or more coins")
	ErrTargetRequired     = errors.New("action requires a target")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrTargetSelf         = errors.New("cannot target yourself")
	ErrNotBlockable       = errors.New("action cannot be blocked")
	ErrWrongBlocker       = errors.New("character cannot block this action")
	ErrBlockOwnAction     = errors.New("cannot block your own action")
	ErrOnlyTargetBlocks   = errors.New("only the target can block this action")
	ErrPassOwnClaim       = errors.New("cannot pass on your own claim")
	ErrNothingToChallenge = errors.New("nothing to challenge")
	ErrChallengeSelf      = errors.New("cannot challenge yourself")
	ErrWrongClaimant      = errors.New("must challenge the player holding the claim")
	ErrClaimMismatch      = errors.New("claimed character does not match the active claim")
	ErrNotOwedInfluence   = errors.New("player does not owe influence")
	ErrCardNotFound       = errors.New("card not found or already revealed")
	ErrExchangeCount      = errors.New("must keep the same number of cards as current influence")
	ErrExchangeCard       = errors.New("kept card is not available for exchange")
	ErrPlayerCount        = errors.New("game requires 2-6 players")
	ErrDuplicatePlayer    = errors.New("duplicate player id")
	ErrUnknownIntent      = errors.New("unknown intent")
)
