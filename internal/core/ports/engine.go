package ports

import (
	"time"

	"casino-round-engine/internal/core/domain"
)

// RandomSource yields the entropy for outcome draws. Draws are pure:
// no side effects beyond consuming randomness. Production is backed by
// crypto/rand; tests inject a scripted source.
type RandomSource interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// Intn returns a uniform draw in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Pick returns an index drawn proportionally to weights.
	Pick(weights []int) int
}

// EngineAction is a player action applied to an in-flight round.
type EngineAction struct {
	Name string // "reveal", "pick", "cashout", "cancel"
	Tile *int   // target tile for reveal/pick
}

// EngineEvent reports what one transition produced. The session
// controller acts on it: settles the round, credits payouts, schedules
// the next tick, pushes interim state.
type EngineEvent struct {
	Settled    bool
	Status     domain.RoundStatus // terminal status when Settled
	Multiplier float64            // settlement multiplier, 0 on a loss
	Payout     int64              // minor units to credit on a win, 0 otherwise
	Refund     bool               // return the stake (cancelled before launch)
	Broadcast  bool               // push the interim round state to the notifier
	NextTick   time.Duration      // schedule the next engine tick after this delay; 0 = none
}

// GameEngine drives one game's round state machine. Engines mutate only
// the round passed to them; the caller holds the round lock and owns
// wallet movements, storage and notification.
type GameEngine interface {
	Type() domain.GameType
	// ValidateStart checks per-game options before any money moves.
	ValidateStart(bet int64, opts domain.StartOptions) error
	// Begin initializes per-game state on a fresh round. Outcome
	// commitments (crash point, safe tiles) are drawn here.
	Begin(round *domain.Round, opts domain.StartOptions) (*EngineEvent, error)
	// Apply processes a player action. Out-of-phase or unknown actions
	// return (nil, nil): invalid actions are silent no-ops.
	Apply(round *domain.Round, action EngineAction) (*EngineEvent, error)
	// Tick advances timer-driven state: betting countdown, flight
	// growth, reel spin, cascade pacing. Ticks on terminal rounds
	// return (nil, nil).
	Tick(round *domain.Round) (*EngineEvent, error)
}
