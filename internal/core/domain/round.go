package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoundStatus is the lifecycle state of a round's envelope. Game-specific
// phases (Crash flight, Sugar Rush cascades) live on the game state.
type RoundStatus string

const (
	RoundStatusWaiting   RoundStatus = "WAITING" // Crash betting window countdown
	RoundStatusActive    RoundStatus = "ACTIVE"
	RoundStatusWon       RoundStatus = "WON"
	RoundStatusLost      RoundStatus = "LOST"
	RoundStatusCashedOut RoundStatus = "CASHED_OUT"
	RoundStatusCrashed   RoundStatus = "CRASHED"
	RoundStatusCanceled  RoundStatus = "CANCELED" // session cleanup, wallet untouched
)

// IsTerminal returns true once the round has settled. A round reaches a
// terminal status exactly once; any action on a terminal round is a no-op.
func (s RoundStatus) IsTerminal() bool {
	switch s {
	case RoundStatusWon, RoundStatusLost, RoundStatusCashedOut, RoundStatusCrashed, RoundStatusCanceled:
		return true
	}
	return false
}

// Move records one step of a round's history: a player action or a
// settlement event.
type Move struct {
	Action     string    `json:"action"` // reveal, pick, spin, cascade, cashout, crash, settle
	Target     int       `json:"target"` // tile/level index where applicable, -1 otherwise
	Multiplier float64   `json:"multiplier"`
	At         time.Time `json:"at"`
}

// Round is one instance of playing a single mini-game from bet to
// settlement. It is a tagged union: exactly one game-state pointer is
// non-nil and matches GameType. Rounds live in memory for the duration
// of the session and are discarded once a Result is emitted.
type Round struct {
	ID                uuid.UUID   `json:"id"`
	PlayerID          uuid.UUID   `json:"player_id"`
	GameType          GameType    `json:"game_type"`
	BetAmount         int64       `json:"bet_amount"`
	Status            RoundStatus `json:"status"`
	CurrentMultiplier float64     `json:"current_multiplier"`
	PotentialPayout   int64       `json:"potential_payout"` // meaningful only while non-terminal
	CanCashOut        bool        `json:"can_cash_out"`
	Seed              string      `json:"seed"`  // reserved for fairness verification, unused cryptographically
	Nonce             int64       `json:"nonce"` // reserved for fairness verification, unused cryptographically
	BetTransactionID  uuid.UUID   `json:"bet_transaction_id"`
	WinTransactionID  *uuid.UUID  `json:"win_transaction_id,omitempty"`
	StartedAt         time.Time   `json:"started_at"`
	EndedAt           *time.Time  `json:"ended_at,omitempty"`
	Moves             []Move      `json:"moves,omitempty"`

	Mines *MinesState `json:"mines,omitempty"`
	Crash *CrashState `json:"crash,omitempty"`
	Limbo *LimboState `json:"limbo,omitempty"`
	Tower *TowerState `json:"tower,omitempty"`
	Bars  *BarsState  `json:"bars,omitempty"`
	Sugar *SugarState `json:"sugar,omitempty"`
}

// IsTerminal reports whether the round has settled.
func (r *Round) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// Record appends a move to the round's history.
func (r *Round) Record(action string, target int, multiplier float64, at time.Time) {
	r.Moves = append(r.Moves, Move{
		Action:     action,
		Target:     target,
		Multiplier: multiplier,
		At:         at,
	})
}

// Settle moves the round into a terminal status. It is a no-op if the
// round is already terminal, preserving the settle-exactly-once invariant.
func (r *Round) Settle(status RoundStatus, multiplier float64, at time.Time) bool {
	if r.IsTerminal() {
		return false
	}
	r.Status = status
	r.CurrentMultiplier = multiplier
	r.EndedAt = &at
	return true
}

// NewRoundID mints a fresh round identifier.
func NewRoundID() uuid.UUID {
	return uuid.New()
}
