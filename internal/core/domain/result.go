package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result is the immutable snapshot emitted when a round terminates.
// It is appended to the player's game history and broadcast to
// subscribers; it is never mutated afterwards.
type Result struct {
	RoundID    uuid.UUID `json:"round_id"`
	PlayerID   uuid.UUID `json:"player_id"`
	GameType   GameType  `json:"game_type"`
	BetAmount  int64     `json:"bet_amount"`
	Multiplier float64   `json:"multiplier"`
	Payout     int64     `json:"payout"`
	Win        bool      `json:"win"`
	Moves      []Move    `json:"moves,omitempty"`
	Round      *Round    `json:"round,omitempty"` // final snapshot
	EndedAt    time.Time `json:"ended_at"`
}

// NewResult builds the Result for a terminal round. Payout must be 0 for
// losing statuses; the builder enforces non-negativity either way.
func NewResult(r *Round, payout int64) *Result {
	if payout < 0 {
		payout = 0
	}
	win := r.Status == RoundStatusWon || r.Status == RoundStatusCashedOut
	if !win {
		payout = 0
	}
	endedAt := r.StartedAt
	if r.EndedAt != nil {
		endedAt = *r.EndedAt
	}
	moves := make([]Move, len(r.Moves))
	copy(moves, r.Moves)
	return &Result{
		RoundID:    r.ID,
		PlayerID:   r.PlayerID,
		GameType:   r.GameType,
		BetAmount:  r.BetAmount,
		Multiplier: r.CurrentMultiplier,
		Payout:     payout,
		Win:        win,
		Moves:      moves,
		Round:      r,
		EndedAt:    endedAt,
	}
}
