package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Reasons an autoplay run stops. Stored on the session and reported to
// the player when the run ends.
const (
	StopReasonCompleted    = "completed"
	StopReasonWin          = "stop_on_win"
	StopReasonLoss         = "stop_on_loss"
	StopReasonProfitTarget = "profit_target_reached"
	StopReasonLossLimit    = "loss_limit_reached"
	StopReasonInsufficient = "insufficient_balance"
	StopReasonPlayer       = "stopped_by_player"
	StopReasonError        = "round_error"
)

// AutoplaySession tracks a serialized run of automatic rounds for one
// player on one game. Round N+1 is only scheduled after round N settles
// and the stop conditions pass, so fields are mutated sequentially.
type AutoplaySession struct {
	ID           uuid.UUID       `json:"id"`
	PlayerID     uuid.UUID       `json:"player_id"`
	GameType     GameType        `json:"game_type"`
	BaseBet      int64           `json:"base_bet"`
	CurrentBet   int64           `json:"current_bet"`
	Options      AutoplayOptions `json:"options"`
	StartOptions StartOptions    `json:"-"`
	RoundsPlayed int             `json:"rounds_played"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	Profit       int64           `json:"profit"` // cumulative payouts minus stakes, minor units
	Active       bool            `json:"active"`
	StopReason   string          `json:"stop_reason,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	EndedAt      *time.Time      `json:"ended_at,omitempty"`
}

// NewAutoplaySession builds an active session with the bet as base.
func NewAutoplaySession(playerID uuid.UUID, game GameType, bet int64, opts AutoplayOptions, start StartOptions, now time.Time) *AutoplaySession {
	return &AutoplaySession{
		ID:           uuid.New(),
		PlayerID:     playerID,
		GameType:     game,
		BaseBet:      bet,
		CurrentBet:   bet,
		Options:      opts,
		StartOptions: start,
		Active:       true,
		StartedAt:    now,
	}
}

// ApplyResult folds one settled round into the session counters.
func (s *AutoplaySession) ApplyResult(res *Result) {
	s.RoundsPlayed++
	s.Profit += res.Payout - res.BetAmount
	if res.Win {
		s.Wins++
	} else {
		s.Losses++
	}
}

// StopReasonAfter evaluates the stop conditions against the session
// state after a settled round. Returns "" when the run should continue.
// Order matters: the round budget is checked first so a run never
// exceeds it even when another condition also fires.
func (s *AutoplaySession) StopReasonAfter(res *Result) string {
	if s.RoundsPlayed >= s.Options.Rounds {
		return StopReasonCompleted
	}
	if s.Options.StopOnWin && res.Win {
		return StopReasonWin
	}
	if s.Options.StopOnLoss && !res.Win {
		return StopReasonLoss
	}
	if s.Options.ProfitTarget > 0 && s.Profit >= s.Options.ProfitTarget {
		return StopReasonProfitTarget
	}
	if s.Options.LossLimit > 0 && -s.Profit >= s.Options.LossLimit {
		return StopReasonLossLimit
	}
	return ""
}

// AdjustBet applies the session's bet-adjustment rule and returns the
// stake for the next round. The rule runs after every settled round,
// independent of the outcome.
func (s *AutoplaySession) AdjustBet() int64 {
	switch s.Options.BetAdjustment {
	case BetAdjustmentReset:
		s.CurrentBet = s.BaseBet
	case BetAdjustmentIncrease:
		factor := 1 + s.Options.IncreasePercent/100
		s.CurrentBet = int64(math.Ceil(float64(s.CurrentBet) * factor))
	}
	return s.CurrentBet
}

// Stop marks the session inactive. Idempotent: the first reason wins.
func (s *AutoplaySession) Stop(reason string, now time.Time) {
	if !s.Active {
		return
	}
	s.Active = false
	s.StopReason = reason
	s.EndedAt = &now
}
