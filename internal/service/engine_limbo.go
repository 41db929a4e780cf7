package service

import (
	"fmt"

	"casino-round-engine/config"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
)

// LimboEngine is the one-shot target game: the player names a
// multiplier, one draw decides. The round settles inside Begin; there
// are no actions and no ticks.
type LimboEngine struct {
	cfg   config.LimboConfig
	rng   ports.RandomSource
	clock ports.Clock
}

// NewLimboEngine creates the Limbo engine.
func NewLimboEngine(cfg config.LimboConfig, rng ports.RandomSource, clock ports.Clock) *LimboEngine {
	return &LimboEngine{cfg: cfg, rng: rng, clock: clock}
}

func (e *LimboEngine) Type() domain.GameType { return domain.GameLimbo }

// ValidateStart requires a target multiplier within the allowed band.
func (e *LimboEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	if opts.Limbo == nil {
		return apperror.ErrInvalidGameConfig("target multiplier required")
	}
	target := opts.Limbo.Target
	if target < 1.01 || target > e.cfg.MaxTarget {
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("target must be between 1.01 and %g", e.cfg.MaxTarget))
	}
	return nil
}

// Begin draws the generated multiplier and settles immediately. A win
// pays the target, never the generated value.
func (e *LimboEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	target := opts.Limbo.Target
	generated := inverseUniform(e.rng.Float64(), e.cfg.HouseEdge)
	now := e.clock.Now()

	round.Status = domain.RoundStatusActive
	round.Limbo = &domain.LimboState{Target: target, Generated: generated}
	round.Record("settle", -1, generated, now)

	if generated >= target {
		payout := roundPayout(round.BetAmount, target)
		round.Settle(domain.RoundStatusWon, target, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusWon, Multiplier: target, Payout: payout}, nil
	}
	round.Settle(domain.RoundStatusLost, 0, now)
	return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusLost}, nil
}

// Apply is unused: the round is terminal before any action can reach it.
func (e *LimboEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	return nil, nil
}

// Tick is unused.
func (e *LimboEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	return nil, nil
}
