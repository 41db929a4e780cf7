package service

import (
	"fmt"

	"casino-round-engine/config"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
)

// CrashEngine drives the multiplier-flight game. The crash point is
// drawn once when the round is created and kept server-side; the flight
// is a chain of scheduler ticks racing against player cash-outs.
type CrashEngine struct {
	cfg   config.CrashConfig
	rng   ports.RandomSource
	clock ports.Clock
}

// NewCrashEngine creates the Crash engine.
func NewCrashEngine(cfg config.CrashConfig, rng ports.RandomSource, clock ports.Clock) *CrashEngine {
	return &CrashEngine{cfg: cfg, rng: rng, clock: clock}
}

func (e *CrashEngine) Type() domain.GameType { return domain.GameCrash }

// ValidateStart checks the optional auto-cash-out target.
func (e *CrashEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	if opts.Crash == nil || opts.Crash.AutoCashout == nil || !opts.Crash.AutoCashout.Enabled {
		return nil
	}
	target := opts.Crash.AutoCashout.Target
	if target < 1.01 || target > e.cfg.MaxCrashPoint {
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("auto cashout target must be between 1.01 and %g", e.cfg.MaxCrashPoint))
	}
	return nil
}

// Begin opens the betting window and commits the crash point.
func (e *CrashEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	var autoCashout float64
	if opts.Crash != nil && opts.Crash.AutoCashout != nil && opts.Crash.AutoCashout.Enabled {
		autoCashout = opts.Crash.AutoCashout.Target
	}

	round.Status = domain.RoundStatusWaiting
	round.CurrentMultiplier = 1.0
	round.PotentialPayout = round.BetAmount
	round.Crash = &domain.CrashState{
		Phase:       domain.CrashPhaseWaiting,
		CrashPoint:  e.drawCrashPoint(),
		AutoCashout: autoCashout,
	}
	return &ports.EngineEvent{NextTick: e.cfg.BettingWindow}, nil
}

// Apply handles cash-out and cancellation. A cash-out is only valid
// while flying; whichever of the cash-out and the crash tick runs first
// under the round lock wins the race.
func (e *CrashEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Crash == nil {
		return nil, nil
	}
	state := round.Crash
	now := e.clock.Now()

	switch action.Name {
	case "cashout":
		if state.Phase != domain.CrashPhaseFlying || !round.CanCashOut {
			return nil, nil
		}
		mult := floor2(round.CurrentMultiplier)
		payout := roundPayout(round.BetAmount, mult)
		round.Record("cashout", -1, mult, now)
		round.Settle(domain.RoundStatusCashedOut, mult, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCashedOut, Multiplier: mult, Payout: payout}, nil

	case "cancel":
		// Leaving during the betting window returns the stake; once
		// betting closes the stake is committed.
		refund := state.Phase == domain.CrashPhaseWaiting
		round.Record("cancel", -1, 0, now)
		round.Settle(domain.RoundStatusCanceled, 0, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCanceled, Refund: refund}, nil
	}
	return nil, nil
}

// Tick advances the phase chain: the betting window expires, the flight
// launches, then the multiplier grows geometrically until the crash
// point or an auto-cash-out target is crossed.
func (e *CrashEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Crash == nil {
		return nil, nil
	}
	state := round.Crash
	now := e.clock.Now()

	switch state.Phase {
	case domain.CrashPhaseWaiting:
		// Betting closes; the flight launches on the next tick.
		state.Phase = domain.CrashPhaseClosed
		round.Status = domain.RoundStatusActive
		return &ports.EngineEvent{Broadcast: true, NextTick: e.cfg.TickInterval}, nil

	case domain.CrashPhaseClosed:
		state.Phase = domain.CrashPhaseFlying
		round.CanCashOut = true
		return &ports.EngineEvent{Broadcast: true, NextTick: e.cfg.TickInterval}, nil

	case domain.CrashPhaseFlying:
		state.Ticks++
		next := round.CurrentMultiplier * e.cfg.GrowthRate

		// The target only preempts the crash when it is strictly lower:
		// at equal values the crash fires first.
		if state.AutoCashout > 0 && next >= state.AutoCashout && state.AutoCashout < state.CrashPoint {
			mult := state.AutoCashout
			payout := roundPayout(round.BetAmount, mult)
			round.Record("cashout", -1, mult, now)
			round.Settle(domain.RoundStatusCashedOut, mult, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCashedOut, Multiplier: mult, Payout: payout}, nil
		}

		if next >= state.CrashPoint {
			round.Record("crash", -1, state.CrashPoint, now)
			round.Settle(domain.RoundStatusCrashed, state.CrashPoint, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCrashed}, nil
		}

		round.CurrentMultiplier = next
		round.PotentialPayout = roundPayout(round.BetAmount, floor2(next))
		return &ports.EngineEvent{Broadcast: true, NextTick: e.cfg.TickInterval}, nil
	}
	return nil, nil
}

// drawCrashPoint transforms one uniform draw into the committed crash
// multiplier, clamped to the configured range.
func (e *CrashEngine) drawCrashPoint() float64 {
	point := inverseUniform(e.rng.Float64(), e.cfg.HouseEdge)
	if lo := e.cfg.MinCrashPoint; lo > 1.0 && point < lo {
		point = lo
	}
	if hi := e.cfg.MaxCrashPoint; hi > 0 && point > hi {
		point = hi
	}
	return point
}
