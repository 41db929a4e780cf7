package service

import (
	"math"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
)

// TowerEngine drives the Dragon Tower climb: nine levels, one safe tile
// per level, all safe tiles pre-committed when the round starts. Each
// completed level compounds the difficulty's base multiplier.
type TowerEngine struct {
	rng   ports.RandomSource
	clock ports.Clock
}

// NewTowerEngine creates the Dragon Tower engine.
func NewTowerEngine(rng ports.RandomSource, clock ports.Clock) *TowerEngine {
	return &TowerEngine{rng: rng, clock: clock}
}

func (e *TowerEngine) Type() domain.GameType { return domain.GameTower }

// ValidateStart checks the difficulty and the optional auto-cash-out
// threshold.
func (e *TowerEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	if opts.Tower == nil {
		return nil // defaults apply
	}
	if !opts.Tower.Difficulty.Valid() {
		return apperror.ErrInvalidGameConfig("difficulty must be easy, medium, hard or expert")
	}
	if ac := opts.Tower.AutoCashout; ac != nil && ac.Enabled && ac.Target < 1.01 {
		return apperror.ErrInvalidGameConfig("auto cashout target must be at least 1.01")
	}
	return nil
}

// Begin commits one safe tile per level for the whole tower.
func (e *TowerEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	difficulty := domain.DifficultyEasy
	var autoCashout float64
	if opts.Tower != nil {
		difficulty = opts.Tower.Difficulty
		if ac := opts.Tower.AutoCashout; ac != nil && ac.Enabled {
			autoCashout = ac.Target
		}
	}

	safeTiles := make([]int, domain.TowerLevels)
	for i := range safeTiles {
		safeTiles[i] = e.rng.Intn(difficulty.TileCount())
	}

	round.Status = domain.RoundStatusActive
	round.CurrentMultiplier = 1.0
	round.PotentialPayout = round.BetAmount
	round.Tower = &domain.TowerState{
		Difficulty:  difficulty,
		SafeTiles:   safeTiles,
		Picks:       []int{},
		AutoCashout: autoCashout,
	}
	return &ports.EngineEvent{}, nil
}

// Apply handles pick and cashout. Cash-out opens after the first
// completed level.
func (e *TowerEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Tower == nil {
		return nil, nil
	}
	state := round.Tower
	now := e.clock.Now()

	switch action.Name {
	case "pick":
		if action.Tile == nil {
			return nil, nil
		}
		tile := *action.Tile
		if tile < 0 || tile >= state.Difficulty.TileCount() {
			return nil, nil
		}
		state.Picks = append(state.Picks, tile)

		if tile != state.SafeTiles[state.Level] {
			round.Record("pick", tile, 0, now)
			round.Settle(domain.RoundStatusLost, 0, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusLost}, nil
		}

		state.Level++
		mult := towerMultiplier(state.Difficulty, state.Level)
		round.CurrentMultiplier = mult
		round.PotentialPayout = roundPayout(round.BetAmount, mult)
		round.CanCashOut = true
		round.Record("pick", tile, mult, now)

		if state.Level == domain.TowerLevels {
			payout := roundPayout(round.BetAmount, mult)
			round.Settle(domain.RoundStatusWon, mult, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusWon, Multiplier: mult, Payout: payout}, nil
		}

		if state.AutoCashout > 0 && mult >= state.AutoCashout {
			payout := roundPayout(round.BetAmount, mult)
			round.Record("cashout", -1, mult, now)
			round.Settle(domain.RoundStatusCashedOut, mult, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCashedOut, Multiplier: mult, Payout: payout}, nil
		}
		return &ports.EngineEvent{}, nil

	case "cashout":
		if !round.CanCashOut {
			return nil, nil
		}
		mult := round.CurrentMultiplier
		payout := roundPayout(round.BetAmount, mult)
		round.Record("cashout", -1, mult, now)
		round.Settle(domain.RoundStatusCashedOut, mult, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCashedOut, Multiplier: mult, Payout: payout}, nil

	case "cancel":
		round.Record("cancel", -1, 0, now)
		round.Settle(domain.RoundStatusCanceled, 0, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCanceled}, nil
	}
	return nil, nil
}

// Tick is unused: the tower advances only on player picks.
func (e *TowerEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	return nil, nil
}

// towerMultiplier compounds the difficulty base per completed level;
// the 0.97 factor carries the house edge.
func towerMultiplier(difficulty domain.Difficulty, level int) float64 {
	return math.Pow(difficulty.BaseMultiplier(), float64(level)) * 0.97
}
