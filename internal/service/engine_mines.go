package service

import (
	"fmt"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
)

const defaultMineCount = 3

// MinesEngine drives the 5x5 Mines board. Mines are not pre-placed:
// every reveal draws hit-or-safe at probability mineCount over the
// remaining unrevealed tiles, so the risk rises as the board clears.
type MinesEngine struct {
	rng   ports.RandomSource
	clock ports.Clock
}

// NewMinesEngine creates the Mines engine.
func NewMinesEngine(rng ports.RandomSource, clock ports.Clock) *MinesEngine {
	return &MinesEngine{rng: rng, clock: clock}
}

func (e *MinesEngine) Type() domain.GameType { return domain.GameMines }

// ValidateStart checks the mine count before any money moves.
func (e *MinesEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	if opts.Mines == nil {
		return nil // defaults apply
	}
	mc := opts.Mines.MineCount
	if mc < domain.MinesMinCount || mc > domain.MinesMaxCount {
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("mine count must be between %d and %d", domain.MinesMinCount, domain.MinesMaxCount))
	}
	return nil
}

// Begin sets up an empty board. Nothing is drawn until the first reveal.
func (e *MinesEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	mineCount := defaultMineCount
	autoReveal := false
	if opts.Mines != nil {
		mineCount = opts.Mines.MineCount
		autoReveal = opts.Mines.AutoReveal
	}

	round.Status = domain.RoundStatusActive
	round.CurrentMultiplier = 1.0
	round.PotentialPayout = round.BetAmount
	round.Mines = &domain.MinesState{
		MineCount:  mineCount,
		AutoReveal: autoReveal,
		Revealed:   []int{},
	}
	return &ports.EngineEvent{}, nil
}

// Apply handles reveal and cashout. Re-revealing a tile, cashing out
// before the first safe reveal, and acting on a settled round are all
// silent no-ops.
func (e *MinesEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Mines == nil {
		return nil, nil
	}
	state := round.Mines
	now := e.clock.Now()

	switch action.Name {
	case "reveal":
		tile, ok := e.pickTile(state, action.Tile)
		if !ok {
			return nil, nil
		}

		remaining := domain.MinesGridSize - state.SafeReveals()
		if e.rng.Float64() < float64(state.MineCount)/float64(remaining) {
			state.MineTile = &tile
			round.Record("reveal", tile, 0, now)
			round.Settle(domain.RoundStatusLost, 0, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusLost}, nil
		}

		state.Revealed = append(state.Revealed, tile)
		mult := minesMultiplier(state.SafeReveals(), state.MineCount)
		round.CurrentMultiplier = mult
		round.PotentialPayout = roundPayout(round.BetAmount, mult)
		round.CanCashOut = true
		round.Record("reveal", tile, mult, now)

		// Board cleared: every non-mine tile revealed.
		if state.SafeReveals() == domain.MinesGridSize-state.MineCount {
			payout := roundPayout(round.BetAmount, mult)
			round.Settle(domain.RoundStatusWon, mult, now)
			return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusWon, Multiplier: mult, Payout: payout}, nil
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

// Tick is unused: Mines has no timer-driven transitions.
func (e *MinesEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	return nil, nil
}

// pickTile resolves the reveal target. A missing tile index draws a
// random unrevealed tile when auto-reveal is on.
func (e *MinesEngine) pickTile(state *domain.MinesState, tile *int) (int, bool) {
	if tile == nil {
		if !state.AutoReveal {
			return 0, false
		}
		unrevealed := make([]int, 0, domain.MinesGridSize-state.SafeReveals())
		for t := 0; t < domain.MinesGridSize; t++ {
			if !state.IsRevealed(t) {
				unrevealed = append(unrevealed, t)
			}
		}
		return unrevealed[e.rng.Intn(len(unrevealed))], true
	}
	t := *tile
	if t < 0 || t >= domain.MinesGridSize || state.IsRevealed(t) {
		return 0, false
	}
	return t, true
}

// minesMultiplier is the linear reveal ladder: one tenth of the mine
// count per revealed safe tile.
func minesMultiplier(revealedSafe, mineCount int) float64 {
	return 1 + float64(revealedSafe)*0.1*float64(mineCount)
}
