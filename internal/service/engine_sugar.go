package service

import (
	"casino-round-engine/config"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
)

// sugarSymbols and sugarWeights define the weighted candy pool, biased
// toward the low-value symbols. sugarBases is the per-symbol multiplier
// before size and cascade scaling.
var (
	sugarSymbols = []domain.Symbol{
		domain.SymbolPink,
		domain.SymbolBlue,
		domain.SymbolGreen,
		domain.SymbolYellow,
		domain.SymbolOrange,
		domain.SymbolRed,
		domain.SymbolHeart,
	}
	sugarWeights = []int{25, 22, 18, 14, 10, 7, 4}
	sugarBases   = map[domain.Symbol]float64{
		domain.SymbolPink:   0.25,
		domain.SymbolBlue:   0.4,
		domain.SymbolGreen:  0.5,
		domain.SymbolYellow: 0.75,
		domain.SymbolOrange: 1.0,
		domain.SymbolRed:    1.5,
		domain.SymbolHeart:  2.5,
	}
)

// sugarLadder is the cascade-level multiplier per resolution step.
var sugarLadder = [domain.SugarMaxCascades]float64{1, 2, 3, 5, 10, 15, 20, 25, 50, 100}

// SugarEngine drives the cluster-cascade slot: a 7x7 grid where
// connected groups of five or more matching candies pay, vanish, and
// let fresh symbols drop in, each resolution step climbing the cascade
// multiplier ladder.
type SugarEngine struct {
	cfg   config.SugarConfig
	rng   ports.RandomSource
	clock ports.Clock
}

// NewSugarEngine creates the Sugar Rush engine.
func NewSugarEngine(cfg config.SugarConfig, rng ports.RandomSource, clock ports.Clock) *SugarEngine {
	return &SugarEngine{cfg: cfg, rng: rng, clock: clock}
}

func (e *SugarEngine) Type() domain.GameType { return domain.GameSugar }

// ValidateStart accepts any bet: the grid has no player-tunable options.
func (e *SugarEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	return nil
}

// Begin arms the spin.
func (e *SugarEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	round.Status = domain.RoundStatusActive
	round.Sugar = &domain.SugarState{Phase: domain.SugarPhaseSpinning}
	return &ports.EngineEvent{NextTick: e.cfg.SpinDelay}, nil
}

// Apply only recognizes cancellation mid-spin.
func (e *SugarEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Sugar == nil {
		return nil, nil
	}
	if action.Name != "cancel" {
		return nil, nil
	}
	round.Record("cancel", -1, 0, e.clock.Now())
	round.Settle(domain.RoundStatusCanceled, 0, e.clock.Now())
	return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCanceled}, nil
}

// Tick advances the spin-evaluate-cascade chain. Each tick resolves at
// most one step, so subscribers see every intermediate grid.
func (e *SugarEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Sugar == nil {
		return nil, nil
	}
	state := round.Sugar
	now := e.clock.Now()

	if state.Phase == domain.SugarPhaseSpinning {
		state.Grid = e.fillGrid()
		state.Phase = domain.SugarPhaseEvaluating
		round.Record("spin", -1, 0, now)
		return &ports.EngineEvent{Broadcast: true, NextTick: e.cfg.CascadeDelay}, nil
	}

	clusters := findClusters(state.Grid)
	if len(clusters) > 0 && state.Cascade < domain.SugarMaxCascades {
		ladderMult := sugarLadder[state.Cascade]
		step := domain.CascadeStep{
			Cascade:    state.Cascade,
			Multiplier: ladderMult,
			Clusters:   clusters,
		}
		for _, cl := range clusters {
			step.Payout += roundPayout(round.BetAmount, sugarBases[cl.Symbol]*sugarSizeStep(cl.Size)*ladderMult)
		}
		state.TotalPayout += step.Payout
		state.Steps = append(state.Steps, step)
		round.Record("cascade", state.Cascade, ladderMult, now)

		removeClusters(state.Grid, clusters)
		e.collapseAndRefill(state.Grid)
		state.Cascade++
		state.Phase = domain.SugarPhaseCascading
		round.CurrentMultiplier = float64(state.TotalPayout) / float64(round.BetAmount)
		round.PotentialPayout = state.TotalPayout
		return &ports.EngineEvent{Broadcast: true, NextTick: e.cfg.CascadeDelay}, nil
	}

	// No new clusters, or the safety cap was hit: the spin is complete.
	total := state.TotalPayout
	if limit := roundPayout(round.BetAmount, e.cfg.MaxWinMultiplier); limit > 0 && total > limit {
		total = limit
		state.TotalPayout = limit
	}
	if total > 0 {
		mult := float64(total) / float64(round.BetAmount)
		round.Settle(domain.RoundStatusWon, mult, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusWon, Multiplier: mult, Payout: total}, nil
	}
	round.Settle(domain.RoundStatusLost, 0, now)
	return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusLost}, nil
}

// fillGrid draws a fresh full grid.
func (e *SugarEngine) fillGrid() [][]domain.Symbol {
	grid := make([][]domain.Symbol, domain.SugarGridSize)
	for r := range grid {
		grid[r] = make([]domain.Symbol, domain.SugarGridSize)
		for c := range grid[r] {
			grid[r][c] = sugarSymbols[e.rng.Pick(sugarWeights)]
		}
	}
	return grid
}

// collapseAndRefill drops surviving symbols to the bottom of their
// column and fills the emptied cells from the top.
func (e *SugarEngine) collapseAndRefill(grid [][]domain.Symbol) {
	size := len(grid)
	for c := 0; c < size; c++ {
		stack := make([]domain.Symbol, 0, size)
		for r := 0; r < size; r++ {
			if grid[r][c] != "" {
				stack = append(stack, grid[r][c])
			}
		}
		for r := 0; r < size-len(stack); r++ {
			grid[r][c] = sugarSymbols[e.rng.Pick(sugarWeights)]
		}
		for i, sym := range stack {
			grid[size-len(stack)+i][c] = sym
		}
	}
}

// findClusters runs a breadth-first flood fill over the grid and keeps
// connected same-symbol groups of at least the minimum cluster size.
func findClusters(grid [][]domain.Symbol) []domain.Cluster {
	size := len(grid)
	visited := make([][]bool, size)
	for i := range visited {
		visited[i] = make([]bool, size)
	}
	dirs := [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

	var clusters []domain.Cluster
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if visited[r][c] || grid[r][c] == "" {
				continue
			}
			sym := grid[r][c]
			var cells []domain.Cell
			queue := []domain.Cell{{Row: r, Col: c}}
			visited[r][c] = true

			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				cells = append(cells, cur)
				for _, d := range dirs {
					nr, nc := cur.Row+d[0], cur.Col+d[1]
					if nr >= 0 && nr < size && nc >= 0 && nc < size &&
						!visited[nr][nc] && grid[nr][nc] == sym {
						visited[nr][nc] = true
						queue = append(queue, domain.Cell{Row: nr, Col: nc})
					}
				}
			}
			if len(cells) >= domain.SugarMinCluster {
				clusters = append(clusters, domain.Cluster{Symbol: sym, Size: len(cells), Cells: cells})
			}
		}
	}
	return clusters
}

// removeClusters clears every paid cell.
func removeClusters(grid [][]domain.Symbol, clusters []domain.Cluster) {
	for _, cl := range clusters {
		for _, cell := range cl.Cells {
			grid[cell.Row][cell.Col] = ""
		}
	}
}

// sugarSizeStep scales a cluster's pay by its size band.
func sugarSizeStep(size int) float64 {
	switch {
	case size >= 20:
		return 10
	case size >= 15:
		return 5
	case size >= 10:
		return 3
	case size >= 8:
		return 2
	case size >= 6:
		return 1.5
	default:
		return 1
	}
}
