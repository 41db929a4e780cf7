package service

import (
	"fmt"

	"casino-round-engine/config"
	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"
	"casino-round-engine/pkg/apperror"
)

// barsReelSymbols and barsReelWeights define the weighted strip every
// reel cell draws from, biased toward low-value symbols.
var (
	barsReelSymbols = []domain.Symbol{
		domain.SymbolBlank,
		domain.SymbolCherry,
		domain.SymbolBar,
		domain.SymbolDoubleBar,
		domain.SymbolTripleBar,
		domain.SymbolSeven,
	}
	barsReelWeights = []int{30, 25, 20, 12, 8, 5}
)

// barsPaylines maps each line to the row shown per reel: center, top,
// bottom, then the two diagonals.
var barsPaylines = [domain.BarsMaxLines][domain.BarsReels]int{
	{1, 1, 1},
	{0, 0, 0},
	{2, 2, 2},
	{0, 1, 2},
	{2, 1, 0},
}

// BarsEngine drives the classic three-reel slot. One spin, a short reel
// delay, then every active payline is scored against the paytable.
type BarsEngine struct {
	cfg   config.BarsConfig
	rng   ports.RandomSource
	clock ports.Clock
}

// NewBarsEngine creates the Bars engine.
func NewBarsEngine(cfg config.BarsConfig, rng ports.RandomSource, clock ports.Clock) *BarsEngine {
	return &BarsEngine{cfg: cfg, rng: rng, clock: clock}
}

func (e *BarsEngine) Type() domain.GameType { return domain.GameBars }

// ValidateStart checks the payline count and that the bet splits evenly
// across lines.
func (e *BarsEngine) ValidateStart(bet int64, opts domain.StartOptions) error {
	paylines := 1
	if opts.Bars != nil {
		paylines = opts.Bars.Paylines
	}
	if paylines < 1 || paylines > domain.BarsMaxLines {
		return apperror.ErrInvalidGameConfig(fmt.Sprintf("paylines must be between 1 and %d", domain.BarsMaxLines))
	}
	if bet%int64(paylines) != 0 {
		return apperror.ErrInvalidGameConfig("bet must split evenly across paylines")
	}
	return nil
}

// Begin arms the spin; the reels land when the spin delay tick fires.
func (e *BarsEngine) Begin(round *domain.Round, opts domain.StartOptions) (*ports.EngineEvent, error) {
	paylines := 1
	if opts.Bars != nil {
		paylines = opts.Bars.Paylines
	}

	round.Status = domain.RoundStatusActive
	round.Bars = &domain.BarsState{
		Paylines: paylines,
		LineBet:  round.BetAmount / int64(paylines),
	}
	return &ports.EngineEvent{NextTick: e.cfg.SpinDelay}, nil
}

// Apply only recognizes cancellation while the reels are spinning.
func (e *BarsEngine) Apply(round *domain.Round, action ports.EngineAction) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Bars == nil {
		return nil, nil
	}
	if action.Name != "cancel" {
		return nil, nil
	}
	round.Record("cancel", -1, 0, e.clock.Now())
	round.Settle(domain.RoundStatusCanceled, 0, e.clock.Now())
	return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusCanceled}, nil
}

// Tick lands the reels and settles the spin.
func (e *BarsEngine) Tick(round *domain.Round) (*ports.EngineEvent, error) {
	if round.IsTerminal() || round.Bars == nil || round.Bars.Grid != nil {
		return nil, nil
	}
	state := round.Bars
	now := e.clock.Now()

	grid := make([][]domain.Symbol, domain.BarsRows)
	for row := range grid {
		grid[row] = make([]domain.Symbol, domain.BarsReels)
		for reel := range grid[row] {
			grid[row][reel] = barsReelSymbols[e.rng.Pick(barsReelWeights)]
		}
	}
	state.Grid = grid

	var total int64
	for line := 0; line < state.Paylines; line++ {
		symbols := [domain.BarsReels]domain.Symbol{}
		for reel, row := range barsPaylines[line] {
			symbols[reel] = grid[row][reel]
		}
		symbol, count, mult := scoreBarsLine(symbols)
		if mult == 0 {
			continue
		}
		payout := state.LineBet * mult
		total += payout
		state.Wins = append(state.Wins, domain.LineWin{
			Line:       line + 1,
			Symbol:     symbol,
			Count:      count,
			Multiplier: float64(mult),
			Payout:     payout,
		})
	}

	if total > 0 {
		mult := float64(total) / float64(round.BetAmount)
		round.Record("spin", -1, mult, now)
		round.Settle(domain.RoundStatusWon, mult, now)
		return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusWon, Multiplier: mult, Payout: total}, nil
	}
	round.Record("spin", -1, 0, now)
	round.Settle(domain.RoundStatusLost, 0, now)
	return &ports.EngineEvent{Settled: true, Status: domain.RoundStatusLost}, nil
}

// scoreBarsLine applies the paytable to one line. Cherries pay from any
// position; the bar family pays a reduced rate when mixed.
func scoreBarsLine(s [domain.BarsReels]domain.Symbol) (domain.Symbol, int, int64) {
	if s[0] == s[1] && s[1] == s[2] {
		switch s[0] {
		case domain.SymbolSeven:
			return domain.SymbolSeven, 3, 500
		case domain.SymbolTripleBar:
			return domain.SymbolTripleBar, 3, 300
		case domain.SymbolDoubleBar:
			return domain.SymbolDoubleBar, 3, 150
		case domain.SymbolBar:
			return domain.SymbolBar, 3, 75
		case domain.SymbolCherry:
			return domain.SymbolCherry, 3, 20
		}
	}
	if s[0].IsBar() && s[1].IsBar() && s[2].IsBar() {
		return domain.SymbolBar, 3, 25
	}
	cherries := 0
	for _, sym := range s {
		if sym == domain.SymbolCherry {
			cherries++
		}
	}
	switch cherries {
	case 2:
		return domain.SymbolCherry, 2, 5
	case 1:
		return domain.SymbolCherry, 1, 2
	}
	return "", 0, 0
}
