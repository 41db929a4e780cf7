package service

import (
	"testing"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pick indices into barsReelSymbols.
const (
	pickBlank     = 0
	pickCherry    = 1
	pickBar       = 2
	pickDoubleBar = 3
	pickTripleBar = 4
	pickSeven     = 5
)

func barsOpts(paylines int) domain.StartOptions {
	return domain.StartOptions{Bars: &domain.BarsOptions{Paylines: paylines}}
}

// spinBars begins a round and fires the reel-landing tick. The picks
// fill the grid row by row, top row first.
func spinBars(t *testing.T, bet int64, paylines int, picks []int) (*domain.Round, *ports.EngineEvent) {
	t.Helper()
	e := NewBarsEngine(testGamesConfig().Bars, &fakeRand{picks: picks}, testClock())
	round := newEngineRound(domain.GameBars, bet)
	_, err := e.Begin(round, barsOpts(paylines))
	require.NoError(t, err)
	ev, err := e.Tick(round)
	require.NoError(t, err)
	require.NotNil(t, ev)
	return round, ev
}

func TestBarsEngine_ValidateStart(t *testing.T) {
	e := NewBarsEngine(testGamesConfig().Bars, &fakeRand{}, testClock())

	assert.NoError(t, e.ValidateStart(300, domain.StartOptions{}))
	assert.NoError(t, e.ValidateStart(300, barsOpts(3)))
	assertAppError(t, e.ValidateStart(300, barsOpts(0)), "GAME_004")
	assertAppError(t, e.ValidateStart(300, barsOpts(6)), "GAME_004")
	assertAppError(t, e.ValidateStart(301, barsOpts(2)), "GAME_004")
}

func TestBarsEngine_BeginArmsSpin(t *testing.T) {
	cfg := testGamesConfig()
	e := NewBarsEngine(cfg.Bars, &fakeRand{}, testClock())
	round := newEngineRound(domain.GameBars, 500)

	ev, err := e.Begin(round, barsOpts(5))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, cfg.Bars.SpinDelay, ev.NextTick)
	assert.False(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusActive, round.Status)
	assert.Equal(t, 5, round.Bars.Paylines)
	assert.Equal(t, int64(100), round.Bars.LineBet)
}

func TestBarsEngine_CenterLineBarTriple(t *testing.T) {
	round, ev := spinBars(t, 300, 1, []int{
		pickBlank, pickBlank, pickBlank,
		pickBar, pickBar, pickBar,
		pickBlank, pickBlank, pickBlank,
	})

	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	assert.Equal(t, int64(22500), ev.Payout)
	assert.Equal(t, 75.0, ev.Multiplier)

	require.Len(t, round.Bars.Wins, 1)
	win := round.Bars.Wins[0]
	assert.Equal(t, 1, win.Line)
	assert.Equal(t, domain.SymbolBar, win.Symbol)
	assert.Equal(t, 3, win.Count)
	assert.Equal(t, int64(22500), win.Payout)
}

func TestBarsEngine_AllCherriesPayEveryLine(t *testing.T) {
	picks := make([]int, domain.BarsRows*domain.BarsReels)
	for i := range picks {
		picks[i] = pickCherry
	}
	round, ev := spinBars(t, 500, 5, picks)

	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	// Five lines of cherry triples at 20x the 100 line bet.
	assert.Equal(t, int64(10000), ev.Payout)
	assert.Equal(t, 20.0, ev.Multiplier)
	require.Len(t, round.Bars.Wins, 5)
	for _, win := range round.Bars.Wins {
		assert.Equal(t, domain.SymbolCherry, win.Symbol)
		assert.Equal(t, 3, win.Count)
		assert.Equal(t, int64(2000), win.Payout)
	}
}

func TestBarsEngine_MixedBarsPayReducedRate(t *testing.T) {
	_, ev := spinBars(t, 100, 1, []int{
		pickBlank, pickBlank, pickBlank,
		pickBar, pickDoubleBar, pickTripleBar,
		pickBlank, pickBlank, pickBlank,
	})

	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	assert.Equal(t, int64(2500), ev.Payout)
	assert.Equal(t, 25.0, ev.Multiplier)
}

func TestBarsEngine_DiagonalLineScored(t *testing.T) {
	round, ev := spinBars(t, 400, 4, []int{
		pickSeven, pickBlank, pickBlank,
		pickBlank, pickSeven, pickBlank,
		pickBlank, pickBlank, pickSeven,
	})

	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	assert.Equal(t, int64(50000), ev.Payout)
	require.Len(t, round.Bars.Wins, 1)
	assert.Equal(t, 4, round.Bars.Wins[0].Line)
	assert.Equal(t, domain.SymbolSeven, round.Bars.Wins[0].Symbol)
}

func TestBarsEngine_LosingSpin(t *testing.T) {
	round, ev := spinBars(t, 300, 3, make([]int, 9))

	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusLost, ev.Status)
	assert.Zero(t, ev.Payout)
	assert.Equal(t, domain.RoundStatusLost, round.Status)
	assert.Empty(t, round.Bars.Wins)
}

func TestBarsEngine_CancelWhileSpinning(t *testing.T) {
	e := NewBarsEngine(testGamesConfig().Bars, &fakeRand{}, testClock())
	round := newEngineRound(domain.GameBars, 300)
	_, _ = e.Begin(round, barsOpts(1))

	ev, err := e.Apply(round, ports.EngineAction{Name: "cancel"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusCanceled, ev.Status)
	assert.False(t, ev.Refund)

	// The armed tick finds a settled round and does nothing.
	tickEv, err := e.Tick(round)
	require.NoError(t, err)
	assert.Nil(t, tickEv)
}

func TestBarsEngine_TickAfterSettleIsNoOp(t *testing.T) {
	e := NewBarsEngine(testGamesConfig().Bars, &fakeRand{}, testClock())
	round := newEngineRound(domain.GameBars, 300)
	_, _ = e.Begin(round, barsOpts(1))
	_, err := e.Tick(round)
	require.NoError(t, err)

	ev, err := e.Tick(round)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestScoreBarsLine(t *testing.T) {
	cases := []struct {
		name   string
		line   [domain.BarsReels]domain.Symbol
		symbol domain.Symbol
		count  int
		mult   int64
	}{
		{"sevens", [3]domain.Symbol{domain.SymbolSeven, domain.SymbolSeven, domain.SymbolSeven}, domain.SymbolSeven, 3, 500},
		{"triple bars", [3]domain.Symbol{domain.SymbolTripleBar, domain.SymbolTripleBar, domain.SymbolTripleBar}, domain.SymbolTripleBar, 3, 300},
		{"double bars", [3]domain.Symbol{domain.SymbolDoubleBar, domain.SymbolDoubleBar, domain.SymbolDoubleBar}, domain.SymbolDoubleBar, 3, 150},
		{"single bars", [3]domain.Symbol{domain.SymbolBar, domain.SymbolBar, domain.SymbolBar}, domain.SymbolBar, 3, 75},
		{"mixed bars", [3]domain.Symbol{domain.SymbolTripleBar, domain.SymbolBar, domain.SymbolDoubleBar}, domain.SymbolBar, 3, 25},
		{"cherry triple", [3]domain.Symbol{domain.SymbolCherry, domain.SymbolCherry, domain.SymbolCherry}, domain.SymbolCherry, 3, 20},
		{"cherry pair", [3]domain.Symbol{domain.SymbolCherry, domain.SymbolBlank, domain.SymbolCherry}, domain.SymbolCherry, 2, 5},
		{"single cherry last reel", [3]domain.Symbol{domain.SymbolBlank, domain.SymbolBlank, domain.SymbolCherry}, domain.SymbolCherry, 1, 2},
		{"no win", [3]domain.Symbol{domain.SymbolBlank, domain.SymbolSeven, domain.SymbolBar}, domain.Symbol(""), 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			symbol, count, mult := scoreBarsLine(tc.line)
			assert.Equal(t, tc.symbol, symbol)
			assert.Equal(t, tc.count, count)
			assert.Equal(t, tc.mult, mult)
		})
	}
}
