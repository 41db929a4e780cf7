package service

import (
	"math"
	"testing"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func towerOpts(d domain.Difficulty) domain.StartOptions {
	return domain.StartOptions{Tower: &domain.TowerOptions{Difficulty: d}}
}

// pickSafe walks the pre-committed safe tiles for n levels.
func pickSafe(t *testing.T, e *TowerEngine, round *domain.Round, n int) *ports.EngineEvent {
	t.Helper()
	var ev *ports.EngineEvent
	for i := 0; i < n; i++ {
		tile := round.Tower.SafeTiles[round.Tower.Level]
		var err error
		ev, err = e.Apply(round, ports.EngineAction{Name: "pick", Tile: intp(tile)})
		require.NoError(t, err)
		require.NotNil(t, ev)
	}
	return ev
}

func TestTowerEngine_ValidateStart(t *testing.T) {
	e := NewTowerEngine(&fakeRand{}, testClock())

	assert.NoError(t, e.ValidateStart(100, domain.StartOptions{}))
	assert.NoError(t, e.ValidateStart(100, towerOpts(domain.DifficultyExpert)))
	assertAppError(t, e.ValidateStart(100, towerOpts(domain.Difficulty("impossible"))), "GAME_004")
	assertAppError(t, e.ValidateStart(100, domain.StartOptions{Tower: &domain.TowerOptions{
		Difficulty:  domain.DifficultyEasy,
		AutoCashout: &domain.AutoCashoutOptions{Enabled: true, Target: 1.0},
	}}), "GAME_004")
}

func TestTowerEngine_BeginCommitsSafeTiles(t *testing.T) {
	rng := &fakeRand{ints: []int{0, 1, 2, 0, 1, 2, 0, 1, 2}}
	e := NewTowerEngine(rng, testClock())
	round := newEngineRound(domain.GameTower, 1000)

	_, err := e.Begin(round, towerOpts(domain.DifficultyMedium))
	require.NoError(t, err)
	assert.Equal(t, domain.RoundStatusActive, round.Status)
	assert.Len(t, round.Tower.SafeTiles, domain.TowerLevels)
	for _, tile := range round.Tower.SafeTiles {
		assert.GreaterOrEqual(t, tile, 0)
		assert.Less(t, tile, domain.DifficultyMedium.TileCount())
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1, 2}, round.Tower.SafeTiles)
}

func TestTowerEngine_ClimbCompoundsMultiplier(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 1000)
	_, err := e.Begin(round, towerOpts(domain.DifficultyEasy))
	require.NoError(t, err)

	ev := pickSafe(t, e, round, 3)
	assert.False(t, ev.Settled)
	// easy base 1.5 over three levels: 1.5^3 * 0.97
	assert.InDelta(t, 3.27375, round.CurrentMultiplier, 1e-9)
	assert.Equal(t, int64(3274), round.PotentialPayout)
	assert.Equal(t, 3, round.Tower.Level)
	assert.True(t, round.CanCashOut)
}

func TestTowerEngine_WrongPickLoses(t *testing.T) {
	e := NewTowerEngine(&constRand{n: 1}, testClock())
	round := newEngineRound(domain.GameTower, 1000)
	_, _ = e.Begin(round, towerOpts(domain.DifficultyMedium))

	// Every safe tile is 1; picking 0 falls.
	ev, err := e.Apply(round, ports.EngineAction{Name: "pick", Tile: intp(0)})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusLost, ev.Status)
	assert.Zero(t, ev.Payout)
	assert.Equal(t, []int{0}, round.Tower.Picks)
}

func TestTowerEngine_CashoutBeforeFirstLevelIsNoOp(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 1000)
	_, _ = e.Begin(round, towerOpts(domain.DifficultyEasy))

	ev, err := e.Apply(round, ports.EngineAction{Name: "cashout"})
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestTowerEngine_CashoutPaysCurrentLevel(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 2000)
	_, _ = e.Begin(round, towerOpts(domain.DifficultyEasy))
	pickSafe(t, e, round, 2)

	ev, err := e.Apply(round, ports.EngineAction{Name: "cashout"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusCashedOut, ev.Status)
	// 1.5^2 * 0.97 = 2.1825
	assert.InDelta(t, 2.1825, ev.Multiplier, 1e-9)
	assert.Equal(t, int64(4365), ev.Payout)
}

func TestTowerEngine_ClearingTowerWins(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 100)
	_, _ = e.Begin(round, towerOpts(domain.DifficultyEasy))

	ev := pickSafe(t, e, round, domain.TowerLevels)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	want := math.Pow(1.5, float64(domain.TowerLevels)) * 0.97
	assert.InDelta(t, want, ev.Multiplier, 1e-9)
	assert.Equal(t, roundPayout(100, want), ev.Payout)
}

func TestTowerEngine_AutoCashoutFiresAtThreshold(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 2000)
	_, err := e.Begin(round, domain.StartOptions{Tower: &domain.TowerOptions{
		Difficulty:  domain.DifficultyEasy,
		AutoCashout: &domain.AutoCashoutOptions{Enabled: true, Target: 2.0},
	}})
	require.NoError(t, err)

	// Level one lands at 1.455, under the target.
	ev := pickSafe(t, e, round, 1)
	assert.False(t, ev.Settled)

	// Level two crosses it and settles at the reached multiplier.
	ev = pickSafe(t, e, round, 1)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusCashedOut, ev.Status)
	assert.InDelta(t, 2.1825, ev.Multiplier, 1e-9)
	assert.Equal(t, int64(4365), ev.Payout)
}

func TestTowerEngine_OutOfRangePickIsNoOp(t *testing.T) {
	e := NewTowerEngine(&constRand{}, testClock())
	round := newEngineRound(domain.GameTower, 1000)
	_, _ = e.Begin(round, towerOpts(domain.DifficultyEasy))

	for _, tile := range []int{-1, domain.DifficultyEasy.TileCount(), 99} {
		ev, err := e.Apply(round, ports.EngineAction{Name: "pick", Tile: intp(tile)})
		require.NoError(t, err)
		assert.Nil(t, ev)
	}
	ev, err := e.Apply(round, ports.EngineAction{Name: "pick"})
	require.NoError(t, err)
	assert.Nil(t, ev)
}
