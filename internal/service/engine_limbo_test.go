package service

import (
	"testing"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limboOpts(target float64) domain.StartOptions {
	return domain.StartOptions{Limbo: &domain.LimboOptions{Target: target}}
}

func TestLimboEngine_ValidateStart(t *testing.T) {
	cfg := testGamesConfig()
	e := NewLimboEngine(cfg.Limbo, &fakeRand{}, testClock())

	assert.NoError(t, e.ValidateStart(100, limboOpts(1.01)))
	assert.NoError(t, e.ValidateStart(100, limboOpts(cfg.Limbo.MaxTarget)))
	assertAppError(t, e.ValidateStart(100, domain.StartOptions{}), "GAME_004")
	assertAppError(t, e.ValidateStart(100, limboOpts(1.0)), "GAME_004")
	assertAppError(t, e.ValidateStart(100, limboOpts(cfg.Limbo.MaxTarget+0.01)), "GAME_004")
}

func TestLimboEngine_WinPaysTarget(t *testing.T) {
	cfg := testGamesConfig()
	// u = 0.9 generates close to 9.9, comfortably over the target.
	e := NewLimboEngine(cfg.Limbo, &constRand{f: 0.9}, testClock())
	round := newEngineRound(domain.GameLimbo, 1000)

	ev, err := e.Begin(round, limboOpts(2.0))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusWon, ev.Status)
	assert.Equal(t, 2.0, ev.Multiplier)
	assert.Equal(t, int64(2000), ev.Payout)

	assert.Equal(t, domain.RoundStatusWon, round.Status)
	assert.GreaterOrEqual(t, round.Limbo.Generated, 2.0)
	assert.Equal(t, 2.0, round.Limbo.Target)
	require.NotNil(t, round.EndedAt)
}

func TestLimboEngine_LossPaysNothing(t *testing.T) {
	cfg := testGamesConfig()
	// u = 0.5 generates just under 2, below a target of 5.
	e := NewLimboEngine(cfg.Limbo, &constRand{f: 0.5}, testClock())
	round := newEngineRound(domain.GameLimbo, 1000)

	ev, err := e.Begin(round, limboOpts(5.0))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.Settled)
	assert.Equal(t, domain.RoundStatusLost, ev.Status)
	assert.Zero(t, ev.Payout)
	assert.InDelta(t, 1.98, round.Limbo.Generated, 0.02)
	assert.Less(t, round.Limbo.Generated, 5.0)
}

func TestLimboEngine_GeneratedNeverBelowOne(t *testing.T) {
	cfg := testGamesConfig()
	e := NewLimboEngine(cfg.Limbo, &constRand{f: 0.0}, testClock())
	round := newEngineRound(domain.GameLimbo, 1000)

	_, err := e.Begin(round, limboOpts(2.0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, round.Limbo.Generated)
	assert.Equal(t, domain.RoundStatusLost, round.Status)
}

func TestLimboEngine_ActionsAndTicksAreNoOps(t *testing.T) {
	cfg := testGamesConfig()
	e := NewLimboEngine(cfg.Limbo, &constRand{f: 0.9}, testClock())
	round := newEngineRound(domain.GameLimbo, 1000)
	_, _ = e.Begin(round, limboOpts(2.0))

	ev, err := e.Apply(round, ports.EngineAction{Name: "cashout"})
	require.NoError(t, err)
	assert.Nil(t, ev)

	ev, err = e.Tick(round)
	require.NoError(t, err)
	assert.Nil(t, ev)
}
