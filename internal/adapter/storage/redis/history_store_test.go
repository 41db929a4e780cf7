package redis

import (
	"context"
	"testing"
	"time"

	"casino-round-engine/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryResult(playerID uuid.UUID, game domain.GameType, payout int64) *domain.Result {
	return &domain.Result{
		RoundID:    uuid.New(),
		PlayerID:   playerID,
		GameType:   game,
		BetAmount:  1000,
		Multiplier: 2.0,
		Payout:     payout,
		Win:        payout > 0,
		EndedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryStore_PushAndList(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewHistoryStore(client, 50, 168*time.Hour)
	ctx := context.Background()

	playerID := uuid.New()
	first := newHistoryResult(playerID, domain.GameMines, 0)
	second := newHistoryResult(playerID, domain.GameMines, 2000)

	require.NoError(t, store.Push(ctx, first))
	require.NoError(t, store.Push(ctx, second))

	results, err := store.List(ctx, playerID, domain.GameMines, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest first
	assert.Equal(t, second.RoundID, results[0].RoundID)
	assert.Equal(t, first.RoundID, results[1].RoundID)
	assert.Equal(t, int64(2000), results[0].Payout)
	assert.True(t, results[0].Win)
	assert.False(t, results[1].Win)
}

func TestHistoryStore_ListEmpty(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewHistoryStore(client, 50, 168*time.Hour)

	results, err := store.List(context.Background(), uuid.New(), domain.GameCrash, 10)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestHistoryStore_TrimsToCap(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewHistoryStore(client, 3, 168*time.Hour)
	ctx := context.Background()

	playerID := uuid.New()
	var pushed []*domain.Result
	for i := 0; i < 5; i++ {
		r := newHistoryResult(playerID, domain.GameLimbo, int64(i)*100)
		require.NoError(t, store.Push(ctx, r))
		pushed = append(pushed, r)
	}

	results, err := store.List(ctx, playerID, domain.GameLimbo, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// The two oldest entries fell off the end.
	assert.Equal(t, pushed[4].RoundID, results[0].RoundID)
	assert.Equal(t, pushed[3].RoundID, results[1].RoundID)
	assert.Equal(t, pushed[2].RoundID, results[2].RoundID)
}

func TestHistoryStore_SeparatesPlayersAndGames(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewHistoryStore(client, 50, 168*time.Hour)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Push(ctx, newHistoryResult(alice, domain.GameMines, 500)))
	require.NoError(t, store.Push(ctx, newHistoryResult(alice, domain.GameCrash, 700)))
	require.NoError(t, store.Push(ctx, newHistoryResult(bob, domain.GameMines, 900)))

	aliceMines, err := store.List(ctx, alice, domain.GameMines, 10)
	require.NoError(t, err)
	require.Len(t, aliceMines, 1)
	assert.Equal(t, int64(500), aliceMines[0].Payout)

	aliceCrash, err := store.List(ctx, alice, domain.GameCrash, 10)
	require.NoError(t, err)
	require.Len(t, aliceCrash, 1)
	assert.Equal(t, int64(700), aliceCrash[0].Payout)

	bobMines, err := store.List(ctx, bob, domain.GameMines, 10)
	require.NoError(t, err)
	require.Len(t, bobMines, 1)
	assert.Equal(t, int64(900), bobMines[0].Payout)
}

func TestHistoryStore_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewHistoryStore(client, 50, time.Hour)
	ctx := context.Background()

	playerID := uuid.New()
	require.NoError(t, store.Push(ctx, newHistoryResult(playerID, domain.GameBars, 300)))

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Hour)

	results, err := store.List(ctx, playerID, domain.GameBars, 10)
	assert.NoError(t, err)
	assert.Empty(t, results, "expired history should return nothing")
}
