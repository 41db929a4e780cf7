package memory

import (
	"sync"
	"testing"
	"time"

	"casino-round-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRound(playerID uuid.UUID) *domain.Round {
	return &domain.Round{
		ID:        domain.NewRoundID(),
		PlayerID:  playerID,
		GameType:  domain.GameMines,
		BetAmount: 100,
		Status:    domain.RoundStatusActive,
		StartedAt: time.Now(),
	}
}

func TestRoundStore_PutGetRemove(t *testing.T) {
	store := NewRoundStore()
	round := testRound(uuid.New())

	_, ok := store.Get(round.ID)
	assert.False(t, ok)

	store.Put(round)
	got, ok := store.Get(round.ID)
	require.True(t, ok)
	assert.Same(t, round, got)

	store.Remove(round.ID)
	_, ok = store.Get(round.ID)
	assert.False(t, ok)

	// Removing twice is harmless.
	store.Remove(round.ID)
}

func TestRoundStore_ActiveByPlayer(t *testing.T) {
	store := NewRoundStore()
	playerID := uuid.New()

	_, ok := store.ActiveByPlayer(playerID)
	assert.False(t, ok)

	round := testRound(playerID)
	store.Put(round)

	got, ok := store.ActiveByPlayer(playerID)
	require.True(t, ok)
	assert.Equal(t, round.ID, got.ID)

	_, ok = store.ActiveByPlayer(uuid.New())
	assert.False(t, ok)

	store.Remove(round.ID)
	_, ok = store.ActiveByPlayer(playerID)
	assert.False(t, ok)
}

func TestRoundStore_NewRoundDisplacesSlot(t *testing.T) {
	store := NewRoundStore()
	playerID := uuid.New()

	first := testRound(playerID)
	second := testRound(playerID)
	store.Put(first)
	store.Put(second)

	got, ok := store.ActiveByPlayer(playerID)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	// Removing the displaced round must not free the newer slot.
	store.Remove(first.ID)
	got, ok = store.ActiveByPlayer(playerID)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)
}

func TestRoundStore_LockSerializesAccess(t *testing.T) {
	store := NewRoundStore()
	round := testRound(uuid.New())
	store.Put(round)

	const workers = 16
	const increments = 50
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				unlock := store.Lock(round.ID)
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, workers*increments, counter)
}

func TestRoundStore_LockUnknownID(t *testing.T) {
	store := NewRoundStore()
	unlock := store.Lock(uuid.New())
	unlock()
}
