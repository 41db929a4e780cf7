package memory

import (
	"sync"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/google/uuid"
)

// RoundStore implements ports.RoundStore in process memory. Rounds live
// here from bet to settlement only, so the maps stay bounded by the
// number of concurrently playing players.
type RoundStore struct {
	mu     sync.RWMutex
	rounds map[uuid.UUID]*domain.Round
	active map[uuid.UUID]uuid.UUID // player -> stored round

	locks sync.Map // round id -> *sync.Mutex
}

// NewRoundStore creates an empty round store.
func NewRoundStore() *RoundStore {
	return &RoundStore{
		rounds: make(map[uuid.UUID]*domain.Round),
		active: make(map[uuid.UUID]uuid.UUID),
	}
}

var _ ports.RoundStore = (*RoundStore)(nil)

// Put stores a round and points the player's active slot at it. A
// newer round for the same player displaces the slot; the displaced
// round stays retrievable by ID until removed.
func (s *RoundStore) Put(round *domain.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.ID] = round
	s.active[round.PlayerID] = round.ID
}

// Get returns the round by ID.
func (s *RoundStore) Get(id uuid.UUID) (*domain.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[id]
	return round, ok
}

// ActiveByPlayer returns the round occupying the player's active slot.
// The slot frees on Remove, not on settlement, so a round between the
// two briefly still counts as active.
func (s *RoundStore) ActiveByPlayer(playerID uuid.UUID) (*domain.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[playerID]
	if !ok {
		return nil, false
	}
	return s.rounds[id], true
}

// Remove drops a round and frees the player's slot if it still points
// at this round.
func (s *RoundStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	round, ok := s.rounds[id]
	if ok {
		delete(s.rounds, id)
		if s.active[round.PlayerID] == id {
			delete(s.active, round.PlayerID)
		}
	}
	s.mu.Unlock()
	s.locks.Delete(id)
}

// Lock serializes transitions of one round. Locking an unknown or
// removed ID works; the caller discovers the miss on Get.
func (s *RoundStore) Lock(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
