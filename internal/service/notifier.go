package service

import (
	"sync"

	"casino-round-engine/internal/core/domain"
	"casino-round-engine/internal/core/ports"

	"github.com/google/uuid"
)

// NotifierFanout relays round events to every registered sink. The
// session service takes its notifier at construction while the autoplay
// service needs the session service first; Add breaks that cycle by
// letting sinks join after wiring.
type NotifierFanout struct {
	mu    sync.RWMutex
	sinks []ports.ResultNotifier
}

// NewNotifierFanout creates a fan-out over the given sinks.
func NewNotifierFanout(sinks ...ports.ResultNotifier) *NotifierFanout {
	return &NotifierFanout{sinks: sinks}
}

// Add registers another sink. Safe to call after the fan-out is live.
func (f *NotifierFanout) Add(n ports.ResultNotifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, n)
}

func (f *NotifierFanout) NotifyRound(playerID uuid.UUID, round *domain.Round) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.sinks {
		n.NotifyRound(playerID, round)
	}
}

func (f *NotifierFanout) NotifyResult(playerID uuid.UUID, result *domain.Result) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.sinks {
		n.NotifyResult(playerID, result)
	}
}

func (f *NotifierFanout) NotifyWallet(playerID uuid.UUID, balance *domain.Balance) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, n := range f.sinks {
		n.NotifyWallet(playerID, balance)
	}
}
