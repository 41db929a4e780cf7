package service

import (
	"time"

	"casino-round-engine/internal/core/ports"
)

// SystemClock implements ports.Clock on wall time.
type SystemClock struct{}

// NewSystemClock creates the production clock.
func NewSystemClock() *SystemClock { return &SystemClock{} }

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// TimerScheduler implements ports.Scheduler on time.AfterFunc. Callbacks
// run on their own goroutine; callers serialize via the round lock.
type TimerScheduler struct{}

// NewTimerScheduler creates the production scheduler.
func NewTimerScheduler() *TimerScheduler { return &TimerScheduler{} }

// AfterFunc schedules fn after d. The returned cancel stops the timer if
// it has not fired yet; cancelling a fired timer is a no-op.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
