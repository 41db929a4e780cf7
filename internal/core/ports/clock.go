package ports

import "time"

// Clock abstracts wall time so round timing is controllable in tests.
type Clock interface {
	Now() time.Time
}

// CancelFunc stops a scheduled callback. Safe to call more than once
// and after the callback has fired.
type CancelFunc func()

// Scheduler abstracts timer scheduling. Production wraps time.AfterFunc;
// tests drive a virtual scheduler so crash flights, betting countdowns
// and autoplay pacing run deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}
