package frontend

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call if it has not started. It reports whether the
	// call was prevented.
	Stop() bool
}

// Scheduler runs f on its own goroutine after d. Tests swap in a manual
// scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
func RealScheduler() Scheduler {
	return realScheduler{}
}
