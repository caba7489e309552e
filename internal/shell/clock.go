// Package shell holds the app-shell utilities shared by the pages and the chat
// widget: theme, toasts, timing helpers, formatting and small view-state types.
package shell

import "time"

type Timer interface {
	Stop() bool
}

// Clock lets timing helpers run on a fake clock in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is backed by the time package.
func RealClock() Clock { return realClock{} }
