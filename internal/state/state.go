// Package state holds process-wide readiness shared by the HTTP handlers.
package state

import (
	"context"
	"sync/atomic"
	"time"
)

// State flips from not ready to ready exactly once and never back.
type State struct {
	ready   atomic.Bool
	started atomic.Int64 // unix millis, set together with ready
	now     func() time.Time
}

func New() *State {
	return &State{now: time.Now}
}

// MarkReady records the start time and sets the flag. Only the first call has an effect.
func (s *State) MarkReady() {
	if s.ready.Load() {
		return
	}
	s.started.CompareAndSwap(0, s.now().UnixMilli())
	s.ready.Store(true)
}

// Ready reports whether the startup check has passed.
func (s *State) Ready() bool {
	return s.ready.Load()
}

// Uptime is the time since MarkReady, in milliseconds. It is 0 when not ready.
func (s *State) Uptime() int64 {
	if !s.ready.Load() {
		return 0
	}
	up := s.now().UnixMilli() - s.started.Load()
	if up < 0 {
		return 0
	}
	return up
}

// Probe runs check once and marks the state ready when it succeeds.
func (s *State) Probe(ctx context.Context, check func(context.Context) error) error {
	if err := check(ctx); err != nil {
		return err
	}
	s.MarkReady()
	return nil
}
