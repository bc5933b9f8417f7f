// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Signal a rendezvous point for goroutines waiting for or announcing the occurrence of an event.
// It's more elegant than sync.Cond.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) init() {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
}

// Signal wakes all goroutines that are waiting.
func (s *Signal) Signal() {
	s.l.Lock()
	s.init()
	close(s.ch)
	s.ch = make(chan struct{})
	s.l.Unlock()
}

// Broadcast same as Signal.
func (s *Signal) Broadcast() {
	s.Signal()
}

// NewWaiter create a Waiter object.
// Calling Waiter.C() returns a channel that is closed on the next Signal.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	s.init()
	ref := s.ch
	s.l.Unlock()
	return &waiter{s: s, ref: ref}
}

// Waiter provides channel to wait for.
// Value read from channel C is meaningless.
type Waiter interface {
	C() <-chan struct{}
}

type waiter struct {
	s   *Signal
	ref chan struct{}
}

func (w *waiter) C() <-chan struct{} {
	ch := w.ref
	w.s.l.Lock()
	w.ref = w.s.ch
	w.s.l.Unlock()
	return ch
}
