// Package session implements the lifecycle every puzzle engine shares: the
// playing/resolving/won/lost state machine, the one-shot completion
// callback, the injected notifier and a single cancellable timer.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

const (
	statePlaying   = "playing"
	stateResolving = "resolving"
	stateWon       = "won"
	stateLost      = "lost"
)

const (
	eventResolve = "resolve"
	eventSettle  = "settle"
	eventWin     = "win"
	eventLose    = "lose"
)

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		statePlaying,
		fsm.Events{
			{Name: eventResolve, Src: []string{statePlaying}, Dst: stateResolving},
			{Name: eventSettle, Src: []string{stateResolving}, Dst: statePlaying},
			{Name: eventWin, Src: []string{statePlaying, stateResolving}, Dst: stateWon},
			{Name: eventLose, Src: []string{statePlaying, stateResolving}, Dst: stateLost},
		},
		fsm.Callbacks{},
	)
}

// Session is embedded by every engine. Engine methods that mutate state call
// Lock and Unlock; notifications queued while locked are delivered by Unlock
// after the mutex is released, so callbacks may re-enter the engine.
type Session struct {
	mu      sync.Mutex
	opts    Options
	machine *fsm.FSM
	moves   atomic.Int64

	onComplete func()
	completed  bool
	epoch      uint64

	timer Timer
	tick  uint64

	outbox []func()
}

func New(opts ...Option) *Session {
	return &Session{
		opts:    buildOptions(opts),
		machine: newMachine(),
	}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	out := s.outbox
	s.outbox = nil
	s.mu.Unlock()
	for _, f := range out {
		f()
	}
}

// Defer queues f until the current Unlock. Caller holds the lock.
func (s *Session) Defer(f func()) {
	s.outbox = append(s.outbox, f)
}

func (s *Session) Rand() *rand.Rand {
	return s.opts.Rand
}

func (s *Session) Notifier() Notifier {
	return s.opts.Notifier
}

// OnComplete registers the completion callback, replacing any previous one.
func (s *Session) OnComplete(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = cb
}

func (s *Session) Status() Status {
	switch s.machine.Current() {
	case stateResolving:
		return Resolving
	case stateWon:
		return Won
	case stateLost:
		return Lost
	default:
		return Playing
	}
}

// Playing reports whether player input is currently accepted.
func (s *Session) Playing() bool {
	return s.machine.Is(statePlaying)
}

func (s *Session) IsOver() bool {
	return s.machine.Is(stateWon) || s.machine.Is(stateLost)
}

func (s *Session) Moves() int {
	return int(s.moves.Load())
}

func (s *Session) CountMove() {
	s.moves.Add(1)
}

// Win moves the session to the won state and queues the success
// notification; completion fires when the notifier closes it. Caller holds
// the lock.
func (s *Session) Win(text string) {
	if !s.fire(eventWin) {
		return
	}
	s.stopTimer()
	epoch := s.epoch
	notifier := s.opts.Notifier
	s.Defer(func() {
		notifier.ShowSuccess(text, func() { s.complete(epoch) })
	})
}

// Lose moves the session to the lost state. Caller holds the lock.
func (s *Session) Lose(text string) {
	if !s.fire(eventLose) {
		return
	}
	s.stopTimer()
	notifier := s.opts.Notifier
	s.Defer(func() {
		notifier.ShowError(text, nil)
	})
}

// Resolve blocks input for d, then settles back to playing and runs settle.
// A non-positive d settles inline. Caller holds the lock.
func (s *Session) Resolve(d time.Duration, settle func()) {
	if !s.fire(eventResolve) {
		return
	}
	s.After(d, func() {
		s.fire(eventSettle)
		settle()
	})
}

// After runs fn under the session lock once d has elapsed, replacing any
// pending timer. The callback is dropped if the session was restarted or the
// timer replaced in the meantime. Caller holds the lock.
func (s *Session) After(d time.Duration, fn func()) {
	s.stopTimer()
	if d <= 0 {
		fn()
		return
	}
	tick := s.tick
	s.timer = s.opts.Scheduler.AfterFunc(d, func() {
		s.Lock()
		defer s.Unlock()
		if s.tick != tick {
			return
		}
		s.timer = nil
		fn()
	})
}

// Restart cancels any pending timer and returns the session to a fresh
// playing state. Caller holds the lock.
func (s *Session) Restart() {
	s.stopTimer()
	s.epoch++
	s.completed = false
	s.moves.Store(0)
	s.machine.SetState(statePlaying)
}

// ShowRules forwards rules text to the notifier. Must not be called with the
// lock held.
func (s *Session) ShowRules(text string) {
	s.opts.Notifier.ShowRules(text)
}

func (s *Session) stopTimer() {
	s.tick++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) complete(epoch uint64) {
	s.mu.Lock()
	if s.completed || s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.completed = true
	cb := s.onComplete
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (s *Session) fire(event string) bool {
	err := s.machine.Event(context.Background(), event)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		Log.WithFields(logrus.Fields{
			"event": event,
			"state": s.machine.Current(),
		}).Debug("ignored session event: ", err)
		return false
	}
	return true
}
