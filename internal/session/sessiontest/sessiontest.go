// Package sessiontest provides a manual scheduler and a recording notifier
// for driving engines deterministically in tests.
package sessiontest

import (
	"slices"
	"sync"
	"time"

	"github.com/vancomm/stagehunt/internal/session"
)

// Scheduler only fires callbacks when Advance moves its clock past them.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	s    *Scheduler
	at   time.Duration
	seq  int
	f    func()
	done bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every due callback in
// deadline order. Callbacks run without the scheduler lock held.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()
	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.f()
	}
}

// Pending counts callbacks that are neither stopped nor fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue() *timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = slices.DeleteFunc(s.timers, func(t *timer) bool { return t.done })
	var next *timer
	for _, t := range s.timers {
		if t.at > s.now {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	if next != nil {
		next.done = true
	}
	return next
}

type Kind string

const (
	Rules   Kind = "rules"
	Success Kind = "success"
	Error   Kind = "error"
)

type Message struct {
	Kind Kind
	Text string
}

// Notifier records every message. Unless Hold is set it closes messages
// immediately; held close callbacks run on Close.
type Notifier struct {
	Hold bool

	mu       sync.Mutex
	messages []Message
	pending  []func()
}

func (n *Notifier) ShowRules(text string) {
	n.record(Rules, text, nil)
}

func (n *Notifier) ShowSuccess(text string, onClose func()) {
	n.record(Success, text, onClose)
}

func (n *Notifier) ShowError(text string, onClose func()) {
	n.record(Error, text, onClose)
}

func (n *Notifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.messages)
}

// Last returns the most recent message of kind k.
func (n *Notifier) Last(k Kind) (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.messages) - 1; i >= 0; i-- {
		if n.messages[i].Kind == k {
			return n.messages[i], true
		}
	}
	return Message{}, false
}

func (n *Notifier) Count(k Kind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.messages {
		if m.Kind == k {
			c++
		}
	}
	return c
}

// Close runs every held close callback.
func (n *Notifier) Close() {
	n.mu.Lock()
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

func (n *Notifier) record(k Kind, text string, onClose func()) {
	n.mu.Lock()
	n.messages = append(n.messages, Message{Kind: k, Text: text})
	hold := n.Hold
	if hold && onClose != nil {
		n.pending = append(n.pending, onClose)
	}
	n.mu.Unlock()
	if !hold && onClose != nil {
		onClose()
	}
}
