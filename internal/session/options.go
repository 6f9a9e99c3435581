package session

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/vancomm/stagehunt/internal/rng"
)

type Status int

const (
	Playing Status = iota
	Resolving
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Resolving:
		return "resolving"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps free-form input onto a known difficulty, defaulting
// to Normal.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy
	case Hard:
		return Hard
	default:
		return Normal
	}
}

// Pick returns the value matching d out of an easy/normal/hard triple.
func Pick[T any](d Difficulty, easy, normal, hard T) T {
	switch ParseDifficulty(string(d)) {
	case Easy:
		return easy
	case Hard:
		return hard
	default:
		return normal
	}
}

// Notifier is the presentation surface engines report to. onClose may be
// nil; implementations call it once the message is dismissed.
type Notifier interface {
	ShowRules(text string)
	ShowSuccess(text string, onClose func())
	ShowError(text string, onClose func())
}

// NopNotifier discards messages and closes them immediately.
type NopNotifier struct{}

func (NopNotifier) ShowRules(string) {}

func (NopNotifier) ShowSuccess(_ string, onClose func()) {
	if onClose != nil {
		onClose()
	}
}

func (NopNotifier) ShowError(_ string, onClose func()) {
	if onClose != nil {
		onClose()
	}
}

type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock schedules callbacks with time.AfterFunc.
var WallClock Scheduler = wallClock{}

type Options struct {
	Rand      *rand.Rand
	Notifier  Notifier
	Scheduler Scheduler
}

type Option func(*Options)

func WithRand(r *rand.Rand) Option {
	return func(o *Options) { o.Rand = r }
}

func WithNotifier(n Notifier) Option {
	return func(o *Options) { o.Notifier = n }
}

func WithScheduler(s Scheduler) Option {
	return func(o *Options) { o.Scheduler = s }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Rand == nil {
		o.Rand = rng.New()
	}
	if o.Notifier == nil {
		o.Notifier = NopNotifier{}
	}
	if o.Scheduler == nil {
		o.Scheduler = WallClock
	}
	return o
}
