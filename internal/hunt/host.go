// Package hunt hosts the stage sequence: it looks stages up by key, keeps
// later stages locked until the previous one is solved, starts the right
// engine for each stage and records completions.
package hunt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

var Log = logrus.New()

var (
	ErrUnknownStage = errors.New("unknown stage")
	ErrStageLocked  = errors.New("stage is locked")
	ErrUnknownGame  = errors.New("unknown game")
	ErrStartFailed  = errors.New("unable to start stage")
	ErrUnknownPlay  = errors.New("unknown play")
)

// Progress is the part of the progress tracker the host relies on.
type Progress interface {
	IsStageAvailable(id int) (bool, error)
	IsStageCompleted(id int) (bool, error)
	MarkCompleted(id int) error
}

// Delays configures the engines that pause between moves.
type Delays struct {
	FlipBack time.Duration
	Settle   time.Duration
}

type Options struct {
	Delays    Delays
	Scheduler session.Scheduler
	// NewRand seeds each play; nil uses a fresh runtime-seeded source.
	NewRand func() *rand.Rand
}

type Host struct {
	hunt      content.Hunt
	progress  Progress
	opts      Options
	factories map[string]Factory

	mu sync.Mutex
	// current is the one play on screen; starting another stage or
	// resetting progress discards it.
	current *Play
}

func NewHost(h content.Hunt, p Progress, opts Options) *Host {
	if opts.NewRand == nil {
		opts.NewRand = rng.New
	}
	return &Host{
		hunt:      h,
		progress:  p,
		opts:      opts,
		factories: defaultFactories(),
	}
}

// Register installs or replaces the factory for a game kind.
func (h *Host) Register(kind string, f Factory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factories[kind] = f
}

func (h *Host) Hunt() content.Hunt { return h.hunt }

type StageView struct {
	content.Stage
	Available bool `json:"available"`
	Completed bool `json:"completed"`
}

// Stages lists every stage with its lock state.
func (h *Host) Stages() ([]StageView, error) {
	out := make([]StageView, len(h.hunt.Stages))
	for i, s := range h.hunt.Stages {
		available, err := h.progress.IsStageAvailable(s.ID)
		if err != nil {
			return nil, err
		}
		completed, err := h.progress.IsStageCompleted(s.ID)
		if err != nil {
			return nil, err
		}
		out[i] = StageView{Stage: s, Available: available, Completed: completed}
	}
	return out, nil
}

// Start opens the stage under key and returns a new play of its game.
func (h *Host) Start(key string) (*Play, error) {
	stage, ok := h.hunt.ByKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, key)
	}
	available, err := h.progress.IsStageAvailable(stage.ID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: %q", ErrStageLocked, key)
	}

	h.mu.Lock()
	factory, ok := h.factories[stage.Game]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, stage.Game)
	}

	inbox := NewInbox()
	game, err := h.build(factory, stage, inbox)
	if err != nil {
		return nil, err
	}

	p := &Play{
		ID:    uuid.NewString(),
		Stage: stage,
		game:  game,
		inbox: inbox,
	}
	game.OnComplete(func() { h.complete(p) })

	h.mu.Lock()
	old := h.current
	h.current = p
	h.mu.Unlock()
	if old != nil {
		old.discard()
	}

	log := Log.WithFields(logrus.Fields{"play": p.ID, "stage": stage.Key, "game": stage.Game})
	log.Info("stage started")
	game.ShowRules()
	return p, nil
}

func (h *Host) build(f Factory, stage content.Stage, inbox *Inbox) (game Game, err error) {
	defer func() {
		if r := recover(); r != nil {
			Log.WithFields(logrus.Fields{
				"stage": stage.Key,
				"game":  stage.Game,
			}).Error("engine construction panicked: ", r)
			game, err = nil, fmt.Errorf("%w %q: %v", ErrStartFailed, stage.Key, r)
		}
	}()
	opts := []session.Option{
		session.WithRand(h.opts.NewRand()),
		session.WithNotifier(inbox),
	}
	if h.opts.Scheduler != nil {
		opts = append(opts, session.WithScheduler(h.opts.Scheduler))
	}
	return f(stage, h.opts.Delays, opts...), nil
}

// Play looks up the current play by id.
func (h *Host) Play(id string) (*Play, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil || h.current.ID != id {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlay, id)
	}
	return h.current, nil
}

// Discard drops the current play, cancelling its pending timers.
func (h *Host) Discard() {
	h.mu.Lock()
	old := h.current
	h.current = nil
	h.mu.Unlock()
	if old != nil {
		old.discard()
	}
}

func (h *Host) complete(p *Play) {
	log := Log.WithFields(logrus.Fields{"play": p.ID, "stage": p.Stage.Key})
	if err := h.progress.MarkCompleted(p.Stage.ID); err != nil {
		log.Error("unable to save progress: ", err)
		p.inbox.ShowError("Your progress could not be saved.", nil)
		return
	}
	log.WithField("moves", p.game.Moves()).Info("stage completed")

	if p.Stage.NextHint != "" {
		p.inbox.ShowSuccess(p.Stage.NextHint, nil)
	}
	if h.hunt.IsLast(p.Stage.ID) && h.hunt.Final != "" {
		p.inbox.ShowSuccess(h.hunt.Final, nil)
	}
}
