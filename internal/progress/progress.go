// Package progress records which hunt stages the player has completed.
// Stage 1 is always open; every later stage opens once the one before it
// is done.
package progress

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Key is the storage key the completed stage list lives under.
const Key = "detective_quest_progress"

type Progress struct {
	CompletedStages []int `json:"completed_stages"`
}

// KV is the storage the tracker persists to; *Store implements it.
type KV interface {
	Get(key string, value any) error
	Set(key string, value any) error
	Delete(key string) error
}

type Tracker struct {
	mu    sync.Mutex
	store KV
}

func NewTracker(store KV) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) load() (Progress, error) {
	var p Progress
	if err := t.store.Get(Key, &p); errors.Is(err, ErrNotFound) {
		return Progress{}, nil
	} else if err != nil {
		return Progress{}, fmt.Errorf("unable to load progress: %w", err)
	}
	return p, nil
}

// Completed returns the completed stage ids in ascending order.
func (t *Tracker) Completed() ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.load()
	if err != nil {
		return nil, err
	}
	out := slices.Clone(p.CompletedStages)
	slices.Sort(out)
	return out, nil
}

func (t *Tracker) IsStageCompleted(id int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.load()
	if err != nil {
		return false, err
	}
	return slices.Contains(p.CompletedStages, id), nil
}

func (t *Tracker) IsStageAvailable(id int) (bool, error) {
	if id <= 1 {
		return id == 1, nil
	}
	return t.IsStageCompleted(id - 1)
}

// MarkCompleted records id as done. Marking a stage twice is a no-op.
func (t *Tracker) MarkCompleted(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.load()
	if err != nil {
		return err
	}
	if slices.Contains(p.CompletedStages, id) {
		return nil
	}
	p.CompletedStages = append(p.CompletedStages, id)
	if err := t.store.Set(Key, p); err != nil {
		return fmt.Errorf("unable to save progress: %w", err)
	}
	return nil
}

func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Delete(Key)
}
