package hunt

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/session"
)

var (
	ErrGameOver         = errors.New("game is over")
	ErrAlreadyConnected = errors.New("play already has a live connection")
)

// Play is one run of a stage's game.
type Play struct {
	ID    string
	Stage content.Stage

	mu        sync.Mutex
	game      Game
	inbox     *Inbox
	discarded bool
	attached  atomic.Bool
}

type Reply struct {
	Command  string `json:"command"`
	Accepted bool   `json:"accepted"`
	Result   any    `json:"result,omitempty"`
}

type State struct {
	ID     string         `json:"id"`
	Stage  content.Stage  `json:"stage"`
	Status session.Status `json:"status"`
	Moves  int            `json:"moves"`
	Game   any            `json:"game"`
}

var hostCommands = map[string]int{
	"reset": 0,
	"rules": 0,
}

func (p *Play) Inbox() *Inbox { return p.inbox }

func (p *Play) Status() session.Status { return p.game.Status() }

func (p *Play) State() State {
	return State{
		ID:     p.ID,
		Stage:  p.Stage,
		Status: p.game.Status(),
		Moves:  p.game.Moves(),
		Game:   p.game.State(),
	}
}

// Exec runs a single protocol line. An error means the line was malformed;
// a well-formed move the engine refused yields Accepted == false.
func (p *Play) Exec(line string) (Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.discarded {
		return Reply{Command: line}, fmt.Errorf("%w: %q", ErrUnknownPlay, p.ID)
	}
	nargs := p.game.Commands()
	for name, n := range hostCommands {
		nargs[name] = n
	}
	c, err := parseCommand(line, nargs)
	if err != nil {
		return Reply{Command: line}, err
	}

	reply := Reply{Command: c.String()}
	switch c.Name {
	case "reset":
		p.game.Reset()
		reply.Accepted = true
	case "rules":
		p.game.ShowRules()
		reply.Accepted = true
	default:
		reply.Result, reply.Accepted, err = p.game.Exec(c)
		if err != nil {
			return reply, err
		}
	}

	Log.WithFields(logrus.Fields{
		"play":     p.ID,
		"command":  reply.Command,
		"accepted": reply.Accepted,
	}).Debug("command")
	return reply, nil
}

// Run executes a script line by line and stops at the first malformed
// line. Lines after the game ends fail with [ErrGameOver] unless they
// reset it.
func (p *Play) Run(script string) ([]Reply, error) {
	var replies []Reply
	for line := range Lines(script) {
		if p.game.IsOver() && !isHostCommand(line) {
			return replies, ErrGameOver
		}
		reply, err := p.Exec(line)
		if err != nil {
			return replies, err
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

func isHostCommand(line string) bool {
	c, err := parseCommand(line, hostCommands)
	return err == nil && c.Name != ""
}

// Attach claims the play for a live connection. Only one connection may be
// attached at a time; the returned func releases it.
func (p *Play) Attach() (func(), error) {
	if !p.attached.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyConnected, p.ID)
	}
	return func() { p.attached.Store(false) }, nil
}

// discard resets the game so no timer fires for it again, refuses further
// commands and closes the inbox.
func (p *Play) discard() {
	p.mu.Lock()
	if p.discarded {
		p.mu.Unlock()
		return
	}
	p.discarded = true
	p.game.Reset()
	p.mu.Unlock()

	p.inbox.close()
	Log.WithField("play", p.ID).Debug("play discarded")
}
