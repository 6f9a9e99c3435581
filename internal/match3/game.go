// Package match3 implements the tile-matching stage: swap neighbouring
// symbols to line up three or more, with cascading refills, a target score
// and a move limit.
package match3

import (
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

var DefaultSymbols = []string{"🌷", "🌹", "💐", "🎁", "💄", "💎"}

const (
	minSymbols = 3
	minSize    = 4
)

type Config struct {
	Difficulty  session.Difficulty
	Size        int
	Symbols     []string
	TargetScore int
	MovesLimit  int
	Hints       int
	// SettleDelay keeps the board locked after a swap while the cascade is
	// shown. Zero settles immediately.
	SettleDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = session.Pick(c.Difficulty, 6, 7, 8)
	} else if c.Size < minSize {
		session.Log.WithField("size", c.Size).Warn("match-3 board too small, using default size")
		c.Size = session.Pick(c.Difficulty, 6, 7, 8)
	}
	symbols := make([]string, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		if !slices.Contains(symbols, s) {
			symbols = append(symbols, s)
		}
	}
	switch {
	case len(c.Symbols) == 0:
		c.Symbols = slices.Clone(DefaultSymbols)
	case len(symbols) < minSymbols:
		session.Log.WithField("symbols", c.Symbols).Warn("too few match-3 symbols, using defaults")
		c.Symbols = slices.Clone(DefaultSymbols)
	case len(symbols) < len(c.Symbols):
		session.Log.WithField("symbols", c.Symbols).Warn("duplicate match-3 symbols, removing")
		c.Symbols = symbols
	}
	if c.TargetScore <= 0 {
		c.TargetScore = session.Pick(c.Difficulty, 800, 1000, 1200)
	}
	if c.MovesLimit <= 0 {
		c.MovesLimit = session.Pick(c.Difficulty, 35, 30, 25)
	}
	if c.Hints <= 0 {
		c.Hints = 3
	}
	return c
}

// Step is one round of a cascade: the runs cleared before the board
// collapses and refills.
type Step struct {
	Runs   []Run `json:"runs"`
	Points int   `json:"points"`
}

type SwapResult struct {
	Steps  []Step `json:"steps"`
	Points int    `json:"points"`
	Score  int    `json:"score"`
	// Reshuffled is set when the settled board had no legal move and was
	// regenerated. It is only known when the swap settles immediately.
	Reshuffled bool `json:"reshuffled"`
}

type Game struct {
	*session.Session
	cfg       Config
	board     Board
	score     int
	hintsUsed int
	reshuffle int
}

type Snapshot struct {
	Status      session.Status `json:"status"`
	Moves       int            `json:"moves"`
	MovesLimit  int            `json:"moves_limit"`
	Score       int            `json:"score"`
	TargetScore int            `json:"target_score"`
	HintsLeft   int            `json:"hints_left"`
	Reshuffles  int            `json:"reshuffles"`
	Board       Board          `json:"board"`
}

func New(cfg Config, opts ...session.Option) *Game {
	g := &Game{
		Session: session.New(opts...),
		cfg:     cfg.withDefaults(),
	}
	g.init()
	return g
}

func (g *Game) init() {
	g.board = newBoard(g.cfg.Size)
	g.generate()
	g.score = 0
	g.hintsUsed = 0
	g.reshuffle = 0
}

// generate fills the board until it has no runs and at least one legal move.
func (g *Game) generate() {
	for attempt := 1; ; attempt++ {
		g.board.fill(g.Rand(), g.cfg.Symbols)
		if len(g.board.LegalMoves()) > 0 {
			return
		}
		session.Log.WithField("attempt", attempt).Debug("match-3 board has no moves, regenerating")
	}
}

func (g *Game) Rules() string {
	return fmt.Sprintf("Swap neighbouring symbols to line up three or more of "+
		"the same kind in a row or column. Score %d points within %d moves. "+
		"Lines of four and five earn bonus points. You have %d hints. A "+
		"board with no moves left is refreshed automatically.",
		g.cfg.TargetScore, g.cfg.MovesLimit, g.cfg.Hints)
}

func (g *Game) ShowRules() { g.Session.ShowRules(g.Rules()) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// Swap exchanges two neighbouring cells. A swap that lines nothing up is
// undone and does not count as a move.
func (g *Game) Swap(a, b Pos) (SwapResult, bool) {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || !g.board.inBounds(a) || !g.board.inBounds(b) || !a.adjacent(b) {
		return SwapResult{}, false
	}
	g.board.swap(a, b)
	runs := g.board.Runs()
	if len(runs) == 0 {
		g.board.swap(a, b)
		return SwapResult{}, false
	}
	g.CountMove()

	res := &SwapResult{}
	for len(runs) > 0 {
		step := Step{Runs: runs}
		for _, r := range runs {
			step.Points += r.Points
		}
		res.Steps = append(res.Steps, step)
		res.Points += step.Points

		g.board.clear(runs)
		g.board.collapse(g.Rand(), g.cfg.Symbols)
		runs = g.board.Runs()
	}
	g.score += res.Points
	res.Score = g.score

	g.Resolve(g.cfg.SettleDelay, func() {
		res.Reshuffled = g.settle()
	})
	return *res, true
}

// settle regenerates a stuck board and applies the terminal checks. It
// reports whether the board was regenerated.
func (g *Game) settle() bool {
	reshuffled := false
	if len(g.board.LegalMoves()) == 0 {
		g.reshuffle++
		session.Log.WithFields(logrus.Fields{
			"score": g.score,
			"moves": g.Moves(),
		}).Debug("no moves left, regenerating board")
		g.generate()
		reshuffled = true
	}

	switch {
	case g.score >= g.cfg.TargetScore:
		g.Win(fmt.Sprintf("Congratulations! You scored %d points!", g.score))
	case g.Moves() >= g.cfg.MovesLimit:
		g.Lose(fmt.Sprintf("Out of moves! You scored %d of %d points. Try again!",
			g.score, g.cfg.TargetScore))
	}
	return reshuffled
}

// Hint spends one hint and suggests a legal swap.
func (g *Game) Hint() (Move, bool) {
	g.Lock()
	defer g.Unlock()
	if !g.Playing() || g.hintsUsed >= g.cfg.Hints {
		return Move{}, false
	}
	moves := g.board.LegalMoves()
	if len(moves) == 0 {
		return Move{}, false
	}
	g.hintsUsed++
	return rng.Pick(g.Rand(), moves), true
}

func (g *Game) HintsLeft() int {
	g.Lock()
	defer g.Unlock()
	return g.cfg.Hints - g.hintsUsed
}

func (g *Game) LegalMoves() []Move {
	g.Lock()
	defer g.Unlock()
	return g.board.LegalMoves()
}

func (g *Game) Score() int {
	g.Lock()
	defer g.Unlock()
	return g.score
}

// Board returns a copy of the board.
func (g *Game) Board() Board {
	g.Lock()
	defer g.Unlock()
	return g.board.clone()
}

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	return Snapshot{
		Status:      g.Status(),
		Moves:       g.Moves(),
		MovesLimit:  g.cfg.MovesLimit,
		Score:       g.score,
		TargetScore: g.cfg.TargetScore,
		HintsLeft:   g.cfg.Hints - g.hintsUsed,
		Reshuffles:  g.reshuffle,
		Board:       g.board.clone(),
	}
}
