// Package codebreaker implements the mastermind-style stage: guess a hidden
// sequence of symbols with exact/close feedback after every attempt.
package codebreaker

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

var DefaultSymbols = []string{"🌹", "💐", "🎁", "💄", "👠", "💎"}

const (
	defaultCodeLength = 4
	rules             = "Guess the hidden combination of symbols. After each " +
		"attempt you learn how many symbols are in the right place and how " +
		"many are in the combination but elsewhere. Symbols may repeat."
	rulesDistinct = "Guess the hidden combination of symbols. After each " +
		"attempt you learn how many symbols are in the right place and how " +
		"many are in the combination but elsewhere. Every symbol appears at " +
		"most once."
)

type Config struct {
	Difficulty  session.Difficulty
	CodeLength  int
	MaxAttempts int
	Symbols     []string
	// Distinct draws the secret without repeats. When the code is longer
	// than the symbol set the game falls back to repeats.
	Distinct bool
}

func (c Config) withDefaults() Config {
	if c.CodeLength <= 0 {
		c.CodeLength = defaultCodeLength
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = session.Pick(c.Difficulty, 12, 10, 8)
	}

	symbols := make([]string, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		if !slices.Contains(symbols, s) {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) != len(c.Symbols) {
		session.Log.WithField("symbols", c.Symbols).
			Warn("duplicate symbols in code-breaker set, removing")
	}
	if len(symbols) == 0 {
		symbols = slices.Clone(DefaultSymbols)
	}
	c.Symbols = symbols

	if c.Distinct && c.CodeLength > len(c.Symbols) {
		session.Log.WithFields(logrus.Fields{
			"code_length": c.CodeLength,
			"symbols":     len(c.Symbols),
		}).Warn("code longer than symbol set, allowing repeats")
		c.Distinct = false
	}
	return c
}

type Attempt struct {
	Guess []string `json:"guess"`
	Feedback
}

type Game struct {
	*session.Session
	cfg      Config
	secret   []string
	guess    []string
	attempts []Attempt
}

type Snapshot struct {
	Status       session.Status `json:"status"`
	Moves        int            `json:"moves"`
	CodeLength   int            `json:"code_length"`
	MaxAttempts  int            `json:"max_attempts"`
	Symbols      []string       `json:"symbols"`
	Distinct     bool           `json:"distinct"`
	CurrentGuess []string       `json:"current_guess"`
	Attempts     []Attempt      `json:"attempts"`
	Secret       []string       `json:"secret,omitempty"`
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
	g.secret = g.newSecret()
	g.guess = nil
	g.attempts = nil
}

func (g *Game) newSecret() []string {
	r := g.Rand()
	if g.cfg.Distinct {
		return rng.Shuffled(r, g.cfg.Symbols)[:g.cfg.CodeLength]
	}
	secret := make([]string, g.cfg.CodeLength)
	for i := range secret {
		secret[i] = rng.Pick(r, g.cfg.Symbols)
	}
	return secret
}

func (g *Game) Rules() string {
	if g.cfg.Distinct {
		return rulesDistinct
	}
	return rules
}

func (g *Game) ShowRules() { g.Session.ShowRules(g.Rules()) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

func (g *Game) Symbols() []string {
	return slices.Clone(g.cfg.Symbols)
}

// AddSymbol appends s to the guess being composed.
func (g *Game) AddSymbol(s string) bool {
	g.Lock()
	defer g.Unlock()
	if !g.Playing() || len(g.guess) >= g.cfg.CodeLength || !g.known(s) {
		return false
	}
	g.guess = append(g.guess, s)
	return true
}

// RemoveSymbol drops the symbol at position i of the guess being composed.
func (g *Game) RemoveSymbol(i int) bool {
	g.Lock()
	defer g.Unlock()
	if !g.Playing() || i < 0 || i >= len(g.guess) {
		return false
	}
	g.guess = slices.Delete(g.guess, i, i+1)
	return true
}

func (g *Game) ClearGuess() bool {
	g.Lock()
	defer g.Unlock()
	if !g.Playing() {
		return false
	}
	g.guess = nil
	return true
}

func (g *Game) CurrentGuess() []string {
	g.Lock()
	defer g.Unlock()
	return slices.Clone(g.guess)
}

// Check submits the composed guess.
func (g *Game) Check() (Feedback, bool) {
	g.Lock()
	defer g.Unlock()
	fb, ok := g.submit(g.guess)
	if ok {
		g.guess = nil
	}
	return fb, ok
}

func (g *Game) SubmitGuess(guess []string) (Feedback, bool) {
	g.Lock()
	defer g.Unlock()
	return g.submit(guess)
}

func (g *Game) submit(guess []string) (Feedback, bool) {
	if !g.Playing() || len(guess) != g.cfg.CodeLength {
		return Feedback{}, false
	}
	for _, s := range guess {
		if !g.known(s) {
			return Feedback{}, false
		}
	}

	fb := Evaluate(g.secret, guess)
	g.attempts = append(g.attempts, Attempt{Guess: slices.Clone(guess), Feedback: fb})
	g.CountMove()

	switch {
	case fb.Exact == g.cfg.CodeLength:
		g.Win(fmt.Sprintf("Code cracked in %d attempts!", len(g.attempts)))
	case len(g.attempts) >= g.cfg.MaxAttempts:
		g.Lose(fmt.Sprintf("Out of attempts. The code was %v.", g.secret))
	}
	return fb, true
}

func (g *Game) Attempts() []Attempt {
	g.Lock()
	defer g.Unlock()
	return g.cloneAttempts()
}

func (g *Game) AttemptsLeft() int {
	g.Lock()
	defer g.Unlock()
	return g.cfg.MaxAttempts - len(g.attempts)
}

// Secret is only disclosed once the game is over.
func (g *Game) Secret() ([]string, bool) {
	g.Lock()
	defer g.Unlock()
	if !g.IsOver() {
		return nil, false
	}
	return slices.Clone(g.secret), true
}

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	s := Snapshot{
		Status:       g.Status(),
		Moves:        g.Moves(),
		CodeLength:   g.cfg.CodeLength,
		MaxAttempts:  g.cfg.MaxAttempts,
		Symbols:      slices.Clone(g.cfg.Symbols),
		Distinct:     g.cfg.Distinct,
		CurrentGuess: slices.Clone(g.guess),
		Attempts:     g.cloneAttempts(),
	}
	if g.IsOver() {
		s.Secret = slices.Clone(g.secret)
	}
	return s
}

func (g *Game) cloneAttempts() []Attempt {
	out := make([]Attempt, len(g.attempts))
	for i, a := range g.attempts {
		out[i] = Attempt{Guess: slices.Clone(a.Guess), Feedback: a.Feedback}
	}
	return out
}

func (g *Game) known(s string) bool {
	return slices.Contains(g.cfg.Symbols, s)
}
