// Package anagram implements the word-unscrambling stage.
package anagram

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

type Outcome int

const (
	Correct Outcome = iota
	Wrong
	// Skipped means the per-word attempt cap was reached: the answer is
	// revealed and the game moves on.
	Skipped
	// Failed means the session-wide mistake cap was reached.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type Answer struct {
	Outcome Outcome `json:"outcome"`
	// Word is the solution, set once the word is no longer in play.
	Word      string `json:"word,omitempty"`
	Remaining int    `json:"remaining"`
}

type Config struct {
	Difficulty      session.Difficulty
	Bank            []content.Word
	Words           int
	Hints           int
	AttemptsPerWord int
	MaxMistakes     int
}

func (c Config) withDefaults() Config {
	if len(c.Bank) == 0 {
		c.Bank = content.Words()
	}
	if c.Words <= 0 {
		c.Words = session.Pick(c.Difficulty, 4, 5, 6)
	}
	if c.Words > len(c.Bank) {
		session.Log.WithFields(logrus.Fields{
			"words": c.Words,
			"bank":  len(c.Bank),
		}).Warn("word bank too small, using all of it")
		c.Words = len(c.Bank)
	}
	if c.Hints <= 0 {
		c.Hints = 3
	}
	if c.AttemptsPerWord <= 0 {
		c.AttemptsPerWord = session.Pick(c.Difficulty, 5, 4, 3)
	}
	if c.MaxMistakes <= 0 {
		c.MaxMistakes = session.Pick(c.Difficulty, 15, 12, 9)
	}
	return c
}

type Game struct {
	*session.Session
	cfg Config

	words        []content.Word
	index        int
	scrambled    string
	wordMistakes int
	mistakes     int
	hintsUsed    int
	skipped      []string
}

type Puzzle struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Scrambled string `json:"scrambled"`
	Category  string `json:"category"`
}

type Snapshot struct {
	Status      session.Status `json:"status"`
	Moves       int            `json:"moves"`
	Puzzle      *Puzzle        `json:"puzzle,omitempty"`
	HintsLeft   int            `json:"hints_left"`
	Mistakes    int            `json:"mistakes"`
	MaxMistakes int            `json:"max_mistakes"`
	Skipped     []string       `json:"skipped"`
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
	g.words = rng.Shuffled(g.Rand(), g.cfg.Bank)[:g.cfg.Words]
	g.index = 0
	g.mistakes = 0
	g.hintsUsed = 0
	g.skipped = nil
	g.prepare()
}

func (g *Game) prepare() {
	g.wordMistakes = 0
	g.scrambled = ""
	if g.index < len(g.words) {
		g.scrambled = Scramble(g.Rand(), normalize(g.words[g.index].Word))
	}
}

func (g *Game) Rules() string {
	return fmt.Sprintf("Unscramble the letters to get the original word. "+
		"The category tells you the theme. You have %d hints for the whole "+
		"game. After %d wrong attempts on a word its answer is revealed; "+
		"%d mistakes in total end the game. Solve all %d words to win.",
		g.cfg.Hints, g.cfg.AttemptsPerWord, g.cfg.MaxMistakes, g.cfg.Words)
}

func (g *Game) ShowRules() { g.Session.ShowRules(g.Rules()) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// Current returns the word in play.
func (g *Game) Current() (Puzzle, bool) {
	g.Lock()
	defer g.Unlock()
	return g.current()
}

func (g *Game) current() (Puzzle, bool) {
	if g.IsOver() || g.index >= len(g.words) {
		return Puzzle{}, false
	}
	return Puzzle{
		Index:     g.index,
		Total:     len(g.words),
		Scrambled: g.scrambled,
		Category:  g.words[g.index].Category,
	}, true
}

// SubmitAnswer checks text against the current word, ignoring case and
// whitespace. Blank input is rejected without counting as a mistake.
func (g *Game) SubmitAnswer(text string) (Answer, bool) {
	g.Lock()
	defer g.Unlock()

	answer := normalize(text)
	if !g.Playing() || answer == "" || g.index >= len(g.words) {
		return Answer{}, false
	}
	g.CountMove()

	word := normalize(g.words[g.index].Word)
	if answer == word {
		return g.advance(Answer{Outcome: Correct, Word: word}), true
	}

	g.mistakes++
	g.wordMistakes++
	switch {
	case g.mistakes >= g.cfg.MaxMistakes:
		g.Lose("Too many mistakes. Try again!")
		return Answer{Outcome: Failed, Word: word, Remaining: len(g.words) - g.index}, true
	case g.wordMistakes >= g.cfg.AttemptsPerWord:
		g.skipped = append(g.skipped, word)
		return g.advance(Answer{Outcome: Skipped, Word: word}), true
	default:
		return Answer{Outcome: Wrong, Remaining: len(g.words) - g.index}, true
	}
}

func (g *Game) advance(a Answer) Answer {
	g.index++
	a.Remaining = len(g.words) - g.index
	if a.Remaining == 0 {
		g.Win("Congratulations! You unscrambled every word!")
		return a
	}
	g.prepare()
	return a
}

// Hint spends one hint from the session budget on the current word.
func (g *Game) Hint() (string, bool) {
	g.Lock()
	defer g.Unlock()
	if !g.Playing() || g.hintsUsed >= g.cfg.Hints || g.index >= len(g.words) {
		return "", false
	}
	g.hintsUsed++
	return g.words[g.index].Hint, true
}

func (g *Game) HintsLeft() int {
	g.Lock()
	defer g.Unlock()
	return g.cfg.Hints - g.hintsUsed
}

// Skipped lists the words revealed after too many wrong attempts.
func (g *Game) Skipped() []string {
	g.Lock()
	defer g.Unlock()
	return slices.Clone(g.skipped)
}

func (g *Game) Mistakes() int {
	g.Lock()
	defer g.Unlock()
	return g.mistakes
}

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	s := Snapshot{
		Status:      g.Status(),
		Moves:       g.Moves(),
		HintsLeft:   g.cfg.Hints - g.hintsUsed,
		Mistakes:    g.mistakes,
		MaxMistakes: g.cfg.MaxMistakes,
		Skipped:     slices.Clone(g.skipped),
	}
	if p, ok := g.current(); ok {
		s.Puzzle = &p
	}
	return s
}

func normalize(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}
