// Package quiz implements the trivia stage. Questions are asked in a
// shuffled order; when the bank runs out before the required score is
// reached it is reshuffled and asked again.
package quiz

import (
	"fmt"
	"slices"

	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

type Question = content.Question

type Config struct {
	Difficulty session.Difficulty
	Bank       []Question
	Required   int
}

func (c Config) withDefaults() Config {
	if len(c.Bank) == 0 {
		c.Bank = content.Questions()
	}
	if c.Required <= 0 {
		c.Required = session.Pick(c.Difficulty, 4, 7, 10)
	}
	return c
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correct_option"`
	Explanation   string `json:"explanation"`
	Score         int    `json:"score"`
	Required      int    `json:"required"`
}

type Game struct {
	*session.Session
	cfg      Config
	order    []int
	pos      int
	answered map[int]bool
	score    int
	pass     int
}

// Asked is a question as shown to the player.
type Asked struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Answered bool     `json:"answered"`
}

type Snapshot struct {
	Status   session.Status `json:"status"`
	Moves    int            `json:"moves"`
	Score    int            `json:"score"`
	Required int            `json:"required"`
	Pass     int            `json:"pass"`
	Question *Asked         `json:"question,omitempty"`
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
	g.score = 0
	g.pass = 0
	g.reshuffle()
}

func (g *Game) reshuffle() {
	g.order = make([]int, len(g.cfg.Bank))
	for i := range g.order {
		g.order[i] = i
	}
	rng.Shuffle(g.Rand(), g.order)
	g.pos = 0
	g.answered = make(map[int]bool, len(g.order))
}

func (g *Game) Rules() string {
	return fmt.Sprintf("Answer questions about remarkable women. Pick one "+
		"option per question. Give %d correct answers to win. When the "+
		"questions run out they are shuffled and asked again.", g.cfg.Required)
}

func (g *Game) ShowRules() { g.Session.ShowRules(g.Rules()) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// Current returns the bank index and text of the question being asked.
func (g *Game) Current() (int, Question, bool) {
	g.Lock()
	defer g.Unlock()
	if g.IsOver() {
		return 0, Question{}, false
	}
	q := g.order[g.pos]
	return q, g.cfg.Bank[q], true
}

// Answer records option as the answer to question q, which must be the
// current, not yet answered, question.
func (g *Game) Answer(q, option int) (AnswerResult, bool) {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || q != g.order[g.pos] || g.answered[q] {
		return AnswerResult{}, false
	}
	question := g.cfg.Bank[q]
	if option < 0 || option >= len(question.Options) {
		return AnswerResult{}, false
	}
	g.answered[q] = true
	g.CountMove()

	res := AnswerResult{
		Correct:       option == question.Correct,
		CorrectOption: question.Correct,
		Explanation:   question.Explanation,
		Required:      g.cfg.Required,
	}
	if res.Correct {
		g.score++
	}
	res.Score = g.score
	if g.score >= g.cfg.Required {
		g.Win(fmt.Sprintf("Congratulations! You gave %d correct answers!", g.score))
	}
	return res, true
}

// Next moves past the answered current question and returns the new one.
// Reaching the end of the bank starts a new pass over a reshuffled bank.
func (g *Game) Next() (int, bool) {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || !g.answered[g.order[g.pos]] {
		return 0, false
	}
	for g.pos < len(g.order) && g.answered[g.order[g.pos]] {
		g.pos++
	}
	if g.pos == len(g.order) {
		g.pass++
		g.reshuffle()
	}
	return g.order[g.pos], true
}

func (g *Game) Score() int {
	g.Lock()
	defer g.Unlock()
	return g.score
}

// Pass counts how many times the bank has been recycled.
func (g *Game) Pass() int {
	g.Lock()
	defer g.Unlock()
	return g.pass
}

// Answered lists the questions answered in the current pass.
func (g *Game) Answered() []int {
	g.Lock()
	defer g.Unlock()
	out := make([]int, 0, len(g.answered))
	for q := range g.answered {
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	s := Snapshot{
		Status:   g.Status(),
		Moves:    g.Moves(),
		Score:    g.score,
		Required: g.cfg.Required,
		Pass:     g.pass,
	}
	if !g.IsOver() {
		q := g.order[g.pos]
		s.Question = &Asked{
			Index:    q,
			Text:     g.cfg.Bank[q].Text,
			Options:  slices.Clone(g.cfg.Bank[q].Options),
			Answered: g.answered[q],
		}
	}
	return s
}
