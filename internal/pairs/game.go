// Package pairs implements the memory stage: flip two cards at a time and
// find every matching pair.
package pairs

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

var DefaultSymbols = []string{
	"🎁", "🌹", "💐", "🧸",
	"👑", "💍", "💎", "🌷",
	"🍓", "🍰", "🦋", "🌺",
}

const (
	defaultFlipBack = time.Second
	rules           = "Flip two cards at a time and find every matching pair. " +
		"Cards that do not match turn back over after a moment. Find all " +
		"pairs in as few moves as you can!"
)

type Config struct {
	Difficulty session.Difficulty
	Rows       int
	Cols       int
	Symbols    []string
	// FlipBack is how long a mismatched pair stays face up.
	FlipBack time.Duration
}

func (c Config) withDefaults() Config {
	rows := session.Pick(c.Difficulty, 3, 4, 4)
	cols := session.Pick(c.Difficulty, 4, 4, 5)
	if c.Rows <= 0 {
		c.Rows = rows
	}
	if c.Cols <= 0 {
		c.Cols = cols
	}
	if c.Rows*c.Cols%2 != 0 {
		session.Log.WithFields(logrus.Fields{
			"rows": c.Rows,
			"cols": c.Cols,
		}).Warn("odd number of cards, using the normal layout")
		c.Rows, c.Cols = 4, 4
	}
	if len(c.Symbols) == 0 {
		c.Symbols = DefaultSymbols
	}
	symbols := make([]string, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		if !slices.Contains(symbols, s) {
			symbols = append(symbols, s)
		}
	}
	c.Symbols = symbols
	if pairs := c.Rows * c.Cols / 2; len(c.Symbols) < pairs {
		session.Log.WithFields(logrus.Fields{
			"pairs":   pairs,
			"symbols": len(c.Symbols),
		}).Warn("not enough symbols, adding numbered cards")
		for i := len(c.Symbols); i < pairs; i++ {
			c.Symbols = append(c.Symbols, strconv.Itoa(i+1))
		}
	}
	if c.FlipBack <= 0 {
		c.FlipBack = defaultFlipBack
	}
	return c
}

type Card struct {
	Symbol  string `json:"symbol,omitempty"`
	Flipped bool   `json:"flipped"`
	Matched bool   `json:"matched"`
}

type FlipResult struct {
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
	// Pair is set on the second card of an attempt; Match tells whether the
	// two cards matched.
	Pair         bool `json:"pair"`
	Match        bool `json:"match"`
	MatchedPairs int  `json:"matched_pairs"`
}

type Game struct {
	*session.Session
	cfg     Config
	cards   []Card
	flipped []int
	matched int
}

type Snapshot struct {
	Status       session.Status `json:"status"`
	Moves        int            `json:"moves"`
	Rows         int            `json:"rows"`
	Cols         int            `json:"cols"`
	MatchedPairs int            `json:"matched_pairs"`
	TotalPairs   int            `json:"total_pairs"`
	Cards        []Card         `json:"cards"`
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
	pairs := g.cfg.Rows * g.cfg.Cols / 2
	symbols := rng.Shuffled(g.Rand(), g.cfg.Symbols)[:pairs]
	g.cards = make([]Card, 0, pairs*2)
	for _, s := range symbols {
		g.cards = append(g.cards, Card{Symbol: s}, Card{Symbol: s})
	}
	rng.Shuffle(g.Rand(), g.cards)
	g.flipped = nil
	g.matched = 0
}

func (g *Game) Rules() string { return rules }

func (g *Game) ShowRules() { g.Session.ShowRules(rules) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// Flip turns card i face up. Input is refused while a mismatched pair is
// waiting to turn back.
func (g *Game) Flip(i int) (FlipResult, bool) {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || i < 0 || i >= len(g.cards) || len(g.flipped) >= 2 {
		return FlipResult{}, false
	}
	card := &g.cards[i]
	if card.Flipped || card.Matched {
		return FlipResult{}, false
	}
	card.Flipped = true
	g.flipped = append(g.flipped, i)
	res := FlipResult{Index: i, Symbol: card.Symbol, MatchedPairs: g.matched}
	if len(g.flipped) < 2 {
		return res, true
	}

	g.CountMove()
	res.Pair = true
	a, b := g.flipped[0], g.flipped[1]
	if g.cards[a].Symbol == g.cards[b].Symbol {
		g.cards[a].Matched = true
		g.cards[b].Matched = true
		g.flipped = nil
		g.matched++
		res.Match = true
		res.MatchedPairs = g.matched
		if g.matched == len(g.cards)/2 {
			g.Win(fmt.Sprintf("Congratulations! You found all pairs in %d moves!", g.Moves()))
		}
		return res, true
	}

	g.Resolve(g.cfg.FlipBack, func() {
		g.cards[a].Flipped = false
		g.cards[b].Flipped = false
		g.flipped = nil
	})
	return res, true
}

func (g *Game) MatchedPairs() int {
	g.Lock()
	defer g.Unlock()
	return g.matched
}

func (g *Game) TotalPairs() int {
	return g.cfg.Rows * g.cfg.Cols / 2
}

// FaceUp returns the indices of the unmatched cards currently showing.
func (g *Game) FaceUp() []int {
	g.Lock()
	defer g.Unlock()
	return slices.Clone(g.flipped)
}

// Cards returns every card, symbols included.
func (g *Game) Cards() []Card {
	g.Lock()
	defer g.Unlock()
	return slices.Clone(g.cards)
}

// Snapshot hides the symbols of face-down cards.
func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	cards := make([]Card, len(g.cards))
	for i, c := range g.cards {
		if !c.Flipped && !c.Matched {
			c.Symbol = ""
		}
		cards[i] = c
	}
	return Snapshot{
		Status:       g.Status(),
		Moves:        g.Moves(),
		Rows:         g.cfg.Rows,
		Cols:         g.cfg.Cols,
		MatchedPairs: g.matched,
		TotalPairs:   len(g.cards) / 2,
		Cards:        cards,
	}
}
