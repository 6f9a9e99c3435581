// Package slide implements the sliding-tile stage. Boards are shuffled by
// random legal moves from the solved position, so every deal is solvable.
package slide

import (
	"fmt"
	"slices"

	"github.com/vancomm/stagehunt/internal/rng"
	"github.com/vancomm/stagehunt/internal/session"
)

const rules = "Restore the picture by sliding tiles into the empty cell. Only " +
	"tiles next to the empty cell can move. Finish in as few moves as you can!"

type Config struct {
	Difficulty   session.Difficulty
	Size         int
	ShuffleMoves int
}

func (c Config) withDefaults() Config {
	if c.Size < 2 {
		if c.Size != 0 {
			session.Log.WithField("size", c.Size).Warn("sliding puzzle too small, using default size")
		}
		c.Size = session.Pick(c.Difficulty, 3, 3, 4)
	}
	if c.ShuffleMoves <= 0 {
		c.ShuffleMoves = session.Pick(c.Difficulty, 20, 40, 80)
	}
	return c
}

type Game struct {
	*session.Session
	cfg   Config
	tiles []int
	empty int
}

type Snapshot struct {
	Status session.Status `json:"status"`
	Moves  int            `json:"moves"`
	Size   int            `json:"size"`
	Tiles  []int          `json:"tiles"`
	Empty  int            `json:"empty"`
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
	g.tiles = Solved(g.cfg.Size)
	g.empty = len(g.tiles) - 1
	g.shuffle()
}

// Solved returns the goal arrangement: 0..n*n-1 in row-major order with the
// blank, valued n*n-1, last.
func Solved(n int) []int {
	tiles := make([]int, n*n)
	for i := range tiles {
		tiles[i] = i
	}
	return tiles
}

// Neighbours lists the cells orthogonally adjacent to i on an n by n board.
func Neighbours(n, i int) []int {
	row, col := i/n, i%n
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, i-n)
	}
	if row < n-1 {
		out = append(out, i+n)
	}
	if col > 0 {
		out = append(out, i-1)
	}
	if col < n-1 {
		out = append(out, i+1)
	}
	return out
}

// shuffle walks the blank through random legal moves, never stepping straight
// back, and keeps going until the board is no longer solved.
func (g *Game) shuffle() {
	prev := -1
	for i := 0; i < g.cfg.ShuffleMoves || g.solved(); i++ {
		options := slices.DeleteFunc(Neighbours(g.cfg.Size, g.empty), func(j int) bool {
			return j == prev
		})
		next := rng.Pick(g.Rand(), options)
		prev = g.empty
		g.slide(next)
	}
}

func (g *Game) slide(i int) {
	g.tiles[g.empty], g.tiles[i] = g.tiles[i], g.tiles[g.empty]
	g.empty = i
}

func (g *Game) solved() bool {
	for i, t := range g.tiles {
		if t != i {
			return false
		}
	}
	return true
}

func (g *Game) Rules() string { return rules }

func (g *Game) ShowRules() { g.Session.ShowRules(rules) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// MoveTile slides the tile at (row, col) into the blank if they touch.
func (g *Game) MoveTile(row, col int) bool {
	n := g.cfg.Size
	if row < 0 || row >= n || col < 0 || col >= n {
		return false
	}
	return g.MoveIndex(row*n + col)
}

func (g *Game) MoveIndex(i int) bool {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || !slices.Contains(Neighbours(g.cfg.Size, g.empty), i) {
		return false
	}
	g.slide(i)
	g.CountMove()
	if g.solved() {
		g.Win(fmt.Sprintf("Congratulations! You restored the picture in %d moves!", g.Moves()))
	}
	return true
}

func (g *Game) Tiles() []int {
	g.Lock()
	defer g.Unlock()
	return slices.Clone(g.tiles)
}

// EmptyPos returns the blank's row and column.
func (g *Game) EmptyPos() (int, int) {
	g.Lock()
	defer g.Unlock()
	return g.empty / g.cfg.Size, g.empty % g.cfg.Size
}

func (g *Game) Solved() bool {
	g.Lock()
	defer g.Unlock()
	return g.solved()
}

func (g *Game) Size() int { return g.cfg.Size }

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	return Snapshot{
		Status: g.Status(),
		Moves:  g.Moves(),
		Size:   g.cfg.Size,
		Tiles:  slices.Clone(g.tiles),
		Empty:  g.empty,
	}
}
