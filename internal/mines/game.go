// Package mines implements the minesweeper stage: deferred mine placement
// around the first reveal, flood-fill opening and a two-way win check.
package mines

import (
	"github.com/sirupsen/logrus"

	"github.com/vancomm/stagehunt/internal/session"
)

const rules = "Open every cell that hides no mine. A number tells how many " +
	"mines touch the cell. Flag the cells you think are mined. Opening a " +
	"mine ends the game."

const (
	winText  = "The field is clear!"
	loseText = "Boom! You hit a mine. Try again."
)

type Config struct {
	Difficulty session.Difficulty
	Rows       int
	Cols       int
	Mines      int
}

func (c Config) withDefaults() Config {
	rows := session.Pick(c.Difficulty, 6, 8, 9)
	mines := session.Pick(c.Difficulty, 5, 10, 12)
	if c.Rows <= 0 {
		c.Rows = rows
	}
	if c.Cols <= 0 {
		c.Cols = rows
	}
	if c.Mines <= 0 {
		c.Mines = mines
	}
	return c
}

type Game struct {
	*session.Session
	cfg      Config
	board    board
	placed   bool
	revealed int
	flags    int
	exploded int
}

type Snapshot struct {
	Status    session.Status `json:"status"`
	Moves     int            `json:"moves"`
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Mines     int            `json:"mines"`
	FlagsLeft int            `json:"flags_left"`
	Grid      Grid           `json:"grid"`
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
	g.board = board{
		rows:  g.cfg.Rows,
		cols:  g.cfg.Cols,
		cells: make([]Cell, g.cfg.Rows*g.cfg.Cols),
	}
	g.placed = false
	g.revealed = 0
	g.flags = 0
	g.exploded = -1
}

func (g *Game) Rules() string { return rules }

func (g *Game) ShowRules() { g.Session.ShowRules(rules) }

func (g *Game) Reset() {
	g.Lock()
	defer g.Unlock()
	g.Restart()
	g.init()
}

// Reveal opens the cell at (row, col). Flagged and already open cells are
// left alone.
func (g *Game) Reveal(row, col int) bool {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || !g.board.inBounds(row, col) {
		return false
	}
	i := g.board.index(row, col)
	if c := g.board.cells[i]; c.Revealed || c.Flagged {
		return false
	}
	if !g.placed {
		g.placeMines(row, col)
	}
	g.CountMove()

	if g.board.cells[i].Mine {
		g.exploded = i
		g.revealAll()
		g.Lose(loseText)
		return true
	}

	g.open(row, col)
	g.checkWin()
	return true
}

// ToggleFlag flags or unflags a closed cell.
func (g *Game) ToggleFlag(row, col int) bool {
	g.Lock()
	defer g.Unlock()

	if !g.Playing() || !g.board.inBounds(row, col) {
		return false
	}
	c := &g.board.cells[g.board.index(row, col)]
	if c.Revealed {
		return false
	}
	c.Flagged = !c.Flagged
	if c.Flagged {
		g.flags++
	} else {
		g.flags--
	}
	g.checkWin()
	return true
}

func (g *Game) FlagsLeft() int {
	g.Lock()
	defer g.Unlock()
	return g.cfg.Mines - g.flags
}

// Cell returns the full cell record, mine included.
func (g *Game) Cell(row, col int) (Cell, bool) {
	g.Lock()
	defer g.Unlock()
	if !g.board.inBounds(row, col) {
		return Cell{}, false
	}
	return g.board.cells[g.board.index(row, col)], true
}

func (g *Game) MinesPlaced() bool {
	g.Lock()
	defer g.Unlock()
	return g.placed
}

func (g *Game) View() Grid {
	g.Lock()
	defer g.Unlock()
	return g.view()
}

func (g *Game) Snapshot() Snapshot {
	g.Lock()
	defer g.Unlock()
	return Snapshot{
		Status:    g.Status(),
		Moves:     g.Moves(),
		Rows:      g.cfg.Rows,
		Cols:      g.cfg.Cols,
		Mines:     g.cfg.Mines,
		FlagsLeft: g.cfg.Mines - g.flags,
		Grid:      g.view(),
	}
}

func (g *Game) view() Grid {
	won := g.Status() == session.Won
	grid := make(Grid, len(g.board.cells))
	for i, c := range g.board.cells {
		switch {
		case c.Revealed && c.Mine && i == g.exploded:
			grid[i] = ExplodedMine
		case c.Revealed && c.Mine && c.Flagged:
			grid[i] = CorrectlyFlagged
		case c.Revealed && c.Mine:
			grid[i] = UnflaggedMine
		case c.Revealed && c.Flagged:
			grid[i] = FalselyFlagged
		case c.Revealed:
			grid[i] = CellState(c.Adjacent)
		case c.Flagged || (won && c.Mine):
			grid[i] = Flagged
		default:
			grid[i] = Unknown
		}
	}
	return grid
}

// placeMines picks mine positions off a candidate list that excludes the
// first revealed cell and its neighbours.
func (g *Game) placeMines(firstRow, firstCol int) {
	b := &g.board
	candidates := make([]int, 0, len(b.cells))
	for row := range b.rows {
		for col := range b.cols {
			if absDiff(row, firstRow) > 1 || absDiff(col, firstCol) > 1 {
				candidates = append(candidates, b.index(row, col))
			}
		}
	}

	if g.cfg.Mines > len(candidates) {
		session.Log.WithFields(logrus.Fields{
			"rows":       b.rows,
			"cols":       b.cols,
			"mines":      g.cfg.Mines,
			"candidates": len(candidates),
		}).Warn("too many mines for the board, clamping")
		g.cfg.Mines = len(candidates)
	}

	r := g.Rand()
	k := len(candidates)
	for range g.cfg.Mines {
		i := r.IntN(k)
		b.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}
	b.countAdjacent()
	g.placed = true
}

// open reveals (row, col) and spreads through zero cells breadth first.
func (g *Game) open(row, col int) {
	b := &g.board
	queue := []int{b.index(row, col)}
	b.cells[queue[0]].Revealed = true
	g.revealed++

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if b.cells[i].Adjacent != 0 {
			continue
		}
		b.neighbours(i/b.cols, i%b.cols, func(r, c int) {
			j := b.index(r, c)
			n := &b.cells[j]
			if n.Revealed || n.Flagged || n.Mine {
				return
			}
			n.Revealed = true
			g.revealed++
			queue = append(queue, j)
		})
	}
}

func (g *Game) revealAll() {
	for i := range g.board.cells {
		g.board.cells[i].Revealed = true
	}
}

func (g *Game) checkWin() {
	if !g.placed {
		return
	}
	if g.allSafeRevealed() || g.allMinesFlagged() {
		g.Win(winText)
	}
}

func (g *Game) allSafeRevealed() bool {
	return g.revealed == len(g.board.cells)-g.cfg.Mines
}

func (g *Game) allMinesFlagged() bool {
	for _, c := range g.board.cells {
		if c.Mine != c.Flagged {
			return false
		}
	}
	return true
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
