package match3

import (
	"math/rand/v2"

	"github.com/vancomm/stagehunt/internal/rng"
)

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) adjacent(q Pos) bool {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	return dr*dr+dc*dc == 1
}

type Move struct {
	From Pos `json:"from"`
	To   Pos `json:"to"`
}

// Run is a line of three or more identical symbols.
type Run struct {
	Symbol string `json:"symbol"`
	Cells  []Pos  `json:"cells"`
	Points int    `json:"points"`
}

const basePoints = 10

// Points scores a run of n cells: ten per cell, times 1.5 for four and
// times 2 for five or more.
func Points(n int) int {
	switch {
	case n >= 5:
		return basePoints * n * 2
	case n == 4:
		return basePoints * n * 3 / 2
	default:
		return basePoints * n
	}
}

// Board is indexed [row][col]. Empty cells hold "" while a cascade settles.
type Board [][]string

func newBoard(size int) Board {
	b := make(Board, size)
	for i := range b {
		b[i] = make([]string, size)
	}
	return b
}

func (b Board) size() int { return len(b) }

func (b Board) inBounds(p Pos) bool {
	return 0 <= p.Row && p.Row < len(b) && 0 <= p.Col && p.Col < len(b)
}

func (b Board) at(p Pos) string { return b[p.Row][p.Col] }

func (b Board) swap(p, q Pos) {
	b[p.Row][p.Col], b[q.Row][q.Col] = b[q.Row][q.Col], b[p.Row][p.Col]
}

func (b Board) clone() Board {
	c := make(Board, len(b))
	for i, row := range b {
		c[i] = append([]string(nil), row...)
	}
	return c
}

// Runs finds every horizontal and vertical run. A cell can belong to one run
// in each direction.
func (b Board) Runs() []Run {
	var runs []Run
	n := len(b)
	scan := func(at func(i, j int) Pos) {
		for i := range n {
			start := 0
			for j := 1; j <= n; j++ {
				if j < n && b.at(at(i, j)) != "" && b.at(at(i, j)) == b.at(at(i, start)) {
					continue
				}
				if l := j - start; l >= 3 && b.at(at(i, start)) != "" {
					cells := make([]Pos, l)
					for k := range l {
						cells[k] = at(i, start+k)
					}
					runs = append(runs, Run{
						Symbol: b.at(at(i, start)),
						Cells:  cells,
						Points: Points(l),
					})
				}
				start = j
			}
		}
	}
	scan(func(i, j int) Pos { return Pos{Row: i, Col: j} })
	scan(func(i, j int) Pos { return Pos{Row: j, Col: i} })
	return runs
}

func (b Board) hasRun() bool {
	return len(b.Runs()) > 0
}

// LegalMoves lists every adjacent swap that produces a run.
func (b Board) LegalMoves() []Move {
	var moves []Move
	for row := range b {
		for col := range b[row] {
			p := Pos{Row: row, Col: col}
			for _, q := range []Pos{{Row: row, Col: col + 1}, {Row: row + 1, Col: col}} {
				if !b.inBounds(q) || b.at(p) == b.at(q) {
					continue
				}
				b.swap(p, q)
				if b.hasRun() {
					moves = append(moves, Move{From: p, To: q})
				}
				b.swap(p, q)
			}
		}
	}
	return moves
}

func (b Board) clear(runs []Run) {
	for _, r := range runs {
		for _, p := range r.Cells {
			b[p.Row][p.Col] = ""
		}
	}
}

// collapse drops symbols into empty cells below them and refills the top of
// every column from symbols.
func (b Board) collapse(r *rand.Rand, symbols []string) {
	n := len(b)
	for col := range n {
		empty := 0
		for row := n - 1; row >= 0; row-- {
			if b[row][col] == "" {
				empty++
			} else if empty > 0 {
				b[row+empty][col] = b[row][col]
				b[row][col] = ""
			}
		}
		for row := range empty {
			b[row][col] = rng.Pick(r, symbols)
		}
	}
}

// fill populates b with random symbols, rerolling runs until none remain.
func (b Board) fill(r *rand.Rand, symbols []string) {
	for row := range b {
		for col := range b[row] {
			b[row][col] = rng.Pick(r, symbols)
		}
	}
	for runs := b.Runs(); len(runs) > 0; runs = b.Runs() {
		for _, run := range runs {
			for _, p := range run.Cells {
				b[p.Row][p.Col] = rng.Pick(r, symbols)
			}
		}
	}
}
