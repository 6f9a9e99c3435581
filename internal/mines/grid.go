package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellState is the player's view of a cell: 0 to 8 for an open cell with
// that many mined neighbours, or one of the markers below.
type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64 // post-game-over
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged || s == CorrectlyFlagged:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "#"
	case s == UnflaggedMine:
		return "@"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

type Cell struct {
	Mine     bool `json:"-"`
	Adjacent int  `json:"-"`
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
}

type board struct {
	rows, cols int
	cells      []Cell
}

func (b *board) inBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

func (b *board) index(row, col int) int {
	return row*b.cols + col
}

// neighbours calls f for every in-bounds cell around (row, col), excluding
// the cell itself.
func (b *board) neighbours(row, col int, f func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if r, c := row+dr, col+dc; b.inBounds(r, c) {
				f(r, c)
			}
		}
	}
}

func (b *board) countAdjacent() {
	for row := range b.rows {
		for col := range b.cols {
			n := 0
			b.neighbours(row, col, func(r, c int) {
				if b.cells[b.index(r, c)].Mine {
					n++
				}
			})
			b.cells[b.index(row, col)].Adjacent = n
		}
	}
}
