package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/stagehunt/internal/session"
	"github.com/vancomm/stagehunt/internal/session/sessiontest"
)

func TestMain(m *testing.M) {
	session.Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

func newSeeded(cfg Config, n session.Notifier) *Game {
	return New(cfg,
		session.WithRand(rand.New(rand.NewPCG(1, 2))),
		session.WithNotifier(n),
	)
}

func TestPresets(t *testing.T) {
	tests := []struct {
		difficulty        session.Difficulty
		rows, cols, mines int
	}{
		{session.Easy, 6, 6, 5},
		{session.Normal, 8, 8, 10},
		{session.Hard, 9, 9, 12},
		{"", 8, 8, 10},
	}
	for _, test := range tests {
		t.Run(string(test.difficulty), func(t *testing.T) {
			s := New(Config{Difficulty: test.difficulty}).Snapshot()
			assert.Equal(t, test.rows, s.Rows)
			assert.Equal(t, test.cols, s.Cols)
			assert.Equal(t, test.mines, s.Mines)
			assert.Equal(t, test.mines, s.FlagsLeft)
			assert.Len(t, s.Grid, test.rows*test.cols)
		})
	}
}

func TestFirstRevealIsSafe(t *testing.T) {
	cfg := Config{Rows: 8, Cols: 8, Mines: 10}
	r := rand.New(rand.NewPCG(1, 2))
	for sr := range cfg.Rows {
		for sc := range cfg.Cols {
			g := New(cfg, session.WithRand(r))
			require.True(t, g.Reveal(sr, sc))
			assert.Equal(t, session.Playing, g.Status())

			mines := 0
			for row := range cfg.Rows {
				for col := range cfg.Cols {
					c, ok := g.Cell(row, col)
					require.True(t, ok)
					if c.Mine {
						mines++
						assert.False(t, absDiff(row, sr) <= 1 && absDiff(col, sc) <= 1,
							"mine at %d:%d next to first reveal %d:%d", row, col, sr, sc)
					}
				}
			}
			assert.Equal(t, cfg.Mines, mines)
		}
	}
}

func TestAdjacentCounts(t *testing.T) {
	g := newSeeded(Config{Rows: 9, Cols: 9, Mines: 20}, nil)
	require.True(t, g.Reveal(4, 4))

	for row := range 9 {
		for col := range 9 {
			c, _ := g.Cell(row, col)
			want := 0
			g.board.neighbours(row, col, func(r, cc int) {
				if n, _ := g.Cell(r, cc); n.Mine {
					want++
				}
			})
			assert.Equal(t, want, c.Adjacent, "cell %d:%d", row, col)
		}
	}
}

func TestFloodFillOpensZeroRegion(t *testing.T) {
	g := newSeeded(Config{Rows: 8, Cols: 8, Mines: 10}, nil)
	require.True(t, g.Reveal(0, 0))

	// the first reveal is a zero cell, so every neighbour opens too
	for _, p := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		c, _ := g.Cell(p[0], p[1])
		assert.True(t, c.Revealed, "cell %v", p)
	}

	// every opened zero cell has all of its neighbours open
	for row := range 8 {
		for col := range 8 {
			c, _ := g.Cell(row, col)
			if !c.Revealed || c.Adjacent != 0 {
				continue
			}
			g.board.neighbours(row, col, func(r, cc int) {
				n, _ := g.Cell(r, cc)
				assert.True(t, n.Revealed, "neighbour %d:%d of %d:%d", r, cc, row, col)
			})
		}
	}
}

func TestFloodFillSkipsFlaggedCells(t *testing.T) {
	g := newSeeded(Config{Rows: 8, Cols: 8, Mines: 10}, nil)
	require.True(t, g.ToggleFlag(0, 1))
	require.True(t, g.Reveal(0, 0))

	c, _ := g.Cell(0, 1)
	assert.False(t, c.Mine, "no mine next to the first reveal")
	assert.True(t, c.Flagged)
	assert.False(t, c.Revealed, "a flag stops the flood fill")

	other, _ := g.Cell(1, 0)
	assert.True(t, other.Revealed)
}

func TestInvalidMovesAreIgnored(t *testing.T) {
	g := newSeeded(Config{Rows: 5, Cols: 5, Mines: 3}, nil)

	assert.False(t, g.Reveal(-1, 0))
	assert.False(t, g.Reveal(0, 5))
	assert.False(t, g.ToggleFlag(5, 5))

	require.True(t, g.ToggleFlag(0, 0))
	assert.False(t, g.Reveal(0, 0), "flagged cells cannot be opened")
	assert.False(t, g.MinesPlaced())
	assert.Equal(t, session.Playing, g.Status(), "no win check before mines exist")

	require.True(t, g.ToggleFlag(0, 0))
	require.True(t, g.Reveal(2, 2))
	assert.False(t, g.Reveal(2, 2), "already open")
	assert.False(t, g.ToggleFlag(2, 2), "open cells cannot be flagged")
	assert.Equal(t, 1, g.Moves())
}

func TestLoseRevealsBoard(t *testing.T) {
	n := &sessiontest.Notifier{}
	g := newSeeded(Config{Rows: 6, Cols: 6, Mines: 5}, n)
	completed := false
	g.OnComplete(func() { completed = true })

	require.True(t, g.Reveal(0, 0))
	mine := -1
	for i, c := range g.board.cells {
		if c.Mine {
			mine = i
			break
		}
	}
	require.NotEqual(t, -1, mine)

	require.True(t, g.Reveal(mine/6, mine%6))
	assert.Equal(t, session.Lost, g.Status())
	assert.True(t, g.IsOver())
	assert.False(t, completed)
	assert.Equal(t, 1, n.Count(sessiontest.Error))

	view := g.View()
	assert.Equal(t, ExplodedMine, view[mine])
	for i, c := range g.board.cells {
		assert.True(t, c.Revealed)
		if c.Mine && i != mine {
			assert.Equal(t, UnflaggedMine, view[i])
		}
	}
	assert.False(t, g.Reveal(5, 5), "no moves after the game is over")
}

func TestWinByRevealingAllSafeCells(t *testing.T) {
	n := &sessiontest.Notifier{}
	g := newSeeded(Config{Rows: 6, Cols: 6, Mines: 5}, n)
	completed := 0
	g.OnComplete(func() { completed++ })

	require.True(t, g.Reveal(3, 3))
	for i := range g.board.cells {
		c, _ := g.Cell(i/6, i%6)
		if !c.Mine && !c.Revealed {
			require.True(t, g.Reveal(i/6, i%6))
		}
	}
	assert.Equal(t, session.Won, g.Status())
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, n.Count(sessiontest.Success))

	for i, s := range g.View() {
		if g.board.cells[i].Mine {
			assert.Equal(t, Flagged, s)
		}
	}
}

func TestWinByFlaggingAllMines(t *testing.T) {
	g := newSeeded(Config{Rows: 6, Cols: 6, Mines: 5}, nil)
	completed := 0
	g.OnComplete(func() { completed++ })

	require.True(t, g.Reveal(3, 3))

	// a wrong flag blocks the flag-based win
	safe := -1
	for i, c := range g.board.cells {
		if !c.Mine && !c.Revealed {
			safe = i
			break
		}
	}
	if safe >= 0 {
		require.True(t, g.ToggleFlag(safe/6, safe%6))
	}
	for i, c := range g.board.cells {
		if c.Mine {
			require.True(t, g.ToggleFlag(i/6, i%6))
		}
	}
	if safe >= 0 {
		assert.Equal(t, session.Playing, g.Status())
		require.True(t, g.ToggleFlag(safe/6, safe%6))
	}

	assert.Equal(t, session.Won, g.Status())
	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, g.FlagsLeft())
}

func TestTooManyMinesAreClamped(t *testing.T) {
	g := newSeeded(Config{Rows: 4, Cols: 4, Mines: 100}, nil)
	require.True(t, g.Reveal(0, 0))

	mines := 0
	for _, c := range g.board.cells {
		if c.Mine {
			mines++
		}
	}
	assert.Equal(t, 12, mines)
	assert.Equal(t, session.Won, g.Status(), "every safe cell is already open")
}

func TestReset(t *testing.T) {
	g := newSeeded(Config{Rows: 6, Cols: 6, Mines: 5}, nil)
	require.True(t, g.Reveal(0, 0))
	require.True(t, g.MinesPlaced())

	g.Reset()
	assert.False(t, g.MinesPlaced())
	assert.Equal(t, 0, g.Moves())
	assert.Equal(t, session.Playing, g.Status())
	for _, s := range g.View() {
		assert.Equal(t, Unknown, s)
	}
}

func TestGridToString(t *testing.T) {
	grid := Grid{Unknown, Flagged, 0, 1, ExplodedMine, 8}
	assert.Equal(t, "  * 0 \n1 X 8 \n", grid.ToString(3))
}
