package match3

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(rows ...string) Board {
	b := newBoard(len(rows))
	for i, row := range rows {
		for j, r := range row {
			b[i][j] = string(r)
		}
	}
	return b
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 30, Points(3))
	assert.Equal(t, 60, Points(4))
	assert.Equal(t, 100, Points(5))
	assert.Equal(t, 140, Points(7))
}

func TestRuns(t *testing.T) {
	b := parse(
		"AAAAA",
		"BCADE",
		"BDAEC",
		"BEACD",
		"CDEBA",
	)
	runs := b.Runs()
	require.Len(t, runs, 3)

	assert.Equal(t, "A", runs[0].Symbol)
	assert.Len(t, runs[0].Cells, 5)
	assert.Equal(t, 100, runs[0].Points)

	// column 0 then column 2, which shares its top cell with row 0
	assert.Equal(t, "B", runs[1].Symbol)
	assert.Equal(t, []Pos{{1, 0}, {2, 0}, {3, 0}}, runs[1].Cells)
	assert.Equal(t, "A", runs[2].Symbol)
	assert.Len(t, runs[2].Cells, 4)
	assert.Equal(t, 60, runs[2].Points)
}

func TestLegalMoves(t *testing.T) {
	stuck := parse(
		"ABCD",
		"CDAB",
		"ABCD",
		"CDAB",
	)
	assert.Empty(t, stuck.Runs())
	assert.Empty(t, stuck.LegalMoves())

	b := parse(
		"AABC",
		"DEAF",
		"BCDE",
		"EFCD",
	)
	assert.Equal(t, []Move{{From: Pos{0, 2}, To: Pos{1, 2}}}, b.LegalMoves())
	assert.Equal(t, parse("AABC", "DEAF", "BCDE", "EFCD"), b, "board is left untouched")
}

func TestCollapse(t *testing.T) {
	b := parse(
		"ABC",
		"DEF",
		"GHI",
	)
	b[2][0] = ""
	b[1][1] = ""
	b[2][1] = ""
	b.collapse(rand.New(rand.NewPCG(1, 2)), []string{"X"})

	assert.Equal(t, parse(
		"XXC",
		"AXF",
		"DBI",
	), b)
}

func TestFill(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	symbols := []string{"A", "B", "C"}
	for range 100 {
		b := newBoard(6)
		b.fill(r, symbols)
		assert.Empty(t, b.Runs())
		for _, row := range b {
			for _, s := range row {
				assert.Contains(t, symbols, s)
			}
		}
	}
}
