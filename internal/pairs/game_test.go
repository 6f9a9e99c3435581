package pairs

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vancomm/stagehunt/internal/session"
	"github.com/vancomm/stagehunt/internal/session/sessiontest"
)

func TestMain(m *testing.M) {
	session.Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	goleak.VerifyTestMain(m)
}

func newGame(cfg Config, opts ...session.Option) (*Game, *sessiontest.Scheduler) {
	clock := sessiontest.NewScheduler()
	opts = append([]session.Option{
		session.WithRand(rand.New(rand.NewPCG(1, 2))),
		session.WithScheduler(clock),
	}, opts...)
	return New(cfg, opts...), clock
}

// twoByTwo deals A, A, B, B in order.
func twoByTwo(opts ...session.Option) (*Game, *sessiontest.Scheduler) {
	g, clock := newGame(Config{Rows: 2, Cols: 2, Symbols: []string{"A", "B"}}, opts...)
	g.cards = []Card{{Symbol: "A"}, {Symbol: "A"}, {Symbol: "B"}, {Symbol: "B"}}
	return g, clock
}

func TestPresets(t *testing.T) {
	tests := []struct {
		difficulty session.Difficulty
		rows, cols int
	}{
		{session.Easy, 3, 4},
		{session.Normal, 4, 4},
		{session.Hard, 4, 5},
	}
	for _, test := range tests {
		t.Run(string(test.difficulty), func(t *testing.T) {
			g, _ := newGame(Config{Difficulty: test.difficulty})
			s := g.Snapshot()
			assert.Equal(t, test.rows, s.Rows)
			assert.Equal(t, test.cols, s.Cols)
			assert.Equal(t, test.rows*test.cols/2, s.TotalPairs)
			assert.Len(t, s.Cards, test.rows*test.cols)
			for _, c := range s.Cards {
				assert.Empty(t, c.Symbol, "face-down symbols are hidden")
			}
		})
	}
}

func TestDeckHasExactlyTwoOfEach(t *testing.T) {
	g, _ := newGame(Config{Difficulty: session.Hard})
	counts := map[string]int{}
	for _, c := range g.Cards() {
		counts[c.Symbol]++
	}
	assert.Len(t, counts, 10)
	for s, n := range counts {
		assert.Equal(t, 2, n, s)
	}
}

func TestDegradedConfig(t *testing.T) {
	g, _ := newGame(Config{Rows: 3, Cols: 3})
	assert.Equal(t, 8, g.TotalPairs())

	g, _ = newGame(Config{Rows: 2, Cols: 4, Symbols: []string{"A", "A", "B"}})
	counts := map[string]int{}
	for _, c := range g.Cards() {
		counts[c.Symbol]++
	}
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "3": 2, "4": 2}, counts)
}

func TestMatchingPair(t *testing.T) {
	g, clock := twoByTwo()

	res, ok := g.Flip(0)
	require.True(t, ok)
	assert.False(t, res.Pair)
	assert.Equal(t, "A", res.Symbol)
	assert.Equal(t, 0, g.Moves(), "moves count pair attempts")

	res, ok = g.Flip(1)
	require.True(t, ok)
	assert.True(t, res.Pair)
	assert.True(t, res.Match)
	assert.Equal(t, 1, res.MatchedPairs)
	assert.Equal(t, 1, g.MatchedPairs())
	assert.Equal(t, 1, g.Moves())
	assert.Equal(t, session.Playing, g.Status(), "a match does not lock")
	assert.Empty(t, g.FaceUp())
	assert.Equal(t, 0, clock.Pending())

	_, ok = g.Flip(0)
	assert.False(t, ok, "matched cards stay put")
}

func TestMismatchFlipsBack(t *testing.T) {
	g, clock := twoByTwo()

	_, ok := g.Flip(0)
	require.True(t, ok)
	res, ok := g.Flip(2)
	require.True(t, ok)
	assert.True(t, res.Pair)
	assert.False(t, res.Match)
	assert.Equal(t, session.Resolving, g.Status())
	assert.ElementsMatch(t, []int{0, 2}, g.FaceUp())

	_, ok = g.Flip(1)
	assert.False(t, ok, "locked while the pair is showing")
	assert.LessOrEqual(t, len(g.FaceUp()), 2)

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, session.Resolving, g.Status())

	clock.Advance(time.Millisecond)
	assert.Equal(t, session.Playing, g.Status())
	assert.Empty(t, g.FaceUp())
	for _, c := range g.Cards() {
		assert.False(t, c.Flipped)
		assert.False(t, c.Matched)
	}
	assert.Equal(t, 0, g.MatchedPairs())
	assert.Equal(t, 1, g.Moves())
}

func TestFindingAllPairsWins(t *testing.T) {
	n := &sessiontest.Notifier{}
	g, _ := twoByTwo(session.WithNotifier(n))
	completed := 0
	g.OnComplete(func() { completed++ })

	for _, i := range []int{0, 1, 3, 2} {
		_, ok := g.Flip(i)
		require.True(t, ok)
	}
	assert.Equal(t, session.Won, g.Status())
	assert.Equal(t, 2, g.MatchedPairs())
	assert.Equal(t, 1, completed)
	msg, ok := n.Last(sessiontest.Success)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "2 moves")
}

func TestMatchedPairsNeverDecrease(t *testing.T) {
	g, clock := newGame(Config{Rows: 4, Cols: 4, FlipBack: 10 * time.Millisecond})
	r := rand.New(rand.NewPCG(3, 4))
	last := 0
	for range 500 {
		g.Flip(r.IntN(16))
		clock.Advance(10 * time.Millisecond)
		assert.LessOrEqual(t, len(g.FaceUp()), 2)
		m := g.MatchedPairs()
		assert.GreaterOrEqual(t, m, last)
		last = m
		if g.IsOver() {
			break
		}
	}
}

func TestResetCancelsFlipBack(t *testing.T) {
	g, clock := twoByTwo()
	g.Flip(0)
	g.Flip(2)
	require.Equal(t, session.Resolving, g.Status())

	g.Reset()
	assert.Equal(t, session.Playing, g.Status())
	assert.Equal(t, 0, clock.Pending())

	// flip a fresh card; the stale timer must not turn it back
	res, ok := g.Flip(0)
	require.True(t, ok)
	clock.Advance(time.Minute)
	assert.Equal(t, []int{res.Index}, g.FaceUp())
	assert.Equal(t, 0, g.Moves())
}
