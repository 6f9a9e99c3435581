package session_test

import (
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
	session.Log.SetLevel(logrus.WarnLevel)
	goleak.VerifyTestMain(m)
}

func TestWinCompletesOnClose(t *testing.T) {
	n := &sessiontest.Notifier{Hold: true}
	s := session.New(session.WithNotifier(n))
	calls := 0
	s.OnComplete(func() { calls++ })

	s.Lock()
	s.Win("done")
	s.Unlock()

	assert.Equal(t, session.Won, s.Status())
	assert.True(t, s.IsOver())
	assert.Equal(t, 0, calls, "completion waits for the message to close")

	n.Close()
	assert.Equal(t, 1, calls)

	s.Lock()
	s.Win("again")
	s.Unlock()
	n.Close()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, n.Count(sessiontest.Success))
}

func TestOnCompleteReplacesCallback(t *testing.T) {
	s := session.New()
	first, second := 0, 0
	s.OnComplete(func() { first++ })
	s.OnComplete(func() { second++ })

	s.Lock()
	s.Win("")
	s.Unlock()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestRestartDropsStaleCompletion(t *testing.T) {
	n := &sessiontest.Notifier{Hold: true}
	s := session.New(session.WithNotifier(n))
	calls := 0
	s.OnComplete(func() { calls++ })

	s.Lock()
	s.Win("")
	s.Restart()
	s.Unlock()
	n.Close()

	assert.Equal(t, 0, calls)
	assert.Equal(t, session.Playing, s.Status())

	s.Lock()
	s.Win("")
	s.Unlock()
	n.Close()
	assert.Equal(t, 1, calls)
}

func TestLoseReportsError(t *testing.T) {
	n := &sessiontest.Notifier{}
	s := session.New(session.WithNotifier(n))

	s.Lock()
	s.Lose("boom")
	s.Win("too late")
	s.Unlock()

	assert.Equal(t, session.Lost, s.Status())
	msg, ok := n.Last(sessiontest.Error)
	require.True(t, ok)
	assert.Equal(t, "boom", msg.Text)
	assert.Equal(t, 0, n.Count(sessiontest.Success))
}

func TestResolveSettlesAfterDelay(t *testing.T) {
	clock := sessiontest.NewScheduler()
	s := session.New(session.WithScheduler(clock))
	settled := false

	s.Lock()
	s.Resolve(time.Second, func() { settled = true })
	s.Unlock()

	assert.Equal(t, session.Resolving, s.Status())
	assert.False(t, s.Playing())

	clock.Advance(999 * time.Millisecond)
	assert.False(t, settled)

	clock.Advance(time.Millisecond)
	assert.True(t, settled)
	assert.Equal(t, session.Playing, s.Status())
	assert.Equal(t, 0, clock.Pending())
}

func TestResolveInline(t *testing.T) {
	s := session.New()
	settled := false
	s.Lock()
	s.Resolve(0, func() { settled = true })
	s.Unlock()
	assert.True(t, settled)
	assert.Equal(t, session.Playing, s.Status())
}

func TestRestartCancelsTimer(t *testing.T) {
	clock := sessiontest.NewScheduler()
	s := session.New(session.WithScheduler(clock))
	settled := false

	s.Lock()
	s.CountMove()
	s.Resolve(time.Second, func() { settled = true })
	s.Restart()
	s.Unlock()

	clock.Advance(time.Minute)
	assert.False(t, settled)
	assert.Equal(t, 0, s.Moves())
	assert.Equal(t, session.Playing, s.Status())
}

func TestSettleCanWin(t *testing.T) {
	clock := sessiontest.NewScheduler()
	n := &sessiontest.Notifier{}
	s := session.New(session.WithScheduler(clock), session.WithNotifier(n))
	calls := 0
	s.OnComplete(func() {
		// re-entering the session from the callback must not deadlock
		s.Lock()
		calls++
		s.Unlock()
	})

	s.Lock()
	s.Resolve(time.Second, func() { s.Win("settled") })
	s.Unlock()
	clock.Advance(time.Second)

	assert.Equal(t, session.Won, s.Status())
	assert.Equal(t, 1, calls)
}

func TestWallClock(t *testing.T) {
	done := make(chan struct{})
	s := session.New()
	s.Lock()
	s.After(time.Millisecond, func() { close(done) })
	s.Unlock()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want session.Difficulty
	}{
		{"easy", session.Easy},
		{" HARD ", session.Hard},
		{"normal", session.Normal},
		{"", session.Normal},
		{"nightmare", session.Normal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, session.ParseDifficulty(tt.in))
		})
	}
	assert.Equal(t, 3, session.Pick(session.Hard, 1, 2, 3))
	assert.Equal(t, 2, session.Pick("bogus", 1, 2, 3))
}
