package hunt

import (
	"strings"

	"github.com/vancomm/stagehunt/internal/anagram"
	"github.com/vancomm/stagehunt/internal/codebreaker"
	"github.com/vancomm/stagehunt/internal/content"
	"github.com/vancomm/stagehunt/internal/match3"
	"github.com/vancomm/stagehunt/internal/mines"
	"github.com/vancomm/stagehunt/internal/pairs"
	"github.com/vancomm/stagehunt/internal/quiz"
	"github.com/vancomm/stagehunt/internal/session"
	"github.com/vancomm/stagehunt/internal/slide"
)

// Game kinds as named in the stage table.
const (
	KindMinesweeper = "minesweeper"
	KindMastermind  = "mastermind"
	KindAnagrams    = "anagrams"
	KindMatch3      = "match3"
	KindPuzzle      = "puzzle"
	KindPairs       = "pairs"
	KindQuiz        = "quiz"
)

// Game is a puzzle engine as seen by a play: the shared lifecycle plus a
// JSON-friendly state and the engine's own commands.
type Game interface {
	OnComplete(func())
	ShowRules()
	Reset()
	Status() session.Status
	Moves() int
	IsOver() bool

	State() any
	// Commands maps each engine command to its number of arguments.
	Commands() map[string]int
	// Exec runs a parsed engine command. accepted is false when the
	// engine rejected the move; err reports malformed arguments.
	Exec(c Command) (result any, accepted bool, err error)
}

// Factory builds the engine for a stage.
type Factory func(stage content.Stage, delays Delays, opts ...session.Option) Game

func defaultFactories() map[string]Factory {
	return map[string]Factory{
		KindMinesweeper: func(s content.Stage, _ Delays, opts ...session.Option) Game {
			return minesGame{mines.New(mines.Config{Difficulty: difficulty(s)}, opts...)}
		},
		KindMastermind: func(s content.Stage, _ Delays, opts ...session.Option) Game {
			return codeGame{codebreaker.New(codebreaker.Config{Difficulty: difficulty(s)}, opts...)}
		},
		KindAnagrams: func(s content.Stage, _ Delays, opts ...session.Option) Game {
			return anagramGame{anagram.New(anagram.Config{Difficulty: difficulty(s)}, opts...)}
		},
		KindMatch3: func(s content.Stage, d Delays, opts ...session.Option) Game {
			return match3Game{match3.New(match3.Config{
				Difficulty:  difficulty(s),
				SettleDelay: d.Settle,
			}, opts...)}
		},
		KindPuzzle: func(s content.Stage, _ Delays, opts ...session.Option) Game {
			return slideGame{slide.New(slide.Config{Difficulty: difficulty(s)}, opts...)}
		},
		KindPairs: func(s content.Stage, d Delays, opts ...session.Option) Game {
			return pairsGame{pairs.New(pairs.Config{
				Difficulty: difficulty(s),
				FlipBack:   d.FlipBack,
			}, opts...)}
		},
		KindQuiz: func(s content.Stage, _ Delays, opts ...session.Option) Game {
			return quizGame{quiz.New(quiz.Config{Difficulty: difficulty(s)}, opts...)}
		},
	}
}

func difficulty(s content.Stage) session.Difficulty {
	return session.ParseDifficulty(s.Difficulty)
}

type minesGame struct{ *mines.Game }

func (g minesGame) State() any { return g.Snapshot() }

func (minesGame) Commands() map[string]int {
	return map[string]int{"reveal": 2, "flag": 2}
}

func (g minesGame) Exec(c Command) (any, bool, error) {
	xy, err := parseInts(c.Args)
	if err != nil {
		return nil, false, err
	}
	if c.Name == "flag" {
		return nil, g.ToggleFlag(xy[0], xy[1]), nil
	}
	return nil, g.Reveal(xy[0], xy[1]), nil
}

type codeGame struct{ *codebreaker.Game }

func (g codeGame) State() any { return g.Snapshot() }

func (codeGame) Commands() map[string]int {
	return map[string]int{
		"add":    1,
		"remove": 1,
		"clear":  0,
		"check":  0,
		"guess":  variadic,
	}
}

func (g codeGame) Exec(c Command) (any, bool, error) {
	switch c.Name {
	case "add":
		return nil, g.AddSymbol(c.Args[0]), nil
	case "remove":
		i, err := parseInts(c.Args)
		if err != nil {
			return nil, false, err
		}
		return nil, g.RemoveSymbol(i[0]), nil
	case "clear":
		return nil, g.ClearGuess(), nil
	case "check":
		fb, ok := g.Check()
		return fb, ok, nil
	default:
		fb, ok := g.SubmitGuess(c.Args)
		return fb, ok, nil
	}
}

type anagramGame struct{ *anagram.Game }

func (g anagramGame) State() any { return g.Snapshot() }

func (anagramGame) Commands() map[string]int {
	return map[string]int{"answer": variadic, "hint": 0}
}

func (g anagramGame) Exec(c Command) (any, bool, error) {
	if c.Name == "hint" {
		hint, ok := g.Hint()
		return hint, ok, nil
	}
	ans, ok := g.SubmitAnswer(strings.Join(c.Args, " "))
	return ans, ok, nil
}

type match3Game struct{ *match3.Game }

func (g match3Game) State() any { return g.Snapshot() }

func (match3Game) Commands() map[string]int {
	return map[string]int{"swap": 4, "hint": 0}
}

func (g match3Game) Exec(c Command) (any, bool, error) {
	if c.Name == "hint" {
		m, ok := g.Hint()
		return m, ok, nil
	}
	n, err := parseInts(c.Args)
	if err != nil {
		return nil, false, err
	}
	res, ok := g.Swap(match3.Pos{Row: n[0], Col: n[1]}, match3.Pos{Row: n[2], Col: n[3]})
	return res, ok, nil
}

type slideGame struct{ *slide.Game }

func (g slideGame) State() any { return g.Snapshot() }

func (slideGame) Commands() map[string]int {
	return map[string]int{"move": 2}
}

func (g slideGame) Exec(c Command) (any, bool, error) {
	n, err := parseInts(c.Args)
	if err != nil {
		return nil, false, err
	}
	return nil, g.MoveTile(n[0], n[1]), nil
}

type pairsGame struct{ *pairs.Game }

func (g pairsGame) State() any { return g.Snapshot() }

func (pairsGame) Commands() map[string]int {
	return map[string]int{"flip": 1}
}

func (g pairsGame) Exec(c Command) (any, bool, error) {
	n, err := parseInts(c.Args)
	if err != nil {
		return nil, false, err
	}
	res, ok := g.Flip(n[0])
	return res, ok, nil
}

type quizGame struct{ *quiz.Game }

func (g quizGame) State() any { return g.Snapshot() }

func (quizGame) Commands() map[string]int {
	return map[string]int{"choose": 2, "next": 0}
}

func (g quizGame) Exec(c Command) (any, bool, error) {
	if c.Name == "next" {
		q, ok := g.Next()
		return q, ok, nil
	}
	n, err := parseInts(c.Args)
	if err != nil {
		return nil, false, err
	}
	res, ok := g.Answer(n[0], n[1])
	return res, ok, nil
}
