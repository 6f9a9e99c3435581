// Package content loads the embedded hunt content: the stage table, the
// anagram word bank and the quiz question bank.
package content

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type Word struct {
	Word     string `yaml:"word"`
	Hint     string `yaml:"hint"`
	Category string `yaml:"category"`
}

type Question struct {
	Text        string   `yaml:"text"`
	Options     []string `yaml:"options"`
	Correct     int      `yaml:"correct"`
	Explanation string   `yaml:"explanation"`
}

type Stage struct {
	ID         int    `yaml:"id" json:"id"`
	Key        string `yaml:"key" json:"key"`
	Title      string `yaml:"title" json:"title"`
	Story      string `yaml:"story" json:"story"`
	Game       string `yaml:"game" json:"game"`
	Difficulty string `yaml:"difficulty" json:"difficulty"`
	NextHint   string `yaml:"next_hint" json:"-"`
}

type Hunt struct {
	Title  string  `yaml:"title"`
	Final  string  `yaml:"final"`
	Stages []Stage `yaml:"stages"`
}

var (
	loadOnce  sync.Once
	loadErr   error
	words     []Word
	questions []Question
	hunt      Hunt
)

func load() {
	loadOnce.Do(func() {
		if loadErr = decode("data/words.yaml", &words); loadErr != nil {
			return
		}
		if loadErr = decode("data/questions.yaml", &questions); loadErr != nil {
			return
		}
		if loadErr = decode("data/stages.yaml", &hunt); loadErr != nil {
			return
		}
		loadErr = validate()
	})
}

func decode(name string, v any) error {
	buf, err := files.ReadFile(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("could not parse %s: %w", name, err)
	}
	return nil
}

func validate() error {
	for i, q := range questions {
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("question %d: correct option %d out of range", i, q.Correct)
		}
	}
	for i, s := range hunt.Stages {
		if s.ID != i+1 {
			return fmt.Errorf("stage %q: expected id %d, got %d", s.Key, i+1, s.ID)
		}
	}
	return nil
}

// Words returns a copy of the anagram bank. It panics if the embedded
// content is malformed.
func Words() []Word {
	load()
	if loadErr != nil {
		panic(loadErr)
	}
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

func Questions() []Question {
	load()
	if loadErr != nil {
		panic(loadErr)
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// LoadHunt returns the stage table.
func LoadHunt() (Hunt, error) {
	load()
	if loadErr != nil {
		return Hunt{}, loadErr
	}
	h := hunt
	h.Stages = append([]Stage(nil), hunt.Stages...)
	return h, nil
}

func (h Hunt) ByKey(key string) (Stage, bool) {
	for _, s := range h.Stages {
		if s.Key == key {
			return s, true
		}
	}
	return Stage{}, false
}

func (h Hunt) ByID(id int) (Stage, bool) {
	if id < 1 || id > len(h.Stages) {
		return Stage{}, false
	}
	return h.Stages[id-1], true
}

func (h Hunt) First() Stage {
	return h.Stages[0]
}

// IsLast reports whether id is the final stage.
func (h Hunt) IsLast(id int) bool {
	return id == len(h.Stages)
}
