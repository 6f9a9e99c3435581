package anagram

import (
	"math/rand/v2"

	"github.com/vancomm/stagehunt/internal/rng"
)

const maxReshuffles = 64

// Scramble returns a permutation of word's letters that differs from word.
// Words whose letters are all the same have no such permutation and are
// returned unchanged.
func Scramble(r *rand.Rand, word string) string {
	letters := []rune(word)
	if uniform(letters) {
		return word
	}
	for range maxReshuffles {
		rng.Shuffle(r, letters)
		if s := string(letters); s != word {
			return s
		}
	}
	// rotating a non-uniform word always changes it
	letters = []rune(word)
	return string(append(letters[1:], letters[0]))
}

func uniform(letters []rune) bool {
	for _, l := range letters {
		if l != letters[0] {
			return false
		}
	}
	return true
}
