package anagram

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrambleIsDifferentPermutation(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, word := range []string{"SPRING", "AB", "ABA", "AAB", "ВЕСНА", "CHAMPAGNE"} {
		for range 200 {
			s := Scramble(r, word)
			assert.NotEqual(t, word, s)

			got, want := []rune(s), []rune(word)
			slices.Sort(got)
			slices.Sort(want)
			assert.Equal(t, want, got, "%q is not a permutation of %q", s, word)
		}
	}
}

func TestScrambleUniformWords(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, word := range []string{"", "A", "AAAA"} {
		assert.Equal(t, word, Scramble(r, word))
	}
}
