package codebreaker

// Feedback counts symbols in the right place (Exact) and symbols present in
// the secret but placed elsewhere (Close).
type Feedback struct {
	Exact int `json:"exact"`
	Close int `json:"close"`
}

// Evaluate scores guess against secret in two passes: exact positions are
// consumed first, then every remaining guess symbol may consume at most one
// unmatched occurrence in the secret. Only the common prefix of the two
// slices is compared.
func Evaluate(secret, guess []string) Feedback {
	n := min(len(secret), len(guess))
	var fb Feedback
	secretUsed := make([]bool, n)
	guessUsed := make([]bool, n)

	for i := range n {
		if secret[i] == guess[i] {
			fb.Exact++
			secretUsed[i] = true
			guessUsed[i] = true
		}
	}

	for i := range n {
		if guessUsed[i] {
			continue
		}
		for j := range n {
			if !secretUsed[j] && secret[j] == guess[i] {
				fb.Close++
				secretUsed[j] = true
				break
			}
		}
	}
	return fb
}
