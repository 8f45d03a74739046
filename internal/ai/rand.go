package ai

import "math/rand"

// aiRng is the package-level random source used by move generation and
// search. When nil, the functions below delegate to the global math/rand
// default. Use SeedAIRng to set a deterministic source for reproducible
// games and tests.
var aiRng *rand.Rand

// SeedAIRng sets a deterministic random source for reproducible AI behavior.
func SeedAIRng(seed int64) {
	aiRng = rand.New(rand.NewSource(seed))
}

// ResetAIRng reverts to the default (non-deterministic) global random source.
func ResetAIRng() {
	aiRng = nil
}

func aiIntn(n int) int {
	if aiRng != nil {
		return aiRng.Intn(n)
	}
	return rand.Intn(n)
}

func aiShuffle(n int, swap func(i, j int)) {
	if aiRng != nil {
		aiRng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}
