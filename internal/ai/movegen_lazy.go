package ai

import (
	"iter"
	"strconv"
	"strings"
)

const (
	lazyPrefixMax    = 3
	lazyDrawAttempts = 50
)

// LazyGenerator produces LegionMoves on demand for move spaces too large to
// materialize. It first yields an "interesting" subset built from the top
// few candidates of every critter, then uniformly random combinations.
// Iteration order depends on the package RNG and Size is an upper bound.
type LazyGenerator struct {
	Offboard   func(hex string) bool
	candidates [][]CritterMove
	seen       map[string]bool
}

// NewLazyGenerator prepares a generator over the candidate lists.
func NewLazyGenerator(candidates [][]CritterMove, offboard func(string) bool) *LazyGenerator {
	return &LazyGenerator{Offboard: offboard, candidates: candidates, seen: make(map[string]bool)}
}

// Size returns the size of the full cross product, saturating at MaxInt.
func (g *LazyGenerator) Size() int {
	if len(g.candidates) == 0 {
		return 0
	}
	const maxInt = int(^uint(0) >> 1)
	n := 1
	for _, c := range g.candidates {
		if len(c) == 0 {
			return 0
		}
		if n > maxInt/len(c) {
			return maxInt
		}
		n *= len(c)
	}
	return n
}

// All yields the interesting subset and then random draws until a draw
// fails lazyDrawAttempts times in a row to find an unseen valid combination.
func (g *LazyGenerator) All() iter.Seq[LegionMove] {
	return func(yield func(LegionMove) bool) {
		if g.Size() == 0 {
			return
		}
		idx := make([]int, len(g.candidates))
		for prefix := 1; prefix <= lazyPrefixMax; prefix++ {
			if !g.expand(idx, 0, prefix, yield) {
				return
			}
		}
		for len(g.seen) < g.Size() {
			found := false
			for range lazyDrawAttempts {
				for i, c := range g.candidates {
					idx[i] = aiIntn(len(c))
				}
				if lm, ok := g.take(idx); ok {
					found = true
					if !yield(lm) {
						return
					}
					break
				}
			}
			if !found {
				return
			}
		}
	}
}

func (g *LazyGenerator) expand(idx []int, level, prefix int, yield func(LegionMove) bool) bool {
	if level == len(idx) {
		if lm, ok := g.take(idx); ok {
			return yield(lm)
		}
		return true
	}
	for i := range min(prefix, len(g.candidates[level])) {
		idx[level] = i
		if !g.expand(idx, level+1, prefix, yield) {
			return false
		}
	}
	return true
}

// take marks the index vector seen and builds its LegionMove when it is new
// and collision-free.
func (g *LazyGenerator) take(idx []int) (LegionMove, bool) {
	key := indexKey(idx)
	if g.seen[key] {
		return LegionMove{}, false
	}
	g.seen[key] = true
	moves := make([]CritterMove, len(idx))
	for i, j := range idx {
		moves[i] = g.candidates[i][j]
	}
	if !collisionFree(moves, g.Offboard) {
		return LegionMove{}, false
	}
	return LegionMove{Moves: moves}, true
}

func indexKey(idx []int) string {
	var sb strings.Builder
	for i, v := range idx {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
