package ai

import (
	"container/heap"
	"iter"
	"slices"
	"time"
)

const (
	// MinIterations is how many candidates a search scores before it honors
	// an expired deadline.
	MinIterations = 50

	MinTimeLimit     = 1
	MaxTimeLimit     = 200
	DefaultTimeLimit = 30
)

// ClampTimeLimit returns seconds when it lies in [MinTimeLimit,
// MaxTimeLimit] and DefaultTimeLimit otherwise.
func ClampTimeLimit(seconds int) int {
	if seconds < MinTimeLimit || seconds > MaxTimeLimit {
		return DefaultTimeLimit
	}
	return seconds
}

// SearchLimits bounds one search.
type SearchLimits struct {
	Deadline      time.Time
	MinIterations int
	Shuffle       bool
}

// SearchStats reports how a search ended.
type SearchStats struct {
	Iterations int
	TimedOut   bool
}

// FindBest scores candidates in order (shuffled first when asked) and keeps
// the highest score. Ties keep the earlier candidate. The deadline is
// checked after every iteration but only once MinIterations candidates have
// been scored. ok is false only for an empty input.
func FindBest[T any](candidates []T, score func(T) int, lim SearchLimits) (best T, bestScore int, stats SearchStats, ok bool) {
	if lim.Shuffle && len(candidates) > 1 {
		candidates = slices.Clone(candidates)
		aiShuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	}
	return FindBestSeq(slices.Values(candidates), score, lim)
}

// FindBestSeq is FindBest over a lazily produced sequence.
func FindBestSeq[T any](seq iter.Seq[T], score func(T) int, lim SearchLimits) (best T, bestScore int, stats SearchStats, ok bool) {
	minIters := lim.MinIterations
	if minIters <= 0 {
		minIters = MinIterations
	}
	for c := range seq {
		s := score(c)
		if !ok || s > bestScore {
			best, bestScore, ok = c, s, true
		}
		stats.Iterations++
		if stats.Iterations >= minIters && !lim.Deadline.IsZero() && !time.Now().Before(lim.Deadline) {
			stats.TimedOut = true
			break
		}
	}
	return best, bestScore, stats, ok
}

// ranked pairs a candidate with its score.
type ranked[T any] struct {
	Item  T
	Score int
	seq   int
}

// topN is a min-heap keeping the N best-scored candidates. Among equal
// scores the earliest pushed ranks higher.
type topN[T any] struct {
	items []ranked[T]
	n     int
	count int
}

func newTopN[T any](n int) *topN[T] { return &topN[T]{n: max(n, 1)} }

func (h *topN[T]) Len() int { return len(h.items) }

func (h *topN[T]) Less(i, j int) bool {
	if h.items[i].Score != h.items[j].Score {
		return h.items[i].Score < h.items[j].Score
	}
	return h.items[i].seq > h.items[j].seq
}

func (h *topN[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *topN[T]) Push(x any) { h.items = append(h.items, x.(ranked[T])) }

func (h *topN[T]) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// Offer records a scored candidate, evicting the worst once full.
func (h *topN[T]) Offer(item T, score int) {
	r := ranked[T]{Item: item, Score: score, seq: h.count}
	h.count++
	if h.Len() < h.n {
		heap.Push(h, r)
		return
	}
	if score > h.items[0].Score {
		h.items[0] = r
		heap.Fix(h, 0)
	}
}

// Sorted drains the heap best first.
func (h *topN[T]) Sorted() []ranked[T] {
	out := make([]ranked[T], h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(ranked[T])
	}
	return out
}
