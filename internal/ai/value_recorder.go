package ai

import (
	"fmt"
	"strings"
)

// ValueEntry is one recorded contribution to a score.
type ValueEntry struct {
	Delta   int
	Reason  string
	Running int
}

// ValueRecorder accumulates named contributions to an integer score. The
// zero value is ready to use.
type ValueRecorder struct {
	total   int
	entries []ValueEntry
}

// Add records delta under reason. Zero deltas are skipped.
func (v *ValueRecorder) Add(delta int, reason string) {
	if delta == 0 {
		return
	}
	v.total += delta
	v.entries = append(v.entries, ValueEntry{Delta: delta, Reason: reason, Running: v.total})
}

// AddAll folds another recorder's entries in, prefixing their reasons.
func (v *ValueRecorder) AddAll(other *ValueRecorder, prefix string) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		v.Add(e.Delta, prefix+e.Reason)
	}
}

// Value returns the running total.
func (v *ValueRecorder) Value() int {
	return v.total
}

// Entries returns the recorded contributions in insertion order.
func (v *ValueRecorder) Entries() []ValueEntry {
	return v.entries
}

// String renders the explanation as "reason: +delta (=running)" lines.
func (v *ValueRecorder) String() string {
	var sb strings.Builder
	for i, e := range v.entries {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %+d (=%d)", e.Reason, e.Delta, e.Running)
	}
	return sb.String()
}
