package ai

import (
	"strconv"
	"strings"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// CritterMove proposes moving one critter from Start to End. Value is the
// per-critter score once evaluated.
type CritterMove struct {
	Critter *titan.Critter
	Start   string
	End     string
	Value   int
}

// IsStay reports whether the move leaves the critter where it is.
func (m CritterMove) IsStay() bool { return m.Start == m.End }

// LegionMove is one CritterMove per critter of the moving legion. No two
// moves share an ending hex unless that hex is an entrance.
type LegionMove struct {
	Moves []CritterMove
	Value int
	Why   *ValueRecorder
}

// Key identifies the combination by tag and destination.
func (lm LegionMove) Key() string {
	var sb strings.Builder
	for i, m := range lm.Moves {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(m.Critter.Tag))
		sb.WriteByte(':')
		sb.WriteString(m.End)
	}
	return sb.String()
}

// Destination returns the ending hex planned for tag, or "".
func (lm LegionMove) Destination(tag int) string {
	for _, m := range lm.Moves {
		if m.Critter.Tag == tag {
			return m.End
		}
	}
	return ""
}

// HasOffboard reports whether any move ends on an entrance hex.
func (lm LegionMove) HasOffboard(offboard func(string) bool) bool {
	for _, m := range lm.Moves {
		if offboard(m.End) {
			return true
		}
	}
	return false
}

func (lm LegionMove) String() string {
	var sb strings.Builder
	for i, m := range lm.Moves {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Critter.Type.Name)
		sb.WriteByte(' ')
		sb.WriteString(m.Start)
		sb.WriteString("->")
		sb.WriteString(m.End)
	}
	return sb.String()
}
