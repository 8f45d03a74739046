package ai

import (
	"bytes"
	"testing"

	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/freeeve/titan-ai/pkg/titan/titantest"
	"github.com/rs/zerolog"
)

// newTestAI returns an AI for "Red" over w with a quiet logger and a one
// second search budget.
func newTestAI(t *testing.T, w *titantest.World, personality string, opts ...Option) *AI {
	t.Helper()
	p, err := NewPersonality(personality)
	if err != nil {
		t.Fatalf("NewPersonality(%q): %v", personality, err)
	}
	opts = append([]Option{WithLogger(zerolog.Nop()), WithTimeLimit(1)}, opts...)
	return New("Red", w, w, p, opts...)
}

// capturedLogger returns a logger writing JSON lines into the buffer.
func capturedLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf).Level(zerolog.DebugLevel), &buf
}

func creatures(t *testing.T, names ...string) []*titan.CreatureType {
	t.Helper()
	all := titan.DefaultCreatures()
	out := make([]*titan.CreatureType, len(names))
	for i, n := range names {
		ct := all[n]
		if ct == nil {
			t.Fatalf("unknown creature %q", n)
		}
		out[i] = ct
	}
	return out
}

// snapshot records every critter's hex by tag.
func snapshot(b titan.Battle) map[int]string {
	out := make(map[int]string)
	for _, c := range b.Critters() {
		out[c.Tag] = c.Hex
	}
	return out
}

func sameHexes(t *testing.T, before, after map[int]string) {
	t.Helper()
	for tag, hex := range before {
		if after[tag] != hex {
			t.Errorf("critter %d moved from %s to %s", tag, hex, after[tag])
		}
	}
}

// battleWorld sets up a world with a battle in progress between an attacker
// of Red and a defender of Blue on plains.
func battleWorld(t *testing.T, attNames, defNames []string) (*titantest.World, *titantest.Battlefield) {
	t.Helper()
	w := titantest.NewWorld("Red", "Blue")
	att := w.AddLegion("Red", "Rd01", "2", attNames...)
	def := w.AddLegion("Blue", "Bu01", "2", defNames...)
	f := titantest.NewBattlefield(titan.TerrainPlains, att, def, nil)
	w.Field = f
	return w, f
}
