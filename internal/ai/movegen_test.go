package ai

import (
	"testing"

	"github.com/freeeve/titan-ai/pkg/titan"
)

func offboardX(hex string) bool { return hex == "X1" || hex == "X2" }

// fixtureCandidates builds one candidate list per row, each list starting
// with the critter's current hex.
func fixtureCandidates(rows ...[]string) [][]CritterMove {
	ct := titan.DefaultCreatures()["Ogre"]
	out := make([][]CritterMove, len(rows))
	for i, hexes := range rows {
		c := &titan.Critter{Tag: i + 1, Type: ct, Hex: hexes[0]}
		for _, h := range hexes {
			out[i] = append(out[i], CritterMove{Critter: c, Start: c.Hex, End: h})
		}
	}
	return out
}

func assertCollisionFree(t *testing.T, moves []LegionMove) {
	t.Helper()
	for _, lm := range moves {
		seen := make(map[string]bool)
		for _, m := range lm.Moves {
			if offboardX(m.End) {
				continue
			}
			if seen[m.End] {
				t.Fatalf("move %s ends twice on %s", lm.Key(), m.End)
			}
			seen[m.End] = true
		}
	}
}

func TestGenerate_ForceAllCountsValidProduct(t *testing.T) {
	cands := fixtureCandidates(
		[]string{"A1", "A2", "A3"},
		[]string{"B1", "B2", "A2"},
		[]string{"C1", "C2", "C3"},
	)
	got := MoveGenerator{Offboard: offboardX, ForceAll: true}.Generate(cands)
	// 27 combinations, 3 of which put two critters on A2.
	if len(got) != 24 {
		t.Errorf("expected 24 moves, got %d", len(got))
	}
	keys := make(map[string]bool)
	for _, lm := range got {
		if keys[lm.Key()] {
			t.Errorf("duplicate move %s", lm.Key())
		}
		keys[lm.Key()] = true
		if len(lm.Moves) != 3 {
			t.Errorf("move %s has %d critters", lm.Key(), len(lm.Moves))
		}
	}
	assertCollisionFree(t, got)
}

func TestGenerate_OffboardSortsLast(t *testing.T) {
	cands := fixtureCandidates(
		[]string{"X1", "A1", "A2"},
		[]string{"X1", "B1", "A1"},
		[]string{"C1", "X1"},
	)
	got := MoveGenerator{Offboard: offboardX, ForceAll: true}.Generate(cands)
	if len(got) == 0 {
		t.Fatal("expected moves")
	}
	seenOffboard := false
	for _, lm := range got {
		off := lm.HasOffboard(offboardX)
		if seenOffboard && !off {
			t.Fatalf("onboard move %s after an offboard move", lm.Key())
		}
		seenOffboard = seenOffboard || off
	}
	if !seenOffboard {
		t.Error("expected offboard moves: several critters may share an entrance")
	}
	assertCollisionFree(t, got)
}

func TestGenerate_LevelCapBoundsBranching(t *testing.T) {
	var rows [][]string
	for col := range 7 {
		row := make([]string, 3)
		for i := range row {
			row[i] = string(rune('A'+col)) + string(rune('1'+i))
		}
		rows = append(rows, row)
	}
	got := MoveGenerator{Offboard: offboardX}.Generate(fixtureCandidates(rows...))
	// Seven critters: level n may branch n+1 ways, capped by three candidates.
	want := 1 * 2 * 3 * 3 * 3 * 3 * 3
	if len(got) != want {
		t.Errorf("expected %d moves, got %d", want, len(got))
	}
}

func TestGenerate_PrunesReservedHexes(t *testing.T) {
	cands := fixtureCandidates(
		[]string{"A1"},
		[]string{"B1", "A1"},
		[]string{"C1", "B1", "C2"},
	)
	got := MoveGenerator{Offboard: offboardX, ForceAll: true}.Generate(cands)
	// A1 is taken, so the second critter is fixed on B1 and the third loses B1.
	if len(got) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(got))
	}
	for _, lm := range got {
		if lm.Destination(2) != "B1" {
			t.Errorf("critter 2 should stay on B1, got %s", lm.Destination(2))
		}
		if lm.Destination(1) != "A1" {
			t.Errorf("critter 1 should stay on A1, got %s", lm.Destination(1))
		}
	}
}

func TestGenerate_ConflictingFixedCrittersYieldNothing(t *testing.T) {
	cands := fixtureCandidates([]string{"A1"}, []string{"A1"})
	if got := (MoveGenerator{Offboard: offboardX}).Generate(cands); len(got) != 0 {
		t.Errorf("expected no moves, got %d", len(got))
	}
	if got := (MoveGenerator{Offboard: offboardX}).Generate(nil); got != nil {
		t.Errorf("expected nil for no critters, got %v", got)
	}
}

func TestLazyGenerator_UniqueAndCollisionFree(t *testing.T) {
	SeedAIRng(7)
	defer ResetAIRng()

	cands := fixtureCandidates(
		[]string{"A1", "A2", "A3", "A4"},
		[]string{"A2", "A1", "B1", "B2"},
		[]string{"A3", "A1", "C1", "X1"},
	)
	g := NewLazyGenerator(cands, offboardX)
	if g.Size() != 64 {
		t.Errorf("expected size 64, got %d", g.Size())
	}
	var got []LegionMove
	keys := make(map[string]bool)
	for lm := range g.All() {
		if keys[lm.Key()] {
			t.Fatalf("duplicate move %s", lm.Key())
		}
		keys[lm.Key()] = true
		got = append(got, lm)
	}
	if len(got) == 0 || len(got) > g.Size() {
		t.Fatalf("unexpected count %d", len(got))
	}
	if got[0].Key() != "1:A1,2:A2,3:A3" {
		t.Errorf("expected the all-best move first, got %s", got[0].Key())
	}
	assertCollisionFree(t, got)
}

func TestLazyGenerator_StopsEarly(t *testing.T) {
	cands := fixtureCandidates([]string{"A1", "A2"}, []string{"B1", "B2"})
	n := 0
	for range NewLazyGenerator(cands, offboardX).All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2, got %d", n)
	}
}

func TestLazyGenerator_EmptyList(t *testing.T) {
	cands := [][]CritterMove{nil}
	g := NewLazyGenerator(cands, offboardX)
	if g.Size() != 0 {
		t.Errorf("expected size 0, got %d", g.Size())
	}
	for range g.All() {
		t.Fatal("expected no moves")
	}
}
