package ai

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/freeeve/titan-ai/internal/lookup"
	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/freeeve/titan-ai/pkg/titan/titantest"
	"github.com/rs/zerolog"
)

func TestMasterMove_TakesMulligan(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.Roll = 2
	w.AddLegion("Red", "Rd01", "1", "Titan", "Ogre", "Ogre")
	a := newTestAI(t, w, PersonalitySimple)

	if !a.MasterMove() {
		t.Fatal("expected the mulligan to count as an action")
	}
	if len(w.Commits) != 1 || w.Commits[0] != "mulligan 3" {
		t.Errorf("expected a mulligan, got %v", w.Commits)
	}
	if w.MulligansLeft("Red") != 0 {
		t.Errorf("expected the mulligan spent, %d left", w.MulligansLeft("Red"))
	}
}

func TestMasterMove_NoMulliganAfterFirstTurn(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 2
	w.Roll = 5
	w.AddLegion("Red", "Rd01", "1", "Titan", "Ogre", "Ogre")
	a := newTestAI(t, w, PersonalitySimple)
	for i := 0; i < 5 && a.MasterMove(); i++ {
	}
	for _, c := range w.Commits {
		if strings.HasPrefix(c, "mulligan") {
			t.Fatalf("unexpected mulligan on turn 2: %v", w.Commits)
		}
	}
}

// Hex 4 is woods, where the legion's centaur can recruit another; hex 6 is
// desert, where it cannot.
func TestMasterMove_VoluntaryMoveToRecruit(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 3
	l := w.AddLegion("Red", "Rd01", "5", "Ogre", "Ogre", "Centaur")
	a := newTestAI(t, w, PersonalitySimple)

	if !a.MasterMove() {
		t.Fatal("expected a move")
	}
	if l.Hex != "4" || !strings.HasPrefix(w.Commits[0], "move Rd01 4 ") {
		t.Errorf("expected a move to 4, got %s (%v)", l.Hex, w.Commits)
	}
	if a.MasterMove() {
		t.Errorf("expected the phase to end, got %v", w.Commits)
	}
}

func TestMasterMove_Rejected(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 3
	w.Reject["move"] = true
	w.AddLegion("Red", "Rd01", "5", "Ogre", "Ogre", "Centaur")
	log, buf := capturedLogger()
	a := newTestAI(t, w, PersonalitySimple, WithLogger(log))

	if a.MasterMove() {
		t.Fatal("a rejected move must report false")
	}
	if !strings.Contains(buf.String(), "Masterboard move rejected") {
		t.Errorf("expected the rejection logged, got %q", buf.String())
	}
	if a.MasterMove() {
		t.Error("expected the phase to stay over after a rejection")
	}
}

func TestMasterMove_SeparatesSplitLegions(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 3
	w.Roll = 1
	w.AddLegion("Red", "Rd01", "10", "Titan", "Troll", "Troll")
	w.AddLegion("Red", "Rd02", "10", "Ogre", "Ogre")
	a := newTestAI(t, w, PersonalitySimple)

	for i := 0; i < 10 && a.MasterMove(); i++ {
	}
	if w.Legion("Rd01").Hex == w.Legion("Rd02").Hex {
		t.Errorf("legions still share hex %s: %v", w.Legion("Rd01").Hex, w.Commits)
	}
}

func TestMasterMove_FreshCycleEachCall(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 3
	w.Roll = 1
	w.AddLegion("Red", "Rd01", "10", "Titan", "Troll", "Troll")
	w.AddLegion("Red", "Rd02", "10", "Ogre", "Ogre")
	a := newTestAI(t, w, PersonalitySimple)

	if !a.MasterMove() {
		t.Fatal("expected a move")
	}
	first := a.master.cy
	first.deadline = time.Now().Add(-time.Hour)
	stale := evalKey{marker: "Rd02", hex: "10"}
	first.memo[stale] = 1000

	a.MasterMove()
	got := a.master.cy
	if got == first || !got.deadline.After(first.deadline) {
		t.Fatal("expected a new cycle with its own deadline")
	}
	if _, ok := got.memo[stale]; ok {
		t.Error("memo carried over from the previous call")
	}
	if a.master.turn != 3 || a.master.state == masterNotStarted {
		t.Errorf("expected the phase state kept, got turn %d state %s", a.master.turn, a.master.state)
	}
}

// A full legion gains nothing anywhere, so only the mandatory move is made.
func TestMasterMove_ForcedSingleMove(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.TurnNumber = 3
	l := w.AddLegion("Red", "Rd01", "5", "Titan", "Ogre", "Ogre", "Ogre", "Centaur", "Centaur", "Lion")
	a := newTestAI(t, w, PersonalitySimple)

	if !a.MasterMove() {
		t.Fatal("expected the forced move")
	}
	if !l.Moved || l.Hex == "5" {
		t.Errorf("expected the legion to move, at %s", l.Hex)
	}
	if a.MasterMove() {
		t.Errorf("expected a single move, got %v", w.Commits)
	}
}

func TestLookupSource_FiltersToLegal(t *testing.T) {
	ctx := context.Background()
	w := titantest.NewWorld("Red", "Blue")
	l := w.AddLegion("Red", "Rd01", "5", "Ogre", "Ogre", "Centaur")
	book := lookup.NewMemory()
	src := &LookupSource{Service: book, Fallback: GeneratorSource{}, Log: zerolog.Nop()}
	key := lookup.Key{Turn: 1, Hex: "5", Roll: 1, Height: 3}

	hexes := func(cs []MasterCandidate) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Hex)
		}
		return out
	}

	if got := hexes(src.Candidates(ctx, w, l, 1)); !slices.Equal(got, []string{"4", "6"}) {
		t.Errorf("expected generator moves on a miss, got %v", got)
	}
	if err := book.Store(ctx, key, []string{"6", "17"}); err != nil {
		t.Fatal(err)
	}
	if got := hexes(src.Candidates(ctx, w, l, 1)); !slices.Equal(got, []string{"6"}) {
		t.Errorf("expected only the legal stored hex, got %v", got)
	}
	if err := book.Store(ctx, key, []string{"17"}); err != nil {
		t.Fatal(err)
	}
	if got := hexes(src.Candidates(ctx, w, l, 1)); !slices.Equal(got, []string{"4", "6"}) {
		t.Errorf("expected fallback when nothing stored is legal, got %v", got)
	}

	w.TurnNumber = openingTurns + 1
	if err := book.Store(ctx, lookup.Key{Turn: w.TurnNumber, Hex: "5", Roll: 1, Height: 3}, []string{"6"}); err != nil {
		t.Fatal(err)
	}
	if got := hexes(src.Candidates(ctx, w, l, 1)); !slices.Equal(got, []string{"4", "6"}) {
		t.Errorf("expected the book ignored after the opening, got %v", got)
	}
}

func TestMasterMove_LearnsOpening(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	w.AddLegion("Red", "Rd01", "5", "Ogre", "Ogre", "Centaur")
	book := lookup.NewMemory()
	a := newTestAI(t, w, PersonalitySimple, WithOpeningBook(book, true))

	if !a.MasterMove() {
		t.Fatal("expected a move")
	}
	got, err := book.Lookup(context.Background(), lookup.Key{Turn: 1, Hex: "5", Roll: 1, Height: 3})
	if err != nil {
		t.Fatalf("expected the move stored: %v", err)
	}
	if !slices.Equal(got, []string{"4"}) {
		t.Errorf("expected [4], got %v", got)
	}
}

func TestTeleportingLord(t *testing.T) {
	all := titan.DefaultCreatures()
	l := &titan.Legion{Creatures: []*titan.CreatureType{all["Ogre"], all["Angel"], all["Titan"]}}
	if got := teleportingLord(l); got != "Titan" {
		t.Errorf("expected the titan, got %s", got)
	}
	l.Creatures = l.Creatures[:2]
	if got := teleportingLord(l); got != "Angel" {
		t.Errorf("expected the angel, got %s", got)
	}
}

func TestTimeLimit_PrefersEngineOption(t *testing.T) {
	w := titantest.NewWorld("Red")
	a := newTestAI(t, w, PersonalitySimple, WithTimeLimit(7))
	if a.TimeLimit().Seconds() != 7 {
		t.Errorf("expected 7s, got %v", a.TimeLimit())
	}
	w.Options[titan.OptionAITimeLimit] = 500
	if a.TimeLimit().Seconds() != DefaultTimeLimit {
		t.Errorf("expected an out-of-range option clamped to the default, got %v", a.TimeLimit())
	}
	w.Options[titan.OptionAITimeLimit] = 3
	if a.TimeLimit().Seconds() != 3 {
		t.Errorf("expected 3s, got %v", a.TimeLimit())
	}
}
