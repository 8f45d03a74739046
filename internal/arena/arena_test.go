package arena

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freeeve/titan-ai/internal/ai"
	"github.com/freeeve/titan-ai/internal/lookup"
	"github.com/freeeve/titan-ai/pkg/titan/titantest"
)

type countingBook struct {
	*lookup.Memory
	stores atomic.Int32
}

func (b *countingBook) Store(ctx context.Context, key lookup.Key, hexes []string) error {
	b.stores.Add(1)
	return b.Memory.Store(ctx, key, hexes)
}

func TestRunGame_OpeningTurnFillsBook(t *testing.T) {
	book := &countingBook{Memory: lookup.NewMemory()}
	res, err := RunGame(context.Background(), ArenaConfig{
		MaxTurns: 1,
		Seed:     3,
		Book:     book,
		Log:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}
	if res.Turns != 1 || res.Winner != "" {
		t.Errorf("expected a one-turn draw, got %+v", res)
	}
	if book.stores.Load() == 0 {
		t.Error("expected opening moves stored")
	}
}

func TestRunGame_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunGame(ctx, ArenaConfig{MaxTurns: 1, Log: zerolog.Nop()}); err == nil {
		t.Error("expected the cancelled context to stop the game")
	}
}

func newTestGame(t *testing.T) *game {
	t.Helper()
	w := titantest.NewWorld("Red", "Blue")
	g := &game{w: w, ais: make(map[string]*ai.AI), log: zerolog.Nop()}
	for _, p := range w.Players() {
		pers, err := ai.NewPersonality(ai.PersonalitySimple)
		if err != nil {
			t.Fatal(err)
		}
		g.ais[p] = ai.New(p, w, w, pers, ai.WithLogger(zerolog.Nop()), ai.WithTimeLimit(1))
	}
	return g
}

func TestEngage_DefenderFlees(t *testing.T) {
	g := newTestGame(t)
	g.w.AddLegion("Red", "Rd01", "2", "Colossus", "Colossus", "Colossus", "Colossus")
	g.w.AddLegion("Blue", "Bu01", "2", "Centaur", "Centaur")
	var res ArenaResult
	if !g.engage("2", "Red", &res) {
		t.Fatal("expected the engagement resolved")
	}
	if g.w.Legion("Bu01") != nil || res.Fled != 1 || res.Battles != 0 {
		t.Errorf("expected the defender to flee, got %+v", res)
	}
	if g.w.Score("Red") != 12 {
		t.Errorf("expected half points, got %d", g.w.Score("Red"))
	}
}

func TestEngage_NothingToResolve(t *testing.T) {
	g := newTestGame(t)
	g.w.AddLegion("Red", "Rd01", "2", "Ogre")
	var res ArenaResult
	if g.engage("2", "Red", &res) {
		t.Error("expected no engagement on a hex without enemies")
	}
}

func TestSettle(t *testing.T) {
	g := newTestGame(t)
	l := g.w.AddLegion("Red", "Rd01", "2", "Ogre", "Centaur")
	enemy := g.w.AddLegion("Blue", "Bu01", "2", "Troll")
	g.settle(l, enemy, l.Creatures[1:])
	if l.Height() != 1 || g.w.Score("Blue") != 12 {
		t.Errorf("expected the ogre scored, got height %d score %d", l.Height(), g.w.Score("Blue"))
	}
	g.settle(l, enemy, nil)
	if g.w.Legion("Rd01") != nil || g.w.Score("Blue") != 24 {
		t.Errorf("expected the legion removed, score %d", g.w.Score("Blue"))
	}
	if got := g.titanlessPlayer(); got != "Red" {
		t.Errorf("expected Red without a titan, got %q", got)
	}
}

func TestLastSplit(t *testing.T) {
	parent, child, ok := lastSplit([]string{"mulligan 3", "split Rd01 Rd02 4"})
	if !ok || parent != "Rd01" || child != "Rd02" {
		t.Errorf("unexpected %s/%s/%v", parent, child, ok)
	}
	if _, _, ok := lastSplit([]string{"split Rd01 Rd02 4", "undo Rd01 Rd02"}); ok {
		t.Error("expected no split at the end")
	}
	if _, _, ok := lastSplit(nil); ok {
		t.Error("expected no split in an empty log")
	}
}

func TestParsePersonalities(t *testing.T) {
	got, err := ParsePersonalities("red=coward,*=rational")
	if err != nil {
		t.Fatalf("ParsePersonalities: %v", err)
	}
	if got["Red"].Name != ai.PersonalityCoward || got["Blue"].Name != ai.PersonalityRational {
		t.Errorf("unexpected personalities red=%s blue=%s", got["Red"].Name, got["Blue"].Name)
	}
	for _, bad := range []string{"red", "green=simple", "red=berserk", "red=missing.yaml"} {
		if _, err := ParsePersonalities(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
	empty, err := ParsePersonalities("")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected an empty map, got %v/%v", empty, err)
	}
}
