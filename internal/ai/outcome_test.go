package ai

import (
	"testing"

	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/freeeve/titan-ai/pkg/titan/titantest"
	"gopkg.in/yaml.v3"
)

func TestClassifyOutcome_BoundaryInclusive(t *testing.T) {
	w := DefaultWeights()
	if got := ClassifyOutcome(130, 100, titan.TerrainPlains, &w); got != WinWithMinimalLosses {
		t.Errorf("130 vs 100 on plains: expected %s, got %s", WinWithMinimalLosses, got)
	}
}

func TestClassifyOutcome_TowerDefense(t *testing.T) {
	w := DefaultWeights()
	if got := ClassifyOutcome(130, 100, titan.TerrainTower, &w); got != Draw {
		t.Errorf("130 vs 100 in tower: expected %s, got %s", Draw, got)
	}
}

func TestClassifyOutcome_Abyss(t *testing.T) {
	w := DefaultWeights()
	// 100 / 80 = 1.25
	if got := ClassifyOutcome(100, 100, titan.TerrainAbyss, &w); got != WinWithHeavyLosses {
		t.Errorf("expected %s, got %s", WinWithHeavyLosses, got)
	}
}

func TestClassifyOutcome_EmptyDefender(t *testing.T) {
	w := DefaultWeights()
	if got := ClassifyOutcome(10, 0, titan.TerrainPlains, &w); got != WinWithMinimalLosses {
		t.Errorf("expected win against nothing, got %s", got)
	}
}

func TestClassifyOutcome_Monotone(t *testing.T) {
	for _, w := range []Weights{DefaultWeights(), cowardWeights()} {
		prev := Lose
		for att := 10.0; att <= 400; att += 2.5 {
			got := ClassifyOutcome(att, 100, titan.TerrainPlains, &w)
			if got < prev {
				t.Fatalf("attacker value %.1f: outcome fell from %s to %s", att, prev, got)
			}
			prev = got
		}
		if prev != WinWithMinimalLosses {
			t.Errorf("expected the largest attacker to win, got %s", prev)
		}
	}
}

func TestClassifyOutcome_CowardIsStricter(t *testing.T) {
	def, cow := DefaultWeights(), cowardWeights()
	if ClassifyOutcome(135, 100, titan.TerrainPlains, &def) != WinWithMinimalLosses {
		t.Fatal("default should call 1.35 a minimal-loss win")
	}
	if got := ClassifyOutcome(135, 100, titan.TerrainPlains, &cow); got != Draw {
		t.Errorf("coward should call 1.35 a draw, got %s", got)
	}
}

func TestCreatureCombatValue_NativeAndRangestrike(t *testing.T) {
	cs := titan.DefaultCreatures()
	if v := CreatureCombatValue(cs["Ogre"], titan.TerrainPlains, 0); v != 12 {
		t.Errorf("Ogre on plains: expected 12, got %v", v)
	}
	// Ogres are native to bog, the marsh hazard.
	if v := CreatureCombatValue(cs["Ogre"], titan.TerrainMarsh, 0); v != 18 {
		t.Errorf("Ogre in marsh: expected 18, got %v", v)
	}
	if v := CreatureCombatValue(cs["Ranger"], titan.TerrainPlains, 0); v < 17.5 || v > 17.7 {
		t.Errorf("Ranger on plains: expected 17.6, got %v", v)
	}
	if v := CreatureCombatValue(cs["Titan"], titan.TerrainPlains, 8); v != 32 {
		t.Errorf("Titan with power 8: expected 32, got %v", v)
	}
}

func TestEstimateOutcome_UsesDefenderTerrain(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	att := w.AddLegion("Red", "Rd01", "2", "Troll", "Troll", "Troll")
	def := w.AddLegion("Blue", "Bu01", "2", "Centaur", "Centaur")
	weights := DefaultWeights()
	if got := EstimateOutcome(w, att, def, &weights); got != WinWithMinimalLosses {
		t.Errorf("expected a crushing win, got %s", got)
	}
	if got := EstimateOutcome(w, def, att, &weights); got != Lose {
		t.Errorf("expected the reverse to lose, got %s", got)
	}
}

func TestOutcome_YAMLByNameOrNumber(t *testing.T) {
	var doc struct {
		A Outcome `yaml:"a"`
		B Outcome `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte("a: draw\nb: 3\n"), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.A != Draw || doc.B != WinWithHeavyLosses {
		t.Errorf("unexpected outcomes %s, %s", doc.A, doc.B)
	}
	if err := yaml.Unmarshal([]byte("a: 9\n"), &doc); err == nil {
		t.Error("expected out-of-range outcome to fail")
	}
	if err := yaml.Unmarshal([]byte("a: triumph\n"), &doc); err == nil {
		t.Error("expected unknown outcome name to fail")
	}
	out, err := yaml.Marshal(map[string]Outcome{"x": LoseButInflictHeavyLosses})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "x: lose_but_inflict_heavy_losses\n" {
		t.Errorf("unexpected YAML %q", out)
	}
}

func TestOutcome_WinLoss(t *testing.T) {
	if !WinWithHeavyLosses.IsWin() || Draw.IsWin() {
		t.Error("IsWin misclassifies")
	}
	if !LoseButInflictHeavyLosses.IsLoss() || Draw.IsLoss() {
		t.Error("IsLoss misclassifies")
	}
}
