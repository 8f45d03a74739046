package ai

import (
	"strings"
	"testing"

	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/rs/zerolog"
)

func TestProbe_RestoresInReverse(t *testing.T) {
	c := &titan.Critter{Tag: 1, Hex: "A1"}
	var p probe
	p.move(c, "B1")
	p.move(c, "C1")
	if c.Hex != "C1" {
		t.Fatalf("expected C1, got %s", c.Hex)
	}
	p.restore()
	if c.Hex != "A1" {
		t.Errorf("expected A1 after restore, got %s", c.Hex)
	}
	p.restore()
	if c.Hex != "A1" {
		t.Errorf("second restore moved the critter to %s", c.Hex)
	}
}

func TestReachabilityHook_Unreachable(t *testing.T) {
	w, f := battleWorld(t, []string{"Ogre"}, []string{"Troll"})
	att := f.AddCritter(w.Creatures["Ogre"], true, "A1")
	def := f.AddCritter(w.Creatures["Troll"], false, "F6")
	weights := DefaultWeights()

	var rec ValueRecorder
	ReachabilityHook.Evaluate(&Position{Battle: f, Ours: []*titan.Critter{def}, Enemies: []*titan.Critter{att}, Weights: &weights}, &rec)
	want := weights.DefenderUnreachableBonus + weights.AtMostOneAttackerBonus + weights.NoGangTargetBonus
	if rec.Value() != want {
		t.Errorf("expected %d, got %d (%s)", want, rec.Value(), rec.String())
	}
}

func TestReachabilityHook_Engaged(t *testing.T) {
	w, f := battleWorld(t, []string{"Ogre"}, []string{"Troll"})
	att := f.AddCritter(w.Creatures["Ogre"], true, "A1")
	def := f.AddCritter(w.Creatures["Troll"], false, "B1")
	weights := DefaultWeights()

	var rec ValueRecorder
	ReachabilityHook.Evaluate(&Position{Battle: f, Ours: []*titan.Critter{def}, Enemies: []*titan.Critter{att}, Weights: &weights}, &rec)
	want := weights.AtMostOneAttackerBonus + weights.NoGangTargetBonus
	if rec.Value() != want {
		t.Errorf("expected %d, got %d (%s)", want, rec.Value(), rec.String())
	}
}

func TestReachabilityHook_IgnoresAttacker(t *testing.T) {
	w, f := battleWorld(t, []string{"Ogre"}, []string{"Troll"})
	att := f.AddCritter(w.Creatures["Ogre"], true, "A1")
	def := f.AddCritter(w.Creatures["Troll"], false, "F6")
	weights := DefaultWeights()

	var rec ValueRecorder
	ReachabilityHook.Evaluate(&Position{Battle: f, Attacker: true, Ours: []*titan.Critter{att}, Enemies: []*titan.Critter{def}, Weights: &weights}, &rec)
	if rec.Value() != 0 {
		t.Errorf("attacker positions get no reachability bonus, got %d", rec.Value())
	}
}

func TestRuleHook_AwardsMatchingRules(t *testing.T) {
	w, f := battleWorld(t, []string{"Ogre"}, []string{"Troll"})
	att := f.AddCritter(w.Creatures["Ogre"], true, "A1")
	def := f.AddCritter(w.Creatures["Troll"], false, "B1")
	rules, err := compileRules([]PositionRule{
		{Name: "engaged", When: "Engaged == 1 && NearestEnemy == 1", Bonus: 42},
		{Name: "never", When: "Offboard > 0", Bonus: -1000},
		{Name: "value", When: "OurValue == 16 && EnemyValue == 12", Bonus: 8},
	})
	if err != nil {
		t.Fatalf("compileRules: %v", err)
	}
	weights := DefaultWeights()
	var rec ValueRecorder
	RuleHook{Rules: rules, Log: zerolog.Nop()}.Evaluate(&Position{
		Battle: f, Ours: []*titan.Critter{def}, Enemies: []*titan.Critter{att}, Weights: &weights,
	}, &rec)
	if rec.Value() != 50 {
		t.Errorf("expected 50, got %d (%s)", rec.Value(), rec.String())
	}
	if !strings.Contains(rec.String(), "rule engaged") {
		t.Errorf("expected rule name in explanation, got %q", rec.String())
	}
}

func TestObjectiveHook(t *testing.T) {
	w, f := battleWorld(t, []string{"Ogre"}, []string{"Troll"})
	att := f.AddCritter(w.Creatures["Ogre"], true, "A1")
	def := f.AddCritter(w.Creatures["Troll"], false, "B1")
	weights := DefaultWeights()
	p := &Position{
		Battle:     f,
		Attacker:   true,
		Ours:       []*titan.Critter{att},
		Enemies:    []*titan.Critter{def},
		Weights:    &weights,
		Objectives: []TacticalObjective{DestroyCreature{Target: def, Weight: 3}, PreserveCreature{Target: att, Weight: 1}},
	}
	var rec ValueRecorder
	ObjectiveHook.Evaluate(p, &rec)
	// Destroy: one striker at priority 3. Preserve: one adjacent enemy.
	want := 3*weights.ObjectiveScale - weights.ObjectiveScale
	if rec.Value() != want {
		t.Errorf("expected %d, got %d (%s)", want, rec.Value(), rec.String())
	}

	def.Hits = def.Power()
	rec = ValueRecorder{}
	ObjectiveHook.Evaluate(p, &rec)
	if rec.Value() != 0 {
		t.Errorf("a destroyed target should no longer count, got %d (%s)", rec.Value(), rec.String())
	}
}

func TestBuildObjectives(t *testing.T) {
	w, f := battleWorld(t, []string{"Titan", "Ogre", "Centaur"}, []string{"Titan", "Troll", "Centaur"})
	f.AddCritter(w.Creatures["Titan"], true, "A1")
	f.AddCritter(w.Creatures["Ogre"], true, "A2")
	f.AddCritter(w.Creatures["Centaur"], true, "A3")
	f.AddCritter(w.Creatures["Titan"], false, "F1")
	f.AddCritter(w.Creatures["Troll"], false, "F2")
	f.AddCritter(w.Creatures["Centaur"], false, "F3")

	var names []string
	for _, o := range BuildObjectives(f) {
		names = append(names, o.String())
	}
	got := strings.Join(names, ",")
	if got != "preserve Titan,destroy Titan,destroy Troll,preserve Ogre" {
		t.Errorf("unexpected objectives %s", got)
	}
}

func TestNewPositionEnv(t *testing.T) {
	w, f := battleWorld(t, []string{"Titan", "Ogre"}, []string{"Troll"})
	titanC := f.AddCritter(w.Creatures["Titan"], true, "A1")
	ogre := f.AddCritter(w.Creatures["Ogre"], true, "X1")
	troll := f.AddCritter(w.Creatures["Troll"], false, "B1")
	env := newPositionEnv(&Position{Battle: f, Attacker: true, Ours: []*titan.Critter{titanC, ogre}, Enemies: []*titan.Critter{troll}})
	if env.Units != 2 || env.Offboard != 1 || env.Engaged != 1 {
		t.Errorf("unexpected counts %+v", env)
	}
	if !env.TitanEngaged || !env.TitanOnEdge || env.NearestEnemy != 1 {
		t.Errorf("unexpected titan state %+v", env)
	}
	if env.OurValue != 24+12 || env.EnemyValue != 16 {
		t.Errorf("unexpected values %+v", env)
	}
}
