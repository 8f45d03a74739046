package ai

import (
	"testing"

	"github.com/freeeve/titan-ai/pkg/titan/titantest"
)

func TestFlee_TitanNeverFlees(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	l := w.AddLegion("Red", "Rd01", "2", "Titan", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "2", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus")
	a := newTestAI(t, w, PersonalitySimple)
	if a.Flee(l, enemy) {
		t.Error("a titan legion must not flee")
	}
}

func TestFlee_HopelessFight(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	// Brush offers centaurs no recruit.
	l := w.AddLegion("Red", "Rd01", "2", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "2", "Colossus", "Colossus", "Colossus", "Colossus")
	a := newTestAI(t, w, PersonalitySimple)
	if !a.Flee(l, enemy) {
		t.Error("expected to flee a certain loss")
	}
	if a.Flee(enemy, l) {
		t.Error("the stronger legion must not flee")
	}
}

// Two lions against two centaurs is a win with heavy losses for the lions.
func TestFlee_ReinforcementKeepsLegion(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	l := w.AddLegion("Red", "Rd01", "1", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "1", "Lion", "Lion")
	a := newTestAI(t, w, PersonalitySimple)
	a.w.FleeAtEnemyOutcome = Draw

	if a.Flee(l, enemy) {
		t.Error("a legion that can recruit on plains should stay")
	}
	l.Hex, enemy.Hex = "2", "2"
	if !a.Flee(l, enemy) {
		t.Error("expected to flee where no recruit is possible")
	}
}

func TestFlee_AngelThreshold(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	l := w.AddLegion("Red", "Rd01", "2", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "2", "Lion", "Lion")
	a := newTestAI(t, w, PersonalitySimple)

	if a.Flee(l, enemy) {
		t.Error("a heavy-loss win is below the flee threshold")
	}
	// 80 + 24 crosses 100; 80 + 12 does not.
	w.Scores["Blue"] = 80
	if !a.givesAngel(enemy, l) {
		t.Fatal("expected the kill to give an angel")
	}
	if !a.Flee(l, enemy) {
		t.Error("expected to flee rather than give an angel")
	}
	w.Scores["Blue"] = 90
	if a.givesAngel(enemy, l) || a.Flee(l, enemy) {
		t.Error("half points already reach the angel")
	}
}

// Three ogres against two lions in the hills is a heavy-loss win. The ogres
// could muster a minotaur (16) there, more than the 15 half points of a
// flight; an ogre (12) is not.
func TestFlee_DeniesEnemyRecruit(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	l := w.AddLegion("Red", "Rd01", "5", "Lion", "Lion")
	enemy := w.AddLegion("Blue", "Bu01", "5", "Ogre", "Ogre", "Ogre")
	a := newTestAI(t, w, PersonalitySimple)

	if out := a.estimate(enemy, l); out != WinWithHeavyLosses {
		t.Fatalf("expected a heavy-loss win, got %s", out)
	}
	if !a.deniesRecruit(enemy, l) || !a.Flee(l, enemy) {
		t.Error("expected to flee to deny the minotaur")
	}
	w.Caretaker["Minotaur"] = 0
	if a.deniesRecruit(enemy, l) || a.Flee(l, enemy) {
		t.Error("an ogre recruit is not worth the flight")
	}
}

func TestConcede_Attacker(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	l := w.AddLegion("Red", "Rd01", "1", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "1", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus")
	a := newTestAI(t, w, PersonalitySimple)
	if !a.Concede(l, enemy) {
		t.Error("expected a hopeless attacker to concede")
	}
	if a.Concede(enemy, l) {
		t.Error("the winning side must not concede")
	}
}

func TestConcede_Defender(t *testing.T) {
	w := titantest.NewWorld("Blue", "Red")
	l := w.AddLegion("Red", "Rd01", "1", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "1", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus")
	a := newTestAI(t, w, PersonalitySimple)
	if !a.Concede(l, enemy) {
		t.Error("expected a hopeless defender to concede")
	}
}

func TestConcede_SmallOrTitanLegions(t *testing.T) {
	w := titantest.NewWorld("Red", "Blue")
	small := w.AddLegion("Red", "Rd01", "1", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur")
	titanic := w.AddLegion("Red", "Rd02", "3", "Titan", "Centaur", "Centaur", "Centaur", "Centaur", "Centaur")
	enemy := w.AddLegion("Blue", "Bu01", "1", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus", "Colossus")
	a := newTestAI(t, w, PersonalitySimple)
	if a.Concede(small, enemy) {
		t.Error("a short legion fights on")
	}
	if a.Concede(titanic, enemy) {
		t.Error("a titan legion never concedes")
	}
}
