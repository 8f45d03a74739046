package ai

import (
	"fmt"

	"github.com/freeeve/titan-ai/pkg/titan"
	"gopkg.in/yaml.v3"
)

// Outcome is the expected result of an engagement from the attacker's point
// of view. Values are ordered: a larger Outcome is better for the attacker.
type Outcome int

const (
	Lose Outcome = iota
	LoseButInflictHeavyLosses
	Draw
	WinWithHeavyLosses
	WinWithMinimalLosses
)

var outcomeNames = map[Outcome]string{
	Lose:                      "lose",
	LoseButInflictHeavyLosses: "lose_but_inflict_heavy_losses",
	Draw:                      "draw",
	WinWithHeavyLosses:        "win_with_heavy_losses",
	WinWithMinimalLosses:      "win_with_minimal_losses",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// IsWin reports whether the attacker is expected to win.
func (o Outcome) IsWin() bool { return o >= WinWithHeavyLosses }

// IsLoss reports whether the attacker is expected to lose.
func (o Outcome) IsLoss() bool { return o <= LoseButInflictHeavyLosses }

// UnmarshalYAML accepts either the category name or its number.
func (o *Outcome) UnmarshalYAML(node *yaml.Node) error {
	for k, v := range outcomeNames {
		if node.Value == v {
			*o = k
			return nil
		}
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("unknown outcome %q", node.Value)
	}
	if n < int(Lose) || n > int(WinWithMinimalLosses) {
		return fmt.Errorf("outcome %d out of range", n)
	}
	*o = Outcome(n)
	return nil
}

// MarshalYAML writes the category name.
func (o Outcome) MarshalYAML() (any, error) {
	return o.String(), nil
}

// ClassifyOutcome maps an attacker/defender combat-value pair to a category.
// The defender's value is scaled up in towers and down in the abyss; every
// threshold is inclusive.
func ClassifyOutcome(attackerValue, defenderValue float64, terrain titan.Terrain, w *Weights) Outcome {
	switch terrain {
	case titan.TerrainTower:
		defenderValue *= w.TowerDefenseMultiplier
	case titan.TerrainAbyss:
		defenderValue *= w.AbyssDefenseMultiplier
	}
	if defenderValue <= 0 {
		return WinWithMinimalLosses
	}
	ratio := attackerValue / defenderValue
	switch {
	case ratio >= w.WinWithMinimalLossesRatio:
		return WinWithMinimalLosses
	case ratio >= w.WinWithHeavyLossesRatio:
		return WinWithHeavyLosses
	case ratio >= w.DrawRatio:
		return Draw
	case ratio >= w.LoseButInflictHeavyLossesRatio:
		return LoseButInflictHeavyLosses
	}
	return Lose
}

// CreatureCombatValue is power times skill, with one extra skill point when
// the creature is native to the terrain's battle hazard.
func CreatureCombatValue(ct *titan.CreatureType, terrain titan.Terrain, titanPower int) float64 {
	skill := ct.Skill
	if ct.IsNativeTerrain(terrain) {
		skill++
	}
	v := float64(ct.EffectivePower(titanPower) * skill)
	if ct.Rangestrikes {
		v *= 1.1
	}
	return v
}

// LegionCombatValue sums CreatureCombatValue over the legion.
func LegionCombatValue(creatures []*titan.CreatureType, terrain titan.Terrain, titanPower int) float64 {
	total := 0.0
	for _, c := range creatures {
		total += CreatureCombatValue(c, terrain, titanPower)
	}
	return total
}

// EstimateOutcome classifies a fight between two legions on the terrain of
// the defender's hex.
func EstimateOutcome(g titan.Game, attacker, defender *titan.Legion, w *Weights) Outcome {
	terrain := g.Terrain(defender.Hex)
	av := LegionCombatValue(attacker.Creatures, terrain, g.TitanPower(attacker.Player))
	dv := LegionCombatValue(defender.Creatures, terrain, g.TitanPower(defender.Player))
	return ClassifyOutcome(av, dv, terrain, w)
}
