package ai

import (
	"github.com/freeeve/titan-ai/pkg/titan"
)

// PowerSkill is a terrain-adjusted creature inside the round simulation.
// HP is continuous: it drops by expected damage, not by rolled hits.
type PowerSkill struct {
	Name  string
	Power float64
	Skill float64
	HP    float64
	Value float64
}

func newPowerSkill(ct *titan.CreatureType, terrain titan.Terrain, titanPower int, defending bool) PowerSkill {
	power := float64(ct.EffectivePower(titanPower))
	skill := float64(ct.Skill)
	hazard := terrain.NativeHazard()
	switch {
	case ct.IsNativeTerrain(terrain):
		skill++
		if hazard == titan.HazardVolcano {
			power += 2
		}
	case hazard != titan.HazardPlains && hazard != titan.HazardTower && !ct.Flier:
		skill = max(skill-1, 1)
	}
	if defending && terrain == titan.TerrainTower {
		power++
	}
	return PowerSkill{
		Name:  ct.Name,
		Power: power,
		Skill: skill,
		HP:    float64(ct.EffectivePower(titanPower)),
		Value: float64(ct.PointValueWith(titanPower)),
	}
}

// SimOptions carries the optional one-sided terms of the simulation.
type SimOptions struct {
	AttackerTitanPower int
	DefenderTitanPower int
	// DefenderRecruit joins the defender at the recruit round if the
	// defender still stands.
	DefenderRecruit *titan.CreatureType
	// AttackerAngel joins the attacker once any defender has died, while
	// the battle is still on.
	AttackerAngel *titan.CreatureType
	// AttackerRecruit is what the attacker recruits after winning.
	AttackerRecruit *titan.CreatureType
}

// SimResult is the expected result of a simulated battle.
type SimResult struct {
	Value             float64
	AttackerDead      float64
	DefenderDead      float64
	AttackerSurvivors int
	DefenderSurvivors int
}

// SimulateCombat plays rounds 2 through 7 of a battle with expected damage.
// Each round the attacker strikes, dead defenders are removed, then the
// surviving defenders strike back. Striker i hits target i mod n and half of
// any overkill carries to the next target.
func SimulateCombat(attacker, defender []*titan.CreatureType, terrain titan.Terrain, opts SimOptions, w *Weights) SimResult {
	att := make([]PowerSkill, 0, len(attacker)+1)
	for _, c := range attacker {
		att = append(att, newPowerSkill(c, terrain, opts.AttackerTitanPower, false))
	}
	def := make([]PowerSkill, 0, len(defender)+1)
	for _, c := range defender {
		def = append(def, newPowerSkill(c, terrain, opts.DefenderTitanPower, true))
	}

	var res SimResult
	angelSummoned := false
	for round := 2; round <= 7; round++ {
		if len(att) == 0 || len(def) == 0 {
			break
		}
		if round == w.RecruitRound && opts.DefenderRecruit != nil {
			def = append(def, newPowerSkill(opts.DefenderRecruit, terrain, 0, true))
		}
		var killed float64
		def, killed = applyDamage(def, roundDamage(att, def, w.CarryFactor), 0)
		res.DefenderDead += killed
		if len(def) > 0 {
			att, killed = applyDamage(att, roundDamage(def, att, w.CarryFactor), w.AttackerDeathHP)
			res.AttackerDead += killed
		}

		if !angelSummoned && opts.AttackerAngel != nil && res.DefenderDead > 0 && len(def) > 0 && len(att) > 0 && len(att) < 7 {
			att = append(att, newPowerSkill(opts.AttackerAngel, terrain, 0, false))
			angelSummoned = true
		}
	}

	res.AttackerSurvivors = len(att)
	res.DefenderSurvivors = len(def)
	res.Value = res.DefenderDead - res.AttackerDead
	if len(def) == 0 && len(att) > 0 && opts.AttackerRecruit != nil {
		res.Value += float64(opts.AttackerRecruit.PointValue())
	}
	if len(def) > 0 && opts.DefenderRecruit != nil {
		res.Value -= w.SharedScale * float64(opts.DefenderRecruit.PointValue())
	}
	if len(att) > 1 && len(def) == 0 {
		res.Value += w.GroupKillScale * res.DefenderDead
	}
	if len(def) > 1 && len(att) == 0 {
		res.Value -= w.GroupKillScale * res.AttackerDead
	}
	return res
}

// hitProbability is the chance one die hits: strike number 4 - skill
// difference, clamped to 1..6.
func hitProbability(strikerSkill, targetSkill float64) float64 {
	sn := min(max(4-strikerSkill+targetSkill, 1), 6)
	return (7 - sn) / 6
}

func roundDamage(strikers, targets []PowerSkill, carry float64) []float64 {
	dmg := make([]float64, len(targets))
	n := len(targets)
	for i, s := range strikers {
		t := i % n
		hit := s.Power * hitProbability(s.Skill, targets[t].Skill)
		left := targets[t].HP - dmg[t]
		if left > 0 && hit > left && n > 1 {
			dmg[t] += left
			next := (t + 1) % n
			dmg[next] += (hit - left) * carry
			continue
		}
		dmg[t] += hit
	}
	return dmg
}

// applyDamage subtracts damage and removes the units left at or below
// deathHP, returning the survivors and the point value removed.
func applyDamage(units []PowerSkill, dmg []float64, deathHP float64) ([]PowerSkill, float64) {
	killed := 0.0
	out := units[:0]
	for i, u := range units {
		u.HP -= dmg[i]
		if u.HP <= deathHP {
			killed += u.Value
			continue
		}
		out = append(out, u)
	}
	return out, killed
}
