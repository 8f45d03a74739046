package ai

import (
	"github.com/freeeve/titan-ai/pkg/titan"
)

// battleEval scores positions for the side to move.
type battleEval struct {
	b          titan.Battle
	w          *Weights
	attacker   bool
	hook       PositionHook
	objectives []TacticalObjective
	explain    bool
}

func newBattleEval(b titan.Battle, w *Weights, hook PositionHook, objectives []TacticalObjective) *battleEval {
	return &battleEval{b: b, w: w, attacker: b.AttackerActive(), hook: hook, objectives: objectives}
}

func (e *battleEval) sides() (ours, enemies []*titan.Critter) {
	for _, c := range e.b.Critters() {
		if c.Attacker == e.attacker {
			ours = append(ours, c)
		} else {
			enemies = append(enemies, c)
		}
	}
	return ours, enemies
}

func (e *battleEval) offboard(hex string) bool {
	h := e.b.Hex(hex)
	return h == nil || h.Entrance
}

// scoreCritterAt scores c as if it stood on hex, leaving it where it was.
func (e *battleEval) scoreCritterAt(c *titan.Critter, hex string, enemies []*titan.Critter) int {
	var p probe
	p.move(c, hex)
	defer p.restore()
	var rec ValueRecorder
	e.scoreCritter(c, enemies, &rec)
	return rec.Value()
}

// scoreLegionMove applies lm, scores every critter plus the whole position
// and restores the board.
func (e *battleEval) scoreLegionMove(lm LegionMove) (int, *ValueRecorder) {
	var p probe
	for _, m := range lm.Moves {
		p.move(m.Critter, m.End)
	}
	defer p.restore()

	ours, enemies := e.sides()
	rec := &ValueRecorder{}
	for _, m := range lm.Moves {
		e.scoreCritter(m.Critter, enemies, rec)
	}
	if e.hook != nil {
		e.hook.Evaluate(&Position{
			Battle:     e.b,
			Move:       lm,
			Attacker:   e.attacker,
			Ours:       ours,
			Enemies:    enemies,
			Weights:    e.w,
			Objectives: e.objectives,
		}, rec)
	}
	return rec.Value(), rec
}

func (e *battleEval) reason(c *titan.Critter, label string) string {
	if !e.explain {
		return label
	}
	return c.Type.Name + " " + label
}

// hazardDelta is how much a hazard shifts power or skill for natives.
func hazardDelta(h titan.Hazard) int {
	switch h {
	case titan.HazardVolcano:
		return 2
	case titan.HazardBrambles, titan.HazardSand, titan.HazardDrift, titan.HazardTree, titan.HazardBog:
		return 1
	}
	return 0
}

func expectedHits(b titan.Battle, striker, target *titan.Critter) float64 {
	return float64(b.Dice(striker, target)) * float64(7-b.StrikeNumber(striker, target)) / 6
}

func (e *battleEval) scoreCritter(c *titan.Critter, enemies []*titan.Critter, rec *ValueRecorder) {
	b, w := e.b, e.w
	h := b.Hex(c.Hex)
	if h == nil {
		return
	}
	value := c.PointValue()
	if h.Entrance {
		rec.Add(w.OffboardDeathScaleFactor*value, e.reason(c, "offboard"))
		return
	}

	// Terrain.
	if delta := hazardDelta(h.Hazard); delta > 0 {
		switch {
		case c.Type.IsNative(h.Hazard) && h.Hazard == titan.HazardBog:
			rec.Add(w.NativeBog, e.reason(c, "native bog"))
		case c.Type.IsNative(h.Hazard):
			rec.Add(w.NativeBonusTerrain*delta, e.reason(c, "native terrain"))
		default:
			rec.Add(w.NonNativePenaltyTerrain*delta, e.reason(c, "non-native terrain"))
		}
	}
	if dmg := b.HazardDamage(c, c.Hex); dmg > 0 {
		penalty := w.PenaltyDamageTerrain * dmg
		if c.IsTitan() {
			penalty *= 4
		}
		rec.Add(penalty, e.reason(c, "damage terrain"))
	}

	edge := byEdgeOrBlockingHazard(b, h)
	fromEntrance := b.Range(b.EntranceHex(c.Attacker), c.Hex)
	turn := b.Turn()

	if c.IsTitan() {
		if !c.Attacker && b.Terrain() == titan.TerrainTower && h.Elevation > 0 {
			rec.Add(w.TitanTowerHeightBonus*h.Elevation, e.reason(c, "titan tower height"))
		}
		if turn <= 4 && fromEntrance > turn {
			rec.Add(w.TitanForwardEarlyPenalty*(fromEntrance-turn), e.reason(c, "titan forward early"))
		}
		if edge {
			rec.Add(w.TitanByEdgeOrBlockingHazardBonus, e.reason(c, "titan by edge"))
		}
	}

	if c.Attacker {
		nearest := 0
		for _, en := range enemies {
			if d := b.Range(c.Hex, en.Hex); nearest == 0 || d < nearest {
				nearest = d
			}
		}
		if nearest > 1 {
			rec.Add(w.AttackerDistanceFromEnemyPenalty*(nearest-1), e.reason(c, "distance from enemy"))
		}
	} else {
		if pref := preferredDefenderDistance(turn, b.Defender()); fromEntrance > pref {
			rec.Add(w.DefenderForwardEarlyPenalty*(fromEntrance-pref), e.reason(c, "defender forward"))
		}
		if b.Terrain() == titan.TerrainTower && h.Elevation > 0 {
			rec.Add(w.DefenderTowerHeightBonus*h.Elevation, e.reason(c, "tower height"))
		}
		if edge {
			rec.Add(w.DefenderByEdgeOrBlockingHazardBonus, e.reason(c, "by edge"))
		}
	}

	adjacent := adjacentEnemies(b, c)
	if len(adjacent) > 0 {
		e.scoreMelee(c, adjacent, rec)
	} else if targets := b.RangestrikeTargets(c); len(targets) > 0 {
		e.scoreRangestrike(c, targets, rec)
	}

	for _, f := range adjacentFriends(b, c) {
		if f.IsTitan() {
			rec.Add(w.AdjacentToBuddyTitan, e.reason(c, "next to titan"))
		} else {
			rec.Add(w.AdjacentToBuddy, e.reason(c, "next to buddy"))
		}
	}
}

// preferredDefenderDistance is how far from its entrance a defender may
// stand without penalty: further as the battle goes on, and one hex more
// for large legions.
func preferredDefenderDistance(turn int, defender *titan.Legion) int {
	pref := 1 + turn/2
	if defender != nil && defender.Height() >= 6 {
		pref++
	}
	return pref
}

func (e *battleEval) scoreMelee(c *titan.Critter, adjacent []*titan.Critter, rec *ValueRecorder) {
	b, w := e.b, e.w
	if c.Attacker {
		rec.Add(w.AttackerAdjacentToEnemy, e.reason(c, "adjacent to enemy"))
	} else {
		rec.Add(w.DefenderAdjacentToEnemy, e.reason(c, "adjacent to enemy"))
	}
	killScale := w.DefenderKillScaleFactor
	if c.Attacker {
		killScale = w.AttackerKillScaleFactor
	}

	bestKill, killable, taken := 0.0, 0, 0.0
	for _, t := range adjacent {
		hits := expectedHits(b, c, t)
		left := float64(t.HitsLeft())
		frac := min(hits/left, 1)
		if hits >= left {
			killable++
		}
		bestKill = max(bestKill, frac*float64(t.PointValue()))
		if t.IsTitan() {
			rec.Add(w.AdjacentToEnemyTitan, e.reason(c, "adjacent to enemy titan"))
		}
		if t.Type.Rangestrikes {
			rec.Add(w.AdjacentToRangestriker, e.reason(c, "pins rangestriker"))
		}
		if helpers := len(adjacentEnemies(b, t)) - 1; helpers > 0 {
			rec.Add(w.GangUpOnCreature*helpers, e.reason(c, "gang up"))
		}
		taken += expectedHits(b, t, c)
	}
	rec.Add(int(bestKill*float64(killScale)), e.reason(c, "kill value"))
	rec.Add(w.KillableTargetsScaleFactor*killable, e.reason(c, "killable targets"))
	rec.Add(int(taken*float64(w.DamageTakenScaleFactor)), e.reason(c, "damage taken"))
	if taken >= float64(c.HitsLeft()) {
		rec.Add(w.LikelyDeathScaleFactor*c.PointValue(), e.reason(c, "likely death"))
	}
}

func (e *battleEval) scoreRangestrike(c *titan.Critter, targets []*titan.Critter, rec *ValueRecorder) {
	b, w := e.b, e.w
	rec.Add(w.FirstRangestrikeTarget, e.reason(c, "rangestrike target"))
	rec.Add(w.ExtraRangestrikeTarget*(len(targets)-1), e.reason(c, "extra rangestrike targets"))
	bestKill, penaltyFree := 0.0, false
	for _, t := range targets {
		if t.IsTitan() {
			rec.Add(w.RangestrikeTitan, e.reason(c, "rangestrike titan"))
		}
		if b.Range(c.Hex, t.Hex) <= 3 {
			penaltyFree = true
		}
		frac := min(expectedHits(b, c, t)/float64(t.HitsLeft()), 1)
		bestKill = max(bestKill, frac*float64(t.PointValue()))
	}
	if penaltyFree {
		rec.Add(w.RangestrikeWithoutPenalty, e.reason(c, "rangestrike without penalty"))
	}
	rec.Add(int(bestKill*float64(w.KillScaleFactor)), e.reason(c, "rangestrike kill value"))
}
