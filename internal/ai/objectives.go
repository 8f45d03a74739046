package ai

import (
	"slices"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// TacticalObjective is a battle goal with a weight, an attainment test and
// a per-position contribution. Attained reports that the goal is settled
// and needs no more effort; a preserved creature that died is settled too.
type TacticalObjective interface {
	Priority() int
	Attained() bool
	Contribution(p *Position) int
	String() string
}

// DestroyCreature aims our critters at one enemy.
type DestroyCreature struct {
	Target *titan.Critter
	Weight int
}

func (o DestroyCreature) Priority() int  { return o.Weight }
func (o DestroyCreature) Attained() bool { return !o.Target.Alive() }
func (o DestroyCreature) String() string { return "destroy " + o.Target.Type.Name }

// Contribution counts our critters that can strike or rangestrike the
// target from the probed position.
func (o DestroyCreature) Contribution(p *Position) int {
	n := 0
	for _, c := range p.Ours {
		if p.Battle.Range(c.Hex, o.Target.Hex) == 1 {
			n++
			continue
		}
		if c.Type.Rangestrikes && slices.Contains(p.Battle.RangestrikeTargets(c), o.Target) {
			n++
		}
	}
	return n
}

// PreserveCreature keeps enemies away from one of ours.
type PreserveCreature struct {
	Target *titan.Critter
	Weight int
}

func (o PreserveCreature) Priority() int  { return o.Weight }
func (o PreserveCreature) Attained() bool { return !o.Target.Alive() }
func (o PreserveCreature) String() string { return "preserve " + o.Target.Type.Name }

// Contribution is minus the number of enemies next to the target.
func (o PreserveCreature) Contribution(p *Position) int {
	return -len(adjacentEnemies(p.Battle, o.Target))
}

// BuildObjectives returns the objectives for the side to move: destroy the
// enemy titan, destroy the most valuable other enemy, preserve our titan and
// preserve our most valuable other critter.
func BuildObjectives(b titan.Battle) []TacticalObjective {
	attacker := b.AttackerActive()
	var out []TacticalObjective
	var bestEnemy, bestOurs *titan.Critter
	for _, c := range b.Critters() {
		switch {
		case c.Attacker != attacker && c.IsTitan():
			out = append(out, DestroyCreature{Target: c, Weight: 3})
		case c.Attacker != attacker:
			if bestEnemy == nil || c.PointValue() > bestEnemy.PointValue() {
				bestEnemy = c
			}
		case c.IsTitan():
			out = append(out, PreserveCreature{Target: c, Weight: 3})
		default:
			if bestOurs == nil || c.PointValue() > bestOurs.PointValue() {
				bestOurs = c
			}
		}
	}
	if bestEnemy != nil {
		out = append(out, DestroyCreature{Target: bestEnemy, Weight: 1})
	}
	if bestOurs != nil {
		out = append(out, PreserveCreature{Target: bestOurs, Weight: 1})
	}
	return out
}
