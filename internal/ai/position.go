package ai

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/rs/zerolog"
)

// probe relocates critters temporarily and puts them back on restore.
// Every scoring pass that moves critters must restore before returning.
type probe struct {
	log []probeEntry
}

type probeEntry struct {
	c   *titan.Critter
	hex string
}

func (p *probe) move(c *titan.Critter, hex string) {
	p.log = append(p.log, probeEntry{c: c, hex: c.Hex})
	c.Hex = hex
}

func (p *probe) restore() {
	for i := len(p.log) - 1; i >= 0; i-- {
		p.log[i].c.Hex = p.log[i].hex
	}
	p.log = p.log[:0]
}

// Position is a candidate LegionMove applied to the board, handed to
// whole-position hooks while the probe is in place.
type Position struct {
	Battle     titan.Battle
	Move       LegionMove
	Attacker   bool
	Ours       []*titan.Critter
	Enemies    []*titan.Critter
	Weights    *Weights
	Objectives []TacticalObjective
}

// PositionHook scores properties of a whole position.
type PositionHook interface {
	Evaluate(p *Position, rec *ValueRecorder)
}

// PositionHookFunc adapts a function to PositionHook.
type PositionHookFunc func(p *Position, rec *ValueRecorder)

func (f PositionHookFunc) Evaluate(p *Position, rec *ValueRecorder) { f(p, rec) }

// CompositeHook runs hooks in order.
type CompositeHook []PositionHook

func (h CompositeHook) Evaluate(p *Position, rec *ValueRecorder) {
	for _, hook := range h {
		hook.Evaluate(p, rec)
	}
}

// ReachabilityHook rewards a defender whose critters the attackers cannot
// reach, or can reach only one at a time, next half-turn.
var ReachabilityHook PositionHook = PositionHookFunc(reachability)

func reachability(p *Position, rec *ValueRecorder) {
	if p.Attacker || len(p.Enemies) == 0 {
		return
	}
	b := p.Battle
	reach := make([][]string, len(p.Enemies))
	for i, e := range p.Enemies {
		reach[i] = append([]string{e.Hex}, b.Moves(e, false)...)
	}
	maxThreats, anyReached, ganged := 0, false, false
	for _, c := range p.Ours {
		h := b.Hex(c.Hex)
		if h == nil || h.Entrance {
			continue
		}
		threats := 0
		for _, hexes := range reach {
			if slices.ContainsFunc(hexes, func(x string) bool { return b.Range(x, c.Hex) == 1 }) {
				threats++
			}
		}
		if threats > 0 {
			anyReached = true
		}
		maxThreats = max(maxThreats, threats)
		if len(adjacentEnemies(b, c)) > 1 {
			ganged = true
		}
	}
	w := p.Weights
	if !anyReached {
		rec.Add(w.DefenderUnreachableBonus, "unreachable")
	}
	if maxThreats <= 1 {
		rec.Add(w.AtMostOneAttackerBonus, "at most one attacker")
	}
	if !ganged {
		rec.Add(w.NoGangTargetBonus, "no gang target")
	}
}

// ObjectiveHook adds the contribution of every open tactical objective.
var ObjectiveHook PositionHook = PositionHookFunc(func(p *Position, rec *ValueRecorder) {
	for _, o := range p.Objectives {
		if o.Attained() {
			continue
		}
		rec.Add(o.Priority()*o.Contribution(p)*p.Weights.ObjectiveScale, o.String())
	}
})

// PositionEnv is the environment position rules are evaluated against.
type PositionEnv struct {
	Turn         int
	Attacker     bool
	Terrain      string
	Units        int
	Offboard     int
	Engaged      int
	Rangestrikes int
	TitanEngaged bool
	TitanOnEdge  bool
	NearestEnemy int
	OurValue     int
	EnemyValue   int
}

func newPositionEnv(p *Position) PositionEnv {
	b := p.Battle
	env := PositionEnv{
		Turn:         b.Turn(),
		Attacker:     p.Attacker,
		Terrain:      string(b.Terrain()),
		Units:        len(p.Ours),
		NearestEnemy: 99,
	}
	for _, e := range p.Enemies {
		env.EnemyValue += e.PointValue()
	}
	for _, c := range p.Ours {
		env.OurValue += c.PointValue()
		h := b.Hex(c.Hex)
		if h == nil || h.Entrance {
			env.Offboard++
			continue
		}
		engaged := len(adjacentEnemies(b, c)) > 0
		if engaged {
			env.Engaged++
		} else if len(b.RangestrikeTargets(c)) > 0 {
			env.Rangestrikes++
		}
		if c.IsTitan() {
			env.TitanEngaged = engaged
			env.TitanOnEdge = byEdgeOrBlockingHazard(b, h)
		}
		for _, e := range p.Enemies {
			env.NearestEnemy = min(env.NearestEnemy, b.Range(c.Hex, e.Hex))
		}
	}
	return env
}

// PositionRule awards Bonus to positions where When holds.
type PositionRule struct {
	Name  string `yaml:"name"`
	When  string `yaml:"when"`
	Bonus int    `yaml:"bonus"`

	program *vm.Program
}

func compileRules(rules []PositionRule) ([]PositionRule, error) {
	out := slices.Clone(rules)
	for i := range out {
		prog, err := expr.Compile(out[i].When, expr.Env(PositionEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", out[i].Name, err)
		}
		out[i].program = prog
	}
	return out, nil
}

// RuleHook evaluates compiled position rules. A rule that fails at run time
// is logged and skipped.
type RuleHook struct {
	Rules []PositionRule
	Log   zerolog.Logger
}

func (h RuleHook) Evaluate(p *Position, rec *ValueRecorder) {
	if len(h.Rules) == 0 {
		return
	}
	env := newPositionEnv(p)
	for _, r := range h.Rules {
		out, err := expr.Run(r.program, env)
		if err != nil {
			h.Log.Debug().Err(err).Str("rule", r.Name).Msg("Position rule failed")
			continue
		}
		if ok, _ := out.(bool); ok {
			rec.Add(r.Bonus, "rule "+r.Name)
		}
	}
}

func adjacentEnemies(b titan.Battle, c *titan.Critter) []*titan.Critter {
	h := b.Hex(c.Hex)
	if h == nil || h.Entrance {
		return nil
	}
	var out []*titan.Critter
	for _, n := range h.Neighbors {
		if o := b.CritterAt(n); o != nil && o.Attacker != c.Attacker {
			out = append(out, o)
		}
	}
	return out
}

func adjacentFriends(b titan.Battle, c *titan.Critter) []*titan.Critter {
	h := b.Hex(c.Hex)
	if h == nil || h.Entrance {
		return nil
	}
	var out []*titan.Critter
	for _, n := range h.Neighbors {
		if o := b.CritterAt(n); o != nil && o != c && o.Attacker == c.Attacker {
			out = append(out, o)
		}
	}
	return out
}

func byEdgeOrBlockingHazard(b titan.Battle, h *titan.BattleHex) bool {
	if h.IsByEdge() {
		return true
	}
	for _, n := range h.Neighbors {
		if nh := b.Hex(n); nh != nil && nh.Hazard.Blocks() {
			return true
		}
	}
	return false
}
