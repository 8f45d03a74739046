package ai

import (
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// BattleMove picks and commits the active legion's moves for this battle
// phase. It returns the moves the engine rejected, in the order they were
// attempted, so the caller can retry them once blockers have moved.
func (a *AI) BattleMove() []CritterMove {
	b := a.game.Battle()
	if b == nil {
		return nil
	}
	cy := a.newCycle()
	var objectives []TacticalObjective
	if a.pers.Objectives {
		objectives = BuildObjectives(b)
	}
	eval := newBattleEval(b, a.w, a.hook, objectives)
	ours, enemies := eval.sides()

	var cands [][]CritterMove
	for _, c := range ours {
		if c.Moved {
			continue
		}
		cands = append(cands, a.critterCandidates(eval, c, enemies))
	}
	if len(cands) == 0 {
		return nil
	}

	var seq iter.Seq[LegionMove]
	if a.pers.Generator == GeneratorLazy {
		seq = NewLazyGenerator(cands, eval.offboard).All()
	} else {
		all := MoveGenerator{Offboard: eval.offboard}.Generate(cands)
		seq = slices.Values(all)
	}
	top := newTopN[LegionMove](a.w.KeepTopMoves)
	_, _, stats, ok := FindBestSeq(seq, func(lm LegionMove) int {
		v, _ := eval.scoreLegionMove(lm)
		top.Offer(lm, v)
		return v
	}, a.limits(cy, false))
	if !ok {
		cy.log.Debug().Msg("No battle move found")
		return nil
	}
	if stats.TimedOut {
		cy.log.Debug().Int("iterations", stats.Iterations).Msg("Battle move search hit the deadline")
	}

	chosen, order := a.pickOrderedMove(b, top.Sorted(), cy.deadline)
	if e := cy.log.Debug(); e.Enabled() {
		eval.explain = true
		v, why := eval.scoreLegionMove(chosen)
		e.Int("value", v).Str("move", chosen.String()).Msgf("Battle move\n%s", why)
	}
	return a.commitCritterMoves(cy, order)
}

// critterCandidates lists c's stay move plus every reachable hex, scored
// and sorted best first, trimmed to the personality's width while keeping
// the stay move.
func (a *AI) critterCandidates(eval *battleEval, c *titan.Critter, enemies []*titan.Critter) []CritterMove {
	b := eval.b
	list := []CritterMove{{Critter: c, Start: c.Hex, End: c.Hex}}
	for _, hex := range b.Moves(c, true) {
		list = append(list, CritterMove{Critter: c, Start: c.Hex, End: hex})
	}
	for i := range list {
		list[i].Value = eval.scoreCritterAt(c, list[i].End, enemies)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Value > list[j].Value })
	width := a.w.CandidatesPerCritter
	if width <= 0 || len(list) <= width {
		return list
	}
	trimmed := slices.Clone(list[:width])
	if !slices.ContainsFunc(trimmed, CritterMove.IsStay) {
		i := slices.IndexFunc(list, CritterMove.IsStay)
		trimmed[width-1] = list[i]
	}
	return trimmed
}

// pickOrderedMove walks the best-ranked moves and returns the first one
// that can be executed in full. When none can, the best-ranked move is
// returned with its least-blocked order.
func (a *AI) pickOrderedMove(b titan.Battle, best []ranked[LegionMove], deadline time.Time) (LegionMove, []CritterMove) {
	var fallback LegionMove
	var fallbackOrder []CritterMove
	for i, r := range best {
		order, failures := orderMoves(b, r.Item.Moves, deadline)
		if failures == 0 {
			return r.Item, order
		}
		if i == 0 {
			fallback, fallbackOrder = r.Item, order
		}
	}
	return fallback, fallbackOrder
}

// orderMoves finds an order in which every non-stay move is legal when its
// turn comes. Permutations are tried until one has no blocked move or the
// deadline passes; the order with the fewest blocked moves is returned
// along with that count. Stay moves are dropped.
func orderMoves(b titan.Battle, moves []CritterMove, deadline time.Time) ([]CritterMove, int) {
	var active []CritterMove
	for _, m := range moves {
		if !m.IsStay() {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return nil, 0
	}
	best := slices.Clone(active)
	bestFailures := countBlocked(b, best)
	if bestFailures == 0 {
		return best, 0
	}
	for perm := range permutations(active) {
		if f := countBlocked(b, perm); f < bestFailures {
			best, bestFailures = slices.Clone(perm), f
			if f == 0 {
				break
			}
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
	}
	return best, bestFailures
}

// countBlocked plays order on the board and counts moves whose destination
// is not reachable at their turn. The board is restored before returning.
func countBlocked(b titan.Battle, order []CritterMove) int {
	var p probe
	defer p.restore()
	failures := 0
	for _, m := range order {
		if slices.Contains(b.Moves(m.Critter, false), m.End) {
			p.move(m.Critter, m.End)
		} else {
			failures++
		}
	}
	return failures
}

// permutations yields every ordering of moves using Heap's algorithm. The
// yielded slice is reused between iterations.
func permutations(moves []CritterMove) iter.Seq[[]CritterMove] {
	return func(yield func([]CritterMove) bool) {
		p := slices.Clone(moves)
		c := make([]int, len(p))
		if !yield(p) {
			return
		}
		for i := 0; i < len(p); {
			if c[i] < i {
				if i%2 == 0 {
					p[0], p[i] = p[i], p[0]
				} else {
					p[c[i]], p[i] = p[i], p[c[i]]
				}
				if !yield(p) {
					return
				}
				c[i]++
				i = 0
			} else {
				c[i] = 0
				i++
			}
		}
	}
}

func (a *AI) commitCritterMoves(cy *cycle, order []CritterMove) []CritterMove {
	var failed []CritterMove
	for _, m := range order {
		if !a.client.MoveCritter(m.Critter.Tag, m.End) {
			cy.log.Debug().Str("critter", m.Critter.Type.Name).Str("hex", m.End).Msg("Battle move blocked, will retry")
			failed = append(failed, m)
		}
	}
	return failed
}

// RetryFailedBattleMoves tries each previously rejected move once more.
// Moves that still fail are logged and abandoned.
func (a *AI) RetryFailedBattleMoves(failed []CritterMove) {
	cy := a.newCycle()
	for _, m := range failed {
		if !a.client.MoveCritter(m.Critter.Tag, m.End) {
			cy.log.Error().Str("critter", m.Critter.Type.Name).Int("tag", m.Critter.Tag).
				Str("from", m.Start).Str("to", m.End).Msg("Battle move rejected")
		}
	}
}

type strikePlan struct {
	striker *titan.Critter
	target  *titan.Critter
	score   float64
}

// Strike commits one strike for the active side of l's battle: killable
// targets first, then the largest expected share of target value. It
// reports whether a strike was made.
func (a *AI) Strike(l *titan.Legion) bool {
	b := a.game.Battle()
	if b == nil {
		return false
	}
	cy := a.newCycle()
	attacker := b.AttackerActive()
	if l != nil && b.Attacker() != nil {
		attacker = l.Marker == b.Attacker().Marker
	}
	var best *strikePlan
	for _, c := range b.Critters() {
		if c.Attacker != attacker || c.Struck {
			continue
		}
		targets := b.StrikeTargets(c)
		if len(targets) == 0 {
			targets = b.RangestrikeTargets(c)
		}
		for _, t := range targets {
			s := strikeScore(b, c, t)
			if best == nil || s > best.score {
				best = &strikePlan{striker: c, target: t, score: s}
			}
		}
	}
	if best == nil {
		return false
	}
	if !a.client.Strike(best.striker.Tag, best.target.Hex) {
		cy.log.Error().Str("striker", best.striker.Type.Name).Str("target", best.target.Hex).Msg("Strike rejected")
		return false
	}
	cy.log.Debug().Str("striker", best.striker.Type.Name).Str("target", best.target.Type.Name).
		Float64("score", best.score).Msg("Struck")
	return true
}

// strikeScore ranks a strike: a likely kill is worth the target's full
// value plus a flat bonus, anything less its expected share of the value.
func strikeScore(b titan.Battle, striker, target *titan.Critter) float64 {
	hits := expectedHits(b, striker, target)
	left := float64(target.HitsLeft())
	value := float64(target.PointValue())
	if hits >= left {
		return 1000 + value
	}
	return hits / left * value
}

// HandleCarries applies carried damage to the most valuable target it
// kills, or the most valuable target when it kills none.
func (a *AI) HandleCarries(carryDamage int, targets []string) {
	b := a.game.Battle()
	if b == nil || len(targets) == 0 {
		return
	}
	best := ""
	bestScore := -1.0
	for _, hex := range targets {
		t := b.CritterAt(hex)
		if t == nil {
			continue
		}
		s := float64(t.PointValue())
		if carryDamage >= t.HitsLeft() {
			s += 1000
		} else {
			s = float64(carryDamage) / float64(t.HitsLeft()) * s
		}
		if s > bestScore {
			best, bestScore = hex, s
		}
	}
	if best == "" {
		return
	}
	if !a.client.ApplyCarry(best) {
		a.log.Error().Str("target", best).Int("damage", carryDamage).Msg("Carry rejected")
	}
}

// PickStrikePenalty chooses among strike-number options: a harder strike
// number is accepted only when the value it can carry onto further targets
// outweighs the hits it loses on the main target. Ties keep the earlier
// option.
func (a *AI) PickStrikePenalty(striker, target *titan.Critter, options []titan.StrikePenalty) string {
	if len(options) == 0 {
		return ""
	}
	b := a.game.Battle()
	if b == nil {
		return options[0].Label
	}
	dice := float64(b.Dice(striker, target))
	best, bestValue := options[0].Label, -1.0
	for _, o := range options {
		hits := dice * float64(7-o.StrikeNumber) / 6
		left := float64(target.HitsLeft())
		v := min(hits, left) / left * float64(target.PointValue())
		if over := hits - left; over > 0 {
			carry := 0.0
			for _, hex := range o.CarryTargets {
				if ct := b.CritterAt(hex); ct != nil {
					carry = max(carry, min(over, float64(ct.HitsLeft()))/float64(ct.HitsLeft())*float64(ct.PointValue()))
				}
			}
			v += carry
		}
		if v > bestValue {
			best, bestValue = o.Label, v
		}
	}
	return best
}
