package ai

import (
	"slices"
	"sort"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// tripleKept lists creature types that are split as a group of three when
// the legion holds exactly three.
var tripleKept = map[string]bool{"Troll": true, "Cyclops": true, "Lion": true}

type splitCycle struct {
	turn       int
	player     string
	considered map[string]bool
}

// Split commits at most one split per call, covering every legion tall
// enough to split once.
func (a *AI) Split() bool {
	g := a.game
	sc := a.splits
	if sc == nil || sc.turn != g.Turn() || sc.player != g.ActivePlayer() {
		sc = &splitCycle{turn: g.Turn(), player: g.ActivePlayer(), considered: make(map[string]bool)}
		a.splits = sc
	}
	cy := a.newCycle()

	legions := g.Legions(a.player)
	sort.Slice(legions, func(i, j int) bool { return legions[i].Marker < legions[j].Marker })
	for _, l := range legions {
		if sc.considered[l.Marker] || l.Height() < a.w.SplitMinHeight {
			continue
		}
		sc.considered[l.Marker] = true
		marker := a.PickMarker(g.FreeMarkers(a.player), "")
		if marker == "" {
			cy.log.Debug().Str("legion", l.Marker).Msg("No free marker to split")
			return false
		}
		var out []*titan.CreatureType
		if g.Turn() == 1 && l.Height() == 8 {
			out = InitialSplit(l)
		} else {
			out = a.chooseSplit(l)
		}
		if len(out) == 0 {
			continue
		}
		if !a.client.Split(l, marker, out) {
			cy.log.Error().Str("legion", l.Marker).Str("child", marker).Msg("Split rejected")
			return false
		}
		cy.log.Debug().Str("legion", l.Marker).Str("child", marker).Strs("creatures", creatureNames(out)).Msg("Split legion")
		return true
	}
	return false
}

// InitialSplit divides a starting legion of eight: the child gets four
// creatures, exactly one of them a lord, and the titan stays home. Both
// halves keep a pair of the same type where the legion allows it.
func InitialSplit(l *titan.Legion) []*titan.CreatureType {
	var lords, others []*titan.CreatureType
	for _, c := range l.Creatures {
		switch {
		case c.Titan:
		case c.IsLordOrDemiLord():
			lords = append(lords, c)
		default:
			others = append(others, c)
		}
	}
	if len(lords) == 0 || len(others) < 3 {
		return nil
	}
	groups := groupByName(others)
	out := []*titan.CreatureType{lords[0]}
	// The weakest pair goes with the lord.
	for _, grp := range groups {
		if len(grp) >= 2 {
			out = append(out, grp[0], grp[1])
			break
		}
	}
	// Then the strongest creature still available, then anything left.
	for i := len(groups) - 1; i >= 0 && len(out) < 4; i-- {
		if countPtr(out, groups[i][0]) < len(groups[i]) {
			out = append(out, groups[i][0])
		}
	}
	for _, c := range others {
		if len(out) == 4 {
			break
		}
		if countPtr(out, c) < countPtr(others, c) {
			out = append(out, c)
		}
	}
	if len(out) != 4 {
		return nil
	}
	return out
}

// chooseSplit picks max(2, height-5) creatures to split off. Groups that can
// muster on their own go first, weakest first; the rest is filled with the
// lowest-valued creatures. A titan never leaves.
func (a *AI) chooseSplit(l *titan.Legion) []*titan.CreatureType {
	g := a.game
	want := max(2, l.Height()-5)
	if l.Height()-want < 2 {
		return nil
	}
	var pool []*titan.CreatureType
	for _, c := range l.Creatures {
		if !c.Titan {
			pool = append(pool, c)
		}
	}
	var out []*titan.CreatureType
	for _, grp := range groupByName(pool) {
		size := 2
		if tripleKept[grp[0].Name] && len(grp) == 3 {
			size = 3
		}
		if len(grp) < size || len(out)+size > want {
			continue
		}
		if g.Musters(grp[0].Name, size) {
			out = append(out, grp[:size]...)
		}
	}
	rest := slices.Clone(pool)
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].PointValue() < rest[j].PointValue() })
	for _, c := range rest {
		if len(out) >= want {
			break
		}
		if countPtr(out, c) >= countPtr(pool, c) {
			continue
		}
		// Keep triple groups together in the parent.
		if tripleKept[c.Name] && countPtr(pool, c) == 3 && countPtr(out, c) == 0 {
			continue
		}
		out = append(out, c)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// SplitCallback reviews a split just made: when keeping the legion whole
// scores sufficiently higher than the two halves, the split is undone. The
// very first turn's split is always kept. It reports whether it undid the
// split.
func (a *AI) SplitCallback(parentMarker, childMarker string) bool {
	g := a.game
	if g.Turn() == 1 {
		return false
	}
	parent, child := g.Legion(parentMarker), g.Legion(childMarker)
	if parent == nil || child == nil {
		return false
	}
	cy := a.newCycle()
	merged := parent.With(child.Creatures...)
	merged.Marker = parent.Marker + "+" + child.Marker
	whole := a.bestMoveValue(cy, merged)
	split := a.bestMoveValue(cy, parent) + a.bestMoveValue(cy, child)
	if whole <= split+a.w.SplitUndoMargin {
		return false
	}
	if !a.client.UndoSplit(parent, child) {
		cy.log.Error().Str("parent", parentMarker).Str("child", childMarker).Msg("Undo split rejected")
		return false
	}
	cy.log.Debug().Int("whole", whole).Int("split", split).Msg("Undid split")
	return true
}

func (a *AI) bestMoveValue(cy *cycle, l *titan.Legion) int {
	depth := a.w.LookaheadDepth
	best := a.evaluateMove(cy, l, l.Hex, false, depth, true)
	for _, c := range a.source.Candidates(cy.ctx, a.game, l, a.game.MovementRoll()) {
		best = max(best, a.evaluateMove(cy, l, c.Hex, true, depth, true))
	}
	return best
}

// groupByName groups creatures by type, weakest type first.
func groupByName(cs []*titan.CreatureType) [][]*titan.CreatureType {
	idx := make(map[string]int)
	var groups [][]*titan.CreatureType
	for _, c := range cs {
		i, ok := idx[c.Name]
		if !ok {
			i = len(groups)
			idx[c.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], c)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i][0].PointValue() < groups[j][0].PointValue() })
	return groups
}

func countPtr(cs []*titan.CreatureType, c *titan.CreatureType) int {
	n := 0
	for _, x := range cs {
		if x == c {
			n++
		}
	}
	return n
}

func creatureNames(cs []*titan.CreatureType) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
