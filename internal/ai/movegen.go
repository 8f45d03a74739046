package ai

import (
	"slices"
)

// MoveGenerator builds LegionMoves from per-critter candidate lists. Each
// list must start with the best-scored candidate and contain the critter's
// stay move.
type MoveGenerator struct {
	// Offboard reports whether a hex is an entrance. Several critters may
	// end on the same entrance hex.
	Offboard func(hex string) bool
	// ForceAll disables the per-level branching cap.
	ForceAll bool
}

// levelCap returns how many candidates the unit at level may contribute.
func (g MoveGenerator) levelCap(level, units int) int {
	switch {
	case g.ForceAll:
		return int(^uint(0) >> 1)
	case units < 5:
		return level + 16
	case units < 6:
		return level + 8
	case units < 7:
		return level + 3
	}
	return level + 1
}

// Generate returns every collision-free combination reachable under the
// branching cap. Combinations without offboard moves come first; those with
// offboard moves follow so they are the first to go unvisited when search
// time runs out.
func (g MoveGenerator) Generate(candidates [][]CritterMove) []LegionMove {
	if len(candidates) == 0 {
		return nil
	}
	fixed, mobile := g.prune(candidates)

	var onboard, offboard []LegionMove
	indices := make([]int, len(mobile))
	var walk func(level int)
	walk = func(level int) {
		if level == len(mobile) {
			lm, ok := g.assemble(fixed, mobile, indices)
			if !ok {
				return
			}
			if lm.HasOffboard(g.Offboard) {
				offboard = append(offboard, lm)
			} else {
				onboard = append(onboard, lm)
			}
			return
		}
		limit := min(len(mobile[level]), g.levelCap(level, len(candidates)))
		for i := range limit {
			indices[level] = i
			walk(level + 1)
		}
	}
	walk(0)

	// Onboard combinations are prepended as they are found.
	slices.Reverse(onboard)
	return append(onboard, offboard...)
}

// prune removes immobile critters from the product and reserves their hexes,
// repeating until nothing changes. A candidate list is never pruned empty.
func (g MoveGenerator) prune(candidates [][]CritterMove) (fixed []CritterMove, mobile [][]CritterMove) {
	lists := make([][]CritterMove, len(candidates))
	for i, c := range candidates {
		lists[i] = slices.Clone(c)
	}
	isFixed := make([]bool, len(lists))
	reserved := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for i, l := range lists {
			if isFixed[i] || len(l) != 1 {
				continue
			}
			isFixed[i] = true
			changed = true
			if !g.Offboard(l[0].End) {
				reserved[l[0].End] = true
			}
		}
		for i, l := range lists {
			if isFixed[i] {
				continue
			}
			kept := slices.DeleteFunc(slices.Clone(l), func(m CritterMove) bool { return reserved[m.End] })
			if len(kept) > 0 && len(kept) < len(l) {
				lists[i] = kept
				changed = true
			}
		}
	}
	for i, l := range lists {
		if isFixed[i] {
			fixed = append(fixed, l[0])
		} else {
			mobile = append(mobile, l)
		}
	}
	return fixed, mobile
}

func (g MoveGenerator) assemble(fixed []CritterMove, mobile [][]CritterMove, indices []int) (LegionMove, bool) {
	moves := make([]CritterMove, 0, len(fixed)+len(mobile))
	moves = append(moves, fixed...)
	for level, idx := range indices {
		moves = append(moves, mobile[level][idx])
	}
	if !collisionFree(moves, g.Offboard) {
		return LegionMove{}, false
	}
	return LegionMove{Moves: moves}, true
}

func collisionFree(moves []CritterMove, offboard func(string) bool) bool {
	seen := make(map[string]bool, len(moves))
	for _, m := range moves {
		if offboard(m.End) {
			continue
		}
		if seen[m.End] {
			return false
		}
		seen[m.End] = true
	}
	return true
}
