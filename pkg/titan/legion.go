package titan

import "slices"

// Legion is a stack of creatures on one masterboard hex owned by one player.
type Legion struct {
	Marker     string
	Player     string
	Hex        string
	Creatures  []*CreatureType
	Moved      bool
	Teleported bool
	Recruited  bool
	EntrySide  string
}

// Height returns the number of creatures in the legion.
func (l *Legion) Height() int {
	return len(l.Creatures)
}

// HasTitan reports whether the legion contains its player's titan.
func (l *Legion) HasTitan() bool {
	return slices.ContainsFunc(l.Creatures, func(c *CreatureType) bool { return c.Titan })
}

// HasSummonable reports whether the legion holds a creature that can be
// summoned into another legion's battle.
func (l *Legion) HasSummonable() bool {
	return slices.ContainsFunc(l.Creatures, func(c *CreatureType) bool { return c.Summonable })
}

// PointValue sums the point values of the creatures.
func (l *Legion) PointValue(titanPower int) int {
	total := 0
	for _, c := range l.Creatures {
		total += c.PointValueWith(titanPower)
	}
	return total
}

// Count returns how many creatures of the named type the legion holds.
func (l *Legion) Count(name string) int {
	n := 0
	for _, c := range l.Creatures {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Clone returns a copy whose creature slice may be modified independently.
func (l *Legion) Clone() *Legion {
	cp := *l
	cp.Creatures = slices.Clone(l.Creatures)
	return &cp
}

// Without returns a copy of the legion with the given creatures removed
// (one instance per entry).
func (l *Legion) Without(removed []*CreatureType) *Legion {
	cp := l.Clone()
	for _, r := range removed {
		if i := slices.Index(cp.Creatures, r); i >= 0 {
			cp.Creatures = slices.Delete(cp.Creatures, i, i+1)
		}
	}
	return cp
}

// With returns a copy of the legion with extra creatures appended.
func (l *Legion) With(extra ...*CreatureType) *Legion {
	cp := l.Clone()
	cp.Creatures = append(cp.Creatures, extra...)
	return cp
}
