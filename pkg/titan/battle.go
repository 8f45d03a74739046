package titan

// Critter is one creature on the battle board.
type Critter struct {
	Tag        int
	Type       *CreatureType
	Hex        string
	Hits       int
	Attacker   bool
	Struck     bool
	Moved      bool
	TitanPower int
}

// Power returns the critter's striking power.
func (c *Critter) Power() int {
	return c.Type.EffectivePower(c.TitanPower)
}

// Skill returns the critter's skill factor.
func (c *Critter) Skill() int {
	return c.Type.Skill
}

// HitsLeft returns how much damage the critter can still absorb.
func (c *Critter) HitsLeft() int {
	return c.Power() - c.Hits
}

// Alive reports whether the critter has taken less damage than its power.
func (c *Critter) Alive() bool {
	return c.Hits < c.Power()
}

// PointValue returns the creature point value with the titan power applied.
func (c *Critter) PointValue() int {
	return c.Type.PointValueWith(c.TitanPower)
}

// IsTitan reports whether the critter is a titan.
func (c *Critter) IsTitan() bool {
	return c.Type.Titan
}

// BattleHex is one hex of the battle board. Neighbors holds the labels of
// the six adjacent hexes, empty where the board ends.
type BattleHex struct {
	Label     string
	Hazard    Hazard
	Elevation int
	Entrance  bool
	Neighbors [6]string
}

// IsByEdge reports whether the hex lies on the rim of the board.
func (h *BattleHex) IsByEdge() bool {
	if h.Entrance {
		return false
	}
	for _, n := range h.Neighbors {
		if n == "" {
			return true
		}
	}
	return false
}

// StrikePenalty is one strike-number option offered when a strike could
// carry excess damage to further targets.
type StrikePenalty struct {
	Label        string
	StrikeNumber int
	CarryTargets []string
}
