package titantest

import (
	"fmt"
	"slices"
	"sort"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// Board geometry: columns A-F, rows 1-6, odd-q offset layout. The attacker
// enters from X1 (adjacent to column A), the defender from X2 (column F).
const (
	boardCols = 6
	boardRows = 6

	AttackerEntrance = "X1"
	DefenderEntrance = "X2"
)

type cube struct{ x, y, z int }

var cubeDirs = [6]cube{{1, -1, 0}, {1, 0, -1}, {0, 1, -1}, {-1, 1, 0}, {-1, 0, 1}, {0, -1, 1}}

func (c cube) add(d cube) cube { return cube{c.x + d.x, c.y + d.y, c.z + d.z} }

func cubeDistance(a, b cube) int {
	return max(abs(a.x-b.x), abs(a.y-b.y), abs(a.z-b.z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// HexLabel returns the label of the hex at col (0-based) and row (1-based).
func HexLabel(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

// Battlefield is an in-memory battle board.
type Battlefield struct {
	TurnNumber    int
	MasterTerrain titan.Terrain
	AttackerSide  *titan.Legion
	DefenderSide  *titan.Legion
	ActiveIsAtt   bool

	hexes    map[string]*titan.BattleHex
	coords   map[string]cube
	critters []*titan.Critter
	nextTag  int
}

// NewBattlefield builds an all-plains board. hazards overrides individual
// hexes by label.
func NewBattlefield(terrain titan.Terrain, attacker, defender *titan.Legion, hazards map[string]titan.Hazard) *Battlefield {
	b := &Battlefield{
		TurnNumber:    1,
		MasterTerrain: terrain,
		AttackerSide:  attacker,
		DefenderSide:  defender,
		ActiveIsAtt:   true,
		hexes:         make(map[string]*titan.BattleHex),
		coords:        make(map[string]cube),
	}
	byCube := make(map[cube]string)
	for col := range boardCols {
		for row := 1; row <= boardRows; row++ {
			label := HexLabel(col, row)
			z := row - (col-(col&1))/2
			c := cube{x: col, z: z, y: -col - z}
			b.coords[label] = c
			byCube[c] = label
			h := &titan.BattleHex{Label: label, Hazard: titan.HazardPlains}
			if hz, ok := hazards[label]; ok {
				h.Hazard = hz
				if hz == titan.HazardTower {
					h.Elevation = 1
				}
			}
			b.hexes[label] = h
		}
	}
	for label, c := range b.coords {
		for i, d := range cubeDirs {
			b.hexes[label].Neighbors[i] = byCube[c.add(d)]
		}
	}
	att := &titan.BattleHex{Label: AttackerEntrance, Hazard: titan.HazardPlains, Entrance: true}
	def := &titan.BattleHex{Label: DefenderEntrance, Hazard: titan.HazardPlains, Entrance: true}
	for row := 1; row <= boardRows; row++ {
		att.Neighbors[row-1] = HexLabel(0, row)
		def.Neighbors[row-1] = HexLabel(boardCols-1, row)
	}
	b.hexes[AttackerEntrance] = att
	b.hexes[DefenderEntrance] = def
	return b
}

// SetElevation sets a hex's elevation.
func (b *Battlefield) SetElevation(label string, elevation int) {
	b.hexes[label].Elevation = elevation
}

// AddCritter puts a creature on the board and returns it.
func (b *Battlefield) AddCritter(ct *titan.CreatureType, attacker bool, hex string) *titan.Critter {
	b.nextTag++
	c := &titan.Critter{Tag: b.nextTag, Type: ct, Hex: hex, Attacker: attacker}
	if ct.Titan {
		c.TitanPower = 6
	}
	b.critters = append(b.critters, c)
	return c
}

// Critter returns the critter with the given tag, alive or dead.
func (b *Battlefield) Critter(tag int) *titan.Critter {
	for _, c := range b.critters {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// NewPhase switches the active side and clears moved and struck flags.
func (b *Battlefield) NewPhase(attackerActive bool) {
	if attackerActive && !b.ActiveIsAtt {
		b.TurnNumber++
	}
	b.ActiveIsAtt = attackerActive
	for _, c := range b.critters {
		c.Moved, c.Struck = false, false
	}
}

// Labels returns every on-board hex label in sorted order.
func (b *Battlefield) Labels() []string {
	out := make([]string, 0, len(b.coords))
	for l := range b.coords {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (b *Battlefield) Turn() int                     { return b.TurnNumber }
func (b *Battlefield) Terrain() titan.Terrain        { return b.MasterTerrain }
func (b *Battlefield) Attacker() *titan.Legion       { return b.AttackerSide }
func (b *Battlefield) Defender() *titan.Legion       { return b.DefenderSide }
func (b *Battlefield) AttackerActive() bool          { return b.ActiveIsAtt }
func (b *Battlefield) Hex(l string) *titan.BattleHex { return b.hexes[l] }

func (b *Battlefield) EntranceHex(attacker bool) string {
	if attacker {
		return AttackerEntrance
	}
	return DefenderEntrance
}

func (b *Battlefield) Critters() []*titan.Critter {
	out := make([]*titan.Critter, 0, len(b.critters))
	for _, c := range b.critters {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

func (b *Battlefield) CritterAt(hex string) *titan.Critter {
	if h := b.hexes[hex]; h == nil || h.Entrance {
		return nil
	}
	for _, c := range b.critters {
		if c.Alive() && c.Hex == hex {
			return c
		}
	}
	return nil
}

func (b *Battlefield) Range(from, to string) int {
	if from == to {
		return 0
	}
	fc, fok := b.coords[from]
	tc, tok := b.coords[to]
	switch {
	case fok && tok:
		return cubeDistance(fc, tc)
	case !fok && !tok:
		return 99
	case !fok:
		return b.entranceRange(from, tc)
	default:
		return b.entranceRange(to, fc)
	}
}

func (b *Battlefield) entranceRange(entrance string, target cube) int {
	h := b.hexes[entrance]
	if h == nil {
		return 99
	}
	best := 99
	for _, n := range h.Neighbors {
		if c, ok := b.coords[n]; ok {
			best = min(best, cubeDistance(c, target)+1)
		}
	}
	return best
}

func (b *Battlefield) enemiesAdjacent(c *titan.Critter, hex string) bool {
	h := b.hexes[hex]
	if h == nil || h.Entrance {
		return false
	}
	for _, n := range h.Neighbors {
		if o := b.CritterAt(n); o != nil && o.Attacker != c.Attacker {
			return true
		}
	}
	return false
}

func (b *Battlefield) canEnter(c *titan.Critter, h *titan.BattleHex) bool {
	native := c.Type.IsNative(h.Hazard)
	switch {
	case h.Hazard.Blocks():
		return native
	case h.Hazard == titan.HazardBog, h.Hazard == titan.HazardVolcano:
		return native
	}
	return true
}

func (b *Battlefield) blocked(c *titan.Critter, hex string, ignoreMobileAllies bool) bool {
	o := b.CritterAt(hex)
	if o == nil || o == c {
		return false
	}
	if ignoreMobileAllies && o.Attacker == c.Attacker && !o.Moved {
		return false
	}
	return true
}

// Moves uses the skill factor as movement points. Brambles and sand cost
// double for non-natives; entering a hex next to an enemy ends movement.
// Engaged critters cannot move.
func (b *Battlefield) Moves(c *titan.Critter, ignoreMobileAllies bool) []string {
	if !c.Alive() || c.Moved || b.enemiesAdjacent(c, c.Hex) {
		return nil
	}
	budget := c.Skill()
	found := make(map[string]bool)
	if c.Type.Flier {
		for label, h := range b.hexes {
			if h.Entrance || label == c.Hex {
				continue
			}
			if b.Range(c.Hex, label) > budget || !b.canEnter(c, h) || b.blocked(c, label, ignoreMobileAllies) {
				continue
			}
			found[label] = true
		}
	} else {
		type step struct {
			hex  string
			cost int
		}
		best := map[string]int{c.Hex: 0}
		queue := []step{{c.Hex, 0}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur.hex != c.Hex && b.enemiesAdjacent(c, cur.hex) {
				continue
			}
			for _, n := range b.hexes[cur.hex].Neighbors {
				h := b.hexes[n]
				if h == nil || h.Entrance || !b.canEnter(c, h) || b.blocked(c, n, ignoreMobileAllies) {
					continue
				}
				cost := cur.cost + 1
				if (h.Hazard == titan.HazardBrambles || h.Hazard == titan.HazardSand) && !c.Type.IsNative(h.Hazard) {
					cost++
				}
				if cost > budget {
					continue
				}
				if prev, ok := best[n]; ok && prev <= cost {
					continue
				}
				best[n] = cost
				found[n] = true
				queue = append(queue, step{n, cost})
			}
		}
	}
	out := make([]string, 0, len(found))
	for l := range found {
		if b.CritterAt(l) == nil {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

func (b *Battlefield) StrikeTargets(c *titan.Critter) []*titan.Critter {
	h := b.hexes[c.Hex]
	if h == nil || h.Entrance || !c.Alive() {
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

func (b *Battlefield) RangestrikeTargets(c *titan.Critter) []*titan.Critter {
	h := b.hexes[c.Hex]
	if !c.Type.Rangestrikes || h == nil || h.Entrance || !c.Alive() || b.enemiesAdjacent(c, c.Hex) {
		return nil
	}
	var out []*titan.Critter
	for _, o := range b.Critters() {
		if o.Attacker == c.Attacker || b.hexes[o.Hex].Entrance {
			continue
		}
		r := b.Range(c.Hex, o.Hex)
		if r < 2 || r > c.Skill() {
			continue
		}
		if o.Type.IsLordOrDemiLord() && !c.Type.MagicMissile {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (b *Battlefield) StrikeNumber(striker, target *titan.Critter) int {
	n := 4 - striker.Skill() + target.Skill()
	th := b.hexes[target.Hex]
	if th != nil && th.Hazard == titan.HazardBrambles && target.Type.IsNative(titan.HazardBrambles) &&
		!striker.Type.IsNative(titan.HazardBrambles) {
		n++
	}
	if b.Range(striker.Hex, target.Hex) > 3 {
		n++
	}
	return min(max(n, 1), 6)
}

func (b *Battlefield) Dice(striker, target *titan.Critter) int {
	dice := striker.Power()
	sh, th := b.hexes[striker.Hex], b.hexes[target.Hex]
	if b.Range(striker.Hex, target.Hex) > 1 {
		return max(dice/2, 1)
	}
	if sh != nil && sh.Hazard == titan.HazardVolcano && striker.Type.IsNative(titan.HazardVolcano) {
		dice += 2
	}
	if sh != nil && th != nil && sh.Elevation > th.Elevation {
		dice++
	}
	return dice
}

func (b *Battlefield) HazardDamage(c *titan.Critter, hex string) int {
	h := b.hexes[hex]
	if h != nil && h.Hazard == titan.HazardDrift && !c.Type.IsNative(titan.HazardDrift) {
		return 1
	}
	return 0
}

func (b *Battlefield) moveCritter(tag int, hex string) bool {
	c := b.Critter(tag)
	if c == nil || !c.Alive() || c.Attacker != b.ActiveIsAtt {
		return false
	}
	if hex != c.Hex && !slices.Contains(b.Moves(c, false), hex) {
		return false
	}
	c.Hex, c.Moved = hex, true
	return true
}

// strike applies the expected number of hits, rounded down, so battles are
// reproducible.
func (b *Battlefield) strike(tag int, targetHex string) bool {
	c := b.Critter(tag)
	t := b.CritterAt(targetHex)
	if c == nil || t == nil || c.Struck || !c.Alive() {
		return false
	}
	legal := slices.Contains(b.StrikeTargets(c), t) || slices.Contains(b.RangestrikeTargets(c), t)
	if !legal {
		return false
	}
	hits := b.Dice(c, t) * (7 - b.StrikeNumber(c, t)) / 6
	t.Hits += hits
	c.Struck = true
	return true
}
