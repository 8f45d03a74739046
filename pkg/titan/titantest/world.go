// Package titantest provides a small deterministic rules engine that
// implements titan.Game, titan.Battle and titan.Client for tests and
// simulations.
package titantest

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// MasterHex is one hex of the fixture masterboard.
type MasterHex struct {
	Label   string
	Terrain titan.Terrain
	Exits   []string
}

// RecruitStep is one tier of a terrain's recruiting tree. Needed is how many
// creatures of the previous tier are required; zero means anyone may recruit.
type RecruitStep struct {
	Name   string
	Needed int
}

// World is an in-memory masterboard.
type World struct {
	TurnNumber   int
	Active       string
	PlayerNames  []string
	Scores       map[string]int
	Hexes        map[string]*MasterHex
	Trees        map[titan.Terrain][]RecruitStep
	Creatures    map[string]*titan.CreatureType
	Caretaker    map[string]int
	TitanPowers  map[string]int
	Mulligans    map[string]int
	Markers      map[string][]string
	Options      map[string]int
	Roll         int
	RollSequence []int
	Field        *Battlefield

	// Reject makes the named commit kinds ("move", "split", "recruit",
	// "critter", "strike") fail.
	Reject map[string]bool
	// Commits records every accepted action in order.
	Commits []string

	legions []*titan.Legion
}

var ringTerrains = []titan.Terrain{
	titan.TerrainPlains, titan.TerrainBrush, titan.TerrainMarsh, titan.TerrainWoods,
	titan.TerrainHills, titan.TerrainDesert, titan.TerrainSwamp, titan.TerrainJungle,
	titan.TerrainMountains, titan.TerrainTundra, titan.TerrainPlains, titan.TerrainAbyss,
}

// RingSize is the number of hexes on the fixture's outer ring.
const RingSize = 24

// NewWorld builds a world with a ring of RingSize hexes labelled "1".."24"
// and two tower hexes, "100" (linked to "1") and "400" (linked to "13").
func NewWorld(players ...string) *World {
	w := &World{
		TurnNumber:  1,
		PlayerNames: players,
		Scores:      make(map[string]int),
		Hexes:       make(map[string]*MasterHex),
		Trees:       DefaultTrees(),
		Creatures:   titan.DefaultCreatures(),
		Caretaker:   make(map[string]int),
		TitanPowers: make(map[string]int),
		Mulligans:   make(map[string]int),
		Markers:     make(map[string][]string),
		Options:     make(map[string]int),
		Roll:        1,
		Reject:      make(map[string]bool),
	}
	if len(players) > 0 {
		w.Active = players[0]
	}
	for i := 1; i <= RingSize; i++ {
		label := strconv.Itoa(i)
		prev := strconv.Itoa((i+RingSize-2)%RingSize + 1)
		next := strconv.Itoa(i%RingSize + 1)
		w.Hexes[label] = &MasterHex{
			Label:   label,
			Terrain: ringTerrains[(i-1)%len(ringTerrains)],
			Exits:   []string{prev, next},
		}
	}
	w.Hexes["100"] = &MasterHex{Label: "100", Terrain: titan.TerrainTower, Exits: []string{"1"}}
	w.Hexes["400"] = &MasterHex{Label: "400", Terrain: titan.TerrainTower, Exits: []string{"13"}}
	w.Hexes["1"].Exits = append(w.Hexes["1"].Exits, "100")
	w.Hexes["13"].Exits = append(w.Hexes["13"].Exits, "400")

	for name, ct := range w.Creatures {
		w.Caretaker[name] = ct.MaxCount
	}
	colors := []string{"Rd", "Bu", "Gr", "Bk", "Gd", "Br"}
	for i, p := range players {
		w.TitanPowers[p] = 6
		w.Mulligans[p] = 1
		color := colors[i%len(colors)]
		for n := 1; n <= 12; n++ {
			w.Markers[p] = append(w.Markers[p], fmt.Sprintf("%s%02d", color, n))
		}
	}
	return w
}

// DefaultTrees returns the fixture recruiting trees.
func DefaultTrees() map[titan.Terrain][]RecruitStep {
	return map[titan.Terrain][]RecruitStep{
		titan.TerrainPlains:    {{"Centaur", 1}, {"Lion", 2}, {"Ranger", 2}},
		titan.TerrainBrush:     {{"Gargoyle", 1}, {"Cyclops", 2}, {"Gorgon", 2}},
		titan.TerrainMarsh:     {{"Ogre", 1}, {"Troll", 2}, {"Ranger", 2}},
		titan.TerrainWoods:     {{"Centaur", 1}, {"Warbear", 3}, {"Unicorn", 2}},
		titan.TerrainHills:     {{"Ogre", 1}, {"Minotaur", 3}, {"Unicorn", 2}},
		titan.TerrainDesert:    {{"Lion", 1}, {"Griffon", 3}, {"Hydra", 2}},
		titan.TerrainSwamp:     {{"Troll", 1}, {"Wyvern", 3}, {"Hydra", 2}},
		titan.TerrainJungle:    {{"Gargoyle", 1}, {"Cyclops", 2}, {"Behemoth", 3}, {"Serpent", 2}},
		titan.TerrainMountains: {{"Lion", 1}, {"Minotaur", 2}, {"Dragon", 2}, {"Colossus", 2}},
		titan.TerrainTundra:    {{"Troll", 1}, {"Warbear", 2}, {"Giant", 2}, {"Colossus", 2}},
		titan.TerrainTower:     {{"Centaur", 0}, {"Gargoyle", 0}, {"Ogre", 0}},
	}
}

// AddLegion places a new legion built from creature names.
func (w *World) AddLegion(player, marker, hex string, names ...string) *titan.Legion {
	l := &titan.Legion{Marker: marker, Player: player, Hex: hex}
	for _, n := range names {
		ct := w.Creatures[n]
		if ct == nil {
			panic("titantest: unknown creature " + n)
		}
		l.Creatures = append(l.Creatures, ct)
	}
	w.legions = append(w.legions, l)
	w.Markers[player] = slices.DeleteFunc(w.Markers[player], func(m string) bool { return m == marker })
	return l
}

// RemoveLegion drops a legion from the board.
func (w *World) RemoveLegion(marker string) {
	w.legions = slices.DeleteFunc(w.legions, func(l *titan.Legion) bool { return l.Marker == marker })
}

// NewTurn advances to the next turn for player, clearing moved flags.
func (w *World) NewTurn(player string, roll int) {
	w.TurnNumber++
	w.Active = player
	w.Roll = roll
	for _, l := range w.legions {
		if l.Player == player {
			l.Moved, l.Teleported, l.Recruited, l.EntrySide = false, false, false, ""
		}
	}
}

func (w *World) Turn() int            { return w.TurnNumber }
func (w *World) ActivePlayer() string { return w.Active }
func (w *World) Players() []string    { return w.PlayerNames }
func (w *World) Score(p string) int   { return w.Scores[p] }
func (w *World) MovementRoll() int    { return w.Roll }

func (w *World) Battle() titan.Battle {
	if w.Field == nil {
		return nil
	}
	return w.Field
}

func (w *World) MulligansLeft(player string) int { return w.Mulligans[player] }
func (w *World) TitanPower(player string) int    { return w.TitanPowers[player] }
func (w *World) Available(name string) int       { return w.Caretaker[name] }

func (w *World) CreatureType(name string) *titan.CreatureType {
	return w.Creatures[name]
}

func (w *World) Legions(player string) []*titan.Legion {
	var out []*titan.Legion
	for _, l := range w.legions {
		if l.Player == player {
			out = append(out, l)
		}
	}
	return out
}

func (w *World) LegionsAt(hex string) []*titan.Legion {
	var out []*titan.Legion
	for _, l := range w.legions {
		if l.Hex == hex {
			out = append(out, l)
		}
	}
	return out
}

func (w *World) Legion(marker string) *titan.Legion {
	for _, l := range w.legions {
		if l.Marker == marker {
			return l
		}
	}
	return nil
}

func (w *World) Terrain(hex string) titan.Terrain {
	if h := w.Hexes[hex]; h != nil {
		return h.Terrain
	}
	return titan.TerrainPlains
}

func (w *World) FreeMarkers(player string) []string {
	return slices.Clone(w.Markers[player])
}

func (w *World) EntrySides(_ *titan.Legion, hex string) []string {
	if len(w.enemiesAt(hex, w.Active)) == 0 {
		return nil
	}
	return []string{"Left", "Bottom", "Right"}
}

// Moves walks exactly roll steps without immediate backtracking. Teleport
// moves are available from a tower on a 6 to any empty tower.
func (w *World) Moves(l *titan.Legion, roll int, kind titan.MoveKind, excludeFriends bool) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(hex string) {
		if seen[hex] || hex == l.Hex {
			return
		}
		if excludeFriends && w.friendAt(hex, l) {
			return
		}
		seen[hex] = true
		out = append(out, hex)
	}
	if kind == titan.MoveNormal || kind == titan.MoveAll {
		var walk func(hex, from string, left int)
		walk = func(hex, from string, left int) {
			if left == 0 {
				add(hex)
				return
			}
			// Enemy legions stop movement.
			if hex != l.Hex && len(w.enemiesAt(hex, l.Player)) > 0 {
				return
			}
			for _, next := range w.Hexes[hex].Exits {
				if next == from {
					continue
				}
				walk(next, hex, left-1)
			}
		}
		if w.Hexes[l.Hex] != nil && roll > 0 {
			walk(l.Hex, "", roll)
		}
	}
	if (kind == titan.MoveTeleport || kind == titan.MoveAll) && roll == 6 &&
		w.Terrain(l.Hex) == titan.TerrainTower && hasLord(l) {
		for _, label := range w.sortedHexes() {
			if label == l.Hex || w.Hexes[label].Terrain != titan.TerrainTower {
				continue
			}
			if len(w.LegionsAt(label)) == 0 {
				add(label)
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasLord(l *titan.Legion) bool {
	return slices.ContainsFunc(l.Creatures, func(c *titan.CreatureType) bool { return c.IsLordOrDemiLord() })
}

func (w *World) sortedHexes() []string {
	labels := make([]string, 0, len(w.Hexes))
	for k := range w.Hexes {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

func (w *World) friendAt(hex string, l *titan.Legion) bool {
	for _, o := range w.legions {
		if o != l && o.Hex == hex && o.Player == l.Player {
			return true
		}
	}
	return false
}

func (w *World) enemiesAt(hex, player string) []*titan.Legion {
	var out []*titan.Legion
	for _, o := range w.legions {
		if o.Hex == hex && o.Player != player {
			out = append(out, o)
		}
	}
	return out
}

// Recruits follows the terrain tree: a tier is open when the legion holds
// one creature of that tier or higher, or enough of the tier below.
func (w *World) Recruits(l *titan.Legion, hex string) []*titan.CreatureType {
	if l.Height() >= 7 {
		return nil
	}
	tree := w.Trees[w.Terrain(hex)]
	var out []*titan.CreatureType
	for i, step := range tree {
		ct := w.Creatures[step.Name]
		if ct == nil || w.Caretaker[step.Name] <= 0 {
			continue
		}
		ok := step.Needed == 0
		for j := i; j < len(tree) && !ok; j++ {
			if l.Count(tree[j].Name) > 0 {
				ok = true
			}
		}
		if !ok && i > 0 && l.Count(tree[i-1].Name) >= step.Needed {
			ok = true
		}
		if ok {
			out = append(out, ct)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PointValue() < out[j].PointValue() })
	return out
}

func (w *World) Musters(name string, count int) bool {
	for _, tree := range w.Trees {
		for i := 0; i+1 < len(tree); i++ {
			if tree[i].Name == name && tree[i+1].Needed > 0 && count >= tree[i+1].Needed {
				return true
			}
		}
	}
	return false
}

// Client side.

func (w *World) record(format string, args ...any) {
	w.Commits = append(w.Commits, fmt.Sprintf(format, args...))
}

func (w *World) MoveLegion(l *titan.Legion, hex, entrySide string, teleport bool, lord string) bool {
	if w.Reject["move"] || l.Moved {
		return false
	}
	kind := titan.MoveNormal
	if teleport {
		kind = titan.MoveTeleport
	}
	if !slices.Contains(w.Moves(l, w.Roll, kind, true), hex) {
		return false
	}
	l.Hex, l.Moved, l.Teleported, l.EntrySide = hex, true, teleport, entrySide
	w.record("move %s %s %s %v %s", l.Marker, hex, entrySide, teleport, lord)
	return true
}

func (w *World) Split(parent *titan.Legion, childMarker string, creatures []*titan.CreatureType) bool {
	if w.Reject["split"] || len(creatures) < 2 || parent.Height()-len(creatures) < 2 {
		return false
	}
	if !slices.Contains(w.Markers[parent.Player], childMarker) {
		return false
	}
	rest := parent.Without(creatures)
	if rest.Height() != parent.Height()-len(creatures) {
		return false
	}
	parent.Creatures = rest.Creatures
	w.AddLegion(parent.Player, childMarker, parent.Hex)
	child := w.Legion(childMarker)
	child.Creatures = slices.Clone(creatures)
	w.record("split %s %s %d", parent.Marker, childMarker, len(creatures))
	return true
}

func (w *World) UndoSplit(parent, child *titan.Legion) bool {
	if w.Reject["undo"] || parent.Hex != child.Hex || parent.Player != child.Player {
		return false
	}
	parent.Creatures = append(parent.Creatures, child.Creatures...)
	w.RemoveLegion(child.Marker)
	w.Markers[child.Player] = append(w.Markers[child.Player], child.Marker)
	w.record("undo %s %s", parent.Marker, child.Marker)
	return true
}

func (w *World) Recruit(l *titan.Legion, recruit, recruiter string) bool {
	if w.Reject["recruit"] || l.Recruited {
		return false
	}
	idx := slices.IndexFunc(w.Recruits(l, l.Hex), func(c *titan.CreatureType) bool { return c.Name == recruit })
	if idx < 0 {
		return false
	}
	l.Creatures = append(l.Creatures, w.Creatures[recruit])
	l.Recruited = true
	w.Caretaker[recruit]--
	w.record("recruit %s %s %s", l.Marker, recruit, recruiter)
	return true
}

func (w *World) Mulligan() bool {
	if w.Mulligans[w.Active] <= 0 {
		return false
	}
	w.Mulligans[w.Active]--
	if len(w.RollSequence) > 0 {
		w.Roll, w.RollSequence = w.RollSequence[0], w.RollSequence[1:]
	} else {
		w.Roll = w.Roll%6 + 1
	}
	w.record("mulligan %d", w.Roll)
	return true
}

func (w *World) MoveCritter(tag int, hex string) bool {
	if w.Reject["critter"] || w.Field == nil {
		return false
	}
	ok := w.Field.moveCritter(tag, hex)
	if ok {
		w.record("critter %d %s", tag, hex)
	}
	return ok
}

func (w *World) Strike(tag int, targetHex string) bool {
	if w.Reject["strike"] || w.Field == nil {
		return false
	}
	ok := w.Field.strike(tag, targetHex)
	if ok {
		w.record("strike %d %s", tag, targetHex)
	}
	return ok
}

func (w *World) ApplyCarry(targetHex string) bool {
	if w.Field == nil || w.Field.CritterAt(targetHex) == nil {
		return false
	}
	w.record("carry %s", targetHex)
	return true
}

func (w *World) Option(name string) (int, bool) {
	v, ok := w.Options[name]
	return v, ok
}
