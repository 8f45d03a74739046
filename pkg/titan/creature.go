// Package titan defines the game-state surface the AI decision engine reads:
// creature types, legions, battle critters and hexes, plus the query and
// commit interfaces implemented by the surrounding rules engine.
package titan

import "slices"

// Hazard is a battle-board hex hazard.
type Hazard string

const (
	HazardPlains   Hazard = "Plains"
	HazardTree     Hazard = "Tree"
	HazardBrambles Hazard = "Brambles"
	HazardBog      Hazard = "Bog"
	HazardSand     Hazard = "Sand"
	HazardDrift    Hazard = "Drift"
	HazardVolcano  Hazard = "Volcano"
	HazardTower    Hazard = "Tower"
	HazardLake     Hazard = "Lake"
	HazardStone    Hazard = "Stone"
)

// Blocks reports whether the hazard cannot be entered by walking creatures
// that are not native to it.
func (h Hazard) Blocks() bool {
	return h == HazardTree || h == HazardLake || h == HazardStone
}

// Terrain is a masterboard terrain type.
type Terrain string

const (
	TerrainPlains    Terrain = "Plains"
	TerrainTower     Terrain = "Tower"
	TerrainAbyss     Terrain = "Abyss"
	TerrainMarsh     Terrain = "Marsh"
	TerrainSwamp     Terrain = "Swamp"
	TerrainBrush     Terrain = "Brush"
	TerrainJungle    Terrain = "Jungle"
	TerrainHills     Terrain = "Hills"
	TerrainWoods     Terrain = "Woods"
	TerrainMountains Terrain = "Mountains"
	TerrainDesert    Terrain = "Desert"
	TerrainTundra    Terrain = "Tundra"
)

// NativeHazard returns the battle hazard that dominates the battle map of
// the terrain. Plains-like terrains return HazardPlains.
func (t Terrain) NativeHazard() Hazard {
	switch t {
	case TerrainMarsh, TerrainSwamp:
		return HazardBog
	case TerrainBrush, TerrainJungle:
		return HazardBrambles
	case TerrainHills, TerrainWoods:
		return HazardTree
	case TerrainMountains:
		return HazardVolcano
	case TerrainDesert:
		return HazardSand
	case TerrainTundra:
		return HazardDrift
	case TerrainTower:
		return HazardTower
	}
	return HazardPlains
}

// CreatureType is the immutable description of one kind of creature.
type CreatureType struct {
	Name         string
	Power        int
	Skill        int
	Flier        bool
	Rangestrikes bool
	MagicMissile bool
	Titan        bool
	Lord         bool
	DemiLord     bool
	Summonable   bool
	Natives      []Hazard
	MaxCount     int
}

// PointValue is power times skill. Titans use their base power here; callers
// that know the owner's titan power use PointValueWith.
func (c *CreatureType) PointValue() int {
	return c.Power * c.Skill
}

// PointValueWith returns the point value using titanPower for titans.
func (c *CreatureType) PointValueWith(titanPower int) int {
	return c.EffectivePower(titanPower) * c.Skill
}

// EffectivePower returns titanPower for titans (when positive) and the
// printed power otherwise.
func (c *CreatureType) EffectivePower(titanPower int) int {
	if c.Titan && titanPower > 0 {
		return titanPower
	}
	return c.Power
}

// IsNative reports whether the creature is native to the hazard.
func (c *CreatureType) IsNative(h Hazard) bool {
	return slices.Contains(c.Natives, h)
}

// IsNativeTerrain reports whether the creature is native to the dominant
// hazard of a masterboard terrain.
func (c *CreatureType) IsNativeTerrain(t Terrain) bool {
	h := t.NativeHazard()
	if h == HazardPlains || h == HazardTower {
		return false
	}
	return c.IsNative(h)
}

// IsLordOrDemiLord reports whether the creature counts as a lord for
// teleporting and rangestrike immunity.
func (c *CreatureType) IsLordOrDemiLord() bool {
	return c.Titan || c.Lord || c.DemiLord
}

// DefaultCreatures returns the standard creature set keyed by name.
func DefaultCreatures() map[string]*CreatureType {
	list := []*CreatureType{
		{Name: "Titan", Power: 6, Skill: 4, Titan: true, Lord: true, MaxCount: 6},
		{Name: "Angel", Power: 6, Skill: 4, Flier: true, Lord: true, Summonable: true, MaxCount: 18},
		{Name: "Archangel", Power: 9, Skill: 4, Flier: true, Lord: true, Summonable: true, MaxCount: 6},
		{Name: "Centaur", Power: 3, Skill: 4, MaxCount: 25},
		{Name: "Gargoyle", Power: 4, Skill: 3, Flier: true, Natives: []Hazard{HazardBrambles}, MaxCount: 21},
		{Name: "Ogre", Power: 6, Skill: 2, Natives: []Hazard{HazardBog}, MaxCount: 25},
		{Name: "Lion", Power: 5, Skill: 3, Natives: []Hazard{HazardSand}, MaxCount: 28},
		{Name: "Troll", Power: 8, Skill: 2, Natives: []Hazard{HazardBog, HazardDrift}, MaxCount: 28},
		{Name: "Cyclops", Power: 9, Skill: 2, Natives: []Hazard{HazardBrambles}, MaxCount: 28},
		{Name: "Ranger", Power: 4, Skill: 4, Flier: true, Rangestrikes: true, Natives: []Hazard{HazardBog}, MaxCount: 28},
		{Name: "Gorgon", Power: 6, Skill: 3, Flier: true, Rangestrikes: true, Natives: []Hazard{HazardBrambles}, MaxCount: 25},
		{Name: "Warbear", Power: 6, Skill: 3, Natives: []Hazard{HazardTree, HazardDrift}, MaxCount: 21},
		{Name: "Minotaur", Power: 4, Skill: 4, Rangestrikes: true, Natives: []Hazard{HazardSand}, MaxCount: 21},
		{Name: "Griffon", Power: 5, Skill: 4, Flier: true, Natives: []Hazard{HazardSand}, MaxCount: 18},
		{Name: "Unicorn", Power: 12, Skill: 3, Natives: []Hazard{HazardTree}, MaxCount: 12},
		{Name: "Wyvern", Power: 7, Skill: 3, Flier: true, Natives: []Hazard{HazardBog}, MaxCount: 18},
		{Name: "Behemoth", Power: 8, Skill: 3, Natives: []Hazard{HazardBrambles}, MaxCount: 18},
		{Name: "Dragon", Power: 9, Skill: 3, Flier: true, Rangestrikes: true, Natives: []Hazard{HazardVolcano}, MaxCount: 18},
		{Name: "Giant", Power: 7, Skill: 4, Rangestrikes: true, Natives: []Hazard{HazardDrift}, MaxCount: 18},
		{Name: "Colossus", Power: 10, Skill: 4, Natives: []Hazard{HazardDrift}, MaxCount: 10},
		{Name: "Hydra", Power: 10, Skill: 3, Rangestrikes: true, Natives: []Hazard{HazardBog, HazardSand}, MaxCount: 10},
		{Name: "Serpent", Power: 18, Skill: 2, Natives: []Hazard{HazardBrambles}, MaxCount: 10},
		{Name: "Guardian", Power: 12, Skill: 2, Flier: true, DemiLord: true, MaxCount: 6},
		{Name: "Warlock", Power: 5, Skill: 4, Rangestrikes: true, MagicMissile: true, DemiLord: true, MaxCount: 6},
	}
	out := make(map[string]*CreatureType, len(list))
	for _, c := range list {
		out[c.Name] = c
	}
	return out
}
