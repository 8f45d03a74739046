package titan

// MoveKind selects which destinations Game.Moves reports.
type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveTeleport
	MoveAll
)

// Game answers masterboard queries. Implemented by the rules engine.
type Game interface {
	Turn() int
	ActivePlayer() string
	Players() []string
	Score(player string) int
	Legions(player string) []*Legion
	LegionsAt(hex string) []*Legion
	Legion(marker string) *Legion
	Terrain(hex string) Terrain
	MovementRoll() int
	MulligansLeft(player string) int
	// Moves lists the hexes the legion can reach with roll. When
	// excludeFriends is set, hexes occupied by the owner's other legions are
	// left out.
	Moves(l *Legion, roll int, kind MoveKind, excludeFriends bool) []string
	// Recruits lists the creatures the legion may recruit in hex, ordered
	// ascending by value. The last element is the best recruit.
	Recruits(l *Legion, hex string) []*CreatureType
	// Musters reports whether count creatures of the named type can recruit
	// something somewhere on their own.
	Musters(name string, count int) bool
	TitanPower(player string) int
	CreatureType(name string) *CreatureType
	Available(name string) int
	EntrySides(l *Legion, hex string) []string
	FreeMarkers(player string) []string
	Battle() Battle
}

// Battle answers battle-board queries for the battle in progress. Queries
// read each critter's current Hex, so callers may relocate critters
// temporarily to probe a hypothetical position.
type Battle interface {
	Turn() int
	Terrain() Terrain
	Attacker() *Legion
	Defender() *Legion
	AttackerActive() bool
	Critters() []*Critter
	CritterAt(hex string) *Critter
	Hex(label string) *BattleHex
	EntranceHex(attacker bool) string
	// Moves lists the hexes the critter can reach this phase, excluding its
	// current hex. With ignoreMobileAllies, allies that have not moved yet
	// do not block.
	Moves(c *Critter, ignoreMobileAllies bool) []string
	StrikeTargets(c *Critter) []*Critter
	RangestrikeTargets(c *Critter) []*Critter
	StrikeNumber(striker, target *Critter) int
	Dice(striker, target *Critter) int
	Range(from, to string) int
	HazardDamage(c *Critter, hex string) int
}

// Client commits decisions to the rules engine. Every method reports whether
// the engine accepted the action.
type Client interface {
	MoveLegion(l *Legion, hex, entrySide string, teleport bool, teleportingLord string) bool
	Split(parent *Legion, childMarker string, creatures []*CreatureType) bool
	UndoSplit(parent, child *Legion) bool
	Recruit(l *Legion, recruit, recruiter string) bool
	Mulligan() bool
	MoveCritter(tag int, hex string) bool
	Strike(tag int, targetHex string) bool
	ApplyCarry(targetHex string) bool
	// Option returns an integer game option such as the AI time limit.
	Option(name string) (int, bool)
}

// OptionAITimeLimit is the option name holding the AI time limit in seconds.
const OptionAITimeLimit = "AITimeLimit"
