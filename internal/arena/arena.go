// Package arena plays AI-versus-AI games on the fixture rules engine. It is
// used to compare personalities and to fill the opening book.
package arena

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freeeve/titan-ai/internal/ai"
	"github.com/freeeve/titan-ai/internal/lookup"
	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/freeeve/titan-ai/pkg/titan/titantest"
)

// Players seated in every arena game, with their starting towers.
var seats = []struct {
	player string
	tower  string
}{
	{"Red", "100"},
	{"Blue", "400"},
}

var startingLegion = []string{"Titan", "Angel", "Ogre", "Ogre", "Centaur", "Centaur", "Gargoyle", "Gargoyle"}

// battleTurns is how many battle turns the attacker has to win.
const battleTurns = 7

// ArenaConfig configures a single AI-vs-AI game.
type ArenaConfig struct {
	Personalities map[string]*ai.Personality // player -> personality, simple when absent
	MaxTurns      int                        // cap before the game is a draw
	Seed          int64                      // 0 = random
	TimeLimit     int                        // seconds per decision
	Book          lookup.Service             // opening book written by both players, may be nil
	Log           zerolog.Logger
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	Winner  string         `json:"winner"` // player name or "" for draw
	Turns   int            `json:"turns"`
	Battles int            `json:"battles"`
	Fled    int            `json:"fled"`
	Scores  map[string]int `json:"scores"`
}

// RunGame plays one game until a titan dies or MaxTurns pass.
func RunGame(ctx context.Context, cfg ArenaConfig) (*ArenaResult, error) {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 30
	}
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	if cfg.Seed != 0 {
		ai.SeedAIRng(cfg.Seed)
		defer ai.ResetAIRng()
	}

	players := make([]string, len(seats))
	for i, s := range seats {
		players[i] = s.player
	}
	w := titantest.NewWorld(players...)
	g := &game{w: w, rng: rng, ais: make(map[string]*ai.AI), log: cfg.Log}
	for _, s := range seats {
		p := cfg.Personalities[s.player]
		if p == nil {
			var err error
			if p, err = ai.NewPersonality(ai.PersonalitySimple); err != nil {
				return nil, err
			}
		}
		w.AddLegion(s.player, w.FreeMarkers(s.player)[0], s.tower, startingLegion...)
		opts := []ai.Option{
			ai.WithContext(ctx),
			ai.WithTimeLimit(cfg.TimeLimit),
			ai.WithLogger(cfg.Log.With().Str("player", s.player).Str("personality", p.Name).Logger()),
		}
		if cfg.Book != nil {
			opts = append(opts, ai.WithOpeningBook(cfg.Book, true))
		}
		g.ais[s.player] = ai.New(s.player, w, w, p, opts...)
	}

	result := &ArenaResult{Scores: make(map[string]int)}
	for turn := 1; turn <= cfg.MaxTurns; turn++ {
		for _, p := range players {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			g.playTurn(turn, p, result)
			if loser := g.titanlessPlayer(); loser != "" {
				result.Winner = other(players, loser)
				result.Turns = turn
				g.fillScores(result)
				cfg.Log.Info().Str("winner", result.Winner).Int("turn", turn).Msg("Arena game won")
				return result, nil
			}
		}
	}
	result.Turns = cfg.MaxTurns
	g.fillScores(result)
	cfg.Log.Info().Int("turns", cfg.MaxTurns).Msg("Arena game ended as draw (turn limit)")
	return result, nil
}

type game struct {
	w   *titantest.World
	rng *rand.Rand
	ais map[string]*ai.AI
	log zerolog.Logger
}

func (g *game) playTurn(turn int, player string, result *ArenaResult) {
	w := g.w
	w.NewTurn(player, g.rng.Intn(6)+1)
	w.TurnNumber = turn
	a := g.ais[player]

	for a.Split() {
		parent, child, ok := lastSplit(w.Commits)
		if ok {
			a.SplitCallback(parent, child)
		}
	}
	for a.MasterMove() {
	}
	// Each resolved engagement leaves at most one legion on its hex.
	for hex := a.PickEngagement(); hex != ""; hex = a.PickEngagement() {
		if !g.engage(hex, player, result) {
			break
		}
	}
	a.Muster()
}

// lastSplit finds the markers of the split just recorded.
func lastSplit(commits []string) (parent, child string, ok bool) {
	if len(commits) == 0 {
		return "", "", false
	}
	f := strings.Fields(commits[len(commits)-1])
	if len(f) != 4 || f[0] != "split" {
		return "", "", false
	}
	return f[1], f[2], true
}

// engage resolves the engagement on hex, where player is attacking.
func (g *game) engage(hex, player string, result *ArenaResult) bool {
	w := g.w
	var att, def *titan.Legion
	for _, l := range w.LegionsAt(hex) {
		if l.Player == player {
			att = l
		} else {
			def = l
		}
	}
	if att == nil || def == nil {
		return false
	}
	defAI := g.ais[def.Player]
	attAI := g.ais[att.Player]

	if defAI.Flee(def, att) {
		w.Scores[att.Player] += def.PointValue(w.TitanPower(def.Player)) / 2
		w.RemoveLegion(def.Marker)
		result.Fled++
		g.log.Debug().Str("legion", def.Marker).Str("hex", hex).Msg("Legion fled")
		return true
	}
	switch {
	case defAI.Concede(def, att):
		g.award(att, def)
		return true
	case attAI.Concede(att, def):
		g.award(def, att)
		return true
	}
	result.Battles++
	g.fight(hex, att, def)
	return true
}

// award gives winner the loser's points and removes the loser.
func (g *game) award(winner, loser *titan.Legion) {
	g.w.Scores[winner.Player] += loser.PointValue(g.w.TitanPower(loser.Player))
	g.w.RemoveLegion(loser.Marker)
}

// fight plays the battle on the fixture battlefield. Both legions enter from
// their entrances; the defender wins if any of its critters survive the
// last battle turn.
func (g *game) fight(hex string, att, def *titan.Legion) {
	w := g.w
	f := titantest.NewBattlefield(w.Terrain(hex), att, def, nil)
	w.Field = f
	defer func() { w.Field = nil }()
	for _, c := range def.Creatures {
		f.AddCritter(c, false, titantest.DefenderEntrance)
	}
	for _, c := range att.Creatures {
		f.AddCritter(c, true, titantest.AttackerEntrance)
	}
	attAI, defAI := g.ais[att.Player], g.ais[def.Player]

	for turn := 1; turn <= battleTurns && sideAlive(f, true) && sideAlive(f, false); turn++ {
		g.phase(f, turn, defAI, def, false)
		if turn == 4 && sideAlive(f, false) {
			before := def.Height()
			defAI.Reinforce(def)
			if def.Height() > before {
				f.AddCritter(def.Creatures[len(def.Creatures)-1], false, titantest.DefenderEntrance)
			}
		}
		g.phase(f, turn, attAI, att, true)
	}

	attLeft, defLeft := survivors(f, true), survivors(f, false)
	// An attacker still standing at the time limit is eliminated.
	if len(defLeft) > 0 {
		attLeft = nil
	}
	g.settle(att, def, attLeft)
	g.settle(def, att, defLeft)
	g.log.Debug().Str("hex", hex).Int("attackers", len(attLeft)).Int("defenders", len(defLeft)).Msg("Battle over")
}

// phase moves and strikes for one side, then lets the other side strike back.
func (g *game) phase(f *titantest.Battlefield, turn int, a *ai.AI, l *titan.Legion, attacker bool) {
	f.NewPhase(attacker)
	f.TurnNumber = turn
	if failed := a.BattleMove(); len(failed) > 0 {
		a.RetryFailedBattleMoves(failed)
	}
	for a.Strike(l) {
	}
	enemy := g.ais[f.Defender().Player]
	el := f.Defender()
	if !attacker {
		enemy, el = g.ais[f.Attacker().Player], f.Attacker()
	}
	for enemy.Strike(el) {
	}
}

// settle shrinks l to its survivors, scoring the dead for enemy.
func (g *game) settle(l, enemy *titan.Legion, alive []*titan.CreatureType) {
	w := g.w
	if len(alive) == 0 {
		w.Scores[enemy.Player] += l.PointValue(w.TitanPower(l.Player))
		w.RemoveLegion(l.Marker)
		return
	}
	dead := l.Height() - len(alive)
	if dead > 0 {
		w.Scores[enemy.Player] += l.PointValue(w.TitanPower(l.Player)) - (&titan.Legion{Creatures: alive}).PointValue(w.TitanPower(l.Player))
	}
	l.Creatures = alive
}

func sideAlive(f *titantest.Battlefield, attacker bool) bool {
	return len(survivors(f, attacker)) > 0
}

func survivors(f *titantest.Battlefield, attacker bool) []*titan.CreatureType {
	var out []*titan.CreatureType
	for _, c := range f.Critters() {
		if c.Attacker == attacker {
			out = append(out, c.Type)
		}
	}
	return out
}

// titanlessPlayer returns a player whose titan is gone.
func (g *game) titanlessPlayer() string {
	for _, p := range g.w.Players() {
		if !slices.ContainsFunc(g.w.Legions(p), (*titan.Legion).HasTitan) {
			return p
		}
	}
	return ""
}

func (g *game) fillScores(result *ArenaResult) {
	for _, p := range g.w.Players() {
		result.Scores[p] = g.w.Score(p)
	}
}

func other(players []string, p string) string {
	for _, o := range players {
		if o != p {
			return o
		}
	}
	return ""
}

// ParsePersonalities parses "red=coward,blue=rational" (or "*=simple").
// Values naming a file ending in .yaml or .yml are loaded from disk.
func ParsePersonalities(s string) (map[string]*ai.Personality, error) {
	out := make(map[string]*ai.Personality)
	if s == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad personality entry %q", part)
		}
		p, err := loadPersonality(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, err
		}
		key := strings.TrimSpace(kv[0])
		if key == "*" {
			for _, s := range seats {
				if _, ok := out[s.player]; !ok {
					out[s.player] = p
				}
			}
			continue
		}
		matched := false
		for _, s := range seats {
			if strings.EqualFold(s.player, key) {
				out[s.player] = p
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown player %q", key)
		}
	}
	return out, nil
}

func loadPersonality(v string) (*ai.Personality, error) {
	if strings.HasSuffix(v, ".yaml") || strings.HasSuffix(v, ".yml") {
		return ai.LoadPersonalityFile(v)
	}
	return ai.NewPersonality(v)
}
