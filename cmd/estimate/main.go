// Command estimate prints the AI's combat estimates for two legions.
//
// Usage:
//
//	go run ./cmd/estimate/ --attacker Titan,Ogre,Ogre --defender Troll,Troll --terrain Marsh
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/titan-ai/internal/ai"
	"github.com/freeeve/titan-ai/internal/config"
	"github.com/freeeve/titan-ai/internal/logger"
	"github.com/freeeve/titan-ai/pkg/titan"
)

type options struct {
	attacker    string
	defender    string
	terrain     string
	titanPower  int
	personality string
	file        string
}

func main() {
	logger.Init()
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.attacker, "attacker", "", "Attacking creatures, comma separated")
	flag.StringVar(&opts.defender, "defender", "", "Defending creatures, comma separated")
	flag.StringVar(&opts.terrain, "terrain", string(titan.TerrainPlains), "Masterboard terrain of the defender's hex")
	flag.IntVar(&opts.titanPower, "titan-power", 6, "Titan power for both players")
	flag.StringVar(&opts.personality, "personality", cfg.Personality, "Built-in personality")
	flag.StringVar(&opts.file, "personality-file", cfg.PersonalityFile, "YAML personality, overrides -personality")
	flag.Parse()

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Estimate failed")
	}
}

func run(opts options, out io.Writer) error {
	p, err := loadPersonality(opts)
	if err != nil {
		return err
	}
	all := titan.DefaultCreatures()
	att, err := parseCreatures(opts.attacker, all)
	if err != nil {
		return fmt.Errorf("attacker: %w", err)
	}
	def, err := parseCreatures(opts.defender, all)
	if err != nil {
		return fmt.Errorf("defender: %w", err)
	}
	terrain, err := parseTerrain(opts.terrain)
	if err != nil {
		return err
	}
	log.Debug().Str("personality", p.Name).Int("attackers", len(att)).Int("defenders", len(def)).Msg("Estimating")

	av := ai.LegionCombatValue(att, terrain, opts.titanPower)
	dv := ai.LegionCombatValue(def, terrain, opts.titanPower)
	outcome := ai.ClassifyOutcome(av, dv, terrain, &p.Weights)
	sim := ai.SimulateCombat(att, def, terrain, ai.SimOptions{
		AttackerTitanPower: opts.titanPower,
		DefenderTitanPower: opts.titanPower,
	}, &p.Weights)

	fmt.Fprintf(out, "personality: %s\n", p.Name)
	fmt.Fprintf(out, "terrain:     %s\n", terrain)
	fmt.Fprintf(out, "ratio:       %.1f vs %.1f -> %s\n", av, dv, outcome)
	fmt.Fprintf(out, "simulation:  value %.1f, attacker lost %.1f (%d left), defender lost %.1f (%d left)\n",
		sim.Value, sim.AttackerDead, sim.AttackerSurvivors, sim.DefenderDead, sim.DefenderSurvivors)
	return nil
}

func loadPersonality(opts options) (*ai.Personality, error) {
	if opts.file != "" {
		return ai.LoadPersonalityFile(opts.file)
	}
	return ai.NewPersonality(opts.personality)
}

func parseCreatures(s string, all map[string]*titan.CreatureType) ([]*titan.CreatureType, error) {
	var out []*titan.CreatureType
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ct := lookupCreature(name, all)
		if ct == nil {
			return nil, fmt.Errorf("unknown creature %q", name)
		}
		out = append(out, ct)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no creatures given")
	}
	return out, nil
}

func lookupCreature(name string, all map[string]*titan.CreatureType) *titan.CreatureType {
	for n, ct := range all {
		if strings.EqualFold(n, name) {
			return ct
		}
	}
	return nil
}

var terrains = []titan.Terrain{
	titan.TerrainPlains, titan.TerrainTower, titan.TerrainAbyss, titan.TerrainMarsh,
	titan.TerrainSwamp, titan.TerrainBrush, titan.TerrainJungle, titan.TerrainHills,
	titan.TerrainWoods, titan.TerrainMountains, titan.TerrainDesert, titan.TerrainTundra,
}

func parseTerrain(s string) (titan.Terrain, error) {
	for _, t := range terrains {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown terrain %q", s)
}
