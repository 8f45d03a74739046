package ai

import (
	"fmt"
	"os"
	"slices"

	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CombatModel selects how masterboard engagements are estimated.
type CombatModel string

const (
	// CombatRatio classifies by combat-value ratio.
	CombatRatio CombatModel = "ratio"
	// CombatSimulation runs the round simulation.
	CombatSimulation CombatModel = "simulation"
)

// GeneratorMode selects the battle move generator.
type GeneratorMode string

const (
	GeneratorBounded GeneratorMode = "bounded"
	GeneratorLazy    GeneratorMode = "lazy"
)

// Personality is a named weights table plus the strategy choices that set
// AI variants apart.
type Personality struct {
	Name          string                   `yaml:"name"`
	Base          string                   `yaml:"base,omitempty"`
	Weights       Weights                  `yaml:"weights"`
	Combat        CombatModel              `yaml:"combat"`
	Generator     GeneratorMode            `yaml:"generator"`
	Objectives    bool                     `yaml:"objectives"`
	Reachability  bool                     `yaml:"reachability"`
	RecruitHints  map[titan.Terrain]string `yaml:"recruit_hints,omitempty"`
	PositionRules []PositionRule           `yaml:"position_rules,omitempty"`
}

// Built-in personality names.
const (
	PersonalitySimple       = "simple"
	PersonalityCoward       = "coward"
	PersonalityRational     = "rational"
	PersonalityExperimental = "experimental"
)

// Personalities lists the built-in personality names.
func Personalities() []string {
	return []string{PersonalitySimple, PersonalityCoward, PersonalityRational, PersonalityExperimental}
}

// NewPersonality returns a built-in personality.
func NewPersonality(name string) (*Personality, error) {
	p := &Personality{
		Name:         name,
		Weights:      DefaultWeights(),
		Combat:       CombatRatio,
		Generator:    GeneratorBounded,
		Reachability: true,
	}
	switch name {
	case PersonalitySimple:
	case PersonalityCoward:
		p.Weights = cowardWeights()
	case PersonalityRational:
		p.Combat = CombatSimulation
	case PersonalityExperimental:
		p.Generator = GeneratorLazy
		p.Objectives = true
	default:
		return nil, fmt.Errorf("unknown personality %q", name)
	}
	return p, nil
}

// ParsePersonality overlays YAML onto the built-in personality named by
// its base field (simple when absent). Fields the document omits keep the
// base values.
func ParsePersonality(data []byte) (*Personality, error) {
	var head struct {
		Name string `yaml:"name"`
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse personality: %w", err)
	}
	base := head.Base
	if base == "" {
		base = PersonalitySimple
	}
	p, err := NewPersonality(base)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse personality: %w", err)
	}
	if p.Name == "" {
		p.Name = base
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	rules, err := compileRules(p.PositionRules)
	if err != nil {
		return nil, fmt.Errorf("personality %s: %w", p.Name, err)
	}
	p.PositionRules = rules
	return p, nil
}

// LoadPersonalityFile reads a YAML personality from disk.
func LoadPersonalityFile(path string) (*Personality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personality %s: %w", path, err)
	}
	return ParsePersonality(data)
}

// Marshal writes the personality as YAML.
func (p *Personality) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

func (p *Personality) validate() error {
	if !slices.Contains([]CombatModel{CombatRatio, CombatSimulation}, p.Combat) {
		return fmt.Errorf("personality %s: unknown combat model %q", p.Name, p.Combat)
	}
	if !slices.Contains([]GeneratorMode{GeneratorBounded, GeneratorLazy}, p.Generator) {
		return fmt.Errorf("personality %s: unknown generator %q", p.Name, p.Generator)
	}
	w := p.Weights
	if !(w.WinWithMinimalLossesRatio >= w.WinWithHeavyLossesRatio &&
		w.WinWithHeavyLossesRatio >= w.DrawRatio &&
		w.DrawRatio >= w.LoseButInflictHeavyLossesRatio) {
		return fmt.Errorf("personality %s: outcome thresholds must be descending", p.Name)
	}
	return nil
}

// hook builds the whole-position hook for this personality.
func (p *Personality) hook(log zerolog.Logger) PositionHook {
	var hooks CompositeHook
	if p.Reachability {
		hooks = append(hooks, ReachabilityHook)
	}
	if p.Objectives {
		hooks = append(hooks, ObjectiveHook)
	}
	if len(p.PositionRules) > 0 {
		hooks = append(hooks, RuleHook{Rules: p.PositionRules, Log: log})
	}
	if len(hooks) == 0 {
		return nil
	}
	return hooks
}

// recruitHint picks the hinted recruit for terrain among the eligible
// recruits (ascending by value). A hint naming an unknown creature is
// logged and ignored; without a usable hint the best recruit is chosen.
func (p *Personality) recruitHint(g titan.Game, terrain titan.Terrain, recruits []*titan.CreatureType, log zerolog.Logger) *titan.CreatureType {
	if len(recruits) == 0 {
		return nil
	}
	best := recruits[len(recruits)-1]
	name, ok := p.RecruitHints[terrain]
	if !ok || name == "" {
		return best
	}
	if g.CreatureType(name) == nil {
		log.Warn().Str("terrain", string(terrain)).Str("hint", name).Msg("Recruit hint names unknown creature")
		return best
	}
	for _, r := range recruits {
		if r.Name == name {
			return r
		}
	}
	return best
}
