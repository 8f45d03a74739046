// Package ai is the computer-opponent decision engine. An AI answers the
// decision requests of a rules engine: splits, masterboard moves, recruits,
// battle moves and strikes, plus the small choices in between.
//
// Boolean decision methods follow the resumable-step convention: true means
// one action was committed and the engine should call again; false means
// there is nothing left to do this phase.
package ai

import (
	"context"
	"time"

	"github.com/freeeve/titan-ai/internal/logger"
	"github.com/freeeve/titan-ai/internal/lookup"
	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/rs/zerolog"
)

// AI decides for one player.
type AI struct {
	player string
	game   titan.Game
	client titan.Client
	pers   *Personality
	w      *Weights
	log    zerolog.Logger
	hook   PositionHook
	ctx    context.Context

	source    MoveSource
	book      lookup.Service
	learn     bool
	timeLimit int
	minIters  int

	master *masterCycle
	splits *splitCycle
}

// Option configures an AI.
type Option func(*AI)

// WithLogger replaces the default player logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *AI) { a.log = l }
}

// WithContext sets the context passed to lookup services.
func WithContext(ctx context.Context) Option {
	return func(a *AI) { a.ctx = ctx }
}

// WithTimeLimit sets the search time limit in seconds, used when the engine
// does not provide the AITimeLimit option.
func WithTimeLimit(seconds int) Option {
	return func(a *AI) { a.timeLimit = seconds }
}

// WithMinIterations overrides the search iteration floor.
func WithMinIterations(n int) Option {
	return func(a *AI) { a.minIters = n }
}

// WithOpeningBook consults svc for early masterboard moves. With learn set,
// moves chosen by search on those turns are written back.
func WithOpeningBook(svc lookup.Service, learn bool) Option {
	return func(a *AI) {
		a.book = svc
		a.learn = learn
	}
}

// New creates an AI for player.
func New(player string, g titan.Game, c titan.Client, p *Personality, opts ...Option) *AI {
	a := &AI{
		player:    player,
		game:      g,
		client:    c,
		pers:      p,
		w:         &p.Weights,
		log:       logger.ForPlayer(player, p.Name),
		ctx:       context.Background(),
		timeLimit: DefaultTimeLimit,
		minIters:  MinIterations,
	}
	for _, o := range opts {
		o(a)
	}
	a.hook = p.hook(a.log)
	a.source = GeneratorSource{}
	if a.book != nil {
		a.source = &LookupSource{Service: a.book, Fallback: GeneratorSource{}, Log: a.log}
	}
	return a
}

// Player returns the player the AI decides for.
func (a *AI) Player() string { return a.player }

// Personality returns the AI's personality.
func (a *AI) Personality() *Personality { return a.pers }

// TimeLimit returns the clamped search time limit, preferring the engine's
// option over the configured value.
func (a *AI) TimeLimit() time.Duration {
	secs := a.timeLimit
	if v, ok := a.client.Option(titan.OptionAITimeLimit); ok {
		secs = v
	}
	return time.Duration(ClampTimeLimit(secs)) * time.Second
}

// cycle is the state of one decision call: its ID, deadline and memo of
// masterboard move evaluations.
type cycle struct {
	id       string
	ctx      context.Context
	log      zerolog.Logger
	deadline time.Time
	memo     map[evalKey]int
}

type evalKey struct {
	marker     string
	hex        string
	canRecruit bool
	depth      int
	risk       bool
}

func (a *AI) newCycle() *cycle {
	id := logger.NewCycleID()
	ctx := logger.WithCycleID(a.ctx, id)
	return &cycle{
		id:       id,
		ctx:      ctx,
		log:      logger.ForCycle(ctx, a.log),
		deadline: time.Now().Add(a.TimeLimit()),
		memo:     make(map[evalKey]int),
	}
}

func (a *AI) limits(cy *cycle, shuffle bool) SearchLimits {
	return SearchLimits{Deadline: cy.deadline, MinIterations: a.minIters, Shuffle: shuffle}
}

// estimate predicts att attacking def on def's hex with the personality's
// combat model.
func (a *AI) estimate(att, def *titan.Legion) Outcome {
	if a.pers.Combat != CombatSimulation {
		return EstimateOutcome(a.game, att, def, a.w)
	}
	res := a.simulate(att, def)
	av := float64(att.PointValue(a.game.TitanPower(att.Player)))
	dv := float64(def.PointValue(a.game.TitanPower(def.Player)))
	return outcomeFromSim(res, av, dv)
}

func (a *AI) simulate(att, def *titan.Legion) SimResult {
	g := a.game
	opts := SimOptions{
		AttackerTitanPower: g.TitanPower(att.Player),
		DefenderTitanPower: g.TitanPower(def.Player),
	}
	if rs := g.Recruits(def, def.Hex); len(rs) > 0 && def.Height() < 7 {
		opts.DefenderRecruit = rs[len(rs)-1]
	}
	if rs := g.Recruits(att, def.Hex); len(rs) > 0 && att.Height() < 7 {
		opts.AttackerRecruit = rs[len(rs)-1]
	}
	if donor, name := a.summonable(att); donor != nil {
		opts.AttackerAngel = g.CreatureType(name)
	}
	return SimulateCombat(att.Creatures, def.Creatures, g.Terrain(def.Hex), opts, a.w)
}

// outcomeFromSim buckets a simulated result into the five categories.
func outcomeFromSim(res SimResult, attValue, defValue float64) Outcome {
	switch {
	case res.DefenderSurvivors == 0 && res.AttackerSurvivors > 0 && res.AttackerDead <= attValue/4:
		return WinWithMinimalLosses
	case res.DefenderSurvivors == 0 && res.AttackerSurvivors > 0:
		return WinWithHeavyLosses
	case res.AttackerSurvivors > 0 && res.DefenderSurvivors > 0:
		return Draw
	case res.DefenderDead >= defValue/2:
		return LoseButInflictHeavyLosses
	}
	return Lose
}
