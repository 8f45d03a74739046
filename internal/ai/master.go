package ai

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/freeeve/titan-ai/internal/lookup"
	"github.com/freeeve/titan-ai/pkg/titan"
	"github.com/rs/zerolog"
)

// MasterCandidate is one destination for a legion.
type MasterCandidate struct {
	Hex      string
	Teleport bool
}

// MoveSource lists the destinations a legion may consider for a roll.
type MoveSource interface {
	Candidates(ctx context.Context, g titan.Game, l *titan.Legion, roll int) []MasterCandidate
}

// GeneratorSource asks the rules engine for normal and teleport moves.
type GeneratorSource struct{}

func (GeneratorSource) Candidates(_ context.Context, g titan.Game, l *titan.Legion, roll int) []MasterCandidate {
	var out []MasterCandidate
	seen := make(map[string]bool)
	for _, h := range g.Moves(l, roll, titan.MoveNormal, true) {
		seen[h] = true
		out = append(out, MasterCandidate{Hex: h})
	}
	for _, h := range g.Moves(l, roll, titan.MoveTeleport, true) {
		if !seen[h] {
			out = append(out, MasterCandidate{Hex: h, Teleport: true})
		}
	}
	return out
}

// openingTurns is how many turns the opening book answers.
const openingTurns = 2

// LookupSource answers early turns from an opening book, keeping only the
// stored hexes that are legal now. Misses, errors and later turns go to
// Fallback.
type LookupSource struct {
	Service  lookup.Service
	Fallback MoveSource
	Log      zerolog.Logger
}

func (s *LookupSource) Candidates(ctx context.Context, g titan.Game, l *titan.Legion, roll int) []MasterCandidate {
	legal := s.Fallback.Candidates(ctx, g, l, roll)
	if g.Turn() > openingTurns {
		return legal
	}
	key := openingKey(g, l, roll)
	hexes, err := s.Service.Lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, lookup.ErrNotFound) {
			s.Log.Debug().Err(err).Str("key", key.String()).Msg("Opening lookup failed")
		}
		return legal
	}
	var out []MasterCandidate
	for _, h := range hexes {
		if i := slices.IndexFunc(legal, func(c MasterCandidate) bool { return c.Hex == h }); i >= 0 {
			out = append(out, legal[i])
		}
	}
	if len(out) == 0 {
		return legal
	}
	return out
}

func openingKey(g titan.Game, l *titan.Legion, roll int) lookup.Key {
	return lookup.Key{Turn: g.Turn(), Hex: l.Hex, Roll: roll, Height: l.Height()}
}

type masterState int

const (
	masterNotStarted masterState = iota
	masterVoluntary
	masterForcedSplit
	masterForcedSingle
	masterDone
)

func (s masterState) String() string {
	return [...]string{"not_started", "voluntary", "forced_split", "forced_single", "done"}[s]
}

// masterCycle carries the movement phase across MasterMove calls. Only the
// phase state outlives a call; cy is replaced on every call.
type masterCycle struct {
	turn   int
	player string
	state  masterState
	cy     *cycle
	stuck  map[string]bool
}

// MasterMove commits at most one masterboard action per call: a mulligan,
// a voluntary move, a move that separates split legions sharing a hex, or
// the one move every player must make.
func (a *AI) MasterMove() bool {
	g := a.game
	mc := a.master
	if mc == nil || mc.turn != g.Turn() || mc.player != g.ActivePlayer() {
		mc = &masterCycle{turn: g.Turn(), player: g.ActivePlayer(), stuck: make(map[string]bool)}
		a.master = mc
	}
	mc.cy = a.newCycle()
	log := mc.cy.log

	for {
		switch mc.state {
		case masterNotStarted:
			mc.state = masterVoluntary
			roll := g.MovementRoll()
			if g.Turn() == 1 && (roll == 2 || roll == 5) && g.MulligansLeft(a.player) > 0 {
				if !a.client.Mulligan() {
					log.Error().Int("roll", roll).Msg("Mulligan rejected")
					mc.state = masterDone
					return false
				}
				log.Debug().Int("roll", roll).Msg("Took mulligan")
				return true
			}
		case masterVoluntary:
			best, ok := a.bestMove(mc, a.unmoved(), true)
			if !ok {
				mc.state = masterForcedSplit
				continue
			}
			return a.commitMove(mc, best)
		case masterForcedSplit:
			var crowded []*titan.Legion
			for _, l := range a.unmoved() {
				if !mc.stuck[l.Marker] && a.sharesHex(l) {
					crowded = append(crowded, l)
				}
			}
			if len(crowded) == 0 {
				mc.state = masterForcedSingle
				continue
			}
			best, ok := a.bestMove(mc, crowded, false)
			if !ok {
				for _, l := range crowded {
					mc.stuck[l.Marker] = true
				}
				log.Debug().Int("legions", len(crowded)).Msg("Split legions cannot separate")
				continue
			}
			return a.commitMove(mc, best)
		case masterForcedSingle:
			mc.state = masterDone
			if a.anyMoved() {
				continue
			}
			best, ok := a.bestMove(mc, a.unmoved(), false)
			if !ok {
				log.Debug().Msg("No legal masterboard move")
				continue
			}
			return a.commitMove(mc, best)
		default:
			return false
		}
	}
}

type plannedMove struct {
	legion    *titan.Legion
	candidate MasterCandidate
	gain      int
	value     int
}

// bestMove searches every candidate of every legion. With voluntary set,
// only moves that improve on staying put qualify.
func (a *AI) bestMove(mc *masterCycle, legions []*titan.Legion, voluntary bool) (plannedMove, bool) {
	g := a.game
	roll := g.MovementRoll()
	depth := a.w.LookaheadDepth
	var plans []plannedMove
	for _, l := range legions {
		stay := a.evaluateMove(mc.cy, l, l.Hex, false, depth, true)
		for _, c := range a.source.Candidates(mc.cy.ctx, g, l, roll) {
			plans = append(plans, plannedMove{legion: l, candidate: c, gain: -stay})
		}
	}
	best, _, stats, ok := FindBest(plans, func(p plannedMove) int {
		v := a.evaluateMove(mc.cy, p.legion, p.candidate.Hex, true, depth, true)
		return v + p.gain
	}, a.limits(mc.cy, false))
	if stats.TimedOut {
		mc.cy.log.Debug().Int("iterations", stats.Iterations).Msg("Masterboard search hit deadline")
	}
	if !ok {
		return plannedMove{}, false
	}
	best.value = a.evaluateMove(mc.cy, best.legion, best.candidate.Hex, true, depth, true)
	best.gain += best.value
	if voluntary && best.gain <= 0 {
		return plannedMove{}, false
	}
	return best, true
}

func (a *AI) commitMove(mc *masterCycle, p plannedMove) bool {
	g := a.game
	l := p.legion
	from := l.Hex
	side := a.PickEntrySide(p.candidate.Hex, l, g.EntrySides(l, p.candidate.Hex))
	lord := ""
	if p.candidate.Teleport {
		lord = teleportingLord(l)
	}
	if !a.client.MoveLegion(l, p.candidate.Hex, side, p.candidate.Teleport, lord) {
		mc.cy.log.Error().Str("legion", l.Marker).Str("hex", p.candidate.Hex).Msg("Masterboard move rejected")
		mc.state = masterDone
		return false
	}
	mc.cy.log.Debug().Str("legion", l.Marker).Str("from", from).Str("to", p.candidate.Hex).
		Int("value", p.value).Int("gain", p.gain).Msg("Moved legion")
	if a.learn && a.book != nil && g.Turn() <= openingTurns {
		key := lookup.Key{Turn: g.Turn(), Hex: from, Roll: g.MovementRoll(), Height: l.Height()}
		if err := a.book.Store(mc.cy.ctx, key, []string{p.candidate.Hex}); err != nil {
			mc.cy.log.Warn().Err(err).Msg("Store opening move")
		}
	}
	return true
}

func teleportingLord(l *titan.Legion) string {
	best := ""
	for _, c := range l.Creatures {
		if c.Titan {
			return c.Name
		}
		if c.IsLordOrDemiLord() && best == "" {
			best = c.Name
		}
	}
	return best
}

func (a *AI) unmoved() []*titan.Legion {
	var out []*titan.Legion
	for _, l := range a.game.Legions(a.player) {
		if !l.Moved {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Marker < out[j].Marker })
	return out
}

func (a *AI) anyMoved() bool {
	return slices.ContainsFunc(a.game.Legions(a.player), func(l *titan.Legion) bool { return l.Moved })
}

func (a *AI) sharesHex(l *titan.Legion) bool {
	for _, o := range a.game.LegionsAt(l.Hex) {
		if o != l && o.Player == l.Player {
			return true
		}
	}
	return false
}

func (a *AI) enemiesAt(hex string) []*titan.Legion {
	var out []*titan.Legion
	for _, l := range a.game.LegionsAt(hex) {
		if l.Player != a.player {
			out = append(out, l)
		}
	}
	return out
}

// evaluateMove scores legion l ending its move on hex. Results are memoized
// for the cycle by legion, hex, recruit flag, depth and risk flag.
func (a *AI) evaluateMove(cy *cycle, l *titan.Legion, hex string, canRecruit bool, depth int, risk bool) int {
	key := evalKey{marker: l.Marker, hex: hex, canRecruit: canRecruit, depth: depth, risk: risk}
	if v, ok := cy.memo[key]; ok {
		return v
	}
	v := a.evaluateMoveUncached(cy, l, hex, canRecruit, depth, risk)
	cy.memo[key] = v
	return v
}

func (a *AI) evaluateMoveUncached(cy *cycle, l *titan.Legion, hex string, canRecruit bool, depth int, risk bool) int {
	g := a.game
	moved := l.Clone()
	moved.Hex = hex
	value := 0

	enemies := a.enemiesAt(hex)
	if len(enemies) > 0 {
		value += a.engagementValue(moved, enemies[0])
	} else if canRecruit && moved.Height() < 7 {
		if rs := g.Recruits(moved, hex); len(rs) > 0 {
			best := rs[len(rs)-1]
			value += best.PointValue() * a.w.RecruitValueScale
			moved = moved.With(best)
		}
	}
	if risk {
		value -= a.riskAt(moved)
	}
	if depth > 0 && len(enemies) == 0 {
		total := 0
		for roll := 1; roll <= 6; roll++ {
			best := 0
			for _, next := range g.Moves(moved, roll, titan.MoveNormal, true) {
				best = max(best, a.evaluateMove(cy, moved, next, true, depth-1, false))
			}
			total += best
		}
		value += total / 12
	}
	return value
}

// engagementValue scores attacking defender with attacker.
func (a *AI) engagementValue(attacker, defender *titan.Legion) int {
	g := a.game
	ours := attacker.PointValue(g.TitanPower(attacker.Player))
	theirs := defender.PointValue(g.TitanPower(defender.Player))
	if a.pers.Combat == CombatSimulation {
		res := a.simulate(attacker, defender)
		v := int(res.Value)
		if res.AttackerSurvivors == 0 && attacker.HasTitan() {
			v += a.w.TitanLossPenalty
		}
		return v
	}
	out := a.estimate(attacker, defender)
	var v int
	switch out {
	case WinWithMinimalLosses:
		v = theirs
		if defender.HasTitan() {
			v -= a.w.TitanLossPenalty / 10
		}
	case WinWithHeavyLosses:
		v = theirs / 2
	case Draw:
		v = -ours / 2
	case LoseButInflictHeavyLosses:
		v = -ours + theirs/2
	default:
		v = -ours
	}
	if out.IsLoss() && attacker.HasTitan() {
		v += a.w.TitanLossPenalty
	}
	return v
}

// riskAt is the expected loss from enemies able to reach l next turn: for
// each enemy legion, the share of rolls that bring it onto l's hex for a
// winning attack, times l's value.
func (a *AI) riskAt(l *titan.Legion) int {
	g := a.game
	ours := float64(l.PointValue(g.TitanPower(l.Player)))
	risk := 0.0
	for _, p := range g.Players() {
		if p == a.player {
			continue
		}
		for _, e := range g.Legions(p) {
			threats := 0
			for roll := 1; roll <= 6; roll++ {
				if slices.Contains(g.Moves(e, roll, titan.MoveNormal, false), l.Hex) && a.estimate(e, l).IsWin() {
					threats++
				}
			}
			risk += float64(threats) / 6 * ours
		}
	}
	if l.HasTitan() {
		risk *= 2
	}
	return int(min(risk, 2*ours) * a.w.RiskScale)
}
