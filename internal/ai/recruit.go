package ai

import (
	"slices"
	"sort"
	"strings"

	"github.com/freeeve/titan-ai/pkg/titan"
)

// Muster recruits into every legion that moved this turn and may recruit.
// A rejected recruit is logged and the remaining legions are still tried.
func (a *AI) Muster() {
	cy := a.newCycle()
	legions := a.game.Legions(a.player)
	sort.Slice(legions, func(i, j int) bool { return legions[i].Marker < legions[j].Marker })
	for _, l := range legions {
		if !l.Moved || l.Recruited || l.Height() >= 7 {
			continue
		}
		if len(a.enemiesAt(l.Hex)) > 0 {
			continue
		}
		a.recruitInto(cy, l)
	}
}

// Reinforce recruits into a defending legion during battle.
func (a *AI) Reinforce(l *titan.Legion) {
	if l == nil || l.Recruited || l.Height() >= 7 {
		return
	}
	a.recruitInto(a.newCycle(), l)
}

func (a *AI) recruitInto(cy *cycle, l *titan.Legion) {
	recruit, recruiter := a.chooseRecruit(l, l.Hex)
	if recruit == nil {
		return
	}
	if !a.client.Recruit(l, recruit.Name, recruiter) {
		cy.log.Error().Str("legion", l.Marker).Str("recruit", recruit.Name).Msg("Recruit rejected")
		return
	}
	cy.log.Debug().Str("legion", l.Marker).Str("recruit", recruit.Name).Str("recruiter", recruiter).Msg("Recruited")
}

// chooseRecruit picks the personality's hinted recruit or the best one,
// and names a recruiter: a creature of the same type when present, else
// the strongest non-lord.
func (a *AI) chooseRecruit(l *titan.Legion, hex string) (*titan.CreatureType, string) {
	g := a.game
	recruits := g.Recruits(l, hex)
	if len(recruits) == 0 {
		return nil, ""
	}
	recruit := a.pers.recruitHint(g, g.Terrain(hex), recruits, a.log)
	if l.Count(recruit.Name) > 0 {
		return recruit, recruit.Name
	}
	recruiter := ""
	bestValue := -1
	for _, c := range l.Creatures {
		if c.IsLordOrDemiLord() {
			continue
		}
		if v := c.PointValue(); v > bestValue {
			recruiter, bestValue = c.Name, v
		}
	}
	return recruit, recruiter
}

// AcquireAngel picks the most valuable of the offered creatures that the
// caretaker still has, or "" when the legion is full.
func (a *AI) AcquireAngel(l *titan.Legion, choices []string) string {
	if l == nil || l.Height() >= 7 {
		return ""
	}
	best, bestValue := "", -1
	for _, name := range choices {
		ct := a.game.CreatureType(name)
		if ct == nil || a.game.Available(name) <= 0 {
			continue
		}
		if v := ct.PointValue(); v > bestValue {
			best, bestValue = name, v
		}
	}
	return best
}

// SummonAngel picks a donor legion and the summonable creature to bring
// into l's battle. Both are empty when nothing can be summoned.
func (a *AI) SummonAngel(l *titan.Legion) (donor, creature string) {
	if l == nil || l.Height() >= 7 {
		return "", ""
	}
	d, name := a.summonable(l)
	if d == nil {
		return "", ""
	}
	return d.Marker, name
}

// summonable finds the most valuable summonable creature in another
// unengaged legion of l's owner. Ties go to the taller donor.
func (a *AI) summonable(l *titan.Legion) (*titan.Legion, string) {
	var donor *titan.Legion
	name, bestValue := "", -1
	for _, o := range a.game.Legions(l.Player) {
		if o.Marker == l.Marker || !o.HasSummonable() || o.Height() < 2 {
			continue
		}
		if slices.ContainsFunc(a.game.LegionsAt(o.Hex), func(x *titan.Legion) bool { return x.Player != l.Player }) {
			continue
		}
		for _, c := range o.Creatures {
			if !c.Summonable {
				continue
			}
			v := c.PointValue()
			if v > bestValue || (v == bestValue && donor != nil && o.Height() > donor.Height()) {
				donor, name, bestValue = o, c.Name, v
			}
		}
	}
	return donor, name
}

// entrySidePreference orders battle-map entry sides.
var entrySidePreference = []string{"Bottom", "Left", "Right"}

// PickEntrySide chooses where a legion enters the battle map at hex.
func (a *AI) PickEntrySide(hex string, l *titan.Legion, sides []string) string {
	if len(sides) == 0 {
		return ""
	}
	for _, s := range entrySidePreference {
		if slices.Contains(sides, s) {
			return s
		}
	}
	return sides[0]
}

// PickEngagement returns the contested hex to resolve next: the one with
// the best expected outcome for the active player, larger prizes first on
// ties. It returns "" when there is no engagement.
func (a *AI) PickEngagement() string {
	g := a.game
	type engagement struct {
		hex     string
		outcome Outcome
		prize   int
	}
	var list []engagement
	seen := make(map[string]bool)
	for _, l := range g.Legions(a.player) {
		if seen[l.Hex] {
			continue
		}
		enemies := a.enemiesAt(l.Hex)
		if len(enemies) == 0 {
			continue
		}
		seen[l.Hex] = true
		e := enemies[0]
		list = append(list, engagement{
			hex:     l.Hex,
			outcome: a.estimate(l, e),
			prize:   e.PointValue(g.TitanPower(e.Player)),
		})
	}
	if len(list) == 0 {
		return ""
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].outcome != list[j].outcome {
			return list[i].outcome > list[j].outcome
		}
		return list[i].prize > list[j].prize
	})
	return list[0].hex
}

// PickColor returns the first favorite still available, else the first
// available color.
func (a *AI) PickColor(available, favorites []string) string {
	for _, f := range favorites {
		for _, c := range available {
			if strings.EqualFold(c, f) {
				return c
			}
		}
	}
	if len(available) == 0 {
		return ""
	}
	return available[0]
}

// PickMarker returns the lowest marker with the preferred prefix, else the
// lowest marker.
func (a *AI) PickMarker(markers []string, prefix string) string {
	if len(markers) == 0 {
		return ""
	}
	sorted := slices.Clone(markers)
	sort.Strings(sorted)
	if prefix != "" {
		for _, m := range sorted {
			if strings.HasPrefix(m, prefix) {
				return m
			}
		}
	}
	return sorted[0]
}
