package ai

import (
	"github.com/freeeve/titan-ai/pkg/titan"
)

// Flee decides whether defending legion l runs from enemy. Titans never
// flee. The legion flees when the enemy's expected outcome reaches the
// personality's flee threshold, or one category lower when a full kill
// would hand the enemy an angel that half points would not, or a recruit
// worth at least the half points a flight concedes. A legion that can still
// recruit a reinforcement stays unless the rout is total.
func (a *AI) Flee(l, enemy *titan.Legion) bool {
	if l == nil || enemy == nil || l.HasTitan() {
		return false
	}
	out := a.estimate(enemy, l)
	threshold := a.w.FleeAtEnemyOutcome
	if out < threshold && !(out == threshold-1 && (a.givesAngel(enemy, l) || a.deniesRecruit(enemy, l))) {
		return false
	}
	if out < WinWithMinimalLosses && a.canReinforce(l) {
		return false
	}
	return true
}

// givesAngel reports whether killing l would carry the enemy's score past
// an angel threshold that the half points of a flight would not reach.
func (a *AI) givesAngel(enemy, l *titan.Legion) bool {
	interval := a.w.AngelPointsInterval
	if interval <= 0 {
		return false
	}
	score := a.game.Score(enemy.Player)
	value := l.PointValue(a.game.TitanPower(l.Player))
	full := (score + value) / interval
	half := (score + value/2) / interval
	return full > score/interval && half == score/interval
}

// deniesRecruit reports whether the best recruit enemy could take on l's hex
// after winning is worth at least the half points it gets from a flight.
func (a *AI) deniesRecruit(enemy, l *titan.Legion) bool {
	rs := a.game.Recruits(enemy, l.Hex)
	if len(rs) == 0 {
		return false
	}
	return rs[len(rs)-1].PointValue()*2 >= l.PointValue(a.game.TitanPower(l.Player))
}

func (a *AI) canReinforce(l *titan.Legion) bool {
	return !l.Recruited && l.Height() < 7 && len(a.game.Recruits(l, l.Hex)) > 0
}

// Concede decides whether l gives up the battle against enemy. Titans never
// concede. Only a large legion that is expected to lose while doing little
// damage, relative to the enemy's value, concedes.
func (a *AI) Concede(l, enemy *titan.Legion) bool {
	if l == nil || enemy == nil || l.HasTitan() || l.Height() < a.w.ConcedeMinHeight {
		return false
	}
	g := a.game
	attacking := l.Player == g.ActivePlayer()
	var res SimResult
	var lost bool
	if attacking {
		res = a.simulate(l, enemy)
		lost = a.estimate(l, enemy) == Lose
	} else {
		res = a.simulate(enemy, l)
		lost = a.estimate(enemy, l) == WinWithMinimalLosses
	}
	if !lost {
		return false
	}
	damage := res.AttackerDead
	if attacking {
		damage = res.DefenderDead
	}
	enemyValue := float64(enemy.PointValue(g.TitanPower(enemy.Player)))
	if enemyValue <= 0 {
		return false
	}
	return damage/enemyValue < a.w.ConcedeMaxDamageRatio
}
