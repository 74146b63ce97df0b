package engine

// Package engine is the deterministic resolution core for the networked
// battle path. It maps a pair of simultaneously revealed actions plus
// the combatants' fixed stats to damage and heal deltas. There is no
// randomness here: both clients must be able to observe identical
// results for the same inputs.

import "github.com/veilduel/veilduel-backend/internal/battle"

// Result holds the outcome of one simultaneous action exchange.
// DamageToP1/DamageToP2 are the amounts each player takes; HealP1/HealP2
// are the amounts each player recovers.
type Result struct {
	DamageToP1 int
	DamageToP2 int
	HealP1     int
	HealP2     int
}

// Flat amounts used by the interaction table.
const (
	blockHeal     = 10
	counterRecoil = 20
	counterClash  = 30
)

// frac computes value*num/den. Integer division floors, matching the
// floor() semantics of every fractional entry in the table.
func frac(value, num, den int) int {
	return value * num / den
}

// healFraction is the portion of max health restored by a successful or
// interrupted heal: floor(maxHealth * 0.2).
func healFraction(maxHealth int) int {
	return frac(maxHealth, 1, 5)
}

// Resolve applies the 4x4 interaction table for the given action pair.
// The table is asymmetric: a1 is the row (player 1), a2 the column
// (player 2). Unknown actions yield a zero result.
func Resolve(a1, a2 battle.Action, damage1, damage2, maxHealth1, maxHealth2 int) Result {
	switch a1 {
	case battle.ActionAttack:
		switch a2 {
		case battle.ActionAttack:
			// Both land full base damage.
			return Result{DamageToP1: damage2, DamageToP2: damage1}
		case battle.ActionBlock:
			// Block reduces incoming damage to 30%.
			return Result{DamageToP2: frac(damage1, 3, 10)}
		case battle.ActionCounter:
			// Counter deals 1.5x back; the attacker still lands 50%.
			return Result{DamageToP1: frac(damage2, 3, 2), DamageToP2: frac(damage1, 1, 2)}
		case battle.ActionHeal:
			// Heal is interrupted but still restores 20% of max health.
			return Result{DamageToP2: damage1, HealP2: healFraction(maxHealth2)}
		}
	case battle.ActionBlock:
		switch a2 {
		case battle.ActionAttack:
			return Result{DamageToP1: frac(damage2, 3, 10)}
		case battle.ActionBlock:
			return Result{HealP1: blockHeal, HealP2: blockHeal}
		case battle.ActionCounter:
			// Counter finds only a guard and takes recoil.
			return Result{DamageToP2: counterRecoil}
		case battle.ActionHeal:
			return Result{HealP1: blockHeal, HealP2: healFraction(maxHealth2)}
		}
	case battle.ActionCounter:
		switch a2 {
		case battle.ActionAttack:
			return Result{DamageToP1: frac(damage2, 1, 2), DamageToP2: frac(damage1, 3, 2)}
		case battle.ActionBlock:
			return Result{DamageToP1: counterRecoil}
		case battle.ActionCounter:
			return Result{DamageToP1: counterClash, DamageToP2: counterClash}
		case battle.ActionHeal:
			// The counter finds nothing; the heal succeeds.
			return Result{HealP2: healFraction(maxHealth2)}
		}
	case battle.ActionHeal:
		switch a2 {
		case battle.ActionAttack:
			return Result{DamageToP1: damage2, HealP1: healFraction(maxHealth1)}
		case battle.ActionBlock:
			return Result{HealP1: healFraction(maxHealth1), HealP2: blockHeal}
		case battle.ActionCounter:
			return Result{HealP1: healFraction(maxHealth1)}
		case battle.ActionHeal:
			return Result{HealP1: healFraction(maxHealth1), HealP2: healFraction(maxHealth2)}
		}
	}
	return Result{}
}

// ApplyHealth computes the post-turn health for one combatant, clamped
// to [0, maxHealth].
func ApplyHealth(before, damageTaken, healReceived, maxHealth int) int {
	h := before - damageTaken + healReceived
	if h < 0 {
		return 0
	}
	if h > maxHealth {
		return maxHealth
	}
	return h
}
