package engine

import (
	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
)

// A weapon multiplies a fraction of one troop's effectiveness; weapons
// beyond one per troop contribute nothing.
const weaponStrengthWeight = 0.5

// CombatContext carries the terrain and fortification situation at the
// defended hex plus each side's passive combat bonuses.
type CombatContext struct {
	TerrainDefenseBonus float64
	IsOutpost           bool
	IsHomeBase          bool
	AttackBonus         float64 // attacker tech/asset bonus
	DefenseBonus        float64 // defender tech/asset bonus
}

// CombatReport is the outcome of one battle. Losses never exceed the
// corresponding force's pre-battle counts.
type CombatReport struct {
	AttackerWins bool

	AttackerLosses int
	DefenderLosses int

	AttackerWeaponLosses int
	DefenderWeaponLosses int
}

// effectiveStrength computes a force's combat weight. Each weapon arms at
// most one troop at half weight beyond the troop's own contribution.
func effectiveStrength(f game.Force) float64 {
	armed := f.Weapons
	if armed > f.Troops {
		armed = f.Troops
	}
	return float64(f.Troops) + weaponStrengthWeight*float64(armed)
}

// ResolveCombat decides a winner and computes bounded stochastic casualties.
//
// The only randomness is one +-5% variance multiplier per side (plus a
// tie-break roll when varied strengths land exactly equal); everything else
// is a pure function of the inputs.
//
// Fortifications deliberately INCREASE lethality for both sides: storming a
// walled outpost means close-quarter fighting with nowhere to run, and a
// home base defense is even more desperate. This is the intended design,
// not a modifier sign error.
func ResolveCombat(att, def game.Force, ctx CombatContext, r entropy.Source) CombatReport {
	// A side with no troops cannot fight; the other side wins outright
	// without the casualty formula (which would divide by zero).
	if att.Troops <= 0 && def.Troops <= 0 {
		return CombatReport{AttackerWins: false}
	}
	if def.Troops <= 0 {
		return CombatReport{AttackerWins: true}
	}
	if att.Troops <= 0 {
		return CombatReport{AttackerWins: false}
	}

	atkEff := effectiveStrength(att) * (1 + ctx.AttackBonus) * (0.95 + r.Float()*0.10)
	defEff := effectiveStrength(def) * (1 + ctx.TerrainDefenseBonus + ctx.DefenseBonus) * (0.95 + r.Float()*0.10)

	if atkEff == defEff {
		// Equal even after variance: perturb so there is never a draw.
		if r.Float() < 0.5 {
			atkEff *= 1.01
		} else {
			defEff *= 1.01
		}
	}

	attackerWins := atkEff > defEff
	ratio := atkEff / defEff

	// Closeness in (0, 1]: 1 = dead even. Near-parity fights are bloodier
	// for both sides; lopsided wins are decisive, with a bonus casualty
	// multiplier on the loser proportional to the winner's margin.
	closeness := ratio
	if closeness > 1 {
		closeness = 1 / closeness
	}
	marginBonus := 0.25 * (1/closeness - 1)
	if marginBonus > 0.5 {
		marginBonus = 0.5
	}

	loserFrac := 0.30 + 0.45*closeness + marginBonus
	winnerFrac := 0.12 + 0.28*closeness

	lethality := 1.0
	if ctx.IsHomeBase {
		lethality = 1.5
	} else if ctx.IsOutpost {
		lethality = 1.25
	}
	loserFrac *= lethality
	winnerFrac *= lethality

	var atkFrac, defFrac float64
	if attackerWins {
		atkFrac, defFrac = winnerFrac, loserFrac
	} else {
		atkFrac, defFrac = loserFrac, winnerFrac
	}

	rep := CombatReport{AttackerWins: attackerWins}
	rep.AttackerLosses = casualties(att.Troops, atkFrac)
	rep.DefenderLosses = casualties(def.Troops, defFrac)
	rep.AttackerWeaponLosses = weaponLosses(att.Weapons, rep.AttackerLosses)
	rep.DefenderWeaponLosses = weaponLosses(def.Weapons, rep.DefenderLosses)
	return rep
}

// casualties floors frac*troops, keeps at least 1 loss whenever combat
// occurred, and never exceeds the force size.
func casualties(troops int, frac float64) int {
	if frac > 1 {
		frac = 1
	}
	lost := int(frac * float64(troops))
	if lost < 1 {
		lost = 1
	}
	if lost > troops {
		lost = troops
	}
	return lost
}

// weaponLosses caps at half the troop losses and the actual weapon count.
func weaponLosses(weapons, troopLosses int) int {
	lost := troopLosses / 2
	if lost > weapons {
		lost = weapons
	}
	return lost
}
