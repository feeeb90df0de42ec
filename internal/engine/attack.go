package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// chiefCaptureChance is the per-chief probability that a losing side's chief
// is taken prisoner rather than escaping injured.
const chiefCaptureChance = 0.25

// injuredChiefRecoveryTurns is how long an escaped chief convalesces.
const injuredChiefRecoveryTurns = 3

func (rv *resolver) execAttack(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Attack
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	destKey := to.Key()
	if holder, _ := rv.st.GarrisonAt(destKey); holder != nil {
		if holder.ID == t.ID {
			return failed(act, "cannot attack your own garrison")
		}
		if t.RelationWith(holder.ID).Status == game.StatusAlliance {
			return failed(act, fmt.Sprintf("%s is an ally; break the alliance first", holder.Name))
		}
	}
	force, err := detachForce(g, o.Troops, o.Weapons, o.Chiefs)
	if err != nil {
		return failed(act, err.Error())
	}

	// Adjacent targets are hit this turn; anything further needs a journey
	// that resolves combat on arrival against whatever holds the hex then.
	if world.Distance(from, to) <= 1 {
		rv.resolveAttackAt(t, force, from, to, 1)
		return succeeded(act, fmt.Sprintf("war party struck %s", destKey), nil)
	}
	travel := rv.env.travelTurns(t, from, to)
	rv.newJourney(t, game.JourneyAttack, from, to, force, travel)
	return succeeded(act, fmt.Sprintf("war party of %d marching on %s, arriving in %d turns", force.Troops, destKey, travel), nil)
}

// arriveAttack resolves a traveling war party reaching its target.
func (rv *resolver) arriveAttack(j *game.Journey, owner *game.Tribe) {
	rv.resolveAttackAt(owner, j.Force, j.Origin, j.Destination, j.TravelTurns)
}

// resolveAttackAt runs combat at dest between the attacking force and the
// current holder. The defender may have changed since the order was given;
// the fight is against whoever is there now, and an empty hex is simply
// occupied.
func (rv *resolver) resolveAttackAt(att *game.Tribe, force game.Force, origin, dest world.HexCoord, travel int) {
	destKey := dest.Key()
	def, defG := rv.st.GarrisonAt(destKey)

	if def == nil || def.ID == att.ID {
		// Nothing to fight: occupy (or reinforce our own hex).
		mergeForce(att.EnsureGarrison(destKey), force)
		att.Explore(world.KeysInRange(dest, 1)...)
		rv.addResult(att.ID, game.ActionResult{
			Type: game.ActionAttack, OK: true,
			Message: fmt.Sprintf("%s was undefended; %d troops occupied it", destKey, force.Troops),
		})
		return
	}

	if att.RelationWith(def.ID).Status == game.StatusAlliance {
		// The target became an ally mid-flight; stand down and go home.
		j := rv.newJourney(att, game.JourneyReturn, origin, dest, force, travel)
		startReturn(j)
		rv.addResult(att.ID, game.ActionResult{
			Type: game.ActionAttack, OK: false,
			Message: fmt.Sprintf("war party stood down at %s: %s is now an ally", destKey, def.Name),
		})
		return
	}

	// Open combat makes the war official on both sides.
	rv.setRelation(att, def, game.DiplomaticRelation{Status: game.StatusWar})

	hex := rv.st.Map.Get(dest)
	ctx := CombatContext{
		AttackBonus:  rv.env.bonus(att, catalog.EffectCombatAttack),
		DefenseBonus: rv.env.bonus(def, catalog.EffectCombatDefense),
		IsHomeBase:   dest == def.HomeBase,
	}
	if hex != nil {
		ctx.TerrainDefenseBonus = hex.Terrain.DefenseBonus()
		if hex.POI != nil && hex.POI.Type == world.POIOutpost && hex.POI.OwnerTribeID == def.ID {
			ctx.IsOutpost = hex.POI.DefenseActive(rv.st.Turn)
		}
	}

	rep := ResolveCombat(force, game.Force{Troops: defG.Troops, Weapons: defG.Weapons, Chiefs: defG.Chiefs}, ctx, rv.env.Rand)

	defG.Troops -= rep.DefenderLosses
	defG.Weapons -= rep.DefenderWeaponLosses
	survivors := game.Force{
		Troops:  force.Troops - rep.AttackerLosses,
		Weapons: force.Weapons - rep.AttackerWeaponLosses,
		Chiefs:  force.Chiefs,
	}

	attackerDelta := &game.ResourceDelta{Troops: -rep.AttackerLosses, Weapons: -rep.AttackerWeaponLosses}
	defenderDelta := &game.ResourceDelta{Troops: -rep.DefenderLosses, Weapons: -rep.DefenderWeaponLosses}

	switch {
	case rep.AttackerWins && defG.Troops <= 0:
		// Garrison destroyed: the hex changes hands.
		rv.scatterChiefs(def, defG.Chiefs, att, destKey)
		defG.Chiefs = nil
		delete(def.Garrisons, destKey)
		if hex != nil && hex.POI != nil && hex.POI.OwnerTribeID == def.ID {
			hex.POI.OwnerTribeID = att.ID
		}
		mergeForce(att.EnsureGarrison(destKey), survivors)
		att.Explore(world.KeysInRange(dest, 1)...)
		rv.addResult(att.ID, game.ActionResult{
			Type: game.ActionAttack, OK: true, Delta: attackerDelta,
			Message: fmt.Sprintf("took %s from %s, losing %d troops", destKey, def.Name, rep.AttackerLosses),
		})
		rv.addResult(def.ID, game.ActionResult{
			Type: game.ActionAttack, OK: false, Delta: defenderDelta,
			Message: fmt.Sprintf("%s overran our garrison at %s; %d troops lost", att.Name, destKey, rep.DefenderLosses),
		})

	case rep.AttackerWins:
		// Won the field but the garrison held on; the party heads home.
		rv.returnSurvivors(att, survivors, origin, dest, travel)
		rv.addResult(att.ID, game.ActionResult{
			Type: game.ActionAttack, OK: true, Delta: attackerDelta,
			Message: fmt.Sprintf("bloodied %s at %s but could not take the hex; party returning", def.Name, destKey),
		})
		rv.addResult(def.ID, game.ActionResult{
			Type: game.ActionAttack, OK: true, Delta: defenderDelta,
			Message: fmt.Sprintf("held %s against %s at a cost of %d troops", destKey, att.Name, rep.DefenderLosses),
		})

	default:
		// Attack repelled. Captured or injured chiefs stay behind.
		var escaped []game.Chief
		for _, c := range survivors.Chiefs {
			if rv.env.Rand.Float() < chiefCaptureChance {
				def.Prisoners = append(def.Prisoners, game.Prisoner{Chief: c, FromTribeID: att.ID})
				rv.addResult(att.ID, game.ActionResult{
					Type: game.ActionAttack, OK: false,
					Message: fmt.Sprintf("%s was captured by %s", c.Name, def.Name),
				})
			} else {
				escaped = append(escaped, c)
			}
		}
		survivors.Chiefs = escaped
		rv.returnSurvivors(att, survivors, origin, dest, travel)
		rv.addResult(att.ID, game.ActionResult{
			Type: game.ActionAttack, OK: false, Delta: attackerDelta,
			Message: fmt.Sprintf("assault on %s was repelled; %d troops lost", destKey, rep.AttackerLosses),
		})
		rv.addResult(def.ID, game.ActionResult{
			Type: game.ActionAttack, OK: true, Delta: defenderDelta,
			Message: fmt.Sprintf("repelled %s at %s, losing %d troops", att.Name, destKey, rep.DefenderLosses),
		})
	}
}

// returnSurvivors sends what is left of a war party back to its origin.
// A wiped-out party leaves nothing to send.
func (rv *resolver) returnSurvivors(t *game.Tribe, survivors game.Force, origin, dest world.HexCoord, travel int) {
	if survivors.Troops <= 0 && len(survivors.Chiefs) == 0 {
		return
	}
	if survivors.Troops < 0 {
		survivors.Troops = 0
	}
	if survivors.Weapons < 0 {
		survivors.Weapons = 0
	}
	j := rv.newJourney(t, game.JourneyReturn, origin, dest, survivors, travel)
	startReturn(j)
}

// scatterChiefs handles a destroyed garrison's chiefs: each is either taken
// prisoner by the victor or escapes injured, rejoining home after recovery.
func (rv *resolver) scatterChiefs(loser *game.Tribe, chiefs []game.Chief, victor *game.Tribe, fromHex string) {
	for _, c := range chiefs {
		if rv.env.Rand.Float() < chiefCaptureChance {
			victor.Prisoners = append(victor.Prisoners, game.Prisoner{Chief: c, FromTribeID: loser.ID})
			rv.addResult(loser.ID, game.ActionResult{
				Type: game.ActionAttack, OK: false,
				Message: fmt.Sprintf("%s was taken prisoner at %s", c.Name, fromHex),
			})
		} else {
			loser.InjuredChiefs = append(loser.InjuredChiefs, game.InjuredChief{
				Chief:      c,
				FromHex:    fromHex,
				ReturnTurn: rv.st.Turn + injuredChiefRecoveryTurns,
			})
			rv.addResult(loser.ID, game.ActionResult{
				Type: game.ActionAttack, OK: false,
				Message: fmt.Sprintf("%s escaped %s wounded and needs time to recover", c.Name, fromHex),
			})
		}
	}
}
