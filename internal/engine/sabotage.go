package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// outpostDisableTurns is how long a sabotaged fortification stays dark.
const outpostDisableTurns = 3

func (rv *resolver) execSabotage(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Sabotage
	from, target, g, reason := rv.resolveHexes(t, o.From, o.Target)
	if reason != "" {
		return failed(act, reason)
	}
	victim, vg := rv.st.GarrisonAt(o.Target)
	if victim == nil {
		return failed(act, fmt.Sprintf("no garrison to sabotage at %s", o.Target))
	}
	if victim.ID == t.ID {
		return failed(act, "cannot sabotage your own garrison")
	}
	if t.RelationWith(victim.ID).Status == game.StatusAlliance {
		return failed(act, fmt.Sprintf("%s is an ally", victim.Name))
	}
	if o.Operatives <= 0 {
		return failed(act, "a sabotage run needs at least 1 operative")
	}
	force, err := detachForce(g, o.Operatives, 0, o.Chiefs)
	if err != nil {
		return failed(act, err.Error())
	}

	// Success and detection are independent bounded rolls. Operatives help,
	// chiefs help more, tech helps, distance hurts.
	dist := world.Distance(from, target)
	successChance := clampChance(0.45 +
		0.04*float64(force.Troops) +
		0.10*float64(len(force.Chiefs)) +
		rv.env.bonus(t, catalog.EffectSabotage) -
		0.03*float64(dist))
	detectChance := clampChance(0.35 - 0.05*float64(len(force.Chiefs)))

	success := rv.env.Rand.Float() < successChance
	detected := rv.env.Rand.Float() < detectChance

	switch {
	case success && !detected:
		msg, delta := rv.applySabotageEffect(t, victim, vg, o, force)
		mergeForce(g, force)
		return succeeded(act, fmt.Sprintf("sabotage at %s succeeded unseen: %s", o.Target, msg), delta)

	case success && detected:
		msg, delta := rv.applySabotageEffect(t, victim, vg, o, force)
		mergeForce(g, force)
		rv.addResult(victim.ID, game.ActionResult{
			Type: game.ActionSabotage, OK: false,
			Message: fmt.Sprintf("saboteurs from %s struck our garrison at %s", t.Name, o.Target),
		})
		return succeeded(act, fmt.Sprintf("sabotage at %s succeeded but the operatives were seen: %s", o.Target, msg), delta)

	case !success && !detected:
		mergeForce(g, force)
		return failed(act, fmt.Sprintf("operatives found no opening at %s and slipped away", o.Target))

	default: // failed and detected: the team is rolled up
		for _, c := range force.Chiefs {
			victim.Prisoners = append(victim.Prisoners, game.Prisoner{Chief: c, FromTribeID: t.ID})
		}
		rv.addResult(victim.ID, game.ActionResult{
			Type: game.ActionSabotage, OK: true,
			Message: fmt.Sprintf("caught saboteurs from %s at %s", t.Name, o.Target),
		})
		return failed(act, fmt.Sprintf("the operation at %s was blown; %d operatives captured", o.Target, force.Troops))
	}
}

// applySabotageEffect performs the objective's state change and reports it.
func (rv *resolver) applySabotageEffect(t, victim *game.Tribe, vg *game.Garrison, o *game.SabotageOrder, force game.Force) (string, *game.ResourceDelta) {
	switch o.Objective {
	case game.SabotageStealFood:
		amount := 5 * force.Troops
		if amount > victim.Global.Food {
			amount = victim.Global.Food
		}
		victim.Global.Food -= amount
		t.Global.Food += amount
		return fmt.Sprintf("made off with %d food", amount), &game.ResourceDelta{Food: amount}

	case game.SabotageStealScrap:
		amount := 5 * force.Troops
		if amount > victim.Global.Scrap {
			amount = victim.Global.Scrap
		}
		victim.Global.Scrap -= amount
		t.Global.Scrap += amount
		return fmt.Sprintf("made off with %d scrap", amount), &game.ResourceDelta{Scrap: amount}

	case game.SabotageDestroyWeapons:
		amount := 2 * force.Troops
		if amount > vg.Weapons {
			amount = vg.Weapons
		}
		vg.Weapons -= amount
		return fmt.Sprintf("wrecked %d weapons", amount), nil

	case game.SabotageDisableOutpost:
		hex := rv.st.Map.GetKey(o.Target)
		if hex == nil || hex.POI == nil || !hex.POI.Fortified {
			return "found no fortification to disable", nil
		}
		hex.POI.DisabledUntilTurn = rv.st.Turn + outpostDisableTurns
		return fmt.Sprintf("disabled the fortification until turn %d", hex.POI.DisabledUntilTurn), nil

	case game.SabotageGatherIntel:
		t.Explore(world.KeysInRange(mustCoords(o.Target), 2)...)
		return fmt.Sprintf("mapped the area and counted %d troops and %d weapons", vg.Troops, vg.Weapons), nil

	default:
		return "accomplished nothing of note", nil
	}
}

func clampChance(p float64) float64 {
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}

// mustCoords parses a key already validated upstream.
func mustCoords(key string) world.HexCoord {
	c, err := world.ParseCoords(key)
	if err != nil {
		panic(fmt.Sprintf("invalid coordinate key %q reached execution: %v", key, err))
	}
	return c
}
