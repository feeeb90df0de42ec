package engine

import (
	"fmt"
	"math"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

func (rv *resolver) execScavenge(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Scavenge
	switch o.Resource {
	case "food", "scrap", "weapons":
	default:
		return failed(act, fmt.Sprintf("cannot scavenge for %q", o.Resource))
	}
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	destHex := rv.st.Map.Get(to)
	if destHex.POI == nil {
		return failed(act, fmt.Sprintf("nothing to scavenge at %s", o.To))
	}
	if destHex.POI.Type == world.POIOutpost {
		return failed(act, "outposts cannot be scavenged")
	}
	force, err := detachForce(g, o.Troops, 0, nil)
	if err != nil {
		return failed(act, err.Error())
	}
	travel := rv.env.travelTurns(t, from, to)
	j := rv.newJourney(t, game.JourneyScavenge, from, to, force, travel)
	j.ScavengeFor = o.Resource
	return succeeded(act, fmt.Sprintf("%d scavengers bound for the %s at %s", force.Troops, world.POIName(destHex.POI.Type), o.To), nil)
}

// arriveScavenge rolls the yield, depletes the POI, and sends the party
// home with its haul. A POI stripped bare before arrival sends the party
// back empty-handed.
func (rv *resolver) arriveScavenge(j *game.Journey, owner *game.Tribe) {
	destHex := rv.st.Map.Get(j.Destination)
	if destHex == nil || destHex.POI == nil || destHex.POI.Durability <= 0 {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionScavenge, OK: false,
			Message: fmt.Sprintf("the site at %s was picked clean; party returning empty-handed", j.Destination.Key()),
		})
		return
	}
	poi := destHex.POI
	base := scavengeBaseYield(poi.Type, j.ScavengeFor)
	if base == 0 {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionScavenge, OK: false,
			Message: fmt.Sprintf("no %s to be found at the %s at %s", j.ScavengeFor, world.POIName(poi.Type), j.Destination.Key()),
		})
		return
	}

	// Yield scales sublinearly with party size; rarity and tech multiply.
	crew := math.Pow(float64(j.Force.Troops), 0.75)
	bonus := 1 + rv.env.bonus(owner, catalog.EffectScavengeYield)
	amount := int(base * poi.Rarity * crew * bonus * rv.env.variance())
	if amount < 1 {
		amount = 1
	}

	switch j.ScavengeFor {
	case "food":
		j.Payload.Food += amount
	case "scrap":
		j.Payload.Scrap += amount
	case "weapons":
		j.Payload.Weapons += amount
	}

	rv.depletePOI(destHex)
	startReturn(j)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionScavenge, OK: true,
		Message: fmt.Sprintf("scavengers pulled %d %s from %s; hauling it home", amount, j.ScavengeFor, j.Destination.Key()),
	})
}

// scavengeBaseYield is the per-trip base for a resource at a POI type.
// Zero means the site simply does not hold that resource.
func scavengeBaseYield(t world.POIType, resource string) float64 {
	type yields struct{ food, scrap, weapons float64 }
	var y yields
	switch t {
	case world.POIRuins:
		y = yields{food: 4, scrap: 8, weapons: 1}
	case world.POIVault:
		y = yields{food: 6, scrap: 15, weapons: 3}
	case world.POIFactory:
		y = yields{scrap: 10, weapons: 4}
	case world.POIMine:
		y = yields{scrap: 12}
	case world.POIFoodSource:
		y = yields{food: 12}
	case world.POIBattlefield:
		y = yields{scrap: 6, weapons: 5}
	case world.POIResearchLab:
		y = yields{scrap: 5}
	case world.POISettlement:
		y = yields{food: 8, scrap: 5}
	case world.POIBanditCamp:
		y = yields{scrap: 4, weapons: 2}
	}
	switch resource {
	case "food":
		return y.food
	case "scrap":
		return y.scrap
	case "weapons":
		return y.weapons
	}
	return 0
}

// depletePOI spends one unit of durability. An exhausted site collapses
// into picked-over ruins; exhausted ruins disappear entirely.
func (rv *resolver) depletePOI(hex *world.Hex) {
	poi := hex.POI
	poi.Durability--
	if poi.Durability > 0 {
		return
	}
	if poi.Type == world.POIRuins {
		hex.POI = nil
		return
	}
	hex.POI = &world.POI{Type: world.POIRuins, Rarity: 0.6, Durability: 3}
}
