package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

const outpostScrapCost = 30

// scoutRevealRadius is how far around its target a scouting party sees.
const scoutRevealRadius = 2

// newJourney registers a new in-flight journey owned by the tribe.
func (rv *resolver) newJourney(t *game.Tribe, typ game.JourneyType, from, to world.HexCoord, force game.Force, travel int) *game.Journey {
	j := &game.Journey{
		ID:           stableID("journey", rv.st.Turn, t.ID, rv.nextSeq()),
		Type:         typ,
		OwnerTribeID: t.ID,
		Origin:       from,
		Destination:  to,
		Force:        force,
		ArrivalTurn:  travel,
		TravelTurns:  travel,
		Status:       game.StatusEnRoute,
	}
	rv.st.Journeys = append(rv.st.Journeys, j)
	return j
}

// startReturn flips a journey at its destination into the homeward leg,
// symmetric in length with the outbound trip.
func startReturn(j *game.Journey) {
	j.Status = game.StatusReturning
	j.ArrivalTurn = j.TravelTurns
}

func (rv *resolver) execMove(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Move
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	if o.From == o.To {
		return failed(act, "destination is the origin")
	}
	force, err := detachForce(g, o.Troops, o.Weapons, o.Chiefs)
	if err != nil {
		return failed(act, err.Error())
	}
	travel := rv.env.travelTurns(t, from, to)
	rv.newJourney(t, game.JourneyMove, from, to, force, travel)
	return succeeded(act, fmt.Sprintf("%d troops marched for %s, arriving in %d turns", force.Troops, o.To, travel), nil)
}

func (rv *resolver) execScout(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Scout
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	force, err := detachForce(g, o.Troops, 0, nil)
	if err != nil {
		return failed(act, err.Error())
	}
	travel := rv.env.travelTurns(t, from, to)
	rv.newJourney(t, game.JourneyScout, from, to, force, travel)
	return succeeded(act, fmt.Sprintf("scouting party of %d headed for %s", force.Troops, o.To), nil)
}

func (rv *resolver) execBuildOutpost(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.BuildOutpost
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	if t.Global.Scrap < outpostScrapCost {
		return failed(act, fmt.Sprintf("building an outpost costs %d scrap, only %d on hand", outpostScrapCost, t.Global.Scrap))
	}
	destHex := rv.st.Map.Get(to)
	if destHex.POI != nil {
		return failed(act, fmt.Sprintf("%s already holds a %s", o.To, world.POIName(destHex.POI.Type)))
	}
	force, err := detachForce(g, o.Troops, 0, nil)
	if err != nil {
		return failed(act, err.Error())
	}
	t.Global.Scrap -= outpostScrapCost
	travel := rv.env.travelTurns(t, from, to)
	rv.newJourney(t, game.JourneyBuildOutpost, from, to, force, travel)
	return succeeded(act, fmt.Sprintf("construction crew of %d en route to %s", force.Troops, o.To),
		&game.ResourceDelta{Scrap: -outpostScrapCost})
}

// arriveMove merges a movement force into the destination, unless another
// tribe holds the hex, in which case the force turns back.
func (rv *resolver) arriveMove(j *game.Journey, owner *game.Tribe) {
	destKey := j.Destination.Key()
	holder, _ := rv.st.GarrisonAt(destKey)
	if holder != nil && holder.ID != owner.ID {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionMove, OK: false,
			Message: fmt.Sprintf("march to %s found the hex held by %s; turning back", destKey, holder.Name),
		})
		return
	}
	mergeForce(owner.EnsureGarrison(destKey), j.Force)
	owner.Explore(world.KeysInRange(j.Destination, 1)...)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionMove, OK: true,
		Message: fmt.Sprintf("%d troops arrived at %s", j.Force.Troops, destKey),
	})
}

// arriveScout reveals terrain around the target and sends the party home.
func (rv *resolver) arriveScout(j *game.Journey, owner *game.Tribe) {
	owner.Explore(world.KeysInRange(j.Destination, scoutRevealRadius)...)
	startReturn(j)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionScout, OK: true,
		Message: fmt.Sprintf("scouts mapped the land around %s", j.Destination.Key()),
	})
}

// arriveBuildOutpost raises a fortification if the hex is still unclaimed;
// otherwise the crew turns back and the scrap is refunded on return.
func (rv *resolver) arriveBuildOutpost(j *game.Journey, owner *game.Tribe) {
	destKey := j.Destination.Key()
	destHex := rv.st.Map.Get(j.Destination)
	holder, _ := rv.st.GarrisonAt(destKey)
	claimed := destHex == nil || destHex.POI != nil || (holder != nil && holder.ID != owner.ID)
	if claimed {
		j.Payload.Scrap += outpostScrapCost
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionBuildOutpost, OK: false,
			Message: fmt.Sprintf("%s was claimed before the crew arrived; returning with materials", destKey),
		})
		return
	}
	destHex.POI = &world.POI{
		Type:         world.POIOutpost,
		Rarity:       1,
		OwnerTribeID: owner.ID,
		Fortified:    true,
	}
	mergeForce(owner.EnsureGarrison(destKey), j.Force)
	owner.Explore(world.KeysInRange(j.Destination, 1)...)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionBuildOutpost, OK: true,
		Message: fmt.Sprintf("outpost raised at %s", destKey),
	})
}
