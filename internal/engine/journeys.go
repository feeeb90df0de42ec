package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
)

// advanceJourneys ticks every in-flight journey one turn and resolves
// arrivals. Journeys advance in stored order. Arrival handlers either flip
// the journey in place (to returning or awaiting_response) or leave it
// en_route, which marks it complete; handlers may also append brand-new
// return journeys, which sit out the rest of this turn.
func (rv *resolver) advanceJourneys() {
	n := len(rv.st.Journeys)
	done := make([]bool, n)

	for i := 0; i < n; i++ {
		j := rv.st.Journeys[i]
		owner := rv.st.Tribe(j.OwnerTribeID)
		if owner == nil {
			// The owning tribe is gone; the journey dissolves with it.
			done[i] = true
			continue
		}

		if j.Status == game.StatusAwaitingResponse {
			// Parked journeys do not travel; they wait out their deadline.
			switch {
			case j.Offer != nil && j.Offer.ResponseDeadline <= rv.st.Turn:
				rv.expireTradeJourney(j, owner)
			case j.Exchange != nil && j.Exchange.ResponseDeadline <= rv.st.Turn:
				rv.expireExchangeJourney(j, owner)
			}
			continue
		}

		j.ArrivalTurn--
		if j.ArrivalTurn > 0 {
			continue
		}

		if j.Status == game.StatusReturning {
			rv.completeReturn(j, owner)
			done[i] = true
			continue
		}

		switch j.Type {
		case game.JourneyMove:
			rv.arriveMove(j, owner)
		case game.JourneyAttack:
			rv.arriveAttack(j, owner)
		case game.JourneyScavenge:
			rv.arriveScavenge(j, owner)
		case game.JourneyTrade:
			rv.arriveTrade(j, owner)
		case game.JourneyScout:
			rv.arriveScout(j, owner)
		case game.JourneyBuildOutpost:
			rv.arriveBuildOutpost(j, owner)
		case game.JourneyPrisonerExchange:
			rv.arriveExchange(j, owner)
		default:
			// Unknown journey type: send the force home rather than lose it.
			startReturn(j)
		}
		if j.Status == game.StatusEnRoute {
			done[i] = true
		}
	}

	live := rv.st.Journeys[:0:0]
	for i, j := range rv.st.Journeys {
		if i < n && done[i] {
			continue
		}
		live = append(live, j)
	}
	rv.st.Journeys = live
}

// completeReturn folds a homeward journey back into its origin garrison,
// re-establishing the garrison if it lapsed while the force was away.
func (rv *resolver) completeReturn(j *game.Journey, owner *game.Tribe) {
	g := owner.EnsureGarrison(j.Origin.Key())
	mergeForce(g, j.Force)
	depositPayload(owner, g, j.Payload)

	if j.Exchange != nil {
		// The offer fell through; the prisoner goes back into custody.
		owner.Prisoners = append(owner.Prisoners, j.Exchange.Prisoner)
	}

	msg := fmt.Sprintf("party of %d returned to %s", j.Force.Troops, j.Origin.Key())
	if !j.Payload.IsZero() {
		msg += fmt.Sprintf(" carrying %s", payloadString(j.Payload))
	}
	rv.addResult(owner.ID, game.ActionResult{OK: true, Message: msg})
}
