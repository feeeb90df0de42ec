package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
)

// exchangeResponseWindow is how many turns an envoy waits at its destination
// for an answer before heading home with the prisoner.
const exchangeResponseWindow = 5

// repatriationDelayTurns is how long after an accepted peace prisoners held
// between the two parties stay in custody before their scheduled release.
const repatriationDelayTurns = 2

func (rv *resolver) execProposeExchange(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Exchange
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	if o.Ransom.Negative() {
		return failed(act, "ransom amounts cannot be negative")
	}
	idx := -1
	for i, p := range t.Prisoners {
		if p.Chief.Name == o.Prisoner {
			idx = i
			break
		}
	}
	if idx < 0 {
		return failed(act, fmt.Sprintf("no prisoner named %q is held", o.Prisoner))
	}
	prisoner := t.Prisoners[idx]
	holder, _ := rv.st.GarrisonAt(o.To)
	if holder == nil || holder.ID != prisoner.FromTribeID {
		return failed(act, fmt.Sprintf("%s's tribe holds no garrison at %s", prisoner.Chief.Name, o.To))
	}

	escort := o.Troops
	if escort <= 0 {
		escort = 1
	}
	force, err := detachForce(g, escort, 0, nil)
	if err != nil {
		return failed(act, err.Error())
	}
	t.Prisoners = append(t.Prisoners[:idx], t.Prisoners[idx+1:]...)

	travel := rv.env.travelTurns(t, from, to)
	j := rv.newJourney(t, game.JourneyPrisonerExchange, from, to, force, travel)
	j.Exchange = &game.ExchangeOffer{
		Prisoner:         prisoner,
		RequestChief:     o.RequestChief,
		Ransom:           o.Ransom,
		ResponseDeadline: rv.st.Turn + travel + exchangeResponseWindow,
	}
	return succeeded(act, fmt.Sprintf("envoy escorting %s bound for %s", prisoner.Chief.Name, o.To), nil)
}

// arriveExchange parks the envoy at the destination awaiting an answer. If
// the prisoner's tribe no longer holds the hex, the envoy heads home.
func (rv *resolver) arriveExchange(j *game.Journey, owner *game.Tribe) {
	destKey := j.Destination.Key()
	holder, _ := rv.st.GarrisonAt(destKey)
	if holder == nil || holder.ID != j.Exchange.Prisoner.FromTribeID {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionProposePrisonerExchange, OK: false,
			Message: fmt.Sprintf("envoy found no one to treat with at %s; returning", destKey),
		})
		return
	}
	j.Status = game.StatusAwaitingResponse
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionProposePrisonerExchange, OK: true,
		Message: fmt.Sprintf("envoy reached %s and awaits %s's answer", destKey, holder.Name),
	})
	rv.addResult(holder.ID, game.ActionResult{
		Type: game.ActionProposePrisonerExchange, OK: true,
		Message: fmt.Sprintf("%s offers to return %s for %s at %s (respond by turn %d)",
			owner.Name, j.Exchange.Prisoner.Chief.Name, exchangeTermsString(j.Exchange), destKey, j.Exchange.ResponseDeadline),
	})
}

func (rv *resolver) execRespondToExchange(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.ExchangeResponse
	j := rv.st.Journey(o.JourneyID)
	if j == nil || j.Type != game.JourneyPrisonerExchange || j.Status != game.StatusAwaitingResponse {
		return failed(act, "no envoy is awaiting a response under that id")
	}
	partner, pg := rv.st.GarrisonAt(j.Destination.Key())
	if partner == nil || partner.ID != t.ID {
		return failed(act, "that envoy is not waiting at one of your garrisons")
	}
	owner := rv.st.Tribe(j.OwnerTribeID)
	if owner == nil {
		startReturn(j)
		return failed(act, "the sending tribe no longer exists")
	}
	offer := j.Exchange

	if !o.Accept {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionProposePrisonerExchange, OK: false,
			Message: fmt.Sprintf("%s refused the exchange; envoy returning with %s", t.Name, offer.Prisoner.Chief.Name),
		})
		return succeeded(act, fmt.Sprintf("refused the exchange offered by %s", owner.Name), nil)
	}

	ransom := offer.Ransom
	if t.Global.Food < ransom.Food || t.Global.Scrap < ransom.Scrap || pg.Weapons < ransom.Weapons {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionProposePrisonerExchange, OK: false,
			Message: fmt.Sprintf("%s could not raise the ransom; envoy returning", t.Name),
		})
		return failed(act, "cannot cover the ransom; the envoy departs")
	}

	counterIdx := -1
	if offer.RequestChief != "" {
		for i, p := range t.Prisoners {
			if p.FromTribeID == owner.ID && p.Chief.Name == offer.RequestChief {
				counterIdx = i
				break
			}
		}
		if counterIdx < 0 {
			startReturn(j)
			rv.addResult(owner.ID, game.ActionResult{
				Type: game.ActionProposePrisonerExchange, OK: false,
				Message: fmt.Sprintf("%s does not hold %s; envoy returning", t.Name, offer.RequestChief),
			})
			return failed(act, fmt.Sprintf("%s is not among the prisoners held here", offer.RequestChief))
		}
	}

	// Handover: the freed chief rejoins this garrison; the ransom and any
	// counter-chief travel home with the envoy.
	t.Global.Food -= ransom.Food
	t.Global.Scrap -= ransom.Scrap
	pg.Weapons -= ransom.Weapons
	pg.Chiefs = append(pg.Chiefs, offer.Prisoner.Chief)
	j.Payload = ransom
	if counterIdx >= 0 {
		counter := t.Prisoners[counterIdx]
		t.Prisoners = append(t.Prisoners[:counterIdx], t.Prisoners[counterIdx+1:]...)
		j.Force.Chiefs = append(j.Force.Chiefs, counter.Chief)
	}
	freed := offer.Prisoner.Chief.Name
	j.Exchange = nil
	startReturn(j)

	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionProposePrisonerExchange, OK: true,
		Message: fmt.Sprintf("%s accepted the exchange; envoy returning with the settlement", t.Name),
	})
	return succeeded(act, fmt.Sprintf("ransomed %s back from %s", freed, owner.Name),
		&game.ResourceDelta{Food: -ransom.Food, Scrap: -ransom.Scrap, Weapons: -ransom.Weapons})
}

// expireExchangeJourney handles an envoy whose response deadline lapsed.
func (rv *resolver) expireExchangeJourney(j *game.Journey, owner *game.Tribe) {
	startReturn(j)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionProposePrisonerExchange, OK: false,
		Message: fmt.Sprintf("no answer came at %s; envoy bringing %s home", j.Destination.Key(), j.Exchange.Prisoner.Chief.Name),
	})
}

// schedulePrisonerRelease marks every prisoner taken from the given tribe
// for release, keeping any earlier schedule already in place.
func schedulePrisonerRelease(holder *game.Tribe, fromTribeID string, turn int) {
	for i, p := range holder.Prisoners {
		if p.FromTribeID != fromTribeID {
			continue
		}
		if p.ReleaseTurn == 0 || p.ReleaseTurn > turn {
			holder.Prisoners[i].ReleaseTurn = turn
		}
	}
}

func exchangeTermsString(offer *game.ExchangeOffer) string {
	terms := payloadString(offer.Ransom)
	if offer.RequestChief != "" {
		if offer.Ransom.IsZero() {
			return fmt.Sprintf("the return of %s", offer.RequestChief)
		}
		terms += fmt.Sprintf(" and the return of %s", offer.RequestChief)
	}
	return terms
}
