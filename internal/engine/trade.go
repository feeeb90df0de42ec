package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
)

// tradeResponseWindow is how many turns a caravan waits at its destination
// before giving up and heading home with its goods.
const tradeResponseWindow = 5

func (rv *resolver) execTrade(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Trade
	from, to, g, reason := rv.resolveHexes(t, o.From, o.To)
	if reason != "" {
		return failed(act, reason)
	}
	partner, _ := rv.st.GarrisonAt(o.To)
	if partner == nil {
		return failed(act, fmt.Sprintf("no one holds %s to trade with", o.To))
	}
	if partner.ID == t.ID {
		return failed(act, "cannot open trade with yourself; use a move order to shift goods")
	}
	if t.RelationWith(partner.ID).Status == game.StatusWar {
		return failed(act, fmt.Sprintf("no caravan will travel to %s while at war", partner.Name))
	}
	if o.Give.Negative() || o.Request.Negative() || o.Recurring < 0 {
		return failed(act, "trade amounts cannot be negative")
	}
	if o.Give.IsZero() {
		return failed(act, "a trade caravan needs goods to carry")
	}
	if t.Global.Food < o.Give.Food || t.Global.Scrap < o.Give.Scrap {
		return failed(act, "insufficient stockpile to load the caravan")
	}
	if g.Weapons < o.Give.Weapons {
		return failed(act, "not enough weapons at the garrison to load")
	}

	guards := o.Troops
	if guards <= 0 {
		guards = 1
	}
	force, err := detachForce(g, guards, 0, nil)
	if err != nil {
		return failed(act, err.Error())
	}
	t.Global.Food -= o.Give.Food
	t.Global.Scrap -= o.Give.Scrap
	g.Weapons -= o.Give.Weapons

	travel := rv.env.travelTurns(t, from, to)
	j := rv.newJourney(t, game.JourneyTrade, from, to, force, travel)
	j.Payload = o.Give
	j.Offer = &game.TradeOffer{
		Request:          o.Request,
		ResponseDeadline: rv.st.Turn + travel + tradeResponseWindow,
		Recurring:        o.Recurring,
	}
	return succeeded(act,
		fmt.Sprintf("caravan bound for %s offering %s for %s", o.To, payloadString(o.Give), payloadString(o.Request)),
		&game.ResourceDelta{Food: -o.Give.Food, Scrap: -o.Give.Scrap, Weapons: -o.Give.Weapons})
}

// arriveTrade parks the caravan at the destination awaiting a response. If
// the partner's garrison dissolved mid-flight, the caravan heads home.
func (rv *resolver) arriveTrade(j *game.Journey, owner *game.Tribe) {
	destKey := j.Destination.Key()
	partner, _ := rv.st.GarrisonAt(destKey)
	if partner == nil || partner.ID == owner.ID {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionTrade, OK: false,
			Message: fmt.Sprintf("caravan found no trading partner at %s; returning", destKey),
		})
		return
	}
	j.Status = game.StatusAwaitingResponse
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionTrade, OK: true,
		Message: fmt.Sprintf("caravan reached %s and awaits %s's answer", destKey, partner.Name),
	})
	rv.addResult(partner.ID, game.ActionResult{
		Type: game.ActionTrade, OK: true,
		Message: fmt.Sprintf("a caravan from %s offers %s for %s at %s (respond by turn %d)",
			owner.Name, payloadString(j.Payload), payloadString(j.Offer.Request), destKey, j.Offer.ResponseDeadline),
	})
}

func (rv *resolver) execRespondToTrade(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.TradeResponse
	j := rv.st.Journey(o.JourneyID)
	if j == nil || j.Type != game.JourneyTrade || j.Status != game.StatusAwaitingResponse {
		return failed(act, "no caravan is awaiting a response under that id")
	}
	partner, pg := rv.st.GarrisonAt(j.Destination.Key())
	if partner == nil || partner.ID != t.ID {
		return failed(act, "that caravan is not waiting at one of your garrisons")
	}
	owner := rv.st.Tribe(j.OwnerTribeID)
	if owner == nil {
		// Sender dissolved; nothing to pay back to. The goods are forfeit.
		startReturn(j)
		return failed(act, "the sending tribe no longer exists")
	}

	if !o.Accept {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionTrade, OK: false,
			Message: fmt.Sprintf("%s declined the trade; caravan returning with its goods", t.Name),
		})
		return succeeded(act, fmt.Sprintf("declined the caravan from %s", owner.Name), nil)
	}

	req := j.Offer.Request
	if t.Global.Food < req.Food || t.Global.Scrap < req.Scrap || pg.Weapons < req.Weapons {
		startReturn(j)
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionTrade, OK: false,
			Message: fmt.Sprintf("%s could not cover the asking price; caravan returning", t.Name),
		})
		return failed(act, "cannot cover the asking price; the caravan departs")
	}

	// Swap: the responder pays the request and keeps the offered payload;
	// the caravan carries the payment home.
	t.Global.Food -= req.Food
	t.Global.Scrap -= req.Scrap
	pg.Weapons -= req.Weapons
	depositPayload(t, pg, j.Payload)

	received := j.Payload
	j.Payload = req
	startReturn(j)

	if n := j.Offer.Recurring; n > 0 {
		// The accepted swap becomes a standing agreement: the same stockpile
		// goods change hands each turn until it runs out. Weapons stay
		// caravan-only; agreements move food and scrap.
		rv.st.TradeAgreements = append(rv.st.TradeAgreements, &game.TradeAgreement{
			ID:             stableID("agreement", rv.st.Turn, owner.ID, rv.nextSeq()),
			FromTribeID:    owner.ID,
			ToTribeID:      t.ID,
			Give:           game.Payload{Food: received.Food, Scrap: received.Scrap},
			Receive:        game.Payload{Food: req.Food, Scrap: req.Scrap},
			TurnsRemaining: n,
		})
		rv.addResult(owner.ID, game.ActionResult{
			Type: game.ActionTrade, OK: true,
			Message: fmt.Sprintf("%s agreed to a standing trade for %d more turns", t.Name, n),
		})
	}

	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionTrade, OK: true,
		Message: fmt.Sprintf("%s accepted the trade; caravan returning with %s", t.Name, payloadString(req)),
	})
	return succeeded(act,
		fmt.Sprintf("accepted the caravan from %s: received %s for %s", owner.Name, payloadString(received), payloadString(req)),
		&game.ResourceDelta{Food: received.Food - req.Food, Scrap: received.Scrap - req.Scrap, Weapons: received.Weapons - req.Weapons})
}

// expireTradeJourney handles a caravan whose response deadline lapsed.
func (rv *resolver) expireTradeJourney(j *game.Journey, owner *game.Tribe) {
	startReturn(j)
	rv.addResult(owner.ID, game.ActionResult{
		Type: game.ActionTrade, OK: false,
		Message: fmt.Sprintf("no answer came at %s; caravan heading home with its goods", j.Destination.Key()),
	})
}

func payloadString(p game.Payload) string {
	if p.IsZero() {
		return "nothing"
	}
	s := ""
	if p.Food > 0 {
		s += fmt.Sprintf("%d food", p.Food)
	}
	if p.Scrap > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d scrap", p.Scrap)
	}
	if p.Weapons > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d weapons", p.Weapons)
	}
	return s
}
