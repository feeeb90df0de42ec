package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
)

// proposalLifetimeTurns is how long an offer stays on the table.
const proposalLifetimeTurns = 3

// peaceTruceTurns is the no-war window after an accepted peace.
const peaceTruceTurns = 5

// setRelation writes the same relation into both tribes' diplomacy maps.
// Storage does not guarantee symmetry, so every transition funnels through
// here; the invariant phase verifies nothing slipped past.
func (rv *resolver) setRelation(a, b *game.Tribe, rel game.DiplomaticRelation) {
	if a.Diplomacy == nil {
		a.Diplomacy = make(map[string]game.DiplomaticRelation)
	}
	if b.Diplomacy == nil {
		b.Diplomacy = make(map[string]game.DiplomaticRelation)
	}
	a.Diplomacy[b.ID] = rel
	b.Diplomacy[a.ID] = rel
}

func (rv *resolver) execDiplomacy(t *game.Tribe, act game.GameAction) game.ActionResult {
	switch act.Type {
	case game.ActionProposeAlliance, game.ActionSueForPeace:
		return rv.execPropose(t, act)
	case game.ActionDeclareWar:
		return rv.execDeclareWar(t, act)
	case game.ActionRespondToProposal:
		return rv.execRespondToProposal(t, act)
	}
	return failed(act, "not a diplomacy action")
}

func (rv *resolver) execPropose(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Diplomacy
	other := rv.st.Tribe(o.TargetTribeID)
	if other == nil {
		return failed(act, fmt.Sprintf("no such tribe %q", o.TargetTribeID))
	}
	if other.ID == t.ID {
		return failed(act, "cannot negotiate with yourself")
	}
	rel := t.RelationWith(other.ID)

	var kind game.ProposalKind
	switch act.Type {
	case game.ActionProposeAlliance:
		if rel.Status != game.StatusNeutral {
			return failed(act, fmt.Sprintf("an alliance can only grow from neutral relations with %s", other.Name))
		}
		kind = game.ProposalAlliance
	case game.ActionSueForPeace:
		if rel.Status != game.StatusWar {
			return failed(act, fmt.Sprintf("not at war with %s", other.Name))
		}
		kind = game.ProposalPeace
	}

	for _, p := range rv.st.DiplomaticProposals {
		if p.FromTribeID == t.ID && p.ToTribeID == other.ID && p.Kind == kind {
			return failed(act, fmt.Sprintf("an offer of %s to %s is already on the table", kind, other.Name))
		}
	}

	prop := &game.DiplomaticProposal{
		ID:            stableID("proposal", rv.st.Turn, t.ID, rv.nextSeq()),
		FromTribeID:   t.ID,
		ToTribeID:     other.ID,
		Kind:          kind,
		ExpiresOnTurn: rv.st.Turn + proposalLifetimeTurns,
	}
	rv.st.DiplomaticProposals = append(rv.st.DiplomaticProposals, prop)
	rv.addResult(other.ID, game.ActionResult{
		Type: act.Type, OK: true,
		Message: fmt.Sprintf("%s offers %s (proposal %s, expires turn %d)", t.Name, kind, prop.ID, prop.ExpiresOnTurn),
	})
	return succeeded(act, fmt.Sprintf("offered %s to %s", kind, other.Name), nil)
}

func (rv *resolver) execDeclareWar(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Diplomacy
	other := rv.st.Tribe(o.TargetTribeID)
	if other == nil {
		return failed(act, fmt.Sprintf("no such tribe %q", o.TargetTribeID))
	}
	if other.ID == t.ID {
		return failed(act, "cannot declare war on yourself")
	}
	rel := t.RelationWith(other.ID)
	if rel.Status == game.StatusWar {
		return failed(act, fmt.Sprintf("already at war with %s", other.Name))
	}
	if rel.TruceUntilTurn > rv.st.Turn {
		return failed(act, fmt.Sprintf("a truce with %s holds until turn %d", other.Name, rel.TruceUntilTurn))
	}
	rv.setRelation(t, other, game.DiplomaticRelation{Status: game.StatusWar})
	rv.addResult(other.ID, game.ActionResult{
		Type: game.ActionDeclareWar, OK: false,
		Message: fmt.Sprintf("%s has declared war on us", t.Name),
	})
	return succeeded(act, fmt.Sprintf("declared war on %s", other.Name), nil)
}

func (rv *resolver) execRespondToProposal(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Diplomacy
	var prop *game.DiplomaticProposal
	idx := -1
	for i, p := range rv.st.DiplomaticProposals {
		if p.ID == o.ProposalID {
			prop, idx = p, i
			break
		}
	}
	if prop == nil {
		return failed(act, "that proposal is no longer on the table")
	}
	if prop.ToTribeID != t.ID {
		return failed(act, "that proposal was not addressed to this tribe")
	}
	from := rv.st.Tribe(prop.FromTribeID)
	rv.st.DiplomaticProposals = append(rv.st.DiplomaticProposals[:idx], rv.st.DiplomaticProposals[idx+1:]...)
	if from == nil {
		return failed(act, "the proposing tribe no longer exists")
	}

	if !o.Accept {
		rv.addResult(from.ID, game.ActionResult{
			Type: game.ActionRespondToProposal, OK: false,
			Message: fmt.Sprintf("%s rejected our offer of %s", t.Name, prop.Kind),
		})
		return succeeded(act, fmt.Sprintf("rejected %s's offer of %s", from.Name, prop.Kind), nil)
	}

	// Acceptance updates both diplomacy maps in the same atomic step.
	switch prop.Kind {
	case game.ProposalAlliance:
		rv.setRelation(t, from, game.DiplomaticRelation{Status: game.StatusAlliance})
	case game.ProposalPeace:
		rv.setRelation(t, from, game.DiplomaticRelation{
			Status:         game.StatusNeutral,
			TruceUntilTurn: rv.st.Turn + peaceTruceTurns,
		})
		// Peace terms repatriate prisoners held between the two parties.
		schedulePrisonerRelease(t, from.ID, rv.st.Turn+repatriationDelayTurns)
		schedulePrisonerRelease(from, t.ID, rv.st.Turn+repatriationDelayTurns)
	}
	rv.addResult(from.ID, game.ActionResult{
		Type: game.ActionRespondToProposal, OK: true,
		Message: fmt.Sprintf("%s accepted our offer of %s", t.Name, prop.Kind),
	})
	return succeeded(act, fmt.Sprintf("accepted %s's offer of %s", from.Name, prop.Kind), nil)
}

// resolveDiplomacy is the per-turn agreement pass: expire stale proposals
// and messages, then run recurring trade agreement transfers.
func (rv *resolver) resolveDiplomacy() {
	var liveProposals []*game.DiplomaticProposal
	for _, p := range rv.st.DiplomaticProposals {
		if p.ExpiresOnTurn <= rv.st.Turn {
			// Rejected silently on expiry.
			continue
		}
		liveProposals = append(liveProposals, p)
	}
	rv.st.DiplomaticProposals = liveProposals

	var liveMessages []*game.DiplomaticMessage
	for _, m := range rv.st.DiplomaticMessages {
		if m.ExpiresOnTurn <= rv.st.Turn {
			continue
		}
		liveMessages = append(liveMessages, m)
	}
	rv.st.DiplomaticMessages = liveMessages

	var liveAgreements []*game.TradeAgreement
	for _, a := range rv.st.TradeAgreements {
		if rv.applyTradeAgreement(a) && a.TurnsRemaining > 0 {
			liveAgreements = append(liveAgreements, a)
		}
	}
	rv.st.TradeAgreements = liveAgreements
}

// applyTradeAgreement performs one turn's recurring transfer. Returns false
// when the agreement is cancelled (a party vanished or cannot pay).
func (rv *resolver) applyTradeAgreement(a *game.TradeAgreement) bool {
	from := rv.st.Tribe(a.FromTribeID)
	to := rv.st.Tribe(a.ToTribeID)
	if from == nil || to == nil {
		return false
	}
	if from.Global.Food < a.Give.Food || from.Global.Scrap < a.Give.Scrap ||
		to.Global.Food < a.Receive.Food || to.Global.Scrap < a.Receive.Scrap {
		rv.addResult(from.ID, game.ActionResult{
			Type: game.ActionTrade, OK: false,
			Message: fmt.Sprintf("the standing trade with %s collapsed: a party could not pay", to.Name),
		})
		rv.addResult(to.ID, game.ActionResult{
			Type: game.ActionTrade, OK: false,
			Message: fmt.Sprintf("the standing trade with %s collapsed: a party could not pay", from.Name),
		})
		return false
	}
	from.Global.Food += a.Receive.Food - a.Give.Food
	from.Global.Scrap += a.Receive.Scrap - a.Give.Scrap
	to.Global.Food += a.Give.Food - a.Receive.Food
	to.Global.Scrap += a.Give.Scrap - a.Receive.Scrap
	a.TurnsRemaining--
	return true
}
