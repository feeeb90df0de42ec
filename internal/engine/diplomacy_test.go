package engine

import (
	"testing"

	"github.com/talgya/tribelands/internal/game"
)

func TestAllianceProposalAndAcceptance(t *testing.T) {
	st := mustResolve(t, flatState(), map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionProposeAlliance,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	if len(st.DiplomaticProposals) != 1 {
		t.Fatalf("proposals = %+v, want one pending", st.DiplomaticProposals)
	}
	prop := st.DiplomaticProposals[0]
	if prop.Kind != game.ProposalAlliance || prop.ToTribeID != "tribe-beta" {
		t.Fatalf("unexpected proposal: %+v", prop)
	}

	st = mustResolve(t, st, map[string][]game.GameAction{
		"tribe-beta": {{
			ID: "b1", Type: game.ActionRespondToProposal,
			Diplomacy: &game.DiplomacyOrder{ProposalID: prop.ID, Accept: true},
		}},
	})
	if len(st.DiplomaticProposals) != 0 {
		t.Fatalf("accepted proposal still pending: %+v", st.DiplomaticProposals)
	}
	ab := st.Tribe("tribe-alpha").RelationWith("tribe-beta").Status
	ba := st.Tribe("tribe-beta").RelationWith("tribe-alpha").Status
	if ab != game.StatusAlliance || ba != game.StatusAlliance {
		t.Fatalf("relations after acceptance: %s / %s, want alliance both ways", ab, ba)
	}
}

func TestRejectedProposalLeavesRelationsUnchanged(t *testing.T) {
	st := mustResolve(t, flatState(), map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionProposeAlliance,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	prop := st.DiplomaticProposals[0]

	st = mustResolve(t, st, map[string][]game.GameAction{
		"tribe-beta": {{
			ID: "b1", Type: game.ActionRespondToProposal,
			Diplomacy: &game.DiplomacyOrder{ProposalID: prop.ID, Accept: false},
		}},
	})
	if len(st.DiplomaticProposals) != 0 {
		t.Fatal("rejected proposal still pending")
	}
	if got := st.Tribe("tribe-alpha").RelationWith("tribe-beta").Status; got != game.StatusNeutral {
		t.Fatalf("relation after rejection = %s, want neutral", got)
	}
}

func TestProposalExpiresUnanswered(t *testing.T) {
	st := mustResolve(t, flatState(), map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionProposeAlliance,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	expires := st.DiplomaticProposals[0].ExpiresOnTurn
	for st.Turn <= expires {
		st = mustResolve(t, st, nil)
	}
	if len(st.DiplomaticProposals) != 0 {
		t.Fatalf("proposal outlived its expiry turn %d: %+v", expires, st.DiplomaticProposals)
	}
}

func TestDeclareWarIsSymmetric(t *testing.T) {
	st := mustResolve(t, flatState(), map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionDeclareWar,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	ab := st.Tribe("tribe-alpha").RelationWith("tribe-beta").Status
	ba := st.Tribe("tribe-beta").RelationWith("tribe-alpha").Status
	if ab != game.StatusWar || ba != game.StatusWar {
		t.Fatalf("relations after declaration: %s / %s, want war both ways", ab, ba)
	}
}

func TestTruceBlocksWarDeclaration(t *testing.T) {
	st := flatState()
	rel := game.DiplomaticRelation{Status: game.StatusNeutral, TruceUntilTurn: 10}
	st.Tribes[0].Diplomacy["tribe-beta"] = rel
	st.Tribes[1].Diplomacy["tribe-alpha"] = rel

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionDeclareWar,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	res := next.Tribe("tribe-alpha").LastTurnResults
	if len(res) == 0 || res[0].OK {
		t.Fatalf("war declaration under truce should fail: %+v", res)
	}
	if got := next.Tribe("tribe-alpha").RelationWith("tribe-beta").Status; got != game.StatusNeutral {
		t.Fatalf("relation = %s, want neutral preserved by the truce", got)
	}
}

func TestPeaceAcceptanceSetsTruce(t *testing.T) {
	st := flatState()
	war := game.DiplomaticRelation{Status: game.StatusWar}
	st.Tribes[0].Diplomacy["tribe-beta"] = war
	st.Tribes[1].Diplomacy["tribe-alpha"] = war

	st = mustResolve(t, st, map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionSueForPeace,
			Diplomacy: &game.DiplomacyOrder{TargetTribeID: "tribe-beta"},
		}},
	})
	prop := st.DiplomaticProposals[0]
	turnOfAcceptance := st.Turn

	st = mustResolve(t, st, map[string][]game.GameAction{
		"tribe-beta": {{
			ID: "b1", Type: game.ActionRespondToProposal,
			Diplomacy: &game.DiplomacyOrder{ProposalID: prop.ID, Accept: true},
		}},
	})
	rel := st.Tribe("tribe-alpha").RelationWith("tribe-beta")
	if rel.Status != game.StatusNeutral {
		t.Fatalf("relation after peace = %s, want neutral", rel.Status)
	}
	if want := turnOfAcceptance + peaceTruceTurns; rel.TruceUntilTurn != want {
		t.Fatalf("truce until turn %d, want %d", rel.TruceUntilTurn, want)
	}
}

func TestTradeAgreementTransfersEachTurnThenLapses(t *testing.T) {
	st := flatState()
	st.TradeAgreements = append(st.TradeAgreements, &game.TradeAgreement{
		ID:             "agr-1",
		FromTribeID:    "tribe-alpha",
		ToTribeID:      "tribe-beta",
		Give:           game.Payload{Food: 10},
		Receive:        game.Payload{Scrap: 5},
		TurnsRemaining: 2,
	})

	st = mustResolve(t, st, nil)
	alpha, beta := st.Tribe("tribe-alpha"), st.Tribe("tribe-beta")
	// Both also paid 15 food in upkeep rations.
	if alpha.Global.Food != 175 || alpha.Global.Scrap != 205 {
		t.Fatalf("alpha stockpile = %+v after first transfer", alpha.Global)
	}
	if beta.Global.Food != 195 || beta.Global.Scrap != 195 {
		t.Fatalf("beta stockpile = %+v after first transfer", beta.Global)
	}
	if len(st.TradeAgreements) != 1 || st.TradeAgreements[0].TurnsRemaining != 1 {
		t.Fatalf("agreement = %+v, want one turn remaining", st.TradeAgreements)
	}

	st = mustResolve(t, st, nil)
	if len(st.TradeAgreements) != 0 {
		t.Fatalf("agreement should lapse after its final transfer: %+v", st.TradeAgreements)
	}
}
