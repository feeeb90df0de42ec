package engine

import (
	"testing"

	"github.com/talgya/tribelands/internal/game"
)

// exchangeEnvoy builds a beta-owned envoy parked at alpha's home, offering
// the captured chief Ash back under the given terms.
func exchangeEnvoy(ransom game.Payload, requestChief string, deadline int) *game.Journey {
	return &game.Journey{
		ID:           "j-exchange",
		Type:         game.JourneyPrisonerExchange,
		OwnerTribeID: "tribe-beta",
		Origin:       betaHome,
		Destination:  alphaHome,
		Force:        game.Force{Troops: 2},
		Exchange: &game.ExchangeOffer{
			Prisoner:         game.Prisoner{Chief: game.Chief{Name: "Ash"}, FromTribeID: "tribe-alpha"},
			RequestChief:     requestChief,
			Ransom:           ransom,
			ResponseDeadline: deadline,
		},
		TravelTurns: 3,
		Status:      game.StatusAwaitingResponse,
	}
}

func TestProposeExchangeSendsEnvoy(t *testing.T) {
	st := flatState()
	st.Tribes[1].Prisoners = []game.Prisoner{{Chief: game.Chief{Name: "Ash"}, FromTribeID: "tribe-alpha"}}

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-beta": {{
			ID: "b1", Type: game.ActionProposePrisonerExchange,
			Exchange: &game.ExchangeOrder{
				From: betaHome.Key(), To: alphaHome.Key(), Troops: 2,
				Prisoner: "Ash", Ransom: game.Payload{Scrap: 25},
			},
		}},
	})

	beta := next.Tribe("tribe-beta")
	if len(beta.Prisoners) != 0 {
		t.Fatalf("prisoners = %+v, want Ash traveling with the envoy", beta.Prisoners)
	}
	if len(next.Journeys) != 1 {
		t.Fatalf("journeys = %+v, want one envoy in flight", next.Journeys)
	}
	j := next.Journeys[0]
	if j.Type != game.JourneyPrisonerExchange || j.Exchange == nil || j.Exchange.Prisoner.Chief.Name != "Ash" {
		t.Fatalf("unexpected journey: %+v", j)
	}
	// Six hexes at speed 2 is a three-turn trip, then the response window.
	if want := 1 + 3 + exchangeResponseWindow; j.Exchange.ResponseDeadline != want {
		t.Fatalf("response deadline = %d, want %d", j.Exchange.ResponseDeadline, want)
	}
	if got := beta.GarrisonAt(betaHome.Key()).Troops; got != 28 {
		t.Fatalf("home troops = %d, want 28 with the escort detached", got)
	}
}

func TestExchangeAcceptanceFreesChiefForRansom(t *testing.T) {
	st := flatState()
	st.Journeys = append(st.Journeys, exchangeEnvoy(game.Payload{Scrap: 25}, "", 9))

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionRespondToPrisonerExchange,
			ExchangeResponse: &game.ExchangeResponse{JourneyID: "j-exchange", Accept: true},
		}},
	})

	alpha := next.Tribe("tribe-alpha")
	chiefs := alpha.GarrisonAt(alphaHome.Key()).Chiefs
	if len(chiefs) != 1 || chiefs[0].Name != "Ash" {
		t.Fatalf("home chiefs = %+v, want Ash freed", chiefs)
	}
	if alpha.Global.Scrap != 175 {
		t.Fatalf("scrap = %d, want 175 after paying the ransom", alpha.Global.Scrap)
	}
	j := next.Journey("j-exchange")
	if j == nil || j.Status != game.StatusReturning || j.Payload.Scrap != 25 {
		t.Fatalf("envoy should carry the ransom home: %+v", j)
	}
	if j.Exchange != nil {
		t.Fatalf("settled exchange terms still on the journey: %+v", j.Exchange)
	}
}

func TestExchangeSwapsChiefsBothWays(t *testing.T) {
	st := flatState()
	st.Tribes[0].Prisoners = []game.Prisoner{{Chief: game.Chief{Name: "Moth"}, FromTribeID: "tribe-beta"}}
	st.Journeys = append(st.Journeys, exchangeEnvoy(game.Payload{}, "Moth", 9))

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionRespondToPrisonerExchange,
			ExchangeResponse: &game.ExchangeResponse{JourneyID: "j-exchange", Accept: true},
		}},
	})

	alpha := next.Tribe("tribe-alpha")
	if len(alpha.Prisoners) != 0 {
		t.Fatalf("prisoners = %+v, want Moth handed over", alpha.Prisoners)
	}
	chiefs := alpha.GarrisonAt(alphaHome.Key()).Chiefs
	if len(chiefs) != 1 || chiefs[0].Name != "Ash" {
		t.Fatalf("home chiefs = %+v, want Ash freed", chiefs)
	}
	j := next.Journey("j-exchange")
	if j == nil || len(j.Force.Chiefs) != 1 || j.Force.Chiefs[0].Name != "Moth" {
		t.Fatalf("envoy force = %+v, want Moth riding home", j.Force)
	}

	// Three turns for the homeward leg; Moth rejoins beta's garrison.
	for i := 0; i < 3; i++ {
		next = mustResolve(t, next, nil)
	}
	beta := next.Tribe("tribe-beta")
	bchiefs := beta.GarrisonAt(betaHome.Key()).Chiefs
	if len(bchiefs) != 1 || bchiefs[0].Name != "Moth" {
		t.Fatalf("beta home chiefs = %+v, want Moth returned", bchiefs)
	}
}

func TestExchangeRejectionReturnsPrisonerToCustody(t *testing.T) {
	st := flatState()
	envoy := exchangeEnvoy(game.Payload{Scrap: 25}, "", 9)
	envoy.TravelTurns = 1
	st.Journeys = append(st.Journeys, envoy)

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionRespondToPrisonerExchange,
			ExchangeResponse: &game.ExchangeResponse{JourneyID: "j-exchange", Accept: false},
		}},
	})
	j := next.Journey("j-exchange")
	if j == nil || j.Status != game.StatusReturning {
		t.Fatalf("refused envoy should head home: %+v", j)
	}

	next = mustResolve(t, next, nil)
	beta := next.Tribe("tribe-beta")
	if len(beta.Prisoners) != 1 || beta.Prisoners[0].Chief.Name != "Ash" {
		t.Fatalf("prisoners = %+v, want Ash back in custody", beta.Prisoners)
	}
	if got := beta.GarrisonAt(betaHome.Key()).Troops; got != 32 {
		t.Fatalf("home troops = %d, want the escort folded back in", got)
	}
}

func TestExchangeDeadlineSendsEnvoyHome(t *testing.T) {
	st := flatState()
	st.Journeys = append(st.Journeys, exchangeEnvoy(game.Payload{Scrap: 25}, "", 1))

	next := mustResolve(t, st, nil)
	j := next.Journey("j-exchange")
	if j == nil || j.Status != game.StatusReturning {
		t.Fatalf("expired envoy should head home: %+v", j)
	}
	if j.Exchange == nil || j.Exchange.Prisoner.Chief.Name != "Ash" {
		t.Fatalf("prisoner should still travel with the envoy: %+v", j.Exchange)
	}
}

func TestPeaceSchedulesPrisonerRepatriation(t *testing.T) {
	st := flatState()
	war := game.DiplomaticRelation{Status: game.StatusWar}
	st.Tribes[0].Diplomacy["tribe-beta"] = war
	st.Tribes[1].Diplomacy["tribe-alpha"] = war
	st.Tribes[1].Prisoners = []game.Prisoner{{Chief: game.Chief{Name: "Ash"}, FromTribeID: "tribe-alpha"}}
	st.DiplomaticProposals = append(st.DiplomaticProposals, &game.DiplomaticProposal{
		ID: "prop-peace", FromTribeID: "tribe-alpha", ToTribeID: "tribe-beta",
		Kind: game.ProposalPeace, ExpiresOnTurn: 5,
	})

	next := mustResolve(t, st, map[string][]game.GameAction{
		"tribe-beta": {{
			ID: "b1", Type: game.ActionRespondToProposal,
			Diplomacy: &game.DiplomacyOrder{ProposalID: "prop-peace", Accept: true},
		}},
	})
	beta := next.Tribe("tribe-beta")
	if len(beta.Prisoners) != 1 || beta.Prisoners[0].ReleaseTurn != 1+repatriationDelayTurns {
		t.Fatalf("prisoners = %+v, want Ash scheduled for release on turn %d", beta.Prisoners, 1+repatriationDelayTurns)
	}

	next = mustResolve(t, next, nil)
	alpha := next.Tribe("tribe-alpha")
	chiefs := alpha.GarrisonAt(alphaHome.Key()).Chiefs
	if len(chiefs) != 1 || chiefs[0].Name != "Ash" {
		t.Fatalf("home chiefs = %+v, want Ash repatriated", chiefs)
	}
	if got := next.Tribe("tribe-beta").Prisoners; len(got) != 0 {
		t.Fatalf("prisoners = %+v, want none held after the release", got)
	}
}
