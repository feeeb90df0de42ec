package ai

import (
	"reflect"
	"testing"

	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

var (
	alphaHome = world.HexCoord{Q: -2, R: 0}
	betaHome  = world.HexCoord{Q: 2, R: 0}
)

func aiTribe(id string, home world.HexCoord, aiType string) *game.Tribe {
	t := &game.Tribe{
		ID:       id,
		Name:     id,
		IsAI:     true,
		AIType:   aiType,
		HomeBase: home,
		Global:   game.Resources{Food: 100, Scrap: 50, Morale: 60},
		Garrisons: map[string]*game.Garrison{
			home.Key(): {Troops: 10, Weapons: 2},
		},
		Diplomacy:     map[string]game.DiplomaticRelation{},
		ExploredHexes: map[string]bool{},
	}
	t.Explore(world.KeysInRange(home, 1)...)
	return t
}

func aiState(alphaType string) *game.GameState {
	m := world.NewMap(4)
	for _, c := range world.CoordsInRange(world.HexCoord{}, 4) {
		m.Set(&world.Hex{Coord: c, Terrain: world.TerrainPlains})
	}
	m.Get(world.HexCoord{Q: -1, R: 0}).POI = &world.POI{
		Type: world.POIFoodSource, Rarity: 1.5, Durability: 5,
	}
	return &game.GameState{
		Seed: 11,
		Turn: 3,
		Map:  m,
		Tribes: []*game.Tribe{
			aiTribe("alpha", alphaHome, alphaType),
			aiTribe("beta", betaHome, TypeWanderer),
		},
	}
}

func findAction(actions []game.GameAction, typ game.ActionType) *game.GameAction {
	for i := range actions {
		if actions[i].Type == typ {
			return &actions[i]
		}
	}
	return nil
}

func TestWandererScoutsTheFrontier(t *testing.T) {
	st := aiState(TypeWanderer)
	actions := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(1))

	scout := findAction(actions, game.ActionScout)
	if scout == nil {
		t.Fatalf("no scout order in %+v", actions)
	}
	if scout.Scout.From != alphaHome.Key() {
		t.Errorf("scout staged from %s, want home", scout.Scout.From)
	}
	if st.Tribe("alpha").ExploredHexes[scout.Scout.To] {
		t.Errorf("scout target %s already explored", scout.Scout.To)
	}
}

func TestHungryTribeScavengesFood(t *testing.T) {
	st := aiState(TypeWanderer)
	alpha := st.Tribe("alpha")
	alpha.Global.Food = 10

	actions := Plan(st, alpha, entropy.NewSeeded(1))
	sc := findAction(actions, game.ActionScavenge)
	if sc == nil {
		t.Fatalf("no scavenge order in %+v", actions)
	}
	if sc.Scavenge.Resource != "food" {
		t.Errorf("scavenging %s, want food", sc.Scavenge.Resource)
	}
	foodSite := world.HexCoord{Q: -1, R: 0}.Key()
	if sc.Scavenge.To != foodSite {
		t.Errorf("scavenge target %s, want the food source at %s", sc.Scavenge.To, foodSite)
	}
}

func TestWarlikeDeclaresWarWhenNoEnemiesExist(t *testing.T) {
	st := aiState(TypeWarlike)
	actions := Plan(st, st.Tribe("alpha"), entropy.NewFixed(0))

	dw := findAction(actions, game.ActionDeclareWar)
	if dw == nil {
		t.Fatalf("no declare-war order in %+v", actions)
	}
	if dw.Diplomacy.TargetTribeID != "beta" {
		t.Errorf("declared war on %s, want beta", dw.Diplomacy.TargetTribeID)
	}
}

func TestWarlikeAttacksKnownEnemyGarrison(t *testing.T) {
	st := aiState(TypeWarlike)
	alpha, beta := st.Tribe("alpha"), st.Tribe("beta")
	alpha.Diplomacy["beta"] = game.DiplomaticRelation{Status: game.StatusWar}
	beta.Diplomacy["alpha"] = game.DiplomaticRelation{Status: game.StatusWar}
	alpha.Explore(betaHome.Key())
	alpha.Garrisons[alphaHome.Key()].Troops = 30

	actions := Plan(st, alpha, entropy.NewFixed(0))
	atk := findAction(actions, game.ActionAttack)
	if atk == nil {
		t.Fatalf("no attack order in %+v", actions)
	}
	if atk.Attack.To != betaHome.Key() {
		t.Errorf("attacking %s, want %s", atk.Attack.To, betaHome.Key())
	}
	if atk.Attack.Troops < 4 {
		t.Errorf("war party of %d is too small", atk.Attack.Troops)
	}
}

func TestDefensiveBuildsOutpostWhenScrapAllows(t *testing.T) {
	st := aiState(TypeDefensive)
	alpha := st.Tribe("alpha")
	alpha.Global.Scrap = 100
	alpha.Garrisons[alphaHome.Key()].Troops = 15
	alpha.Explore(world.KeysInRange(alphaHome, 2)...)

	actions := Plan(st, alpha, entropy.NewSeeded(1))
	bo := findAction(actions, game.ActionBuildOutpost)
	if bo == nil {
		t.Fatalf("no outpost order in %+v", actions)
	}
	coord, err := world.ParseCoords(bo.BuildOutpost.To)
	if err != nil {
		t.Fatalf("bad outpost target %q: %v", bo.BuildOutpost.To, err)
	}
	if world.Distance(alphaHome, coord) < 2 {
		t.Errorf("outpost at %s crowds the home base", bo.BuildOutpost.To)
	}
}

func TestTraderOffersSurplusResource(t *testing.T) {
	st := aiState(TypeTrader)
	alpha := st.Tribe("alpha")
	alpha.Global.Scrap = 120

	actions := Plan(st, alpha, entropy.NewSeeded(1))
	tr := findAction(actions, game.ActionTrade)
	if tr == nil {
		t.Fatalf("no trade order in %+v", actions)
	}
	if tr.Trade.To != betaHome.Key() {
		t.Errorf("caravan bound for %s, want beta's home", tr.Trade.To)
	}
	if tr.Trade.Give.Scrap != 10 || tr.Trade.Request.Food != 10 {
		t.Errorf("terms = give %+v request %+v, want scrap for food", tr.Trade.Give, tr.Trade.Request)
	}
	if tr.Trade.Recurring != standingTradeTurns {
		t.Errorf("recurring = %d, want a standing deal for %d turns", tr.Trade.Recurring, standingTradeTurns)
	}
}

func TestFavorableTradeOfferIsAccepted(t *testing.T) {
	st := aiState(TypeWanderer)
	st.Journeys = append(st.Journeys, &game.Journey{
		ID:           "caravan-1",
		Type:         game.JourneyTrade,
		OwnerTribeID: "beta",
		Origin:       betaHome,
		Destination:  alphaHome,
		Payload:      game.Payload{Food: 15},
		Offer:        &game.TradeOffer{Request: game.Payload{Scrap: 10}, ResponseDeadline: 8},
		Status:       game.StatusAwaitingResponse,
	})

	actions := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(1))
	resp := findAction(actions, game.ActionRespondToTrade)
	if resp == nil {
		t.Fatalf("no trade response in %+v", actions)
	}
	if resp.TradeResponse.JourneyID != "caravan-1" || !resp.TradeResponse.Accept {
		t.Errorf("response = %+v, want acceptance of caravan-1", resp.TradeResponse)
	}
}

func TestPayableExchangeOfferIsAccepted(t *testing.T) {
	st := aiState(TypeWanderer)
	st.Journeys = append(st.Journeys, &game.Journey{
		ID:           "envoy-1",
		Type:         game.JourneyPrisonerExchange,
		OwnerTribeID: "beta",
		Origin:       betaHome,
		Destination:  alphaHome,
		Exchange: &game.ExchangeOffer{
			Prisoner:         game.Prisoner{Chief: game.Chief{Name: "Vex"}, FromTribeID: "alpha"},
			Ransom:           game.Payload{Scrap: 20},
			ResponseDeadline: 8,
		},
		Status: game.StatusAwaitingResponse,
	})

	actions := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(1))
	resp := findAction(actions, game.ActionRespondToPrisonerExchange)
	if resp == nil {
		t.Fatalf("no exchange response in %+v", actions)
	}
	if resp.ExchangeResponse.JourneyID != "envoy-1" || !resp.ExchangeResponse.Accept {
		t.Errorf("response = %+v, want acceptance of envoy-1", resp.ExchangeResponse)
	}
}

func TestExchangeAskingForUnheldChiefIsRefused(t *testing.T) {
	st := aiState(TypeWanderer)
	st.Journeys = append(st.Journeys, &game.Journey{
		ID:           "envoy-1",
		Type:         game.JourneyPrisonerExchange,
		OwnerTribeID: "beta",
		Origin:       betaHome,
		Destination:  alphaHome,
		Exchange: &game.ExchangeOffer{
			Prisoner:         game.Prisoner{Chief: game.Chief{Name: "Vex"}, FromTribeID: "alpha"},
			RequestChief:     "Moth",
			ResponseDeadline: 8,
		},
		Status: game.StatusAwaitingResponse,
	})

	actions := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(1))
	resp := findAction(actions, game.ActionRespondToPrisonerExchange)
	if resp == nil {
		t.Fatalf("no exchange response in %+v", actions)
	}
	if resp.ExchangeResponse.Accept {
		t.Error("accepted an exchange asking for a chief not in custody")
	}
}

func TestProposalResponsesFollowArchetype(t *testing.T) {
	for _, tc := range []struct {
		aiType string
		accept bool
	}{
		{TypeDefensive, true},
		{TypeWarlike, false},
	} {
		st := aiState(tc.aiType)
		st.DiplomaticProposals = append(st.DiplomaticProposals, &game.DiplomaticProposal{
			ID:          "prop-1",
			FromTribeID: "beta",
			ToTribeID:   "alpha",
			Kind:        game.ProposalAlliance,
		})
		actions := Plan(st, st.Tribe("alpha"), entropy.NewFixed(0))
		resp := findAction(actions, game.ActionRespondToProposal)
		if resp == nil {
			t.Fatalf("%s: no proposal response in %+v", tc.aiType, actions)
		}
		if resp.Diplomacy.Accept != tc.accept {
			t.Errorf("%s accepted=%v, want %v", tc.aiType, resp.Diplomacy.Accept, tc.accept)
		}
	}
}

func TestPlansAreDeterministic(t *testing.T) {
	st := aiState(TypeWarlike)
	first := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(7))
	second := Plan(st, st.Tribe("alpha"), entropy.NewSeeded(7))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs planned differently:\n%+v\n%+v", first, second)
	}
}
