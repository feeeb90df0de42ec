package game

import (
	"reflect"
	"testing"

	"github.com/talgya/tribelands/internal/world"
)

func sampleState() *GameState {
	m := world.NewMap(3)
	for _, coord := range world.CoordsInRange(world.HexCoord{}, 3) {
		m.Set(&world.Hex{Coord: coord, Terrain: world.TerrainPlains})
	}
	m.Get(world.HexCoord{Q: 1, R: 1}).POI = &world.POI{Type: world.POIRuins, Rarity: 1.5, Durability: 4}

	home := world.HexCoord{Q: 0, R: 0}
	t1 := &Tribe{
		ID:       "tribe-1",
		Name:     "Rust Vultures",
		HomeBase: home,
		Global:   Resources{Food: 100, Scrap: 50, Morale: 60},
		Garrisons: map[string]*Garrison{
			home.Key(): {Troops: 20, Weapons: 10, Chiefs: []Chief{{Name: "Mara"}}},
		},
		Diplomacy:       map[string]DiplomaticRelation{"tribe-2": {Status: StatusWar}},
		ExploredHexes:   map[string]bool{home.Key(): true},
		CurrentResearch: []*ResearchProject{{TechID: "scrap-forges", Progress: 10, AssignedTroops: 5, Location: home.Key()}},
		Actions: []GameAction{{
			ID:   "a1",
			Type: ActionMove,
			Move: &MoveOrder{From: home.Key(), To: world.FormatCoords(1, 0), Troops: 5},
		}},
	}
	t2 := &Tribe{
		ID:       "tribe-2",
		Name:     "Glass Walkers",
		HomeBase: world.HexCoord{Q: 2, R: -1},
		Global:   Resources{Food: 80, Scrap: 40, Morale: 55},
		Garrisons: map[string]*Garrison{
			world.FormatCoords(2, -1): {Troops: 15, Weapons: 5},
		},
		Diplomacy:     map[string]DiplomaticRelation{"tribe-1": {Status: StatusWar}},
		ExploredHexes: map[string]bool{world.FormatCoords(2, -1): true},
	}

	return &GameState{
		Seed:   42,
		Turn:   7,
		Map:    m,
		Tribes: []*Tribe{t1, t2},
		Journeys: []*Journey{{
			ID:           "j1",
			Type:         JourneyTrade,
			OwnerTribeID: "tribe-1",
			Origin:       home,
			Destination:  world.HexCoord{Q: 2, R: -1},
			Force:        Force{Troops: 3},
			Payload:      Payload{Food: 20},
			Offer:        &TradeOffer{Request: Payload{Scrap: 15}, ResponseDeadline: 12},
			ArrivalTurn:  2,
			TravelTurns:  2,
			Status:       StatusEnRoute,
		}, {
			ID:           "j2",
			Type:         JourneyPrisonerExchange,
			OwnerTribeID: "tribe-2",
			Origin:       world.HexCoord{Q: 2, R: -1},
			Destination:  home,
			Force:        Force{Troops: 2},
			Exchange: &ExchangeOffer{
				Prisoner:         Prisoner{Chief: Chief{Name: "Vex"}, FromTribeID: "tribe-1"},
				Ransom:           Payload{Scrap: 25},
				ResponseDeadline: 14,
			},
			ArrivalTurn: 1,
			TravelTurns: 1,
			Status:      StatusEnRoute,
		}},
		DiplomaticProposals: []*DiplomaticProposal{{
			ID: "p1", FromTribeID: "tribe-2", ToTribeID: "tribe-1",
			Kind: ProposalPeace, ExpiresOnTurn: 10,
		}},
		History: []TurnHistoryRecord{{Turn: 6, Summaries: map[string][]string{"tribe-1": {"held the line"}}}},
	}
}

func TestCloneIsDeepEqual(t *testing.T) {
	st := sampleState()
	cl := st.Clone()
	if !reflect.DeepEqual(st, cl) {
		t.Fatal("clone is not deep-equal to the original")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	st := sampleState()
	cl := st.Clone()

	homeKey := st.Tribes[0].HomeBase.Key()
	cl.Tribes[0].Garrisons[homeKey].Troops = 1
	cl.Tribes[0].Global.Food = 0
	cl.Tribes[0].Diplomacy["tribe-2"] = DiplomaticRelation{Status: StatusAlliance}
	cl.Journeys[0].ArrivalTurn = 0
	cl.Journeys[0].Offer.Request.Scrap = 999
	cl.Journeys[1].Exchange.Ransom.Scrap = 999
	cl.Map.Get(world.HexCoord{Q: 1, R: 1}).POI.Durability = 0
	cl.History[0].Summaries["tribe-1"][0] = "mutated"
	cl.Tribes[0].Actions[0].Move.Troops = 999

	if st.Tribes[0].Garrisons[homeKey].Troops != 20 {
		t.Error("garrison mutation leaked into original")
	}
	if st.Tribes[0].Global.Food != 100 {
		t.Error("resources mutation leaked into original")
	}
	if st.Tribes[0].Diplomacy["tribe-2"].Status != StatusWar {
		t.Error("diplomacy mutation leaked into original")
	}
	if st.Journeys[0].ArrivalTurn != 2 || st.Journeys[0].Offer.Request.Scrap != 15 {
		t.Error("journey mutation leaked into original")
	}
	if st.Journeys[1].Exchange.Ransom.Scrap != 25 {
		t.Error("exchange terms mutation leaked into original")
	}
	if st.Map.Get(world.HexCoord{Q: 1, R: 1}).POI.Durability != 4 {
		t.Error("map POI mutation leaked into original")
	}
	if st.History[0].Summaries["tribe-1"][0] != "held the line" {
		t.Error("history mutation leaked into original")
	}
	if st.Tribes[0].Actions[0].Move.Troops != 5 {
		t.Error("action mutation leaked into original")
	}
}
