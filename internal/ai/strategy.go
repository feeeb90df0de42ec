// Package ai synthesizes turn orders for computer-controlled tribes.
// Each archetype adjusts urgency thresholds and a preferred action, layered
// over a shared needs-first planner: eat before fighting, fight before
// exploring.
package ai

import (
	"fmt"
	"sort"

	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// Archetype constants — the behavioral templates assignable via Tribe.AIType.
const (
	TypeWanderer  = "wanderer"
	TypeWarlike   = "warlike"
	TypeDefensive = "defensive"
	TypeTrader    = "trader"
)

// standingTradeTurns is the agreement length trader caravans ask for.
const standingTradeTurns = 4

// preferredAction is what an archetype does when no need is urgent.
type preferredAction uint8

const (
	prefScout preferredAction = iota
	prefRaid
	prefFortify
	prefTrade
)

// template defines how an archetype modifies the base planner.
type template struct {
	// lowFood and lowTroops shift when scarcity feels urgent.
	lowFood   int
	lowTroops int

	// homeReserve is how many troops never leave the staging garrison.
	homeReserve int

	acceptAlliance bool
	acceptPeace    bool

	// raidChance gates offensive action per turn for the raid archetype.
	raidChance float64

	preferred preferredAction
}

var archetypes = map[string]template{
	TypeWanderer: {
		lowFood:     40,
		lowTroops:   8,
		homeReserve: 3,

		acceptAlliance: false,
		acceptPeace:    true,
		preferred:      prefScout,
	},
	TypeWarlike: {
		lowFood:     25, // pushes hunger limits
		lowTroops:   15,
		homeReserve: 4,

		acceptAlliance: false,
		acceptPeace:    false,
		raidChance:     0.7,
		preferred:      prefRaid,
	},
	TypeDefensive: {
		lowFood:     60, // hoards before anything else
		lowTroops:   12,
		homeReserve: 8,

		acceptAlliance: true,
		acceptPeace:    true,
		preferred:      prefFortify,
	},
	TypeTrader: {
		lowFood:     50,
		lowTroops:   6,
		homeReserve: 3,

		acceptAlliance: true,
		acceptPeace:    true,
		preferred:      prefTrade,
	},
}

// Plan produces this turn's orders for one AI tribe. Unknown archetypes fall
// back to the wanderer template. The same state, tribe, and entropy source
// always produce the same orders.
func Plan(st *game.GameState, tribe *game.Tribe, rng entropy.Source) []game.GameAction {
	tmpl, ok := archetypes[tribe.AIType]
	if !ok {
		tmpl = archetypes[TypeWanderer]
	}
	p := &planner{st: st, tribe: tribe, rng: rng, tmpl: tmpl}
	return p.plan()
}

type planner struct {
	st    *game.GameState
	tribe *game.Tribe
	rng   entropy.Source
	tmpl  template

	actions []game.GameAction
}

func (p *planner) plan() []game.GameAction {
	p.answerProposals()
	p.answerTradeOffers()
	p.answerExchangeOffers()

	staging := p.stagingKey()
	if staging == "" {
		// Everything is in the field or lost; nothing to order around.
		return p.actions
	}

	if p.tribe.Global.Food < p.tmpl.lowFood {
		p.planScavenge(staging, "food")
	}
	if p.tribe.TotalTroops() < p.tmpl.lowTroops {
		p.planRecruit(staging)
	}

	switch p.tmpl.preferred {
	case prefRaid:
		p.planRaid(staging)
	case prefFortify:
		p.planFortify(staging)
	case prefTrade:
		p.planTrade(staging)
	default:
		p.planScout(staging)
	}

	return p.actions
}

func (p *planner) add(typ game.ActionType, fill func(*game.GameAction)) {
	a := game.GameAction{
		ID:   fmt.Sprintf("%s-t%d-a%d", p.tribe.ID, p.st.Turn, len(p.actions)),
		Type: typ,
	}
	fill(&a)
	p.actions = append(p.actions, a)
}

// answerProposals accepts or rejects every proposal addressed to this tribe.
func (p *planner) answerProposals() {
	for _, prop := range p.st.DiplomaticProposals {
		if prop.ToTribeID != p.tribe.ID {
			continue
		}
		accept := false
		switch prop.Kind {
		case game.ProposalAlliance:
			accept = p.tmpl.acceptAlliance
		case game.ProposalPeace:
			accept = p.tmpl.acceptPeace
		}
		id := prop.ID
		p.add(game.ActionRespondToProposal, func(a *game.GameAction) {
			a.Diplomacy = &game.DiplomacyOrder{ProposalID: id, Accept: accept}
		})
	}
}

// answerTradeOffers responds to caravans waiting at this tribe's garrisons.
// A deal is taken when the goods on offer are worth at least as much as the
// asking price and the stockpile covers it.
func (p *planner) answerTradeOffers() {
	for _, j := range p.st.Journeys {
		if j.Status != game.StatusAwaitingResponse || j.Offer == nil {
			continue
		}
		if j.OwnerTribeID == p.tribe.ID {
			continue
		}
		if p.tribe.GarrisonAt(j.Destination.Key()) == nil {
			continue
		}
		accept := payloadWorth(j.Payload) >= payloadWorth(j.Offer.Request) &&
			p.canPay(j.Offer.Request)
		id := j.ID
		p.add(game.ActionRespondToTrade, func(a *game.GameAction) {
			a.TradeResponse = &game.TradeResponse{JourneyID: id, Accept: accept}
		})
	}
}

// answerExchangeOffers responds to prisoner-exchange envoys waiting at this
// tribe's garrisons. A chief is always worth buying back when the terms are
// payable.
func (p *planner) answerExchangeOffers() {
	for _, j := range p.st.Journeys {
		if j.Status != game.StatusAwaitingResponse || j.Exchange == nil {
			continue
		}
		if j.OwnerTribeID == p.tribe.ID {
			continue
		}
		if p.tribe.GarrisonAt(j.Destination.Key()) == nil {
			continue
		}
		accept := p.canPay(j.Exchange.Ransom)
		if accept && j.Exchange.RequestChief != "" {
			accept = p.holdsPrisonerOf(j.OwnerTribeID, j.Exchange.RequestChief)
		}
		id := j.ID
		p.add(game.ActionRespondToPrisonerExchange, func(a *game.GameAction) {
			a.ExchangeResponse = &game.ExchangeResponse{JourneyID: id, Accept: accept}
		})
	}
}

func (p *planner) holdsPrisonerOf(tribeID, name string) bool {
	for _, pr := range p.tribe.Prisoners {
		if pr.FromTribeID == tribeID && pr.Chief.Name == name {
			return true
		}
	}
	return false
}

func (p *planner) planScavenge(staging, resource string) {
	squad := p.spareTroops(staging, 8)
	if squad < 2 {
		return
	}
	target, ok := p.nearestScavengeSite(resource)
	if !ok {
		return
	}
	p.add(game.ActionScavenge, func(a *game.GameAction) {
		a.Scavenge = &game.ScavengeOrder{From: staging, To: target, Troops: squad, Resource: resource}
	})
}

func (p *planner) planRecruit(staging string) {
	affordable := (p.tribe.Global.Food - p.tmpl.lowFood/2) / 5
	if affordable < 1 {
		return
	}
	if affordable > 5 {
		affordable = 5
	}
	p.add(game.ActionRecruit, func(a *game.GameAction) {
		a.Recruit = &game.RecruitOrder{Location: staging, Troops: affordable}
	})
}

func (p *planner) planScout(staging string) {
	if p.spareTroops(staging, 1) < 1 {
		return
	}
	target, ok := p.nearestFrontier()
	if !ok {
		return
	}
	p.add(game.ActionScout, func(a *game.GameAction) {
		a.Scout = &game.ScoutOrder{From: staging, To: target, Troops: 1}
	})
}

// planRaid attacks the nearest known enemy garrison, declaring war on the
// nearest neighbor first when nobody is hostile yet.
func (p *planner) planRaid(staging string) {
	if p.rng.Float() > p.tmpl.raidChance {
		p.planScout(staging)
		return
	}
	target, ok := p.nearestEnemyGarrison()
	if !ok {
		if victim := p.nearestRival(); victim != "" {
			p.add(game.ActionDeclareWar, func(a *game.GameAction) {
				a.Diplomacy = &game.DiplomacyOrder{TargetTribeID: victim}
			})
		}
		p.planScout(staging)
		return
	}
	troops := p.spareTroops(staging, 20)
	if troops < 4 {
		p.planRecruit(staging)
		return
	}
	weapons := 0
	if g := p.tribe.GarrisonAt(staging); g != nil && g.Weapons > 0 {
		weapons = g.Weapons
		if weapons > troops {
			weapons = troops
		}
	}
	p.add(game.ActionAttack, func(a *game.GameAction) {
		a.Attack = &game.AttackOrder{From: staging, To: target, Troops: troops, Weapons: weapons}
	})
}

// planFortify builds an outpost on nearby open ground, stockpiling scrap
// until one is affordable.
func (p *planner) planFortify(staging string) {
	if p.tribe.Global.Scrap < 45 {
		p.planScavenge(staging, "scrap")
		return
	}
	target, ok := p.nearestOutpostSite(staging)
	if !ok {
		p.planScout(staging)
		return
	}
	troops := p.spareTroops(staging, 6)
	if troops < 2 {
		return
	}
	p.add(game.ActionBuildOutpost, func(a *game.GameAction) {
		a.BuildOutpost = &game.OutpostOrder{From: staging, To: target, Troops: troops}
	})
}

// planTrade offers the surplus resource to the nearest tribe not at war.
func (p *planner) planTrade(staging string) {
	partner := p.nearestTradePartner()
	if partner == nil {
		p.planScout(staging)
		return
	}
	guards := p.spareTroops(staging, 3)
	if guards < 1 {
		return
	}
	var give, request game.Payload
	if p.tribe.Global.Scrap > p.tribe.Global.Food {
		give.Scrap, request.Food = 10, 10
	} else {
		give.Food, request.Scrap = 10, 10
	}
	if !p.canPay(give) {
		return
	}
	dest := partner.HomeBase.Key()
	p.add(game.ActionTrade, func(a *game.GameAction) {
		a.Trade = &game.TradeOrder{
			From: staging, To: dest, Troops: guards,
			Give: give, Request: request,
			Recurring: standingTradeTurns,
		}
	})
}

// stagingKey picks the garrison orders are issued from: the home base when it
// still stands, otherwise the largest remaining garrison.
func (p *planner) stagingKey() string {
	home := p.tribe.HomeBase.Key()
	if g := p.tribe.GarrisonAt(home); g != nil && g.Troops > 0 {
		return home
	}
	best, bestTroops := "", 0
	for _, key := range sortedKeys(p.tribe.Garrisons) {
		if g := p.tribe.Garrisons[key]; g.Troops > bestTroops {
			best, bestTroops = key, g.Troops
		}
	}
	return best
}

// spareTroops returns how many troops at key may leave, after the archetype's
// home reserve, capped at max.
func (p *planner) spareTroops(key string, max int) int {
	g := p.tribe.GarrisonAt(key)
	if g == nil {
		return 0
	}
	spare := g.Troops - p.tmpl.homeReserve
	if spare > max {
		spare = max
	}
	if spare < 0 {
		return 0
	}
	return spare
}

// scavengePreference orders POI types from best to worst per resource.
var scavengePreference = map[string][]world.POIType{
	"food":    {world.POIFoodSource, world.POISettlement, world.POIRuins, world.POIVault},
	"scrap":   {world.POIMine, world.POIFactory, world.POIRuins, world.POIVault},
	"weapons": {world.POIBattlefield, world.POIFactory, world.POIVault},
}

// nearestScavengeSite finds the closest explored POI worth working for the
// resource, preferring richer site types at equal rank.
func (p *planner) nearestScavengeSite(resource string) (string, bool) {
	for _, want := range scavengePreference[resource] {
		key, ok := p.nearestExplored(func(hex *world.Hex) bool {
			return hex.POI != nil && hex.POI.Type == want && hex.POI.Durability > 0
		})
		if ok {
			return key, true
		}
	}
	return p.nearestExplored(func(hex *world.Hex) bool {
		return hex.POI != nil && hex.POI.Type != world.POIOutpost && hex.POI.Durability > 0
	})
}

// nearestOutpostSite finds open claimed-by-nobody ground a short march out.
func (p *planner) nearestOutpostSite(staging string) (string, bool) {
	return p.nearestExplored(func(hex *world.Hex) bool {
		if hex.POI != nil || !hex.Terrain.Passable() {
			return false
		}
		if world.Distance(p.tribe.HomeBase, hex.Coord) < 2 {
			return false
		}
		holder, _ := p.st.GarrisonAt(hex.Coord.Key())
		return holder == nil
	})
}

// nearestExplored scans the explored set in sorted key order and returns the
// matching hex closest to home.
func (p *planner) nearestExplored(pred func(*world.Hex) bool) (string, bool) {
	best, bestDist := "", -1
	for _, key := range sortedKeys(p.tribe.ExploredHexes) {
		coord, err := world.ParseCoords(key)
		if err != nil {
			continue
		}
		hex := p.st.Map.Get(coord)
		if hex == nil || !pred(hex) {
			continue
		}
		d := world.Distance(p.tribe.HomeBase, coord)
		if bestDist < 0 || d < bestDist {
			best, bestDist = key, d
		}
	}
	return best, best != ""
}

// nearestFrontier returns the closest passable unexplored hex bordering the
// explored set.
func (p *planner) nearestFrontier() (string, bool) {
	best, bestDist := "", -1
	for _, key := range sortedKeys(p.tribe.ExploredHexes) {
		coord, err := world.ParseCoords(key)
		if err != nil {
			continue
		}
		for _, nc := range coord.Neighbors() {
			nk := nc.Key()
			if p.tribe.ExploredHexes[nk] {
				continue
			}
			hex := p.st.Map.Get(nc)
			if hex == nil || !hex.Terrain.Passable() {
				continue
			}
			d := world.Distance(p.tribe.HomeBase, nc)
			if bestDist < 0 || d < bestDist {
				best, bestDist = nk, d
			}
		}
	}
	return best, best != ""
}

// nearestEnemyGarrison returns the closest explored garrison of a tribe this
// tribe is at war with.
func (p *planner) nearestEnemyGarrison() (string, bool) {
	best, bestDist := "", -1
	for _, other := range p.st.Tribes {
		if other.ID == p.tribe.ID {
			continue
		}
		if p.tribe.RelationWith(other.ID).Status != game.StatusWar {
			continue
		}
		for _, key := range sortedKeys(other.Garrisons) {
			if !p.tribe.ExploredHexes[key] {
				continue
			}
			coord, err := world.ParseCoords(key)
			if err != nil {
				continue
			}
			d := world.Distance(p.tribe.HomeBase, coord)
			if bestDist < 0 || d < bestDist {
				best, bestDist = key, d
			}
		}
	}
	return best, best != ""
}

// nearestRival returns the closest tribe that could be declared war on.
func (p *planner) nearestRival() string {
	best, bestDist := "", -1
	for _, other := range p.st.Tribes {
		if other.ID == p.tribe.ID {
			continue
		}
		rel := p.tribe.RelationWith(other.ID)
		if rel.Status != game.StatusNeutral || rel.TruceUntilTurn > p.st.Turn {
			continue
		}
		d := world.Distance(p.tribe.HomeBase, other.HomeBase)
		if bestDist < 0 || d < bestDist {
			best, bestDist = other.ID, d
		}
	}
	return best
}

// nearestTradePartner returns the closest tribe not at war with this one.
func (p *planner) nearestTradePartner() *game.Tribe {
	var best *game.Tribe
	bestDist := -1
	for _, other := range p.st.Tribes {
		if other.ID == p.tribe.ID {
			continue
		}
		if p.tribe.RelationWith(other.ID).Status == game.StatusWar {
			continue
		}
		d := world.Distance(p.tribe.HomeBase, other.HomeBase)
		if bestDist < 0 || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}

func (p *planner) canPay(pay game.Payload) bool {
	if pay.Food > p.tribe.Global.Food || pay.Scrap > p.tribe.Global.Scrap {
		return false
	}
	if pay.Weapons > 0 {
		g := p.tribe.GarrisonAt(p.tribe.HomeBase.Key())
		if g == nil || g.Weapons < pay.Weapons {
			return false
		}
	}
	return true
}

// payloadWorth is a flat barter valuation: weapons count double.
func payloadWorth(pl game.Payload) int {
	return pl.Food + pl.Scrap + 2*pl.Weapons
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
