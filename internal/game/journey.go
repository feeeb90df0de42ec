package game

import "github.com/talgya/tribelands/internal/world"

// JourneyType determines what happens when a journey arrives.
type JourneyType string

const (
	JourneyMove             JourneyType = "move"
	JourneyAttack           JourneyType = "attack"
	JourneyScavenge         JourneyType = "scavenge"
	JourneyTrade            JourneyType = "trade"
	JourneyReturn           JourneyType = "return"
	JourneyScout            JourneyType = "scout"
	JourneyBuildOutpost     JourneyType = "build_outpost"
	JourneyPrisonerExchange JourneyType = "prisoner_exchange"
)

// JourneyStatus is the journey state machine:
// en_route -> awaiting_response (trade and exchange) -> returning -> removed.
type JourneyStatus string

const (
	StatusEnRoute          JourneyStatus = "en_route"
	StatusAwaitingResponse JourneyStatus = "awaiting_response"
	StatusReturning        JourneyStatus = "returning"
)

// Force is troops, weapons, and chiefs traveling together.
type Force struct {
	Troops  int     `json:"troops"`
	Weapons int     `json:"weapons"`
	Chiefs  []Chief `json:"chiefs,omitempty"`
}

// Payload is goods in transit.
type Payload struct {
	Food    int `json:"food,omitempty"`
	Scrap   int `json:"scrap,omitempty"`
	Weapons int `json:"weapons,omitempty"`
}

// IsZero reports whether the payload carries nothing.
func (p Payload) IsZero() bool {
	return p.Food == 0 && p.Scrap == 0 && p.Weapons == 0
}

// Negative reports whether any component is below zero. Negative payloads
// are never valid; executors reject them before any stockpile is touched.
func (p Payload) Negative() bool {
	return p.Food < 0 || p.Scrap < 0 || p.Weapons < 0
}

// TradeOffer is the terms carried by a trade journey: the payload on board
// is offered in exchange for the requested payload. Recurring > 0 means the
// sender also asks for a standing agreement of that many turns.
type TradeOffer struct {
	Request          Payload `json:"request"`
	ResponseDeadline int     `json:"response_deadline"` // absolute turn
	Recurring        int     `json:"recurring,omitempty"`
}

// ExchangeOffer is the terms carried by a prisoner-exchange envoy: the
// prisoner aboard is handed over for the ransom and, when named, the return
// of one of the sender's own chiefs held by the other side.
type ExchangeOffer struct {
	Prisoner         Prisoner `json:"prisoner"`
	RequestChief     string   `json:"request_chief,omitempty"`
	Ransom           Payload  `json:"ransom"`
	ResponseDeadline int      `json:"response_deadline"` // absolute turn
}

// Journey is a force or goods payload in transit between hexes, owned
// exclusively by its origin tribe. ArrivalTurn counts down once per turn;
// at zero the journey resolves and is removed (or flips to returning).
type Journey struct {
	ID           string      `json:"id"`
	Type         JourneyType `json:"type"`
	OwnerTribeID string      `json:"owner_tribe_id"`

	Origin      world.HexCoord `json:"origin"`
	Destination world.HexCoord `json:"destination"`

	Force   Force   `json:"force"`
	Payload Payload `json:"payload"`

	// Trade terms; nil for non-trade journeys.
	Offer *TradeOffer `json:"offer,omitempty"`

	// Exchange terms; nil for other journey types. Cleared once the
	// handover settles, so a returning envoy still carrying terms means
	// the offer fell through and the prisoner goes back into custody.
	Exchange *ExchangeOffer `json:"exchange,omitempty"`

	// Scavenge target resource ("food", "scrap", or "weapons").
	ScavengeFor string `json:"scavenge_for,omitempty"`

	ArrivalTurn int           `json:"arrival_turn"` // turns remaining
	TravelTurns int           `json:"travel_turns"` // outbound trip length, for the symmetric return
	Status      JourneyStatus `json:"status"`
}
