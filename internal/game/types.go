// Package game defines the persistent data model for a tribelands match:
// the GameState aggregate, tribes, garrisons, journeys, diplomacy records,
// and the per-turn action queue.
package game

import (
	"github.com/talgya/tribelands/internal/world"
)

// Resources is a tribe's global stockpile. Morale is clamped to [0,100];
// food and scrap never go negative after a resolved turn.
type Resources struct {
	Food   int `json:"food"`
	Scrap  int `json:"scrap"`
	Morale int `json:"morale"`
}

// Chief is a named leader attached to a garrison. Chiefs improve sabotage
// odds and can be injured or captured.
type Chief struct {
	Name string `json:"name"`
}

// Garrison is a tribe's military and economic presence on one hex.
// Invariant: troops >= 0 and weapons >= 0 at all times. A garrison with no
// troops and no chiefs lapses and is removed from the map.
type Garrison struct {
	Troops  int     `json:"troops"`
	Weapons int     `json:"weapons"`
	Chiefs  []Chief `json:"chiefs,omitempty"`
}

// Empty reports whether the garrison is eligible for removal.
func (g *Garrison) Empty() bool {
	return g.Troops <= 0 && len(g.Chiefs) == 0
}

// DiplomaticStatus is the relation between two tribes.
type DiplomaticStatus string

const (
	StatusWar      DiplomaticStatus = "war"
	StatusNeutral  DiplomaticStatus = "neutral"
	StatusAlliance DiplomaticStatus = "alliance"
)

// DiplomaticRelation is one tribe's view of another. The engine keeps these
// symmetric across every pair of tribes.
type DiplomaticRelation struct {
	Status         DiplomaticStatus `json:"status"`
	TruceUntilTurn int              `json:"truce_until_turn,omitempty"`
}

// ResearchProject is an in-progress technology. Troops stay assigned until
// progress reaches the tech's research point cost, at which point the tech
// completes atomically and the troops return to their garrison.
type ResearchProject struct {
	TechID         string `json:"tech_id"`
	Progress       int    `json:"progress"`
	AssignedTroops int    `json:"assigned_troops"`
	Location       string `json:"location"` // garrison coordinate key
}

// InjuredChief is a chief recovering away from the roster until ReturnTurn.
type InjuredChief struct {
	Chief      Chief  `json:"chief"`
	FromHex    string `json:"from_hex"`
	ReturnTurn int    `json:"return_turn"`
}

// Prisoner is a captured enemy chief held by this tribe. ReleaseTurn of 0
// means held until exchanged.
type Prisoner struct {
	Chief       Chief  `json:"chief"`
	FromTribeID string `json:"from_tribe_id"`
	ReleaseTurn int    `json:"release_turn,omitempty"`
}

// Tribe is one player's or AI controller's faction.
type Tribe struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name"`
	IsAI     bool   `json:"is_ai,omitempty"`
	AIType   string `json:"ai_type,omitempty"`

	HomeBase world.HexCoord `json:"home_base"`

	Global    Resources            `json:"global_resources"`
	Garrisons map[string]*Garrison `json:"garrisons"` // coordinate key -> garrison

	// Per-turn submission queue, cleared after every resolution.
	Actions       []GameAction `json:"actions,omitempty"`
	TurnSubmitted bool         `json:"turn_submitted"`

	Diplomacy map[string]DiplomaticRelation `json:"diplomacy"` // other tribe id -> relation

	CompletedTechs  []string           `json:"completed_techs,omitempty"`
	Assets          []string           `json:"assets,omitempty"`
	CurrentResearch []*ResearchProject `json:"current_research,omitempty"`

	ExploredHexes map[string]bool `json:"explored_hexes"` // monotonically growing

	LastTurnResults []ActionResult `json:"last_turn_results,omitempty"`

	InjuredChiefs []InjuredChief `json:"injured_chiefs,omitempty"`
	Prisoners     []Prisoner     `json:"prisoners,omitempty"`
}

// GarrisonAt returns the tribe's garrison at the given coordinate key.
func (t *Tribe) GarrisonAt(key string) *Garrison {
	return t.Garrisons[key]
}

// EnsureGarrison returns the garrison at key, creating an empty one if
// absent.
func (t *Tribe) EnsureGarrison(key string) *Garrison {
	if g, ok := t.Garrisons[key]; ok {
		return g
	}
	g := &Garrison{}
	t.Garrisons[key] = g
	return g
}

// TotalTroops sums troops across all garrisons plus assigned researchers.
func (t *Tribe) TotalTroops() int {
	total := 0
	for _, g := range t.Garrisons {
		total += g.Troops
	}
	for _, p := range t.CurrentResearch {
		total += p.AssignedTroops
	}
	return total
}

// RelationWith returns the tribe's relation to other, defaulting to neutral.
func (t *Tribe) RelationWith(otherID string) DiplomaticRelation {
	if rel, ok := t.Diplomacy[otherID]; ok {
		return rel
	}
	return DiplomaticRelation{Status: StatusNeutral}
}

// Explore marks hex keys as seen. The explored set never shrinks.
func (t *Tribe) Explore(keys ...string) {
	if t.ExploredHexes == nil {
		t.ExploredHexes = make(map[string]bool)
	}
	for _, k := range keys {
		t.ExploredHexes[k] = true
	}
}

// ProposalKind enumerates diplomatic proposal types.
type ProposalKind string

const (
	ProposalAlliance ProposalKind = "alliance"
	ProposalPeace    ProposalKind = "peace"
)

// DiplomaticProposal is a pending cross-tribe offer with an expiry turn.
type DiplomaticProposal struct {
	ID            string       `json:"id"`
	FromTribeID   string       `json:"from_tribe_id"`
	ToTribeID     string       `json:"to_tribe_id"`
	Kind          ProposalKind `json:"kind"`
	ExpiresOnTurn int          `json:"expires_on_turn"`
}

// DiplomaticMessage is a one-way notice delivered to a tribe, pruned after
// its expiry turn.
type DiplomaticMessage struct {
	ToTribeID     string `json:"to_tribe_id"`
	FromTribeID   string `json:"from_tribe_id"`
	Text          string `json:"text"`
	ExpiresOnTurn int    `json:"expires_on_turn"`
}

// TradeAgreement is a recurring resource transfer between two tribes,
// applied once per turn until it runs out or either side cannot pay.
type TradeAgreement struct {
	ID             string  `json:"id"`
	FromTribeID    string  `json:"from_tribe_id"`
	ToTribeID      string  `json:"to_tribe_id"`
	Give           Payload `json:"give"`    // from -> to each turn
	Receive        Payload `json:"receive"` // to -> from each turn
	TurnsRemaining int     `json:"turns_remaining"`
}

// TurnHistoryRecord is the append-only summary of one resolved turn.
// Records are written once and never mutated afterwards.
type TurnHistoryRecord struct {
	Turn      int                 `json:"turn"`
	Summaries map[string][]string `json:"summaries"` // tribe id -> outcome lines
}

// GameState is the root aggregate. The turn orchestrator owns it exclusively
// during resolution; outside the core it is persisted as an opaque blob.
type GameState struct {
	Seed int64 `json:"seed"`
	Turn int   `json:"turn"`

	Map *world.Map `json:"map"`

	// Stored order determines deterministic tie-break precedence.
	Tribes []*Tribe `json:"tribes"`

	Journeys []*Journey `json:"journeys,omitempty"`

	DiplomaticProposals []*DiplomaticProposal `json:"diplomatic_proposals,omitempty"`
	DiplomaticMessages  []*DiplomaticMessage  `json:"diplomatic_messages,omitempty"`
	TradeAgreements     []*TradeAgreement     `json:"trade_agreements,omitempty"`

	// Unclaimed spawn hexes, consumed as tribes join.
	StartingLocations []string `json:"starting_locations,omitempty"`

	History []TurnHistoryRecord `json:"history,omitempty"`
}

// Tribe returns the tribe with the given id, or nil.
func (st *GameState) Tribe(id string) *Tribe {
	for _, t := range st.Tribes {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// GarrisonAt returns the first tribe (in stored order) holding a garrison at
// the given coordinate key, along with the garrison itself.
func (st *GameState) GarrisonAt(key string) (*Tribe, *Garrison) {
	for _, t := range st.Tribes {
		if g, ok := t.Garrisons[key]; ok {
			return t, g
		}
	}
	return nil, nil
}

// Journey returns the journey with the given id, or nil.
func (st *GameState) Journey(id string) *Journey {
	for _, j := range st.Journeys {
		if j.ID == id {
			return j
		}
	}
	return nil
}
