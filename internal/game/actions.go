package game

// ActionType tags a GameAction variant.
type ActionType string

const (
	ActionMove              ActionType = "move"
	ActionAttack            ActionType = "attack"
	ActionScavenge          ActionType = "scavenge"
	ActionScout             ActionType = "scout"
	ActionBuildOutpost      ActionType = "build_outpost"
	ActionTrade             ActionType = "trade"
	ActionRespondToTrade    ActionType = "respond_to_trade"
	ActionStartResearch     ActionType = "start_research"
	ActionSabotage          ActionType = "sabotage"
	ActionRecruit           ActionType = "recruit"
	ActionProposeAlliance   ActionType = "propose_alliance"
	ActionSueForPeace       ActionType = "sue_for_peace"
	ActionDeclareWar        ActionType = "declare_war"
	ActionRespondToProposal ActionType = "respond_to_proposal"

	ActionProposePrisonerExchange   ActionType = "propose_prisoner_exchange"
	ActionRespondToPrisonerExchange ActionType = "respond_to_prisoner_exchange"
)

// GameAction is a tagged union: Type selects exactly one populated variant.
// The executor dispatch switches exhaustively on Type.
type GameAction struct {
	ID   string     `json:"id"`
	Type ActionType `json:"type"`

	Move          *MoveOrder      `json:"move,omitempty"`
	Attack        *AttackOrder    `json:"attack,omitempty"`
	Scavenge      *ScavengeOrder  `json:"scavenge,omitempty"`
	Scout         *ScoutOrder     `json:"scout,omitempty"`
	BuildOutpost  *OutpostOrder   `json:"build_outpost,omitempty"`
	Trade         *TradeOrder     `json:"trade,omitempty"`
	TradeResponse *TradeResponse  `json:"trade_response,omitempty"`
	Research      *ResearchOrder  `json:"research,omitempty"`
	Sabotage      *SabotageOrder  `json:"sabotage,omitempty"`
	Recruit       *RecruitOrder   `json:"recruit,omitempty"`
	Diplomacy     *DiplomacyOrder `json:"diplomacy,omitempty"`

	Exchange         *ExchangeOrder    `json:"exchange,omitempty"`
	ExchangeResponse *ExchangeResponse `json:"exchange_response,omitempty"`
}

// MoveOrder relocates a detachment from one garrison to another hex.
type MoveOrder struct {
	From    string   `json:"from"` // origin garrison coordinate key
	To      string   `json:"to"`
	Troops  int      `json:"troops"`
	Weapons int      `json:"weapons"`
	Chiefs  []string `json:"chiefs,omitempty"` // chief names traveling along
}

// AttackOrder sends a war party against a target hex.
type AttackOrder struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Troops  int      `json:"troops"`
	Weapons int      `json:"weapons"`
	Chiefs  []string `json:"chiefs,omitempty"`
}

// ScavengeOrder works a POI for one resource kind.
type ScavengeOrder struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Troops   int    `json:"troops"`
	Resource string `json:"resource"` // "food", "scrap", or "weapons"
}

// ScoutOrder sends a small party to reveal hexes around a target.
type ScoutOrder struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Troops int    `json:"troops"`
}

// OutpostOrder builds a fortified outpost on an unclaimed hex.
type OutpostOrder struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Troops int    `json:"troops"`
}

// TradeOrder dispatches a caravan carrying Give and asking for Request.
// Recurring > 0 asks for a standing agreement on top of the swap: the same
// food/scrap transfer repeats for that many further turns once accepted.
type TradeOrder struct {
	From      string  `json:"from"`
	To        string  `json:"to"` // destination garrison coordinate key
	Troops    int     `json:"troops"` // caravan guards
	Give      Payload `json:"give"`
	Request   Payload `json:"request"`
	Recurring int     `json:"recurring,omitempty"`
}

// TradeResponse accepts or rejects a trade journey awaiting response at one
// of the tribe's garrisons.
type TradeResponse struct {
	JourneyID string `json:"journey_id"`
	Accept    bool   `json:"accept"`
}

// ExchangeOrder sends an envoy returning a captured chief to their own
// tribe, asking a ransom and optionally one of the sender's own chiefs back.
type ExchangeOrder struct {
	From         string  `json:"from"`
	To           string  `json:"to"` // destination garrison coordinate key
	Troops       int     `json:"troops"` // escort size
	Prisoner     string  `json:"prisoner"` // name of the held chief on offer
	RequestChief string  `json:"request_chief,omitempty"`
	Ransom       Payload `json:"ransom"`
}

// ExchangeResponse accepts or rejects a prisoner-exchange envoy waiting at
// one of the tribe's garrisons.
type ExchangeResponse struct {
	JourneyID string `json:"journey_id"`
	Accept    bool   `json:"accept"`
}

// ResearchOrder assigns troops at a garrison to a technology project.
type ResearchOrder struct {
	TechID   string `json:"tech_id"`
	Location string `json:"location"`
	Troops   int    `json:"troops"`
}

// SabotageObjective selects the effect of a successful sabotage run.
type SabotageObjective string

const (
	SabotageStealFood      SabotageObjective = "steal_food"
	SabotageStealScrap     SabotageObjective = "steal_scrap"
	SabotageDestroyWeapons SabotageObjective = "destroy_weapons"
	SabotageDisableOutpost SabotageObjective = "disable_outpost"
	SabotageGatherIntel    SabotageObjective = "gather_intel"
)

// SabotageOrder sends operatives against an enemy garrison.
type SabotageOrder struct {
	From       string            `json:"from"`
	Target     string            `json:"target"` // enemy garrison coordinate key
	Operatives int               `json:"operatives"`
	Chiefs     []string          `json:"chiefs,omitempty"`
	Objective  SabotageObjective `json:"objective"`
}

// RecruitOrder converts food into troops at a garrison.
type RecruitOrder struct {
	Location string `json:"location"`
	Troops   int    `json:"troops"`
}

// DiplomacyOrder covers propose-alliance, sue-for-peace, declare-war, and
// respond-to-proposal. TargetTribeID names the other party; ProposalID and
// Accept apply to responses only.
type DiplomacyOrder struct {
	TargetTribeID string `json:"target_tribe_id,omitempty"`
	ProposalID    string `json:"proposal_id,omitempty"`
	Accept        bool   `json:"accept,omitempty"`
}

// ResourceDelta is the structured outcome delta attached to action results.
type ResourceDelta struct {
	Food    int `json:"food,omitempty"`
	Scrap   int `json:"scrap,omitempty"`
	Morale  int `json:"morale,omitempty"`
	Troops  int `json:"troops,omitempty"`
	Weapons int `json:"weapons,omitempty"`
}

// ActionResult records the outcome of one action (or journey arrival) for a
// tribe's last-turn report. Failed validations produce OK=false results;
// they never abort the turn.
type ActionResult struct {
	ActionID string         `json:"action_id,omitempty"`
	Type     ActionType     `json:"type,omitempty"`
	OK       bool           `json:"ok"`
	Message  string         `json:"message"`
	Delta    *ResourceDelta `json:"delta,omitempty"`
}
