package world

// POIType enumerates points of interest found on the map.
type POIType uint8

const (
	POIRuins      POIType = iota // Collapsed pre-war city blocks
	POIVault                     // Sealed shelters, rich but tough to crack
	POIFactory                   // Weapon and parts fabrication
	POIMine                      // Raw scrap and ore
	POIFoodSource                // Arable land, orchards, fisheries
	POIBattlefield               // Old war zones littered with weapons
	POIResearchLab               // Intact labs, research bonus
	POISettlement                // Survivor enclaves
	POIOutpost                   // Player-built fortification
	POIBanditCamp                // Hostile holdouts
)

// POIName returns a human-readable name for a POI type.
func POIName(t POIType) string {
	switch t {
	case POIRuins:
		return "Ruins"
	case POIVault:
		return "Vault"
	case POIFactory:
		return "Factory"
	case POIMine:
		return "Mine"
	case POIFoodSource:
		return "Food Source"
	case POIBattlefield:
		return "Battlefield"
	case POIResearchLab:
		return "Research Lab"
	case POISettlement:
		return "Settlement"
	case POIOutpost:
		return "Outpost"
	case POIBanditCamp:
		return "Bandit Camp"
	default:
		return "Unknown"
	}
}

// POI is a point of interest on a hex. Outposts and settlements carry
// ownership and fortification sub-state.
type POI struct {
	Type   POIType `json:"type"`
	Rarity float64 `json:"rarity"` // Yield multiplier, 1.0 = common

	// Durability is the remaining scavenge capacity. Exhausted POIs
	// (durability 0) degrade into plain ruins.
	Durability int `json:"durability"`

	// Fortification sub-state (outposts and settlements).
	OwnerTribeID      string `json:"owner_tribe_id,omitempty"`
	Fortified         bool   `json:"fortified,omitempty"`
	DisabledUntilTurn int    `json:"disabled_until_turn,omitempty"`
}

// DefenseActive reports whether the fortification counts in combat on the
// given turn (sabotage can disable it for a few turns).
func (p *POI) DefenseActive(turn int) bool {
	return p != nil && p.Fortified && turn >= p.DisabledUntilTurn
}
