// Package world provides the hex grid, terrain, and spatial data structures
// for the wasteland map. Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Key returns the canonical coordinate string for this hex.
func (h HexCoord) Key() string {
	return FormatCoords(h.Q, h.R)
}

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Open ground, easy travel
	TerrainForest                   // Overgrown woodland, good cover
	TerrainDesert                   // Dunes and glass flats
	TerrainMountains                // High ground, strong defensive positions
	TerrainWasteland                // Cracked earth, little of value
	TerrainSwamp                    // Toxic bogs, slow going
	TerrainCrater                   // Old impact sites, scrap-rich
	TerrainRadiation                // Hot zones, dangerous but lucrative
	TerrainWater                    // Impassable
)

// DefenseBonus returns the defender's terrain modifier used by the combat
// resolver, as a fraction added to defender effective strength.
func (t Terrain) DefenseBonus() float64 {
	switch t {
	case TerrainMountains:
		return 0.5
	case TerrainForest:
		return 0.25
	case TerrainSwamp:
		return 0.15
	case TerrainCrater:
		return 0.1
	default:
		return 0
	}
}

// Passable reports whether journeys may enter or end on this terrain.
func (t Terrain) Passable() bool {
	return t != TerrainWater
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainForest:
		return "Forest"
	case TerrainDesert:
		return "Desert"
	case TerrainMountains:
		return "Mountains"
	case TerrainWasteland:
		return "Wasteland"
	case TerrainSwamp:
		return "Swamp"
	case TerrainCrater:
		return "Crater"
	case TerrainRadiation:
		return "Radiation"
	case TerrainWater:
		return "Water"
	default:
		return "Unknown"
	}
}

// Hex represents a single tile on the world map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Point of interest on this hex, if any.
	POI *POI `json:"poi,omitempty"`
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// CoordsInRange returns every coordinate within radius of center, including
// the center itself. The result is in deterministic scan order and has
// exactly 1 + 3*radius*(radius+1) entries.
func CoordsInRange(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	out := make([]HexCoord, 0, 1+3*radius*(radius+1))
	for dq := -radius; dq <= radius; dq++ {
		lo := -radius
		if -dq-radius > lo {
			lo = -dq - radius
		}
		hi := radius
		if -dq+radius < hi {
			hi = -dq + radius
		}
		for dr := lo; dr <= hi; dr++ {
			out = append(out, HexCoord{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return out
}

// KeysInRange is CoordsInRange with canonical string keys.
func KeysInRange(center HexCoord, radius int) []string {
	coords := CoordsInRange(center, radius)
	keys := make([]string, len(coords))
	for i, c := range coords {
		keys[i] = c.Key()
	}
	return keys
}
