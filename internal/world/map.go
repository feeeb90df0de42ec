package world

import (
	"encoding/json"
	"fmt"
)

// Map holds the complete hex grid.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// GetKey returns the hex at the given canonical coordinate string.
func (m *Map) GetKey(key string) *Hex {
	coord, err := ParseCoords(key)
	if err != nil {
		return nil
	}
	return m.Hexes[coord]
}

// Set places a hex at its coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	q := abs(coord.Q)
	r := abs(coord.R)
	s := abs(coord.S())
	max := q
	if r > max {
		max = r
	}
	if s > max {
		max = s
	}
	return max <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// Clone returns a deep copy of the map, including POI sub-state.
func (m *Map) Clone() *Map {
	out := NewMap(m.Radius)
	for coord, hex := range m.Hexes {
		h := *hex
		if hex.POI != nil {
			poi := *hex.POI
			h.POI = &poi
		}
		out.Hexes[coord] = &h
	}
	return out
}

// mapJSON is the wire form of a Map: a flat hex list, since struct-keyed
// maps do not round-trip through encoding/json.
type mapJSON struct {
	Radius int    `json:"radius"`
	Hexes  []*Hex `json:"hexes"`
}

// MarshalJSON serializes the map with hexes in deterministic scan order.
func (m *Map) MarshalJSON() ([]byte, error) {
	out := mapJSON{Radius: m.Radius, Hexes: make([]*Hex, 0, len(m.Hexes))}
	for _, coord := range CoordsInRange(HexCoord{}, m.Radius) {
		if hex, ok := m.Hexes[coord]; ok {
			out.Hexes = append(out.Hexes, hex)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a map from its wire form.
func (m *Map) UnmarshalJSON(data []byte) error {
	var in mapJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Radius = in.Radius
	m.Hexes = make(map[HexCoord]*Hex, len(in.Hexes))
	for _, hex := range in.Hexes {
		m.Hexes[hex.Coord] = hex
	}
	return nil
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
