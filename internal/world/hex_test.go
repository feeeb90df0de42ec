package world

import "testing"

func TestCoordRoundTrip(t *testing.T) {
	for q := -30; q <= 30; q++ {
		for r := -30; r <= 30; r++ {
			key := FormatCoords(q, r)
			got, err := ParseCoords(key)
			if err != nil {
				t.Fatalf("ParseCoords(%q): %v", key, err)
			}
			if got.Q != q || got.R != r {
				t.Fatalf("round trip %q: got (%d,%d), want (%d,%d)", key, got.Q, got.R, q, r)
			}
		}
	}
}

func TestParseCoordsRejectsMalformed(t *testing.T) {
	bad := []string{"", "050", "050.", ".050", "05.050", "050.05", "abc.def", "0x1.050", "050,050", "+50.050"}
	for _, s := range bad {
		if _, err := ParseCoords(s); err == nil {
			t.Errorf("ParseCoords(%q): expected error, got none", s)
		}
	}
}

func TestDistanceProperties(t *testing.T) {
	a := HexCoord{Q: 2, R: -3}
	b := HexCoord{Q: -4, R: 1}
	c := HexCoord{Q: 5, R: 5}

	if Distance(a, a) != 0 {
		t.Errorf("Distance(a,a) = %d, want 0", Distance(a, a))
	}
	if Distance(a, b) != Distance(b, a) {
		t.Errorf("distance not symmetric: %d vs %d", Distance(a, b), Distance(b, a))
	}
	if Distance(a, c) > Distance(a, b)+Distance(b, c) {
		t.Errorf("triangle inequality violated: d(a,c)=%d > d(a,b)+d(b,c)=%d",
			Distance(a, c), Distance(a, b)+Distance(b, c))
	}
	for _, n := range a.Neighbors() {
		if Distance(a, n) != 1 {
			t.Errorf("neighbor %v at distance %d, want 1", n, Distance(a, n))
		}
	}
}

func TestCoordsInRangeSize(t *testing.T) {
	center := HexCoord{Q: 1, R: -2}
	for radius := 0; radius <= 6; radius++ {
		got := CoordsInRange(center, radius)
		want := 1 + 3*radius*(radius+1)
		if len(got) != want {
			t.Errorf("radius %d: %d coords, want %d", radius, len(got), want)
		}
		seen := make(map[HexCoord]bool, len(got))
		foundCenter := false
		for _, c := range got {
			if seen[c] {
				t.Fatalf("radius %d: duplicate coord %v", radius, c)
			}
			seen[c] = true
			if Distance(center, c) > radius {
				t.Errorf("radius %d: coord %v at distance %d", radius, c, Distance(center, c))
			}
			if c == center {
				foundCenter = true
			}
		}
		if !foundCenter {
			t.Errorf("radius %d: center missing from range", radius)
		}
	}
}

func TestMapJSONRoundTrip(t *testing.T) {
	m := NewMap(2)
	for _, coord := range CoordsInRange(HexCoord{}, 2) {
		m.Set(&Hex{Coord: coord, Terrain: TerrainPlains})
	}
	m.Get(HexCoord{Q: 1, R: 0}).POI = &POI{Type: POIVault, Rarity: 2.5, Durability: 3}

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Map
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.HexCount() != m.HexCount() || back.Radius != m.Radius {
		t.Fatalf("got %d hexes radius %d, want %d radius %d",
			back.HexCount(), back.Radius, m.HexCount(), m.Radius)
	}
	poi := back.Get(HexCoord{Q: 1, R: 0}).POI
	if poi == nil || poi.Type != POIVault || poi.Durability != 3 {
		t.Fatalf("POI did not survive round trip: %+v", poi)
	}
}
