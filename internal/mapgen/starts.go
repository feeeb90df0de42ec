package mapgen

import (
	"math/rand"
	"sort"

	"github.com/talgya/tribelands/internal/world"
)

// minStartSeparation keeps spawn hexes from crowding each other.
const minStartSeparation = 6

// pickStartingLocations scores every candidate hex and reserves the best
// dispersed set as spawn points. Candidates are scored deterministically and
// ties broken by scan order, so the same map yields the same spawns.
func pickStartingLocations(m *world.Map, seed int64, count int) []string {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord world.HexCoord
		score float64
	}
	var candidates []scored
	for _, coord := range world.CoordsInRange(world.HexCoord{}, m.Radius) {
		hex := m.Get(coord)
		if hex == nil {
			continue
		}
		s := startScore(m, coord, hex)
		if s > 0 {
			candidates = append(candidates, scored{coord, s})
		}
	}

	if len(candidates) == 0 {
		// Brutal map: fall back to any passable, unoccupied ground.
		for _, coord := range world.CoordsInRange(world.HexCoord{}, m.Radius) {
			hex := m.Get(coord)
			if hex != nil && hex.Terrain.Passable() && hex.POI == nil {
				candidates = append(candidates, scored{coord, 0.1})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var picked []world.HexCoord
	minDist := minStartSeparation
	for len(picked) < count && minDist > 1 {
		for _, c := range candidates {
			if len(picked) >= count {
				break
			}
			if tooClose(c.coord, picked, minDist) {
				continue
			}
			picked = append(picked, c.coord)
		}
		// Map too small for the requested spread; relax and fill the rest.
		minDist--
	}

	// A light shuffle so join order does not correlate with score rank.
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	keys := make([]string, len(picked))
	for i, c := range picked {
		keys[i] = c.Key()
	}
	return keys
}

// startScore rates a hex as a home base site: open ground near varied
// terrain, never on water, radiation, or an existing site.
func startScore(m *world.Map, coord world.HexCoord, hex *world.Hex) float64 {
	if hex.POI != nil {
		return 0
	}
	score := 0.0
	switch hex.Terrain {
	case world.TerrainPlains:
		score = 3.0
	case world.TerrainForest:
		score = 2.0
	case world.TerrainDesert, world.TerrainWasteland:
		score = 1.0
	case world.TerrainSwamp, world.TerrainCrater:
		score = 0.5
	default:
		return 0
	}

	seen := make(map[world.Terrain]bool)
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		if nh.Terrain.Passable() {
			seen[nh.Terrain] = true
		}
		if nh.POI != nil {
			score += 0.4 // something worth scavenging next door
		}
	}
	score += float64(len(seen)) * 0.3

	// Edge hexes make cramped homes.
	if !m.InBounds(coord) {
		return 0
	}
	return score
}

func tooClose(coord world.HexCoord, existing []world.HexCoord, minDist int) bool {
	for _, c := range existing {
		if world.Distance(coord, c) < minDist {
			return true
		}
	}
	return false
}
