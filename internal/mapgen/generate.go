// Package mapgen generates tribelands maps: layered simplex noise derives
// terrain, then seeded passes scatter points of interest and pick dispersed
// starting locations. The same config always produces the same map.
package mapgen

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/tribelands/internal/world"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius
	Seed        int64   // Generation seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0-1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0-1.0)

	POIDensity        float64 // Per-hex chance of a point of interest
	StartingLocations int     // Spawn hexes to reserve
}

// DefaultGenConfig returns the standard match configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:            20,
		Seed:              0,
		SeaLevel:          0.22,
		MountainLvl:       0.74,
		POIDensity:        0.12,
		StartingLocations: 12,
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:            6,
		Seed:              42,
		SeaLevel:          0.25,
		MountainLvl:       0.78,
		POIDensity:        0.15,
		StartingLocations: 4,
	}
}

// Generate builds a complete map plus its reserved starting locations.
func Generate(cfg GenConfig) (*world.Map, []string) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent noise layers: landform, moisture, and old-war blight.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	blightNoise := opensimplex.NewNormalized(seed + 2)

	m := world.NewMap(cfg.Radius)

	for _, coord := range world.CoordsInRange(world.HexCoord{}, cfg.Radius) {
		// Hex axial -> cartesian for noise sampling.
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
		blight := octaveNoise(blightNoise, x, y, 3, 0.05, 0.5)

		// Continental shaping: fall off toward the rim so water rings the map.
		distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
		edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
		if edgeFalloff < 0 {
			edgeFalloff = 0
		}
		elev *= edgeFalloff

		m.Set(&world.Hex{
			Coord:   coord,
			Terrain: deriveTerrain(elev, rain, blight, cfg),
		})
	}

	placePOIs(m, seed, cfg.POIDensity)
	starts := pickStartingLocations(m, seed, cfg.StartingLocations)
	return m, starts
}

// deriveTerrain maps the noise layers onto the wasteland palette. Blight
// dominates: heavily irradiated ground overrides whatever the landform says.
func deriveTerrain(elev, rain, blight float64, cfg GenConfig) world.Terrain {
	if elev < cfg.SeaLevel {
		return world.TerrainWater
	}
	if blight > 0.82 {
		return world.TerrainRadiation
	}
	if blight > 0.72 {
		return world.TerrainCrater
	}
	if elev > cfg.MountainLvl {
		return world.TerrainMountains
	}
	if rain < 0.25 {
		if elev > 0.5 {
			return world.TerrainDesert
		}
		return world.TerrainWasteland
	}
	if rain > 0.7 && elev < 0.45 {
		return world.TerrainSwamp
	}
	if rain > 0.45 && elev > 0.4 {
		return world.TerrainForest
	}
	return world.TerrainPlains
}

// placePOIs scatters points of interest across passable ground. Hexes are
// visited in deterministic scan order so the same seed lands the same sites.
func placePOIs(m *world.Map, seed int64, density float64) {
	rng := rand.New(rand.NewSource(seed + 100))
	for _, coord := range world.CoordsInRange(world.HexCoord{}, m.Radius) {
		hex := m.Get(coord)
		if hex == nil || !hex.Terrain.Passable() {
			continue
		}
		if rng.Float64() >= density {
			continue
		}
		poiType := pickPOIType(rng, hex.Terrain)
		hex.POI = &world.POI{
			Type:       poiType,
			Rarity:     0.8 + rng.Float64()*1.2,
			Durability: 3 + rng.Intn(6),
		}
	}
}

// pickPOIType draws a site type weighted by the terrain it sits on.
func pickPOIType(rng *rand.Rand, t world.Terrain) world.POIType {
	type weighted struct {
		poi    world.POIType
		weight int
	}
	var table []weighted
	switch t {
	case world.TerrainPlains:
		table = []weighted{
			{world.POIFoodSource, 4}, {world.POIRuins, 3},
			{world.POISettlement, 2}, {world.POIBattlefield, 1},
		}
	case world.TerrainForest:
		table = []weighted{
			{world.POIFoodSource, 4}, {world.POIRuins, 2}, {world.POIBanditCamp, 2},
		}
	case world.TerrainMountains:
		table = []weighted{
			{world.POIMine, 5}, {world.POIVault, 2}, {world.POIBanditCamp, 1},
		}
	case world.TerrainDesert, world.TerrainWasteland:
		table = []weighted{
			{world.POIRuins, 4}, {world.POIBattlefield, 2},
			{world.POIFactory, 2}, {world.POIVault, 1},
		}
	case world.TerrainCrater:
		table = []weighted{
			{world.POIMine, 3}, {world.POIFactory, 2}, {world.POIBattlefield, 2},
		}
	case world.TerrainRadiation:
		table = []weighted{
			{world.POIVault, 3}, {world.POIResearchLab, 3}, {world.POIFactory, 1},
		}
	case world.TerrainSwamp:
		table = []weighted{
			{world.POIRuins, 3}, {world.POIFoodSource, 1},
		}
	default:
		table = []weighted{{world.POIRuins, 1}}
	}

	total := 0
	for _, w := range table {
		total += w.weight
	}
	roll := rng.Intn(total)
	for _, w := range table {
		roll -= w.weight
		if roll < 0 {
			return w.poi
		}
	}
	return world.POIRuins
}

// octaveNoise layers multiple noise frequencies for natural-looking terrain.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
