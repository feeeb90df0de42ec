// Package engine implements turn resolution: the orchestrator, action
// executors, combat resolver, journey scheduler, diplomacy manager, and
// upkeep. One call to ResolveTurn takes the committed GameState plus every
// tribe's queued actions and produces the next state, atomically.
package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// Base travel rate before tech/asset multipliers.
const baseSpeedHexesPerTurn = 2.0

// Env carries the static collaborators a resolution pass reads from:
// catalogs as lookup data and the seeded randomness source.
type Env struct {
	Catalogs *catalog.Catalogs
	Rand     entropy.Source
}

// bonus sums the tribe's passive effect values of one kind across completed
// techs and held assets.
func (e *Env) bonus(t *game.Tribe, kind catalog.EffectKind) float64 {
	total := 0.0
	for _, id := range t.CompletedTechs {
		if tech, ok := e.Catalogs.Techs[id]; ok && tech.Effect.Kind == kind {
			total += tech.Effect.Value
		}
	}
	for _, id := range t.Assets {
		if a, ok := e.Catalogs.Assets[id]; ok && a.Effect.Kind == kind {
			total += a.Effect.Value
		}
	}
	return total
}

// variance returns a bounded multiplier in [0.95, 1.05).
func (e *Env) variance() float64 {
	return 0.95 + e.Rand.Float()*0.10
}

// travelTurns computes journey length: hex distance over the tribe's speed,
// rounded up, minimum one turn.
func (e *Env) travelTurns(t *game.Tribe, from, to world.HexCoord) int {
	dist := world.Distance(from, to)
	speed := baseSpeedHexesPerTurn * (1 + e.bonus(t, catalog.EffectMovementSpeed))
	turns := int(math.Ceil(float64(dist) / speed))
	if turns < 1 {
		turns = 1
	}
	return turns
}

// stableID derives a reproducible v5 UUID from the turn, owner, and a
// sequence number. Random v4 IDs would break replay determinism.
func stableID(kind string, turn int, owner string, seq int) string {
	name := fmt.Sprintf("tribelands/%s/%d/%s/%d", kind, turn, owner, seq)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
