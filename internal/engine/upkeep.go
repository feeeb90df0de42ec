package engine

import (
	"fmt"
	"math"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// foodSourceBaseYield is per-turn food from a garrisoned food source POI,
// scaled by the POI's rarity.
const foodSourceBaseYield = 8

// starvationMoralePenalty hits a tribe that cannot feed its troops.
const starvationMoralePenalty = 10

// starvationDisbandFraction of each garrison deserts when the food runs out.
const starvationDisbandFraction = 0.10

// moraleDriftRate pulls morale toward its resting point each turn.
const (
	moraleDriftRate    = 2
	moraleRestingPoint = 50
)

// runUpkeep settles the turn's economy for every tribe: food production from
// held sources, consumption, starvation fallout, and morale drift.
func (rv *resolver) runUpkeep() {
	for _, t := range rv.st.Tribes {
		rv.produceFood(t)
		rv.consumeFood(t)
		driftMorale(t)
	}
}

// produceFood credits yield from every food source POI the tribe garrisons.
func (rv *resolver) produceFood(t *game.Tribe) {
	bonus := rv.env.bonus(t, catalog.EffectFoodProduction)
	total := 0
	for key := range t.Garrisons {
		hex := rv.st.Map.GetKey(key)
		if hex == nil || hex.POI == nil || hex.POI.Type != world.POIFoodSource {
			continue
		}
		total += int(float64(foodSourceBaseYield) * hex.POI.Rarity * (1 + bonus))
	}
	if total > 0 {
		t.Global.Food += total
		rv.addResult(t.ID, game.ActionResult{
			OK:      true,
			Message: fmt.Sprintf("food sources yielded %d food", total),
		})
	}
}

// consumeFood deducts the turn's rations. A shortfall clamps the stockpile
// at zero, costs morale, and disbands a share of every garrison.
func (rv *resolver) consumeFood(t *game.Tribe) {
	needed := int(math.Ceil(float64(t.TotalTroops()) / 2))
	if needed <= 0 {
		return
	}
	if t.Global.Food >= needed {
		t.Global.Food -= needed
		return
	}

	t.Global.Food = 0
	t.Global.Morale -= starvationMoralePenalty
	if t.Global.Morale < 0 {
		t.Global.Morale = 0
	}
	deserted := 0
	for _, g := range t.Garrisons {
		loss := int(float64(g.Troops) * starvationDisbandFraction)
		if loss < 1 && g.Troops > 0 {
			loss = 1
		}
		if loss > g.Troops {
			loss = g.Troops
		}
		g.Troops -= loss
		deserted += loss
	}
	rv.addResult(t.ID, game.ActionResult{
		OK:      false,
		Message: fmt.Sprintf("the tribe is starving: %d troops deserted, morale fell to %d", deserted, t.Global.Morale),
	})
}

// driftMorale pulls morale toward the resting point and clamps the range.
func driftMorale(t *game.Tribe) {
	switch {
	case t.Global.Morale > moraleRestingPoint:
		t.Global.Morale -= moraleDriftRate
		if t.Global.Morale < moraleRestingPoint {
			t.Global.Morale = moraleRestingPoint
		}
	case t.Global.Morale < moraleRestingPoint:
		t.Global.Morale += moraleDriftRate
		if t.Global.Morale > moraleRestingPoint {
			t.Global.Morale = moraleRestingPoint
		}
	}
	if t.Global.Morale > 100 {
		t.Global.Morale = 100
	}
	if t.Global.Morale < 0 {
		t.Global.Morale = 0
	}
}
