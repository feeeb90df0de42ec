package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
)

// recruitFoodCost is food per recruited troop.
const recruitFoodCost = 5

func (rv *resolver) execRecruit(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Recruit
	if o.Troops <= 0 {
		return failed(act, "must recruit at least 1 troop")
	}
	g := t.GarrisonAt(o.Location)
	if g == nil {
		return failed(act, fmt.Sprintf("no garrison at %s", o.Location))
	}
	cost := o.Troops * recruitFoodCost
	if t.Global.Food < cost {
		return failed(act, fmt.Sprintf("recruiting %d troops costs %d food, only %d on hand", o.Troops, cost, t.Global.Food))
	}
	if t.Global.Morale < 20 {
		return failed(act, "morale is too low; no one is signing up")
	}
	t.Global.Food -= cost
	g.Troops += o.Troops
	return succeeded(act,
		fmt.Sprintf("%d recruits joined the garrison at %s", o.Troops, o.Location),
		&game.ResourceDelta{Food: -cost, Troops: o.Troops})
}
