package engine

import (
	"strings"
	"testing"

	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

var sabotageTarget = world.HexCoord{Q: 0, R: 0}

// sabotageState plants a beta garrison three hexes from alpha's home so the
// success chance sits mid-range, where scripted rolls can force any outcome.
func sabotageState(withChief bool) *game.GameState {
	st := flatState()
	st.Tribes[1].Garrisons[sabotageTarget.Key()] = &game.Garrison{Troops: 10, Weapons: 4}
	if withChief {
		g := st.Tribes[0].Garrisons[alphaHome.Key()]
		g.Chiefs = []game.Chief{{Name: "Mara"}}
	}
	return st
}

func sabotageOrder(chiefs []string, objective game.SabotageObjective) map[string][]game.GameAction {
	return map[string][]game.GameAction{
		"tribe-alpha": {{
			ID: "a1", Type: game.ActionSabotage,
			Sabotage: &game.SabotageOrder{
				From:       alphaHome.Key(),
				Target:     sabotageTarget.Key(),
				Operatives: 2,
				Chiefs:     chiefs,
				Objective:  objective,
			},
		}},
	}
}

// resolveScripted resolves one turn with a scripted roll sequence.
func resolveScripted(t *testing.T, st *game.GameState, submitted map[string][]game.GameAction, rolls ...float64) *game.GameState {
	t.Helper()
	env := testEnv()
	env.Rand = entropy.NewFixed(rolls...)
	next, err := ResolveTurn(st, submitted, env)
	if err != nil {
		t.Fatalf("ResolveTurn: %v", err)
	}
	return next
}

func TestSabotageSuccessUndetected(t *testing.T) {
	// First roll forces success, second clears the detection threshold.
	next := resolveScripted(t, sabotageState(false), sabotageOrder(nil, game.SabotageStealFood), 0.1, 0.9)

	alpha, beta := next.Tribe("tribe-alpha"), next.Tribe("tribe-beta")
	// +10 stolen, -15 rations for 30 troops.
	if alpha.Global.Food != 195 {
		t.Fatalf("alpha food = %d, want 195", alpha.Global.Food)
	}
	// -10 stolen, -18 rations for 35 troops.
	if beta.Global.Food != 172 {
		t.Fatalf("beta food = %d, want 172", beta.Global.Food)
	}
	if got := alpha.GarrisonAt(alphaHome.Key()).Troops; got != 30 {
		t.Fatalf("operatives did not slip back home: troops = %d", got)
	}
	for _, r := range beta.LastTurnResults {
		if r.Type == game.ActionSabotage {
			t.Fatalf("undetected run still notified the victim: %+v", r)
		}
	}
}

func TestSabotageSuccessDetected(t *testing.T) {
	next := resolveScripted(t, sabotageState(false), sabotageOrder(nil, game.SabotageStealScrap), 0.1, 0.1)

	alpha, beta := next.Tribe("tribe-alpha"), next.Tribe("tribe-beta")
	if alpha.Global.Scrap != 210 || beta.Global.Scrap != 190 {
		t.Fatalf("scrap alpha=%d beta=%d, want 210/190", alpha.Global.Scrap, beta.Global.Scrap)
	}
	notified := false
	for _, r := range beta.LastTurnResults {
		if r.Type == game.ActionSabotage && strings.Contains(r.Message, "saboteurs") {
			notified = true
		}
	}
	if !notified {
		t.Fatalf("detected run did not notify the victim: %+v", beta.LastTurnResults)
	}
}

func TestSabotageFailureUndetected(t *testing.T) {
	next := resolveScripted(t, sabotageState(false), sabotageOrder(nil, game.SabotageStealFood), 0.9, 0.9)

	alpha, beta := next.Tribe("tribe-alpha"), next.Tribe("tribe-beta")
	if got := alpha.GarrisonAt(alphaHome.Key()).Troops; got != 30 {
		t.Fatalf("failed-but-unseen operatives lost: troops = %d, want 30", got)
	}
	if len(beta.Prisoners) != 0 {
		t.Fatalf("no one should be captured: %+v", beta.Prisoners)
	}
	res := alpha.LastTurnResults
	if len(res) == 0 || res[0].OK {
		t.Fatalf("failed run reported success: %+v", res)
	}
}

func TestSabotageFailureDetectedCapturesTheTeam(t *testing.T) {
	next := resolveScripted(t, sabotageState(true), sabotageOrder([]string{"Mara"}, game.SabotageStealFood), 0.9, 0.1)

	alpha, beta := next.Tribe("tribe-alpha"), next.Tribe("tribe-beta")
	if got := alpha.GarrisonAt(alphaHome.Key()).Troops; got != 28 {
		t.Fatalf("troops = %d, want 28 with the team lost", got)
	}
	if len(beta.Prisoners) != 1 || beta.Prisoners[0].Chief.Name != "Mara" || beta.Prisoners[0].FromTribeID != "tribe-alpha" {
		t.Fatalf("prisoners = %+v, want Mara held for tribe-alpha", beta.Prisoners)
	}
	if g := alpha.GarrisonAt(alphaHome.Key()); len(g.Chiefs) != 0 {
		t.Fatalf("captured chief still on the roster: %+v", g.Chiefs)
	}
}

func TestSabotageDisableOutpostSuspendsItsDefense(t *testing.T) {
	st := sabotageState(false)
	st.Map.Get(sabotageTarget).POI = &world.POI{
		Type: world.POIOutpost, Rarity: 1, OwnerTribeID: "tribe-beta", Fortified: true,
	}
	next := resolveScripted(t, st, sabotageOrder(nil, game.SabotageDisableOutpost), 0.1, 0.9)

	poi := next.Map.Get(sabotageTarget).POI
	if poi.DisabledUntilTurn != 1+outpostDisableTurns {
		t.Fatalf("DisabledUntilTurn = %d, want %d", poi.DisabledUntilTurn, 1+outpostDisableTurns)
	}
	if poi.DefenseActive(next.Turn) {
		t.Fatal("disabled fortification still reports an active defense")
	}
}

func TestSabotageGatherIntelRevealsTheArea(t *testing.T) {
	next := resolveScripted(t, sabotageState(false), sabotageOrder(nil, game.SabotageGatherIntel), 0.1, 0.9)

	alpha := next.Tribe("tribe-alpha")
	for _, key := range world.KeysInRange(sabotageTarget, 2) {
		if !alpha.ExploredHexes[key] {
			t.Fatalf("hex %s near the target not revealed", key)
		}
	}
	found := false
	for _, r := range alpha.LastTurnResults {
		if strings.Contains(r.Message, "10 troops") {
			found = true
		}
	}
	if !found {
		t.Fatalf("intel report missing the garrison count: %+v", alpha.LastTurnResults)
	}
}
