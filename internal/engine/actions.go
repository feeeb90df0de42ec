package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/game"
	"github.com/talgya/tribelands/internal/world"
)

// executeAction dispatches one action to its executor. Executors validate
// preconditions and mutate the working state in place; an invalid action is
// a no-op with an explanatory failure record, never an aborted turn.
func (rv *resolver) executeAction(t *game.Tribe, act game.GameAction) game.ActionResult {
	switch act.Type {
	case game.ActionMove:
		if act.Move == nil {
			return failed(act, "malformed action: missing move order")
		}
		return rv.execMove(t, act)
	case game.ActionAttack:
		if act.Attack == nil {
			return failed(act, "malformed action: missing attack order")
		}
		return rv.execAttack(t, act)
	case game.ActionScavenge:
		if act.Scavenge == nil {
			return failed(act, "malformed action: missing scavenge order")
		}
		return rv.execScavenge(t, act)
	case game.ActionScout:
		if act.Scout == nil {
			return failed(act, "malformed action: missing scout order")
		}
		return rv.execScout(t, act)
	case game.ActionBuildOutpost:
		if act.BuildOutpost == nil {
			return failed(act, "malformed action: missing outpost order")
		}
		return rv.execBuildOutpost(t, act)
	case game.ActionTrade:
		if act.Trade == nil {
			return failed(act, "malformed action: missing trade order")
		}
		return rv.execTrade(t, act)
	case game.ActionRespondToTrade:
		if act.TradeResponse == nil {
			return failed(act, "malformed action: missing trade response")
		}
		return rv.execRespondToTrade(t, act)
	case game.ActionStartResearch:
		if act.Research == nil {
			return failed(act, "malformed action: missing research order")
		}
		return rv.execStartResearch(t, act)
	case game.ActionSabotage:
		if act.Sabotage == nil {
			return failed(act, "malformed action: missing sabotage order")
		}
		return rv.execSabotage(t, act)
	case game.ActionRecruit:
		if act.Recruit == nil {
			return failed(act, "malformed action: missing recruit order")
		}
		return rv.execRecruit(t, act)
	case game.ActionProposePrisonerExchange:
		if act.Exchange == nil {
			return failed(act, "malformed action: missing exchange order")
		}
		return rv.execProposeExchange(t, act)
	case game.ActionRespondToPrisonerExchange:
		if act.ExchangeResponse == nil {
			return failed(act, "malformed action: missing exchange response")
		}
		return rv.execRespondToExchange(t, act)
	case game.ActionProposeAlliance, game.ActionSueForPeace, game.ActionDeclareWar, game.ActionRespondToProposal:
		if act.Diplomacy == nil {
			return failed(act, "malformed action: missing diplomacy order")
		}
		return rv.execDiplomacy(t, act)
	default:
		return failed(act, fmt.Sprintf("unknown action type %q", act.Type))
	}
}

// failed builds an action-level validation failure record.
func failed(act game.GameAction, msg string) game.ActionResult {
	return game.ActionResult{ActionID: act.ID, Type: act.Type, OK: false, Message: msg}
}

// succeeded builds a successful outcome record.
func succeeded(act game.GameAction, msg string, delta *game.ResourceDelta) game.ActionResult {
	return game.ActionResult{ActionID: act.ID, Type: act.Type, OK: true, Message: msg, Delta: delta}
}

// resolveHexes parses and bounds-checks an origin/destination pair, and
// requires an origin garrison belonging to the tribe.
func (rv *resolver) resolveHexes(t *game.Tribe, fromKey, toKey string) (from, to world.HexCoord, g *game.Garrison, reason string) {
	from, err := world.ParseCoords(fromKey)
	if err != nil {
		return from, to, nil, fmt.Sprintf("bad origin %q", fromKey)
	}
	to, err = world.ParseCoords(toKey)
	if err != nil {
		return from, to, nil, fmt.Sprintf("bad destination %q", toKey)
	}
	destHex := rv.st.Map.Get(to)
	if destHex == nil {
		return from, to, nil, fmt.Sprintf("destination %s is outside the map", toKey)
	}
	if !destHex.Terrain.Passable() {
		return from, to, nil, fmt.Sprintf("destination %s is impassable %s", toKey, world.TerrainName(destHex.Terrain))
	}
	g = t.GarrisonAt(fromKey)
	if g == nil {
		return from, to, nil, fmt.Sprintf("no garrison at %s", fromKey)
	}
	return from, to, g, ""
}

// detachForce validates and deducts a detachment from a garrison. The
// garrison is debited immediately; the force exists only in the journey
// until it arrives or returns.
func detachForce(g *game.Garrison, troops, weapons int, chiefNames []string) (game.Force, error) {
	if troops <= 0 {
		return game.Force{}, fmt.Errorf("detachment needs at least 1 troop")
	}
	if weapons < 0 {
		return game.Force{}, fmt.Errorf("weapon count cannot be negative")
	}
	if troops > g.Troops {
		return game.Force{}, fmt.Errorf("only %d troops available, %d requested", g.Troops, troops)
	}
	if weapons > g.Weapons {
		return game.Force{}, fmt.Errorf("only %d weapons available, %d requested", g.Weapons, weapons)
	}
	chiefs, err := takeChiefs(g, chiefNames)
	if err != nil {
		return game.Force{}, err
	}
	g.Troops -= troops
	g.Weapons -= weapons
	return game.Force{Troops: troops, Weapons: weapons, Chiefs: chiefs}, nil
}

// takeChiefs removes the named chiefs from the garrison roster.
func takeChiefs(g *game.Garrison, names []string) ([]game.Chief, error) {
	if len(names) == 0 {
		return nil, nil
	}
	taken := make([]game.Chief, 0, len(names))
	for _, name := range names {
		found := -1
		for i, c := range g.Chiefs {
			if c.Name == name {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("chief %q is not at this garrison", name)
		}
		taken = append(taken, g.Chiefs[found])
		g.Chiefs = append(g.Chiefs[:found], g.Chiefs[found+1:]...)
	}
	return taken, nil
}

// mergeForce folds a returning or arriving force into a garrison.
func mergeForce(g *game.Garrison, f game.Force) {
	g.Troops += f.Troops
	g.Weapons += f.Weapons
	g.Chiefs = append(g.Chiefs, f.Chiefs...)
}

// depositPayload credits goods to the tribe: food and scrap to the global
// stockpile, weapons to the receiving garrison.
func depositPayload(t *game.Tribe, g *game.Garrison, p game.Payload) {
	t.Global.Food += p.Food
	t.Global.Scrap += p.Scrap
	g.Weapons += p.Weapons
}
