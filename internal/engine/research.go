package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/catalog"
	"github.com/talgya/tribelands/internal/game"
)

func (rv *resolver) execStartResearch(t *game.Tribe, act game.GameAction) game.ActionResult {
	o := act.Research
	tech, ok := rv.env.Catalogs.Techs[o.TechID]
	if !ok {
		return failed(act, fmt.Sprintf("unknown technology %q", o.TechID))
	}
	for _, done := range t.CompletedTechs {
		if done == o.TechID {
			return failed(act, fmt.Sprintf("%s is already known", tech.Name))
		}
	}
	for _, p := range t.CurrentResearch {
		if p.TechID == o.TechID {
			return failed(act, fmt.Sprintf("%s is already being researched", tech.Name))
		}
		if p.Location == o.Location {
			return failed(act, fmt.Sprintf("the garrison at %s already hosts a research project", o.Location))
		}
	}
	if tech.Prerequisite != "" && !hasTech(t, tech.Prerequisite) {
		prereq := rv.env.Catalogs.Techs[tech.Prerequisite]
		return failed(act, fmt.Sprintf("%s requires %s first", tech.Name, prereq.Name))
	}
	g := t.GarrisonAt(o.Location)
	if g == nil {
		return failed(act, fmt.Sprintf("no garrison at %s", o.Location))
	}
	if o.Troops < tech.RequiredTroops {
		return failed(act, fmt.Sprintf("%s needs at least %d assigned troops", tech.Name, tech.RequiredTroops))
	}
	if o.Troops > g.Troops {
		return failed(act, fmt.Sprintf("only %d troops available at %s", g.Troops, o.Location))
	}
	if t.Global.Scrap < tech.ScrapCost {
		return failed(act, fmt.Sprintf("%s costs %d scrap to begin, only %d on hand", tech.Name, tech.ScrapCost, t.Global.Scrap))
	}

	// Starting is atomic: pay the scrap, pull the troops, open the project.
	t.Global.Scrap -= tech.ScrapCost
	g.Troops -= o.Troops
	t.CurrentResearch = append(t.CurrentResearch, &game.ResearchProject{
		TechID:         o.TechID,
		AssignedTroops: o.Troops,
		Location:       o.Location,
	})
	return succeeded(act,
		fmt.Sprintf("%d troops began researching %s at %s", o.Troops, tech.Name, o.Location),
		&game.ResourceDelta{Scrap: -tech.ScrapCost})
}

// advanceResearch accrues progress on every open project and completes any
// that crossed their cost. Completion is atomic: the tech id moves to
// completedTechs, the project disappears, and the assigned troops return to
// their garrison in one step.
func (rv *resolver) advanceResearch() {
	for _, t := range rv.st.Tribes {
		if len(t.CurrentResearch) == 0 {
			continue
		}
		speed := 1 + rv.env.bonus(t, catalog.EffectResearchSpeed)
		var remaining []*game.ResearchProject
		for _, p := range t.CurrentResearch {
			tech, ok := rv.env.Catalogs.Techs[p.TechID]
			if !ok {
				// Catalog changed under a live project; refund the troops.
				mergeForce(t.EnsureGarrison(rejoinKey(t, p.Location)), game.Force{Troops: p.AssignedTroops})
				rv.addResult(t.ID, game.ActionResult{
					Type: game.ActionStartResearch, OK: false,
					Message: fmt.Sprintf("research on %q was abandoned: no such technology", p.TechID),
				})
				continue
			}
			p.Progress += int(float64(p.AssignedTroops) * speed)
			if p.Progress < tech.ResearchPoints {
				remaining = append(remaining, p)
				continue
			}
			t.CompletedTechs = append(t.CompletedTechs, p.TechID)
			mergeForce(t.EnsureGarrison(rejoinKey(t, p.Location)), game.Force{Troops: p.AssignedTroops})
			rv.addResult(t.ID, game.ActionResult{
				Type: game.ActionStartResearch, OK: true,
				Message: fmt.Sprintf("research complete: %s", tech.Name),
			})
		}
		t.CurrentResearch = remaining
	}
}

func hasTech(t *game.Tribe, techID string) bool {
	for _, id := range t.CompletedTechs {
		if id == techID {
			return true
		}
	}
	return false
}
