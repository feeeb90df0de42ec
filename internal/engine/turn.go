package engine

import (
	"fmt"

	"github.com/talgya/tribelands/internal/entropy"
	"github.com/talgya/tribelands/internal/game"
)

// TurnError is an orchestration-fatal failure. When ResolveTurn returns one,
// the previous committed state was preserved untouched and the turn counter
// did not advance.
type TurnError struct {
	Phase string
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn resolution failed during %s: %v", e.Phase, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// Resolution phases, in fixed order. Each phase runs to completion on the
// working clone before the next begins; later phases depend on the fully
// updated results of earlier ones.
const (
	phaseCloning    = "cloning"
	phaseJourneys   = "resolving_journeys"
	phaseActions    = "executing_actions"
	phaseDiplomacy  = "resolving_diplomacy"
	phaseUpkeep     = "upkeep"
	phaseInvariants = "validating_invariants"
	phaseResults    = "computing_results"
)

// resolver holds the in-flight working state for one turn resolution.
type resolver struct {
	st    *game.GameState
	env   *Env
	phase string

	// Per-tribe outcome records accumulated across all phases.
	results map[string][]game.ActionResult

	// Sequence counter for reproducible journey/proposal ids.
	seq int
}

// ResolveTurn applies every tribe's queued actions to state and returns the
// next state. The input state is never mutated: on any fatal error the
// original is returned unchanged alongside a *TurnError. submitted may carry
// late action lists per tribe id (AI-synthesized queues included); they
// replace the tribe's stored queue on the working copy.
func ResolveTurn(prev *game.GameState, submitted map[string][]game.GameAction, env *Env) (next *game.GameState, err error) {
	if env == nil || env.Catalogs == nil {
		return prev, &TurnError{Phase: phaseCloning, Err: fmt.Errorf("nil environment")}
	}
	rv := &resolver{
		env:     &Env{Catalogs: env.Catalogs, Rand: env.Rand},
		phase:   phaseCloning,
		results: make(map[string][]game.ActionResult),
	}
	if rv.env.Rand == nil {
		rv.env.Rand = entropy.NewSeeded(entropy.TurnSeed(prev.Seed, prev.Turn))
	}

	// Partial turns must never escape: any panic below discards the clone
	// and surfaces the original state with a fatal error.
	defer func() {
		if r := recover(); r != nil {
			next = prev
			err = &TurnError{Phase: rv.phase, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	rv.st = prev.Clone()

	for id, acts := range submitted {
		if t := rv.st.Tribe(id); t != nil {
			t.Actions = acts
			t.TurnSubmitted = true
		}
	}

	rv.phase = phaseJourneys
	rv.advanceJourneys()

	rv.phase = phaseActions
	rv.executeAllActions()
	rv.advanceResearch()

	rv.phase = phaseDiplomacy
	rv.resolveDiplomacy()

	rv.phase = phaseUpkeep
	rv.runUpkeep()

	rv.phase = phaseInvariants
	rv.cleanupGarrisons()
	if verr := rv.verifyInvariants(); verr != nil {
		return prev, &TurnError{Phase: rv.phase, Err: verr}
	}

	rv.phase = phaseResults
	rv.computeResults()

	return rv.st, nil
}

// addResult appends an outcome record for a tribe's last-turn report.
func (rv *resolver) addResult(tribeID string, res game.ActionResult) {
	rv.results[tribeID] = append(rv.results[tribeID], res)
}

func (rv *resolver) nextSeq() int {
	rv.seq++
	return rv.seq
}

// executeAllActions runs every tribe's queue. Tribes execute in stored array
// order and actions in submission order, so resolution is deterministic. A
// tribe that never submitted is skipped whole; the orchestrator never
// invents actions (AI queues are synthesized by the caller beforehand).
func (rv *resolver) executeAllActions() {
	for _, t := range rv.st.Tribes {
		if !t.TurnSubmitted {
			continue
		}
		for _, act := range t.Actions {
			res := rv.executeAction(t, act)
			rv.addResult(t.ID, res)
		}
	}
}

// verifyInvariants checks the hard consistency rules after all mutation
// phases. A violation here means a bug corrupted the working copy; the turn
// is aborted rather than committed.
func (rv *resolver) verifyInvariants() error {
	for _, t := range rv.st.Tribes {
		if t.Global.Food < 0 || t.Global.Scrap < 0 {
			return fmt.Errorf("tribe %s: negative resources (food=%d scrap=%d)", t.ID, t.Global.Food, t.Global.Scrap)
		}
		if t.Global.Morale < 0 || t.Global.Morale > 100 {
			return fmt.Errorf("tribe %s: morale %d out of range", t.ID, t.Global.Morale)
		}
		for key, g := range t.Garrisons {
			if g.Troops < 0 || g.Weapons < 0 {
				return fmt.Errorf("tribe %s garrison %s: negative force (troops=%d weapons=%d)", t.ID, key, g.Troops, g.Weapons)
			}
		}
	}

	// Diplomacy must be symmetric for every pair.
	for _, a := range rv.st.Tribes {
		for _, b := range rv.st.Tribes {
			if a.ID >= b.ID {
				continue
			}
			ab := a.RelationWith(b.ID).Status
			ba := b.RelationWith(a.ID).Status
			if ab != ba {
				return fmt.Errorf("asymmetric diplomacy: %s->%s=%s but %s->%s=%s", a.ID, b.ID, ab, b.ID, a.ID, ba)
			}
		}
	}

	for _, j := range rv.st.Journeys {
		if j.ArrivalTurn < 0 {
			return fmt.Errorf("journey %s: negative arrival countdown", j.ID)
		}
		if j.Force.Troops < 0 || j.Force.Weapons < 0 || j.Payload.Negative() {
			return fmt.Errorf("journey %s: negative force or payload (force=%+v payload=%+v)", j.ID, j.Force, j.Payload)
		}
	}
	return nil
}

// cleanupGarrisons removes lapsed garrisons (no troops, no chiefs); the
// tribe's claim on the hex ends with them.
func (rv *resolver) cleanupGarrisons() {
	for _, t := range rv.st.Tribes {
		for key, g := range t.Garrisons {
			if g.Empty() {
				delete(t.Garrisons, key)
			}
		}
	}
}

// computeResults finalizes the turn: recovered chiefs and released prisoners
// rejoin, per-tribe reports are snapshotted, the history ledger gains its
// write-once record, queues reset, and the logical clock advances.
func (rv *resolver) computeResults() {
	newTurn := rv.st.Turn + 1

	for _, t := range rv.st.Tribes {
		var stillInjured []game.InjuredChief
		for _, ic := range t.InjuredChiefs {
			if ic.ReturnTurn <= newTurn {
				g := t.EnsureGarrison(rejoinKey(t, ic.FromHex))
				g.Chiefs = append(g.Chiefs, ic.Chief)
				rv.addResult(t.ID, game.ActionResult{
					OK:      true,
					Message: fmt.Sprintf("%s has recovered and rejoined the garrison", ic.Chief.Name),
				})
			} else {
				stillInjured = append(stillInjured, ic)
			}
		}
		t.InjuredChiefs = stillInjured
	}

	// Scheduled prisoner releases travel home to their own tribe.
	for _, holder := range rv.st.Tribes {
		var stillHeld []game.Prisoner
		for _, p := range holder.Prisoners {
			if p.ReleaseTurn != 0 && p.ReleaseTurn <= newTurn {
				if owner := rv.st.Tribe(p.FromTribeID); owner != nil {
					g := owner.EnsureGarrison(owner.HomeBase.Key())
					g.Chiefs = append(g.Chiefs, p.Chief)
					rv.addResult(owner.ID, game.ActionResult{
						OK:      true,
						Message: fmt.Sprintf("%s was released and returned home", p.Chief.Name),
					})
				}
			} else {
				stillHeld = append(stillHeld, p)
			}
		}
		holder.Prisoners = stillHeld
	}

	record := game.TurnHistoryRecord{Turn: rv.st.Turn, Summaries: make(map[string][]string)}
	for _, t := range rv.st.Tribes {
		t.LastTurnResults = rv.results[t.ID]
		t.Actions = nil
		t.TurnSubmitted = false

		lines := make([]string, 0, len(t.LastTurnResults))
		for _, r := range t.LastTurnResults {
			lines = append(lines, r.Message)
		}
		record.Summaries[t.ID] = lines
	}
	rv.st.History = append(rv.st.History, record)

	rv.st.Turn = newTurn
}

// rejoinKey prefers the chief's original garrison if the tribe still holds
// it, falling back to the home base.
func rejoinKey(t *game.Tribe, fromHex string) string {
	if _, ok := t.Garrisons[fromHex]; ok {
		return fromHex
	}
	return t.HomeBase.Key()
}
