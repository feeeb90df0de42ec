package game

// Clone returns a structurally independent deep copy of the state. The turn
// orchestrator mutates the clone and commits it only on success, so the
// original must share no mutable memory with the copy.
func (st *GameState) Clone() *GameState {
	out := &GameState{
		Seed: st.Seed,
		Turn: st.Turn,
		Map:  st.Map.Clone(),
	}

	out.Tribes = make([]*Tribe, len(st.Tribes))
	for i, t := range st.Tribes {
		out.Tribes[i] = t.clone()
	}

	if st.Journeys != nil {
		out.Journeys = make([]*Journey, len(st.Journeys))
		for i, j := range st.Journeys {
			out.Journeys[i] = j.clone()
		}
	}

	if st.DiplomaticProposals != nil {
		out.DiplomaticProposals = make([]*DiplomaticProposal, len(st.DiplomaticProposals))
		for i, p := range st.DiplomaticProposals {
			cp := *p
			out.DiplomaticProposals[i] = &cp
		}
	}
	if st.DiplomaticMessages != nil {
		out.DiplomaticMessages = make([]*DiplomaticMessage, len(st.DiplomaticMessages))
		for i, m := range st.DiplomaticMessages {
			cm := *m
			out.DiplomaticMessages[i] = &cm
		}
	}
	if st.TradeAgreements != nil {
		out.TradeAgreements = make([]*TradeAgreement, len(st.TradeAgreements))
		for i, a := range st.TradeAgreements {
			ca := *a
			out.TradeAgreements[i] = &ca
		}
	}

	out.StartingLocations = append([]string(nil), st.StartingLocations...)

	if st.History != nil {
		out.History = make([]TurnHistoryRecord, len(st.History))
		for i, rec := range st.History {
			out.History[i] = rec.clone()
		}
	}

	return out
}

func (t *Tribe) clone() *Tribe {
	out := *t

	out.Garrisons = make(map[string]*Garrison, len(t.Garrisons))
	for key, g := range t.Garrisons {
		cg := *g
		cg.Chiefs = append([]Chief(nil), g.Chiefs...)
		out.Garrisons[key] = &cg
	}

	out.Actions = cloneActions(t.Actions)

	out.Diplomacy = make(map[string]DiplomaticRelation, len(t.Diplomacy))
	for id, rel := range t.Diplomacy {
		out.Diplomacy[id] = rel
	}

	out.CompletedTechs = append([]string(nil), t.CompletedTechs...)
	out.Assets = append([]string(nil), t.Assets...)

	if t.CurrentResearch != nil {
		out.CurrentResearch = make([]*ResearchProject, len(t.CurrentResearch))
		for i, p := range t.CurrentResearch {
			cp := *p
			out.CurrentResearch[i] = &cp
		}
	}

	out.ExploredHexes = make(map[string]bool, len(t.ExploredHexes))
	for k, v := range t.ExploredHexes {
		out.ExploredHexes[k] = v
	}

	out.LastTurnResults = cloneResults(t.LastTurnResults)
	out.InjuredChiefs = append([]InjuredChief(nil), t.InjuredChiefs...)
	out.Prisoners = append([]Prisoner(nil), t.Prisoners...)

	return &out
}

func (j *Journey) clone() *Journey {
	out := *j
	out.Force.Chiefs = append([]Chief(nil), j.Force.Chiefs...)
	if j.Offer != nil {
		offer := *j.Offer
		out.Offer = &offer
	}
	if j.Exchange != nil {
		ex := *j.Exchange
		out.Exchange = &ex
	}
	return &out
}

func (rec TurnHistoryRecord) clone() TurnHistoryRecord {
	out := TurnHistoryRecord{Turn: rec.Turn, Summaries: make(map[string][]string, len(rec.Summaries))}
	for id, lines := range rec.Summaries {
		out.Summaries[id] = append([]string(nil), lines...)
	}
	return out
}

func cloneActions(acts []GameAction) []GameAction {
	if acts == nil {
		return nil
	}
	out := make([]GameAction, len(acts))
	for i, a := range acts {
		out[i] = a.clone()
	}
	return out
}

func (a GameAction) clone() GameAction {
	out := a
	if a.Move != nil {
		v := *a.Move
		v.Chiefs = append([]string(nil), a.Move.Chiefs...)
		out.Move = &v
	}
	if a.Attack != nil {
		v := *a.Attack
		v.Chiefs = append([]string(nil), a.Attack.Chiefs...)
		out.Attack = &v
	}
	if a.Scavenge != nil {
		v := *a.Scavenge
		out.Scavenge = &v
	}
	if a.Scout != nil {
		v := *a.Scout
		out.Scout = &v
	}
	if a.BuildOutpost != nil {
		v := *a.BuildOutpost
		out.BuildOutpost = &v
	}
	if a.Trade != nil {
		v := *a.Trade
		out.Trade = &v
	}
	if a.TradeResponse != nil {
		v := *a.TradeResponse
		out.TradeResponse = &v
	}
	if a.Research != nil {
		v := *a.Research
		out.Research = &v
	}
	if a.Sabotage != nil {
		v := *a.Sabotage
		v.Chiefs = append([]string(nil), a.Sabotage.Chiefs...)
		out.Sabotage = &v
	}
	if a.Recruit != nil {
		v := *a.Recruit
		out.Recruit = &v
	}
	if a.Diplomacy != nil {
		v := *a.Diplomacy
		out.Diplomacy = &v
	}
	if a.Exchange != nil {
		v := *a.Exchange
		out.Exchange = &v
	}
	if a.ExchangeResponse != nil {
		v := *a.ExchangeResponse
		out.ExchangeResponse = &v
	}
	return out
}

func cloneResults(results []ActionResult) []ActionResult {
	if results == nil {
		return nil
	}
	out := make([]ActionResult, len(results))
	for i, r := range results {
		out[i] = r
		if r.Delta != nil {
			d := *r.Delta
			out[i].Delta = &d
		}
	}
	return out
}
