package sat

// Conflict analysis. All variants perform resolution along the implication
// graph recorded on the trail and produce an asserting clause: exactly one
// literal of the result is unassigned once the solver backjumps, so the
// clause immediately propagates it.
//
// The resolvent is accumulated in s.tmpLearnt with slot 0 reserved for the
// asserting literal; s.tmpPremises collects the handle of every clause that
// took part in the resolution, which feeds the unsat-core ledger.

// analyze derives a learned clause and backjump level from the conflicting
// clause. The variant is selected by Options.Analysis; the default is
// first-UIP resolution in trail order.
func (s *Solver) analyze(confl ClauseRef) (learnt []Literal, backjump int) {
	switch s.opts.Analysis {
	case AnalysisLastUIP:
		return s.analyzeLastUIP(confl)
	case AnalysisDominator:
		return s.analyzeDominator(confl)
	case AnalysisFirstUIP:
		return s.analyzeFirstUIP(confl)
	default:
		panic("unknown analysis variant")
	}
}

// absorb folds clause c into the pending resolvent. Every literal except
// skip (the literal c propagated, or -1 for the conflicting clause itself)
// contributes the assignment that falsified it: variables at the conflict
// level open an implication path to count down, variables below it join the
// learned clause. Variables touched by the resolution get their activity
// bumped.
func (s *Solver) absorb(c *Clause, skip Literal, points *int, backjump *int) {
	for _, lit := range c.literals {
		if lit == skip {
			continue
		}
		v := lit.VarID()
		if s.seenVar.has(v) {
			continue
		}
		level := s.levels[v]
		if level < 0 {
			panic("analysis reached an unassigned literal")
		}
		s.seenVar.mark(v)
		s.order.BumpScore(v)
		if level == s.decisionLevel() {
			*points++
		} else {
			s.tmpLearnt = append(s.tmpLearnt, lit)
			if level > *backjump {
				*backjump = level
			}
		}
	}
}

// nextSeen walks the trail backwards from position next to the most recent
// literal whose variable is part of the pending resolvent. It returns that
// literal and the position to resume from.
func (s *Solver) nextSeen(next int) (Literal, int) {
	for {
		if next < 0 {
			panic("analysis ran off the trail")
		}
		l := s.trail[next]
		next--
		if s.seenVar.has(l.VarID()) {
			return l, next
		}
	}
}

// antecedent returns the reason clause of a propagated conflict-level
// literal, recording it as a premise of the resolution.
func (s *Solver) antecedent(l Literal) *Clause {
	r := s.reasons[l.VarID()]
	if r.kind != reasonPropagated {
		panic("resolution on a literal without an antecedent")
	}
	s.tmpPremises = append(s.tmpPremises, r.clause)
	return s.store.Get(r.clause)
}

// analyzeFirstUIP resolves along the trail until exactly one conflict-level
// literal remains: the first unique implication point. Backjump level is the
// highest level among the other literals of the resolvent, or 0 for a unit.
func (s *Solver) analyzeFirstUIP(confl ClauseRef) ([]Literal, int) {
	points := 0
	backjump := 0
	s.seenVar.reset()
	s.tmpLearnt = append(s.tmpLearnt[:0], -1)
	s.tmpPremises = append(s.tmpPremises[:0], confl)

	c := s.store.Get(confl)
	skip := Literal(-1)
	next := len(s.trail) - 1

	for {
		s.absorb(c, skip, &points, &backjump)

		skip, next = s.nextSeen(next)
		points--
		if points <= 0 {
			break // skip is the first UIP
		}
		c = s.antecedent(skip)
	}

	s.tmpLearnt[0] = skip.Opposite()
	return s.tmpLearnt, backjump
}

// analyzeLastUIP resolves the reason of every conflict-level propagated
// literal reached from the conflict, stopping only at the level's decision.
// The learned clause asserts the negation of that decision.
func (s *Solver) analyzeLastUIP(confl ClauseRef) ([]Literal, int) {
	points := 0
	backjump := 0
	s.seenVar.reset()
	s.tmpLearnt = append(s.tmpLearnt[:0], -1)
	s.tmpPremises = append(s.tmpPremises[:0], confl)

	c := s.store.Get(confl)
	skip := Literal(-1)
	next := len(s.trail) - 1

	for {
		s.absorb(c, skip, &points, &backjump)

		skip, next = s.nextSeen(next)
		if s.reasons[skip.VarID()].kind != reasonPropagated {
			break // the decision of the conflict level
		}
		c = s.antecedent(skip)
	}

	s.tmpLearnt[0] = skip.Opposite()
	return s.tmpLearnt, backjump
}

// analyzeDominator locates the first UIP as the dominator of the conflict
// over the conflict level's implication graph, then resolves down to it.
// The learned clause coincides with the first-UIP resolvent; only the route
// differs (an explicit graph pass before any resolution).
func (s *Solver) analyzeDominator(confl ClauseRef) ([]Literal, int) {
	uip := s.findDominator(confl)

	points := 0
	backjump := 0
	s.seenVar.reset()
	s.tmpLearnt = append(s.tmpLearnt[:0], -1)
	s.tmpPremises = append(s.tmpPremises[:0], confl)

	c := s.store.Get(confl)
	skip := Literal(-1)
	next := len(s.trail) - 1

	for {
		s.absorb(c, skip, &points, &backjump)

		skip, next = s.nextSeen(next)
		if skip == uip {
			break
		}
		c = s.antecedent(skip)
	}

	s.tmpLearnt[0] = uip.Opposite()
	return s.tmpLearnt, backjump
}

// findDominator walks the implication graph of the conflict level without
// building a resolvent: expanding always the most recent open path, the
// first point where a single path remains open is the literal every path
// from the decision to the conflict passes through.
func (s *Solver) findDominator(confl ClauseRef) Literal {
	points := 0
	s.seenVar.reset()

	c := s.store.Get(confl)
	skip := Literal(-1)
	next := len(s.trail) - 1

	for {
		for _, lit := range c.literals {
			if lit == skip {
				continue
			}
			v := lit.VarID()
			if s.seenVar.has(v) {
				continue
			}
			s.seenVar.mark(v)
			if s.levels[v] == s.decisionLevel() {
				points++
			}
		}

		skip, next = s.nextSeen(next)
		points--
		if points <= 0 {
			return skip
		}
		r := s.reasons[skip.VarID()]
		if r.kind != reasonPropagated {
			panic("resolution on a literal without an antecedent")
		}
		c = s.store.Get(r.clause)
	}
}

// computeLBD counts the distinct decision levels among the clause's
// literals. It runs before the backjump, while every literal is still
// assigned.
func (s *Solver) computeLBD(lits []Literal) int {
	s.seenLevel.reset()
	n := 0
	for _, l := range lits {
		level := s.levels[l.VarID()]
		if level < 0 {
			panic("LBD of a clause with unassigned literals")
		}
		if !s.seenLevel.has(level) {
			s.seenLevel.mark(level)
			n++
		}
	}
	return n
}
