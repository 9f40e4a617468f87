package sat

// reasonKind tags how an assignment entered the trail.
type reasonKind uint8

const (
	reasonNone reasonKind = iota

	// reasonDecision marks an assignment chosen by the branching heuristic.
	// It opens a new decision level.
	reasonDecision

	// reasonPropagated marks a unit consequence; clause holds the
	// antecedent.
	reasonPropagated

	// reasonPureLiteral marks a Hobson choice made by preprocessing: the
	// variable occurs in a single polarity across the formula.
	reasonPureLiteral

	// reasonTopLevelUnit marks a unit input clause enqueued at ingest;
	// clause holds the formula clause so it can seed an unsat core.
	reasonTopLevelUnit
)

// Reason records why a variable was assigned. For reasonPropagated and
// reasonTopLevelUnit the clause handle is set; otherwise it is nil.
type Reason struct {
	kind   reasonKind
	clause ClauseRef
}

// enqueue records the fact that l is true. If l is already true nothing
// happens (idempotent set). If l is false the assignment disagrees and
// enqueue reports the conflict by returning false; the caller knows the
// clause responsible.
func (s *Solver) enqueue(l Literal, from Reason) bool {
	switch s.LitValue(l) {
	case False:
		return false // conflicting assignment
	case True:
		return true // already assigned
	default:
		v := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.levels[v] = s.decisionLevel()
		s.reasons[v] = from
		s.trail = append(s.trail, l)
		s.propQueue.push(l)
		if from.kind == reasonPropagated {
			s.stats.Propagations++
		}
		return true
	}
}

// assume opens a new decision level and enqueues l as its decision.
func (s *Solver) assume(l Literal) {
	s.trailLim = append(s.trailLim, len(s.trail))
	if !s.enqueue(l, Reason{kind: reasonDecision}) {
		panic("decision on an assigned variable")
	}
}

// decisionLevel is the number of open decision levels; level 0 holds no
// decision, only top-level units, pure literals, learned units and their
// propagated consequences.
func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// undoOne pops the newest trail entry, resetting the variable to unassigned
// and returning it to the branching candidates.
func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	s.order.Reinsert(v, s.VarValue(v))
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reasons[v] = Reason{}
	s.levels[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

// cancel unwinds the newest decision level.
func (s *Solver) cancel() {
	for c := len(s.trail) - s.trailLim[len(s.trailLim)-1]; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil backjumps to the given decision level, unwinding every level
// above it.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}
