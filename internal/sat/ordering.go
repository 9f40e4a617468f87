package sat

import (
	"math"

	"github.com/rhartert/yagh"
)

// VarOrder is the VSIDS branching heuristic. Every variable carries an
// activity score; conflict analysis bumps the variables it touches by a
// constant, and once per decay round all activities are divided by a fixed
// divisor, so recently bumped variables outrank historically busy ones.
// Decaying by uniform division keeps activities in a narrow numeric range:
// no overflow rescaling is ever needed.
type VarOrder struct {
	// Min-heap over negated activities, so Pop yields the most active
	// candidate. Ties resolve to the smallest variable id, which keeps two
	// runs on the same input on identical traces.
	heap *yagh.IntMap[float64]

	activity []float64

	// Decay bookkeeping: after decayRounds conflicts, every activity is
	// divided by divisor. The divisor is derived from the per-conflict
	// decay factor so that a full round has the same cumulative effect.
	divisor    float64
	sinceDecay int

	defaultPhase bool
	saved        []LBool // last value per variable, nil unless phase saving is on
}

// decayRounds is the number of conflicts folded into one decay round.
const decayRounds = 64

// NewVarOrder returns a variable order decaying activities by the given
// per-conflict factor. With phase saving, redecided variables keep the
// value they last held instead of the default phase.
func NewVarOrder(decay float64, phaseSaving bool, defaultPhase bool) *VarOrder {
	vo := &VarOrder{
		heap:         yagh.New[float64](0),
		divisor:      math.Pow(1/decay, decayRounds),
		defaultPhase: defaultPhase,
	}
	if phaseSaving {
		vo.saved = []LBool{}
	}
	return vo
}

// AddVar registers the next variable with zero activity.
func (vo *VarOrder) AddVar() {
	v := len(vo.activity)
	vo.activity = append(vo.activity, 0)
	if vo.saved != nil {
		vo.saved = append(vo.saved, Unknown)
	}
	vo.heap.GrowBy(1)
	vo.heap.Put(v, 0)
}

// BumpScore raises the activity of v by a constant step.
func (vo *VarOrder) BumpScore(v int) {
	vo.activity[v]++
	if vo.heap.Contains(v) {
		vo.heap.Put(v, -vo.activity[v])
	}
}

// DecayScores counts one conflict towards the next decay round. When the
// round completes, every activity is divided by the divisor; the division
// preserves relative order, but the heap keys still need refreshing.
func (vo *VarOrder) DecayScores() {
	vo.sinceDecay++
	if vo.sinceDecay < decayRounds {
		return
	}
	vo.sinceDecay = 0
	for v := range vo.activity {
		vo.activity[v] /= vo.divisor
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -vo.activity[v])
		}
	}
}

// Reinsert returns v to the branching candidates. The solver calls this
// when v is unassigned by a backjump; val is the value the variable held.
func (vo *VarOrder) Reinsert(v int, val LBool) {
	if vo.saved != nil {
		vo.saved[v] = val
	}
	vo.heap.Put(v, -vo.activity[v])
}

// NextDecision pops heap entries until it finds an unassigned variable and
// returns it valued to its preferred polarity. Variables popped while
// already assigned re-enter the heap when the trail unwinds past them.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	for {
		next, ok := vo.heap.Pop()
		if !ok {
			panic("branching with no unassigned variable")
		}
		v := next.Elem
		if s.VarValue(v) != Unknown {
			continue // already assigned
		}

		phase := vo.defaultPhase
		if vo.saved != nil && vo.saved[v] != Unknown {
			phase = vo.saved[v] == True
		}
		if phase {
			return PositiveLiteral(v)
		}
		return NegativeLiteral(v)
	}
}
