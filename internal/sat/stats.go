package sat

import "time"

// Stats aggregates search counters and per-phase timings for one solve.
type Stats struct {
	Iterations   int64
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Learned      int64
	Forgets      int64

	TotalTime       time.Duration
	PropagationTime time.Duration
	AnalysisTime    time.Duration
	ReductionTime   time.Duration
	ChoiceTime      time.Duration

	// LBD bookkeeping: a cumulative sum for the whole-solve mean and a
	// smoothed value that follows the search region the solver currently
	// explores.
	lbdSum    int64
	lbdCount  int64
	lbdSmooth float64
}

// lbdSmoothing is the reciprocal of the fraction of each new observation
// folded into the smoothed LBD; 1/16 reacts within a few dozen conflicts
// without jitter.
const lbdSmoothing = 16

// observeLBD folds one learned clause's LBD into the running averages. The
// first observation seeds the smoothed value.
func (st *Stats) observeLBD(lbd int) {
	st.lbdSum += int64(lbd)
	st.lbdCount++
	if st.lbdCount == 1 {
		st.lbdSmooth = float64(lbd)
		return
	}
	st.lbdSmooth += (float64(lbd) - st.lbdSmooth) / lbdSmoothing
}

// AvgLBD is the smoothed LBD of recently learned clauses.
func (st *Stats) AvgLBD() float64 {
	return st.lbdSmooth
}

// MeanLBD is the cumulative mean LBD over every clause learned this solve.
func (st *Stats) MeanLBD() float64 {
	if st.lbdCount == 0 {
		return 0
	}
	return float64(st.lbdSum) / float64(st.lbdCount)
}
