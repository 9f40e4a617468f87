package sat

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Analysis variant selectors, see analysis.go. FirstUIP is the default and
// the only variant exercised unless explicitly configured.
const (
	AnalysisLastUIP   = 1
	AnalysisDominator = 2
	AnalysisFirstUIP  = 3
)

// Status is the outcome of a solve.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (st Status) String() string {
	switch st {
	case StatusSat:
		return "SATISFIABLE"
	case StatusUnsat:
		return "UNSATISFIABLE"
	default:
		return "Unknown"
	}
}

// ExitCode returns the process exit code conventionally associated with the
// status: 10 for SAT, 0 for UNSAT, 20 for unknown.
func (st Status) ExitCode() int {
	switch st {
	case StatusSat:
		return 10
	case StatusUnsat:
		return 0
	default:
		return 20
	}
}

// Result is what a solve hands to its caller: the verdict, a model on SAT,
// an unsat core when one was requested, and the search statistics.
type Result struct {
	Status Status
	Model  []bool
	Core   [][]Literal
	Stats  *Stats
}

type Options struct {
	// VariableDecay controls how fast VSIDS activity fades.
	VariableDecay float64

	// PhaseSaving reuses the last value of a variable on redecision instead
	// of the default phase.
	PhaseSaving bool

	// DefaultPhase is the polarity of fresh decisions.
	DefaultPhase bool

	// Analysis selects the conflict analysis variant (1, 2 or 3).
	Analysis int

	// MinGlue is the largest LBD a learned clause may have and still survive
	// every reduction pass.
	MinGlue int

	// ReduceInterval is the number of conflicts between reduction passes.
	// The interval doubles after each pass.
	ReduceInterval int64

	// ComputeCore records resolution premises during the search and reports
	// an unsat core on UNSAT.
	ComputeCore bool

	// Budgets. Negative values disable the corresponding stop condition; on
	// breach the solve terminates with StatusUnknown.
	MaxConflicts int64
	Timeout      time.Duration

	// Logger receives debug-level search events. Nil disables logging.
	Logger *zap.Logger
}

var DefaultOptions = Options{
	VariableDecay:  0.95,
	PhaseSaving:    false,
	DefaultPhase:   false,
	Analysis:       AnalysisFirstUIP,
	MinGlue:        2,
	ReduceInterval: 2000,
	MaxConflicts:   -1,
	Timeout:        -1,
}

// watcher represents a clause attached to the watch list of a literal.
type watcher struct {
	// The clause to be propagated when the literal this watcher is listed
	// under becomes true, that is, when one of its watched literals becomes
	// false.
	clause ClauseRef

	// Guard is one of the clause's literals, distinct from the watched one.
	// If it is true the clause is satisfied and need not be loaded at all.
	guard Literal
}

// Solver is a CDCL SAT solver over a clause store. All state is exclusively
// owned; a Solver must not be shared between goroutines.
type Solver struct {
	store *Store
	opts  Options
	log   *zap.Logger

	// Per-literal state.
	assigns  []LBool
	watchers [][]watcher

	// Per-variable state.
	levels  []int
	reasons []Reason

	order     *VarOrder
	propQueue literalQueue

	trail    []Literal
	trailLim []int

	// Set when the problem is conflicting at level 0; rootConflict is the
	// clause that closed it.
	unsat        bool
	rootConflict ClauseRef

	// Resolution ledger: learned clause handle to the clauses it was
	// resolved from. Entries outlive reduction so that cores can be traced
	// through dropped clauses. Only populated when ComputeCore is set.
	resolutions map[ClauseRef][]ClauseRef

	conflictsSinceForget int64
	reduceAt             int64

	stats     Stats
	startTime time.Time

	// Scratch state shared across calls to avoid reallocation.
	seenVar     *stampSet
	seenLevel   *stampSet
	tmpWatchers []watcher
	tmpLearnt   []Literal
	tmpPremises []ClauseRef
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func NewSolver(opts Options) *Solver {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Solver{
		store:       NewStore(),
		opts:        opts,
		log:         log,
		order:       NewVarOrder(opts.VariableDecay, opts.PhaseSaving, opts.DefaultPhase),
		seenVar:     newStampSet(),
		seenLevel:   newStampSet(),
		resolutions: map[ClauseRef][]ClauseRef{},
	}
	s.seenLevel.grow(1) // level 0
	return s
}

func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

func (s *Solver) VarValue(v int) LBool {
	return s.assigns[PositiveLiteral(v)]
}

func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// AddVariable declares a fresh variable and returns its id.
func (s *Solver) AddVariable() int {
	index := s.NumVariables()

	// One entry per literal.
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.watchers = append(s.watchers, nil, nil)

	s.levels = append(s.levels, -1)
	s.reasons = append(s.reasons, Reason{})
	s.seenVar.grow(index + 1)
	s.seenLevel.grow(index + 2) // levels run from 0 to the variable count
	s.order.AddVar()
	return index
}

// AddClause ingests a formula clause. Tautologies are dropped as trivially
// satisfied. Unit clauses are enqueued immediately at level 0; a unit that
// contradicts an earlier one marks the problem unsat before search starts.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("can only add clauses at the root level")
	}
	if len(lits) == 0 {
		return fmt.Errorf("empty clause")
	}
	for _, l := range lits {
		if v := l.VarID(); v < 0 || v >= s.NumVariables() {
			return fmt.Errorf("literal %d out of range", l.DIMACS())
		}
	}

	ref, ok := s.store.AddFormula(lits)
	if !ok {
		return nil // tautology
	}
	c := s.store.Get(ref)
	if c.len() == 1 {
		if !s.enqueue(c.literals[0], Reason{kind: reasonTopLevelUnit, clause: ref}) {
			s.markUnsat(ref)
		}
		return nil
	}

	c.initWatches(s)
	s.attachWatches(ref, c)

	// Clauses may arrive between solves, after the level-0 assignments that
	// falsify them have already been propagated. The watch preference makes
	// the current status readable from the watches alone: a false first
	// watch means every literal is false, a false second watch means the
	// first is the clause's unit consequence.
	switch a, b := s.LitValue(c.watchedA()), s.LitValue(c.watchedB()); {
	case a == False:
		s.markUnsat(ref)
	case a == Unknown && b == False:
		s.enqueue(c.watchedA(), Reason{kind: reasonPropagated, clause: ref})
	}
	return nil
}

func (s *Solver) markUnsat(confl ClauseRef) {
	if s.unsat {
		return
	}
	s.unsat = true
	s.rootConflict = confl
}

// attachWatches registers both watched literals of c in the watch lists.
// The guard passed alongside each registration is the other watched
// literal.
func (s *Solver) attachWatches(ref ClauseRef, c *Clause) {
	s.watch(ref, c.watchedA().Opposite(), c.watchedB())
	s.watch(ref, c.watchedB().Opposite(), c.watchedA())
}

// watch registers the clause to be woken when Literal wake is assigned true.
func (s *Solver) watch(ref ClauseRef, wake Literal, guard Literal) {
	s.watchers[wake] = append(s.watchers[wake], watcher{clause: ref, guard: guard})
}

// unwatch removes the clause from the watch list of wake.
func (s *Solver) unwatch(ref ClauseRef, wake Literal) {
	ws := s.watchers[wake]
	j := 0
	for i := 0; i < len(ws); i++ {
		if ws[i].clause != ref {
			ws[j] = ws[i]
			j++
		}
	}
	s.watchers[wake] = ws[:j]
}

// propagate runs unit propagation to fixpoint. It returns the conflicting
// clause and true as soon as a clause has every literal false; otherwise ok
// is false and the valuation is at fixpoint.
func (s *Solver) propagate() (confl ClauseRef, ok bool) {
	for s.propQueue.size() > 0 {
		l := s.propQueue.pop()

		// Detach the whole list and re-add survivors: watcher lists may be
		// appended to while a clause re-watches itself, so iteration runs
		// over a private copy.
		s.tmpWatchers = append(s.tmpWatchers[:0], s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			// A true guard means the clause is satisfied; skip it without
			// loading its literals.
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if s.propagateClause(w.clause, l) {
				continue
			}

			// Conflict: restore the watchers not yet visited and report.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.clear()
			return w.clause, true
		}
	}
	return ClauseRef{}, false
}

// propagateClause revisits one clause whose watched literal was just
// falsified by the assignment of l. Either the clause is already satisfied,
// or the watch moves to another non-false literal, or the remaining watched
// literal is enqueued as a unit consequence. Returns false on conflict.
func (s *Solver) propagateClause(ref ClauseRef, l Literal) bool {
	c := s.store.Get(ref)
	falsified := l.Opposite()

	wi := c.wA
	oi := c.wB
	if c.literals[oi] == falsified {
		wi, oi = oi, wi
	} else if c.literals[wi] != falsified {
		panic("watch list names a clause that does not watch the literal")
	}
	other := c.literals[oi]

	// The other watch may already satisfy the clause.
	if s.LitValue(other) == True {
		s.watch(ref, l, other)
		return true
	}

	// Look for a replacement watch among the unwatched literals.
	for i, lit := range c.literals {
		if i == wi || i == oi {
			continue
		}
		if s.LitValue(lit) != False {
			c.moveWatch(wi, i)
			s.watch(ref, lit.Opposite(), other)
			return true
		}
	}

	// Every other literal is false: the clause entails its remaining watch.
	s.watch(ref, l, other)
	return s.enqueue(other, Reason{kind: reasonPropagated, clause: ref})
}

// hobsonChoices assigns every pure literal of the formula at level 0. A
// variable occurring in a single polarity can always be valued to satisfy
// all of its occurrences.
func (s *Solver) hobsonChoices() {
	n := s.NumVariables()
	pos := make([]bool, n)
	neg := make([]bool, n)
	for _, c := range s.store.formula {
		for _, l := range c.literals {
			if l.IsPositive() {
				pos[l.VarID()] = true
			} else {
				neg[l.VarID()] = true
			}
		}
	}

	pures := 0
	for v := 0; v < n; v++ {
		if s.VarValue(v) != Unknown || pos[v] == neg[v] {
			continue
		}
		choice := PositiveLiteral(v)
		if neg[v] {
			choice = NegativeLiteral(v)
		}
		if !s.enqueue(choice, Reason{kind: reasonPureLiteral}) {
			panic("pure literal conflicts with the valuation")
		}
		pures++
	}
	if pures > 0 {
		s.log.Debug("settled hobson choices", zap.Int("count", pures))
	}
}

// learn installs the clause produced by analysis. Watches are picked against
// the post-backjump valuation, which makes the asserting literal one of the
// two watches; it is then enqueued with the new clause as its antecedent.
func (s *Solver) learn(lits []Literal, lbd int) {
	ref := s.store.AddLearned(lits, lbd)
	if s.opts.ComputeCore {
		s.resolutions[ref] = append([]ClauseRef(nil), s.tmpPremises...)
	}

	c := s.store.Get(ref)
	if c.len() >= 2 {
		c.initWatches(s)
		s.attachWatches(ref, c)
	}
	if !s.enqueue(lits[0], Reason{kind: reasonPropagated, clause: ref}) {
		panic("learned clause is not asserting")
	}
	s.stats.Learned++
}

// locked reports whether the clause is the antecedent of a live trail
// entry. A clause only ever propagates one of its watched literals, and a
// propagated literal keeps its watch as long as it stays on the trail, so
// checking the two watches suffices.
func (s *Solver) locked(ref ClauseRef, c *Clause) bool {
	for _, lit := range [2]Literal{c.watchedA(), c.watchedB()} {
		r := s.reasons[lit.VarID()]
		if r.kind == reasonPropagated && r.clause == ref {
			return true
		}
	}
	return false
}

// maybeReduce prunes the learned clause database once enough conflicts have
// accumulated: learned clauses are ranked by LBD and dropped from the weak
// end while their LBD exceeds the configured glue strength. Unit learned
// clauses and clauses currently acting as an antecedent are never dropped.
func (s *Solver) maybeReduce() {
	if s.conflictsSinceForget <= s.reduceAt {
		return
	}

	refs := s.store.LearnedRefs()
	sort.SliceStable(refs, func(i, j int) bool {
		return s.store.Get(refs[i]).lbd < s.store.Get(refs[j]).lbd
	})

	dropped := 0
	for i := len(refs) - 1; i >= 0; i-- {
		c := s.store.Get(refs[i])
		if c.lbd <= s.opts.MinGlue {
			break
		}
		if c.len() == 1 || s.locked(refs[i], c) {
			continue
		}
		s.unwatch(refs[i], c.watchedA().Opposite())
		s.unwatch(refs[i], c.watchedB().Opposite())
		s.store.DropLearned(refs[i])
		dropped++
	}

	s.stats.Forgets++
	s.conflictsSinceForget = 0
	s.reduceAt *= 2
	s.log.Debug("reduced learnt database",
		zap.Int("dropped", dropped),
		zap.Int("remaining", s.store.NumLearned()),
		zap.Float64("avg_lbd", s.stats.AvgLBD()),
	)
}

func (s *Solver) shouldStop() bool {
	if s.opts.MaxConflicts >= 0 && s.stats.Conflicts >= s.opts.MaxConflicts {
		return true
	}
	if s.opts.Timeout >= 0 && time.Since(s.startTime) >= s.opts.Timeout {
		return true
	}
	return false
}

func (s *Solver) model() []bool {
	model := make([]bool, s.NumVariables())
	for v := range model {
		val := s.VarValue(v)
		if val == Unknown {
			panic("model with unassigned variable")
		}
		model[v] = val == True
	}
	return model
}

// Solve runs the CDCL loop: propagate to fixpoint; on conflict analyze,
// backjump and install the learned clause; otherwise reduce if due and
// branch. Terminates with SAT once every variable is assigned, UNSAT on a
// conflict at level 0, or Unknown when a budget is exhausted.
func (s *Solver) Solve() *Result {
	s.startTime = time.Now()
	s.reduceAt = s.opts.ReduceInterval
	defer func() {
		s.stats.TotalTime = time.Since(s.startTime)
	}()

	if s.unsat {
		return s.finishUnsat(s.rootConflict)
	}

	s.hobsonChoices()

	for {
		if s.shouldStop() {
			s.log.Debug("budget exhausted",
				zap.Int64("conflicts", s.stats.Conflicts),
				zap.Duration("elapsed", time.Since(s.startTime)),
			)
			s.cancelUntil(0)
			return &Result{Status: StatusUnknown, Stats: &s.stats}
		}
		s.stats.Iterations++

		t := time.Now()
		confl, conflicting := s.propagate()
		s.stats.PropagationTime += time.Since(t)

		if conflicting {
			s.stats.Conflicts++
			s.conflictsSinceForget++

			if s.decisionLevel() == 0 {
				s.markUnsat(confl)
				return s.finishUnsat(confl)
			}

			t = time.Now()
			learnt, backjump := s.analyze(confl)
			lbd := s.computeLBD(learnt)
			s.stats.observeLBD(lbd)

			s.cancelUntil(backjump)
			s.learn(learnt, lbd)
			s.order.DecayScores()
			s.stats.AnalysisTime += time.Since(t)

			s.log.Debug("conflict analyzed",
				zap.Int64("conflicts", s.stats.Conflicts),
				zap.Int("learnt_size", len(learnt)),
				zap.Int("lbd", lbd),
				zap.Int("backjump", backjump),
			)
			continue
		}

		if s.NumAssigns() == s.NumVariables() {
			model := s.model()
			s.cancelUntil(0)
			return &Result{Status: StatusSat, Model: model, Stats: &s.stats}
		}

		t = time.Now()
		s.maybeReduce()
		s.stats.ReductionTime += time.Since(t)

		t = time.Now()
		l := s.order.NextDecision(s)
		s.assume(l)
		s.stats.Decisions++
		s.stats.ChoiceTime += time.Since(t)
	}
}

// finishUnsat builds the UNSAT result, extracting a core while the level-0
// trail is still intact.
func (s *Solver) finishUnsat(confl ClauseRef) *Result {
	res := &Result{Status: StatusUnsat, Stats: &s.stats}
	if s.opts.ComputeCore {
		res.Core = s.unsatCore(confl)
	}
	return res
}
