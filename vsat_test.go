package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teeaychem/vsat/internal/parsers"
	"github.com/teeaychem/vsat/internal/sat"
)

// This suite checks the solver end to end by enumerating the full model set
// of small instances and comparing it against model sets computed by hand
// (and cross-checked against a truth table).
//
// Enumeration instances must not contain pure literals: a Hobson choice
// fixes its variable at level 0 for the whole solver lifetime, which is
// sound for a single verdict but prunes models from an all-models loop.

type instance struct {
	name   string
	cnf    string
	models []string // one model per string, variable v at position v, '1' = true
}

var instances = []instance{
	{
		name:   "contradictory units",
		cnf:    "p cnf 1 2\n1 0\n-1 0\n",
		models: nil,
	},
	{
		name:   "tautology only",
		cnf:    "p cnf 1 1\n1 -1 0\n",
		models: []string{"0", "1"},
	},
	{
		name:   "exclusive pair",
		cnf:    "p cnf 2 2\n1 2 0\n-1 -2 0\n",
		models: []string{"10", "01"},
	},
	{
		name:   "triangle",
		cnf:    "p cnf 3 3\n1 2 0\n-1 3 0\n-2 -3 0\n",
		models: []string{"010", "101"},
	},
	{
		name:   "square",
		cnf:    "p cnf 4 4\n1 2 0\n3 4 0\n-1 -3 0\n-2 -4 0\n",
		models: []string{"0110", "1001"},
	},
	{
		name: "pigeonhole 3 into 2",
		cnf: "p cnf 6 9\n" +
			"1 2 0\n3 4 0\n5 6 0\n" +
			"-1 -3 0\n-1 -5 0\n-3 -5 0\n" +
			"-2 -4 0\n-2 -6 0\n-4 -6 0\n",
		models: nil,
	},
}

// solveAll returns an unordered list of all the instance's models by
// repeatedly solving and blocking the model found.
func solveAll(t *testing.T, s *sat.Solver) [][]bool {
	t.Helper()

	var models [][]bool
	for {
		res := s.Solve()
		if res.Status != sat.StatusSat {
			if res.Status != sat.StatusUnsat {
				t.Fatalf("enumeration ended with status %v", res.Status)
			}
			return models
		}
		models = append(models, res.Model)

		if len(res.Model) == 0 {
			return models // nothing to block
		}
		blocking := make([]sat.Literal, len(res.Model))
		for v, b := range res.Model {
			if b { // literals are flipped to forbid this model
				blocking[v] = sat.NegativeLiteral(v)
			} else {
				blocking[v] = sat.PositiveLiteral(v)
			}
		}
		if err := s.AddClause(blocking); err != nil {
			t.Fatalf("blocking clause: %v", err)
		}
	}
}

func toString(model []bool) string {
	s := make([]byte, len(model))
	for i, b := range model {
		if b {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}

func toSet(models [][]bool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range models {
		set[toString(m)] = struct{}{}
	}
	return set
}

func stringsToSet(models []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range models {
		set[m] = struct{}{}
	}
	return set
}

func TestSolveAllModels(t *testing.T) {
	for _, tc := range instances {
		t.Run(tc.name, func(t *testing.T) {
			s := sat.NewDefaultSolver()
			if err := parsers.LoadDIMACSReader(strings.NewReader(tc.cnf), s); err != nil {
				t.Fatalf("instance parsing error: %v", err)
			}

			got := solveAll(t, s)

			if diff := cmp.Diff(stringsToSet(tc.models), toSet(got)); diff != "" {
				t.Errorf("model set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestRunsAreReproducible solves the same instance twice and expects the
// exact same trace.
func TestRunsAreReproducible(t *testing.T) {
	tc := instances[4] // square

	run := func() (*sat.Result, error) {
		s := sat.NewDefaultSolver()
		if err := parsers.LoadDIMACSReader(strings.NewReader(tc.cnf), s); err != nil {
			return nil, err
		}
		return s.Solve(), nil
	}

	a, err := run()
	if err != nil {
		t.Fatal(err)
	}
	b, err := run()
	if err != nil {
		t.Fatal(err)
	}

	if a.Status != b.Status {
		t.Fatalf("status mismatch: %v vs %v", a.Status, b.Status)
	}
	if diff := cmp.Diff(a.Model, b.Model); diff != "" {
		t.Errorf("model mismatch:\n%s", diff)
	}
	if a.Stats.Decisions != b.Stats.Decisions || a.Stats.Conflicts != b.Stats.Conflicts {
		t.Errorf("trace mismatch: %d/%d decisions, %d/%d conflicts",
			a.Stats.Decisions, b.Stats.Decisions, a.Stats.Conflicts, b.Stats.Conflicts)
	}
}
