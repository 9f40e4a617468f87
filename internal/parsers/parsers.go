// Package parsers loads DIMACS CNF formulas into a SAT solver. Tokenization
// is delegated to the dimacs module; this package only adapts its callback
// builder to the solver's formula-building contract.
package parsers

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/teeaychem/vsat/internal/sat"
)

// ErrEmptyClause is returned when the input contains an empty clause. An
// empty clause makes the formula trivially unsatisfiable in a way the solver
// treats as an input error rather than a solve outcome.
var ErrEmptyClause = errors.New("formula contains an empty clause")

// SATSolver is the formula-building contract expected from a solver.
type SATSolver interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file and loads its formula in the given
// SAT solver.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	reader, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer reader.Close()

	return LoadDIMACSReader(reader, solver)
}

// LoadDIMACSReader parses a DIMACS CNF formula from r and loads it in the
// given SAT solver.
func LoadDIMACSReader(r io.Reader, solver SATSolver) error {
	return dimacs.ReadBuilder(r, &builder{solver})
}

// builder wraps the solver to implement dimacs.Builder.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		b.solver.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if len(tmpClause) == 0 {
		return ErrEmptyClause
	}
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		clause[i] = sat.FromDIMACS(l)
	}
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// ReadModels returns the list of models (if any) contained in the given
// file. Model files hold one model per line using the instance's literal
// numbering; the i-th literal of a line gives the value of the i-th entry of
// the returned model.
func ReadModels(filename string) ([][]bool, error) {
	reader, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer reader.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(reader, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

// modelBuilder collects models instead of clauses.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have problem lines")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil // ignore comments
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
