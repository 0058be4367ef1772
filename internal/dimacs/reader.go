// Package dimacs reads and writes the DIMACS CNF format used to exchange
// SAT instances and results with the outside world.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/tveten/parsat/internal/sat"
)

// Instance is a fully parsed CNF formula, held independently of any solver
// so the same parse can seed every worker's private Solver.
type Instance struct {
	NVars   int
	Clauses [][]sat.Literal
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// ReadFile parses filename as a DIMACS CNF instance. gzipped indicates the
// file is gzip-compressed on disk (the common ".cnf.gz" competition
// convention).
func ReadFile(filename string, gzipped bool) (*Instance, error) {
	r, err := open(filename, gzipped)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	inst, err := ReadInstance(r)
	if err != nil {
		return nil, fmt.Errorf("dimacs: parsing %q: %w", filename, err)
	}
	return inst, nil
}

// ReadInstance parses a DIMACS CNF instance from an already-open reader,
// for callers that have their own notion of where the bytes come from
// (embedded test fixtures, in-memory buffers).
func ReadInstance(r io.Reader) (*Instance, error) {
	b := &instanceBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return &b.instance, nil
}

// instanceBuilder adapts dimacs.ReadBuilder's callback protocol onto an
// Instance value.
type instanceBuilder struct {
	instance Instance
}

func (b *instanceBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("unsupported problem type %q", problem)
	}
	b.instance.NVars = nVars
	b.instance.Clauses = make([][]sat.Literal, 0, nClauses)
	return nil
}

func (b *instanceBuilder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	b.instance.Clauses = append(b.instance.Clauses, clause)
	return nil
}

func (b *instanceBuilder) Comment(_ string) error {
	return nil
}

// InstantiateInto declares every variable and adds every clause of inst
// into s. It returns false if some clause makes s unsatisfiable. Every
// clause is still passed to AddClause, but once s is known unsatisfiable
// AddClause installs nothing, so clauses after that point are not added.
func InstantiateInto(s *sat.Solver, inst *Instance) bool {
	for v := 0; v < inst.NVars; v++ {
		s.EnsureVar(v)
	}
	ok := true
	for _, c := range inst.Clauses {
		if !s.AddClause(c) {
			ok = false
		}
	}
	return ok
}

// ReadModels parses a file of satisfying assignments, one model per line,
// used by tests to check a solver's reported model against known-good
// answers.
func ReadModels(filename string) ([][]bool, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacs: parsing %q: %w", filename, err)
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error { return nil }

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
