// Package portfolio runs a pool of independent CDCL solvers over the same
// CNF instance, sharing learnt clauses through a Fabric, and returns as
// soon as any worker reaches a definite answer.
package portfolio

import (
	"time"

	"github.com/tveten/parsat/internal/dimacs"
	"github.com/tveten/parsat/internal/sat"
	"github.com/tveten/parsat/internal/share"
)

// Worker binds one Solver to its sharing endpoint and runs the outer
// restart loop, periodically checking the deadline and the fabric's
// async-stop flag between search segments.
type Worker struct {
	ID       int
	Solver   *sat.Solver
	Endpoint *share.Endpoint
	Barrier  *share.Barrier // nil unless running in deterministic mode
}

func newWorker(id int, opt sat.Options, inst *dimacs.Instance, baseSeed uint64, fabric *share.Fabric, barrier *share.Barrier) (*Worker, bool) {
	s := sat.NewSeededSolver(opt, id, inst.NVars, baseSeed)
	ok := dimacs.InstantiateInto(s, inst)

	ep := share.NewEndpoint(fabric, id, &opt)
	s.SetSharing(ep)

	return &Worker{ID: id, Solver: s, Endpoint: ep, Barrier: barrier}, ok
}

// Run solves the instance, stopping early if deadline is reached or the
// fabric reports that a peer already has an answer. The budget closure the
// Solver calls between restart segments is where the deterministic-mode
// barrier rendezvous happens, since that is the one point every worker
// passes through regardless of which restart policy it runs.
func (w *Worker) Run(deadline time.Time) sat.Result {
	budget := func() bool {
		if w.Endpoint.AsyncStop() {
			return false
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return false
		}
		if w.Barrier != nil {
			w.Barrier.ReportLearntSize(w.ID, w.Solver.NumLearnts())
			w.Barrier.Commit()
			w.Barrier.Release()
		}
		return true
	}

	res := w.Solver.Solve(nil, budget)
	w.Endpoint.SetAnswer(resultToLBool(res))
	return res
}

func resultToLBool(r sat.Result) sat.LBool {
	switch r {
	case sat.Satisfiable:
		return sat.True
	case sat.Unsatisfiable:
		return sat.False
	default:
		return sat.Unknown
	}
}

// Model returns the worker's current satisfying assignment. Only
// meaningful after Run returned sat.Satisfiable.
func (w *Worker) Model() []sat.LBool {
	n := w.Solver.NVars()
	model := make([]sat.LBool, n)
	for v := 0; v < n; v++ {
		model[v] = w.Solver.VarValue(v)
	}
	return model
}
