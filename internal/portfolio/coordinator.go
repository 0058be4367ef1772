package portfolio

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tveten/parsat/internal/config"
	"github.com/tveten/parsat/internal/dimacs"
	"github.com/tveten/parsat/internal/sat"
	"github.com/tveten/parsat/internal/share"
	"github.com/tveten/parsat/internal/stats"
)

// Coordinator owns the worker pool and the sharing fabric, and runs them to
// a joint conclusion.
type Coordinator struct {
	workers []*Worker
	fabric  *share.Fabric
	barrier *share.Barrier

	winnerMu sync.Mutex
	winner   int
	result   sat.Result
}

// New builds a Coordinator for inst, with one worker per entry in opts.
// baseSeed seeds every worker's deterministic random-bias source.
func New(inst *dimacs.Instance, opts []sat.Options, global config.Global, baseSeed uint64) *Coordinator {
	n := len(opts)
	fabric := share.NewFabric(n, global.UnitRingCapacity, global.ClauseRingCapacity, global.Control)

	var barrier *share.Barrier
	if global.Deterministic {
		barrier = share.NewBarrier(n, global.BarrierMode)
	}

	workers := make([]*Worker, n)
	for i, opt := range opts {
		w, ok := newWorker(i, opt, inst, baseSeed, fabric, barrier)
		workers[i] = w
		if !ok {
			fabric.SetAnswer(i, sat.False)
		}
	}

	return &Coordinator{workers: workers, fabric: fabric, winner: -1, result: sat.Undef}
}

// Run launches every worker and blocks until one reaches a definite answer,
// the context is cancelled, or deadline passes (zero deadline means none).
// It returns the winning worker's result; Model and Report are valid once
// Run returns.
func (c *Coordinator) Run(ctx context.Context, deadline time.Time) sat.Result {
	g, ctx := errgroup.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.fabric.RequestStop()
		case <-done:
		}
	}()

	for _, w := range c.workers {
		w := w
		g.Go(func() error {
			res := w.Run(deadline)
			if res != sat.Undef {
				c.recordWinner(w.ID, res)
			}
			return nil
		})
	}

	g.Wait()
	close(done)

	c.winnerMu.Lock()
	defer c.winnerMu.Unlock()
	return c.result
}

func (c *Coordinator) recordWinner(id int, res sat.Result) {
	c.winnerMu.Lock()
	defer c.winnerMu.Unlock()
	if c.winner == -1 {
		c.winner = id
		c.result = res
	}
}

// Model returns the satisfying assignment found by the winning worker, or
// nil if the result was not Satisfiable.
func (c *Coordinator) Model() []sat.LBool {
	c.winnerMu.Lock()
	result, winner := c.result, c.winner
	c.winnerMu.Unlock()
	if result != sat.Satisfiable || winner < 0 {
		return nil
	}
	return c.workers[winner].Model()
}

// Report builds the end-of-run statistics summary across every worker.
func (c *Coordinator) Report() stats.Report {
	c.winnerMu.Lock()
	winner, result := c.winner, c.result
	c.winnerMu.Unlock()

	r := stats.Report{
		Workers: make([]stats.WorkerStats, len(c.workers)),
		Winner:  winner,
		Result:  result.String(),
	}

	n := len(c.workers)
	r.ExportLimit = make([][]float64, n)
	for p := 0; p < n; p++ {
		r.ExportLimit[p] = make([]float64, n)
		for q := 0; q < n; q++ {
			r.ExportLimit[p][q] = c.fabric.ImportLimit(p, q)
		}
	}

	for i, w := range c.workers {
		st := w.Solver.Stats()
		r.Workers[i] = stats.WorkerStats{
			WorkerID:       w.ID,
			Conflicts:      st.Conflicts,
			Propagations:   st.Propagations,
			Decisions:      st.Decisions,
			Restarts:       st.Restarts,
			Reductions:     st.Reductions,
			ImportsDropped: st.ImportsDeletedWithoutUse,
		}
	}
	return r
}
