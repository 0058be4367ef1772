package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/tveten/parsat/internal/config"
	"github.com/tveten/parsat/internal/dimacs"
	"github.com/tveten/parsat/internal/sat"
)

func unitConflict() *dimacs.Instance {
	return &dimacs.Instance{
		NVars: 1,
		Clauses: [][]sat.Literal{
			{sat.PositiveLiteral(0)},
			{sat.NegativeLiteral(0)},
		},
	}
}

func tinySAT() *dimacs.Instance {
	return &dimacs.Instance{
		NVars: 2,
		Clauses: [][]sat.Literal{
			{sat.PositiveLiteral(0), sat.PositiveLiteral(1)},
			{sat.NegativeLiteral(0), sat.PositiveLiteral(1)},
		},
	}
}

func testOptions(n int) ([]sat.Options, config.Global) {
	opts := make([]sat.Options, n)
	for i := range opts {
		opts[i] = sat.DefaultOptions()
	}
	global := config.Global{
		NCores:             n,
		UnitRingCapacity:   64,
		ClauseRingCapacity: 64,
	}
	return opts, global
}

func TestCoordinator_unsat(t *testing.T) {
	opts, global := testOptions(2)
	c := New(unitConflict(), opts, global, 1)

	res := c.Run(context.Background(), time.Time{})
	if res != sat.Unsatisfiable {
		t.Errorf("Run() = %v, want Unsatisfiable", res)
	}
}

func TestCoordinator_sat(t *testing.T) {
	opts, global := testOptions(2)
	c := New(tinySAT(), opts, global, 1)

	res := c.Run(context.Background(), time.Time{})
	if res != sat.Satisfiable {
		t.Errorf("Run() = %v, want Satisfiable", res)
	}

	model := c.Model()
	if len(model) != 2 {
		t.Fatalf("Model() returned %d values, want 2", len(model))
	}
	clauses := [][]int{{1, 2}, {-1, 2}}
	for _, cl := range clauses {
		satisfied := false
		for _, lit := range cl {
			v := lit
			if v < 0 {
				v = -v
			}
			val := model[v-1]
			if (lit > 0 && val == sat.True) || (lit < 0 && val == sat.False) {
				satisfied = true
			}
		}
		if !satisfied {
			t.Errorf("model %v does not satisfy clause %v", model, cl)
		}
	}
}

func TestCoordinator_report(t *testing.T) {
	opts, global := testOptions(2)
	c := New(tinySAT(), opts, global, 1)
	c.Run(context.Background(), time.Time{})

	r := c.Report()
	if len(r.Workers) != 2 {
		t.Fatalf("len(Workers) = %d, want 2", len(r.Workers))
	}
	if len(r.ExportLimit) != 2 || len(r.ExportLimit[0]) != 2 {
		t.Errorf("ExportLimit has unexpected shape: %v", r.ExportLimit)
	}
}
