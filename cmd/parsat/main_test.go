package main

// End-to-end scenarios driven straight through the portfolio coordinator,
// mirroring the literal instances used to validate the solver during
// development. No external testdata is required: every instance is a
// small inline DIMACS string.

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tveten/parsat/internal/config"
	"github.com/tveten/parsat/internal/dimacs"
	"github.com/tveten/parsat/internal/portfolio"
	"github.com/tveten/parsat/internal/sat"
)

func solve(t *testing.T, cnf string, nWorkers int, deterministic bool) (*portfolio.Coordinator, sat.Result) {
	t.Helper()

	inst, err := dimacs.ReadInstance(strings.NewReader(cnf))
	if err != nil {
		t.Fatalf("ReadInstance(): unexpected error: %s", err)
	}

	opts := make([]sat.Options, nWorkers)
	for i := range opts {
		opts[i] = sat.DefaultOptions()
	}
	global := config.Global{
		NCores:             nWorkers,
		Deterministic:      deterministic,
		UnitRingCapacity:   64,
		ClauseRingCapacity: 64,
	}

	coord := portfolio.New(inst, opts, global, 42)
	res := coord.Run(context.Background(), time.Time{})
	return coord, res
}

func checkModel(t *testing.T, cnf string, model []sat.LBool) {
	t.Helper()
	for _, line := range strings.Split(cnf, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] == "p" || fields[0] == "c" {
			continue
		}
		satisfied := false
		for _, f := range fields {
			var lit int
			fmt.Sscanf(f, "%d", &lit)
			if lit == 0 {
				continue
			}
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
			t.Errorf("model %v does not satisfy clause %q", model, line)
		}
	}
}

func TestEndToEnd_unitConflict(t *testing.T) {
	_, res := solve(t, "p cnf 1 2\n1 0\n-1 0\n", 2, false)
	if res != sat.Unsatisfiable {
		t.Errorf("result = %v, want Unsatisfiable", res)
	}
}

func TestEndToEnd_singleClauseSAT(t *testing.T) {
	cnf := "p cnf 2 1\n1 2 0\n"
	coord, res := solve(t, cnf, 2, false)
	if res != sat.Satisfiable {
		t.Fatalf("result = %v, want Satisfiable", res)
	}
	checkModel(t, cnf, coord.Model())
}

func TestEndToEnd_threeClauseSAT(t *testing.T) {
	cnf := "p cnf 3 3\n1 2 0\n-1 3 0\n-2 -3 0\n"
	coord, res := solve(t, cnf, 2, false)
	if res != sat.Satisfiable {
		t.Fatalf("result = %v, want Satisfiable", res)
	}
	checkModel(t, cnf, coord.Model())
}

func TestEndToEnd_twoVarUnsat(t *testing.T) {
	cnf := "p cnf 3 4\n1 2 0\n-1 2 0\n1 -2 0\n-1 -2 0\n"
	_, res := solve(t, cnf, 2, false)
	if res != sat.Unsatisfiable {
		t.Errorf("result = %v, want Unsatisfiable", res)
	}
}

// pigeonhole builds the standard encoding of "p pigeons into h holes" (no
// two pigeons share a hole), which is unsatisfiable whenever p > h.
// Variable x[i][j] (pigeon i in hole j) is numbered i*h+j+1.
func pigeonhole(p, h int) string {
	var b strings.Builder
	varOf := func(i, j int) int { return i*h + j + 1 }

	clauses := 0
	var body strings.Builder
	for i := 0; i < p; i++ {
		for j := 0; j < h; j++ {
			fmt.Fprintf(&body, "%d ", varOf(i, j))
		}
		body.WriteString("0\n")
		clauses++
	}
	for j := 0; j < h; j++ {
		for i1 := 0; i1 < p; i1++ {
			for i2 := i1 + 1; i2 < p; i2++ {
				fmt.Fprintf(&body, "-%d -%d 0\n", varOf(i1, j), varOf(i2, j))
				clauses++
			}
		}
	}

	fmt.Fprintf(&b, "p cnf %d %d\n", p*h, clauses)
	b.WriteString(body.String())
	return b.String()
}

func TestEndToEnd_pigeonhole(t *testing.T) {
	cnf := pigeonhole(4, 3)
	coord, res := solve(t, cnf, 2, false)
	if res != sat.Unsatisfiable {
		t.Fatalf("result = %v, want Unsatisfiable", res)
	}

	report := coord.Report()
	var totalConflicts, totalPropagations uint64
	for _, w := range report.Workers {
		totalConflicts += w.Conflicts
		totalPropagations += w.Propagations
	}
	if totalConflicts == 0 {
		t.Errorf("total conflicts = 0, want > 0")
	}
	if totalPropagations == 0 {
		t.Errorf("total propagations = 0, want > 0")
	}
}

// implicationChain builds the unit clause x1, the chain x1->x2->...->xn and
// the unit clause ~xn. The chain with ~xn alone is satisfiable by setting
// every variable false; the seed unit x1 makes the whole unsatisfiable.
func implicationChain(n int) string {
	var body strings.Builder
	clauses := 0

	body.WriteString("1 0\n") // seed: x1
	clauses++
	for i := 1; i < n; i++ {
		fmt.Fprintf(&body, "-%d %d 0\n", i, i+1)
		clauses++
	}
	fmt.Fprintf(&body, "-%d 0\n", n) // ~xn
	clauses++

	return fmt.Sprintf("p cnf %d %d\n%s", n, clauses, body.String())
}

func TestEndToEnd_implicationChainUnsat(t *testing.T) {
	cnf := implicationChain(200)
	_, res := solve(t, cnf, 2, false)
	if res != sat.Unsatisfiable {
		t.Errorf("result = %v, want Unsatisfiable", res)
	}
}

func TestEndToEnd_deterministicConflictCountReproducible(t *testing.T) {
	cnf := implicationChain(200)

	conflictsPerRun := make([][]uint64, 2)
	for run := 0; run < 2; run++ {
		coord, res := solve(t, cnf, 2, true)
		if res != sat.Unsatisfiable {
			t.Fatalf("run %d: result = %v, want Unsatisfiable", run, res)
		}
		report := coord.Report()
		counts := make([]uint64, len(report.Workers))
		for i, w := range report.Workers {
			counts[i] = w.Conflicts
		}
		conflictsPerRun[run] = counts
	}

	if len(conflictsPerRun[0]) != len(conflictsPerRun[1]) {
		t.Fatalf("worker count differs between runs: %d vs %d", len(conflictsPerRun[0]), len(conflictsPerRun[1]))
	}
	for i := range conflictsPerRun[0] {
		if conflictsPerRun[0][i] != conflictsPerRun[1][i] {
			t.Errorf("worker %d conflicts differ across runs: %d vs %d", i, conflictsPerRun[0][i], conflictsPerRun[1][i])
		}
	}
}

func TestEndToEnd_emptyFormulaIsSAT(t *testing.T) {
	cnf := "p cnf 0 0\n"
	coord, res := solve(t, cnf, 1, false)
	if res != sat.Satisfiable {
		t.Errorf("result = %v, want Satisfiable", res)
	}
	if len(coord.Model()) != 0 {
		t.Errorf("Model() = %v, want empty", coord.Model())
	}
}

func TestEndToEnd_emptyClauseIsUnsat(t *testing.T) {
	cnf := "p cnf 1 1\n0\n"
	_, res := solve(t, cnf, 1, false)
	if res != sat.Unsatisfiable {
		t.Errorf("result = %v, want Unsatisfiable", res)
	}
}

func TestEndToEnd_singleUnitClauseIsSAT(t *testing.T) {
	cnf := "p cnf 1 1\n-1 0\n"
	coord, res := solve(t, cnf, 1, false)
	if res != sat.Satisfiable {
		t.Fatalf("result = %v, want Satisfiable", res)
	}
	if coord.Model()[0] != sat.False {
		t.Errorf("model[0] = %v, want False", coord.Model()[0])
	}
}
