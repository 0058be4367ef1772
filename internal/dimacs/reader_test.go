package dimacs

import (
	"strings"
	"testing"

	dimacslib "github.com/rhartert/dimacs"
	"github.com/google/go-cmp/cmp"

	"github.com/tveten/parsat/internal/sat"
)

const testCNF = `c a tiny instance
p cnf 3 3
1 -2 0
2 3 0
-1 -3 0
`

func TestInstanceBuilder(t *testing.T) {
	b := &instanceBuilder{}
	if err := dimacslib.ReadBuilder(strings.NewReader(testCNF), b); err != nil {
		t.Fatalf("ReadBuilder(): unexpected error: %s", err)
	}

	want := Instance{
		NVars: 3,
		Clauses: [][]sat.Literal{
			{sat.PositiveLiteral(0), sat.NegativeLiteral(1)},
			{sat.PositiveLiteral(1), sat.PositiveLiteral(2)},
			{sat.NegativeLiteral(0), sat.NegativeLiteral(2)},
		},
	}
	if diff := cmp.Diff(want, b.instance); diff != "" {
		t.Errorf("instanceBuilder: mismatch (-want, +got):\n%s", diff)
	}
}

func TestInstanceBuilder_rejectsNonCNF(t *testing.T) {
	b := &instanceBuilder{}
	err := dimacslib.ReadBuilder(strings.NewReader("p wcnf 3 3\n"), b)
	if err == nil {
		t.Errorf("ReadBuilder(): want error for non-cnf problem line, got none")
	}
}

func TestInstantiateInto(t *testing.T) {
	inst := &Instance{
		NVars: 3,
		Clauses: [][]sat.Literal{
			{sat.PositiveLiteral(0), sat.NegativeLiteral(1)},
			{sat.PositiveLiteral(1), sat.PositiveLiteral(2)},
		},
	}

	s := sat.NewSolver(sat.DefaultOptions(), 0, 0, nil)
	ok := InstantiateInto(s, inst)
	if !ok {
		t.Fatalf("InstantiateInto(): want true, got false")
	}
	if got := s.NVars(); got != 3 {
		t.Errorf("NVars() = %d, want 3", got)
	}
}

func TestModelBuilder(t *testing.T) {
	b := &modelBuilder{}
	if err := dimacslib.ReadBuilder(strings.NewReader("1 -2 3 0\n-1 2 -3 0\n"), b); err != nil {
		t.Fatalf("ReadBuilder(): unexpected error: %s", err)
	}
	want := [][]bool{
		{true, false, true},
		{false, true, false},
	}
	if diff := cmp.Diff(want, b.models); diff != "" {
		t.Errorf("modelBuilder: mismatch (-want, +got):\n%s", diff)
	}
}
