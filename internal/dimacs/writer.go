package dimacs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tveten/parsat/internal/sat"
)

// WriteResult writes the competition-style result: an "s SATISFIABLE" /
// "s UNSATISFIABLE" / "s UNKNOWN" status line, followed by a "v ..." model
// line (terminated by the mandatory trailing 0) when model is non-nil.
// There is no third-party DIMACS writer in the example corpus (the one
// dependency available, rhartert/dimacs, only reads); this format is a
// handful of fmt.Fprintf calls, too small to justify anything beyond the
// standard library.
func WriteResult(w io.Writer, result sat.Result, model []sat.LBool) error {
	bw := bufio.NewWriter(w)

	switch result {
	case sat.Satisfiable:
		fmt.Fprintln(bw, "s SATISFIABLE")
		if model != nil {
			fmt.Fprint(bw, "v")
			for v, val := range model {
				lit := v + 1
				if val == sat.False {
					lit = -lit
				}
				fmt.Fprintf(bw, " %d", lit)
			}
			fmt.Fprintln(bw, " 0")
		}
	case sat.Unsatisfiable:
		fmt.Fprintln(bw, "s UNSATISFIABLE")
	default:
		fmt.Fprintln(bw, "s UNKNOWN")
	}

	return bw.Flush()
}

// WriteResultFile writes the plain result-file convention some competition
// scripts expect instead of stdout: a single status word, followed by the
// model's literals terminated with 0 when satisfiable.
func WriteResultFile(w io.Writer, result sat.Result, model []sat.LBool) error {
	bw := bufio.NewWriter(w)

	switch result {
	case sat.Satisfiable:
		fmt.Fprintln(bw, "SAT")
		for v, val := range model {
			lit := v + 1
			if val == sat.False {
				lit = -lit
			}
			fmt.Fprintf(bw, "%d ", lit)
		}
		fmt.Fprintln(bw, "0")
	case sat.Unsatisfiable:
		fmt.Fprintln(bw, "UNSAT")
	default:
		fmt.Fprintln(bw, "c INDET")
	}

	return bw.Flush()
}
