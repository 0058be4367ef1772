// Package stats aggregates per-worker solving statistics for end-of-run
// reporting.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
)

// WorkerStats mirrors the counters a worker's Solver accumulates during a
// run. ImportsUsed is not filled in by the coordinator and stays zero.
type WorkerStats struct {
	WorkerID      int     `json:"worker_id"`
	Conflicts     uint64  `json:"conflicts"`
	Propagations  uint64  `json:"propagations"`
	Decisions     uint64  `json:"decisions"`
	Restarts      uint64  `json:"restarts"`
	Reductions    uint64  `json:"reductions"`
	ImportsUsed   uint64  `json:"imports_used"`
	ImportsDropped uint64 `json:"imports_deleted_without_use"`
}

// Report is the full end-of-run summary: one entry per worker plus the
// pairwise export-limit matrix the sharing fabric converged to.
type Report struct {
	Workers     []WorkerStats `json:"workers"`
	ExportLimit [][]float64   `json:"export_limit,omitempty"`
	Winner      int           `json:"winner"`
	Result      string        `json:"result"`
}

// WriteText prints a human-readable summary, used at verbosity >= 1.
func WriteText(w io.Writer, r Report) {
	fmt.Fprintf(w, "c result:    %s (worker %d)\n", r.Result, r.Winner)
	for _, ws := range r.Workers {
		fmt.Fprintf(w, "c worker %-2d  conflicts=%-8d propagations=%-10d decisions=%-8d restarts=%-6d reductions=%-4d imports_used=%-6d imports_dropped=%d\n",
			ws.WorkerID, ws.Conflicts, ws.Propagations, ws.Decisions, ws.Restarts, ws.Reductions, ws.ImportsUsed, ws.ImportsDropped)
	}
	if r.ExportLimit != nil {
		fmt.Fprintln(w, "c export limit matrix (producer rows, consumer columns):")
		for p, row := range r.ExportLimit {
			fmt.Fprintf(w, "c   %2d:", p)
			for q, v := range row {
				if q == p {
					fmt.Fprint(w, "     -")
					continue
				}
				fmt.Fprintf(w, " %5.0f", v)
			}
			fmt.Fprintln(w)
		}
	}
}

// WriteJSON dumps r to w as JSON, used when a stats output path is given.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
