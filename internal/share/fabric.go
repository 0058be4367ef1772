package share

import (
	"math"
	"sync/atomic"

	"github.com/tveten/parsat/internal/sat"
)

// Control modes for the adaptive per-pair export limit, per the original
// Cooperation object's ctrl field.
type ControlMode int

const (
	ControlOff ControlMode = iota
	ControlIncremental
	ControlAIMD
)

// Constants lifted from the reference implementation's Cooperation.h, kept
// as the defaults for Fabric tuning.
const (
	MaxImportClauses   = 4000
	LimitConflictsEval = 6000
	AIMDIncrease       = 8.0  // aimdy: additive increase, limit += AIMDIncrease/limit
	AIMDDecrease       = 0.25 // aimdx: multiplicative decrease, limit -= AIMDDecrease*limit
)

// atomicFloat64 is a lock-free float64 cell, used for the per-pair export
// limit: one worker writes it during its periodic tuning pass while every
// other worker's exporter reads it on the hot path.
type atomicFloat64 struct{ bits atomic.Uint64 }

func (a *atomicFloat64) Load() float64 { return math.Float64frombits(a.bits.Load()) }
func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

// pairState holds everything a Fabric tracks for one ordered
// (producer, consumer) pair.
type pairState struct {
	units             *unitRing
	clauses           *clauseRing
	importLimit       atomicFloat64
	importsSinceReset atomic.Uint64
}

// Fabric is the process-wide sharing substrate: one unitRing and one
// clauseRing per ordered pair of distinct workers, the per-pair adaptive
// export limit, the answer array, and the async-stop flag. Fabric itself
// holds no per-worker policy (export/import policy, lbd thresholds); those
// live in Options and are applied by the Endpoint wrapping each worker's
// view of the Fabric.
type Fabric struct {
	n       int
	pairs   [][]pairState // pairs[producer][consumer]
	answers []atomic.Int32
	stop    atomic.Bool

	control     ControlMode
	upperBound  float64
}

// NewFabric builds a fabric for n workers. unitCapacity and clauseCapacity
// size every pair's rings; both must be >= 1.
func NewFabric(n, unitCapacity, clauseCapacity int, control ControlMode) *Fabric {
	f := &Fabric{
		n:          n,
		pairs:      make([][]pairState, n),
		answers:    make([]atomic.Int32, n),
		control:    control,
		upperBound: MaxImportClauses,
	}
	for p := 0; p < n; p++ {
		f.pairs[p] = make([]pairState, n)
		for q := 0; q < n; q++ {
			if p == q {
				continue
			}
			f.pairs[p][q].units = newUnitRing(unitCapacity)
			f.pairs[p][q].clauses = newClauseRing(clauseCapacity)
			f.pairs[p][q].importLimit.Store(float64(MaxImportClauses))
		}
	}
	for i := range f.answers {
		f.answers[i].Store(int32(sat.Unknown))
	}
	return f
}

// N reports the number of workers the fabric was built for.
func (f *Fabric) N() int { return f.n }

// SetAnswer records worker id's result. Once any worker's answer becomes
// non-Undef, AsyncStop reports true to every worker.
func (f *Fabric) SetAnswer(id int, r sat.LBool) {
	f.answers[id].Store(int32(r))
	if r != sat.Unknown {
		f.stop.Store(true)
	}
}

// Answer returns worker id's last recorded answer.
func (f *Fabric) Answer(id int) sat.LBool { return sat.LBool(f.answers[id].Load()) }

// AsyncStop reports whether any worker has reached a terminal answer, or
// the process-level interrupt flag (set via RequestStop) has been raised.
func (f *Fabric) AsyncStop() bool { return f.stop.Load() }

// RequestStop sets the process-level interrupt flag directly, used by
// signal handling and resource-limit enforcement outside any worker.
func (f *Fabric) RequestStop() { f.stop.Store(true) }

// ExportUnits offers units (a batch of trail entries from decision level 0)
// from producer p to every other worker, subject to each ring's capacity.
func (f *Fabric) ExportUnits(p int, units []sat.Literal) {
	for q := 0; q < f.n; q++ {
		if q == p {
			continue
		}
		ring := f.pairs[p][q].units
		for _, u := range units {
			ring.push(u)
		}
	}
}

// ExportClause offers a learnt clause from producer p to every other
// worker. When enforceLegacyLimit is set (the caller's export policy is
// legacy), a consumer is skipped if the clause is longer than the pair's
// current export limit.
func (f *Fabric) ExportClause(p int, literals []sat.Literal, lbd uint32, enforceLegacyLimit bool) {
	msg := clauseMsg{literals: append([]sat.Literal(nil), literals...), lbd: lbd, producer: p}
	for q := 0; q < f.n; q++ {
		if q == p {
			continue
		}
		ps := &f.pairs[p][q]
		if enforceLegacyLimit && float64(len(literals)) > ps.importLimit.Load() {
			continue
		}
		ps.clauses.push(msg)
	}
}

// ImportUnits drains every unit offered to consumer q since the last call.
func (f *Fabric) ImportUnits(q int) []sat.Literal {
	var out []sat.Literal
	for p := 0; p < f.n; p++ {
		if p == q {
			continue
		}
		ps := &f.pairs[p][q]
		before := len(out)
		out = ps.units.drain(out)
		if n := len(out) - before; n > 0 {
			ps.importsSinceReset.Add(uint64(n))
		}
	}
	return out
}

// ImportClauses drains every clause offered to consumer q since the last
// call, returned as sat.ImportedClause values ready for installation.
func (f *Fabric) ImportClauses(q int) []sat.ImportedClause {
	var msgs []clauseMsg
	var out []sat.ImportedClause
	for p := 0; p < f.n; p++ {
		if p == q {
			continue
		}
		ps := &f.pairs[p][q]
		before := len(msgs)
		msgs = ps.clauses.drain(msgs)
		if n := len(msgs) - before; n > 0 {
			ps.importsSinceReset.Add(uint64(n))
		}
	}
	for _, m := range msgs {
		out = append(out, sat.ImportedClause{Literals: m.literals, LBD: m.lbd, Producer: m.producer})
	}
	return out
}

// TuneExportLimits runs the adaptive per-pair export-limit update for
// consumer q: every LimitConflictsEval conflicts, it adjusts
// importLimit[p][q] for each producer p based on how many imports it
// received from p since the last tuning pass, then resets the counter.
func (f *Fabric) TuneExportLimits(q int) {
	if f.control == ControlOff {
		return
	}
	for p := 0; p < f.n; p++ {
		if p == q {
			continue
		}
		ps := &f.pairs[p][q]
		n := ps.importsSinceReset.Swap(0)
		limit := ps.importLimit.Load()
		switch f.control {
		case ControlIncremental:
			target := float64(MaxImportClauses)
			if float64(n) < target {
				limit++
			} else {
				limit--
			}
		case ControlAIMD:
			target := float64(MaxImportClauses)
			if float64(n) < target {
				limit += AIMDIncrease / limit
			} else {
				limit -= AIMDDecrease * limit
			}
		}
		if limit < 1 {
			limit = 1
		}
		if limit > f.upperBound {
			limit = f.upperBound
		}
		ps.importLimit.Store(limit)
	}
}

// ImportLimit returns the current export-size limit for (p, q), exported
// for statistics reporting.
func (f *Fabric) ImportLimit(p, q int) float64 {
	if p == q {
		return 0
	}
	return f.pairs[p][q].importLimit.Load()
}

// ImportsSinceReset exposes the raw per-pair counter for testing.
func (f *Fabric) ImportsSinceReset(p, q int) uint64 {
	if p == q {
		return 0
	}
	return f.pairs[p][q].importsSinceReset.Load()
}
