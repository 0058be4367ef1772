package sat

// ClauseHandle is an opaque reference into a ClauseStore. It stays valid
// until the owning store relocates the clause it names, at which point the
// store records a forwarding handle so that a second Relocate call (from the
// clause's other watch list, or from the trail) returns the already-moved
// destination instead of copying twice.
type ClauseHandle int32

// noHandle is the zero value used where "no clause" (a decision, or a
// level-0 unit) is meant.
const noHandle ClauseHandle = -1

// generator values for Clause.Generator.
const (
	GenOriginal    = -1 // installed before search starts
	GenUnspecified = -2 // produced by conflict analysis on the owning worker
)

// Clause is the Clause Store's record for one clause, matching the fields
// named in the data model: literals, learnt, attached, lbd, freeze_left,
// used_since_last_reduce, used_once, nb_attached, generator, mark, activity,
// abstraction.
type Clause struct {
	Literals []Literal

	Learnt bool
	// Attached reports whether the clause is currently registered in the
	// watch lists of ~Literals[0] and ~Literals[1].
	Attached bool

	LBD uint32

	// FreezeLeft is the number of remaining reduction cycles the clause may
	// survive while detached before it is freed outright.
	FreezeLeft int

	UsedSinceLastReduce bool
	UsedOnce            bool
	NbAttached          int

	// Useful caches the psm scan's verdict from the most recent reduction
	// pass (reduction mode A only).
	Useful bool

	// Generator is GenOriginal, GenUnspecified, or the id (>=0) of the
	// worker that produced the clause via import.
	Generator int

	// Mark drives lazy watch-list cleanup: once set, every Watcher naming
	// this handle is eligible for removal the next time its list is
	// compacted.
	Mark bool

	// Activity is meaningful only for learnt clauses; it is rescaled on
	// overflow (see claBumpActivity).
	Activity float64

	// Abstraction is a 32-bit signature over the clause's variables,
	// populated for original (non-learnt) clauses only.
	Abstraction uint32

	// forwardedTo is set by Relocate on the clause's old slot; any value
	// other than noHandle means the clause already moved to the target
	// store under that handle.
	forwardedTo ClauseHandle
	freed       bool
}

// ClauseStore is a compact arena mapping ClauseHandles to Clause records. It
// never physically shrinks on Free; space is reclaimed by Relocate-driven
// garbage collection (MoveAll into a fresh store).
type ClauseStore struct {
	records []Clause
	wasted  int
}

// NewClauseStore returns an empty clause arena.
func NewClauseStore() *ClauseStore {
	return &ClauseStore{}
}

// Alloc copies literals into a freshly allocated record and returns its
// handle. The abstraction mask is computed only for original clauses, per
// the data model; the reduction engine's psm scan does not read it.
func (cs *ClauseStore) Alloc(literals []Literal, learnt bool, generator int) ClauseHandle {
	c := Clause{
		Literals:    append([]Literal(nil), literals...),
		Learnt:      learnt,
		Generator:   generator,
		forwardedTo: noHandle,
	}
	if !learnt {
		c.Abstraction = litAbstraction(literals)
	}
	cs.records = append(cs.records, c)
	return ClauseHandle(len(cs.records) - 1)
}

// Deref returns a pointer to the clause record named by h. The pointer is
// invalidated by the next Relocate/MoveAll of this store.
func (cs *ClauseStore) Deref(h ClauseHandle) *Clause {
	return &cs.records[h]
}

// Free marks h's record as wasted. The record itself is not compacted until
// the next MoveAll; Free only updates the space-reclamation accounting used
// by checkGarbage.
func (cs *ClauseStore) Free(h ClauseHandle) {
	c := &cs.records[h]
	if c.freed {
		return
	}
	c.freed = true
	cs.wasted += len(c.Literals) + clauseOverhead
}

// clauseOverhead approximates the per-record bookkeeping cost (beyond raw
// literals) that a relocating collector would reclaim, mirroring the
// source's clause-allocator "extra fields" accounting.
const clauseOverhead = 4

// Wasted returns the number of literal-equivalent units freed but not yet
// reclaimed by a relocation pass.
func (cs *ClauseStore) Wasted() int {
	return cs.wasted
}

// Size returns the number of literal-equivalent units live in the store,
// including wasted ones (i.e. the arena's current footprint).
func (cs *ClauseStore) Size() int {
	total := cs.wasted
	for i := range cs.records {
		if !cs.records[i].freed {
			total += len(cs.records[i].Literals) + clauseOverhead
		}
	}
	return total
}

// Relocate copies the clause named by h (in cs) into target, preserving all
// header state, and leaves a forwarding handle behind so that relocating the
// same source handle again (e.g. via the clause's second watch list) is
// idempotent.
func (cs *ClauseStore) Relocate(h ClauseHandle, target *ClauseStore) ClauseHandle {
	src := &cs.records[h]
	if src.forwardedTo != noHandle {
		return src.forwardedTo
	}
	dst := *src
	dst.forwardedTo = noHandle
	target.records = append(target.records, dst)
	newHandle := ClauseHandle(len(target.records) - 1)
	src.forwardedTo = newHandle
	return newHandle
}

// MoveAll swaps target's contents in as the new backing storage for cs,
// leaving target empty and cs as the (now canonical) live arena. Callers
// relocate every live handle into target first; MoveAll then performs the
// final swap so cs's old records (and any freed garbage they held) can be
// collected.
func (cs *ClauseStore) MoveAll(target *ClauseStore) {
	cs.records = target.records
	cs.wasted = 0
	target.records = nil
}
