package sat

// Watcher records that Clause is registered under some literal p because ~p
// is one of the clause's two watched literals, so the clause must be visited
// when p becomes true. Blocker
// caches a literal of the clause that is not the one being watched, so the
// propagator can usually avoid dereferencing the clause at all.
type Watcher struct {
	Clause  ClauseHandle
	Blocker Literal
}

// WatchIndex maps every literal l to the list of clauses that currently
// watch ~l (the clauses to visit when l becomes true). Removal is lazy: Smudge flags a literal's list as containing at least
// one watcher whose clause is marked for deletion, and Clean/CleanAll do the
// actual compaction. This lets a reduction pass mark many clauses for
// removal and pay the O(n) compaction cost once, rather than once per
// removed clause.
type WatchIndex struct {
	lists []([]Watcher)
	dirty []bool
	queue *Queue[Literal]
}

// NewWatchIndex returns a watch index with no literals registered.
func NewWatchIndex() *WatchIndex {
	return &WatchIndex{queue: NewQueue[Literal](16)}
}

// Grow ensures the index has a (possibly empty) list for every literal of
// variables 0..n-1.
func (wi *WatchIndex) Grow(nVars int) {
	need := nVars * 2
	for len(wi.lists) < need {
		wi.lists = append(wi.lists, nil)
		wi.dirty = append(wi.dirty, false)
	}
}

// ListFor returns the current watcher list for literal l. The propagator
// reads and rewrites this slice in place while scanning it.
func (wi *WatchIndex) ListFor(l Literal) []Watcher {
	return wi.lists[l]
}

// SetListFor replaces the watcher list for l, used by the propagator to
// commit an in-place compacted scan result.
func (wi *WatchIndex) SetListFor(l Literal, list []Watcher) {
	wi.lists[l] = list
}

// Push appends w to l's watcher list without deduplication; a clause may
// legitimately be pushed onto the same literal's list only once per attach,
// since a clause watches two distinct literals.
func (wi *WatchIndex) Push(l Literal, w Watcher) {
	wi.lists[l] = append(wi.lists[l], w)
}

// Unwatch eagerly removes the single watcher naming h from l's list. Used
// for one-off detaches (e.g. undoing a failed attach); bulk removals should
// use Smudge+CleanAll instead to avoid O(n) work per clause.
func (wi *WatchIndex) Unwatch(l Literal, h ClauseHandle) {
	list := wi.lists[l]
	for i, w := range list {
		if w.Clause == h {
			list[i] = list[len(list)-1]
			wi.lists[l] = list[:len(list)-1]
			return
		}
	}
}

// Smudge flags l's list as needing a mark-and-sweep compaction.
func (wi *WatchIndex) Smudge(l Literal) {
	if !wi.dirty[l] {
		wi.dirty[l] = true
		wi.queue.Push(l)
	}
}

// Clean compacts l's list in place, dropping every watcher whose clause is
// marked (store.Deref(w.Clause).Mark). It is idempotent and safe to call on
// a literal that was never smudged.
func (wi *WatchIndex) Clean(l Literal, store *ClauseStore) {
	list := wi.lists[l]
	kept := list[:0]
	for _, w := range list {
		if !store.Deref(w.Clause).Mark {
			kept = append(kept, w)
		}
	}
	wi.lists[l] = kept
	wi.dirty[l] = false
}

// CleanAll compacts every literal list smudged since the last CleanAll.
func (wi *WatchIndex) CleanAll(store *ClauseStore) {
	for !wi.queue.IsEmpty() {
		l := wi.queue.Pop()
		if wi.dirty[l] {
			wi.Clean(l, store)
		}
	}
}
