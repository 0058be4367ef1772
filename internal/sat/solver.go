package sat

// agilityAlpha is the decay used by the agility metric updated on every
// unit propagation (see the propagator's side effect).
const agilityAlpha = 0.9999

// noLiteral is used where a "no literal yet" sentinel is needed, e.g. by
// analyze before the first reason has been walked.
const noLiteral Literal = -1

// SharingEndpoint is the worker-facing view of the inter-worker clause
// exchange. A Solver never talks to the fabric directly; it only sees this
// narrow interface, satisfied by a per-worker endpoint the Coordinator
// hands out (see package share). A nil endpoint makes the solver behave as
// a standalone single-threaded CDCL engine.
type SharingEndpoint interface {
	ExportUnits(units []Literal)
	ExportClause(literals []Literal, lbd uint32)
	ImportUnits() []Literal
	ImportClauses() []ImportedClause
	SetAnswer(LBool)
	Answer() LBool
	AsyncStop() bool
}

// ImportedClause is one clause offered by a peer through the sharing
// fabric, prior to installation.
type ImportedClause struct {
	Literals []Literal
	LBD      uint32
	Producer int
}

// Solver is one CDCL search session: trail & decision state, decision
// heuristic, propagator, conflict analyzer, restart controller and
// reduction engine, bound to a private clause store and watch index. It
// never shares mutable state with any other Solver; all cross-worker
// communication goes through SharingEndpoint.
type Solver struct {
	opt      Options
	workerID int

	cs *ClauseStore
	wi *WatchIndex

	order *VarOrder

	assigns []LBool
	level   []int
	reason  []ClauseHandle

	trail    []Literal
	trailLim []int
	qhead    int

	originals []ClauseHandle
	learnts   []ClauseHandle

	claInc float64

	agility float64

	restart       *RestartController
	lastDeviation float64
	controlReduce int
	currentLimit  int

	seen       ResetSet
	levelStamp LevelStamper

	assumptions   []Literal
	assumptionIdx int

	sharing SharingEndpoint

	tailUnitLit int

	conflicts    uint64
	propagations uint64
	decisions    uint64
	restarts     uint64
	nbReduce     uint64

	stats reduceStats

	unsat bool
}

// NewSeededSolver returns a Solver whose random-bias source is a
// deterministic LCG derived from (baseSeed, workerID), so that two
// processes given the same seed and worker id make identical random
// decisions regardless of host or run order.
func NewSeededSolver(opt Options, workerID int, nVars int, baseSeed uint64) *Solver {
	return NewSolver(opt, workerID, nVars, newLCG(baseSeed, workerID))
}

// NewSolver returns a Solver with nVars variables pre-declared, ready to
// accept original clauses via AddClause. rnd may be nil to disable random
// decision bias entirely.
func NewSolver(opt Options, workerID int, nVars int, rnd *lcg) *Solver {
	lexico := opt.LexicographicalFirstPropagation
	s := &Solver{
		opt:           opt,
		workerID:      workerID,
		cs:            NewClauseStore(),
		wi:            NewWatchIndex(),
		order:         NewVarOrder(opt.VarDecay, opt.PhaseSaving, rnd, opt.RandomVarFreq, opt.RndPol, lexico),
		claInc:        1,
		agility:       0,
		lastDeviation: 0.1,
		controlReduce: opt.InitialNbConflictBeforeReduce,
		currentLimit:  opt.InitialNbConflictBeforeReduce,
	}
	s.restart = NewRestartController(opt)
	for i := 0; i < nVars; i++ {
		s.growVar()
	}
	return s
}

func (s *Solver) growVar() {
	initPhase := false
	switch s.opt.InitPhasePolicy {
	case InitPhaseTrue:
		initPhase = true
	case InitPhaseRandom:
		if s.order.rnd != nil {
			initPhase = s.order.rnd.Float64() < 0.5
		}
	}
	s.order.AddVar(0, initPhase)
	s.assigns = append(s.assigns, Unknown)
	s.level = append(s.level, 0)
	s.reason = append(s.reason, noHandle)
	s.seen.Expand()
	s.levelStamp.Grow(len(s.assigns) + 1)
	s.wi.Grow(len(s.assigns))
}

// NVars returns the number of variables currently declared.
func (s *Solver) NVars() int { return len(s.assigns) }

// NumLearnts returns the size of the learnt clause database.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

// Stats is a snapshot of one solver's search counters, read by the
// coordinator for end-of-run reporting.
type Stats struct {
	Conflicts                  uint64
	Propagations                uint64
	Decisions                   uint64
	Restarts                    uint64
	Reductions                  uint64
	ImportsDeletedWithoutUse    uint64
	NeverAttached                uint64
}

// Stats returns a snapshot of the solver's search counters. It is safe to
// call only between search segments (the coordinator calls it after a
// worker's Solve returns), not concurrently with an in-progress Solve.
func (s *Solver) Stats() Stats {
	return Stats{
		Conflicts:                s.conflicts,
		Propagations:             s.propagations,
		Decisions:                s.decisions,
		Restarts:                 s.restarts,
		Reductions:               s.nbReduce,
		ImportsDeletedWithoutUse: s.stats.importsDeletedWithoutUse,
		NeverAttached:            s.stats.neverAttached,
	}
}

// SetSharing attaches (or detaches, with nil) this worker's endpoint into
// the sharing fabric.
func (s *Solver) SetSharing(ep SharingEndpoint) { s.sharing = ep }

// VarValue returns the current assignment of variable v.
func (s *Solver) VarValue(v int) LBool { return s.assigns[v] }

func (s *Solver) litValue(l Literal) LBool {
	v := s.assigns[l.VarID()]
	if v == Unknown {
		return Unknown
	}
	if l.IsPositive() {
		return v
	}
	return v.Opposite()
}

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

func (s *Solver) ensureVar(v int) {
	for v >= len(s.assigns) {
		s.growVar()
	}
}

// EnsureVar grows the variable set, if needed, so that v is declared. It is
// exported for loaders (see internal/dimacs) that declare variables ahead
// of the clauses that reference them.
func (s *Solver) EnsureVar(v int) { s.ensureVar(v) }

// AddClause installs an original (non-learnt) clause. It returns false if
// the clause set is now known unsatisfiable (the clause was empty, or
// simplified to empty, after removing duplicate/level-0-falsified
// literals).
func (s *Solver) AddClause(lits []Literal) bool {
	if s.unsat {
		return false
	}
	for _, l := range lits {
		s.ensureVar(l.VarID())
	}

	ls := append([]Literal(nil), lits...)
	sortLiterals(ls)
	out := ls[:0]
	var prev Literal = -1
	satisfied := false
	for _, l := range ls {
		if l == prev {
			continue
		}
		if l.Opposite() == prev {
			satisfied = true
			break
		}
		if s.litValue(l) == True {
			satisfied = true
			break
		}
		if s.litValue(l) == False {
			prev = l
			continue
		}
		out = append(out, l)
		prev = l
	}
	if satisfied {
		return true
	}

	switch len(out) {
	case 0:
		s.unsat = true
		return false
	case 1:
		if s.litValue(out[0]) == False {
			s.unsat = true
			return false
		}
		if s.litValue(out[0]) == Unknown {
			s.uncheckedEnqueue(out[0], noHandle)
		}
		return true
	default:
		h := s.cs.Alloc(out, false, GenOriginal)
		s.originals = append(s.originals, h)
		s.attachClause(h)
		return true
	}
}

func sortLiterals(ls []Literal) {
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && ls[j-1] > ls[j]; j-- {
			ls[j-1], ls[j] = ls[j], ls[j-1]
		}
	}
}

func (s *Solver) attachClause(h ClauseHandle) {
	c := s.cs.Deref(h)
	c.Attached = true
	c.Mark = false
	c.NbAttached++
	s.wi.Push(c.Literals[0].Opposite(), Watcher{Clause: h, Blocker: c.Literals[1]})
	s.wi.Push(c.Literals[1].Opposite(), Watcher{Clause: h, Blocker: c.Literals[0]})
}

// detachClause unregisters h from the watch index. lazy defers the actual
// list compaction to the next WatchIndex.CleanAll, which is cheaper when
// many clauses are detached in the same reduction pass.
func (s *Solver) detachClause(h ClauseHandle, lazy bool) {
	c := s.cs.Deref(h)
	if !c.Attached {
		return
	}
	c.Attached = false
	if lazy {
		c.Mark = true
		s.wi.Smudge(c.Literals[0].Opposite())
		s.wi.Smudge(c.Literals[1].Opposite())
		return
	}
	s.wi.Unwatch(c.Literals[0].Opposite(), h)
	s.wi.Unwatch(c.Literals[1].Opposite(), h)
}

// locked reports whether h is currently the reason some assigned literal was
// propagated with, i.e. removing it would invalidate the trail. MiniSat-family
// solvers check this against the clause's first literal, since that is the
// position a reason clause's asserting literal always occupies.
func (s *Solver) locked(h ClauseHandle) bool {
	c := s.cs.Deref(h)
	if len(c.Literals) == 0 {
		return false
	}
	v := c.Literals[0].VarID()
	return s.assigns[v] != Unknown && s.reason[v] == h
}

func (s *Solver) uncheckedEnqueue(l Literal, reason ClauseHandle) {
	v := l.VarID()
	s.assigns[v] = Lift(l.IsPositive())
	s.level[v] = s.decisionLevel()
	s.reason[v] = reason
	s.trail = append(s.trail, l)
}

func (s *Solver) newDecisionLevel() {
	s.trailLim = append(s.trailLim, len(s.trail))
}

func (s *Solver) cancelUntil(level int) {
	if s.decisionLevel() <= level {
		return
	}
	top := s.decisionLevel()
	for i := len(s.trail) - 1; i >= s.trailLim[level]; i-- {
		l := s.trail[i]
		v := l.VarID()
		wasTop := s.level[v] == top
		s.assigns[v] = Unknown
		s.reason[v] = noHandle
		s.order.Reinsert(v, Lift(l.IsPositive()), wasTop)
	}
	s.trail = s.trail[:s.trailLim[level]]
	s.trailLim = s.trailLim[:level]
	s.qhead = len(s.trail)
}

// propagate enforces every currently enqueued fact, returning noHandle on
// success or the conflicting clause's handle on failure.
func (s *Solver) propagate() ClauseHandle {
	for s.qhead < len(s.trail) {
		p := s.trail[s.qhead]
		s.qhead++
		s.propagations++

		list := s.wi.ListFor(p)
		j := 0
		for i := 0; i < len(list); i++ {
			w := list[i]
			if s.litValue(w.Blocker) == True {
				list[j] = w
				j++
				continue
			}

			c := s.cs.Deref(w.Clause)
			if c.Literals[0] == p.Opposite() {
				c.Literals[0], c.Literals[1] = c.Literals[1], c.Literals[0]
			}
			first := c.Literals[0]
			kept := Watcher{Clause: w.Clause, Blocker: first}
			if first != w.Blocker && s.litValue(first) == True {
				list[j] = kept
				j++
				continue
			}

			foundNew := false
			for k := 2; k < len(c.Literals); k++ {
				if s.litValue(c.Literals[k]) != False {
					c.Literals[1], c.Literals[k] = c.Literals[k], c.Literals[1]
					s.wi.Push(c.Literals[1].Opposite(), Watcher{Clause: w.Clause, Blocker: first})
					foundNew = true
					break
				}
			}
			if foundNew {
				continue
			}

			list[j] = kept
			j++

			if s.litValue(first) == False {
				for ii := i + 1; ii < len(list); ii++ {
					list[j] = list[ii]
					j++
				}
				s.wi.SetListFor(p, list[:j])
				s.qhead = len(s.trail)
				return w.Clause
			}

			s.uncheckedEnqueue(first, w.Clause)
			if c.Learnt && c.LBD > 3 {
				newLBD := s.computeLBD(c.Literals)
				if newLBD < c.LBD {
					c.LBD = newLBD
					if s.sharing != nil && s.opt.ExportPolicy == ExportLBD && newLBD <= uint32(s.opt.MaxLBDExchange) {
						s.sharing.ExportClause(append([]Literal(nil), c.Literals...), newLBD)
					}
				}
			}
			s.updateAgility(first)
		}
		s.wi.SetListFor(p, list[:j])
	}
	return noHandle
}

func (s *Solver) updateAgility(first Literal) {
	bit := 0.0
	if Lift(first.IsPositive()) != s.order.phases[first.VarID()] {
		bit = 1.0
	}
	s.agility = s.agility*agilityAlpha + (1-agilityAlpha)*bit
}

// computeLBD counts the distinct decision levels present in lits using the
// per-call level stamper, avoiding any per-call allocation.
func (s *Solver) computeLBD(lits []Literal) uint32 {
	s.levelStamp.Begin()
	var n uint32
	for _, l := range lits {
		lvl := s.level[l.VarID()]
		if !s.levelStamp.Mark(lvl) {
			n++
		}
	}
	return n
}

func abstractLevelOf(level int) uint32 {
	return 1 << uint(level&31)
}

// analyze walks the implication graph backward from the conflicting clause
// to the first unique implication point at the current decision level,
// minimizes the resulting clause, computes its LBD, applies the glue-bump
// trick, and selects the backjump level.
func (s *Solver) analyze(confl ClauseHandle) (learnt []Literal, btLevel int, lbd uint32) {
	s.seen.Clear()
	learnt = append(learnt, 0)

	pathC := 0
	p := noLiteral
	idx := len(s.trail) - 1

	var glueCandidates []Literal

	for {
		c := s.cs.Deref(confl)
		c.UsedOnce = true
		c.UsedSinceLastReduce = true

		start := 0
		if p != noLiteral {
			start = 1
		}
		for j := start; j < len(c.Literals); j++ {
			q := c.Literals[j]
			v := q.VarID()
			if s.seen.Contains(v) || s.level[v] == 0 {
				continue
			}
			s.seen.Add(v)
			s.order.BumpScore(v)
			if s.level[v] >= s.decisionLevel() {
				pathC++
			} else {
				learnt = append(learnt, q)
			}
		}

		for !s.seen.Contains(s.trail[idx].VarID()) {
			idx--
		}
		p = s.trail[idx]
		idx--
		pathC--
		if pathC > 0 && s.opt.RestartPolicy == RestartAvgLBD {
			if r := s.reason[p.VarID()]; r != noHandle && s.cs.Deref(r).Learnt {
				glueCandidates = append(glueCandidates, p)
			}
		}
		if pathC == 0 {
			break
		}
		confl = s.reason[p.VarID()]
	}
	learnt[0] = p.Opposite()

	var abstractLevels uint32
	for _, l := range learnt[1:] {
		abstractLevels |= abstractLevelOf(s.level[l.VarID()])
	}
	kept := learnt[:1]
	for _, l := range learnt[1:] {
		reason := s.reason[l.VarID()]
		if reason == noHandle || !s.litRedundant(l, abstractLevels) {
			kept = append(kept, l)
		}
	}
	learnt = kept

	lbd = s.computeLBD(learnt)

	if s.opt.RestartPolicy == RestartAvgLBD {
		for _, q := range glueCandidates {
			r := s.reason[q.VarID()]
			if r != noHandle && s.cs.Deref(r).LBD < lbd {
				s.order.BumpScore(q.VarID())
			}
		}
	}

	btLevel = 0
	if len(learnt) > 1 {
		maxI := 1
		for i := 2; i < len(learnt); i++ {
			if s.level[learnt[i].VarID()] > s.level[learnt[maxI].VarID()] {
				maxI = i
			}
		}
		learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
		btLevel = s.level[learnt[1].VarID()]
	}
	return learnt, btLevel, lbd
}

// litRedundant performs the iterative DFS minimization check: l is
// redundant if every literal reachable through its reason chain is either
// already seen, at level 0, or at a level whose abstraction bit is covered
// by abstractLevels.
func (s *Solver) litRedundant(l Literal, abstractLevels uint32) bool {
	stack := []Literal{l}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		reason := s.reason[cur.VarID()]
		if reason == noHandle {
			return false
		}
		c := s.cs.Deref(reason)
		for i := 1; i < len(c.Literals); i++ {
			q := c.Literals[i]
			v := q.VarID()
			if s.seen.Contains(v) || s.level[v] == 0 {
				continue
			}
			if s.reason[v] != noHandle && abstractLevelOf(s.level[v])&abstractLevels != 0 {
				s.seen.Add(v)
				stack = append(stack, q)
			} else {
				return false
			}
		}
	}
	return true
}

func (s *Solver) varDecayActivity() {
	s.order.DecayScores()
}

func (s *Solver) claDecayActivity() {
	s.claInc /= s.opt.ClauseDecay
}

func (s *Solver) claBumpActivity(h ClauseHandle) {
	c := s.cs.Deref(h)
	c.Activity += s.claInc
	if c.Activity > 1e20 {
		for _, lh := range s.learnts {
			s.cs.Deref(lh).Activity *= 1e-20
		}
		s.claInc *= 1e-20
	}
}

// simplify removes original clauses satisfied at level 0. It must only be
// called at decision level 0.
func (s *Solver) simplify() bool {
	if s.unsat {
		return false
	}
	kept := s.originals[:0]
	for _, h := range s.originals {
		c := s.cs.Deref(h)
		satisfied := false
		for _, l := range c.Literals {
			if s.litValue(l) == True {
				satisfied = true
				break
			}
		}
		if satisfied {
			if c.Attached {
				s.detachClause(h, true)
			}
			s.cs.Free(h)
			continue
		}
		kept = append(kept, h)
	}
	s.originals = kept
	s.wi.CleanAll(s.cs)
	return true
}

// Result is the outcome of a solve/search call.
type Result int

const (
	Undef Result = iota
	Satisfiable
	Unsatisfiable
)

func (r Result) String() string {
	switch r {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Solve runs the outer restart loop to completion (or until the budget or
// async-stop signal interrupts it), returning the final result. budget, if
// non-nil, is polled between segments and should return false once the
// worker must give up.
func (s *Solver) Solve(assumptions []Literal, budget func() bool) Result {
	s.assumptions = assumptions
	s.assumptionIdx = 0

	if s.unsat {
		if s.sharing != nil {
			s.sharing.SetAnswer(False)
		}
		return Unsatisfiable
	}

	for {
		res := s.search(budget)
		if res != Undef {
			return res
		}
		if s.sharing != nil && s.sharing.AsyncStop() {
			return Undef
		}
		if budget != nil && !budget() {
			return Undef
		}
		s.restart.Advance()
		s.restarts++
	}
}

// search runs one restart segment: propagate/analyze/restart-check in a
// loop until a result is reached, a restart is due, or the sharing
// endpoint reports async stop. budget is not consulted here; Solve polls it
// between segments.
func (s *Solver) search(budget func() bool) Result {
	for {
		if s.sharing != nil && s.sharing.AsyncStop() {
			return Undef
		}

		if s.decisionLevel() == 0 && s.sharing != nil {
			for _, u := range s.sharing.ImportUnits() {
				if s.litValue(u) == False {
					s.sharing.SetAnswer(False)
					return Unsatisfiable
				}
				if s.litValue(u) == Unknown {
					s.uncheckedEnqueue(u, noHandle)
				}
			}
		}

		confl := s.propagate()
		if confl != noHandle {
			s.conflicts++
			if s.decisionLevel() == 0 {
				if s.sharing != nil {
					s.sharing.SetAnswer(False)
				}
				return Unsatisfiable
			}

			trailAtConflict := len(s.trail)

			learnt, btLevel, lbd := s.analyze(confl)
			s.cancelUntil(btLevel)
			s.restart.OnConflict(lbd, len(learnt), trailAtConflict)

			if len(learnt) == 1 {
				s.uncheckedEnqueue(learnt[0], noHandle)
			} else {
				h := s.cs.Alloc(learnt, true, GenUnspecified)
				s.learnts = append(s.learnts, h)
				s.attachClause(h)
				s.claBumpActivity(h)
				s.cs.Deref(h).LBD = lbd
				s.uncheckedEnqueue(learnt[0], h)
			}

			s.varDecayActivity()
			s.claDecayActivity()
			s.controlReduce--

			if s.sharing != nil {
				if btLevel == 0 {
					s.exportPendingUnits()
				} else if len(learnt) > 1 {
					s.sharing.ExportClause(append([]Literal(nil), learnt...), lbd)
				}
				s.importClauses()
			}
			continue
		}

		if s.controlReduce < 0 {
			s.updateLastDeviation()
			s.reduceDB()
			s.nbReduce++
			s.controlReduce = s.currentLimit
			s.currentLimit += s.opt.NbConflictBeforeReduceIncrement
		}

		if s.restart.ShouldRestart() {
			s.cancelUntil(0)
			return Undef
		}

		if s.decisionLevel() == 0 {
			if !s.simplify() {
				if s.sharing != nil {
					s.sharing.SetAnswer(False)
				}
				return Unsatisfiable
			}
		}

		if s.assumptionIdx < len(s.assumptions) {
			a := s.assumptions[s.assumptionIdx]
			s.assumptionIdx++
			if s.litValue(a) == True {
				continue
			}
			if s.litValue(a) == False {
				return Unsatisfiable
			}
			s.newDecisionLevel()
			s.uncheckedEnqueue(a, noHandle)
			continue
		}

		next := s.order.NextDecision(s)
		if next < 0 {
			if s.sharing != nil {
				for _, u := range s.sharing.ImportUnits() {
					if s.litValue(u) == Unknown {
						s.uncheckedEnqueue(u, noHandle)
					}
				}
				s.sharing.SetAnswer(True)
			}
			return Satisfiable
		}
		s.decisions++
		s.newDecisionLevel()
		s.uncheckedEnqueue(next, noHandle)
	}
}

// updateLastDeviation recomputes the psm reduction threshold from the
// fraction of seen variables whose current assignment disagrees with their
// saved polarity, floored at 0.1 once the raw ratio drops under 0.01.
func (s *Solver) updateLastDeviation() {
	nSeen, nHamming := 0, 0
	for v := range s.assigns {
		if s.assigns[v] == Unknown {
			continue
		}
		nSeen++
		if s.assigns[v] != s.order.phases[v] {
			nHamming++
		}
	}
	d := 0.1
	if nSeen > 0 {
		d = float64(nHamming) / float64(nSeen)
		if d < 0.01 {
			d = 0.1
		}
	}
	s.lastDeviation = d
}

func (s *Solver) exportPendingUnits() {
	if s.tailUnitLit >= len(s.trail) {
		return
	}
	units := append([]Literal(nil), s.trail[s.tailUnitLit:]...)
	s.tailUnitLit = len(s.trail)
	s.sharing.ExportUnits(units)
}

// importClauses drains and installs every clause offered by peers, per the
// imported-clause installation state machine.
func (s *Solver) importClauses() {
	for _, ic := range s.sharing.ImportClauses() {
		s.installImportedClause(ic)
		if s.sharing.Answer() != Unknown {
			return
		}
	}
}

func (s *Solver) installImportedClause(ic ImportedClause) {
	lits := make([]Literal, 0, len(ic.Literals))
	bestLevel, bestPos := -1, -1
	nonFalse := 0
	for _, l := range ic.Literals {
		if s.litValue(l) == False && s.level[l.VarID()] == 0 {
			continue
		}
		lits = append(lits, l)
	}
	for i, l := range lits {
		if s.litValue(l) != False {
			if nonFalse < 2 {
				lits[nonFalse], lits[i] = lits[i], lits[nonFalse]
			}
			nonFalse++
		} else if lvl := s.level[l.VarID()]; lvl > bestLevel {
			bestLevel, bestPos = lvl, i
		}
	}
	wtch := nonFalse
	if wtch > 2 {
		wtch = 2
	}
	backjump := 0
	if bestLevel >= 0 {
		backjump = bestLevel
	}

	if len(lits) == 0 {
		s.sharing.SetAnswer(False)
		return
	}

	if len(lits) == 1 {
		s.cancelUntil(0)
		if s.litValue(lits[0]) == Unknown {
			s.uncheckedEnqueue(lits[0], noHandle)
			if s.propagate() != noHandle {
				s.sharing.SetAnswer(False)
			}
		}
		return
	}

	if nonFalse >= 2 && bestPos >= 0 && bestPos != 1 {
		lits[1], lits[bestPos] = lits[bestPos], lits[1]
	}

	useful := true
	if ic.LBD > 3 {
		nTmp := int(float64(len(lits))*s.lastDeviation) + 2
		cpt := 0
		for _, l := range lits {
			if s.order.phases[l.VarID()] == Lift(l.IsPositive()) {
				cpt++
			}
		}
		useful = cpt <= nTmp
	}

	if s.opt.ImportPolicy == ImportFreeze && s.opt.RejectAtImport && int(ic.LBD) >= s.opt.RejectLBD {
		return
	}

	h := s.cs.Alloc(lits, true, ic.Producer)
	c := s.cs.Deref(h)
	c.LBD = ic.LBD
	c.UsedOnce = false
	s.learnts = append(s.learnts, h)
	s.claBumpActivity(h)

	attach := false
	switch s.opt.ImportPolicy {
	case ImportNoFreeze:
		attach = true
	case ImportFreezeAll:
		c.FreezeLeft = s.opt.MaxFreeze + s.opt.ExtraImportedFreeze
	default: // freeze
		if int(ic.LBD) <= 3 || useful {
			attach = true
		} else {
			c.FreezeLeft = s.opt.MaxFreeze + s.opt.ExtraImportedFreeze
		}
	}
	if attach {
		s.attachClause(h)
	}

	if wtch == 1 {
		unique := lits[0]
		if nonFalse > 0 && s.litValue(lits[0]) == False {
			unique = lits[1]
		}
		if s.litValue(unique) == Unknown {
			s.cancelUntil(backjump)
			s.uncheckedEnqueue(unique, h)
		}
		return
	}

	if wtch == 0 {
		s.cancelUntil(backjump)
		if s.propagate() != noHandle {
			// The import itself produced an immediate conflict: analyze it
			// and install the resulting clause as our own.
			learnt, btLevel, lbd := s.analyze(h)
			s.cancelUntil(btLevel)
			if len(learnt) == 1 {
				s.uncheckedEnqueue(learnt[0], noHandle)
			} else {
				nh := s.cs.Alloc(learnt, true, GenUnspecified)
				s.learnts = append(s.learnts, nh)
				s.attachClause(nh)
				s.claBumpActivity(nh)
				s.cs.Deref(nh).LBD = lbd
				s.uncheckedEnqueue(learnt[0], nh)
			}
		}
	}
}
