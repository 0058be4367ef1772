package sat

import "sort"

// reduceStats accumulates the bookkeeping the error-handling design calls
// out under "final statistics": imports deleted without use, and clauses
// that were never attached at all. Imports actually used are not counted.
type reduceStats struct {
	importsDeletedWithoutUse uint64
	neverAttached            uint64
}

// reduceDB runs one reduction pass over s.learnts, using mode A (psm /
// usefulness) when Options.UsePsm is set, else mode B (activity sort).
func (s *Solver) reduceDB() {
	if s.opt.UsePsm {
		s.reduceDBPsm()
	} else {
		s.reduceDBActivitySort()
	}
	s.checkGarbage()
}

// reduceDBPsm implements mode A exactly as described in the reduction
// engine's scan-then-sweep algorithm: a first pass computes each clause's
// "useful" bit (and, for detached clauses, repositions the watched pair and
// tracks the deepest latent-conflict level), then a second pass frees,
// freezes, or re-attaches clauses based on that bit plus the freeze budget.
func (s *Solver) reduceDBPsm() {
	backJumpInRed := s.decisionLevel()
	foundLatent := false

	for _, h := range s.learnts {
		c := s.cs.Deref(h)
		if len(c.Literals) <= 2 || s.locked(h) || c.UsedSinceLastReduce {
			continue
		}
		if c.LBD <= 3 || int(c.LBD) > s.opt.MaxLBD {
			continue
		}

		nTmp := int(float64(len(c.Literals))*s.lastDeviation) + 2
		cpt := 0
		for _, l := range c.Literals {
			if s.order.phases[l.VarID()] == Lift(l.IsPositive()) {
				cpt++
			}
		}
		c.Useful = cpt <= nTmp

		if !c.Attached {
			nonFalse := 0
			bestLevel := -1
			bestPos := -1
			for i, l := range c.Literals {
				if s.litValue(l) != False {
					if nonFalse < 2 {
						c.Literals[0+nonFalse], c.Literals[i] = c.Literals[i], c.Literals[0+nonFalse]
					}
					nonFalse++
				} else if lvl := s.level[l.VarID()]; lvl > bestLevel {
					bestLevel = lvl
					bestPos = i
				}
			}
			if nonFalse >= 2 && bestPos >= 0 && bestPos != 1 && bestPos >= nonFalse {
				c.Literals[1], c.Literals[bestPos] = c.Literals[bestPos], c.Literals[1]
			}
			if nonFalse < 2 {
				foundLatent = true
				if bestLevel >= 0 && bestLevel < backJumpInRed {
					backJumpInRed = bestLevel
				}
			}
		}
	}

	if foundLatent {
		target := backJumpInRed - 1
		if target < 0 {
			target = 0
		}
		s.cancelUntil(target)
	}

	kept := s.learnts[:0]
	for _, h := range s.learnts {
		c := s.cs.Deref(h)

		if len(c.Literals) <= 2 || s.locked(h) {
			c.UsedSinceLastReduce = false
			kept = append(kept, h)
			continue
		}

		if !c.UsedSinceLastReduce {
			c.FreezeLeft--
		} else {
			c.FreezeLeft = s.opt.MaxFreeze
		}
		usedUp := c.FreezeLeft <= 0

		if !c.Useful || usedUp {
			if c.Attached {
				s.detachClause(h, true)
			}
			if usedUp || int(c.LBD) > s.opt.MaxLBD {
				if c.Generator >= 0 && !c.UsedOnce {
					s.stats.importsDeletedWithoutUse++
				}
				if c.NbAttached == 0 {
					s.stats.neverAttached++
				}
				c.Mark = true
				s.cs.Free(h)
				c.UsedSinceLastReduce = false
				continue
			}
		} else if !c.Attached {
			c.FreezeLeft = s.opt.MaxFreeze
			s.attachClause(h)
		}

		c.UsedSinceLastReduce = false
		kept = append(kept, h)
	}
	s.learnts = kept
	s.wi.CleanAll(s.cs)
}

// reduceDBActivitySort implements mode B: sort by (size==2 first, else
// increasing activity) and drop the first half plus any further clause
// whose activity falls under the current bump increment scaled by the
// learnt count, excluding size<=2 or locked clauses.
func (s *Solver) reduceDBActivitySort() {
	sort.Slice(s.learnts, func(i, j int) bool {
		ci, cj := s.cs.Deref(s.learnts[i]), s.cs.Deref(s.learnts[j])
		si, sj := len(ci.Literals) == 2, len(cj.Literals) == 2
		if si != sj {
			return si
		}
		return ci.Activity < cj.Activity
	})

	n := len(s.learnts)
	threshold := s.claInc / float64(maxInt(n, 1))

	kept := make([]ClauseHandle, 0, n)
	for i, h := range s.learnts {
		c := s.cs.Deref(h)
		if len(c.Literals) <= 2 || s.locked(h) {
			kept = append(kept, h)
			continue
		}
		removable := i < n/2 || c.Activity < threshold
		if removable {
			if c.Attached {
				s.detachClause(h, true)
			}
			if c.Generator >= 0 && !c.UsedOnce {
				s.stats.importsDeletedWithoutUse++
			}
			c.Mark = true
			s.cs.Free(h)
			continue
		}
		kept = append(kept, h)
	}
	s.learnts = kept
	s.wi.CleanAll(s.cs)
}

// checkGarbage triggers a full relocation pass once wasted space crosses the
// configured fraction of total store size.
func (s *Solver) checkGarbage() {
	if s.cs.Size() == 0 {
		return
	}
	if float64(s.cs.Wasted())/float64(s.cs.Size()) > s.opt.GarbageFrac {
		s.garbageCollect()
	}
}

// garbageCollect relocates every live clause (original, learnt, and any
// still referenced as a trail reason) into a fresh store and swaps it in.
func (s *Solver) garbageCollect() {
	target := NewClauseStore()

	relocateList := func(handles []ClauseHandle) []ClauseHandle {
		out := make([]ClauseHandle, len(handles))
		for i, h := range handles {
			out[i] = s.cs.Relocate(h, target)
		}
		return out
	}

	s.originals = relocateList(s.originals)
	s.learnts = relocateList(s.learnts)

	for l := Literal(0); int(l) < len(s.wi.lists); l++ {
		list := s.wi.ListFor(l)
		for i := range list {
			list[i].Clause = s.cs.Relocate(list[i].Clause, target)
		}
	}

	for v := range s.reason {
		if s.reason[v] != noHandle {
			s.reason[v] = s.cs.Relocate(s.reason[v], target)
		}
	}

	s.cs.MoveAll(target)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
