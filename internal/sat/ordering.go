package sat

import (
	"github.com/rhartert/yagh"
)

// lcg is a deterministic linear congruential generator, used instead of
// math/rand so that two workers seeded with the same (baseSeed, workerID)
// pair make identical random decisions regardless of host, run order, or Go
// version — required for deterministic-mode reproducibility.
type lcg struct {
	state uint64
}

// newLCG seeds a generator from a base seed combined with a worker id, per
// the decision heuristic's random-bias source.
func newLCG(baseSeed uint64, workerID int) *lcg {
	s := baseSeed ^ (uint64(workerID)*0x9E3779B97F4A7C15 + 1)
	if s == 0 {
		s = 0xA5A5A5A5A5A5A5A5
	}
	return &lcg{state: s}
}

// numericrecipes constants, chosen for a full-period 64-bit LCG.
const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

func (g *lcg) next() uint64 {
	g.state = g.state*lcgMul + lcgInc
	return g.state
}

// Float64 returns a pseudo-random value in [0, 1).
func (g *lcg) Float64() float64 {
	return float64(g.next()>>11) / (1 << 53)
}

// Intn returns a pseudo-random value in [0, n).
func (g *lcg) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.next() % uint64(n))
}

// VarOrder maintains the order of variable to be assigned by the solver.
type VarOrder struct {
	// Binary heap to access the next variable with the highest score. The heap
	// breaks ties using the index of its elements which will correspond to the
	// order in which variables are declared with AddVar.
	order *yagh.IntMap[float64]

	scores     []float64 // in [0, 1e100)
	scoreInc   float64   // in (0, 1e100)
	scoreDecay float64   // in (0, 1]

	phases      []LBool
	phaseSaving int // 0 off, 1 most-recent-level only, 2 always

	rnd           *lcg
	randVarFreq   float64
	rndPol        bool
	lexicographic bool
	firstDecision bool
	lexNext       int
}

// NewVarOrder returns a new initialized VarOrder. rnd, when non-nil,
// supplies the deterministic random-bias source described by the decision
// heuristic (nil disables random bias entirely, e.g. for single-threaded
// tests that want a fixed decision trace).
func NewVarOrder(decay float64, phaseSaving int, rnd *lcg, randVarFreq float64, rndPol, lexicographic bool) *VarOrder {
	return &VarOrder{
		order:         yagh.New[float64](0),
		scoreInc:      1,
		scoreDecay:    decay,
		phases:        make([]LBool, 0),
		phaseSaving:   phaseSaving,
		rnd:           rnd,
		randVarFreq:   randVarFreq,
		rndPol:        rndPol,
		lexicographic: lexicographic,
		firstDecision: true,
	}
}

// AddVar adds a new variable with the given inital score and phase.
func (vo *VarOrder) AddVar(initScore float64, initPhase bool) {
	varID := len(vo.phases)

	vo.scores = append(vo.scores, initScore)
	vo.phases = append(vo.phases, Lift(initPhase))

	vo.order.GrowBy(1)
	vo.order.Put(varID, -initScore)
}

// Reinsert adds variable v back to the set of candidates to be selected. This
// function must be called by the solver when v is being unassigned (e.g. when
// a backtrack occurs) where val is the value the variable was assigned to.
// wasTopLevel indicates v was assigned at the highest level being cancelled,
// which matters only for phaseSaving=1 (save only the most-recently-started
// level's polarities, letting earlier ones revert to their prior save).
func (vo *VarOrder) Reinsert(v int, val LBool, wasTopLevel bool) {
	switch vo.phaseSaving {
	case 2:
		vo.phases[v] = val
	case 1:
		if wasTopLevel {
			vo.phases[v] = val
		}
	}
	act := vo.scores[v]
	vo.order.Put(v, -act)
	if vo.lexicographic && v < vo.lexNext {
		vo.lexNext = v
	}
}

// DecayScores slightly decreases the scores of the variables. This is used
// to give more importance to variables that have had their scores increased
// recently compared to variables that had their scores increased in the past.
func (vo *VarOrder) DecayScores() {
	vo.scoreInc /= vo.scoreDecay // decay activities by bumping increment
	if vo.scoreInc > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// BumpScore increases the score of the given variable. Note that this operation
// might trigger a rescaling of all variables scores if the score of v exceeds
// a given threshold. The rescaling is done in way that conserves the relative
// importance of each variable when compared to each other.
func (vo *VarOrder) BumpScore(v int) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(v) {
		vo.order.Put(v, -newScore)
	}
	if vo.scores[v] > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// NextDecision returns the next unnassigned literal to be assigned to true.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	if vo.lexicographic {
		for vo.lexNext < len(vo.phases) && s.VarValue(vo.lexNext) != Unknown {
			vo.lexNext++
		}
		if vo.lexNext < len(vo.phases) {
			return PositiveLiteral(vo.lexNext)
		}
	}

	if vo.rnd != nil && (vo.firstDecision || vo.rnd.Float64() < vo.randVarFreq) {
		vo.firstDecision = false
		if v, ok := vo.randomUnassigned(s); ok {
			return vo.literalFor(v)
		}
	}
	vo.firstDecision = false

	for {
		next, ok := vo.order.Pop()
		if !ok {
			return noLiteral // every variable assigned
		}
		if s.VarValue(next.Elem) != Unknown {
			continue // already assigned
		}
		return vo.literalFor(next.Elem)
	}
}

// randomUnassigned picks a uniformly random unassigned variable, bounded by
// a handful of probes before giving up and falling back to the heap.
func (vo *VarOrder) randomUnassigned(s *Solver) (int, bool) {
	n := len(vo.phases)
	if n == 0 {
		return 0, false
	}
	for i := 0; i < 8; i++ {
		v := vo.rnd.Intn(n)
		if s.VarValue(v) == Unknown {
			return v, true
		}
	}
	return 0, false
}

func (vo *VarOrder) literalFor(v int) Literal {
	phase := vo.phases[v]
	if vo.rndPol {
		if vo.rnd != nil && vo.rnd.Float64() < 0.5 {
			phase = False
		} else {
			phase = True
		}
	}
	switch phase {
	case True:
		return PositiveLiteral(v)
	case False:
		return NegativeLiteral(v)
	default:
		return PositiveLiteral(v)
	}
}

func (vo *VarOrder) rescaleScoresAndIncrement() {
	vo.scoreInc *= 1e-100 // important to keep proportions
	for v, s := range vo.scores {
		newScore := s * 1e-100
		vo.scores[v] = newScore
		if vo.order.Contains(v) {
			vo.order.Put(v, -newScore)
		}
	}
}
