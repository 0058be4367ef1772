package sat

// RestartPolicy selects one of the four mutually exclusive restart
// controllers described in the component design.
type RestartPolicy int

const (
	RestartAvgLBD RestartPolicy = iota
	RestartLuby
	RestartPicosat
	RestartWidthBased
)

// ExportPolicy governs which learnt clauses a worker offers to its peers.
type ExportPolicy int

const (
	ExportLBD ExportPolicy = iota
	ExportUnlimited
	ExportLegacy
)

// ImportPolicy governs how a consumer installs a clause offered by a peer.
type ImportPolicy int

const (
	ImportFreeze ImportPolicy = iota
	ImportNoFreeze
	ImportFreezeAll
)

// InitPhasePolicy selects the initial saved polarity for every variable.
type InitPhasePolicy int

const (
	InitPhaseFalse InitPhasePolicy = iota
	InitPhaseTrue
	InitPhaseRandom
)

// Options bundles every tunable named in the external configuration
// surface. A Worker is fully parameterized by one Options value plus its
// worker id and base random seed.
type Options struct {
	UsePsm bool

	MaxFreeze            int
	ExtraImportedFreeze  int
	InitialNbConflictBeforeReduce int
	NbConflictBeforeReduceIncrement int

	MaxLBDExchange int
	MaxLBD         int

	LubyFactor int
	RestartInc float64

	RestartPolicy RestartPolicy

	PicoBase        float64
	PicoBaseFactor  float64
	PicoLimit       float64
	PicoLimitFactor float64

	ExportPolicy ExportPolicy
	ImportPolicy ImportPolicy

	RejectAtImport bool
	RejectLBD      int

	LexicographicalFirstPropagation bool
	InitPhasePolicy                 InitPhasePolicy

	RestartFactor            float64
	HistoricLength           int
	TrailAvgSize             int
	NbConfBeforeRestartDelay int
	TrailAvgFactor           float64

	WidthRestartR int
	WidthRestartW int
	WidthRestartC int

	VarDecay   float64
	ClauseDecay float64
	PhaseSaving int // 0: off, 1: most-recent-level only, 2: always
	RndPol      bool
	RandomVarFreq float64

	GarbageFrac float64
}

// DefaultOptions returns the built-in defaults applied when a configuration
// key is absent from both a solver's section and [default].
func DefaultOptions() Options {
	return Options{
		UsePsm: true,

		MaxFreeze:                       20,
		ExtraImportedFreeze:             5,
		InitialNbConflictBeforeReduce:   2000,
		NbConflictBeforeReduceIncrement: 300,

		MaxLBDExchange: 8,
		MaxLBD:         12,

		LubyFactor: 100,
		RestartInc: 2,

		RestartPolicy: RestartAvgLBD,

		PicoBase:        100,
		PicoBaseFactor:  1.1,
		PicoLimit:       1000,
		PicoLimitFactor: 1.1,

		ExportPolicy: ExportLBD,
		ImportPolicy: ImportFreeze,

		RejectAtImport: false,
		RejectLBD:      30,

		LexicographicalFirstPropagation: false,
		InitPhasePolicy:                 InitPhaseFalse,

		RestartFactor:            0.8,
		HistoricLength:           50,
		TrailAvgSize:             5000,
		NbConfBeforeRestartDelay: 10000,
		TrailAvgFactor:           1.4,

		WidthRestartR: 8,
		WidthRestartW: 30,
		WidthRestartC: 8,

		VarDecay:      0.95,
		ClauseDecay:   0.999,
		PhaseSaving:   2,
		RndPol:        false,
		RandomVarFreq: 0.0,

		GarbageFrac: 0.2,
	}
}
