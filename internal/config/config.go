// Package config loads the INI-formatted solver configuration: a
// [global] section controlling the portfolio as a whole, an optional
// [default] section applied to every worker, and per-worker [solverN]
// sections that override [default] for one worker only.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/tveten/parsat/internal/sat"
	"github.com/tveten/parsat/internal/share"
)

// Global holds the portfolio-wide settings that don't belong to any single
// worker's Options.
type Global struct {
	NCores        int
	Deterministic bool
	BarrierMode   share.BarrierMode
	Control       share.ControlMode

	UnitRingCapacity   int
	ClauseRingCapacity int
}

func defaultGlobal() Global {
	return Global{
		NCores:             1,
		Deterministic:      false,
		BarrierMode:        share.BarrierStatic,
		Control:            share.ControlAIMD,
		UnitRingCapacity:   256,
		ClauseRingCapacity: 512,
	}
}

// Load reads path and returns one sat.Options per worker (length nWorkers)
// plus the resolved Global settings. A nil *ini.File (path == "") returns
// nWorkers copies of sat.DefaultOptions() and the built-in Global defaults.
func Load(path string, nWorkers int) ([]sat.Options, Global, error) {
	global := defaultGlobal()
	global.NCores = nWorkers

	opts := make([]sat.Options, nWorkers)
	for i := range opts {
		opts[i] = sat.DefaultOptions()
	}

	if path == "" {
		return opts, global, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, Global{}, fmt.Errorf("config: loading %q: %w", path, err)
	}

	if gs := f.Section("global"); gs != nil {
		applyGlobal(gs, &global)
	}

	var defaultSec *ini.Section
	if f.HasSection("default") {
		defaultSec = f.Section("default")
	}

	for i := range opts {
		secName := fmt.Sprintf("solver%d", i)
		var workerSec *ini.Section
		if f.HasSection(secName) {
			workerSec = f.Section(secName)
		}
		applyOptions(&opts[i], defaultSec, workerSec)
	}

	return opts, global, nil
}

func applyGlobal(s *ini.Section, g *Global) {
	if s.HasKey("deterministic") {
		g.Deterministic = s.Key("deterministic").MustBool(g.Deterministic)
	}
	if s.HasKey("barrier_mode") {
		if s.Key("barrier_mode").MustString("static") == "dynamic" {
			g.BarrierMode = share.BarrierDynamic
		} else {
			g.BarrierMode = share.BarrierStatic
		}
	}
	if s.HasKey("control_mode") {
		switch s.Key("control_mode").MustString("aimd") {
		case "off":
			g.Control = share.ControlOff
		case "incremental":
			g.Control = share.ControlIncremental
		default:
			g.Control = share.ControlAIMD
		}
	}
	if s.HasKey("unit_ring_capacity") {
		g.UnitRingCapacity = s.Key("unit_ring_capacity").MustInt(g.UnitRingCapacity)
	}
	if s.HasKey("clause_ring_capacity") {
		g.ClauseRingCapacity = s.Key("clause_ring_capacity").MustInt(g.ClauseRingCapacity)
	}
}

// lookup returns the key from workerSec if present, else from defaultSec,
// else reports ok=false so the caller keeps the built-in default.
func lookup(defaultSec, workerSec *ini.Section, key string) (*ini.Key, bool) {
	if workerSec != nil && workerSec.HasKey(key) {
		return workerSec.Key(key), true
	}
	if defaultSec != nil && defaultSec.HasKey(key) {
		return defaultSec.Key(key), true
	}
	return nil, false
}

func applyOptions(o *sat.Options, defaultSec, workerSec *ini.Section) {
	if k, ok := lookup(defaultSec, workerSec, "use_psm"); ok {
		o.UsePsm = k.MustBool(o.UsePsm)
	}
	if k, ok := lookup(defaultSec, workerSec, "max_freeze"); ok {
		o.MaxFreeze = k.MustInt(o.MaxFreeze)
	}
	if k, ok := lookup(defaultSec, workerSec, "extra_imported_freeze"); ok {
		o.ExtraImportedFreeze = k.MustInt(o.ExtraImportedFreeze)
	}
	if k, ok := lookup(defaultSec, workerSec, "initial_nb_conflict_before_reduce"); ok {
		o.InitialNbConflictBeforeReduce = k.MustInt(o.InitialNbConflictBeforeReduce)
	}
	if k, ok := lookup(defaultSec, workerSec, "nb_conflict_before_reduce_increment"); ok {
		o.NbConflictBeforeReduceIncrement = k.MustInt(o.NbConflictBeforeReduceIncrement)
	}
	if k, ok := lookup(defaultSec, workerSec, "max_lbd_exchange"); ok {
		o.MaxLBDExchange = k.MustInt(o.MaxLBDExchange)
	}
	if k, ok := lookup(defaultSec, workerSec, "max_lbd"); ok {
		o.MaxLBD = k.MustInt(o.MaxLBD)
	}
	if k, ok := lookup(defaultSec, workerSec, "luby_factor"); ok {
		o.LubyFactor = k.MustInt(o.LubyFactor)
	}
	if k, ok := lookup(defaultSec, workerSec, "restart_inc"); ok {
		o.RestartInc = k.MustFloat64(o.RestartInc)
	}
	if k, ok := lookup(defaultSec, workerSec, "restart_policy"); ok {
		o.RestartPolicy = parseRestartPolicy(k.MustString(""), o.RestartPolicy)
	}
	if k, ok := lookup(defaultSec, workerSec, "pico_base"); ok {
		o.PicoBase = k.MustFloat64(o.PicoBase)
	}
	if k, ok := lookup(defaultSec, workerSec, "pico_base_factor"); ok {
		o.PicoBaseFactor = k.MustFloat64(o.PicoBaseFactor)
	}
	if k, ok := lookup(defaultSec, workerSec, "pico_limit"); ok {
		o.PicoLimit = k.MustFloat64(o.PicoLimit)
	}
	if k, ok := lookup(defaultSec, workerSec, "pico_limit_factor"); ok {
		o.PicoLimitFactor = k.MustFloat64(o.PicoLimitFactor)
	}
	if k, ok := lookup(defaultSec, workerSec, "export_policy"); ok {
		o.ExportPolicy = parseExportPolicy(k.MustString(""), o.ExportPolicy)
	}
	if k, ok := lookup(defaultSec, workerSec, "import_policy"); ok {
		o.ImportPolicy = parseImportPolicy(k.MustString(""), o.ImportPolicy)
	}
	if k, ok := lookup(defaultSec, workerSec, "reject_at_import"); ok {
		o.RejectAtImport = k.MustBool(o.RejectAtImport)
	}
	if k, ok := lookup(defaultSec, workerSec, "reject_lbd"); ok {
		o.RejectLBD = k.MustInt(o.RejectLBD)
	}
	if k, ok := lookup(defaultSec, workerSec, "lexicographical_first_propagation"); ok {
		o.LexicographicalFirstPropagation = k.MustBool(o.LexicographicalFirstPropagation)
	}
	if k, ok := lookup(defaultSec, workerSec, "init_phase_policy"); ok {
		o.InitPhasePolicy = parseInitPhasePolicy(k.MustString(""), o.InitPhasePolicy)
	}
	if k, ok := lookup(defaultSec, workerSec, "restart_factor"); ok {
		o.RestartFactor = k.MustFloat64(o.RestartFactor)
	}
	if k, ok := lookup(defaultSec, workerSec, "historic_length"); ok {
		o.HistoricLength = k.MustInt(o.HistoricLength)
	}
	if k, ok := lookup(defaultSec, workerSec, "trail_avg_size"); ok {
		o.TrailAvgSize = k.MustInt(o.TrailAvgSize)
	}
	if k, ok := lookup(defaultSec, workerSec, "nb_conf_before_restart_delay"); ok {
		o.NbConfBeforeRestartDelay = k.MustInt(o.NbConfBeforeRestartDelay)
	}
	if k, ok := lookup(defaultSec, workerSec, "trail_avg_factor"); ok {
		o.TrailAvgFactor = k.MustFloat64(o.TrailAvgFactor)
	}
	if k, ok := lookup(defaultSec, workerSec, "width_restart_r"); ok {
		o.WidthRestartR = k.MustInt(o.WidthRestartR)
	}
	if k, ok := lookup(defaultSec, workerSec, "width_restart_w"); ok {
		o.WidthRestartW = k.MustInt(o.WidthRestartW)
	}
	if k, ok := lookup(defaultSec, workerSec, "width_restart_c"); ok {
		o.WidthRestartC = k.MustInt(o.WidthRestartC)
	}
	if k, ok := lookup(defaultSec, workerSec, "var_decay"); ok {
		o.VarDecay = k.MustFloat64(o.VarDecay)
	}
	if k, ok := lookup(defaultSec, workerSec, "clause_decay"); ok {
		o.ClauseDecay = k.MustFloat64(o.ClauseDecay)
	}
	if k, ok := lookup(defaultSec, workerSec, "phase_saving"); ok {
		o.PhaseSaving = k.MustInt(o.PhaseSaving)
	}
	if k, ok := lookup(defaultSec, workerSec, "rnd_pol"); ok {
		o.RndPol = k.MustBool(o.RndPol)
	}
	if k, ok := lookup(defaultSec, workerSec, "random_var_freq"); ok {
		o.RandomVarFreq = k.MustFloat64(o.RandomVarFreq)
	}
	if k, ok := lookup(defaultSec, workerSec, "garbage_frac"); ok {
		o.GarbageFrac = k.MustFloat64(o.GarbageFrac)
	}
}

func parseRestartPolicy(s string, fallback sat.RestartPolicy) sat.RestartPolicy {
	switch s {
	case "luby":
		return sat.RestartLuby
	case "picosat":
		return sat.RestartPicosat
	case "width":
		return sat.RestartWidthBased
	case "avg_lbd":
		return sat.RestartAvgLBD
	default:
		return fallback
	}
}

func parseExportPolicy(s string, fallback sat.ExportPolicy) sat.ExportPolicy {
	switch s {
	case "lbd":
		return sat.ExportLBD
	case "unlimited":
		return sat.ExportUnlimited
	case "legacy":
		return sat.ExportLegacy
	default:
		return fallback
	}
}

func parseImportPolicy(s string, fallback sat.ImportPolicy) sat.ImportPolicy {
	switch s {
	case "freeze":
		return sat.ImportFreeze
	case "no_freeze":
		return sat.ImportNoFreeze
	case "freeze_all":
		return sat.ImportFreezeAll
	default:
		return fallback
	}
}

func parseInitPhasePolicy(s string, fallback sat.InitPhasePolicy) sat.InitPhasePolicy {
	switch s {
	case "false":
		return sat.InitPhaseFalse
	case "true":
		return sat.InitPhaseTrue
	case "random":
		return sat.InitPhaseRandom
	default:
		return fallback
	}
}

var knownKeys = map[string]bool{
	"use_psm": true, "max_freeze": true, "extra_imported_freeze": true,
	"initial_nb_conflict_before_reduce": true, "nb_conflict_before_reduce_increment": true,
	"max_lbd_exchange": true, "max_lbd": true, "luby_factor": true, "restart_inc": true,
	"restart_policy": true, "pico_base": true, "pico_base_factor": true, "pico_limit": true,
	"pico_limit_factor": true, "export_policy": true, "import_policy": true,
	"reject_at_import": true, "reject_lbd": true, "lexicographical_first_propagation": true,
	"init_phase_policy": true, "restart_factor": true, "historic_length": true,
	"trail_avg_size": true, "nb_conf_before_restart_delay": true, "trail_avg_factor": true,
	"width_restart_r": true, "width_restart_w": true, "width_restart_c": true,
	"var_decay": true, "clause_decay": true, "phase_saving": true, "rnd_pol": true,
	"random_var_freq": true, "garbage_frac": true,
}

var knownGlobalKeys = map[string]bool{
	"deterministic": true, "barrier_mode": true, "control_mode": true,
	"unit_ring_capacity": true, "clause_ring_capacity": true,
}

// UnknownKeys scans path for keys this loader doesn't recognize, so callers
// can warn about likely typos without treating them as fatal (a worker
// section with an extra, misspelled key should still start with every
// other setting applied).
func UnknownKeys(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading %q: %w", path, err)
	}

	var unknown []string
	for _, sec := range f.Sections() {
		name := sec.Name()
		known := knownKeys
		if name == "global" {
			known = knownGlobalKeys
		}
		if name == ini.DefaultSection {
			continue
		}
		for _, k := range sec.Keys() {
			if !known[k.Name()] {
				unknown = append(unknown, name+"."+k.Name())
			}
		}
	}
	return unknown, nil
}
