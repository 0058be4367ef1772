// Command parsat solves a DIMACS CNF instance with a portfolio of
// independent CDCL workers that share learnt clauses as they search.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tveten/parsat/internal/config"
	"github.com/tveten/parsat/internal/dimacs"
	"github.com/tveten/parsat/internal/portfolio"
	"github.com/tveten/parsat/internal/sat"
	"github.com/tveten/parsat/internal/stats"
)

const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
	exitIndeterminate = 0
)

var (
	flagWorkers    = pflag.StringP("workers", "w", "1", `number of portfolio workers, or "max" for runtime.NumCPU()`)
	flagVerbosity  = pflag.CountP("verbose", "v", "increase verbosity (repeatable)")
	flagTimeLimit  = pflag.Duration("time-limit", 0, "abort and report indeterminate after this duration (0 disables)")
	flagConfigPath = pflag.String("config", "", "path to an INI worker configuration file")
	flagStatsPath  = pflag.String("stats", "", "write a JSON statistics report to this path")
	flagSeed       = pflag.Uint64("seed", 1, "base seed for the deterministic per-worker random sources")
	flagCleanExit  = pflag.Bool("clean-exit", false, "always exit 0, regardless of the result")
	flagGzip       = pflag.Bool("gzip", false, "treat the input file as gzip-compressed")
	flagOutput     = pflag.StringP("output", "o", "", "write the plain SAT/UNSAT/c INDET result file to this path")
	flagForcePrint = pflag.Bool("force-print", false, "also print the competition-style s/v result to stdout when -o is given")
	flagCPUProfile = pflag.String("cpuprofile", "", "write a pprof CPU profile to this path")
	flagMemProfile = pflag.String("memprofile", "", "write a pprof heap profile to this path")
)

func resolveWorkers(s string) (int, error) {
	if s == "max" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid -workers value %q", s)
	}
	return n, nil
}

func newLogger(verbosity int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func run() (sat.Result, error) {
	pflag.Parse()
	log := newLogger(*flagVerbosity)

	if pflag.NArg() == 0 {
		return sat.Undef, fmt.Errorf("missing instance file")
	}
	instanceFile := pflag.Arg(0)

	nWorkers, err := resolveWorkers(*flagWorkers)
	if err != nil {
		return sat.Undef, err
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			return sat.Undef, fmt.Errorf("creating cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return sat.Undef, fmt.Errorf("starting cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	opts, global, err := config.Load(*flagConfigPath, nWorkers)
	if err != nil {
		return sat.Undef, err
	}
	if unknown, err := config.UnknownKeys(*flagConfigPath); err == nil {
		for _, k := range unknown {
			log.Warn().Str("key", k).Msg("unrecognized configuration key")
		}
	}

	instance, err := dimacs.ReadFile(instanceFile, *flagGzip)
	if err != nil {
		return sat.Undef, err
	}
	log.Info().Int("variables", instance.NVars).Int("clauses", len(instance.Clauses)).
		Int("workers", nWorkers).Msg("instance loaded")

	coord := portfolio.New(instance, opts, global, *flagSeed)

	var deadline time.Time
	if *flagTimeLimit > 0 {
		deadline = time.Now().Add(*flagTimeLimit)
	}

	start := time.Now()
	result := coord.Run(context.Background(), deadline)
	elapsed := time.Since(start)

	log.Info().Str("result", result.String()).Dur("elapsed", elapsed).Msg("solve finished")

	if *flagOutput != "" {
		f, err := os.Create(*flagOutput)
		if err != nil {
			return result, fmt.Errorf("creating output file: %w", err)
		}
		if err := dimacs.WriteResultFile(f, result, coord.Model()); err != nil {
			f.Close()
			return result, fmt.Errorf("writing result file: %w", err)
		}
		f.Close()
	}
	if *flagOutput == "" || *flagForcePrint {
		if err := dimacs.WriteResult(os.Stdout, result, coord.Model()); err != nil {
			return result, fmt.Errorf("writing result: %w", err)
		}
	}

	if *flagVerbosity >= 1 {
		stats.WriteText(os.Stderr, coord.Report())
	}
	if *flagStatsPath != "" {
		f, err := os.Create(*flagStatsPath)
		if err != nil {
			return result, fmt.Errorf("creating stats file: %w", err)
		}
		defer f.Close()
		if err := stats.WriteJSON(f, coord.Report()); err != nil {
			return result, fmt.Errorf("writing stats: %w", err)
		}
	}

	if *flagMemProfile != "" {
		f, err := os.Create(*flagMemProfile)
		if err != nil {
			return result, fmt.Errorf("creating mem profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return result, fmt.Errorf("writing mem profile: %w", err)
		}
	}

	return result, nil
}

func exitCode(result sat.Result) int {
	switch result {
	case sat.Satisfiable:
		return exitSatisfiable
	case sat.Unsatisfiable:
		return exitUnsatisfiable
	default:
		return exitIndeterminate
	}
}

func main() {
	result, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "c error:", err)
		if *flagCleanExit {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if *flagCleanExit {
		os.Exit(0)
	}
	os.Exit(exitCode(result))
}
