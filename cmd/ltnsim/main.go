// Command ltnsim drives a single scenario run to completion: parse a
// scenario file and a room file, build the simulation, run it, and
// dump a reproducibility manifest alongside the reports it writes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/ltnsim/config"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/scenario"
)

// flags mirrors spec §6's CLI surface. -j/-r/-s/--ranges describe
// process-level fan-out per spec §5 and are accepted but not used
// here: this binary drives exactly one scenario/room pair per
// invocation, the unit that fan-out orchestration above it would
// multiply.
type flags struct {
	jobs       int
	runs       int
	sizes      string
	name       string
	totalHosts int
	ranges     string
	mode       string

	scenarioPath string
	roomPath     string
	outDir       string
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("ltnsim", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ltnsim -scenario <file> -room <file> [flags]\n\n")
		fs.PrintDefaults()
	}
	f := &flags{}

	fs.IntVar(&f.jobs, "jobs", 1, "")
	fs.IntVar(&f.jobs, "j", 1, "number of parallel worker processes available to a fan-out wrapper")
	fs.IntVar(&f.runs, "runs", 1, "")
	fs.IntVar(&f.runs, "r", 1, "number of repeated runs (different seeds) a fan-out wrapper should perform")
	fs.StringVar(&f.sizes, "sizes", "", "")
	fs.StringVar(&f.sizes, "s", "", "comma-separated message sizes a fan-out wrapper should sweep")
	fs.StringVar(&f.name, "name", "", "")
	fs.StringVar(&f.name, "n", "", "run name, overrides Scenario.name")
	fs.IntVar(&f.totalHosts, "total-hosts", 0, "")
	fs.IntVar(&f.totalHosts, "t", 0, "total host count, overrides Group1.nrofHosts")
	fs.StringVar(&f.ranges, "ranges", "", "comma-separated transmit ranges a fan-out wrapper should sweep")
	fs.StringVar(&f.mode, "mode", "", "communication mode override: INTRA or INTER")

	fs.StringVar(&f.scenarioPath, "scenario", "", "path to the scenario key/value file (required)")
	fs.StringVar(&f.roomPath, "room", "", "path to the room WKT file (required)")
	fs.StringVar(&f.outDir, "out", ".", "directory reports and the manifest are written to")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if f.scenarioPath == "" || f.roomPath == "" {
		return nil, fmt.Errorf("ltnsim: -scenario and -room are both required")
	}

	return f, nil
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	scenarioFile, err := os.Open(f.scenarioPath)
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}
	defer scenarioFile.Close()

	raw, err := config.Parse(scenarioFile)
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	cfg, err := config.BuildScenario(raw)
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	applyOverrides(cfg, f)

	roomFile, err := os.Open(f.roomPath)
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}
	defer roomFile.Close()

	rm, err := room.Parse(roomFile, func(e error) {
		fmt.Fprintf(os.Stderr, "ltnsim: warning: %v\n", e)
	})
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}
	if err := rm.WithRayOrigin(rm.DefaultRayOrigin()); err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	cfg.Report.ReportDir = f.outDir
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	sc, err := scenario.Build(cfg, rm)
	if err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	sc.Run()

	manifestPath := filepath.Join(f.outDir, cfg.Name+".manifest.yaml")
	if err := config.DumpManifest(cfg, manifestPath); err != nil {
		return fmt.Errorf("ltnsim: %w", err)
	}

	return nil
}

// applyOverrides applies the CLI's -n/-t/--mode single-run overrides
// to the scenario file's values; -j/-r/-s/--ranges are sweep
// parameters for a fan-out wrapper above this process and are not
// consulted by a single run.
func applyOverrides(cfg *config.Scenario, f *flags) {
	if f.name != "" {
		cfg.Name = f.name
	}
	if f.totalHosts > 0 {
		cfg.Group.NrofHosts = f.totalHosts
	}
	switch strings.ToUpper(f.mode) {
	case "INTRA":
		cfg.Interface.CommunicationMode = config.CommModeIntra
	case "INTER":
		cfg.Interface.CommunicationMode = config.CommModeInter
	}
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
		atexit.Exit(0)
	case errors.Is(err, flag.ErrHelp):
		atexit.Exit(0)
	default:
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
}
