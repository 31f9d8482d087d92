// Package scenario wires config, room, placement, world, schedule,
// gen, report and rng into one runnable value per spec §9's design
// note: "encapsulate in a Scenario value constructed per run; reset is
// implicit via reconstruction" — there is no process-global state, so
// two Scenarios built from the same inputs never interfere.
package scenario

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/sarchlab/ltnsim/config"
	"github.com/sarchlab/ltnsim/gen"
	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/placement"
	"github.com/sarchlab/ltnsim/report"
	"github.com/sarchlab/ltnsim/rng"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/schedule"
	"github.com/sarchlab/ltnsim/world"
)

// Scenario is a fully built, ready-to-run simulation: a populated
// World and a Scheduler configured to drive it to completion.
type Scenario struct {
	Config    *config.Scenario
	World     *world.World
	Scheduler *schedule.Scheduler

	closers []io.Closer
}

// Build resolves cfg against a parsed room (and, for
// RandomStationaryCluster scenarios, a cluster grid derived from it),
// places and connects every host, and returns a Scenario ready for
// Run.
func Build(cfg *config.Scenario, rm *room.Room) (*Scenario, error) {
	rngSvc := rng.NewService(cfg.RNGSeed)

	var clusters *room.ClusterMap
	if cfg.Group.MovementModel == config.MovementRandomStationaryCluster {
		var err error
		clusters, err = room.BuildClusters(rm, cfg.Group.ClusterSide, cfg.Group.NrofClusters)
		if err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
	}

	w := world.New(rm, clusters, rngSvc)
	placeHosts(w, cfg, rm, clusters, rngSvc.Stream("movement"))

	generator, err := buildGenerator(w, cfg, rngSvc)
	if err != nil {
		return nil, err
	}

	s := schedule.New(w, cfg.UpdateInterval, cfg.EndTime, generator)

	sc := &Scenario{Config: cfg, World: w, Scheduler: s}
	if err := sc.attachReports(cfg); err != nil {
		return nil, err
	}

	return sc, nil
}

// placeHosts assigns every host an address, a placement-model
// location and (when clustered) a cluster id, assigning consecutive
// blocks of Group1.hostsPerCluster addresses to each cluster in turn
// so each cluster ends up with exactly that many members.
func placeHosts(w *world.World, cfg *config.Scenario, rm *room.Room, clusters *room.ClusterMap, placementStream *rand.Rand) {
	ifcMode := world.ModeInter
	if cfg.Interface.CommunicationMode == config.CommModeIntra {
		ifcMode = world.ModeIntra
	}

	for i := 0; i < cfg.Group.NrofHosts; i++ {
		addr := message.HostAddress(i)

		clusterID := -1
		var loc geometry.Coordinate

		if clusters != nil {
			clusterID = i / cfg.Group.HostsPerCluster
			cell, err := clusters.Get(clusterID)
			if err != nil {
				panic(fmt.Sprintf("scenario: %v", err))
			}
			loc = placement.InCluster(rm, cell, placementStream)
		} else {
			loc = placement.InRoom(rm, placementStream)
		}

		ifc := world.NewInterface(addr, cfg.Interface.TransmitRange, cfg.Interface.MaximumParallelConnections, cfg.Interface.ChurnRate, ifcMode)
		router := buildRouter(cfg)

		h := world.NewHost(addr, loc, clusterID, ifc, router, cfg.Group.BufferCapacity)
		w.AddHost(h)
	}
}

func buildRouter(cfg *config.Scenario) world.Router {
	if cfg.Group.Router == config.RouterSprayAndWait {
		return world.NewSprayAndWait(false)
	}
	return world.NewEpidemic(false)
}

func buildGenerator(w *world.World, cfg *config.Scenario, rngSvc *rng.Service) (schedule.Generator, error) {
	stream := rngSvc.Stream("gen.Events1")

	switch cfg.Events.Class {
	case config.GeneratorActive:
		hosts := w.HostAddresses()
		binWidth := cfg.Events.BinSize
		if binWidth <= 0 {
			binWidth = 1
		}
		return gen.NewActiveHostMessageGenerator(w, stream, hosts, cfg.Events.Size, binWidth, cfg.Events.Count, cfg.UpdateInterval), nil

	case config.GeneratorStatic:
		restriction := gen.RestrictNone
		if cfg.Interface.CommunicationMode == config.CommModeIntra {
			restriction = gen.RestrictIntra
		}
		return gen.NewStaticHostMessageGenerator(
			w, stream,
			cfg.Events.Hosts(), cfg.Events.ToHosts(),
			restriction, cfg.Events.BinSize, cfg.Events.Count, cfg.Events.Size, cfg.UpdateInterval,
		), nil

	default:
		return nil, &config.ConfigError{Key: "Events1.class", Reason: fmt.Sprintf("unknown generator class %q", cfg.Events.Class)}
	}
}

// attachReports wires every reporter named in cfg.Report.Types to the
// scheduler, each writing to its own file under Report.reportDir.
func (sc *Scenario) attachReports(cfg *config.Scenario) error {
	for _, kind := range cfg.Report.Types {
		switch kind {
		case "UnifiedReport":
			w, err := sc.openReportFile(cfg, "unified.txt")
			if err != nil {
				return err
			}
			report.NewUnifiedReport(sc.Scheduler, w)

		case "AdjacencyMatrixReport":
			w, err := sc.openReportFile(cfg, "adjacency.txt")
			if err != nil {
				return err
			}
			report.NewAdjacencyMatrixReport(sc.Scheduler, sc.World, cfg.UpdateInterval, w)

		case "SummaryTable":
			w, err := sc.openReportFile(cfg, "summary.txt")
			if err != nil {
				return err
			}
			report.NewSummaryTable(sc.Scheduler, w)

		case "SQLiteReport":
			path := cfg.Report.ReportDir + "/" + cfg.Name + ".sqlite"
			r, err := report.NewSQLiteReport(sc.Scheduler, sc.World, path)
			if err != nil {
				return fmt.Errorf("scenario: %w", err)
			}
			sc.closers = append(sc.closers, r)

		default:
			return &config.ConfigError{Key: "Report.reportN", Reason: fmt.Sprintf("unknown reporter %q", kind)}
		}
	}

	return nil
}

func (sc *Scenario) openReportFile(cfg *config.Scenario, name string) (io.Writer, error) {
	path := fmt.Sprintf("%s/%s.%s", cfg.Report.ReportDir, cfg.Name, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: open report file %s: %w", path, err)
	}
	sc.closers = append(sc.closers, f)
	return f, nil
}

// Run drives the scenario to completion and releases every report
// sink that was opened for it.
func (sc *Scenario) Run() {
	sc.Scheduler.Run()
	for _, c := range sc.closers {
		c.Close()
	}
}
