package config

import (
	"fmt"

	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/room"
)

// Movement model and router class names recognized in Group1.movementModel
// / Group1.router (spec §6).
const (
	MovementRandomStationaryConstrained = "RandomStationaryConstrained"
	MovementRandomStationaryCluster     = "RandomStationaryCluster"

	RouterEpidemic      = "EpidemicRouter"
	RouterSprayAndWait  = "SprayAndWaitRouter"

	GeneratorActive = "ActiveHostMessageGenerator"
	GeneratorStatic = "StaticHostMessageGenerator"
)

// CommunicationMode mirrors bluetoothInterface.communicationMode's
// external 0/1 encoding (0 = INTRA, 1 = INTER); it is translated to
// world.Mode at scenario-build time rather than reused directly,
// since world.Mode's own iota ordering (ModeInter = 0, ModeIntra = 1)
// was fixed independently and happens to be inverted from the
// scenario file's documented encoding.
type CommunicationMode int

const (
	CommModeIntra CommunicationMode = 0
	CommModeInter CommunicationMode = 1
)

// Scenario is the fully typed, validated form of a parsed scenario
// file (spec §6's key table).
type Scenario struct {
	Name           string
	UpdateInterval float64
	EndTime        float64

	RNGSeed     uint64
	WorldWidth  float64
	WorldHeight float64

	Group     GroupConfig
	Interface InterfaceConfig
	Events    EventsConfig
	Report    ReportConfig
}

// GroupConfig is a Group1.* block: the host population sharing one
// movement model, router and interface set.
//
// NrofClusters/ClusterSide/HostsPerCluster are only required when
// MovementModel is RandomStationaryCluster; the distilled key table
// names the movement model itself but leaves its clustering
// parameters unnamed, so these three keys are this module's own
// extension of the Group1.* namespace.
type GroupConfig struct {
	NrofHosts      int
	MovementModel  string
	Router         string
	NrofInterfaces int
	Interfaces     []string

	// BufferCapacity is the per-host message buffer bound in bytes
	// (spec §4.F's "bounded by size in bytes" invariant). Like the
	// clustering keys above, the distilled key table names the
	// invariant but not the key that configures it.
	BufferCapacity int

	NrofClusters    int
	ClusterSide     float64
	HostsPerCluster int
}

// InterfaceConfig is the bluetoothInterface.* block.
type InterfaceConfig struct {
	TransmitRange              float64
	MaximumParallelConnections int
	ChurnRate                  float64
	CommunicationMode          CommunicationMode
}

// EventsConfig is an Events1.* block: one workload generator.
type EventsConfig struct {
	Class                string
	Size                 int
	Count                int
	BinSize              float64
	HostsLo, HostsHi     int
	ToHostsLo, ToHostsHi int
}

// ReportConfig is the Report.* block.
type ReportConfig struct {
	Types     []string
	ReportDir string
}

// Hosts returns the half-open [lo,hi) from-address range as concrete
// HostAddress values.
func (e EventsConfig) Hosts() []message.HostAddress {
	return addressRange(e.HostsLo, e.HostsHi)
}

// ToHosts returns the half-open [lo,hi) to-address range as concrete
// HostAddress values.
func (e EventsConfig) ToHosts() []message.HostAddress {
	return addressRange(e.ToHostsLo, e.ToHostsHi)
}

func addressRange(lo, hi int) []message.HostAddress {
	out := make([]message.HostAddress, 0, hi-lo)
	for a := lo; a < hi; a++ {
		out = append(out, message.HostAddress(a))
	}
	return out
}

// BuildScenario validates raw against spec §6's key table and
// resolves it into a typed Scenario, or the first ConfigError
// encountered.
func BuildScenario(raw *Raw) (*Scenario, error) {
	s := &Scenario{}
	var err error

	if s.Name, err = raw.RequireString("Scenario.name"); err != nil {
		return nil, err
	}
	if s.UpdateInterval, err = raw.RequireFloat("Scenario.updateInterval"); err != nil {
		return nil, err
	}
	if s.EndTime, err = raw.RequireFloat("Scenario.endTime"); err != nil {
		return nil, err
	}

	seed, err := raw.RequireInt("MovementModel.rngSeed")
	if err != nil {
		return nil, err
	}
	s.RNGSeed = uint64(seed)

	worldSize, err := raw.RequireString("MovementModel.worldSize")
	if err != nil {
		return nil, err
	}
	if s.WorldWidth, s.WorldHeight, err = parseWorldSize(worldSize); err != nil {
		return nil, &ConfigError{Key: "MovementModel.worldSize", Reason: err.Error()}
	}

	if s.Group, err = buildGroup(raw); err != nil {
		return nil, err
	}
	if s.Interface, err = buildInterface(raw); err != nil {
		return nil, err
	}
	if s.Events, err = buildEvents(raw); err != nil {
		return nil, err
	}
	s.Report = buildReport(raw)

	return s, nil
}

func parseWorldSize(v string) (w, h float64, err error) {
	lo, hi, err := ParseRange(v)
	if err != nil {
		return 0, 0, err
	}
	return float64(lo), float64(hi), nil
}

func buildGroup(raw *Raw) (GroupConfig, error) {
	var g GroupConfig
	var err error

	if g.NrofHosts, err = raw.RequireInt("Group1.nrofHosts"); err != nil {
		return g, err
	}
	if g.MovementModel, err = raw.RequireString("Group1.movementModel"); err != nil {
		return g, err
	}
	if g.MovementModel != MovementRandomStationaryConstrained && g.MovementModel != MovementRandomStationaryCluster {
		return g, &ConfigError{Key: "Group1.movementModel", Reason: fmt.Sprintf("unknown movement model %q", g.MovementModel)}
	}

	if g.Router, err = raw.RequireString("Group1.router"); err != nil {
		return g, err
	}
	if g.Router != RouterEpidemic && g.Router != RouterSprayAndWait {
		return g, &ConfigError{Key: "Group1.router", Reason: fmt.Sprintf("unknown router class %q", g.Router)}
	}

	if g.NrofInterfaces, err = raw.RequireInt("Group1.nrofInterfaces"); err != nil {
		return g, err
	}
	if g.BufferCapacity, err = raw.RequireInt("Group1.bufferCapacity"); err != nil {
		return g, err
	}
	g.Interfaces = raw.IndexedStrings("Group1.interface")
	if len(g.Interfaces) != g.NrofInterfaces {
		return g, &ConfigError{
			Key:    "Group1.nrofInterfaces",
			Reason: fmt.Sprintf("declares %d interfaces but %d Group1.interfaceN keys are set", g.NrofInterfaces, len(g.Interfaces)),
		}
	}

	if g.MovementModel == MovementRandomStationaryCluster {
		if g.NrofClusters, err = raw.RequireInt("Group1.nrofClusters"); err != nil {
			return g, err
		}
		if g.ClusterSide, err = raw.RequireFloat("Group1.clusterSide"); err != nil {
			return g, err
		}
		if g.HostsPerCluster, err = raw.RequireInt("Group1.hostsPerCluster"); err != nil {
			return g, err
		}
		if err := room.ValidateHostAssignment(g.NrofClusters, g.HostsPerCluster, g.NrofHosts); err != nil {
			return g, &ConfigError{Key: "Group1.hostsPerCluster", Reason: err.Error()}
		}
	}

	return g, nil
}

func buildInterface(raw *Raw) (InterfaceConfig, error) {
	var ifc InterfaceConfig
	var err error

	if ifc.TransmitRange, err = raw.RequireFloat("bluetoothInterface.transmitRange"); err != nil {
		return ifc, err
	}
	if ifc.MaximumParallelConnections, err = raw.RequireInt("bluetoothInterface.maximumParallelConnections"); err != nil {
		return ifc, err
	}
	if ifc.ChurnRate, err = raw.RequireFloat("bluetoothInterface.churnRate"); err != nil {
		return ifc, err
	}
	if ifc.ChurnRate < 0 || ifc.ChurnRate > 1 {
		return ifc, &ConfigError{Key: "bluetoothInterface.churnRate", Reason: "must be in [0,1]"}
	}

	mode, err := raw.RequireInt("bluetoothInterface.communicationMode")
	if err != nil {
		return ifc, err
	}
	switch mode {
	case 0:
		ifc.CommunicationMode = CommModeIntra
	case 1:
		ifc.CommunicationMode = CommModeInter
	default:
		return ifc, &ConfigError{Key: "bluetoothInterface.communicationMode", Reason: "must be 0 (INTRA) or 1 (INTER)"}
	}

	return ifc, nil
}

func buildEvents(raw *Raw) (EventsConfig, error) {
	var e EventsConfig
	var err error

	if e.Class, err = raw.RequireString("Events1.class"); err != nil {
		return e, err
	}
	if e.Class != GeneratorActive && e.Class != GeneratorStatic {
		return e, &ConfigError{Key: "Events1.class", Reason: fmt.Sprintf("unknown generator class %q", e.Class)}
	}

	if e.Size, err = raw.RequireInt("Events1.size"); err != nil {
		return e, err
	}
	if e.Count, err = raw.OptionalInt("Events1.count", 0); err != nil {
		return e, err
	}
	if e.BinSize, err = raw.OptionalFloat("Events1.binSize", 0); err != nil {
		return e, err
	}

	hosts, err := raw.RequireString("Events1.hosts")
	if err != nil {
		return e, err
	}
	if e.HostsLo, e.HostsHi, err = ParseRange(hosts); err != nil {
		return e, &ConfigError{Key: "Events1.hosts", Reason: err.Error()}
	}

	toHosts, err := raw.RequireString("Events1.toHosts")
	if err != nil {
		return e, err
	}
	if e.ToHostsLo, e.ToHostsHi, err = ParseRange(toHosts); err != nil {
		return e, &ConfigError{Key: "Events1.toHosts", Reason: err.Error()}
	}

	return e, nil
}

func buildReport(raw *Raw) ReportConfig {
	dir, _ := raw.String("Report.reportDir")
	return ReportConfig{
		Types:     raw.IndexedStrings("Report.report"),
		ReportDir: dir,
	}
}
