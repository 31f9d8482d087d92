package world

import (
	"sort"
	"strconv"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/message"
)

// Mode restricts which peers an interface may connect to.
type Mode int

const (
	// ModeInter connects freely across cluster boundaries (default).
	ModeInter Mode = iota
	// ModeIntra restricts connections to peers in the same cluster.
	ModeIntra
)

// Interface is a host's radio. Exactly one per host (Non-goal:
// multi-radio hosts).
type Interface struct {
	HostAddr    message.HostAddress
	Range       float64
	MaxParallel int
	ChurnProb   float64
	Mode        Mode
	Active      bool

	// connections indexes this interface's open connections by peer
	// address; at most one per peer (invariant: no two connections to
	// the same peer).
	connections map[message.HostAddress]ConnectionID

	// blacklist is absorbing: once a peer churns off, it is never
	// reconnected for the lifetime of the interface.
	blacklist map[message.HostAddress]bool
}

// NewInterface builds an idle interface for the given host address.
func NewInterface(addr message.HostAddress, rnge float64, maxParallel int, churnProb float64, mode Mode) *Interface {
	return &Interface{
		HostAddr:    addr,
		Range:       rnge,
		MaxParallel: maxParallel,
		ChurnProb:   churnProb,
		Mode:        mode,
		Active:      true,
		connections: make(map[message.HostAddress]ConnectionID),
		blacklist:   make(map[message.HostAddress]bool),
	}
}

// Connections returns the peer addresses this interface currently
// holds an open connection to, in ascending address order. Callers
// draw RNG streams and mutate shared state once per peer while
// walking this slice, so the order must be explicit rather than
// whatever a map iteration happens to produce (spec §9: "Iteration
// over host sets must use an explicit address order").
func (ifc *Interface) Connections() []message.HostAddress {
	out := make([]message.HostAddress, 0, len(ifc.connections))
	for peer := range ifc.connections {
		out = append(out, peer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ConnectionTo returns the connection id to a peer, if any.
func (ifc *Interface) ConnectionTo(peer message.HostAddress) (ConnectionID, bool) {
	id, ok := ifc.connections[peer]
	return id, ok
}

// hasConnectionCapacity reports whether the interface has a free
// connection slot.
func (ifc *Interface) hasConnectionCapacity() bool {
	return len(ifc.connections) < ifc.MaxParallel
}

// isBlacklisted reports whether peer was permanently churned off.
func (ifc *Interface) isBlacklisted(peer message.HostAddress) bool {
	return ifc.blacklist[peer]
}

// reachable is the neighbour predicate of spec.md §4.D: in range,
// both radios active, and an unobstructed line of sight. The
// line-of-sight test runs last because it is O(rooms x edges).
func reachable(w *World, a, b *Host, ifcA, ifcB *Interface) bool {
	if !ifcA.Active || !ifcB.Active {
		return false
	}

	d := geometry.Distance(a.Location, b.Location)
	if d >= ifcA.Range || d >= ifcB.Range {
		return false
	}

	seg := geometry.Segment{A: a.Location, B: b.Location}
	if w.Room != nil && w.Room.Crosses(seg) {
		return false
	}

	return true
}

// update runs one tick of this interface's connection lifecycle: tear
// down stale/churned connections, attempt new ones against every
// other host, then advance every surviving connection's transfer.
func (ifc *Interface) update(w *World, now float64) {
	host := w.hosts[ifc.HostAddr]

	ifc.tearDownStale(w, host, now)
	ifc.connectNewNeighbours(w, host, now)

	for _, peer := range ifc.Connections() {
		id := ifc.connections[peer]
		if conn := w.Connection(id); conn != nil {
			conn.update(w, now)
		}
	}
}

func (ifc *Interface) tearDownStale(w *World, host *Host, now float64) {
	for _, peer := range ifc.Connections() {
		peerHost := w.hosts[peer]
		peerIfc := peerHost.Interface

		churned := ifc.ChurnProb > 0 && w.RNG.Stream(churnStreamName(ifc.HostAddr)).Float64() < ifc.ChurnProb
		stillReachable := reachable(w, host, peerHost, ifc, peerIfc)

		if stillReachable && !churned {
			continue
		}

		ifc.teardown(w, peer, now)
		peerIfc.teardown(w, ifc.HostAddr, now)

		if churned {
			ifc.blacklist[peer] = true
		}
	}
}

func (ifc *Interface) teardown(w *World, peer message.HostAddress, now float64) {
	id, ok := ifc.connections[peer]
	if !ok {
		return
	}
	delete(ifc.connections, peer)
	w.removeConnection(id)

	if w.OnConnectionDown != nil {
		w.OnConnectionDown(id, ifc.HostAddr, peer, now)
	}
}

func (ifc *Interface) connectNewNeighbours(w *World, host *Host, now float64) {
	for _, peerAddr := range w.HostAddresses() {
		if peerAddr == ifc.HostAddr {
			continue
		}
		if _, connected := ifc.connections[peerAddr]; connected {
			continue
		}
		if ifc.isBlacklisted(peerAddr) {
			continue
		}
		if !ifc.hasConnectionCapacity() {
			break
		}

		peerHost := w.hosts[peerAddr]
		peerIfc := peerHost.Interface

		if !peerIfc.hasConnectionCapacity() {
			continue
		}
		if peerIfc.isBlacklisted(ifc.HostAddr) {
			continue
		}
		if ifc.Mode == ModeIntra && !w.SameCluster(ifc.HostAddr, peerAddr) {
			continue
		}
		if !reachable(w, host, peerHost, ifc, peerIfc) {
			continue
		}

		ifc.install(w, peerAddr, now)
		peerIfc.install(w, ifc.HostAddr, now)
	}
}

func (ifc *Interface) install(w *World, peer message.HostAddress, now float64) {
	conn := &Connection{
		ID:         w.newConnectionID(),
		From:       ifc.HostAddr,
		To:         peer,
		LastUpdate: now,
	}
	w.addConnection(conn)
	ifc.connections[peer] = conn.ID

	if w.OnConnectionUp != nil {
		w.OnConnectionUp(conn.ID, ifc.HostAddr, peer, now)
	}
}

func churnStreamName(addr message.HostAddress) string {
	return "churn.host-" + strconv.Itoa(int(addr))
}

// currentBitrate returns this interface's quoted bitrate to the peer
// at the given distance.
func (ifc *Interface) currentBitrate(d float64) float64 {
	return Bitrate(d, ifc.Range)
}
