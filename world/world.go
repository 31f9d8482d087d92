// Package world is the central simulation arena: hosts, interfaces
// and connections are indexed by stable integer ids and looked up
// through the World rather than holding direct pointers to one
// another, since the connectivity graph among them changes every
// tick (see DESIGN.md's note on the teacher's fixed-mesh tile graph
// versus this package's dynamic proximity graph).
package world

import (
	"sort"

	"github.com/sarchlab/ltnsim/message"
	"github.com/sarchlab/ltnsim/room"
	"github.com/sarchlab/ltnsim/rng"
)

// ConnectionID identifies a Connection, unique per simulation.
type ConnectionID int64

// World owns every host, interface and connection in a single
// simulation run, plus the read-only room/cluster registries and the
// RNG service components draw from.
type World struct {
	Room     *room.Room
	Clusters *room.ClusterMap
	RNG      *rng.Service

	// EvictOnDeliver, when true, makes every router drop a message from
	// its buffer once it has been delivered to its final destination,
	// in addition to routers built with their own evictOnDeliver flag.
	// Defaults to false ("retain"), matching the documented
	// buffer-bloat behavior (spec Open Question #1).
	EvictOnDeliver bool

	// OnConnectionUp/OnConnectionDown/OnTransferComplete, when set, are
	// called as connections form, tear down and finish carrying a
	// message; schedule.Scheduler wires these to its own hook dispatch
	// so reporters observe these events without a direct World
	// reference.
	OnConnectionUp     func(id ConnectionID, from, to message.HostAddress, now float64)
	OnConnectionDown   func(id ConnectionID, from, to message.HostAddress, now float64)
	OnTransferComplete func(id ConnectionID, to message.HostAddress, m message.Message, now float64)

	// OnDrop, when set, is called whenever a host's buffer evicts a
	// message to make room for another admission.
	OnDrop func(host message.HostAddress, m message.Message, now float64)

	hosts       map[message.HostAddress]*Host
	hostOrder   []message.HostAddress // ascending address, computed once
	connections map[ConnectionID]*Connection
	nextConnID  ConnectionID
}

// New builds an empty arena over the given room/cluster registries
// and RNG service.
func New(r *room.Room, clusters *room.ClusterMap, rngSvc *rng.Service) *World {
	return &World{
		Room:        r,
		Clusters:    clusters,
		RNG:         rngSvc,
		hosts:       make(map[message.HostAddress]*Host),
		connections: make(map[ConnectionID]*Connection),
	}
}

// AddHost inserts a host into the arena. Host addresses must be
// injective; adding a duplicate address panics.
func (w *World) AddHost(h *Host) {
	if _, exists := w.hosts[h.Address]; exists {
		panic("world: duplicate host address")
	}
	w.hosts[h.Address] = h
	w.hostOrder = append(w.hostOrder, h.Address)
	sort.Slice(w.hostOrder, func(i, j int) bool { return w.hostOrder[i] < w.hostOrder[j] })

	addr := h.Address
	h.Buffer.OnEvict = func(m message.Message, now float64) {
		if w.OnDrop != nil {
			w.OnDrop(addr, m, now)
		}
	}
}

// Host looks up a host by address.
func (w *World) Host(addr message.HostAddress) *Host {
	return w.hosts[addr]
}

// Hosts returns every host in ascending address order. The returned
// slice is owned by the caller.
func (w *World) Hosts() []*Host {
	out := make([]*Host, len(w.hostOrder))
	for i, addr := range w.hostOrder {
		out[i] = w.hosts[addr]
	}
	return out
}

// HostAddresses returns every host address in ascending order.
func (w *World) HostAddresses() []message.HostAddress {
	out := make([]message.HostAddress, len(w.hostOrder))
	copy(out, w.hostOrder)
	return out
}

// newConnectionID allocates a fresh connection id.
func (w *World) newConnectionID() ConnectionID {
	w.nextConnID++
	return w.nextConnID
}

// Connection looks up a connection by id.
func (w *World) Connection(id ConnectionID) *Connection {
	return w.connections[id]
}

func (w *World) addConnection(c *Connection) {
	w.connections[c.ID] = c
}

func (w *World) removeConnection(id ConnectionID) {
	delete(w.connections, id)
}

// SameCluster reports whether two addresses' hosts are placed in the
// same cluster cell. When clustering is not configured, every host is
// considered to share the one implicit cluster (so INTRA mode is a
// no-op without a cluster map).
func (w *World) SameCluster(a, b message.HostAddress) bool {
	ha, hb := w.hosts[a], w.hosts[b]
	if ha == nil || hb == nil {
		return false
	}
	if w.Clusters == nil {
		return true
	}
	return ha.ClusterID == hb.ClusterID
}
