// Package message defines the data types carried across the wireless
// overlay: messages, their chunked transfer fragments, host pairs and
// distance bins used by the workload generator.
package message

// HostAddress identifies a host, stable and unique per simulation.
type HostAddress int

// ID identifies a message, unique per simulation.
type ID int64

// PathMTU is the maximum number of bytes transferred per chunk,
// modelling a Bluetooth-LE-like link layer.
const PathMTU = 247

// Message is immutable in its identity fields; HopPath is the one
// mutable part, and every successful forward clones the message
// before appending to its own copy's hop path (copy-on-forward:
// forwarding never mutates the sender's copy).
type Message struct {
	ID           ID
	From, To     HostAddress
	Size         int
	Created      float64
	ResponseSize int

	HopPath []HostAddress

	// CopyBudget is the spray-and-wait replication budget L. It is
	// unused (zero) for epidemic routing.
	CopyBudget int
}

// Clone replicates the message, deep-copying the hop path so the new
// owner can append to it without affecting the sender's copy.
func (m Message) Clone() Message {
	clone := m
	clone.HopPath = append([]HostAddress(nil), m.HopPath...)
	return clone
}

// Delivered reports whether the message's hop path already ends at
// its destination.
func (m Message) Delivered() bool {
	if len(m.HopPath) == 0 {
		return false
	}
	return m.HopPath[len(m.HopPath)-1] == m.To
}

// Chunk is an indexed fragment of a logical message transfer.
type Chunk struct {
	Index     int
	Created   float64
	Received  float64 // -1 until filled
	Size      int
}

// NewChunkPlan splits a total size into full PATH_MTU chunks plus an
// optional residual tail chunk. A size that is an exact multiple of
// PathMTU produces only full chunks and no residual.
func NewChunkPlan(size int) (fullChunks int, tailSize int) {
	fullChunks = size / PathMTU
	tailSize = size % PathMTU
	return fullChunks, tailSize
}

// Pair is an ordered host pair, as stored by the generator
// (unordered in intent, ordered in storage).
type Pair struct {
	From, To HostAddress
}

// Bin is a half-open distance interval [k*W, (k+1)*W) holding the
// host pairs that fall in it and a remaining message budget.
type Bin struct {
	Index     int
	Pairs     []Pair
	Remaining int
}
