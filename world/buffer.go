package world

import "github.com/sarchlab/ltnsim/message"

// Buffer is a host's message store, bounded by total byte size.
// Admission is FIFO: when a new message would push the buffer over
// capacity, the oldest entries are evicted first; a single message
// whose own size exceeds capacity is refused outright.
type Buffer struct {
	Capacity int

	// OnEvict, when set, is called for every message dropped to make
	// room for a new admission (report.UnifiedReport's "drop" record).
	OnEvict func(m message.Message, now float64)

	order []message.ID // insertion order, oldest first
	byID  map[message.ID]message.Message
}

// NewBuffer builds an empty buffer with the given byte capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		Capacity: capacity,
		byID:     make(map[message.ID]message.Message),
	}
}

// Has reports whether the buffer already holds a copy of the message.
func (b *Buffer) Has(id message.ID) bool {
	_, ok := b.byID[id]
	return ok
}

// Size returns the sum of stored message sizes.
func (b *Buffer) Size() int {
	total := 0
	for _, m := range b.byID {
		total += m.Size
	}
	return total
}

// Get returns a stored message by id.
func (b *Buffer) Get(id message.ID) (message.Message, bool) {
	m, ok := b.byID[id]
	return m, ok
}

// All returns every stored message, oldest first.
func (b *Buffer) All() []message.Message {
	out := make([]message.Message, 0, len(b.order))
	for _, id := range b.order {
		if m, ok := b.byID[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Admit inserts m, evicting the oldest entries (FIFO) until it fits.
// A message whose size alone exceeds capacity is refused.
func (b *Buffer) Admit(m message.Message, now float64) bool {
	if m.Size > b.Capacity {
		return false
	}
	if b.Has(m.ID) {
		b.byID[m.ID] = m // refresh in place, e.g. after a hop-path update
		return true
	}

	for b.Size()+m.Size > b.Capacity && len(b.order) > 0 {
		b.evictOldest(now)
	}

	b.order = append(b.order, m.ID)
	b.byID[m.ID] = m

	return true
}

func (b *Buffer) evictOldest(now float64) {
	if len(b.order) == 0 {
		return
	}
	oldest := b.order[0]
	evicted := b.byID[oldest]
	b.order = b.order[1:]
	delete(b.byID, oldest)

	if b.OnEvict != nil {
		b.OnEvict(evicted, now)
	}
}

// Evict removes a message by id, if present.
func (b *Buffer) Evict(id message.ID) {
	if !b.Has(id) {
		return
	}
	delete(b.byID, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
