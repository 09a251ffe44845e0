// Package notify is the transient message channel between the stores and
// whatever surface renders outcomes. The bus is an explicit dependency
// handed to each component, never ambient state, so it can be observed in
// isolation.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for display.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
	Warning Kind = "warning"
)

// DefaultTTL is how long a notification stays active unless dismissed.
const DefaultTTL = 4000 * time.Millisecond

// Notification is one transient user-facing message. It exists only in the
// bus's active set between Publish and expiry or dismissal.
type Notification struct {
	ID      string
	Kind    Kind
	Message string
	TTL     time.Duration
}

type entry struct {
	n     Notification
	seq   uint64
	timer *time.Timer
}

// Bus fans published notifications out to subscribers and keeps the active
// set until each entry expires or is dismissed. Identical messages are kept
// as separate entries; every action outcome stays individually visible.
type Bus struct {
	mu     sync.Mutex
	active map[string]*entry
	subs   []chan Notification
	seq    uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{active: make(map[string]*entry)}
}

// Publish enqueues a notification and returns its assigned id. It never
// blocks; slow subscribers miss messages rather than stall the publisher.
func (b *Bus) Publish(n Notification) string {
	if n.TTL <= 0 {
		n.TTL = DefaultTTL
	}
	n.ID = uuid.NewString()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return n.ID
	}
	b.seq++
	e := &entry{n: n, seq: b.seq}
	id := n.ID
	e.timer = time.AfterFunc(n.TTL, func() { b.Dismiss(id) })
	b.active[id] = e

	subs := make([]chan Notification, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- n:
		default:
		}
	}
	return id
}

// Dismiss removes a notification before its ttl runs out. Dismissing an
// unknown or already expired id is a no-op.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.active[id]; ok {
		e.timer.Stop()
		delete(b.active, id)
	}
}

// Active returns the current notifications in publish order.
func (b *Bus) Active() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := make([]*entry, 0, len(b.active))
	for _, e := range b.active {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Notification, len(entries))
	for i, e := range entries {
		out[i] = e.n
	}
	return out
}

// Subscribe returns a channel that receives every notification published
// after the call. The channel is buffered; a full buffer drops rather than
// blocks.
func (b *Bus) Subscribe() <-chan Notification {
	ch := make(chan Notification, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.subs = append(b.subs, ch)
	}
	return ch
}

// Close stops all expiry timers and closes subscriber channels. Publishing
// after Close is a silent no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, e := range b.active {
		e.timer.Stop()
		delete(b.active, id)
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
