package feed

import "sync"

// outbox is a bounded queue of encoded messages for one connection.
// Send never blocks: when the buffer is full the oldest message is dropped,
// so a slow client loses history instead of stalling its engine.
type outbox struct {
	id       string
	msgs     chan []byte
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex
	dropped int
}

// newOutbox creates an outbox. size controls how many messages can be
// buffered before dropping.
func newOutbox(id string, size int) *outbox {
	if size < 1 {
		size = 256
	}
	return &outbox{
		id:   id,
		msgs: make(chan []byte, size),
		done: make(chan struct{}),
	}
}

// ID returns the connection identifier.
func (o *outbox) ID() string {
	return o.id
}

// Send queues msg for the writer.
func (o *outbox) Send(msg []byte) {
	select {
	case <-o.done:
		return
	default:
	}

	select {
	case o.msgs <- msg:
		return
	default:
	}

	// Buffer full, drop oldest and retry once
	select {
	case <-o.msgs:
		o.mu.Lock()
		o.dropped++
		o.mu.Unlock()
	default:
	}
	select {
	case o.msgs <- msg:
	default:
	}
}

// Messages returns the channel the writer drains.
func (o *outbox) Messages() <-chan []byte {
	return o.msgs
}

// Dropped returns how many messages were discarded.
func (o *outbox) Dropped() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}

// Done returns a channel that closes when the connection ends.
func (o *outbox) Done() <-chan struct{} {
	return o.done
}

// Close marks the outbox as done. Safe to call multiple times.
func (o *outbox) Close() {
	o.doneOnce.Do(func() {
		close(o.done)
	})
}

// registry tracks active connections.
// Thread-safe for concurrent access.
type registry struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func newRegistry() *registry {
	return &registry{
		clients: make(map[string]*client),
	}
}

// Add registers c unless the registry already holds max clients.
// max <= 0 means unlimited.
func (r *registry) Add(c *client, max int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if max > 0 && len(r.clients) >= max {
		return false
	}
	r.clients[c.id] = c
	return true
}

// Remove unregisters a connection.
func (r *registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// Get retrieves a connection by ID.
func (r *registry) Get(id string) (*client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Count returns the number of registered connections.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Snapshot returns a copy of all current connections.
func (r *registry) Snapshot() []*client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*client, 0, len(r.clients))
	for _, c := range r.clients {
		list = append(list, c)
	}
	return list
}
