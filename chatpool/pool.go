// Package chatpool holds the single structure shared across every
// connection's receive thread: the ordered set of currently-connected
// clients (spec.md §5). Exactly one lock protects it; broadcasters take
// the read side, connect/disconnect take the write side.
package chatpool

import (
	"sync"

	"github.com/google/uuid"

	"github.com/justmedusty/kryptos/framing"
)

// Pool is a reader/writer-locked ordered sequence of connection handles. A
// receive thread never holds the pool lock and a per-connection lock at
// the same time: it drops the per-connection lock before touching the
// pool (spec.md §5).
type Pool struct {
	mu    sync.RWMutex
	conns []*framing.FramedConn
}

// NewPool returns an empty connection pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add appends a newly active connection to the pool.
func (p *Pool) Add(fc *framing.FramedConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns = append(p.conns, fc)
}

// Remove drops the connection with the given id, if present. It is a
// no-op if the id is not found (a connection may be removed twice during
// concurrent error paths).
func (p *Pool) Remove(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, fc := range p.conns {
		if fc.ID == id {
			p.conns = append(p.conns[:i], p.conns[i+1:]...)
			return
		}
	}
}

// Len reports the current number of connections in the pool.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

// Snapshot returns a copy of the pool's current connection order. The
// broadcast collaborator iterates the snapshot rather than the live slice
// so that a concurrent Add/Remove cannot race with fan-out (spec.md §5:
// "a broadcast iterates the pool in its current order and is best-effort
// per recipient").
func (p *Pool) Snapshot() []*framing.FramedConn {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*framing.FramedConn, len(p.conns))
	copy(out, p.conns)
	return out
}
