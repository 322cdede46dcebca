package chatpool

import (
	"bytes"
	"net"
	"testing"

	"github.com/justmedusty/kryptos/cipher"
	"github.com/justmedusty/kryptos/framing"
)

func newTestConn(t *testing.T) *framing.FramedConn {
	t.Helper()
	local, remote := net.Pipe()
	t.Cleanup(func() { remote.Close() })
	facade, err := cipher.NewFacade(cipher.AesCbc, cipher.Size128, bytes.Repeat([]byte{0x01}, 16))
	if err != nil {
		t.Fatalf("NewFacade: %v", err)
	}
	fc := framing.NewFramedConn(local, facade)
	go drain(remote)
	return fc
}

// drain reads a pipe end to completion so writers never block against a
// reader nothing is consuming.
func drain(conn net.Conn) {
	buf := make([]byte, 4096)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

func TestPoolAddRemoveLen(t *testing.T) {
	p := NewPool()
	a := newTestConn(t)
	b := newTestConn(t)

	p.Add(a)
	p.Add(b)
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}

	p.Remove(a.ID)
	if p.Len() != 1 {
		t.Fatalf("Len() after remove = %d, want 1", p.Len())
	}
	snap := p.Snapshot()
	if len(snap) != 1 || snap[0].ID != b.ID {
		t.Fatalf("Snapshot() = %v, want only b", snap)
	}
}

func TestPoolRemoveUnknownIsNoop(t *testing.T) {
	p := NewPool()
	a := newTestConn(t)
	p.Add(a)

	p.Remove(a.ID) // remove once
	p.Remove(a.ID) // remove again: must not panic or corrupt state
	if p.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", p.Len())
	}
}

func TestPoolSnapshotIsIndependentCopy(t *testing.T) {
	p := NewPool()
	a := newTestConn(t)
	p.Add(a)

	snap := p.Snapshot()
	p.Add(newTestConn(t))
	if len(snap) != 1 {
		t.Fatalf("earlier snapshot mutated: len = %d, want 1", len(snap))
	}
}
