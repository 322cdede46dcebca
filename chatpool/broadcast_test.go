package chatpool

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justmedusty/kryptos/cipher"
	"github.com/justmedusty/kryptos/framing"
)

func TestBroadcastDeliversToAllButSender(t *testing.T) {
	key := bytes.Repeat([]byte{0x04}, 16)

	type peer struct {
		fc     *framing.FramedConn
		remote net.Conn
		got    chan []byte
	}

	makePeer := func() peer {
		local, remote := net.Pipe()
		facade, err := cipher.NewFacade(cipher.AesCbc, cipher.Size128, key)
		if err != nil {
			t.Fatalf("NewFacade: %v", err)
		}
		fc := framing.NewFramedConn(local, facade)

		peerFacade, err := cipher.NewFacade(cipher.AesCbc, cipher.Size128, key)
		if err != nil {
			t.Fatalf("NewFacade (peer): %v", err)
		}
		got := make(chan []byte, 1)
		go func() {
			scratch := make([]byte, 4096)
			n, err := remote.Read(scratch)
			if err != nil {
				return
			}
			plain, err := peerFacade.Decrypt(scratch[:n])
			if err != nil {
				return
			}
			got <- plain
		}()
		return peer{fc: fc, remote: remote, got: got}
	}

	sender := makePeer()
	r1 := makePeer()
	r2 := makePeer()
	t.Cleanup(func() {
		sender.remote.Close()
		r1.remote.Close()
		r2.remote.Close()
	})

	pool := NewPool()
	pool.Add(sender.fc)
	pool.Add(r1.fc)
	pool.Add(r2.fc)

	msg := []byte("alice: hello everyone\n")
	Broadcast(DefaultBroadcastConfig(), pool.Snapshot(), sender.fc.ID, msg)

	select {
	case got := <-r1.got:
		if !bytes.Equal(got, msg) {
			t.Errorf("r1 got %q, want %q", got, msg)
		}
	case <-time.After(time.Second):
		t.Fatal("r1 never received the broadcast")
	}
	select {
	case got := <-r2.got:
		if !bytes.Equal(got, msg) {
			t.Errorf("r2 got %q, want %q", got, msg)
		}
	case <-time.After(time.Second):
		t.Fatal("r2 never received the broadcast")
	}

	select {
	case <-sender.got:
		t.Fatal("sender should not receive its own broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastEmptyRecipientListIsNoop(t *testing.T) {
	Broadcast(DefaultBroadcastConfig(), nil, uuid.New(), []byte("nobody listening"))
}
