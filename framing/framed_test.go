package framing

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/justmedusty/kryptos/cipher"
)

func newPipePair(t *testing.T, algo cipher.Algorithm, size cipher.KeySize, key []byte) (*FramedConn, *FramedConn) {
	t.Helper()
	clientConn, serverConn := net.Pipe()

	clientFacade, err := cipher.NewFacade(algo, size, key)
	if err != nil {
		t.Fatalf("NewFacade (client): %v", err)
	}
	serverFacade, err := cipher.NewFacade(algo, size, key)
	if err != nil {
		t.Fatalf("NewFacade (server): %v", err)
	}

	client := NewFramedConn(clientConn, clientFacade)
	server := NewFramedConn(serverConn, serverFacade)
	t.Cleanup(func() {
		client.conn.Close()
		server.conn.Close()
	})
	return client, server
}

func TestFramedConnRoundTripAllAlgorithms(t *testing.T) {
	cases := []struct {
		name string
		algo cipher.Algorithm
		size cipher.KeySize
		key  []byte
	}{
		{"AesCbc", cipher.AesCbc, cipher.Size128, bytes.Repeat([]byte{0x01}, 16)},
		{"AesCtr", cipher.AesCtr, cipher.Size256, bytes.Repeat([]byte{0x02}, 32)},
		{"AesEcb", cipher.AesEcb, cipher.Size192, bytes.Repeat([]byte{0x03}, 24)},
		{"Rc4", cipher.Rc4, 0, []byte("shared session key")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client, server := newPipePair(t, c.algo, c.size, c.key)
			msg := []byte("hello over the wire\n")

			done := make(chan error, 1)
			go func() { done <- client.Write(msg) }()

			n, err := server.ReadBlocking()
			if err != nil {
				t.Fatalf("ReadBlocking: %v", err)
			}
			if err := <-done; err != nil {
				t.Fatalf("Write: %v", err)
			}
			if n != len(msg) {
				t.Fatalf("read %d bytes, want %d", n, len(msg))
			}
			if got := server.Plaintext(); !bytes.Equal(got, msg) {
				t.Errorf("Plaintext() = %q, want %q", got, msg)
			}
		})
	}
}

func TestFramedConnReadNonblockingWouldBlock(t *testing.T) {
	client, server := newPipePair(t, cipher.AesCbc, cipher.Size128, bytes.Repeat([]byte{0x09}, 16))
	_ = client

	outcome, err := server.ReadNonblocking()
	if err != nil {
		t.Fatalf("ReadNonblocking: %v", err)
	}
	if outcome != ReadWouldBlock {
		t.Errorf("outcome = %v, want ReadWouldBlock", outcome)
	}
}

func TestFramedConnReadNonblockingThenData(t *testing.T) {
	client, server := newPipePair(t, cipher.AesCtr, cipher.Size128, bytes.Repeat([]byte{0x0a}, 16))
	msg := []byte("async payload")

	writeErr := make(chan error, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		writeErr <- client.Write(msg)
	}()

	var outcome ReadOutcome
	var err error
	for i := 0; i < 50; i++ {
		outcome, err = server.ReadNonblocking()
		if err != nil {
			t.Fatalf("ReadNonblocking: %v", err)
		}
		if outcome == ReadOK {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if outcome != ReadOK {
		t.Fatal("never observed ReadOK after peer wrote")
	}
	if err := <-writeErr; err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := server.Plaintext(); !bytes.Equal(got, msg) {
		t.Errorf("Plaintext() = %q, want %q", got, msg)
	}
}

func TestFramedConnCloseAfterPeerClose(t *testing.T) {
	client, server := newPipePair(t, cipher.AesEcb, cipher.Size128, bytes.Repeat([]byte{0x0b}, 16))

	if err := client.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err := server.ReadBlocking()
	if err == nil {
		t.Fatal("expected an error reading from a closed peer")
	}
}

func TestValidateHandshakeASCII(t *testing.T) {
	if err := ValidateHandshakeASCII([]byte("plain-ascii-name")); err != nil {
		t.Errorf("unexpected error for ASCII input: %v", err)
	}
	if err := ValidateHandshakeASCII([]byte{0xff, 0x01}); err != ErrNonASCIIHandshake {
		t.Errorf("ValidateHandshakeASCII(non-ASCII) = %v, want ErrNonASCIIHandshake", err)
	}
}

func TestConnStateString(t *testing.T) {
	cases := map[ConnState]string{
		StateNew:         "NEW",
		StateHandshaking: "HANDSHAKING",
		StateActive:      "ACTIVE",
		StateClosed:      "CLOSED",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
