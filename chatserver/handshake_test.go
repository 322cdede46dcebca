package chatserver

import (
	"bytes"
	"net"
	"testing"

	"github.com/justmedusty/kryptos/cipher"
	"github.com/justmedusty/kryptos/framing"
)

func pairedFacades(t *testing.T) (server, client cipher.CipherFacade) {
	t.Helper()
	key := bytes.Repeat([]byte{0x0c}, 16)
	server, err := cipher.NewFacade(cipher.AesCbc, cipher.Size128, key)
	if err != nil {
		t.Fatalf("NewFacade: %v", err)
	}
	client, err = cipher.NewFacade(cipher.AesCbc, cipher.Size128, key)
	if err != nil {
		t.Fatalf("NewFacade: %v", err)
	}
	return server, client
}

func TestPerformHandshakeAcceptsValidName(t *testing.T) {
	serverFacade, clientFacade := pairedFacades(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	fc := framing.NewFramedConn(serverConn, serverFacade)
	logger := NewLogger(&bytes.Buffer{}, false)

	clientFC := framing.NewFramedConn(clientConn, clientFacade)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain the greeting.
		if _, err := clientFC.ReadBlocking(); err != nil {
			return
		}
		if err := clientFC.Write([]byte("alice\n")); err != nil {
			return
		}
		// Drain the success string.
		clientFC.ReadBlocking()
	}()

	name, err := PerformHandshake(fc, logger)
	<-done
	if err != nil {
		t.Fatalf("PerformHandshake: %v", err)
	}
	if name != "alice" {
		t.Errorf("name = %q, want %q", name, "alice")
	}
}

func TestPerformHandshakeRetriesOnInvalidLength(t *testing.T) {
	serverFacade, clientFacade := pairedFacades(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	fc := framing.NewFramedConn(serverConn, serverFacade)
	logger := NewLogger(&bytes.Buffer{}, false)

	clientFC := framing.NewFramedConn(clientConn, clientFacade)
	done := make(chan struct{})
	go func() {
		defer close(done)
		clientFC.ReadBlocking() // greeting
		clientFC.Write([]byte("ab\n"))
		clientFC.ReadBlocking() // invalid-name prompt
		clientFC.Write([]byte("validname\n"))
		clientFC.ReadBlocking() // success
	}()

	name, err := PerformHandshake(fc, logger)
	<-done
	if err != nil {
		t.Fatalf("PerformHandshake: %v", err)
	}
	if name != "validname" {
		t.Errorf("name = %q, want %q", name, "validname")
	}
}

func TestPerformHandshakeRejectsNonASCII(t *testing.T) {
	serverFacade, clientFacade := pairedFacades(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	fc := framing.NewFramedConn(serverConn, serverFacade)
	logger := NewLogger(&bytes.Buffer{}, false)

	clientFC := framing.NewFramedConn(clientConn, clientFacade)
	go func() {
		clientFC.ReadBlocking() // greeting
		clientFC.Write([]byte{0xff, 0xfe, 0x01, 0x02, 0x03})
	}()

	_, err := PerformHandshake(fc, logger)
	if err != framing.ErrNonASCIIHandshake {
		t.Errorf("err = %v, want ErrNonASCIIHandshake", err)
	}
}
