package framing

import (
	"errors"
	"io"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/justmedusty/kryptos/cipher"
)

// scratchBufferSize is the link MTU scratch buffer a non-blocking read
// fills (spec.md §4.6: "scratch buffer sized to the link MTU (≥1024)").
const scratchBufferSize = 4096

// ReadOutcome tags the result of a non-blocking read attempt.
type ReadOutcome uint8

const (
	// ReadOK means the decrypted frame is available in Plaintext().
	ReadOK ReadOutcome = iota
	// ReadWouldBlock means no data was available; the caller should retry.
	ReadWouldBlock
	// ReadClosed means the peer closed its end of the stream.
	ReadClosed
)

// FramedConn wraps a net.Conn with a cipher.CipherFacade, turning raw
// stream I/O into enciphered frames (spec.md §4.6). Exactly one façade
// instance serves both directions of one connection; two FramedConns built
// from the same session key hold independent facades, so their CBC/CTR IV
// state and RC4 S-arrays never collide.
type FramedConn struct {
	ID   uuid.UUID
	conn net.Conn

	mu         sync.RWMutex
	facade     cipher.CipherFacade
	plaintext  []byte
	remoteAddr string
	name       string
	state      ConnState
}

// NewFramedConn builds a FramedConn over an already-accepted stream. facade
// must not be shared with any other connection (spec.md §3 ownership rule).
func NewFramedConn(conn net.Conn, facade cipher.CipherFacade) *FramedConn {
	return &FramedConn{
		ID:         uuid.New(),
		conn:       conn,
		facade:     facade,
		remoteAddr: conn.RemoteAddr().String(),
		state:      StateNew,
	}
}

// State returns the connection's current lifecycle state.
func (fc *FramedConn) State() ConnState {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.state
}

// SetState transitions the connection to s.
func (fc *FramedConn) SetState(s ConnState) {
	fc.mu.Lock()
	fc.state = s
	fc.mu.Unlock()
}

// Name returns the handshake-assigned username, or "" before handshake
// completes.
func (fc *FramedConn) Name() string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.name
}

// SetName adopts name once the handshake validates it.
func (fc *FramedConn) SetName(name string) {
	fc.mu.Lock()
	fc.name = name
	fc.mu.Unlock()
}

// RemoteAddr returns the peer's address, captured at construction.
func (fc *FramedConn) RemoteAddr() string {
	return fc.remoteAddr
}

// Plaintext returns the bytes decrypted by the most recent successful read.
// The slice is owned by fc and is only valid until the next read.
func (fc *FramedConn) Plaintext() []byte {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.plaintext
}

// ReadNonblocking attempts a single non-blocking read (spec.md §4.6). It
// sets the underlying connection's read deadline one millisecond ahead so
// the read returns almost at once rather than suspending the receive
// thread (a deadline already in the past would time out without reading
// data that is waiting), then restores blocking behavior before returning
// — satisfying framing invariant 3 (toggle non-blocking only around the
// read itself).
func (fc *FramedConn) ReadNonblocking() (ReadOutcome, error) {
	if err := fc.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return ReadWouldBlock, err
	}
	defer fc.conn.SetReadDeadline(time.Time{})

	scratch := make([]byte, scratchBufferSize)
	n, err := fc.conn.Read(scratch)
	if n > 0 {
		if decErr := fc.absorb(scratch[:n]); decErr != nil {
			return ReadWouldBlock, decErr
		}
		return ReadOK, nil
	}

	if err == nil {
		return ReadWouldBlock, nil
	}
	if isTimeout(err) {
		return ReadWouldBlock, nil
	}
	if isPeerClosed(err) {
		return ReadClosed, nil
	}
	return ReadWouldBlock, err
}

// ReadBlocking performs a blocking read, returning ErrConnClosed when the
// peer has closed the stream (spec.md §4.6: "CLOSED is signalled by return
// value 0").
func (fc *FramedConn) ReadBlocking() (int, error) {
	if err := fc.conn.SetReadDeadline(time.Time{}); err != nil {
		return 0, err
	}

	scratch := make([]byte, scratchBufferSize)
	n, err := fc.conn.Read(scratch)
	if n > 0 {
		if decErr := fc.absorb(scratch[:n]); decErr != nil {
			return 0, decErr
		}
		return len(fc.Plaintext()), nil
	}
	if isPeerClosed(err) {
		return 0, ErrConnClosed
	}
	return 0, err
}

// absorb decrypts n ciphertext bytes through the façade and stores the
// result as the connection's current plaintext buffer.
func (fc *FramedConn) absorb(ciphertext []byte) error {
	plain, err := fc.facade.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	fc.mu.Lock()
	fc.plaintext = plain
	fc.mu.Unlock()
	return nil
}

// Write encrypts buf through the façade and writes the resulting frame to
// completion, retrying on short writes (spec.md §4.6). A broken pipe is
// swallowed: the caller observes it only as a subsequent ReadClosed.
func (fc *FramedConn) Write(buf []byte) error {
	frame, err := fc.facade.Encrypt(buf)
	if err != nil {
		return err
	}

	for len(frame) > 0 {
		n, err := fc.conn.Write(frame)
		if err != nil {
			if isPeerClosed(err) || errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
		frame = frame[n:]
	}
	return nil
}

// Close optionally sends an encrypted farewell, then shuts down both
// directions of the stream (spec.md §4.6).
func (fc *FramedConn) Close(farewell []byte) error {
	if len(farewell) > 0 {
		_ = fc.Write(farewell)
	}
	fc.SetState(StateClosed)
	return fc.conn.Close()
}

// ValidateHandshakeASCII reports ErrNonASCIIHandshake if any byte of buf is
// outside 7-bit ASCII — the protocol's only in-band signal of a wrong
// session key (spec.md §4.6 invariant 2, §9 open question).
func ValidateHandshakeASCII(buf []byte) error {
	for _, b := range buf {
		if b > 127 {
			return ErrNonASCIIHandshake
		}
	}
	return nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isPeerClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
