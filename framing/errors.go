package framing

import "errors"

// Sentinel errors surfaced by FramedConn. They mirror spec.md §7's error
// kinds that belong to the framing layer rather than the cipher layer.
var (
	// ErrNonASCIIHandshake is returned when decrypted bytes received during
	// the username handshake contain a byte outside 7-bit ASCII — the only
	// in-band signal this protocol has that a peer's session key doesn't
	// match the server's.
	ErrNonASCIIHandshake = errors.New("framing: non-ASCII byte during handshake, likely wrong session key")

	// ErrConnClosed is returned by ReadBlocking when the peer has closed
	// its end of the stream.
	ErrConnClosed = errors.New("framing: connection closed by peer")
)
