package chatserver

import (
	"log/slog"
	"strings"

	"github.com/justmedusty/kryptos/framing"
)

// Handshake text, unchanged from the protocol's original greeting strings
// (spec.md §4.6).
const (
	greeting      = "Welcome to the server, what will your username be? :"
	invalidName   = "That is not a valid username. What will your username be? :"
	successString = "Username is valid, joining session\n"
)

const (
	minUsernameLen = 5
	maxUsernameLen = 25 // exclusive
)

// PerformHandshake drives a connection through HANDSHAKING (spec.md §4.6):
// it writes greeting, blocking-reads a candidate username, validates
// 5 <= len < 25 and 7-bit ASCII, and repeats on failure. A non-ASCII
// payload is the protocol's only signal of a mismatched session key and
// ends the handshake immediately rather than looping.
func PerformHandshake(fc *framing.FramedConn, logger *slog.Logger) (string, error) {
	fc.SetState(framing.StateHandshaking)

	if err := fc.Write([]byte(greeting)); err != nil {
		return "", err
	}

	for {
		n, err := fc.ReadBlocking()
		if err != nil {
			return "", err
		}
		raw := fc.Plaintext()[:n]

		if asciiErr := framing.ValidateHandshakeASCII(raw); asciiErr != nil {
			logger.Warn("closing connection: non-ASCII during handshake, likely wrong session key",
				"remote_addr", fc.RemoteAddr())
			return "", asciiErr
		}

		name := strings.TrimSpace(string(raw))
		if len(name) >= minUsernameLen && len(name) < maxUsernameLen {
			if err := fc.Write([]byte(successString)); err != nil {
				return "", err
			}
			return name, nil
		}

		if err := fc.Write([]byte(invalidName)); err != nil {
			return "", err
		}
	}
}
