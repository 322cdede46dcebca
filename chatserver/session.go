package chatserver

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/justmedusty/kryptos/chatpool"
	"github.com/justmedusty/kryptos/framing"
)

// pollInterval bounds how often an ACTIVE connection's receive thread
// retries a non-blocking read that would block. The original reference
// server spins with no pause; a short sleep keeps the same polling
// discipline without pegging a CPU core per idle connection.
const pollInterval = 10 * time.Millisecond

// RunActiveSession drives one connection's ACTIVE-state receive loop
// (spec.md §4.6, §5): poll non-blocking reads, prefix each received line
// with "<name>: ", and broadcast it to every other pool member. It returns
// when the peer closes or a read fails; the caller is responsible for pool
// removal and the leave announcement.
//
// logFile, if non-nil, receives a copy of each decrypted inbound line
// before it is broadcast — the optional per-connection plaintext log
// (spec.md §6). A write failure there is logged and otherwise ignored;
// logging must never interrupt the chat session.
func RunActiveSession(fc *framing.FramedConn, pool *chatpool.Pool, bcast chatpool.BroadcastConfig, logger *slog.Logger, logFile io.Writer) {
	fc.SetState(framing.StateActive)

	for {
		outcome, err := fc.ReadNonblocking()
		if err != nil {
			logger.Debug("read failed, closing connection", "remote_addr", fc.RemoteAddr(), "error", err)
			return
		}

		switch outcome {
		case framing.ReadClosed:
			return
		case framing.ReadWouldBlock:
			time.Sleep(pollInterval)
			continue
		case framing.ReadOK:
			if logFile != nil {
				if _, err := logFile.Write(fc.Plaintext()); err != nil {
					logger.Warn("failed to write connection log", "connection_id", fc.ID, "error", err)
				}
			}
			line := []byte(fmt.Sprintf("%s: %s\n", fc.Name(), fc.Plaintext()))
			chatpool.Broadcast(bcast, pool.Snapshot(), fc.ID, line)
		}
	}
}
