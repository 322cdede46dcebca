// Package chatserver wires the cipher and framing packages into the
// chat control plane: username handshake, join/leave announcements, and
// the broadcast fan-out (spec.md §2 item "chat control plane", explicitly
// a collaborator of the specified cipher/framing core rather than part of
// it).
package chatserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/justmedusty/kryptos/chatpool"
	"github.com/justmedusty/kryptos/cipher"
	"github.com/justmedusty/kryptos/framing"
)

// Config selects the server-wide algorithm, key size, and session key
// shared by every connection (spec.md §6). Each connection still gets its
// own CipherFacade built from this key: the key is shared, the cipher
// state is not (spec.md §3 ownership rule).
type Config struct {
	Port      int
	Algorithm cipher.Algorithm
	KeySize   cipher.KeySize
	Key       []byte
	Broadcast chatpool.BroadcastConfig

	// LogDir, if non-empty, tees each connection's decrypted inbound
	// lines to <LogDir>/<connection-id>.log. Neither cipher nor framing
	// knows this exists; it is purely a chatserver concern.
	LogDir string
}

// Server owns the TCP listener and the shared connection pool.
type Server struct {
	cfg      Config
	listener net.Listener
	pool     *chatpool.Pool
	logger   *slog.Logger
}

// NewServer constructs a Server bound to cfg.Port. It does not start
// accepting connections; call ListenAndServe for that.
func NewServer(cfg Config, logger *slog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("chatserver: failed to bind port %d: %w", cfg.Port, err)
	}
	return &Server{
		cfg:      cfg,
		listener: listener,
		pool:     chatpool.NewPool(),
		logger:   logger,
	}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close shuts down the listener; in-flight connections finish independently.
func (s *Server) Close() error {
	return s.listener.Close()
}

// ListenAndServe runs the accept loop on the calling goroutine (spec.md
// §5: "the main thread owns the accept loop"). Each accepted connection is
// handed to its own goroutine, standing in for the one-thread-per-
// connection model.
func (s *Server) ListenAndServe() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrListenerClosed
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection runs the full lifecycle of one accepted stream: build
// its own CipherFacade, run the username handshake, join the pool,
// broadcast, run the ACTIVE loop, then leave the pool and broadcast a
// departure (spec.md §4.6 state machine).
func (s *Server) handleConnection(conn net.Conn) {
	facade, err := cipher.NewFacade(s.cfg.Algorithm, s.cfg.KeySize, s.cfg.Key)
	if err != nil {
		s.logger.Error("failed to build cipher facade for new connection", "error", err)
		conn.Close()
		return
	}

	fc := framing.NewFramedConn(conn, facade)
	s.logger.Info("accepted connection", "remote_addr", fc.RemoteAddr(), "connection_id", fc.ID)

	name, err := PerformHandshake(fc, s.logger)
	if err != nil {
		s.logger.Info("handshake failed, closing connection", "remote_addr", fc.RemoteAddr(), "error", err)
		fc.Close(nil)
		return
	}
	fc.SetName(name)

	logFile := s.openConnectionLog(fc.ID.String())
	var logWriter io.Writer
	if logFile != nil {
		defer logFile.Close()
		logWriter = logFile
	}

	s.pool.Add(fc)
	s.logger.Info("connection joined", "name", name, "connection_id", fc.ID)
	chatpool.Broadcast(s.cfg.Broadcast, s.pool.Snapshot(), fc.ID, []byte(name+" has joined\n"))

	RunActiveSession(fc, s.pool, s.cfg.Broadcast, s.logger, logWriter)

	s.pool.Remove(fc.ID)
	s.logger.Info("connection closed", "name", name, "connection_id", fc.ID)
	chatpool.Broadcast(s.cfg.Broadcast, s.pool.Snapshot(), fc.ID, []byte(name+" has left\n"))
	fc.Close(nil)
}

// openConnectionLog opens <LogDir>/<connectionID>.log for a new connection,
// mirroring the original reference server's optional per-connection log
// file. A failure to open the file is logged and treated as "no logging for
// this connection," not a fatal error for the connection itself.
func (s *Server) openConnectionLog(connectionID string) *os.File {
	if s.cfg.LogDir == "" {
		return nil
	}
	path := filepath.Join(s.cfg.LogDir, connectionID+".log")
	f, err := os.Create(path)
	if err != nil {
		s.logger.Warn("could not open connection log file", "path", path, "error", err)
		return nil
	}
	return f
}
