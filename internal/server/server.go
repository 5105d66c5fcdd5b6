// Package server accepts game connections and runs one session state machine
// per connection.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store"
)

// Config holds configuration for the game server.
type Config struct {
	Host string
	Port int

	// ShutdownGrace bounds how long Shutdown waits for in-flight sessions
	// before force-closing their connections.
	ShutdownGrace time.Duration
}

// DefaultConfig returns sensible defaults for server configuration.
func DefaultConfig() Config {
	return Config{
		Host:          "",
		Port:          7777,
		ShutdownGrace: 10 * time.Second,
	}
}

// Server is the connection listener: a plain accept loop spawning one
// goroutine per connection.
type Server struct {
	cfg      Config
	registry store.Store
	rounds   *rotation.Service
	vocab    *vocabulary.Service
	logger   *slog.Logger

	ln     net.Listener
	wg     sync.WaitGroup
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	nextID atomic.Int64
	active atomic.Int64
}

// New creates a game server.
func New(cfg Config, registry store.Store, rounds *rotation.Service, vocab *vocabulary.Service, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		rounds:   rounds,
		vocab:    vocab,
		logger:   logger.With(slog.String("component", "server")),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Start listens and serves until the listener is closed by Shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("game server listening", slog.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.track(conn)
		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}
}

// Shutdown stops accepting connections, waits up to the grace period for
// sessions to finish, then force-closes stragglers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all sessions drained")
		return nil
	case <-time.After(s.cfg.ShutdownGrace):
	case <-ctx.Done():
	}

	s.mu.Lock()
	remaining := len(s.conns)
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.logger.Warn("force-closed lingering sessions", slog.Int("count", remaining))
	s.wg.Wait()
	return nil
}

// Addr returns the bound listen address, once Start has opened it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// ActiveSessions returns the number of currently connected sessions.
func (s *Server) ActiveSessions() int {
	return int(s.active.Load())
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.active.Add(1)
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.active.Add(-1)
}

// serveConn runs the session loop: block on the next command line, handle it,
// write exactly one reply line. Transport errors terminate this session only.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	id := s.nextID.Add(1)
	logger := s.logger.With(
		slog.Int64("session_id", id),
		slog.String("remote", conn.RemoteAddr().String()),
	)
	logger.Info("session started")

	sess := newSession(s.registry, s.rounds, s.vocab, logger)
	defer sess.teardown(ctx)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		reply, done := sess.handleLine(ctx, line)
		if _, err := fmt.Fprintf(conn, "%s\n", reply); err != nil {
			logger.Warn("write failed", slog.String("error", err.Error()))
			return
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Warn("read failed", slog.String("error", err.Error()))
	}

	logger.Info("session closed")
}
