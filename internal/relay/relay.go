// Package relay forwards game-share notifications. Clients send datagrams to
// the relay's UDP port; every payload is forwarded verbatim to a multicast
// group that interested clients join.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// maxDatagram bounds the size of a single notification payload.
const maxDatagram = 64 * 1024

// PacketWriter sends one forwarded payload to the notification group.
type PacketWriter interface {
	WritePacket(payload []byte) error
	Close() error
}

// MulticastWriter sends payloads to a UDP multicast group.
type MulticastWriter struct {
	conn *net.UDPConn
}

// NewMulticastWriter connects a writer to the given group address and port.
func NewMulticastWriter(groupAddr string, groupPort int) (*MulticastWriter, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", groupAddr, groupPort))
	if err != nil {
		return nil, fmt.Errorf("resolve group address: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial group: %w", err)
	}
	return &MulticastWriter{conn: conn}, nil
}

func (w *MulticastWriter) WritePacket(payload []byte) error {
	_, err := w.conn.Write(payload)
	return err
}

func (w *MulticastWriter) Close() error {
	return w.conn.Close()
}

// Config holds configuration for the notification relay.
type Config struct {
	Host string
	Port int
}

// DefaultConfig returns sensible defaults for relay configuration.
func DefaultConfig() Config {
	return Config{
		Host: "",
		Port: 7778,
	}
}

// Relay receives notification datagrams and forwards each payload unchanged.
// Payloads are opaque: the relay does not parse or validate them.
type Relay struct {
	cfg    Config
	writer PacketWriter
	logger *slog.Logger

	mu        sync.Mutex
	conn      *net.UDPConn
	forwarded atomic.Int64
	dropped   atomic.Int64
}

// New creates a relay forwarding through the given writer.
func New(cfg Config, writer PacketWriter, logger *slog.Logger) *Relay {
	return &Relay{
		cfg:    cfg,
		writer: writer,
		logger: logger.With(slog.String("component", "relay")),
	}
}

// Start listens for datagrams and forwards them until Shutdown closes the
// socket.
func (r *Relay) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port))
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	r.logger.Info("notification relay listening", slog.String("addr", conn.LocalAddr().String()))

	buf := make([]byte, maxDatagram)
	for {
		n, sender, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		if err := r.writer.WritePacket(payload); err != nil {
			r.dropped.Add(1)
			r.logger.Warn("forward failed",
				slog.String("sender", sender.String()),
				slog.String("error", err.Error()))
			continue
		}
		r.forwarded.Add(1)
		r.logger.Debug("notification forwarded",
			slog.String("sender", sender.String()),
			slog.Int("bytes", n))
	}
}

// Shutdown closes the listening socket and the group writer.
func (r *Relay) Shutdown() error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	return r.writer.Close()
}

// Addr returns the bound listen address, once Start has opened it.
func (r *Relay) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return ""
	}
	return r.conn.LocalAddr().String()
}

// Forwarded returns the number of payloads forwarded so far.
func (r *Relay) Forwarded() int64 {
	return r.forwarded.Load()
}

// Dropped returns the number of payloads that failed to forward.
func (r *Relay) Dropped() int64 {
	return r.dropped.Load()
}
