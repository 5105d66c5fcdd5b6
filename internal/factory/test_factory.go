package factory

import (
	"sync"
	"time"

	"github.com/ardley/wordle-server/internal/admin"
	"github.com/ardley/wordle-server/internal/dependencies/mocks"
	"github.com/ardley/wordle-server/internal/relay"
	"github.com/ardley/wordle-server/internal/server"
	"github.com/ardley/wordle-server/internal/store/memory"
	"github.com/ardley/wordle-server/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	RelaySink  *RelaySink
}

// RelaySink is a relay.PacketWriter that records forwarded payloads.
type RelaySink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *RelaySink) WritePacket(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *RelaySink) Close() error { return nil }

// Payloads returns a copy of all forwarded payloads so far.
func (s *RelaySink) Payloads() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.payloads))
	copy(out, s.payloads)
	return out
}

var _ relay.PacketWriter = (*RelaySink)(nil)

// NewTestApp creates an App configured for testing with mocked dependencies.
// All listeners bind loopback ephemeral ports.
func NewTestApp() *TestApp {
	registry := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	sink := &RelaySink{}

	cfg := Config{
		Server: server.Config{Host: "127.0.0.1", Port: 0, ShutdownGrace: time.Second},
		Relay:  relay.Config{Host: "127.0.0.1", Port: 0},
		Admin:  admin.DefaultServerConfig(),
	}

	app := newWithDependencies(cfg, registry, mockClock, mockRandom, sink, time.Hour, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		RelaySink:  sink,
	}
}

// LoadTestVocabulary loads a small fixed-length word list for testing.
func (t *TestApp) LoadTestVocabulary() {
	t.Vocabulary.LoadWords([]string{
		"chardonnay", "hypotenuse", "background", "jackrabbit",
		"lighthouse", "watermelon", "toothbrush", "strawberry",
	})
}
