package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ardley/wordle-server/internal/dependencies/mocks"
	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store/memory"
	"github.com/ardley/wordle-server/internal/testutil"
)

type ServerSuite struct {
	suite.Suite
	registry *memory.Store
	rounds   *rotation.Service
	server   *Server
	cancel   context.CancelFunc
	errCh    chan error
	ctx      context.Context
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.registry = memory.New()
	vocab := vocabulary.New(testutil.NopLogger())
	vocab.LoadWords(testWords)

	random := mocks.NewMockRandom()
	random.QueueIntn(0) // secret: chardonnay
	s.rounds = rotation.New(vocab, s.registry, random, mocks.NewMockClock(time.Now()), time.Hour, testutil.NopLogger())
	_, err := s.rounds.Rotate(context.Background())
	s.Require().NoError(err)

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownGrace = time.Second
	s.server = New(cfg, s.registry, s.rounds, vocab, testutil.NopLogger())

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.errCh = make(chan error, 1)
	go func() {
		s.errCh <- s.server.Start(s.ctx)
	}()

	s.Eventually(func() bool {
		return s.server.Addr() != ""
	}, time.Second, 5*time.Millisecond)
}

func (s *ServerSuite) TearDownTest() {
	s.Require().NoError(s.server.Shutdown(context.Background()))
	s.Require().NoError(<-s.errCh)
	s.cancel()
}

// dial opens a client connection and returns a send-and-read helper.
func (s *ServerSuite) dial() (net.Conn, func(line string) string) {
	conn, err := net.Dial("tcp", s.server.Addr())
	s.Require().NoError(err)

	reader := bufio.NewReader(conn)
	roundTrip := func(line string) string {
		_, err := conn.Write([]byte(line + "\n"))
		s.Require().NoError(err)
		reply, err := reader.ReadString('\n')
		s.Require().NoError(err)
		return reply[:len(reply)-1]
	}
	return conn, roundTrip
}

func (s *ServerSuite) TestFullGameOverTCP() {
	conn, roundTrip := s.dial()
	defer conn.Close()

	s.Equal("SUCCESS", roundTrip("REGISTER,alice,secret"))
	s.Equal("SUCCESS", roundTrip("LOGIN,alice,secret"))
	s.Equal("SUCCESS", roundTrip("PLAYWORDLE"))
	s.Equal("CLUE: [?, ?, X, ?, X, X, +, X, X, X], 11 attempts remaining", roundTrip("SENDWORD,hypotenuse"))
	s.Equal("WIN: you guessed the secret word in 2 attempts", roundTrip("SENDWORD,chardonnay"))
	s.Equal("1-1-100%-1-1-[2]", roundTrip("SENDMESTATISTICS"))
	s.Equal("SUCCESS", roundTrip("LOGOUT,alice"))
}

func (s *ServerSuite) TestConcurrentSessionsSingleLogin() {
	conn1, roundTrip1 := s.dial()
	defer conn1.Close()
	conn2, roundTrip2 := s.dial()
	defer conn2.Close()

	s.Equal("SUCCESS", roundTrip1("REGISTER,alice,secret"))
	s.Equal("SUCCESS", roundTrip1("LOGIN,alice,secret"))
	s.Equal("ALREADY_LOGGED", roundTrip2("LOGIN,alice,secret"))
}

func (s *ServerSuite) TestDisconnectReleasesLogin() {
	conn, roundTrip := s.dial()
	s.Equal("SUCCESS", roundTrip("REGISTER,alice,secret"))
	s.Equal("SUCCESS", roundTrip("LOGIN,alice,secret"))
	s.Require().NoError(conn.Close())

	s.Eventually(func() bool {
		user, err := s.registry.Get(context.Background(), "alice")
		return err == nil && !user.LoggedIn
	}, time.Second, 5*time.Millisecond)
}

func (s *ServerSuite) TestMalformedLineKeepsConnectionOpen() {
	conn, roundTrip := s.dial()
	defer conn.Close()

	s.Equal("ERROR", roundTrip("NONSENSE,stuff"))
	s.Equal("SUCCESS", roundTrip("REGISTER,alice,secret"))
}

func (s *ServerSuite) TestActiveSessionCount() {
	conn, _ := s.dial()
	defer conn.Close()

	s.Eventually(func() bool {
		return s.server.ActiveSessions() == 1
	}, time.Second, 5*time.Millisecond)
}
