package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ardley/wordle-server/internal/dependencies/mocks"
	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store/memory"
	"github.com/ardley/wordle-server/internal/testutil"
)

type fakeSessionCounter struct {
	count int
}

func (f *fakeSessionCounter) ActiveSessions() int { return f.count }

type AdminSuite struct {
	suite.Suite
	registry *memory.Store
	rounds   *rotation.Service
	random   *mocks.MockRandom
	vocab    *vocabulary.Service
	sessions *fakeSessionCounter
	router   http.Handler
	ctx      context.Context
}

func TestAdminSuite(t *testing.T) {
	suite.Run(t, new(AdminSuite))
}

func (s *AdminSuite) SetupTest() {
	s.registry = memory.New()
	s.vocab = vocabulary.New(testutil.NopLogger())
	s.vocab.LoadWords([]string{"chardonnay", "hypotenuse"})
	s.random = mocks.NewMockRandom()
	s.rounds = rotation.New(s.vocab, s.registry, s.random, mocks.NewMockClock(time.Now()), time.Hour, testutil.NopLogger())
	s.sessions = &fakeSessionCounter{}
	s.router = NewRouter(RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: s.registry,
		Rounds:   s.rounds,
		Sessions: s.sessions,
		Vocab:    s.vocab,
	})
	s.ctx = context.Background()
}

func (s *AdminSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AdminSuite) TestHealth() {
	rec := s.get("/healthz")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status": "ok"}`, rec.Body.String())
}

func (s *AdminSuite) TestStatsBeforeFirstRotation() {
	rec := s.get("/stats")
	s.Require().Equal(http.StatusOK, rec.Code)

	var stats Stats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	s.Zero(stats.RoundNumber)
	s.Zero(stats.RegisteredUsers)
	s.Equal(2, stats.VocabularySize)
}

func (s *AdminSuite) TestStats() {
	s.Require().NoError(s.registry.Create(s.ctx, model.NewUser("alice", "hash")))
	s.Require().NoError(s.registry.Create(s.ctx, model.NewUser("bob", "hash")))
	s.random.QueueIntn(0)
	_, err := s.rounds.Rotate(s.ctx)
	s.Require().NoError(err)
	s.sessions.count = 3

	rec := s.get("/stats")
	s.Require().Equal(http.StatusOK, rec.Code)

	var stats Stats
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &stats))
	s.Equal(Stats{
		RegisteredUsers: 2,
		ActiveSessions:  3,
		RoundNumber:     1,
		VocabularySize:  2,
	}, stats)
}

func (s *AdminSuite) TestMethodNotAllowed() {
	req := httptest.NewRequest(http.MethodPost, "/stats", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *AdminSuite) TestUnknownRoute() {
	rec := s.get("/nope")
	s.Equal(http.StatusNotFound, rec.Code)
}
