package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ardley/wordle-server/internal/model"
	"github.com/ardley/wordle-server/internal/protocol"
	"github.com/ardley/wordle-server/internal/services/clue"
	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store"
)

// sessionState is the protocol state machine's position.
type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateIdle                         // authenticated, no game in progress
	statePlaying                      // authenticated, game in progress
)

// session is the per-connection protocol state machine. It is owned by a
// single connection goroutine and never shared; all cross-session state lives
// in the registry and the rotation service.
type session struct {
	registry store.Store
	rounds   *rotation.Service
	vocab    *vocabulary.Service
	logger   *slog.Logger

	state    sessionState
	username string

	// Per-game state. The secret word is snapshotted when the game starts
	// and deliberately not refreshed if rotation happens mid-game.
	secret   string
	attempts int
	hasWon   bool
}

func newSession(registry store.Store, rounds *rotation.Service, vocab *vocabulary.Service, logger *slog.Logger) *session {
	return &session{
		registry: registry,
		rounds:   rounds,
		vocab:    vocab,
		logger:   logger,
	}
}

// handleLine processes one command line and returns exactly one reply line.
// done is true once the session has logged out and the connection should
// close.
func (s *session) handleLine(ctx context.Context, line string) (reply string, done bool) {
	cmd, err := protocol.Parse(line)
	if err != nil {
		s.logger.Debug("protocol error", slog.String("error", err.Error()))
		return protocol.ReplyError, false
	}

	switch cmd.Op {
	case protocol.OpRegister:
		return s.handleRegister(ctx, cmd.Args[0], cmd.Args[1]), false
	case protocol.OpLogin:
		return s.handleLogin(ctx, cmd.Args[0], cmd.Args[1]), false
	case protocol.OpLogout:
		return s.handleLogout(ctx, cmd.Args[0])
	case protocol.OpPlay:
		return s.handlePlay(ctx), false
	case protocol.OpSendWord:
		return s.handleSendWord(ctx, cmd.Args[0]), false
	case protocol.OpStatistics:
		return s.handleStatistics(ctx), false
	default:
		return protocol.ReplyError, false
	}
}

// handleRegister is valid in any state and causes no transition.
func (s *session) handleRegister(ctx context.Context, username, password string) string {
	if password == "" {
		return protocol.ReplyEmpty
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}

	err = s.registry.Create(ctx, model.NewUser(username, string(hash)))
	switch {
	case errors.Is(err, model.ErrDuplicateUser):
		return protocol.ReplyDuplicate
	case err != nil:
		s.logger.Error("register failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}

	s.logger.Info("user registered", slog.String("username", username))
	return protocol.ReplySuccess
}

func (s *session) handleLogin(ctx context.Context, username, password string) string {
	if s.state != stateUnauthenticated {
		return protocol.ReplyError
	}

	user, err := s.registry.Get(ctx, username)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return protocol.ReplyNonExistingUser
	case err != nil:
		s.logger.Error("login lookup failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return protocol.ReplyWrongPassword
	}

	// Atomic check-then-set: of two concurrent logins for the same user,
	// exactly one wins the flag.
	err = s.registry.SetLoggedIn(ctx, username)
	switch {
	case errors.Is(err, model.ErrAlreadyLoggedIn):
		return protocol.ReplyAlreadyLogged
	case err != nil:
		s.logger.Error("login failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}

	s.username = username
	s.state = stateIdle
	s.logger.Info("user logged in", slog.String("username", username))
	return protocol.ReplySuccess
}

// handleLogout ends the session. An unfinished game is recorded as a loss at
// the current attempt count; the client is told only that logout succeeded.
func (s *session) handleLogout(ctx context.Context, username string) (string, bool) {
	if s.state == stateUnauthenticated || username != s.username {
		return protocol.ReplyError, false
	}

	if s.state == statePlaying {
		if err := s.registry.RecordLoss(ctx, s.username); err != nil {
			s.logger.Error("recording forfeit failed", slog.String("error", err.Error()))
		}
	}
	if err := s.registry.SetLoggedOut(ctx, s.username); err != nil {
		s.logger.Error("logout failed", slog.String("error", err.Error()))
		return protocol.ReplyError, false
	}

	s.logger.Info("user logged out", slog.String("username", s.username))
	s.state = stateUnauthenticated
	s.username = ""
	return protocol.ReplySuccess, true
}

func (s *session) handlePlay(ctx context.Context) string {
	if s.state != stateIdle {
		if s.state == statePlaying {
			return protocol.ReplyAlreadyPlayed
		}
		return protocol.ReplyError
	}

	round, err := s.rounds.Current()
	if err != nil {
		s.logger.Warn("play requested before first rotation")
		return protocol.ReplyError
	}

	// Single atomic check-then-set; two concurrent PLAYWORDLE calls for the
	// same user cannot both succeed. The round was snapshotted above, so a
	// rotation landing between the two starts this game on the previous word.
	err = s.registry.MarkPlayed(ctx, s.username)
	switch {
	case errors.Is(err, model.ErrAlreadyPlayed):
		return protocol.ReplyAlreadyPlayed
	case err != nil:
		s.logger.Error("marking round played failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}

	s.secret = round.Word
	s.attempts = 0
	s.hasWon = false
	s.state = statePlaying
	s.logger.Info("game started",
		slog.String("username", s.username),
		slog.Int("round", round.Number))
	return protocol.ReplySuccess
}

func (s *session) handleSendWord(ctx context.Context, guess string) string {
	if s.state == stateUnauthenticated {
		return protocol.ReplyError
	}

	// Post-game sends: a finished game answers ALREADY_WON or MAX_ATTEMPTS
	// rather than starting over.
	if s.hasWon {
		return protocol.ReplyAlreadyWon
	}
	if s.attempts == model.MaxAttempts {
		return protocol.ReplyMaxAttempts
	}
	if s.state != statePlaying {
		return protocol.ReplyError
	}

	// The vocabulary stores lowercase words, so the guess is normalized once
	// here and the same form flows through the membership check, the equality
	// check, and the clue.
	guess = strings.ToLower(guess)

	// Out-of-vocabulary guesses (including wrong-length ones) do not consume
	// an attempt.
	if !s.vocab.Contains(guess) {
		return protocol.ReplyNotInVocabulary
	}

	s.attempts++

	if guess == s.secret {
		if err := s.registry.RecordWin(ctx, s.username, s.attempts); err != nil {
			s.logger.Error("recording win failed", slog.String("error", err.Error()))
		}
		s.hasWon = true
		s.state = stateIdle
		s.logger.Info("game won",
			slog.String("username", s.username),
			slog.Int("attempts", s.attempts))
		return protocol.WinReply(s.attempts)
	}

	marks := clue.Feedback(guess, s.secret)

	if s.attempts == model.MaxAttempts {
		if err := s.registry.RecordLoss(ctx, s.username); err != nil {
			s.logger.Error("recording loss failed", slog.String("error", err.Error()))
		}
		s.state = stateIdle
		s.logger.Info("game lost", slog.String("username", s.username))
		return protocol.LoseReply(marks.String(), s.secret)
	}

	return protocol.ClueReply(marks.String(), model.MaxAttempts-s.attempts)
}

func (s *session) handleStatistics(ctx context.Context) string {
	if s.state == stateUnauthenticated {
		return protocol.ReplyError
	}

	user, err := s.registry.Get(ctx, s.username)
	if err != nil {
		s.logger.Error("statistics lookup failed", slog.String("error", err.Error()))
		return protocol.ReplyError
	}
	return user.Statistics()
}

// teardown releases session-held registry state when the connection closes
// without an explicit logout. A game abandoned by disconnect is recorded as a
// loss, the same forfeit rule LOGOUT applies.
func (s *session) teardown(ctx context.Context) {
	if s.state == stateUnauthenticated {
		return
	}
	if s.state == statePlaying {
		if err := s.registry.RecordLoss(ctx, s.username); err != nil {
			s.logger.Error("recording forfeit failed", slog.String("error", err.Error()))
		}
	}
	if err := s.registry.SetLoggedOut(ctx, s.username); err != nil {
		s.logger.Error("releasing login failed", slog.String("error", err.Error()))
	}
	s.state = stateUnauthenticated
	s.username = ""
}
