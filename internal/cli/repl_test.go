package cli

import (
	"bufio"
	"bytes"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type REPLSuite struct {
	suite.Suite
}

func TestREPLSuite(t *testing.T) {
	suite.Run(t, new(REPLSuite))
}

func (s *REPLSuite) TestParseCommand() {
	name, args, err := parseCommand("register(alice,secret)")
	s.Require().NoError(err)
	s.Equal("register", name)
	s.Equal([]string{"alice", "secret"}, args)

	name, args, err = parseCommand("playWORDLE")
	s.Require().NoError(err)
	s.Equal("playWORDLE", name)
	s.Empty(args)

	name, args, err = parseCommand("sendMeStatistics()")
	s.Require().NoError(err)
	s.Equal("sendMeStatistics", name)
	s.Empty(args)

	name, args, err = parseCommand("sendWord( chardonnay )")
	s.Require().NoError(err)
	s.Equal("sendWord", name)
	s.Equal([]string{"chardonnay"}, args)

	_, _, err = parseCommand("register(alice,secret")
	s.Error(err)
}

func (s *REPLSuite) TestExtractMarks() {
	marks, ok := extractMarks("CLUE: [+, ?, X], 11 attempts remaining")
	s.True(ok)
	s.Equal("[+, ?, X]", marks)

	marks, ok = extractMarks("LOSE: [X, X, X], the secret word was chardonnay")
	s.True(ok)
	s.Equal("[X, X, X]", marks)

	_, ok = extractMarks("SUCCESS")
	s.False(ok)
}

func (s *REPLSuite) TestRecordGuess() {
	r := &REPL{out: &bytes.Buffer{}}

	r.recordGuess("NOT_IN_VOCABULARY")
	s.Zero(r.game.attempts)

	r.recordGuess("CLUE: [+, ?, X], 11 attempts remaining")
	s.Equal(1, r.game.attempts)
	s.Equal([]string{"[+, ?, X]"}, r.game.clues)
	s.False(r.game.finished)

	r.recordGuess("WIN: you guessed the secret word in 2 attempts")
	s.Equal(2, r.game.attempts)
	s.True(r.game.finished)
	s.True(r.game.won)
}

func (s *REPLSuite) TestRecordLoss() {
	r := &REPL{out: &bytes.Buffer{}}

	r.recordGuess("LOSE: [X, X, X], the secret word was chardonnay")
	s.Equal(1, r.game.attempts)
	s.True(r.game.finished)
	s.False(r.game.won)
	s.Equal([]string{"[X, X, X]"}, r.game.clues)
}

// stubServer answers each received command with a canned reply.
func (s *REPLSuite) stubServer(replies map[string]string) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			reply, ok := replies[scanner.Text()]
			if !ok {
				reply = "ERROR"
			}
			if _, err := conn.Write([]byte(reply + "\n")); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String()
}

func (s *REPLSuite) TestScriptedSession() {
	addr := s.stubServer(map[string]string{
		"REGISTER,alice,secret": "SUCCESS",
		"LOGIN,alice,secret":    "SUCCESS",
		"PLAYWORDLE":            "SUCCESS",
		"SENDWORD,chardonnay":   "WIN: you guessed the secret word in 1 attempts",
		"SENDMESTATISTICS":      "1-1-100%-1-1-[1]",
		"LOGOUT,alice":          "SUCCESS",
	})

	host, portStr, err := net.SplitHostPort(addr)
	s.Require().NoError(err)
	port, err := strconv.Atoi(portStr)
	s.Require().NoError(err)
	client, err := Dial(host, port)
	s.Require().NoError(err)
	defer client.Close()

	var out bytes.Buffer
	repl := NewREPL(DefaultConfig(), client, nil, &out)

	input := strings.Join([]string{
		"register(alice,secret)",
		"login(alice,secret)",
		"playWORDLE",
		"sendWord(chardonnay)",
		"sendMeStatistics",
		"logout",
		"quit",
	}, "\n")
	s.Require().NoError(repl.Run(strings.NewReader(input)))

	s.Contains(out.String(), "WIN: you guessed the secret word in 1 attempts")
	s.Contains(out.String(), "1-1-100%-1-1-[1]")
	s.True(repl.game.won)
	s.Empty(repl.username, "logout clears the tracked username")
}

func (s *REPLSuite) TestUnknownCommand() {
	var out bytes.Buffer
	repl := NewREPL(DefaultConfig(), nil, nil, &out)

	quit, err := repl.handle("dance")
	s.Require().NoError(err)
	s.False(quit)
	s.Contains(out.String(), "unknown command")
}

func (s *REPLSuite) TestShareWithoutFinishedGame() {
	var out bytes.Buffer
	repl := NewREPL(DefaultConfig(), nil, nil, &out)
	repl.username = "alice"

	quit, err := repl.handle("share")
	s.Require().NoError(err)
	s.False(quit)
	s.Contains(out.String(), "no finished game to share")
}
