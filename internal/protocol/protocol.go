// Package protocol defines the line-based wire protocol between clients and
// the game server: one comma-separated command per line, one reply line per
// command.
package protocol

import (
	"fmt"
	"strings"
)

// Operation names as they appear on the wire.
const (
	OpRegister   = "REGISTER"
	OpLogin      = "LOGIN"
	OpLogout     = "LOGOUT"
	OpPlay       = "PLAYWORDLE"
	OpSendWord   = "SENDWORD"
	OpStatistics = "SENDMESTATISTICS"
)

// Reply tokens.
const (
	ReplySuccess         = "SUCCESS"
	ReplyDuplicate       = "DUPLICATE"
	ReplyEmpty           = "EMPTY"
	ReplyNonExistingUser = "NON_EXISTING_USER"
	ReplyWrongPassword   = "WRONG_PASSWORD"
	ReplyAlreadyLogged   = "ALREADY_LOGGED"
	ReplyError           = "ERROR"
	ReplyAlreadyPlayed   = "ALREADY_PLAYED"
	ReplyNotInVocabulary = "NOT_IN_VOCABULARY"
	ReplyMaxAttempts     = "MAX_ATTEMPTS"
	ReplyAlreadyWon      = "ALREADY_WON"
)

// Command is a single parsed client command.
type Command struct {
	Op   string
	Args []string
}

// arity maps each operation to its required argument count.
var arity = map[string]int{
	OpRegister:   2,
	OpLogin:      2,
	OpLogout:     1,
	OpPlay:       0,
	OpSendWord:   1,
	OpStatistics: 0,
}

// Parse parses a single command line. It returns an error for unknown
// operations and wrong field counts; callers answer those with ReplyError.
func Parse(line string) (Command, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	op := fields[0]

	want, ok := arity[op]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", op)
	}
	args := fields[1:]
	if len(args) != want {
		return Command{}, fmt.Errorf("%s expects %d fields, got %d", op, want, len(args))
	}
	return Command{Op: op, Args: args}, nil
}

// FormatCommand renders a command as a wire line, without the trailing newline.
func FormatCommand(op string, args ...string) string {
	if len(args) == 0 {
		return op
	}
	return op + "," + strings.Join(args, ",")
}

// WinReply renders the reply for a correctly guessed word.
func WinReply(attempts int) string {
	return fmt.Sprintf("WIN: you guessed the secret word in %d attempts", attempts)
}

// LoseReply renders the reply for a final failed attempt, revealing the word.
func LoseReply(clue string, secret string) string {
	return fmt.Sprintf("LOSE: %s, the secret word was %s", clue, secret)
}

// ClueReply renders positional feedback plus the remaining attempt count.
func ClueReply(clue string, remaining int) string {
	return fmt.Sprintf("CLUE: %s, %d attempts remaining", clue, remaining)
}

// Summary renders the end-of-game broadcast payload:
// username:WIN|LOSE:ATTEMPTS:{clue1,clue2,...}. The relay forwards it verbatim.
func Summary(username string, won bool, attempts int, clues []string) string {
	outcome := "LOSE"
	if won {
		outcome = "WIN"
	}
	return fmt.Sprintf("%s:%s:%d:{%s}", username, outcome, attempts, strings.Join(clues, ","))
}
