package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ardley/wordle-server/internal/protocol"
)

// gameRecord tracks the outcome of the most recent game for sharing.
type gameRecord struct {
	finished bool
	won      bool
	attempts int
	clues    []string
}

// REPL is the interactive command loop. Commands use call syntax, e.g.
// register(alice,secret) or sendWord(chardonnay).
type REPL struct {
	cfg      *Config
	client   *Client
	listener *Listener
	out      io.Writer

	username string
	game     gameRecord
}

// NewREPL creates a REPL over an established server connection. The listener
// may be nil when joining the multicast group failed.
func NewREPL(cfg *Config, client *Client, listener *Listener, out io.Writer) *REPL {
	return &REPL{
		cfg:      cfg,
		client:   client,
		listener: listener,
		out:      out,
	}
}

// Run reads commands until quit or EOF
func (r *REPL) Run(in io.Reader) error {
	fmt.Fprintln(r.out, "Welcome to Wordle! Type help for the command list.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := r.handle(line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) handle(line string) (quit bool, err error) {
	name, args, perr := parseCommand(line)
	if perr != nil {
		fmt.Fprintf(r.out, "%s\n", perr)
		return false, nil
	}

	switch name {
	case "register":
		if !r.expectArgs(name, args, 2) {
			return false, nil
		}
		return false, r.roundTrip(protocol.FormatCommand(protocol.OpRegister, args[0], args[1]), nil)

	case "login":
		if !r.expectArgs(name, args, 2) {
			return false, nil
		}
		return false, r.roundTrip(protocol.FormatCommand(protocol.OpLogin, args[0], args[1]), func(reply string) {
			if reply == protocol.ReplySuccess {
				r.username = args[0]
			}
		})

	case "logout":
		if !r.expectArgs(name, args, 0) {
			return false, nil
		}
		if r.username == "" {
			fmt.Fprintln(r.out, "not logged in")
			return false, nil
		}
		err := r.roundTrip(protocol.FormatCommand(protocol.OpLogout, r.username), func(reply string) {
			if reply == protocol.ReplySuccess {
				r.username = ""
			}
		})
		return false, err

	case "playWORDLE":
		if !r.expectArgs(name, args, 0) {
			return false, nil
		}
		return false, r.roundTrip(protocol.FormatCommand(protocol.OpPlay), func(reply string) {
			if reply == protocol.ReplySuccess {
				r.game = gameRecord{}
			}
		})

	case "sendWord":
		if !r.expectArgs(name, args, 1) {
			return false, nil
		}
		return false, r.roundTrip(protocol.FormatCommand(protocol.OpSendWord, args[0]), r.recordGuess)

	case "sendMeStatistics":
		if !r.expectArgs(name, args, 0) {
			return false, nil
		}
		return false, r.roundTrip(protocol.FormatCommand(protocol.OpStatistics), nil)

	case "share":
		if !r.expectArgs(name, args, 0) {
			return false, nil
		}
		r.share()
		return false, nil

	case "showMeSharing":
		if !r.expectArgs(name, args, 0) {
			return false, nil
		}
		r.showSharing()
		return false, nil

	case "help":
		r.printHelp()
		return false, nil

	case "quit":
		return true, nil

	default:
		fmt.Fprintf(r.out, "unknown command %q, type help for the command list\n", name)
		return false, nil
	}
}

// roundTrip sends one command, prints the reply and lets observe inspect it
func (r *REPL) roundTrip(line string, observe func(reply string)) error {
	reply, err := r.client.Send(line)
	if err != nil {
		return err
	}
	if observe != nil {
		observe(reply)
	}
	fmt.Fprintln(r.out, reply)
	return nil
}

// recordGuess updates the last-game record from a sendWord reply so share can
// rebuild the game summary later.
func (r *REPL) recordGuess(reply string) {
	switch {
	case strings.HasPrefix(reply, "CLUE:"):
		r.game.attempts++
		if marks, ok := extractMarks(reply); ok {
			r.game.clues = append(r.game.clues, marks)
		}
	case strings.HasPrefix(reply, "WIN:"):
		r.game.attempts++
		r.game.won = true
		r.game.finished = true
	case strings.HasPrefix(reply, "LOSE:"):
		r.game.attempts++
		if marks, ok := extractMarks(reply); ok {
			r.game.clues = append(r.game.clues, marks)
		}
		r.game.finished = true
	}
}

func (r *REPL) share() {
	if r.username == "" {
		fmt.Fprintln(r.out, "not logged in")
		return
	}
	if !r.game.finished {
		fmt.Fprintln(r.out, "no finished game to share")
		return
	}

	summary := protocol.Summary(r.username, r.game.won, r.game.attempts, r.game.clues)
	if err := SendShare(r.cfg.ServerHost, r.cfg.NotifyPort, summary); err != nil {
		fmt.Fprintf(r.out, "share failed: %s\n", err)
		return
	}
	fmt.Fprintln(r.out, "shared!")
}

func (r *REPL) showSharing() {
	if r.listener == nil {
		fmt.Fprintln(r.out, "notifications unavailable (not joined to the multicast group)")
		return
	}

	messages := r.listener.Messages()
	if len(messages) == 0 {
		fmt.Fprintln(r.out, "no notifications yet")
		return
	}
	for _, msg := range messages {
		fmt.Fprintln(r.out, msg)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `Commands:
  register(username,password)  create an account
  login(username,password)     log in
  playWORDLE                   join the current round
  sendWord(word)               guess the secret word
  sendMeStatistics             show your statistics
  share                        share your last game result
  showMeSharing                show results shared by other players
  logout                       log out
  quit                         exit
`)
}

func (r *REPL) expectArgs(name string, args []string, n int) bool {
	if len(args) != n {
		fmt.Fprintf(r.out, "%s takes %d argument(s), got %d\n", name, n, len(args))
		return false
	}
	return true
}

// parseCommand splits call syntax into a name and arguments. Bare names parse
// as zero-argument calls.
func parseCommand(line string) (string, []string, error) {
	open := strings.IndexByte(line, '(')
	if open == -1 {
		return line, nil, nil
	}
	if !strings.HasSuffix(line, ")") {
		return "", nil, fmt.Errorf("missing closing parenthesis in %q", line)
	}

	name := strings.TrimSpace(line[:open])
	inner := line[open+1 : len(line)-1]
	if strings.TrimSpace(inner) == "" {
		return name, nil, nil
	}

	parts := strings.Split(inner, ",")
	args := make([]string, len(parts))
	for i, part := range parts {
		args[i] = strings.TrimSpace(part)
	}
	return name, args, nil
}

// extractMarks pulls the bracketed clue string out of a CLUE or LOSE reply
func extractMarks(reply string) (string, bool) {
	open := strings.IndexByte(reply, '[')
	end := strings.IndexByte(reply, ']')
	if open == -1 || end == -1 || end < open {
		return "", false
	}
	return reply[open : end+1], true
}
