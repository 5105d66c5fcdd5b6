package e2e_test

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardley/wordle-server/internal/admin"
	"github.com/ardley/wordle-server/internal/cli"
	"github.com/ardley/wordle-server/internal/factory"
	"github.com/ardley/wordle-server/internal/relay"
	"github.com/ardley/wordle-server/internal/server"
)

// testStack is a fully wired application listening on loopback ephemeral
// ports, with a plain UDP socket standing in for the multicast group.
type testStack struct {
	app      *factory.App
	group    *net.UDPConn
	shutdown func(t *testing.T)
}

func startStack(t *testing.T) *testStack {
	t.Helper()

	// Stand-in for the multicast group: a local UDP socket the relay
	// forwards into.
	group, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	groupPort := group.LocalAddr().(*net.UDPAddr).Port

	app, err := factory.New(factory.Config{
		RotationInterval: time.Hour,
		Server:           server.Config{Host: "127.0.0.1", Port: 0, ShutdownGrace: time.Second},
		Relay:            relay.Config{Host: "127.0.0.1", Port: 0},
		MulticastAddr:    "127.0.0.1",
		MulticastPort:    groupPort,
		Admin:            admin.DefaultServerConfig(),
	})
	require.NoError(t, err)

	app.Vocabulary.LoadWords([]string{"chardonnay", "hypotenuse", "background"})
	_, err = app.Rotation.Rotate(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serverCh := make(chan error, 1)
	go func() { serverCh <- app.GameServer.Start(ctx) }()
	relayCh := make(chan error, 1)
	go func() { relayCh <- app.Relay.Start(ctx) }()

	require.Eventually(t, func() bool {
		return app.GameServer.Addr() != "" && app.Relay.Addr() != ""
	}, time.Second, 5*time.Millisecond)

	return &testStack{
		app:   app,
		group: group,
		shutdown: func(t *testing.T) {
			require.NoError(t, app.GameServer.Shutdown(context.Background()))
			require.NoError(t, <-serverCh)
			require.NoError(t, app.Relay.Shutdown())
			require.NoError(t, <-relayCh)
			require.NoError(t, group.Close())
			cancel()
		},
	}
}

// runClient drives one scripted REPL session against the stack
func (ts *testStack) runClient(t *testing.T, commands ...string) string {
	t.Helper()

	host, portStr, err := net.SplitHostPort(ts.app.GameServer.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	_, notifyPortStr, err := net.SplitHostPort(ts.app.Relay.Addr())
	require.NoError(t, err)
	notifyPort, err := strconv.Atoi(notifyPortStr)
	require.NoError(t, err)

	client, err := cli.Dial(host, port)
	require.NoError(t, err)
	defer client.Close()

	cfg := cli.DefaultConfig()
	cfg.ServerHost = host
	cfg.ServerPort = port
	cfg.NotifyPort = notifyPort

	var out bytes.Buffer
	repl := cli.NewREPL(cfg, client, nil, &out)
	input := strings.Join(append(commands, "quit"), "\n")
	require.NoError(t, repl.Run(strings.NewReader(input)))

	return out.String()
}

func TestFullGameSession(t *testing.T) {
	ts := startStack(t)
	defer ts.shutdown(t)

	output := ts.runClient(t,
		"register(alice,secret)",
		"login(alice,secret)",
		"playWORDLE",
		"sendWord(hypotenuse)",
		"sendWord(chardonnay)",
		"sendMeStatistics",
		"logout",
	)

	assert.Contains(t, output, "CLUE: [?, ?, X, ?, X, X, +, X, X, X], 11 attempts remaining")
	assert.Contains(t, output, "WIN: you guessed the secret word in 2 attempts")
	assert.Contains(t, output, "1-1-100%-1-1-[2]")
}

func TestShareReachesGroup(t *testing.T) {
	ts := startStack(t)
	defer ts.shutdown(t)

	output := ts.runClient(t,
		"register(alice,secret)",
		"login(alice,secret)",
		"playWORDLE",
		"sendWord(chardonnay)",
		"share",
	)
	assert.Contains(t, output, "shared!")

	require.NoError(t, ts.group.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64*1024)
	n, _, err := ts.group.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, "alice:WIN:1:{}", string(buf[:n]))
}

func TestRejectedCredentials(t *testing.T) {
	ts := startStack(t)
	defer ts.shutdown(t)

	output := ts.runClient(t,
		"register(alice,secret)",
		"login(alice,wrong)",
		"login(bob,secret)",
	)

	assert.Contains(t, output, "WRONG_PASSWORD")
	assert.Contains(t, output, "NON_EXISTING_USER")
}
