package cli

import (
	"bufio"
	"fmt"
	"net"
	"strings"
)

// Client holds the line-protocol connection to the game server. Commands are
// sent one per line; the server answers with exactly one reply line each.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the game server
func Dial(host string, port int) (*Client, error) {
	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("connect to server: %w", err)
	}
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Send writes one command line and reads the reply line
func (c *Client) Send(line string) (string, error) {
	if _, err := fmt.Fprintf(c.conn, "%s\n", line); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}
	reply, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimRight(reply, "\r\n"), nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
