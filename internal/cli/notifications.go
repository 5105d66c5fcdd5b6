package cli

import (
	"fmt"
	"net"
	"sync"
)

// Listener collects share notifications from the multicast group in the
// background so showMeSharing can print everything received so far.
type Listener struct {
	conn *net.UDPConn

	mu       sync.Mutex
	messages []string
}

// Join subscribes to the multicast group and starts collecting notifications
func Join(groupAddr string, groupPort int) (*Listener, error) {
	group := net.ParseIP(groupAddr)
	if group == nil {
		return nil, fmt.Errorf("invalid multicast address: %s", groupAddr)
	}

	conn, err := net.ListenMulticastUDP("udp", nil, &net.UDPAddr{IP: group, Port: groupPort})
	if err != nil {
		return nil, fmt.Errorf("join multicast group: %w", err)
	}

	l := &Listener{conn: conn}
	go l.collect()
	return l, nil
}

func (l *Listener) collect() {
	buf := make([]byte, 64*1024)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		msg := string(buf[:n])

		l.mu.Lock()
		l.messages = append(l.messages, msg)
		l.mu.Unlock()
	}
}

// Messages returns all notifications received so far
func (l *Listener) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Close leaves the multicast group
func (l *Listener) Close() error {
	return l.conn.Close()
}

// SendShare sends one notification datagram to the server's relay port
func SendShare(host string, port int, payload string) error {
	conn, err := net.Dial("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("reach notification relay: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
