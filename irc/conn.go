package irc

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"time"
)

// ErrLineTooLong is returned by WriteLine for outbound lines over MaxLineLen
// bytes. Oversized lines are rejected rather than truncated.
var ErrLineTooLong = errors.New("irc: line exceeds 512 bytes")

// DefaultDialTimeout bounds the initial TCP/TLS handshake.
const DefaultDialTimeout = 30 * time.Second

// DefaultIdleTimeout bounds a single blocking read so a silently dead socket
// surfaces as an error instead of hanging the reader. Servers ping well
// inside this window.
const DefaultIdleTimeout = 5 * time.Minute

// Conn is a line-framed connection to an IRC server. It owns the raw byte
// stream and knows nothing about the protocol above CRLF framing.
type Conn struct {
	conn        net.Conn
	reader      *textproto.Reader
	writer      *bufio.Writer
	writeLock   sync.Mutex
	idleTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to addr ("host:port") over TCP, or TLS when tlsConfig is
// non-nil. A zero dialTimeout or idleTimeout selects the default.
func Dial(addr string, tlsConfig *tls.Config, dialTimeout, idleTimeout time.Duration) (*Conn, error) {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	var conn net.Conn
	var err error
	if tlsConfig != nil {
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = net.DialTimeout("tcp", addr, dialTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("irc: connect %s: %w", addr, err)
	}

	return NewConn(conn, idleTimeout), nil
}

// NewConn wraps an established net.Conn in line framing. It is split from
// Dial so tests can frame a pipe or an in-process listener.
func NewConn(conn net.Conn, idleTimeout time.Duration) *Conn {
	return &Conn{
		conn:        conn,
		reader:      textproto.NewReader(bufio.NewReader(conn)),
		writer:      bufio.NewWriter(conn),
		idleTimeout: idleTimeout,
	}
}

// ReadLine blocks until a full CRLF- or LF-terminated line arrives and
// returns it without the terminator. io.EOF means the stream closed; any
// other error is a transport fault, including the idle-read deadline firing.
func (c *Conn) ReadLine() (string, error) {
	if c.idleTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	}
	return c.reader.ReadLine()
}

// WriteLine writes one protocol line, appending CRLF when absent, and
// flushes. Safe for concurrent use; the reader goroutine answers pings on
// the same connection the application sends on.
func (c *Conn) WriteLine(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line += "\r\n"
	}
	if len(line) > MaxLineLen {
		return ErrLineTooLong
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	if err := c.writer.Flush(); err != nil {
		return err
	}
	linesSent.Inc()
	return nil
}

// Close closes the underlying socket. Closing twice is safe and returns the
// first result; a blocked ReadLine observes the close as an error.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// RemoteAddr returns the peer address, for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
