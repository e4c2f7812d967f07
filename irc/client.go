package irc

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrConnectionClosed is returned by send operations after Stop() or after
// the session died.
var ErrConnectionClosed = errors.New("irc: connection closed")

// DefaultDeliveryBuffer is the capacity of the delivery channel handed to
// the application by Start.
const DefaultDeliveryBuffer = 1024

// ConnectionInfo carries the identity used to register and the channels to
// join once registered. It is immutable for the duration of the session.
type ConnectionInfo struct {
	Nickname string
	Username string
	Realname string
	Channels []string
}

// Options tunes a client beyond the connection essentials. The zero value
// selects defaults everywhere.
type Options struct {
	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config

	// DialTimeout bounds the initial connect; zero means DefaultDialTimeout.
	DialTimeout time.Duration

	// IdleTimeout bounds a single blocking read; zero means
	// DefaultIdleTimeout.
	IdleTimeout time.Duration

	// DeliveryBuffer is the delivery channel capacity; zero means
	// DefaultDeliveryBuffer. When the buffer is full the oldest unread
	// message is dropped so the reader never stalls behind the application.
	DeliveryBuffer int

	// OnParseError is invoked for inbound lines that fail to parse. When
	// nil, such lines are logged and skipped.
	OnParseError func(line string, err error)

	// Debug enables per-line traffic logging.
	Debug bool
}

// Client is the application-facing handle on one IRC session. Create it
// with NewClient, start it with Start, and read the returned channel until
// it closes.
type Client struct {
	// ID identifies the session in log lines.
	ID string

	addr     string
	password string
	info     ConnectionInfo
	opts     Options

	conn     *Conn
	reg      *registrar
	members  *memberships
	messages chan *Message
	done     chan struct{}

	stopOnce sync.Once

	mu       sync.RWMutex
	started  bool
	stopping bool
	nickname string
	lastErr  error
}

// NewClient builds a not-yet-started client for the given server. The
// password may be empty; opts may be nil.
func NewClient(host string, port int, password string, info ConnectionInfo, opts *Options) (*Client, error) {
	if info.Nickname == "" {
		return nil, errors.New("irc: nickname is required")
	}
	if info.Username == "" {
		info.Username = info.Nickname
	}
	if info.Realname == "" {
		info.Realname = info.Nickname
	}

	var options Options
	if opts != nil {
		options = *opts
	}
	if options.DeliveryBuffer <= 0 {
		options.DeliveryBuffer = DefaultDeliveryBuffer
	}

	return &Client{
		ID:       uuid.New().String(),
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		password: password,
		info:     info,
		opts:     options,
		reg:      newRegistrar(info, password),
		members:  newMemberships(),
		messages: make(chan *Message, options.DeliveryBuffer),
		done:     make(chan struct{}),
		nickname: info.Nickname,
	}, nil
}

// Start connects, writes the registration burst, and launches the read
// loop. It returns the ordered delivery channel; the channel closes when the
// session ends, after which Err reports how.
func (c *Client) Start() (<-chan *Message, error) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil, errors.New("irc: client already started")
	}
	c.started = true
	c.mu.Unlock()

	conn, err := Dial(c.addr, c.opts.TLSConfig, c.opts.DialTimeout, c.opts.IdleTimeout)
	if err != nil {
		c.reg.close()
		close(c.done)
		close(c.messages)
		return nil, err
	}
	c.conn = conn

	log.Printf("[%s] *** connected to %s", c.logID(), conn.RemoteAddr())

	if err := c.reg.begin(conn); err != nil {
		c.reg.close()
		conn.Close()
		close(c.done)
		close(c.messages)
		return nil, fmt.Errorf("irc: registration: %w", err)
	}

	go c.readLoop()

	return c.messages, nil
}

// readLoop is the session's only reader. It parses each inbound line, lets
// the registrar react first (PONG, welcome, JOIN burst), updates channel
// membership, and forwards the message to the application.
func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.messages)
	defer c.members.clear()

	for {
		line, err := c.conn.ReadLine()
		if err != nil {
			c.reg.close()
			c.recordExit(err)
			return
		}
		linesReceived.Inc()

		msg, err := ParseMessage(line)
		if err != nil {
			parseErrors.Inc()
			if c.opts.OnParseError != nil {
				c.opts.OnParseError(line, err)
			} else {
				log.Printf("[%s] !! skipping unparsable line %#v", c.logID(), line)
			}
			continue
		}

		if c.opts.Debug {
			log.Printf("[%s] <= %s", c.logID(), msg.Raw)
		}

		if err := c.reg.handle(msg, c.conn); err != nil {
			// The next read surfaces the dead socket; log the write fault.
			log.Printf("[%s] !! write error: %v", c.logID(), err)
		}

		c.trackNick(msg)
		c.members.observe(msg, c.currentNick())

		c.deliver(msg)
	}
}

// deliver enqueues without ever blocking the read loop: when the buffer is
// full the oldest unread message is evicted. A stalled application must not
// delay PONGs.
func (c *Client) deliver(msg *Message) {
	for {
		select {
		case c.messages <- msg:
			return
		default:
		}
		select {
		case <-c.messages:
			messagesDropped.Inc()
		default:
		}
	}
}

// trackNick follows our own nick through server-acknowledged NICK changes so
// membership bookkeeping keeps recognizing us.
func (c *Client) trackNick(msg *Message) {
	if msg.Command != "NICK" {
		return
	}
	oldNick, ok := msg.Nick()
	if !ok || oldNick != c.currentNick() {
		return
	}
	newNick, ok := msg.Param(0)
	if !ok {
		newNick, ok = msg.Trailing()
		if !ok {
			return
		}
	}
	c.mu.Lock()
	c.nickname = newNick
	c.mu.Unlock()
}

func (c *Client) currentNick() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nickname
}

// recordExit stores why the session ended. A deliberate Stop is not an
// error; EOF and faults differ only in what gets logged.
func (c *Client) recordExit(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopping {
		log.Printf("[%s] *** session stopped", c.logID())
		return
	}
	if errors.Is(err, io.EOF) {
		log.Printf("[%s] *** server closed the connection", c.logID())
	} else {
		log.Printf("[%s] !! read error: %v", c.logID(), err)
	}
	c.lastErr = err
}

// SendRaw serializes a message and writes it to the server.
func (c *Client) SendRaw(msg *Message) error {
	if c.reg.current() == stateClosed || c.conn == nil {
		return ErrConnectionClosed
	}
	if c.opts.Debug {
		log.Printf("[%s] => %s", c.logID(), msg.String())
	}
	return c.conn.WriteLine(msg.String())
}

// Privmsg sends a PRIVMSG to a channel or nick.
func (c *Client) Privmsg(target, text string) error {
	return c.SendRaw(NewMessageWithTrailing("PRIVMSG", text, target))
}

// Notice sends a NOTICE to a channel or nick.
func (c *Client) Notice(target, text string) error {
	return c.SendRaw(NewMessageWithTrailing("NOTICE", text, target))
}

// CTCP sends a CTCP request (e.g. tag "VERSION", empty body) inside a
// PRIVMSG.
func (c *Client) CTCP(target, tag, body string) error {
	return c.Privmsg(target, FormatCTCP(tag, body))
}

// Join asks the server to join a channel. The membership tracker follows
// the server's JOIN echo, not this request.
func (c *Client) Join(channel string) error {
	return c.SendRaw(NewMessage("JOIN", channel))
}

// Part leaves a channel; reason may be empty.
func (c *Client) Part(channel, reason string) error {
	if reason == "" {
		return c.SendRaw(NewMessage("PART", channel))
	}
	return c.SendRaw(NewMessageWithTrailing("PART", reason, channel))
}

// Quit announces departure; reason may be empty. The server usually closes
// the stream in response, which ends the session. Call Stop to tear down
// without waiting for the server.
func (c *Client) Quit(reason string) error {
	if reason == "" {
		return c.SendRaw(NewMessage("QUIT"))
	}
	return c.SendRaw(NewMessageWithTrailing("QUIT", reason))
}

// Stop tears the session down: no further writes are accepted, the socket
// closes, and Stop returns once the read loop has exited, guaranteeing no
// message is enqueued afterwards. Stop is idempotent and safe before Start.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopping = true
		started := c.started
		c.mu.Unlock()

		c.reg.close()
		if c.conn != nil {
			c.conn.Close()
		}
		if started {
			<-c.done
		}
	})
}

// MembersOf returns a sorted snapshot of the nicks known present in a
// channel, empty when the channel is unknown.
func (c *Client) MembersOf(channel string) []string {
	return c.members.membersOf(channel)
}

// Err returns the transport error that ended the session, nil while the
// session lives or after a deliberate Stop.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Registered reports whether the welcome sequence completed.
func (c *Client) Registered() bool {
	return c.reg.current() == stateRegistered
}

// Nickname returns the client's current nick, following acknowledged NICK
// changes.
func (c *Client) Nickname() string {
	return c.currentNick()
}

func (c *Client) logID() string {
	return c.ID[:8]
}
