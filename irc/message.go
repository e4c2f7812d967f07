package irc

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLineLen is the RFC 1459 limit for a single protocol line, including the
// terminating CRLF.
const MaxLineLen = 512

// ErrMalformedLine is returned by ParseMessage when a line carries no command
// token.
var ErrMalformedLine = errors.New("irc: malformed line")

// Message represents one parsed IRC protocol line. A Message produced by
// ParseMessage is immutable; Raw holds the original line (without CRLF) for
// diagnostics and passthrough.
type Message struct {
	Prefix  string   // server name or nick!user@host, without the leading ':'
	Command string   // e.g. "PRIVMSG", or a 3-digit numeric reply
	Params  []string // middle parameters only; the trailing parameter is separate
	Raw     string

	trailing    string
	hasTrailing bool
}

// NewMessage builds an outbound message with middle parameters only.
func NewMessage(command string, params ...string) *Message {
	m := &Message{
		Command: strings.ToUpper(command),
		Params:  params,
	}
	m.Raw = m.String()
	return m
}

// NewMessageWithTrailing builds an outbound message whose last parameter is
// the trailing text. The trailing text may be empty or contain spaces.
func NewMessageWithTrailing(command, trailing string, params ...string) *Message {
	m := &Message{
		Command:     strings.ToUpper(command),
		Params:      params,
		trailing:    trailing,
		hasTrailing: true,
	}
	m.Raw = m.String()
	return m
}

// ParseMessage parses a raw IRC line into a Message. A single trailing CR/LF
// pair is trimmed first; a bare LF is tolerated. A line with no command token
// returns ErrMalformedLine.
func ParseMessage(line string) (*Message, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	msg := &Message{Raw: line}
	rest := line

	// Optional prefix, up to the next space.
	if strings.HasPrefix(rest, ":") {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, ErrMalformedLine
		}
		msg.Prefix = rest[1:sp]
		rest = rest[sp+1:]
	}

	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		return nil, ErrMalformedLine
	}

	if sp := strings.IndexByte(rest, ' '); sp < 0 {
		msg.Command = strings.ToUpper(rest)
		rest = ""
	} else {
		msg.Command = strings.ToUpper(rest[:sp])
		rest = rest[sp+1:]
	}

	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		// A parameter starting with ':' swallows the rest of the line.
		if rest[0] == ':' {
			msg.trailing = rest[1:]
			msg.hasTrailing = true
			break
		}
		if sp := strings.IndexByte(rest, ' '); sp < 0 {
			msg.Params = append(msg.Params, rest)
			rest = ""
		} else {
			msg.Params = append(msg.Params, rest[:sp])
			rest = rest[sp+1:]
		}
	}

	return msg, nil
}

// String returns the wire form of the message, without CRLF. A present
// trailing parameter is always emitted as " :<text>" so a parsed message
// serializes back with the same prefix, command, params and trailing.
func (m *Message) String() string {
	var builder strings.Builder

	if m.Prefix != "" {
		builder.WriteString(":")
		builder.WriteString(m.Prefix)
		builder.WriteString(" ")
	}

	builder.WriteString(m.Command)

	for _, param := range m.Params {
		builder.WriteString(" ")
		builder.WriteString(param)
	}

	if m.hasTrailing {
		builder.WriteString(" :")
		builder.WriteString(m.trailing)
	}

	return builder.String()
}

// Nick returns the nick part of the prefix when the prefix has the
// nick!user@host shape. The second return is false for server prefixes and
// messages without a prefix.
func (m *Message) Nick() (string, bool) {
	i := strings.IndexByte(m.Prefix, '!')
	if i <= 0 {
		return "", false
	}
	return m.Prefix[:i], true
}

// Param returns the i-th middle parameter, counted from zero. The second
// return is false when the parameter does not exist.
func (m *Message) Param(i int) (string, bool) {
	if i < 0 || i >= len(m.Params) {
		return "", false
	}
	return m.Params[i], true
}

// Trailing returns the trailing parameter verbatim, including embedded
// spaces. The second return is false when the message has none; an empty
// trailing parameter is valid and distinct from absence.
func (m *Message) Trailing() (string, bool) {
	return m.trailing, m.hasTrailing
}

// IsNumeric reports whether the command is a 3-digit numeric reply.
func (m *Message) IsNumeric() bool {
	if len(m.Command) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if m.Command[i] < '0' || m.Command[i] > '9' {
			return false
		}
	}
	return true
}

// ParseHostmask parses a hostmask (nick!user@host)
func ParseHostmask(hostmask string) (nick, user, host string) {
	nickParts := strings.SplitN(hostmask, "!", 2)
	if len(nickParts) < 2 {
		nick = hostmask
		return
	}
	nick = nickParts[0]

	userHostParts := strings.SplitN(nickParts[1], "@", 2)
	if len(userHostParts) < 2 {
		user = nickParts[1]
		return
	}
	user = userHostParts[0]
	host = userHostParts[1]

	return
}

// FormatHostmask formats a hostmask
func FormatHostmask(nick, user, host string) string {
	return fmt.Sprintf("%s!%s@%s", nick, user, host)
}
