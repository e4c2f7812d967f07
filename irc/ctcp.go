package irc

import "strings"

// CTCP messages ride inside an ordinary trailing parameter, bracketed by the
// 0x01 byte. They are a derived view over Message, not a separate kind.

const (
	ctcpDelim    = "\x01"
	lowQuoteByte = '\x14'
)

// IsCTCP reports whether the trailing parameter is a CTCP payload.
func (m *Message) IsCTCP() bool {
	trail, ok := m.Trailing()
	if !ok || len(trail) < 2 {
		return false
	}
	return strings.HasPrefix(trail, ctcpDelim) && strings.HasSuffix(trail, ctcpDelim)
}

// CTCPTag returns the CTCP tag (e.g. "ACTION", "VERSION"). The second return
// is false when the message is not CTCP.
func (m *Message) CTCPTag() (string, bool) {
	inner, ok := m.ctcpInner()
	if !ok {
		return "", false
	}
	if sp := strings.IndexByte(inner, ' '); sp >= 0 {
		return inner[:sp], true
	}
	return inner, true
}

// CTCPBody returns the CTCP body after the tag, which may be empty. The
// second return is false when the message is not CTCP.
func (m *Message) CTCPBody() (string, bool) {
	inner, ok := m.ctcpInner()
	if !ok {
		return "", false
	}
	if sp := strings.IndexByte(inner, ' '); sp >= 0 {
		return inner[sp+1:], true
	}
	return "", true
}

func (m *Message) ctcpInner() (string, bool) {
	if !m.IsCTCP() {
		return "", false
	}
	trail, _ := m.Trailing()
	return trail[1 : len(trail)-1], true
}

// FormatCTCP brackets a tag and body as a CTCP trailing parameter. The body
// may be empty, in which case only the tag is carried.
func FormatCTCP(tag, body string) string {
	if body == "" {
		return ctcpDelim + tag + ctcpDelim
	}
	return ctcpDelim + tag + " " + body + ctcpDelim
}

// LowLevelQuote applies the IRC low-level quoting of NUL, CR, LF and the
// quote byte itself, byte by byte, so quoted bytes cannot be mistaken for
// fresh escape sequences.
func LowLevelQuote(s string) string {
	if !strings.ContainsAny(s, "\x00\n\r\x14") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\x00':
			b.WriteByte(lowQuoteByte)
			b.WriteByte('0')
		case '\n':
			b.WriteByte(lowQuoteByte)
			b.WriteByte('n')
		case '\r':
			b.WriteByte(lowQuoteByte)
			b.WriteByte('r')
		case lowQuoteByte:
			b.WriteByte(lowQuoteByte)
			b.WriteByte(lowQuoteByte)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// LowLevelDequote reverses LowLevelQuote. An unrecognized escape sequence
// yields the escaped byte itself.
func LowLevelDequote(s string) string {
	if !strings.ContainsRune(s, lowQuoteByte) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != lowQuoteByte || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '0':
			b.WriteByte('\x00')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// CTCPQuote escapes the CTCP delimiter and backslash inside a CTCP body.
func CTCPQuote(s string) string {
	if !strings.ContainsAny(s, "\x01\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\x01':
			b.WriteString("\\a")
		case '\\':
			b.WriteString("\\\\")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// CTCPDequote reverses CTCPQuote.
func CTCPDequote(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		if s[i] == 'a' {
			b.WriteByte('\x01')
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
