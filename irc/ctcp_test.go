package irc_test

import (
	"testing"

	"github.com/presbrey/ircclient/irc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCTCPViews tests the derived CTCP accessors over ordinary messages
func TestCTCPViews(t *testing.T) {
	msg, err := irc.ParseMessage(":n!u@h PRIVMSG #c :\x01ACTION waves slowly\x01")
	require.NoError(t, err)

	assert.True(t, msg.IsCTCP(), "Bracketed trailing is CTCP")
	tag, ok := msg.CTCPTag()
	assert.True(t, ok)
	assert.Equal(t, "ACTION", tag)
	body, ok := msg.CTCPBody()
	assert.True(t, ok)
	assert.Equal(t, "waves slowly", body)

	// Tag-only request, e.g. VERSION
	msg, err = irc.ParseMessage(":n!u@h PRIVMSG target :\x01VERSION\x01")
	require.NoError(t, err)
	assert.True(t, msg.IsCTCP())
	tag, _ = msg.CTCPTag()
	assert.Equal(t, "VERSION", tag)
	body, ok = msg.CTCPBody()
	assert.True(t, ok)
	assert.Empty(t, body, "Tag-only CTCP has an empty body")

	// Plain messages are not CTCP
	msg, err = irc.ParseMessage(":n!u@h PRIVMSG #c :hello")
	require.NoError(t, err)
	assert.False(t, msg.IsCTCP())
	_, ok = msg.CTCPTag()
	assert.False(t, ok)
	_, ok = msg.CTCPBody()
	assert.False(t, ok)

	// A lone delimiter byte is not a CTCP payload
	msg, err = irc.ParseMessage("PRIVMSG #c :\x01")
	require.NoError(t, err)
	assert.False(t, msg.IsCTCP())
}

// TestFormatCTCP tests CTCP payload construction
func TestFormatCTCP(t *testing.T) {
	assert.Equal(t, "\x01PING 12345\x01", irc.FormatCTCP("PING", "12345"))
	assert.Equal(t, "\x01VERSION\x01", irc.FormatCTCP("VERSION", ""))
}

// TestQuoting tests the low-level and CTCP quoting layers
func TestQuoting(t *testing.T) {
	for _, s := range []string{
		"plain text",
		"line\r\nbreaks",
		"quote\x14byte",
		"nul\x00byte",
		"mixed\x14\r\n\x00end",
	} {
		assert.Equal(t, s, irc.LowLevelDequote(irc.LowLevelQuote(s)),
			"Low-level quoting should round-trip %#v", s)
	}

	quoted := irc.LowLevelQuote("a\rb")
	assert.NotContains(t, quoted, "\r", "Quoted text carries no raw CR")

	assert.Equal(t, "delim\x01here", irc.CTCPDequote(irc.CTCPQuote("delim\x01here")),
		"CTCP quoting should round-trip the delimiter")
	assert.NotContains(t, irc.CTCPQuote("x\x01y"), "\x01")
}
