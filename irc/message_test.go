package irc_test

import (
	"testing"

	"github.com/presbrey/ircclient/irc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMessageParsing tests message parsing
func TestMessageParsing(t *testing.T) {
	// Parse a simple message
	msg, err := irc.ParseMessage("PING :abc123")
	require.NoError(t, err, "Should parse the message")
	assert.Equal(t, "PING", msg.Command, "Should parse the command")
	assert.Empty(t, msg.Params, "PING carries no middle parameters")
	trailing, ok := msg.Trailing()
	assert.True(t, ok, "Should have a trailing parameter")
	assert.Equal(t, "abc123", trailing, "Should parse the token")

	// Parse a message with a prefix
	msg, err = irc.ParseMessage(":Lancey!u@h PRIVMSG #rust :Hello!")
	require.NoError(t, err, "Should parse the message")
	assert.Equal(t, "Lancey!u@h", msg.Prefix, "Should parse the prefix")
	assert.Equal(t, "PRIVMSG", msg.Command, "Should parse the command")
	nick, ok := msg.Nick()
	assert.True(t, ok, "Prefix has the nick!user@host shape")
	assert.Equal(t, "Lancey", nick, "Should extract the nick")
	target, ok := msg.Param(0)
	assert.True(t, ok, "Should have a first parameter")
	assert.Equal(t, "#rust", target, "Should parse the target")
	trailing, ok = msg.Trailing()
	assert.True(t, ok, "Should have a trailing parameter")
	assert.Equal(t, "Hello!", trailing, "Should parse the text")

	// Parse a numeric reply
	msg, err = irc.ParseMessage(":irc.example.net 001 MyNick :Welcome")
	require.NoError(t, err, "Should parse the message")
	assert.Equal(t, "irc.example.net", msg.Prefix, "Should parse the server prefix")
	assert.Equal(t, "001", msg.Command, "Should parse the numeric")
	assert.True(t, msg.IsNumeric(), "001 is a numeric reply")
	_, ok = msg.Nick()
	assert.False(t, ok, "Server prefixes have no nick")

	// Parse a message with multiple middle parameters
	msg, err = irc.ParseMessage("MODE #channel +o-v user1 user2")
	require.NoError(t, err, "Should parse the message")
	assert.Equal(t, "MODE", msg.Command, "Should parse the command")
	assert.Equal(t, []string{"#channel", "+o-v", "user1", "user2"}, msg.Params,
		"Should parse all middle parameters")
	_, ok = msg.Trailing()
	assert.False(t, ok, "No trailing parameter present")
}

// TestMessageParsingEdgeCases covers line termination, casing and absence
func TestMessageParsingEdgeCases(t *testing.T) {
	// CRLF is trimmed; bare LF is tolerated
	msg, err := irc.ParseMessage("PING :x\r\n")
	require.NoError(t, err, "Should parse a CRLF-terminated line")
	assert.Equal(t, "PING :x", msg.Raw, "Raw should not keep the terminator")

	msg, err = irc.ParseMessage("PING :x\n")
	require.NoError(t, err, "Should tolerate a bare LF")
	trailing, _ := msg.Trailing()
	assert.Equal(t, "x", trailing)

	// Commands are uppercased
	msg, err = irc.ParseMessage("privmsg #c hello")
	require.NoError(t, err)
	assert.Equal(t, "PRIVMSG", msg.Command, "Commands are normalized to upper case")

	// An empty trailing parameter is present but empty
	msg, err = irc.ParseMessage("PRIVMSG #c :")
	require.NoError(t, err)
	trailing, ok := msg.Trailing()
	assert.True(t, ok, "Empty trailing is still present")
	assert.Equal(t, "", trailing)

	// Runs of spaces between tokens are tolerated
	msg, err = irc.ParseMessage("JOIN   #go")
	require.NoError(t, err)
	channel, ok := msg.Param(0)
	assert.True(t, ok)
	assert.Equal(t, "#go", channel)

	// Out-of-range Param is an explicit absence, not a failure
	_, ok = msg.Param(5)
	assert.False(t, ok, "Missing parameters signal absence")
	_, ok = msg.Param(-1)
	assert.False(t, ok)
}

// TestMessageParsingMalformed tests that lines without a command fail
func TestMessageParsingMalformed(t *testing.T) {
	for _, line := range []string{"", "   ", ":prefix.only", ":prefix ", "\r\n"} {
		_, err := irc.ParseMessage(line)
		assert.ErrorIs(t, err, irc.ErrMalformedLine, "Should reject %#v", line)
	}
}

// TestMessageRoundTrip tests that serialize(parse(L)) preserves prefix,
// command, params and trailing
func TestMessageRoundTrip(t *testing.T) {
	lines := []string{
		"PING :abc123",
		":irc.example.net 001 MyNick :Welcome",
		":Lancey!u@h PRIVMSG #rust :Hello there, world!",
		"MODE #channel +o-v user1 user2",
		"QUIT",
		"PRIVMSG #c :",
		":server 353 me = #go :@op +voice plain",
		"USER guest 0 * :Real Name",
	}

	for _, line := range lines {
		first, err := irc.ParseMessage(line)
		require.NoError(t, err, "Should parse %#v", line)

		second, err := irc.ParseMessage(first.String())
		require.NoError(t, err, "Should reparse the serialized form of %#v", line)

		assert.Equal(t, first.Prefix, second.Prefix, "Prefix should survive %#v", line)
		assert.Equal(t, first.Command, second.Command, "Command should survive %#v", line)
		assert.Equal(t, first.Params, second.Params, "Params should survive %#v", line)
		t1, ok1 := first.Trailing()
		t2, ok2 := second.Trailing()
		assert.Equal(t, ok1, ok2, "Trailing presence should survive %#v", line)
		assert.Equal(t, t1, t2, "Trailing text should survive %#v", line)
	}
}

// TestMessageConstruction tests the outbound constructors
func TestMessageConstruction(t *testing.T) {
	msg := irc.NewMessage("JOIN", "#go")
	assert.Equal(t, "JOIN #go", msg.String())
	assert.Equal(t, msg.String(), msg.Raw, "Raw is precomputed for outbound messages")

	msg = irc.NewMessageWithTrailing("USER", "Real Name", "guest", "0", "*")
	assert.Equal(t, "USER guest 0 * :Real Name", msg.String())

	msg = irc.NewMessageWithTrailing("PRIVMSG", "no-spaces", "#c")
	assert.Equal(t, "PRIVMSG #c :no-spaces", msg.String(),
		"Trailing is always colon-encoded so it stays a trailing on reparse")
}

// TestHostmasks tests hostmask parsing and formatting
func TestHostmasks(t *testing.T) {
	nick, user, host := irc.ParseHostmask("Lancey!u@h")
	assert.Equal(t, "Lancey", nick)
	assert.Equal(t, "u", user)
	assert.Equal(t, "h", host)

	nick, user, host = irc.ParseHostmask("irc.example.net")
	assert.Equal(t, "irc.example.net", nick)
	assert.Empty(t, user)
	assert.Empty(t, host)

	assert.Equal(t, "n!u@h", irc.FormatHostmask("n", "u", "h"))
}
