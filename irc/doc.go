/*
Package irc implements the client side of the Internet Relay Chat (IRC) wire
protocol per RFC 1459/2812 conventions: message parsing and serialization,
the registration handshake, ping/pong keepalive, a background read loop, and
per-channel membership tracking.

# Features

# Message Model

- Parse and serialize CRLF-framed protocol lines (prefix, command, middle
  parameters, trailing parameter)
- Round-trip safe: a parsed message serializes back with the same prefix,
  command, params and trailing
- Explicit-absence accessors: Nick, Param, Trailing
- CTCP as a derived view over the trailing parameter, plus the low-level and
  CTCP quoting layers

# Session

- Plain TCP or TLS connections with dial and idle-read timeouts
- PASS/NICK/USER registration burst, welcome detection (001-004), automatic
  JOIN of configured channels in order
- Server PINGs answered synchronously on the read loop, never queued behind
  the application
- Ordered, bounded message delivery to the application; when the application
  falls behind, the oldest unread message is dropped rather than stalling
  the protocol
- Channel membership tracked from JOIN/PART/KICK/QUIT/NICK and NAMES replies,
  queryable at any time
- Idempotent, synchronous Stop

# Usage

	client, err := irc.NewClient("irc.example.net", 6667, "", irc.ConnectionInfo{
	    Nickname: "MyNick",
	    Channels: []string{"#go"},
	}, nil)
	if err != nil {
	    log.Fatal(err)
	}

	messages, err := client.Start()
	if err != nil {
	    log.Fatal(err)
	}
	defer client.Stop()

	for msg := range messages {
	    log.Println(msg.Raw)
	}

Reconnection policy, command-line handling and rendering of messages are the
application's concern; this package only moves and interprets protocol lines.
*/
package irc
