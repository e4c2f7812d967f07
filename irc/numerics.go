package irc

// Numeric replies the engine interprets. Numerics outside this set are
// forwarded to the application untouched.
const (
	RplWelcome  = "001"
	RplYourHost = "002"
	RplCreated  = "003"
	RplMyInfo   = "004"

	RplNamReply   = "353"
	RplEndOfNames = "366"

	ErrNoSuchChannel    = "403"
	ErrCannotSendToChan = "405"
	ErrUnavailResource  = "437"
	ErrChannelIsFull    = "471"
	ErrInviteOnlyChan   = "473"
	ErrBannedFromChan   = "474"
	ErrBadChannelKey    = "475"
	ErrBadChanMask      = "476"
)

// isWelcome reports whether a command is one of the 001-004 welcome numerics
// that complete registration.
func isWelcome(command string) bool {
	switch command {
	case RplWelcome, RplYourHost, RplCreated, RplMyInfo:
		return true
	}
	return false
}

// isChannelError reports whether a numeric invalidates a channel the client
// believed it was joining or in.
func isChannelError(command string) bool {
	switch command {
	case ErrNoSuchChannel, ErrCannotSendToChan, ErrUnavailResource,
		ErrChannelIsFull, ErrInviteOnlyChan, ErrBannedFromChan,
		ErrBadChannelKey, ErrBadChanMask:
		return true
	}
	return false
}
