package irc

import "sync/atomic"

// connState tracks the registration handshake.
type connState int32

const (
	stateUnregistered connState = iota
	stateRegistering
	stateRegistered
	stateClosed
)

// lineWriter is the write half of the transport the registrar talks to.
type lineWriter interface {
	WriteLine(line string) error
}

// registrar drives the PASS/NICK/USER handshake, answers server pings, and
// issues the configured JOIN burst once the server welcomes us. It is fed by
// the read loop; Stop() may close it from the application goroutine, so the
// state lives in an atomic.
type registrar struct {
	info     ConnectionInfo
	password string
	state    atomic.Int32
}

func newRegistrar(info ConnectionInfo, password string) *registrar {
	return &registrar{info: info, password: password}
}

func (r *registrar) current() connState {
	return connState(r.state.Load())
}

// close moves to the terminal state. No write is attempted afterwards.
func (r *registrar) close() {
	r.state.Store(int32(stateClosed))
}

// begin writes the registration burst: PASS when a password was supplied,
// then NICK, then USER.
func (r *registrar) begin(w lineWriter) error {
	if !r.state.CompareAndSwap(int32(stateUnregistered), int32(stateRegistering)) {
		return nil
	}
	if r.password != "" {
		if err := w.WriteLine(NewMessage("PASS", r.password).String()); err != nil {
			return err
		}
	}
	if err := w.WriteLine(NewMessage("NICK", r.info.Nickname).String()); err != nil {
		return err
	}
	user := NewMessageWithTrailing("USER", r.info.Realname, r.info.Username, "0", "*")
	return w.WriteLine(user.String())
}

// handle reacts to one inbound message before it is forwarded to the
// application. A PING is answered immediately on the calling goroutine; it
// never waits on the delivery channel. The 001-004 welcome numerics complete
// registration, as does any non-numeric traffic after the burst went out.
func (r *registrar) handle(msg *Message, w lineWriter) error {
	state := r.current()
	if state == stateClosed || state == stateUnregistered {
		return nil
	}

	if msg.Command == "PING" {
		if err := w.WriteLine(pongFor(msg).String()); err != nil {
			return err
		}
		pingsAnswered.Inc()
	}

	if state == stateRegistering && (isWelcome(msg.Command) || !msg.IsNumeric()) {
		if !r.state.CompareAndSwap(int32(stateRegistering), int32(stateRegistered)) {
			return nil
		}
		for _, channel := range r.info.Channels {
			if err := w.WriteLine(NewMessage("JOIN", channel).String()); err != nil {
				return err
			}
		}
	}

	return nil
}

// pongFor reverses a PING, echoing its token verbatim. Some servers ping
// with a middle parameter instead of a trailing one.
func pongFor(ping *Message) *Message {
	if token, ok := ping.Trailing(); ok {
		return NewMessageWithTrailing("PONG", token)
	}
	if token, ok := ping.Param(0); ok {
		return NewMessageWithTrailing("PONG", token)
	}
	return NewMessage("PONG")
}
