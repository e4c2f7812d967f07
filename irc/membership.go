package irc

import (
	"sort"
	"strings"
	"sync"
)

// memberships tracks which nicks are believed present in each joined
// channel. The read loop is the only mutator; the application reads
// snapshots through Client.MembersOf. The mutex is held for single updates
// and snapshot copies only, never across I/O.
type memberships struct {
	mu       sync.RWMutex
	channels map[string]map[string]bool
	pending  map[string][]string // NAMES lists accumulated until RPL_ENDOFNAMES
}

func newMemberships() *memberships {
	return &memberships{
		channels: make(map[string]map[string]bool),
		pending:  make(map[string][]string),
	}
}

// observe applies one inbound message. self is the client's current nick;
// events about self change channel lifetimes, events about others change
// membership within them.
func (m *memberships) observe(msg *Message, self string) {
	switch msg.Command {
	case "JOIN":
		nick, ok := msg.Nick()
		if !ok {
			return
		}
		if channel, ok := joinPartChannel(msg); ok {
			m.add(channel, nick)
		}

	case "PART":
		nick, ok := msg.Nick()
		if !ok {
			return
		}
		if channel, ok := joinPartChannel(msg); ok {
			m.remove(channel, nick, nick == self)
		}

	case "KICK":
		channel, ok := msg.Param(0)
		if !ok {
			return
		}
		kicked, ok := msg.Param(1)
		if !ok {
			return
		}
		m.remove(channel, kicked, kicked == self)

	case "QUIT":
		nick, ok := msg.Nick()
		if !ok {
			return
		}
		if nick == self {
			m.clear()
			return
		}
		m.removeEverywhere(nick)

	case "NICK":
		oldNick, ok := msg.Nick()
		if !ok {
			return
		}
		newNick, ok := msg.Param(0)
		if !ok {
			newNick, ok = msg.Trailing()
			if !ok {
				return
			}
		}
		m.rename(oldNick, newNick)

	case RplNamReply:
		channel, ok := lastParam(msg)
		if !ok {
			return
		}
		names, ok := msg.Trailing()
		if !ok {
			return
		}
		m.appendNames(channel, strings.Fields(names))

	case RplEndOfNames:
		if channel, ok := lastParam(msg); ok {
			m.commitNames(channel)
		}

	default:
		if isChannelError(msg.Command) {
			if channel, ok := lastParam(msg); ok {
				m.drop(channel)
			}
		}
	}
}

// membersOf returns a sorted snapshot of the channel's known nicks, empty
// when the channel is unknown.
func (m *memberships) membersOf(channel string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.channels[channel]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for nick := range set {
		names = append(names, nick)
	}
	sort.Strings(names)
	return names
}

func (m *memberships) add(channel, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.channels[channel]
	if !ok {
		set = make(map[string]bool)
		m.channels[channel] = set
	}
	set[nick] = true
}

// remove drops nick from channel. The entry disappears entirely when the
// client itself left or the set emptied.
func (m *memberships) remove(channel, nick string, isSelf bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isSelf {
		delete(m.channels, channel)
		delete(m.pending, channel)
		return
	}
	set, ok := m.channels[channel]
	if !ok {
		return
	}
	delete(set, nick)
	if len(set) == 0 {
		delete(m.channels, channel)
	}
}

func (m *memberships) removeEverywhere(nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for channel, set := range m.channels {
		delete(set, nick)
		if len(set) == 0 {
			delete(m.channels, channel)
		}
	}
}

func (m *memberships) rename(oldNick, newNick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, set := range m.channels {
		if set[oldNick] {
			delete(set, oldNick)
			set[newNick] = true
		}
	}
}

func (m *memberships) appendNames(channel string, names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		m.pending[channel] = append(m.pending[channel], strings.TrimLeft(name, "@+%&~"))
	}
}

// commitNames replaces the channel's set with the accumulated NAMES list.
func (m *memberships) commitNames(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, ok := m.pending[channel]
	if !ok {
		return
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = true
		}
	}
	m.channels[channel] = set
	delete(m.pending, channel)
}

func (m *memberships) drop(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.channels, channel)
	delete(m.pending, channel)
}

func (m *memberships) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.channels = make(map[string]map[string]bool)
	m.pending = make(map[string][]string)
}

// joinPartChannel extracts the channel of a JOIN or PART, which some servers
// send as a trailing parameter.
func joinPartChannel(msg *Message) (string, bool) {
	if channel, ok := msg.Param(0); ok {
		return channel, true
	}
	return msg.Trailing()
}

// lastParam returns the final middle parameter; in the numerics the engine
// cares about, that is the channel name.
func lastParam(msg *Message) (string, bool) {
	if len(msg.Params) == 0 {
		return "", false
	}
	return msg.Params[len(msg.Params)-1], true
}
