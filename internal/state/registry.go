package state

import (
	"sort"

	"github.com/stationv/relay/internal/domain"
)

// Connection registry: connection ID <-> nickname bindings.

const defaultUserKind = domain.UserKindHuman

// Register binds a connection to a nickname. If the requested name is held
// by another live connection it is de-conflicted with a timestamp suffix.
// Re-registering an already bound connection behaves like a rename: channel
// memberships move with the user.
func (s *State) Register(connID, requested, kind string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := s.dedupeNicknameLocked(requested, connID)

	if old, ok := s.conns[connID]; ok {
		if old == assigned {
			return assigned
		}
		s.renameLocked(old, assigned)
		return assigned
	}

	if kind == "" {
		kind = defaultUserKind
	}
	s.users[assigned] = &user{
		nickname: assigned,
		kind:     kind,
		connID:   connID,
		channels: make(map[string]struct{}),
	}
	s.conns[connID] = assigned
	return assigned
}

// Lookup returns the nickname bound to a connection, if any. Never fails.
func (s *State) Lookup(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nick, ok := s.conns[connID]
	return nick, ok
}

// PartNotice describes one channel the quitting user left, with the
// connection IDs of the members that remain and should be notified.
type PartNotice struct {
	Channel   string
	Remaining []string
}

// QuitResult is the outcome of an unregister cascade.
type QuitResult struct {
	Nickname string
	Parts    []PartNotice
}

// Unregister removes the connection binding and parts the user from every
// joined channel. Idempotent: a second call for the same connection returns
// nil and mutates nothing, so duplicate close events cannot double-fire the
// quit cascade.
func (s *State) Unregister(connID string) *QuitResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.conns[connID]
	if !ok {
		return nil
	}
	delete(s.conns, connID)

	u := s.users[nick]
	delete(s.users, nick)

	res := &QuitResult{Nickname: nick}
	if u == nil {
		return res
	}

	names := make([]string, 0, len(u.channels))
	for name := range u.channels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ch := s.channels[name]
		if ch == nil {
			continue
		}
		delete(ch.members, nick)
		res.Parts = append(res.Parts, PartNotice{
			Channel:   name,
			Remaining: s.recipientsLocked(ch),
		})
	}
	return res
}
