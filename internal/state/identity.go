package state

import "github.com/stationv/relay/internal/domain"

// Identity manager: nickname lifecycle.

// Rename rebinds a connection to a new nickname, moving every channel
// membership with it. Unlike registration, a rename that collides with a
// different live user is rejected outright instead of being suffixed.
func (s *State) Rename(connID, newNick string) (oldNick string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.conns[connID]
	if !ok {
		return "", domain.ErrNotRegistered
	}
	if old == newNick {
		return old, nil
	}
	if existing, ok := s.users[newNick]; ok && existing.connID != connID {
		return old, domain.ErrNicknameTaken
	}

	s.renameLocked(old, newNick)
	return old, nil
}

// renameLocked moves the user record and every membership entry from old to
// updated. Both sides of the membership relation update under the same lock.
func (s *State) renameLocked(old, updated string) {
	u := s.users[old]
	if u == nil {
		return
	}
	delete(s.users, old)
	u.nickname = updated
	s.users[updated] = u
	s.conns[u.connID] = updated

	for name := range u.channels {
		if ch, ok := s.channels[name]; ok {
			delete(ch.members, old)
			ch.members[updated] = struct{}{}
		}
	}
}
