package state

import (
	"sort"
	"time"

	"github.com/stationv/relay/internal/domain"
)

// Channel directory: authoritative channel name -> channel state mapping.

// JoinResult carries everything the router needs after a join: the snapshot
// for the joiner (computed after the membership update, so the joiner sees
// itself in the member list) and the connections of the members that were
// already present.
type JoinResult struct {
	Nickname string
	Snapshot domain.ChannelSnapshot
	Existing []string
}

// Join adds the connection's user to a channel, creating the channel lazily.
// Joining a channel twice is a no-op that still returns a fresh snapshot.
func (s *State) Join(connID, channelName string) (*JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.conns[connID]
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	u := s.users[nick]

	ch := s.channelLocked(channelName)
	existing := s.recipientsLocked(ch, nick)

	_, already := ch.members[nick]
	ch.members[nick] = struct{}{}
	u.channels[channelName] = struct{}{}
	if already {
		// Do not re-announce a member that never left.
		existing = nil
	}

	return &JoinResult{
		Nickname: nick,
		Snapshot: s.snapshotLocked(ch),
		Existing: existing,
	}, nil
}

// Part removes the user from a channel. The channel itself persists even
// when empty. Returns the remaining member connections for notification.
func (s *State) Part(connID, channelName string) (nickname string, remaining []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.conns[connID]
	if !ok {
		return "", nil, domain.ErrNotRegistered
	}

	ch, ok := s.channels[channelName]
	if !ok {
		return nick, nil, domain.ErrUnknownChannel
	}
	if _, ok := ch.members[nick]; !ok {
		return nick, nil, domain.ErrNotAMember
	}

	delete(ch.members, nick)
	delete(s.users[nick].channels, channelName)
	return nick, s.recipientsLocked(ch), nil
}

// PostMessage appends a message to the channel log, evicting the oldest
// entry beyond the history limit, and returns the stored message together
// with every member connection (the author included, for local echo).
// authorOverride substitutes the author nickname for virtual-user messages.
func (s *State) PostMessage(connID, channelName, content, kind, authorOverride string) (domain.Message, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.conns[connID]
	if !ok {
		return domain.Message{}, nil, domain.ErrNotRegistered
	}

	ch, ok := s.channels[channelName]
	if !ok {
		return domain.Message{}, nil, domain.ErrUnknownChannel
	}
	if _, ok := ch.members[nick]; !ok {
		return domain.Message{}, nil, domain.ErrNotAMember
	}

	author := nick
	if authorOverride != "" {
		author = authorOverride
	}

	s.nextID++
	msg := domain.Message{
		ID:        s.nextID,
		Nickname:  author,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
	}

	ch.log = append(ch.log, msg)
	if len(ch.log) > s.historyLimit {
		ch.log = ch.log[len(ch.log)-s.historyLimit:]
	}

	return msg, s.recipientsLocked(ch), nil
}

// SetTopic updates a channel's topic. The caller must be a member.
func (s *State) SetTopic(connID, channelName, topic string) (nickname string, members []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, ok := s.conns[connID]
	if !ok {
		return "", nil, domain.ErrNotRegistered
	}

	ch, ok := s.channels[channelName]
	if !ok {
		return nick, nil, domain.ErrUnknownChannel
	}
	if _, ok := ch.members[nick]; !ok {
		return nick, nil, domain.ErrNotAMember
	}

	ch.topic = topic
	return nick, s.recipientsLocked(ch), nil
}

// MembersOf returns the current member nicknames, empty if the channel is
// unknown.
func (s *State) MembersOf(channelName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[channelName]
	if !ok {
		return nil
	}
	members := make([]string, 0, len(ch.members))
	for nick := range ch.members {
		members = append(members, nick)
	}
	sort.Strings(members)
	return members
}

// ChannelsOf returns the channels a user is currently joined to, empty if
// the nickname is unknown.
func (s *State) ChannelsOf(nickname string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[nickname]
	if !ok {
		return nil
	}
	channels := make([]string, 0, len(u.channels))
	for name := range u.channels {
		channels = append(channels, name)
	}
	sort.Strings(channels)
	return channels
}

// Channels lists all channels for the admin API.
func (s *State) Channels() []domain.ChannelSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.ChannelSummary, 0, len(s.channels))
	for _, ch := range s.channels {
		summaries = append(summaries, domain.ChannelSummary{
			Name:    ch.name,
			Members: len(ch.members),
			Topic:   ch.topic,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}
