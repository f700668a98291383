// Package state owns all mutable relay state: the connection registry,
// the channel directory and the nickname bindings. Every mutation goes
// through one mutex so concurrent joins, parts and renames never observe
// half-applied updates. Callers receive recipient connection IDs computed
// under the lock and perform fan-out after the mutation is applied.
package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stationv/relay/internal/domain"
)

const DefaultHistoryLimit = 100

type State struct {
	mu           sync.RWMutex
	conns        map[string]string // connection ID -> nickname
	users        map[string]*user  // nickname -> user
	channels     map[string]*channel
	nextID       int64
	historyLimit int
}

type user struct {
	nickname string
	kind     string
	connID   string
	channels map[string]struct{}
}

type channel struct {
	name    string
	members map[string]struct{} // nicknames
	log     []domain.Message
	topic   string
}

func New(historyLimit int) *State {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &State{
		conns:        make(map[string]string),
		users:        make(map[string]*user),
		channels:     make(map[string]*channel),
		historyLimit: historyLimit,
	}
}

// channelLocked returns the channel, creating it lazily. Channels are never
// deleted; an empty channel keeps its topic and history.
func (s *State) channelLocked(name string) *channel {
	ch, ok := s.channels[name]
	if !ok {
		ch = &channel{
			name:    name,
			members: make(map[string]struct{}),
		}
		s.channels[name] = ch
	}
	return ch
}

// recipientsLocked resolves a channel's member nicknames to live connection
// IDs, excluding the listed nicknames.
func (s *State) recipientsLocked(ch *channel, exclude ...string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, n := range exclude {
		skip[n] = struct{}{}
	}

	conns := make([]string, 0, len(ch.members))
	for nick := range ch.members {
		if _, ok := skip[nick]; ok {
			continue
		}
		if u, ok := s.users[nick]; ok {
			conns = append(conns, u.connID)
		}
	}
	sort.Strings(conns)
	return conns
}

func (s *State) snapshotLocked(ch *channel) domain.ChannelSnapshot {
	users := make([]domain.UserInfo, 0, len(ch.members))
	for nick := range ch.members {
		kind := domain.UserKindHuman
		if u, ok := s.users[nick]; ok {
			kind = u.kind
		}
		users = append(users, domain.UserInfo{Nickname: nick, Kind: kind})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Nickname < users[j].Nickname })

	messages := make([]domain.Message, len(ch.log))
	copy(messages, ch.log)

	return domain.ChannelSnapshot{
		Users:    users,
		Messages: messages,
		Topic:    ch.topic,
	}
}

// dedupeNicknameLocked implements the collision policy at entry: the first
// registrant keeps the name, a late registration is suffixed with a
// timestamp token instead of being rejected.
func (s *State) dedupeNicknameLocked(requested, connID string) string {
	if u, ok := s.users[requested]; !ok || u.connID == connID {
		return requested
	}
	candidate := fmt.Sprintf("%s_%d", requested, time.Now().UnixMilli())
	for {
		if _, ok := s.users[candidate]; !ok {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", requested, time.Now().UnixNano())
	}
}
