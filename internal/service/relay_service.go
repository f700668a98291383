package service

import (
	"context"
	"errors"
	"sync"

	"github.com/stationv/relay/internal/audit"
	"github.com/stationv/relay/internal/domain"
	"github.com/stationv/relay/internal/firehose"
	"github.com/stationv/relay/internal/hub"
	"github.com/stationv/relay/internal/log"
	"github.com/stationv/relay/internal/state"
)

type relayService struct {
	// mu serializes each inbound operation end to end, so fan-out order per
	// channel always matches the order mutations were applied.
	mu       sync.Mutex
	state    *state.State
	hub      *hub.Hub
	producer firehose.Producer // nil when the firehose is disabled
}

func NewRelayService(st *state.State, h *hub.Hub, producer firehose.Producer) RelayService {
	return &relayService{
		state:    st,
		hub:      h,
		producer: producer,
	}
}

func (s *relayService) HandleRegister(ctx context.Context, c *hub.Client, nickname string, channels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assigned := s.state.Register(c.ID, nickname, domain.UserKindHuman)

	audit.Log(ctx, audit.ActionRegister, assigned, "client registered")

	if err := c.SendFrame(&domain.RegisteredFrame{
		Type:     domain.FrameTypeRegistered,
		Nickname: assigned,
		Success:  true,
	}); err != nil {
		return err
	}

	for _, channel := range channels {
		if channel == "" {
			continue
		}
		if err := s.joinLocked(ctx, c, channel); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Str(log.FieldChannel, channel).Err(err).Msg("auto-join failed")
		}
	}
	return nil
}

func (s *relayService) HandleJoin(ctx context.Context, c *hub.Client, nickname, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A join from an unregistered connection that carries a nickname
	// registers it implicitly; users are created on first join.
	if _, ok := s.state.Lookup(c.ID); !ok {
		if nickname == "" {
			return c.SendFrame(domain.NewErrorFrame("nickname required"))
		}
		s.state.Register(c.ID, nickname, domain.UserKindHuman)
	}

	return s.joinLocked(ctx, c, channel)
}

// joinLocked performs the join and delivers the snapshot to the joiner
// before the user_joined event reaches existing members, so a late joiner
// always catches up on a consistent already-joined view.
func (s *relayService) joinLocked(ctx context.Context, c *hub.Client, channel string) error {
	res, err := s.state.Join(c.ID, channel)
	if err != nil {
		return c.SendFrame(domain.NewErrorFrame(err.Error()))
	}

	audit.LogWithDetail(ctx, audit.ActionJoin, res.Nickname, channel, "user joined channel")

	if err := c.SendFrame(&domain.JoinedFrame{
		Type:        domain.FrameTypeJoined,
		Channel:     channel,
		Nickname:    res.Nickname,
		ChannelData: res.Snapshot,
	}); err != nil {
		return err
	}

	s.hub.SendTo(res.Existing, &domain.PresenceFrame{
		Type:     domain.FrameTypeUserJoined,
		Nickname: res.Nickname,
		Channel:  channel,
	})
	return nil
}

func (s *relayService) HandlePart(ctx context.Context, c *hub.Client, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, remaining, err := s.state.Part(c.ID, channel)
	if err != nil {
		// Parting a channel you are not in is a silent no-op.
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldChannel, channel).Err(err).Msg("part ignored")
		return nil
	}

	audit.LogWithDetail(ctx, audit.ActionPart, nick, channel, "user parted channel")

	s.hub.SendTo(remaining, &domain.PresenceFrame{
		Type:     domain.FrameTypeUserParted,
		Nickname: nick,
		Channel:  channel,
	})
	return nil
}

func (s *relayService) HandleMessage(ctx context.Context, c *hub.Client, channel, content string) error {
	return s.postMessage(ctx, c, channel, content, domain.MessageKindUser, "", domain.FrameTypeMessage)
}

func (s *relayService) HandleAIMessage(ctx context.Context, c *hub.Client, channel, content, nickname string) error {
	return s.postMessage(ctx, c, channel, content, domain.MessageKindAI, nickname, domain.FrameTypeAIMessage)
}

func (s *relayService) postMessage(ctx context.Context, c *hub.Client, channel, content, kind, author, frameType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, recipients, err := s.state.PostMessage(c.ID, channel, content, kind, author)
	switch {
	case errors.Is(err, domain.ErrUnknownChannel):
		// Sending to a channel that does not exist is not actionable by the
		// caller; log and drop.
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldChannel, channel).Msg("message to unknown channel dropped")
		return nil
	case err != nil:
		return c.SendFrame(domain.NewErrorFrame(err.Error()))
	}

	audit.LogWithDetail(ctx, audit.ActionMessage, msg.Nickname, channel, "message posted")

	// Fan-out includes the sender for local echo.
	s.hub.SendTo(recipients, &domain.MessageEventFrame{
		Type:    frameType,
		Message: msg,
		Channel: channel,
	})

	if s.producer != nil {
		if err := s.producer.Produce(ctx, channel, msg); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Str(log.FieldChannel, channel).Err(err).Msg("firehose produce failed")
		}
	}
	return nil
}

func (s *relayService) HandleNick(ctx context.Context, c *hub.Client, newNickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newNickname == "" {
		return c.SendFrame(domain.NewErrorFrame("nickname required"))
	}

	old, err := s.state.Rename(c.ID, newNickname)
	switch {
	case errors.Is(err, domain.ErrNicknameTaken):
		return c.SendFrame(domain.NewErrorFrame("Nickname already in use"))
	case err != nil:
		return c.SendFrame(domain.NewErrorFrame(err.Error()))
	}
	if old == newNickname {
		return nil
	}

	audit.LogWithDetail(ctx, audit.ActionNick, old, newNickname, "nickname changed")

	// nick_change goes to every connection, not just shared-channel members.
	s.hub.Broadcast(&domain.NickChangeFrame{
		Type:        domain.FrameTypeNickChange,
		OldNickname: old,
		NewNickname: newNickname,
	})
	return nil
}

func (s *relayService) HandleTopic(ctx context.Context, c *hub.Client, channel, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick, members, err := s.state.SetTopic(c.ID, channel, topic)
	if err != nil {
		return c.SendFrame(domain.NewErrorFrame(err.Error()))
	}

	audit.LogWithDetail(ctx, audit.ActionTopic, nick, channel, "topic changed")

	s.hub.SendTo(members, &domain.TopicChangeFrame{
		Type:     domain.FrameTypeTopicChange,
		Channel:  channel,
		Topic:    topic,
		Nickname: nick,
	})
	return nil
}

func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.state.Unregister(c.ID)
	if res == nil {
		return nil
	}

	audit.Log(ctx, audit.ActionDisconnect, res.Nickname, "client disconnected")

	for _, part := range res.Parts {
		s.hub.SendTo(part.Remaining, &domain.PresenceFrame{
			Type:     domain.FrameTypeUserParted,
			Nickname: res.Nickname,
			Channel:  part.Channel,
		})
	}

	s.hub.Broadcast(&domain.PresenceFrame{
		Type:     domain.FrameTypeUserQuit,
		Nickname: res.Nickname,
	})
	return nil
}
