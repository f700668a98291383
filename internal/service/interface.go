package service

import (
	"context"

	"github.com/stationv/relay/internal/hub"
)

// RelayService routes inbound frames to relay state mutations and fan-out.
type RelayService interface {
	HandleRegister(ctx context.Context, c *hub.Client, nickname string, channels []string) error
	HandleJoin(ctx context.Context, c *hub.Client, nickname, channel string) error
	HandlePart(ctx context.Context, c *hub.Client, channel string) error
	HandleMessage(ctx context.Context, c *hub.Client, channel, content string) error
	HandleAIMessage(ctx context.Context, c *hub.Client, channel, content, nickname string) error
	HandleNick(ctx context.Context, c *hub.Client, newNickname string) error
	HandleTopic(ctx context.Context, c *hub.Client, channel, topic string) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}
