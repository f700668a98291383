package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/stationv/relay/internal/config"
	"github.com/stationv/relay/internal/domain"
	"github.com/stationv/relay/internal/hub"
	"github.com/stationv/relay/internal/log"
	"github.com/stationv/relay/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub     *hub.Hub
	service service.RelayService
	wsCfg   config.WebSocketConfig
	wsPath  string
}

func NewWSHandler(h *hub.Hub, svc service.RelayService, cfg config.ServerConfig, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
		wsPath:  cfg.WSPath,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.Ctx(r.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleFrame, h.onClose)
}

// handleFrame dispatches one inbound frame on its type tag. Malformed
// payloads and unknown tags are logged and dropped; they never terminate
// the connection.
func (h *WSHandler) handleFrame(client *hub.Client, message []byte) {
	ctx := context.Background()
	l := log.L().With().Str(log.FieldConnID, client.ID).Logger()

	var base domain.BaseFrame
	if err := json.Unmarshal(message, &base); err != nil {
		l.Debug().Err(err).Msg("unparsable frame dropped")
		return
	}

	switch base.Type {
	case domain.FrameTypeRegister, domain.FrameTypeConfig:
		var frame domain.RegisterFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Nickname == "" {
			l.Debug().Msg("malformed register frame dropped")
			return
		}
		if err := h.service.HandleRegister(ctx, client, frame.Nickname, frame.Channels); err != nil {
			l.Warn().Err(err).Msg("register failed")
		}

	case domain.FrameTypeJoin:
		var frame domain.JoinFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Channel == "" {
			l.Debug().Msg("malformed join frame dropped")
			return
		}
		if err := h.service.HandleJoin(ctx, client, frame.Nickname, frame.Channel); err != nil {
			l.Warn().Err(err).Msg("join failed")
		}

	case domain.FrameTypePart:
		var frame domain.PartFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Channel == "" {
			l.Debug().Msg("malformed part frame dropped")
			return
		}
		if err := h.service.HandlePart(ctx, client, frame.Channel); err != nil {
			l.Warn().Err(err).Msg("part failed")
		}

	case domain.FrameTypeMessage:
		var frame domain.MessageFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Channel == "" {
			l.Debug().Msg("malformed message frame dropped")
			return
		}
		if err := h.service.HandleMessage(ctx, client, frame.Channel, frame.Content); err != nil {
			l.Warn().Err(err).Msg("message failed")
		}

	case domain.FrameTypeAIMessage:
		var frame domain.AIMessageFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Channel == "" || frame.Nickname == "" {
			l.Debug().Msg("malformed ai_message frame dropped")
			return
		}
		if err := h.service.HandleAIMessage(ctx, client, frame.Channel, frame.Content, frame.Nickname); err != nil {
			l.Warn().Err(err).Msg("ai_message failed")
		}

	case domain.FrameTypeNick:
		var frame domain.NickFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			l.Debug().Msg("malformed nick frame dropped")
			return
		}
		if err := h.service.HandleNick(ctx, client, frame.NewNickname); err != nil {
			l.Warn().Err(err).Msg("nick failed")
		}

	case domain.FrameTypeTopic:
		var frame domain.TopicFrame
		if err := json.Unmarshal(message, &frame); err != nil || frame.Channel == "" {
			l.Debug().Msg("malformed topic frame dropped")
			return
		}
		if err := h.service.HandleTopic(ctx, client, frame.Channel, frame.Topic); err != nil {
			l.Warn().Err(err).Msg("topic failed")
		}

	case domain.FrameTypePing:
		client.SendFrame(map[string]string{"type": domain.FrameTypePong})

	default:
		l.Debug().Str("frame_type", base.Type).Msg("unknown frame type dropped")
	}
}

func (h *WSHandler) onClose(client *hub.Client) {
	if err := h.service.HandleDisconnect(context.Background(), client); err != nil {
		l := log.L()
		l.Warn().Str(log.FieldConnID, client.ID).Err(err).Msg("disconnect handling failed")
	}
}

func (h *WSHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(h.wsPath, h.HandleWebSocket)
}
