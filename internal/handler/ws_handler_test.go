package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationv/relay/internal/config"
	"github.com/stationv/relay/internal/hub"
)

// recordingService captures which handler was invoked and with what.
type recordingService struct {
	calls []string
	args  map[string]string
}

func newRecordingService() *recordingService {
	return &recordingService{args: map[string]string{}}
}

func (s *recordingService) HandleRegister(_ context.Context, _ *hub.Client, nickname string, channels []string) error {
	s.calls = append(s.calls, "register")
	s.args["nickname"] = nickname
	if len(channels) > 0 {
		s.args["channel"] = channels[0]
	}
	return nil
}

func (s *recordingService) HandleJoin(_ context.Context, _ *hub.Client, nickname, channel string) error {
	s.calls = append(s.calls, "join")
	s.args["nickname"] = nickname
	s.args["channel"] = channel
	return nil
}

func (s *recordingService) HandlePart(_ context.Context, _ *hub.Client, channel string) error {
	s.calls = append(s.calls, "part")
	s.args["channel"] = channel
	return nil
}

func (s *recordingService) HandleMessage(_ context.Context, _ *hub.Client, channel, content string) error {
	s.calls = append(s.calls, "message")
	s.args["channel"] = channel
	s.args["content"] = content
	return nil
}

func (s *recordingService) HandleAIMessage(_ context.Context, _ *hub.Client, channel, content, nickname string) error {
	s.calls = append(s.calls, "ai_message")
	s.args["channel"] = channel
	s.args["content"] = content
	s.args["nickname"] = nickname
	return nil
}

func (s *recordingService) HandleNick(_ context.Context, _ *hub.Client, newNickname string) error {
	s.calls = append(s.calls, "nick")
	s.args["nickname"] = newNickname
	return nil
}

func (s *recordingService) HandleTopic(_ context.Context, _ *hub.Client, channel, topic string) error {
	s.calls = append(s.calls, "topic")
	s.args["channel"] = channel
	s.args["topic"] = topic
	return nil
}

func (s *recordingService) HandleDisconnect(_ context.Context, _ *hub.Client) error {
	s.calls = append(s.calls, "disconnect")
	return nil
}

func TestHandleFrameDispatch(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantCall string
		wantArgs map[string]string
	}{
		{
			name:     "register",
			payload:  `{"type":"register","nickname":"alice","channels":["#lobby"]}`,
			wantCall: "register",
			wantArgs: map[string]string{"nickname": "alice", "channel": "#lobby"},
		},
		{
			name:     "config alias routes to register",
			payload:  `{"type":"config","nickname":"alice"}`,
			wantCall: "register",
			wantArgs: map[string]string{"nickname": "alice"},
		},
		{
			name:     "join",
			payload:  `{"type":"join","nickname":"alice","channel":"#test"}`,
			wantCall: "join",
			wantArgs: map[string]string{"nickname": "alice", "channel": "#test"},
		},
		{
			name:     "part",
			payload:  `{"type":"part","channel":"#test"}`,
			wantCall: "part",
			wantArgs: map[string]string{"channel": "#test"},
		},
		{
			name:     "message",
			payload:  `{"type":"message","channel":"#test","content":"hi"}`,
			wantCall: "message",
			wantArgs: map[string]string{"channel": "#test", "content": "hi"},
		},
		{
			name:     "ai_message",
			payload:  `{"type":"ai_message","channel":"#test","content":"beep","nickname":"HAL"}`,
			wantCall: "ai_message",
			wantArgs: map[string]string{"channel": "#test", "content": "beep", "nickname": "HAL"},
		},
		{
			name:     "nick",
			payload:  `{"type":"nick","newNickname":"bob"}`,
			wantCall: "nick",
			wantArgs: map[string]string{"nickname": "bob"},
		},
		{
			name:     "topic",
			payload:  `{"type":"topic","channel":"#test","topic":"launch"}`,
			wantCall: "topic",
			wantArgs: map[string]string{"channel": "#test", "topic": "launch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRecordingService()
			h := NewWSHandler(hub.NewHub(), svc, config.ServerConfig{WSPath: "/irc"}, config.WebSocketConfig{})
			client := hub.NewClient("conn-a", h.hub, nil, config.WebSocketConfig{})
			h.hub.Register(client)

			h.handleFrame(client, []byte(tt.payload))

			assert.Equal(t, []string{tt.wantCall}, svc.calls)
			for k, v := range tt.wantArgs {
				assert.Equal(t, v, svc.args[k])
			}
		})
	}
}

func TestHandleFrameDropsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `this is not json`},
		{"unknown type", `{"type":"dance"}`},
		{"register without nickname", `{"type":"register"}`},
		{"join without channel", `{"type":"join","nickname":"alice"}`},
		{"part without channel", `{"type":"part"}`},
		{"message without channel", `{"type":"message","content":"hi"}`},
		{"ai_message without nickname", `{"type":"ai_message","channel":"#test","content":"x"}`},
		{"topic without channel", `{"type":"topic","topic":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRecordingService()
			h := NewWSHandler(hub.NewHub(), svc, config.ServerConfig{WSPath: "/irc"}, config.WebSocketConfig{})
			client := hub.NewClient("conn-a", h.hub, nil, config.WebSocketConfig{})
			h.hub.Register(client)

			h.handleFrame(client, []byte(tt.payload))

			assert.Empty(t, svc.calls, "bad input must not reach the service")
		})
	}
}

func TestHandleFramePing(t *testing.T) {
	svc := newRecordingService()
	h := NewWSHandler(hub.NewHub(), svc, config.ServerConfig{WSPath: "/irc"}, config.WebSocketConfig{})
	client := hub.NewClient("conn-a", h.hub, nil, config.WebSocketConfig{})
	h.hub.Register(client)

	h.handleFrame(client, []byte(`{"type":"ping"}`))

	assert.Empty(t, svc.calls)
	select {
	case data := <-client.Send:
		assert.JSONEq(t, `{"type":"pong"}`, string(data))
	default:
		t.Fatal("expected pong frame")
	}
}

func TestOnCloseDispatchesDisconnect(t *testing.T) {
	svc := newRecordingService()
	h := NewWSHandler(hub.NewHub(), svc, config.ServerConfig{WSPath: "/irc"}, config.WebSocketConfig{})
	client := hub.NewClient("conn-a", h.hub, nil, config.WebSocketConfig{})

	h.onClose(client)

	assert.Equal(t, []string{"disconnect"}, svc.calls)
}
