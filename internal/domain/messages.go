package domain

// WebSocket frame types from client.
const (
	FrameTypeRegister  = "register"
	FrameTypeConfig    = "config" // legacy alias for register
	FrameTypeJoin      = "join"
	FrameTypePart      = "part"
	FrameTypeMessage   = "message"
	FrameTypeAIMessage = "ai_message"
	FrameTypeNick      = "nick"
	FrameTypeTopic     = "topic"
	FrameTypePing      = "ping"
)

// WebSocket frame types to client.
const (
	FrameTypeRegistered  = "registered"
	FrameTypeJoined      = "joined"
	FrameTypeUserJoined  = "user_joined"
	FrameTypeUserParted  = "user_parted"
	FrameTypeUserQuit    = "user_quit"
	FrameTypeNickChange  = "nick_change"
	FrameTypeTopicChange = "topic_change"
	FrameTypeError       = "error"
	FrameTypePong        = "pong"
)

// BaseFrame is the base structure for all WebSocket frames; only the type
// discriminator is decoded before dispatch.
type BaseFrame struct {
	Type string `json:"type"`
}

// Client -> Server frames

type RegisterFrame struct {
	Type     string   `json:"type"`
	Nickname string   `json:"nickname"`
	Channels []string `json:"channels,omitempty"`
}

type JoinFrame struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname,omitempty"`
	Channel  string `json:"channel"`
}

type PartFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type MessageFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Content string `json:"content"`
}

// AIMessageFrame carries content authored by a virtual user; the nickname
// names the virtual author, not the sending connection.
type AIMessageFrame struct {
	Type     string `json:"type"`
	Channel  string `json:"channel"`
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
}

type NickFrame struct {
	Type        string `json:"type"`
	NewNickname string `json:"newNickname"`
}

type TopicFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Topic   string `json:"topic"`
}

// Server -> Client frames

type RegisteredFrame struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
	Success  bool   `json:"success"`
}

// ChannelSnapshot is the catch-up view sent to a client on join, before any
// broadcast that the join itself triggers.
type ChannelSnapshot struct {
	Users    []UserInfo `json:"users"`
	Messages []Message  `json:"messages"`
	Topic    string     `json:"topic"`
}

type JoinedFrame struct {
	Type        string          `json:"type"`
	Channel     string          `json:"channel"`
	Nickname    string          `json:"nickname"`
	ChannelData ChannelSnapshot `json:"channelData"`
}

// PresenceFrame covers user_joined, user_parted and user_quit events.
// Channel is empty for user_quit, which is not scoped to one channel.
type PresenceFrame struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname"`
	Channel  string `json:"channel,omitempty"`
}

type MessageEventFrame struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
	Channel string  `json:"channel"`
}

type NickChangeFrame struct {
	Type        string `json:"type"`
	OldNickname string `json:"oldNickname"`
	NewNickname string `json:"newNickname"`
}

type TopicChangeFrame struct {
	Type     string `json:"type"`
	Channel  string `json:"channel"`
	Topic    string `json:"topic"`
	Nickname string `json:"nickname"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorFrame(message string) *ErrorFrame {
	return &ErrorFrame{
		Type:    FrameTypeError,
		Message: message,
	}
}
