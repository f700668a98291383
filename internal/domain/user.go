package domain

// Participant kinds. Informational only; the relay treats all kinds alike.
const (
	UserKindHuman   = "human"
	UserKindVirtual = "virtual"
	UserKindBot     = "bot"
)

// UserInfo is the public view of a participant, as sent in channel snapshots.
type UserInfo struct {
	Nickname string `json:"nickname"`
	Kind     string `json:"type"`
}

// ChannelSummary is the public view of a channel for the admin API.
type ChannelSummary struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
	Topic   string `json:"topic"`
}
