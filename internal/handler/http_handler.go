package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stationv/relay/internal/domain"
	"github.com/stationv/relay/internal/state"
)

// HTTPHandler serves the read-only admin API over the relay state.
type HTTPHandler struct {
	state *state.State
}

func NewHTTPHandler(st *state.State) *HTTPHandler {
	return &HTTPHandler{state: st}
}

// ChannelsResponse is the API response for the channel listing.
type ChannelsResponse struct {
	Channels []domain.ChannelSummary `json:"channels"`
	Total    int                     `json:"total"`
}

// MembersResponse is the API response for a channel member listing.
type MembersResponse struct {
	Channel string   `json:"channel"`
	Members []string `json:"members"`
	Total   int      `json:"total"`
}

// GetChannels handles GET /api/v1/channels
func (h *HTTPHandler) GetChannels(w http.ResponseWriter, r *http.Request) {
	channels := h.state.Channels()

	response := ChannelsResponse{
		Channels: channels,
		Total:    len(channels),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetMembers handles GET /api/v1/channels/{channel}/members
func (h *HTTPHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	channel := vars["channel"]

	if channel == "" {
		http.Error(w, "channel is required", http.StatusBadRequest)
		return
	}

	members := h.state.MembersOf(channel)
	if members == nil {
		members = []string{}
	}

	response := MembersResponse{
		Channel: channel,
		Members: members,
		Total:   len(members),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HealthCheck handles GET /health
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
