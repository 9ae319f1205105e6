package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// ChatRequest is the body of POST /generate-message-and-update-information.
type ChatRequest struct {
	TripID       string        `json:"trip_id"`
	UserMessage  string        `json:"user_message"`
	LastMessages []domain.Turn `json:"last_messages"`
}

// ChatResponse is the reply to one chat message.
type ChatResponse struct {
	TripID      string      `json:"trip_id"`
	BotResponse BotResponse `json:"bot_response"`
}

// BotResponse is the assistant's answer. Link is null unless a tool
// reported a booking link during the turn.
type BotResponse struct {
	Text string  `json:"text"`
	Link *string `json:"link"`
}

// GenerateMessage handles POST /generate-message-and-update-information.
// The reply is returned as soon as the agent answers; updating the
// information document continues in the background.
func (s *Server) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	tripID, err := parseID("trip_id", req.TripID)
	if err != nil {
		badRequest(w, err)
		return
	}

	resp, err := s.svc.Chat.Respond(r.Context(), service.ChatRequest{
		TripID:       tripID,
		UserMessage:  req.UserMessage,
		LastMessages: req.LastMessages,
	})
	if err != nil {
		s.respondError(w, r, "information", err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		TripID:      resp.TripID.Hex(),
		BotResponse: BotResponse{Text: resp.Text, Link: resp.Link},
	})
}
