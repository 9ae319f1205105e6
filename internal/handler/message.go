package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// CreateMessageRequest is the body of POST /messages.
type CreateMessageRequest struct {
	TripID string  `json:"trip_id"`
	Text   string  `json:"text"`
	IsUser bool    `json:"isUser"`
	Link   *string `json:"link"`
}

// CreateMessage handles POST /messages.
func (s *Server) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req CreateMessageRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	tripID, err := parseID("trip_id", req.TripID)
	if err != nil {
		badRequest(w, err)
		return
	}

	m, err := s.svc.Messages.Create(r.Context(), domain.Message{
		TripID: tripID,
		Text:   req.Text,
		IsUser: req.IsUser,
		Link:   req.Link,
	})
	if err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// ListMessages handles GET /messages/trip/{trip_id}, oldest first.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "trip_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	msgs, err := s.svc.Messages.ListByTrip(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
