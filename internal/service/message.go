package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// MessageService persists the chat transcript of a trip.
type MessageService struct {
	trips    repo.TripRepo
	messages repo.MessageRepo
}

// NewMessageService constructs a MessageService.
func NewMessageService(trips repo.TripRepo, messages repo.MessageRepo) *MessageService {
	return &MessageService{trips: trips, messages: messages}
}

// Create stores a message for an existing trip.
func (s *MessageService) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	if strings.TrimSpace(m.Text) == "" {
		return domain.Message{}, fmt.Errorf("service.MessageService.Create: %w: text is required", domain.ErrValidation)
	}
	if _, err := s.trips.GetByID(ctx, m.TripID); err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Create: trip: %w", err)
	}
	if m.Link != nil && strings.TrimSpace(*m.Link) == "" {
		m.Link = nil
	}
	m.ID = domain.NilID

	created, err := s.messages.Create(ctx, m)
	if err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Create: %w", err)
	}
	return created, nil
}

// ListByTrip returns the messages of a trip, oldest first, capped at
// repo.MaxMessagesPerTrip.
func (s *MessageService) ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error) {
	msgs, err := s.messages.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MessageService.ListByTrip: %w", err)
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}
