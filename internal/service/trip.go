// Package service contains the business logic of the trip planner.
// Services validate inputs, enforce business rules, and orchestrate repo and
// model calls. No queries live here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	trips    repo.TripRepo
	info     repo.InformationRepo
	plans    repo.PlanRepo
	messages repo.MessageRepo
	sessions SessionResetter
	logger   *slog.Logger
}

// SessionResetter forgets the in-process conversation of a trip. Satisfied by
// *agent.Sessions.
type SessionResetter interface {
	Reset(tripID domain.ID)
}

// NewTripService constructs a TripService over the repos of store.
func NewTripService(store repo.Store, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{
		trips:    store.Trips,
		info:     store.Information,
		plans:    store.Plans,
		messages: store.Messages,
		logger:   logger,
	}
}

// WithSessions makes Delete drop the trip's conversation memory as well.
func (s *TripService) WithSessions(sessions SessionResetter) *TripService {
	s.sessions = sessions
	return s
}

// Create validates and persists a new trip together with its skeleton
// information document and placeholder plan. The ids of both documents are
// assigned before any write so the trip references them from the start.
func (s *TripService) Create(ctx context.Context, userID domain.ID, name string) (domain.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: name is required", domain.ErrValidation)
	}
	if userID.IsZero() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: user_id is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	trip, err := s.trips.Create(ctx, domain.Trip{
		ID:            domain.NewID(),
		UserID:        userID,
		Name:          name,
		Status:        domain.TripStatusPlanning,
		InformationID: domain.NewID(),
		PlanID:        domain.NewID(),
		CreatedAt:     now,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if _, err := s.info.Create(ctx, domain.InformationDocument{
		ID:        trip.InformationID,
		TripID:    trip.ID,
		Data:      domain.NewTravelInformation(),
		Checklist: []domain.Checklist{},
		UpdatedAt: now,
	}); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: information: %w", err)
	}

	if _, err := s.plans.Create(ctx, domain.PlanDocument{
		ID:        trip.PlanID,
		TripID:    trip.ID,
		Status:    domain.PlanStatusPending,
		Data:      domain.NewItinerary(),
		UpdatedAt: now,
	}); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: plan: %w", err)
	}

	s.logger.Info("trip created", "trip_id", trip.ID.Hex(), "user_id", userID.Hex())
	return trip, nil
}

// GetByID returns a single trip.
func (s *TripService) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListByUser returns the trips of a user, newest first. Never nil.
func (s *TripService) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByUser: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Delete removes a trip and everything that belongs to it: messages, the
// information document, and the plan. A missing dependent is not an error.
func (s *TripService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if s.sessions != nil {
		s.sessions.Reset(id)
	}
	if err := s.messages.DeleteByTrip(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: messages: %w", err)
	}
	if err := s.info.DeleteByTrip(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.TripService.Delete: information: %w", err)
	}
	if err := s.plans.DeleteByTrip(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: plan: %w", err)
	}
	return nil
}
