package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/enrich"
	"github.com/pkordes/trip-planner/internal/repo"
)

// Generator produces an itinerary from travel information and an optional
// traveler profile. Satisfied by *chain.Generator.
type Generator interface {
	Generate(ctx context.Context, info domain.TravelInformation, profile string) (domain.Itinerary, error)
}

// Enricher fills place data into the activities of an itinerary.
// Satisfied by *enrich.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, it *domain.Itinerary) enrich.Stats
}

var _ Enricher = (*enrich.Enricher)(nil)

// PlanService generates and serves the itinerary of a trip.
type PlanService struct {
	trips     repo.TripRepo
	users     repo.UserRepo
	info      repo.InformationRepo
	plans     repo.PlanRepo
	generator Generator
	enricher  Enricher
	logger    *slog.Logger
}

// NewPlanService constructs a PlanService over the repos of store.
func NewPlanService(store repo.Store, generator Generator, enricher Enricher, logger *slog.Logger) *PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{
		trips:     store.Trips,
		users:     store.Users,
		info:      store.Information,
		plans:     store.Plans,
		generator: generator,
		enricher:  enricher,
		logger:    logger,
	}
}

// Generate builds a fresh itinerary for the trip, stores it, and marks the
// trip planned. The trip status changes only once the plan is stored.
// A *domain.GenerationFormatError means the model never produced valid JSON.
func (s *PlanService) Generate(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: %w", err)
	}

	var profile string
	if !trip.UserID.IsZero() {
		u, err := s.users.GetByID(ctx, trip.UserID)
		switch {
		case err == nil:
			profile = u.About
		case errors.Is(err, domain.ErrNotFound):
			s.logger.DebugContext(ctx, "trip owner not found, generating without profile", "trip_id", tripID.Hex())
		default:
			return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: user: %w", err)
		}
	}

	doc, err := s.info.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: %w", err)
	}

	it, err := s.generator.Generate(ctx, doc.Data, profile)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: %w", err)
	}
	it.Normalize()
	stats := s.enricher.Enrich(ctx, &it)

	plan, err := s.plans.Upsert(ctx, domain.PlanDocument{
		ID:        trip.PlanID,
		TripID:    tripID,
		Status:    domain.PlanStatusGenerated,
		Data:      it,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: %w", err)
	}

	if trip.Status != domain.TripStatusPlanned {
		if err := s.trips.SetStatus(ctx, tripID, domain.TripStatusPlanned); err != nil {
			return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Generate: status: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "plan generated",
		"trip_id", tripID.Hex(),
		"days", len(it.DailyPlan),
		"enriched", stats.Enriched,
		"lookup_failures", stats.Failed,
	)
	return plan, nil
}

// Get returns the stored plan of a trip.
func (s *PlanService) Get(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	plan, err := s.plans.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("service.PlanService.Get: %w", err)
	}
	return plan, nil
}
