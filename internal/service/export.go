package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ExportService flattens the stored itinerary of a trip into export rows.
type ExportService struct {
	trips repo.TripRepo
	plans repo.PlanRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, plans repo.PlanRepo) *ExportService {
	return &ExportService{trips: trips, plans: plans}
}

// Export returns one ExportRow per activity of the trip's plan.
// Days with no activities contribute one row with empty activity fields.
// A trip whose plan was never generated yields an empty, non-nil slice.
func (s *ExportService) Export(ctx context.Context, tripID domain.ID) ([]domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	plan, err := s.plans.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := domain.ExportRows(trip, plan.Data)
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	return rows, nil
}
