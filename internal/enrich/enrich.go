// Package enrich adds map coordinates to the activities of a generated itinerary.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/metrics"
	"github.com/pkordes/trip-planner/internal/places"
)

// PlaceFinder resolves a location name within a city to a place.
// *places.Client satisfies it.
type PlaceFinder interface {
	FindPlace(ctx context.Context, name, city string) (places.Place, error)
}

var _ PlaceFinder = (*places.Client)(nil)

// LookupError describes a failed lookup for one activity. Enrich logs and
// counts these; they are never returned.
type LookupError struct {
	Day      int
	Activity int
	Location string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("enrich: day %d activity %d %q: %v", e.Day, e.Activity, e.Location, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Stats summarizes one Enrich pass.
type Stats struct {
	Enriched int
	Skipped  int
	Failed   int
}

// Enricher fills place fields on itinerary activities.
type Enricher struct {
	finder  PlaceFinder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New returns an Enricher. Nil m and logger are allowed.
func New(finder PlaceFinder, m *metrics.Metrics, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{finder: finder, metrics: m, logger: logger}
}

// Enrich looks up every activity that names a location and has no
// coordinates yet, one lookup per activity. Activities whose lookup fails
// are left as they were. Running Enrich again on its own output makes no
// lookups for the activities it already enriched.
func (e *Enricher) Enrich(ctx context.Context, it *domain.Itinerary) Stats {
	var st Stats
	for di := range it.DailyPlan {
		day := &it.DailyPlan[di]
		city := deref(day.City)
		for ai := range day.Activities {
			act := &day.Activities[ai]
			name := deref(act.LocationName)
			if name == "" || act.Enriched() {
				st.Skipped++
				e.metrics.PlaceLookup(metrics.OutcomeSkip)
				continue
			}

			p, err := e.finder.FindPlace(ctx, name, city)
			if err != nil {
				st.Failed++
				e.metrics.PlaceLookup(metrics.OutcomeError)
				lerr := &LookupError{Day: di + 1, Activity: ai + 1, Location: name, Err: err}
				level := slog.LevelWarn
				if errors.Is(err, places.ErrNoResults) {
					level = slog.LevelInfo
				}
				e.logger.Log(ctx, level, "place lookup failed", "error", lerr)
				continue
			}

			apply(act, p)
			st.Enriched++
			e.metrics.PlaceLookup(metrics.OutcomeOK)
		}
	}
	return st
}

func apply(a *domain.Activity, p places.Place) {
	lat, lng := p.Lat, p.Lng
	a.Lat, a.Lng = &lat, &lng
	a.PlaceID = strPtr(p.PlaceID)
	a.FormattedAddress = strPtr(p.FormattedAddress)
	a.MapsURL = strPtr(p.MapsURL())
	a.PhotoReference = strPtr(p.PhotoReference)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
