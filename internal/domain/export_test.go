package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
)

func TestExportRows_OneRowPerActivity(t *testing.T) {
	trip := domain.Trip{ID: domain.NewID(), Name: "Portugal"}
	it := domain.Itinerary{
		DailyPlan: []domain.Day{
			{
				Day:  ptr(1),
				City: ptr("Lisbon"),
				Activities: []domain.Activity{
					{Title: ptr("Alfama walk"), Tags: []string{"walk"}},
					{Title: ptr("Fado dinner"), MapsURL: ptr("https://maps")},
				},
			},
			{Day: ptr(2), City: ptr("Sintra")},
		},
	}

	rows := domain.ExportRows(trip, it)

	require.Len(t, rows, 3)
	assert.Equal(t, "Portugal", rows[0].TripName)
	assert.Equal(t, trip.ID.Hex(), rows[0].TripID)
	assert.Equal(t, "Alfama walk", rows[0].Title)
	assert.Equal(t, []string{"walk"}, rows[0].Tags)
	assert.Equal(t, "https://maps", rows[1].MapsURL)
	assert.Equal(t, 2, rows[2].Day)
	assert.Equal(t, "Sintra", rows[2].City)
	assert.Empty(t, rows[2].Title)
}

func TestExportRows_ItineraryNameWins(t *testing.T) {
	trip := domain.Trip{ID: domain.NewID(), Name: "draft"}
	it := domain.Itinerary{TripName: ptr("Lisbon Long Weekend"), DailyPlan: []domain.Day{{}}}

	rows := domain.ExportRows(trip, it)

	require.Len(t, rows, 1)
	assert.Equal(t, "Lisbon Long Weekend", rows[0].TripName)
	assert.Equal(t, 1, rows[0].Day)
}
