package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
)

func TestItinerary_Normalize_FillsNilLists(t *testing.T) {
	var it domain.Itinerary
	require.NoError(t, json.Unmarshal([]byte(`{
		"trip_name": "Lisbon",
		"daily_plan": [{"day": 1, "activities": [{"title": "Tram 28"}]}, {"day": 2}]
	}`), &it))

	it.Normalize()

	assert.Equal(t, []string{}, it.DestinationCities)
	assert.Equal(t, []string{}, it.GeneralNotes)
	assert.Equal(t, []domain.EmergencyContact{}, it.EmergencyContacts)
	require.Len(t, it.DailyPlan, 2)
	assert.Equal(t, []string{}, it.DailyPlan[0].Activities[0].Tags)
	assert.Equal(t, []domain.Activity{}, it.DailyPlan[1].Activities)
}

func TestItinerary_Normalize_KeepsData(t *testing.T) {
	it := domain.Itinerary{
		DestinationCities: []string{"Lisbon"},
		DailyPlan: []domain.Day{{
			Activities: []domain.Activity{{Title: ptr("Belém"), Tags: []string{"history"}}},
		}},
	}

	it.Normalize()

	assert.Equal(t, []string{"Lisbon"}, it.DestinationCities)
	assert.Equal(t, []string{"history"}, it.DailyPlan[0].Activities[0].Tags)
}

func TestActivity_EnrichmentFieldsOmittedUntilSet(t *testing.T) {
	b, err := json.Marshal(domain.Activity{Title: ptr("Castle")})
	require.NoError(t, err)

	assert.NotContains(t, string(b), `"place_id"`)
	assert.NotContains(t, string(b), `"lat"`)
	assert.Contains(t, string(b), `"location_name":null`)
}

func TestActivity_Enriched(t *testing.T) {
	assert.False(t, domain.Activity{Lat: ptr(38.7)}.Enriched())
	assert.True(t, domain.Activity{Lat: ptr(38.7), Lng: ptr(-9.1)}.Enriched())
}

func TestNewItinerary_Skeleton(t *testing.T) {
	it := domain.NewItinerary()

	require.Len(t, it.DailyPlan, 1)
	require.Len(t, it.DailyPlan[0].Activities, 1)
	assert.Nil(t, it.DailyPlan[0].Activities[0].LocationName)
}
