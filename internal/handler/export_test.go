package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

func exportHandler(rows []domain.ExportRow, err error) http.Handler {
	return newHTTPHandler(handler.Services{Export: &mockExportServicer{
		export: func(context.Context, domain.ID) ([]domain.ExportRow, error) { return rows, err },
	}})
}

func exportFixture(tripID domain.ID) []domain.ExportRow {
	return []domain.ExportRow{
		{TripID: tripID.Hex(), TripName: "Lisbon", Day: 1, City: "Lisbon", Title: "Belém Tower", Tags: []string{"history", "views"}},
		{TripID: tripID.Hex(), TripName: "Lisbon", Day: 2, City: "Sintra", Title: "Pena Palace"},
	}
}

func TestExportPlan_defaultsToJSON(t *testing.T) {
	tripID := domain.NewID()
	h := exportHandler(exportFixture(tripID), nil)

	rec := do(h, http.MethodGet, "/plans/"+tripID.Hex()+"/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var rows []domain.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Pena Palace", rows[1].Title)
}

func TestExportPlan_CSV(t *testing.T) {
	tripID := domain.NewID()
	h := exportHandler(exportFixture(tripID), nil)

	rec := do(h, http.MethodGet, "/plans/"+tripID.Hex()+"/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), tripID.Hex())

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per activity")
	assert.Equal(t, "trip_id", records[0][0])
	assert.Equal(t, "tags", records[0][len(records[0])-1])
	assert.Equal(t, "Belém Tower", records[1][8])
	assert.Equal(t, "history|views", records[1][13])
	assert.Equal(t, "", records[2][13])
}

func TestExportPlan_CSVHeaderOnlyForEmptyPlan(t *testing.T) {
	h := exportHandler([]domain.ExportRow{}, nil)

	rec := do(h, http.MethodGet, "/plans/"+domain.NewID().Hex()+"/export?format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExportPlan_rejectsUnknownFormat(t *testing.T) {
	h := exportHandler(nil, nil)

	rec := do(h, http.MethodGet, "/plans/"+domain.NewID().Hex()+"/export?format=xml", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportPlan_returns404(t *testing.T) {
	h := exportHandler(nil, domain.ErrNotFound)

	rec := do(h, http.MethodGet, "/plans/"+domain.NewID().Hex()+"/export", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "plan not found", decodeError(t, rec).Message)
}
