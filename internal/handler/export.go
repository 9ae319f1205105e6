package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "day", "date", "city", "hotel", "summary",
	"time", "title", "location_name", "type", "address", "maps_url", "tags",
}

// ExportPlan handles GET /plans/{trip_id}/export.
// It returns one row per itinerary activity.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportPlan(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	format, err := queryString(r, "format")
	if err != nil {
		badRequest(w, err)
		return
	}
	if format != "" && format != "json" && format != "csv" {
		badRequest(w, fmt.Errorf("format must be json or csv, got %q", format))
		return
	}

	rows, err := s.svc.Export.Export(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, "plan", err)
		return
	}

	if format != "csv" {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	body, err := buildCSV(rows)
	if err != nil {
		s.respondError(w, r, "plan", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.csv"`, tripID.Hex()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(body)
}

// buildCSV renders rows as CSV with a header line. Tags are joined with "|".
func buildCSV(rows []domain.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("handler.buildCSV: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.TripID,
			r.TripName,
			strconv.Itoa(r.Day),
			r.Date,
			r.City,
			r.Hotel,
			r.Summary,
			r.Time,
			r.Title,
			r.LocationName,
			r.Type,
			r.Address,
			r.MapsURL,
			strings.Join(r.Tags, "|"),
		}
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("handler.buildCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("handler.buildCSV: %w", err)
	}
	return buf.Bytes(), nil
}
