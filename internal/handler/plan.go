package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/trip-planner/internal/places"
)

// GeneratePlan handles POST /generate-plan/{trip_id}.
// Generation is synchronous; the stored plan document is returned.
func (s *Server) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	plan, err := s.svc.Plans.Generate(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetPlan handles GET /plans/{trip_id}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	plan, err := s.svc.Plans.Get(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ProxyPhoto handles GET /plans/proxy/photo?photoreference=.
// It streams a Places photo so the browser never sees the Maps key.
func (s *Server) ProxyPhoto(w http.ResponseWriter, r *http.Request) {
	ref, err := queryString(r, "photoreference")
	if err != nil {
		badRequest(w, err)
		return
	}
	if ref == "" {
		badRequest(w, errors.New("photoreference is required"))
		return
	}

	photo, err := s.svc.Photos.Photo(r.Context(), ref)
	switch {
	case errors.Is(err, places.ErrNoResults):
		writeJSON(w, http.StatusNotFound, notFoundBody("photo not found"))
		return
	case errors.Is(err, places.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("unavailable", "photo lookup is not configured"))
		return
	case err != nil:
		s.respondError(w, r, "photo", err)
		return
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(photo.Data)
}
