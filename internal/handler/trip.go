package handler

import (
	"net/http"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// CreateTrip handles POST /trips.
// The response carries the ids of the information and plan documents
// created alongside the trip.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		badRequest(w, err)
		return
	}

	trip, err := s.svc.Trips.Create(r.Context(), userID, req.Name)
	if err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /trips/{trip_id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "trip_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	trip, err := s.svc.Trips.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ListUserTrips handles GET /trips/user/{user_id}.
func (s *Server) ListUserTrips(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	trips, err := s.svc.Trips.ListByUser(r.Context(), id)
	if err != nil {
		s.respondError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// DeleteTrip handles DELETE /trips/{trip_id}.
// Messages, the information document and the plan go with the trip.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "trip_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := s.svc.Trips.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, "trip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
