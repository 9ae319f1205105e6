package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	About string `json:"about"`
}

// AboutRequest is the body of PUT /users/{user_id}/about.
type AboutRequest struct {
	About string `json:"about"`
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	u, err := s.svc.Users.Create(r.Context(), domain.User{Name: req.Name, Email: req.Email, About: req.About})
	if err != nil {
		s.respondError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// GetUser handles GET /users/{user_id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	u, err := s.svc.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetUserByName handles GET /users/by-name/{user_name}.
func (s *Server) GetUserByName(w http.ResponseWriter, r *http.Request) {
	name, err := pathString(r, "user_name")
	if err != nil {
		badRequest(w, err)
		return
	}
	u, err := s.svc.Users.GetByName(r.Context(), name)
	if err != nil {
		s.respondError(w, r, "user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateAbout handles PUT /users/{user_id}/about. Returns 204 on success.
func (s *Server) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	var req AboutRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := s.svc.Users.SetAbout(r.Context(), id, req.About); err != nil {
		s.respondError(w, r, "user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
