package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ReplaceInformationRequest is the body of PATCH /information/trip/{trip_id}.
type ReplaceInformationRequest struct {
	Data *domain.TravelInformation `json:"data"`
}

// ChecklistRequest is the body of the checklist and item create routes.
type ChecklistRequest struct {
	Name string `json:"name"`
}

// GetInformation handles GET /information/trip/{trip_id}.
func (s *Server) GetInformation(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	doc, err := s.svc.Information.Get(r.Context(), tripID)
	if err != nil {
		s.respondError(w, r, "information", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ReplaceInformation handles PATCH /information/trip/{trip_id}.
// The whole data object is replaced; checklists are untouched.
func (s *Server) ReplaceInformation(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	var req ReplaceInformationRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Data == nil {
		badRequest(w, errors.New("data is required"))
		return
	}
	doc, err := s.svc.Information.ReplaceData(r.Context(), tripID, *req.Data)
	if err != nil {
		s.respondError(w, r, "information", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteInformation handles DELETE /information/trip/{trip_id}.
func (s *Server) DeleteInformation(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	if err := s.svc.Information.Delete(r.Context(), tripID); err != nil {
		s.respondError(w, r, "information", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListChecklists handles GET /information/trip/{trip_id}/checklists.
func (s *Server) ListChecklists(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	lists, err := s.svc.Information.Checklists(r.Context(), tripID)
	s.respondChecklists(w, r, http.StatusOK, lists, err)
}

// AddChecklist handles POST /information/trip/{trip_id}/checklists.
func (s *Server) AddChecklist(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	var req ChecklistRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	lists, err := s.svc.Information.AddChecklist(r.Context(), tripID, domain.ChecklistInput{Name: req.Name})
	s.respondChecklists(w, r, http.StatusCreated, lists, err)
}

// DeleteChecklist handles DELETE /information/trip/{trip_id}/checklists/{checklist_id}.
func (s *Server) DeleteChecklist(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	checklistID, err := pathInt(r, "checklist_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	lists, err := s.svc.Information.DeleteChecklist(r.Context(), tripID, checklistID)
	s.respondChecklists(w, r, http.StatusOK, lists, err)
}

// AddChecklistItem handles POST .../checklists/{checklist_id}/items.
func (s *Server) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return
	}
	checklistID, err := pathInt(r, "checklist_id")
	if err != nil {
		badRequest(w, err)
		return
	}
	var req ChecklistRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	lists, err := s.svc.Information.AddItem(r.Context(), tripID, checklistID, domain.ChecklistInput{Name: req.Name})
	s.respondChecklists(w, r, http.StatusCreated, lists, err)
}

// SetChecklistItem handles PATCH .../checklists/{checklist_id}/items/{item_id}.
// The body is either {"checked": bool} or a bare JSON boolean.
func (s *Server) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, checklistID, itemID, ok := s.itemParams(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		badRequest(w, err)
		return
	}
	checked, err := parseChecked(raw)
	if err != nil {
		badRequest(w, err)
		return
	}
	lists, err := s.svc.Information.SetItemChecked(r.Context(), tripID, checklistID, itemID, checked)
	s.respondChecklists(w, r, http.StatusOK, lists, err)
}

// DeleteChecklistItem handles DELETE .../checklists/{checklist_id}/items/{item_id}.
func (s *Server) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	tripID, checklistID, itemID, ok := s.itemParams(w, r)
	if !ok {
		return
	}
	lists, err := s.svc.Information.DeleteItem(r.Context(), tripID, checklistID, itemID)
	s.respondChecklists(w, r, http.StatusOK, lists, err)
}

func (s *Server) respondChecklists(w http.ResponseWriter, r *http.Request, status int, lists []domain.Checklist, err error) {
	if err != nil {
		s.respondError(w, r, "information", err)
		return
	}
	writeJSON(w, status, lists)
}

func (s *Server) tripParam(w http.ResponseWriter, r *http.Request) (domain.ID, bool) {
	tripID, err := pathID(r, "trip_id")
	if err != nil {
		badRequest(w, err)
		return domain.NilID, false
	}
	return tripID, true
}

func (s *Server) itemParams(w http.ResponseWriter, r *http.Request) (domain.ID, int, int, bool) {
	tripID, ok := s.tripParam(w, r)
	if !ok {
		return domain.NilID, 0, 0, false
	}
	checklistID, err := pathInt(r, "checklist_id")
	if err != nil {
		badRequest(w, err)
		return domain.NilID, 0, 0, false
	}
	itemID, err := pathInt(r, "item_id")
	if err != nil {
		badRequest(w, err)
		return domain.NilID, 0, 0, false
	}
	return tripID, checklistID, itemID, true
}

func parseChecked(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var obj struct {
		Checked *bool `json:"checked"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.Checked == nil {
		return false, errors.New(`body must be a boolean or {"checked": boolean}`)
	}
	return *obj.Checked, nil
}
