package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/places"
	"github.com/pkordes/trip-planner/internal/service"
)

// Test doubles for the handler.*Servicer interfaces.
// Set only the method fields your test needs; an unset field panics, which
// fails the test loudly when a handler calls something unexpected.

type mockTripServicer struct {
	create     func(ctx context.Context, userID domain.ID, name string) (domain.Trip, error)
	getByID    func(ctx context.Context, id domain.ID) (domain.Trip, error)
	listByUser func(ctx context.Context, userID domain.ID) ([]domain.Trip, error)
	delete     func(ctx context.Context, id domain.ID) error
}

func (m *mockTripServicer) Create(ctx context.Context, userID domain.ID, name string) (domain.Trip, error) {
	return m.create(ctx, userID, name)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTripServicer) Delete(ctx context.Context, id domain.ID) error {
	return m.delete(ctx, id)
}

type mockUserServicer struct {
	create    func(ctx context.Context, u domain.User) (domain.User, error)
	getByID   func(ctx context.Context, id domain.ID) (domain.User, error)
	getByName func(ctx context.Context, name string) (domain.User, error)
	setAbout  func(ctx context.Context, id domain.ID, about string) error
}

func (m *mockUserServicer) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) GetByName(ctx context.Context, name string) (domain.User, error) {
	return m.getByName(ctx, name)
}
func (m *mockUserServicer) SetAbout(ctx context.Context, id domain.ID, about string) error {
	return m.setAbout(ctx, id, about)
}

type mockMessageServicer struct {
	create     func(ctx context.Context, msg domain.Message) (domain.Message, error)
	listByTrip func(ctx context.Context, tripID domain.ID) ([]domain.Message, error)
}

func (m *mockMessageServicer) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	return m.create(ctx, msg)
}
func (m *mockMessageServicer) ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error) {
	return m.listByTrip(ctx, tripID)
}

type mockInformationServicer struct {
	get             func(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error)
	replaceData     func(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error)
	delete          func(ctx context.Context, tripID domain.ID) error
	checklists      func(ctx context.Context, tripID domain.ID) ([]domain.Checklist, error)
	addChecklist    func(ctx context.Context, tripID domain.ID, in domain.ChecklistInput) ([]domain.Checklist, error)
	deleteChecklist func(ctx context.Context, tripID domain.ID, checklistID int) ([]domain.Checklist, error)
	addItem         func(ctx context.Context, tripID domain.ID, checklistID int, in domain.ChecklistInput) ([]domain.Checklist, error)
	setItemChecked  func(ctx context.Context, tripID domain.ID, checklistID, itemID int, checked bool) ([]domain.Checklist, error)
	deleteItem      func(ctx context.Context, tripID domain.ID, checklistID, itemID int) ([]domain.Checklist, error)
}

func (m *mockInformationServicer) Get(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error) {
	return m.get(ctx, tripID)
}
func (m *mockInformationServicer) ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error) {
	return m.replaceData(ctx, tripID, data)
}
func (m *mockInformationServicer) Delete(ctx context.Context, tripID domain.ID) error {
	return m.delete(ctx, tripID)
}
func (m *mockInformationServicer) Checklists(ctx context.Context, tripID domain.ID) ([]domain.Checklist, error) {
	return m.checklists(ctx, tripID)
}
func (m *mockInformationServicer) AddChecklist(ctx context.Context, tripID domain.ID, in domain.ChecklistInput) ([]domain.Checklist, error) {
	return m.addChecklist(ctx, tripID, in)
}
func (m *mockInformationServicer) DeleteChecklist(ctx context.Context, tripID domain.ID, checklistID int) ([]domain.Checklist, error) {
	return m.deleteChecklist(ctx, tripID, checklistID)
}
func (m *mockInformationServicer) AddItem(ctx context.Context, tripID domain.ID, checklistID int, in domain.ChecklistInput) ([]domain.Checklist, error) {
	return m.addItem(ctx, tripID, checklistID, in)
}
func (m *mockInformationServicer) SetItemChecked(ctx context.Context, tripID domain.ID, checklistID, itemID int, checked bool) ([]domain.Checklist, error) {
	return m.setItemChecked(ctx, tripID, checklistID, itemID, checked)
}
func (m *mockInformationServicer) DeleteItem(ctx context.Context, tripID domain.ID, checklistID, itemID int) ([]domain.Checklist, error) {
	return m.deleteItem(ctx, tripID, checklistID, itemID)
}

type mockChatServicer struct {
	respond func(ctx context.Context, req service.ChatRequest) (service.ChatResponse, error)
}

func (m *mockChatServicer) Respond(ctx context.Context, req service.ChatRequest) (service.ChatResponse, error) {
	return m.respond(ctx, req)
}

type mockPlanServicer struct {
	generate func(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)
	get      func(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)
}

func (m *mockPlanServicer) Generate(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	return m.generate(ctx, tripID)
}
func (m *mockPlanServicer) Get(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	return m.get(ctx, tripID)
}

type mockExportServicer struct {
	export func(ctx context.Context, tripID domain.ID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID domain.ID) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

type mockPhotoFetcher struct {
	photo func(ctx context.Context, reference string) (places.Photo, error)
}

func (m *mockPhotoFetcher) Photo(ctx context.Context, reference string) (places.Photo, error) {
	return m.photo(ctx, reference)
}

// compile-time checks: each mock must satisfy its interface.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.UserServicer        = (*mockUserServicer)(nil)
	_ handler.MessageServicer     = (*mockMessageServicer)(nil)
	_ handler.InformationServicer = (*mockInformationServicer)(nil)
	_ handler.ChatServicer        = (*mockChatServicer)(nil)
	_ handler.PlanServicer        = (*mockPlanServicer)(nil)
	_ handler.ExportServicer      = (*mockExportServicer)(nil)
	_ handler.PhotoFetcher        = (*mockPhotoFetcher)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svcs handler.Services) http.Handler {
	return handler.NewServer(svcs, nil).Handler(handler.RouterOptions{})
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, path string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func ptr[T any](v T) *T { return &v }

func doRaw(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
