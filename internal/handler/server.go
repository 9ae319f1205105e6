// Package handler implements the HTTP surface of the trip planner.
// All handlers are methods on Server. Methods are split into resource files
// (trip.go, chat.go, plan.go, etc.) but share the same Server struct so they
// can access its dependencies. Ids cross the wire as hex strings and are
// parsed into domain.ID here, nowhere else.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/places"
	"github.com/pkordes/trip-planner/internal/service"
)

// The servicer interfaces are defined here, in the consumer package, so that
// handler tests can inject mocks without touching storage or models.

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, userID domain.ID, name string) (domain.Trip, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)
	ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error)
	Delete(ctx context.Context, id domain.ID) error
}

// UserServicer defines the user operations the handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id domain.ID) (domain.User, error)
	GetByName(ctx context.Context, name string) (domain.User, error)
	SetAbout(ctx context.Context, id domain.ID, about string) error
}

// MessageServicer defines the chat transcript operations.
type MessageServicer interface {
	Create(ctx context.Context, m domain.Message) (domain.Message, error)
	ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error)
}

// InformationServicer defines the information document and checklist operations.
type InformationServicer interface {
	Get(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error)
	ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error)
	Delete(ctx context.Context, tripID domain.ID) error
	Checklists(ctx context.Context, tripID domain.ID) ([]domain.Checklist, error)
	AddChecklist(ctx context.Context, tripID domain.ID, in domain.ChecklistInput) ([]domain.Checklist, error)
	DeleteChecklist(ctx context.Context, tripID domain.ID, checklistID int) ([]domain.Checklist, error)
	AddItem(ctx context.Context, tripID domain.ID, checklistID int, in domain.ChecklistInput) ([]domain.Checklist, error)
	SetItemChecked(ctx context.Context, tripID domain.ID, checklistID, itemID int, checked bool) ([]domain.Checklist, error)
	DeleteItem(ctx context.Context, tripID domain.ID, checklistID, itemID int) ([]domain.Checklist, error)
}

// ChatServicer answers one chat message.
type ChatServicer interface {
	Respond(ctx context.Context, req service.ChatRequest) (service.ChatResponse, error)
}

// PlanServicer generates and reads itineraries.
type PlanServicer interface {
	Generate(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)
	Get(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)
}

// ExportServicer flattens an itinerary into rows.
type ExportServicer interface {
	Export(ctx context.Context, tripID domain.ID) ([]domain.ExportRow, error)
}

// PhotoFetcher serves place photos. Satisfied by *places.Client.
type PhotoFetcher interface {
	Photo(ctx context.Context, reference string) (places.Photo, error)
}

var (
	_ TripServicer        = (*service.TripService)(nil)
	_ UserServicer        = (*service.UserService)(nil)
	_ MessageServicer     = (*service.MessageService)(nil)
	_ InformationServicer = (*service.InformationService)(nil)
	_ ChatServicer        = (*service.ChatService)(nil)
	_ PlanServicer        = (*service.PlanService)(nil)
	_ ExportServicer      = (*service.ExportService)(nil)
	_ PhotoFetcher        = (*places.Client)(nil)
)

// Services bundles the dependencies of Server. A nil field leaves its routes
// registered; calling them panics and Recoverer turns that into a 500.
type Services struct {
	Trips       TripServicer
	Users       UserServicer
	Messages    MessageServicer
	Information InformationServicer
	Chat        ChatServicer
	Plans       PlanServicer
	Export      ExportServicer
	Photos      PhotoFetcher
}

// Server holds the handler dependencies.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// RouterOptions configures Handler.
type RouterOptions struct {
	// Generative wraps the routes that call the language model, typically a
	// per-client rate limiter. Nil means no extra middleware.
	Generative func(http.Handler) http.Handler
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

// Handler returns the chi router serving every API route.
func (s *Server) Handler(opts RouterOptions) http.Handler {
	generative := opts.Generative
	if generative == nil {
		generative = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(generative)
		r.Post("/generate-message-and-update-information", s.GenerateMessage)
		r.Post("/generate-plan/{trip_id}", s.GeneratePlan)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.CreateUser)
		r.Get("/by-name/{user_name}", s.GetUserByName)
		r.Get("/{user_id}", s.GetUser)
		r.Put("/{user_id}/about", s.UpdateAbout)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/user/{user_id}", s.ListUserTrips)
		r.Get("/{trip_id}", s.GetTrip)
		r.Delete("/{trip_id}", s.DeleteTrip)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Post("/", s.CreateMessage)
		r.Get("/trip/{trip_id}", s.ListMessages)
	})

	r.Route("/information/trip/{trip_id}", func(r chi.Router) {
		r.Get("/", s.GetInformation)
		r.Patch("/", s.ReplaceInformation)
		r.Delete("/", s.DeleteInformation)

		r.Get("/checklists", s.ListChecklists)
		r.Post("/checklists", s.AddChecklist)
		r.Post("/checklists/add", s.AddChecklist)
		r.Delete("/checklists/{checklist_id}", s.DeleteChecklist)
		r.Post("/checklists/{checklist_id}/items", s.AddChecklistItem)
		r.Post("/checklists/{checklist_id}/items/add", s.AddChecklistItem)
		r.Patch("/checklists/{checklist_id}/items/{item_id}", s.SetChecklistItem)
		r.Delete("/checklists/{checklist_id}/items/{item_id}", s.DeleteChecklistItem)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/proxy/photo", s.ProxyPhoto)
		r.Get("/{trip_id}", s.GetPlan)
		r.Get("/{trip_id}/export", s.ExportPlan)
	})

	return r
}
