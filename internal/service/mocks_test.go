package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/internal/agent"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/enrich"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which fails the test.

type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, id domain.ID) (domain.Trip, error)
	listByUser func(ctx context.Context, userID domain.ID) ([]domain.Trip, error)
	setStatus  func(ctx context.Context, id domain.ID, status domain.TripStatus) error
	delete     func(ctx context.Context, id domain.ID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTripRepo) SetStatus(ctx context.Context, id domain.ID, status domain.TripStatus) error {
	return m.setStatus(ctx, id, status)
}
func (m *mockTripRepo) Delete(ctx context.Context, id domain.ID) error {
	return m.delete(ctx, id)
}

type mockUserRepo struct {
	create    func(ctx context.Context, u domain.User) (domain.User, error)
	getByID   func(ctx context.Context, id domain.ID) (domain.User, error)
	getByName func(ctx context.Context, name string) (domain.User, error)
	setAbout  func(ctx context.Context, id domain.ID, about string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByName(ctx context.Context, name string) (domain.User, error) {
	return m.getByName(ctx, name)
}
func (m *mockUserRepo) SetAbout(ctx context.Context, id domain.ID, about string) error {
	return m.setAbout(ctx, id, about)
}

type mockMessageRepo struct {
	create       func(ctx context.Context, msg domain.Message) (domain.Message, error)
	listByTrip   func(ctx context.Context, tripID domain.ID) ([]domain.Message, error)
	deleteByTrip func(ctx context.Context, tripID domain.ID) error
}

func (m *mockMessageRepo) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	return m.create(ctx, msg)
}
func (m *mockMessageRepo) ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMessageRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockInformationRepo struct {
	create        func(ctx context.Context, doc domain.InformationDocument) (domain.InformationDocument, error)
	getByTrip     func(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error)
	updateFields  func(ctx context.Context, tripID domain.ID, fields map[string]any) error
	replaceData   func(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error)
	setChecklists func(ctx context.Context, tripID domain.ID, lists []domain.Checklist) error
	deleteByTrip  func(ctx context.Context, tripID domain.ID) error
}

func (m *mockInformationRepo) Create(ctx context.Context, doc domain.InformationDocument) (domain.InformationDocument, error) {
	return m.create(ctx, doc)
}
func (m *mockInformationRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error) {
	return m.getByTrip(ctx, tripID)
}
func (m *mockInformationRepo) UpdateFields(ctx context.Context, tripID domain.ID, fields map[string]any) error {
	return m.updateFields(ctx, tripID, fields)
}
func (m *mockInformationRepo) ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error) {
	return m.replaceData(ctx, tripID, data)
}
func (m *mockInformationRepo) SetChecklists(ctx context.Context, tripID domain.ID, lists []domain.Checklist) error {
	return m.setChecklists(ctx, tripID, lists)
}
func (m *mockInformationRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockPlanRepo struct {
	create       func(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error)
	getByTrip    func(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)
	upsert       func(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error)
	deleteByTrip func(ctx context.Context, tripID domain.ID) error
}

func (m *mockPlanRepo) Create(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	return m.create(ctx, plan)
}
func (m *mockPlanRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	return m.getByTrip(ctx, tripID)
}
func (m *mockPlanRepo) Upsert(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	return m.upsert(ctx, plan)
}
func (m *mockPlanRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	return m.deleteByTrip(ctx, tripID)
}

type mockTurnRunner struct {
	run func(ctx context.Context, in agent.Input) (agent.Reply, error)
}

func (m *mockTurnRunner) Run(ctx context.Context, in agent.Input) (agent.Reply, error) {
	return m.run(ctx, in)
}

type mockExtractor struct {
	extract func(ctx context.Context, last string, history []domain.Turn, current domain.TravelInformation) (domain.TravelInformation, error)
}

func (m *mockExtractor) Extract(ctx context.Context, last string, history []domain.Turn, current domain.TravelInformation) (domain.TravelInformation, error) {
	return m.extract(ctx, last, history, current)
}

type mockGenerator struct {
	generate func(ctx context.Context, info domain.TravelInformation, profile string) (domain.Itinerary, error)
}

func (m *mockGenerator) Generate(ctx context.Context, info domain.TravelInformation, profile string) (domain.Itinerary, error) {
	return m.generate(ctx, info, profile)
}

type mockEnricher struct {
	enrich func(ctx context.Context, it *domain.Itinerary) enrich.Stats
}

func (m *mockEnricher) Enrich(ctx context.Context, it *domain.Itinerary) enrich.Stats {
	return m.enrich(ctx, it)
}

// compile-time checks
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.UserRepo        = (*mockUserRepo)(nil)
	_ repo.MessageRepo     = (*mockMessageRepo)(nil)
	_ repo.InformationRepo = (*mockInformationRepo)(nil)
	_ repo.PlanRepo        = (*mockPlanRepo)(nil)
	_ service.TurnRunner   = (*mockTurnRunner)(nil)
	_ service.Extractor    = (*mockExtractor)(nil)
	_ service.Generator    = (*mockGenerator)(nil)
	_ service.Enricher     = (*mockEnricher)(nil)
)

// memInformation keeps information documents in a map and wires a
// mockInformationRepo to it. UpdateFields applies fields the way the stores
// do: only the named top-level keys of data change.
type memInformation struct {
	mu      sync.Mutex
	docs    map[domain.ID]domain.InformationDocument
	updates int
}

func newMemInformation(docs ...domain.InformationDocument) *memInformation {
	m := &memInformation{docs: make(map[domain.ID]domain.InformationDocument)}
	for _, d := range docs {
		m.docs[d.TripID] = d
	}
	return m
}

func (m *memInformation) get(tripID domain.ID) (domain.InformationDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[tripID]
	return d, ok
}

func (m *memInformation) repo() *mockInformationRepo {
	return &mockInformationRepo{
		create: func(_ context.Context, d domain.InformationDocument) (domain.InformationDocument, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.docs[d.TripID] = d
			return d, nil
		},
		getByTrip: func(_ context.Context, tripID domain.ID) (domain.InformationDocument, error) {
			if d, ok := m.get(tripID); ok {
				return d, nil
			}
			return domain.InformationDocument{}, domain.ErrNotFound
		},
		updateFields: func(_ context.Context, tripID domain.ID, fields map[string]any) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			d, ok := m.docs[tripID]
			if !ok {
				return domain.ErrNotFound
			}
			raw, _ := json.Marshal(d.Data)
			var data map[string]any
			_ = json.Unmarshal(raw, &data)
			for k, v := range fields {
				data[k] = v
			}
			raw, _ = json.Marshal(data)
			var next domain.TravelInformation
			if err := json.Unmarshal(raw, &next); err != nil {
				return err
			}
			d.Data = next
			d.UpdatedAt = time.Now().UTC()
			m.docs[tripID] = d
			m.updates++
			return nil
		},
		setChecklists: func(_ context.Context, tripID domain.ID, lists []domain.Checklist) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			d, ok := m.docs[tripID]
			if !ok {
				return domain.ErrNotFound
			}
			d.Checklist = append([]domain.Checklist(nil), lists...)
			m.docs[tripID] = d
			return nil
		},
	}
}

func ptr[T any](v T) *T { return &v }
