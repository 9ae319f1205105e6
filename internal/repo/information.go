package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// InformationRepo defines the persistence operations for the travel
// information document of each trip.
type InformationRepo interface {
	// Create inserts the information document of a trip.
	Create(ctx context.Context, doc domain.InformationDocument) (domain.InformationDocument, error)

	// GetByTrip returns domain.ErrNotFound if the trip has no information document.
	GetByTrip(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error)

	// UpdateFields overwrites only the given top-level fields of data, keyed by
	// their JSON name, and bumps updated_at. Other fields are not written.
	UpdateFields(ctx context.Context, tripID domain.ID, fields map[string]any) error

	// ReplaceData overwrites data wholesale and bumps updated_at.
	ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error)

	// SetChecklists overwrites the checklists of a trip and bumps updated_at.
	SetChecklists(ctx context.Context, tripID domain.ID, lists []domain.Checklist) error

	// DeleteByTrip returns domain.ErrNotFound if there was nothing to delete.
	DeleteByTrip(ctx context.Context, tripID domain.ID) error
}

type pgInformationRepo struct {
	db db
}

// NewInformationRepo constructs a Postgres InformationRepo.
func NewInformationRepo(db db) InformationRepo {
	return &pgInformationRepo{db: db}
}

const informationColumns = `id, trip_id, data, checklist, updated_at`

func (r *pgInformationRepo) Create(ctx context.Context, doc domain.InformationDocument) (domain.InformationDocument, error) {
	const q = `
		INSERT INTO trips_information (` + informationColumns + `)
		VALUES (@id, @trip_id, @data, @checklist, @updated_at)
		RETURNING ` + informationColumns

	doc.ID = ensureID(doc.ID)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	if doc.Checklist == nil {
		doc.Checklist = []domain.Checklist{}
	}
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.Create: data: %w", err)
	}
	lists, err := json.Marshal(doc.Checklist)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.Create: checklist: %w", err)
	}

	args := pgx.NamedArgs{
		"id":         doc.ID.Hex(),
		"trip_id":    doc.TripID.Hex(),
		"data":       data,
		"checklist":  lists,
		"updated_at": doc.UpdatedAt,
	}
	result, err := scanInformation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgInformationRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error) {
	const q = `SELECT ` + informationColumns + ` FROM trips_information WHERE trip_id = @trip_id`

	result, err := scanInformation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex()}))
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.GetByTrip: %w", err)
	}
	return result, nil
}

func (r *pgInformationRepo) UpdateFields(ctx context.Context, tripID domain.ID, fields map[string]any) error {
	const q = `
		UPDATE trips_information
		SET data = data || @patch::jsonb, updated_at = clock_timestamp()
		WHERE trip_id = @trip_id`

	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("repo.InformationRepo.UpdateFields: %w", err)
	}
	if len(fields) == 0 {
		patch = []byte(`{}`)
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex(), "patch": string(patch)})
	if err != nil {
		return fmt.Errorf("repo.InformationRepo.UpdateFields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.InformationRepo.UpdateFields: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgInformationRepo) ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error) {
	const q = `
		UPDATE trips_information
		SET data = @data, updated_at = clock_timestamp()
		WHERE trip_id = @trip_id
		RETURNING ` + informationColumns

	b, err := json.Marshal(data)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.ReplaceData: %w", err)
	}
	result, err := scanInformation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex(), "data": b}))
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.InformationRepo.ReplaceData: %w", err)
	}
	return result, nil
}

func (r *pgInformationRepo) SetChecklists(ctx context.Context, tripID domain.ID, lists []domain.Checklist) error {
	const q = `
		UPDATE trips_information
		SET checklist = @checklist, updated_at = clock_timestamp()
		WHERE trip_id = @trip_id`

	if lists == nil {
		lists = []domain.Checklist{}
	}
	b, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("repo.InformationRepo.SetChecklists: %w", err)
	}
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex(), "checklist": b})
	if err != nil {
		return fmt.Errorf("repo.InformationRepo.SetChecklists: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.InformationRepo.SetChecklists: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgInformationRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips_information WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID.Hex()})
	if err != nil {
		return fmt.Errorf("repo.InformationRepo.DeleteByTrip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.InformationRepo.DeleteByTrip: %w", domain.ErrNotFound)
	}
	return nil
}

// scanInformation maps a row into an InformationDocument, decoding the JSONB columns.
func scanInformation(s scanner) (domain.InformationDocument, error) {
	var (
		doc         domain.InformationDocument
		id, tripID  string
		data, lists []byte
	)
	if err := s.Scan(&id, &tripID, &data, &lists, &doc.UpdatedAt); err != nil {
		return domain.InformationDocument{}, pgNotFound(err)
	}

	var err error
	if doc.ID, err = parseHex(id); err != nil {
		return domain.InformationDocument{}, err
	}
	if doc.TripID, err = parseHex(tripID); err != nil {
		return domain.InformationDocument{}, err
	}
	if err := json.Unmarshal(data, &doc.Data); err != nil {
		return domain.InformationDocument{}, fmt.Errorf("decode data: %w", err)
	}
	if err := json.Unmarshal(lists, &doc.Checklist); err != nil {
		return domain.InformationDocument{}, fmt.Errorf("decode checklist: %w", err)
	}
	return doc, nil
}
