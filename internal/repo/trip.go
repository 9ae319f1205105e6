package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not on a concrete store,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip. A zero ID is replaced by a fresh one and a
	// zero CreatedAt by the current time. Returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id domain.ID) (domain.Trip, error)

	// ListByUser returns the trips of a user, newest first.
	ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error)

	// SetStatus changes the lifecycle status of a trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	SetStatus(ctx context.Context, id domain.ID, status domain.TripStatus) error

	// Delete removes a trip. Returns domain.ErrNotFound if it does not exist.
	// Dependent documents are removed by the caller.
	Delete(ctx context.Context, id domain.ID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres TripRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, name, status, information_id, plan_id, created_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (` + tripColumns + `)
		VALUES (@id, @user_id, @name, @status, @information_id, @plan_id, @created_at)
		RETURNING ` + tripColumns

	trip.ID = ensureID(trip.ID)
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}

	args := pgx.NamedArgs{
		"id":             trip.ID.Hex(),
		"user_id":        trip.UserID.Hex(),
		"name":           trip.Name,
		"status":         string(trip.Status),
		"information_id": trip.InformationID.Hex(),
		"plan_id":        trip.PlanID.Hex(),
		"created_at":     trip.CreatedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id.Hex()}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID.Hex()})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) SetStatus(ctx context.Context, id domain.ID, status domain.TripStatus) error {
	const q = `UPDATE trips SET status = @status WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id.Hex(), "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id domain.ID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id.Hex()})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single row into a domain.Trip, converting the hex id columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                               domain.Trip
		id, userID, infoID, planID, sts string
	)
	if err := s.Scan(&id, &userID, &t.Name, &sts, &infoID, &planID, &t.CreatedAt); err != nil {
		return domain.Trip{}, pgNotFound(err)
	}
	t.Status = domain.TripStatus(sts)

	var err error
	if t.ID, err = parseHex(id); err != nil {
		return domain.Trip{}, err
	}
	if t.UserID, err = parseHex(userID); err != nil {
		return domain.Trip{}, err
	}
	if t.InformationID, err = parseHex(infoID); err != nil {
		return domain.Trip{}, err
	}
	if t.PlanID, err = parseHex(planID); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}
