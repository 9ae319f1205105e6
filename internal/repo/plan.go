package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// PlanRepo defines the persistence operations for the plan document of each trip.
type PlanRepo interface {
	// Create inserts the plan document of a trip.
	Create(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error)

	// GetByTrip returns domain.ErrNotFound if the trip has no plan document.
	GetByTrip(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error)

	// Upsert writes status and data for plan.TripID in a single operation,
	// creating the document when absent. The stored ID is kept when it exists.
	// Concurrent upserts never interleave: the last one wins whole.
	Upsert(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error)

	// DeleteByTrip removes the plan of a trip. Deleting none is not an error.
	DeleteByTrip(ctx context.Context, tripID domain.ID) error
}

type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a Postgres PlanRepo.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `id, trip_id, status, data, updated_at`

func (r *pgPlanRepo) Create(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	const q = `
		INSERT INTO plans (` + planColumns + `)
		VALUES (@id, @trip_id, @status, @data, @updated_at)
		RETURNING ` + planColumns

	plan.ID = ensureID(plan.ID)
	if plan.UpdatedAt.IsZero() {
		plan.UpdatedAt = time.Now().UTC()
	}
	args, err := planArgs(plan)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	const q = `SELECT ` + planColumns + ` FROM plans WHERE trip_id = @trip_id`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex()}))
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.PlanRepo.GetByTrip: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) Upsert(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	const q = `
		INSERT INTO plans (` + planColumns + `)
		VALUES (@id, @trip_id, @status, @data, @updated_at)
		ON CONFLICT (trip_id) DO UPDATE
		SET status     = EXCLUDED.status,
		    data       = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + planColumns

	plan.ID = ensureID(plan.ID)
	plan.UpdatedAt = time.Now().UTC()
	args, err := planArgs(plan)
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.PlanRepo.Upsert: %w", err)
	}
	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.PlanRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgPlanRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM plans WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID.Hex()}); err != nil {
		return fmt.Errorf("repo.PlanRepo.DeleteByTrip: %w", err)
	}
	return nil
}

func planArgs(plan domain.PlanDocument) (pgx.NamedArgs, error) {
	data, err := json.Marshal(plan.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return pgx.NamedArgs{
		"id":         plan.ID.Hex(),
		"trip_id":    plan.TripID.Hex(),
		"status":     string(plan.Status),
		"data":       data,
		"updated_at": plan.UpdatedAt,
	}, nil
}

func scanPlan(s scanner) (domain.PlanDocument, error) {
	var (
		p               domain.PlanDocument
		id, tripID, sts string
		data            []byte
	)
	if err := s.Scan(&id, &tripID, &sts, &data, &p.UpdatedAt); err != nil {
		return domain.PlanDocument{}, pgNotFound(err)
	}
	p.Status = domain.PlanStatus(sts)

	var err error
	if p.ID, err = parseHex(id); err != nil {
		return domain.PlanDocument{}, err
	}
	if p.TripID, err = parseHex(tripID); err != nil {
		return domain.PlanDocument{}, err
	}
	if err := json.Unmarshal(data, &p.Data); err != nil {
		return domain.PlanDocument{}, fmt.Errorf("decode data: %w", err)
	}
	return p, nil
}
