// Package repo contains all document storage for the trip planner.
// Each resource has its own file with an interface and a Postgres
// implementation; the *_mongo.go files hold the MongoDB implementations.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkordes/trip-planner/internal/domain"
)

// MaxMessagesPerTrip caps MessageRepo.ListByTrip.
const MaxMessagesPerTrip = 100

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Store bundles one repo per resource for a single backend.
type Store struct {
	Trips       TripRepo
	Users       UserRepo
	Messages    MessageRepo
	Information InformationRepo
	Plans       PlanRepo
}

// NewPostgresStore returns a Store whose repos share db.
func NewPostgresStore(db db) Store {
	return Store{
		Trips:       NewTripRepo(db),
		Users:       NewUserRepo(db),
		Messages:    NewMessageRepo(db),
		Information: NewInformationRepo(db),
		Plans:       NewPlanRepo(db),
	}
}

// Collection names in the MongoDB database.
const (
	CollectionTrips       = "trips"
	CollectionUsers       = "users"
	CollectionMessages    = "messages"
	CollectionPlans       = "plans"
	CollectionInformation = "trips-information"
)

// NewMongoStore returns a Store backed by the collections of database.
func NewMongoStore(database *mongo.Database) Store {
	return Store{
		Trips:       NewMongoTripRepo(database.Collection(CollectionTrips)),
		Users:       NewMongoUserRepo(database.Collection(CollectionUsers)),
		Messages:    NewMongoMessageRepo(database.Collection(CollectionMessages)),
		Information: NewMongoInformationRepo(database.Collection(CollectionInformation)),
		Plans:       NewMongoPlanRepo(database.Collection(CollectionPlans)),
	}
}

// pgNotFound maps pgx.ErrNoRows to domain.ErrNotFound.
func pgNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// mongoNotFound maps mongo.ErrNoDocuments to domain.ErrNotFound.
func mongoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// parseHex converts a CHAR(24) column back into an ID.
func parseHex(s string) (domain.ID, error) {
	id, err := domain.ParseID(s)
	if err != nil {
		return domain.NilID, fmt.Errorf("stored id %q: %w", s, err)
	}
	return id, nil
}

// ensureID assigns a fresh ID when id is unset.
func ensureID(id domain.ID) domain.ID {
	if id.IsZero() {
		return domain.NewID()
	}
	return id
}
