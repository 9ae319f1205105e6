package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// MessageRepo defines the persistence operations for chat Messages.
type MessageRepo interface {
	// Create inserts a message, assigning an ID and timestamp when unset.
	Create(ctx context.Context, m domain.Message) (domain.Message, error)

	// ListByTrip returns up to MaxMessagesPerTrip messages of a trip, oldest first.
	ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error)

	// DeleteByTrip removes every message of a trip. Deleting none is not an error.
	DeleteByTrip(ctx context.Context, tripID domain.ID) error
}

type pgMessageRepo struct {
	db db
}

// NewMessageRepo constructs a Postgres MessageRepo.
func NewMessageRepo(db db) MessageRepo {
	return &pgMessageRepo{db: db}
}

func (r *pgMessageRepo) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	const q = `
		INSERT INTO messages (id, trip_id, text, is_user, link, timestamp)
		VALUES (@id, @trip_id, @text, @is_user, @link, @timestamp)
		RETURNING id, trip_id, text, is_user, link, timestamp`

	m.ID = ensureID(m.ID)
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	args := pgx.NamedArgs{
		"id":        m.ID.Hex(),
		"trip_id":   m.TripID.Hex(),
		"text":      m.Text,
		"is_user":   m.IsUser,
		"link":      m.Link,
		"timestamp": m.Timestamp,
	}

	result, err := scanMessage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Message{}, fmt.Errorf("repo.MessageRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMessageRepo) ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error) {
	const q = `
		SELECT id, trip_id, text, is_user, link, timestamp
		FROM messages
		WHERE trip_id = @trip_id
		ORDER BY timestamp ASC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID.Hex(), "limit": MaxMessagesPerTrip})
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: rows: %w", err)
	}
	return msgs, nil
}

func (r *pgMessageRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM messages WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID.Hex()}); err != nil {
		return fmt.Errorf("repo.MessageRepo.DeleteByTrip: %w", err)
	}
	return nil
}

func scanMessage(s scanner) (domain.Message, error) {
	var (
		m          domain.Message
		id, tripID string
	)
	if err := s.Scan(&id, &tripID, &m.Text, &m.IsUser, &m.Link, &m.Timestamp); err != nil {
		return domain.Message{}, pgNotFound(err)
	}
	var err error
	if m.ID, err = parseHex(id); err != nil {
		return domain.Message{}, err
	}
	if m.TripID, err = parseHex(tripID); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}
