package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a user, assigning an ID when unset.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id domain.ID) (domain.User, error)

	// GetByName returns the first user with exactly that name, or domain.ErrNotFound.
	GetByName(ctx context.Context, name string) (domain.User, error)

	// SetAbout replaces the free-text profile of a user.
	SetAbout(ctx context.Context, id domain.ID, about string) error
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a Postgres UserRepo.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (id, name, email, about)
		VALUES (@id, @name, @email, @about)
		RETURNING id, name, email, about`

	u.ID = ensureID(u.ID)
	args := pgx.NamedArgs{"id": u.ID.Hex(), "name": u.Name, "email": u.Email, "about": u.About}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	const q = `SELECT id, name, email, about FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id.Hex()}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByName(ctx context.Context, name string) (domain.User, error) {
	const q = `SELECT id, name, email, about FROM users WHERE name = @name ORDER BY id LIMIT 1`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByName: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) SetAbout(ctx context.Context, id domain.ID, about string) error {
	const q = `UPDATE users SET about = @about WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id.Hex(), "about": about})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.SetAbout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.SetAbout: %w", domain.ErrNotFound)
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id string
	)
	if err := s.Scan(&id, &u.Name, &u.Email, &u.About); err != nil {
		return domain.User{}, pgNotFound(err)
	}
	var err error
	if u.ID, err = parseHex(id); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
