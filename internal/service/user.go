package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// UserService implements business logic for User operations.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService constructs a UserService backed by r.
func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{repo: r}
}

// Create validates and persists a new user.
func (s *UserService) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w: name is required", domain.ErrValidation)
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w: email is invalid", domain.ErrValidation)
	}
	u.ID = domain.NilID

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return u, nil
}

// GetByName returns the user with exactly that name.
func (s *UserService) GetByName(ctx context.Context, name string) (domain.User, error) {
	u, err := s.repo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByName: %w", err)
	}
	return u, nil
}

// SetAbout replaces the traveler profile used when generating itineraries.
func (s *UserService) SetAbout(ctx context.Context, id domain.ID, about string) error {
	if err := s.repo.SetAbout(ctx, id, strings.TrimSpace(about)); err != nil {
		return fmt.Errorf("service.UserService.SetAbout: %w", err)
	}
	return nil
}
