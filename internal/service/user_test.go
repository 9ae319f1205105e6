package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestUserService_Create(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = domain.NewID()
			return u, nil
		},
	})

	got, err := svc.Create(context.Background(), domain.User{Name: " ana ", Email: "ana@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "ana", got.Name)
	assert.False(t, got.ID.IsZero())
}

func TestUserService_Create_Invalid(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{})

	tests := []struct {
		name string
		user domain.User
	}{
		{"blank name", domain.User{Name: "  "}},
		{"bad email", domain.User{Name: "ana", Email: "not-an-email"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.user)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserService_GetByName_NotFound(t *testing.T) {
	svc := service.NewUserService(&mockUserRepo{
		getByName: func(_ context.Context, name string) (domain.User, error) {
			assert.Equal(t, "ana", name)
			return domain.User{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByName(context.Background(), " ana")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageService_Create(t *testing.T) {
	tripID := domain.NewID()
	svc := service.NewMessageService(
		&mockTripRepo{getByID: func(_ context.Context, id domain.ID) (domain.Trip, error) {
			return domain.Trip{ID: id}, nil
		}},
		&mockMessageRepo{create: func(_ context.Context, m domain.Message) (domain.Message, error) {
			m.ID = domain.NewID()
			m.Timestamp = time.Now()
			return m, nil
		}},
	)

	got, err := svc.Create(context.Background(), domain.Message{TripID: tripID, Text: "Hi", IsUser: true, Link: ptr("")})

	require.NoError(t, err)
	assert.Equal(t, tripID, got.TripID)
	assert.Nil(t, got.Link, "a blank link is dropped")
}

func TestMessageService_Create_UnknownTrip(t *testing.T) {
	svc := service.NewMessageService(
		&mockTripRepo{getByID: func(context.Context, domain.ID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		}},
		&mockMessageRepo{},
	)

	_, err := svc.Create(context.Background(), domain.Message{TripID: domain.NewID(), Text: "Hi"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageService_Create_BlankText(t *testing.T) {
	svc := service.NewMessageService(&mockTripRepo{}, &mockMessageRepo{})

	_, err := svc.Create(context.Background(), domain.Message{TripID: domain.NewID(), Text: " "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMessageService_ListByTrip_NeverNil(t *testing.T) {
	svc := service.NewMessageService(&mockTripRepo{}, &mockMessageRepo{
		listByTrip: func(context.Context, domain.ID) ([]domain.Message, error) { return nil, nil },
	})

	got, err := svc.ListByTrip(context.Background(), domain.NewID())

	require.NoError(t, err)
	assert.NotNil(t, got)
}
