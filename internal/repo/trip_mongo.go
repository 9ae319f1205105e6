package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-planner/internal/domain"
)

type mongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo constructs a TripRepo over the trips collection.
func NewMongoTripRepo(coll *mongo.Collection) TripRepo {
	return &mongoTripRepo{coll: coll}
}

func (r *mongoTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.ID = ensureID(trip.ID)
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC()
	}
	trip.CreatedAt = trip.CreatedAt.Truncate(time.Millisecond)

	if _, err := r.coll.InsertOne(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.Create: %w", err)
	}
	return trip, nil
}

func (r *mongoTripRepo) GetByID(ctx context.Context, id domain.ID) (domain.Trip, error) {
	var t domain.Trip
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MongoTripRepo.GetByID: %w", mongoNotFound(err))
	}
	return t, nil
}

func (r *mongoTripRepo) ListByUser(ctx context.Context, userID domain.ID) ([]domain.Trip, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.ListByUser: %w", err)
	}
	trips := []domain.Trip{}
	if err := cur.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("repo.MongoTripRepo.ListByUser: decode: %w", err)
	}
	return trips, nil
}

func (r *mongoTripRepo) SetStatus(ctx context.Context, id domain.ID, status domain.TripStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.SetStatus: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *mongoTripRepo) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
