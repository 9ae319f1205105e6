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

type mongoMessageRepo struct {
	coll *mongo.Collection
}

// NewMongoMessageRepo constructs a MessageRepo over the messages collection.
func NewMongoMessageRepo(coll *mongo.Collection) MessageRepo {
	return &mongoMessageRepo{coll: coll}
}

func (r *mongoMessageRepo) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	m.ID = ensureID(m.ID)
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.Timestamp = m.Timestamp.Truncate(time.Millisecond)

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return domain.Message{}, fmt.Errorf("repo.MongoMessageRepo.Create: %w", err)
	}
	return m, nil
}

func (r *mongoMessageRepo) ListByTrip(ctx context.Context, tripID domain.ID) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1}).SetLimit(MaxMessagesPerTrip)
	cur, err := r.coll.Find(ctx, bson.M{"trip_id": tripID}, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoMessageRepo.ListByTrip: %w", err)
	}
	msgs := []domain.Message{}
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("repo.MongoMessageRepo.ListByTrip: decode: %w", err)
	}
	return msgs, nil
}

func (r *mongoMessageRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.MongoMessageRepo.DeleteByTrip: %w", err)
	}
	return nil
}
