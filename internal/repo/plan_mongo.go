package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-planner/internal/domain"
)

type mongoPlanRepo struct {
	coll *mongo.Collection
}

// NewMongoPlanRepo constructs a PlanRepo over the plans collection.
func NewMongoPlanRepo(coll *mongo.Collection) PlanRepo {
	return &mongoPlanRepo{coll: coll}
}

func (r *mongoPlanRepo) Create(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	plan.ID = ensureID(plan.ID)
	if plan.UpdatedAt.IsZero() {
		plan.UpdatedAt = now()
	}
	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.MongoPlanRepo.Create: %w", err)
	}
	return plan, nil
}

func (r *mongoPlanRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.PlanDocument, error) {
	var p domain.PlanDocument
	if err := r.coll.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&p); err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.MongoPlanRepo.GetByTrip: %w", mongoNotFound(err))
	}
	return p, nil
}

func (r *mongoPlanRepo) Upsert(ctx context.Context, plan domain.PlanDocument) (domain.PlanDocument, error) {
	update := bson.M{
		"$set":         bson.M{"status": plan.Status, "data": plan.Data, "updated_at": now()},
		"$setOnInsert": bson.M{"_id": ensureID(plan.ID)},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var p domain.PlanDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"trip_id": plan.TripID}, update, opts).Decode(&p); err != nil {
		return domain.PlanDocument{}, fmt.Errorf("repo.MongoPlanRepo.Upsert: %w", err)
	}
	return p, nil
}

func (r *mongoPlanRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"trip_id": tripID}); err != nil {
		return fmt.Errorf("repo.MongoPlanRepo.DeleteByTrip: %w", err)
	}
	return nil
}
