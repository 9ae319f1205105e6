package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkordes/trip-planner/internal/domain"
)

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a UserRepo over the users collection.
func NewMongoUserRepo(coll *mongo.Collection) UserRepo {
	return &mongoUserRepo{coll: coll}
}

func (r *mongoUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = ensureID(u.ID)
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("repo.MongoUserRepo.Create: %w", err)
	}
	return u, nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "GetByID", bson.M{"_id": id})
}

func (r *mongoUserRepo) GetByName(ctx context.Context, name string) (domain.User, error) {
	return r.findOne(ctx, "GetByName", bson.M{"name": name})
}

func (r *mongoUserRepo) findOne(ctx context.Context, op string, filter bson.M) (domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return domain.User{}, fmt.Errorf("repo.MongoUserRepo.%s: %w", op, mongoNotFound(err))
	}
	return u, nil
}

func (r *mongoUserRepo) SetAbout(ctx context.Context, id domain.ID, about string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"about": about}})
	if err != nil {
		return fmt.Errorf("repo.MongoUserRepo.SetAbout: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repo.MongoUserRepo.SetAbout: %w", domain.ErrNotFound)
	}
	return nil
}
