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

type mongoInformationRepo struct {
	coll *mongo.Collection
}

// NewMongoInformationRepo constructs an InformationRepo over the
// trips-information collection.
func NewMongoInformationRepo(coll *mongo.Collection) InformationRepo {
	return &mongoInformationRepo{coll: coll}
}

func (r *mongoInformationRepo) Create(ctx context.Context, doc domain.InformationDocument) (domain.InformationDocument, error) {
	doc.ID = ensureID(doc.ID)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	doc.UpdatedAt = doc.UpdatedAt.Truncate(time.Millisecond)
	if doc.Checklist == nil {
		doc.Checklist = []domain.Checklist{}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.MongoInformationRepo.Create: %w", err)
	}
	return doc, nil
}

func (r *mongoInformationRepo) GetByTrip(ctx context.Context, tripID domain.ID) (domain.InformationDocument, error) {
	var doc domain.InformationDocument
	if err := r.coll.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&doc); err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.MongoInformationRepo.GetByTrip: %w", mongoNotFound(err))
	}
	if doc.Checklist == nil {
		doc.Checklist = []domain.Checklist{}
	}
	return doc, nil
}

func (r *mongoInformationRepo) UpdateFields(ctx context.Context, tripID domain.ID, fields map[string]any) error {
	set := bson.M{"updated_at": now()}
	for k, v := range fields {
		set["data."+k] = v
	}
	return r.update(ctx, "UpdateFields", tripID, set)
}

func (r *mongoInformationRepo) ReplaceData(ctx context.Context, tripID domain.ID, data domain.TravelInformation) (domain.InformationDocument, error) {
	var doc domain.InformationDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"trip_id": tripID},
		bson.M{"$set": bson.M{"data": data, "updated_at": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return domain.InformationDocument{}, fmt.Errorf("repo.MongoInformationRepo.ReplaceData: %w", mongoNotFound(err))
	}
	return doc, nil
}

func (r *mongoInformationRepo) SetChecklists(ctx context.Context, tripID domain.ID, lists []domain.Checklist) error {
	if lists == nil {
		lists = []domain.Checklist{}
	}
	return r.update(ctx, "SetChecklists", tripID, bson.M{"checklist": lists, "updated_at": now()})
}

func (r *mongoInformationRepo) update(ctx context.Context, op string, tripID domain.ID, set bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"trip_id": tripID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("repo.MongoInformationRepo.%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("repo.MongoInformationRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *mongoInformationRepo) DeleteByTrip(ctx context.Context, tripID domain.ID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.MongoInformationRepo.DeleteByTrip: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoInformationRepo.DeleteByTrip: %w", domain.ErrNotFound)
	}
	return nil
}

// now is the store timestamp, truncated to the millisecond precision of BSON dates.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
