package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umrahcrm/infras/otel"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/timezone"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoDocument struct {
	Key        string    `bson:"_id"`
	Payload    string    `bson:"payload"`
	Version    int64     `bson:"version"`
	ModifiedAt time.Time `bson:"modified_at"`
	ModifiedBy string    `bson:"modified_by"`
}

type mongoStore struct {
	coll *mongo.Collection
	otel otel.Otel
}

// NewMongo keeps one document per collection key.
func NewMongo(db *mongo.Database, otel otel.Otel) Store {
	return &mongoStore{coll: db.Collection(tableName), otel: otel}
}

func (s *mongoStore) Load(ctx context.Context, key string) (snap Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".mongo.Load")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var doc mongoDocument

	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return snap, ErrNotFound
	}

	if err != nil {
		return snap, fmt.Errorf("failed to load collection %q: %w", key, err)
	}

	return Snapshot{Data: []byte(doc.Payload), Version: doc.Version}, nil
}

func (s *mongoStore) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (version int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".mongo.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	next := expectedVersion + 1

	if expectedVersion == 0 {
		_, err = s.coll.InsertOne(ctx, mongoDocument{
			Key:        key,
			Payload:    string(data),
			Version:    next,
			ModifiedAt: timezone.Now(),
			ModifiedBy: actor,
		})
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrVersionConflict
		}

		if err != nil {
			return 0, fmt.Errorf("failed to create collection %q: %w", key, err)
		}

		return next, nil
	}

	filter := bson.D{{Key: "_id", Value: key}, {Key: fieldVersion, Value: expectedVersion}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "payload", Value: string(data)},
		{Key: fieldVersion, Value: next},
		{Key: "modified_at", Value: timezone.Now()},
		{Key: "modified_by", Value: actor},
	}}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to save collection %q: %w", key, err)
	}

	if res.MatchedCount == 0 {
		return 0, ErrVersionConflict
	}

	return next, nil
}
