package resourceRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deskhub/database"
	"deskhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoResourceRepo implements ResourceRepository backed by MongoDB.
type MongoResourceRepo struct {
	coll *mongo.Collection
}

func NewMongoResourceRepo() *MongoResourceRepo {
	return &MongoResourceRepo{coll: database.DB().Collection("resources")}
}

func (repo *MongoResourceRepo) ListResources(ctx context.Context) ([]models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("decoding resources: %w", err)
	}
	return resources, nil
}

func (repo *MongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var resource models.Resource
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&resource)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching resource %s: %w", id, err)
	}
	return &resource, nil
}

func (repo *MongoResourceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("fetching resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("decoding resources: %w", err)
	}
	return resources, nil
}

func (repo *MongoResourceRepo) UpdateAvailability(ctx context.Context, id string, availability models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	serialized, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("serializing availability: %w", err)
	}
	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"availability": string(serialized)}},
	)
	if err != nil {
		return fmt.Errorf("updating availability for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource %s not found", id)
	}
	return nil
}

func (repo *MongoResourceRepo) RestoreAvailability(ctx context.Context, id string, raw interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"availability": raw}},
	)
	if err != nil {
		return fmt.Errorf("restoring availability for %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("resource %s not found", id)
	}
	return nil
}
