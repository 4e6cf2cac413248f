package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskhub/database"
	"deskhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepo implements UserRepository backed by MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{coll: database.DB().Collection("users")}
}

func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := repo.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (repo *MongoUserRepo) UpdateReservationIndex(ctx context.Context, userID string, reservationIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if reservationIDs == nil {
		reservationIDs = []string{}
	}
	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$set": bson.M{"reservations": reservationIDs}},
	)
	if err != nil {
		return fmt.Errorf("updating reservation index for user %s: %w", userID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}
