package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskhub/database"
	"deskhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements ReservationRepository backed by MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

func NewMongoReservationRepo() *MongoReservationRepo {
	return &MongoReservationRepo{coll: database.DB().Collection("reservations")}
}

// EnsureIndexes creates the compound indexes the conflict scans rely on.
// A unique (resourceId, date, timeslot) constraint would close the
// check-then-act race for good; until the data is migrated to one row per
// slot that stays future work, and these indexes only keep the scans cheap.
func (repo *MongoReservationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating reservation indexes: %w", err)
	}
	return nil
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var reservation models.Reservation
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reservation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching reservation %s: %w", id, err)
	}
	return &reservation, nil
}

func (repo *MongoReservationRepo) ListForDesk(ctx context.Context, deskID, sinceDate string) ([]models.Reservation, error) {
	filter := bson.M{
		"resourceId": deskID,
		"date":       bson.M{"$gte": sinceDate},
	}
	return repo.list(ctx, filter)
}

func (repo *MongoReservationRepo) ListForUser(ctx context.Context, userID, sinceDate string, excludeCancelled bool) ([]models.Reservation, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": sinceDate},
	}
	if excludeCancelled {
		filter["status"] = bson.M{"$ne": models.ReservationStatusCancelled}
	}
	return repo.list(ctx, filter)
}

func (repo *MongoReservationRepo) ListReserved(ctx context.Context, upToDate string) ([]models.Reservation, error) {
	// Date strings may carry a "T..." time suffix, so an inclusive bound on
	// the bare ISO date must extend past it lexicographically.
	filter := bson.M{
		"status": models.ReservationStatusReserved,
		"date":   bson.M{"$lt": upToDate + "T24"},
	}
	return repo.list(ctx, filter)
}

func (repo *MongoReservationRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("decoding reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) Insert(ctx context.Context, reservation *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}
	return nil
}

func (repo *MongoReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("updating reservation %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation %s not found", id)
	}
	return nil
}

func (repo *MongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := repo.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("deleting reservation %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("reservation %s not found", id)
	}
	return nil
}
