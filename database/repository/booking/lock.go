package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrLockHeld is returned when another writer holds the advisory lock.
var ErrLockHeld = errors.New("booking lock already held")

// MongoBookingLockRepo implements BookingLockRepository on a locks collection
// whose _id is the contended combination, so acquisition is a unique insert.
type MongoBookingLockRepo struct {
	lockColl *mongo.Collection
}

// NewMongoBookingLockRepo constructs a new instance of MongoBookingLockRepo.
func NewMongoBookingLockRepo() *MongoBookingLockRepo {
	db := database.MongoClient.Database("salonbook")
	return &MongoBookingLockRepo{
		lockColl: db.Collection("booking_locks"),
	}
}

// LockID derives the advisory lock id for a contended combination.
func LockID(salonID, branchID, date string) string {
	return fmt.Sprintf("%s|%s|%s", salonID, branchID, date)
}

// Acquire inserts the lock document. A duplicate key error means a concurrent
// writer is inside the re-check+insert critical section for the same combination.
func (repo *MongoBookingLockRepo) Acquire(ctx context.Context, lock *models.BookingLock) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	lock.CreatedAt = time.Now()
	if _, err := repo.lockColl.InsertOne(ctxWithTimeout, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLockHeld
		}
		return fmt.Errorf("error acquiring booking lock %s: %w", lock.ID, err)
	}
	return nil
}

// Release removes the lock document. Missing locks are ignored; the TTL index
// on expires_at clears locks abandoned by crashed writers.
func (repo *MongoBookingLockRepo) Release(ctx context.Context, lockID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.lockColl.DeleteOne(ctxWithTimeout, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("error releasing booking lock %s: %w", lockID, err)
	}
	return nil
}
