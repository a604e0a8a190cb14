package bookingRepo

import (
	"context"
	"fmt"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateWithRecheck runs the availability re-check and the booking insert in
// one Mongo transaction, so the verify callback sees the booking universe the
// insert will join. Combined with the advisory lock on the (salon, branch,
// date) combination this closes the race between hold creation and submission.
func (repo *MongoBookingRepo) CreateWithRecheck(
	ctx context.Context,
	booking *models.Booking,
	verify func(existing []models.Booking) error,
) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"salon_id":  booking.SalonID,
			"branch_id": booking.BranchID,
			"date":      booking.Date,
			"status":    bson.M{"$nin": nonBlockingStatuses},
		}
		existing, err := repo.findBookings(sc, filter)
		if err != nil {
			return fmt.Errorf("re-check read failed: %w", err)
		}
		if err := verify(existing); err != nil {
			return err
		}
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
