package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTokenResolver resolves device tokens from the device_tokens collection.
// The identity collaborator writes the tokens; this engine only reads them.
type MongoTokenResolver struct {
	tokenColl *mongo.Collection
}

// NewMongoTokenResolver constructs a new instance of MongoTokenResolver.
func NewMongoTokenResolver() *MongoTokenResolver {
	db := database.MongoClient.Database("salonbook")
	return &MongoTokenResolver{
		tokenColl: db.Collection("device_tokens"),
	}
}

// FCMToken returns the most recently registered token for the recipient.
// A recipient without a token resolves to "" with no error.
func (r *MongoTokenResolver) FCMToken(ctx context.Context, role, recipientID string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc struct {
		Token string `bson:"token"`
	}
	err := r.tokenColl.FindOne(ctxWithTimeout,
		bson.M{"role": role, "recipient_id": recipientID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("error fetching device token for %s %s: %w", role, recipientID, err)
	}
	return doc.Token, nil
}
