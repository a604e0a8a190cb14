package salonRepo

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

// ErrNotFound is returned when no salon matches the lookup.
var ErrNotFound = errors.New("salon not found")

// MongoSalonRepo implements SalonDirectory using MongoDB.
type MongoSalonRepo struct {
	salonColl *mongo.Collection
}

// NewMongoSalonRepo constructs a new instance of MongoSalonRepo.
func NewMongoSalonRepo() *MongoSalonRepo {
	db := database.MongoClient.Database("salonbook")
	return &MongoSalonRepo{
		salonColl: db.Collection("salons"),
	}
}

// FetchSalon retrieves a salon record by ID.
func (repo *MongoSalonRepo) FetchSalon(ctx context.Context, salonID string) (*models.Salon, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var salon models.Salon
	err := repo.salonColl.FindOne(ctxWithTimeout, bson.M{"id": salonID}).Decode(&salon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching salon with id %s: %w", salonID, err)
	}
	return &salon, nil
}
