package offerRepo

import (
	"context"
	"fmt"
	"time"

	"reflink/database"
	"reflink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOfferRepo implements OfferRepository using MongoDB.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo creates a new instance of OfferRepository using MongoDB.
func NewMongoOfferRepo() OfferRepository {
	coll := database.DB().Collection("consulting_offers")
	repo := &MongoOfferRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, database.StoreTimeout())
}

func (r *MongoOfferRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new offer document.
func (r *MongoOfferRepo) Create(ctx context.Context, offer *models.ConsultingOffer) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	if offer.BookedUsers == nil {
		offer.BookedUsers = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, offer); err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByID retrieves an offer by ID, or (nil, nil) when absent.
func (r *MongoOfferRepo) GetByID(ctx context.Context, id string) (*models.ConsultingOffer, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var offer models.ConsultingOffer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&offer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch offer with id %s: %w", id, err)
	}
	return &offer, nil
}

// GetMany retrieves offers for a set of IDs.
func (r *MongoOfferRepo) GetMany(ctx context.Context, ids []string) (map[string]models.ConsultingOffer, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offers: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]models.ConsultingOffer, len(ids))
	for cursor.Next(ctx) {
		var o models.ConsultingOffer
		if err := cursor.Decode(&o); err != nil {
			return nil, fmt.Errorf("failed to decode offer: %w", err)
		}
		out[o.ID] = o
	}
	return out, cursor.Err()
}

// Reserve atomically claims a slot for employeeID. The filter folds the
// capacity check, the duplicate check, and the active check into the
// update itself, so two racing reservations can never both pass a stale
// size check.
func (r *MongoOfferRepo) Reserve(ctx context.Context, offerID, employeeID string) (bool, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"id":          offerID,
		"isActive":    true,
		"bookedUsers": bson.M{"$ne": employeeID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$bookedUsers", bson.A{}}}},
			models.MaxBookedUsers,
		}},
	}
	update := bson.M{
		"$addToSet": bson.M{"bookedUsers": employeeID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve slot on offer %s: %w", offerID, err)
	}
	return res.ModifiedCount > 0, nil
}

// Release removes employeeID from the booked set.
func (r *MongoOfferRepo) Release(ctx context.Context, offerID, employeeID string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"bookedUsers": employeeID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": offerID}, update); err != nil {
		return fmt.Errorf("failed to release slot on offer %s: %w", offerID, err)
	}
	return nil
}
