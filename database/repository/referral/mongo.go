package referralRepo

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

// MongoReferralRepo implements ReferralRepository using MongoDB.
type MongoReferralRepo struct {
	coll *mongo.Collection
}

// NewMongoReferralRepo creates a new instance of ReferralRepository using MongoDB.
func NewMongoReferralRepo() ReferralRepository {
	coll := database.DB().Collection("referrals")
	repo := &MongoReferralRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, database.StoreTimeout())
}

func (r *MongoReferralRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One referral per session, enforced by the store.
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "jobSeekerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new referral document.
func (r *MongoReferralRepo) Create(ctx context.Context, referral *models.Referral) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now()
	referral.CreatedAt = now
	referral.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, referral); err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

func (r *MongoReferralRepo) findOne(ctx context.Context, filter bson.M) (*models.Referral, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var ref models.Referral
	if err := r.coll.FindOne(ctx, filter).Decode(&ref); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch referral: %w", err)
	}
	return &ref, nil
}

// GetByID retrieves a referral by ID, or (nil, nil) when absent.
func (r *MongoReferralRepo) GetByID(ctx context.Context, id string) (*models.Referral, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetBySessionID retrieves the referral for a session, or (nil, nil).
func (r *MongoReferralRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Referral, error) {
	return r.findOne(ctx, bson.M{"sessionId": sessionID})
}

// ListForUser returns the user's referrals for the given role, sorted by
// creation time descending.
func (r *MongoReferralRepo) ListForUser(ctx context.Context, userID string, role ListRole) ([]models.Referral, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var filter bson.M
	switch role {
	case RoleJobSeeker:
		filter = bson.M{"jobSeekerId": userID}
	case RoleEmployee:
		filter = bson.M{"employeeId": userID}
	default:
		filter = bson.M{"$or": bson.A{
			bson.M{"jobSeekerId": userID},
			bson.M{"employeeId": userID},
		}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var referrals []models.Referral
	for cursor.Next(ctx) {
		var ref models.Referral
		if err := cursor.Decode(&ref); err != nil {
			return nil, fmt.Errorf("failed to decode referral: %w", err)
		}
		referrals = append(referrals, ref)
	}
	return referrals, cursor.Err()
}

// UpdateStatus sets the referral status, optionally appending an
// interview update, and returns the updated referral.
func (r *MongoReferralRepo) UpdateStatus(ctx context.Context, id string, status models.ReferralStatus, update *models.InterviewUpdate) (*models.Referral, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	mutation := bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	}
	if update != nil {
		mutation["$push"] = bson.M{"interviewUpdates": *update}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ref models.Referral
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, mutation, opts).Decode(&ref)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update referral %s: %w", id, err)
	}
	return &ref, nil
}
