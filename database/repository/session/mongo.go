package sessionRepo

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

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a new instance of SessionRepository using MongoDB.
func NewMongoSessionRepo() SessionRepository {
	coll := database.DB().Collection("sessions")
	repo := &MongoSessionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, database.StoreTimeout())
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "jobSeekerId", Value: 1}, {Key: "scheduledAt", Value: -1}}},
		{Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "scheduledAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new session document.
func (r *MongoSessionRepo) Create(ctx context.Context, session *models.Session) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by ID, or (nil, nil) when absent.
func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var session models.Session
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session with id %s: %w", id, err)
	}
	return &session, nil
}

// ListForUser returns the user's sessions for the given role, sorted by
// scheduledAt descending.
func (r *MongoSessionRepo) ListForUser(ctx context.Context, userID string, role ListRole) ([]models.Session, error) {
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

	opts := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	for cursor.Next(ctx) {
		var s models.Session
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, cursor.Err()
}

// UpdateStatusIf transitions the session from the expected status to the
// new one. The expected status is part of the filter, so of two racing
// transitions only one matches; the loser observes a false return.
func (r *MongoSessionRepo) UpdateStatusIf(ctx context.Context, id string, from, to models.SessionStatus, meetingLink, notes string) (bool, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now()}
	if meetingLink != "" {
		set["meetingLink"] = meetingLink
	}
	if notes != "" {
		set["notes"] = notes
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update status of session %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkReferralSubmitted flags the session as referred and links the
// referral. Conditional on referralSubmitted being false so a second
// submission attempt loses.
func (r *MongoSessionRepo) MarkReferralSubmitted(ctx context.Context, id, referralID string) (bool, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{"id": id, "referralSubmitted": false}
	update := bson.M{"$set": bson.M{
		"referralSubmitted": true,
		"referralId":        referralID,
		"updatedAt":         time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark referral on session %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// CountCompletedForJobSeeker counts completed sessions where the user is
// the job seeker.
func (r *MongoSessionRepo) CountCompletedForJobSeeker(ctx context.Context, jobSeekerID string) (int64, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"jobSeekerId": jobSeekerID,
		"status":      models.SessionCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count completed sessions for %s: %w", jobSeekerID, err)
	}
	return n, nil
}
