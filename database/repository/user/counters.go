package userRepo

import (
	"context"
	"fmt"
	"time"

	"reflink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Counter writes go through store-side $inc/$set so concurrent updates
// never clobber each other. Application code must not read-modify-write
// these fields.

func (r *MongoUserRepo) incField(ctx context.Context, id, field string, delta int) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{field: delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to increment %s for user %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// IncrementAvailableSlots adjusts the availableSlots counter by delta.
func (r *MongoUserRepo) IncrementAvailableSlots(ctx context.Context, id string, delta int) error {
	return r.incField(ctx, id, "availableSlots", delta)
}

// IncrementCompletedSessions adjusts the completedSessions counter by delta.
func (r *MongoUserRepo) IncrementCompletedSessions(ctx context.Context, id string, delta int) error {
	return r.incField(ctx, id, "completedSessions", delta)
}

// SetCompletedSessions overwrites the completedSessions counter with a
// value recomputed from the authoritative session records.
func (r *MongoUserRepo) SetCompletedSessions(ctx context.Context, id string, value int64) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"completedSessions": value, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set completedSessions for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// IncrementProfileViews bumps the profile view counter.
func (r *MongoUserRepo) IncrementProfileViews(ctx context.Context, id string) error {
	return r.incField(ctx, id, "profileViews", 1)
}

// AppendSuccessStory pushes a success story onto the user's profile.
func (r *MongoUserRepo) AppendSuccessStory(ctx context.Context, id string, story models.SuccessStory) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"successStories": story},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append success story for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// AppendConsultingOffer links a newly created offer to its owner.
func (r *MongoUserRepo) AppendConsultingOffer(ctx context.Context, userID, offerID string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"consultingOffers": offerID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to link offer %s to user %s: %w", offerID, userID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", userID)
	}
	return nil
}
