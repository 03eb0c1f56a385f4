package userRepo

import (
	"context"

	"reflink/models"
)

// DiscoveryQuery filters the public user directory.
type DiscoveryQuery struct {
	Skill string
	Role  string
	Page  int
	Limit int
}

// UserRepository defines methods for user data access.
//
// Lookup methods return (nil, nil) when no document matches. Counter
// methods apply atomic store-side increments; they never read-modify-write.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByUsername retrieves a user by its username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetSummaries retrieves the embedded projections for a set of user IDs.
	GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
	// UpdateFields applies a partial update and returns the updated user.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	// Find searches the public directory, returning a page of users plus the total count.
	Find(ctx context.Context, q DiscoveryQuery) ([]models.User, int64, error)

	// IncrementAvailableSlots adjusts the availableSlots counter by delta.
	IncrementAvailableSlots(ctx context.Context, id string, delta int) error
	// IncrementCompletedSessions adjusts the completedSessions counter by delta.
	IncrementCompletedSessions(ctx context.Context, id string, delta int) error
	// SetCompletedSessions overwrites the completedSessions counter with a recomputed value.
	SetCompletedSessions(ctx context.Context, id string, value int64) error
	// IncrementProfileViews bumps the profile view counter.
	IncrementProfileViews(ctx context.Context, id string) error
	// AppendSuccessStory pushes a success story onto the user's profile.
	AppendSuccessStory(ctx context.Context, id string, story models.SuccessStory) error
	// AppendConsultingOffer links a newly created offer to its owner.
	AppendConsultingOffer(ctx context.Context, userID, offerID string) error
}
