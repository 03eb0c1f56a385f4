package referralRepo

import (
	"context"

	"reflink/models"
)

// ListRole selects which side of a referral the listing user is on.
type ListRole string

const (
	RoleAll       ListRole = "all"
	RoleJobSeeker ListRole = "as-jobseeker"
	RoleEmployee  ListRole = "as-employee"
)

// ReferralRepository defines data access for referrals.
type ReferralRepository interface {
	// Create inserts a new referral record.
	Create(ctx context.Context, referral *models.Referral) error
	// GetByID retrieves a referral by ID, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.Referral, error)
	// GetBySessionID retrieves the referral for a session, or (nil, nil).
	GetBySessionID(ctx context.Context, sessionID string) (*models.Referral, error)
	// ListForUser returns the user's referrals for the given role, sorted
	// by creation time descending.
	ListForUser(ctx context.Context, userID string, role ListRole) ([]models.Referral, error)
	// UpdateStatus sets the referral status, optionally appending an
	// interview update, and returns the updated referral.
	UpdateStatus(ctx context.Context, id string, status models.ReferralStatus, update *models.InterviewUpdate) (*models.Referral, error)
}
