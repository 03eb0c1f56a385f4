package sessionRepo

import (
	"context"

	"reflink/models"
)

// ListRole selects which side of a session the listing user is on.
type ListRole string

const (
	RoleAll       ListRole = "all"
	RoleJobSeeker ListRole = "as-jobseeker"
	RoleEmployee  ListRole = "as-employee"
)

// SessionRepository defines data access for sessions.
//
// UpdateStatusIf and MarkReferralSubmitted are conditional updates keyed
// on the expected current state; a false return means another writer got
// there first, which serializes racing requests per session.
type SessionRepository interface {
	// Create inserts a new session record.
	Create(ctx context.Context, session *models.Session) error
	// GetByID retrieves a session by ID, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// ListForUser returns the user's sessions for the given role, sorted
	// by scheduledAt descending.
	ListForUser(ctx context.Context, userID string, role ListRole) ([]models.Session, error)

	// UpdateStatusIf transitions the session from the expected status to
	// the new one, optionally setting meetingLink and notes. It reports
	// whether the document matched (i.e. still held the expected status).
	UpdateStatusIf(ctx context.Context, id string, from, to models.SessionStatus, meetingLink, notes string) (bool, error)
	// MarkReferralSubmitted flags the session as referred and links the
	// referral, provided no referral was recorded before.
	MarkReferralSubmitted(ctx context.Context, id, referralID string) (bool, error)

	// CountCompletedForJobSeeker counts completed sessions where the user
	// is the job seeker; the authoritative source for the
	// completedSessions counter.
	CountCompletedForJobSeeker(ctx context.Context, jobSeekerID string) (int64, error)
}
