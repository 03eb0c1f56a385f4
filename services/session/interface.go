package session

import (
	"context"
	"time"

	sessionRepo "reflink/database/repository/session"
	"reflink/models"
)

// BookInput carries a booking request into the lifecycle engine.
type BookInput struct {
	OfferID     string
	EmployeeID  string
	ScheduledAt time.Time
	Notes       string
}

// TransitionInput carries a status change request.
type TransitionInput struct {
	SessionID   string
	RequesterID string
	NewStatus   models.SessionStatus
	MeetingLink string
	Notes       string
}

// SessionService drives the session lifecycle: booking against offer
// capacity, status transitions with their counter side effects, and
// cancellation with capacity release.
type SessionService interface {
	Book(ctx context.Context, in BookInput) (*models.SessionDetail, error)
	Transition(ctx context.Context, in TransitionInput) (*models.SessionDetail, error)
	Cancel(ctx context.Context, sessionID, requesterID string) (*models.SessionDetail, error)
	List(ctx context.Context, userID string, role sessionRepo.ListRole) ([]models.SessionDetail, error)

	// MarkReferralSubmitted is called by the referral workflow once a
	// referral is recorded; a second call fails with AlreadySubmitted.
	MarkReferralSubmitted(ctx context.Context, sessionID, referralID string) error
}

// TxRunner executes fn as a single atomic unit against the entity store.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// CounterReconciler schedules an eventual recompute of a user's derived
// counters from the authoritative session records.
type CounterReconciler interface {
	EnqueueRecount(userID string) error
}
