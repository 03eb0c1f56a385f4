package offerRepo

import (
	"context"

	"reflink/models"
)

// OfferRepository defines data access for consulting offers, including
// the capacity tracking primitives.
//
// Reserve and Release are the only operations that mutate bookedUsers.
// Both are single conditional store updates, so concurrent reservations
// against the same offer serialize inside the store: the capacity check
// and the membership add are one atomic operation, never a read followed
// by a write.
type OfferRepository interface {
	// Create inserts a new offer record.
	Create(ctx context.Context, offer *models.ConsultingOffer) error
	// GetByID retrieves an offer by ID, or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.ConsultingOffer, error)
	// GetMany retrieves offers for a set of IDs.
	GetMany(ctx context.Context, ids []string) (map[string]models.ConsultingOffer, error)

	// Reserve atomically adds employeeID to the offer's booked set,
	// provided the offer is active, the employee is not already booked,
	// and fewer than models.MaxBookedUsers slots are held. It reports
	// whether the reservation was applied.
	Reserve(ctx context.Context, offerID, employeeID string) (bool, error)
	// Release removes employeeID from the booked set. Idempotent: absent
	// members are not an error.
	Release(ctx context.Context, offerID, employeeID string) error
}
