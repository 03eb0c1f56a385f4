package models

import "time"

// MaxBookedUsers is the fixed booking capacity of every consulting offer.
const MaxBookedUsers = 5

// Offer categories.
const (
	CategoryCodeReview     = "code-review"
	CategoryOptimization   = "optimization"
	CategoryImplementation = "implementation"
	CategoryAudit          = "audit"
	CategoryConsulting     = "consulting"
)

// Offer difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidCategory reports whether c is a known offer category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryCodeReview, CategoryOptimization, CategoryImplementation, CategoryAudit, CategoryConsulting:
		return true
	}
	return false
}

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ConsultingOffer is a bookable consulting session template published by
// a job seeker. BookedUsers holds the employees currently occupying a
// slot; its size never exceeds MaxBookedUsers.
type ConsultingOffer struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Duration    int       `bson:"duration" json:"duration"` // minutes
	Skills      []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	Benefits    string    `bson:"benefits" json:"benefits"`
	CreatedBy   string    `bson:"createdBy" json:"createdBy"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	Price       float64   `bson:"price" json:"price"` // zero: free for referral exchange
	Category    string    `bson:"category" json:"category"`
	Difficulty  string    `bson:"difficulty" json:"difficulty"`
	BookedUsers []string  `bson:"bookedUsers" json:"bookedUsers"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasBooked reports whether the employee currently holds a slot.
func (o *ConsultingOffer) HasBooked(employeeID string) bool {
	for _, id := range o.BookedUsers {
		if id == employeeID {
			return true
		}
	}
	return false
}

// IsFull reports whether the offer has no free slots left.
func (o *ConsultingOffer) IsFull() bool {
	return len(o.BookedUsers) >= MaxBookedUsers
}
