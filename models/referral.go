package models

import "time"

// ReferralStatus is a referral workflow state.
type ReferralStatus string

const (
	ReferralSubmitted   ReferralStatus = "submitted"
	ReferralUnderReview ReferralStatus = "under-review"
	ReferralInterview   ReferralStatus = "interview"
	ReferralRejected    ReferralStatus = "rejected"
	ReferralHired       ReferralStatus = "hired"
)

// ValidReferralStatus reports whether s is a known referral status.
func ValidReferralStatus(s ReferralStatus) bool {
	switch s {
	case ReferralSubmitted, ReferralUnderReview, ReferralInterview, ReferralRejected, ReferralHired:
		return true
	}
	return false
}

// InterviewUpdate records progress on a referral after submission.
type InterviewUpdate struct {
	Stage  string    `bson:"stage" json:"stage"`
	Date   time.Time `bson:"date" json:"date"`
	Notes  string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Status string    `bson:"status" json:"status"`
}

// Referral is an employee's submission recommending a job seeker for a
// position, created once per completed session.
type Referral struct {
	ID               string            `bson:"id" json:"id"`
	SessionID        string            `bson:"sessionId" json:"sessionId"`
	JobSeekerID      string            `bson:"jobSeekerId" json:"jobSeekerId"`
	EmployeeID       string            `bson:"employeeId" json:"employeeId"`
	Company          string            `bson:"company" json:"company"`
	Position         string            `bson:"position" json:"position"`
	JobDescription   string            `bson:"jobDescription,omitempty" json:"jobDescription,omitempty"`
	Status           ReferralStatus    `bson:"status" json:"status"`
	ReferralBonus    float64           `bson:"referralBonus" json:"referralBonus"`
	EmployeeNotes    string            `bson:"employeeNotes,omitempty" json:"employeeNotes,omitempty"`
	ApplicationLink  string            `bson:"applicationLink,omitempty" json:"applicationLink,omitempty"`
	InterviewUpdates []InterviewUpdate `bson:"interviewUpdates,omitempty" json:"interviewUpdates,omitempty"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ReferralDetail is a referral with participant and session summaries
// populated for API responses.
type ReferralDetail struct {
	Referral
	JobSeeker *UserSummary `json:"jobSeeker,omitempty"`
	Employee  *UserSummary `json:"employee,omitempty"`
	Session   *Session     `json:"session,omitempty"`
}
