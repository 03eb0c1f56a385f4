package models

import "time"

// SessionStatus is a session lifecycle state.
type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
	SessionNoShow     SessionStatus = "no-show"
)

// ValidSessionStatus reports whether s is a known session status.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionScheduled, SessionInProgress, SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

// Feedback is a post-session rating left by either participant.
type Feedback struct {
	Rating  int    `bson:"rating" json:"rating"` // 1-5
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// Session is one concrete booked instance of an offer between a job
// seeker (the offer owner) and an employee (the booker). Duration is
// copied from the offer at booking time and immutable afterwards.
type Session struct {
	ID                string        `bson:"id" json:"id"`
	ConsultingOfferID string        `bson:"consultingOfferId" json:"consultingOfferId"`
	JobSeekerID       string        `bson:"jobSeekerId" json:"jobSeekerId"`
	EmployeeID        string        `bson:"employeeId" json:"employeeId"`
	ScheduledAt       time.Time     `bson:"scheduledAt" json:"scheduledAt"`
	Duration          int           `bson:"duration" json:"duration"` // minutes
	Status            SessionStatus `bson:"status" json:"status"`
	MeetingLink       string        `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Notes             string        `bson:"notes,omitempty" json:"notes,omitempty"`
	EmployeeFeedback  *Feedback     `bson:"employeeFeedback,omitempty" json:"employeeFeedback,omitempty"`
	JobSeekerFeedback *Feedback     `bson:"jobSeekerFeedback,omitempty" json:"jobSeekerFeedback,omitempty"`
	ReferralSubmitted bool          `bson:"referralSubmitted" json:"referralSubmitted"`
	ReferralID        string        `bson:"referralId,omitempty" json:"referralId,omitempty"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsParticipant reports whether userID is the session's job seeker or
// employee.
func (s *Session) IsParticipant(userID string) bool {
	return s.JobSeekerID == userID || s.EmployeeID == userID
}

// SessionDetail is a session with its offer and participant summaries
// populated for API responses.
type SessionDetail struct {
	Session
	ConsultingOffer *ConsultingOffer `json:"consultingOffer,omitempty"`
	JobSeeker       *UserSummary     `json:"jobSeeker,omitempty"`
	Employee        *UserSummary     `json:"employee,omitempty"`
}
