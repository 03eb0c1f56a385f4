package models

import "time"

// Skill is a named skill with a 1-5 proficiency level.
type Skill struct {
	Name  string `bson:"name" json:"name"`
	Level int    `bson:"level" json:"level"`
}

// Project is a portfolio entry shown on a job seeker's profile.
type Project struct {
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tech        []string `bson:"tech,omitempty" json:"tech,omitempty"`
	GithubURL   string   `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	LiveURL     string   `bson:"liveUrl,omitempty" json:"liveUrl,omitempty"`
	Image       string   `bson:"image,omitempty" json:"image,omitempty"`
}

// SuccessStory records a referral won through the platform.
type SuccessStory struct {
	Testimonial string    `bson:"testimonial" json:"testimonial"`
	Employee    string    `bson:"employee" json:"employee"`
	Company     string    `bson:"company" json:"company"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// SocialLinks holds optional external profile links.
type SocialLinks struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Github    string `bson:"github,omitempty" json:"github,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Portfolio string `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
}

// User represents a platform user. A user acts as a job seeker on offers
// they own and as an employee on sessions they book.
//
// AvailableSlots and CompletedSessions are denormalized counters derived
// from session/offer state; they are only ever written through atomic
// store increments or recomputed from the authoritative records.
type User struct {
	ID                string         `bson:"id" json:"id"`
	Username          string         `bson:"username" json:"username"`
	Email             string         `bson:"email" json:"email,omitempty"`
	PasswordHash      string         `bson:"passwordHash" json:"-"`
	Name              string         `bson:"name" json:"name"`
	Title             string         `bson:"title" json:"title"`
	Experience        string         `bson:"experience" json:"experience"`
	Bio               string         `bson:"bio,omitempty" json:"bio,omitempty"`
	Location          string         `bson:"location" json:"location"`
	RemotePolicy      string         `bson:"remotePolicy,omitempty" json:"remotePolicy,omitempty"`
	DesiredRoles      []string       `bson:"desiredRoles,omitempty" json:"desiredRoles,omitempty"`
	TargetCompanies   []string       `bson:"targetCompanies,omitempty" json:"targetCompanies,omitempty"`
	Skills            []Skill        `bson:"skills,omitempty" json:"skills,omitempty"`
	Projects          []Project      `bson:"projects,omitempty" json:"projects,omitempty"`
	ConsultingOffers  []string       `bson:"consultingOffers,omitempty" json:"consultingOffers,omitempty"`
	AvailableSlots    int            `bson:"availableSlots" json:"availableSlots"`
	CompletedSessions int            `bson:"completedSessions" json:"completedSessions"`
	SuccessStories    []SuccessStory `bson:"successStories,omitempty" json:"successStories,omitempty"`
	ProfileViews      int            `bson:"profileViews" json:"profileViews"`
	IsAvailable       bool           `bson:"isAvailable" json:"isAvailable"`
	SocialLinks       *SocialLinks   `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`
	CreatedAt         time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the projection of a user embedded in session and
// referral responses.
type UserSummary struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Username string `bson:"username" json:"username"`
	Title    string `bson:"title" json:"title"`
}

// Summary returns the embedded projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Title: u.Title}
}
