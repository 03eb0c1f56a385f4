package referral

import (
	"context"
	"fmt"
	"time"

	referralRepo "reflink/database/repository/referral"
	sessionRepo "reflink/database/repository/session"
	userRepo "reflink/database/repository/user"
	"reflink/models"
	"reflink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitInput carries a referral submission.
type SubmitInput struct {
	SessionID       string
	EmployeeID      string
	Company         string
	Position        string
	JobDescription  string
	ApplicationLink string
	EmployeeNotes   string
}

// SessionMarker is the slice of the session lifecycle engine the
// referral workflow needs: recording that a referral was submitted.
type SessionMarker interface {
	MarkReferralSubmitted(ctx context.Context, sessionID, referralID string) error
}

// ReferralService gates referral submission on session completion and
// manages the referral status workflow.
type ReferralService interface {
	CanSubmitReferral(sess *models.Session, callerID string) bool
	Submit(ctx context.Context, in SubmitInput) (*models.ReferralDetail, error)
	List(ctx context.Context, userID string, role referralRepo.ListRole) ([]models.ReferralDetail, error)
	UpdateStatus(ctx context.Context, referralID, requesterID string, status models.ReferralStatus, notes string) (*models.ReferralDetail, error)
}

// DefaultReferralService implements ReferralService.
type DefaultReferralService struct {
	Referrals referralRepo.ReferralRepository
	Sessions  sessionRepo.SessionRepository
	Users     userRepo.UserRepository
	Lifecycle SessionMarker
}

func storeErr(message string, err error) error {
	return utils.WrapAppError(utils.KindInternal, message, err)
}

// CanSubmitReferral reports whether the caller may submit a referral for
// the session: the session is completed, not yet referred, and the
// caller is its employee.
func (s *DefaultReferralService) CanSubmitReferral(sess *models.Session, callerID string) bool {
	return sess != nil &&
		sess.Status == models.SessionCompleted &&
		!sess.ReferralSubmitted &&
		sess.EmployeeID == callerID
}

// Submit creates a referral for a completed session. The session is
// marked through a conditional update, so a second submission for the
// same session fails with AlreadySubmitted.
func (s *DefaultReferralService) Submit(ctx context.Context, in SubmitInput) (*models.ReferralDetail, error) {
	if in.Company == "" || in.Position == "" {
		return nil, utils.NewAppError(utils.KindValidation, "Company and position are required")
	}

	sess, err := s.Sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, storeErr("failed to load session", err)
	}
	if sess == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Session not found")
	}
	if sess.EmployeeID != in.EmployeeID {
		return nil, utils.NewAppError(utils.KindForbidden, "Not authorized to submit referral for this session")
	}
	if sess.Status != models.SessionCompleted {
		return nil, utils.NewAppError(utils.KindValidation, "Can only submit referral for completed sessions")
	}
	if sess.ReferralSubmitted {
		return nil, utils.NewAppError(utils.KindAlreadySubmitted, "Referral already submitted for this session")
	}

	ref := &models.Referral{
		ID:              uuid.New().String(),
		SessionID:       sess.ID,
		JobSeekerID:     sess.JobSeekerID,
		EmployeeID:      in.EmployeeID,
		Company:         in.Company,
		Position:        in.Position,
		JobDescription:  in.JobDescription,
		ApplicationLink: in.ApplicationLink,
		EmployeeNotes:   in.EmployeeNotes,
		Status:          models.ReferralSubmitted,
	}

	// Claim the session first; the conditional mark is what makes the
	// submission idempotent under races.
	if err := s.Lifecycle.MarkReferralSubmitted(ctx, sess.ID, ref.ID); err != nil {
		return nil, err
	}
	if err := s.Referrals.Create(ctx, ref); err != nil {
		return nil, storeErr("failed to create referral", err)
	}

	employee, err := s.Users.GetByID(ctx, in.EmployeeID)
	if err == nil && employee != nil {
		story := models.SuccessStory{
			Testimonial: fmt.Sprintf("%s from %s referred me for %s after a successful consulting session.",
				employee.Name, in.Company, in.Position),
			Employee:    employee.Name,
			Company:     in.Company,
			CreatedAt:   time.Now(),
		}
		if err := s.Users.AppendSuccessStory(ctx, sess.JobSeekerID, story); err != nil {
			utils.GetLogger().Warn("failed to append success story",
				zap.String("jobSeekerId", sess.JobSeekerID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("referral submitted",
		zap.String("referralId", ref.ID),
		zap.String("sessionId", sess.ID))

	return s.detail(ctx, *ref)
}

// List returns the user's referrals with participant and session
// summaries populated, newest first.
func (s *DefaultReferralService) List(ctx context.Context, userID string, role referralRepo.ListRole) ([]models.ReferralDetail, error) {
	referrals, err := s.Referrals.ListForUser(ctx, userID, role)
	if err != nil {
		return nil, storeErr("failed to list referrals", err)
	}
	return s.populate(ctx, referrals)
}

// UpdateStatus advances the referral workflow. Interview and hired
// statuses append an interview update entry.
func (s *DefaultReferralService) UpdateStatus(ctx context.Context, referralID, requesterID string, status models.ReferralStatus, notes string) (*models.ReferralDetail, error) {
	if !models.ValidReferralStatus(status) {
		return nil, utils.NewAppError(utils.KindValidation, "Unknown referral status")
	}

	ref, err := s.Referrals.GetByID(ctx, referralID)
	if err != nil {
		return nil, storeErr("failed to load referral", err)
	}
	if ref == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Referral not found")
	}
	if ref.JobSeekerID != requesterID && ref.EmployeeID != requesterID {
		return nil, utils.NewAppError(utils.KindForbidden, "Not authorized to update this referral")
	}

	var update *models.InterviewUpdate
	if status == models.ReferralInterview || status == models.ReferralHired {
		update = &models.InterviewUpdate{
			Stage:  string(status),
			Date:   time.Now(),
			Notes:  notes,
			Status: string(status),
		}
	}

	updated, err := s.Referrals.UpdateStatus(ctx, referralID, status, update)
	if err != nil {
		return nil, storeErr("failed to update referral", err)
	}
	if updated == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Referral not found")
	}
	return s.detail(ctx, *updated)
}

func (s *DefaultReferralService) detail(ctx context.Context, ref models.Referral) (*models.ReferralDetail, error) {
	details, err := s.populate(ctx, []models.Referral{ref})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *DefaultReferralService) populate(ctx context.Context, referrals []models.Referral) ([]models.ReferralDetail, error) {
	details := make([]models.ReferralDetail, 0, len(referrals))
	if len(referrals) == 0 {
		return details, nil
	}

	userIDs := make([]string, 0, len(referrals)*2)
	for _, ref := range referrals {
		userIDs = append(userIDs, ref.JobSeekerID, ref.EmployeeID)
	}
	users, err := s.Users.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, storeErr("failed to load participants", err)
	}

	for _, ref := range referrals {
		d := models.ReferralDetail{Referral: ref}
		if js, ok := users[ref.JobSeekerID]; ok {
			u := js
			d.JobSeeker = &u
		}
		if emp, ok := users[ref.EmployeeID]; ok {
			u := emp
			d.Employee = &u
		}
		if sess, err := s.Sessions.GetByID(ctx, ref.SessionID); err == nil && sess != nil {
			d.Session = sess
		}
		details = append(details, d)
	}
	return details, nil
}
