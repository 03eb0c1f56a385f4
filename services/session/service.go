package session

import (
	"context"

	offerRepo "reflink/database/repository/offer"
	sessionRepo "reflink/database/repository/session"
	userRepo "reflink/database/repository/user"
	"reflink/models"
	"reflink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionService implements SessionService over the entity store
// repositories.
type DefaultSessionService struct {
	Sessions   sessionRepo.SessionRepository
	Offers     offerRepo.OfferRepository
	Users      userRepo.UserRepository
	RunTx      TxRunner
	Reconciler CounterReconciler
}

func (s *DefaultSessionService) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.RunTx != nil {
		return s.RunTx(ctx, fn)
	}
	return fn(ctx)
}

// Book validates the booking preconditions, reserves a capacity slot on
// the offer, creates the session and decrements the owner's available
// slots. The three writes run as one atomic unit: a failed step leaves
// nothing visible.
func (s *DefaultSessionService) Book(ctx context.Context, in BookInput) (*models.SessionDetail, error) {
	offer, err := s.Offers.GetByID(ctx, in.OfferID)
	if err != nil {
		return nil, storeErr("failed to load offer", err)
	}
	if offer == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Consulting offer not found")
	}
	if offer.CreatedBy == in.EmployeeID {
		return nil, utils.NewAppError(utils.KindSelfBooking, "Cannot book your own consulting offer")
	}

	sess := &models.Session{
		ID:                uuid.New().String(),
		ConsultingOfferID: offer.ID,
		JobSeekerID:       offer.CreatedBy,
		EmployeeID:        in.EmployeeID,
		ScheduledAt:       in.ScheduledAt,
		Duration:          offer.Duration,
		Status:            models.SessionScheduled,
		Notes:             in.Notes,
	}

	err = s.runTx(ctx, func(txCtx context.Context) error {
		reserved, err := s.Offers.Reserve(txCtx, offer.ID, in.EmployeeID)
		if err != nil {
			return storeErr("failed to reserve offer slot", err)
		}
		if !reserved {
			return s.reserveRejection(txCtx, offer.ID, in.EmployeeID)
		}
		if err := s.Sessions.Create(txCtx, sess); err != nil {
			return storeErr("failed to create session", err)
		}
		if err := s.Users.IncrementAvailableSlots(txCtx, offer.CreatedBy, -1); err != nil {
			return storeErr("failed to decrement available slots", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("session booked",
		zap.String("sessionId", sess.ID),
		zap.String("offerId", offer.ID),
		zap.String("employeeId", in.EmployeeID))

	return s.detail(ctx, *sess)
}

// reserveRejection turns a failed conditional reserve into the specific
// business error by re-reading the offer.
func (s *DefaultSessionService) reserveRejection(ctx context.Context, offerID, employeeID string) error {
	offer, err := s.Offers.GetByID(ctx, offerID)
	if err != nil {
		return storeErr("failed to load offer", err)
	}
	switch {
	case offer == nil:
		return utils.NewAppError(utils.KindNotFound, "Consulting offer not found")
	case offer.HasBooked(employeeID):
		return utils.NewAppError(utils.KindAlreadyBooked, "You have already booked this session")
	case offer.IsFull():
		return utils.NewAppError(utils.KindCapacityExceeded, "This consulting offer is fully booked")
	case !offer.IsActive:
		return utils.NewAppError(utils.KindValidation, "This consulting offer is no longer active")
	default:
		return utils.NewAppError(utils.KindStoreUnavailable, "Reservation could not be applied, please retry")
	}
}

// Transition applies a status change. The status write is conditional on
// the current status, so of two racing requests the loser observes the
// already-updated session and fails with InvalidTransition.
func (s *DefaultSessionService) Transition(ctx context.Context, in TransitionInput) (*models.SessionDetail, error) {
	if !models.ValidSessionStatus(in.NewStatus) {
		return nil, utils.NewAppError(utils.KindValidation, "Unknown session status")
	}
	if in.NewStatus == models.SessionCancelled {
		return nil, utils.NewAppError(utils.KindInvalidTransition, "Cancellation must go through the cancel endpoint")
	}

	sess, err := s.Sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, storeErr("failed to load session", err)
	}
	if sess == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Session not found")
	}
	if !sess.IsParticipant(in.RequesterID) {
		return nil, utils.NewAppError(utils.KindForbidden, "Not authorized to update this session")
	}
	if !CanTransition(sess.Status, in.NewStatus) {
		return nil, utils.NewAppError(utils.KindInvalidTransition,
			"Cannot move session from "+string(sess.Status)+" to "+string(in.NewStatus))
	}

	applied, err := s.Sessions.UpdateStatusIf(ctx, sess.ID, sess.Status, in.NewStatus, in.MeetingLink, in.Notes)
	if err != nil {
		return nil, storeErr("failed to update session status", err)
	}
	if !applied {
		// A concurrent request advanced the session first.
		return nil, utils.NewAppError(utils.KindInvalidTransition, "Session status changed concurrently")
	}

	sess.Status = in.NewStatus
	if in.MeetingLink != "" {
		sess.MeetingLink = in.MeetingLink
	}
	if in.Notes != "" {
		sess.Notes = in.Notes
	}

	if in.NewStatus == models.SessionCompleted {
		// The conditional status flip above guarantees this branch runs
		// once per session, so the counter moves by exactly one.
		if err := s.Users.IncrementCompletedSessions(ctx, sess.JobSeekerID, 1); err != nil {
			s.scheduleRecount(sess.JobSeekerID)
			return nil, storeErr("session completed but counter update failed", err)
		}
	}

	return s.detail(ctx, *sess)
}

// Cancel releases the employee's capacity slot, restores the owner's
// available slot and marks the session cancelled, as one atomic unit.
// Only scheduled sessions may be cancelled.
func (s *DefaultSessionService) Cancel(ctx context.Context, sessionID, requesterID string) (*models.SessionDetail, error) {
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storeErr("failed to load session", err)
	}
	if sess == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "Session not found")
	}
	if !sess.IsParticipant(requesterID) {
		return nil, utils.NewAppError(utils.KindForbidden, "Not authorized to cancel this session")
	}
	if sess.Status != models.SessionScheduled {
		return nil, utils.NewAppError(utils.KindInvalidTransition, "Only scheduled sessions can be cancelled")
	}

	err = s.runTx(ctx, func(txCtx context.Context) error {
		applied, err := s.Sessions.UpdateStatusIf(txCtx, sess.ID, models.SessionScheduled, models.SessionCancelled, "", "")
		if err != nil {
			return storeErr("failed to cancel session", err)
		}
		if !applied {
			return utils.NewAppError(utils.KindInvalidTransition, "Only scheduled sessions can be cancelled")
		}
		if err := s.Offers.Release(txCtx, sess.ConsultingOfferID, sess.EmployeeID); err != nil {
			return storeErr("failed to release offer slot", err)
		}
		if err := s.Users.IncrementAvailableSlots(txCtx, sess.JobSeekerID, 1); err != nil {
			return storeErr("failed to restore available slots", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("session cancelled",
		zap.String("sessionId", sess.ID),
		zap.String("requesterId", requesterID))

	sess.Status = models.SessionCancelled
	return s.detail(ctx, *sess)
}

// List returns the user's sessions with offer and participant summaries
// populated, newest scheduled first.
func (s *DefaultSessionService) List(ctx context.Context, userID string, role sessionRepo.ListRole) ([]models.SessionDetail, error) {
	sessions, err := s.Sessions.ListForUser(ctx, userID, role)
	if err != nil {
		return nil, storeErr("failed to list sessions", err)
	}
	return s.populate(ctx, sessions)
}

// MarkReferralSubmitted flags the session as referred. Idempotence is
// enforced by the store: the second attempt fails with AlreadySubmitted.
func (s *DefaultSessionService) MarkReferralSubmitted(ctx context.Context, sessionID, referralID string) error {
	applied, err := s.Sessions.MarkReferralSubmitted(ctx, sessionID, referralID)
	if err != nil {
		return storeErr("failed to mark referral submitted", err)
	}
	if applied {
		return nil
	}
	sess, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return storeErr("failed to load session", err)
	}
	if sess == nil {
		return utils.NewAppError(utils.KindNotFound, "Session not found")
	}
	return utils.NewAppError(utils.KindAlreadySubmitted, "Referral already submitted for this session")
}

func (s *DefaultSessionService) scheduleRecount(userID string) {
	if s.Reconciler == nil {
		return
	}
	if err := s.Reconciler.EnqueueRecount(userID); err != nil {
		utils.GetLogger().Error("failed to enqueue counter recount",
			zap.String("userId", userID), zap.Error(err))
	}
}

func (s *DefaultSessionService) detail(ctx context.Context, sess models.Session) (*models.SessionDetail, error) {
	details, err := s.populate(ctx, []models.Session{sess})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// populate attaches offer and participant summaries to each session.
func (s *DefaultSessionService) populate(ctx context.Context, sessions []models.Session) ([]models.SessionDetail, error) {
	details := make([]models.SessionDetail, 0, len(sessions))
	if len(sessions) == 0 {
		return details, nil
	}

	offerIDs := make([]string, 0, len(sessions))
	userIDs := make([]string, 0, len(sessions)*2)
	for _, sess := range sessions {
		offerIDs = append(offerIDs, sess.ConsultingOfferID)
		userIDs = append(userIDs, sess.JobSeekerID, sess.EmployeeID)
	}

	offers, err := s.Offers.GetMany(ctx, offerIDs)
	if err != nil {
		return nil, storeErr("failed to load offers", err)
	}
	users, err := s.Users.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, storeErr("failed to load participants", err)
	}

	for _, sess := range sessions {
		d := models.SessionDetail{Session: sess}
		if offer, ok := offers[sess.ConsultingOfferID]; ok {
			o := offer
			d.ConsultingOffer = &o
		}
		if js, ok := users[sess.JobSeekerID]; ok {
			u := js
			d.JobSeeker = &u
		}
		if emp, ok := users[sess.EmployeeID]; ok {
			u := emp
			d.Employee = &u
		}
		details = append(details, d)
	}
	return details, nil
}
