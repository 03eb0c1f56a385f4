package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"reflink/models"
	"reflink/utils"
)

func newTestService(store *memStore) *DefaultSessionService {
	return &DefaultSessionService{
		Sessions: memSessions{store},
		Offers:   memOffers{store},
		Users:    memUsers{store},
	}
}

func seedOffer(store *memStore, ownerID string) models.ConsultingOffer {
	store.addUser(models.User{ID: ownerID, Username: ownerID, Name: "Owner", AvailableSlots: models.MaxBookedUsers})
	offer := models.ConsultingOffer{
		ID:        "offer-1",
		Title:     "Distributed systems review",
		Duration:  60,
		CreatedBy: ownerID,
		IsActive:  true,
		Category:  models.CategoryCodeReview,
	}
	store.addOffer(offer)
	return offer
}

func seedEmployee(store *memStore, id string) {
	store.addUser(models.User{ID: id, Username: id, Name: "Employee " + id})
}

func TestBookCreatesScheduledSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	detail, err := svc.Book(context.Background(), BookInput{
		OfferID:     offer.ID,
		EmployeeID:  "emp-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Notes:       "looking forward",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if detail.Status != models.SessionScheduled {
		t.Errorf("status = %q, want %q", detail.Status, models.SessionScheduled)
	}
	if detail.JobSeekerID != "seeker" || detail.EmployeeID != "emp-1" {
		t.Errorf("participants = (%q, %q), want (seeker, emp-1)", detail.JobSeekerID, detail.EmployeeID)
	}
	if detail.Duration != offer.Duration {
		t.Errorf("duration = %d, want %d copied from offer", detail.Duration, offer.Duration)
	}
	if detail.ConsultingOffer == nil || detail.JobSeeker == nil || detail.Employee == nil {
		t.Error("detail is missing populated offer or participant summaries")
	}

	if got := store.offer(offer.ID).BookedUsers; len(got) != 1 || got[0] != "emp-1" {
		t.Errorf("bookedUsers = %v, want [emp-1]", got)
	}
	if got := store.user("seeker").AvailableSlots; got != models.MaxBookedUsers-1 {
		t.Errorf("availableSlots = %d, want %d", got, models.MaxBookedUsers-1)
	}
}

func TestBookUnknownOffer(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	seedEmployee(store, "emp-1")

	_, err := svc.Book(context.Background(), BookInput{OfferID: "missing", EmployeeID: "emp-1"})
	if utils.KindOf(err) != utils.KindNotFound {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindNotFound)
	}
}

func TestBookOwnOfferRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")

	_, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "seeker"})
	if utils.KindOf(err) != utils.KindSelfBooking {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindSelfBooking)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != 0 {
		t.Errorf("bookedUsers = %v, want empty after rejected booking", got)
	}
}

func TestBookTwiceRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	if _, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"}); err != nil {
		t.Fatalf("first Book: %v", err)
	}
	_, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
	if utils.KindOf(err) != utils.KindAlreadyBooked {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindAlreadyBooked)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != 1 {
		t.Errorf("bookedUsers = %v, want exactly one entry", got)
	}
}

func TestBookInactiveOfferRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	store.mu.Lock()
	store.offers[offer.ID].IsActive = false
	store.mu.Unlock()

	_, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
	if utils.KindOf(err) != utils.KindValidation {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindValidation)
	}
}

func TestBookFullOfferRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")

	for i := 0; i < models.MaxBookedUsers; i++ {
		id := fmt.Sprintf("emp-%d", i)
		seedEmployee(store, id)
		if _, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: id}); err != nil {
			t.Fatalf("Book %s: %v", id, err)
		}
	}

	seedEmployee(store, "emp-late")
	_, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-late"})
	if utils.KindOf(err) != utils.KindCapacityExceeded {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindCapacityExceeded)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != models.MaxBookedUsers {
		t.Errorf("bookedUsers has %d entries, want %d", len(got), models.MaxBookedUsers)
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")

	const contenders = 20
	for i := 0; i < contenders; i++ {
		seedEmployee(store, fmt.Sprintf("emp-%d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), BookInput{
				OfferID:    offer.ID,
				EmployeeID: fmt.Sprintf("emp-%d", i),
			})
		}(i)
	}
	wg.Wait()

	var booked, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			booked++
		case utils.KindOf(err) == utils.KindCapacityExceeded:
			rejected++
		default:
			t.Errorf("unexpected error kind %v: %v", utils.KindOf(err), err)
		}
	}
	if booked != models.MaxBookedUsers {
		t.Errorf("%d bookings succeeded, want exactly %d", booked, models.MaxBookedUsers)
	}
	if rejected != contenders-models.MaxBookedUsers {
		t.Errorf("%d bookings rejected for capacity, want %d", rejected, contenders-models.MaxBookedUsers)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != models.MaxBookedUsers {
		t.Errorf("bookedUsers has %d entries, want %d", len(got), models.MaxBookedUsers)
	}
	if got := store.user("seeker").AvailableSlots; got != 0 {
		t.Errorf("availableSlots = %d, want 0 after filling the offer", got)
	}
}

func TestConcurrentDuplicateBookings(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
		}(i)
	}
	wg.Wait()

	var booked int
	for _, err := range errs {
		if err == nil {
			booked++
		} else if utils.KindOf(err) != utils.KindAlreadyBooked {
			t.Errorf("unexpected error kind %v: %v", utils.KindOf(err), err)
		}
	}
	if booked != 1 {
		t.Errorf("%d bookings succeeded, want exactly 1", booked)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != 1 {
		t.Errorf("bookedUsers = %v, want a single entry", got)
	}
}

func TestCancelRestoresCapacity(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	detail, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), detail.ID, "emp-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.SessionCancelled {
		t.Errorf("status = %q, want %q", cancelled.Status, models.SessionCancelled)
	}
	if got := store.offer(offer.ID).BookedUsers; len(got) != 0 {
		t.Errorf("bookedUsers = %v, want empty after cancel", got)
	}
	if got := store.user("seeker").AvailableSlots; got != models.MaxBookedUsers {
		t.Errorf("availableSlots = %d, want %d restored", got, models.MaxBookedUsers)
	}

	// The freed slot is immediately bookable again.
	if _, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"}); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestCancelTwiceRejected(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	detail, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), detail.ID, "emp-1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	_, err = svc.Cancel(context.Background(), detail.ID, "seeker")
	if utils.KindOf(err) != utils.KindInvalidTransition {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindInvalidTransition)
	}
	if got := store.user("seeker").AvailableSlots; got != models.MaxBookedUsers {
		t.Errorf("availableSlots = %d, double cancel must not restore twice", got)
	}
}

func TestCancelByNonParticipantForbidden(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	seedEmployee(store, "stranger")

	detail, err := svc.Book(context.Background(), BookInput{OfferID: offer.ID, EmployeeID: "emp-1"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	_, err = svc.Cancel(context.Background(), detail.ID, "stranger")
	if utils.KindOf(err) != utils.KindForbidden {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindForbidden)
	}
}

func bookAndAdvance(t *testing.T, svc *DefaultSessionService, offerID, employeeID string, statuses ...models.SessionStatus) string {
	t.Helper()
	detail, err := svc.Book(context.Background(), BookInput{OfferID: offerID, EmployeeID: employeeID})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	for _, st := range statuses {
		if _, err := svc.Transition(context.Background(), TransitionInput{
			SessionID:   detail.ID,
			RequesterID: employeeID,
			NewStatus:   st,
		}); err != nil {
			t.Fatalf("Transition to %s: %v", st, err)
		}
	}
	return detail.ID
}

func TestTransitionHappyPath(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	id := bookAndAdvance(t, svc, offer.ID, "emp-1", models.SessionInProgress, models.SessionCompleted)

	store.mu.Lock()
	status := store.sessions[id].Status
	store.mu.Unlock()
	if status != models.SessionCompleted {
		t.Errorf("status = %q, want %q", status, models.SessionCompleted)
	}
	if got := store.user("seeker").CompletedSessions; got != 1 {
		t.Errorf("completedSessions = %d, want 1", got)
	}
}

func TestTransitionRejectsInvalidEdges(t *testing.T) {
	cases := []struct {
		name    string
		advance []models.SessionStatus
		attempt models.SessionStatus
	}{
		{"scheduled to completed", nil, models.SessionCompleted},
		{"completed to in-progress", []models.SessionStatus{models.SessionInProgress, models.SessionCompleted}, models.SessionInProgress},
		{"completed to scheduled", []models.SessionStatus{models.SessionInProgress, models.SessionCompleted}, models.SessionScheduled},
		{"no-show to in-progress", []models.SessionStatus{models.SessionNoShow}, models.SessionInProgress},
		{"in-progress to no-show", []models.SessionStatus{models.SessionInProgress}, models.SessionNoShow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)
			offer := seedOffer(store, "seeker")
			seedEmployee(store, "emp-1")
			id := bookAndAdvance(t, svc, offer.ID, "emp-1", tc.advance...)

			_, err := svc.Transition(context.Background(), TransitionInput{
				SessionID:   id,
				RequesterID: "emp-1",
				NewStatus:   tc.attempt,
			})
			if utils.KindOf(err) != utils.KindInvalidTransition {
				t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindInvalidTransition)
			}
		})
	}
}

func TestTransitionToCancelledRoutedElsewhere(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1")

	_, err := svc.Transition(context.Background(), TransitionInput{
		SessionID:   id,
		RequesterID: "emp-1",
		NewStatus:   models.SessionCancelled,
	})
	if utils.KindOf(err) != utils.KindInvalidTransition {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindInvalidTransition)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1")

	_, err := svc.Transition(context.Background(), TransitionInput{
		SessionID:   id,
		RequesterID: "emp-1",
		NewStatus:   "paused",
	})
	if utils.KindOf(err) != utils.KindValidation {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindValidation)
	}
}

func TestTransitionByNonParticipantForbidden(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	seedEmployee(store, "stranger")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1")

	_, err := svc.Transition(context.Background(), TransitionInput{
		SessionID:   id,
		RequesterID: "stranger",
		NewStatus:   models.SessionInProgress,
	})
	if utils.KindOf(err) != utils.KindForbidden {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindForbidden)
	}
}

func TestConcurrentCompletionsIncrementCounterOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1", models.SessionInProgress)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transition(context.Background(), TransitionInput{
				SessionID:   id,
				RequesterID: "emp-1",
				NewStatus:   models.SessionCompleted,
			})
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
		} else if utils.KindOf(err) != utils.KindInvalidTransition {
			t.Errorf("unexpected error kind %v: %v", utils.KindOf(err), err)
		}
	}
	if won != 1 {
		t.Errorf("%d transitions succeeded, want exactly 1", won)
	}
	if got := store.user("seeker").CompletedSessions; got != 1 {
		t.Errorf("completedSessions = %d, want exactly 1", got)
	}
}

func TestCompletionCounterFailureSchedulesRecount(t *testing.T) {
	store := newMemStore()
	rec := &recordingReconciler{}
	svc := newTestService(store)
	svc.Users = failingUsers{memUsers{store}}
	svc.Reconciler = rec
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1", models.SessionInProgress)

	_, err := svc.Transition(context.Background(), TransitionInput{
		SessionID:   id,
		RequesterID: "emp-1",
		NewStatus:   models.SessionCompleted,
	})
	if err == nil {
		t.Fatal("Transition returned nil error, want surfaced counter failure")
	}

	// The status change itself stands; only the counter is deferred.
	store.mu.Lock()
	status := store.sessions[id].Status
	store.mu.Unlock()
	if status != models.SessionCompleted {
		t.Errorf("status = %q, want %q despite counter failure", status, models.SessionCompleted)
	}
	if len(rec.userIDs) != 1 || rec.userIDs[0] != "seeker" {
		t.Errorf("recount requests = %v, want [seeker]", rec.userIDs)
	}
}

func TestMarkReferralSubmittedOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")
	id := bookAndAdvance(t, svc, offer.ID, "emp-1", models.SessionInProgress, models.SessionCompleted)

	if err := svc.MarkReferralSubmitted(context.Background(), id, "ref-1"); err != nil {
		t.Fatalf("MarkReferralSubmitted: %v", err)
	}
	err := svc.MarkReferralSubmitted(context.Background(), id, "ref-2")
	if utils.KindOf(err) != utils.KindAlreadySubmitted {
		t.Errorf("kind = %v, want %v", utils.KindOf(err), utils.KindAlreadySubmitted)
	}

	store.mu.Lock()
	refID := store.sessions[id].ReferralID
	store.mu.Unlock()
	if refID != "ref-1" {
		t.Errorf("referralId = %q, want the first submission to stick", refID)
	}
}

func TestListFiltersByRole(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	offer := seedOffer(store, "seeker")
	seedEmployee(store, "emp-1")

	store.addUser(models.User{ID: "other-seeker", Username: "other-seeker", AvailableSlots: models.MaxBookedUsers})
	other := models.ConsultingOffer{ID: "offer-2", Title: "Mock interview", Duration: 30, CreatedBy: "other-seeker", IsActive: true}
	store.addOffer(other)

	bookAndAdvance(t, svc, offer.ID, "emp-1")
	bookAndAdvance(t, svc, other.ID, "emp-1")

	asEmployee, err := svc.List(context.Background(), "emp-1", "as-employee")
	if err != nil {
		t.Fatalf("List as-employee: %v", err)
	}
	if len(asEmployee) != 2 {
		t.Errorf("as-employee returned %d sessions, want 2", len(asEmployee))
	}

	asSeeker, err := svc.List(context.Background(), "seeker", "as-jobseeker")
	if err != nil {
		t.Fatalf("List as-jobseeker: %v", err)
	}
	if len(asSeeker) != 1 {
		t.Errorf("as-jobseeker returned %d sessions, want 1", len(asSeeker))
	}

	none, err := svc.List(context.Background(), "seeker", "as-employee")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("seeker listed %d sessions as employee, want 0", len(none))
	}
}
