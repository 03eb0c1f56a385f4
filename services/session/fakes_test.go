package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	offerRepo "reflink/database/repository/offer"
	sessionRepo "reflink/database/repository/session"
	userRepo "reflink/database/repository/user"
	"reflink/models"
)

// memStore is a mutex-guarded in-memory stand-in for the entity store.
// Its conditional operations hold the lock across check and write,
// mirroring the atomicity the Mongo repositories get from single
// conditional updates.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	offers   map[string]*models.ConsultingOffer
	sessions map[string]*models.Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		offers:   make(map[string]*models.ConsultingOffer),
		sessions: make(map[string]*models.Session),
	}
}

func (m *memStore) addUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := u
	m.users[u.ID] = &cp
}

func (m *memStore) addOffer(o models.ConsultingOffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := o
	if cp.BookedUsers == nil {
		cp.BookedUsers = []string{}
	}
	m.offers[o.ID] = &cp
}

func (m *memStore) user(id string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memStore) offer(id string) models.ConsultingOffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.offers[id]
}

// --- offerRepo.OfferRepository ---

type memOffers struct{ s *memStore }

func (r memOffers) Create(_ context.Context, offer *models.ConsultingOffer) error {
	r.s.addOffer(*offer)
	return nil
}

func (r memOffers) GetByID(_ context.Context, id string) (*models.ConsultingOffer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.BookedUsers = append([]string(nil), o.BookedUsers...)
	return &cp, nil
}

func (r memOffers) GetMany(_ context.Context, ids []string) (map[string]models.ConsultingOffer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]models.ConsultingOffer)
	for _, id := range ids {
		if o, ok := r.s.offers[id]; ok {
			out[id] = *o
		}
	}
	return out, nil
}

func (r memOffers) Reserve(_ context.Context, offerID, employeeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offers[offerID]
	if !ok || !o.IsActive {
		return false, nil
	}
	for _, id := range o.BookedUsers {
		if id == employeeID {
			return false, nil
		}
	}
	if len(o.BookedUsers) >= models.MaxBookedUsers {
		return false, nil
	}
	o.BookedUsers = append(o.BookedUsers, employeeID)
	return true, nil
}

func (r memOffers) Release(_ context.Context, offerID, employeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.offers[offerID]
	if !ok {
		return nil
	}
	kept := o.BookedUsers[:0]
	for _, id := range o.BookedUsers {
		if id != employeeID {
			kept = append(kept, id)
		}
	}
	o.BookedUsers = kept
	return nil
}

// --- sessionRepo.SessionRepository ---

type memSessions struct{ s *memStore }

func (r memSessions) Create(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *sess
	r.s.sessions[sess.ID] = &cp
	return nil
}

func (r memSessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (r memSessions) ListForUser(_ context.Context, userID string, role sessionRepo.ListRole) ([]models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Session
	for _, sess := range r.s.sessions {
		switch role {
		case sessionRepo.RoleJobSeeker:
			if sess.JobSeekerID != userID {
				continue
			}
		case sessionRepo.RoleEmployee:
			if sess.EmployeeID != userID {
				continue
			}
		default:
			if sess.JobSeekerID != userID && sess.EmployeeID != userID {
				continue
			}
		}
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func (r memSessions) UpdateStatusIf(_ context.Context, id string, from, to models.SessionStatus, meetingLink, notes string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.Status != from {
		return false, nil
	}
	sess.Status = to
	if meetingLink != "" {
		sess.MeetingLink = meetingLink
	}
	if notes != "" {
		sess.Notes = notes
	}
	return true, nil
}

func (r memSessions) MarkReferralSubmitted(_ context.Context, id, referralID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.ReferralSubmitted {
		return false, nil
	}
	sess.ReferralSubmitted = true
	sess.ReferralID = referralID
	return true, nil
}

func (r memSessions) CountCompletedForJobSeeker(_ context.Context, jobSeekerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, sess := range r.s.sessions {
		if sess.JobSeekerID == jobSeekerID && sess.Status == models.SessionCompleted {
			n++
		}
	}
	return n, nil
}

// --- userRepo.UserRepository ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.s.addUser(*u)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetSummaries(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]models.UserSummary)
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r memUsers) UpdateFields(_ context.Context, id string, _ map[string]any) (*models.User, error) {
	return r.GetByID(context.Background(), id)
}

func (r memUsers) Find(_ context.Context, _ userRepo.DiscoveryQuery) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r memUsers) IncrementAvailableSlots(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.AvailableSlots += delta
	return nil
}

func (r memUsers) IncrementCompletedSessions(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.CompletedSessions += delta
	return nil
}

func (r memUsers) SetCompletedSessions(_ context.Context, id string, value int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.CompletedSessions = int(value)
	return nil
}

func (r memUsers) IncrementProfileViews(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.ProfileViews++
	return nil
}

func (r memUsers) AppendSuccessStory(_ context.Context, id string, story models.SuccessStory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.SuccessStories = append(u.SuccessStories, story)
	return nil
}

func (r memUsers) AppendConsultingOffer(_ context.Context, userID, offerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.ConsultingOffers = append(u.ConsultingOffers, offerID)
	return nil
}

// failingUsers wraps memUsers and fails completed-session increments.
type failingUsers struct {
	memUsers
}

func (r failingUsers) IncrementCompletedSessions(context.Context, string, int) error {
	return errors.New("store write failed")
}

// recordingReconciler captures recount requests.
type recordingReconciler struct {
	mu      sync.Mutex
	userIDs []string
}

func (r *recordingReconciler) EnqueueRecount(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userIDs = append(r.userIDs, userID)
	return nil
}

var _ offerRepo.OfferRepository = memOffers{}
var _ sessionRepo.SessionRepository = memSessions{}
var _ userRepo.UserRepository = memUsers{}
