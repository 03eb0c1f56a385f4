package user

import (
	"context"
	"math"

	"reflink/database"
	offerRepo "reflink/database/repository/offer"
	userRepo "reflink/database/repository/user"
	"reflink/models"
	"reflink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Offers offerRepo.OfferRepository
}

func storeErr(message string, err error) error {
	if database.IsUnavailable(err) {
		return utils.WrapAppError(utils.KindStoreUnavailable, "Entity store unavailable", err)
	}
	return utils.WrapAppError(utils.KindInternal, message, err)
}

// GetByID returns the user's own account view.
func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	usr, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("failed to fetch user", err)
	}
	if usr == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "User not found")
	}
	return usr, nil
}

// GetProfile returns a public profile by username and counts the view.
func (s *DefaultUserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	usr, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeErr("failed to fetch user", err)
	}
	if usr == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "User not found")
	}

	if err := s.Repo.IncrementProfileViews(ctx, usr.ID); err != nil {
		utils.GetLogger().Warn("failed to count profile view", zap.String("userId", usr.ID), zap.Error(err))
	} else {
		usr.ProfileViews++
	}

	// Public view: strip credentials and contact details.
	usr.Email = ""
	usr.PasswordHash = ""
	return usr, nil
}

// profileFields are the only keys a client may set on their profile.
// Counters, credentials and offer links are server-managed.
var profileFields = map[string]bool{
	"name":            true,
	"title":           true,
	"experience":      true,
	"bio":             true,
	"location":        true,
	"remotePolicy":    true,
	"desiredRoles":    true,
	"targetCompanies": true,
	"skills":          true,
	"projects":        true,
	"availableSlots":  true,
	"isAvailable":     true,
	"socialLinks":     true,
}

// UpdateProfile applies a partial update of whitelisted fields.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*models.User, error) {
	update := make(map[string]any, len(fields))
	for k, v := range fields {
		if profileFields[k] {
			update[k] = v
		}
	}
	if len(update) == 0 {
		return nil, utils.NewAppError(utils.KindValidation, "No updatable fields provided")
	}

	usr, err := s.Repo.UpdateFields(ctx, userID, update)
	if err != nil {
		return nil, storeErr("failed to update profile", err)
	}
	if usr == nil {
		return nil, utils.NewAppError(utils.KindNotFound, "User not found")
	}
	usr.PasswordHash = ""
	return usr, nil
}

// CreateOffer publishes a new consulting offer owned by the user.
func (s *DefaultUserService) CreateOffer(ctx context.Context, userID string, in OfferInput) (*models.ConsultingOffer, error) {
	if in.Title == "" || in.Description == "" || in.Benefits == "" {
		return nil, utils.NewAppError(utils.KindValidation, "Title, description and benefits are required")
	}
	if in.Duration <= 0 {
		return nil, utils.NewAppError(utils.KindValidation, "Duration must be positive")
	}
	if !models.ValidCategory(in.Category) {
		return nil, utils.NewAppError(utils.KindValidation, "Unknown offer category")
	}
	if in.Difficulty == "" {
		in.Difficulty = models.DifficultyIntermediate
	}
	if !models.ValidDifficulty(in.Difficulty) {
		return nil, utils.NewAppError(utils.KindValidation, "Unknown difficulty level")
	}

	offer := &models.ConsultingOffer{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Skills:      in.Skills,
		Benefits:    in.Benefits,
		CreatedBy:   userID,
		IsActive:    true,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		BookedUsers: []string{},
	}
	if err := s.Offers.Create(ctx, offer); err != nil {
		return nil, storeErr("failed to create offer", err)
	}
	if err := s.Repo.AppendConsultingOffer(ctx, userID, offer.ID); err != nil {
		return nil, storeErr("offer created but could not be linked to profile", err)
	}

	utils.GetLogger().Info("offer created", zap.String("offerId", offer.ID), zap.String("userId", userID))
	return offer, nil
}

// ListOffers resolves a user's consulting offer IDs to full offers,
// preserving the profile order.
func (s *DefaultUserService) ListOffers(ctx context.Context, ids []string) ([]models.ConsultingOffer, error) {
	if len(ids) == 0 {
		return []models.ConsultingOffer{}, nil
	}
	byID, err := s.Offers.GetMany(ctx, ids)
	if err != nil {
		return nil, storeErr("failed to load offers", err)
	}
	offers := make([]models.ConsultingOffer, 0, len(ids))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

// Discover searches the public directory.
func (s *DefaultUserService) Discover(ctx context.Context, q userRepo.DiscoveryQuery) (*DirectoryPage, error) {
	users, total, err := s.Repo.Find(ctx, q)
	if err != nil {
		return nil, storeErr("failed to search users", err)
	}

	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return &DirectoryPage{
		Users:       users,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Total:       total,
	}, nil
}
