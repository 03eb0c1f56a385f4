package user

import (
	"context"
	"strings"

	"reflink/models"
	"reflink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new account, hashes the password, and issues a
// token whose hash is cached for the auth middleware.
func (s *DefaultUserService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.Username == "" {
		return nil, utils.NewAppError(utils.KindValidation, "Username, email and password are required")
	}
	if in.Name == "" || in.Title == "" || in.Experience == "" || in.Location == "" {
		return nil, utils.NewAppError(utils.KindValidation, "Name, title, experience and location are required")
	}
	if len(in.Password) < 6 {
		return nil, utils.NewAppError(utils.KindValidation, "Password must be at least 6 characters")
	}

	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, storeErr("failed to check for existing user", err)
	} else if existing != nil {
		return nil, utils.NewAppError(utils.KindValidation, "User already exists with this email or username")
	}
	if existing, err := s.Repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, storeErr("failed to check for existing user", err)
	} else if existing != nil {
		return nil, utils.NewAppError(utils.KindValidation, "User already exists with this email or username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.WrapAppError(utils.KindInternal, "failed to hash password", err)
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Title:        in.Title,
		Experience:   in.Experience,
		Location:     in.Location,
		RemotePolicy: "Hybrid Preferred",
		IsAvailable:  true,
	}
	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, storeErr("failed to create user", err)
	}

	utils.GetLogger().Info("user registered", zap.String("userId", usr.ID), zap.String("username", usr.Username))
	return s.issueToken(usr)
}

// Authenticate verifies credentials and issues a token.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	usr, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, storeErr("failed to fetch user", err)
	}
	if usr == nil {
		return nil, utils.NewAppError(utils.KindValidation, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, utils.NewAppError(utils.KindValidation, "Invalid email or password")
	}
	return s.issueToken(usr)
}

func (s *DefaultUserService) issueToken(usr *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, utils.AuthTokenTTL)
	if err != nil {
		return nil, utils.WrapAppError(utils.KindInternal, "failed to issue token", err)
	}
	if err := utils.StoreTokenHash(usr.ID, token); err != nil {
		utils.GetLogger().Warn("failed to cache token hash", zap.String("userId", usr.ID), zap.Error(err))
	}
	return &AuthResponse{
		ID:       usr.ID,
		Username: usr.Username,
		Email:    usr.Email,
		Name:     usr.Name,
		Title:    usr.Title,
		Token:    token,
	}, nil
}
