package user

import (
	"context"

	userRepo "reflink/database/repository/user"
	"reflink/models"
)

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Name       string
	Title      string
	Experience string
	Location   string
}

// OfferInput carries a new consulting offer.
type OfferInput struct {
	Title       string
	Description string
	Duration    int
	Skills      []string
	Benefits    string
	Category    string
	Difficulty  string
}

// AuthResponse contains the user's ID, token, and profile basics.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Token    string `json:"token"`
}

// DirectoryPage is one page of the public user directory.
type DirectoryPage struct {
	Users       []models.User `json:"users"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int64         `json:"total"`
}

// UserService manages accounts, profiles and consulting offers.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*models.User, error)
	CreateOffer(ctx context.Context, userID string, in OfferInput) (*models.ConsultingOffer, error)
	ListOffers(ctx context.Context, ids []string) ([]models.ConsultingOffer, error)
	Discover(ctx context.Context, q userRepo.DiscoveryQuery) (*DirectoryPage, error)
}
