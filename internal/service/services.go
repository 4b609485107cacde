package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
)

// Sentinel errors shared by the services; handlers map them to HTTP statuses.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

// AuthService defines the interface for authentication and account operations
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	Logout(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error)
	RequestEmailVerification(ctx context.Context, userID string) (string, error)
	ConfirmEmailVerification(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, otp string) (string, error)
	ResetPassword(ctx context.Context, otp, newPassword string) error
}

// ListingService defines the interface for listing operations
type ListingService interface {
	List(ctx context.Context, filter *models.ListingFilter) (*models.ListingPage, error)
	Get(ctx context.Context, id string, countView bool) (*models.Listing, error)
	Create(ctx context.Context, sellerID string, input *ListingInput) (*models.Listing, error)
	Update(ctx context.Context, actor *models.User, id string, patch *ListingPatch) (*models.Listing, error)
	UpdateStatus(ctx context.Context, actor *models.User, id string, status models.ListingStatus) error
	Delete(ctx context.Context, actor *models.User, id string) error
}

// OrderService defines the interface for order and inquiry operations
type OrderService interface {
	CreateInquiry(ctx context.Context, listingID string, inquiry *models.Inquiry) (*models.Inquiry, error)
	ListOrders(ctx context.Context, page, pageSize int) ([]models.Order, int, error)
	UserOrders(ctx context.Context, buyerID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// SettingsService defines the interface for site settings documents
type SettingsService interface {
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Put(ctx context.Context, key string, value json.RawMessage, updatedBy string) (*models.SiteSetting, error)
}

// AdminService defines the interface for admin user management
type AdminService interface {
	ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int, error)
	CreateUser(ctx context.Context, req *models.SignupRequest, role models.Role) (*models.User, error)
	SetUserActive(ctx context.Context, id string, active bool) error
	SetUserRole(ctx context.Context, id string, role models.Role) error
	DeleteUser(ctx context.Context, id string) error
}

// AuditService defines the interface for the click audit log
type AuditService interface {
	RecordClick(ctx context.Context, event *models.ClickEvent) error
	ListClicks(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error)
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	Listing ListingService
	Order   OrderService
	Setting SettingsService
	Admin   AdminService
	Audit   AuditService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:    newAuthService(repos, cfg, log),
		Listing: newListingService(repos, log),
		Order:   newOrderService(repos, log),
		Setting: newSettingsService(repos, log),
		Admin:   newAdminService(repos, cfg, log),
		Audit:   newAuditService(repos, log),
	}
}
