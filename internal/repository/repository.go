package repository

import (
	"context"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User, passwordHash string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	SetActive(ctx context.Context, id string, active bool) error
	SetRole(ctx context.Context, id string, role models.Role) error
	List(ctx context.Context, page, pageSize int) ([]models.User, int, error)
	Delete(ctx context.Context, id string) error
}

// TokenRepository defines the interface for auth token operations
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	Get(ctx context.Context, token string, kind models.TokenKind) (*models.AuthToken, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string, kind models.TokenKind) error
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	UpdateStatus(ctx context.Context, id string, status models.ListingStatus) error
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, filter *models.ListingFilter) ([]models.Listing, int, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	ListAll(ctx context.Context, page, pageSize int) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// InquiryRepository defines the interface for inquiry data operations
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	ListByListing(ctx context.Context, listingID string) ([]models.Inquiry, error)
	ListAll(ctx context.Context, page, pageSize int) ([]models.Inquiry, int, error)
}

// SettingsRepository defines the interface for site settings documents
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Upsert(ctx context.Context, setting *models.SiteSetting) error
}

// AuditRepository defines the interface for click audit events
type AuditRepository interface {
	RecordClick(ctx context.Context, event *models.ClickEvent) error
	ListClicks(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Token   TokenRepository
	Listing ListingRepository
	Order   OrderRepository
	Inquiry InquiryRepository
	Setting SettingsRepository
	Audit   AuditRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Token:   NewTokenRepo(db),
		Listing: NewListingRepo(db),
		Order:   NewOrderRepo(db),
		Inquiry: NewInquiryRepo(db),
		Setting: NewSettingsRepo(db),
		Audit:   NewAuditRepo(db),
	}
}
