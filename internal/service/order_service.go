package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
)

// orderService is the concrete implementation of OrderService
type orderService struct {
	orders    repository.OrderRepository
	inquiries repository.InquiryRepository
	listings  repository.ListingRepository
	log       zerolog.Logger
}

func newOrderService(repos *repository.Repositories, log zerolog.Logger) *orderService {
	return &orderService{
		orders:    repos.Order,
		inquiries: repos.Inquiry,
		listings:  repos.Listing,
		log:       log.With().Str("service", "order").Logger(),
	}
}

// CreateInquiry records a public contact request against a listing. The call
// center phones the buyer back; no direct buyer/seller channel exists.
func (s *orderService) CreateInquiry(ctx context.Context, listingID string, inquiry *models.Inquiry) (*models.Inquiry, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil || listing.Status != models.ListingStatusPublished {
		return nil, ErrNotFound
	}

	inquiry.ID = uuid.New().String()
	inquiry.ListingID = listingID
	inquiry.CreatedAt = time.Now()

	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	s.log.Info().Str("listing_id", listingID).Msg("Inquiry created")
	return inquiry, nil
}

// ListOrders returns a page of all orders (admin/call-center view)
func (s *orderService) ListOrders(ctx context.Context, page, pageSize int) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	orders, total, err := s.orders.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, total, nil
}

// UserOrders returns the caller's own orders
func (s *orderService) UserOrders(ctx context.Context, buyerID string) ([]models.Order, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateOrderStatus moves an order through the call-center workflow
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrNotFound
	}
	return s.orders.UpdateStatus(ctx, id, status)
}
