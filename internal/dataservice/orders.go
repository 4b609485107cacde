package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// GetUserOrders lists the caller's orders. Read path: failures degrade to an
// empty list.
func (s *Service) GetUserOrders(ctx context.Context) ([]models.Order, error) {
	var env struct {
		Data []models.Order `json:"data"`
	}
	if err := s.client.Get(ctx, "/user/orders", &env); err != nil {
		return []models.Order{}, nil
	}
	if env.Data == nil {
		return []models.Order{}, nil
	}
	return env.Data, nil
}

// GetAdminOrders lists all orders for the admin console.
func (s *Service) GetAdminOrders(ctx context.Context, page, pageSize int) ([]models.Order, int, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/admin/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env struct {
		Data struct {
			Orders []models.Order `json:"orders"`
			Total  int            `json:"total"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, path, &env); err != nil {
		return nil, 0, err
	}
	return env.Data.Orders, env.Data.Total, nil
}

// UpdateOrderStatus moves an order through the call-center workflow.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return s.client.Patch(ctx, "/admin/orders/"+id, map[string]models.OrderStatus{"status": status}, nil)
}

// CreateInquiry files a contact request against a listing. This is a write
// path, so failures surface. In mock mode the inquiry is appended to the
// mock_inquiries document.
func (s *Service) CreateInquiry(ctx context.Context, listingID, name, phone, message string) (*models.Inquiry, error) {
	if s.MockListingsEnabled() {
		inquiry := models.Inquiry{
			ID:        mockID(),
			ListingID: listingID,
			Name:      name,
			Phone:     phone,
			Message:   message,
			CreatedAt: time.Now().UTC(),
		}
		doc := loadDoc[[]models.Inquiry](s.store, KeyMockInquiries)
		doc = append(doc, inquiry)
		if err := saveDoc(s.store, KeyMockInquiries, doc); err != nil {
			return nil, err
		}
		return &inquiry, nil
	}

	body := map[string]string{"name": name, "phone": phone, "message": message}
	var env Envelope
	if err := s.client.Post(ctx, "/public/listings/"+listingID+"/inquiries", body, &env); err != nil {
		return nil, err
	}
	var inquiry models.Inquiry
	if err := json.Unmarshal(env.Data, &inquiry); err != nil {
		return nil, fmt.Errorf("decode inquiry: %w", err)
	}
	return &inquiry, nil
}

// RecordListingClick records a contact-button click for the audit log. Clicks
// are best-effort telemetry; failures are swallowed.
func (s *Service) RecordListingClick(ctx context.Context, listingID, source string) {
	body := map[string]string{"source": source}
	if err := s.client.Post(ctx, "/public/listings/"+listingID+"/clicks", body, nil); err != nil {
		s.log.Debug().Err(err).Str("listing", listingID).Msg("Click record failed")
	}
}

// GetClickAudit reads the click audit log from the admin console endpoint.
func (s *Service) GetClickAudit(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error) {
	q := url.Values{}
	if listingID != "" {
		q.Set("listingId", listingID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/admin/audit/clicks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env struct {
		Data struct {
			Clicks []models.ClickEvent `json:"clicks"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Data.Clicks, nil
}
