package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu     sync.Mutex
	Users  map[string]*models.User
	Hashes map[string]string // user ID -> password hash
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[string]*models.User),
		Hashes: make(map[string]string),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.Users[user.ID] = &u
	m.Hashes[user.ID] = passwordHash
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, m.Hashes[u.ID], nil
		}
	}
	return nil, "", nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.Users[user.ID] = &u
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hashes[id] = passwordHash
	return nil
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.Verified = verified
	}
	return nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (m *MockUserRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, page, pageSize int) ([]models.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, u := range m.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return paginate(users, page, pageSize), len(m.Users), nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Users, id)
	delete(m.Hashes, id)
	return nil
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mu     sync.Mutex
	Tokens map[string]*models.AuthToken
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{Tokens: make(map[string]*models.AuthToken)}
}

func (m *MockTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := *token
	m.Tokens[token.Token] = &t
	return nil
}

func (m *MockTokenRepository) Get(ctx context.Context, token string, kind models.TokenKind) (*models.AuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tokens[token]
	if !ok || t.Kind != kind {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *MockTokenRepository) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tokens, token)
	return nil
}

func (m *MockTokenRepository) DeleteForUser(ctx context.Context, userID string, kind models.TokenKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, t := range m.Tokens {
		if t.UserID == userID && t.Kind == kind {
			delete(m.Tokens, k)
		}
	}
	return nil
}

// CountKind returns how many stored tokens have the given kind (test helper)
func (m *MockTokenRepository) CountKind(kind models.TokenKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.Tokens {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// MockListingRepository is a mock implementation of ListingRepository
type MockListingRepository struct {
	mu       sync.Mutex
	Listings map[string]*models.Listing
}

func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{Listings: make(map[string]*models.Listing)}
}

func (m *MockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *listing
	m.Listings[listing.ID] = &l
	return nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Listings[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (m *MockListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *listing
	m.Listings[listing.ID] = &l
	return nil
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.Listings[id]; ok {
		l.Status = status
	}
	return nil
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.Listings[id]; ok {
		l.Views++
	}
	return nil
}

func (m *MockListingRepository) List(ctx context.Context, filter *models.ListingFilter) ([]models.Listing, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Listing
	for _, l := range m.Listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Wilaya != "" && l.Wilaya != filter.Wilaya {
			continue
		}
		if filter.SellerID != "" && l.SellerID != filter.SellerID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.Description), strings.ToLower(filter.Query)) {
			continue
		}
		matched = append(matched, *l)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	return paginate(matched, filter.Page, filter.PageSize), total, nil
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Listings, id)
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mu     sync.Mutex
	Orders map[string]*models.Order
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{Orders: make(map[string]*models.Order)}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := *order
	m.Orders[order.ID] = &o
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, o := range m.Orders {
		if o.BuyerID == buyerID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *MockOrderRepository) ListAll(ctx context.Context, page, pageSize int) ([]models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, o := range m.Orders {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return paginate(orders, page, pageSize), len(m.Orders), nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.Orders[id]; ok {
		o.Status = status
	}
	return nil
}

// MockInquiryRepository is a mock implementation of InquiryRepository
type MockInquiryRepository struct {
	mu        sync.Mutex
	Inquiries []models.Inquiry
}

func NewMockInquiryRepository() *MockInquiryRepository {
	return &MockInquiryRepository{}
}

func (m *MockInquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inquiries = append(m.Inquiries, *inquiry)
	return nil
}

func (m *MockInquiryRepository) ListByListing(ctx context.Context, listingID string) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Inquiry
	for _, i := range m.Inquiries {
		if i.ListingID == listingID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *MockInquiryRepository) ListAll(ctx context.Context, page, pageSize int) ([]models.Inquiry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return paginate(m.Inquiries, page, pageSize), len(m.Inquiries), nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mu       sync.Mutex
	Settings map[string]*models.SiteSetting
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Settings: make(map[string]*models.SiteSetting)}
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Settings[key]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, setting *models.SiteSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *setting
	m.Settings[setting.Key] = &s
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mu     sync.Mutex
	Clicks []models.ClickEvent
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks = append(m.Clicks, *event)
	return nil
}

func (m *MockAuditRepository) ListClicks(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ClickEvent
	for _, c := range m.Clicks {
		if listingID == "" || c.ListingID == listingID {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
