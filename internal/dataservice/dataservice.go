// Package dataservice is the resource-level data access layer of the SDK.
// Every operation picks between a live HTTP call through internal/client and a
// mock implementation backed by JSON documents in the key-value store, then
// returns one normalized envelope shape regardless of the source. Mock mode
// exists for demos and offline development; the store documents simulate the
// backend, they are never the system of record.
package dataservice

import (
	"encoding/json"
	"fmt"

	"github.com/keciramounir97/souk-boudouaou/internal/client"
	"github.com/keciramounir97/souk-boudouaou/pkg/kvstore"
	"github.com/rs/zerolog"
)

// Store keys for mock flags and mock documents.
const (
	KeyUseMock         = "use_mock"
	KeyUseMockListings = "use_mock_listings"
	KeyUseMockUsers    = "use_mock_users"

	KeyMockListings   = "mock_listings"
	KeyMockMyListings = "mock_my_listings"
	KeyMockAdminUsers = "mock_admin_users"
	KeyMockInquiries  = "mock_inquiries"
)

// Envelope is the normalized response shape every operation returns pieces of:
// {success, data, message}.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Options configures a Service.
type Options struct {
	Client *client.Client
	// Env-level mock defaults (USE_MOCK, USE_MOCK_LISTINGS, USE_MOCK_USERS).
	// Store overrides take precedence over all of them.
	MockAll      bool
	MockListings bool
	MockUsers    bool
	Logger       zerolog.Logger
}

// Service is the per-resource data access layer.
type Service struct {
	client       *client.Client
	store        kvstore.Store
	mockAll      bool
	mockListings bool
	mockUsers    bool
	log          zerolog.Logger
}

// New creates a Service sharing the client's state store.
func New(opts Options) (*Service, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("dataservice: client is required")
	}
	return &Service{
		client:       opts.Client,
		store:        opts.Client.Store(),
		mockAll:      opts.MockAll,
		mockListings: opts.MockListings,
		mockUsers:    opts.MockUsers,
		log:          opts.Logger.With().Str("component", "dataservice").Logger(),
	}, nil
}

// storeOverride reads an explicit "1"/"0" flag override. Any other stored
// value is ignored and the caller falls through to the env defaults.
func (s *Service) storeOverride(key string) (enabled, ok bool) {
	v, found := s.store.Get(key)
	if !found {
		return false, false
	}
	switch v {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

// MockEnabled reports the global mock flag: store override wins over the env
// default.
func (s *Service) MockEnabled() bool {
	if v, ok := s.storeOverride(KeyUseMock); ok {
		return v
	}
	return s.mockAll
}

// MockListingsEnabled resolves the listings flag: store override, then the
// env flag, then the global flag. The per-resource flags are independent, so
// listings and users can sit on different data sources at the same time.
func (s *Service) MockListingsEnabled() bool {
	if v, ok := s.storeOverride(KeyUseMockListings); ok {
		return v
	}
	if s.mockListings {
		return true
	}
	return s.MockEnabled()
}

// MockUsersEnabled resolves the users flag with the same precedence as
// MockListingsEnabled.
func (s *Service) MockUsersEnabled() bool {
	if v, ok := s.storeOverride(KeyUseMockUsers); ok {
		return v
	}
	if s.mockUsers {
		return true
	}
	return s.MockEnabled()
}

// SetMockOverride persists an explicit flag override ("1"/"0") for one of the
// use_mock* keys. Used by soukctl's mock subcommands.
func (s *Service) SetMockOverride(key string, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return s.store.Set(key, v)
}

// ClearMockOverride removes an override so the env defaults apply again.
func (s *Service) ClearMockOverride(key string) error {
	return s.store.Delete(key)
}

// loadDoc reads one JSON mock document. A missing or corrupt document reads
// as the zero value, so every mock path starts from an empty-but-valid state.
func loadDoc[T any](store kvstore.Store, key string) T {
	var doc T
	raw, ok := store.Get(key)
	if !ok || raw == "" {
		return doc
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		var zero T
		return zero
	}
	return doc
}

// saveDoc writes one JSON mock document back to the store.
func saveDoc(store kvstore.Store, key string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(key, string(raw))
}
