package mocks

import (
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
)

// NewRepositories bundles fresh mocks into the repository container used by
// the services, so tests can wire real services over in-memory state.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:    NewMockUserRepository(),
		Token:   NewMockTokenRepository(),
		Listing: NewMockListingRepository(),
		Order:   NewMockOrderRepository(),
		Inquiry: NewMockInquiryRepository(),
		Setting: NewMockSettingsRepository(),
		Audit:   NewMockAuditRepository(),
	}
}
