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

// ListingInput carries the fields of a new listing
type ListingInput struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Category        string   `json:"category" binding:"required"`
	PricePerKg      float64  `json:"pricePerKg"`
	Unit            string   `json:"unit"`
	Wilaya          string   `json:"wilaya"`
	Commune         string   `json:"commune"`
	Images          []string `json:"images"`
	Vaccinated      bool     `json:"vaccinated"`
	BreedingDate    string   `json:"breedingDate"`
	PreparationDate string   `json:"preparationDate"`
	Draft           bool     `json:"draft"`
}

// ListingPatch is a sparse update: nil fields are left unchanged.
type ListingPatch struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Category        *string   `json:"category"`
	PricePerKg      *float64  `json:"pricePerKg"`
	Unit            *string   `json:"unit"`
	Wilaya          *string   `json:"wilaya"`
	Commune         *string   `json:"commune"`
	Images          *[]string `json:"images"`
	Vaccinated      *bool     `json:"vaccinated"`
	BreedingDate    *string   `json:"breedingDate"`
	PreparationDate *string   `json:"preparationDate"`
}

// listingService is the concrete implementation of ListingService
type listingService struct {
	listings repository.ListingRepository
	log      zerolog.Logger
}

func newListingService(repos *repository.Repositories, log zerolog.Logger) *listingService {
	return &listingService{
		listings: repos.Listing,
		log:      log.With().Str("service", "listing").Logger(),
	}
}

// List returns a filtered page of listings
func (s *listingService) List(ctx context.Context, filter *models.ListingFilter) (*models.ListingPage, error) {
	filter.Normalize()
	listings, total, err := s.listings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return &models.ListingPage{
		Listings: listings,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns one listing, optionally bumping its view counter
func (s *listingService) Get(ctx context.Context, id string, countView bool) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil || listing.Status == models.ListingStatusDeleted {
		return nil, ErrNotFound
	}

	if countView {
		if err := s.listings.IncrementViews(ctx, id); err != nil {
			// A lost view count is not worth failing the read.
			s.log.Warn().Err(err).Str("listing_id", id).Msg("Failed to count view")
		} else {
			listing.Views++
		}
	}
	return listing, nil
}

// Create publishes (or drafts) a new listing for the seller
func (s *listingService) Create(ctx context.Context, sellerID string, input *ListingInput) (*models.Listing, error) {
	status := models.ListingStatusPublished
	if input.Draft {
		status = models.ListingStatusDraft
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	listing := &models.Listing{
		ID:              uuid.New().String(),
		SellerID:        sellerID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		PricePerKg:      input.PricePerKg,
		Unit:            input.Unit,
		Wilaya:          input.Wilaya,
		Commune:         input.Commune,
		Images:          images,
		Status:          status,
		Vaccinated:      input.Vaccinated,
		BreedingDate:    input.BreedingDate,
		PreparationDate: input.PreparationDate,
		CreatedAt:       time.Now(),
	}
	listing.LegacyID = listing.ID

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info().Str("listing_id", listing.ID).Str("seller_id", sellerID).Msg("Listing created")
	return listing, nil
}

// Update applies a sparse patch; only the owner or an admin may update
func (s *listingService) Update(ctx context.Context, actor *models.User, id string, patch *ListingPatch) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrNotFound
	}
	if listing.SellerID != actor.ID && !models.IsAdmin(actor.Role) {
		return nil, ErrForbidden
	}

	if patch.Title != nil {
		listing.Title = *patch.Title
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.Category != nil {
		listing.Category = *patch.Category
	}
	if patch.PricePerKg != nil {
		listing.PricePerKg = *patch.PricePerKg
	}
	if patch.Unit != nil {
		listing.Unit = *patch.Unit
	}
	if patch.Wilaya != nil {
		listing.Wilaya = *patch.Wilaya
	}
	if patch.Commune != nil {
		listing.Commune = *patch.Commune
	}
	if patch.Images != nil {
		listing.Images = *patch.Images
	}
	if patch.Vaccinated != nil {
		listing.Vaccinated = *patch.Vaccinated
	}
	if patch.BreedingDate != nil {
		listing.BreedingDate = *patch.BreedingDate
	}
	if patch.PreparationDate != nil {
		listing.PreparationDate = *patch.PreparationDate
	}

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return listing, nil
}

// UpdateStatus moves a listing between draft/published/deleted
func (s *listingService) UpdateStatus(ctx context.Context, actor *models.User, id string, status models.ListingStatus) error {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return ErrNotFound
	}
	if listing.SellerID != actor.ID && !models.IsAdmin(actor.Role) {
		return ErrForbidden
	}
	return s.listings.UpdateStatus(ctx, id, status)
}

// Delete removes a listing. Owners hard-delete their own records; admin
// moderation soft-deletes via status so the record stays for audit.
func (s *listingService) Delete(ctx context.Context, actor *models.User, id string) error {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}
	if listing == nil {
		return ErrNotFound
	}

	if listing.SellerID == actor.ID {
		return s.listings.Delete(ctx, id)
	}
	if models.IsAdmin(actor.Role) {
		return s.listings.UpdateStatus(ctx, id, models.ListingStatusDeleted)
	}
	return ErrForbidden
}
