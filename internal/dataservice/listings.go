package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// mockID synthesizes a listing identifier. Created records carry the value in
// both id and _id because consumers inconsistently read either field.
func mockID() string {
	return "mock-" + uuid.New().String()
}

// decodeListingPage normalizes the shapes listing reads come back in:
// {listings, total}, {items, total}, or a bare array. The divergence is a
// known irregularity of the backend surface; it is declared here once instead
// of being re-guessed at every call site.
func decodeListingPage(raw json.RawMessage, page, pageSize int) (*models.ListingPage, error) {
	out := &models.ListingPage{Listings: []models.Listing{}, Page: page, PageSize: pageSize}
	if len(raw) == 0 {
		return out, nil
	}

	var wrapped struct {
		Listings []models.Listing `json:"listings"`
		Items    []models.Listing `json:"items"`
		Total    int              `json:"total"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Listings != nil || wrapped.Items != nil {
			out.Listings = wrapped.Listings
			if out.Listings == nil {
				out.Listings = wrapped.Items
			}
			out.Total = wrapped.Total
			return out, nil
		}
	}

	var bare []models.Listing
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, fmt.Errorf("unrecognized listing payload: %w", err)
	}
	out.Listings = bare
	out.Total = len(bare)
	return out, nil
}

func listingQuery(filter models.ListingFilter) string {
	filter.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("pageSize", strconv.Itoa(filter.PageSize))
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Wilaya != "" {
		q.Set("wilaya", filter.Wilaya)
	}
	if filter.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	return q.Encode()
}

// GetListings lists published listings. This is a read path: any live failure
// degrades to an empty well-formed page instead of an error, so callers never
// branch on HTTP failures just to render an empty state.
func (s *Service) GetListings(ctx context.Context, filter models.ListingFilter) (*models.ListingPage, error) {
	filter.Normalize()
	if s.MockListingsEnabled() {
		return s.mockListingPage(KeyMockListings, filter), nil
	}

	var env Envelope
	if err := s.client.Get(ctx, "/listings?"+listingQuery(filter), &env); err != nil {
		s.log.Debug().Err(err).Msg("Listing fetch failed, returning empty page")
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	page, err := decodeListingPage(env.Data, filter.Page, filter.PageSize)
	if err != nil {
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	return page, nil
}

// SearchListings is GetListings over the search endpoint.
func (s *Service) SearchListings(ctx context.Context, query string, filter models.ListingFilter) (*models.ListingPage, error) {
	filter.Query = query
	filter.Normalize()
	if s.MockListingsEnabled() {
		return s.mockListingPage(KeyMockListings, filter), nil
	}

	var env Envelope
	if err := s.client.Get(ctx, "/listings/search?"+listingQuery(filter), &env); err != nil {
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	page, err := decodeListingPage(env.Data, filter.Page, filter.PageSize)
	if err != nil {
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	return page, nil
}

// GetMyListings returns the caller's own listings.
func (s *Service) GetMyListings(ctx context.Context, filter models.ListingFilter) (*models.ListingPage, error) {
	filter.Normalize()
	if s.MockListingsEnabled() {
		return s.mockListingPage(KeyMockMyListings, filter), nil
	}

	var env Envelope
	if err := s.client.Get(ctx, "/user/my-listings?"+listingQuery(filter), &env); err != nil {
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	page, err := decodeListingPage(env.Data, filter.Page, filter.PageSize)
	if err != nil {
		return &models.ListingPage{Listings: []models.Listing{}, Page: filter.Page, PageSize: filter.PageSize}, nil
	}
	return page, nil
}

// GetListingDetails fetches one listing. Details are a hard read: a missing
// listing is an error, not an empty page.
func (s *Service) GetListingDetails(ctx context.Context, id string) (*models.Listing, error) {
	if s.MockListingsEnabled() {
		for _, key := range []string{KeyMockListings, KeyMockMyListings} {
			for _, l := range loadDoc[[]models.Listing](s.store, key) {
				if l.ID == id || l.LegacyID == id {
					found := l
					return &found, nil
				}
			}
		}
		return nil, fmt.Errorf("listing %s not found", id)
	}

	var env Envelope
	if err := s.client.Get(ctx, "/public/listings/"+id, &env); err != nil {
		return nil, err
	}
	var listing models.Listing
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		return nil, fmt.Errorf("decode listing %s: %w", id, err)
	}
	return &listing, nil
}

// CreateListing creates a listing from a flattened form. In mock mode the
// record gets a synthesized mock-<uuid> identifier (mirrored into _id),
// timestamps, and is appended to both the all-listings and my-listings
// documents.
func (s *Service) CreateListing(ctx context.Context, form Form) (*models.Listing, error) {
	if s.MockListingsEnabled() {
		now := time.Now().UTC()
		listing := models.Listing{
			ID:        mockID(),
			Status:    models.ListingStatusPublished,
			Images:    []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		listing.LegacyID = listing.ID
		form.applyToListing(&listing, false)
		if listing.Status == "" {
			listing.Status = models.ListingStatusPublished
		}

		for _, key := range []string{KeyMockListings, KeyMockMyListings} {
			doc := loadDoc[[]models.Listing](s.store, key)
			doc = append(doc, listing)
			if err := saveDoc(s.store, key, doc); err != nil {
				return nil, err
			}
		}
		return &listing, nil
	}

	var env Envelope
	if err := s.client.Post(ctx, "/listings", form.toListingBody(), &env); err != nil {
		return nil, err
	}
	var listing models.Listing
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		return nil, fmt.Errorf("decode created listing: %w", err)
	}
	return &listing, nil
}

// UpdateListing applies a sparse patch: only present, non-empty form entries
// overwrite fields. In mock mode the patch is applied to the record in both
// documents so they never drift apart.
func (s *Service) UpdateListing(ctx context.Context, id string, form Form) (*models.Listing, error) {
	if s.MockListingsEnabled() {
		var updated *models.Listing
		for _, key := range []string{KeyMockListings, KeyMockMyListings} {
			doc := loadDoc[[]models.Listing](s.store, key)
			for i := range doc {
				if doc[i].ID != id && doc[i].LegacyID != id {
					continue
				}
				form.applyToListing(&doc[i], true)
				doc[i].UpdatedAt = time.Now().UTC()
				if err := saveDoc(s.store, key, doc); err != nil {
					return nil, err
				}
				found := doc[i]
				updated = &found
				break
			}
		}
		if updated == nil {
			return nil, fmt.Errorf("listing %s not found", id)
		}
		return updated, nil
	}

	var env Envelope
	if err := s.client.Put(ctx, "/listings/"+id, form.toListingPatch(), &env); err != nil {
		return nil, err
	}
	var listing models.Listing
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		return nil, fmt.Errorf("decode updated listing: %w", err)
	}
	return &listing, nil
}

// UpdateListingStatus patches only the moderation status.
func (s *Service) UpdateListingStatus(ctx context.Context, id string, status models.ListingStatus) error {
	if s.MockListingsEnabled() {
		touched := false
		for _, key := range []string{KeyMockListings, KeyMockMyListings} {
			doc := loadDoc[[]models.Listing](s.store, key)
			for i := range doc {
				if doc[i].ID == id || doc[i].LegacyID == id {
					doc[i].Status = status
					doc[i].UpdatedAt = time.Now().UTC()
					touched = true
				}
			}
			if err := saveDoc(s.store, key, doc); err != nil {
				return err
			}
		}
		if !touched {
			return fmt.Errorf("listing %s not found", id)
		}
		return nil
	}

	return s.client.Patch(ctx, "/listings/"+id+"/status", map[string]models.ListingStatus{"status": status}, nil)
}

// DeleteListing removes a listing. The all-listings and my-listings mock
// documents are independently persisted, so the delete must hit both; there
// is no cascade keeping them in sync.
func (s *Service) DeleteListing(ctx context.Context, id string) error {
	if s.MockListingsEnabled() {
		for _, key := range []string{KeyMockListings, KeyMockMyListings} {
			doc := loadDoc[[]models.Listing](s.store, key)
			kept := doc[:0]
			for _, l := range doc {
				if l.ID != id && l.LegacyID != id {
					kept = append(kept, l)
				}
			}
			if err := saveDoc(s.store, key, kept); err != nil {
				return err
			}
		}
		return nil
	}

	return s.client.Delete(ctx, "/listings/"+id, nil)
}

// mockListingPage filters and paginates one mock document in memory.
func (s *Service) mockListingPage(key string, filter models.ListingFilter) *models.ListingPage {
	doc := loadDoc[[]models.Listing](s.store, key)

	matched := make([]models.Listing, 0, len(doc))
	for _, l := range doc {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(l.Title), q) &&
				!strings.Contains(strings.ToLower(l.Description), q) {
				continue
			}
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.Wilaya != "" && l.Wilaya != filter.Wilaya {
			continue
		}
		if filter.MinPrice > 0 && l.PricePerKg < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.PricePerKg > filter.MaxPrice {
			continue
		}
		matched = append(matched, l)
	}

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &models.ListingPage{
		Listings: matched[start:end],
		Total:    len(matched),
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
}

// toListingBody converts a form to the JSON payload the live API accepts,
// with the same coercions mock mode applies.
func (f Form) toListingBody() map[string]interface{} {
	var l models.Listing
	f.applyToListing(&l, false)
	body := map[string]interface{}{
		"title":       l.Title,
		"description": l.Description,
		"category":    l.Category,
		"pricePerKg":  l.PricePerKg,
		"unit":        l.Unit,
		"wilaya":      l.Wilaya,
		"commune":     l.Commune,
		"images":      l.Images,
		"vaccinated":  l.Vaccinated,
	}
	if l.BreedingDate != "" {
		body["breedingDate"] = l.BreedingDate
	}
	if l.PreparationDate != "" {
		body["preparationDate"] = l.PreparationDate
	}
	if l.Status == models.ListingStatusDraft {
		body["draft"] = true
	}
	return body
}

// toListingPatch converts a form to an update payload carrying only present,
// non-empty entries, with the same coercions. The live API treats missing keys
// as "leave unchanged", so a full-shape body would blank every field the
// caller did not pass.
func (f Form) toListingPatch() map[string]interface{} {
	body := map[string]interface{}{}
	for _, key := range []string{"title", "description", "category", "unit", "wilaya", "commune", "breedingDate", "preparationDate", "status"} {
		if f.has(key) {
			body[key] = f[key]
		}
	}
	if f.has("images") {
		body["images"] = f.images()
	}
	if f.has("vaccinated") {
		body["vaccinated"] = f.bool("vaccinated")
	}
	if f.has("pricePerKg") {
		body["pricePerKg"] = f.float("pricePerKg")
	} else if f.has("price") {
		body["pricePerKg"] = f.float("price")
	}
	return body
}
