package service

import (
	"context"
	"errors"
	"testing"

	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

func createTestListing(t *testing.T, svc *Services, sellerID string) *models.Listing {
	t.Helper()
	listing, err := svc.Listing.Create(context.Background(), sellerID, &ListingInput{
		Title:      "Agneau de l'Aïd",
		Category:   "sheep",
		PricePerKg: 1450,
		Wilaya:     "Boumerdès",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return listing
}

func TestListingCreateMirrorsLegacyID(t *testing.T) {
	svc, _ := newTestServices(t)
	listing := createTestListing(t, svc, "seller-1")
	if listing.ID == "" || listing.ID != listing.LegacyID {
		t.Errorf("expected id mirrored into _id, got %q / %q", listing.ID, listing.LegacyID)
	}
	if listing.Status != models.ListingStatusPublished {
		t.Errorf("expected published by default, got %q", listing.Status)
	}
}

func TestListingUpdatePermissions(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	listing := createTestListing(t, svc, "seller-1")

	owner := &models.User{ID: "seller-1", Role: models.RoleUser}
	stranger := &models.User{ID: "seller-2", Role: models.RoleUser}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}

	title := "Agneau vacciné"
	if _, err := svc.Listing.Update(ctx, stranger, listing.ID, &ListingPatch{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner, got %v", err)
	}

	updated, err := svc.Listing.Update(ctx, owner, listing.ID, &ListingPatch{Title: &title})
	if err != nil {
		t.Fatalf("owner Update() error: %v", err)
	}
	if updated.Title != title || updated.Category != "sheep" {
		t.Errorf("sparse patch went wrong: %+v", updated)
	}

	price := 1500.0
	if _, err := svc.Listing.Update(ctx, admin, listing.ID, &ListingPatch{PricePerKg: &price}); err != nil {
		t.Errorf("admin Update() error: %v", err)
	}
}

func TestListingDeleteOwnerVsAdmin(t *testing.T) {
	svc, repos := newTestServices(t)
	ctx := context.Background()

	owner := &models.User{ID: "seller-1", Role: models.RoleUser}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	stranger := &models.User{ID: "seller-2", Role: models.RoleUser}

	// Owner delete removes the row entirely.
	owned := createTestListing(t, svc, "seller-1")
	if err := svc.Listing.Delete(ctx, owner, owned.ID); err != nil {
		t.Fatalf("owner Delete() error: %v", err)
	}
	if got, _ := repos.Listing.GetByID(ctx, owned.ID); got != nil {
		t.Error("expected owner delete to hard-remove the listing")
	}

	// Admin moderation keeps the row under status=deleted for audit.
	moderated := createTestListing(t, svc, "seller-1")
	if err := svc.Listing.Delete(ctx, admin, moderated.ID); err != nil {
		t.Fatalf("admin Delete() error: %v", err)
	}
	got, _ := repos.Listing.GetByID(ctx, moderated.ID)
	if got == nil || got.Status != models.ListingStatusDeleted {
		t.Errorf("expected soft delete via status, got %+v", got)
	}
	// Soft-deleted listings are invisible to reads.
	if _, err := svc.Listing.Get(ctx, moderated.ID, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for soft-deleted listing, got %v", err)
	}

	third := createTestListing(t, svc, "seller-1")
	if err := svc.Listing.Delete(ctx, stranger, third.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestListingGetCountsView(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	listing := createTestListing(t, svc, "seller-1")

	got, err := svc.Listing.Get(ctx, listing.ID, true)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("expected view counted, got %d", got.Views)
	}

	again, err := svc.Listing.Get(ctx, listing.ID, false)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if again.Views != 1 {
		t.Errorf("expected view counter untouched, got %d", again.Views)
	}
}

func TestInquiryOnlyAgainstPublishedListings(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	listing := createTestListing(t, svc, "seller-1")

	created, err := svc.Order.CreateInquiry(ctx, listing.ID, &models.Inquiry{
		Name: "Karim", Phone: "+213 661 00 00 00",
	})
	if err != nil {
		t.Fatalf("CreateInquiry() error: %v", err)
	}
	if created.ID == "" || created.ListingID != listing.ID {
		t.Errorf("unexpected inquiry: %+v", created)
	}

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	if err := svc.Listing.Delete(ctx, admin, listing.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Order.CreateInquiry(ctx, listing.ID, &models.Inquiry{Name: "K", Phone: "1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected inquiries blocked on deleted listings, got %v", err)
	}
}
