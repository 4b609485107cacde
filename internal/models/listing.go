package models

import (
	"time"
)

// ListingStatus represents the moderation state of a listing
type ListingStatus string

const (
	ListingStatusPublished ListingStatus = "published"
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusDeleted   ListingStatus = "deleted"
)

// Listing represents a livestock/produce listing. LegacyID mirrors ID on the
// wire because older consumers read `_id` instead of `id`; the two must
// always carry the same value.
type Listing struct {
	ID              string        `json:"id" db:"id"`
	LegacyID        string        `json:"_id,omitempty" db:"-"`
	SellerID        string        `json:"sellerId" db:"seller_id"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	Category        string        `json:"category" db:"category"`
	PricePerKg      float64       `json:"pricePerKg" db:"price_per_kg"`
	Unit            string        `json:"unit" db:"unit"`
	Wilaya          string        `json:"wilaya" db:"wilaya"`
	Commune         string        `json:"commune" db:"commune"`
	Images          []string      `json:"images" db:"images"`
	Status          ListingStatus `json:"status" db:"status"`
	Views           int           `json:"views" db:"views"`
	Vaccinated      bool          `json:"vaccinated" db:"vaccinated"`
	BreedingDate    string        `json:"breedingDate,omitempty" db:"breeding_date"`
	PreparationDate string        `json:"preparationDate,omitempty" db:"preparation_date"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// ListingPage is the pagination envelope for listing reads
type ListingPage struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// ListingFilter carries the supported query parameters for list/search
type ListingFilter struct {
	Query    string
	Category string
	Wilaya   string
	MinPrice float64
	MaxPrice float64
	Status   ListingStatus
	SellerID string
	Page     int
	PageSize int
}

// Normalize clamps pagination to sane values
func (f *ListingFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}
