package models

import (
	"time"
)

// ClickEvent records a contact-button click against a listing, used by the
// call center to follow up and by admins to gauge demand.
type ClickEvent struct {
	ID        string    `json:"id" db:"id"`
	ListingID string    `json:"listingId" db:"listing_id"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
