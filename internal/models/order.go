package models

import (
	"time"
)

// OrderStatus represents the call-center workflow state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a buyer order mediated by the call center
type Order struct {
	ID        string      `json:"id" db:"id"`
	BuyerID   string      `json:"buyerId" db:"buyer_id"`
	ListingID string      `json:"listingId" db:"listing_id"`
	Quantity  float64     `json:"quantity" db:"quantity"`
	Status    OrderStatus `json:"status" db:"status"`
	Note      string      `json:"note,omitempty" db:"note"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// Inquiry is a contact request against a listing. Buyers never reach sellers
// directly; the call center follows up by phone.
type Inquiry struct {
	ID        string    `json:"id" db:"id"`
	ListingID string    `json:"listingId" db:"listing_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
