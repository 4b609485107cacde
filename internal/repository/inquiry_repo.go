package repository

import (
	"context"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// inquiryRepo is the concrete implementation of InquiryRepository
type inquiryRepo struct {
	db *database.DB
}

// NewInquiryRepo creates a new inquiry repository
func NewInquiryRepo(db *database.DB) InquiryRepository {
	return &inquiryRepo{db: db}
}

// Create inserts a new inquiry
func (r *inquiryRepo) Create(ctx context.Context, inquiry *models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, listing_id, name, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID, inquiry.ListingID, inquiry.Name, inquiry.Phone,
		inquiry.Message, inquiry.CreatedAt,
	)
	return err
}

// ListByListing returns inquiries for one listing, newest first
func (r *inquiryRepo) ListByListing(ctx context.Context, listingID string) ([]models.Inquiry, error) {
	query := `SELECT id, listing_id, name, phone, message, created_at FROM inquiries WHERE listing_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var i models.Inquiry
		if err := rows.Scan(&i.ID, &i.ListingID, &i.Name, &i.Phone, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, i)
	}
	return inquiries, rows.Err()
}

// ListAll returns a page of all inquiries with the total count
func (r *inquiryRepo) ListAll(ctx context.Context, page, pageSize int) ([]models.Inquiry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inquiries").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, listing_id, name, phone, message, created_at FROM inquiries ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var i models.Inquiry
		if err := rows.Scan(&i.ID, &i.ListingID, &i.Name, &i.Phone, &i.Message, &i.CreatedAt); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, i)
	}
	return inquiries, total, rows.Err()
}
