package repository

import (
	"context"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// auditRepo is the concrete implementation of AuditRepository
type auditRepo struct {
	db *database.DB
}

// NewAuditRepo creates a new audit repository
func NewAuditRepo(db *database.DB) AuditRepository {
	return &auditRepo{db: db}
}

// RecordClick stores a contact-button click
func (r *auditRepo) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	query := `
		INSERT INTO click_events (id, listing_id, user_id, source, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.ListingID, event.UserID, event.Source, event.CreatedAt,
	)
	return err
}

// ListClicks returns recent clicks, optionally filtered by listing
func (r *auditRepo) ListClicks(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, listing_id, user_id, source, created_at FROM click_events WHERE ($1 = '' OR listing_id = $1) ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, listingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ClickEvent
	for rows.Next() {
		var e models.ClickEvent
		if err := rows.Scan(&e.ID, &e.ListingID, &e.UserID, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
