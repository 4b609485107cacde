package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/lib/pq"
)

// listingRepo is the concrete implementation of ListingRepository
type listingRepo struct {
	db *database.DB
}

// NewListingRepo creates a new listing repository
func NewListingRepo(db *database.DB) ListingRepository {
	return &listingRepo{db: db}
}

// Create inserts a new listing
func (r *listingRepo) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, seller_id, title, description, category, price_per_kg, unit, wilaya, commune, images, status, views, vaccinated, breeding_date, preparation_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.SellerID, listing.Title, listing.Description,
		listing.Category, listing.PricePerKg, listing.Unit, listing.Wilaya,
		listing.Commune, pq.Array(listing.Images), listing.Status, listing.Views,
		listing.Vaccinated, listing.BreedingDate, listing.PreparationDate,
		listing.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves a listing by ID
func (r *listingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `
		SELECT id, seller_id, title, description, category, price_per_kg, unit, wilaya, commune, images, status, views, vaccinated, breeding_date, preparation_date, created_at, updated_at
		FROM listings WHERE id = $1
	`
	var l models.Listing
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Category,
		&l.PricePerKg, &l.Unit, &l.Wilaya, &l.Commune, pq.Array(&l.Images),
		&l.Status, &l.Views, &l.Vaccinated, &l.BreedingDate, &l.PreparationDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.LegacyID = l.ID
	return &l, nil
}

// Update writes the mutable listing fields
func (r *listingRepo) Update(ctx context.Context, listing *models.Listing) error {
	query := `
		UPDATE listings SET title = $2, description = $3, category = $4, price_per_kg = $5, unit = $6, wilaya = $7, commune = $8, images = $9, vaccinated = $10, breeding_date = $11, preparation_date = $12, updated_at = $13
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.Category,
		listing.PricePerKg, listing.Unit, listing.Wilaya, listing.Commune,
		pq.Array(listing.Images), listing.Vaccinated, listing.BreedingDate,
		listing.PreparationDate, time.Now(),
	)
	return err
}

// UpdateStatus changes the moderation status. Admin deletes go through here
// with status='deleted' so the record stays queryable for audit.
func (r *listingRepo) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	return err
}

// IncrementViews bumps the view counter
func (r *listingRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE listings SET views = views + 1 WHERE id = $1", id)
	return err
}

// List returns a filtered page of listings with the total count
func (r *listingRepo) List(ctx context.Context, filter *models.ListingFilter) ([]models.Listing, int, error) {
	filter.Normalize()

	where := "WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where += " AND status = " + arg(filter.Status)
	}
	if filter.Category != "" {
		where += " AND category = " + arg(filter.Category)
	}
	if filter.Wilaya != "" {
		where += " AND wilaya = " + arg(filter.Wilaya)
	}
	if filter.SellerID != "" {
		where += " AND seller_id = " + arg(filter.SellerID)
	}
	if filter.MinPrice > 0 {
		where += " AND price_per_kg >= " + arg(filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		where += " AND price_per_kg <= " + arg(filter.MaxPrice)
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		where += fmt.Sprintf(" AND (title ILIKE %s OR description ILIKE %s)", p, p)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, seller_id, title, description, category, price_per_kg, unit, wilaya, commune, images, status, views, vaccinated, breeding_date, preparation_date, created_at, updated_at
		FROM listings %s ORDER BY created_at DESC LIMIT %s OFFSET %s
	`, where, arg(filter.PageSize), arg((filter.Page-1)*filter.PageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		err := rows.Scan(
			&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Category,
			&l.PricePerKg, &l.Unit, &l.Wilaya, &l.Commune, pq.Array(&l.Images),
			&l.Status, &l.Views, &l.Vaccinated, &l.BreedingDate, &l.PreparationDate,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		l.LegacyID = l.ID
		listings = append(listings, l)
	}
	return listings, total, rows.Err()
}

// Delete hard-removes a listing (owner delete)
func (r *listingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	return err
}
