package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// orderRepo is the concrete implementation of OrderRepository
type orderRepo struct {
	db *database.DB
}

// NewOrderRepo creates a new order repository
func NewOrderRepo(db *database.DB) OrderRepository {
	return &orderRepo{db: db}
}

// Create inserts a new order
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, buyer_id, listing_id, quantity, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.BuyerID, order.ListingID, order.Quantity,
		order.Status, order.Note, order.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves an order by ID
func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT id, buyer_id, listing_id, quantity, status, note, created_at, updated_at FROM orders WHERE id = $1`

	var o models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.BuyerID, &o.ListingID, &o.Quantity, &o.Status, &o.Note,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByBuyer returns a buyer's orders, newest first
func (r *orderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	query := `SELECT id, buyer_id, listing_id, quantity, status, note, created_at, updated_at FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.BuyerID, &o.ListingID, &o.Quantity, &o.Status, &o.Note,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListAll returns a page of all orders with the total count
func (r *orderRepo) ListAll(ctx context.Context, page, pageSize int) ([]models.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, buyer_id, listing_id, quantity, status, note, created_at, updated_at FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.BuyerID, &o.ListingID, &o.Quantity, &o.Status, &o.Note,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// UpdateStatus moves an order through the call-center workflow
func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	return err
}
