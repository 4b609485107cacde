package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user with its password hash
func (r *userRepo) Create(ctx context.Context, user *models.User, passwordHash string) error {
	query := `
		INSERT INTO users (id, email, username, full_name, password_hash, role, verified, is_active, phone, wilaya, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.FullName, passwordHash,
		user.Role, user.Verified, user.IsActive, user.Phone, user.Wilaya,
		user.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, username, full_name, role, verified, is_active, phone, wilaya, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.FullName, &user.Role,
		&user.Verified, &user.IsActive, &user.Phone, &user.Wilaya, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves a user and its password hash by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	query := `SELECT id, email, username, full_name, password_hash, role, verified, is_active, phone, wilaya, created_at FROM users WHERE email = $1`

	var user models.User
	var hash string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Username, &user.FullName, &hash, &user.Role,
		&user.Verified, &user.IsActive, &user.Phone, &user.Wilaya, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	return &user, hash, nil
}

// EmailExists checks if a user with the given email exists
func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}

// Update writes the mutable profile fields
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET full_name = $2, phone = $3, wilaya = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Phone, user.Wilaya, time.Now(),
	)
	return err
}

// UpdatePassword replaces the stored password hash
func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1",
		id, passwordHash, time.Now(),
	)
	return err
}

// SetVerified flips the email-verified flag
func (r *userRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET verified = $2, updated_at = $3 WHERE id = $1",
		id, verified, time.Now(),
	)
	return err
}

// SetActive flips the account-active flag (admin moderation)
func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1",
		id, active, time.Now(),
	)
	return err
}

// SetRole changes the user's role
func (r *userRepo) SetRole(ctx context.Context, id string, role models.Role) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = $2, updated_at = $3 WHERE id = $1",
		id, role, time.Now(),
	)
	return err
}

// List returns a page of users with the total count
func (r *userRepo) List(ctx context.Context, page, pageSize int) ([]models.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, email, username, full_name, role, verified, is_active, phone, wilaya, created_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.Username, &user.FullName, &user.Role,
			&user.Verified, &user.IsActive, &user.Phone, &user.Wilaya, &user.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Delete removes a user
func (r *userRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}
