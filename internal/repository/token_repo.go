package repository

import (
	"context"
	"database/sql"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// tokenRepo is the concrete implementation of TokenRepository
type tokenRepo struct {
	db *database.DB
}

// NewTokenRepo creates a new token repository
func NewTokenRepo(db *database.DB) TokenRepository {
	return &tokenRepo{db: db}
}

// Create inserts a new auth token
func (r *tokenRepo) Create(ctx context.Context, token *models.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (token, user_id, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.Token, token.UserID, token.Kind, token.ExpiresAt, token.CreatedAt,
	)
	return err
}

// Get retrieves a token of the given kind
func (r *tokenRepo) Get(ctx context.Context, token string, kind models.TokenKind) (*models.AuthToken, error) {
	query := `SELECT token, user_id, kind, expires_at, created_at FROM auth_tokens WHERE token = $1 AND kind = $2`

	var t models.AuthToken
	err := r.db.QueryRowContext(ctx, query, token, kind).Scan(
		&t.Token, &t.UserID, &t.Kind, &t.ExpiresAt, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a single token
func (r *tokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE token = $1", token)
	return err
}

// DeleteForUser removes all of a user's tokens of one kind (logout, rotation)
func (r *tokenRepo) DeleteForUser(ctx context.Context, userID string, kind models.TokenKind) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE user_id = $1 AND kind = $2", userID, kind)
	return err
}
