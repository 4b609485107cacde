package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/database"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// settingsRepo is the concrete implementation of SettingsRepository
type settingsRepo struct {
	db *database.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *database.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// Get retrieves a settings document by key
func (r *settingsRepo) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	query := `SELECT key, value, updated_by, updated_at FROM site_settings WHERE key = $1`

	var s models.SiteSetting
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes a settings document, last writer wins
func (r *settingsRepo) Upsert(ctx context.Context, setting *models.SiteSetting) error {
	query := `
		INSERT INTO site_settings (key, value, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		setting.Key, setting.Value, setting.UpdatedBy, time.Now(),
	)
	return err
}
