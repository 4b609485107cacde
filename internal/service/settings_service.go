package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
)

// settingsService is the concrete implementation of SettingsService
type settingsService struct {
	settings repository.SettingsRepository
	log      zerolog.Logger
}

func newSettingsService(repos *repository.Repositories, log zerolog.Logger) *settingsService {
	return &settingsService{
		settings: repos.Setting,
		log:      log.With().Str("service", "settings").Logger(),
	}
}

// Get returns the stored document for a key, or ErrNotFound when the key was
// never configured. Clients treat the resulting 404 as a fallback trigger,
// not a failure.
func (s *settingsService) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	if !models.ValidSettingKeys[key] {
		return nil, ErrNotFound
	}

	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	if setting == nil {
		return nil, ErrNotFound
	}
	return setting, nil
}

// Put stores a settings document, last writer wins
func (s *settingsService) Put(ctx context.Context, key string, value json.RawMessage, updatedBy string) (*models.SiteSetting, error) {
	if !models.ValidSettingKeys[key] {
		return nil, ErrNotFound
	}
	if !json.Valid(value) {
		return nil, fmt.Errorf("setting %s: value is not valid JSON", key)
	}

	setting := &models.SiteSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("upsert setting %s: %w", key, err)
	}

	s.log.Info().Str("key", key).Str("updated_by", updatedBy).Msg("Site setting updated")
	return setting, nil
}
