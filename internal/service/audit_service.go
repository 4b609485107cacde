package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
)

// auditService is the concrete implementation of AuditService
type auditService struct {
	audit repository.AuditRepository
	log   zerolog.Logger
}

func newAuditService(repos *repository.Repositories, log zerolog.Logger) *auditService {
	return &auditService{
		audit: repos.Audit,
		log:   log.With().Str("service", "audit").Logger(),
	}
}

// RecordClick stores a contact-button click
func (s *auditService) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()
	if event.Source == "" {
		event.Source = "web"
	}
	if err := s.audit.RecordClick(ctx, event); err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	return nil
}

// ListClicks returns recent contact clicks for the admin dashboard
func (s *auditService) ListClicks(ctx context.Context, listingID string, limit int) ([]models.ClickEvent, error) {
	events, err := s.audit.ListClicks(ctx, listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("list clicks: %w", err)
	}
	if events == nil {
		events = []models.ClickEvent{}
	}
	return events, nil
}
