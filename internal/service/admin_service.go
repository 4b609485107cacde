package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// adminService is the concrete implementation of AdminService
type adminService struct {
	users repository.UserRepository
	cfg   *config.AuthConfig
	log   zerolog.Logger
}

func newAdminService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *adminService {
	return &adminService{
		users: repos.User,
		cfg:   &cfg.Auth,
		log:   log.With().Str("service", "admin").Logger(),
	}
}

// ListUsers returns a page of accounts
func (s *adminService) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	users, total, err := s.users.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, total, nil
}

// CreateUser provisions an account with an explicit role (admin console)
func (s *adminService) CreateUser(ctx context.Context, req *models.SignupRequest, role models.Role) (*models.User, error) {
	if !models.ValidRoles[role] {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Username:  req.Username,
		FullName:  req.FullName,
		Role:      role,
		Verified:  true,
		IsActive:  true,
		Phone:     req.Phone,
		Wilaya:    req.Wilaya,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("User provisioned by admin")
	return user, nil
}

// SetUserActive enables or disables an account
func (s *adminService) SetUserActive(ctx context.Context, id string, active bool) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.SetActive(ctx, id, active)
}

// SetUserRole changes an account's role
func (s *adminService) SetUserRole(ctx context.Context, id string, role models.Role) error {
	if !models.ValidRoles[role] {
		return fmt.Errorf("invalid role %q", role)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	return s.users.SetRole(ctx, id, role)
}

// DeleteUser removes an account
func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	if models.IsSuperAdmin(user.Role) {
		return ErrForbidden
	}
	return s.users.Delete(ctx, id)
}
