package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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

// authService is the concrete implementation of AuthService. Tokens are
// opaque random values stored server-side; refresh tokens are consumed on
// rotation so a stolen token can be used at most once.
type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cfg    *config.AuthConfig
	log    zerolog.Logger
}

func newAuthService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *authService {
	return &authService{
		users:  repos.User,
		tokens: repos.Token,
		cfg:    &cfg.Auth,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// Signup registers a new account and opens a session
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.Session, error) {
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
		Role:      models.RoleUser,
		Verified:  false,
		IsActive:  true,
		Phone:     req.Phone,
		Wilaya:    req.Wilaya,
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session
func (s *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, hash, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.openSession(ctx, user)
}

// Refresh consumes a refresh token and issues a new token pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	stored, err := s.tokens.Get(ctx, refreshToken, models.TokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if stored == nil || stored.Expired(time.Now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	// Rotation: the presented token is gone whether or not issuing succeeds.
	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	return s.openSession(ctx, user)
}

// Logout revokes the session behind an access token
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	stored, err := s.tokens.Get(ctx, accessToken, models.TokenKindAccess)
	if err != nil {
		return fmt.Errorf("lookup access token: %w", err)
	}
	if stored == nil {
		return ErrInvalidToken
	}

	if err := s.tokens.Delete(ctx, accessToken); err != nil {
		return err
	}
	return s.tokens.DeleteForUser(ctx, stored.UserID, models.TokenKindRefresh)
}

// Authenticate resolves an access token to its user
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	stored, err := s.tokens.Get(ctx, accessToken, models.TokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("lookup access token: %w", err)
	}
	if stored == nil || stored.Expired(time.Now()) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// UpdateProfile applies a sparse patch to the caller's profile
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Wilaya != "" {
		user.Wilaya = req.Wilaya
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// RequestEmailVerification issues a verification token. Delivery is handled
// by the call center, so the token is returned to the caller here.
func (s *authService) RequestEmailVerification(ctx context.Context, userID string) (string, error) {
	token, err := generateToken(32)
	if err != nil {
		return "", err
	}
	err = s.tokens.Create(ctx, &models.AuthToken{
		Token:     token,
		UserID:    userID,
		Kind:      models.TokenKindVerify,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("store verify token: %w", err)
	}
	return token, nil
}

// ConfirmEmailVerification marks the token's account as verified
func (s *authService) ConfirmEmailVerification(ctx context.Context, token string) error {
	stored, err := s.tokens.Get(ctx, token, models.TokenKindVerify)
	if err != nil {
		return fmt.Errorf("lookup verify token: %w", err)
	}
	if stored == nil || stored.Expired(time.Now()) {
		return ErrInvalidToken
	}

	if err := s.users.SetVerified(ctx, stored.UserID, true); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return s.tokens.Delete(ctx, token)
}

// ForgotPassword issues an OTP for the account behind the email. A missing
// account still returns success upstream so the endpoint cannot be used to
// enumerate registered emails.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, _, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", nil
	}

	// One outstanding OTP per account.
	if err := s.tokens.DeleteForUser(ctx, user.ID, models.TokenKindOTP); err != nil {
		return "", fmt.Errorf("clear old otp: %w", err)
	}

	otp, err := generateToken(4)
	if err != nil {
		return "", err
	}
	err = s.tokens.Create(ctx, &models.AuthToken{
		Token:     otp,
		UserID:    user.ID,
		Kind:      models.TokenKindOTP,
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return otp, nil
}

// VerifyOTP checks an OTP without consuming it, returning the account ID
func (s *authService) VerifyOTP(ctx context.Context, otp string) (string, error) {
	stored, err := s.tokens.Get(ctx, otp, models.TokenKindOTP)
	if err != nil {
		return "", fmt.Errorf("lookup otp: %w", err)
	}
	if stored == nil || stored.Expired(time.Now()) {
		return "", ErrInvalidToken
	}
	return stored.UserID, nil
}

// ResetPassword consumes an OTP and replaces the account password
func (s *authService) ResetPassword(ctx context.Context, otp, newPassword string) error {
	userID, err := s.VerifyOTP(ctx, otp)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Invalidate the OTP and all existing sessions.
	if err := s.tokens.Delete(ctx, otp); err != nil {
		return err
	}
	if err := s.tokens.DeleteForUser(ctx, userID, models.TokenKindRefresh); err != nil {
		return err
	}
	return s.tokens.DeleteForUser(ctx, userID, models.TokenKindAccess)
}

// openSession issues a fresh access/refresh pair for the user
func (s *authService) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	access, err := generateToken(32)
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken(32)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.tokens.Create(ctx, &models.AuthToken{
		Token:     access,
		UserID:    user.ID,
		Kind:      models.TokenKindAccess,
		ExpiresAt: now.Add(s.cfg.AccessTokenTTL),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}
	err = s.tokens.Create(ctx, &models.AuthToken{
		Token:     refresh,
		UserID:    user.ID,
		Kind:      models.TokenKindRefresh,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.Session{User: user, Token: access, RefreshToken: refresh}, nil
}

func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
