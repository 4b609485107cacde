package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/mocks"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			OTPTTL:          10 * time.Minute,
			BcryptCost:      bcrypt.MinCost,
		},
	}
}

func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := mocks.NewRepositories()
	return NewServices(repos, testConfig(), zerolog.Nop()), repos
}

func signupTestUser(t *testing.T, svc *Services, email string) *models.Session {
	t.Helper()
	session, err := svc.Auth.Signup(context.Background(), &models.SignupRequest{
		Email:    email,
		Username: "fellah",
		FullName: "Mounir K",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Signup() error: %v", err)
	}
	return session
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")
	if session.Token == "" || session.RefreshToken == "" {
		t.Fatal("expected a token pair on signup")
	}
	if session.User.Role != models.RoleUser {
		t.Errorf("expected default role user, got %q", session.User.Role)
	}

	// Duplicate email is rejected, case-insensitively.
	_, err := svc.Auth.Signup(ctx, &models.SignupRequest{
		Email: "Mounir@Example.dz", Username: "other", Password: "x",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Auth.Login(ctx, "mounir@example.dz", "s3cret-pass"); err != nil {
		t.Errorf("Login() error: %v", err)
	}
	if _, err := svc.Auth.Login(ctx, "mounir@example.dz", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Auth.Login(ctx, "nobody@example.dz", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, repos := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")

	renewed, err := svc.Auth.Refresh(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if renewed.Token == session.Token || renewed.RefreshToken == session.RefreshToken {
		t.Error("expected a fresh token pair on refresh")
	}

	// The presented refresh token is consumed: replaying it must fail.
	if _, err := svc.Auth.Refresh(ctx, session.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected consumed token to be rejected, got %v", err)
	}

	tokens := repos.Token.(*mocks.MockTokenRepository)
	if n := tokens.CountKind(models.TokenKindRefresh); n != 1 {
		t.Errorf("expected exactly 1 outstanding refresh token, got %d", n)
	}
}

func TestLogoutRevokesAllSessions(t *testing.T) {
	svc, repos := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")
	second, err := svc.Auth.Login(ctx, "mounir@example.dz", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if err := svc.Auth.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}

	if _, err := svc.Auth.Authenticate(ctx, session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected revoked access token, got %v", err)
	}
	// Logout kills every refresh token of the account, including the one
	// from the second login.
	if _, err := svc.Auth.Refresh(ctx, second.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected all refresh tokens revoked, got %v", err)
	}

	tokens := repos.Token.(*mocks.MockTokenRepository)
	if n := tokens.CountKind(models.TokenKindRefresh); n != 0 {
		t.Errorf("expected 0 refresh tokens after logout, got %d", n)
	}
}

func TestDisabledAccountCannotAuthenticate(t *testing.T) {
	svc, repos := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")
	if err := repos.User.SetActive(ctx, session.User.ID, false); err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}

	if _, err := svc.Auth.Login(ctx, "mounir@example.dz", "s3cret-pass"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
	if _, err := svc.Auth.Authenticate(ctx, session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected disabled account token rejected, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")

	otp, err := svc.Auth.ForgotPassword(ctx, "mounir@example.dz")
	if err != nil {
		t.Fatalf("ForgotPassword() error: %v", err)
	}
	if otp == "" {
		t.Fatal("expected an OTP for a known email")
	}

	// Unknown emails yield no OTP but no error either, so the endpoint
	// reveals nothing about registered accounts.
	if otp2, err := svc.Auth.ForgotPassword(ctx, "nobody@example.dz"); err != nil || otp2 != "" {
		t.Errorf("expected silent success for unknown email, got %q / %v", otp2, err)
	}

	userID, err := svc.Auth.VerifyOTP(ctx, otp)
	if err != nil || userID != session.User.ID {
		t.Fatalf("VerifyOTP() = %q, %v", userID, err)
	}

	if err := svc.Auth.ResetPassword(ctx, otp, "new-pass"); err != nil {
		t.Fatalf("ResetPassword() error: %v", err)
	}

	// OTP is consumed and all prior sessions are invalidated.
	if _, err := svc.Auth.VerifyOTP(ctx, otp); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected consumed OTP rejected, got %v", err)
	}
	if _, err := svc.Auth.Authenticate(ctx, session.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected old session revoked, got %v", err)
	}
	if _, err := svc.Auth.Login(ctx, "mounir@example.dz", "new-pass"); err != nil {
		t.Errorf("Login() with new password error: %v", err)
	}
}

func TestEmailVerification(t *testing.T) {
	svc, repos := newTestServices(t)
	ctx := context.Background()

	session := signupTestUser(t, svc, "mounir@example.dz")

	token, err := svc.Auth.RequestEmailVerification(ctx, session.User.ID)
	if err != nil {
		t.Fatalf("RequestEmailVerification() error: %v", err)
	}
	if err := svc.Auth.ConfirmEmailVerification(ctx, token); err != nil {
		t.Fatalf("ConfirmEmailVerification() error: %v", err)
	}

	user, _ := repos.User.GetByID(ctx, session.User.ID)
	if !user.Verified {
		t.Error("expected account marked verified")
	}
	if err := svc.Auth.ConfirmEmailVerification(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected consumed verify token rejected, got %v", err)
	}
}
