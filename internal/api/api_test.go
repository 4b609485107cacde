package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/client"
	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/dataservice"
	"github.com/keciramounir97/souk-boudouaou/internal/mocks"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/repository"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/keciramounir97/souk-boudouaou/pkg/kvstore"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.Repositories) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			OTPTTL:          10 * time.Minute,
			BcryptCost:      bcrypt.MinCost,
		},
	}
	repos := mocks.NewRepositories()
	services := service.NewServices(repos, cfg, zerolog.Nop())
	return NewRouter(services, cfg, zerolog.Nop()), repos
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	envelope := map[string]json.RawMessage{}
	_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func signupOverHTTP(t *testing.T, router *gin.Engine, email string) *models.Session {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", models.SignupRequest{
		Email:    email,
		Username: "u-" + email,
		Password: "s3cret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	var session models.Session
	if err := json.Unmarshal(env["data"], &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return &session
}

func promoteToAdmin(t *testing.T, repos *repository.Repositories, userID string) {
	t.Helper()
	if err := repos.User.SetRole(context.Background(), userID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole() error: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w, _ := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	session := signupOverHTTP(t, router, "mounir@example.dz")
	if session.Token == "" || session.RefreshToken == "" {
		t.Fatal("expected a token pair in the signup envelope")
	}

	// Wrong credentials come back as a plain 400 envelope.
	w, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email: "mounir@example.dz", Password: "wrong",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on bad credentials, got %d", w.Code)
	}
	if string(env["success"]) != "false" {
		t.Errorf("expected success:false, got %s", env["success"])
	}

	// Protected routes need a bearer token.
	w, _ = doJSON(t, router, http.MethodGet, "/api/user/my-listings", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodGet, "/api/user/my-listings", session.Token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}

	// Refresh rotates the pair; the old refresh token is burned.
	w, env = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: session.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh returned %d: %s", w.Code, w.Body.String())
	}
	var renewed models.Session
	if err := json.Unmarshal(env["data"], &renewed); err != nil {
		t.Fatalf("decode renewed session: %v", err)
	}
	w, _ = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", models.RefreshRequest{RefreshToken: session.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 replaying a consumed refresh token, got %d", w.Code)
	}
}

func TestListingEndpoints(t *testing.T) {
	router, repos := newTestRouter(t)

	seller := signupOverHTTP(t, router, "seller@example.dz")
	other := signupOverHTTP(t, router, "other@example.dz")

	w, env := doJSON(t, router, http.MethodPost, "/api/listings", seller.Token, service.ListingInput{
		Title:      "Agneau de l'Aïd",
		Category:   "sheep",
		PricePerKg: 1450,
		Wilaya:     "Boumerdès",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}
	var created models.Listing
	if err := json.Unmarshal(env["data"], &created); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if created.ID != created.LegacyID {
		t.Errorf("expected _id mirrored on the wire, got %q / %q", created.ID, created.LegacyID)
	}

	// Public detail read counts a view.
	w, env = doJSON(t, router, http.MethodGet, "/api/public/listings/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public get returned %d", w.Code)
	}
	var fetched models.Listing
	_ = json.Unmarshal(env["data"], &fetched)
	if fetched.Views != 1 {
		t.Errorf("expected view counted, got %d", fetched.Views)
	}

	// Only the owner (or an admin) may update.
	title := "Mouton"
	w, _ = doJSON(t, router, http.MethodPut, "/api/listings/"+created.ID, other.Token, map[string]string{"title": title})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner update, got %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodPut, "/api/listings/"+created.ID, seller.Token, map[string]string{"title": title})
	if w.Code != http.StatusOK {
		t.Errorf("owner update returned %d: %s", w.Code, w.Body.String())
	}

	// Admin moderation soft-deletes; the public read then 404s.
	promoteToAdmin(t, repos, other.User.ID)
	w, _ = doJSON(t, router, http.MethodPatch, "/api/admin/listings/"+created.ID, other.Token, map[string]string{"status": "deleted"})
	if w.Code != http.StatusOK {
		t.Fatalf("moderation returned %d: %s", w.Code, w.Body.String())
	}
	w, _ = doJSON(t, router, http.MethodGet, "/api/public/listings/"+created.ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after moderation, got %d", w.Code)
	}
}

func TestAdminGuards(t *testing.T) {
	router, repos := newTestRouter(t)

	user := signupOverHTTP(t, router, "user@example.dz")
	w, _ := doJSON(t, router, http.MethodGet, "/api/admin/users", user.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}

	promoteToAdmin(t, repos, user.User.ID)
	w, _ = doJSON(t, router, http.MethodGet, "/api/admin/users", user.Token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}

	// A plain admin cannot mint another admin; that takes a super admin.
	w, _ = doJSON(t, router, http.MethodPost, "/api/admin/users", user.Token, map[string]string{
		"email": "new-admin@example.dz", "username": "na", "password": "x", "role": "ADMIN",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 minting an admin as plain admin, got %d", w.Code)
	}
}

func TestSiteSettingsEndpoints(t *testing.T) {
	router, repos := newTestRouter(t)

	// Unconfigured keys 404 so clients fall back to local defaults.
	w, _ := doJSON(t, router, http.MethodGet, "/api/public/site/footer", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unconfigured key, got %d", w.Code)
	}

	admin := signupOverHTTP(t, router, "admin@example.dz")
	promoteToAdmin(t, repos, admin.User.ID)

	doc := map[string]interface{}{"callCenterNumbers": []string{"+213 770 00 00 00"}}
	w, _ = doJSON(t, router, http.MethodPut, "/api/admin/site/footer", admin.Token, doc)
	if w.Code != http.StatusOK {
		t.Fatalf("settings put returned %d: %s", w.Code, w.Body.String())
	}

	w, env := doJSON(t, router, http.MethodGet, "/api/public/site/footer", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("settings get returned %d", w.Code)
	}
	var setting models.SiteSetting
	if err := json.Unmarshal(env["data"], &setting); err != nil {
		t.Fatalf("decode setting: %v", err)
	}
	if setting.Key != "footer" || len(setting.Value) == 0 {
		t.Errorf("unexpected setting: %+v", setting)
	}

	// Unknown keys are rejected on write.
	w, _ = doJSON(t, router, http.MethodPut, "/api/admin/site/banner", admin.Token, doc)
	if w.Code == http.StatusOK {
		t.Error("expected unknown setting key to be rejected")
	}
}

// The SDK client runs against the real router here: an expired access token
// triggers the transparent refresh and the original request is replayed.
func TestClientSDKRefreshAgainstRouter(t *testing.T) {
	router, repos := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	session := signupOverHTTP(t, router, "sdk@example.dz")

	store := kvstore.NewMemoryStore()
	store.Set(client.KeyToken, session.Token)
	store.Set(client.KeyRefreshToken, session.RefreshToken)

	c, err := client.New(client.Options{BaseURL: srv.URL, Store: store, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("client.New() error: %v", err)
	}

	// Revoke the access token server-side so the next call 401s.
	if err := repos.Token.Delete(context.Background(), session.Token); err != nil {
		t.Fatalf("revoke token: %v", err)
	}

	var out struct {
		Success bool `json:"success"`
	}
	if err := c.Get(context.Background(), "/user/my-listings", &out); err != nil {
		t.Fatalf("expected transparent refresh and replay, got %v", err)
	}
	if !out.Success {
		t.Error("expected success envelope after replay")
	}

	token, _ := store.Get(client.KeyToken)
	if token == "" || token == session.Token {
		t.Error("expected a rotated access token in the store")
	}
	refresh, _ := store.Get(client.KeyRefreshToken)
	if refresh == "" || refresh == session.RefreshToken {
		t.Error("expected a rotated refresh token in the store")
	}
}

func newSDKDataService(t *testing.T, baseURL string, session *models.Session) *dataservice.Service {
	t.Helper()
	store := kvstore.NewMemoryStore()
	store.Set(client.KeyToken, session.Token)
	store.Set(client.KeyRefreshToken, session.RefreshToken)

	c, err := client.New(client.Options{BaseURL: baseURL, Store: store, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("client.New() error: %v", err)
	}
	svc, err := dataservice.New(dataservice.Options{Client: c, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("dataservice.New() error: %v", err)
	}
	return svc
}

// The dashboard envelope nests the user record under data.user next to the
// counts; GetProfile must unwrap that shape.
func TestSDKProfileAgainstRouter(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	session := signupOverHTTP(t, router, "profil@example.dz")
	svc := newSDKDataService(t, srv.URL, session)

	user, err := svc.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if user.ID == "" || user.ID != session.User.ID {
		t.Errorf("expected profile ID %q, got %q", session.User.ID, user.ID)
	}
	if user.Email != "profil@example.dz" {
		t.Errorf("expected profile email, got %q", user.Email)
	}
}

// A one-field update form must leave every other field untouched on the live
// path, same as mock mode.
func TestSDKSparseUpdateAgainstRouter(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	session := signupOverHTTP(t, router, "vendeur@example.dz")
	svc := newSDKDataService(t, srv.URL, session)
	ctx := context.Background()

	created, err := svc.CreateListing(ctx, dataservice.Form{
		"title":       "Agneau de l'Aïd",
		"description": "Élevé en plein air",
		"category":    "sheep",
		"pricePerKg":  "1450",
		"wilaya":      "Boumerdès",
	})
	if err != nil {
		t.Fatalf("CreateListing() error: %v", err)
	}

	updated, err := svc.UpdateListing(ctx, created.ID, dataservice.Form{"title": "Mouton"})
	if err != nil {
		t.Fatalf("UpdateListing() error: %v", err)
	}
	if updated.Title != "Mouton" {
		t.Errorf("expected title updated, got %q", updated.Title)
	}
	if updated.Description != "Élevé en plein air" || updated.Category != "sheep" ||
		updated.PricePerKg != 1450 || updated.Wilaya != "Boumerdès" {
		t.Errorf("one-field update touched unrelated fields: %+v", updated)
	}

	// And the persisted record agrees with the response.
	fetched, err := svc.GetListingDetails(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetListingDetails() error: %v", err)
	}
	if fetched.Description != "Élevé en plein air" || fetched.PricePerKg != 1450 {
		t.Errorf("persisted record lost fields: %+v", fetched)
	}
}

func TestForgotPasswordResponseShape(t *testing.T) {
	router, _ := newTestRouter(t)
	signupOverHTTP(t, router, "connu@example.dz")

	wKnown, envKnown := doJSON(t, router, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "connu@example.dz"})
	wUnknown, _ := doJSON(t, router, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "inconnu@example.dz"})
	if wKnown.Code != http.StatusOK || wUnknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", wKnown.Code, wUnknown.Code)
	}

	// The body never varies, so the endpoint cannot enumerate accounts.
	if wKnown.Body.String() != wUnknown.Body.String() {
		t.Errorf("response differs between known and unknown emails: %s vs %s",
			wKnown.Body.String(), wUnknown.Body.String())
	}
	if _, ok := envKnown["data"]; ok {
		t.Error("expected no OTP in the public response")
	}
}
