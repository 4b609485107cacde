package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/keciramounir97/souk-boudouaou/internal/client"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
)

// Login authenticates and persists the returned session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var env struct {
		Data models.Session `json:"data"`
	}
	err := s.client.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &env)
	if err != nil {
		return nil, err
	}

	userJSON := ""
	if env.Data.User != nil {
		if raw, err := json.Marshal(env.Data.User); err == nil {
			userJSON = string(raw)
		}
	}
	if err := s.client.SetSession(env.Data.Token, env.Data.RefreshToken, userJSON); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Signup registers an account and persists the returned session.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.Session, error) {
	var env struct {
		Data models.Session `json:"data"`
	}
	if err := s.client.Post(ctx, "/auth/signup", req, &env); err != nil {
		return nil, err
	}

	userJSON := ""
	if env.Data.User != nil {
		if raw, err := json.Marshal(env.Data.User); err == nil {
			userJSON = string(raw)
		}
	}
	if err := s.client.SetSession(env.Data.Token, env.Data.RefreshToken, userJSON); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout revokes the session server-side, then clears local state either way.
func (s *Service) Logout(ctx context.Context) error {
	err := s.client.Post(ctx, "/auth/logout", nil, nil)
	s.client.ClearSession()
	return err
}

// CurrentUser returns the locally persisted user record, if any.
func (s *Service) CurrentUser() (*models.User, bool) {
	raw, ok := s.client.Store().Get(client.KeyUser)
	if !ok || raw == "" {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// GetProfile fetches the authenticated user's dashboard record. The dashboard
// envelope nests the user under data.user next to the listing and order
// counts.
func (s *Service) GetProfile(ctx context.Context) (*models.User, error) {
	var env struct {
		Data struct {
			User models.User `json:"user"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, "/dashboard/user", &env); err != nil {
		return nil, err
	}
	if env.Data.User.ID == "" {
		return nil, fmt.Errorf("decode profile: missing user record")
	}
	user := env.Data.User
	return &user, nil
}

// UpdateProfile applies a sparse profile patch and refreshes the locally
// persisted user record.
func (s *Service) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var env Envelope
	if err := s.client.Put(ctx, "/auth/update", req, &env); err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if raw, err := json.Marshal(user); err == nil {
		_ = s.client.Store().Set(client.KeyUser, string(raw))
	}
	return &user, nil
}

// GetAdminUsers lists accounts for the admin console.
func (s *Service) GetAdminUsers(ctx context.Context, page, pageSize int) ([]models.User, int, error) {
	if s.MockUsersEnabled() {
		doc := loadDoc[[]models.User](s.store, KeyMockAdminUsers)
		return doc, len(doc), nil
	}

	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/admin/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env struct {
		Data struct {
			Users []models.User `json:"users"`
			Total int           `json:"total"`
		} `json:"data"`
	}
	if err := s.client.Get(ctx, path, &env); err != nil {
		return nil, 0, err
	}
	return env.Data.Users, env.Data.Total, nil
}

// CreateAdminUser creates an account from the admin console.
func (s *Service) CreateAdminUser(ctx context.Context, req models.SignupRequest, role models.Role) (*models.User, error) {
	if s.MockUsersEnabled() {
		if role == "" {
			role = models.RoleUser
		}
		user := models.User{
			ID:        mockID(),
			Email:     req.Email,
			Username:  req.Username,
			FullName:  req.FullName,
			Role:      role,
			IsActive:  true,
			Phone:     req.Phone,
			Wilaya:    req.Wilaya,
			CreatedAt: time.Now().UTC(),
		}
		doc := loadDoc[[]models.User](s.store, KeyMockAdminUsers)
		doc = append(doc, user)
		if err := saveDoc(s.store, KeyMockAdminUsers, doc); err != nil {
			return nil, err
		}
		return &user, nil
	}

	body := struct {
		models.SignupRequest
		Role models.Role `json:"role,omitempty"`
	}{SignupRequest: req, Role: role}

	var env Envelope
	if err := s.client.Post(ctx, "/admin/users", body, &env); err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("decode created user: %w", err)
	}
	return &user, nil
}

// SetUserActive toggles an account's active flag.
func (s *Service) SetUserActive(ctx context.Context, id string, active bool) error {
	if s.MockUsersEnabled() {
		doc := loadDoc[[]models.User](s.store, KeyMockAdminUsers)
		for i := range doc {
			if doc[i].ID == id {
				doc[i].IsActive = active
				return saveDoc(s.store, KeyMockAdminUsers, doc)
			}
		}
		return fmt.Errorf("user %s not found", id)
	}

	return s.client.Patch(ctx, "/admin/users/"+id, map[string]bool{"isActive": active}, nil)
}

// DeleteAdminUser removes an account.
func (s *Service) DeleteAdminUser(ctx context.Context, id string) error {
	if s.MockUsersEnabled() {
		doc := loadDoc[[]models.User](s.store, KeyMockAdminUsers)
		kept := doc[:0]
		for _, u := range doc {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		return saveDoc(s.store, KeyMockAdminUsers, kept)
	}

	return s.client.Delete(ctx, "/admin/users/"+id, nil)
}
