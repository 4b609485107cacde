package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keciramounir97/souk-boudouaou/pkg/kvstore"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, baseURL string, store kvstore.Store) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL:     baseURL,
		Store:       store,
		Development: true,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	store := kvstore.NewMemoryStore()
	store.Set(KeyToken, "tok-123")
	c := newTestClient(t, srv.URL, store)

	if err := c.Get(context.Background(), "/listings", nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestDoublePrefixGuardInDevelopment(t *testing.T) {
	c := newTestClient(t, "http://unused", kvstore.NewMemoryStore())

	err := c.Get(context.Background(), "/api/listings", nil)
	if err == nil {
		t.Fatal("expected error for /api-prefixed path in development")
	}
}

func TestSingleFlightRefreshUnderConcurrent401s(t *testing.T) {
	const workers = 3

	var refreshCalls int32
	var barrier sync.WaitGroup
	barrier.Add(workers)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"bad refresh token"}`))
			return
		}
		// Hold the refresh open long enough for every 401 to join the queue.
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"success":true,"data":{"token":"fresh","refreshToken":"refresh-2"}}`))
	})
	mux.HandleFunc("/api/protected", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			// Release all first-round requests at once so their 401s race.
			barrier.Done()
			barrier.Wait()
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"token expired"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":"ok"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := kvstore.NewMemoryStore()
	store.Set(KeyToken, "stale")
	store.Set(KeyRefreshToken, "refresh-1")
	c := newTestClient(t, srv.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out struct {
				Data string `json:"data"`
			}
			errs[i] = c.Get(context.Background(), "/protected", &out)
			if errs[i] == nil && out.Data != "ok" {
				errs[i] = errors.New("unexpected payload: " + out.Data)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", n)
	}
	if token, _ := store.Get(KeyToken); token != "fresh" {
		t.Errorf("expected refreshed token to be persisted, got %q", token)
	}
	if refresh, _ := store.Get(KeyRefreshToken); refresh != "refresh-2" {
		t.Errorf("expected rotated refresh token to be persisted, got %q", refresh)
	}
}

func TestRefreshFailureRejectsAllWithOriginalError(t *testing.T) {
	const workers = 3

	var refreshCalls int32
	var barrier sync.WaitGroup
	barrier.Add(workers)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"refresh token revoked"}`))
	})
	mux.HandleFunc("/api/protected", func(w http.ResponseWriter, r *http.Request) {
		barrier.Done()
		barrier.Wait()
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := kvstore.NewMemoryStore()
	store.Set(KeyToken, "stale")
	store.Set(KeyRefreshToken, "dead")
	c := newTestClient(t, srv.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), "/protected", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("request %d: expected APIError, got %v", i, err)
		}
		// Every caller observes the triggering request's original 401, not
		// a refresh-specific error.
		if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Path != "/protected" {
			t.Errorf("request %d: expected original /protected 401, got %+v", i, apiErr)
		}
	}
	if n := atomic.LoadInt32(&refreshCalls); n != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", n)
	}
}

func TestRefreshEndpoint401DoesNotRecurse(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer srv.Close()

	store := kvstore.NewMemoryStore()
	store.Set(KeyRefreshToken, "whatever")
	c := newTestClient(t, srv.URL, store)

	err := c.Post(context.Background(), "/auth/refresh", map[string]string{"refreshToken": "whatever"}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("a failing refresh call must not trigger another refresh, got %d calls", n)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := kvstore.NewMemoryStore()
	c := newTestClient(t, "http://unused", store)

	if err := c.SetSession("t1", "r1", `{"id":"u1"}`); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}
	if c.Token() != "t1" {
		t.Errorf("Token() = %q, want t1", c.Token())
	}

	c.ClearSession()
	if c.Token() != "" {
		t.Error("expected empty token after ClearSession")
	}
	if _, ok := store.Get(KeyUser); ok {
		t.Error("expected user record cleared")
	}
}
