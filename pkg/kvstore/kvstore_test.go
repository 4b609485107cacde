package kvstore

import (
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("token"); ok {
		t.Fatal("empty store should not contain token")
	}

	if err := s.Set("token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := s.Get("token")
	if !ok || v != "abc" {
		t.Errorf("Get = (%q, %v), want (abc, true)", v, ok)
	}

	if err := s.Delete("token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("token"); ok {
		t.Error("token should be gone after Delete")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "client.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := s.Set("mock_listings", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("token", "t-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh store over the same file must see persisted values.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	v, ok := reopened.Get("mock_listings")
	if !ok || v != `[{"id":"1"}]` {
		t.Errorf("reopened Get = (%q, %v)", v, ok)
	}

	if err := reopened.Delete("token"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	again, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, ok := again.Get("token"); ok {
		t.Error("deleted key should not survive reload")
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore("   "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
