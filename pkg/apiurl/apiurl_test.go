package apiurl

import (
	"strings"
	"testing"
)

func TestEnsureAPIBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/api"},
		{"   ", "/api"},
		{"/", "/api"},
		{"http://localhost:8080", "http://localhost:8080/api"},
		{"http://localhost:8080/", "http://localhost:8080/api"},
		{"http://localhost:8080/api", "http://localhost:8080/api"},
		{"http://localhost:8080/api/", "http://localhost:8080/api"},
		{"http://localhost:8080/API//", "http://localhost:8080/API"},
		{"https://souk.example.com/v1", "https://souk.example.com/v1/api"},
	}

	for _, c := range cases {
		if got := EnsureAPIBaseURL(c.in); got != c.want {
			t.Errorf("EnsureAPIBaseURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEnsureAPIBaseURLIdempotent(t *testing.T) {
	inputs := []string{"", "http://x/api", "http://x/API/", "http://x", "/api"}
	for _, in := range inputs {
		once := EnsureAPIBaseURL(in)
		twice := EnsureAPIBaseURL(once)
		if once != twice {
			t.Errorf("EnsureAPIBaseURL not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeEndpointPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"listings", "/listings"},
		{"/listings", "/listings"},
		{"//listings///search", "/listings/search"},
		{"/auth/refresh", "/auth/refresh"},
	}

	for _, c := range cases {
		got, err := NormalizeEndpointPath(c.in, true)
		if err != nil {
			t.Fatalf("NormalizeEndpointPath(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("NormalizeEndpointPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeEndpointPathDoublePrefixStrict(t *testing.T) {
	_, err := NormalizeEndpointPath("/api/listings", true)
	if err == nil {
		t.Fatal("expected error for /api-prefixed path in strict mode")
	}
	if !strings.Contains(err.Error(), "/api/listings") {
		t.Errorf("error should name the offending path, got: %v", err)
	}
}

func TestNormalizeEndpointPathDoublePrefixLenient(t *testing.T) {
	got, err := NormalizeEndpointPath("/api/listings", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/listings" {
		t.Errorf("expected /listings, got %q", got)
	}

	got, err = NormalizeEndpointPath("/api", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/" {
		t.Errorf("bare /api should fall back to /, got %q", got)
	}
}

func TestNormalizeEndpointPathAbsolutePassthrough(t *testing.T) {
	for _, strict := range []bool{true, false} {
		got, err := NormalizeEndpointPath("https://x.com/y", strict)
		if err != nil {
			t.Fatalf("unexpected error (strict=%v): %v", strict, err)
		}
		if got != "https://x.com/y" {
			t.Errorf("absolute URL should pass through unchanged, got %q", got)
		}
	}
}
