// Package apiurl normalizes API base URLs and endpoint paths so the two can
// be assembled independently (env var vs. hand-written call sites) without
// producing /api/api double prefixes.
package apiurl

import (
	"fmt"
	"strings"
)

// EnsureAPIBaseURL returns a canonical API base URL ending in /api with no
// trailing slash. An empty input yields the relative default "/api".
func EnsureAPIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "/api"
	}

	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/api"
	}

	if strings.HasSuffix(strings.ToLower(base), "/api") {
		return base
	}
	return base + "/api"
}

// NormalizeEndpointPath cleans an endpoint path before it is joined to the
// API base: leading slash enforced, duplicate slashes collapsed. Absolute
// http(s) URLs pass through untouched.
//
// A path that itself starts with /api indicates the caller already included
// the base's /api segment. In strict mode (development) that is reported as
// an error so the offending call site gets fixed; otherwise the redundant
// prefix is stripped silently.
func NormalizeEndpointPath(path string, strict bool) (string, error) {
	trimmed := strings.TrimSpace(path)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path, nil
	}

	normalized := "/" + strings.TrimLeft(trimmed, "/")
	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}

	if normalized == "/api" || strings.HasPrefix(normalized, "/api/") {
		if strict {
			return "", fmt.Errorf("endpoint path %q already contains the /api prefix; pass the path relative to the API base", path)
		}
		stripped := strings.TrimPrefix(normalized, "/api")
		if stripped == "" {
			stripped = "/"
		}
		return stripped, nil
	}

	return normalized, nil
}
