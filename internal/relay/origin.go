// Package relay normalizes and validates HTTP origins for WebSocket requests
// to enforce configured access control.
package relay

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// originChecker decides whether an upgrade request's Origin header is
// acceptable. A configured origin of "*" allows everything.
type originChecker struct {
	allowAll bool
	origins  map[string]struct{}
}

func newOriginChecker(configured []string) *originChecker {
	checker := &originChecker{origins: make(map[string]struct{}, len(configured))}

	for _, origin := range configured {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			checker.allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			log.Printf("Ignoring invalid origin in configuration: %q", origin)
			continue
		}
		checker.origins[normalized] = struct{}{}
	}
	return checker
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

func (oc *originChecker) check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	originHeader := r.Header.Get("Origin")
	if originHeader == "" {
		return false
	}
	normalized, ok := normalizeOrigin(originHeader)
	if !ok {
		return false
	}
	if _, exists := oc.origins[normalized]; exists {
		return true
	}

	log.Printf("Blocked WebSocket connection from disallowed origin: %q", originHeader)
	return false
}
