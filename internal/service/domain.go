package service

import (
	"context"
	"strings"
)

// DomainVerifier checks that a custom domain points at the storefront.
type DomainVerifier interface {
	Verify(ctx context.Context, domain string) (bool, error)
}

// PresenceVerifier accepts any non-empty domain. DNS ownership checks are
// handled outside this service.
type PresenceVerifier struct{}

// Verify reports whether domain is set.
func (PresenceVerifier) Verify(_ context.Context, domain string) (bool, error) {
	return strings.TrimSpace(domain) != "", nil
}
