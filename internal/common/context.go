package common

import (
	"context"

	"padoca/internal/models"
)

type contextKey string

const tenantContextKey contextKey = "tenant_context"

// TenantContext is the request-scoped authorization context derived from the
// authenticated principal. A nil ClientID means an internal staff caller with
// unrestricted cross-tenant visibility; a non-nil ClientID restricts every
// order operation to that client company.
type TenantContext struct {
	UserID   int64
	ClientID *int64
}

// Restricted reports whether the caller is scoped to a single client company.
func (tc TenantContext) Restricted() bool {
	return tc.ClientID != nil
}

// Role returns the role kind implied by the context scope.
func (tc TenantContext) Role() models.RoleType {
	if tc.Restricted() {
		return models.RoleClient
	}
	return models.RoleInternal
}

// ResolveTenantContext maps an authenticated principal onto a TenantContext.
// Internal staff get unrestricted visibility. Client-company users must carry
// a positive company link; a missing or zero link is an authorization error,
// never a fallback to unrestricted access.
func ResolveTenantContext(userID int64, role models.RoleType, clientID *int64) (TenantContext, error) {
	switch role {
	case models.RoleInternal:
		return TenantContext{UserID: userID}, nil
	case models.RoleClient:
		if clientID == nil || *clientID <= 0 {
			return TenantContext{}, NewForbidden("client user has no company link")
		}
		id := *clientID
		return TenantContext{UserID: userID, ClientID: &id}, nil
	default:
		return TenantContext{}, NewForbidden("unknown role type: %s", role)
	}
}

// WithTenantContext returns a context carrying tc.
func WithTenantContext(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// TenantFromContext extracts the TenantContext set by the auth middleware.
func TenantFromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(tenantContextKey).(TenantContext)
	return tc, ok
}
