package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"padoca/internal/models"
)

func TestResolveTenantContext_Internal(t *testing.T) {
	tc, err := ResolveTenantContext(1, models.RoleInternal, nil)
	assert.NoError(t, err)
	assert.False(t, tc.Restricted())
	assert.Equal(t, models.RoleInternal, tc.Role())
	assert.Nil(t, tc.ClientID)
}

func TestResolveTenantContext_InternalIgnoresCompanyLink(t *testing.T) {
	// An internal user keeps unrestricted visibility even with a stale link.
	five := int64(5)
	tc, err := ResolveTenantContext(1, models.RoleInternal, &five)
	assert.NoError(t, err)
	assert.False(t, tc.Restricted())
}

func TestResolveTenantContext_Client(t *testing.T) {
	five := int64(5)
	tc, err := ResolveTenantContext(2, models.RoleClient, &five)
	assert.NoError(t, err)
	assert.True(t, tc.Restricted())
	assert.Equal(t, models.RoleClient, tc.Role())
	assert.Equal(t, int64(5), *tc.ClientID)
}

func TestResolveTenantContext_ClientWithoutCompanyLink(t *testing.T) {
	_, err := ResolveTenantContext(2, models.RoleClient, nil)
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)
	assert.Contains(t, err.Error(), "no company link")
}

func TestResolveTenantContext_ClientWithZeroCompanyID(t *testing.T) {
	// A zero link is falsy data, never a fallback to unrestricted access.
	zero := int64(0)
	_, err := ResolveTenantContext(2, models.RoleClient, &zero)
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)
}

func TestResolveTenantContext_UnknownRole(t *testing.T) {
	_, err := ResolveTenantContext(2, models.RoleType("SUPERADMIN"), nil)
	var fb *ForbiddenError
	assert.ErrorAs(t, err, &fb)
}

func TestTenantContextRoundTrip(t *testing.T) {
	five := int64(5)
	tc := TenantContext{UserID: 2, ClientID: &five}
	ctx := WithTenantContext(context.Background(), tc)

	got, ok := TenantFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, tc, got)

	_, ok = TenantFromContext(context.Background())
	assert.False(t, ok)
}
