//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"

	"rbi-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantLifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := NewPostgresTenantsRepository(db)
	ctx := context.Background()

	tenantID, err := repo.CreateTenant(ctx, &domain.Tenant{
		TenantName: "Municipality of Test Integration",
		CityCode:   "1380600000",
		Email:      "lgu@example.gov.ph",
		Status:     "active",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tenantID)
	defer db.Exec(`DELETE FROM tenants WHERE tenant_id = $1`, tenantID)

	got, err := repo.GetTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "Municipality of Test Integration", got.TenantName)
	assert.Equal(t, "1380600000", got.CityCode)

	matches, err := repo.SearchTenants(ctx, "test integration", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	found := false
	for _, m := range matches {
		if m.TenantID == tenantID {
			found = true
		}
	}
	assert.True(t, found, "new tenant should match search")

	require.NoError(t, repo.UpdateTenantStatus(ctx, tenantID, "suspended"))
	got, err = repo.GetTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", got.Status)

	// suspended tenants drop out of search
	matches, err = repo.SearchTenants(ctx, "test integration", 10)
	require.NoError(t, err)
	for _, m := range matches {
		assert.NotEqual(t, tenantID, m.TenantID)
	}
}
