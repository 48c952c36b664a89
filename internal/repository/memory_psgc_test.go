package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rbi-data/internal/domain"
)

func TestMemoryPSGC_SeededHierarchy(t *testing.T) {
	repo := NewMemoryPSGCRepository()
	ctx := context.Background()

	regions, err := repo.ListRegions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, regions)

	provinces, err := repo.ListProvinces(ctx, regions[0].Code)
	require.NoError(t, err)
	require.NotEmpty(t, provinces)

	cities, err := repo.ListCities(ctx, provinces[0].Code)
	require.NoError(t, err)
	require.NotEmpty(t, cities)

	barangays, err := repo.ListBarangays(ctx, cities[0].Code)
	require.NoError(t, err)
	assert.Len(t, barangays, 3)
}

func TestMemoryPSGC_SearchRanking(t *testing.T) {
	repo := NewMemoryPSGCRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpsertBarangays(ctx, []*domain.Barangay{
		{Code: "9999999991", CityCode: "1380600000", Name: "San Isidro"},
		{Code: "9999999992", CityCode: "1380600000", Name: "Bagong San Isidro"},
	}))

	matches, err := repo.Search(ctx, "san", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	// prefix match ranks above substring match
	assert.Equal(t, "San Isidro", matches[0].Name)

	matches, err = repo.Search(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, matches, "empty query returns nothing")
}

func TestMemoryPSGC_UpsertOverwrites(t *testing.T) {
	repo := NewMemoryPSGCRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpsertRegions(ctx, []*domain.Region{
		{Code: "0100000000", Name: "Region I (Ilocos Region)"},
	}))
	require.NoError(t, repo.UpsertRegions(ctx, []*domain.Region{
		{Code: "0100000000", Name: "Region I (Ilocos)"},
	}))

	r, err := repo.GetRegion(ctx, "0100000000")
	require.NoError(t, err)
	assert.Equal(t, "Region I (Ilocos)", r.Name)
}
