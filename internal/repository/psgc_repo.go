package repository

import (
	"context"

	"rbi-data/internal/domain"
)

// PSGCRepository geographic reference data access. Global, not
// tenant-scoped; rows change only on PSA publication sync.
type PSGCRepository interface {
	GetRegion(ctx context.Context, code string) (*domain.Region, error)
	GetProvince(ctx context.Context, code string) (*domain.Province, error)
	GetCity(ctx context.Context, code string) (*domain.City, error)
	GetBarangay(ctx context.Context, code string) (*domain.Barangay, error)

	// hierarchy walks
	ListRegions(ctx context.Context) ([]*domain.Region, error)
	ListProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error)
	ListCities(ctx context.Context, provinceCode string) ([]*domain.City, error)
	ListBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error)

	// autocomplete over all four levels, prefix matches ranked first
	Search(ctx context.Context, query string, limit int) ([]*domain.PSGCMatch, error)

	// bulk upserts for sync and import
	UpsertRegions(ctx context.Context, regions []*domain.Region) error
	UpsertProvinces(ctx context.Context, provinces []*domain.Province) error
	UpsertCities(ctx context.Context, cities []*domain.City) error
	UpsertBarangays(ctx context.Context, barangays []*domain.Barangay) error
}
