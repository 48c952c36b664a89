package repository

import (
	"context"

	"rbi-data/internal/domain"
)

// ResidentsRepository resident data access. Strongly typed domain models,
// no map[string]any. All queries are tenant-scoped.
type ResidentsRepository interface {
	GetResident(ctx context.Context, tenantID, residentID string) (*domain.Resident, error)
	ListResidents(ctx context.Context, tenantID string, filters ResidentFilters, page, size int) ([]*domain.Resident, int, error)
	CreateResident(ctx context.Context, tenantID string, resident *domain.Resident) (string, error)
	UpdateResident(ctx context.Context, tenantID, residentID string, resident *domain.Resident) error
	DeleteResident(ctx context.Context, tenantID, residentID string) error

	// household membership
	TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error
	ListHouseholdMembers(ctx context.Context, tenantID, householdID string) ([]*domain.Resident, error)

	// dashboard aggregates
	CountByStatus(ctx context.Context, tenantID, status string) (int, error)
	CountBySex(ctx context.Context, tenantID string) (map[string]int, error)
	CountBySectoralFlag(ctx context.Context, tenantID string, flags []string) (map[string]int, error)
	AgeHistogram(ctx context.Context, tenantID string, bucketSize int) (map[int]int, error)
	CountByBarangay(ctx context.Context, tenantID string) (map[string]int, error)
}

// ResidentFilters list query filters.
type ResidentFilters struct {
	BarangayCode    string // exact PSGC code
	HouseholdID     string
	Status          string // active/deceased/moved_out
	Sex             string
	Purok           string // via household join
	SectoralFlag    string // JSONB flag name, e.g. is_senior_citizen
	RegisteredVoter *bool

	// fuzzy search over last_name, first_name, middle_name
	Search string
}
