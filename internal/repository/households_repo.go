package repository

import (
	"context"

	"rbi-data/internal/domain"
)

// HouseholdsRepository household data access. Tenant-scoped.
type HouseholdsRepository interface {
	GetHousehold(ctx context.Context, tenantID, householdID string) (*domain.Household, error)
	ListHouseholds(ctx context.Context, tenantID string, filters HouseholdFilters, page, size int) ([]*domain.HouseholdWithCount, int, error)
	CreateHousehold(ctx context.Context, tenantID string, household *domain.Household) (string, error)
	UpdateHousehold(ctx context.Context, tenantID, householdID string, household *domain.Household) error
	DeleteHousehold(ctx context.Context, tenantID, householdID string) error

	// head must reference a member of the household
	SetHead(ctx context.Context, tenantID, householdID, residentID string) error
}

// HouseholdFilters list query filters.
type HouseholdFilters struct {
	BarangayCode string
	Purok        string
	Search       string // household_number or street_address
}
