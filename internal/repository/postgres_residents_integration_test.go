//go:build integration
// +build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/database"
	"rbi-data/internal/domain"
	"rbi-data/internal/sectoral"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *sql.DB {
	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: database not available: %v", err)
	}
	return db
}

func createTestTenantForResidents(t *testing.T, db *sql.DB) string {
	tenantID := "00000000-0000-0000-0000-000000000998"
	_, err := db.Exec(
		`INSERT INTO tenants (tenant_id, tenant_name, status)
		 VALUES ($1, $2, 'active')
		 ON CONFLICT (tenant_id) DO UPDATE SET tenant_name = EXCLUDED.tenant_name`,
		tenantID, "Test LGU Residents",
	)
	require.NoError(t, err)

	// barangay hierarchy rows for the FK-free PSGC reference
	_, err = db.Exec(
		`INSERT INTO psgc_regions (code, name) VALUES ('1300000000', 'Test Region')
		 ON CONFLICT (code) DO NOTHING`)
	require.NoError(t, err)
	_, err = db.Exec(
		`INSERT INTO psgc_barangays (code, city_code, name)
		 VALUES ('1380600001', '1380600000', 'Test Barangay')
		 ON CONFLICT (code) DO NOTHING`)
	require.NoError(t, err)

	return tenantID
}

func cleanupTestResidents(t *testing.T, db *sql.DB, tenantID string) {
	_, _ = db.Exec(`DELETE FROM residents WHERE tenant_id = $1`, tenantID)
	_, _ = db.Exec(`DELETE FROM households WHERE tenant_id = $1`, tenantID)
	_, _ = db.Exec(`DELETE FROM tenants WHERE tenant_id = $1`, tenantID)
}

func TestResidentCRUD_Roundtrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	tenantID := createTestTenantForResidents(t, db)
	defer cleanupTestResidents(t, db, tenantID)

	repo := NewPostgresResidentsRepository(db)
	ctx := context.Background()

	birth := time.Date(1950, time.March, 10, 0, 0, 0, 0, time.UTC)
	resident := &domain.Resident{
		BarangayCode:     "1380600001",
		LastName:         "Dela Cruz",
		FirstName:        "Juan",
		Sex:              "male",
		Birthdate:        &birth,
		EmploymentStatus: "retired",
		RegisteredVoter:  true,
		ResidencyStatus:  "permanent",
		Sectoral:         sectoral.SectoralInformation{IsSeniorCitizen: true},
	}

	residentID, err := repo.CreateResident(ctx, tenantID, resident)
	require.NoError(t, err)
	require.NotEmpty(t, residentID)

	got, err := repo.GetResident(ctx, tenantID, residentID)
	require.NoError(t, err)
	assert.Equal(t, "Dela Cruz", got.LastName)
	assert.True(t, got.Sectoral.IsSeniorCitizen)
	assert.Equal(t, "Filipino", got.Citizenship, "citizenship defaults")

	got.Note = "transferred from Barangay 2"
	got.Sectoral.IsRegisteredSeniorCitizen = true
	require.NoError(t, repo.UpdateResident(ctx, tenantID, residentID, got))

	got, err = repo.GetResident(ctx, tenantID, residentID)
	require.NoError(t, err)
	assert.Equal(t, "transferred from Barangay 2", got.Note)
	assert.True(t, got.Sectoral.IsRegisteredSeniorCitizen)

	residents, total, err := repo.ListResidents(ctx, tenantID, ResidentFilters{SectoralFlag: "is_senior_citizen"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, residents, 1)

	require.NoError(t, repo.DeleteResident(ctx, tenantID, residentID))
	_, err = repo.GetResident(ctx, tenantID, residentID)
	assert.Error(t, err)
}

func TestResidentHouseholdMembership(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	tenantID := createTestTenantForResidents(t, db)
	defer cleanupTestResidents(t, db, tenantID)

	residentsRepo := NewPostgresResidentsRepository(db)
	householdsRepo := NewPostgresHouseholdsRepository(db)
	ctx := context.Background()

	householdID, err := householdsRepo.CreateHousehold(ctx, tenantID, &domain.Household{
		BarangayCode:    "1380600001",
		HouseholdNumber: "HH-0001",
		Purok:           "Purok 3",
	})
	require.NoError(t, err)

	residentID, err := residentsRepo.CreateResident(ctx, tenantID, &domain.Resident{
		BarangayCode: "1380600001",
		LastName:     "Reyes",
		FirstName:    "Maria",
		Sex:          "female",
	})
	require.NoError(t, err)

	require.NoError(t, residentsRepo.TransferHousehold(ctx, tenantID, residentID, &householdID))

	members, err := residentsRepo.ListHouseholdMembers(ctx, tenantID, householdID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Reyes", members[0].LastName)

	require.NoError(t, householdsRepo.SetHead(ctx, tenantID, householdID, residentID))

	household, err := householdsRepo.GetHousehold(ctx, tenantID, householdID)
	require.NoError(t, err)
	require.NotNil(t, household.HeadResidentID)
	assert.Equal(t, residentID, *household.HeadResidentID)

	// deleting the household detaches the member instead of failing
	require.NoError(t, householdsRepo.DeleteHousehold(ctx, tenantID, householdID))
	got, err := residentsRepo.GetResident(ctx, tenantID, residentID)
	require.NoError(t, err)
	assert.Nil(t, got.HouseholdID)
}
