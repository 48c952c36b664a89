package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResidentsMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresResidentsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresResidentsRepository(db)
}

func residentRowColumns() []string {
	return []string{
		"resident_id", "tenant_id", "barangay_code", "household_id",
		"last_name", "first_name", "middle_name", "suffix", "sex", "birthdate", "birthplace",
		"marital_status", "employment_status", "occupation", "education_attainment", "enrolled",
		"ethnicity", "religion", "citizenship",
		"registered_voter", "residency_status", "years_of_stay",
		"phone_hash", "email_hash", "sectoral", "status", "metadata", "note",
		"created_at", "updated_at",
	}
}

func TestGetResident_Success(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	birth := time.Date(1950, time.January, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(residentRowColumns()).AddRow(
		"resident-1", "tenant-1", "1380100001", "household-1",
		"Dela Cruz", "Juan", "Santos", "", "male", birth, "Manila",
		"married", "retired", "", "college_graduate", nil,
		"", "Catholic", "Filipino",
		true, "permanent", 30,
		nil, nil, `{"is_senior_citizen": true}`, "active", "{}", "",
		time.Now(), time.Now(),
	)

	mock.ExpectQuery(`SELECT .+ FROM residents r WHERE r\.tenant_id = \$1 AND r\.resident_id = \$2`).
		WithArgs("tenant-1", "resident-1").
		WillReturnRows(rows)

	resident, err := repo.GetResident(context.Background(), "tenant-1", "resident-1")
	require.NoError(t, err)

	assert.Equal(t, "Dela Cruz", resident.LastName)
	assert.Equal(t, "Juan Santos Dela Cruz", resident.FullName())
	assert.Equal(t, "1380100001", resident.BarangayCode)
	require.NotNil(t, resident.HouseholdID)
	assert.Equal(t, "household-1", *resident.HouseholdID)
	require.NotNil(t, resident.Birthdate)
	assert.True(t, resident.Sectoral.IsSeniorCitizen)
	require.NotNil(t, resident.YearsOfStay)
	assert.Equal(t, 30, *resident.YearsOfStay)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResident_NotFound(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM residents r`).
		WithArgs("tenant-1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetResident(context.Background(), "tenant-1", "missing")
	assert.ErrorContains(t, err, "resident not found")
}

func TestListResidents_SectoralFlagFilter(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM residents r`).
		WithArgs("tenant-1", "is_senior_citizen").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(residentRowColumns()).AddRow(
		"resident-1", "tenant-1", "1380100001", nil,
		"Reyes", "Maria", "", "", "female", nil, "",
		"", "", "", "", nil,
		"", "", "Filipino",
		false, "", nil,
		nil, nil, `{"is_senior_citizen": true}`, "active", "{}", "",
		nil, nil,
	)
	mock.ExpectQuery(`SELECT .+ FROM residents r WHERE .+ ORDER BY r\.last_name`).
		WithArgs("tenant-1", "is_senior_citizen", 50, 0).
		WillReturnRows(rows)

	residents, total, err := repo.ListResidents(context.Background(), "tenant-1",
		ResidentFilters{SectoralFlag: "is_senior_citizen"}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, residents, 1)
	assert.Nil(t, residents[0].Birthdate, "unknown birthdate stays nil")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListResidents_SearchEscapesWildcards(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	// a wildcard search must reach the DB escaped, not match every name
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM residents r`).
		WithArgs("tenant-1", `%\%\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM residents r WHERE .+ ILIKE`).
		WithArgs("tenant-1", `%\%\_%`, 50, 0).
		WillReturnRows(sqlmock.NewRows(residentRowColumns()))

	residents, total, err := repo.ListResidents(context.Background(), "tenant-1",
		ResidentFilters{Search: "%_"}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, residents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `\%`, escapeLike(`%`))
	assert.Equal(t, `\_`, escapeLike(`_`))
	assert.Equal(t, `\\\%`, escapeLike(`\%`))
	assert.Equal(t, `Santa Cruz`, escapeLike(`Santa Cruz`))
}

func TestListResidents_UnknownSectoralFlagRejected(t *testing.T) {
	db, _, repo := setupResidentsMock(t)
	defer db.Close()

	_, _, err := repo.ListResidents(context.Background(), "tenant-1",
		ResidentFilters{SectoralFlag: "is_bogus"}, 1, 50)
	assert.ErrorContains(t, err, "unknown sectoral flag")
}

func TestDeleteResident_NotFound(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM residents`).
		WithArgs("tenant-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteResident(context.Background(), "tenant-1", "missing")
	assert.ErrorContains(t, err, "resident not found")
}

func TestCountBySectoralFlag(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM residents`).
		WithArgs("tenant-1", "is_senior_citizen").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM residents`).
		WithArgs("tenant-1", "is_solo_parent").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	counts, err := repo.CountBySectoralFlag(context.Background(), "tenant-1",
		[]string{"is_senior_citizen", "is_solo_parent"})
	require.NoError(t, err)
	assert.Equal(t, 12, counts["is_senior_citizen"])
	assert.Equal(t, 3, counts["is_solo_parent"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgeHistogram_Buckets(t *testing.T) {
	db, mock, repo := setupResidentsMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"bucket", "count"}).
		AddRow(0, 10).
		AddRow(10, 25).
		AddRow(60, 4)
	mock.ExpectQuery(`SELECT \(FLOOR`).
		WithArgs("tenant-1", 10).
		WillReturnRows(rows)

	buckets, err := repo.AgeHistogram(context.Background(), "tenant-1", 10)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 10, 10: 25, 60: 4}, buckets)
}
