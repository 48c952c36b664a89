package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rbi-data/internal/domain"
)

// PostgresResidentsRepository residents data access over PostgreSQL.
type PostgresResidentsRepository struct {
	db *sql.DB
}

func NewPostgresResidentsRepository(db *sql.DB) *PostgresResidentsRepository {
	return &PostgresResidentsRepository{db: db}
}

var _ ResidentsRepository = (*PostgresResidentsRepository)(nil)

// residentColumns column list shared by Get/List; keep in sync with
// scanResident.
const residentColumns = `
	r.resident_id::text,
	r.tenant_id::text,
	r.barangay_code,
	r.household_id::text,
	r.last_name,
	r.first_name,
	COALESCE(r.middle_name, ''),
	COALESCE(r.suffix, ''),
	r.sex,
	r.birthdate,
	COALESCE(r.birthplace, ''),
	COALESCE(r.marital_status, ''),
	COALESCE(r.employment_status, ''),
	COALESCE(r.occupation, ''),
	COALESCE(r.education_attainment, ''),
	r.enrolled,
	COALESCE(r.ethnicity, ''),
	COALESCE(r.religion, ''),
	COALESCE(r.citizenship, 'Filipino'),
	r.registered_voter,
	COALESCE(r.residency_status, ''),
	r.years_of_stay,
	r.phone_hash,
	r.email_hash,
	COALESCE(r.sectoral, '{}'::jsonb)::text,
	r.status,
	COALESCE(r.metadata, '{}'::jsonb)::text,
	COALESCE(r.note, ''),
	r.created_at,
	r.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// escapeLike neutralizes LIKE/ILIKE metacharacters in user search text so a
// query of "%" cannot match every row.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanResident(row rowScanner) (*domain.Resident, error) {
	var r domain.Resident
	var householdID sql.NullString
	var birthdate, createdAt, updatedAt sql.NullTime
	var enrolled sql.NullBool
	var yearsOfStay sql.NullInt64
	var phoneHash, emailHash []byte
	var sectoralRaw, metadataRaw string

	err := row.Scan(
		&r.ResidentID,
		&r.TenantID,
		&r.BarangayCode,
		&householdID,
		&r.LastName,
		&r.FirstName,
		&r.MiddleName,
		&r.Suffix,
		&r.Sex,
		&birthdate,
		&r.Birthplace,
		&r.MaritalStatus,
		&r.EmploymentStatus,
		&r.Occupation,
		&r.EducationAttainment,
		&enrolled,
		&r.Ethnicity,
		&r.Religion,
		&r.Citizenship,
		&r.RegisteredVoter,
		&r.ResidencyStatus,
		&yearsOfStay,
		&phoneHash,
		&emailHash,
		&sectoralRaw,
		&r.Status,
		&metadataRaw,
		&r.Note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if householdID.Valid {
		r.HouseholdID = &householdID.String
	}
	if birthdate.Valid {
		t := birthdate.Time
		r.Birthdate = &t
	}
	if enrolled.Valid {
		b := enrolled.Bool
		r.Enrolled = &b
	}
	if yearsOfStay.Valid {
		n := int(yearsOfStay.Int64)
		r.YearsOfStay = &n
	}
	if createdAt.Valid {
		t := createdAt.Time
		r.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		r.UpdatedAt = &t
	}
	r.PhoneHash = phoneHash
	r.EmailHash = emailHash
	if sectoralRaw != "" {
		// malformed rows fall back to the zero record rather than failing the read
		_ = json.Unmarshal([]byte(sectoralRaw), &r.Sectoral)
	}
	if metadataRaw != "" {
		r.Metadata = json.RawMessage(metadataRaw)
	}

	return &r, nil
}

func (p *PostgresResidentsRepository) GetResident(ctx context.Context, tenantID, residentID string) (*domain.Resident, error) {
	if tenantID == "" || residentID == "" {
		return nil, fmt.Errorf("tenant_id and resident_id are required")
	}

	query := fmt.Sprintf(`SELECT %s FROM residents r WHERE r.tenant_id = $1 AND r.resident_id = $2`, residentColumns)
	resident, err := scanResident(p.db.QueryRowContext(ctx, query, tenantID, residentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("resident not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return resident, nil
}

// validSectoralFlags whitelist for the JSONB flag filter.
var validSectoralFlags = map[string]bool{
	"is_labor_force_employed":      true,
	"is_unemployed":                true,
	"is_overseas_filipino_worker":  true,
	"is_person_with_disability":    true,
	"is_out_of_school_children":    true,
	"is_out_of_school_youth":       true,
	"is_senior_citizen":            true,
	"is_registered_senior_citizen": true,
	"is_solo_parent":               true,
	"is_indigenous_people":         true,
	"is_migrant":                   true,
}

func (p *PostgresResidentsRepository) ListResidents(ctx context.Context, tenantID string, filters ResidentFilters, page, size int) ([]*domain.Resident, int, error) {
	if tenantID == "" {
		return []*domain.Resident{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"r.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if filters.BarangayCode != "" {
		where = append(where, fmt.Sprintf("r.barangay_code = $%d", argIdx))
		args = append(args, filters.BarangayCode)
		argIdx++
	}
	if filters.HouseholdID != "" {
		where = append(where, fmt.Sprintf("r.household_id = $%d", argIdx))
		args = append(args, filters.HouseholdID)
		argIdx++
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Sex != "" {
		where = append(where, fmt.Sprintf("r.sex = $%d", argIdx))
		args = append(args, filters.Sex)
		argIdx++
	}
	if filters.Purok != "" {
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM households h WHERE h.household_id = r.household_id AND h.purok = $%d)", argIdx))
		args = append(args, filters.Purok)
		argIdx++
	}
	if filters.SectoralFlag != "" {
		if !validSectoralFlags[filters.SectoralFlag] {
			return nil, 0, fmt.Errorf("unknown sectoral flag: %s", filters.SectoralFlag)
		}
		where = append(where, fmt.Sprintf("(r.sectoral ->> $%d)::boolean IS TRUE", argIdx))
		args = append(args, filters.SectoralFlag)
		argIdx++
	}
	if filters.RegisteredVoter != nil {
		where = append(where, fmt.Sprintf("r.registered_voter = $%d", argIdx))
		args = append(args, *filters.RegisteredVoter)
		argIdx++
	}
	if filters.Search != "" {
		pattern := "%" + escapeLike(filters.Search) + "%"
		where = append(where, fmt.Sprintf("(r.last_name ILIKE $%d OR r.first_name ILIKE $%d OR r.middle_name ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM residents r WHERE %s`, whereClause)
	var total int
	if err := p.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count residents: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM residents r WHERE %s ORDER BY r.last_name, r.first_name LIMIT $%d OFFSET $%d`,
		residentColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list residents: %w", err)
	}
	defer rows.Close()

	residents := []*domain.Resident{}
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan resident: %w", err)
		}
		residents = append(residents, resident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate residents: %w", err)
	}

	return residents, total, nil
}

func (p *PostgresResidentsRepository) CreateResident(ctx context.Context, tenantID string, resident *domain.Resident) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant_id is required")
	}
	if resident == nil {
		return "", fmt.Errorf("resident is required")
	}
	if resident.LastName == "" || resident.FirstName == "" {
		return "", fmt.Errorf("last_name and first_name are required")
	}
	if resident.BarangayCode == "" {
		return "", fmt.Errorf("barangay_code is required")
	}
	if resident.Sex == "" {
		return "", fmt.Errorf("sex is required")
	}

	status := resident.Status
	if status == "" {
		status = "active"
	}
	citizenship := resident.Citizenship
	if citizenship == "" {
		citizenship = "Filipino"
	}

	sectoralJSON, err := json.Marshal(resident.Sectoral)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sectoral: %w", err)
	}

	var householdIDArg any
	if resident.HouseholdID != nil && *resident.HouseholdID != "" {
		householdIDArg = *resident.HouseholdID
	}
	var birthdateArg any
	if resident.Birthdate != nil {
		birthdateArg = *resident.Birthdate
	}
	var enrolledArg any
	if resident.Enrolled != nil {
		enrolledArg = *resident.Enrolled
	}
	var yearsOfStayArg any
	if resident.YearsOfStay != nil {
		yearsOfStayArg = *resident.YearsOfStay
	}
	var phoneHashArg any
	if len(resident.PhoneHash) > 0 {
		phoneHashArg = resident.PhoneHash
	}
	var emailHashArg any
	if len(resident.EmailHash) > 0 {
		emailHashArg = resident.EmailHash
	}
	var metadataArg any
	if len(resident.Metadata) > 0 {
		metadataArg = string(resident.Metadata)
	}

	var residentID string
	err = p.db.QueryRowContext(ctx,
		`INSERT INTO residents (
			tenant_id, barangay_code, household_id,
			last_name, first_name, middle_name, suffix, sex, birthdate, birthplace,
			marital_status, employment_status, occupation, education_attainment, enrolled,
			ethnicity, religion, citizenship,
			registered_voter, residency_status, years_of_stay,
			phone_hash, email_hash, sectoral, status, metadata, note
		) VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, NULLIF($10, ''),
			NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''), $15,
			NULLIF($16, ''), NULLIF($17, ''), $18,
			$19, NULLIF($20, ''), $21,
			$22, $23, $24::jsonb, $25, $26::jsonb, NULLIF($27, '')
		)
		RETURNING resident_id::text`,
		tenantID, resident.BarangayCode, householdIDArg,
		resident.LastName, resident.FirstName, resident.MiddleName, resident.Suffix, resident.Sex, birthdateArg, resident.Birthplace,
		resident.MaritalStatus, resident.EmploymentStatus, resident.Occupation, resident.EducationAttainment, enrolledArg,
		resident.Ethnicity, resident.Religion, citizenship,
		resident.RegisteredVoter, resident.ResidencyStatus, yearsOfStayArg,
		phoneHashArg, emailHashArg, string(sectoralJSON), status, metadataArg, resident.Note,
	).Scan(&residentID)
	if err != nil {
		return "", fmt.Errorf("failed to create resident: %w", err)
	}

	return residentID, nil
}

func (p *PostgresResidentsRepository) UpdateResident(ctx context.Context, tenantID, residentID string, resident *domain.Resident) error {
	if tenantID == "" || residentID == "" {
		return fmt.Errorf("tenant_id and resident_id are required")
	}
	if resident == nil {
		return fmt.Errorf("resident is required")
	}

	sectoralJSON, err := json.Marshal(resident.Sectoral)
	if err != nil {
		return fmt.Errorf("failed to marshal sectoral: %w", err)
	}

	var householdIDArg any
	if resident.HouseholdID != nil && *resident.HouseholdID != "" {
		householdIDArg = *resident.HouseholdID
	}
	var birthdateArg any
	if resident.Birthdate != nil {
		birthdateArg = *resident.Birthdate
	}
	var enrolledArg any
	if resident.Enrolled != nil {
		enrolledArg = *resident.Enrolled
	}
	var yearsOfStayArg any
	if resident.YearsOfStay != nil {
		yearsOfStayArg = *resident.YearsOfStay
	}
	var phoneHashArg any
	if len(resident.PhoneHash) > 0 {
		phoneHashArg = resident.PhoneHash
	}
	var emailHashArg any
	if len(resident.EmailHash) > 0 {
		emailHashArg = resident.EmailHash
	}
	var metadataArg any
	if len(resident.Metadata) > 0 {
		metadataArg = string(resident.Metadata)
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE residents SET
			barangay_code = $3,
			household_id = $4,
			last_name = $5,
			first_name = $6,
			middle_name = NULLIF($7, ''),
			suffix = NULLIF($8, ''),
			sex = $9,
			birthdate = $10,
			birthplace = NULLIF($11, ''),
			marital_status = NULLIF($12, ''),
			employment_status = NULLIF($13, ''),
			occupation = NULLIF($14, ''),
			education_attainment = NULLIF($15, ''),
			enrolled = $16,
			ethnicity = NULLIF($17, ''),
			religion = NULLIF($18, ''),
			citizenship = $19,
			registered_voter = $20,
			residency_status = NULLIF($21, ''),
			years_of_stay = $22,
			phone_hash = $23,
			email_hash = $24,
			sectoral = $25::jsonb,
			status = $26,
			metadata = $27::jsonb,
			note = NULLIF($28, ''),
			updated_at = $29
		WHERE tenant_id = $1 AND resident_id = $2`,
		tenantID, residentID,
		resident.BarangayCode, householdIDArg,
		resident.LastName, resident.FirstName, resident.MiddleName, resident.Suffix,
		resident.Sex, birthdateArg, resident.Birthplace,
		resident.MaritalStatus, resident.EmploymentStatus, resident.Occupation,
		resident.EducationAttainment, enrolledArg,
		resident.Ethnicity, resident.Religion, resident.Citizenship,
		resident.RegisteredVoter, resident.ResidencyStatus, yearsOfStayArg,
		phoneHashArg, emailHashArg, string(sectoralJSON), resident.Status,
		metadataArg, resident.Note, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resident not found")
	}
	return nil
}

func (p *PostgresResidentsRepository) DeleteResident(ctx context.Context, tenantID, residentID string) error {
	if tenantID == "" || residentID == "" {
		return fmt.Errorf("tenant_id and resident_id are required")
	}

	result, err := p.db.ExecContext(ctx,
		`DELETE FROM residents WHERE tenant_id = $1 AND resident_id = $2`,
		tenantID, residentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resident not found")
	}
	return nil
}

func (p *PostgresResidentsRepository) TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error {
	if tenantID == "" || residentID == "" {
		return fmt.Errorf("tenant_id and resident_id are required")
	}

	var householdIDArg any
	if householdID != nil && *householdID != "" {
		householdIDArg = *householdID
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE residents SET household_id = $3, updated_at = $4 WHERE tenant_id = $1 AND resident_id = $2`,
		tenantID, residentID, householdIDArg, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to transfer resident: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transfer result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resident not found")
	}
	return nil
}

func (p *PostgresResidentsRepository) ListHouseholdMembers(ctx context.Context, tenantID, householdID string) ([]*domain.Resident, error) {
	if tenantID == "" || householdID == "" {
		return nil, fmt.Errorf("tenant_id and household_id are required")
	}

	query := fmt.Sprintf(`SELECT %s FROM residents r WHERE r.tenant_id = $1 AND r.household_id = $2 ORDER BY r.birthdate NULLS LAST`, residentColumns)
	rows, err := p.db.QueryContext(ctx, query, tenantID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}
	defer rows.Close()

	members := []*domain.Resident{}
	for rows.Next() {
		m, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate household members: %w", err)
	}
	return members, nil
}

// ============================================
// Dashboard aggregates
// ============================================

func (p *PostgresResidentsRepository) CountByStatus(ctx context.Context, tenantID, status string) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM residents WHERE tenant_id = $1 AND status = $2`,
		tenantID, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count residents: %w", err)
	}
	return n, nil
}

func (p *PostgresResidentsRepository) CountBySex(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT sex, COUNT(*) FROM residents WHERE tenant_id = $1 AND status = 'active' GROUP BY sex`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by sex: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var sex string
		var n int
		if err := rows.Scan(&sex, &n); err != nil {
			return nil, fmt.Errorf("failed to scan sex count: %w", err)
		}
		counts[sex] = n
	}
	return counts, rows.Err()
}

func (p *PostgresResidentsRepository) CountBySectoralFlag(ctx context.Context, tenantID string, flags []string) (map[string]int, error) {
	counts := map[string]int{}
	for _, flag := range flags {
		if !validSectoralFlags[flag] {
			return nil, fmt.Errorf("unknown sectoral flag: %s", flag)
		}
		var n int
		err := p.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM residents
			 WHERE tenant_id = $1 AND status = 'active' AND (sectoral ->> $2)::boolean IS TRUE`,
			tenantID, flag,
		).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to count flag %s: %w", flag, err)
		}
		counts[flag] = n
	}
	return counts, nil
}

func (p *PostgresResidentsRepository) AgeHistogram(ctx context.Context, tenantID string, bucketSize int) (map[int]int, error) {
	if bucketSize <= 0 {
		bucketSize = 10
	}

	// residents without a birthdate have an unknown age and are excluded
	rows, err := p.db.QueryContext(ctx,
		`SELECT (FLOOR(EXTRACT(YEAR FROM AGE(birthdate)) / $2) * $2)::int AS bucket, COUNT(*)
		 FROM residents
		 WHERE tenant_id = $1 AND status = 'active' AND birthdate IS NOT NULL
		 GROUP BY bucket
		 ORDER BY bucket`,
		tenantID, bucketSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build age histogram: %w", err)
	}
	defer rows.Close()

	buckets := map[int]int{}
	for rows.Next() {
		var bucket, n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("failed to scan age bucket: %w", err)
		}
		buckets[bucket] = n
	}
	return buckets, rows.Err()
}

func (p *PostgresResidentsRepository) CountByBarangay(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT barangay_code, COUNT(*) FROM residents
		 WHERE tenant_id = $1 AND status = 'active'
		 GROUP BY barangay_code`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by barangay: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("failed to scan barangay count: %w", err)
		}
		counts[code] = n
	}
	return counts, rows.Err()
}

// SectoralFlagNames the canonical flag order used by stats and reports.
var SectoralFlagNames = []string{
	"is_labor_force_employed",
	"is_unemployed",
	"is_overseas_filipino_worker",
	"is_person_with_disability",
	"is_out_of_school_children",
	"is_out_of_school_youth",
	"is_senior_citizen",
	"is_registered_senior_citizen",
	"is_solo_parent",
	"is_indigenous_people",
	"is_migrant",
}

