package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rbi-data/internal/domain"
)

// PostgresHouseholdsRepository households data access over PostgreSQL.
type PostgresHouseholdsRepository struct {
	db *sql.DB
}

func NewPostgresHouseholdsRepository(db *sql.DB) *PostgresHouseholdsRepository {
	return &PostgresHouseholdsRepository{db: db}
}

var _ HouseholdsRepository = (*PostgresHouseholdsRepository)(nil)

const householdColumns = `
	h.household_id::text,
	h.tenant_id::text,
	h.barangay_code,
	h.household_number,
	COALESCE(h.purok, ''),
	COALESCE(h.street_address, ''),
	h.head_resident_id::text,
	COALESCE(h.income_bracket, ''),
	h.created_at,
	h.updated_at`

func scanHousehold(row rowScanner, memberCount *int) (*domain.Household, error) {
	var h domain.Household
	var headResidentID sql.NullString
	var createdAt, updatedAt sql.NullTime

	dest := []any{
		&h.HouseholdID,
		&h.TenantID,
		&h.BarangayCode,
		&h.HouseholdNumber,
		&h.Purok,
		&h.StreetAddress,
		&headResidentID,
		&h.IncomeBracket,
		&createdAt,
		&updatedAt,
	}
	if memberCount != nil {
		dest = append(dest, memberCount)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if headResidentID.Valid {
		h.HeadResidentID = &headResidentID.String
	}
	if createdAt.Valid {
		t := createdAt.Time
		h.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		h.UpdatedAt = &t
	}
	return &h, nil
}

func (p *PostgresHouseholdsRepository) GetHousehold(ctx context.Context, tenantID, householdID string) (*domain.Household, error) {
	if tenantID == "" || householdID == "" {
		return nil, fmt.Errorf("tenant_id and household_id are required")
	}

	query := fmt.Sprintf(`SELECT %s FROM households h WHERE h.tenant_id = $1 AND h.household_id = $2`, householdColumns)
	household, err := scanHousehold(p.db.QueryRowContext(ctx, query, tenantID, householdID), nil)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("household not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return household, nil
}

func (p *PostgresHouseholdsRepository) ListHouseholds(ctx context.Context, tenantID string, filters HouseholdFilters, page, size int) ([]*domain.HouseholdWithCount, int, error) {
	if tenantID == "" {
		return []*domain.HouseholdWithCount{}, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"h.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if filters.BarangayCode != "" {
		where = append(where, fmt.Sprintf("h.barangay_code = $%d", argIdx))
		args = append(args, filters.BarangayCode)
		argIdx++
	}
	if filters.Purok != "" {
		where = append(where, fmt.Sprintf("h.purok = $%d", argIdx))
		args = append(args, filters.Purok)
		argIdx++
	}
	if filters.Search != "" {
		pattern := "%" + escapeLike(filters.Search) + "%"
		where = append(where, fmt.Sprintf("(h.household_number ILIKE $%d OR h.street_address ILIKE $%d)", argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM households h WHERE %s`, whereClause)
	var total int
	if err := p.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count households: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM residents r WHERE r.household_id = h.household_id AND r.status = 'active') AS member_count
		FROM households h
		WHERE %s
		ORDER BY h.household_number
		LIMIT $%d OFFSET $%d`,
		householdColumns, whereClause, argIdx, argIdx+1)
	args = append(args, size, offset)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	households := []*domain.HouseholdWithCount{}
	for rows.Next() {
		var count int
		h, err := scanHousehold(rows, &count)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan household: %w", err)
		}
		households = append(households, &domain.HouseholdWithCount{Household: *h, MemberCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate households: %w", err)
	}

	return households, total, nil
}

func (p *PostgresHouseholdsRepository) CreateHousehold(ctx context.Context, tenantID string, household *domain.Household) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant_id is required")
	}
	if household == nil {
		return "", fmt.Errorf("household is required")
	}
	if household.BarangayCode == "" {
		return "", fmt.Errorf("barangay_code is required")
	}
	if household.HouseholdNumber == "" {
		return "", fmt.Errorf("household_number is required")
	}

	var headArg any
	if household.HeadResidentID != nil && *household.HeadResidentID != "" {
		headArg = *household.HeadResidentID
	}

	var householdID string
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO households (
			tenant_id, barangay_code, household_number, purok, street_address,
			head_resident_id, income_bracket
		) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''))
		RETURNING household_id::text`,
		tenantID, household.BarangayCode, household.HouseholdNumber,
		household.Purok, household.StreetAddress, headArg, household.IncomeBracket,
	).Scan(&householdID)
	if err != nil {
		return "", fmt.Errorf("failed to create household: %w", err)
	}
	return householdID, nil
}

func (p *PostgresHouseholdsRepository) UpdateHousehold(ctx context.Context, tenantID, householdID string, household *domain.Household) error {
	if tenantID == "" || householdID == "" {
		return fmt.Errorf("tenant_id and household_id are required")
	}
	if household == nil {
		return fmt.Errorf("household is required")
	}

	var headArg any
	if household.HeadResidentID != nil && *household.HeadResidentID != "" {
		headArg = *household.HeadResidentID
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE households SET
			barangay_code = $3,
			household_number = $4,
			purok = NULLIF($5, ''),
			street_address = NULLIF($6, ''),
			head_resident_id = $7,
			income_bracket = NULLIF($8, ''),
			updated_at = $9
		WHERE tenant_id = $1 AND household_id = $2`,
		tenantID, householdID,
		household.BarangayCode, household.HouseholdNumber,
		household.Purok, household.StreetAddress, headArg, household.IncomeBracket,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update household: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("household not found")
	}
	return nil
}

func (p *PostgresHouseholdsRepository) DeleteHousehold(ctx context.Context, tenantID, householdID string) error {
	if tenantID == "" || householdID == "" {
		return fmt.Errorf("tenant_id and household_id are required")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// detach members first; residents outlive their household
	if _, err := tx.ExecContext(ctx,
		`UPDATE residents SET household_id = NULL WHERE tenant_id = $1 AND household_id = $2`,
		tenantID, householdID,
	); err != nil {
		return fmt.Errorf("failed to detach household members: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM households WHERE tenant_id = $1 AND household_id = $2`,
		tenantID, householdID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete household: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("household not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresHouseholdsRepository) SetHead(ctx context.Context, tenantID, householdID, residentID string) error {
	if tenantID == "" || householdID == "" || residentID == "" {
		return fmt.Errorf("tenant_id, household_id and resident_id are required")
	}

	// the head must be an active member of this household
	result, err := p.db.ExecContext(ctx,
		`UPDATE households h SET head_resident_id = $3, updated_at = $4
		 WHERE h.tenant_id = $1 AND h.household_id = $2
		   AND EXISTS (
			SELECT 1 FROM residents r
			WHERE r.tenant_id = $1 AND r.resident_id = $3
			  AND r.household_id = $2 AND r.status = 'active'
		   )`,
		tenantID, householdID, residentID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set household head: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check head update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resident is not an active member of the household")
	}
	return nil
}
