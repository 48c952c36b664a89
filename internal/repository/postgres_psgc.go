package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rbi-data/internal/domain"
)

// PostgresPSGCRepository PSGC reference data over PostgreSQL.
type PostgresPSGCRepository struct {
	db *sql.DB
}

func NewPostgresPSGCRepository(db *sql.DB) *PostgresPSGCRepository {
	return &PostgresPSGCRepository{db: db}
}

var _ PSGCRepository = (*PostgresPSGCRepository)(nil)

func (p *PostgresPSGCRepository) GetRegion(ctx context.Context, code string) (*domain.Region, error) {
	var r domain.Region
	err := p.db.QueryRowContext(ctx,
		`SELECT code, name FROM psgc_regions WHERE code = $1`, code,
	).Scan(&r.Code, &r.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("region not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return &r, nil
}

func (p *PostgresPSGCRepository) GetProvince(ctx context.Context, code string) (*domain.Province, error) {
	var pr domain.Province
	err := p.db.QueryRowContext(ctx,
		`SELECT code, region_code, name FROM psgc_provinces WHERE code = $1`, code,
	).Scan(&pr.Code, &pr.RegionCode, &pr.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("province not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get province: %w", err)
	}
	return &pr, nil
}

func (p *PostgresPSGCRepository) GetCity(ctx context.Context, code string) (*domain.City, error) {
	var c domain.City
	err := p.db.QueryRowContext(ctx,
		`SELECT code, province_code, name, COALESCE(city_class, ''), COALESCE(income_class, '')
		 FROM psgc_cities WHERE code = $1`, code,
	).Scan(&c.Code, &c.ProvinceCode, &c.Name, &c.CityClass, &c.IncomeClass)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("city not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	return &c, nil
}

func (p *PostgresPSGCRepository) GetBarangay(ctx context.Context, code string) (*domain.Barangay, error) {
	var b domain.Barangay
	var urban sql.NullBool
	err := p.db.QueryRowContext(ctx,
		`SELECT code, city_code, name, urban FROM psgc_barangays WHERE code = $1`, code,
	).Scan(&b.Code, &b.CityCode, &b.Name, &urban)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("barangay not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get barangay: %w", err)
	}
	if urban.Valid {
		u := urban.Bool
		b.Urban = &u
	}
	return &b, nil
}

func (p *PostgresPSGCRepository) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT code, name FROM psgc_regions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	regions := []*domain.Region{}
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.Code, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, &r)
	}
	return regions, rows.Err()
}

func (p *PostgresPSGCRepository) ListProvinces(ctx context.Context, regionCode string) ([]*domain.Province, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT code, region_code, name FROM psgc_provinces WHERE region_code = $1 ORDER BY name`,
		regionCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list provinces: %w", err)
	}
	defer rows.Close()

	provinces := []*domain.Province{}
	for rows.Next() {
		var pr domain.Province
		if err := rows.Scan(&pr.Code, &pr.RegionCode, &pr.Name); err != nil {
			return nil, fmt.Errorf("failed to scan province: %w", err)
		}
		provinces = append(provinces, &pr)
	}
	return provinces, rows.Err()
}

func (p *PostgresPSGCRepository) ListCities(ctx context.Context, provinceCode string) ([]*domain.City, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT code, province_code, name, COALESCE(city_class, ''), COALESCE(income_class, '')
		 FROM psgc_cities WHERE province_code = $1 ORDER BY name`,
		provinceCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := []*domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.Code, &c.ProvinceCode, &c.Name, &c.CityClass, &c.IncomeClass); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, &c)
	}
	return cities, rows.Err()
}

func (p *PostgresPSGCRepository) ListBarangays(ctx context.Context, cityCode string) ([]*domain.Barangay, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT code, city_code, name, urban FROM psgc_barangays WHERE city_code = $1 ORDER BY name`,
		cityCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list barangays: %w", err)
	}
	defer rows.Close()

	barangays := []*domain.Barangay{}
	for rows.Next() {
		var b domain.Barangay
		var urban sql.NullBool
		if err := rows.Scan(&b.Code, &b.CityCode, &b.Name, &urban); err != nil {
			return nil, fmt.Errorf("failed to scan barangay: %w", err)
		}
		if urban.Valid {
			u := urban.Bool
			b.Urban = &u
		}
		barangays = append(barangays, &b)
	}
	return barangays, rows.Err()
}

// Search unified autocomplete across the four levels. Prefix matches rank
// above substring matches, shorter names first within a rank.
func (p *PostgresPSGCRepository) Search(ctx context.Context, query string, limit int) ([]*domain.PSGCMatch, error) {
	if query == "" {
		return []*domain.PSGCMatch{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	escaped := escapeLike(query)
	prefix := escaped + "%"
	substring := "%" + escaped + "%"

	rows, err := p.db.QueryContext(ctx, `
		SELECT code, name, level, city_name, province_name, region_name FROM (
			SELECT r.code, r.name, 'region' AS level,
				'' AS city_name, '' AS province_name, r.name AS region_name
			FROM psgc_regions r WHERE r.name ILIKE $2
			UNION ALL
			SELECT p.code, p.name, 'province',
				'', p.name, COALESCE(r.name, '')
			FROM psgc_provinces p
			LEFT JOIN psgc_regions r ON r.code = p.region_code
			WHERE p.name ILIKE $2
			UNION ALL
			SELECT c.code, c.name, 'city',
				c.name, COALESCE(p.name, ''), COALESCE(r.name, '')
			FROM psgc_cities c
			LEFT JOIN psgc_provinces p ON p.code = c.province_code
			LEFT JOIN psgc_regions r ON r.code = p.region_code
			WHERE c.name ILIKE $2
			UNION ALL
			SELECT b.code, b.name, 'barangay',
				COALESCE(c.name, ''), COALESCE(p.name, ''), COALESCE(r.name, '')
			FROM psgc_barangays b
			LEFT JOIN psgc_cities c ON c.code = b.city_code
			LEFT JOIN psgc_provinces p ON p.code = c.province_code
			LEFT JOIN psgc_regions r ON r.code = p.region_code
			WHERE b.name ILIKE $2
		) matches
		ORDER BY (name ILIKE $1) DESC, LENGTH(name), name
		LIMIT $3`,
		prefix, substring, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search psgc: %w", err)
	}
	defer rows.Close()

	results := []*domain.PSGCMatch{}
	for rows.Next() {
		var m domain.PSGCMatch
		if err := rows.Scan(&m.Code, &m.Name, &m.Level, &m.CityName, &m.ProvinceName, &m.RegionName); err != nil {
			return nil, fmt.Errorf("failed to scan psgc match: %w", err)
		}
		results = append(results, &m)
	}
	return results, rows.Err()
}

// ============================================
// Bulk upserts (PSA sync / xlsx import)
// ============================================

func (p *PostgresPSGCRepository) UpsertRegions(ctx context.Context, regions []*domain.Region) error {
	if len(regions) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO psgc_regions (code, name) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare region upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range regions {
		if _, err := stmt.ExecContext(ctx, r.Code, r.Name); err != nil {
			return fmt.Errorf("failed to upsert region %s: %w", r.Code, err)
		}
	}
	return tx.Commit()
}

func (p *PostgresPSGCRepository) UpsertProvinces(ctx context.Context, provinces []*domain.Province) error {
	if len(provinces) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO psgc_provinces (code, region_code, name) VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO UPDATE SET region_code = EXCLUDED.region_code, name = EXCLUDED.name`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare province upsert: %w", err)
	}
	defer stmt.Close()

	for _, pr := range provinces {
		if _, err := stmt.ExecContext(ctx, pr.Code, pr.RegionCode, pr.Name); err != nil {
			return fmt.Errorf("failed to upsert province %s: %w", pr.Code, err)
		}
	}
	return tx.Commit()
}

func (p *PostgresPSGCRepository) UpsertCities(ctx context.Context, cities []*domain.City) error {
	if len(cities) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO psgc_cities (code, province_code, name, city_class, income_class)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		 ON CONFLICT (code) DO UPDATE SET
			province_code = EXCLUDED.province_code,
			name = EXCLUDED.name,
			city_class = EXCLUDED.city_class,
			income_class = EXCLUDED.income_class`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare city upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cities {
		if _, err := stmt.ExecContext(ctx, c.Code, c.ProvinceCode, c.Name, c.CityClass, c.IncomeClass); err != nil {
			return fmt.Errorf("failed to upsert city %s: %w", c.Code, err)
		}
	}
	return tx.Commit()
}

func (p *PostgresPSGCRepository) UpsertBarangays(ctx context.Context, barangays []*domain.Barangay) error {
	if len(barangays) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO psgc_barangays (code, city_code, name, urban) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (code) DO UPDATE SET
			city_code = EXCLUDED.city_code,
			name = EXCLUDED.name,
			urban = EXCLUDED.urban`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare barangay upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range barangays {
		var urbanArg any
		if b.Urban != nil {
			urbanArg = *b.Urban
		}
		if _, err := stmt.ExecContext(ctx, b.Code, b.CityCode, b.Name, urbanArg); err != nil {
			return fmt.Errorf("failed to upsert barangay %s: %w", b.Code, err)
		}
	}
	return tx.Commit()
}
