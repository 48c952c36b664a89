package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rbi-data/internal/domain"
)

// PostgresTenantsRepository LGU tenants over PostgreSQL.
type PostgresTenantsRepository struct {
	db *sql.DB
}

func NewPostgresTenantsRepository(db *sql.DB) *PostgresTenantsRepository {
	return &PostgresTenantsRepository{db: db}
}

var _ TenantsRepository = (*PostgresTenantsRepository)(nil)

const tenantColumns = `
	tenant_id::text,
	tenant_name,
	COALESCE(city_code, ''),
	COALESCE(email, ''),
	COALESCE(phone, ''),
	COALESCE(status, 'active'),
	COALESCE(metadata, '{}'::jsonb)::text`

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var metadataRaw string
	err := row.Scan(
		&t.TenantID,
		&t.TenantName,
		&t.CityCode,
		&t.Email,
		&t.Phone,
		&t.Status,
		&metadataRaw,
	)
	if err != nil {
		return nil, err
	}
	if metadataRaw != "" {
		t.Metadata = json.RawMessage(metadataRaw)
	}
	return &t, nil
}

func (p *PostgresTenantsRepository) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE tenant_id = $1`, tenantColumns)
	tenant, err := scanTenant(p.db.QueryRowContext(ctx, query, tenantID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

func (p *PostgresTenantsRepository) ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants`, tenantColumns)
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY tenant_name`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*domain.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// SearchTenants LGU picker on the login page.
func (p *PostgresTenantsRepository) SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error) {
	if query == "" {
		return []*domain.Tenant{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	q := fmt.Sprintf(`SELECT %s FROM tenants WHERE status = 'active' AND tenant_name ILIKE $1 ORDER BY tenant_name LIMIT $2`, tenantColumns)
	rows, err := p.db.QueryContext(ctx, q, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tenants: %w", err)
	}
	defer rows.Close()

	tenants := []*domain.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (p *PostgresTenantsRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error) {
	if tenant == nil {
		return "", fmt.Errorf("tenant is required")
	}
	if tenant.TenantName == "" {
		return "", fmt.Errorf("tenant_name is required")
	}

	status := tenant.Status
	if status == "" {
		status = "active"
	}
	var metadataArg any
	if len(tenant.Metadata) > 0 {
		metadataArg = string(tenant.Metadata)
	}

	var tenantID string
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO tenants (tenant_name, city_code, email, phone, status, metadata)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6::jsonb)
		 RETURNING tenant_id::text`,
		tenant.TenantName, tenant.CityCode, tenant.Email, tenant.Phone, status, metadataArg,
	).Scan(&tenantID)
	if err != nil {
		return "", fmt.Errorf("failed to create tenant: %w", err)
	}
	return tenantID, nil
}

func (p *PostgresTenantsRepository) UpdateTenantStatus(ctx context.Context, tenantID, status string) error {
	if tenantID == "" || status == "" {
		return fmt.Errorf("tenant_id and status are required")
	}

	result, err := p.db.ExecContext(ctx,
		`UPDATE tenants SET status = $2 WHERE tenant_id = $1`,
		tenantID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check tenant update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tenant not found")
	}
	return nil
}
