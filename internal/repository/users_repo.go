package repository

import (
	"context"

	"rbi-data/internal/domain"
)

// UsersRepository LGU staff account access. Lookups are by SHA-256 account
// hash so account names never appear in query logs.
type UsersRepository interface {
	GetUser(ctx context.Context, tenantID, userID string) (*domain.User, error)
	GetUserByAccountHash(ctx context.Context, tenantID string, accountHash []byte) (*domain.User, error)
	GetUserByEmailHash(ctx context.Context, tenantID string, emailHash []byte) (*domain.User, error)
	ListUsers(ctx context.Context, tenantID string, page, size int) ([]*domain.User, int, error)
	CreateUser(ctx context.Context, tenantID string, user *domain.User) (string, error)
	UpdateUserPassword(ctx context.Context, tenantID, userID string, passwordHash []byte) error
	TouchLastLogin(ctx context.Context, tenantID, userID string) error
}

// TenantsRepository LGU tenant access.
type TenantsRepository interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context, status string) ([]*domain.Tenant, error)
	SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error)
	CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error)
	UpdateTenantStatus(ctx context.Context, tenantID, status string) error
}
