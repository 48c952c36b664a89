package service

import (
	"context"
	"fmt"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"go.uber.org/zap"
)

// TenantService LGU tenant administration. Creating a tenant is a
// SystemAdmin operation; search backs the login-page LGU picker.
type TenantService interface {
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
	SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error)
	CreateTenant(ctx context.Context, req CreateTenantRequest) (*domain.Tenant, error)
	UpdateTenantStatus(ctx context.Context, tenantID, status string) error
}

type CreateTenantRequest struct {
	Name     string `json:"name"`
	CityCode string `json:"city_code"`
}

type tenantService struct {
	tenantsRepo repository.TenantsRepository
	psgcRepo    repository.PSGCRepository
	logger      *zap.Logger
}

func NewTenantService(tenantsRepo repository.TenantsRepository, psgcRepo repository.PSGCRepository, logger *zap.Logger) TenantService {
	return &tenantService{tenantsRepo: tenantsRepo, psgcRepo: psgcRepo, logger: logger}
}

func (s *tenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantsRepo.GetTenant(ctx, tenantID)
}

func (s *tenantService) SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error) {
	if len(query) < 2 {
		return []*domain.Tenant{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.tenantsRepo.SearchTenants(ctx, query, limit)
}

func (s *tenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (*domain.Tenant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if req.CityCode != "" {
		if _, err := s.psgcRepo.GetCity(ctx, req.CityCode); err != nil {
			return nil, fmt.Errorf("unknown city code: %s", req.CityCode)
		}
	}

	tenant := &domain.Tenant{
		TenantName: req.Name,
		CityCode:   req.CityCode,
		Status:     "active",
	}
	id, err := s.tenantsRepo.CreateTenant(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	tenant.TenantID = id

	s.logger.Info("tenant created",
		zap.String("tenant_id", id),
		zap.String("tenant_name", req.Name))
	return tenant, nil
}

func (s *tenantService) UpdateTenantStatus(ctx context.Context, tenantID, status string) error {
	if status != "active" && status != "suspended" {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.tenantsRepo.UpdateTenantStatus(ctx, tenantID, status)
}
