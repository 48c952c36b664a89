package httpapi

import (
	"context"
	"fmt"
	"time"

	"rbi-data/internal/domain"
	"rbi-data/internal/service"
)

// fakeAuthService hands out claims keyed by a literal token string.
type fakeAuthService struct {
	tokens map[string]*service.AccessClaims
	login  func(req service.LoginRequest) (*service.LoginResponse, error)
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{tokens: map[string]*service.AccessClaims{}}
}

func (f *fakeAuthService) grant(token, tenantID, userID, role string) {
	f.tokens[token] = &service.AccessClaims{TenantID: tenantID, Role: role}
	f.tokens[token].Subject = userID
}

func (f *fakeAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	if f.login != nil {
		return f.login(req)
	}
	return nil, fmt.Errorf("invalid account or password")
}

func (f *fakeAuthService) ParseToken(token string) (*service.AccessClaims, error) {
	claims, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (f *fakeAuthService) SendResetCode(ctx context.Context, req service.SendResetCodeRequest) error {
	return nil
}

func (f *fakeAuthService) VerifyResetCode(ctx context.Context, req service.VerifyResetCodeRequest) (bool, error) {
	return false, nil
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, req service.ResetPasswordRequest) error {
	return nil
}

type fakeTenantService struct {
	tenants []*domain.Tenant
}

func (f *fakeTenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	for _, t := range f.tenants {
		if t.TenantID == tenantID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tenant not found")
}

func (f *fakeTenantService) SearchTenants(ctx context.Context, query string, limit int) ([]*domain.Tenant, error) {
	return f.tenants, nil
}

func (f *fakeTenantService) CreateTenant(ctx context.Context, req service.CreateTenantRequest) (*domain.Tenant, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeTenantService) UpdateTenantStatus(ctx context.Context, tenantID, status string) error {
	return nil
}

// fakeResidentService records calls and returns canned data.
type fakeResidentService struct {
	created    []service.SaveResidentRequest
	lastTenant string
}

func (f *fakeResidentService) GetResident(ctx context.Context, tenantID, residentID string) (*service.ResidentDetail, error) {
	f.lastTenant = tenantID
	return &service.ResidentDetail{
		Resident: &domain.Resident{ResidentID: residentID, TenantID: tenantID, FirstName: "Ana", LastName: "Cruz"},
		FullName: "Ana Cruz",
	}, nil
}

func (f *fakeResidentService) ListResidents(ctx context.Context, tenantID string, req service.ListResidentsRequest) (*service.ListResidentsResponse, error) {
	f.lastTenant = tenantID
	return &service.ListResidentsResponse{Residents: []*service.ResidentDetail{}, Page: req.Page, Size: req.Size}, nil
}

func (f *fakeResidentService) CreateResident(ctx context.Context, tenantID string, req service.SaveResidentRequest) (*service.ResidentDetail, error) {
	f.lastTenant = tenantID
	f.created = append(f.created, req)
	return &service.ResidentDetail{
		Resident: &domain.Resident{ResidentID: "new-id", TenantID: tenantID, FirstName: req.FirstName, LastName: req.LastName},
		FullName: req.FirstName + " " + req.LastName,
	}, nil
}

func (f *fakeResidentService) UpdateResident(ctx context.Context, tenantID, residentID string, req service.SaveResidentRequest) (*service.ResidentDetail, error) {
	return f.CreateResident(ctx, tenantID, req)
}

func (f *fakeResidentService) DeleteResident(ctx context.Context, tenantID, residentID string) error {
	return nil
}

func (f *fakeResidentService) TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error {
	return nil
}

func (f *fakeResidentService) PreviewSectoral(req service.SectoralPreviewRequest) service.SectoralPreviewResponse {
	return service.SectoralPreviewResponse{}
}

type fakeStatsService struct {
	invalidated []string
	stats       *service.DashboardStats
}

func (f *fakeStatsService) Dashboard(ctx context.Context, tenantID string) (*service.DashboardStats, error) {
	if f.stats != nil {
		return f.stats, nil
	}
	return &service.DashboardStats{GeneratedAt: time.Now()}, nil
}

func (f *fakeStatsService) Invalidate(ctx context.Context, tenantID string) {
	f.invalidated = append(f.invalidated, tenantID)
}
