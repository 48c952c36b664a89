package service

import (
	"context"
	"fmt"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"go.uber.org/zap"
)

// HouseholdService household registry operations.
type HouseholdService interface {
	GetHousehold(ctx context.Context, tenantID, householdID string) (*HouseholdDetail, error)
	ListHouseholds(ctx context.Context, tenantID string, req ListHouseholdsRequest) (*ListHouseholdsResponse, error)
	CreateHousehold(ctx context.Context, tenantID string, req SaveHouseholdRequest) (*domain.Household, error)
	UpdateHousehold(ctx context.Context, tenantID, householdID string, req SaveHouseholdRequest) (*domain.Household, error)
	DeleteHousehold(ctx context.Context, tenantID, householdID string) error
	SetHead(ctx context.Context, tenantID, householdID, residentID string) error
}

type ListHouseholdsRequest struct {
	BarangayCode string
	Purok        string
	Search       string
	Page         int
	Size         int
}

type ListHouseholdsResponse struct {
	Households []*domain.HouseholdWithCount `json:"households"`
	Total      int                          `json:"total"`
	Page       int                          `json:"page"`
	Size       int                          `json:"size"`
}

type SaveHouseholdRequest struct {
	BarangayCode    string `json:"barangay_code"`
	HouseholdNumber string `json:"household_number"`
	Purok           string `json:"purok"`
	StreetAddress   string `json:"street_address"`
	IncomeBracket   string `json:"income_bracket"`
}

// HouseholdDetail household plus its member roster.
type HouseholdDetail struct {
	Household *domain.Household  `json:"household"`
	Members   []*domain.Resident `json:"members"`
}

type householdService struct {
	householdsRepo repository.HouseholdsRepository
	residentsRepo  repository.ResidentsRepository
	psgcRepo       repository.PSGCRepository
	logger         *zap.Logger
}

func NewHouseholdService(
	householdsRepo repository.HouseholdsRepository,
	residentsRepo repository.ResidentsRepository,
	psgcRepo repository.PSGCRepository,
	logger *zap.Logger,
) HouseholdService {
	return &householdService{
		householdsRepo: householdsRepo,
		residentsRepo:  residentsRepo,
		psgcRepo:       psgcRepo,
		logger:         logger,
	}
}

func (s *householdService) GetHousehold(ctx context.Context, tenantID, householdID string) (*HouseholdDetail, error) {
	household, err := s.householdsRepo.GetHousehold(ctx, tenantID, householdID)
	if err != nil {
		return nil, err
	}
	members, err := s.residentsRepo.ListHouseholdMembers(ctx, tenantID, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}
	return &HouseholdDetail{Household: household, Members: members}, nil
}

func (s *householdService) ListHouseholds(ctx context.Context, tenantID string, req ListHouseholdsRequest) (*ListHouseholdsResponse, error) {
	page, size := normalizePage(req.Page, req.Size)

	households, total, err := s.householdsRepo.ListHouseholds(ctx, tenantID, repository.HouseholdFilters{
		BarangayCode: req.BarangayCode,
		Purok:        req.Purok,
		Search:       req.Search,
	}, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	return &ListHouseholdsResponse{
		Households: households,
		Total:      total,
		Page:       page,
		Size:       size,
	}, nil
}

func (s *householdService) CreateHousehold(ctx context.Context, tenantID string, req SaveHouseholdRequest) (*domain.Household, error) {
	if err := s.validateSave(ctx, req); err != nil {
		return nil, err
	}

	household := &domain.Household{
		TenantID:        tenantID,
		BarangayCode:    req.BarangayCode,
		HouseholdNumber: req.HouseholdNumber,
		Purok:           req.Purok,
		StreetAddress:   req.StreetAddress,
		IncomeBracket:   req.IncomeBracket,
	}
	id, err := s.householdsRepo.CreateHousehold(ctx, tenantID, household)
	if err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}
	household.HouseholdID = id

	s.logger.Info("household created",
		zap.String("tenant_id", tenantID),
		zap.String("household_id", id),
		zap.String("barangay_code", req.BarangayCode))
	return household, nil
}

func (s *householdService) UpdateHousehold(ctx context.Context, tenantID, householdID string, req SaveHouseholdRequest) (*domain.Household, error) {
	household, err := s.householdsRepo.GetHousehold(ctx, tenantID, householdID)
	if err != nil {
		return nil, err
	}
	if err := s.validateSave(ctx, req); err != nil {
		return nil, err
	}

	household.BarangayCode = req.BarangayCode
	household.HouseholdNumber = req.HouseholdNumber
	household.Purok = req.Purok
	household.StreetAddress = req.StreetAddress
	household.IncomeBracket = req.IncomeBracket

	if err := s.householdsRepo.UpdateHousehold(ctx, tenantID, householdID, household); err != nil {
		return nil, fmt.Errorf("failed to update household: %w", err)
	}
	return household, nil
}

func (s *householdService) DeleteHousehold(ctx context.Context, tenantID, householdID string) error {
	if err := s.householdsRepo.DeleteHousehold(ctx, tenantID, householdID); err != nil {
		return err
	}
	s.logger.Info("household deleted",
		zap.String("tenant_id", tenantID),
		zap.String("household_id", householdID))
	return nil
}

func (s *householdService) SetHead(ctx context.Context, tenantID, householdID, residentID string) error {
	return s.householdsRepo.SetHead(ctx, tenantID, householdID, residentID)
}

func (s *householdService) validateSave(ctx context.Context, req SaveHouseholdRequest) error {
	if req.BarangayCode == "" || req.HouseholdNumber == "" {
		return fmt.Errorf("barangay_code and household_number are required")
	}
	if _, err := s.psgcRepo.GetBarangay(ctx, req.BarangayCode); err != nil {
		return fmt.Errorf("unknown barangay code: %s", req.BarangayCode)
	}
	return nil
}
