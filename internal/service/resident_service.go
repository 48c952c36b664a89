package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"
	"rbi-data/internal/sectoral"

	"go.uber.org/zap"
)

// ResidentService resident registry operations. Every write re-derives the
// sectoral flags from the record as it will be stored; manual flags survive.
type ResidentService interface {
	GetResident(ctx context.Context, tenantID, residentID string) (*ResidentDetail, error)
	ListResidents(ctx context.Context, tenantID string, req ListResidentsRequest) (*ListResidentsResponse, error)
	CreateResident(ctx context.Context, tenantID string, req SaveResidentRequest) (*ResidentDetail, error)
	UpdateResident(ctx context.Context, tenantID, residentID string, req SaveResidentRequest) (*ResidentDetail, error)
	DeleteResident(ctx context.Context, tenantID, residentID string) error

	TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error
	PreviewSectoral(req SectoralPreviewRequest) SectoralPreviewResponse
}

// ============================================
// Request/Response DTOs
// ============================================

type ListResidentsRequest struct {
	BarangayCode    string
	HouseholdID     string
	Status          string
	Sex             string
	Purok           string
	SectoralFlag    string
	RegisteredVoter *bool
	Search          string
	Page            int
	Size            int
}

type ListResidentsResponse struct {
	Residents []*ResidentDetail `json:"residents"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Size      int               `json:"size"`
}

// SaveResidentRequest shared create/update payload. Pointer fields mean
// "not provided" on update and keep the stored value.
type SaveResidentRequest struct {
	BarangayCode string  `json:"barangay_code"`
	HouseholdID  *string `json:"household_id"`

	LastName   string     `json:"last_name"`
	FirstName  string     `json:"first_name"`
	MiddleName string     `json:"middle_name"`
	Suffix     string     `json:"suffix"`
	Sex        string     `json:"sex"`
	Birthdate  *time.Time `json:"birthdate"`
	Birthplace string     `json:"birthplace"`

	MaritalStatus       string `json:"marital_status"`
	EmploymentStatus    string `json:"employment_status"`
	Occupation          string `json:"occupation"`
	EducationAttainment string `json:"education_attainment"`
	Enrolled            *bool  `json:"enrolled"`
	Ethnicity           string `json:"ethnicity"`
	Religion            string `json:"religion"`
	Citizenship         string `json:"citizenship"`

	RegisteredVoter bool   `json:"registered_voter"`
	ResidencyStatus string `json:"residency_status"`
	YearsOfStay     *int   `json:"years_of_stay"`

	Status string `json:"status"`

	// manual sectoral flags, set by the encoder
	IsOverseasFilipinoWorker  bool `json:"is_overseas_filipino_worker"`
	IsPersonWithDisability    bool `json:"is_person_with_disability"`
	IsRegisteredSeniorCitizen bool `json:"is_registered_senior_citizen"`
	IsSoloParent              bool `json:"is_solo_parent"`
	IsMigrant                 bool `json:"is_migrant"`

	Metadata json.RawMessage `json:"metadata,omitempty"`
	Note     string          `json:"note"`
}

// ResidentDetail API view of a resident plus derivation output and any
// consistency warnings the encoder should see.
type ResidentDetail struct {
	Resident *domain.Resident `json:"resident"`
	FullName string           `json:"full_name"`
	Age      *int             `json:"age,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// SectoralPreviewRequest evaluates the derivation without persisting,
// used by the encoding form to show flags as fields change.
type SectoralPreviewRequest struct {
	Age                 *int       `json:"age"`
	Birthdate           *time.Time `json:"birthdate"`
	EmploymentStatus    string     `json:"employment_status"`
	EducationAttainment string     `json:"education_attainment"`
	Ethnicity           string     `json:"ethnicity"`
	Enrolled            *bool      `json:"enrolled"`

	Current sectoral.SectoralInformation `json:"current"`
}

type SectoralPreviewResponse struct {
	Sectoral sectoral.SectoralInformation `json:"sectoral"`
	Age      *int                         `json:"age,omitempty"`
}

// ============================================

type residentService struct {
	residentsRepo  repository.ResidentsRepository
	householdsRepo repository.HouseholdsRepository
	psgcRepo       repository.PSGCRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewResidentService(
	residentsRepo repository.ResidentsRepository,
	householdsRepo repository.HouseholdsRepository,
	psgcRepo repository.PSGCRepository,
	logger *zap.Logger,
) ResidentService {
	return &residentService{
		residentsRepo:  residentsRepo,
		householdsRepo: householdsRepo,
		psgcRepo:       psgcRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *residentService) GetResident(ctx context.Context, tenantID, residentID string) (*ResidentDetail, error) {
	resident, err := s.residentsRepo.GetResident(ctx, tenantID, residentID)
	if err != nil {
		return nil, err
	}
	return s.detail(resident), nil
}

func (s *residentService) ListResidents(ctx context.Context, tenantID string, req ListResidentsRequest) (*ListResidentsResponse, error) {
	page, size := normalizePage(req.Page, req.Size)

	filters := repository.ResidentFilters{
		BarangayCode:    req.BarangayCode,
		HouseholdID:     req.HouseholdID,
		Status:          req.Status,
		Sex:             req.Sex,
		Purok:           req.Purok,
		SectoralFlag:    req.SectoralFlag,
		RegisteredVoter: req.RegisteredVoter,
		Search:          req.Search,
	}
	residents, total, err := s.residentsRepo.ListResidents(ctx, tenantID, filters, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}

	details := make([]*ResidentDetail, 0, len(residents))
	for _, r := range residents {
		details = append(details, s.detail(r))
	}
	return &ListResidentsResponse{
		Residents: details,
		Total:     total,
		Page:      page,
		Size:      size,
	}, nil
}

func (s *residentService) CreateResident(ctx context.Context, tenantID string, req SaveResidentRequest) (*ResidentDetail, error) {
	if err := s.validateSave(ctx, tenantID, &req); err != nil {
		return nil, err
	}

	resident := &domain.Resident{TenantID: tenantID}
	applySave(resident, req)
	if resident.Citizenship == "" {
		resident.Citizenship = "Filipino"
	}
	if resident.Status == "" {
		resident.Status = "active"
	}
	s.derive(resident)

	id, err := s.residentsRepo.CreateResident(ctx, tenantID, resident)
	if err != nil {
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}
	resident.ResidentID = id

	s.logger.Info("resident created",
		zap.String("tenant_id", tenantID),
		zap.String("resident_id", id),
		zap.String("barangay_code", resident.BarangayCode))
	return s.detail(resident), nil
}

func (s *residentService) UpdateResident(ctx context.Context, tenantID, residentID string, req SaveResidentRequest) (*ResidentDetail, error) {
	resident, err := s.residentsRepo.GetResident(ctx, tenantID, residentID)
	if err != nil {
		return nil, err
	}
	if err := s.validateSave(ctx, tenantID, &req); err != nil {
		return nil, err
	}

	applySave(resident, req)
	s.derive(resident)

	if err := s.residentsRepo.UpdateResident(ctx, tenantID, residentID, resident); err != nil {
		return nil, fmt.Errorf("failed to update resident: %w", err)
	}

	s.logger.Info("resident updated",
		zap.String("tenant_id", tenantID),
		zap.String("resident_id", residentID))
	return s.detail(resident), nil
}

func (s *residentService) DeleteResident(ctx context.Context, tenantID, residentID string) error {
	if err := s.residentsRepo.DeleteResident(ctx, tenantID, residentID); err != nil {
		return err
	}
	s.logger.Info("resident deleted",
		zap.String("tenant_id", tenantID),
		zap.String("resident_id", residentID))
	return nil
}

func (s *residentService) TransferHousehold(ctx context.Context, tenantID, residentID string, householdID *string) error {
	if householdID != nil {
		if _, err := s.householdsRepo.GetHousehold(ctx, tenantID, *householdID); err != nil {
			return fmt.Errorf("target household not found")
		}
	}
	return s.residentsRepo.TransferHousehold(ctx, tenantID, residentID, householdID)
}

func (s *residentService) PreviewSectoral(req SectoralPreviewRequest) SectoralPreviewResponse {
	now := s.now()
	ctx := sectoral.ResidentContext{
		Age:                 req.Age,
		Birthdate:           req.Birthdate,
		EmploymentStatus:    sectoral.ParseEmploymentStatus(req.EmploymentStatus),
		EducationAttainment: sectoral.ParseEducationAttainment(req.EducationAttainment),
		Ethnicity:           req.Ethnicity,
		Enrolled:            req.Enrolled,
	}

	resp := SectoralPreviewResponse{
		Sectoral: sectoral.Derive(req.Current, ctx, now),
	}
	if age, ok := ctx.ResolveAge(now); ok {
		resp.Age = &age
	}
	return resp
}

// derive recomputes the stored sectoral flags in place.
func (s *residentService) derive(resident *domain.Resident) {
	resident.Sectoral = sectoral.Derive(resident.Sectoral, resident.SectoralContext(), s.now())
}

func (s *residentService) detail(resident *domain.Resident) *ResidentDetail {
	d := &ResidentDetail{
		Resident: resident,
		FullName: resident.FullName(),
	}

	now := s.now()
	age, ageKnown := resident.SectoralContext().ResolveAge(now)
	if ageKnown {
		d.Age = &age
	}

	// consistency warnings, never hard failures
	if ageKnown && sectoral.VoterAgeInconsistent(age, resident.RegisteredVoter) {
		d.Warnings = append(d.Warnings, "registered voter is under voting age")
	}
	if sectoral.SeniorRegistrationInconsistent(resident.Sectoral, age, ageKnown) {
		d.Warnings = append(d.Warnings, "registered senior citizen is under 60")
	}
	return d
}

func (s *residentService) validateSave(ctx context.Context, tenantID string, req *SaveResidentRequest) error {
	if req.LastName == "" || req.FirstName == "" {
		return fmt.Errorf("last_name and first_name are required")
	}
	if req.Sex != "male" && req.Sex != "female" {
		return fmt.Errorf("sex must be male or female")
	}
	if req.BarangayCode == "" {
		return fmt.Errorf("barangay_code is required")
	}
	if req.Birthdate != nil && req.Birthdate.After(s.now()) {
		return fmt.Errorf("birthdate cannot be in the future")
	}
	if req.Status != "" && req.Status != "active" && req.Status != "deceased" && req.Status != "moved_out" {
		return fmt.Errorf("invalid status: %s", req.Status)
	}
	if req.ResidencyStatus != "" {
		switch sectoral.ResidencyStatus(req.ResidencyStatus) {
		case sectoral.ResidencyPermanent, sectoral.ResidencyTemporary,
			sectoral.ResidencyTransient, sectoral.ResidencyVisitor:
		default:
			return fmt.Errorf("invalid residency_status: %s", req.ResidencyStatus)
		}
	}

	if _, err := s.psgcRepo.GetBarangay(ctx, req.BarangayCode); err != nil {
		return fmt.Errorf("unknown barangay code: %s", req.BarangayCode)
	}
	if req.HouseholdID != nil && *req.HouseholdID != "" {
		if _, err := s.householdsRepo.GetHousehold(ctx, tenantID, *req.HouseholdID); err != nil {
			return fmt.Errorf("household not found")
		}
	}
	return nil
}

func applySave(resident *domain.Resident, req SaveResidentRequest) {
	resident.BarangayCode = req.BarangayCode
	resident.HouseholdID = req.HouseholdID

	resident.LastName = req.LastName
	resident.FirstName = req.FirstName
	resident.MiddleName = req.MiddleName
	resident.Suffix = req.Suffix
	resident.Sex = req.Sex
	resident.Birthdate = req.Birthdate
	resident.Birthplace = req.Birthplace

	resident.MaritalStatus = req.MaritalStatus
	resident.EmploymentStatus = string(sectoral.ParseEmploymentStatus(req.EmploymentStatus))
	resident.Occupation = req.Occupation
	resident.EducationAttainment = string(sectoral.ParseEducationAttainment(req.EducationAttainment))
	resident.Enrolled = req.Enrolled
	resident.Ethnicity = req.Ethnicity
	resident.Religion = req.Religion
	if req.Citizenship != "" {
		resident.Citizenship = req.Citizenship
	}

	resident.RegisteredVoter = req.RegisteredVoter
	resident.ResidencyStatus = req.ResidencyStatus
	resident.YearsOfStay = req.YearsOfStay
	if req.Status != "" {
		resident.Status = req.Status
	}

	// manual flags carried into the record before derivation so the
	// derive step preserves them
	resident.Sectoral.IsOverseasFilipinoWorker = req.IsOverseasFilipinoWorker
	resident.Sectoral.IsPersonWithDisability = req.IsPersonWithDisability
	resident.Sectoral.IsRegisteredSeniorCitizen = req.IsRegisteredSeniorCitizen
	resident.Sectoral.IsSoloParent = req.IsSoloParent
	resident.Sectoral.IsMigrant = req.IsMigrant

	if req.Metadata != nil {
		resident.Metadata = req.Metadata
	}
	resident.Note = req.Note
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 20
	}
	return page, size
}
