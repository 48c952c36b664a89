package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// masterlistHeader RBI masterlist column order. Matches the printed form
// barangay secretaries file with the city registrar.
var masterlistHeader = []string{
	"No.",
	"Last Name",
	"First Name",
	"Middle Name",
	"Suffix",
	"Sex",
	"Birthdate",
	"Age",
	"Marital Status",
	"Employment Status",
	"Occupation",
	"Education",
	"Registered Voter",
	"Residency",
	"Household No.",
	"Sectors",
	"Status",
}

// exportPageSize rows fetched per repository page while streaming
// residents into the workbook.
const exportPageSize = 500

// ReportService xlsx exports and reference-data imports.
type ReportService interface {
	// ExportMasterlist builds the resident masterlist workbook for one
	// barangay, or the whole LGU when barangayCode is empty.
	ExportMasterlist(ctx context.Context, tenantID, barangayCode string) ([]byte, error)

	// ImportPSGCWorkbook loads barangay reference rows from an uploaded
	// PSGC publication workbook. Columns: code, name, city code.
	ImportPSGCWorkbook(ctx context.Context, fileBytes []byte) (int, error)
}

type reportService struct {
	residentsRepo  repository.ResidentsRepository
	householdsRepo repository.HouseholdsRepository
	psgcRepo       repository.PSGCRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewReportService(
	residentsRepo repository.ResidentsRepository,
	householdsRepo repository.HouseholdsRepository,
	psgcRepo repository.PSGCRepository,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		residentsRepo:  residentsRepo,
		householdsRepo: householdsRepo,
		psgcRepo:       psgcRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *reportService) ExportMasterlist(ctx context.Context, tenantID, barangayCode string) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, close only on error paths

	sheetName := "Masterlist"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range masterlistHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// page through residents ordered the way the repository lists them
	row := 2
	seq := 1
	page := 1
	for {
		residents, total, err := s.residentsRepo.ListResidents(ctx, tenantID, repository.ResidentFilters{
			BarangayCode: barangayCode,
			Status:       "active",
		}, page, exportPageSize)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to list residents: %w", err)
		}

		for _, r := range residents {
			if err := s.writeMasterlistRow(ctx, f, sheetName, row, seq, r); err != nil {
				f.Close()
				return nil, err
			}
			row++
			seq++
		}

		if page*exportPageSize >= total || len(residents) == 0 {
			break
		}
		page++
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	s.logger.Info("masterlist exported",
		zap.String("tenant_id", tenantID),
		zap.String("barangay_code", barangayCode),
		zap.Int("residents", seq-1))
	return buf.Bytes(), nil
}

func (s *reportService) writeMasterlistRow(ctx context.Context, f *excelize.File, sheetName string, row, seq int, r *domain.Resident) error {
	now := s.now()

	birthdate := ""
	age := ""
	if r.Birthdate != nil {
		birthdate = r.Birthdate.Format("2006-01-02")
	}
	if a, ok := r.SectoralContext().ResolveAge(now); ok {
		age = fmt.Sprintf("%d", a)
	}

	voter := "No"
	if r.RegisteredVoter {
		voter = "Yes"
	}

	householdNumber := ""
	if r.HouseholdID != nil {
		if h, err := s.householdsRepo.GetHousehold(ctx, r.TenantID, *r.HouseholdID); err == nil {
			householdNumber = h.HouseholdNumber
		}
	}

	values := []any{
		seq,
		r.LastName,
		r.FirstName,
		r.MiddleName,
		r.Suffix,
		r.Sex,
		birthdate,
		age,
		r.MaritalStatus,
		r.EmploymentStatus,
		r.Occupation,
		r.EducationAttainment,
		voter,
		r.ResidencyStatus,
		householdNumber,
		sectorLabels(r),
		r.Status,
	}
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

// sectorLabels joins the set flags into the short codes printed on the form.
func sectorLabels(r *domain.Resident) string {
	var labels []string
	sec := r.Sectoral
	for _, entry := range []struct {
		set   bool
		label string
	}{
		{sec.IsLaborForceEmployed, "LF"},
		{sec.IsUnemployed, "UNEMP"},
		{sec.IsOutOfSchoolChildren, "OSC"},
		{sec.IsOutOfSchoolYouth, "OSY"},
		{sec.IsSeniorCitizen, "SC"},
		{sec.IsIndigenousPeople, "IP"},
		{sec.IsOverseasFilipinoWorker, "OFW"},
		{sec.IsPersonWithDisability, "PWD"},
		{sec.IsRegisteredSeniorCitizen, "RSC"},
		{sec.IsSoloParent, "SP"},
		{sec.IsMigrant, "MIG"},
	} {
		if entry.set {
			labels = append(labels, entry.label)
		}
	}
	return strings.Join(labels, ", ")
}

func (s *reportService) ImportPSGCWorkbook(ctx context.Context, fileBytes []byte) (int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("workbook has no data rows")
	}

	var barangays []*domain.Barangay
	for i, row := range rows[1:] { // row 0 is the header
		if len(row) < 3 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		cityCode := strings.TrimSpace(row[2])
		if code == "" && name == "" {
			continue
		}
		if len(code) != 10 || len(cityCode) != 10 {
			return 0, fmt.Errorf("row %d: PSGC codes must be 10 digits", i+2)
		}
		if name == "" {
			return 0, fmt.Errorf("row %d: barangay name is required", i+2)
		}
		barangays = append(barangays, &domain.Barangay{
			Code:     code,
			CityCode: cityCode,
			Name:     name,
		})
	}
	if len(barangays) == 0 {
		return 0, fmt.Errorf("workbook has no data rows")
	}

	if err := s.psgcRepo.UpsertBarangays(ctx, barangays); err != nil {
		return 0, fmt.Errorf("failed to upsert barangays: %w", err)
	}

	s.logger.Info("psgc workbook imported", zap.Int("barangays", len(barangays)))
	return len(barangays), nil
}
