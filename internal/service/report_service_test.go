package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"rbi-data/internal/domain"
	"rbi-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportMasterlist_Roundtrip(t *testing.T) {
	residentSvc, residents, households := newTestResidentService(t)
	ctx := context.Background()

	hid, err := households.CreateHousehold(ctx, "tenant-1", &domain.Household{
		BarangayCode:    "1380600001",
		HouseholdNumber: "HH-042",
	})
	require.NoError(t, err)

	_, err = residentSvc.CreateResident(ctx, "tenant-1", SaveResidentRequest{
		BarangayCode:     "1380600001",
		HouseholdID:      &hid,
		LastName:         "Santos",
		FirstName:        "Lourdes",
		MiddleName:       "Garcia",
		Sex:              "female",
		Birthdate:        date(1960, 1, 1),
		EmploymentStatus: "retired",
		RegisteredVoter:  true,
	})
	require.NoError(t, err)

	svc := NewReportService(residents, households, repository.NewMemoryPSGCRepository(), zap.NewNop()).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }

	data, err := svc.ExportMasterlist(ctx, "tenant-1", "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Masterlist")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, masterlistHeader, rows[0][:len(masterlistHeader)])

	record := rows[1]
	assert.Equal(t, "Santos", record[1])
	assert.Equal(t, "Lourdes", record[2])
	assert.Equal(t, "1960-01-01", record[6])
	assert.Equal(t, "66", record[7])
	assert.Equal(t, "Yes", record[12])
	assert.Equal(t, "HH-042", record[14])
	assert.Contains(t, record[15], "SC")
}

func TestImportPSGCWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Code", "Name", "City Code"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"0102805001", "Bacsil North", "0102805000"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"0102805002", "Bacsil South", "0102805000"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	psgc := repository.NewMemoryPSGCRepository()
	svc := NewReportService(newFakeResidentsRepo(), newFakeHouseholdsRepo(), psgc, zap.NewNop())

	n, err := svc.ImportPSGCWorkbook(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b, err := psgc.GetBarangay(context.Background(), "0102805002")
	require.NoError(t, err)
	assert.Equal(t, "Bacsil South", b.Name)
	assert.Equal(t, "0102805000", b.CityCode)
}

func TestImportPSGCWorkbook_RejectsBadCode(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Code", "Name", "City Code"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"123", "Bad Row", "0102805000"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	svc := NewReportService(newFakeResidentsRepo(), newFakeHouseholdsRepo(), repository.NewMemoryPSGCRepository(), zap.NewNop())
	_, err = svc.ImportPSGCWorkbook(context.Background(), buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10 digits")
}
