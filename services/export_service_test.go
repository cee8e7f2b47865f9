package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brims-http-service/config"
)

func exportTestService(t *testing.T) InterfaceExportService {
	t.Helper()
	return NewExportService(&config.Config{ExportDir: t.TempDir()})
}

func sampleTable() *ExportTable {
	return &ExportTable{
		Title:   "Sample Report",
		Headers: []string{"Name", "Age", "Status"},
		Rows: [][]string{
			{"Maria Santos", "34", "Active"},
			{"Juan Dela Cruz", "51", "Inactive"},
		},
		XPosition: []float64{0.5, 2.5, 3.5},
	}
}

func TestExportCSV(t *testing.T) {
	svc := exportTestService(t)

	path, err := svc.ExportCSV("sample", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Age", "Status"}, records[0])
	assert.Equal(t, []string{"Maria Santos", "34", "Active"}, records[1])
	assert.Equal(t, []string{"Juan Dela Cruz", "51", "Inactive"}, records[2])
}

func TestExportXLSX(t *testing.T) {
	svc := exportTestService(t)

	path, err := svc.ExportXLSX("sample", sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Age", "Status"}, rows[0])
	assert.Equal(t, "Juan Dela Cruz", rows[2][0])
}

func TestExportPDF(t *testing.T) {
	svc := exportTestService(t)

	// enough rows to force a second page
	table := sampleTable()
	for i := 0; i < 60; i++ {
		table.Rows = append(table.Rows, []string{"Resident", "30", "Active"})
	}

	path, err := svc.ExportPDF("sample", table)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	header := make([]byte, 5)
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestExportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	svc := NewExportService(&config.Config{ExportDir: dir})

	path, err := svc.ExportCSV("sample", sampleTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
}

func TestBuildRequestsTable(t *testing.T) {
	completed := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	table := BuildRequestsTable([]RequestExportRow{
		{
			ResidentName:  "Maria Santos",
			DocumentType:  "Barangay Clearance",
			Purpose:       "Employment",
			RequestDate:   time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC),
			Status:        "Completed",
			CompletedDate: &completed,
		},
		{
			ResidentName: "Juan Dela Cruz",
			DocumentType: "Cedula",
			RequestDate:  time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC),
			Status:       "Pending",
		},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2025-03-10 14:30:00", table.Rows[0][5])
	// open requests leave the completed column blank
	assert.Equal(t, "", table.Rows[1][5])
	assert.Len(t, table.Headers, len(table.XPosition))
}
