package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"brims-http-service/config"
)

// ExportTimeFormat is the timestamp layout used in exported rows.
const ExportTimeFormat = "2006-01-02 15:04:05"

// ExportTable is a prepared report: a title, a header row and the data
// rows, plus the per-column x positions (in inches) used by the PDF
// renderer.
type ExportTable struct {
	Title     string
	Headers   []string
	Rows      [][]string
	XPosition []float64
}

type InterfaceExportService interface {
	ExportCSV(name string, table *ExportTable) (string, error)
	ExportPDF(name string, table *ExportTable) (string, error)
	ExportXLSX(name string, table *ExportTable) (string, error)
}

type ExportService struct {
	Config *config.Config
}

func NewExportService(cfg *config.Config) InterfaceExportService {
	return &ExportService{Config: cfg}
}

// outputPath builds a timestamped file path under the export directory,
// creating the directory on first use.
func (s *ExportService) outputPath(name, ext string) (string, error) {
	dir := s.Config.ExportDir
	if dir == "" {
		dir = "exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102_150405"), ext)
	return filepath.Join(dir, filename), nil
}

func (s *ExportService) ExportCSV(name string, table *ExportTable) (string, error) {
	path, err := s.outputPath(name, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Headers); err != nil {
		return "", err
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// PDF layout constants, all in inches on a landscape letter page.
const (
	pdfPageHeight   = 8.5
	pdfBottomMargin = 1.0
	pdfTitleY       = 0.6
	pdfBannerY      = 0.85
	pdfHeaderY      = 1.2
	pdfFirstRowY    = 1.45
	pdfRowHeight    = 0.22
)

// ExportPDF renders the table as fixed-position text on landscape
// letter pages. Columns sit at the x positions the table carries;
// a new page starts whenever a row would cross the bottom margin.
func (s *ExportService) ExportPDF(name string, table *ExportTable) (string, error) {
	path, err := s.outputPath(name, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "in", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	writeHeader := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(0.5, pdfTitleY, table.Title)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(0.5, pdfBannerY, "Generated on: "+time.Now().Format(ExportTimeFormat))
		pdf.SetFont("Helvetica", "B", 10)
		for i, header := range table.Headers {
			if i < len(table.XPosition) {
				pdf.Text(table.XPosition[i], pdfHeaderY, header)
			}
		}
		pdf.SetFont("Helvetica", "", 9)
	}

	writeHeader()
	y := pdfFirstRowY
	for _, row := range table.Rows {
		if y > pdfPageHeight-pdfBottomMargin {
			writeHeader()
			y = pdfFirstRowY
		}
		for i, cell := range row {
			if i < len(table.XPosition) {
				pdf.Text(table.XPosition[i], y, cell)
			}
		}
		y += pdfRowHeight
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *ExportService) ExportXLSX(name string, table *ExportTable) (string, error) {
	path, err := s.outputPath(name, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return "", err
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

// BuildActivityTable shapes the merged activity feed for export.
func BuildActivityTable(entries []ActivityEntry) *ExportTable {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Format(ExportTimeFormat),
			e.ActorName,
			e.ActionType,
			e.Description,
			e.Role,
			e.IPAddress,
		})
	}
	return &ExportTable{
		Title:     "Activity Log Report",
		Headers:   []string{"Timestamp", "Staff Member", "Activity Type", "Description", "Role", "IP Address"},
		Rows:      rows,
		XPosition: []float64{0.5, 2.0, 3.0, 4.5, 8.0, 9.0},
	}
}

// BuildResidentsTable shapes the demographics rows for export.
func BuildResidentsTable(rows []DemographicsRow) *ExportTable {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Name,
			fmt.Sprintf("%d", r.Age),
			r.Gender,
			r.Address,
			r.ContactNumber,
			r.CivilStatus,
			r.EmploymentStatus,
			r.EducationLevel,
			fmt.Sprintf("%d", r.ResidencyYears),
			r.Status,
		})
	}
	return &ExportTable{
		Title:     "Resident Demographics Report",
		Headers:   []string{"Name", "Age", "Gender", "Address", "Contact", "Civil Status", "Employment", "Education", "Residency Years", "Status"},
		Rows:      data,
		XPosition: []float64{0.5, 2.0, 2.4, 2.9, 4.6, 5.8, 6.7, 7.8, 8.9, 9.9},
	}
}

// BuildRequestsTable shapes a request listing for export.
func BuildRequestsTable(requests []RequestExportRow) *ExportTable {
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		completed := ""
		if r.CompletedDate != nil {
			completed = r.CompletedDate.Format(ExportTimeFormat)
		}
		rows = append(rows, []string{
			r.ResidentName,
			r.DocumentType,
			r.Purpose,
			r.RequestDate.Format(ExportTimeFormat),
			r.Status,
			completed,
		})
	}
	return &ExportTable{
		Title:     "Document Requests Report",
		Headers:   []string{"Resident", "Document Type", "Purpose", "Request Date", "Status", "Completed Date"},
		Rows:      rows,
		XPosition: []float64{0.5, 2.2, 4.0, 6.2, 7.8, 8.8},
	}
}

// RequestExportRow is the flattened request row used by exports.
type RequestExportRow struct {
	ResidentName  string
	DocumentType  string
	Purpose       string
	RequestDate   time.Time
	Status        string
	CompletedDate *time.Time
}
