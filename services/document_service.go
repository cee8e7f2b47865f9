package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"brims-http-service/config"
	"brims-http-service/models"
)

type InterfaceDocumentService interface {
	RenderCertificate(requestID uint) (string, error)
	CertificateText(requestID uint) (*CertificateText, error)
	CertificateBody(request *models.Request, resident *models.Resident) (string, error)
}

// CertificateText is the rendered certificate wording before PDF layout.
type CertificateText struct {
	RequestID    uint   `json:"request_id"`
	DocumentType string `json:"document_type"`
	ResidentName string `json:"resident_name"`
	Body         string `json:"body"`
}

// DocumentService renders the certificate text for a completed document
// request into a printable PDF.
type DocumentService struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewDocumentService(db *gorm.DB, cfg *config.Config) InterfaceDocumentService {
	return &DocumentService{DB: db, Config: cfg}
}

// loadCompletedRequest fetches a request with its resident. Only a
// Completed request can be issued a certificate.
func (s *DocumentService) loadCompletedRequest(requestID uint) (*models.Request, error) {
	var request models.Request
	if err := s.DB.Preload("Resident").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("request not found")
		}
		return nil, err
	}
	if request.Status != models.RequestCompleted {
		return nil, fmt.Errorf("certificate can only be issued for a completed request, current status is %s", request.Status)
	}
	if request.Resident == nil {
		return nil, errors.New("resident not found")
	}
	return &request, nil
}

// CertificateText returns the rendered certificate wording for a
// completed request, without producing a PDF.
func (s *DocumentService) CertificateText(requestID uint) (*CertificateText, error) {
	request, err := s.loadCompletedRequest(requestID)
	if err != nil {
		return nil, err
	}
	body, err := s.CertificateBody(request, request.Resident)
	if err != nil {
		return nil, err
	}
	return &CertificateText{
		RequestID:    request.ID,
		DocumentType: request.DocumentType,
		ResidentName: request.Resident.Name,
		Body:         body,
	}, nil
}

// RenderCertificate produces the certificate PDF for a request.
func (s *DocumentService) RenderCertificate(requestID uint) (string, error) {
	request, err := s.loadCompletedRequest(requestID)
	if err != nil {
		return "", err
	}

	body, err := s.CertificateBody(request, request.Resident)
	if err != nil {
		return "", err
	}

	dir := s.Config.ExportDir
	if dir == "" {
		dir = "exports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("certificate_%d_%s.pdf", request.ID, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(0.75, 1.0)
	pdf.CellFormat(7.0, 0.4, "Republic of the Philippines", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetX(0.75)
	pdf.CellFormat(7.0, 0.35, "Office of the Barangay Captain", "", 1, "C", false, 0, "")
	pdf.Ln(0.3)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetX(0.75)
	pdf.CellFormat(7.0, 0.45, strings.ToUpper(request.DocumentType), "", 1, "C", false, 0, "")
	pdf.Ln(0.3)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(0.75)
	pdf.MultiCell(7.0, 0.25, body, "", "L", false)
	pdf.Ln(0.5)
	pdf.SetX(0.75)
	pdf.CellFormat(7.0, 0.3, "Issued on "+time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

// CertificateBody returns the certificate wording for the request's
// document type.
func (s *DocumentService) CertificateBody(request *models.Request, resident *models.Resident) (string, error) {
	intro := fmt.Sprintf(
		"This is to certify that %s, %d years of age, %s, residing at %s, is a bona fide resident of this barangay",
		resident.Name, resident.Age, strings.ToLower(resident.CivilStatus), resident.Address,
	)
	if resident.ResidencyYears > 0 {
		intro += fmt.Sprintf(" for %d year(s)", resident.ResidencyYears)
	}
	intro += "."

	purpose := request.Purpose
	if strings.TrimSpace(purpose) == "" {
		purpose = "whatever legal purpose it may serve"
	}
	closing := fmt.Sprintf("\n\nThis certification is issued upon the request of the above-named person for %s.", purpose)

	var middle string
	switch request.DocumentType {
	case models.DocBarangayClearance:
		middle = "\n\nRecords of this office show that the above-named person has no derogatory record on file as of the date of issuance."
	case models.DocCertificateResidency:
		middle = "\n\nThe above-named person has been continuously residing at the stated address and is personally known to this office."
	case models.DocBarangayID:
		middle = "\n\nThis certifies the identity of the bearer for the issuance of a barangay identification card."
	case models.DocIndigencyCertificate:
		middle = "\n\nThe above-named person belongs to an indigent family of this barangay as verified by this office."
	case models.DocBusinessPermit:
		middle = "\n\nThe above-named person is hereby granted barangay clearance to operate a business within the territorial jurisdiction of this barangay."
	case models.DocTravelClearance:
		middle = "\n\nThe above-named person has no pending case or obligation before this office and is cleared to travel."
	case models.DocSoloParent:
		middle = "\n\nThe above-named person is a solo parent as defined under Republic Act No. 8972 and is personally known to this office."
	case models.DocFirstTimeJobseeker:
		middle = "\n\nThe above-named person is a first-time jobseeker and is entitled to the benefits of Republic Act No. 11261."
	case models.DocCedula:
		middle = "\n\nThis community tax certificate is issued in accordance with the Local Government Code."
	default:
		return "", fmt.Errorf("unknown document type: %s", request.DocumentType)
	}

	return intro + middle + closing, nil
}
