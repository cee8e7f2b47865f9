package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brims-http-service/config"
	"brims-http-service/models"
)

func TestRenderCertificateRequiresCompletedRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db, &config.Config{ExportDir: t.TempDir()})
	requestSvc := NewRequestService(db, testConfig())

	request := createTestRequest(t, requestSvc, db, models.RequestPending)

	_, err := svc.RenderCertificate(request.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed request")

	_, err = requestSvc.CompleteRequest(request.ID)
	require.NoError(t, err)

	path, err := svc.RenderCertificate(request.ID)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderCertificateUnknownRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db, &config.Config{ExportDir: t.TempDir()})

	_, err := svc.RenderCertificate(9999)
	require.Error(t, err)
	assert.Equal(t, "request not found", err.Error())
}

func TestCertificateBodyPerDocumentType(t *testing.T) {
	svc := NewDocumentService(setupTestDB(t), testConfig())

	resident := &models.Resident{
		Name:           "Maria Santos",
		Age:            34,
		CivilStatus:    "Married",
		Address:        "123 Sampaguita St.",
		ResidencyYears: 12,
	}

	tests := []struct {
		documentType string
		wantPhrase   string
	}{
		{models.DocBarangayClearance, "no derogatory record"},
		{models.DocIndigencyCertificate, "indigent family"},
		{models.DocSoloParent, "Republic Act No. 8972"},
		{models.DocFirstTimeJobseeker, "Republic Act No. 11261"},
		{models.DocCedula, "community tax certificate"},
	}
	for _, tt := range tests {
		t.Run(tt.documentType, func(t *testing.T) {
			request := &models.Request{DocumentType: tt.documentType, Purpose: "employment"}
			body, err := svc.CertificateBody(request, resident)
			require.NoError(t, err)
			assert.Contains(t, body, "Maria Santos")
			assert.Contains(t, body, "for 12 year(s)")
			assert.Contains(t, body, tt.wantPhrase)
			assert.True(t, strings.HasSuffix(body, "for employment."))
		})
	}
}

func TestCertificateBodyDefaultsPurpose(t *testing.T) {
	svc := NewDocumentService(setupTestDB(t), testConfig())

	resident := &models.Resident{Name: "Juan Dela Cruz", Age: 40, CivilStatus: "Single", Address: "1 Rizal Ave."}
	request := &models.Request{DocumentType: models.DocCertificateResidency}

	body, err := svc.CertificateBody(request, resident)
	require.NoError(t, err)
	assert.Contains(t, body, "whatever legal purpose it may serve")
}

func TestCertificateBodyUnknownDocumentType(t *testing.T) {
	svc := NewDocumentService(setupTestDB(t), testConfig())

	resident := &models.Resident{Name: "Juan Dela Cruz", Age: 40, Address: "1 Rizal Ave."}
	request := &models.Request{DocumentType: "Fishing License"}

	_, err := svc.CertificateBody(request, resident)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")
}
