package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brims-http-service/config"
	"brims-http-service/models"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
// A single connection is forced so every query sees the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Staff{},
		&models.Resident{},
		&models.Request{},
		&models.StaffActivity{},
		&models.AdminActivity{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{}
}

func createTestResident(t *testing.T, db *gorm.DB, name string) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		Name:    name,
		Age:     30,
		Gender:  "Female",
		Address: "12 Rizal St, Zone 1",
		Status:  models.ResidentStatusActive,
	}
	require.NoError(t, db.Create(resident).Error)
	return resident
}

func createTestRequest(t *testing.T, svc InterfaceRequestService, db *gorm.DB, status string) *models.Request {
	t.Helper()
	resident := createTestResident(t, db, "Requester "+status+" "+t.Name())
	request := &models.Request{
		ResidentID:   resident.ID,
		DocumentType: models.DocBarangayClearance,
		Purpose:      "Employment requirement",
		Status:       status,
	}
	require.NoError(t, svc.CreateRequest(request))
	return request
}

func TestCreateRequestDefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	resident := createTestResident(t, db, "Maria Santos")

	request := &models.Request{
		ResidentID:   resident.ID,
		DocumentType: models.DocCertificateResidency,
	}
	require.NoError(t, svc.CreateRequest(request))

	assert.Equal(t, models.RequestPending, request.Status)
	assert.Nil(t, request.CompletedDate)
	assert.False(t, request.RequestDate.IsZero())
}

func TestCreateRequestRejectsClosedStatuses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	resident := createTestResident(t, db, "Jose Ramos")

	for _, status := range []string{models.RequestCompleted, models.RequestRejected} {
		request := &models.Request{
			ResidentID:   resident.ID,
			DocumentType: models.DocBarangayID,
			Status:       status,
		}
		err := svc.CreateRequest(request)
		assert.Error(t, err, "status %s should be refused on creation", status)
	}

	// In Progress is a legal starting point
	request := &models.Request{
		ResidentID:   resident.ID,
		DocumentType: models.DocBarangayID,
		Status:       models.RequestInProgress,
	}
	assert.NoError(t, svc.CreateRequest(request))
}

func TestCreateRequestUnknownResident(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())

	request := &models.Request{
		ResidentID:   999,
		DocumentType: models.DocCedula,
	}
	err := svc.CreateRequest(request)
	require.Error(t, err)
	assert.Equal(t, "resident not found", err.Error())
}

func TestCreateRequestUnknownDocumentType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	resident := createTestResident(t, db, "Ana Cruz")

	request := &models.Request{
		ResidentID:   resident.ID,
		DocumentType: "Fishing License",
	}
	err := svc.CreateRequest(request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")
}

func TestCompleteRequestStampsCompletedDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	completed, err := svc.CompleteRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, completed.Status)
	require.NotNil(t, completed.CompletedDate)

	// a second completion is refused, Completed is not an open status
	_, err = svc.CompleteRequest(request.ID)
	assert.Error(t, err)
}

func TestApproveRequestFromInProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestInProgress)

	approved, err := svc.ApproveRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, approved.Status)
	assert.NotNil(t, approved.CompletedDate)
}

func TestRejectRequestLeavesCompletedDateNull(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	rejected, err := svc.RejectRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.Nil(t, rejected.CompletedDate)
}

func TestNoTransitionOutOfRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	_, err := svc.RejectRequest(request.ID)
	require.NoError(t, err)

	_, err = svc.CompleteRequest(request.ID)
	assert.Error(t, err)
	_, err = svc.ApproveRequest(request.ID)
	assert.Error(t, err)
	_, err = svc.ReopenRequest(request.ID)
	assert.Error(t, err)
}

func TestReopenRequestClearsCompletedDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	_, err := svc.CompleteRequest(request.ID)
	require.NoError(t, err)

	reopened, err := svc.ReopenRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestInProgress, reopened.Status)
	assert.Nil(t, reopened.CompletedDate)

	// a fresh completion stamps a new date
	completed, err := svc.CompleteRequest(request.ID)
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedDate)
}

func TestReopenOnlyFromCompleted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	_, err := svc.ReopenRequest(request.ID)
	assert.Error(t, err)
}

func TestUpdateRequestStampsOrClearsCompletedDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	// editing to Completed stamps the date
	updated, err := svc.UpdateRequest(request.ID, &models.Request{
		DocumentType: models.DocIndigencyCertificate,
		Purpose:      "Medical assistance",
		Status:       models.RequestCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocIndigencyCertificate, updated.DocumentType)
	require.NotNil(t, updated.CompletedDate)

	// editing to any other status clears it
	updated, err = svc.UpdateRequest(request.ID, &models.Request{
		DocumentType: models.DocIndigencyCertificate,
		Purpose:      "Medical assistance",
		Status:       models.RequestInProgress,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedDate)
}

func TestUpdateRequestInvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	_, err := svc.UpdateRequest(request.ID, &models.Request{
		DocumentType: models.DocBarangayClearance,
		Status:       "Archived",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request status")
}

func TestCompletedDateConsistentAcrossLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	check := func() {
		fresh, err := svc.GetRequestByID(request.ID)
		require.NoError(t, err)
		if fresh.Status == models.RequestCompleted {
			assert.NotNil(t, fresh.CompletedDate)
		} else {
			assert.Nil(t, fresh.CompletedDate)
		}
	}

	check()
	_, err := svc.CompleteRequest(request.ID)
	require.NoError(t, err)
	check()
	_, err = svc.ReopenRequest(request.ID)
	require.NoError(t, err)
	check()
	_, err = svc.RejectRequest(request.ID)
	require.NoError(t, err)
	check()
}

func TestGetAllRequestsFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())

	pending := createTestRequest(t, svc, db, models.RequestPending)
	inProgress := createTestRequest(t, svc, db, models.RequestInProgress)
	_, err := svc.CompleteRequest(inProgress.ID)
	require.NoError(t, err)

	query := &models.PaginationQuery{Page: 1, PageSize: 10}

	all, err := svc.GetAllRequests(query, "", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	pendingOnly, err := svc.GetAllRequests(query, models.RequestPending, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pendingOnly.Total)

	byResident, err := svc.GetAllRequests(query, "", pending.ResidentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byResident.Total)

	_, err = svc.GetAllRequests(query, "Archived", 0)
	assert.Error(t, err)
}

func TestDeleteRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(db, testConfig())
	request := createTestRequest(t, svc, db, models.RequestPending)

	require.NoError(t, svc.DeleteRequest(request.ID))

	_, err := svc.GetRequestByID(request.ID)
	require.Error(t, err)
	assert.Equal(t, "request not found", err.Error())
}
