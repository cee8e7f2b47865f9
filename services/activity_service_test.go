package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brims-http-service/models"
)

func TestLogStaffWritesRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db, testConfig())

	svc.LogStaff(7, models.ActionAddResident, "Added resident Maria", "", "192.168.1.10")

	var entry models.StaffActivity
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, uint(7), entry.StaffID)
	assert.Equal(t, models.ActionAddResident, entry.ActionType)
	assert.Equal(t, "Staff", entry.Role) // blank role defaults
	assert.Equal(t, "192.168.1.10", entry.IPAddress)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestLogAdminWritesRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewActivityService(db, testConfig())

	svc.LogAdmin(3, models.ActionApproveRequest, "Approved request #9", "10.1.1.1")

	var entry models.AdminActivity
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, uint(3), entry.AdminID)
	assert.Equal(t, models.ActionApproveRequest, entry.ActionType)
}

// A failed audit write must never surface to, or roll back, the action
// that triggered it.
func TestLogFailureDoesNotBlockMutation(t *testing.T) {
	db := setupTestDB(t)
	activitySvc := NewActivityService(db, testConfig())
	residentSvc := NewResidentService(db, testConfig())

	// sabotage the audit tables
	require.NoError(t, db.Migrator().DropTable(&models.StaffActivity{}))
	require.NoError(t, db.Migrator().DropTable(&models.AdminActivity{}))

	resident := newResident("Maria Santos", "09170000001")
	require.NoError(t, residentSvc.CreateResident(resident))

	// both log calls swallow the missing-table error
	assert.NotPanics(t, func() {
		activitySvc.LogStaff(1, models.ActionAddResident, "Added resident", "Staff", "")
		activitySvc.LogAdmin(1, models.ActionAddResident, "Added resident", "")
	})

	// the resident insert above stands
	fetched, err := residentSvc.GetResidentByID(resident.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", fetched.Name)
}
