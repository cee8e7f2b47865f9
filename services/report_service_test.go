package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brims-http-service/models"
)

func seedResident(t *testing.T, db *gorm.DB, name string, age int, gender, civilStatus, status string) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		Name:        name,
		Age:         age,
		Gender:      gender,
		Address:     "1 Aguinaldo St",
		CivilStatus: civilStatus,
		Status:      status,
	}
	require.NoError(t, db.Create(resident).Error)
	return resident
}

func seedRequest(t *testing.T, db *gorm.DB, residentID uint, docType, status string, requestDate time.Time, completedDate *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Request{
		ResidentID:    residentID,
		DocumentType:  docType,
		Status:        status,
		RequestDate:   requestDate,
		CompletedDate: completedDate,
	}).Error)
}

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	now := time.Now()
	r1 := seedResident(t, db, "Maria", 30, "Female", "Single", models.ResidentStatusActive)
	seedResident(t, db, "Jose", 70, "Male", "Widowed", models.ResidentStatusInactive)

	seedRequest(t, db, r1.ID, models.DocBarangayClearance, models.RequestPending, now, nil)
	seedRequest(t, db, r1.ID, models.DocCedula, models.RequestCompleted, now.AddDate(0, 0, -10), &now)
	lastWeek := now.AddDate(0, 0, -7)
	seedRequest(t, db, r1.ID, models.DocCedula, models.RequestCompleted, lastWeek, &lastWeek)

	require.NoError(t, db.Create(&models.Staff{Username: "alice", Password: "pw", Status: models.StaffStatusActive}).Error)
	require.NoError(t, db.Create(&models.Staff{Username: "bob", Password: "pw", Status: models.StaffStatusInactive}).Error)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalResidents)
	assert.Equal(t, int64(1), stats.ActiveResidents)
	assert.Equal(t, int64(2), stats.ResidentsToday)
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.PendingRequests)
	assert.Equal(t, int64(1), stats.RequestsToday)
	assert.Equal(t, int64(1), stats.CompletedToday)
	assert.Equal(t, int64(2), stats.TotalStaff)
	assert.Equal(t, int64(1), stats.ActiveStaffCount)
}

func TestGetDashboardStatsEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalResidents)
	assert.Equal(t, int64(0), stats.TotalRequests)
}

func TestGetMonthlyRequestCountsIncludesEmptyMonths(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	resident := seedResident(t, db, "Maria", 30, "Female", "Single", models.ResidentStatusActive)
	now := time.Now()
	seedRequest(t, db, resident.ID, models.DocCedula, models.RequestPending, now, nil)
	seedRequest(t, db, resident.ID, models.DocCedula, models.RequestPending, now, nil)
	twoMonthsAgo := now.AddDate(0, -2, 0)
	seedRequest(t, db, resident.ID, models.DocCedula, models.RequestPending, twoMonthsAgo, nil)

	buckets, err := svc.GetMonthlyRequestCounts(6)
	require.NoError(t, err)
	require.Len(t, buckets, 6)

	assert.Equal(t, now.Format("2006-01"), buckets[5].Label)
	assert.Equal(t, int64(2), buckets[5].Count)
	assert.Equal(t, twoMonthsAgo.Format("2006-01"), buckets[3].Label)
	assert.Equal(t, int64(1), buckets[3].Count)
	// the months in between stay present at zero
	assert.Equal(t, int64(0), buckets[4].Count)
	assert.Equal(t, int64(0), buckets[0].Count)
}

func TestGetRequestTypeCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	resident := seedResident(t, db, "Maria", 30, "Female", "Single", models.ResidentStatusActive)
	now := time.Now()
	seedRequest(t, db, resident.ID, models.DocBarangayClearance, models.RequestPending, now, nil)
	seedRequest(t, db, resident.ID, models.DocBarangayClearance, models.RequestPending, now, nil)
	seedRequest(t, db, resident.ID, models.DocCedula, models.RequestPending, now, nil)

	buckets, err := svc.GetRequestTypeCounts()
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, models.DocBarangayClearance, buckets[0].Label)
	assert.Equal(t, int64(2), buckets[0].Count)
}

func TestGetAgeBracketsVariants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	ages := []int{5, 17, 18, 35, 36, 55, 63, 70}
	for i, age := range ages {
		seedResident(t, db, "R"+string(rune('A'+i)), age, "Male", "Single", models.ResidentStatusActive)
	}

	staffBuckets, err := svc.GetAgeBrackets(AgeBracketsStaff)
	require.NoError(t, err)
	require.Len(t, staffBuckets, 4)
	assert.Equal(t, "0-17", staffBuckets[0].Label)
	assert.Equal(t, int64(2), staffBuckets[0].Count)
	assert.Equal(t, int64(2), staffBuckets[1].Count) // 18-35
	assert.Equal(t, int64(2), staffBuckets[2].Count) // 36-60
	assert.Equal(t, int64(2), staffBuckets[3].Count) // 61+

	// the same population lands differently under the admin brackets
	adminBuckets, err := svc.GetAgeBrackets(AgeBracketsAdmin)
	require.NoError(t, err)
	require.Len(t, adminBuckets, 5)
	assert.Equal(t, int64(2), adminBuckets[0].Count) // 0-17
	assert.Equal(t, int64(2), adminBuckets[1].Count) // 18-35
	assert.Equal(t, int64(1), adminBuckets[2].Count) // 36-50
	assert.Equal(t, int64(2), adminBuckets[3].Count) // 51-65
	assert.Equal(t, int64(1), adminBuckets[4].Count) // 66+
}

func TestGetAgeBracketsAdminBoundaries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	// one resident per admin bracket boundary
	for i, age := range []int{17, 35, 50, 65, 66} {
		seedResident(t, db, "B"+string(rune('A'+i)), age, "Female", "Single", models.ResidentStatusActive)
	}

	buckets, err := svc.GetAgeBrackets(AgeBracketsAdmin)
	require.NoError(t, err)
	require.Len(t, buckets, 5)
	for i, expected := range []int64{1, 1, 1, 1, 1} {
		assert.Equal(t, expected, buckets[i].Count, "bracket %s", buckets[i].Label)
	}

	// an unknown variant falls back to the staff brackets
	fallback, err := svc.GetAgeBrackets("weekly")
	require.NoError(t, err)
	assert.Len(t, fallback, 4)
}

func TestGetGenderAndCivilStatusDistribution(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	seedResident(t, db, "A", 20, "Female", "Single", models.ResidentStatusActive)
	seedResident(t, db, "B", 30, "Female", "Married", models.ResidentStatusActive)
	seedResident(t, db, "C", 40, "Male", "Married", models.ResidentStatusActive)

	genders, err := svc.GetGenderDistribution()
	require.NoError(t, err)
	require.Len(t, genders, 2)
	assert.Equal(t, "Female", genders[0].Label)
	assert.Equal(t, int64(2), genders[0].Count)

	civil, err := svc.GetCivilStatusDistribution()
	require.NoError(t, err)
	require.Len(t, civil, 2)
	assert.Equal(t, "Married", civil[0].Label)
}

func TestGetTopActionsMergesTrails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)
	activity := NewActivityService(db, testConfig())

	require.NoError(t, db.Create(&models.Staff{Username: "alice", Password: "pw"}).Error)
	require.NoError(t, db.Create(&models.Admin{Username: "root", Password: "pw"}).Error)

	for i := 0; i < 3; i++ {
		activity.LogStaff(1, models.ActionAddResident, "added", "Staff", "")
	}
	activity.LogStaff(1, models.ActionAddRequest, "added", "Staff", "")
	activity.LogAdmin(1, models.ActionAddResident, "added", "")
	activity.LogAdmin(1, models.ActionApproveRequest, "approved", "")

	// an old entry outside the window is excluded
	old := models.StaffActivity{StaffID: 1, ActionType: models.ActionDeleteResident, Role: "Staff"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&models.StaffActivity{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -30)).Error)

	buckets, err := svc.GetTopActions(7, 5)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	// ADD_RESIDENT counts from both trails are summed
	assert.Equal(t, models.ActionAddResident, buckets[0].Label)
	assert.Equal(t, int64(4), buckets[0].Count)

	// the staff-only variant ignores the admin trail
	staffOnly, err := svc.GetTopStaffActions(7, 5)
	require.NoError(t, err)
	require.Len(t, staffOnly, 2)
	assert.Equal(t, models.ActionAddResident, staffOnly[0].Label)
	assert.Equal(t, int64(3), staffOnly[0].Count)
}

func TestGetStaffDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)
	activity := NewActivityService(db, testConfig())

	require.NoError(t, db.Create(&models.Staff{Username: "alice", Password: "pw"}).Error)
	require.NoError(t, db.Create(&models.Staff{Username: "bob", Password: "pw"}).Error)

	activity.LogStaff(1, models.ActionAddRequest, "added a request", "Staff", "")
	activity.LogStaff(1, models.ActionCompleteReq, "completed a request", "Staff", "")
	activity.LogStaff(1, models.ActionAddResident, "added a resident", "Staff", "")
	activity.LogStaff(1, models.ActionLogin, "logged in", "Staff", "")
	// another staff member's rows are not counted
	activity.LogStaff(2, models.ActionAddRequest, "added a request", "Staff", "")

	dashboard, err := svc.GetStaffDashboard(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.RequestActionsToday)
	assert.Equal(t, int64(1), dashboard.ResidentsAddedToday)
	require.Len(t, dashboard.RecentActivity, 4)
	for _, e := range dashboard.RecentActivity {
		assert.Equal(t, "alice", e.ActorName)
	}
}

func TestGetRecentActivityMergedAndLimited(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)
	activity := NewActivityService(db, testConfig())

	require.NoError(t, db.Create(&models.Staff{Username: "alice", Password: "pw"}).Error)
	require.NoError(t, db.Create(&models.Admin{Username: "root", Password: "pw"}).Error)

	for i := 0; i < 4; i++ {
		activity.LogStaff(1, models.ActionAddResident, "staff action", "Staff", "10.0.0.1")
	}
	for i := 0; i < 4; i++ {
		activity.LogAdmin(1, models.ActionApproveRequest, "admin action", "10.0.0.2")
	}

	entries, err := svc.GetRecentActivity(5)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt), "entries must be newest first")
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.ActorName] = true
	}
	// rows from both trails are present
	assert.True(t, names["alice"] || names["root"])
}

func TestGetDemographics(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	seedResident(t, db, "Zeta", 20, "Female", "Single", models.ResidentStatusActive)
	seedResident(t, db, "Alpha", 30, "Male", "Married", models.ResidentStatusActive)

	rows, err := svc.GetDemographics()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Name)
	assert.Equal(t, 30, rows[0].Age)
}

func TestGetDemographicsSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	seedResident(t, db, "A", 20, "Female", "Single", models.ResidentStatusActive)
	seedResident(t, db, "B", 30, "Female", "Married", models.ResidentStatusActive)
	seedResident(t, db, "C", 40, "Male", "Married", models.ResidentStatusActive)

	summary, err := svc.GetDemographicsSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalResidents)
	assert.InDelta(t, 30.0, summary.AverageAge, 0.01)
	require.Len(t, summary.GenderRatio, 2)
	assert.Equal(t, "Female", summary.GenderRatio[0].Label)
	assert.Equal(t, int64(2), summary.GenderRatio[0].Count)
}

func TestGetDemographicsSummaryEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(db, testConfig(), nil)

	summary, err := svc.GetDemographicsSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalResidents)
	assert.Equal(t, 0.0, summary.AverageAge)
	assert.Empty(t, summary.GenderRatio)
}
