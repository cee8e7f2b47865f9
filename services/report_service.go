package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"brims-http-service/config"
	"brims-http-service/models"
)

// DashboardStats is the headline counter block shown on both dashboards.
type DashboardStats struct {
	TotalResidents   int64 `json:"total_residents"`
	ActiveResidents  int64 `json:"active_residents"`
	ResidentsToday   int64 `json:"residents_today"`
	TotalRequests    int64 `json:"total_requests"`
	PendingRequests  int64 `json:"pending_requests"`
	RequestsToday    int64 `json:"requests_today"`
	CompletedToday   int64 `json:"completed_today"`
	TotalStaff       int64 `json:"total_staff"`
	ActiveStaffCount int64 `json:"active_staff_count"`
}

// StaffDashboard is the per-staff counter block: what this staff member
// did today, plus their own latest activity.
type StaffDashboard struct {
	RequestActionsToday int64           `json:"request_actions_today"`
	ResidentsAddedToday int64           `json:"residents_added_today"`
	RecentActivity      []ActivityEntry `json:"recent_activity"`
}

// CountBucket is a generic label/count pair used by the chart endpoints.
type CountBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ActivityEntry is one row of the merged recent-activity feed.
type ActivityEntry struct {
	ActorName   string    `json:"actor_name"`
	Role        string    `json:"role"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// DemographicsRow is one resident row of the demographics report.
type DemographicsRow struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	ContactNumber    string `json:"contact_number"`
	CivilStatus      string `json:"civil_status"`
	EmploymentStatus string `json:"employment_status"`
	EducationLevel   string `json:"education_level"`
	ResidencyYears   int    `json:"residency_years"`
	Status           string `json:"status"`
}

// DemographicsSummary carries the aggregate figures shown above the
// demographics table.
type DemographicsSummary struct {
	TotalResidents int64         `json:"total_residents"`
	AverageAge     float64       `json:"average_age"`
	GenderRatio    []CountBucket `json:"gender_ratio"`
}

type InterfaceReportService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetStaffDashboard(staffID uint) (*StaffDashboard, error)
	GetMonthlyRequestCounts(months int) ([]CountBucket, error)
	GetRequestTypeCounts() ([]CountBucket, error)
	GetAgeBrackets(variant string) ([]CountBucket, error)
	GetGenderDistribution() ([]CountBucket, error)
	GetCivilStatusDistribution() ([]CountBucket, error)
	GetTopActions(days, limit int) ([]CountBucket, error)
	GetTopStaffActions(days, limit int) ([]CountBucket, error)
	GetRecentActivity(limit int) ([]ActivityEntry, error)
	GetDemographics() ([]DemographicsRow, error)
	GetDemographicsSummary() (*DemographicsSummary, error)
	InvalidateCache() error
}

type ReportService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
}

// Age bracket variants. The staff dashboard uses four coarse brackets,
// the admin infographics page uses five narrower ones.
const (
	AgeBracketsStaff = "staff"
	AgeBracketsAdmin = "admin"
)

const reportCachePrefix = "report:"

func NewReportService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceReportService {
	return &ReportService{DB: db, Config: cfg, Redis: redis}
}

// cacheGet tries the Redis read-through cache. Cache errors are
// treated as misses so reporting degrades to plain DB reads.
func (s *ReportService) cacheGet(key string, dest interface{}) bool {
	if s.Redis == nil || !s.Config.ReportCacheEnabled() {
		return false
	}
	return s.Redis.Get(reportCachePrefix+key, dest) == nil
}

func (s *ReportService) cachePut(key string, value interface{}) {
	if s.Redis == nil || !s.Config.ReportCacheEnabled() {
		return
	}
	ttl := time.Duration(s.Config.ReportCacheTTL) * time.Second
	if err := s.Redis.Set(reportCachePrefix+key, value, ttl); err != nil {
		config.Warning("failed to cache report %s: %v", key, err)
	}
}

// InvalidateCache drops every cached report aggregate. Called whenever
// residents, requests or user accounts change.
func (s *ReportService) InvalidateCache() error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.DeletePrefix(reportCachePrefix)
}

func (s *ReportService) GetDashboardStats() (*DashboardStats, error) {
	var hit DashboardStats
	if s.cacheGet("dashboard_stats", &hit) {
		return &hit, nil
	}

	stats := &DashboardStats{}
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalResidents, s.DB.Model(&models.Resident{})},
		{&stats.ActiveResidents, s.DB.Model(&models.Resident{}).Where("status = ?", models.ResidentStatusActive)},
		{&stats.ResidentsToday, s.DB.Model(&models.Resident{}).Where("created_at >= ? AND created_at < ?", dayStart, dayEnd)},
		{&stats.TotalRequests, s.DB.Model(&models.Request{})},
		{&stats.PendingRequests, s.DB.Model(&models.Request{}).Where("status = ?", models.RequestPending)},
		{&stats.RequestsToday, s.DB.Model(&models.Request{}).Where("request_date >= ? AND request_date < ?", dayStart, dayEnd)},
		{&stats.CompletedToday, s.DB.Model(&models.Request{}).Where("status = ? AND completed_date >= ? AND completed_date < ?", models.RequestCompleted, dayStart, dayEnd)},
		{&stats.TotalStaff, s.DB.Model(&models.Staff{})},
		{&stats.ActiveStaffCount, s.DB.Model(&models.Staff{}).Where("status = ?", models.StaffStatusActive)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	s.cachePut("dashboard_stats", stats)
	return stats, nil
}

// GetStaffDashboard counts what one staff member did today from their
// activity trail, and returns their own five latest actions. Not cached,
// the queries are cheap and the feed must reflect the current session.
func (s *ReportService) GetStaffDashboard(staffID uint) (*StaffDashboard, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	dashboard := &StaffDashboard{}

	err := s.DB.Model(&models.StaffActivity{}).
		Where("staff_id = ? AND created_at >= ? AND created_at < ?", staffID, dayStart, dayEnd).
		Where("action_type LIKE ?", "%REQUEST%").
		Count(&dashboard.RequestActionsToday).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.StaffActivity{}).
		Where("staff_id = ? AND created_at >= ? AND created_at < ?", staffID, dayStart, dayEnd).
		Where("action_type = ?", models.ActionAddResident).
		Count(&dashboard.ResidentsAddedToday).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.StaffActivity{}).
		Select("staff.username AS actor_name, staff_activity.role AS role, staff_activity.action_type, staff_activity.description, staff_activity.ip_address, staff_activity.created_at").
		Joins("LEFT JOIN staff ON staff.id = staff_activity.staff_id").
		Where("staff_activity.staff_id = ?", staffID).
		Order("staff_activity.created_at DESC").
		Limit(5).
		Scan(&dashboard.RecentActivity).Error
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

// GetMonthlyRequestCounts buckets requests by calendar month for the
// last `months` months, oldest first. Empty months appear with count 0.
func (s *ReportService) GetMonthlyRequestCounts(months int) ([]CountBucket, error) {
	if months <= 0 {
		months = 6
	}
	key := fmt.Sprintf("monthly_requests_%d", months)

	var hit []CountBucket
	if s.cacheGet(key, &hit) {
		return hit, nil
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	var requests []models.Request
	if err := s.DB.Select("request_date").Where("request_date >= ?", start).Find(&requests).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]int64)
	for _, r := range requests {
		byMonth[r.RequestDate.Format("2006-01")]++
	}

	buckets := make([]CountBucket, 0, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		buckets = append(buckets, CountBucket{Label: month, Count: byMonth[month]})
	}

	s.cachePut(key, buckets)
	return buckets, nil
}

func (s *ReportService) GetRequestTypeCounts() ([]CountBucket, error) {
	return s.groupCount("request_types", &models.Request{}, "document_type")
}

func (s *ReportService) GetGenderDistribution() ([]CountBucket, error) {
	return s.groupCount("gender_distribution", &models.Resident{}, "gender")
}

func (s *ReportService) GetCivilStatusDistribution() ([]CountBucket, error) {
	return s.groupCount("civil_status_distribution", &models.Resident{}, "civil_status")
}

func (s *ReportService) groupCount(key string, model interface{}, column string) ([]CountBucket, error) {
	var hit []CountBucket
	if s.cacheGet(key, &hit) {
		return hit, nil
	}

	var rows []CountBucket
	err := s.DB.Model(model).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s.cachePut(key, rows)
	return rows, nil
}

// GetAgeBrackets counts residents per age bracket. The two dashboards
// historically use different bracket boundaries, so both are kept.
func (s *ReportService) GetAgeBrackets(variant string) ([]CountBucket, error) {
	type bracket struct {
		label    string
		min, max int
	}
	var brackets []bracket
	switch variant {
	case AgeBracketsAdmin:
		brackets = []bracket{
			{"0-17", 0, 17},
			{"18-35", 18, 35},
			{"36-50", 36, 50},
			{"51-65", 51, 65},
			{"66+", 66, 200},
		}
	default:
		variant = AgeBracketsStaff
		brackets = []bracket{
			{"0-17", 0, 17},
			{"18-35", 18, 35},
			{"36-60", 36, 60},
			{"61+", 61, 200},
		}
	}

	key := "age_brackets_" + variant
	var hit []CountBucket
	if s.cacheGet(key, &hit) {
		return hit, nil
	}

	buckets := make([]CountBucket, 0, len(brackets))
	for _, b := range brackets {
		var count int64
		err := s.DB.Model(&models.Resident{}).
			Where("age BETWEEN ? AND ?", b.min, b.max).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, CountBucket{Label: b.label, Count: count})
	}

	s.cachePut(key, buckets)
	return buckets, nil
}

// GetTopActions returns the most frequent activity action types over
// the trailing window, staff and admin activity combined.
func (s *ReportService) GetTopActions(days, limit int) ([]CountBucket, error) {
	return s.topActions("top_actions", days, limit, true)
}

// GetTopStaffActions is the staff-dashboard variant, counted over the
// staff trail only.
func (s *ReportService) GetTopStaffActions(days, limit int) ([]CountBucket, error) {
	return s.topActions("top_staff_actions", days, limit, false)
}

func (s *ReportService) topActions(name string, days, limit int, includeAdmin bool) ([]CountBucket, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 5
	}
	key := fmt.Sprintf("%s_%d_%d", name, days, limit)

	var hit []CountBucket
	if s.cacheGet(key, &hit) {
		return hit, nil
	}

	since := time.Now().AddDate(0, 0, -days)

	var staffRows []CountBucket
	err := s.DB.Model(&models.StaffActivity{}).
		Select("action_type AS label, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("action_type").
		Scan(&staffRows).Error
	if err != nil {
		return nil, err
	}

	var adminRows []CountBucket
	if includeAdmin {
		err = s.DB.Model(&models.AdminActivity{}).
			Select("action_type AS label, COUNT(*) AS count").
			Where("created_at >= ?", since).
			Group("action_type").
			Scan(&adminRows).Error
		if err != nil {
			return nil, err
		}
	}

	merged := make(map[string]int64)
	for _, r := range staffRows {
		merged[r.Label] += r.Count
	}
	for _, r := range adminRows {
		merged[r.Label] += r.Count
	}

	buckets := make([]CountBucket, 0, len(merged))
	for label, count := range merged {
		buckets = append(buckets, CountBucket{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if len(buckets) > limit {
		buckets = buckets[:limit]
	}

	s.cachePut(key, buckets)
	return buckets, nil
}

// GetRecentActivity merges the staff and admin activity trails into one
// feed ordered by time, newest first.
func (s *ReportService) GetRecentActivity(limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 5
	}
	key := fmt.Sprintf("recent_activity_%d", limit)

	var hit []ActivityEntry
	if s.cacheGet(key, &hit) {
		return hit, nil
	}

	var staffEntries []ActivityEntry
	err := s.DB.Model(&models.StaffActivity{}).
		Select("staff.username AS actor_name, staff_activity.role AS role, staff_activity.action_type, staff_activity.description, staff_activity.ip_address, staff_activity.created_at").
		Joins("LEFT JOIN staff ON staff.id = staff_activity.staff_id").
		Order("staff_activity.created_at DESC").
		Limit(limit).
		Scan(&staffEntries).Error
	if err != nil {
		return nil, err
	}

	var adminEntries []ActivityEntry
	err = s.DB.Model(&models.AdminActivity{}).
		Select("admins.username AS actor_name, 'Admin' AS role, admin_activity.action_type, admin_activity.description, admin_activity.ip_address, admin_activity.created_at").
		Joins("LEFT JOIN admins ON admins.id = admin_activity.admin_id").
		Order("admin_activity.created_at DESC").
		Limit(limit).
		Scan(&adminEntries).Error
	if err != nil {
		return nil, err
	}

	entries := append(staffEntries, adminEntries...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	s.cachePut(key, entries)
	return entries, nil
}

func (s *ReportService) GetDemographics() ([]DemographicsRow, error) {
	var hit []DemographicsRow
	if s.cacheGet("demographics", &hit) {
		return hit, nil
	}

	var rows []DemographicsRow
	err := s.DB.Model(&models.Resident{}).
		Select("name, age, gender, address, contact_number, civil_status, employment_status, education_level, residency_years, status").
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s.cachePut("demographics", rows)
	return rows, nil
}

// GetDemographicsSummary computes the headline figures above the
// demographics table: resident count, average age and the gender split.
func (s *ReportService) GetDemographicsSummary() (*DemographicsSummary, error) {
	var hit DemographicsSummary
	if s.cacheGet("demographics_summary", &hit) {
		return &hit, nil
	}

	summary := &DemographicsSummary{}
	if err := s.DB.Model(&models.Resident{}).Count(&summary.TotalResidents).Error; err != nil {
		return nil, err
	}

	if summary.TotalResidents > 0 {
		var avg struct {
			Avg float64
		}
		err := s.DB.Model(&models.Resident{}).
			Select("AVG(age) AS avg").
			Scan(&avg).Error
		if err != nil {
			return nil, err
		}
		summary.AverageAge = avg.Avg
	}

	genders, err := s.GetGenderDistribution()
	if err != nil {
		return nil, err
	}
	summary.GenderRatio = genders

	s.cachePut("demographics_summary", summary)
	return summary, nil
}
