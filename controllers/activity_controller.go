package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"brims-http-service/models"
	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ActivityController serves the audit trail history pages
type ActivityController struct {
	BaseControllerImpl
}

// NewActivityController creates a new activity controller
func (f *ControllerFactory) NewActivityController(ctx *gin.Context) *ActivityController {
	return &ActivityController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleActivityFunc returns a gin handler for audit trail requests
func HandleActivityFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewActivityController(ctx)

		switch method {
		case "getActivities":
			controller.GetActivities()
		case "getActivityFilters":
			controller.GetActivityFilters()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// GetActivities lists audit entries with filters
// @Summary      Get Activity History
// @Description  Paginated audit trail, staff and admin entries merged, filterable by role, action type and date range
// @Tags         Activity
// @Produce      json
// @Param        page query int false "Page number, default is 1" example:"1"
// @Param        page_size query int false "Items per page, default is 20" example:"20"
// @Param        role query string false "Role filter: staff or admin" example:"staff"
// @Param        action_type query string false "Action type filter" example:"ADD_RESIDENT"
// @Param        from query string false "Start date, YYYY-MM-DD" example:"2026-08-01"
// @Param        to query string false "End date inclusive, YYYY-MM-DD" example:"2026-08-29"
// @Param        actor query string false "Exact actor username" example:"alice"
// @Param        search query string false "Free text over action type, description and username" example:"Maria"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /activities [get]
// @Security     BearerAuth
func (c *ActivityController) GetActivities() {
	page, _ := strconv.Atoi(c.Context.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Context.DefaultQuery("page_size", "20"))
	role := c.Context.Query("role")
	actionType := c.Context.Query("action_type")
	actor := c.Context.Query("actor")
	search := c.Context.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	var from, to *time.Time
	if v := c.Context.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.Context.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid from date, expected YYYY-MM-DD",
				"data":    nil,
			})
			return
		}
		from = &parsed
	}
	if v := c.Context.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.Context.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid to date, expected YYYY-MM-DD",
				"data":    nil,
			})
			return
		}
		// the range is inclusive of the end date, so the bound is the
		// following midnight
		end := parsed.AddDate(0, 0, 1)
		to = &end
	}

	db := c.Container.GetDB()
	var entries []services.ActivityEntry
	var total int64

	if role == "" || role == services.RoleStaff {
		staffEntries, staffTotal, err := queryActivityTrail(db, &models.StaffActivity{},
			staffTrailSelect, staffTrailJoin,
			"staff_activity", "staff.username", actionType, actor, search, from, to, page*pageSize)
		if err != nil {
			c.respondQueryError(err)
			return
		}
		entries = append(entries, staffEntries...)
		total += staffTotal
	}

	if role == "" || role == services.RoleAdmin {
		adminEntries, adminTotal, err := queryActivityTrail(db, &models.AdminActivity{},
			adminTrailSelect, adminTrailJoin,
			"admin_activity", "admins.username", actionType, actor, search, from, to, page*pageSize)
		if err != nil {
			c.respondQueryError(err)
			return
		}
		entries = append(entries, adminEntries...)
		total += adminTotal
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	// both trails are over-fetched to page*page_size so the merged
	// slice below is correct for any page
	start := (page - 1) * pageSize
	if start > len(entries) {
		start = len(entries)
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	pageEntries := entries[start:end]

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"total":     total,
			"page":      page,
			"page_size": pageSize,
			"data":      pageEntries,
		},
	})
}

// Select and join clauses for the two audit trails. The admin trail has
// no role column, every row is an admin action.
const (
	staffTrailSelect = "staff.username AS actor_name, staff_activity.role AS role, staff_activity.action_type, staff_activity.description, staff_activity.ip_address, staff_activity.created_at"
	staffTrailJoin   = "LEFT JOIN staff ON staff.id = staff_activity.staff_id"
	adminTrailSelect = "admins.username AS actor_name, 'Admin' AS role, admin_activity.action_type, admin_activity.description, admin_activity.ip_address, admin_activity.created_at"
	adminTrailJoin   = "LEFT JOIN admins ON admins.id = admin_activity.admin_id"
)

// queryActivityTrail runs one filtered trail query. A fetch of -1 reads
// the whole trail.
func queryActivityTrail(db *gorm.DB, model interface{}, selectClause, joinClause, table, usernameColumn, actionType, actor, search string, from, to *time.Time, fetch int) ([]services.ActivityEntry, int64, error) {
	// the actor join stays on the query so the count sees the same rows
	// the search filter does; one actor per entry, so it cannot fan out
	query := db.Model(model).Joins(joinClause)
	if actionType != "" {
		query = query.Where(table+".action_type = ?", actionType)
	}
	if actor != "" {
		query = query.Where(usernameColumn+" = ?", actor)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			table+".action_type LIKE ? OR "+table+".description LIKE ? OR "+usernameColumn+" LIKE ?",
			pattern, pattern, pattern)
	}
	if from != nil {
		query = query.Where(table+".created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where(table+".created_at < ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []services.ActivityEntry
	err := query.
		Select(selectClause).
		Order(table + ".created_at DESC").
		Limit(fetch).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetActivityFilters returns the values for the history filter dropdowns
// @Summary      Get Activity Filter Values
// @Description  Distinct action types and actor usernames for the history filter dropdowns
// @Tags         Activity
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /activities/filters [get]
// @Security     BearerAuth
func (c *ActivityController) GetActivityFilters() {
	db := c.Container.GetDB()

	var staffActions, adminActions []string
	if err := db.Model(&models.StaffActivity{}).Distinct("action_type").Order("action_type ASC").Pluck("action_type", &staffActions).Error; err != nil {
		c.respondQueryError(err)
		return
	}
	if err := db.Model(&models.AdminActivity{}).Distinct("action_type").Order("action_type ASC").Pluck("action_type", &adminActions).Error; err != nil {
		c.respondQueryError(err)
		return
	}

	seen := make(map[string]bool, len(staffActions)+len(adminActions))
	actionTypes := make([]string, 0, len(staffActions)+len(adminActions))
	for _, a := range append(staffActions, adminActions...) {
		if !seen[a] {
			seen[a] = true
			actionTypes = append(actionTypes, a)
		}
	}
	sort.Strings(actionTypes)

	var staffNames, adminNames []string
	if err := db.Model(&models.Staff{}).Order("username ASC").Pluck("username", &staffNames).Error; err != nil {
		c.respondQueryError(err)
		return
	}
	if err := db.Model(&models.Admin{}).Order("username ASC").Pluck("username", &adminNames).Error; err != nil {
		c.respondQueryError(err)
		return
	}

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"action_types": actionTypes,
			"staff":        staffNames,
			"admins":       adminNames,
		},
	})
}

func (c *ActivityController) respondQueryError(err error) {
	c.Context.JSON(http.StatusInternalServerError, gin.H{
		"code":    500,
		"message": "failed to query activity history: " + err.Error(),
		"data":    nil,
	})
}
