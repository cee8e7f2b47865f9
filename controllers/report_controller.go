package controllers

import (
	"net/http"
	"strconv"

	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// ReportController handles dashboard and infographics requests
type ReportController struct {
	BaseControllerImpl
}

// NewReportController creates a new report controller
func (f *ControllerFactory) NewReportController(ctx *gin.Context) *ReportController {
	return &ReportController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleReportFunc returns a gin handler for report requests
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewReportController(ctx)

		switch method {
		case "getDashboardStats":
			controller.GetDashboardStats()
		case "getStaffDashboard":
			controller.GetStaffDashboard()
		case "getMonthlyRequests":
			controller.GetMonthlyRequests()
		case "getRequestTypes":
			controller.GetRequestTypes()
		case "getAgeBrackets":
			controller.GetAgeBrackets()
		case "getGenderDistribution":
			controller.GetGenderDistribution()
		case "getCivilStatusDistribution":
			controller.GetCivilStatusDistribution()
		case "getTopActions":
			controller.GetTopActions()
		case "getRecentActivity":
			controller.GetRecentActivity()
		case "getDemographics":
			controller.GetDemographics()
		case "getDemographicsSummary":
			controller.GetDemographicsSummary()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

func (c *ReportController) reportService() services.InterfaceReportService {
	return c.Container.GetService("report").(services.InterfaceReportService)
}

func (c *ReportController) respond(data interface{}, err error) {
	if err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "failed to build report: " + err.Error(),
			"data":    nil,
		})
		return
	}
	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// GetDashboardStats returns the headline dashboard counters
// @Summary      Get Dashboard Stats
// @Description  Headline counters: residents, requests, today's activity and staff totals
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/dashboard [get]
// @Security     BearerAuth
func (c *ReportController) GetDashboardStats() {
	stats, err := c.reportService().GetDashboardStats()
	c.respond(stats, err)
}

// GetStaffDashboard returns the caller's own daily counters and feed
// @Summary      Get Staff Dashboard
// @Description  Today's request actions and residents added by the logged-in staff member, with their latest activity
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/dashboard/me [get]
// @Security     BearerAuth
func (c *ReportController) GetStaffDashboard() {
	actor := c.currentActor()
	dashboard, err := c.reportService().GetStaffDashboard(actor.ID)
	c.respond(dashboard, err)
}

// GetMonthlyRequests returns per-month request counts
// @Summary      Get Monthly Request Counts
// @Description  Requests bucketed by calendar month, oldest first; empty months included
// @Tags         Report
// @Produce      json
// @Param        months query int false "Number of trailing months, default 6" example:"6"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/requests/monthly [get]
// @Security     BearerAuth
func (c *ReportController) GetMonthlyRequests() {
	months, _ := strconv.Atoi(c.Context.DefaultQuery("months", "6"))
	buckets, err := c.reportService().GetMonthlyRequestCounts(months)
	c.respond(buckets, err)
}

// GetRequestTypes returns counts per document type
// @Summary      Get Request Type Counts
// @Description  Request counts grouped by document type, most requested first
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/requests/types [get]
// @Security     BearerAuth
func (c *ReportController) GetRequestTypes() {
	buckets, err := c.reportService().GetRequestTypeCounts()
	c.respond(buckets, err)
}

// GetAgeBrackets returns resident counts per age bracket
// @Summary      Get Age Brackets
// @Description  Resident counts per age bracket; the staff and admin dashboards use different bracket boundaries
// @Tags         Report
// @Produce      json
// @Param        variant query string false "Bracket variant: staff or admin, default staff" example:"admin"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/residents/age-brackets [get]
// @Security     BearerAuth
func (c *ReportController) GetAgeBrackets() {
	variant := c.Context.DefaultQuery("variant", services.AgeBracketsStaff)
	buckets, err := c.reportService().GetAgeBrackets(variant)
	c.respond(buckets, err)
}

// GetGenderDistribution returns resident counts per gender
// @Summary      Get Gender Distribution
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/residents/gender [get]
// @Security     BearerAuth
func (c *ReportController) GetGenderDistribution() {
	buckets, err := c.reportService().GetGenderDistribution()
	c.respond(buckets, err)
}

// GetCivilStatusDistribution returns resident counts per civil status
// @Summary      Get Civil Status Distribution
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/residents/civil-status [get]
// @Security     BearerAuth
func (c *ReportController) GetCivilStatusDistribution() {
	buckets, err := c.reportService().GetCivilStatusDistribution()
	c.respond(buckets, err)
}

// GetTopActions returns the most frequent recent activity types
// @Summary      Get Top Activity Actions
// @Description  Most frequent action types over a trailing window, staff and admin trails combined
// @Tags         Report
// @Produce      json
// @Param        days query int false "Trailing window in days, default 7" example:"7"
// @Param        limit query int false "Number of action types, default 5" example:"5"
// @Param        scope query string false "staff counts the staff trail only, default all" example:"staff"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/activity/top-actions [get]
// @Security     BearerAuth
func (c *ReportController) GetTopActions() {
	days, _ := strconv.Atoi(c.Context.DefaultQuery("days", "7"))
	limit, _ := strconv.Atoi(c.Context.DefaultQuery("limit", "5"))

	var buckets []services.CountBucket
	var err error
	if c.Context.Query("scope") == "staff" {
		buckets, err = c.reportService().GetTopStaffActions(days, limit)
	} else {
		buckets, err = c.reportService().GetTopActions(days, limit)
	}
	c.respond(buckets, err)
}

// GetRecentActivity returns the merged recent-activity feed
// @Summary      Get Recent Activity
// @Description  Newest audit entries from the staff and admin trails merged into one feed
// @Tags         Report
// @Produce      json
// @Param        limit query int false "Number of entries, default 5" example:"5"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/activity/recent [get]
// @Security     BearerAuth
func (c *ReportController) GetRecentActivity() {
	limit, _ := strconv.Atoi(c.Context.DefaultQuery("limit", "5"))
	entries, err := c.reportService().GetRecentActivity(limit)
	c.respond(entries, err)
}

// GetDemographics returns the full resident demographics listing
// @Summary      Get Resident Demographics
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/residents/demographics [get]
// @Security     BearerAuth
func (c *ReportController) GetDemographics() {
	rows, err := c.reportService().GetDemographics()
	c.respond(rows, err)
}

// GetDemographicsSummary returns the aggregate demographics figures
// @Summary      Get Demographics Summary
// @Description  Resident count, average age and gender split for the demographics panel
// @Tags         Report
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /reports/residents/demographics/summary [get]
// @Security     BearerAuth
func (c *ReportController) GetDemographicsSummary() {
	summary, err := c.reportService().GetDemographicsSummary()
	c.respond(summary, err)
}
