package controllers

import (
	"net/http"
	"path/filepath"
	"sort"

	"brims-http-service/models"
	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// ExportController renders reports as downloadable CSV, PDF or XLSX
type ExportController struct {
	BaseControllerImpl
}

// NewExportController creates a new export controller
func (f *ControllerFactory) NewExportController(ctx *gin.Context) *ExportController {
	return &ExportController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleExportFunc returns a gin handler for export requests
func HandleExportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewExportController(ctx)

		switch method {
		case "exportActivity":
			controller.ExportActivity()
		case "exportResidents":
			controller.ExportResidents()
		case "exportRequests":
			controller.ExportRequests()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// writeExport renders a prepared table in the requested format and
// streams the file back as an attachment.
func (c *ExportController) writeExport(name string, table *services.ExportTable) {
	format := c.Context.DefaultQuery("format", "csv")
	exportService := c.Container.GetService("export").(services.InterfaceExportService)

	var path string
	var err error
	switch format {
	case "csv":
		path, err = exportService.ExportCSV(name, table)
	case "pdf":
		path, err = exportService.ExportPDF(name, table)
	case "xlsx":
		path, err = exportService.ExportXLSX(name, table)
	default:
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid format, expected csv, pdf or xlsx",
			"data":    nil,
		})
		return
	}
	if err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "export failed: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Context.FileAttachment(path, filepath.Base(path))
}

// ExportActivity exports the merged activity log
// @Summary      Export Activity Log
// @Description  Render the merged staff and admin activity trail as CSV, PDF or XLSX
// @Tags         Export
// @Produce      octet-stream
// @Param        format query string false "Export format: csv, pdf or xlsx, default csv" example:"pdf"
// @Param        role query string false "Trail filter: staff or admin, default both" example:"staff"
// @Success      200  {file}  file
// @Failure      500  {object}  ErrorResponse
// @Router       /exports/activity [get]
// @Security     BearerAuth
func (c *ExportController) ExportActivity() {
	role := c.Context.Query("role")
	db := c.Container.GetDB()

	// the trails are read in full here; the dashboard feed is capped and
	// cached, so it is not a valid source for an export
	var entries []services.ActivityEntry
	if role == "" || role == services.RoleStaff {
		staffEntries, _, err := queryActivityTrail(db, &models.StaffActivity{},
			staffTrailSelect, staffTrailJoin,
			"staff_activity", "staff.username", "", "", "", nil, nil, -1)
		if err != nil {
			c.respondExportQueryError(err)
			return
		}
		entries = append(entries, staffEntries...)
	}
	if role == "" || role == services.RoleAdmin {
		adminEntries, _, err := queryActivityTrail(db, &models.AdminActivity{},
			adminTrailSelect, adminTrailJoin,
			"admin_activity", "admins.username", "", "", "", nil, nil, -1)
		if err != nil {
			c.respondExportQueryError(err)
			return
		}
		entries = append(entries, adminEntries...)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	name := "activity_log"
	switch role {
	case services.RoleStaff:
		name = "staff_activity_log"
	case services.RoleAdmin:
		name = "admin_activity_log"
	}

	c.writeExport(name, services.BuildActivityTable(entries))
}

func (c *ExportController) respondExportQueryError(err error) {
	c.Context.JSON(http.StatusInternalServerError, gin.H{
		"code":    500,
		"message": "failed to load activity log: " + err.Error(),
		"data":    nil,
	})
}

// ExportResidents exports the resident demographics report
// @Summary      Export Residents
// @Description  Render the resident demographics listing as CSV, PDF or XLSX
// @Tags         Export
// @Produce      octet-stream
// @Param        format query string false "Export format: csv, pdf or xlsx, default csv" example:"csv"
// @Success      200  {file}  file
// @Failure      500  {object}  ErrorResponse
// @Router       /exports/residents [get]
// @Security     BearerAuth
func (c *ExportController) ExportResidents() {
	reportService := c.Container.GetService("report").(services.InterfaceReportService)
	rows, err := reportService.GetDemographics()
	if err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "failed to load residents: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.writeExport("residents", services.BuildResidentsTable(rows))
}

// ExportRequests exports the document request listing
// @Summary      Export Document Requests
// @Description  Render the document request listing as CSV, PDF or XLSX, optionally filtered by status
// @Tags         Export
// @Produce      octet-stream
// @Param        format query string false "Export format: csv, pdf or xlsx, default csv" example:"csv"
// @Param        status query string false "Status filter" example:"Completed"
// @Success      200  {file}  file
// @Failure      500  {object}  ErrorResponse
// @Router       /exports/requests [get]
// @Security     BearerAuth
func (c *ExportController) ExportRequests() {
	status := c.Context.Query("status")

	db := c.Container.GetDB()
	query := db.Model(&models.Request{}).Preload("Resident").Order("request_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.Request
	if err := query.Find(&requests).Error; err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "failed to load requests: " + err.Error(),
			"data":    nil,
		})
		return
	}

	rows := make([]services.RequestExportRow, 0, len(requests))
	for _, r := range requests {
		residentName := ""
		if r.Resident != nil {
			residentName = r.Resident.Name
		}
		rows = append(rows, services.RequestExportRow{
			ResidentName:  residentName,
			DocumentType:  r.DocumentType,
			Purpose:       r.Purpose,
			RequestDate:   r.RequestDate,
			Status:        r.Status,
			CompletedDate: r.CompletedDate,
		})
	}

	c.writeExport("requests", services.BuildRequestsTable(rows))
}
