package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"brims-http-service/models"
	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// ResidentController handles resident directory requests
type ResidentController struct {
	BaseControllerImpl
}

// NewResidentController creates a new resident controller
func (f *ControllerFactory) NewResidentController(ctx *gin.Context) *ResidentController {
	return &ResidentController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// ResidentRequest is the create/update payload for a resident
type ResidentRequest struct {
	Name             string `json:"name" binding:"required" example:"Juan Dela Cruz"`
	Age              int    `json:"age" binding:"required" example:"34"`
	Gender           string `json:"gender" binding:"required" example:"Male"`
	Address          string `json:"address" binding:"required" example:"123 Mabini St, Zone 2"`
	ContactNumber    string `json:"contact_number" example:"09171234567"`
	CivilStatus      string `json:"civil_status" example:"Married"`
	EmploymentStatus string `json:"employment_status" example:"Employed"`
	EducationLevel   string `json:"education_level" example:"College"`
	ResidencyYears   int    `json:"residency_years" example:"10"`
	Status           string `json:"status" example:"Active"`
}

// HandleResidentFunc returns a gin handler for resident requests
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewResidentController(ctx)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// GetResidents lists residents with pagination and search
// @Summary      Get Resident List
// @Description  Get a paginated resident listing with name/address search and status filter
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number, default is 1" example:"1"
// @Param        page_size query int false "Items per page, default is 10" example:"10"
// @Param        search query string false "Search keyword for name or address" example:"Mabini"
// @Param        status query string false "Status filter: Active, Inactive or Transferred" example:"Active"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /residents [get]
// @Security     BearerAuth
func (c *ResidentController) GetResidents() {
	page, _ := strconv.Atoi(c.Context.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Context.DefaultQuery("page_size", "10"))
	search := c.Context.Query("search")
	status := c.Context.Query("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	result, err := residentService.GetAllResidents(&models.PaginationQuery{Page: page, PageSize: pageSize}, search, status)
	if err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "failed to query residents: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// GetResident returns a single resident
// @Summary      Get Resident By ID
// @Description  Get one resident record by ID
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "Resident ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [get]
// @Security     BearerAuth
func (c *ResidentController) GetResident() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "resident not found" {
			status = http.StatusNotFound
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    resident,
	})
}

// CreateResident adds a resident record
// @Summary      Create Resident
// @Description  Add a new resident; duplicate name or contact number is rejected
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        request body ResidentRequest true "Resident fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /residents [post]
// @Security     BearerAuth
func (c *ResidentController) CreateResident() {
	var req ResidentRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	resident := &models.Resident{
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		Address:          req.Address,
		ContactNumber:    req.ContactNumber,
		CivilStatus:      req.CivilStatus,
		EmploymentStatus: req.EmploymentStatus,
		EducationLevel:   req.EducationLevel,
		ResidencyYears:   req.ResidencyYears,
		Status:           req.Status,
		CreatedBy:        &actor.ID,
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.CreateResident(resident); err != nil {
		status := http.StatusInternalServerError
		if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.logActivity(actor, models.ActionAddResident, "Added resident %s", resident.Name)
	c.publishChange(services.EventResidentsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    resident,
	})
}

// UpdateResident edits a resident record
// @Summary      Update Resident
// @Description  Update a resident; duplicate name or contact number against other rows is rejected
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "Resident ID" example:"1"
// @Param        request body ResidentRequest true "Resident fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [put]
// @Security     BearerAuth
func (c *ResidentController) UpdateResident() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	var req ResidentRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	updates := &models.Resident{
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		Address:          req.Address,
		ContactNumber:    req.ContactNumber,
		CivilStatus:      req.CivilStatus,
		EmploymentStatus: req.EmploymentStatus,
		EducationLevel:   req.EducationLevel,
		ResidencyYears:   req.ResidencyYears,
		Status:           req.Status,
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.UpdateResident(uint(id), updates)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "resident not found" {
			status = http.StatusNotFound
		} else if isValidationError(err) {
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionEditResident, "Edited resident %s", resident.Name)
	c.publishChange(services.EventResidentsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    resident,
	})
}

// DeleteResident removes a resident record
// @Summary      Delete Resident
// @Description  Delete a resident; refused while the resident has any document request on file
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "Resident ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [delete]
// @Security     BearerAuth
func (c *ResidentController) DeleteResident() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "resident not found" {
			status = http.StatusNotFound
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	if err := residentService.DeleteResident(uint(id)); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "cannot be deleted") {
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionDeleteResident, "Deleted resident %s", resident.Name)
	c.publishChange(services.EventResidentsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    nil,
	})
}

// isValidationError classifies service errors that map to a 400
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "must be")
}
