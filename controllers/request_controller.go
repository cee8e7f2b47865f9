package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"brims-http-service/models"
	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// RequestController handles document request workflow requests
type RequestController struct {
	BaseControllerImpl
}

// NewRequestController creates a new request controller
func (f *ControllerFactory) NewRequestController(ctx *gin.Context) *RequestController {
	return &RequestController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// CreateRequestRequest is the payload for opening a document request
type CreateRequestRequest struct {
	ResidentID   uint   `json:"resident_id" binding:"required" example:"1"`
	DocumentType string `json:"document_type" binding:"required" example:"Barangay Clearance"`
	Purpose      string `json:"purpose" example:"Employment requirement"`
	Status       string `json:"status" example:"Pending"`
	RequestDate  string `json:"request_date" example:"2026-08-29 10:30:00"`
}

// UpdateRequestRequest is the payload for the request edit form
type UpdateRequestRequest struct {
	DocumentType string  `json:"document_type" binding:"required" example:"Barangay Clearance"`
	Purpose      string  `json:"purpose" example:"Employment requirement"`
	Status       string  `json:"status" binding:"required" example:"In Progress"`
	StaffNotes   *string `json:"staff_notes" example:"Verified address"`
}

// HandleRequestFunc returns a gin handler for document request requests
func HandleRequestFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewRequestController(ctx)

		switch method {
		case "getRequests":
			controller.GetRequests()
		case "getRequest":
			controller.GetRequest()
		case "createRequest":
			controller.CreateRequest()
		case "updateRequest":
			controller.UpdateRequest()
		case "deleteRequest":
			controller.DeleteRequest()
		case "completeRequest":
			controller.CompleteRequest()
		case "approveRequest":
			controller.ApproveRequest()
		case "rejectRequest":
			controller.RejectRequest()
		case "reopenRequest":
			controller.ReopenRequest()
		case "getDocumentTypes":
			controller.GetDocumentTypes()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// GetRequests lists document requests with pagination and filters
// @Summary      Get Document Request List
// @Description  Get a paginated request listing, filterable by status and resident
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number, default is 1" example:"1"
// @Param        page_size query int false "Items per page, default is 10" example:"10"
// @Param        status query string false "Status filter" example:"Pending"
// @Param        resident_id query int false "Resident filter" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /requests [get]
// @Security     BearerAuth
func (c *RequestController) GetRequests() {
	page, _ := strconv.Atoi(c.Context.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Context.DefaultQuery("page_size", "10"))
	status := c.Context.Query("status")
	residentID, _ := strconv.Atoi(c.Context.DefaultQuery("resident_id", "0"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	result, err := requestService.GetAllRequests(&models.PaginationQuery{Page: page, PageSize: pageSize}, status, uint(residentID))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if isValidationError(err) {
			statusCode = http.StatusBadRequest
		}
		c.Context.JSON(statusCode, gin.H{
			"code":    statusCode,
			"message": err.Error(),
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

// GetRequest returns a single document request
// @Summary      Get Document Request By ID
// @Description  Get one document request with its resident, logging a view action
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id} [get]
// @Security     BearerAuth
func (c *RequestController) GetRequest() {
	request, ok := c.loadRequest()
	if !ok {
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionViewRequest, "Viewed request #%d (%s)", request.ID, request.DocumentType)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    request,
	})
}

// CreateRequest opens a document request for a resident
// @Summary      Create Document Request
// @Description  Open a document request; a new request may start at Pending or In Progress only
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        request body CreateRequestRequest true "Request fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /requests [post]
// @Security     BearerAuth
func (c *RequestController) CreateRequest() {
	var req CreateRequestRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	request := &models.Request{
		ResidentID:   req.ResidentID,
		DocumentType: req.DocumentType,
		Purpose:      req.Purpose,
		Status:       req.Status,
		CreatedBy:    &actor.ID,
	}
	if req.RequestDate != "" {
		parsed, err := time.ParseInLocation(services.ExportTimeFormat, req.RequestDate, time.Local)
		if err != nil {
			c.Context.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid request_date, expected YYYY-MM-DD HH:MM:SS",
				"data":    nil,
			})
			return
		}
		request.RequestDate = parsed
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	if err := requestService.CreateRequest(request); err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "resident not found" {
			status = http.StatusNotFound
		} else if isValidationError(err) || strings.Contains(err.Error(), "cannot start") || strings.Contains(err.Error(), "unknown document type") {
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.logActivity(actor, models.ActionAddRequest, "Added request #%d (%s)", request.ID, request.DocumentType)
	c.publishChange(services.EventRequestsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    request,
	})
}

// UpdateRequest edits a document request
// @Summary      Update Document Request
// @Description  Apply the edit form; an edit to Completed stamps the completion date, any other status clears it
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Param        request body UpdateRequestRequest true "Request fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id} [put]
// @Security     BearerAuth
func (c *RequestController) UpdateRequest() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	var req UpdateRequestRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	updates := &models.Request{
		DocumentType: req.DocumentType,
		Purpose:      req.Purpose,
		Status:       req.Status,
		StaffNotes:   req.StaffNotes,
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	request, err := requestService.UpdateRequest(uint(id), updates)
	if err != nil {
		c.respondTransitionError(err)
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionEditRequest, "Edited request #%d (%s)", request.ID, request.DocumentType)
	c.publishChange(services.EventRequestsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    request,
	})
}

// DeleteRequest removes a document request
// @Summary      Delete Document Request
// @Description  Delete one document request
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id} [delete]
// @Security     BearerAuth
func (c *RequestController) DeleteRequest() {
	request, ok := c.loadRequest()
	if !ok {
		return
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	if err := requestService.DeleteRequest(request.ID); err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionDeleteRequest, "Deleted request #%d (%s)", request.ID, request.DocumentType)
	c.publishChange(services.EventRequestsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    nil,
	})
}

// CompleteRequest marks a request completed (staff action)
// @Summary      Complete Document Request
// @Description  Move a Pending or In Progress request to Completed, stamping the completion date once
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/complete [post]
// @Security     BearerAuth
func (c *RequestController) CompleteRequest() {
	c.transition(models.ActionCompleteReq, "Completed request #%d", func(svc services.InterfaceRequestService, id uint) (*models.Request, error) {
		return svc.CompleteRequest(id)
	})
}

// ApproveRequest marks a request completed (admin action)
// @Summary      Approve Document Request
// @Description  Admin approval: move a Pending or In Progress request to Completed
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/approve [post]
// @Security     BearerAuth
func (c *RequestController) ApproveRequest() {
	c.transition(models.ActionApproveRequest, "Approved request #%d", func(svc services.InterfaceRequestService, id uint) (*models.Request, error) {
		return svc.ApproveRequest(id)
	})
}

// RejectRequest rejects a request (admin action)
// @Summary      Reject Document Request
// @Description  Move a Pending or In Progress request to Rejected; the completion date stays empty
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/reject [post]
// @Security     BearerAuth
func (c *RequestController) RejectRequest() {
	c.transition(models.ActionRejectRequest, "Rejected request #%d", func(svc services.InterfaceRequestService, id uint) (*models.Request, error) {
		return svc.RejectRequest(id)
	})
}

// ReopenRequest sends a completed request back to In Progress (admin action)
// @Summary      Reopen Document Request
// @Description  Move a Completed request back to In Progress and clear the completion date
// @Tags         Request
// @Accept       json
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/reopen [post]
// @Security     BearerAuth
func (c *RequestController) ReopenRequest() {
	c.transition(models.ActionReopenRequest, "Reopened request #%d", func(svc services.InterfaceRequestService, id uint) (*models.Request, error) {
		return svc.ReopenRequest(id)
	})
}

// GetDocumentTypes lists the documents the barangay issues
// @Summary      Get Document Types
// @Description  List every document type a request may be filed for
// @Tags         Request
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /requests/document-types [get]
// @Security     BearerAuth
func (c *RequestController) GetDocumentTypes() {
	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    models.DocumentTypes(),
	})
}

func (c *RequestController) transition(actionType, descriptionFormat string, apply func(services.InterfaceRequestService, uint) (*models.Request, error)) {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	request, err := apply(requestService, uint(id))
	if err != nil {
		c.respondTransitionError(err)
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, actionType, descriptionFormat, request.ID)
	c.publishChange(services.EventRequestsChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    request,
	})
}

func (c *RequestController) loadRequest() (*models.Request, bool) {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return nil, false
	}

	requestService := c.Container.GetService("request").(services.InterfaceRequestService)
	request, err := requestService.GetRequestByID(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "request not found" {
			status = http.StatusNotFound
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return nil, false
	}
	return request, true
}

func (c *RequestController) respondTransitionError(err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case msg == "request not found":
		status = http.StatusNotFound
	case strings.Contains(msg, "cannot be"),
		strings.Contains(msg, "unknown document type"),
		isValidationError(err):
		status = http.StatusBadRequest
	}
	c.Context.JSON(status, gin.H{
		"code":    status,
		"message": msg,
		"data":    nil,
	})
}
