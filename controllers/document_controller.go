package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"brims-http-service/models"
	"brims-http-service/services"
	"brims-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// DocumentController issues certificate PDFs for completed requests
type DocumentController struct {
	BaseControllerImpl
}

// NewDocumentController creates a new document controller
func (f *ControllerFactory) NewDocumentController(ctx *gin.Context) *DocumentController {
	return &DocumentController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleDocumentFunc returns a gin handler for certificate requests
func HandleDocumentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewDocumentController(ctx)

		switch method {
		case "renderCertificate":
			controller.RenderCertificate()
		case "getDocumentText":
			controller.GetDocumentText()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// RenderCertificate issues the certificate PDF for a completed request
// @Summary      Render Certificate
// @Description  Produce the printable certificate PDF for a completed document request
// @Tags         Document
// @Produce      octet-stream
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {file}  file
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/certificate [get]
// @Security     BearerAuth
func (c *DocumentController) RenderCertificate() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	path, err := documentService.RenderCertificate(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case msg == "request not found" || msg == "resident not found":
			status = http.StatusNotFound
		case strings.Contains(msg, "completed request") || strings.Contains(msg, "unknown document type"):
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": msg,
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionViewRequest, "Issued certificate for request #%d", id)

	c.Context.FileAttachment(path, filepath.Base(path))
}

// GetDocumentText returns the rendered certificate wording as JSON
// @Summary      Get Certificate Text
// @Description  Rendered certificate wording for a completed document request, without PDF layout
// @Tags         Document
// @Produce      json
// @Param        id path int true "Request ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/document [get]
// @Security     BearerAuth
func (c *DocumentController) GetDocumentText() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	text, err := documentService.CertificateText(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case msg == "request not found" || msg == "resident not found":
			status = http.StatusNotFound
		case strings.Contains(msg, "completed request") || strings.Contains(msg, "unknown document type"):
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": msg,
			"data":    nil,
		})
		return
	}

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    text,
	})
}
