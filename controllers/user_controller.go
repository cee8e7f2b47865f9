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

// UserController handles staff and admin account management
type UserController struct {
	BaseControllerImpl
}

// NewUserController creates a new user controller
func (f *ControllerFactory) NewUserController(ctx *gin.Context) *UserController {
	return &UserController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// CreateUserRequest is the payload for adding an account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required" example:"alice@barangay.gov.ph"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Role     string `json:"role" binding:"required" example:"staff"`
}

// UpdateUserRequest is the payload for editing an account. A blank
// password keeps the stored one.
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@barangay.gov.ph"`
	Password string `json:"password" example:""`
	Role     string `json:"role" binding:"required" example:"staff"`
}

// HandleUserFunc returns a gin handler for account management requests
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewUserController(ctx)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "createUser":
			controller.CreateUser()
		case "updateUser":
			controller.UpdateUser()
		case "toggleStaffStatus":
			controller.ToggleStaffStatus()
		case "deleteUser":
			controller.DeleteUser()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "invalid method",
				"data":    nil,
			})
		}
	}
}

// GetUsers lists staff and admin accounts
// @Summary      Get User List
// @Description  Merged staff and admin account listing with role filter and username/email search
// @Tags         User
// @Produce      json
// @Param        role query string false "Role filter: staff or admin" example:"staff"
// @Param        search query string false "Search keyword for username or email" example:"alice"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
// @Security     BearerAuth
func (c *UserController) GetUsers() {
	role := c.Context.Query("role")
	search := c.Context.Query("search")

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	users, err := userService.GetAllUsers(role, search)
	if err != nil {
		c.Context.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "failed to query users: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    users,
	})
}

// CreateUser adds a staff or admin account
// @Summary      Create User
// @Description  Add a staff or admin account; username uniqueness is checked within the target table
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Account fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /users [post]
// @Security     BearerAuth
func (c *UserController) CreateUser() {
	var req CreateUserRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	account, err := userService.AddUser(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
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

	actor := c.currentActor()
	if account.Role == services.RoleAdmin {
		c.logActivity(actor, models.ActionAddAdmin, "Added admin account %s", account.Username)
	} else {
		c.logActivity(actor, models.ActionAddStaff, "Added staff account %s", account.Username)
	}
	c.publishChange(services.EventWorkersChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    account,
	})
}

// UpdateUser edits an account's email and optionally its password
// @Summary      Update User
// @Description  Update email and, when a non-blank password is supplied, replace the password
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        id path int true "Account ID" example:"1"
// @Param        request body UpdateUserRequest true "Account fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [put]
// @Security     BearerAuth
func (c *UserController) UpdateUser() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	var req UpdateUserRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid request parameters: " + err.Error(),
			"data":    nil,
		})
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	account, err := userService.EditUser(uint(id), req.Role, req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "user not found" {
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
	c.logActivity(actor, models.ActionEditStaff, "Edited account %s", account.Username)
	c.publishChange(services.EventWorkersChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    account,
	})
}

// ToggleStaffStatus flips a staff account between active and inactive
// @Summary      Toggle Staff Status
// @Description  Flip a staff account between active and inactive; admin accounts cannot be toggled
// @Tags         User
// @Produce      json
// @Param        id path int true "Staff ID" example:"1"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/toggle-status [post]
// @Security     BearerAuth
func (c *UserController) ToggleStaffStatus() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	staff, err := userService.ToggleStaffStatus(uint(id))
	if err != nil {
		status := http.StatusInternalServerError
		if err.Error() == "user not found" {
			status = http.StatusNotFound
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	actor := c.currentActor()
	c.logActivity(actor, models.ActionToggleStaff, "Set staff %s status to %s", staff.Username, staff.Status)
	c.publishChange(services.EventWorkersChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"id":       staff.ID,
			"username": staff.Username,
			"status":   staff.Status,
		},
	})
}

// DeleteUser removes an account
// @Summary      Delete User
// @Description  Delete a staff or admin account; an admin cannot delete their own account
// @Tags         User
// @Produce      json
// @Param        id path int true "Account ID" example:"1"
// @Param        role query string true "Account role: staff or admin" example:"staff"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (c *UserController) DeleteUser() {
	id, err := strconv.Atoi(c.Context.Param("id"))
	if err != nil {
		c.Context.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "invalid id parameter",
			"data":    nil,
		})
		return
	}
	role := c.Context.Query("role")

	actor := c.currentActor()
	userService := c.Container.GetService("user").(services.InterfaceUserService)
	if err := userService.DeleteUser(uint(id), role, actor.ID, actor.Role); err != nil {
		status := http.StatusInternalServerError
		msg := err.Error()
		switch {
		case msg == "user not found":
			status = http.StatusNotFound
		case strings.Contains(msg, "your own account"):
			status = http.StatusForbidden
		case isValidationError(err):
			status = http.StatusBadRequest
		}
		c.Context.JSON(status, gin.H{
			"code":    status,
			"message": msg,
			"data":    nil,
		})
		return
	}

	if role == services.RoleAdmin {
		c.logActivity(actor, models.ActionDeleteAdmin, "Deleted admin account #%d", id)
	} else {
		c.logActivity(actor, models.ActionDeleteStaff, "Deleted staff account #%d", id)
	}
	c.publishChange(services.EventWorkersChanged)

	c.Context.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    nil,
	})
}
