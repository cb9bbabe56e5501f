package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel_backend/internal/middleware"
	"travel_backend/internal/services"
	"travel_backend/internal/services/dto"
)

// UserHandler owns the authenticated account endpoints: the caller's own
// profile plus the administrative account management surface. The role
// gate lives in the services, so every handler just forwards the
// principal.
type UserHandler struct {
	*BaseHandler
	userService  services.UserService
	resetService services.PasswordResetService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, resetService services.PasswordResetService) *UserHandler {
	return &UserHandler{
		BaseHandler:  base,
		userService:  userService,
		resetService: resetService,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userService.GetProfile(middleware.GetPrincipal(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.userService.AdminCreate(middleware.GetPrincipal(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.AdminCreateAdmin(middleware.GetPrincipal(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
	})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.AdminList(middleware.GetPrincipal(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.AdminUpdate(middleware.GetPrincipal(c), c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.AdminDelete(middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted",
	})
}

// TriggerReset lets an administrator start the recovery flow for any
// account.
func (h *UserHandler) TriggerReset(c *gin.Context) {
	if err := h.resetService.AdminTriggerReset(middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reset link has been sent",
	})
}
