package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel_backend/internal/services"
	"travel_backend/internal/services/dto"
)

// AuthHandler owns the unauthenticated identity endpoints: registration,
// login and both ends of the self-service password recovery flow.
type AuthHandler struct {
	*BaseHandler
	userService  services.UserService
	resetService services.PasswordResetService
}

func NewAuthHandler(base *BaseHandler, userService services.UserService, resetService services.PasswordResetService) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		userService:  userService,
		resetService: resetService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.Register(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.userService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ForgotPassword answers identically for known and unknown addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.resetService.RequestReset(&req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a reset link has been sent",
	})
}

// ResetPassword redeems the token from the path and installs the new
// password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.resetService.Redeem(c.Param("token"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset successfully",
	})
}
