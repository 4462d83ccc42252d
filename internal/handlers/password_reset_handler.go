package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/services"
)

type PasswordResetHandler struct {
	resetService *services.PasswordResetService
	auditService *services.AuditService
}

func NewPasswordResetHandler(resetService *services.PasswordResetService, auditService *services.AuditService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService, auditService: auditService}
}

type ResetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetWithTokenBody struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// RequestReset opens a password reset request for manual admin review.
// Unknown emails are a 404; re-requesting while a request is pending
// returns the open request.
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req ResetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, created, err := h.resetService.RequestReset(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit reset request"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "A reset request is already pending review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset request submitted for review"})
}

// VerifyToken reports whether a reset token can still be redeemed
func (h *PasswordResetHandler) VerifyToken(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	valid, err := h.resetService.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// ResetWithToken consumes an approved token and sets the caller's chosen
// password
func (h *PasswordResetHandler) ResetWithToken(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	var req ResetWithTokenBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetService.ResetWithToken(token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidOrExpiredToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// ListRequests returns reset requests for the admin review screen
func (h *PasswordResetHandler) ListRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := h.resetService.GetAllRequests((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reset requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// Approve approves a reset request and returns the generated temporary
// password to the admin, who delivers it out of band
func (h *PasswordResetHandler) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, tempPassword, err := h.resetService.Approve(requestID)
	if err != nil {
		if errors.Is(err, services.ErrResetRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reset request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve reset request"})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "approve_password_reset", "password_reset_request", request.ID,
		map[string]interface{}{"user_id": request.UserID}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{
		"request":            request,
		"temporary_password": tempPassword,
		"reset_token":        request.Token,
	})
}

// Reject rejects a reset request
func (h *PasswordResetHandler) Reject(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := h.resetService.Reject(requestID)
	if err != nil {
		if errors.Is(err, services.ErrResetRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reset request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject reset request"})
		return
	}

	adminID := c.MustGet("userID").(uuid.UUID)
	h.auditService.LogAction(adminID, "reject_password_reset", "password_reset_request", request.ID,
		map[string]interface{}{"user_id": request.UserID}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"request": request})
}
