package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewai-backend/internal/app"
	"interviewai-backend/internal/transport/http/response"
)

type UserHandler struct {
	authService  *app.AuthService
	auditService *app.AuditService
}

func NewUserHandler(authService *app.AuthService, auditService *app.AuditService) *UserHandler {
	return &UserHandler{authService: authService, auditService: auditService}
}

type UpdateProfileRequest struct {
	PreferredModel  *string `json:"preferred_model" binding:"omitempty,max=50"`
	OverlayPosition *string `json:"overlay_position" binding:"omitempty,max=20"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.UpdateProfile(userID, app.UpdateProfileInput{
		PreferredModel:  req.PreferredModel,
		OverlayPosition: req.OverlayPosition,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update profile failed")
		}
		return
	}

	response.OK(c, user)
}

// DeactivateAccount soft-deletes the account. Hard erasure is the
// privacy endpoint's job.
func (h *UserHandler) DeactivateAccount(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	if err := h.authService.DeactivateAccount(userID); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "deactivate account failed")
		}
		return
	}

	if h.auditService != nil {
		_ = h.auditService.Record(c.Request.Context(), userID, "account_deactivated", nil, c.ClientIP(), c.Request.UserAgent())
	}

	response.OK(c, gin.H{"deactivated_user_id": userID})
}
