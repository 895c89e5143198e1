package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewai-backend/internal/app"
	"interviewai-backend/internal/transport/http/response"
)

type PrivacyHandler struct {
	privacyService *app.PrivacyService
	sweepService   *app.SweepService
	auditService   *app.AuditService
}

func NewPrivacyHandler(privacyService *app.PrivacyService, sweepService *app.SweepService, auditService *app.AuditService) *PrivacyHandler {
	return &PrivacyHandler{
		privacyService: privacyService,
		sweepService:   sweepService,
		auditService:   auditService,
	}
}

func (h *PrivacyHandler) DataSummary(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	summary, err := h.privacyService.DataSummary(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "data summary failed")
		}
		return
	}

	response.OK(c, summary)
}

func (h *PrivacyHandler) ExportData(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	export, err := h.privacyService.ExportUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "export failed")
		}
		return
	}

	if h.auditService != nil {
		_ = h.auditService.Record(c.Request.Context(), userID, "data_exported",
			map[string]interface{}{"export_id": export.ExportInfo.ExportID},
			c.ClientIP(), c.Request.UserAgent())
	}

	response.OK(c, export)
}

// EraseData triggers full right-to-be-forgotten erasure for the
// authenticated user. No audit event is recorded afterwards: the
// owner no longer exists.
func (h *PrivacyHandler) EraseData(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	report, err := h.privacyService.EraseUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "erase failed")
		}
		return
	}

	response.OK(c, report)
}

func (h *PrivacyHandler) GetRetentionPolicy(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	policy, err := h.privacyService.GetPolicy(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get retention policy failed")
		}
		return
	}

	response.OK(c, policy)
}

type SetRetentionPolicyRequest struct {
	RetentionHours int `json:"retention_hours" binding:"required"`
}

func (h *PrivacyHandler) SetRetentionPolicy(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req SetRetentionPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	policy, err := h.privacyService.SetPolicy(c.Request.Context(), userID, req.RetentionHours)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrRetentionOutOfRange):
			response.Error(c, http.StatusBadRequest, response.CodeRetentionInvalid, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "set retention policy failed")
		}
		return
	}

	if h.auditService != nil {
		_ = h.auditService.Record(c.Request.Context(), userID, "retention_policy_updated",
			map[string]interface{}{"retention_hours": req.RetentionHours},
			c.ClientIP(), c.Request.UserAgent())
	}

	response.OK(c, policy)
}

// TriggerSweep is the operator trigger for one sweep cycle.
func (h *PrivacyHandler) TriggerSweep(c *gin.Context) {
	report, err := h.sweepService.RunSweep(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "sweep failed")
		return
	}

	response.OK(c, report)
}
