package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"interviewai-backend/internal/app"
	"interviewai-backend/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
	privacyService *app.PrivacyService
}

func NewSessionHandler(sessionService *app.SessionService, privacyService *app.PrivacyService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		privacyService: privacyService,
	}
}

type CreateSessionRequest struct {
	Platform    string `json:"platform" binding:"max=50"`
	SessionType string `json:"session_type" binding:"max=50"`
	PrivacyMode bool   `json:"privacy_mode"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	session, err := h.sessionService.CreateSession(app.CreateSessionInput{
		UserID:      userID,
		Platform:    req.Platform,
		SessionType: req.SessionType,
		PrivacyMode: req.PrivacyMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create session failed")
		}
		return
	}

	response.OK(c, session)
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	sessions, err := h.sessionService.ListSessions(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}

	response.OK(c, sessions)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get session failed")
		}
		return
	}

	response.OK(c, session)
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	session, err := h.sessionService.EndSession(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrSessionClosed):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "end session failed")
		}
		return
	}

	response.OK(c, session)
}

// DeleteSession delegates to the privacy service so segments and
// suggestions always go with the session.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	report, err := h.privacyService.EraseSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		}
		return
	}

	response.OK(c, report)
}

type AppendSegmentRequest struct {
	StartMs    int    `json:"start_ms" binding:"gte=0"`
	EndMs      int    `json:"end_ms" binding:"gte=0"`
	Text       string `json:"text" binding:"required"`
	Speaker    string `json:"speaker" binding:"max=50"`
	Confidence int    `json:"confidence" binding:"gte=0,lte=100"`
	IsFinal    bool   `json:"is_final"`
}

func (h *SessionHandler) AppendSegment(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	var req AppendSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	segment, err := h.sessionService.AppendSegment(app.AppendSegmentInput{
		UserID:     userID,
		SessionID:  sessionID,
		StartMs:    req.StartMs,
		EndMs:      req.EndMs,
		Text:       req.Text,
		Speaker:    req.Speaker,
		Confidence: req.Confidence,
		IsFinal:    req.IsFinal,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrSessionClosed):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "append segment failed")
		}
		return
	}

	response.OK(c, segment)
}

func (h *SessionHandler) ListSegments(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	segments, err := h.sessionService.ListSegments(userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list segments failed")
		}
		return
	}

	response.OK(c, segments)
}

type AppendSuggestionRequest struct {
	SegmentID        *uint  `json:"segment_id"`
	Content          string `json:"content" binding:"required"`
	SuggestionType   string `json:"suggestion_type" binding:"required,max=50"`
	LLMModel         string `json:"llm_model" binding:"max=50"`
	PromptTokens     int    `json:"prompt_tokens" binding:"gte=0"`
	CompletionTokens int    `json:"completion_tokens" binding:"gte=0"`
	LatencyMs        int    `json:"latency_ms" binding:"gte=0"`
}

func (h *SessionHandler) AppendSuggestion(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	var req AppendSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	suggestion, err := h.sessionService.AppendSuggestion(app.AppendSuggestionInput{
		UserID:           userID,
		SessionID:        sessionID,
		SegmentID:        req.SegmentID,
		Content:          req.Content,
		SuggestionType:   req.SuggestionType,
		LLMModel:         req.LLMModel,
		PromptTokens:     req.PromptTokens,
		CompletionTokens: req.CompletionTokens,
		LatencyMs:        req.LatencyMs,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrSessionClosed):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "append suggestion failed")
		}
		return
	}

	response.OK(c, suggestion)
}

type SuggestionFeedbackRequest struct {
	Accepted  *bool `json:"accepted"`
	Dismissed *bool `json:"dismissed"`
	Rating    *int  `json:"rating" binding:"omitempty,gte=1,lte=5"`
}

func (h *SessionHandler) UpdateSuggestionFeedback(c *gin.Context) {
	userID, sessionID, ok := sessionScope(c)
	if !ok {
		return
	}

	suggestionID64, err := strconv.ParseUint(c.Param("suggestion_id"), 10, 64)
	if err != nil || suggestionID64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid suggestion id")
		return
	}

	var req SuggestionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	suggestion, err := h.sessionService.UpdateSuggestionFeedback(app.SuggestionFeedbackInput{
		UserID:       userID,
		SessionID:    sessionID,
		SuggestionID: uint(suggestionID64),
		Accepted:     req.Accepted,
		Dismissed:    req.Dismissed,
		Rating:       req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrSuggestionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update suggestion feedback failed")
		}
		return
	}

	response.OK(c, suggestion)
}

func sessionScope(c *gin.Context) (userID, sessionID uint, ok bool) {
	userID, ok = getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return 0, 0, false
	}

	sessionID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		return 0, 0, false
	}
	return userID, uint(sessionID64), true
}
