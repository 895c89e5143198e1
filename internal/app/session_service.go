package app

import (
	"strings"
	"time"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/repository"
)

// SessionService owns the session CRUD surface and the append-only
// sub-records. It never deletes anything; deletion belongs to the
// privacy service.
type SessionService struct {
	sessionRepo    *repository.SessionRepository
	segmentRepo    *repository.SegmentRepository
	suggestionRepo *repository.SuggestionRepository
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	segmentRepo *repository.SegmentRepository,
	suggestionRepo *repository.SuggestionRepository,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		segmentRepo:    segmentRepo,
		suggestionRepo: suggestionRepo,
	}
}

type CreateSessionInput struct {
	UserID      uint
	Platform    string
	SessionType string
	PrivacyMode bool
}

func (s *SessionService) CreateSession(input CreateSessionInput) (*model.Session, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	sessionType := strings.TrimSpace(input.SessionType)
	if sessionType == "" {
		sessionType = "interview"
	}

	session := &model.Session{
		UserID:      input.UserID,
		Platform:    strings.TrimSpace(input.Platform),
		SessionType: sessionType,
		IsActive:    true,
		PrivacyMode: input.PrivacyMode,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) ListSessions(userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *SessionService) GetSession(userID, sessionID uint) (*model.Session, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// EndSession closes the session, making it eligible for expiry once
// its ended_at falls behind the owner's cutoff.
func (s *SessionService) EndSession(userID, sessionID uint) (*model.Session, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, ErrSessionClosed
	}

	endedAt := time.Now()
	duration := int(endedAt.Sub(session.StartedAt).Minutes())
	if err := s.sessionRepo.End(sessionID, userID, endedAt, duration); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByIDAndUserID(sessionID, userID)
}

type AppendSegmentInput struct {
	UserID     uint
	SessionID  uint
	StartMs    int
	EndMs      int
	Text       string
	Speaker    string
	Confidence int
	IsFinal    bool
}

func (s *SessionService) AppendSegment(input AppendSegmentInput) (*model.Segment, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrInvalidInput
	}
	session, err := s.GetSession(input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, ErrSessionClosed
	}

	segment := &model.Segment{
		SessionID:  session.ID,
		StartMs:    input.StartMs,
		EndMs:      input.EndMs,
		Text:       text,
		Speaker:    strings.TrimSpace(input.Speaker),
		Confidence: input.Confidence,
		IsFinal:    input.IsFinal,
	}
	if err := s.segmentRepo.Create(segment); err != nil {
		return nil, err
	}
	return segment, nil
}

func (s *SessionService) ListSegments(userID, sessionID uint) ([]model.Segment, error) {
	if _, err := s.GetSession(userID, sessionID); err != nil {
		return nil, err
	}
	return s.segmentRepo.ListBySessionID(sessionID)
}

type AppendSuggestionInput struct {
	UserID           uint
	SessionID        uint
	SegmentID        *uint
	Content          string
	SuggestionType   string
	LLMModel         string
	PromptTokens     int
	CompletionTokens int
	LatencyMs        int
}

func (s *SessionService) AppendSuggestion(input AppendSuggestionInput) (*model.Suggestion, error) {
	content := strings.TrimSpace(input.Content)
	suggestionType := strings.TrimSpace(input.SuggestionType)
	if content == "" || suggestionType == "" {
		return nil, ErrInvalidInput
	}
	session, err := s.GetSession(input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return nil, ErrSessionClosed
	}

	suggestion := &model.Suggestion{
		SessionID:        session.ID,
		SegmentID:        input.SegmentID,
		Content:          content,
		SuggestionType:   suggestionType,
		LLMModel:         strings.TrimSpace(input.LLMModel),
		PromptTokens:     input.PromptTokens,
		CompletionTokens: input.CompletionTokens,
		LatencyMs:        input.LatencyMs,
	}
	if err := s.suggestionRepo.Create(suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (s *SessionService) ListSuggestions(userID, sessionID uint) ([]model.Suggestion, error) {
	if _, err := s.GetSession(userID, sessionID); err != nil {
		return nil, err
	}
	return s.suggestionRepo.ListBySessionID(sessionID)
}

type SuggestionFeedbackInput struct {
	UserID       uint
	SessionID    uint
	SuggestionID uint
	Accepted     *bool
	Dismissed    *bool
	Rating       *int
}

// UpdateSuggestionFeedback mutates the only writable fields of an
// otherwise append-only suggestion.
func (s *SessionService) UpdateSuggestionFeedback(input SuggestionFeedbackInput) (*model.Suggestion, error) {
	if input.SuggestionID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrInvalidInput
	}
	if _, err := s.GetSession(input.UserID, input.SessionID); err != nil {
		return nil, err
	}

	suggestion, err := s.suggestionRepo.GetByIDAndSessionID(input.SuggestionID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, ErrSuggestionNotFound
	}

	updates := map[string]interface{}{}
	if input.Accepted != nil {
		updates["accepted"] = *input.Accepted
	}
	if input.Dismissed != nil {
		updates["dismissed"] = *input.Dismissed
	}
	if input.Rating != nil {
		updates["feedback_rating"] = *input.Rating
	}
	if err := s.suggestionRepo.UpdateFeedback(suggestion.ID, updates); err != nil {
		return nil, err
	}
	return s.suggestionRepo.GetByIDAndSessionID(input.SuggestionID, input.SessionID)
}
