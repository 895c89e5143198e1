package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interviewai-backend/internal/model"
	"interviewai-backend/internal/pkg/piiredact"
	"interviewai-backend/internal/repository"
)

// AsyncAuditPublisher hands a finished audit event to the persist
// queue; the consuming worker writes it to the store.
type AsyncAuditPublisher interface {
	Publish(ctx context.Context, event model.AuditEvent) error
}

// AuditService builds append-only audit events. Payloads are redacted
// for PII before they leave this service; raw PII never reaches the
// store or the queue. RetentionUntil uses the fixed audit window,
// independent of the owner's horizon — the sweep additionally deletes
// audit rows under the per-user horizon, whichever bites first.
type AuditService struct {
	repo            *repository.AuditEventRepository
	publisher       AsyncAuditPublisher
	retentionWindow time.Duration
}

func NewAuditService(repo *repository.AuditEventRepository, publisher AsyncAuditPublisher, retentionWindow time.Duration) *AuditService {
	if retentionWindow <= 0 {
		retentionWindow = 24 * time.Hour
	}
	return &AuditService{
		repo:            repo,
		publisher:       publisher,
		retentionWindow: retentionWindow,
	}
}

// Record redacts and enqueues one audit event. When no publisher is
// wired it persists synchronously instead.
func (s *AuditService) Record(ctx context.Context, userID uint, eventType string, payload map[string]interface{}, ip, userAgent string) error {
	if userID == 0 || eventType == "" {
		return ErrInvalidInput
	}

	event, err := s.build(userID, eventType, payload, ip, userAgent)
	if err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *event); err != nil {
			return fmt.Errorf("enqueue audit event failed: %w", err)
		}
		return nil
	}
	return s.repo.Create(event)
}

// RecordNow bypasses the queue and persists directly.
func (s *AuditService) RecordNow(userID uint, eventType string, payload map[string]interface{}, ip, userAgent string) error {
	if userID == 0 || eventType == "" {
		return ErrInvalidInput
	}
	event, err := s.build(userID, eventType, payload, ip, userAgent)
	if err != nil {
		return err
	}
	return s.repo.Create(event)
}

func (s *AuditService) ListEvents(userID uint, limit int) ([]model.AuditEvent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserID(userID, limit)
}

func (s *AuditService) build(userID uint, eventType string, payload map[string]interface{}, ip, userAgent string) (*model.AuditEvent, error) {
	eventData := ""
	if len(payload) > 0 {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal audit payload failed: %w", err)
		}
		eventData = piiredact.Redact(string(raw))
	}

	now := time.Now()
	return &model.AuditEvent{
		UserID:         userID,
		EventType:      eventType,
		EventData:      eventData,
		IPAddress:      ip,
		UserAgent:      userAgent,
		CreatedAt:      now,
		RetentionUntil: now.Add(s.retentionWindow),
	}, nil
}
