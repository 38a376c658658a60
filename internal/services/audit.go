package services

import (
	"context"
	"sync"
	"time"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/metrics"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditEntry struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
}

type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type AuditService struct {
	DB    *gorm.DB
	queue chan models.AuditLog
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAuditService(db *gorm.DB, queueSize int) *AuditService {
	if queueSize < 1 {
		queueSize = 1
	}
	s := &AuditService{
		DB:    db,
		queue: make(chan models.AuditLog, queueSize),
		done:  make(chan struct{}),
	}
	go s.processQueue()
	return s
}

// Record enqueues entry without blocking. A full queue drops it.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	meta := requestMetaFrom(ctx)
	row := models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		IPAddress:    meta.IPAddress,
		RequestID:    meta.RequestID,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.queue <- row:
	default:
		metrics.AuditDropped.Inc()
		logger.Warn("audit_queue_full", map[string]interface{}{
			"action":  entry.Action,
			"dropped": true,
		})
	}
}

func (s *AuditService) processQueue() {
	defer close(s.done)
	for row := range s.queue {
		if err := s.DB.Create(&row).Error; err != nil {
			logger.Error("audit_log_insert_failed", err, map[string]interface{}{
				"action": row.Action,
			})
		}
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (s *AuditService) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

func auditOrNoop(recorder AuditRecorder) AuditRecorder {
	if recorder == nil {
		return noopAudit{}
	}
	return recorder
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
