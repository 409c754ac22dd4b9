package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/josias65/gestion-api/internal/models"
	"github.com/josias65/gestion-api/internal/repository"
)

// AuditEvent captures one mutation for the tender audit trail.
type AuditEvent struct {
	TenderID uint
	Action   string
	Details  string
	Changes  map[string]interface{}
	ActorID  uint
}

// HistoryRecorder appends audit entries. Every mutating tender operation
// calls Record synchronously before returning.
type HistoryRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

type historyRecorder struct {
	repo    repository.HistoryRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewHistoryRecorder constructs the audit trail recorder. The NATS connection
// is optional; when present, every recorded entry is also published as a
// best-effort event for downstream consumers.
func NewHistoryRecorder(repo repository.HistoryRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) HistoryRecorder {
	if subject == "" {
		subject = "gestion.tenders.audit"
	}

	return &historyRecorder{
		repo:    repo,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "history_recorder").Logger(),
	}
}

func (r *historyRecorder) Record(ctx context.Context, event AuditEvent) error {
	if strings.TrimSpace(event.Action) == "" {
		return fmt.Errorf("audit action is required")
	}

	entry := models.HistoryEntry{
		TenderID: event.TenderID,
		Action:   strings.ToLower(strings.TrimSpace(event.Action)),
		Details:  event.Details,
		ActorID:  event.ActorID,
	}
	if len(event.Changes) > 0 {
		entry.Changes = datatypes.JSONMap(event.Changes)
	}

	if err := r.repo.Create(ctx, &entry); err != nil {
		r.logger.Error().Err(err).Uint("tender_id", event.TenderID).Msg("failed to persist history entry")
		return err
	}

	r.publish(entry)

	return nil
}

// publish fans the audit entry out over NATS. Failures are logged and never
// propagate: the persisted entry is the source of truth.
func (r *historyRecorder) publish(entry models.HistoryEntry) {
	if r.nats == nil {
		return
	}

	payload, err := json.Marshal(struct {
		TenderID uint      `json:"tender_id"`
		Action   string    `json:"action"`
		Details  string    `json:"details"`
		ActorID  uint      `json:"actor_id"`
		SentAt   time.Time `json:"sent_at"`
	}{
		TenderID: entry.TenderID,
		Action:   entry.Action,
		Details:  entry.Details,
		ActorID:  entry.ActorID,
		SentAt:   time.Now(),
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to encode audit event")
		return
	}

	if err := r.nats.Publish(r.subject, payload); err != nil {
		r.logger.Warn().Err(err).Str("subject", r.subject).Msg("failed to publish audit event")
	}
}
