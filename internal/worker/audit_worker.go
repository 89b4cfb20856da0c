package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/deepkumarpeerislands/smart-onboarding-service-sub007/internal/events"
)

// AuditWorker writes role-switch lifecycle events to the structured log.
type AuditWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditWorker creates the worker.
func NewAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{dispatcher: dispatcher, logger: logger}
}

// Start registers audit handlers.
func (w *AuditWorker) Start() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventRoleSwitched, w.handleRoleSwitched)
	w.dispatcher.Subscribe(events.EventSessionInvalidated, w.handleSessionInvalidated)
}

func (w *AuditWorker) handleRoleSwitched(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RoleSwitchedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("audit: role switched",
		zap.String("user", event.UserEmail),
		zap.String("old_role", payload.OldActiveRole),
		zap.String("new_role", payload.NewActiveRole),
		zap.String("session_id", payload.SessionID),
	)
	return nil
}

func (w *AuditWorker) handleSessionInvalidated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SessionInvalidatedPayload)
	if !ok {
		return nil
	}
	w.logger.Info("audit: session invalidated",
		zap.String("user", event.UserEmail),
		zap.String("session_id", payload.SessionID),
		zap.Bool("found", payload.Found),
	)
	return nil
}
