package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/events"
)

// NotificationService emits log notifications for lifecycle events. Real
// delivery channels (email, push) live outside this core; subscribers here
// only record what happened.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
	n.dispatcher.Subscribe(events.EventIssueEscalated, n.handleIssueEscalated)
}

func (n *NotificationService) handleIssueCreated(_ context.Context, event events.Event) error {
	n.logger.Info("IssueCreated", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleIssueStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("IssueStatusChanged", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleIssueEscalated(_ context.Context, event events.Event) error {
	n.logger.Info("IssueEscalated", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	return nil
}
