package services

import (
  "context"
  "time"

  "github.com/google/uuid"

  "github.com/yungbote/storefront-backend/internal/logger"
)

// ModuleEvent describes a lifecycle change broadcast to the rest of the
// platform. Delivery is fire and forget.
type ModuleEvent struct {
  WorkspaceID string    `json:"workspace_id"`
  ModuleCode  string    `json:"module_code"`
  Action      string    `json:"action"`
  ActorID     string    `json:"actor_id,omitempty"`
  OccurredAt  time.Time `json:"occurred_at"`
}

// ModuleNotifier publishes lifecycle events. Implementations must never
// block the calling request path.
type ModuleNotifier interface {
  Publish(ctx context.Context, event ModuleEvent)
}

type logNotifier struct {
  log *logger.Logger
}

// NewLogNotifier records events to the structured log only. Used until a
// workspace message bus consumer exists.
func NewLogNotifier(baseLog *logger.Logger) ModuleNotifier {
  return &logNotifier{log: baseLog.With("service", "ModuleNotifier")}
}

func (n *logNotifier) Publish(_ context.Context, event ModuleEvent) {
  n.log.Info("Module event",
    "workspace_id", event.WorkspaceID,
    "module_code", event.ModuleCode,
    "action", event.Action,
    "actor_id", event.ActorID)
}

// ModuleEventsChannel is the pub/sub channel other platform services
// subscribe to for module lifecycle changes.
const ModuleEventsChannel = "workspace.modules"

type busNotifier struct {
  bus EventPublisher
  log *logger.Logger
}

// NewBusNotifier publishes events over the redis event bus. Publish
// failures are logged and swallowed; the lifecycle write already
// committed and must not be rolled back for a missed broadcast.
func NewBusNotifier(bus EventPublisher, baseLog *logger.Logger) ModuleNotifier {
  return &busNotifier{bus: bus, log: baseLog.With("service", "ModuleNotifier")}
}

func (n *busNotifier) Publish(ctx context.Context, event ModuleEvent) {
  if err := n.bus.Publish(ctx, ModuleEventsChannel, event); err != nil {
    n.log.Warn("Module event publish failed",
      "error", err,
      "workspace_id", event.WorkspaceID,
      "module_code", event.ModuleCode,
      "action", event.Action)
  }
}

// NotificationQueueChannel carries direct notifications for the delivery
// worker. Admin flows use this; the installation engine itself only emits
// ModuleEvents.
const NotificationQueueChannel = "notifications.queue"

type queuedNotification struct {
  ID        uuid.UUID `json:"id"`
  Recipient string    `json:"recipient"`
  Message   string    `json:"message"`
  Channel   string    `json:"channel"`
  QueuedAt  time.Time `json:"queued_at"`
}

// NotificationService queues a message to a single recipient over the
// named delivery channel (EMAIL, SMS, IN_APP).
type NotificationService interface {
  Queue(ctx context.Context, recipient, message, channel string) (uuid.UUID, error)
}

type busNotificationService struct {
  bus EventPublisher
  log *logger.Logger
}

func NewNotificationService(bus EventPublisher, baseLog *logger.Logger) NotificationService {
  return &busNotificationService{bus: bus, log: baseLog.With("service", "NotificationService")}
}

func (s *busNotificationService) Queue(ctx context.Context, recipient, message, channel string) (uuid.UUID, error) {
  notification := queuedNotification{
    ID:        uuid.New(),
    Recipient: recipient,
    Message:   message,
    Channel:   channel,
    QueuedAt:  time.Now().UTC(),
  }
  if err := s.bus.Publish(ctx, NotificationQueueChannel, notification); err != nil {
    return uuid.Nil, err
  }
  return notification.ID, nil
}

type logNotificationService struct {
  log *logger.Logger
}

// NewLogNotificationService accepts and logs queued notifications when no
// event bus is configured.
func NewLogNotificationService(baseLog *logger.Logger) NotificationService {
  return &logNotificationService{log: baseLog.With("service", "NotificationService")}
}

func (s *logNotificationService) Queue(_ context.Context, recipient, message, channel string) (uuid.UUID, error) {
  id := uuid.New()
  s.log.Info("Notification queued",
    "notification_id", id,
    "recipient", recipient,
    "channel", channel,
    "message", message)
  return id, nil
}
