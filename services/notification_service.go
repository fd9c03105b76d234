//go:generate go run go.uber.org/mock/mockgen -source=notification_service.go -destination=../mocks/mock_notification_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hive-chat/contract"
	"hive-chat/domain"
	"hive-chat/domain/event"
	"hive-chat/errors"
	"hive-chat/repositories"

	"github.com/google/uuid"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type INotificationService interface {
	Create(ctx context.Context, input CreateNotification) (domain.Notification, error)
	List(ctx context.Context, userID string, page, limit int) (domain.NotificationPage, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) (domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, notificationID string) error
}

type CreateNotification struct {
	RecipientID string
	SenderID    string
	Type        domain.NotificationType
	Title       string
	Message     string
	Data        domain.NotificationData
}

type NotificationService struct {
	log           *slog.Logger
	notifications repositories.INotificationRepository
	broadcaster   contract.Broadcaster
	now           func() time.Time
}

func NewNotificationService(log *slog.Logger, notifications repositories.INotificationRepository, broadcaster contract.Broadcaster) *NotificationService {
	return &NotificationService{
		log:           log,
		notifications: notifications,
		broadcaster:   broadcaster,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create persists the notification, then pushes it to the recipient if connected.
// Nothing is pushed when the write fails.
func (s *NotificationService) Create(ctx context.Context, input CreateNotification) (domain.Notification, error) {
	if input.RecipientID == "" || input.Type == "" {
		return domain.Notification{}, errors.ErrInvalidPayload
	}
	notification := domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: input.RecipientID,
		SenderID:    input.SenderID,
		Type:        input.Type,
		Title:       input.Title,
		Message:     input.Message,
		Data:        input.Data,
		CreatedAt:   s.now(),
	}
	if err := s.notifications.Save(ctx, notification); err != nil {
		return domain.Notification{}, fmt.Errorf("save notification: %w", err)
	}
	if !s.broadcaster.ToUser(ctx, notification.RecipientID, event.New(event.NewNotificationType, event.NewNotification{Notification: notification})) {
		s.log.Debug("Notification stored for later", "user_id", notification.RecipientID, "type", notification.Type)
	}
	return notification, nil
}

// List returns one page of live notifications, newest first. Pages start at 1.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (domain.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	limit = min(limit, maxNotificationLimit)

	notifications, err := s.notifications.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return domain.NotificationPage{}, err
	}
	total, unread, err := s.notifications.Count(ctx, userID)
	if err != nil {
		return domain.NotificationPage{}, err
	}
	return domain.NotificationPage{
		Notifications: notifications,
		UnreadCount:   unread,
		CurrentPage:   page,
		TotalPages:    (total + limit - 1) / limit,
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (domain.Notification, error) {
	return s.notifications.MarkRead(ctx, userID, notificationID, s.now())
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return s.notifications.MarkAllRead(ctx, userID, s.now())
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return s.notifications.Delete(ctx, userID, notificationID)
}
