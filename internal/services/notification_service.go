package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/models"
)

const (
	DefaultNotificationPageSize = 20
	MaxNotificationPageSize     = 100

	// unknownActorName stands in when the acting user cannot be loaded.
	unknownActorName = "Someone"
)

// NotificationEvent describes something that happened to stakeholders of a
// project. Candidates may include the actor and duplicates; RecipientsFor
// filters them.
type NotificationEvent struct {
	Type       string
	Message    string
	ActorID    uint
	Candidates []uint
	ProjectID  *uint
	IssueID    *uint
}

type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent) int
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID uint, limit int, offset int) ([]models.Notification, error)
	CountByUser(userID uint) (int64, error)
	CountUnread(userID uint) (int64, error)
	FindForUser(notificationID uint, userID uint) (models.Notification, error)
	MarkRead(notificationID uint) error
	MarkAllRead(userID uint) (int64, error)
	Delete(notificationID uint) error
}

type NotificationService struct {
	notifications NotificationRepository
	logger        logrus.FieldLogger
}

type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
}

func NewNotificationService(notifications NotificationRepository, logger logrus.FieldLogger) *NotificationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}
}

// RecipientsFor returns the sorted, de-duplicated candidates without the
// actor and without zero ids.
func RecipientsFor(event NotificationEvent) []uint {
	seen := make(map[uint]struct{}, len(event.Candidates))
	recipients := make([]uint, 0, len(event.Candidates))
	for _, userID := range event.Candidates {
		if userID == 0 || userID == event.ActorID {
			continue
		}
		if _, exists := seen[userID]; exists {
			continue
		}
		seen[userID] = struct{}{}
		recipients = append(recipients, userID)
	}
	sort.Slice(recipients, func(i, j int) bool { return recipients[i] < recipients[j] })
	return recipients
}

// Notify stores one notification per recipient and reports how many were
// stored. Failures are logged and never returned: the action that triggered
// the event has already happened.
func (service *NotificationService) Notify(ctx context.Context, event NotificationEvent) int {
	recipients := RecipientsFor(event)
	logger := service.logger.WithFields(logrus.Fields{
		"notification": event.Type,
		"actor_id":     event.ActorID,
	})

	var actorID *uint
	if event.ActorID != 0 {
		actor := event.ActorID
		actorID = &actor
	}

	stored := 0
	for _, recipientID := range recipients {
		if err := ctx.Err(); err != nil {
			logger.WithError(err).Warn("notification fan-out interrupted")
			break
		}

		notification := models.Notification{
			Type:             event.Type,
			Message:          event.Message,
			UserID:           recipientID,
			RelatedProjectID: event.ProjectID,
			RelatedIssueID:   event.IssueID,
			RelatedUserID:    actorID,
		}
		if err := service.notifications.Create(&notification); err != nil {
			logger.WithError(err).WithField("recipient_id", recipientID).Error("store notification")
			continue
		}
		stored++
	}
	return stored
}

func NormalizeNotificationPage(limit int, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultNotificationPageSize
	}
	if limit > MaxNotificationPageSize {
		limit = MaxNotificationPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (service *NotificationService) List(userID uint, limit int, offset int) (NotificationPage, error) {
	limit, offset = NormalizeNotificationPage(limit, offset)

	notifications, err := service.notifications.ListByUser(userID, limit, offset)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("list notifications: %w", err)
	}
	total, err := service.notifications.CountByUser(userID)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("count notifications: %w", err)
	}
	unread, err := service.notifications.CountUnread(userID)
	if err != nil {
		return NotificationPage{}, fmt.Errorf("count unread notifications: %w", err)
	}

	return NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

func (service *NotificationService) UnreadCount(userID uint) (int64, error) {
	unread, err := service.notifications.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return unread, nil
}

func (service *NotificationService) MarkRead(userID uint, notificationID uint) (models.Notification, error) {
	notification, err := service.notifications.FindForUser(notificationID, userID)
	if err != nil {
		return models.Notification{}, lookupError(err, ErrNotificationNotFound, "load notification")
	}
	if notification.IsRead {
		return notification, nil
	}

	if err := service.notifications.MarkRead(notification.ID); err != nil {
		return models.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	notification.IsRead = true
	return notification, nil
}

func (service *NotificationService) MarkAllRead(userID uint) (int64, error) {
	updated, err := service.notifications.MarkAllRead(userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return updated, nil
}

func (service *NotificationService) Delete(userID uint, notificationID uint) error {
	notification, err := service.notifications.FindForUser(notificationID, userID)
	if err != nil {
		return lookupError(err, ErrNotificationNotFound, "load notification")
	}
	if err := service.notifications.Delete(notification.ID); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
