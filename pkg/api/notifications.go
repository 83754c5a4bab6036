package api

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// Notification wire payloads are the least stable the backend produces:
// ids arrive as integers or numeric strings or not at all, timestamps under
// five different keys in a dozen formats. The DTO absorbs all of that so a
// batch never dies on one odd record.

// notificationTimestampKeys are probed in order for the record timestamp.
var notificationTimestampKeys = []string{"timeStamp", "timestamp", "time", "date", "createdAt"}

// notificationScreenCodeKeys are probed in order for the routing hint.
var notificationScreenCodeKeys = []string{"screenCode", "screen_code", "screenId", "screen_id"}

// NotificationDTO is the wire record for a notification, already normalized
// during decode.
type NotificationDTO struct {
	ID         int
	Title      string
	Content    string
	Timestamp  time.Time
	ScreenCode string
}

// UnmarshalJSON decodes a notification record defensively. It only errors
// when the record is not a JSON object at all; every field has a fallback.
func (n *NotificationDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if id, ok := pickInt(raw, "id"); ok {
		n.ID = id
	} else {
		// Synthesized placeholder, not a stable identifier: dedup across
		// refreshes is unreliable for records that land here.
		n.ID = 1000 + rand.Intn(9000)
		logger.WarnObj("notification record missing id, synthesized one", "id", n.ID)
	}

	if title, ok := pickString(raw, "title"); ok {
		n.Title = title
	} else {
		n.Title = "Notification"
	}

	if content, ok := pickString(raw, "content"); ok {
		n.Content = content
	} else {
		n.Content = "No content available"
	}

	n.ScreenCode, _ = pickString(raw, notificationScreenCodeKeys...)

	if ts, ok := timestampFromKeys(raw, notificationTimestampKeys...); ok {
		n.Timestamp = ts
	} else {
		n.Timestamp = time.Now()
		logger.WarnObj("notification timestamp unparseable, using current time", "notification_id", n.ID)
	}

	return nil
}

// NotificationsPage is one fetched page of notifications with its cursor
// metadata.
type NotificationsPage struct {
	Notifications []domain.Notification
	Pagination    domain.PaginationInfo
}

// NotificationService fetches paginated notification history.
type NotificationService struct {
	service
}

// NewNotificationService builds the notification service on top of the shared transport.
func NewNotificationService(sender httpclient.Sender, policy retry.Policy, sess *session.Context, log logger.Logger) *NotificationService {
	return &NotificationService{service: newService(sender, policy, sess, log)}
}

// FetchPage retrieves one page of notifications.
func (s *NotificationService) FetchPage(ctx context.Context, page, pageSize int) (NotificationsPage, error) {
	params := map[string]any{
		"page":     page,
		"pageSize": pageSize,
	}

	body, err := s.get(ctx, endpointNotifications, params)
	if err != nil {
		return NotificationsPage{}, err
	}

	dtos, pagination := DecodeFeed[NotificationDTO](body, envelopeKeys("notifications"), s.log)
	notifications := make([]domain.Notification, 0, len(dtos))
	for _, dto := range dtos {
		notifications = append(notifications, domain.Notification{
			ID:         dto.ID,
			Title:      dto.Title,
			Content:    dto.Content,
			Timestamp:  dto.Timestamp,
			ScreenCode: dto.ScreenCode,
		})
	}

	return NotificationsPage{Notifications: notifications, Pagination: pagination}, nil
}
