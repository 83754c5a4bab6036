package feed

import (
	"context"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/pkg/api"
)

// NotificationFetcher is the slice of the notification service the feed needs.
type NotificationFetcher interface {
	FetchPage(ctx context.Context, page, pageSize int) (api.NotificationsPage, error)
}

// NotificationFeed is the paginated notification history.
//
// Dedup by id is best-effort here: ids the decoder had to synthesize are not
// stable across refreshes, so a re-fetched record can reappear under a new id.
type NotificationFeed struct {
	*Feed[domain.Notification]
}

// NewNotificationFeed builds a notification feed with the given page size.
func NewNotificationFeed(fetcher NotificationFetcher, pageSize int, opts Options, log logger.Logger) *NotificationFeed {
	if pageSize <= 0 {
		pageSize = 20
	}

	fetch := func(ctx context.Context, page int) (PageResult[domain.Notification], error) {
		result, err := fetcher.FetchPage(ctx, page, pageSize)
		if err != nil {
			return PageResult[domain.Notification]{}, err
		}
		return PageResult[domain.Notification]{Records: result.Notifications, Pagination: result.Pagination}, nil
	}

	return &NotificationFeed{
		Feed: New(fetch, func(n domain.Notification) int { return n.ID }, opts, log),
	}
}
