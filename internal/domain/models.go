package domain

// Domain contains the immutable client-side entities. Feed updates replace
// whole collections; no entity is mutated in place after construction.

import (
	"strings"
	"time"
)

// Article is a published article with its rendered HTML body.
type Article struct {
	ID             int
	Title          string
	Slug           string
	Content        string
	ContentPreview string
	PublishDate    time.Time
	CategoryID     int
	ImagePath      string
}

// ArticleCategory groups articles; the foreign key is not enforced client-side.
type ArticleCategory struct {
	ID        int
	Name      string
	ImagePath string
}

// Quote is a motivational quote backed by an image or video asset.
type Quote struct {
	ID         int
	Content    string
	Writer     string
	MediaURL   string
	CategoryID int
	IsLiked    bool
	IsVideo    bool
}

// Notification is a push-style message. The ID may have been synthesized
// when the wire payload carried none; see the decoder.
type Notification struct {
	ID         int
	Title      string
	Content    string
	Timestamp  time.Time
	ScreenCode string
}

// IsRecent reports whether the notification is younger than three days.
func (n Notification) IsRecent() bool {
	return time.Since(n.Timestamp) < 3*24*time.Hour
}

// PaginationInfo is the page cursor metadata recovered from a response.
type PaginationInfo struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
}

// DefaultPagination is what the decoder assumes when the payload carries
// no pagination metadata at all.
func DefaultPagination() PaginationInfo {
	return PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 20}
}

var videoSuffixes = []string{".mp4", ".mov", ".avi", ".wmv"}

// IsVideoURL classifies a media URL by its suffix, case-insensitive.
func IsVideoURL(mediaURL string) bool {
	lowered := strings.ToLower(mediaURL)
	for _, suffix := range videoSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return true
		}
	}
	return false
}
