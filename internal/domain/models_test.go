package domain

import (
	"strings"
	"testing"
	"time"
)

func TestIsVideoURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/q/1.mp4", true},
		{"https://cdn.example.com/q/1.MP4", true},
		{"https://cdn.example.com/q/1.mov", true},
		{"https://cdn.example.com/q/1.avi", true},
		{"https://cdn.example.com/q/1.wmv", true},
		{"https://cdn.example.com/q/1.png", false},
		{"https://cdn.example.com/q/1.jpg", false},
		{"https://cdn.example.com/q/mp4-thumbnail.png", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsVideoURL(tc.url); got != tc.want {
			t.Fatalf("IsVideoURL(%q) = %v", tc.url, got)
		}
	}
}

func TestNotificationIsRecent(t *testing.T) {
	fresh := Notification{Timestamp: time.Now().Add(-time.Hour)}
	if !fresh.IsRecent() {
		t.Fatalf("hour-old notification not recent")
	}
	stale := Notification{Timestamp: time.Now().Add(-4 * 24 * time.Hour)}
	if stale.IsRecent() {
		t.Fatalf("four-day-old notification still recent")
	}
}

func TestDefaultPagination(t *testing.T) {
	want := PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 20}
	if got := DefaultPagination(); got != want {
		t.Fatalf("DefaultPagination = %+v", got)
	}
}

func TestPreviewFromHTML(t *testing.T) {
	got := PreviewFromHTML("<p>Breathe   in, <em>breathe</em> out.</p>")
	if got != "Breathe in, breathe out." {
		t.Fatalf("preview = %q", got)
	}

	long := PreviewFromHTML("<p>" + strings.Repeat("word ", 100) + "</p>")
	if !strings.HasSuffix(long, "...") {
		t.Fatalf("long preview not truncated: %q", long)
	}
	if len([]rune(long)) > 280+3 {
		t.Fatalf("truncated preview too long: %d runes", len([]rune(long)))
	}

	if got := PreviewFromHTML("plain text, no markup"); got != "plain text, no markup" {
		t.Fatalf("plain text preview = %q", got)
	}
}
