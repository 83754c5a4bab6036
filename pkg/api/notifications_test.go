package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestNotificationDTONormalizesLooseRecords(t *testing.T) {
	var n NotificationDTO
	err := json.Unmarshal([]byte(`{"id":"42","title":"Hello","content":"World","createdAt":1700000000,"screen_code":"SC-7"}`), &n)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.ID != 42 {
		t.Fatalf("numeric string id not accepted: %d", n.ID)
	}
	if !n.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("epoch timestamp = %v", n.Timestamp)
	}
	if n.ScreenCode != "SC-7" {
		t.Fatalf("screen code alias not picked up: %q", n.ScreenCode)
	}
}

func TestNotificationDTOFallbacks(t *testing.T) {
	before := time.Now()
	var n NotificationDTO
	if err := json.Unmarshal([]byte(`{}`), &n); err != nil {
		t.Fatalf("empty object rejected: %v", err)
	}

	if n.ID < 1000 || n.ID > 9999 {
		t.Fatalf("synthesized id out of range: %d", n.ID)
	}
	if n.Title != "Notification" {
		t.Fatalf("title default = %q", n.Title)
	}
	if n.Content != "No content available" {
		t.Fatalf("content default = %q", n.Content)
	}
	if n.Timestamp.Before(before) || n.Timestamp.After(time.Now()) {
		t.Fatalf("timestamp fallback not current time: %v", n.Timestamp)
	}
	if n.ScreenCode != "" {
		t.Fatalf("screen code should be empty, got %q", n.ScreenCode)
	}
}

func TestNotificationDTOTimestampKeyVariants(t *testing.T) {
	for _, body := range []string{
		`{"id":1,"timeStamp":"2024-06-01"}`,
		`{"id":1,"timestamp":"2024-06-01"}`,
		`{"id":1,"time":"2024-06-01"}`,
		`{"id":1,"date":"2024-06-01"}`,
		`{"id":1,"createdAt":"2024-06-01"}`,
	} {
		var n NotificationDTO
		if err := json.Unmarshal([]byte(body), &n); err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if n.Timestamp.Year() != 2024 || n.Timestamp.Month() != time.June {
			t.Fatalf("%s: timestamp = %v", body, n.Timestamp)
		}
	}
}

func TestNotificationDTORejectsNonObject(t *testing.T) {
	var n NotificationDTO
	if err := json.Unmarshal([]byte(`"just text"`), &n); err == nil {
		t.Fatalf("non-object record accepted")
	}
}

func TestNotificationFetchPage(t *testing.T) {
	sender := &stubSender{body: []byte(`{
		"notifications": [
			{"id": 1, "title": "A", "content": "a", "createdAt": "2024-06-01"},
			{"id": 2, "title": "B", "content": "b", "createdAt": "2024-06-02", "screenCode": "SC-1"}
		],
		"pagination": {"currentPage": 1, "totalPages": 4, "pageSize": 20}
	}`)}
	svc := NewNotificationService(sender, testPolicy(), testSession("tok"), nil)

	page, err := svc.FetchPage(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if sender.lastEndpoint != "/api/v1/user/get-notifications" || sender.lastMethod != http.MethodGet {
		t.Fatalf("wrong call: %s %s", sender.lastMethod, sender.lastEndpoint)
	}
	if sender.lastParams["page"] != 1 || sender.lastParams["pageSize"] != 20 {
		t.Fatalf("params = %v", sender.lastParams)
	}
	if len(page.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(page.Notifications))
	}
	if page.Pagination.TotalPages != 4 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if page.Notifications[1].ScreenCode != "SC-1" {
		t.Fatalf("screen code lost in mapping: %+v", page.Notifications[1])
	}
}
