package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
)

type rec struct {
	ID int
}

func recs(ids ...int) []rec {
	out := make([]rec, 0, len(ids))
	for _, id := range ids {
		out = append(out, rec{ID: id})
	}
	return out
}

func ids(records []rec) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scriptedFetcher replays one result per requested page and counts fetches.
type scriptedFetcher struct {
	mu    sync.Mutex
	pages map[int][]PageResult[rec]
	errs  map[int]error
	calls []int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{pages: map[int][]PageResult[rec]{}, errs: map[int]error{}}
}

func (s *scriptedFetcher) on(page int, result PageResult[rec]) {
	s.pages[page] = append(s.pages[page], result)
}

func (s *scriptedFetcher) failOn(page int, err error) {
	s.errs[page] = err
}

func (s *scriptedFetcher) fetch(ctx context.Context, page int) (PageResult[rec], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, page)
	if err, ok := s.errs[page]; ok {
		delete(s.errs, page)
		return PageResult[rec]{}, err
	}
	queued := s.pages[page]
	if len(queued) == 0 {
		return PageResult[rec]{}, nil
	}
	result := queued[0]
	s.pages[page] = queued[1:]
	return result, nil
}

func (s *scriptedFetcher) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedFetcher) fetchedPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.calls))
	copy(out, s.calls)
	return out
}

func page(ids []rec, current, total int) PageResult[rec] {
	return PageResult[rec]{
		Records:    ids,
		Pagination: domain.PaginationInfo{CurrentPage: current, TotalPages: total, PageSize: 20},
	}
}

func newTestFeed(f *scriptedFetcher, opts Options) *Feed[rec] {
	return New(f.fetch, func(r rec) int { return r.ID }, opts, nil)
}

func TestLoadFirstPopulatesAndCaches(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 2, 3), 1, 4))
	feed := newTestFeed(fetcher, Options{})

	if err := feed.LoadFirst(context.Background(), false); err != nil {
		t.Fatalf("LoadFirst: %v", err)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3}) {
		t.Fatalf("in-page duplicate survived: %v", got)
	}
	if feed.State() != Loaded {
		t.Fatalf("state = %v", feed.State())
	}
	current, total := feed.Cursor()
	if current != 1 || total != 4 {
		t.Fatalf("cursor = (%d, %d)", current, total)
	}

	// Cached records are served without another fetch.
	if err := feed.LoadFirst(context.Background(), false); err != nil {
		t.Fatalf("cached LoadFirst: %v", err)
	}
	if fetcher.fetchCount() != 1 {
		t.Fatalf("cache miss: %d fetches", fetcher.fetchCount())
	}
}

func TestLoadFirstForceRefetches(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1), 1, 1))
	fetcher.on(1, page(recs(9), 1, 1))
	feed := newTestFeed(fetcher, Options{})

	_ = feed.LoadFirst(context.Background(), false)
	_ = feed.LoadFirst(context.Background(), true)

	if fetcher.fetchCount() != 2 {
		t.Fatalf("force did not refetch: %d fetches", fetcher.fetchCount())
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{9}) {
		t.Fatalf("force result not applied: %v", got)
	}
}

func TestLoadNextMergesWithoutDuplicates(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3, 4), 1, 3))
	fetcher.on(2, page(recs(3, 4, 5, 6), 2, 3))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	if err := feed.LoadNextIfNeeded(context.Background(), 4); err != nil {
		t.Fatalf("LoadNextIfNeeded: %v", err)
	}

	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("overlap merge wrong: %v", got)
	}
	current, _ := feed.Cursor()
	if current != 2 {
		t.Fatalf("cursor not advanced: %d", current)
	}
}

func TestLoadNextAnchorOutsideWindowSkips(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3, 4, 5, 6, 7, 8), 1, 3))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	if err := feed.LoadNextIfNeeded(context.Background(), 2); err != nil {
		t.Fatalf("LoadNextIfNeeded: %v", err)
	}
	if fetcher.fetchCount() != 1 {
		t.Fatalf("anchor outside window still fetched: pages %v", fetcher.fetchedPages())
	}
}

func TestLoadNextSameAnchorFetchesOnce(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3, 4), 1, 5))
	fetcher.on(2, page(recs(5, 6, 7, 8), 2, 5))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	_ = feed.LoadNextIfNeeded(context.Background(), 4)
	_ = feed.LoadNextIfNeeded(context.Background(), 4)

	if got := fetcher.fetchCount(); got != 2 {
		t.Fatalf("same anchor fetched twice: pages %v", fetcher.fetchedPages())
	}
}

func TestLoadNextUnknownAnchorFetchesAnyway(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3, 4, 5, 6, 7, 8), 1, 2))
	fetcher.on(2, page(recs(9), 2, 2))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	if err := feed.LoadNextIfNeeded(context.Background(), 999); err != nil {
		t.Fatalf("LoadNextIfNeeded: %v", err)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("unknown anchor fallback did not fetch: %v", got)
	}
}

func TestLoadNextAtLastPageSkips(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3), 3, 3))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	_ = feed.LoadNextIfNeeded(context.Background(), 3)

	if fetcher.fetchCount() != 1 {
		t.Fatalf("fetched past the last page: pages %v", fetcher.fetchedPages())
	}
}

func TestAllDuplicatesPageCascades(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3, 4), 1, 3))
	fetcher.on(2, page(recs(1, 2, 3, 4), 2, 3))
	fetcher.on(3, page(recs(5, 6), 3, 3))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	if err := feed.LoadNextIfNeeded(context.Background(), 4); err != nil {
		t.Fatalf("LoadNextIfNeeded: %v", err)
	}

	if got := fetcher.fetchedPages(); !equalIDs(got, []int{1, 2, 3}) {
		t.Fatalf("cascade fetched pages %v", got)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("records after cascade: %v", got)
	}
	current, _ := feed.Cursor()
	if current != 3 {
		t.Fatalf("cursor after cascade: %d", current)
	}
}

func TestAllDuplicatesCascadeStopsAtLastPage(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2), 1, 2))
	fetcher.on(2, page(recs(1, 2), 2, 2))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	if err := feed.LoadNextIfNeeded(context.Background(), 2); err != nil {
		t.Fatalf("LoadNextIfNeeded: %v", err)
	}

	if got := fetcher.fetchedPages(); !equalIDs(got, []int{1, 2}) {
		t.Fatalf("cascade overran totalPages: %v", got)
	}
	if feed.State() != Loaded {
		t.Fatalf("state = %v", feed.State())
	}
}

func TestNextPageFailureKeepsRecords(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2, 3), 1, 3))
	fetcher.failOn(2, httpclient.NewError(httpclient.KindServerError))
	feed := newTestFeed(fetcher, Options{PrefetchWindow: 3})

	_ = feed.LoadFirst(context.Background(), false)
	err := feed.LoadNextIfNeeded(context.Background(), 3)
	if err == nil {
		t.Fatalf("expected next page failure")
	}

	if feed.State() != Failed {
		t.Fatalf("state = %v", feed.State())
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3}) {
		t.Fatalf("accumulated records lost on failure: %v", got)
	}
	if feed.ErrorMessage() != Message(httpclient.NewError(httpclient.KindServerError)) {
		t.Fatalf("error message = %q", feed.ErrorMessage())
	}

	// A later attempt recovers.
	fetcher.on(2, page(recs(4), 2, 3))
	if err := feed.LoadNextIfNeeded(context.Background(), 99); err != nil {
		t.Fatalf("recovery fetch: %v", err)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3, 4}) {
		t.Fatalf("recovery records: %v", got)
	}
}

func TestFirstPageFailureRetriesOnce(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.failOn(1, httpclient.NewError(httpclient.KindConnectionError))
	fetcher.on(1, page(recs(1, 2), 1, 1))
	feed := newTestFeed(fetcher, Options{FirstPageRetryDelay: 10 * time.Millisecond})

	if err := feed.LoadFirst(context.Background(), false); err == nil {
		t.Fatalf("expected first page failure")
	}
	if feed.State() != Failed {
		t.Fatalf("state = %v", feed.State())
	}

	deadline := time.Now().Add(2 * time.Second)
	for feed.State() != Loaded {
		if time.Now().After(deadline) {
			t.Fatalf("automatic retry never recovered, state=%v", feed.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2}) {
		t.Fatalf("records after retry: %v", got)
	}
	if fetcher.fetchCount() != 2 {
		t.Fatalf("expected exactly one automatic retry, got %d fetches", fetcher.fetchCount())
	}
}

func TestResetDropsStaleCompletion(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context, page int) (PageResult[rec], error) {
		close(started)
		<-release
		return page1Result(), nil
	}
	feed := New(fetch, func(r rec) int { return r.ID }, Options{}, nil)

	done := make(chan struct{})
	go func() {
		_ = feed.LoadFirst(context.Background(), false)
		close(done)
	}()

	<-started
	feed.Reset()
	close(release)
	<-done

	if got := feed.Records(); len(got) != 0 {
		t.Fatalf("stale completion applied: %v", got)
	}
	if feed.State() != Idle {
		t.Fatalf("state = %v", feed.State())
	}
}

func page1Result() PageResult[rec] {
	return page(recs(1, 2, 3), 1, 1)
}

func TestForceLoadNextReopensLastPage(t *testing.T) {
	fetcher := newScriptedFetcher()
	fetcher.on(1, page(recs(1, 2), 2, 2))
	fetcher.on(2, page(recs(1, 2, 3), 2, 2))
	feed := newTestFeed(fetcher, Options{})

	_ = feed.LoadFirst(context.Background(), false)
	current, total := feed.Cursor()
	if current != total {
		t.Fatalf("precondition: cursor (%d, %d)", current, total)
	}

	if err := feed.ForceLoadNext(context.Background()); err != nil {
		t.Fatalf("ForceLoadNext: %v", err)
	}
	if got := ids(feed.Records()); !equalIDs(got, []int{1, 2, 3}) {
		t.Fatalf("reopened page not merged: %v", got)
	}
}

func TestMessageMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{httpclient.NewError(httpclient.KindConnectionError), "No internet connection. Please check your network settings and try again."},
		{httpclient.NewError(httpclient.KindUnauthorized), "Your session has expired. Please log in again."},
		{httpclient.NewError(httpclient.KindServerError), "The server is experiencing issues. Please try again later."},
		{httpclient.NewError(httpclient.KindDecodingFailed), "There was a problem processing the data. The development team has been notified."},
		{httpclient.NewError(httpclient.KindRequestFailed), "An unexpected error occurred. Please try again later."},
	}
	for _, tc := range cases {
		if got := Message(tc.err); got != tc.want {
			t.Fatalf("Message(%v) = %q", tc.err, got)
		}
	}
}
