// Package feed implements the client-side cursor state machine for
// infinite-scroll feeds: page tracking, in-flight gating, dedup by id,
// prefetch-on-scroll, all-duplicates recovery and a single automatic retry
// for a failed empty first page.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
)

// State is the lifecycle phase of a feed.
type State int

const (
	Idle State = iota
	LoadingFirstPage
	LoadingNextPage
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case LoadingFirstPage:
		return "loading_first_page"
	case LoadingNextPage:
		return "loading_next_page"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// PageResult is one fetched page handed back to the machine.
type PageResult[T any] struct {
	Records    []T
	Pagination domain.PaginationInfo
}

// FetchFunc retrieves one page for the feed's current parameters.
type FetchFunc[T any] func(ctx context.Context, page int) (PageResult[T], error)

// Options tunes the machine. Zero values get defaults.
type Options struct {
	// PrefetchWindow is how many trailing records the anchor must be within
	// to trigger a next-page fetch.
	PrefetchWindow int
	// FirstPageRetryDelay is the pause before the single automatic retry of
	// a failed, empty first page.
	FirstPageRetryDelay time.Duration
	// ForceRetryDelay is the pause before a busy ForceLoadNext reschedules
	// itself.
	ForceRetryDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.PrefetchWindow <= 0 {
		o.PrefetchWindow = 3
	}
	if o.FirstPageRetryDelay <= 0 {
		o.FirstPageRetryDelay = 3 * time.Second
	}
	if o.ForceRetryDelay <= 0 {
		o.ForceRetryDelay = time.Second
	}
	return o
}

// Feed accumulates one deduplicated, append-only page sequence. All state is
// guarded by one mutex; fetches run outside it and completions re-acquire it,
// so overlapping pages can never interleave partial state. Completions from a
// superseded generation (category or seed change) are dropped entirely.
type Feed[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]
	idOf  func(T) int
	opts  Options
	log   logger.Logger

	state       State
	records     []T
	currentPage int
	totalPages  int

	inFlight       bool
	generation     int
	lastAnchorID   int
	hasAnchor      bool
	retryScheduled bool
	autoRetried    bool
	forcePending   bool

	errMsg  string
	lastErr error
}

// New builds a feed over a page fetcher and an id extractor.
func New[T any](fetch FetchFunc[T], idOf func(T) int, opts Options, log logger.Logger) *Feed[T] {
	return &Feed[T]{
		fetch:       fetch,
		idOf:        idOf,
		opts:        opts.withDefaults(),
		log:         logger.Ensure(log),
		state:       Idle,
		currentPage: 1,
		totalPages:  1,
	}
}

// State returns the current lifecycle phase.
func (f *Feed[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Records returns a copy of the accumulated sequence.
func (f *Feed[T]) Records() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.records))
	copy(out, f.records)
	return out
}

// Cursor returns the current and total page counts.
func (f *Feed[T]) Cursor() (currentPage, totalPages int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentPage, f.totalPages
}

// ErrorMessage returns the user-facing message of the last failure, if any.
func (f *Feed[T]) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// LastError returns the raw error of the last failure for diagnostics.
func (f *Feed[T]) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Reset discards the cursor and accumulated records and bumps the generation
// so in-flight completions from the old parameters are ignored.
func (f *Feed[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.records = nil
	f.currentPage = 1
	f.totalPages = 1
	f.state = Idle
	f.inFlight = false
	f.hasAnchor = false
	f.autoRetried = false
	f.errMsg = ""
	f.lastErr = nil
}

// LoadFirst loads page one. Without force, a non-empty cache is served as-is.
// An overlapping call is dropped, not queued. On a failure that leaves the
// feed empty, exactly one automatic retry is scheduled.
func (f *Feed[T]) LoadFirst(ctx context.Context, force bool) error {
	f.mu.Lock()
	if !force && len(f.records) > 0 {
		f.state = Loaded
		f.mu.Unlock()
		return nil
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil
	}
	f.inFlight = true
	f.state = LoadingFirstPage
	f.errMsg = ""
	f.lastErr = nil
	gen := f.generation
	f.mu.Unlock()

	result, err := f.fetch(ctx, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		// Stale completion from before a reset; the new context owns the feed.
		return nil
	}
	f.inFlight = false

	if err != nil {
		f.state = Failed
		f.errMsg = Message(err)
		f.lastErr = err
		if len(f.records) == 0 && !f.retryScheduled && !f.autoRetried {
			f.scheduleFirstPageRetry(gen)
		}
		return err
	}

	f.records = dedupByID(result.Records, f.idOf)
	f.applyPagination(result.Pagination, 1)
	f.state = Loaded
	f.autoRetried = false
	f.hasAnchor = false
	return nil
}

// scheduleFirstPageRetry arms the one automatic retry. Caller holds the lock.
func (f *Feed[T]) scheduleFirstPageRetry(gen int) {
	f.retryScheduled = true
	f.log.InfoObj("scheduling first page retry", "delay", f.opts.FirstPageRetryDelay.String())
	time.AfterFunc(f.opts.FirstPageRetryDelay, func() {
		f.mu.Lock()
		f.retryScheduled = false
		f.autoRetried = true
		stale := gen != f.generation
		f.mu.Unlock()
		if stale {
			return
		}
		_ = f.LoadFirst(context.Background(), true)
	})
}

// LoadNextIfNeeded triggers a next-page fetch when the anchor record sits in
// the trailing prefetch window. It is a no-op while a fetch is in flight, at
// the last known page, or for an anchor that already triggered a fetch. An
// anchor missing from the sequence fetches anyway as a fallback.
func (f *Feed[T]) LoadNextIfNeeded(ctx context.Context, anchorID int) error {
	f.mu.Lock()
	if f.inFlight || f.currentPage >= f.totalPages {
		f.mu.Unlock()
		return nil
	}
	if f.hasAnchor && f.lastAnchorID == anchorID {
		f.mu.Unlock()
		return nil
	}

	idx := -1
	for i := range f.records {
		if f.idOf(f.records[i]) == anchorID {
			idx = i
			break
		}
	}
	if idx >= 0 && idx < len(f.records)-f.opts.PrefetchWindow {
		f.mu.Unlock()
		return nil
	}

	f.lastAnchorID = anchorID
	f.hasAnchor = true
	return f.beginNextLocked(ctx)
}

// ForceLoadNext is the manual override. At the last known page it reopens it
// by stepping the cursor back one page; while busy it reschedules itself once
// after a short delay instead of queueing.
func (f *Feed[T]) ForceLoadNext(ctx context.Context) error {
	f.mu.Lock()
	if f.currentPage >= f.totalPages && len(f.records) > 0 {
		if f.currentPage > 1 {
			f.currentPage--
		}
	}
	if f.inFlight {
		if !f.forcePending {
			f.forcePending = true
			gen := f.generation
			time.AfterFunc(f.opts.ForceRetryDelay, func() {
				f.mu.Lock()
				f.forcePending = false
				stale := gen != f.generation
				f.mu.Unlock()
				if stale {
					return
				}
				_ = f.ForceLoadNext(context.Background())
			})
		}
		f.mu.Unlock()
		return nil
	}
	if f.currentPage >= f.totalPages {
		f.mu.Unlock()
		return nil
	}
	return f.beginNextLocked(ctx)
}

// beginNextLocked starts a next-page fetch. Caller holds the lock, which is
// released before fetching. An all-duplicates page advances the cursor and
// cascades into the following page, bounded by totalPages.
func (f *Feed[T]) beginNextLocked(ctx context.Context) error {
	f.inFlight = true
	f.state = LoadingNextPage
	gen := f.generation

	for {
		page := f.currentPage + 1
		f.mu.Unlock()

		result, err := f.fetch(ctx, page)

		f.mu.Lock()
		if gen != f.generation {
			f.mu.Unlock()
			return nil
		}

		if err != nil {
			// Accumulated records stay browsable; only the flags change.
			f.inFlight = false
			f.state = Failed
			f.errMsg = Message(err)
			f.lastErr = err
			f.mu.Unlock()
			return err
		}

		f.applyPagination(result.Pagination, page)

		fresh := f.filterNew(result.Records)
		if len(fresh) == 0 && f.currentPage < f.totalPages {
			f.log.InfoObj("page contained only duplicates, advancing", "page_meta", map[string]any{
				"page":        f.currentPage,
				"total_pages": f.totalPages,
			})
			continue
		}

		f.records = append(f.records, fresh...)
		f.inFlight = false
		f.state = Loaded
		f.errMsg = ""
		f.lastErr = nil
		f.mu.Unlock()
		return nil
	}
}

// applyPagination merges response pagination into the cursor. Caller holds
// the lock. The cursor never moves backwards here; only ForceLoadNext may
// reopen a page.
func (f *Feed[T]) applyPagination(p domain.PaginationInfo, requestedPage int) {
	if p.TotalPages > 0 {
		f.totalPages = p.TotalPages
	}
	reported := p.CurrentPage
	if reported <= 0 {
		reported = requestedPage
	}
	if reported > f.currentPage || requestedPage == 1 {
		f.currentPage = reported
	}
	if f.currentPage > f.totalPages {
		f.currentPage = f.totalPages
	}
}

// filterNew drops records whose id is already accumulated. Caller holds the
// lock.
func (f *Feed[T]) filterNew(incoming []T) []T {
	seen := make(map[int]struct{}, len(f.records))
	for i := range f.records {
		seen[f.idOf(f.records[i])] = struct{}{}
	}
	fresh := make([]T, 0, len(incoming))
	for _, rec := range incoming {
		id := f.idOf(rec)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, rec)
	}
	return fresh
}

// dedupByID removes in-page duplicates while preserving order.
func dedupByID[T any](records []T, idOf func(T) int) []T {
	seen := make(map[int]struct{}, len(records))
	out := make([]T, 0, len(records))
	for _, rec := range records {
		id := idOf(rec)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}
