package feed

import (
	"context"
	"math/rand"
	"sync"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/pkg/api"
)

// QuoteFetcher is the slice of the quote service the feed needs.
type QuoteFetcher interface {
	FetchPage(ctx context.Context, categories []int, page, pageSize, seed int) (api.QuotesPage, error)
}

// QuoteFeedConfig tunes the quote feed.
type QuoteFeedConfig struct {
	Category      int
	FirstPageSize int
	NextPageSize  int
	Options       Options
}

func (c QuoteFeedConfig) withDefaults() QuoteFeedConfig {
	if c.Category <= 0 {
		c.Category = 21
	}
	if c.FirstPageSize <= 0 {
		c.FirstPageSize = 100
	}
	if c.NextPageSize <= 0 {
		c.NextPageSize = 10
	}
	return c
}

// QuoteFeed is the paginated quote stream. A random seed chosen per browsing
// session pins the server-side shuffle order, so pages of one session never
// reshuffle under the reader; changing category or refreshing the seed starts
// a new session.
type QuoteFeed struct {
	*Feed[domain.Quote]

	fetcher QuoteFetcher
	cfg     QuoteFeedConfig

	mu       sync.Mutex
	category int
	seed     int
}

// NewQuoteFeed builds a quote feed with a fresh session seed.
func NewQuoteFeed(fetcher QuoteFetcher, cfg QuoteFeedConfig, log logger.Logger) *QuoteFeed {
	cfg = cfg.withDefaults()
	qf := &QuoteFeed{
		fetcher:  fetcher,
		cfg:      cfg,
		category: cfg.Category,
		seed:     newSeed(),
	}
	qf.Feed = New(qf.fetchPage, func(q domain.Quote) int { return q.ID }, cfg.Options, log)
	return qf
}

func (qf *QuoteFeed) fetchPage(ctx context.Context, page int) (PageResult[domain.Quote], error) {
	qf.mu.Lock()
	category := qf.category
	seed := qf.seed
	qf.mu.Unlock()

	pageSize := qf.cfg.NextPageSize
	if page == 1 {
		pageSize = qf.cfg.FirstPageSize
	}

	result, err := qf.fetcher.FetchPage(ctx, []int{category}, page, pageSize, seed)
	if err != nil {
		return PageResult[domain.Quote]{}, err
	}
	return PageResult[domain.Quote]{Records: result.Quotes, Pagination: result.Pagination}, nil
}

// Category returns the active quote category.
func (qf *QuoteFeed) Category() int {
	qf.mu.Lock()
	defer qf.mu.Unlock()
	return qf.category
}

// Seed returns the session's shuffle seed.
func (qf *QuoteFeed) Seed() int {
	qf.mu.Lock()
	defer qf.mu.Unlock()
	return qf.seed
}

// ChangeCategory switches the active category and reloads from page one.
// A no-op when the category is unchanged.
func (qf *QuoteFeed) ChangeCategory(ctx context.Context, categoryID int) error {
	qf.mu.Lock()
	if qf.category == categoryID {
		qf.mu.Unlock()
		return nil
	}
	qf.category = categoryID
	qf.mu.Unlock()

	qf.Reset()
	return qf.LoadFirst(ctx, true)
}

// Refresh starts a new browsing session with a fresh shuffle seed.
func (qf *QuoteFeed) Refresh(ctx context.Context) error {
	qf.mu.Lock()
	qf.seed = newSeed()
	qf.mu.Unlock()

	qf.Reset()
	return qf.LoadFirst(ctx, true)
}

func newSeed() int {
	return 1 + rand.Intn(100000)
}
