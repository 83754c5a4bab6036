// Package app wires configuration, logging, the session store, the transport
// and the per-resource services into one client runtime.
package app

import (
	"fmt"
	"os"

	"github.com/harmony-haven/haven-client/internal/config"
	"github.com/harmony-haven/haven-client/internal/feed"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/routes"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/api"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// Client is the assembled backend client: services for one-shot fetches and
// feed state machines for the infinite-scroll surfaces.
type Client struct {
	cfg   *config.Config
	log   logger.Logger
	store session.Store
	sess  *session.Context

	Articles      *api.ArticleService
	Quotes        *api.QuoteService
	Notifications *api.NotificationService
	Chat          *api.ChatService
	auth          *api.AuthService

	QuoteFeed        *feed.QuoteFeed
	NotificationFeed *feed.NotificationFeed
	Routes           *routes.Registry
}

// NewClient builds a client runtime from config. A nil connectivity probe
// means "assume online".
func NewClient(cfg *config.Config, connectivity httpclient.Connectivity, log logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	store, err := session.NewStore(cfg.SessionStoreType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}
	sess := session.NewContext(store, log)

	transport, err := httpclient.NewTransport(cfg.BaseURL, httpclient.NewRestyClient(cfg.HTTPTimeout), connectivity, log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init transport: %w", err)
	}

	policy := retry.NewPolicy(cfg.RetryMaxAttempts, cfg.RetryDelay, log)

	chat, err := api.NewChatService(cfg.BaseURL, sess, log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init chat service: %w", err)
	}

	client := &Client{
		cfg:           cfg,
		log:           log,
		store:         store,
		sess:          sess,
		Articles:      api.NewArticleService(transport, policy, sess, log),
		Quotes:        api.NewQuoteService(transport, policy, sess, log),
		Notifications: api.NewNotificationService(transport, policy, sess, log),
		Chat:          chat,
		auth:          api.NewAuthService(transport, policy, sess, log),
	}

	feedOpts := feed.Options{
		PrefetchWindow:      cfg.PrefetchWindow,
		FirstPageRetryDelay: cfg.FirstPageRetryDelay,
	}
	client.QuoteFeed = feed.NewQuoteFeed(client.Quotes, feed.QuoteFeedConfig{
		Category:      cfg.DefaultQuoteCategory,
		FirstPageSize: cfg.QuoteFirstPageSize,
		NextPageSize:  cfg.QuoteNextPageSize,
		Options:       feedOpts,
	}, log)
	client.NotificationFeed = feed.NewNotificationFeed(client.Notifications, cfg.NotificationPageSize, feedOpts, log)

	client.Routes = loadRoutes(cfg.RoutesFile, log)

	log.InfoObj("client initialized", "client_meta", map[string]any{
		"base_url":      cfg.BaseURL,
		"session_store": cfg.SessionStoreType,
		"routes":        len(client.Routes.All()),
	})

	return client, nil
}

// loadRoutes reads the screen-code registry; a missing file is not fatal,
// notifications just stay unroutable.
func loadRoutes(path string, log logger.Logger) *routes.Registry {
	if path == "" {
		return routes.Empty()
	}
	if _, err := os.Stat(path); err != nil {
		log.WarnObj("routes file not found, screen codes will not resolve", "path", path)
		return routes.Empty()
	}
	reg, err := routes.Load(path)
	if err != nil {
		log.WarnObj("routes file invalid, screen codes will not resolve", "error", err.Error())
		return routes.Empty()
	}
	return reg
}

// Session exposes the session context for advanced callers.
func (c *Client) Session() *session.Context { return c.sess }

// Close releases the session store.
func (c *Client) Close() error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Close()
}
