package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harmony-haven/haven-client/internal/app"
	"github.com/harmony-haven/haven-client/internal/config"
	"github.com/harmony-haven/haven-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "havencli failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := app.NewClient(cfg, nil, logger.ZapLogger{})
	if err != nil {
		logger.ErrorObj("failed to initialize client", "error", err)
		return err
	}
	defer client.Close()

	if email, password := os.Getenv("HAVEN_EMAIL"), os.Getenv("HAVEN_PASSWORD"); email != "" {
		if err := client.Login(ctx, email, password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		logger.InfoObj("logged in", "email", email)
	} else if !client.IsAuthenticated() {
		logger.WarnObj("no stored session and no credentials provided", "hint", "set HAVEN_EMAIL / HAVEN_PASSWORD")
	}

	categories, err := client.Articles.FetchCategories(ctx)
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}
	logger.InfoObj("categories fetched", "count", len(categories))

	articles, err := client.Articles.FetchArticles(ctx)
	if err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}
	logger.InfoObj("articles fetched", "count", len(articles))

	if client.IsAuthenticated() {
		if err := client.NotificationFeed.LoadFirst(ctx, false); err != nil {
			logger.WarnObj("notifications unavailable", "error", err.Error())
		} else {
			logger.InfoObj("notifications loaded", "count", len(client.NotificationFeed.Records()))
		}

		if err := client.QuoteFeed.LoadFirst(ctx, false); err != nil {
			logger.WarnObj("quotes unavailable", "error", err.Error())
		} else {
			quotes := client.QuoteFeed.Records()
			logger.InfoObj("quotes loaded", "quotes_meta", map[string]any{
				"count": len(quotes),
				"seed":  client.QuoteFeed.Seed(),
			})
		}
	}

	return nil
}
