// Package app wires the bot together and runs it until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tonnewsbot/internal/ai"
	"tonnewsbot/internal/config"
	"tonnewsbot/internal/logger"
	"tonnewsbot/internal/monitor"
	"tonnewsbot/internal/price"
	"tonnewsbot/internal/ratelimit"
	"tonnewsbot/internal/rss"
	"tonnewsbot/internal/scraper"
	"tonnewsbot/internal/storage"
	"tonnewsbot/internal/telegram"
	"tonnewsbot/internal/translate"
)

// Run builds every component from the environment and blocks until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %v", err)
	}

	logger.Init(cfg.Debug)
	slog.Info("🚀 Starting TON news bot")

	store, err := storage.Open(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open state: %v", err)
	}

	limiter := ratelimit.New(cfg.OpenAIDailyLimit, cfg.GeminiDailyLimit)
	analyzer, err := ai.NewAnalyzer(ctx, cfg.OpenAIAPIKey, cfg.GeminiAPIKey, limiter)
	if err != nil {
		return fmt.Errorf("ai: %v", err)
	}
	defer analyzer.Close()

	prices := price.New(cfg.HTTPTimeout, cfg.PriceCacheTTL)
	translator := translate.New(cfg.HTTPTimeout)

	feeds, err := rss.LoadFeeds(cfg.FeedsConfigPath)
	if err != nil {
		return fmt.Errorf("load feeds: %v", err)
	}
	slog.Info("📋 Feeds loaded", "count", len(feeds))

	poller := rss.NewPoller(feeds, cfg.EntriesPerFeed, store, scraper.New(cfg.HTTPTimeout))

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChat, store, analyzer, prices, translator)
	if err != nil {
		return fmt.Errorf("telegram: %v", err)
	}
	if err := bot.RegisterCommands(); err != nil {
		slog.Warn("Failed to register bot commands", "error", err)
	}

	mon := monitor.New(poller, bot, cfg.CheckInterval, cfg.RecoveryInterval, cfg.SendPause)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		bot.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()
	wg.Wait()

	slog.Info("👋 Bot stopped")
	return nil
}
