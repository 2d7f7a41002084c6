// Package monitor runs the background news cycle: poll feeds, push fresh
// TON items to the channel, sleep, repeat.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tonnewsbot/internal/metrics"
	"tonnewsbot/internal/news"
)

// Fetcher produces fresh, deduplicated news items.
type Fetcher interface {
	FetchNew(ctx context.Context) []news.Item
}

// Alerter delivers one item to the channel and reports success.
type Alerter interface {
	SendNewsAlert(ctx context.Context, item news.Item, lang string) bool
	ChatLanguage() string
}

type Monitor struct {
	fetcher Fetcher
	alerter Alerter

	checkInterval    time.Duration
	recoveryInterval time.Duration
	sendPause        time.Duration
}

func New(fetcher Fetcher, alerter Alerter, checkInterval, recoveryInterval, sendPause time.Duration) *Monitor {
	return &Monitor{
		fetcher:          fetcher,
		alerter:          alerter,
		checkInterval:    checkInterval,
		recoveryInterval: recoveryInterval,
		sendPause:        sendPause,
	}
}

// Run loops until ctx is cancelled. A cycle where every send failed counts
// as degraded and triggers the shorter recovery sleep.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("📡 News monitoring started",
		"check_interval", m.checkInterval,
		"recovery_interval", m.recoveryInterval)

	for {
		wait := m.checkInterval
		if err := m.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				slog.Info("News monitoring stopped")
				return
			}
			slog.Error("❌ News cycle failed, backing off", "error", err)
			metrics.Global.SetError(err.Error())
			wait = m.recoveryInterval
		} else {
			metrics.Global.SetCycleDone()
		}

		select {
		case <-ctx.Done():
			slog.Info("News monitoring stopped")
			return
		case <-time.After(wait):
		}
	}
}

func (m *Monitor) cycle(ctx context.Context) error {
	items := m.fetcher.FetchNew(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(items) == 0 {
		slog.Debug("No fresh TON news this cycle")
		return nil
	}

	lang := m.alerter.ChatLanguage()
	slog.Info("📬 Sending fresh news", "count", len(items), "lang", lang)

	sent := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !m.alerter.SendNewsAlert(ctx, item, lang) {
			continue
		}
		sent++
		// Pause between channel posts so Telegram doesn't throttle us.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.sendPause):
		}
	}

	if sent == 0 {
		return errAllSendsFailed
	}
	return nil
}

var errAllSendsFailed = errors.New("all news sends failed this cycle")
