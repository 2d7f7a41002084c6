// Package rss polls the configured crypto news feeds and yields new unique
// TON news items.
package rss

import (
	"context"
	"log/slog"
	"os"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"tonnewsbot/internal/metrics"
	"tonnewsbot/internal/news"
)

// FeedsConfig is YAML config structure
// feeds:
//   - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads RSS feeds list from YAML file
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// StateStore is the part of the persisted state the poller consults.
type StateStore interface {
	IsSent(link string) bool
	IsDuplicateContent(title, content string) bool
}

// SummaryFetcher extracts a short summary from the article page itself,
// used when a feed entry carries no description.
type SummaryFetcher interface {
	ExtractSummary(ctx context.Context, url string) (string, error)
}

// Poller iterates the feed list and applies the topic, seen-link and
// duplicate-content filters.
type Poller struct {
	parser  *gofeed.Parser
	feeds   []string
	perFeed int
	state   StateStore
	scraper SummaryFetcher // optional
}

func NewPoller(feeds []string, perFeed int, state StateStore, scraper SummaryFetcher) *Poller {
	return &Poller{
		parser:  gofeed.NewParser(),
		feeds:   feeds,
		perFeed: perFeed,
		state:   state,
		scraper: scraper,
	}
}

// FetchNew returns new unique TON items in feed-then-entry order. A broken
// feed is logged and skipped; it never blocks the remaining feeds.
func (p *Poller) FetchNew(ctx context.Context) []news.Item {
	var items []news.Item

	for _, feedURL := range p.feeds {
		feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return items
			}
			slog.Warn("feed error", "url", feedURL, "error", err)
			metrics.Global.IncrementFeedErrors()
			continue
		}

		entries := feed.Items
		if len(entries) > p.perFeed {
			entries = entries[:p.perFeed]
		}

		for _, entry := range entries {
			metrics.Global.IncrementNewsProcessed()

			if !news.IsTONRelated(entry.Title) && !news.IsTONRelated(entry.Description) {
				continue
			}
			if p.state.IsSent(entry.Link) {
				continue
			}
			if p.state.IsDuplicateContent(entry.Title, entry.Description) {
				slog.Debug("duplicate filtered", "title", entry.Title)
				metrics.Global.IncrementDuplicatesFiltered()
				continue
			}

			content := news.CleanHTML(entry.Description)
			if content == "" && p.scraper != nil {
				// Some feeds publish bare links; try the article page.
				if extracted, err := p.scraper.ExtractSummary(ctx, entry.Link); err == nil {
					content = extracted
				} else {
					slog.Debug("summary extraction failed", "url", entry.Link, "error", err)
				}
			}

			items = append(items, news.Item{
				Title:   news.CleanHTML(entry.Title),
				Link:    entry.Link,
				Content: news.TruncateContent(content),
			})
		}
	}

	return items
}
