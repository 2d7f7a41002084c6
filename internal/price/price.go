// Package price answers TON price queries against Binance with a short
// freshness window, so button-mashing a refresh never hammers the exchange.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tonnewsbot/internal/cache"
	"tonnewsbot/internal/metrics"
)

const (
	// Symbol is the fixed trading pair the bot watches.
	Symbol = "TONUSDT"

	// fallbackUSDRUB is used when the conversion service is unreachable.
	fallbackUSDRUB = 80.0

	cacheKey = "ton_price"
)

// Info is a price snapshot for the watched pair.
type Info struct {
	USD       float64 `json:"price_usd"`
	RUB       float64 `json:"price_rub"`
	Change24h float64 `json:"change_24h"`
}

// Emoji returns the trend marker for the 24h change.
func (i Info) Emoji() string {
	if i.Change24h > 0 {
		return "📈"
	}
	return "📉"
}

// Service fetches and caches the price.
type Service struct {
	client *http.Client
	cache  *cache.Cache
	ttl    time.Duration

	// Overridable in tests.
	binanceBase string
	rateURL     string

	refreshMu sync.Mutex
}

func New(timeout, ttl time.Duration) *Service {
	return &Service{
		client:      &http.Client{Timeout: timeout},
		cache:       cache.New(),
		ttl:         ttl,
		binanceBase: "https://api.binance.com",
		rateURL:     "https://api.exchangerate-api.com/v4/latest/USD",
	}
}

// Get returns the cached snapshot while it is fresh, otherwise refreshes
// synchronously. A nil Info with error means "price unavailable"; callers
// must not render that as a zero change.
func (s *Service) Get(ctx context.Context) (*Info, error) {
	if v, ok := s.cache.Get(cacheKey); ok {
		metrics.Global.IncrementPriceCacheHits()
		info := v.(Info)
		return &info, nil
	}

	// One refresh at a time; losers of the race reuse the winner's result.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if v, ok := s.cache.Get(cacheKey); ok {
		info := v.(Info)
		return &info, nil
	}

	info, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, *info, s.ttl)
	metrics.Global.IncrementPriceFetches()
	return info, nil
}

func (s *Service) fetch(ctx context.Context) (*Info, error) {
	usd, err := s.fetchSpot(ctx)
	if err != nil {
		return nil, fmt.Errorf("spot price: %w", err)
	}

	change, err := s.fetch24hChange(ctx)
	if err != nil {
		return nil, fmt.Errorf("24h stats: %w", err)
	}

	// Conversion is best effort: fall back to the hardcoded rate silently.
	rate := s.fetchUSDRUBRate(ctx)

	return &Info{
		USD:       usd,
		RUB:       usd * rate,
		Change24h: change,
	}, nil
}

func (s *Service) fetchSpot(ctx context.Context) (float64, error) {
	var payload struct {
		Price string `json:"price"`
	}
	if err := s.getJSON(ctx, s.binanceBase+"/api/v3/ticker/price?symbol="+Symbol, &payload); err != nil {
		return 0, err
	}
	if payload.Price == "" {
		return 0, fmt.Errorf("no price in response")
	}
	return strconv.ParseFloat(payload.Price, 64)
}

func (s *Service) fetch24hChange(ctx context.Context) (float64, error) {
	var payload struct {
		PriceChangePercent string `json:"priceChangePercent"`
	}
	if err := s.getJSON(ctx, s.binanceBase+"/api/v3/ticker/24hr?symbol="+Symbol, &payload); err != nil {
		return 0, err
	}
	if payload.PriceChangePercent == "" {
		return 0, nil
	}
	return strconv.ParseFloat(payload.PriceChangePercent, 64)
}

func (s *Service) fetchUSDRUBRate(ctx context.Context) float64 {
	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := s.getJSON(ctx, s.rateURL, &payload); err != nil {
		slog.Debug("rate service unreachable, using fallback", "error", err)
		return fallbackUSDRUB
	}
	if rate, ok := payload.Rates["RUB"]; ok && rate > 0 {
		return rate
	}
	return fallbackUSDRUB
}

func (s *Service) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
