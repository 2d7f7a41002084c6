package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	NewsProcessed      int64
	DuplicatesFiltered int64
	MessagesSent       int64
	SendFailures       int64
	FeedErrors         int64
	PriceCacheHits     int64
	PriceFetches       int64

	// Status
	LastCycleTime time.Time
	LastError     string
	LastErrorTime time.Time
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementNewsProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewsProcessed++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementMessagesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesSent++
}

func (m *Metrics) IncrementSendFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFailures++
}

func (m *Metrics) IncrementFeedErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedErrors++
}

func (m *Metrics) IncrementPriceCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PriceCacheHits++
}

func (m *Metrics) IncrementPriceFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PriceFetches++
}

func (m *Metrics) SetCycleDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastCycleTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"news_processed":      m.NewsProcessed,
		"duplicates_filtered": m.DuplicatesFiltered,
		"messages_sent":       m.MessagesSent,
		"send_failures":       m.SendFailures,
		"feed_errors":         m.FeedErrors,
		"price_cache_hits":    m.PriceCacheHits,
		"price_fetches":       m.PriceFetches,
		"last_cycle_time":     m.LastCycleTime.Format(time.RFC3339),
		"last_error":          m.LastError,
		"last_error_time":     m.LastErrorTime.Format(time.RFC3339),
		"is_healthy":          m.IsHealthy,
	}
}
