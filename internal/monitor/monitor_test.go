package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonnewsbot/internal/news"
)

type fakeFetcher struct {
	mu      sync.Mutex
	batches [][]news.Item
	calls   int
}

func (f *fakeFetcher) FetchNew(ctx context.Context) []news.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.batches) == 0 {
		return nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch
}

type fakeAlerter struct {
	mu    sync.Mutex
	sent  []news.Item
	fail  bool
	lang  string
	langs []string
}

func (f *fakeAlerter) SendNewsAlert(ctx context.Context, item news.Item, lang string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langs = append(f.langs, lang)
	if f.fail {
		return false
	}
	f.sent = append(f.sent, item)
	return true
}

func (f *fakeAlerter) ChatLanguage() string {
	if f.lang == "" {
		return "ru"
	}
	return f.lang
}

func TestCycleSendsAllFreshItems(t *testing.T) {
	fetcher := &fakeFetcher{batches: [][]news.Item{{
		{Title: "TON up", Link: "https://a/1"},
		{Title: "TON listing", Link: "https://a/2"},
	}}}
	alerter := &fakeAlerter{lang: "en"}
	m := New(fetcher, alerter, time.Minute, time.Second, time.Millisecond)

	require.NoError(t, m.cycle(context.Background()))

	require.Len(t, alerter.sent, 2)
	assert.Equal(t, "https://a/1", alerter.sent[0].Link)
	assert.Equal(t, []string{"en", "en"}, alerter.langs)
}

func TestCycleEmptyIsNotAnError(t *testing.T) {
	m := New(&fakeFetcher{}, &fakeAlerter{}, time.Minute, time.Second, time.Millisecond)
	assert.NoError(t, m.cycle(context.Background()))
}

func TestCycleAllSendsFailed(t *testing.T) {
	fetcher := &fakeFetcher{batches: [][]news.Item{{
		{Title: "TON news", Link: "https://a/1"},
	}}}
	alerter := &fakeAlerter{fail: true}
	m := New(fetcher, alerter, time.Minute, time.Second, time.Millisecond)

	err := m.cycle(context.Background())
	require.Error(t, err)
	assert.Empty(t, alerter.sent)
}

func TestRunStopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{}
	m := New(fetcher, &fakeAlerter{}, time.Hour, time.Hour, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// Let the first cycle start, then cancel mid-sleep.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
	assert.GreaterOrEqual(t, fetcher.calls, 1)
}
