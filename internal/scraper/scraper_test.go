package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractSummary_OGDescription(t *testing.T) {
	srv := servePage(t, `<html><head><meta property="og:description" content="TON hits a new milestone"></head><body></body></html>`)

	s := New(5 * time.Second)
	got, err := s.ExtractSummary(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "TON hits a new milestone", got)
}

func TestExtractSummary_FirstParagraphFallback(t *testing.T) {
	srv := servePage(t, `<html><body><article><p>ad</p><p>The TON network shipped a long awaited upgrade for its validator set today.</p></article></body></html>`)

	s := New(5 * time.Second)
	got, err := s.ExtractSummary(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got, "long awaited upgrade")
}

func TestExtractSummary_NoContent(t *testing.T) {
	srv := servePage(t, `<html><body><p>short</p></body></html>`)

	s := New(5 * time.Second)
	_, err := s.ExtractSummary(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestExtractSummary_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	s := New(5 * time.Second)
	_, err := s.ExtractSummary(context.Background(), srv.URL)
	assert.Error(t, err)
}
