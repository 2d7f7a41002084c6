package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonnewsbot/internal/news"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSentLinks(t *testing.T) {
	s := openStore(t)

	link := "https://example.com/ton-news/1"
	assert.False(t, s.IsSent(link))

	require.NoError(t, s.MarkSent(link))
	assert.True(t, s.IsSent(link))

	// Stays sent for the rest of the process lifetime.
	require.NoError(t, s.MarkSent("https://example.com/other"))
	assert.True(t, s.IsSent(link))
}

func TestIsDuplicateContent_FalseThenTrue(t *testing.T) {
	s := openStore(t)

	assert.False(t, s.IsDuplicateContent("TON listed on exchange", "details"))
	assert.True(t, s.IsDuplicateContent("TON listed on exchange", "details"))
}

func TestIsDuplicateContent_IgnoresLink(t *testing.T) {
	s := openStore(t)

	// Same normalized text from two outlets: second sighting is a duplicate.
	assert.False(t, s.IsDuplicateContent("TON network upgrade ships", "validators approve"))
	assert.True(t, s.IsDuplicateContent("network upgrade ships", "validators approve"))
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.MarkSent("https://a.example/1"))
	require.NoError(t, s.MarkSent("https://b.example/2"))
	assert.False(t, s.IsDuplicateContent("upgrade shipped", "long details here"))
	require.NoError(t, s.SetUserLanguage(42, "en"))
	require.NoError(t, s.SetLastNews(Snapshot{
		Item:      news.Item{Title: "t", Link: "https://a.example/1", Content: "c"},
		MessageID: 777,
	}))

	// Reload from disk and expect identical state.
	reloaded, err := Open(dir)
	require.NoError(t, err)

	assert.True(t, reloaded.IsSent("https://a.example/1"))
	assert.True(t, reloaded.IsSent("https://b.example/2"))
	assert.False(t, reloaded.IsSent("https://c.example/3"))

	assert.True(t, reloaded.IsDuplicateContent("upgrade shipped", "long details here"))

	assert.Equal(t, "en", reloaded.UserLanguage(42))
	assert.Equal(t, DefaultLanguage, reloaded.UserLanguage(999))

	snap, ok := reloaded.LastNews()
	require.True(t, ok)
	assert.Equal(t, "t", snap.Title)
	assert.Equal(t, 777, snap.MessageID)
}

func TestOpen_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sent_news.json"), []byte("{not json"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	assert.False(t, s.IsSent("anything"))
}

func TestLastNews_EmptyStore(t *testing.T) {
	s := openStore(t)
	_, ok := s.LastNews()
	assert.False(t, ok)
}

func TestUserLanguage_Default(t *testing.T) {
	s := openStore(t)
	assert.Equal(t, "ru", s.UserLanguage(1))

	require.NoError(t, s.SetUserLanguage(1, "en"))
	assert.Equal(t, "en", s.UserLanguage(1))

	require.NoError(t, s.SetUserLanguage(1, "ru"))
	assert.Equal(t, "ru", s.UserLanguage(1))
}
