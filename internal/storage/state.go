// Package storage owns the bot's persisted state: the set of already
// delivered links, the set of observed content fingerprints, the last sent
// news snapshot and the per-user language map. Every collection lives in its
// own flat JSON file, is loaded once when the store opens and is written back
// on every mutation.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"tonnewsbot/internal/news"
)

const (
	sentNewsFile      = "sent_news.json"
	contentHashesFile = "content_hashes.json"
	lastNewsFile      = "last_news.json"
	userLangsFile     = "user_languages.json"
)

// DefaultLanguage is used for users that never picked one.
const DefaultLanguage = "ru"

// Snapshot is the most recently delivered news item together with the
// Telegram message it was delivered as.
type Snapshot struct {
	news.Item
	MessageID int `json:"message_id"`
}

// Store keeps all persisted collections. Each collection has its own mutex
// around the read-modify-write-save sequence because the monitor goroutine
// and the update handlers touch the same files.
type Store struct {
	dir string

	linksMu   sync.Mutex
	sentLinks map[string]struct{}

	hashesMu     sync.Mutex
	fingerprints map[string]struct{}

	lastMu   sync.Mutex
	lastNews *Snapshot

	langsMu   sync.Mutex
	userLangs map[string]string
}

// Open loads all state files from dir. Missing files start the matching
// collection empty; a corrupt file is logged and also starts empty, so one
// damaged state file never blocks startup.
func Open(dir string) (*Store, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state dir: %v", err)
		}
	}

	s := &Store{
		dir:          dir,
		sentLinks:    make(map[string]struct{}),
		fingerprints: make(map[string]struct{}),
		userLangs:    make(map[string]string),
	}

	var links, hashes []string
	if err := s.loadJSON(sentNewsFile, &links); err != nil {
		return nil, err
	}
	for _, l := range links {
		s.sentLinks[l] = struct{}{}
	}

	if err := s.loadJSON(contentHashesFile, &hashes); err != nil {
		return nil, err
	}
	for _, h := range hashes {
		s.fingerprints[h] = struct{}{}
	}

	var snap Snapshot
	if err := s.loadJSON(lastNewsFile, &snap); err != nil {
		return nil, err
	}
	if snap.Link != "" {
		s.lastNews = &snap
	}

	if err := s.loadJSON(userLangsFile, &s.userLangs); err != nil {
		return nil, err
	}
	if s.userLangs == nil {
		s.userLangs = make(map[string]string)
	}

	return s, nil
}

// IsSent reports whether the link was already delivered. Pure lookup.
func (s *Store) IsSent(link string) bool {
	s.linksMu.Lock()
	defer s.linksMu.Unlock()
	_, ok := s.sentLinks[link]
	return ok
}

// MarkSent records a delivered link and persists the set. Called only after
// a successful send.
func (s *Store) MarkSent(link string) error {
	s.linksMu.Lock()
	defer s.linksMu.Unlock()
	s.sentLinks[link] = struct{}{}
	return s.saveJSON(sentNewsFile, setToList(s.sentLinks))
}

// IsDuplicateContent checks the content fingerprint against everything seen
// so far. On first sight the fingerprint is recorded and persisted before
// returning, so a second call with the same input reports true. This records
// on sight, not on send, which is more aggressive than the link set.
func (s *Store) IsDuplicateContent(title, content string) bool {
	fp := news.ContentFingerprint(title, content)

	s.hashesMu.Lock()
	defer s.hashesMu.Unlock()
	if _, ok := s.fingerprints[fp]; ok {
		slog.Debug("duplicate by content", "title", title)
		return true
	}
	s.fingerprints[fp] = struct{}{}
	if err := s.saveJSON(contentHashesFile, setToList(s.fingerprints)); err != nil {
		slog.Warn("failed to save content hashes", "error", err)
	}
	return false
}

// LastNews returns the last delivered item, if any.
func (s *Store) LastNews() (Snapshot, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if s.lastNews == nil {
		return Snapshot{}, false
	}
	return *s.lastNews, true
}

// SetLastNews overwrites the snapshot and persists it.
func (s *Store) SetLastNews(snap Snapshot) error {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.lastNews = &snap
	return s.saveJSON(lastNewsFile, snap)
}

// UserLanguage returns the stored preference or the default.
func (s *Store) UserLanguage(userID int64) string {
	s.langsMu.Lock()
	defer s.langsMu.Unlock()
	if lang, ok := s.userLangs[strconv.FormatInt(userID, 10)]; ok {
		return lang
	}
	return DefaultLanguage
}

// SetUserLanguage stores and persists the preference immediately.
func (s *Store) SetUserLanguage(userID int64, lang string) error {
	s.langsMu.Lock()
	defer s.langsMu.Unlock()
	s.userLangs[strconv.FormatInt(userID, 10)] = lang
	return s.saveJSON(userLangsFile, s.userLangs)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) loadJSON(name string, out any) error {
	path := s.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", name, err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Damaged state file: start over rather than refuse to run.
		slog.Warn("corrupt state file, starting empty", "file", name, "error", err)
	}
	return nil
}

func (s *Store) saveJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %v", name, err)
	}
	return nil
}

func setToList(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for k := range set {
		list = append(list, k)
	}
	return list
}
