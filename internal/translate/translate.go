// Package translate converts Russian message text to English through the
// MyMemory API. Translation is always best effort: any failure returns the
// original text unchanged.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const maxTranslateChars = 500

type Translator struct {
	client  *http.Client
	baseURL string
}

func New(timeout time.Duration) *Translator {
	return &Translator{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://api.mymemory.translated.net/get",
	}
}

// Translate returns text in targetLang. Russian is the feed's native
// language, so "ru" is a no-op; anything the service cannot handle falls
// back to the original text.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) string {
	if targetLang != "en" || text == "" {
		return text
	}

	clipped := text
	if len(clipped) > maxTranslateChars {
		clipped = clipped[:maxTranslateChars]
	}

	translated, err := t.request(ctx, clipped)
	if err != nil {
		slog.Debug("translation failed, using original", "error", err)
		return text
	}
	return translated
}

func (t *Translator) request(ctx context.Context, text string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", "ru|en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		ResponseStatus int `json:"responseStatus"`
		ResponseData   struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if payload.ResponseStatus != 200 || payload.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("service status %d", payload.ResponseStatus)
	}
	return payload.ResponseData.TranslatedText, nil
}
