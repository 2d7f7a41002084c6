// Package scraper extracts a short summary from an article page for feed
// entries that publish a bare link without a description.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tonnewsbot/internal/news"
)

type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: timeout},
	}
}

// ExtractSummary fetches the page and returns the best short description it
// can find: the og:description meta tag, otherwise the first substantial
// article paragraph.
func (s *Scraper) ExtractSummary(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %v", err)
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if cleaned := news.CleanHTML(desc); cleaned != "" {
			return cleaned, nil
		}
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if cleaned := news.CleanHTML(desc); cleaned != "" {
			return cleaned, nil
		}
	}

	var paragraph string
	doc.Find("article p, .article-body p, .content p, p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 40 {
			paragraph = text
			return false
		}
		return true
	})

	if paragraph == "" {
		return "", fmt.Errorf("can't get content")
	}
	return news.CleanHTML(paragraph), nil
}
