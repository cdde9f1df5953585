package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// LinkPreview fetches page titles for task links so the admin can confirm
// the link points where they think it does.
type LinkPreview struct {
	client *http.Client
}

func NewLinkPreview(timeout time.Duration) *LinkPreview {
	return &LinkPreview{client: &http.Client{Timeout: timeout}}
}

// Title returns the <title> of the page at url, trimmed. An empty string
// with nil error means the page has no title.
func (p *LinkPreview) Title(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ONIBot/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}
