package preview

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/folio-content/internal/logger"
	"github.com/samvad-hq/folio-content/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 10 * time.Second
)

// LinkPreview is the metadata a page advertises about itself.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Scraper fetches pages and extracts metadata from OG tags.
type Scraper struct {
	client httpclient.Client
	delay  time.Duration
	log    logger.Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
// delay is the pause between consecutive requests made by Enrich.
func NewScraper(client httpclient.Client, delay time.Duration, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	return &Scraper{client: client, delay: delay, log: logger.Ensure(log)}
}

// Enrich fetches a preview for each URL, throttled by the scraper delay.
// Failed lookups are logged and left out of the result. On cancellation the
// previews gathered so far are returned.
func (s *Scraper) Enrich(ctx context.Context, urls []string) map[string]LinkPreview {
	out := make(map[string]LinkPreview, len(urls))

	for i, u := range urls {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		p, err := s.Preview(ctx, u)
		if err != nil {
			s.log.WarnObj("link preview failed", "preview_error", map[string]any{
				"url":   u,
				"error": err.Error(),
			})
		} else {
			out[u] = p
		}

		if s.delay > 0 && i < len(urls)-1 {
			timer := time.NewTimer(s.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

// Preview fetches pageURL and parses its metadata.
func (s *Scraper) Preview(ctx context.Context, pageURL string) (LinkPreview, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return LinkPreview{}, fmt.Errorf("preview url is empty")
	}

	resp, err := s.client.Get(ctx, pageURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return LinkPreview{}, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return LinkPreview{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	p, err := parseMeta(body)
	if err != nil {
		return LinkPreview{}, err
	}
	p.URL = pageURL
	p.ImageURL = resolveURL(p.ImageURL, pageURL)
	return p, nil
}

func parseMeta(body []byte) (LinkPreview, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return LinkPreview{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return LinkPreview{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
	}, nil
}

// resolveURL makes ref absolute relative to base. Unparseable input is returned as-is.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
