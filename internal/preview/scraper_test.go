package preview

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/folio-content/pkg/httpclient"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }
func (s stubHTTPResponse) Status() string  { return "" }

// stubHTTPClient returns a response per URL.
type stubHTTPClient struct {
	responses map[string]httpclient.Response
	calls     []string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.calls = append(s.calls, url)
	resp, ok := s.responses[url]
	if !ok {
		return nil, errors.New("no route")
	}
	return resp, nil
}

const ogPage = `
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG Desc">
    <meta property="og:image" content="/img/og.png">
  </head>
</html>`

func TestParseMetaPrefersOGTags(t *testing.T) {
	meta, err := parseMeta([]byte(ogPage))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG Desc" || meta.ImageURL != "/img/og.png" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestParseMetaFallsBackToTitleAndDescription(t *testing.T) {
	meta, err := parseMeta([]byte(`<html><head><title> Plain </title><meta name="description" content="desc"></head></html>`))
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "Plain" || meta.Description != "desc" || meta.ImageURL != "" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	got := resolveURL("/img.png", "https://example.com/articles/1")
	if got != "https://example.com/img.png" {
		t.Fatalf("resolveURL got %q", got)
	}

	if got := resolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestPreviewResolvesImageAndLimitsBody(t *testing.T) {
	page := append([]byte(ogPage), bytes.Repeat([]byte(" "), maxHTMLBodyBytes)...)
	client := &stubHTTPClient{responses: map[string]httpclient.Response{
		"https://folio.example.com/": stubHTTPResponse{body: page, statusCode: 200},
	}}

	p, err := NewScraper(client, 0, nil).Preview(context.Background(), "https://folio.example.com/")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if p.ImageURL != "https://folio.example.com/img/og.png" {
		t.Fatalf("ImageURL = %q", p.ImageURL)
	}
	if p.URL != "https://folio.example.com/" || p.Title != "OG Title" {
		t.Fatalf("unexpected preview %#v", p)
	}
}

func TestPreviewRejectsNon200(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]httpclient.Response{
		"https://gone.example.com": stubHTTPResponse{body: []byte("gone"), statusCode: 410},
	}}
	if _, err := NewScraper(client, 0, nil).Preview(context.Background(), "https://gone.example.com"); err == nil {
		t.Fatalf("expected error for 410")
	}
}

func TestEnrichSkipsFailures(t *testing.T) {
	client := &stubHTTPClient{responses: map[string]httpclient.Response{
		"https://ok.example.com": stubHTTPResponse{body: []byte(ogPage), statusCode: 200},
	}}

	got := NewScraper(client, 0, nil).Enrich(context.Background(), []string{
		"https://ok.example.com",
		"https://missing.example.com",
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 preview, got %d", len(got))
	}
	if _, ok := got["https://ok.example.com"]; !ok {
		t.Fatalf("missing preview for ok url: %#v", got)
	}
}

func TestEnrichStopsOnCancelledContext(t *testing.T) {
	client := &stubHTTPClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewScraper(client, 0, nil).Enrich(ctx, []string{"https://a", "https://b"})
	if len(got) != 0 || len(client.calls) != 0 {
		t.Fatalf("expected no work after cancel, got %d previews %d calls", len(got), len(client.calls))
	}
}
