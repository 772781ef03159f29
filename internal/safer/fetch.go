package safer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultBaseURL is the registry's search form endpoint.
const DefaultBaseURL = "https://safer.fmcsa.dot.gov/query.asp"

// DefaultUserAgent is a realistic browser fingerprint. The registry host
// rejects or throttles obvious script clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// UpstreamError reports a non-200 answer from the registry.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("registry returned status %d", e.StatusCode)
}

// Fetcher submits registry searches over HTTP and parses the responses.
type Fetcher struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// FetcherOption is a functional option for configuring the Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL points the fetcher at a different registry endpoint.
func WithBaseURL(baseURL string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = baseURL
	}
}

// WithUserAgent overrides the browser fingerprint.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client, usually to bound the upstream
// timeout. A stalled registry is treated like any other transport failure.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a registry fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch submits the query as the registry's own search form would and
// returns the parsed response page. The registry serves legacy encodings,
// so the body is decoded to UTF-8 from whatever charset the response
// declares before parsing.
func (f *Fetcher) Fetch(ctx context.Context, q Query) (*Page, error) {
	start := time.Now()

	form := q.FormValues().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		slog.Debug("registry fetch failed",
			slog.String("query_param", q.Kind.queryParam()),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("registry fetch returned error",
			slog.String("query_param", q.Kind.queryParam()),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding response charset: %w", err)
	}
	page, err := ParsePage(body)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	slog.Debug("registry fetch completed",
		slog.String("query_param", q.Kind.queryParam()),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return page, nil
}
