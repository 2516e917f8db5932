// Package request provides the shared outbound HTTP client.
// All upstream traffic (LLM, synthesis, article fetches) goes through one
// Client so that per-provider pacing, caching and usage tracking apply
// uniformly. A failed call is final; nothing here retries.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"vaachak/pkg/cache"
	"vaachak/pkg/tracker"
	"vaachak/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("Vaachak/%s (content-to-speech summarizer)", version.Version)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Code, e.Body)
}

// Client handles HTTP requests with per-provider queuing, caching and tracking.
type Client struct {
	httpClient *http.Client
	cache      cache.Cacher
	tracker    *tracker.Tracker
	backoff    *ProviderBackoff

	mu     sync.Mutex // protects queues
	queues map[string]chan job
}

type job struct {
	req      *http.Request
	headers  map[string]string
	cacheKey string
	respChan chan jobResult
}

type jobResult struct {
	body []byte
	err  error
}

// New creates a new Client.
func New(c cache.Cacher, t *tracker.Tracker, b *ProviderBackoff, timeout time.Duration) *Client {
	if c == nil {
		c = cache.Nop{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		tracker:    t,
		backoff:    b,
		queues:     make(map[string]chan job),
	}
}

// Get performs a GET request, consulting the cache when cacheKey is non-empty.
func (c *Client) Get(ctx context.Context, u, cacheKey string) ([]byte, error) {
	provider := providerFor(u)

	if cacheKey != "" {
		if val, hit := c.cache.Get(ctx, cacheKey); hit {
			c.tracker.CacheHit(provider)
			slog.Debug("Cache hit", "provider", provider, "key", cacheKey)
			return val, nil
		}
		c.tracker.CacheMiss(provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.enqueue(ctx, provider, job{req: req, cacheKey: cacheKey, respChan: make(chan jobResult, 1)})
}

// PostJSON performs a POST with a JSON body and custom headers.
func (c *Client) PostJSON(ctx context.Context, u string, body []byte, headers map[string]string) ([]byte, error) {
	provider := providerFor(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return c.enqueue(ctx, provider, job{req: req, headers: headers, respChan: make(chan jobResult, 1)})
}

func (c *Client) enqueue(ctx context.Context, provider string, j job) ([]byte, error) {
	c.dispatch(provider, j)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-j.respChan:
		return res.body, res.err
	}
}

// providerFor maps a request URL onto a provider name for pacing and stats.
func providerFor(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return "unknown"
	}
	host := parsed.Host
	switch {
	case strings.HasSuffix(host, "sarvam.ai"):
		return "sarvam"
	case strings.HasSuffix(host, "googleapis.com"):
		return "gemini"
	case strings.HasSuffix(host, "inference.ai.azure.com"), strings.HasSuffix(host, "openai.com"):
		return "llm"
	default:
		// Arbitrary article hosts share one queue; a scrape should never
		// starve the synthesis or summarization queues.
		return "article"
	}
}

// dispatch sends the job to the provider's queue, creating the worker if needed.
func (c *Client) dispatch(provider string, j job) {
	c.mu.Lock()
	q, ok := c.queues[provider]
	if !ok {
		q = make(chan job, 64)
		c.queues[provider] = q
		go c.worker(provider, q)
	}
	c.mu.Unlock()

	select {
	case q <- j:
	case <-j.req.Context().Done():
		j.respChan <- jobResult{err: j.req.Context().Err()}
	}
}

// worker processes requests for one provider sequentially.
func (c *Client) worker(provider string, q <-chan job) {
	for j := range q {
		if err := j.req.Context().Err(); err != nil {
			j.respChan <- jobResult{err: err}
			continue
		}

		for k, v := range j.headers {
			j.req.Header.Set(k, v)
		}
		if j.req.Header.Get("User-Agent") == "" {
			j.req.Header.Set("User-Agent", defaultUserAgent)
		}

		if c.backoff != nil {
			c.backoff.Wait(provider)
		}

		body, err := c.execute(j.req)

		c.tracker.Request(provider, err != nil)
		if c.backoff != nil {
			if err != nil {
				c.backoff.RecordFailure(provider)
			} else {
				c.backoff.RecordSuccess(provider)
			}
		}

		if err == nil && j.cacheKey != "" {
			if cerr := c.cache.Set(context.Background(), j.cacheKey, body); cerr != nil {
				slog.Error("Failed to cache response", "url", j.req.URL, "error", cerr)
			}
		}

		j.respChan <- jobResult{body: body, err: err}
	}
}

// execute performs one request. There is no retry: a single remote-call
// failure is final for that call.
func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Host, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
