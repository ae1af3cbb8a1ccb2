package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/tradewatch/internal/logging"
	"github.com/abelbrown/tradewatch/internal/ratelimit"
)

const (
	// MaxFetchBatch is the upstream's hard cap on ids per fetch request.
	MaxFetchBatch = 10

	// PageCap is roughly how many results a search returns regardless
	// of the reported total.
	PageCap = 100
)

var (
	// ErrAuthRequired is returned when the upstream rejects a call as
	// unauthenticated. The client never retries; re-authenticating is
	// the proxy collaborator's job.
	ErrAuthRequired = errors.New("trade: authentication required")

	// ErrBatchTooLarge is returned when FetchDetails is called with
	// more than MaxFetchBatch ids.
	ErrBatchTooLarge = fmt.Errorf("trade: fetch batch exceeds upstream limit of %d ids", MaxFetchBatch)
)

// Client calls the upstream search, fetch, and exchange endpoints.
// Every call waits on the shared rate governor first and feeds the
// response headers back into it afterwards; searches additionally pass
// through a fixed-cadence limiter because the upstream's acceptable
// polling rate for search is stricter than its raw request budget.
type Client struct {
	baseURL    string
	league     string
	realm      string
	httpClient *http.Client
	governor   *ratelimit.Governor
	searches   *rate.Limiter
}

// NewClient creates a Client. baseURL is the proxy-provided API root,
// e.g. "http://localhost:7555/proxy/www.pathofexile.com/api/trade2".
func NewClient(baseURL, league, realm string, governor *ratelimit.Governor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		league:     league,
		realm:      realm,
		httpClient: &http.Client{},
		governor:   governor,
		searches:   rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

// Search executes one search query, returning the matching listing ids
// (price-ascending, capped at ~PageCap) and the full match count.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if err := c.searches.Wait(ctx); err != nil {
		return nil, fmt.Errorf("trade: search cadence wait: %w", err)
	}

	body, err := json.Marshal(q.payload())
	if err != nil {
		return nil, fmt.Errorf("trade: marshal search payload: %w", err)
	}

	url := fmt.Sprintf("%s/search/%s/%s", c.baseURL, c.realm, c.league)
	logging.Debug("trade search", "url", url, "account", q.Account, "type", q.Type)

	var result SearchResult
	if err := c.do(ctx, http.MethodPost, url, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchDetails fetches full item records for up to MaxFetchBatch ids.
// Fewer records than ids is valid and means some ids are gone.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxFetchBatch {
		return nil, ErrBatchTooLarge
	}

	url := fmt.Sprintf("%s/fetch/%s?realm=%s", c.baseURL, strings.Join(ids, ","), c.realm)
	logging.Debug("trade fetch", "ids", len(ids))

	var result fetchResult
	if err := c.do(ctx, http.MethodGet, url, nil, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// ExchangeOffers queries the bulk exchange for listings swapping have
// into want.
func (c *Client) ExchangeOffers(ctx context.Context, want, have string) (*ExchangeResult, error) {
	payload := map[string]any{
		"query": map[string]any{
			"status": map[string]string{"option": "online"},
			"have":   []string{have},
			"want":   []string{want},
		},
		"sort":   map[string]string{"have": "asc"},
		"engine": "new",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("trade: marshal exchange payload: %w", err)
	}

	url := fmt.Sprintf("%s/exchange/%s/%s", c.baseURL, c.realm, c.league)
	logging.Debug("trade exchange", "want", want, "have", have)

	var result ExchangeResult
	if err := c.do(ctx, http.MethodPost, url, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one governed HTTP call: wait for a slot, issue the
// request, record the response's rate limit headers, decode the body.
func (c *Client) do(ctx context.Context, method, url string, body []byte, dest any) error {
	if err := c.governor.AwaitSlot(ctx); err != nil {
		return fmt.Errorf("trade: rate governor wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("trade: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "tradewatch/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trade: request failed: %w", err)
	}
	defer resp.Body.Close()

	c.governor.Record(resp.Header)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("trade: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrAuthRequired
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("trade: upstream returned status %d: %s", resp.StatusCode, snippet(respBody))
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("trade: decode response: %w", err)
	}
	return nil
}

// snippet truncates a response body for error messages.
func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
