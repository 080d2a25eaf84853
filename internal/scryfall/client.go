package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arcanaland/mtgcalc/internal/card"
)

const (
	defaultBaseURL   = "https://api.scryfall.com"
	defaultUserAgent = "MTGCalculator/0.1"
	rateLimitDelay   = 100 * time.Millisecond // Scryfall asks for 50-100ms between requests
	requestTimeout   = 30 * time.Second
)

// Client fetches sets and cards from the Scryfall API. Requests are issued
// one at a time and are never retried.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
	unique      string
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the minimum delay between requests. Zero disables limiting.
func WithRateLimit(d time.Duration) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUnique sets the search uniqueness mode ("cards", "art" or "prints").
func WithUnique(mode string) Option {
	return func(c *Client) { c.unique = mode }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		unique:      "cards",
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sets retrieves every set known to the API.
func (c *Client) Sets(ctx context.Context) ([]card.Set, error) {
	var list setList
	if err := c.doRequest(ctx, c.baseURL+"/sets", &list); err != nil {
		return nil, fmt.Errorf("failed to get sets: %w", err)
	}
	if list.Data == nil {
		return nil, fmt.Errorf("failed to get sets: %w: missing data", ErrMalformedResponse)
	}

	sets := make([]card.Set, 0, len(*list.Data))
	for _, rs := range *list.Data {
		s, err := mapSet(rs)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// SearchSetCards fetches the paper cards of every given set, in order.
// Empty codes are skipped.
func (c *Client) SearchSetCards(ctx context.Context, codes ...string) ([]card.Card, error) {
	var cards []card.Card
	for _, code := range codes {
		if code == "" {
			continue
		}
		setCards, err := c.searchSet(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to search set %s: %w", code, err)
		}
		cards = append(cards, setCards...)
	}
	return cards, nil
}

func (c *Client) searchSet(ctx context.Context, code string) ([]card.Card, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("set:%s game:paper", code))
	params.Set("unique", c.unique)
	params.Set("order", "set")
	params.Set("include_extras", "true")
	params.Set("include_variations", "true")

	next := c.baseURL + "/cards/search?" + params.Encode()
	var cards []card.Card

	for page := 1; next != ""; page++ {
		var p cardPage
		if err := c.doRequest(ctx, next, &p); err != nil {
			return nil, err
		}
		if p.Data == nil {
			return nil, fmt.Errorf("%w: page %d missing data", ErrMalformedResponse, page)
		}

		for _, rc := range *p.Data {
			if rc.FlavorName != "" {
				c.logger.Info("Using flavor name",
					zap.String("name", rc.Name),
					zap.String("flavor_name", rc.FlavorName))
			}
			mapped, err := mapCard(rc)
			if err != nil {
				return nil, err
			}
			cards = append(cards, mapped...)
		}

		c.logger.Debug("Fetched card page",
			zap.String("set", code),
			zap.Int("page", page),
			zap.Int("records", len(*p.Data)),
			zap.Bool("has_more", p.HasMore))

		next = ""
		if p.HasMore {
			if p.NextPage == "" {
				return nil, fmt.Errorf("%w: page %d has more results but no next_page", ErrMalformedResponse, page)
			}
			next = p.NextPage
		}
	}

	return cards, nil
}

// doRequest performs a rate limited GET and decodes the JSON body into result.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("GET", zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: HTTP request failed: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		apiErr := &APIError{}
		if err := json.Unmarshal(body, apiErr); err == nil && (apiErr.Details != "" || apiErr.Code != "") {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			return apiErr
		}
		return fmt.Errorf("%w: API request failed with status %d: %s", ErrNetwork, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to parse JSON response: %w", ErrMalformedResponse, err)
	}
	return nil
}
