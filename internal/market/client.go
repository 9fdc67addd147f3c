// Package market talks to the warframe.market riven endpoints: the weapon
// and attribute vocabularies and the auction search.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/rivenscan/internal/cache"
	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/util"
	"github.com/ppiankov/rivenscan/internal/vocab"
	"github.com/ppiankov/rivenscan/internal/worker"
	"github.com/rs/zerolog"
)

var (
	// ErrWeaponNotFound is returned when a weapon name has no market entry
	ErrWeaponNotFound = errors.New("weapon not found")

	// ErrDisallowed is returned when robots.txt forbids the endpoint
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// retrySleepFunc is the sleep used between retries (injectable for tests)
var retrySleepFunc = time.Sleep

// Client is a rate-limited, cached market API client
type Client struct {
	baseURL      string
	platform     string
	language     string
	buyoutPolicy string
	userAgent    string
	maxRetries   int
	maxBody      int64
	vocabTTL     time.Duration
	searchTTL    time.Duration

	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	cache      cache.Cache
	logger     zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default proxy-aware client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache enables response caching
func WithCache(ch cache.Cache) Option {
	return func(c *Client) { c.cache = ch }
}

// WithLogger sets the client's logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithLimiter shares a limiter between clients
func WithLimiter(l *worker.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client from configuration
func NewClient(cfg *model.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.Market.BaseURL, "/"),
		platform:     cfg.Market.Platform,
		language:     cfg.Market.Language,
		buyoutPolicy: cfg.Market.BuyoutPolicy,
		userAgent:    cfg.HTTP.UserAgent,
		maxRetries:   cfg.Market.MaxRetries,
		maxBody:      cfg.HTTP.MaxBodyBytes,
		vocabTTL:     cfg.Cache.VocabTTL,
		searchTTL:    cfg.Cache.SearchTTL,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = util.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.Proxy, "")
	}
	if c.limiter == nil {
		c.limiter = worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst)
	}
	if cfg.Market.RespectRobots {
		c.robots = util.NewRobotsChecker(c.httpClient, c.userAgent)
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 1
	}
	if c.maxBody <= 0 {
		c.maxBody = 10 * 1024 * 1024
	}
	if c.language == "" {
		c.language = "en"
	}
	if c.platform == "" {
		c.platform = "pc"
	}
	if c.buyoutPolicy == "" {
		c.buyoutPolicy = "direct"
	}
	return c
}

type itemsEnvelope struct {
	Payload struct {
		Items []interface{} `json:"items"`
	} `json:"payload"`
}

type attributesEnvelope struct {
	Payload struct {
		Attributes []model.AttributeRef `json:"attributes"`
	} `json:"payload"`
}

type auctionsEnvelope struct {
	Payload struct {
		Auctions []model.Auction `json:"auctions"`
	} `json:"payload"`
}

// RivenItems fetches the riven-eligible weapons
func (c *Client) RivenItems(ctx context.Context) ([]model.WeaponRef, error) {
	key := cache.Key(cache.KindItems, c.baseURL+"|"+c.language)
	var weapons []model.WeaponRef
	if cache.GetJSON(c.cache, key, &weapons) {
		return weapons, nil
	}

	var env itemsEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/riven/items", &env); err != nil {
		return nil, fmt.Errorf("fetch riven items: %w", err)
	}
	weapons = vocab.NormalizeWeapons(env.Payload.Items)

	if err := cache.SetJSON(c.cache, key, weapons, c.vocabTTL); err != nil {
		c.logger.Warn().Err(err).Msg("cache riven items")
	}
	return weapons, nil
}

// RivenAttributes fetches the riven attribute vocabulary
func (c *Client) RivenAttributes(ctx context.Context) ([]model.AttributeRef, error) {
	key := cache.Key(cache.KindAttributes, c.baseURL+"|"+c.language)
	var attrs []model.AttributeRef
	if cache.GetJSON(c.cache, key, &attrs) {
		return attrs, nil
	}

	var env attributesEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/riven/attributes", &env); err != nil {
		return nil, fmt.Errorf("fetch riven attributes: %w", err)
	}
	attrs = env.Payload.Attributes
	if attrs == nil {
		attrs = []model.AttributeRef{}
	}

	if err := cache.SetJSON(c.cache, key, attrs, c.vocabTTL); err != nil {
		c.logger.Warn().Err(err).Msg("cache riven attributes")
	}
	return attrs, nil
}

// InvalidateVocabulary drops the cached items and attributes so the next
// fetch goes to the network
func (c *Client) InvalidateVocabulary() error {
	if c.cache == nil {
		return nil
	}
	id := c.baseURL + "|" + c.language
	return errors.Join(
		c.cache.Delete(cache.Key(cache.KindItems, id)),
		c.cache.Delete(cache.Key(cache.KindAttributes, id)),
	)
}

// SearchAuctions runs a riven auction search. Empty parameter values are
// dropped; platform and buyout_policy default from configuration.
func (c *Client) SearchAuctions(ctx context.Context, params map[string]string) ([]model.Auction, error) {
	endpoint := c.SearchURL(params)

	key := cache.Key(cache.KindSearch, endpoint)
	var auctions []model.Auction
	if cache.GetJSON(c.cache, key, &auctions) {
		return auctions, nil
	}

	var env auctionsEnvelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, fmt.Errorf("search auctions: %w", err)
	}
	auctions = env.Payload.Auctions
	if auctions == nil {
		auctions = []model.Auction{}
	}

	if err := cache.SetJSON(c.cache, key, auctions, c.searchTTL); err != nil {
		c.logger.Warn().Err(err).Msg("cache auction search")
	}
	return auctions, nil
}

// SearchURL builds the auction search URL for params
func (c *Client) SearchURL(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if q.Get("platform") == "" {
		q.Set("platform", c.platform)
	}
	if q.Get("buyout_policy") == "" {
		q.Set("buyout_policy", c.buyoutPolicy)
	}
	q.Del("type")
	return c.baseURL + "/auctions/search?type=riven&" + q.Encode()
}

// WeaponURLName resolves a display name to its market url_name
func (c *Client) WeaponURLName(ctx context.Context, name string) (string, error) {
	weapons, err := c.RivenItems(ctx)
	if err != nil {
		return "", err
	}
	v := vocab.Vocabulary{Weapons: weapons}
	w, ok := v.FindWeapon(name)
	if !ok || w.URLName == "" {
		return "", fmt.Errorf("%q: %w", name, ErrWeaponNotFound)
	}
	return w.URLName, nil
}

// getJSON performs a GET with retries and decodes the body into v
func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	if c.robots != nil {
		allowed, delay, err := c.robots.Check(ctx, endpoint)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%s: %w", endpoint, ErrDisallowed)
		}
		if u, err := url.Parse(endpoint); err == nil {
			c.limiter.SlowHost(u.Host, delay)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		body, status, err := c.get(ctx, endpoint)
		if err == nil && status >= 200 && status < 300 {
			if err := json.Unmarshal(body, v); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status: %d", status)
		}
		if !isRetryable(status, err) || ctx.Err() != nil {
			return lastErr
		}
		if attempt < c.maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			c.logger.Debug().
				Str("url", endpoint).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("retrying market request")
			retrySleepFunc(backoff)
		}
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, 0, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Language", c.language)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// isRetryable reports transient failures: 5xx, 429, timeouts and
// refused or reset connections
func isRetryable(status int, err error) bool {
	if status == http.StatusTooManyRequests || (status >= 500 && status < 600) {
		return true
	}
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
