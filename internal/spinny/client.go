// Package spinny fetches listing detail and city search results from the
// Spinny marketplace API.
package spinny

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/logging"
	"telegram-alerts/internal/models"
)

// Fetcher retrieves data for one tracked entity. Implementations never return
// an error past this boundary: failures are reported in FetchResult.Err.
type Fetcher interface {
	FetchListing(ctx context.Context, entity models.TrackedEntity) models.FetchResult
	SearchCity(ctx context.Context, entity models.TrackedEntity) models.FetchResult
}

// Config holds client configuration.
type Config struct {
	BaseURL       string
	DetailTimeout time.Duration
	SearchTimeout time.Duration
	Headers       map[string]string
	SearchParams  map[string]string
	MaxBodyBytes  int64
}

// Defaults
const (
	DefaultBaseURL       = "https://api.spinny.com"
	DefaultDetailTimeout = 30 * time.Second
	DefaultSearchTimeout = 15 * time.Second
	DefaultMaxBodyBytes  = 4 << 20

	detailPath = "/v3/api/pdp/price-breakdown/%s/v2/"
	searchPath = "/v3/api/listing/v6/"
)

// DefaultHeaders mimic the browser client the API expects.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"accept":             "*/*",
		"accept-language":    "en-US,en-IN;q=0.9,en;q=0.8,hi;q=0.7",
		"content-type":       "application/json",
		"origin":             "https://www.spinny.com",
		"platform":           "web",
		"referer":            "https://www.spinny.com/",
		"sec-ch-ua":          `"Not(A:Brand";v="8", "Chromium";v="144", "Google Chrome";v="144"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"macOS"`,
		"sec-fetch-dest":     "empty",
		"sec-fetch-mode":     "cors",
		"sec-fetch-site":     "same-site",
		"user-agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36",
	}
}

// DefaultSearchParams are sent with every city search. city, model and page
// are added per request.
func DefaultSearchParams() map[string]string {
	return map[string]string{
		"show_max_on_assured":       "true",
		"custom_budget_sort":        "true",
		"prioritize_filter_listing": "true",
		"high_intent_required":      "false",
		"active_banner":             "true",
		"is_max_certified":          "0",
		"is_pulse_exp":              "false",
		"is_new_price":              "false",
	}
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// NewClient creates a new Client. A nil httpClient gets a default one; the
// per-call timeouts are applied through the request context.
func NewClient(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.DetailTimeout <= 0 {
		cfg.DetailTimeout = DefaultDetailTimeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.Headers == nil {
		cfg.Headers = DefaultHeaders()
	}
	if cfg.SearchParams == nil {
		cfg.SearchParams = DefaultSearchParams()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, client: httpClient, logger: logger}
}

// detailEnvelope is the price-breakdown response. The record lives under
// result; older responses used data.
type detailEnvelope struct {
	IsSuccess *bool       `json:"is_success"`
	Message   string      `json:"message"`
	Result    *models.Car `json:"result"`
	Data      *models.Car `json:"data"`
}

func (e detailEnvelope) car() *models.Car {
	if e.Result != nil {
		return e.Result
	}
	return e.Data
}

// searchEnvelope is the listing search response.
type searchEnvelope struct {
	IsSuccess *bool        `json:"is_success"`
	Message   string       `json:"message"`
	Count     *int         `json:"count"`
	Results   []models.Car `json:"results"`
}

// FetchListing fetches the detail record for a listing id.
func (c *Client) FetchListing(ctx context.Context, entity models.TrackedEntity) models.FetchResult {
	endpoint := c.cfg.BaseURL + fmt.Sprintf(detailPath, url.PathEscape(entity.ID))

	var env detailEnvelope
	if err := c.getJSON(ctx, entity, "listing", endpoint, c.cfg.DetailTimeout, &env); err != nil {
		return models.Failed(entity, err)
	}
	if env.IsSuccess == nil || !*env.IsSuccess {
		return c.fail(entity, "listing", fmt.Errorf("%w: %s", apperrors.ErrUnsuccessful, env.Message))
	}
	car := env.car()
	if car == nil {
		return c.fail(entity, "listing", apperrors.ErrNoData)
	}

	return models.FetchResult{Entity: entity, Cars: []models.Car{*car}, Count: 1}
}

// SearchCity runs the model search for one city, first page only.
func (c *Client) SearchCity(ctx context.Context, entity models.TrackedEntity) models.FetchResult {
	q := url.Values{}
	for k, v := range c.cfg.SearchParams {
		q.Set(k, v)
	}
	q.Set("city", entity.ID)
	q.Set("model", strings.Join(entity.Models, ","))
	q.Set("page", "1")
	endpoint := c.cfg.BaseURL + searchPath + "?" + q.Encode()

	var env searchEnvelope
	if err := c.getJSON(ctx, entity, "search", endpoint, c.cfg.SearchTimeout, &env); err != nil {
		return models.Failed(entity, err)
	}
	if env.IsSuccess == nil || !*env.IsSuccess {
		return c.fail(entity, "search", fmt.Errorf("%w: %s", apperrors.ErrUnsuccessful, env.Message))
	}

	count := len(env.Results)
	if env.Count != nil {
		count = *env.Count
	}
	return models.FetchResult{Entity: entity, Cars: env.Results, Count: count}
}

func (c *Client) fail(entity models.TrackedEntity, op string, err error) models.FetchResult {
	ferr := apperrors.NewFetchError(entity.ID, op, err)
	logger := logging.WithEntity(c.logger, entity.ID)
	logger.Warn().Err(ferr).Str("op", op).Msg("Fetch failed")
	return models.Failed(entity, ferr)
}

// getJSON performs one bounded GET and decodes the body into target. Errors
// are already logged and wrapped in a FetchError.
func (c *Client) getJSON(ctx context.Context, entity models.TrackedEntity, op, endpoint string, timeout time.Duration, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	logger := logging.WithEntity(c.logger, entity.ID)

	wrap := func(err error) error {
		ferr := apperrors.NewFetchError(entity.ID, op, err)
		logging.LogAPICall(logger, http.MethodGet, endpoint, time.Since(start), ferr)
		logger.Warn().Err(ferr).Str("op", op).Msg("Fetch failed")
		return ferr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return wrap(fmt.Errorf("%w: creating request: %v", apperrors.ErrRequestFailed, err))
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return wrap(fmt.Errorf("%w: %v", apperrors.ErrRequestFailed, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
		return wrap(fmt.Errorf("%w: %d", apperrors.ErrBadStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return wrap(fmt.Errorf("%w: reading body: %v", apperrors.ErrRequestFailed, err))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return wrap(fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err))
	}

	logging.LogAPICall(logger, http.MethodGet, endpoint, time.Since(start), nil)
	return nil
}
