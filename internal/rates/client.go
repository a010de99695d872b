// Package rates fetches exchange rates from Open Exchange Rates. The
// free tier only serves USD-based rates, so GBP-based rates are
// computed as the cross rate USD->target / USD->GBP.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/internal/core"
)

const defaultBaseURL = "https://openexchangerates.org/api"

var (
	ErrMissingRate     = errors.New("rate missing from response")
	ErrInvalidResponse = errors.New("invalid rates response")
)

type Client struct {
	appID      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func NewClient(appID string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetchUSDRates(ctx context.Context, symbols []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("base", "USD")
	q.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if body.Rates == nil {
		return nil, ErrInvalidResponse
	}
	return body.Rates, nil
}

// Rate returns the GBP-based rate for one currency. GBP itself
// short-circuits to 1.0 without a network call.
func (c *Client) Rate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == core.BaseCurrency {
		return 1.0, nil
	}

	usdRates, err := c.fetchUSDRates(ctx, []string{core.BaseCurrency, code})
	if err != nil {
		return 0, err
	}
	usdToGBP, ok := usdRates[core.BaseCurrency]
	if !ok || usdToGBP == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingRate, core.BaseCurrency)
	}
	usdToTarget, ok := usdRates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRate, code)
	}
	return usdToTarget / usdToGBP, nil
}

// Rates returns GBP-based rates for a batch of currencies in one API
// call. Currencies absent from the response are skipped; GBP is always
// present at 1.0.
func (c *Client) Rates(ctx context.Context, codes []string) (map[string]float64, error) {
	symbols := make([]string, 0, len(codes)+1)
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != core.BaseCurrency {
			symbols = append(symbols, code)
		}
	}
	result := map[string]float64{core.BaseCurrency: 1.0}
	if len(symbols) == 0 {
		return result, nil
	}
	symbols = append(symbols, core.BaseCurrency)

	usdRates, err := c.fetchUSDRates(ctx, symbols)
	if err != nil {
		return nil, err
	}
	usdToGBP, ok := usdRates[core.BaseCurrency]
	if !ok || usdToGBP == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRate, core.BaseCurrency)
	}
	for _, code := range symbols[:len(symbols)-1] {
		if usdToTarget, ok := usdRates[code]; ok {
			result[code] = usdToTarget / usdToGBP
		}
	}
	return result, nil
}
