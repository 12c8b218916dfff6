package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lDz7-anony/crypto-arbitrage-backend/internal/domain"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultTimeout bounds a single quote request when the config gives none
	DefaultTimeout = 10 * time.Second
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=exchange_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config describes one exchange entry from the configuration file.
// Symbols maps canonical symbols (e.g. "BTC") to the exchange's native
// tickers; clients fall back to their own naming convention when empty.
type Config struct {
	Name    string
	BaseURL string
	Timeout time.Duration
	Symbols map[string]string
}

// Option customizes a client after construction (used by tests to inject
// a mock HTTP client).
type Option func(*baseClient)

// WithHTTPClient sets the HTTP client used for quote requests
func WithHTTPClient(hc HTTPClient) Option {
	return func(b *baseClient) {
		b.httpClient = hc
	}
}

// New constructs the client registered for cfg.Name. Construction performs
// no network I/O; a bad configuration fails here, a dead exchange fails
// later inside FetchQuote.
func New(cfg Config, opts ...Option) (domain.ExchangeClient, error) {
	switch strings.ToLower(cfg.Name) {
	case "binance":
		return NewBinanceClient(cfg, opts...)
	case "coinbase":
		return NewCoinbaseClient(cfg, opts...)
	case "kraken":
		return NewKrakenClient(cfg, opts...)
	default:
		return nil, &domain.ConfigError{Field: "name", Err: fmt.Errorf("%w: %q", domain.ErrUnknownExchange, cfg.Name)}
	}
}

// baseClient carries the pieces shared by all REST quote clients
type baseClient struct {
	name       string
	baseURL    string
	symbols    map[string]string
	httpClient HTTPClient
}

func newBaseClient(cfg Config, defaultBaseURL string, opts ...Option) (baseClient, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseClient{}, &domain.ConfigError{Field: "base_url", Err: fmt.Errorf("invalid base URL %q", base)}
	}
	if cfg.Timeout < 0 {
		return baseClient{}, &domain.ConfigError{Field: "timeout", Err: fmt.Errorf("negative timeout %s", cfg.Timeout)}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	b := baseClient{
		name:    cfg.Name,
		baseURL: strings.TrimRight(base, "/"),
		symbols: cfg.Symbols,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b, nil
}

// getJSON performs a GET against path and decodes the body into out.
// Failures are classified into the transport/parse/not-supported taxonomy so
// the registry can decide what each one means for exchange health.
func (b *baseClient) getJSON(ctx context.Context, path, symbol string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return domain.NewTransportError(b.name, "request", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return domain.NewTransportError(b.name, "get", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// Exchanges answer 400/404 for tickers they do not list
		return domain.NewNotSupportedError(b.name, symbol)
	default:
		return domain.NewTransportError(b.name, "get", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewTransportError(b.name, "read", err)
	}
	if len(body) == 0 {
		return domain.NewParseError(b.name, errors.New("empty response body"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewParseError(b.name, err)
	}
	return nil
}
