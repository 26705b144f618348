package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/payauth/pkg/currency"
	"github.com/amirasaad/payauth/pkg/provider"
	"github.com/shopspring/decimal"
)

// ExchangeRateAPI fetches rates from the exchangerate-api.com v6 endpoint:
// GET {baseURL}/{apiKey}/latest/{base}.
type ExchangeRateAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ExchangeRateAPIResponseV6 represents the v6 response from the ExchangeRate API.
// See: https://www.exchangerate-api.com/docs/standard-requests
type ExchangeRateAPIResponseV6 struct {
	Result             string                     `json:"result"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	BaseCode           string                     `json:"base_code"`
	ConversionRates    map[string]decimal.Decimal `json:"conversion_rates"`
	ErrorType          string                     `json:"error-type,omitempty"`
}

// NewExchangeRateAPI creates the HTTP provider.
func NewExchangeRateAPI(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *ExchangeRateAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExchangeRateAPI{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("provider", "exchangerate-api"),
	}
}

func (p *ExchangeRateAPI) Rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rates, err := p.latest(ctx, from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	rate, ok := rates[string(to)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s not in %s response", provider.ErrExchangeRateUnavailable, to, from)
	}
	return rate, nil
}

func (p *ExchangeRateAPI) latest(ctx context.Context, base currency.Code) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", p.baseURL, p.apiKey, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	p.logger.Debug("Fetching exchange rates", "base", base)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrExchangeRateUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: API returned status %d: %s",
			provider.ErrExchangeRateUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp ExchangeRateAPIResponseV6
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Result != "success" {
		return nil, fmt.Errorf("%w: API returned result=%s error=%s",
			provider.ErrExchangeRateUnavailable, apiResp.Result, apiResp.ErrorType)
	}
	p.logger.Debug("Exchange rates fetched", "base", base, "count", len(apiResp.ConversionRates))
	return apiResp.ConversionRates, nil
}

func (p *ExchangeRateAPI) Name() string {
	return "exchangerate-api"
}

var _ provider.ExchangeRate = (*ExchangeRateAPI)(nil)
