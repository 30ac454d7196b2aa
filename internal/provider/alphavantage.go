package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"FolioSentinel/internal/calendar"
)

// AlphaVantageProvider implements Provider using the Alpha Vantage REST API.
// It serves delayed daily closes and is far more rate-limited than Yahoo; the
// API signals exhaustion with a "Note"/"Information" field in an otherwise
// successful response, which must be treated as transient, not as no-data.
type AlphaVantageProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageProvider creates a provider with optional proxy support.
func NewAlphaVantageProvider(apiKey, proxyURL string) *AlphaVantageProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageProvider{
		BaseURL: "https://www.alphavantage.co",
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// rateLimitMarker covers the fields Alpha Vantage uses to report call-budget
// exhaustion inside a 200 response.
type rateLimitMarker struct {
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

func (p *AlphaVantageProvider) get(ctx context.Context, addr string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var marker rateLimitMarker
	if err := json.Unmarshal(body, &marker); err == nil {
		if marker.Note != "" || marker.Information != "" {
			return ErrRateLimited
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("alphavantage decode: %w", err)
	}
	return nil
}

// GetQuote fetches the latest price via the GLOBAL_QUOTE endpoint.
func (p *AlphaVantageProvider) GetQuote(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		p.BaseURL, url.QueryEscape(symbol), p.APIKey)

	var payload struct {
		Quote struct {
			Price string `json:"05. price"`
		} `json:"Global Quote"`
	}
	if err := p.get(ctx, addr, &payload); err != nil {
		return 0, err
	}
	if payload.Quote.Price == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(payload.Quote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: malformed price %q: %w", payload.Quote.Price, err)
	}
	return price, nil
}

// compactWindowDays bounds the "compact" output size, which serves only the
// latest ~100 trading sessions. Requests for older days must ask for the full
// series or the day is absent and looks like a non-trading day.
const compactWindowDays = 100

// GetHistoricalClose looks up the close for one day in the TIME_SERIES_DAILY
// response. Days on which the symbol did not trade are simply absent from the
// series and yield (0, nil).
func (p *AlphaVantageProvider) GetHistoricalClose(ctx context.Context, symbol string, day calendar.Date) (float64, error) {
	size := "compact"
	if day.DaysUntil(calendar.Today()) > compactWindowDays {
		size = "full"
	}
	addr := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=%s&apikey=%s",
		p.BaseURL, url.QueryEscape(symbol), size, p.APIKey)

	var payload struct {
		Series map[string]struct {
			Close string `json:"4. close"`
		} `json:"Time Series (Daily)"`
	}
	if err := p.get(ctx, addr, &payload); err != nil {
		return 0, err
	}
	entry, ok := payload.Series[day.String()]
	if !ok {
		return 0, nil
	}
	price, err := strconv.ParseFloat(entry.Close, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: malformed close %q: %w", entry.Close, err)
	}
	return price, nil
}
