package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"FolioSentinel/internal/calendar"
)

// YahooProvider implements Provider using the Yahoo Finance public chart API.
// It is a free near-real-time quote source and needs no API key.
type YahooProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooProvider creates a Yahoo Finance provider with optional proxy support.
func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []any `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (p *YahooProvider) fetchChart(ctx context.Context, addr string) (*yahooChart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	return &chart, nil
}

// GetQuote fetches the latest close of the current trading day.
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		p.BaseURL, url.PathEscape(symbol))
	chart, err := p.fetchChart(ctx, addr)
	if err != nil {
		return 0, err
	}
	if len(chart.Chart.Result) == 0 {
		return 0, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, nil
	}
	closes := result.Indicators.Quote[0].Close
	// Last non-null close wins.
	for i := len(closes) - 1; i >= 0; i-- {
		if c := toFloat(closes[i]); c > 0 {
			return c, nil
		}
	}
	return 0, nil
}

// GetHistoricalClose fetches the close for one specific calendar day using a
// period1/period2 window around that day.
func (p *YahooProvider) GetHistoricalClose(ctx context.Context, symbol string, day calendar.Date) (float64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		p.BaseURL, url.PathEscape(symbol), start.Unix(), end.Unix())
	chart, err := p.fetchChart(ctx, addr)
	if err != nil {
		return 0, err
	}
	if len(chart.Chart.Result) == 0 {
		return 0, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, nil
	}
	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		bar := time.Unix(ts, 0).UTC()
		if calendar.New(bar.Date()) == day {
			return toFloat(closes[i]), nil
		}
	}
	return 0, nil
}
