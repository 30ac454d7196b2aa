package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FolioSentinel/internal/model"
)

// TelegramNotifier sends cycle reports via the Telegram Bot API.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BaseURL:  "https://api.telegram.org",
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry. The backoff
// only runs between attempts, never after the last one.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < maxRetries {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, lastErr, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// FormatCycleReport formats one synchronization cycle for Telegram.
func FormatCycleReport(result *model.BenchmarkResult, symbolCount, failedCount int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>FolioSentinel sync</b> | %s\n\n", result.UpdatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Symbols: %d fetched, %d failed\n\n", symbolCount-failedCount, failedCount))

	b.WriteString(fmt.Sprintf("Invested: $%.2f\n", result.TotalInvested))
	b.WriteString(fmt.Sprintf("Value: $%.2f\n", result.CurrentValue))
	b.WriteString(fmt.Sprintf("Unrealized P&amp;L: %+.2f\n", result.UnrealizedPL))
	b.WriteString(fmt.Sprintf("Realized P&amp;L: %+.2f\n\n", result.RealizedPL))

	if cur, ok := result.Anchors[model.AnchorCurrent]; ok {
		b.WriteString(fmt.Sprintf("Current strategy: %+.2f%% (benchmark %+.2f%%)\n",
			cur.OurReturnPct, cur.BenchmarkReturnPct))
	}
	if all, ok := result.Anchors[model.AnchorAllTime]; ok {
		b.WriteString(fmt.Sprintf("All time: %+.2f%% (benchmark %+.2f%%)\n",
			all.OurReturnPct, all.BenchmarkReturnPct))
	}
	return b.String()
}
