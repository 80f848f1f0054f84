package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/msardana94/momentumbot/internal/command"
	"github.com/msardana94/momentumbot/internal/config"
)

// Client talks to the Bot API. All credentials arrive through the config
// struct; nothing here reads the environment.
type Client struct {
	cfg        config.Telegram
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg config.Telegram) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1),
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.cfg.BaseURL, c.cfg.Token, method)
}

// GetUpdates fetches inbound messages with update ids strictly greater than
// offset-1, i.e. callers pass cursor+1 per the Bot API offset contract.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]command.Update, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.methodURL("getUpdates"))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("offset", strconv.FormatInt(offset, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getUpdates: status %d", resp.StatusCode)
	}

	var parsed GetUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("getUpdates: decode: %w", err)
	}
	if !parsed.Ok {
		return nil, fmt.Errorf("getUpdates: %s", parsed.Description)
	}

	updates := make([]command.Update, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		updates = append(updates, command.Update{Seq: r.UpdateID, Text: r.Message.Text})
	}
	return updates, nil
}

// SendMessage posts one plain text message to the configured chat.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    c.cfg.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: status %d", resp.StatusCode)
	}

	var parsed SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("sendMessage: decode: %w", err)
	}
	if !parsed.Ok {
		return fmt.Errorf("sendMessage: %s", parsed.Description)
	}
	return nil
}
