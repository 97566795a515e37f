package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const discordColor = 0x3498db

// Discord posts an embed to a webhook. An empty URL disables it.
type Discord struct {
	webhookURL string
	title      string
	client     *http.Client
	now        func() time.Time
}

func NewDiscord(webhookURL, title string, timeout time.Duration) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		title:      title,
		client:     &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (d *Discord) Enabled() bool { return d.webhookURL != "" }

func (d *Discord) Send(ctx context.Context, text string) error {
	if !d.Enabled() {
		return nil
	}

	payload := map[string]any{
		"embeds": []map[string]any{
			{
				"title":       d.title,
				"description": text,
				"color":       discordColor,
				"timestamp":   d.now().UTC().Format(time.RFC3339),
			},
		},
	}
	if err := postJSON(ctx, d.client, d.webhookURL, payload); err != nil {
		return fmt.Errorf("discord send: %s", redact(err.Error(), d.webhookURL))
	}
	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
