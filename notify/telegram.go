package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// Telegram posts to the Bot API sendMessage method. With no token or chat
// id it is disabled and Send does nothing.
type Telegram struct {
	BaseURL string
	token   string
	chatID  string
	client  *http.Client
}

func NewTelegram(token, chatID string, timeout time.Duration) *Telegram {
	return &Telegram{
		BaseURL: telegramAPI,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Enabled() {
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.token)
	payload := map[string]string{"chat_id": t.chatID, "text": text}
	if err := postJSON(ctx, t.client, url, payload); err != nil {
		// the URL carries the token, keep it out of the error
		return fmt.Errorf("telegram send: %s", redact(err.Error(), t.token))
	}
	return nil
}
