// Package notify delivers best-effort text messages. Send reports failure
// to its caller, which logs it and moves on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Nop discards every message.
type Nop struct{}

func (Nop) Send(context.Context, string) error { return nil }

// Multi sends to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
