package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// wsMessage is one price update pushed by the stream. Price may be a JSON
// number or string.
type wsMessage struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Time   time.Time       `json:"time"`
}

type wsSubscribe struct {
	Op       string `json:"op"`
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
}

// WS keeps the latest tick per symbol from a websocket price stream. Run
// owns the connection; LatestPrice only reads the cached tick.
type WS struct {
	URL      string
	Symbol   string
	Interval string
	MaxAge   time.Duration

	ReadTimeout      time.Duration
	HandshakeTimeout time.Duration
	BaseDelay        time.Duration
	MaxDelay         time.Duration

	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewWS(url, symbol, interval string, maxAge time.Duration, logger *slog.Logger) *WS {
	if logger == nil {
		logger = slog.Default()
	}
	return &WS{
		URL:              url,
		Symbol:           symbol,
		Interval:         interval,
		MaxAge:           maxAge,
		ReadTimeout:      60 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		BaseDelay:        defaultBaseDelay,
		MaxDelay:         defaultMaxDelay,
		logger:           logger,
		now:              time.Now,
		ticks:            make(map[string]Tick),
	}
}

func (w *WS) LatestPrice(ctx context.Context, symbol, interval string) (Tick, error) {
	w.mu.RLock()
	t, ok := w.ticks[symbol]
	w.mu.RUnlock()

	if !ok {
		return Tick{}, fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	if w.MaxAge > 0 && w.now().Sub(t.Time) > w.MaxAge {
		return Tick{}, fmt.Errorf("%s last seen %s: %w", symbol, t.Time.Format(time.RFC3339), ErrStale)
	}
	return t, nil
}

// Run connects, subscribes and reads until ctx is done, reconnecting with
// backoff after a failed dial or a dropped connection. The retry count only
// resets once a connection has delivered a price. It returns ctx.Err().
func (w *WS) Run(ctx context.Context) error {
	retry := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := w.connect(ctx)
		if err != nil {
			w.logger.WarnContext(ctx, "price stream connect failed",
				slog.String("url", w.URL),
				slog.Int("retry", retry),
				slog.Any("error", err))
		} else {
			w.logger.InfoContext(ctx, "price stream connected", slog.String("url", w.URL))
			received, err := w.read(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if received {
				retry = 0
			}
			w.logger.WarnContext(ctx, "price stream dropped",
				slog.String("url", w.URL),
				slog.Bool("received", received),
				slog.Any("error", err))
		}

		delay := Backoff(retry, w.BaseDelay, w.MaxDelay)
		retry++
		w.logger.DebugContext(ctx, "price stream reconnecting", slog.Duration("delay", delay))

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (w *WS) connect(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: w.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.URL, http.Header{})
	if err != nil {
		return nil, err
	}

	sub := wsSubscribe{Op: "subscribe", Symbol: w.Symbol, Interval: w.Interval}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return conn, nil
}

// read stores prices until the connection fails. received reports whether
// at least one valid price arrived.
func (w *WS) read(ctx context.Context, conn *websocket.Conn) (received bool, err error) {
	// unblock ReadMessage when the context ends
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	defer conn.Close()

	for {
		if w.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(w.ReadTimeout))
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return received, err
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			w.logger.DebugContext(ctx, "ignoring price message", slog.Any("error", err))
			continue
		}
		if msg.Symbol == "" || !msg.Price.IsPositive() {
			continue
		}
		w.store(msg)
		received = true
	}
}

func (w *WS) store(msg wsMessage) {
	ts := msg.Time
	if ts.IsZero() {
		ts = w.now()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.ticks[msg.Symbol] = Tick{Symbol: msg.Symbol, Price: msg.Price, Time: ts}
}
