package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPriceServer(t *testing.T, messages []string) (*httptest.Server, <-chan wsSubscribe) {
	t.Helper()

	subs := make(chan wsSubscribe, 4)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var sub wsSubscribe
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		subs <- sub

		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, subs
}

func wsURL(httpURL string) string {
	return strings.Replace(httpURL, "http://", "ws://", 1)
}

func startWS(t *testing.T, w *WS) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
}

func TestWS_NoPriceBeforeFirstTick(t *testing.T) {
	t.Parallel()

	w := NewWS("ws://127.0.0.1:0", "RELIANCE", "1m", time.Minute, nil)
	_, err := w.LatestPrice(context.Background(), "RELIANCE", "1m")
	assert.ErrorIs(t, err, ErrNoPrice)
}

func TestWS_ReceivesLatestPrice(t *testing.T) {
	t.Parallel()

	srv, subs := newPriceServer(t, []string{
		`{"symbol":"RELIANCE","price":1001.5}`,
		`not json`,
		`{"symbol":"OTHER","price":"12"}`,
		`{"symbol":"RELIANCE","price":"997.25"}`,
	})

	w := NewWS(wsURL(srv.URL), "RELIANCE", "1m", time.Minute, nil)
	startWS(t, w)

	select {
	case sub := <-subs:
		assert.Equal(t, wsSubscribe{Op: "subscribe", Symbol: "RELIANCE", Interval: "1m"}, sub)
	case <-time.After(2 * time.Second):
		t.Fatal("no subscription received")
	}

	want := decimal.RequireFromString("997.25")
	require.Eventually(t, func() bool {
		tick, err := w.LatestPrice(context.Background(), "RELIANCE", "1m")
		return err == nil && tick.Price.Equal(want)
	}, 2*time.Second, 10*time.Millisecond)

	other, err := w.LatestPrice(context.Background(), "OTHER", "1m")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(other.Price))
}

func TestWS_Stale(t *testing.T) {
	t.Parallel()

	w := NewWS("ws://unused", "X", "1m", time.Minute, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	w.store(wsMessage{Symbol: "X", Price: decimal.NewFromInt(10), Time: now.Add(-2 * time.Minute)})
	_, err := w.LatestPrice(context.Background(), "X", "1m")
	assert.ErrorIs(t, err, ErrStale)

	w.store(wsMessage{Symbol: "X", Price: decimal.NewFromInt(11)})
	tick, err := w.LatestPrice(context.Background(), "X", "1m")
	require.NoError(t, err)
	assert.True(t, tick.Time.Equal(now))
}

func TestWS_RunReturnsOnCancel(t *testing.T) {
	t.Parallel()

	w := NewWS("ws://127.0.0.1:1/nothing", "X", "1m", time.Minute, nil)
	w.BaseDelay = 5 * time.Millisecond
	w.MaxDelay = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Run(ctx), context.DeadlineExceeded)
}

func TestWS_BacksOffAfterDroppedConnection(t *testing.T) {
	t.Parallel()

	var conns atomic.Int64
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns.Add(1)
		var sub wsSubscribe
		_ = conn.ReadJSON(&sub)
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	w := NewWS(wsURL(srv.URL), "RELIANCE", "1m", time.Minute, nil)
	w.BaseDelay = 100 * time.Millisecond
	w.MaxDelay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Run(ctx), context.DeadlineExceeded)

	// dials at roughly 0, 100ms and 300ms; the next one is due at 700ms
	n := conns.Load()
	assert.GreaterOrEqual(t, n, int64(1))
	assert.LessOrEqual(t, n, int64(4))
}
