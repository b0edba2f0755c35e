// Package realtime maintains the single push channel to the backend. It
// decodes wire frames into typed bus events; everything downstream of the
// bus is unaware a socket exists.
package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/gorilla/websocket"
	"github.com/nikzart/HTLY/internal/bus"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer credential for the socket handshake.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

const (
	dialAttempts     = 5
	dialDelay        = time.Second
	dialMaxDelay     = 5 * time.Second
	handshakeTimeout = 10 * time.Second
	readTimeout      = 90 * time.Second
)

// Connected is the payload for "realtime.connected" events.
type Connected struct{}

// Disconnected is the payload for "realtime.disconnected" events.
type Disconnected struct {
	// Final means the reconnect budget is exhausted and the channel gave up.
	Final bool
}

// Channel is the process-wide push connection. One per client; every view
// shares it through the bus.
type Channel struct {
	url    string
	tokens TokenSource
	bus    *bus.Bus
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChannel creates a push channel for the given socket URL. Nothing
// connects until Open.
func NewChannel(url string, tokens TokenSource, b *bus.Bus, logger *zap.Logger) *Channel {
	return &Channel{
		url:    url,
		tokens: tokens,
		bus:    b,
		logger: logger,
	}
}

// Open starts the connection loop. Calling Open on an already open channel
// is a no-op.
func (c *Channel) Open(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(runCtx)
}

// Close tears the connection down and waits for the loop to exit. Safe to
// call on a channel that never opened.
func (c *Channel) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// run dials, reads until the connection drops, and redials. Each fresh
// connection gets a full reconnect budget; once a dial burns through the
// whole budget the channel gives up and reports a final disconnect.
func (c *Channel) run(ctx context.Context) {
	defer close(c.done)

	for {
		ws, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn("realtime channel gave up", zap.Error(err))
				c.bus.Publish(bus.KindRealtimeDisconnected, Disconnected{Final: true})
			}
			return
		}

		c.bus.Publish(bus.KindRealtimeConnected, Connected{})
		err = c.readLoop(ctx, ws)
		ws.Close()

		if ctx.Err() != nil {
			return
		}
		c.logger.Warn("realtime connection dropped", zap.Error(err))
		c.bus.Publish(bus.KindRealtimeDisconnected, Disconnected{})
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	var ws *websocket.Conn
	err := retry.Do(
		func() error {
			token, err := c.tokens.Token(ctx)
			if err != nil {
				return err
			}
			header := http.Header{"Authorization": {"Bearer " + token}}
			conn, _, err := dialer.DialContext(ctx, c.url, header)
			if err != nil {
				return err
			}
			ws = conn
			return nil
		},
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.MaxDelay(dialMaxDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying realtime dial", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (c *Channel) readLoop(ctx context.Context, ws *websocket.Conn) error {
	// Unblock ReadMessage when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		ws.Close()
	})
	defer stop()

	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		ws.SetReadDeadline(time.Now().Add(readTimeout))

		kind, payload, err := decodeFrame(raw)
		if errors.Is(err, errUnknownEvent) {
			continue
		}
		if err != nil {
			c.logger.Warn("bad realtime frame", zap.Error(err))
			continue
		}
		c.bus.Publish(kind, payload)
	}
}
