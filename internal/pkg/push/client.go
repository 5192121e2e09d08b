package push

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State of a push connection
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handler receives the payload of one pushed event, i.e. every field of the
// frame except "type".
type Handler func(payload map[string]interface{})

type Config struct {
	URL            string
	ReconnectDelay time.Duration // default: 5 seconds
	Dialer         *websocket.Dialer
}

// Client is a reconnecting push-channel connection for one user.
// Handlers stay registered across reconnects.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	token    string
	state    State
	handlers map[string]map[int]Handler
	nextID   int
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewClient creates an idle client; nothing is dialed until Start
func NewClient(cfg Config, token string, logger *slog.Logger) *Client {
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		token:    token,
		handlers: make(map[string]map[int]Handler),
	}
}

// On registers h for eventType and returns the func that removes it
func (c *Client) On(eventType string, h Handler) (off func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if c.handlers[eventType] == nil {
		c.handlers[eventType] = make(map[int]Handler)
	}
	c.handlers[eventType][id] = h

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[eventType], id)
		if len(c.handlers[eventType]) == 0 {
			delete(c.handlers, eventType)
		}
	}
}

// HandlerCount returns the number of registered handlers across all events
func (c *Client) HandlerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, hs := range c.handlers {
		total += len(hs)
	}
	return total
}

// SetToken replaces the bearer token used on the next dial
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// State returns the current connection state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins connecting in the background and returns immediately.
// It does nothing when a connection is already open or in progress, when
// the client is closed, or when no token is available.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConnecting, StateConnected, StateClosed:
		return
	}
	if c.token == "" {
		c.logger.Debug("push connection skipped, no token")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = StateConnecting

	go c.run(ctx, c.done)
}

// Close stops the connection loop and waits for it to exit
func (c *Client) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.state = StateClosed
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		c.setState(StateConnecting)
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("push connection failed",
				slog.String("url", c.cfg.URL),
				slog.Any("error", err),
				slog.Duration("retry_in", c.cfg.ReconnectDelay),
			)
		} else {
			c.setState(StateConnected)
			c.logger.Info("push connection established", slog.String("url", c.cfg.URL))
			c.readLoop(ctx, conn)
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("push connection lost, reconnecting",
				slog.Duration("retry_in", c.cfg.ReconnectDelay),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	connDone := make(chan struct{})
	defer close(connDone)
	defer conn.Close()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-connDone:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Debug("push read error", slog.Any("error", err))
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	// Numbers stay json.Number so large ids keep their digits.
	var frame map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&frame); err != nil {
		c.logger.Warn("push frame is not a JSON object", slog.Any("error", err))
		return
	}

	eventType, _ := frame["type"].(string)
	if eventType == "" {
		c.logger.Warn("push frame without type")
		return
	}
	delete(frame, "type")

	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers[eventType]))
	for _, h := range c.handlers[eventType] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(frame)
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		c.state = s
	}
}
