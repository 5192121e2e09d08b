package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"resty.dev/v3"
)

var (
	ErrUnauthorized = errors.New("backend rejected the session")
	ErrForbidden    = errors.New("backend denied access")
	ErrNotFound     = errors.New("backend resource not found")
	ErrConflict     = errors.New("backend reported a conflict")
	ErrBadRequest   = errors.New("backend rejected the request")
	ErrUnavailable  = errors.New("backend unavailable")
)

// Tokens is the bearer/refresh pair of a session
type Tokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenSource supplies a session's tokens and persists rotated ones
type TokenSource interface {
	// Key identifies the session; refreshes for one key never overlap.
	Key() string
	Tokens() Tokens
	// Reload returns the pair currently persisted for the session.
	Reload(ctx context.Context) (Tokens, error)
	Update(ctx context.Context, tokens Tokens) error
}

// APIError is the error body the backend returns
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, msg)
}

// Unwrap maps the status to the package sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return ErrBadRequest
	default:
		return ErrUnavailable
	}
}

type Config struct {
	BaseURL            string
	Timeout            time.Duration // default: 15 seconds
	BreakerMaxFailures uint32        // default: 5
	BreakerTimeout     time.Duration // default: 30 seconds
}

// Client talks to the timesheet backend REST API
type Client struct {
	http   *resty.Client
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger

	refreshLocks keyedMutex
}

// keyedMutex hands out one mutex per key and forgets it once unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "timesheet-api",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:   httpClient,
		cb:     cb,
		logger: logger,
	}
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

type call struct {
	method string
	path   string
	query  map[string]string
	body   interface{}
	result interface{}
}

// send runs one request through the breaker with the given bearer token
func (c *Client) send(ctx context.Context, token string, cl call) (*resty.Response, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		req := c.http.R().SetContext(ctx)
		if token != "" {
			req.SetAuthToken(token)
		}
		if cl.query != nil {
			req.SetQueryParams(cl.query)
		}
		if cl.body != nil {
			req.SetBody(cl.body)
		}
		if cl.result != nil {
			req.SetResult(cl.result)
		}
		apiErr := &APIError{}
		req.SetError(apiErr)

		res, err := req.Execute(cl.method, cl.path)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w: %v", cl.method, cl.path, ErrUnavailable, err)
		}
		if res.IsError() {
			apiErr.Status = res.StatusCode()
			return res, apiErr
		}
		return res, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, _ := out.(*resty.Response)
	return res, err
}

// do sends an authenticated request; on 401 it exchanges the refresh token
// once, persists the new pair and retries.
func (c *Client) do(ctx context.Context, ts TokenSource, cl call) (*resty.Response, error) {
	tokens := ts.Tokens()
	res, err := c.send(ctx, tokens.AccessToken, cl)
	if !errors.Is(err, ErrUnauthorized) || tokens.RefreshToken == "" {
		return res, err
	}

	fresh, refreshErr := c.refreshOnce(ctx, ts, tokens)
	if refreshErr != nil {
		c.logger.Info("token refresh failed", slog.Any("error", refreshErr))
		return res, err
	}
	return c.send(ctx, fresh.AccessToken, cl)
}

// refreshOnce exchanges the session's refresh token unless another request
// on the same session rotated the pair first.
func (c *Client) refreshOnce(ctx context.Context, ts TokenSource, stale Tokens) (Tokens, error) {
	unlock := c.refreshLocks.Lock(ts.Key())
	defer unlock()

	current, err := ts.Reload(ctx)
	if err != nil {
		return Tokens{}, fmt.Errorf("reload tokens: %w", err)
	}
	if current.AccessToken != "" && current.AccessToken != stale.AccessToken {
		return current, nil
	}

	refreshToken := current.RefreshToken
	if refreshToken == "" {
		refreshToken = stale.RefreshToken
	}
	fresh, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return Tokens{}, err
	}
	if err := ts.Update(ctx, fresh); err != nil {
		return Tokens{}, fmt.Errorf("persist refreshed tokens: %w", err)
	}
	return fresh, nil
}

// Refresh exchanges a refresh token for a new token pair
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	var out Tokens
	_, err := c.send(ctx, "", call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
		result: &out,
	})
	if err != nil {
		return Tokens{}, err
	}
	if out.AccessToken == "" {
		return Tokens{}, fmt.Errorf("refresh: %w", ErrUnauthorized)
	}
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return out, nil
}
