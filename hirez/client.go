package hirez

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

// Official API endpoints.
const (
	PaladinsURL = "https://api.paladins.com/paladinsapi.svc"
	SmiteURL    = "https://api.smitegame.com/smiteapi.svc"
)

const (
	defaultTimeout         = 20 * time.Second
	defaultSessionLifetime = 15 * time.Minute
	defaultMaxTries        = 5
	defaultBackoffBase     = 500 * time.Millisecond
	defaultBackoffMax      = 8 * time.Second
	defaultUserAgent       = "rezstats"
)

const (
	methodPing          = "ping"
	methodCreateSession = "createsession"
	methodTestSession   = "testsession"
)

// invalidSessionMsg is the exact ret_msg the API returns when the supplied
// session ID has expired or been discarded server-side.
const invalidSessionMsg = "Invalid session id."

// Client is a low-level Hi-Rez API client. It owns signature generation,
// the session lifecycle and the retry policy, and funnels every call
// through Request. Typed operations live in the paladins package.
type Client struct {
	baseURL string
	devID   string
	authKey string

	httpClient *http.Client
	logger     zerolog.Logger
	limiter    *rate.Limiter

	sessionLifetime time.Duration
	maxTries        int
	backoffBase     time.Duration
	backoffMax      time.Duration
	userAgent       string

	sessionMu sync.Mutex
	session   session

	closed atomic.Bool
}

// New creates a new API client. The developer ID and auth key are the
// credentials issued by Hi-Rez. No network traffic happens here; a bad key
// surfaces on first use, or explicitly via Ping and TestSession.
func New(baseURL, devID, authKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if devID == "" {
		return nil, fmt.Errorf("%w: developer ID is required", ErrInvalidConfig)
	}
	if authKey == "" {
		return nil, fmt.Errorf("%w: auth key is required", ErrInvalidConfig)
	}

	options := clientOptions{
		timeout:         defaultTimeout,
		sessionLifetime: defaultSessionLifetime,
		maxTries:        defaultMaxTries,
		backoffBase:     defaultBackoffBase,
		backoffMax:      defaultBackoffMax,
		userAgent:       defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		devID:           devID,
		authKey:         strings.ToUpper(authKey),
		httpClient:      httpClient,
		logger:          logger,
		limiter:         options.limiter,
		sessionLifetime: options.sessionLifetime,
		maxTries:        options.maxTries,
		backoffBase:     options.backoffBase,
		backoffMax:      options.backoffMax,
		userAgent:       options.userAgent,
	}, nil
}

// Request makes a direct API call and returns the raw JSON response.
//
// The method name is given without the response-format suffix ("getplayer",
// not "getplayerjson"). Params are appended to the URL path in order and
// may be strings, integers or anything with a string form.
//
// Authentication is handled internally: a session is established or renewed
// as needed, and a response carrying the invalid-session message triggers
// one renewal and a retry. Transport failures are retried with jittered
// exponential backoff until the attempt budget runs out, after which an
// *HTTPError wrapping the last failure is returned. Responses that embed
// any other server message are returned unchanged; interpreting them is the
// caller's job.
func (c *Client) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	method = strings.ToLower(method)

	var lastErr error
	for attempt := 1; attempt <= c.maxTries; attempt++ {
		var sessionID string
		segments := []string{c.baseURL, method + "json"}
		switch method {
		case methodPing:
			// unauthenticated
		case methodCreateSession:
			ts := timestamp(time.Now())
			segments = append(segments, c.devID, signature(c.devID, method, c.authKey, ts), ts)
		default:
			id, err := c.ensureSession(ctx)
			if err != nil {
				return nil, err
			}
			sessionID = id
			ts := timestamp(time.Now())
			segments = append(segments, c.devID, signature(c.devID, method, c.authKey, ts), sessionID, ts)
		}
		for _, param := range params {
			segments = append(segments, url.PathEscape(cast.ToString(param)))
		}
		reqURL := strings.Join(segments, "/")

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, &HTTPError{Cause: fmt.Errorf("failed to create request: %w", err)}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		c.logger.Debug().
			Str("method", method).
			Int("attempt", attempt).
			Msg("Making API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn().Err(err).Str("method", method).Msg("Connection problems, retrying...")
			if attempt < c.maxTries {
				if serr := c.backoff(ctx, attempt); serr != nil {
					return nil, serr
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusServiceUnavailable {
			resp.Body.Close()
			c.logger.Warn().Msg("Hi-Rez API is unavailable")
			return nil, ErrUnavailable
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn().Err(err).Str("method", method).Msg("Response cut short, retrying...")
			if attempt < c.maxTries {
				if serr := c.backoff(ctx, attempt); serr != nil {
					return nil, serr
				}
			}
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Message: trimBody(body)}
		}
		if !json.Valid(body) {
			return nil, &HTTPError{Message: "malformed JSON response: " + trimBody(body)}
		}

		// The API reports most errors inside an HTTP 200 response. Only the
		// invalid-session message is handled here; everything else is data
		// for the caller.
		if msg := Message(body); msg == invalidSessionMsg {
			c.invalidateSession(sessionID)
			c.logger.Debug().Str("method", method).Msg("Session rejected, renewing...")
			continue
		}

		return body, nil
	}

	c.logger.Error().Err(lastErr).Str("method", method).Msg("Ran out of retries")
	return nil, &HTTPError{Cause: lastErr}
}

// Ping checks that the API responds at all. It runs unauthenticated, so it
// works even with invalid credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Request(ctx, methodPing)
	return err
}

// TestSession verifies that the configured credentials can establish and
// use a session, returning the server's confirmation message.
func (c *Client) TestSession(ctx context.Context) (string, error) {
	raw, err := c.Request(ctx, methodTestSession)
	if err != nil {
		return "", err
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", &HTTPError{Cause: fmt.Errorf("unexpected testsession response: %w", err)}
	}
	return msg, nil
}

// Close releases the client's idle connections. It is safe to call more
// than once; requests made after closing fail with ErrClosed.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// backoff sleeps between transport retries: exponential from backoffBase,
// capped at backoffMax, with ±25% jitter. Returns early when ctx is done.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.backoffBase
	for i := 1; i < attempt && delay < c.backoffMax; i++ {
		delay *= 2
	}
	if delay > c.backoffMax {
		delay = c.backoffMax
	}
	delay = time.Duration(float64(delay) * (0.75 + 0.5*rand.Float64()))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Message extracts the ret_msg the API embeds in otherwise successful
// responses. Both a bare object and the first element of an object array
// are inspected; any other response shape carries no message. Callers
// layering typed operations on top of Request can use it to interpret
// soft errors the engine passes through.
func Message(body []byte) string {
	type probe struct {
		RetMsg string `json:"ret_msg"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '{':
		var p probe
		if err := json.Unmarshal(trimmed, &p); err == nil {
			return p.RetMsg
		}
	case '[':
		var elems []probe
		if err := json.Unmarshal(trimmed, &elems); err == nil && len(elems) > 0 {
			return elems[0].RetMsg
		}
	}
	return ""
}

func trimBody(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
