package hirez

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout         time.Duration
	httpClient      *http.Client
	sessionLifetime time.Duration
	maxTries        int
	backoffBase     time.Duration
	backoffMax      time.Duration
	userAgent       string
	limiter         *rate.Limiter
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient supplies a custom HTTP client. Its timeout is kept as-is,
// so WithTimeout has no effect when combined with this option.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithSessionLifetime overrides how long a created session is considered
// valid before it is renewed. The server advertises 15 minutes.
func WithSessionLifetime(lifetime time.Duration) Option {
	return func(o *clientOptions) {
		if lifetime > 0 {
			o.sessionLifetime = lifetime
		}
	}
}

// WithMaxTries sets the total attempt budget of a single request, shared
// between transport retries and session renewals.
func WithMaxTries(tries int) Option {
	return func(o *clientOptions) {
		if tries >= 1 {
			o.maxTries = tries
		}
	}
}

// WithRetryBackoff sets the base and cap of the exponential backoff applied
// between retries of failed transport attempts.
func WithRetryBackoff(base, max time.Duration) Option {
	return func(o *clientOptions) {
		if base > 0 {
			o.backoffBase = base
		}
		if max > 0 {
			o.backoffMax = max
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second with
// the given burst size. The API enforces daily and per-session request
// caps, so well-behaved callers should stay below them.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		if rps > 0 && burst > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}
