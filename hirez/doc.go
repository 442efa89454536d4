// Package hirez provides the low-level client for the Hi-Rez game API.
//
// The API authenticates every call through URL path segments rather than
// headers: a developer ID, an MD5 signature derived from the call name and
// a UTC timestamp, and a short-lived session ID obtained from the
// createsession endpoint. This package hides all of that behind a single
// Request method; typed operations and models live in the paladins package.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: The API client owning the HTTP transport and retry policy
//   - Session: Lazy session establishment, expiry tracking and renewal
//   - Signature: Per-request MD5 digest generation
//   - Errors: Sentinel errors plus a structured HTTPError wrapper
//
// # Usage
//
// Create a client with your developer credentials:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := hirez.New(
//		hirez.PaladinsURL,
//		"1234",
//		"23DF3C7E9BD14D84BF892AD206B6755C",
//		logger,
//		hirez.WithTimeout(10*time.Second),
//		hirez.WithRateLimit(5, 10),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	raw, err := client.Request(ctx, "getplayer", "SomePlayer")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Sessions are created lazily on the first authenticated call and renewed
// transparently when they expire, including the case where the server
// discards a session early and answers with its invalid-session message.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrInvalidConfig: Invalid client configuration
//   - ErrUnauthorized: Developer credentials rejected
//   - ErrUnavailable: API in emergency mode (HTTP 503)
//   - ErrClosed: Request made on a closed client
//   - HTTPError: Unexpected status, malformed body or exhausted retries
//
// HTTPError keeps its cause available for errors.As / Unwrap chains:
//
//	var httpErr *hirez.HTTPError
//	if errors.As(err, &httpErr) && httpErr.IsServerError() {
//		// back off and try later
//	}
//
// Soft API errors - messages the server embeds in an HTTP 200 body - are
// deliberately not turned into Go errors here. The raw body is returned
// unchanged and the typed layer decides what each message means for the
// operation at hand.
package hirez
