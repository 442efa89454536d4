package hirez

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// sessionSlack is subtracted from the advertised session lifetime so a
// session is renewed before it can expire mid-request.
const sessionSlack = 30 * time.Second

// session is an immutable snapshot of an established API session. It is
// replaced wholesale on renewal, never mutated.
type session struct {
	id      string
	expires time.Time
}

type sessionResponse struct {
	RetMsg    string `json:"ret_msg"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// ensureSession returns the ID of a live session, establishing a new one
// when none exists or the current one has expired. The session mutex is
// held across the renewal round-trip, so concurrent callers hitting an
// expired session share a single renewal request.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.session.id != "" && time.Now().Before(c.session.expires) {
		return c.session.id, nil
	}

	raw, err := c.Request(ctx, methodCreateSession)
	if err != nil {
		return "", err
	}
	var resp sessionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &HTTPError{Cause: fmt.Errorf("decoding session response: %w", err)}
	}
	if resp.SessionID == "" {
		c.logger.Error().Str("ret_msg", resp.RetMsg).Msg("Session creation rejected")
		return "", ErrUnauthorized
	}

	lifetime := c.sessionLifetime
	if lifetime > sessionSlack {
		lifetime -= sessionSlack
	}
	c.session = session{
		id:      resp.SessionID,
		expires: time.Now().Add(lifetime),
	}
	c.logger.Debug().
		Time("expires", c.session.expires).
		Msg("Established new API session")

	return c.session.id, nil
}

// invalidateSession discards the stored session, but only while id still
// matches the session that failed. A session renewed by a concurrent
// caller in the meantime survives.
func (c *Client) invalidateSession(id string) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if id != "" && c.session.id == id {
		c.session = session{}
	}
}
