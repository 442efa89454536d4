package paladins

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Common errors returned by the typed operations.
var (
	// ErrNotFound is returned when the API has no data for the requested
	// entity.
	ErrNotFound = errors.New("not found")

	// ErrLimitReached is returned when the daily request limit tied to the
	// credentials has been exhausted.
	ErrLimitReached = errors.New("daily request limit reached")

	// ErrPrivate is returned when a player's profile has its privacy flag
	// set. Use errors.As with *PrivateError to recover the player ID the
	// API still discloses.
	ErrPrivate = errors.New("player profile is private")
)

// limitReachedMsg is the exact ret_msg the API embeds once the daily
// request quota is spent.
const limitReachedMsg = "Daily request limit reached."

// privacyPattern matches the ret_msg of endpoints that refuse to return a
// private profile. The message still leaks the portal and player ID.
var privacyPattern = regexp.MustCompile(`playerIdType=([0-9]{1,2}); playerId=([0-9]+)`)

// PrivateError carries the identifying scraps the API returns for a
// private profile. It matches ErrPrivate under errors.Is.
type PrivateError struct {
	PlayerID int64
	Platform Platform
}

func (e *PrivateError) Error() string {
	if e.PlayerID != 0 {
		return fmt.Sprintf("player profile is private (player %d on %s)", e.PlayerID, e.Platform)
	}
	return ErrPrivate.Error()
}

func (e *PrivateError) Is(target error) bool {
	return target == ErrPrivate
}

// privateError parses a privacy ret_msg into a PrivateError. The second
// return is false when the message does not signal a private profile.
func privateError(retMsg string) (*PrivateError, bool) {
	m := privacyPattern.FindStringSubmatch(retMsg)
	if m == nil {
		return nil, false
	}
	portal, _ := strconv.Atoi(m[1])
	playerID, _ := strconv.ParseInt(m[2], 10, 64)
	return &PrivateError{PlayerID: playerID, Platform: Platform(portal)}, true
}

// notFound wraps ErrNotFound with the entity that was missing.
func notFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}
