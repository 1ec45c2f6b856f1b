// Package playback implements the media playback controller: a state store, a bridge to the
// playable element, a fallback progress clock and a controls visibility timer.
package playback

import "errors"

// Failure modes surfaced by the controller. Platform failures are logged and recovered;
// they reach callers only from synchronous capability checks.
var (
	ErrUnsupported     = errors.New("operation not supported by the media element")
	ErrDenied          = errors.New("operation denied by the platform")
	ErrNotMounted      = errors.New("player is not mounted")
	ErrAlreadyMounted  = errors.New("player was already mounted")
	ErrUnknownQuality  = errors.New("unknown quality")
	ErrInvalidTimeouts = errors.New("invalid controls timeouts")
)
