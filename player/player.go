// Package player provides the playable elements a playback controller drives:
// an mpv process over JSON-IPC and a headless stand-in.
package player

import (
	"fmt"
	"strings"

	"github.com/marquee-cli/marquee/playback"
)

// Backend names accepted by New.
const (
	BackendMPV      = "mpv"
	BackendHeadless = "headless"
)

// Element is a playback element that owns an external resource.
type Element interface {
	playback.Element

	// Wait returns a channel that is closed when the element is gone,
	// for example when the user closed the player window.
	Wait() <-chan struct{}

	// Close releases the element.
	Close() error
}

// Backends lists the available backend names.
func Backends() []string {
	return []string{BackendMPV, BackendHeadless}
}

// New returns the element for a backend name.
func New(backend string) (Element, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMPV:
		return NewMPV(), nil
	case BackendHeadless:
		return NewHeadless(), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q, available: %s", backend, strings.Join(Backends(), ", "))
	}
}
