package playback

import (
	"context"

	"github.com/samber/mo"
)

// Source describes the title handed to the player by its host.
type Source struct {
	URL    string
	Poster string
	Title  string
	// Runtime is the known running time in minutes, if the host has one.
	Runtime mo.Option[float64]
}

// RuntimeSeconds returns the supplied runtime converted to seconds.
func (s Source) RuntimeSeconds() (float64, bool) {
	minutes, ok := s.Runtime.Get()
	if !ok || minutes <= 0 {
		return 0, false
	}
	return minutes * 60, true
}

// Element is the playable primitive the controller drives and observes.
// Implementations must honor ctx cancellation on every call.
type Element interface {
	// Load prepares src for playback without starting it.
	Load(ctx context.Context, src Source) error
	// Listen attaches handler to the native event surface. The returned
	// detach removes every listener attached by this call.
	Listen(handler func(Event)) (detach func(), err error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetCurrentTime(ctx context.Context, seconds float64) error
	// SetVolume takes a volume in [0, 1].
	SetVolume(ctx context.Context, volume float64) error
	SetMuted(ctx context.Context, muted bool) error
}

// Container is implemented by elements that can take their surrounding
// player surface fullscreen.
type Container interface {
	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error
}

// PictureInPicturer is implemented by elements that can float above other windows.
type PictureInPicturer interface {
	RequestPictureInPicture(ctx context.Context) error
	ExitPictureInPicture(ctx context.Context) error
}

// EventKind enumerates native element signals.
type EventKind int

const (
	EventMetadataLoaded EventKind = iota
	EventPlay
	EventPause
	EventEnded
	EventWaiting
	EventCanPlay
	EventProgress
	EventTimeUpdate
	EventSeeked
	EventVolumeChange
	EventFullscreenChange
	EventPictureInPictureChange
)

func (k EventKind) String() string {
	switch k {
	case EventMetadataLoaded:
		return "loadedmetadata"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventWaiting:
		return "waiting"
	case EventCanPlay:
		return "canplay"
	case EventProgress:
		return "progress"
	case EventTimeUpdate:
		return "timeupdate"
	case EventSeeked:
		return "seeked"
	case EventVolumeChange:
		return "volumechange"
	case EventFullscreenChange:
		return "fullscreenchange"
	case EventPictureInPictureChange:
		return "pictureinpicturechange"
	default:
		return "unknown"
	}
}

// TimeRange is a span of media in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// Event is a native signal with the payload relevant to its kind.
type Event struct {
	Kind EventKind
	// Time is the element position for timeupdate and seeked.
	Time float64
	// Duration is set for loadedmetadata.
	Duration float64
	// Buffered lists buffered ranges in ascending order for progress.
	Buffered []TimeRange
	// Volume and Muted are set for volumechange.
	Volume float64
	Muted  bool
	// Active is set for fullscreenchange and pictureinpicturechange.
	Active bool
}

// bufferedEnd returns the end of the last buffered range.
func (e Event) bufferedEnd() (float64, bool) {
	if len(e.Buffered) == 0 {
		return 0, false
	}
	return e.Buffered[len(e.Buffered)-1].End, true
}
