package player

import (
	"context"
	"errors"
	"sync"

	"github.com/marquee-cli/marquee/playback"
)

// Headless is an element without a decoder. It acknowledges every call with
// the event a real element would emit and never reports progress, so the
// fallback clock alone drives time. It has no fullscreen or
// picture-in-picture surface.
type Headless struct {
	mu       sync.Mutex
	handler  func(playback.Event)
	loaded   bool
	closed   chan struct{}
	closeOne sync.Once
}

var _ Element = (*Headless)(nil)

// NewHeadless returns an unloaded headless element.
func NewHeadless() *Headless {
	return &Headless{closed: make(chan struct{})}
}

func (h *Headless) emit(ev playback.Event) {
	h.mu.Lock()
	handler := h.handler
	h.mu.Unlock()

	if handler != nil {
		handler(ev)
	}
}

func (h *Headless) Load(ctx context.Context, src playback.Source) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := sanitizeMediaTarget(src.URL); err != nil {
		return err
	}

	h.mu.Lock()
	h.loaded = true
	h.mu.Unlock()
	return nil
}

func (h *Headless) Listen(handler func(playback.Event)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		return nil, errors.New("headless: nothing loaded")
	}
	h.handler = handler

	return func() {
		h.mu.Lock()
		h.handler = nil
		h.mu.Unlock()
	}, nil
}

func (h *Headless) Play(context.Context) error {
	h.emit(playback.Event{Kind: playback.EventPlay})
	return nil
}

func (h *Headless) Pause(context.Context) error {
	h.emit(playback.Event{Kind: playback.EventPause})
	return nil
}

func (h *Headless) SetCurrentTime(context.Context, float64) error {
	return nil
}

func (h *Headless) SetVolume(context.Context, float64) error {
	return nil
}

func (h *Headless) SetMuted(context.Context, bool) error {
	return nil
}

func (h *Headless) Wait() <-chan struct{} {
	return h.closed
}

func (h *Headless) Close() error {
	h.closeOne.Do(func() { close(h.closed) })
	return nil
}
