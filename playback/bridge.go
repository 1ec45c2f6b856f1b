package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type action struct {
	name string
	run  func(ctx context.Context) error
	// done runs on the worker after run returns.
	done func(err error)
}

// bridge executes element calls in order on one worker goroutine, so a call
// that never resolves blocks neither the controller loop nor its timers.
type bridge struct {
	element Element
	log     *logrus.Entry

	mu      sync.Mutex
	queue   []action
	pending int

	wake chan struct{}
	wg   sync.WaitGroup
}

func newBridge(element Element, log *logrus.Entry) *bridge {
	return &bridge{
		element: element,
		log:     log,
		wake:    make(chan struct{}, 1),
	}
}

func (b *bridge) start(ctx context.Context) {
	b.wg.Add(1)
	go b.work(ctx)
}

func (b *bridge) wait() { b.wg.Wait() }

func (b *bridge) enqueue(a action) {
	b.mu.Lock()
	b.queue = append(b.queue, a)
	b.pending++
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *bridge) next() (action, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return action{}, false
	}

	a := b.queue[0]
	b.queue[0] = action{}
	b.queue = b.queue[1:]
	return a, true
}

func (b *bridge) finished() {
	b.mu.Lock()
	b.pending--
	b.mu.Unlock()
}

// idle waits until every queued action has run.
func (b *bridge) idle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		b.mu.Lock()
		pending := b.pending
		b.mu.Unlock()

		if pending == 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (b *bridge) work(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.wake:
		}

		for ctx.Err() == nil {
			a, ok := b.next()
			if !ok {
				break
			}

			err := a.run(ctx)
			if err != nil {
				b.report(a.name, err)
			}
			if a.done != nil {
				a.done(err)
			}
			b.finished()
		}
	}
}

func (b *bridge) report(name string, err error) {
	entry := b.log.WithError(err).WithField("action", name)
	switch {
	case errors.Is(err, context.Canceled):
		entry.Debug("element action cancelled")
	case errors.Is(err, ErrDenied), errors.Is(err, ErrUnsupported):
		entry.Warn("element action refused")
	default:
		entry.Error("element action failed")
	}
}

func (b *bridge) play() {
	b.enqueue(action{name: "play", run: b.element.Play})
}

func (b *bridge) pause() {
	b.enqueue(action{name: "pause", run: b.element.Pause})
}

func (b *bridge) seek(seconds float64) {
	b.enqueue(action{
		name: "seek",
		run: func(ctx context.Context) error {
			return b.element.SetCurrentTime(ctx, seconds)
		},
	})
}

func (b *bridge) setVolume(volume float64) {
	b.enqueue(action{
		name: "volume",
		run: func(ctx context.Context) error {
			return b.element.SetVolume(ctx, volume)
		},
	})
}

func (b *bridge) setMuted(muted bool) {
	b.enqueue(action{
		name: "mute",
		run: func(ctx context.Context) error {
			return b.element.SetMuted(ctx, muted)
		},
	})
}

// handleEvent reconciles the store with a native element event.
func (c *Controller) handleEvent(ev Event) {
	s := c.store

	switch ev.Kind {
	case EventMetadataLoaded:
		if c.runtimeSupplied {
			return
		}
		s.SetVideoDuration(ev.Duration)
		c.startClock()
	case EventPlay:
		// Leaving the ended state takes an explicit restart.
		if s.Ended() {
			return
		}
		s.SetPlaying(true)
		s.SetBuffering(false)
		c.started = true
		c.startClock()
	case EventPause:
		s.SetPlaying(false)
		c.clock.stop()
		c.revealControls()
	case EventEnded:
		c.finish(false)
	case EventWaiting:
		s.SetBuffering(true)
	case EventCanPlay:
		s.SetBuffering(false)
	case EventProgress:
		if end, ok := ev.bufferedEnd(); ok {
			s.SetBufferedTime(end)
		}
	case EventTimeUpdate:
		c.syncTime(ev.Time)
	case EventSeeked:
		if c.runtimeSupplied {
			return
		}
		c.applySeek(ev.Time, false)
	case EventVolumeChange:
		s.SetVolume(ev.Volume)
		if v := s.Volume(); v > 0 {
			c.lastVolume = v
		}
		s.SetMuted(ev.Muted)
	case EventFullscreenChange:
		c.setFullscreen(ev.Active)
	case EventPictureInPictureChange:
		c.modes.PictureInPicture = ev.Active
	}
}

func (c *Controller) syncTime(seconds float64) {
	s := c.store

	if c.opts.StrictTimeAuthority && !c.elementAuthority && seconds > 0 {
		c.elementAuthority = true
		c.clock.stop()
		c.log.Debug("element reports progress, fallback clock retired")
	}

	if c.runtimeSupplied && c.clock.running() {
		return
	}

	now := s.SetCurrentTime(seconds, TimeElement)
	if duration := s.Duration(); s.Playing() && duration > 0 && now >= duration {
		c.finish(false)
	}
}

func (c *Controller) setFullscreen(on bool) {
	if c.modes.Fullscreen == on {
		return
	}
	c.modes.Fullscreen = on
	c.rearmControls()
}

// ToggleFullscreen asks the element container to enter or leave fullscreen.
// It returns ErrUnsupported when the element has no fullscreen container.
func (c *Controller) ToggleFullscreen() error {
	return c.callErr(func() error {
		container, ok := c.element.(Container)
		if !ok {
			c.log.Warn("fullscreen unsupported by element")
			return fmt.Errorf("fullscreen: %w", ErrUnsupported)
		}

		want := !c.modes.Fullscreen
		c.bridge.enqueue(action{
			name: "fullscreen",
			run: func(ctx context.Context) error {
				if want {
					return container.RequestFullscreen(ctx)
				}
				return container.ExitFullscreen(ctx)
			},
			done: func(err error) {
				if err == nil {
					_ = c.call(func() { c.setFullscreen(want) })
				}
			},
		})
		return nil
	})
}

// TogglePictureInPicture asks the element to enter or leave picture-in-picture.
// It returns ErrUnsupported when the element cannot float.
func (c *Controller) TogglePictureInPicture() error {
	return c.callErr(func() error {
		pip, ok := c.element.(PictureInPicturer)
		if !ok {
			c.log.Warn("picture-in-picture unsupported by element")
			return fmt.Errorf("picture-in-picture: %w", ErrUnsupported)
		}

		want := !c.modes.PictureInPicture
		c.bridge.enqueue(action{
			name: "picture-in-picture",
			run: func(ctx context.Context) error {
				if want {
					return pip.RequestPictureInPicture(ctx)
				}
				return pip.ExitPictureInPicture(ctx)
			},
			done: func(err error) {
				if err == nil {
					_ = c.call(func() { c.modes.PictureInPicture = want })
				}
			},
		})
		return nil
	})
}
