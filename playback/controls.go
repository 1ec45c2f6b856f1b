package playback

import (
	"fmt"
	"time"
)

// Timeouts are the controls hide delays per interaction context.
type Timeouts struct {
	Desktop    time.Duration `json:"desktop"`
	Touch      time.Duration `json:"touch"`
	Fullscreen time.Duration `json:"fullscreen"`
}

// DefaultTimeouts returns the stock hide delays.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Desktop:    2500 * time.Millisecond,
		Touch:      4 * time.Second,
		Fullscreen: 5 * time.Second,
	}
}

// Validate checks that fullscreen >= touch >= desktop > 0.
func (t Timeouts) Validate() error {
	if t.Desktop <= 0 || t.Touch < t.Desktop || t.Fullscreen < t.Touch {
		return fmt.Errorf(
			"%w: desktop %s, touch %s, fullscreen %s",
			ErrInvalidTimeouts,
			t.Desktop, t.Touch, t.Fullscreen,
		)
	}

	return nil
}

// Input is the kind of pointer that last interacted with the player.
type Input int

const (
	InputPointer Input = iota
	InputTouch
)

func (i Input) String() string {
	if i == InputTouch {
		return "touch"
	}
	return "pointer"
}

type controlsTimer struct {
	task     Task
	gen      uint64
	menuOpen bool
	input    Input
}

func (t *controlsTimer) armed() bool { return t.task != nil }

func (t *controlsTimer) cancel() {
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
	t.gen++
}

// PointerMove reports pointer activity over the player.
func (c *Controller) PointerMove() error {
	return c.call(func() { c.activity(InputPointer) })
}

// TouchStart reports a touch beginning on the player.
func (c *Controller) TouchStart() error {
	return c.call(func() { c.activity(InputTouch) })
}

// TouchEnd reports a touch ending on the player.
func (c *Controller) TouchEnd() error {
	return c.call(func() { c.activity(InputTouch) })
}

// PointerLeave reports the pointer leaving the player area.
func (c *Controller) PointerLeave() error {
	return c.call(func() {
		if c.controls.input != InputPointer || c.controls.menuOpen {
			return
		}
		if !c.store.Playing() || c.modes.Fullscreen {
			return
		}

		c.controls.cancel()
		c.store.SetShowControls(false)
	})
}

// OpenMenu shows controls and suspends the hide countdown until CloseMenu.
func (c *Controller) OpenMenu() error {
	return c.call(func() {
		c.controls.menuOpen = true
		c.revealControls()
	})
}

// CloseMenu resumes the hide countdown.
func (c *Controller) CloseMenu() error {
	return c.call(func() {
		if !c.controls.menuOpen {
			return
		}
		c.controls.menuOpen = false
		c.armControls()
	})
}

func (c *Controller) activity(input Input) {
	c.controls.input = input
	c.store.SetShowControls(true)
	c.armControls()
}

// revealControls shows the controls and drops any pending hide.
func (c *Controller) revealControls() {
	c.controls.cancel()
	c.store.SetShowControls(true)
}

// rearmControls restarts a pending countdown with the current timeout.
func (c *Controller) rearmControls() {
	if c.controls.armed() {
		c.armControls()
	}
}

func (c *Controller) hideTimeout() time.Duration {
	switch {
	case c.modes.Fullscreen:
		return c.opts.Timeouts.Fullscreen
	case c.controls.input == InputTouch || c.modes.MobileLayout:
		return c.opts.Timeouts.Touch
	default:
		return c.opts.Timeouts.Desktop
	}
}

func (c *Controller) armControls() {
	c.controls.cancel()
	if c.controls.menuOpen {
		return
	}

	gen := c.controls.gen
	c.controls.task = c.sched.AfterFunc(c.hideTimeout(), func() {
		_ = c.call(func() { c.hideControls(gen) })
	})
}

func (c *Controller) hideControls(gen uint64) {
	if gen != c.controls.gen {
		return
	}
	c.controls.task = nil

	if c.controls.menuOpen || !c.active() {
		return
	}
	c.store.SetShowControls(false)
}

// active reports real or simulated playback.
func (c *Controller) active() bool {
	return c.store.Playing() || c.clock.running()
}
