package playback

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/marquee-cli/marquee/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultSkipInterval is the skip step in seconds.
const DefaultSkipInterval = 10.0

// Options tune a Controller. Zero values fall back to defaults.
type Options struct {
	Timeouts     Timeouts
	SkipInterval float64
	// Volume is the initial volume in [0, 1].
	Volume    float64
	Qualities []Quality
	Quality   Quality
	// StrictTimeAuthority stops the fallback clock for the rest of the mount
	// once the element reports genuine progress.
	StrictTimeAuthority bool
	Scheduler           Scheduler

	// OnTheaterChange runs on the controller loop and must not call back into the controller.
	OnTheaterChange func(on bool)
	// OnShare and OnDownload run off the loop. Nil makes the action a no-op.
	OnShare    func(Source) error
	OnDownload func(Source) error
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Timeouts:     DefaultTimeouts(),
		SkipInterval: DefaultSkipInterval,
		Volume:       1,
		Qualities:    DefaultQualities,
		Quality:      QualityAuto,
		Scheduler:    SystemScheduler{},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Timeouts == (Timeouts{}) {
		o.Timeouts = def.Timeouts
	}
	if o.SkipInterval <= 0 {
		o.SkipInterval = def.SkipInterval
	}
	if o.Volume <= 0 {
		o.Volume = def.Volume
	}
	if len(o.Qualities) == 0 {
		o.Qualities = def.Qualities
	}
	if o.Quality == "" {
		o.Quality = o.Qualities[0]
	}
	if o.Scheduler == nil {
		o.Scheduler = def.Scheduler
	}
	return o
}

type message struct {
	fn   func()
	done chan struct{}
}

// view is the loop-owned state published for readers on other goroutines.
type view struct {
	modes        Modes
	started      bool
	menuOpen     bool
	clockRunning bool
}

// Controller drives one mounted player. Every mutation runs on a single loop
// goroutine; intents block until applied. A Controller mounts once: a new
// title gets a new Controller.
type Controller struct {
	id      string
	src     Source
	opts    Options
	element Element
	store   *Store
	sched   Scheduler
	log     *logrus.Entry

	bridge   *bridge
	clock    fallbackClock
	controls controlsTimer

	// loop-owned
	modes            Modes
	started          bool
	runtimeSupplied  bool
	elementAuthority bool
	lastVolume       float64
	detach           func()
	closing          bool

	viewMu sync.RWMutex
	view   view

	mounted atomic.Bool
	inbox   chan message
	closed  chan struct{}
	exited  chan struct{}
	changes chan struct{}
	cancel  context.CancelFunc
}

// NewController builds an unmounted controller for src played through element.
func NewController(element Element, src Source, opts Options) (*Controller, error) {
	if element == nil {
		return nil, fmt.Errorf("new player: nil element")
	}

	opts = opts.withDefaults()
	if err := opts.Timeouts.Validate(); err != nil {
		return nil, err
	}
	if !lo.Contains(opts.Qualities, opts.Quality) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuality, opts.Quality)
	}

	id := uuid.NewString()
	c := &Controller{
		id:      id,
		src:     src,
		opts:    opts,
		element: element,
		sched:   opts.Scheduler,
		store: NewStore(State{
			Volume:          opts.Volume,
			Quality:         opts.Quality,
			ControlsVisible: true,
		}),
		log: log.WithFields(log.Fields{
			"player": id,
			"title":  src.Title,
		}),
		lastVolume: opts.Volume,
		inbox:      make(chan message),
		closed:     make(chan struct{}),
		exited:     make(chan struct{}),
		changes:    make(chan struct{}, 1),
	}
	c.bridge = newBridge(element, c.log)

	return c, nil
}

// ID identifies this player instance in logs.
func (c *Controller) ID() string { return c.id }

// Source returns the title being played.
func (c *Controller) Source() Source { return c.src }

// Store exposes the state store for read access.
func (c *Controller) Store() *Store { return c.store }

// Snapshot returns the current state.
func (c *Controller) Snapshot() State { return c.store.Snapshot() }

// Changes signals, coalesced, whenever the controller applied an update.
func (c *Controller) Changes() <-chan struct{} { return c.changes }

func (c *Controller) readView() view {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// Phase returns the current playback phase.
func (c *Controller) Phase() Phase {
	return phaseOf(c.store.Snapshot(), c.readView().started)
}

// Modes returns the presentation flags.
func (c *Controller) Modes() Modes { return c.readView().modes }

// MenuOpen reports whether a settings menu suspends the controls countdown.
func (c *Controller) MenuOpen() bool { return c.readView().menuOpen }

// ClockRunning reports whether the fallback progress clock is armed.
func (c *Controller) ClockRunning() bool { return c.readView().clockRunning }

// Mount seeds duration from the supplied runtime, starts the loop and asks the
// element to load and attach its listeners.
func (c *Controller) Mount(ctx context.Context) error {
	if !c.mounted.CompareAndSwap(false, true) {
		return ErrAlreadyMounted
	}

	if seconds, ok := c.src.RuntimeSeconds(); ok {
		c.store.SetVideoDuration(seconds)
		c.runtimeSupplied = true
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.publish()

	go c.run()
	c.bridge.start(ctx)
	c.bridge.enqueue(action{
		name: "load",
		run: func(ctx context.Context) error {
			if err := c.element.Load(ctx, c.src); err != nil {
				return err
			}

			detach, err := c.element.Listen(func(ev Event) {
				_ = c.call(func() { c.handleEvent(ev) })
			})
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			if err := c.call(func() { c.detach = detach }); err != nil {
				detach()
			}
			return nil
		},
	})
	c.bridge.setVolume(c.opts.Volume)

	c.log.WithField("runtime_supplied", c.runtimeSupplied).Info("player mounted")
	return nil
}

// Unmount stops both timers, detaches the element listeners, drains the
// action worker and resets the store. It returns the state as it was just
// before teardown. Calls after the first return the reset state.
func (c *Controller) Unmount() State {
	var last State
	if err := c.call(func() {
		last = c.store.Snapshot()
		c.teardown()
	}); err != nil {
		return c.store.Snapshot()
	}

	<-c.exited
	c.bridge.wait()
	c.store.Reset()
	c.setView(view{})

	c.log.Info("player unmounted")
	return last
}

// teardown closes the mailbox first: a listener blocked delivering an event
// must be released before detach waits for it.
func (c *Controller) teardown() {
	c.closing = true
	close(c.closed)

	c.clock.stop()
	c.controls.cancel()
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
	c.cancel()
}

func (c *Controller) run() {
	defer close(c.exited)

	for m := range c.inbox {
		m.fn()
		close(m.done)

		if c.closing {
			return
		}
		c.publish()
	}
}

// call runs fn on the loop and waits for it. It fails once the player is gone.
func (c *Controller) call(fn func()) error {
	if !c.mounted.Load() {
		return ErrNotMounted
	}

	m := message{fn: fn, done: make(chan struct{})}
	select {
	case <-c.closed:
		return ErrNotMounted
	case c.inbox <- m:
	}

	<-m.done
	return nil
}

func (c *Controller) callErr(fn func() error) error {
	var err error
	if callErr := c.call(func() { err = fn() }); callErr != nil {
		return callErr
	}
	return err
}

func (c *Controller) publish() {
	c.setView(view{
		modes:        c.modes,
		started:      c.started,
		menuOpen:     c.controls.menuOpen,
		clockRunning: c.clock.running(),
	})

	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) setView(v view) {
	c.viewMu.Lock()
	c.view = v
	c.viewMu.Unlock()
}

// Play requests playback. From the ended state it restarts from the beginning.
func (c *Controller) Play() error { return c.call(c.play) }

// Pause stops playback and the fallback clock.
func (c *Controller) Pause() error { return c.call(c.pause) }

// TogglePlay plays when paused and pauses when playing.
func (c *Controller) TogglePlay() error {
	return c.call(func() {
		if c.store.Playing() {
			c.pause()
			return
		}
		c.play()
	})
}

// Seek moves to seconds, clamped to [0, duration].
func (c *Controller) Seek(seconds float64) error {
	return c.call(func() { c.applySeek(seconds, true) })
}

// SeekFraction seeks to a fraction of the duration.
func (c *Controller) SeekFraction(fraction float64) error {
	return c.call(func() { c.applySeek(fraction*c.store.Duration(), true) })
}

// Skip moves by delta seconds; negative values skip backward.
func (c *Controller) Skip(delta float64) error {
	return c.call(func() { c.applySeek(c.store.CurrentTime()+delta, true) })
}

// SkipForward skips ahead by the configured interval.
func (c *Controller) SkipForward() error { return c.Skip(c.opts.SkipInterval) }

// SkipBackward skips back by the configured interval.
func (c *Controller) SkipBackward() error { return c.Skip(-c.opts.SkipInterval) }

// SetVolume sets the volume in [0, 1]. Zero mutes.
func (c *Controller) SetVolume(volume float64) error {
	return c.call(func() { c.setVolume(volume) })
}

// NudgeVolume changes the volume by delta.
func (c *Controller) NudgeVolume(delta float64) error {
	return c.call(func() { c.setVolume(c.store.Volume() + delta) })
}

// ToggleMute flips the muted flag, restoring the last audible volume on unmute.
func (c *Controller) ToggleMute() error { return c.call(c.toggleMute) }

// SetQuality selects a display quality label.
func (c *Controller) SetQuality(q Quality) error {
	return c.callErr(func() error {
		if !lo.Contains(c.opts.Qualities, q) {
			return fmt.Errorf("%w: %s", ErrUnknownQuality, q)
		}
		c.store.SetQuality(q)
		return nil
	})
}

// Qualities returns the offered quality labels.
func (c *Controller) Qualities() []Quality { return c.opts.Qualities }

// ToggleTheater flips theater mode and notifies the host.
func (c *Controller) ToggleTheater() error {
	return c.call(func() {
		c.modes.Theater = !c.modes.Theater
		if c.opts.OnTheaterChange != nil {
			c.opts.OnTheaterChange(c.modes.Theater)
		}
	})
}

// SetMobileLayout records whether the host viewport uses the compact layout.
func (c *Controller) SetMobileLayout(mobile bool) error {
	return c.call(func() {
		if c.modes.MobileLayout == mobile {
			return
		}
		c.modes.MobileLayout = mobile
		c.rearmControls()
	})
}

// Share hands the source to the host share delegate.
func (c *Controller) Share() error {
	return c.call(func() { c.delegate("share", c.opts.OnShare) })
}

// Download hands the source to the host download delegate.
func (c *Controller) Download() error {
	return c.call(func() { c.delegate("download", c.opts.OnDownload) })
}

func (c *Controller) delegate(name string, fn func(Source) error) {
	if fn == nil {
		return
	}
	src := c.src
	c.bridge.enqueue(action{
		name: name,
		run:  func(context.Context) error { return fn(src) },
	})
}

func (c *Controller) play() {
	s := c.store
	if s.Ended() {
		c.restart()
		return
	}

	s.SetPlaying(true)
	c.started = true
	c.bridge.play()
	c.startClock()
	c.armControls()
}

// restart replays from zero: both the element and the fallback clock resume from the beginning.
func (c *Controller) restart() {
	s := c.store
	c.clock.stop()

	s.SetEnded(false)
	s.SetCurrentTime(0, TimeSeek)
	c.bridge.seek(0)

	s.SetPlaying(true)
	c.started = true
	c.bridge.play()
	c.startClock()
	c.armControls()

	c.log.Debug("restarted from the end")
}

func (c *Controller) pause() {
	c.store.SetPlaying(false)
	c.clock.stop()
	c.bridge.pause()
	c.revealControls()
}

// applySeek performs an explicit seek. drive issues the seek on the element;
// it is false when the element itself reported the new position.
func (c *Controller) applySeek(seconds float64, drive bool) {
	s := c.store
	duration := s.Duration()
	if duration <= 0 {
		return
	}

	now := s.SetCurrentTime(seconds, TimeSeek)
	if drive {
		c.bridge.seek(now)
	}

	if now >= duration {
		c.finish(true)
		return
	}
	if s.Ended() {
		s.SetEnded(false)
	}
}

// finish flips to the ended phase.
func (c *Controller) finish(pauseElement bool) {
	s := c.store
	c.clock.stop()
	s.SetPlaying(false)
	s.SetEnded(true)
	c.revealControls()

	if pauseElement {
		c.bridge.pause()
	}
}

func (c *Controller) setVolume(volume float64) {
	s := c.store
	s.SetVolume(volume)

	volume = s.Volume()
	if volume > 0 {
		c.lastVolume = volume
	}
	s.SetMuted(volume == 0)

	c.bridge.setVolume(volume)
	c.bridge.setMuted(volume == 0)
}

func (c *Controller) toggleMute() {
	s := c.store
	muted := !s.Muted()
	if !muted && s.Volume() == 0 {
		s.SetVolume(c.lastVolume)
		c.bridge.setVolume(c.lastVolume)
	}

	s.SetMuted(muted)
	c.bridge.setMuted(muted)
}
