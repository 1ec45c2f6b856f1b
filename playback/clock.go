package playback

import "time"

const clockPeriod = time.Second

// fallbackClock advances displayed time once a second while playing, so
// progress stays visible when the element stalls or reports nothing.
type fallbackClock struct {
	task Task
	gen  uint64
}

func (k *fallbackClock) running() bool { return k.task != nil }

func (k *fallbackClock) stop() {
	if k.task != nil {
		k.task.Stop()
		k.task = nil
	}
	k.gen++
}

func (c *Controller) startClock() {
	s := c.store
	switch {
	case c.clock.running():
		return
	case c.elementAuthority:
		return
	case !s.Playing():
		return
	case s.Duration() <= 0:
		c.log.Debug("clock not armed, duration unknown")
		return
	}

	c.clock.gen++
	gen := c.clock.gen
	c.clock.task = c.sched.Every(clockPeriod, func() {
		_ = c.call(func() { c.tick(gen) })
	})
}

func (c *Controller) tick(gen uint64) {
	if gen != c.clock.gen || !c.clock.running() {
		return
	}

	s := c.store
	duration := s.Duration()
	next := s.CurrentTime() + clockPeriod.Seconds()
	if next < duration {
		s.SetCurrentTime(next, TimeClock)
		return
	}

	s.SetCurrentTime(duration, TimeClock)
	c.finish(true)
	c.log.Debug("clock reached the end")
}
