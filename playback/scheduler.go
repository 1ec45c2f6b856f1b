package playback

import (
	"sync"
	"time"
)

// Task is a handle to scheduled work. Stop cancels it; a stopped task never runs again.
type Task interface {
	Stop()
}

// Scheduler arms the timers the controller owns.
type Scheduler interface {
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Task
	// Every runs f every d until stopped.
	Every(d time.Duration, f func()) Task
}

// SystemScheduler schedules against the wall clock.
type SystemScheduler struct{}

// systemTask carries the cancellation token checked before every run.
type systemTask struct {
	once  sync.Once
	stop  chan struct{}
	timer *time.Timer
}

func newSystemTask() *systemTask {
	return &systemTask{stop: make(chan struct{})}
}

func (t *systemTask) Stop() {
	t.once.Do(func() {
		close(t.stop)
		if t.timer != nil {
			t.timer.Stop()
		}
	})
}

func (t *systemTask) cancelled() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Task {
	t := newSystemTask()
	t.timer = time.AfterFunc(d, func() {
		if !t.cancelled() {
			f()
		}
	})
	return t
}

func (SystemScheduler) Every(d time.Duration, f func()) Task {
	t := newSystemTask()
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				if t.cancelled() {
					return
				}
				f()
			}
		}
	}()
	return t
}
