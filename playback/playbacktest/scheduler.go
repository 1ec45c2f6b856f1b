// Package playbacktest provides deterministic doubles for driving a
// playback.Controller in tests.
package playbacktest

import (
	"sort"
	"sync"
	"time"

	"github.com/marquee-cli/marquee/playback"
)

// ManualScheduler fires tasks only when Advance moves its clock.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*ManualTask
	all   []*ManualTask
}

var _ playback.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns a scheduler stopped at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ManualTask is a task armed on a ManualScheduler.
type ManualTask struct {
	sched  *ManualScheduler
	f      func()
	due    time.Duration
	period time.Duration

	stopped bool
	fired   int
}

// Stop cancels the task.
func (t *ManualTask) Stop() {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *ManualTask) Stopped() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	return t.stopped
}

// Fired counts the runs of the task.
func (t *ManualTask) Fired() int {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	return t.fired
}

// Repeating reports whether the task was armed with Every.
func (t *ManualTask) Repeating() bool { return t.period > 0 }

func (s *ManualScheduler) arm(d, period time.Duration, f func()) *ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &ManualTask{sched: s, f: f, due: s.now + d, period: period}
	s.tasks = append(s.tasks, t)
	s.all = append(s.all, t)
	return t
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) playback.Task {
	return s.arm(d, 0, f)
}

func (s *ManualScheduler) Every(d time.Duration, f func()) playback.Task {
	return s.arm(d, d, f)
}

// Advance moves the clock by d, running due tasks in time order. Tasks run
// without the scheduler lock held, so they may arm or stop other tasks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		t, ok := s.nextDue(target)
		if !ok {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDue(target time.Duration) (*ManualTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	if len(s.tasks) == 0 {
		return nil, false
	}

	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].due < s.tasks[j].due
	})

	t := s.tasks[0]
	if t.due > target {
		return nil, false
	}

	s.now = t.due
	t.fired++
	if t.period > 0 {
		t.due += t.period
	} else {
		t.stopped = true
	}
	return t, true
}

func (s *ManualScheduler) prune() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.tasks = live
}

// Active returns the tasks that are still armed.
func (s *ManualScheduler) Active() []*ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	return append([]*ManualTask(nil), s.tasks...)
}

// Now returns the scheduler clock.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Tasks returns every task ever armed, stopped or not.
func (s *ManualScheduler) Tasks() []*ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ManualTask(nil), s.all...)
}
