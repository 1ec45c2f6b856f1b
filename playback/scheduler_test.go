package playback_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/playback/playbacktest"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestSystemScheduler(t *testing.T) {
	Convey("Given the system scheduler", t, func() {
		var sched playback.SystemScheduler

		Convey("When a one-shot task is stopped before it is due", func() {
			var fired atomic.Bool
			task := sched.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
			task.Stop()
			task.Stop()
			time.Sleep(50 * time.Millisecond)

			So(fired.Load(), ShouldBeFalse)
		})

		Convey("When a repeating task runs", func() {
			var n atomic.Int32
			task := sched.Every(5*time.Millisecond, func() { n.Add(1) })
			time.Sleep(40 * time.Millisecond)
			task.Stop()

			stopped := n.Load()
			time.Sleep(30 * time.Millisecond)

			So(stopped, ShouldBeGreaterThan, 0)
			So(n.Load(), ShouldEqual, stopped)
		})
	})
}

func TestManualScheduler(t *testing.T) {
	Convey("Given a manual scheduler", t, func() {
		sched := playbacktest.NewManualScheduler()
		var order []string

		sched.AfterFunc(3*time.Second, func() { order = append(order, "once") })
		tick := sched.Every(time.Second, func() { order = append(order, "tick") })

		Convey("When advanced", func() {
			sched.Advance(3 * time.Second)

			So(order, ShouldResemble, []string{"tick", "tick", "tick", "once"})
			So(sched.Now(), ShouldEqual, 3*time.Second)
			So(len(sched.Active()), ShouldEqual, 1)
		})

		Convey("When a task is stopped", func() {
			tick.Stop()
			sched.Advance(2 * time.Second)

			So(order, ShouldBeEmpty)
			So(len(sched.Tasks()), ShouldEqual, 2)
		})
	})
}

func TestUnmountLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	el := playbacktest.NewFakeElement()
	src := playback.Source{URL: "https://cdn.test/leak.mp4", Runtime: mo.Some(10.0)}
	c, err := playback.NewController(el, src, playback.Options{
		Timeouts: playback.Timeouts{
			Desktop:    10 * time.Millisecond,
			Touch:      20 * time.Millisecond,
			Fullscreen: 30 * time.Millisecond,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}
	if err := c.PointerMove(); err != nil {
		t.Fatal(err)
	}

	time.Sleep(30 * time.Millisecond)
	c.Unmount()
}
