package playback_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/playback/playbacktest"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type rig struct {
	c     *playback.Controller
	el    *playbacktest.FakeElement
	sched *playbacktest.ManualScheduler
}

func newRig(el playback.Element, fake *playbacktest.FakeElement, src playback.Source, opts playback.Options) *rig {
	sched := playbacktest.NewManualScheduler()
	opts.Scheduler = sched

	c, err := playback.NewController(el, src, opts)
	So(err, ShouldBeNil)
	So(c.Mount(context.Background()), ShouldBeNil)
	So(c.Settle(), ShouldBeTrue)
	So(fake.Listening(), ShouldBeTrue)

	return &rig{c: c, el: fake, sched: sched}
}

// withMetadata mounts without a runtime and lets the element report duration.
func withMetadata(duration float64) *rig {
	el := playbacktest.NewFakeElement()
	r := newRig(el, el, playback.Source{URL: "https://cdn.test/a.mp4", Title: "A"}, playback.Options{})
	r.el.Emit(playback.Event{Kind: playback.EventMetadataLoaded, Duration: duration})
	return r
}

// withRuntime mounts with a host supplied runtime in minutes.
func withRuntime(minutes float64, opts playback.Options) *rig {
	el := playbacktest.NewFakeElement()
	src := playback.Source{URL: "https://cdn.test/b.mp4", Title: "B", Runtime: mo.Some(minutes)}
	return newRig(el, el, src, opts)
}

func (r *rig) tick(n int) {
	r.sched.Advance(time.Duration(n) * time.Second)
}

func TestClockReachesEnd(t *testing.T) {
	Convey("Given a 125 second title playing at 124", t, func() {
		r := withMetadata(125)
		Reset(func() { r.c.Unmount() })

		So(r.c.Play(), ShouldBeNil)
		So(r.c.Seek(124), ShouldBeNil)
		So(r.c.ClockRunning(), ShouldBeTrue)

		Convey("When the clock ticks", func() {
			r.tick(1)
			s := r.c.Snapshot()

			Convey("Then playback ends with controls shown", func() {
				So(s.CurrentTime, ShouldEqual, 125)
				So(s.Playing, ShouldBeFalse)
				So(s.Ended, ShouldBeTrue)
				So(s.ControlsVisible, ShouldBeTrue)
				So(r.c.ClockRunning(), ShouldBeFalse)
				So(r.c.Phase(), ShouldEqual, playback.PhaseEnded)
			})

			Convey("Then the element is paused", func() {
				So(r.c.Settle(), ShouldBeTrue)
				So(r.el.Count("Pause"), ShouldEqual, 1)
			})

			Convey("And play is requested again", func() {
				So(r.c.Play(), ShouldBeNil)
				s := r.c.Snapshot()

				Convey("Then it restarts from zero with the clock running", func() {
					So(s.CurrentTime, ShouldEqual, 0)
					So(s.Ended, ShouldBeFalse)
					So(s.Playing, ShouldBeTrue)
					So(r.c.ClockRunning(), ShouldBeTrue)

					So(r.c.Settle(), ShouldBeTrue)
					seek, ok := r.el.Last("SetCurrentTime")
					So(ok, ShouldBeTrue)
					So(seek.Arg, ShouldEqual, 0.0)
				})

				Convey("Then time advances again", func() {
					r.tick(2)
					So(r.c.Snapshot().CurrentTime, ShouldEqual, 2)
				})
			})
		})
	})
}

func TestPauseStopsClock(t *testing.T) {
	Convey("Given a playing title with a runtime", t, func() {
		r := withRuntime(2, playback.Options{})
		Reset(func() { r.c.Unmount() })

		So(r.c.Snapshot().Duration, ShouldEqual, 120)
		So(r.c.Play(), ShouldBeNil)
		r.tick(3)
		So(r.c.Snapshot().CurrentTime, ShouldEqual, 3)

		Convey("When paused", func() {
			So(r.c.Pause(), ShouldBeNil)
			r.tick(5)

			Convey("Then time stays put", func() {
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 3)
				So(r.c.ClockRunning(), ShouldBeFalse)
				So(r.c.Phase(), ShouldEqual, playback.PhasePaused)
			})

			Convey("Then resuming continues from there", func() {
				So(r.c.Play(), ShouldBeNil)
				r.tick(2)
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 5)
			})
		})
	})
}

func TestBlockedPlayDoesNotStallClock(t *testing.T) {
	Convey("Given an element whose play request never resolves", t, func() {
		el := playbacktest.NewFakeElement()
		el.Block = true
		src := playback.Source{URL: "https://cdn.test/c.mp4", Runtime: mo.Some(1.0)}
		r := newRig(el, el, src, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("When play is requested and time passes", func() {
			So(r.c.Play(), ShouldBeNil)
			r.tick(4)

			Convey("Then the clock still advances", func() {
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 4)
				So(r.c.Snapshot().Playing, ShouldBeTrue)
			})
		})
	})
}

func TestMenuSuspendsHide(t *testing.T) {
	Convey("Given a playing title", t, func() {
		r := withRuntime(2, playback.Options{})
		Reset(func() { r.c.Unmount() })
		So(r.c.Play(), ShouldBeNil)

		Convey("When idle past the desktop timeout", func() {
			r.tick(3)

			Convey("Then controls hide", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeFalse)
			})

			Convey("Then pointer movement shows them again", func() {
				So(r.c.PointerMove(), ShouldBeNil)
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})
		})

		Convey("When the menu is open and idle for long", func() {
			So(r.c.OpenMenu(), ShouldBeNil)
			So(r.c.MenuOpen(), ShouldBeTrue)
			r.tick(30)

			Convey("Then controls stay visible", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})

			Convey("And the menu closes", func() {
				So(r.c.CloseMenu(), ShouldBeNil)

				Convey("Then the normal countdown hides them", func() {
					r.sched.Advance(playback.DefaultTimeouts().Desktop)
					So(r.c.Snapshot().ControlsVisible, ShouldBeFalse)
				})
			})
		})

		Convey("When paused and idle", func() {
			So(r.c.Pause(), ShouldBeNil)
			So(r.c.PointerMove(), ShouldBeNil)
			r.tick(10)

			Convey("Then controls remain shown", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})
		})
	})
}

func TestPointerLeave(t *testing.T) {
	Convey("Given a playing title on desktop", t, func() {
		r := withRuntime(2, playback.Options{})
		Reset(func() { r.c.Unmount() })
		So(r.c.Play(), ShouldBeNil)
		So(r.c.PointerMove(), ShouldBeNil)

		Convey("When the pointer leaves", func() {
			So(r.c.PointerLeave(), ShouldBeNil)

			Convey("Then controls hide at once", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeFalse)
			})
		})

		Convey("When a menu is open and the pointer leaves", func() {
			So(r.c.OpenMenu(), ShouldBeNil)
			So(r.c.PointerLeave(), ShouldBeNil)

			Convey("Then controls stay", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})
		})

		Convey("When the last input was touch", func() {
			So(r.c.TouchStart(), ShouldBeNil)
			So(r.c.PointerLeave(), ShouldBeNil)

			Convey("Then leaving does not hide", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})

			Convey("Then the touch timeout applies", func() {
				So(r.c.TouchEnd(), ShouldBeNil)
				r.sched.Advance(playback.DefaultTimeouts().Desktop)
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
				r.sched.Advance(playback.DefaultTimeouts().Touch - playback.DefaultTimeouts().Desktop)
				So(r.c.Snapshot().ControlsVisible, ShouldBeFalse)
			})
		})

		Convey("When paused and the pointer leaves", func() {
			So(r.c.Pause(), ShouldBeNil)
			So(r.c.PointerLeave(), ShouldBeNil)

			Convey("Then controls stay", func() {
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})
		})
	})
}

func TestSeekAroundTheEnd(t *testing.T) {
	Convey("Given a 100 second title", t, func() {
		r := withMetadata(100)
		Reset(func() { r.c.Unmount() })

		Convey("When seeking exactly to the end", func() {
			So(r.c.Seek(100), ShouldBeNil)

			Convey("Then it is ended without a play click", func() {
				So(r.c.Snapshot().Ended, ShouldBeTrue)
				So(r.c.Phase(), ShouldEqual, playback.PhaseEnded)
			})

			Convey("And seeking backward", func() {
				So(r.c.Seek(80), ShouldBeNil)

				Convey("Then ended clears", func() {
					So(r.c.Snapshot().Ended, ShouldBeFalse)
					So(r.c.Snapshot().CurrentTime, ShouldEqual, 80)
				})
			})
		})

		Convey("When seeking past either bound", func() {
			So(r.c.Seek(-4), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 0)
			So(r.c.Seek(400), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 100)
		})

		Convey("When seeking to a fraction", func() {
			So(r.c.SeekFraction(0.25), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 25)
		})
	})

	Convey("Given no duration yet", t, func() {
		el := playbacktest.NewFakeElement()
		r := newRig(el, el, playback.Source{URL: "x"}, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("Then seeks are ignored and the clock refuses to arm", func() {
			So(r.c.Seek(10), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 0)
			So(r.c.Play(), ShouldBeNil)
			So(r.c.ClockRunning(), ShouldBeFalse)
			So(r.c.Phase(), ShouldEqual, playback.PhaseIdle)

			Convey("And metadata arrives while playing", func() {
				r.el.Emit(playback.Event{Kind: playback.EventMetadataLoaded, Duration: 60})
				So(r.c.ClockRunning(), ShouldBeTrue)
				So(r.c.Phase(), ShouldEqual, playback.PhasePlaying)
			})
		})
	})
}

func TestSkipBoundaries(t *testing.T) {
	Convey("Given a 60 second title", t, func() {
		r := withMetadata(60)
		Reset(func() { r.c.Unmount() })

		Convey("When skipping back from 5", func() {
			So(r.c.Seek(5), ShouldBeNil)
			So(r.c.SkipBackward(), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 0)
		})

		Convey("When skipping forward from duration - 5", func() {
			So(r.c.Seek(55), ShouldBeNil)
			So(r.c.SkipForward(), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 60)
			So(r.c.Snapshot().Ended, ShouldBeTrue)
		})

		Convey("When skipping from the middle", func() {
			So(r.c.Seek(30), ShouldBeNil)
			So(r.c.SkipForward(), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 40)
			So(r.c.SkipBackward(), ShouldBeNil)
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 30)
		})
	})
}

func TestUnmountStopsEverything(t *testing.T) {
	Convey("Given a player with the clock and the hide countdown armed", t, func() {
		r := withRuntime(2, playback.Options{})
		So(r.c.Play(), ShouldBeNil)
		r.tick(1)

		armed := r.sched.Active()
		So(len(armed), ShouldEqual, 2)

		Convey("When unmounted", func() {
			last := r.c.Unmount()

			Convey("Then the last state is returned and the store reset", func() {
				So(last.CurrentTime, ShouldEqual, 1)
				So(last.Playing, ShouldBeTrue)
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 0)
			})

			Convey("Then both timers are cancelled", func() {
				for _, task := range armed {
					So(task.Stopped(), ShouldBeTrue)
				}
				So(r.sched.Active(), ShouldBeEmpty)
			})

			Convey("Then nothing mutates the state afterwards", func() {
				before := r.c.Snapshot()
				fired := make([]int, len(armed))
				for i, task := range armed {
					fired[i] = task.Fired()
				}

				r.tick(30)
				r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 50})

				So(r.c.Snapshot(), ShouldResemble, before)
				for i, task := range armed {
					So(task.Fired(), ShouldEqual, fired[i])
				}
				So(r.el.Listening(), ShouldBeFalse)
			})

			Convey("Then intents report the player gone", func() {
				So(errors.Is(r.c.Play(), playback.ErrNotMounted), ShouldBeTrue)
				So(errors.Is(r.c.Mount(context.Background()), playback.ErrAlreadyMounted), ShouldBeTrue)
			})
		})
	})
}

func TestElementEvents(t *testing.T) {
	Convey("Given a player without a runtime", t, func() {
		r := withMetadata(90)
		Reset(func() { r.c.Unmount() })

		Convey("When the element plays and buffers", func() {
			r.el.Emit(playback.Event{Kind: playback.EventWaiting})
			So(r.c.Snapshot().Buffering, ShouldBeTrue)
			r.el.Emit(playback.Event{Kind: playback.EventPlay})

			So(r.c.Snapshot().Playing, ShouldBeTrue)
			So(r.c.Snapshot().Buffering, ShouldBeFalse)
			So(r.c.ClockRunning(), ShouldBeTrue)
		})

		Convey("When progress reports buffered ranges", func() {
			r.el.Emit(playback.Event{
				Kind:     playback.EventProgress,
				Buffered: []playback.TimeRange{{Start: 0, End: 10}, {Start: 20, End: 35}},
			})
			So(r.c.Snapshot().BufferedTime, ShouldEqual, 35)

			r.el.Emit(playback.Event{Kind: playback.EventProgress, Buffered: []playback.TimeRange{{End: 500}}})
			So(r.c.Snapshot().BufferedTime, ShouldEqual, 90)
		})

		Convey("When timeupdates arrive", func() {
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 12})
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 12)

			Convey("Then stale ones never move time backward", func() {
				r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 8})
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 12)
			})

			Convey("Then an element seek may", func() {
				r.el.Emit(playback.Event{Kind: playback.EventSeeked, Time: 8})
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 8)
			})
		})

		Convey("When a timeupdate reaches the end while playing", func() {
			So(r.c.Play(), ShouldBeNil)
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 95})

			So(r.c.Snapshot().CurrentTime, ShouldEqual, 90)
			So(r.c.Snapshot().Ended, ShouldBeTrue)
			So(r.c.ClockRunning(), ShouldBeFalse)
		})

		Convey("When the element ends", func() {
			So(r.c.Play(), ShouldBeNil)
			r.el.Emit(playback.Event{Kind: playback.EventEnded})

			s := r.c.Snapshot()
			So(s.Playing, ShouldBeFalse)
			So(s.Ended, ShouldBeTrue)
			So(s.ControlsVisible, ShouldBeTrue)
			So(r.c.ClockRunning(), ShouldBeFalse)

			Convey("Then a late play echo does not resume", func() {
				r.el.Emit(playback.Event{Kind: playback.EventPlay})

				s := r.c.Snapshot()
				So(s.Playing, ShouldBeFalse)
				So(s.Ended, ShouldBeTrue)
				So(r.c.ClockRunning(), ShouldBeFalse)
				So(r.c.Phase(), ShouldEqual, playback.PhaseEnded)
			})

			Convey("Then an explicit play restarts from zero", func() {
				So(r.c.Play(), ShouldBeNil)
				r.el.Emit(playback.Event{Kind: playback.EventPlay})

				s := r.c.Snapshot()
				So(s.Playing, ShouldBeTrue)
				So(s.Ended, ShouldBeFalse)
				So(s.CurrentTime, ShouldEqual, 0)
			})
		})

		Convey("When the element pauses itself", func() {
			So(r.c.Play(), ShouldBeNil)
			r.el.Emit(playback.Event{Kind: playback.EventPause})

			So(r.c.Snapshot().Playing, ShouldBeFalse)
			So(r.c.ClockRunning(), ShouldBeFalse)
		})

		Convey("When the volume changes natively", func() {
			r.el.Emit(playback.Event{Kind: playback.EventVolumeChange, Volume: 0.4, Muted: true})
			So(r.c.Snapshot().Volume, ShouldEqual, 0.4)
			So(r.c.Snapshot().Muted, ShouldBeTrue)
		})
	})

	Convey("Given a player with a runtime", t, func() {
		r := withRuntime(2, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("Then element metadata does not override it", func() {
			r.el.Emit(playback.Event{Kind: playback.EventMetadataLoaded, Duration: 5})
			So(r.c.Snapshot().Duration, ShouldEqual, 120)
		})

		Convey("Then timeupdates are ignored while the clock runs", func() {
			So(r.c.Play(), ShouldBeNil)
			r.tick(10)
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 40})
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 10)
		})

		Convey("Then timeupdates apply while paused", func() {
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 40})
			So(r.c.Snapshot().CurrentTime, ShouldEqual, 40)
		})
	})
}

func TestStrictTimeAuthority(t *testing.T) {
	Convey("Given strict time authority", t, func() {
		r := withRuntime(2, playback.Options{StrictTimeAuthority: true})
		Reset(func() { r.c.Unmount() })
		So(r.c.Play(), ShouldBeNil)
		r.tick(2)

		Convey("When the element reports genuine progress", func() {
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 3})

			Convey("Then the clock retires for the rest of the mount", func() {
				So(r.c.ClockRunning(), ShouldBeFalse)
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 3)

				r.tick(5)
				So(r.c.Snapshot().CurrentTime, ShouldEqual, 3)

				So(r.c.Pause(), ShouldBeNil)
				So(r.c.Play(), ShouldBeNil)
				So(r.c.ClockRunning(), ShouldBeFalse)
			})
		})

		Convey("When the element reports zero", func() {
			r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: 0})
			So(r.c.ClockRunning(), ShouldBeTrue)
		})
	})
}

func TestCapabilities(t *testing.T) {
	Convey("Given an element without optional capabilities", t, func() {
		r := withRuntime(1, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("Then fullscreen and picture-in-picture are unsupported", func() {
			So(errors.Is(r.c.ToggleFullscreen(), playback.ErrUnsupported), ShouldBeTrue)
			So(errors.Is(r.c.TogglePictureInPicture(), playback.ErrUnsupported), ShouldBeTrue)
			So(r.c.Modes().Fullscreen, ShouldBeFalse)
		})
	})

	Convey("Given a capable element", t, func() {
		el := playbacktest.NewCapableElement()
		src := playback.Source{URL: "https://cdn.test/d.mp4", Runtime: mo.Some(2.0)}
		r := newRig(el, el.FakeElement, src, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("When fullscreen is toggled", func() {
			So(r.c.ToggleFullscreen(), ShouldBeNil)
			So(r.c.Settle(), ShouldBeTrue)

			Convey("Then the container was asked and the mode is set", func() {
				So(r.el.Count("RequestFullscreen"), ShouldEqual, 1)
				So(r.c.Modes().Fullscreen, ShouldBeTrue)
			})

			Convey("Then the fullscreen timeout applies", func() {
				So(r.c.Play(), ShouldBeNil)
				r.sched.Advance(playback.DefaultTimeouts().Touch)
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
				r.sched.Advance(playback.DefaultTimeouts().Fullscreen - playback.DefaultTimeouts().Touch)
				So(r.c.Snapshot().ControlsVisible, ShouldBeFalse)
			})

			Convey("Then pointer leave does not hide", func() {
				So(r.c.Play(), ShouldBeNil)
				So(r.c.PointerLeave(), ShouldBeNil)
				So(r.c.Snapshot().ControlsVisible, ShouldBeTrue)
			})

			Convey("And toggled again", func() {
				So(r.c.ToggleFullscreen(), ShouldBeNil)
				So(r.c.Settle(), ShouldBeTrue)
				So(r.el.Count("ExitFullscreen"), ShouldEqual, 1)
				So(r.c.Modes().Fullscreen, ShouldBeFalse)
			})
		})

		Convey("When the platform denies picture-in-picture", func() {
			r.el.SetError("RequestPictureInPicture", playback.ErrDenied)
			So(r.c.TogglePictureInPicture(), ShouldBeNil)
			So(r.c.Settle(), ShouldBeTrue)

			Convey("Then the mode is unchanged", func() {
				So(r.c.Modes().PictureInPicture, ShouldBeFalse)
			})
		})

		Convey("When the user leaves fullscreen natively", func() {
			r.el.Emit(playback.Event{Kind: playback.EventFullscreenChange, Active: true})
			So(r.c.Modes().Fullscreen, ShouldBeTrue)
			r.el.Emit(playback.Event{Kind: playback.EventFullscreenChange, Active: false})
			So(r.c.Modes().Fullscreen, ShouldBeFalse)
		})
	})
}

func TestVolumeQualityTheater(t *testing.T) {
	Convey("Given a mounted player", t, func() {
		var theater []bool
		el := playbacktest.NewFakeElement()
		r := newRig(el, el, playback.Source{URL: "u", Runtime: mo.Some(1.0)}, playback.Options{
			Volume:          0.6,
			OnTheaterChange: func(on bool) { theater = append(theater, on) },
		})
		Reset(func() { r.c.Unmount() })

		Convey("When volume drops to zero", func() {
			So(r.c.SetVolume(0), ShouldBeNil)
			So(r.c.Snapshot().Muted, ShouldBeTrue)

			Convey("Then unmuting restores the last audible volume", func() {
				So(r.c.ToggleMute(), ShouldBeNil)
				So(r.c.Snapshot().Muted, ShouldBeFalse)
				So(r.c.Snapshot().Volume, ShouldEqual, 0.6)
			})
		})

		Convey("When volume is out of range", func() {
			So(r.c.SetVolume(3), ShouldBeNil)
			So(r.c.Snapshot().Volume, ShouldEqual, 1)
			So(r.c.Settle(), ShouldBeTrue)
			last, _ := r.el.Last("SetVolume")
			So(last.Arg, ShouldEqual, 1.0)
		})

		Convey("When an offered quality is selected", func() {
			So(r.c.SetQuality("720p"), ShouldBeNil)
			So(r.c.Snapshot().Quality, ShouldEqual, playback.Quality("720p"))
		})

		Convey("When an unknown quality is selected", func() {
			err := r.c.SetQuality("8k")
			So(errors.Is(err, playback.ErrUnknownQuality), ShouldBeTrue)
			So(r.c.Snapshot().Quality, ShouldEqual, playback.QualityAuto)
		})

		Convey("When theater mode toggles twice", func() {
			So(r.c.ToggleTheater(), ShouldBeNil)
			So(r.c.Modes().Theater, ShouldBeTrue)
			So(r.c.ToggleTheater(), ShouldBeNil)
			So(theater, ShouldResemble, []bool{true, false})
		})
	})
}

func TestDelegates(t *testing.T) {
	Convey("Given share and download delegates", t, func() {
		shared := make(chan playback.Source, 1)
		el := playbacktest.NewFakeElement()
		src := playback.Source{URL: "https://cdn.test/e.mp4", Title: "E"}
		r := newRig(el, el, src, playback.Options{
			OnShare: func(s playback.Source) error {
				shared <- s
				return nil
			},
		})
		Reset(func() { r.c.Unmount() })

		Convey("Then share hands over the source", func() {
			So(r.c.Share(), ShouldBeNil)
			So((<-shared).URL, ShouldEqual, src.URL)
		})

		Convey("Then download without a delegate is a no-op", func() {
			So(r.c.Download(), ShouldBeNil)
			So(r.c.Settle(), ShouldBeTrue)
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Given misordered timeouts", t, func() {
		_, err := playback.NewController(playbacktest.NewFakeElement(), playback.Source{}, playback.Options{
			Timeouts: playback.Timeouts{Desktop: 5 * time.Second, Touch: time.Second, Fullscreen: time.Second},
		})
		So(errors.Is(err, playback.ErrInvalidTimeouts), ShouldBeTrue)
	})

	Convey("Given an initial quality not offered", t, func() {
		_, err := playback.NewController(playbacktest.NewFakeElement(), playback.Source{}, playback.Options{
			Qualities: []playback.Quality{"720p"},
			Quality:   "1080p",
		})
		So(errors.Is(err, playback.ErrUnknownQuality), ShouldBeTrue)
	})

	Convey("Given a controller that was never mounted", t, func() {
		c, err := playback.NewController(playbacktest.NewFakeElement(), playback.Source{}, playback.Options{})
		So(err, ShouldBeNil)
		So(errors.Is(c.Play(), playback.ErrNotMounted), ShouldBeTrue)
		So(c.Unmount().Playing, ShouldBeFalse)
	})
}

func TestChangesSignal(t *testing.T) {
	Convey("Given a mounted player", t, func() {
		r := withRuntime(1, playback.Options{})
		Reset(func() { r.c.Unmount() })

		Convey("Then an intent signals a change", func() {
			for len(r.c.Changes()) > 0 {
				<-r.c.Changes()
			}
			So(r.c.Play(), ShouldBeNil)
			So(len(r.c.Changes()), ShouldEqual, 1)
		})
	})
}

// TestTimeInvariants drives random sequences through both time authorities.
func TestTimeInvariants(t *testing.T) {
	Convey("Given random intents, events and ticks", t, func() {
		rng := rand.New(rand.NewSource(42))

		for round := 0; round < 20; round++ {
			duration := float64(30 + rng.Intn(120))
			r := withMetadata(duration)

			prev := r.c.Snapshot().CurrentTime
			for step := 0; step < 200; step++ {
				explicit := false

				switch rng.Intn(8) {
				case 0:
					So(r.c.Play(), ShouldBeNil)
					explicit = r.c.Snapshot().CurrentTime < prev
				case 1:
					So(r.c.Pause(), ShouldBeNil)
				case 2:
					So(r.c.Seek(rng.Float64()*duration*1.2-5), ShouldBeNil)
					explicit = true
				case 3:
					So(r.c.SkipBackward(), ShouldBeNil)
					explicit = true
				case 4:
					r.el.Emit(playback.Event{Kind: playback.EventTimeUpdate, Time: rng.Float64() * duration * 1.1})
				case 5:
					r.el.Emit(playback.Event{Kind: playback.EventPause})
				default:
					r.tick(1 + rng.Intn(5))
				}

				now := r.c.Snapshot().CurrentTime
				So(now, ShouldBeBetweenOrEqual, 0.0, duration)
				if !explicit {
					So(now, ShouldBeGreaterThanOrEqualTo, prev)
				}
				prev = now
			}

			r.c.Unmount()
		}
	})
}
