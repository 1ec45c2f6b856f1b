package playback

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given a store with a 100 second duration", t, func() {
		s := NewStore(State{Volume: 1})
		s.SetVideoDuration(100)

		Convey("When time is written by each source", func() {
			So(s.SetCurrentTime(40, TimeElement), ShouldEqual, 40)
			So(s.SetCurrentTime(30, TimeElement), ShouldEqual, 40)
			So(s.SetCurrentTime(35, TimeClock), ShouldEqual, 40)
			So(s.SetCurrentTime(10, TimeSeek), ShouldEqual, 10)
		})

		Convey("When time is written outside the range", func() {
			So(s.SetCurrentTime(500, TimeClock), ShouldEqual, 100)
			So(s.SetCurrentTime(-1, TimeSeek), ShouldEqual, 0)
			So(s.SetCurrentTime(math.NaN(), TimeSeek), ShouldEqual, 0)
		})

		Convey("When the duration shrinks", func() {
			s.SetCurrentTime(80, TimeSeek)
			s.SetBufferedTime(90)
			s.SetVideoDuration(50)

			So(s.CurrentTime(), ShouldEqual, 50)
			So(s.BufferedTime(), ShouldEqual, 50)
		})

		Convey("When volume is set", func() {
			s.SetVolume(-2)
			So(s.Volume(), ShouldEqual, 0)
			s.SetVolume(0.3)
			s.SetVolume(math.NaN())
			So(s.Volume(), ShouldEqual, 0.3)
		})

		Convey("When reset", func() {
			s.SetPlaying(true)
			s.SetEnded(true)
			s.SetQuality("720p")
			s.Reset()

			So(s.Snapshot(), ShouldResemble, State{Volume: 1, Quality: QualityAuto})
		})
	})

	Convey("Given bad durations", t, func() {
		s := NewStore(State{})
		for _, d := range []float64{math.NaN(), math.Inf(1), -5} {
			s.SetVideoDuration(d)
			So(s.Duration(), ShouldEqual, 0)
		}
	})
}

func TestPhase(t *testing.T) {
	Convey("Phases", t, func() {
		So(phaseOf(State{}, false), ShouldEqual, PhaseIdle)
		So(phaseOf(State{Duration: 10}, false), ShouldEqual, PhaseReady)
		So(phaseOf(State{Duration: 10, Playing: true}, true), ShouldEqual, PhasePlaying)
		So(phaseOf(State{Duration: 10}, true), ShouldEqual, PhasePaused)
		So(phaseOf(State{Duration: 10, Ended: true}, true), ShouldEqual, PhaseEnded)
		So(PhaseEnded.String(), ShouldEqual, "ended")
	})

	Convey("Progress", t, func() {
		s := State{Duration: 200, CurrentTime: 50, BufferedTime: 100}
		So(s.Progress(), ShouldEqual, 0.25)
		So(s.BufferedProgress(), ShouldEqual, 0.5)
		So(s.Remaining(), ShouldEqual, 150)
		So(State{}.Progress(), ShouldEqual, 0)
	})
}

func TestTimeouts(t *testing.T) {
	Convey("Timeouts", t, func() {
		So(DefaultTimeouts().Validate(), ShouldBeNil)
		So(errors.Is(Timeouts{}.Validate(), ErrInvalidTimeouts), ShouldBeTrue)

		same := Timeouts{Desktop: 1, Touch: 1, Fullscreen: 1}
		So(same.Validate(), ShouldBeNil)
	})
}

func TestMatchQuality(t *testing.T) {
	Convey("MatchQuality", t, func() {
		q, err := MatchQuality("720P", DefaultQualities)
		So(err, ShouldBeNil)
		So(q, ShouldEqual, Quality("720p"))

		q, err = MatchQuality("108", DefaultQualities)
		So(err, ShouldBeNil)
		So(q, ShouldEqual, Quality("1080p"))

		_, err = MatchQuality("4k", DefaultQualities)
		So(errors.Is(err, ErrUnknownQuality), ShouldBeTrue)

		_, err = MatchQuality("  ", DefaultQualities)
		So(errors.Is(err, ErrUnknownQuality), ShouldBeTrue)
	})
}
