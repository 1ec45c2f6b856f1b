package config

import (
	"errors"
	"testing"
	"time"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/playback"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.controls.touch_ms")
			So(result, ShouldEqual, "player_controls_touch_ms")
		})

		Convey("Env names carry the application prefix", func() {
			f := Default[key.PlayerBackend]
			So(f.Env(), ShouldEqual, "MARQUEE_PLAYER_BACKEND")
		})
	})
}

func TestPlayerOptions(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Then the player options match the stock defaults", func() {
			opts, err := PlayerOptions()
			So(err, ShouldBeNil)
			So(opts.Timeouts, ShouldResemble, playback.DefaultTimeouts())
			So(opts.SkipInterval, ShouldEqual, 10)
			So(opts.Volume, ShouldEqual, 1)
			So(opts.Quality, ShouldEqual, playback.QualityAuto)
			So(opts.Qualities, ShouldResemble, playback.DefaultQualities)
		})

		Convey("When the touch delay is shorter than the desktop one", func() {
			viper.Set(key.PlayerControlsTouchMs, 1000)
			Reset(func() { viper.Set(key.PlayerControlsTouchMs, 4000) })

			_, err := Timeouts()
			So(errors.Is(err, playback.ErrInvalidTimeouts), ShouldBeTrue)
		})

		Convey("When the fullscreen delay is raised", func() {
			viper.Set(key.PlayerControlsFullscreenMs, 8000)
			Reset(func() { viper.Set(key.PlayerControlsFullscreenMs, 5000) })

			timeouts, err := Timeouts()
			So(err, ShouldBeNil)
			So(timeouts.Fullscreen, ShouldEqual, 8*time.Second)
		})

		Convey("When the volume is set to zero", func() {
			viper.Set(key.PlayerVolume, 0)
			Reset(func() { viper.Set(key.PlayerVolume, 100) })

			_, err := PlayerOptions()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.PlayerVolume)
		})

		Convey("When the volume is above the scale", func() {
			viper.Set(key.PlayerVolume, 150)
			Reset(func() { viper.Set(key.PlayerVolume, 100) })

			_, err := PlayerOptions()
			So(err, ShouldNotBeNil)
		})

		Convey("When the volume is lowered", func() {
			viper.Set(key.PlayerVolume, 40)
			Reset(func() { viper.Set(key.PlayerVolume, 100) })

			opts, err := PlayerOptions()
			So(err, ShouldBeNil)
			So(opts.Volume, ShouldEqual, 0.4)
		})

		Convey("When the configured quality is abbreviated", func() {
			viper.Set(key.PlayerQuality, "720")
			Reset(func() { viper.Set(key.PlayerQuality, "auto") })

			opts, err := PlayerOptions()
			So(err, ShouldBeNil)
			So(opts.Quality, ShouldEqual, playback.Quality("720p"))
		})
	})
}
