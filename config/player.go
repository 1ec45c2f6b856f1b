package config

import (
	"fmt"
	"time"

	"github.com/marquee-cli/marquee/key"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

// Timeouts builds the controls hide delays from configuration.
func Timeouts() (playback.Timeouts, error) {
	t := playback.Timeouts{
		Desktop:    millis(key.PlayerControlsDesktopMs),
		Touch:      millis(key.PlayerControlsTouchMs),
		Fullscreen: millis(key.PlayerControlsFullscreenMs),
	}

	if err := t.Validate(); err != nil {
		return playback.Timeouts{}, fmt.Errorf("player.controls: %w", err)
	}

	return t, nil
}

// Qualities returns the configured quality labels, falling back to the stock menu.
func Qualities() []playback.Quality {
	labels := lo.Compact(viper.GetStringSlice(key.PlayerQualities))
	if len(labels) == 0 {
		return playback.DefaultQualities
	}

	return lo.Map(lo.Uniq(labels), func(label string, _ int) playback.Quality {
		return playback.Quality(label)
	})
}

// PlayerOptions assembles controller options from configuration.
// Host callbacks and the scheduler are left for the caller.
func PlayerOptions() (playback.Options, error) {
	timeouts, err := Timeouts()
	if err != nil {
		return playback.Options{}, err
	}

	// Options treat zero as unset.
	volume := viper.GetInt(key.PlayerVolume)
	if volume < 1 || volume > 100 {
		return playback.Options{}, fmt.Errorf("%s: %d is outside 1 to 100", key.PlayerVolume, volume)
	}

	qualities := Qualities()
	quality, err := playback.MatchQuality(viper.GetString(key.PlayerQuality), qualities)
	if err != nil {
		return playback.Options{}, fmt.Errorf("%s: %w", key.PlayerQuality, err)
	}

	return playback.Options{
		Timeouts:            timeouts,
		SkipInterval:        float64(util.Max(viper.GetInt(key.PlayerSkipSeconds), 1)),
		Volume:              float64(volume) / 100,
		Qualities:           qualities,
		Quality:             quality,
		StrictTimeAuthority: viper.GetBool(key.PlayerStrictTimeAuthority),
	}, nil
}
