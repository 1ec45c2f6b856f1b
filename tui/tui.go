// Package tui provides the terminal control surface of the player.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marquee-cli/marquee/history"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/player"
	"github.com/marquee-cli/marquee/playback"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Source   playback.Source
	Element  player.Element
	Playback playback.Options

	// Touch makes pointer input count as touch.
	Touch bool
	// CompactWidth is the width under which the compact layout is used.
	CompactWidth int
	// SaveHistory records the final position when the player closes.
	SaveHistory bool
	// Autoplay starts playback as soon as the player is mounted.
	Autoplay bool
}

// Run mounts a controller on the element, runs the Bubble Tea program until
// the user quits or the element goes away, then tears everything down.
func Run(options *Options) error {
	bubble := newBubble(options)

	c, err := playback.NewController(options.Element, options.Source, bubble.playbackOptions(options.Playback))
	if err != nil {
		return errors.Join(err, options.Element.Close())
	}
	bubble.controller = c

	if err := c.Mount(context.Background()); err != nil {
		return errors.Join(err, options.Element.Close())
	}

	if options.Autoplay {
		_ = c.Play()
	}

	_, runErr := tea.NewProgram(
		bubble,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	).Run()

	last := c.Unmount()
	if err := options.Element.Close(); err != nil {
		log.Warnf("close element: %v", err)
	}

	if options.SaveHistory && last.Duration > 0 {
		if err := history.Save(options.Source, last); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("save history: %w", err))
		}
	}

	return runErr
}
