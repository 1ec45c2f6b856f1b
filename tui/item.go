package tui

import (
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/playback"
)

// qualityItem is a quality label in the quality menu.
type qualityItem struct {
	quality  playback.Quality
	selected bool
}

func (q *qualityItem) Title() string {
	if q.selected {
		return string(q.quality) + " " + icon.Get(icon.Mark)
	}
	return string(q.quality)
}

func (q *qualityItem) Description() string { return "" }

func (q *qualityItem) FilterValue() string { return string(q.quality) }
