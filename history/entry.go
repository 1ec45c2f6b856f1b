package history

import (
	"fmt"
	"time"

	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/util"
)

// Entry is the saved progress of one title, keyed by its URL.
type Entry struct {
	URL               string    `json:"url" jsonschema:"description=Media source URL"`
	Title             string    `json:"title,omitempty"`
	Poster            string    `json:"poster,omitempty"`
	Position          float64   `json:"position" jsonschema:"description=Last position in seconds"`
	Duration          float64   `json:"duration" jsonschema:"description=Duration in seconds, 0 when unknown"`
	WatchedPercentage float64   `json:"watched_percentage" jsonschema:"minimum=0,maximum=100"`
	Finished          bool      `json:"finished"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (e *Entry) String() string {
	name := e.Title
	if name == "" {
		name = e.URL
	}

	return fmt.Sprintf(
		"%s : %s / %s (%.0f%%)",
		name,
		util.FormatTimestamp(e.Position),
		util.FormatTimestamp(e.Duration),
		e.WatchedPercentage,
	)
}

func newEntry(src playback.Source, state playback.State) *Entry {
	return &Entry{
		URL:               src.URL,
		Title:             src.Title,
		Poster:            src.Poster,
		Position:          state.CurrentTime,
		Duration:          state.Duration,
		WatchedPercentage: util.Clamp(state.Progress()*100, 0, 100),
		Finished:          state.Ended,
		UpdatedAt:         time.Now(),
	}
}
