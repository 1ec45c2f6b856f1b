package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/util"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	playedStyle   = lipgloss.NewStyle().Foreground(style.AccentColor)
	bufferedStyle = lipgloss.NewStyle().Foreground(style.Subtext)
	trackStyle    = lipgloss.NewStyle().Foreground(style.Surface)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case playerState:
		output = b.viewPlayer()
	case qualityState:
		output = listExtraPaddingStyle.Render(b.qualityC.View())
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) title() string {
	if t := b.controller.Source().Title; t != "" {
		return t
	}
	return "Now Playing"
}

func (b *statefulBubble) viewPlayer() string {
	b.seekRow = -1

	if b.controller.Phase() == playback.PhaseIdle {
		return b.renderLines(true, []string{
			style.Title(b.title()),
			"",
			b.spinnerC.View() + " Loading",
		})
	}

	s := b.controller.Snapshot()
	modes := b.controller.Modes()

	// Hidden controls leave only the title so the picture is unobstructed.
	if !s.ControlsVisible {
		return paddingStyle.Render(style.Faint(b.truncate(b.title())))
	}

	var lines []string
	if b.compact() || modes.MobileLayout {
		lines = b.compactLines(s)
	} else {
		lines = b.desktopLines(s, modes)
	}

	for i, line := range lines {
		if line == seekBarMarker {
			b.seekRow = paddingStyle.GetPaddingTop() + i
			b.seekX = paddingStyle.GetPaddingLeft()
			b.seekWidth = b.width
			lines[i] = seekBar(b.width, s.Progress(), s.BufferedProgress())
		}
	}

	return b.renderLines(true, lines)
}

// seekBarMarker is replaced by the seek bar once its row is known.
const seekBarMarker = "\x00seek"

func (b *statefulBubble) desktopLines(s playback.State, modes playback.Modes) []string {
	surround := func(text string) string {
		if b.dimmed.Load() {
			return style.Faint(text)
		}
		return text
	}

	header := style.Title(b.truncate(b.title()))
	if tags := modeTags(modes, b.dimmed.Load()); tags != "" {
		header += " " + tags
	}

	volume := icon.Get(icon.Volume)
	if s.Muted {
		volume = icon.Get(icon.Muted)
	}

	lines := []string{
		surround(header),
		"",
		b.status(s),
		seekBarMarker,
		"",
		surround(fmt.Sprintf(
			"%s %s %3d%%   %s %s",
			volume,
			b.volumeC.ViewAs(s.Volume),
			int(math.Round(s.Volume*100)),
			icon.Get(icon.Quality),
			s.Quality,
		)),
	}

	// Fullscreen drops the header and keeps the transport row.
	if modes.Fullscreen {
		lines = lines[2:]
	}

	return lines
}

func (b *statefulBubble) compactLines(s playback.State) []string {
	volume := fmt.Sprintf("%d%%", int(math.Round(s.Volume*100)))
	if s.Muted {
		volume = icon.Get(icon.Muted)
	}

	return []string{
		b.truncate(style.Bold(b.title())),
		b.status(s) + " " + style.Faint(volume),
		seekBarMarker,
	}
}

func (b *statefulBubble) status(s playback.State) string {
	var state string
	switch {
	case s.Ended:
		state = icon.Get(icon.Ended)
	case s.Playing:
		state = icon.Get(icon.Play)
	default:
		state = icon.Get(icon.Pause)
	}

	line := fmt.Sprintf("%s %s / %s", state, util.FormatTimestamp(s.CurrentTime), util.FormatTimestamp(s.Duration))
	if s.Buffering {
		line += " " + b.spinnerC.View()
	}

	return line
}

func (b *statefulBubble) truncate(s string) string {
	if b.width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(b.width), "…")
}

func modeTags(modes playback.Modes, theater bool) string {
	var tags []string
	if modes.Fullscreen {
		tags = append(tags, icon.Get(icon.Fullscreen))
	}
	if theater {
		tags = append(tags, icon.Get(icon.Theater))
	}
	if modes.PictureInPicture {
		tags = append(tags, icon.Get(icon.PictureInPicture))
	}
	return strings.Join(tags, " ")
}

// seekCells splits a bar of width cells into played and buffered cells.
func seekCells(width int, progress, buffered float64) (played, loaded int) {
	if width <= 0 {
		return 0, 0
	}

	played = util.Clamp(int(math.Round(progress*float64(width))), 0, width)
	loaded = util.Clamp(int(math.Round(buffered*float64(width))), played, width)
	return played, loaded
}

func seekBar(width int, progress, buffered float64) string {
	played, loaded := seekCells(width, progress, buffered)
	if width <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(playedStyle.Render(strings.Repeat("━", played)))
	sb.WriteString(bufferedStyle.Render(strings.Repeat("━", loaded-played)))
	sb.WriteString(trackStyle.Render(strings.Repeat("─", width-loaded)))
	return sb.String()
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
