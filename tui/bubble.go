package tui

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/marquee-cli/marquee/internal/ui"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/style"
	"github.com/marquee-cli/marquee/util"
)

// statefulBubble is the player screen model.
type statefulBubble struct {
	state   state
	keymap  *statefulKeymap
	options *Options

	controller *playback.Controller

	// dimmed mirrors theater mode. It is written by the controller loop.
	dimmed atomic.Bool

	// components
	spinnerC spinner.Model
	qualityC list.Model
	volumeC  progress.Model
	helpC    help.Model

	notices  chan string
	notifier *ui.Model

	lastError error

	width, height int
	// seekRow and seekX locate the seek bar in the last rendered frame.
	seekRow, seekX, seekWidth int
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		keymap:   keymap,
		options:  options,
		notices:  make(chan string, 4),
		notifier: &ui.Model{},
		seekRow:  -1,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.volumeC = progress.New(
		progress.WithSolidFill(string(style.SecondaryColor)),
		progress.WithoutPercentage(),
		progress.WithWidth(10),
	)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)

	bubble.qualityC = list.New(nil, delegate, 0, 0)
	bubble.qualityC.Title = "Quality"
	bubble.qualityC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1)
	bubble.qualityC.KeyMap = keymap.forList()
	bubble.qualityC.SetShowPagination(false)
	bubble.qualityC.SetShowStatusBar(false)
	bubble.qualityC.SetFilteringEnabled(false)
	bubble.qualityC.SetShowHelp(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}

// playbackOptions wires the host callbacks into the controller options.
func (b *statefulBubble) playbackOptions(opts playback.Options) playback.Options {
	opts.OnTheaterChange = func(on bool) { b.dimmed.Store(on) }
	opts.OnShare = b.share
	opts.OnDownload = b.download
	return opts
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

// compact reports whether the terminal is narrow enough for the mobile layout.
func (b *statefulBubble) compact() bool {
	return b.options.CompactWidth > 0 && b.width < b.options.CompactWidth
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.helpC.Width = b.width
	b.qualityC.SetSize(b.width, util.Min(b.height, 12))
}

// notify queues a transient notice from any goroutine. Notices are dropped when the queue is full.
func (b *statefulBubble) notify(text string) {
	select {
	case b.notices <- text:
	default:
	}
}
