package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marquee-cli/marquee/icon"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/open"
	"github.com/marquee-cli/marquee/playback"
	"github.com/samber/lo"
)

type (
	// changedMsg tells the program the controller published a new state.
	changedMsg struct{}
	// exitedMsg tells the program the element went away.
	exitedMsg struct{}
	// noticeMsg carries a transient notice from a delegate.
	noticeMsg string
)

func (b *statefulBubble) waitForChange() tea.Cmd {
	changes := b.controller.Changes()
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (b *statefulBubble) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-b.notices)
	}
}

func (b *statefulBubble) waitForExit() tea.Cmd {
	gone := b.options.Element.Wait()
	return func() tea.Msg {
		<-gone
		return exitedMsg{}
	}
}

// share copies the source link to the clipboard.
func (b *statefulBubble) share(src playback.Source) error {
	if err := clipboard.WriteAll(src.URL); err != nil {
		b.notify(icon.Get(icon.Fail) + " Clipboard unavailable")
		return fmt.Errorf("share: %w", err)
	}

	b.notify(icon.Get(icon.Share) + " Link copied")
	return nil
}

// download hands the source link to the system handler.
func (b *statefulBubble) download(src playback.Source) error {
	if err := open.Start(src.URL); err != nil {
		b.notify(icon.Get(icon.Fail) + " Could not open link")
		return fmt.Errorf("download: %w", err)
	}

	b.notify(icon.Get(icon.Download) + " Opened in browser")
	return nil
}

// handleIntent turns an intent error into a notice. A torn down controller quits the program.
func (b *statefulBubble) handleIntent(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playback.ErrNotMounted):
		return tea.Quit
	case errors.Is(err, playback.ErrUnsupported):
		return notice(icon.Get(icon.Fail) + " Not supported by this player")
	case errors.Is(err, playback.ErrDenied):
		return notice(icon.Get(icon.Fail) + " Denied by the player")
	default:
		log.Error(err)
		return notice(icon.Get(icon.Fail) + " " + err.Error())
	}
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return text }
}

// loadQualities fills the quality menu, marking the current one.
func (b *statefulBubble) loadQualities() tea.Cmd {
	current := b.controller.Snapshot().Quality
	qualities := b.controller.Qualities()

	cmd := b.qualityC.SetItems(lo.Map(qualities, func(q playback.Quality, _ int) list.Item {
		return &qualityItem{quality: q, selected: q == current}
	}))

	if _, i, ok := lo.FindIndexOf(qualities, func(q playback.Quality) bool { return q == current }); ok {
		b.qualityC.Select(i)
	}

	return cmd
}
