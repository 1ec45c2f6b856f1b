package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// volumeStep is the volume change per key press.
const volumeStep = 0.05

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Captures `string` notices and ui.ClearNotificationMsg
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case changedMsg:
		cmds = append(cmds, b.waitForChange())
	case noticeMsg:
		cmds = append(cmds, b.notifier.Update(string(msg)), b.waitForNotice())
	case exitedMsg:
		return b, tea.Quit
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		cmds = append(cmds, b.handleIntent(b.controller.SetMobileLayout(b.compact())))
	case tea.FocusMsg:
		cmds = append(cmds, b.handleIntent(b.activity()))
	case tea.BlurMsg:
		cmds = append(cmds, b.handleIntent(b.controller.PointerLeave()))
	case tea.MouseMsg:
		cmds = append(cmds, b.handleMouse(msg))
	case tea.KeyMsg:
		cmds = append(cmds, b.handleKey(msg))
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	}

	return b, tea.Batch(cmds...)
}

// activity reports user input to the controls timer.
func (b *statefulBubble) activity() error {
	if b.options.Touch {
		return b.controller.TouchStart()
	}
	return b.controller.PointerMove()
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, b.keymap.forceQuit) {
		return tea.Quit
	}

	switch b.state {
	case errorState:
		switch {
		case key.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.setState(playerState)
		case key.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
		return nil
	case qualityState:
		return b.handleQualityKey(msg)
	}

	activity := b.handleIntent(b.activity())

	var err error
	switch {
	case key.Matches(msg, b.keymap.quit):
		return tea.Quit
	case key.Matches(msg, b.keymap.playPause):
		err = b.controller.TogglePlay()
	case key.Matches(msg, b.keymap.skipForward):
		err = b.controller.SkipForward()
	case key.Matches(msg, b.keymap.skipBackward):
		err = b.controller.SkipBackward()
	case key.Matches(msg, b.keymap.volumeUp):
		err = b.controller.NudgeVolume(volumeStep)
	case key.Matches(msg, b.keymap.volumeDown):
		err = b.controller.NudgeVolume(-volumeStep)
	case key.Matches(msg, b.keymap.mute):
		err = b.controller.ToggleMute()
	case key.Matches(msg, b.keymap.fullscreen):
		err = b.controller.ToggleFullscreen()
	case key.Matches(msg, b.keymap.theater):
		err = b.controller.ToggleTheater()
	case key.Matches(msg, b.keymap.pictureInPicture):
		err = b.controller.TogglePictureInPicture()
	case key.Matches(msg, b.keymap.share):
		err = b.controller.Share()
	case key.Matches(msg, b.keymap.download):
		err = b.controller.Download()
	case key.Matches(msg, b.keymap.seekPercent):
		tenth := float64(msg.String()[0] - '0')
		err = b.controller.SeekFraction(tenth / 10)
	case key.Matches(msg, b.keymap.quality):
		if err = b.controller.OpenMenu(); err == nil {
			b.setState(qualityState)
			return tea.Batch(activity, b.loadQualities())
		}
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return tea.Batch(activity, b.handleIntent(err))
}

func (b *statefulBubble) handleQualityKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, b.keymap.back):
		b.setState(playerState)
		return b.handleIntent(b.controller.CloseMenu())
	case key.Matches(msg, b.keymap.confirm):
		var err error
		if item, ok := b.qualityC.SelectedItem().(*qualityItem); ok {
			err = b.controller.SetQuality(item.quality)
		}
		b.setState(playerState)
		return tea.Batch(b.handleIntent(err), b.handleIntent(b.controller.CloseMenu()))
	}

	var cmd tea.Cmd
	b.qualityC, cmd = b.qualityC.Update(msg)
	return cmd
}

func (b *statefulBubble) handleMouse(msg tea.MouseMsg) tea.Cmd {
	cmd := b.handleIntent(b.activity())
	if b.state != playerState {
		return cmd
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return cmd
	}

	fraction, ok := b.seekFractionAt(msg.X, msg.Y)
	if !ok {
		return cmd
	}

	return tea.Batch(cmd, b.handleIntent(b.controller.SeekFraction(fraction)))
}

// seekFractionAt maps a terminal cell to a position on the last rendered seek bar.
func (b *statefulBubble) seekFractionAt(x, y int) (float64, bool) {
	if b.seekRow < 0 || y != b.seekRow || b.seekWidth <= 0 {
		return 0, false
	}

	col := x - b.seekX
	if col < 0 || col >= b.seekWidth {
		return 0, false
	}

	if b.seekWidth == 1 {
		return 0, true
	}

	return float64(col) / float64(b.seekWidth-1), true
}
