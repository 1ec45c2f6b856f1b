package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the background listeners that feed controller and element updates into the program.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		b.spinnerC.Tick,
		b.waitForChange(),
		b.waitForNotice(),
		b.waitForExit(),
	)
}
