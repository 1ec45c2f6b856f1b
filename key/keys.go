// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback - these keys configure the player backend and the controller behavior.
const (
	PlayerBackend             = "player.backend"
	PlayerSkipSeconds         = "player.skip_seconds"
	PlayerVolume              = "player.volume"
	PlayerQualities           = "player.qualities"
	PlayerQuality             = "player.quality"
	PlayerStrictTimeAuthority = "player.strict_time_authority"
	PlayerTouch               = "player.touch"
)

// Controls Visibility - hide delays in milliseconds per interaction context.
const (
	PlayerControlsDesktopMs    = "player.controls.desktop_ms"
	PlayerControlsTouchMs      = "player.controls.touch_ms"
	PlayerControlsFullscreenMs = "player.controls.fullscreen_ms"
)

// Terminal User Interface (TUI) - these keys define the player screen layout.
const (
	TUICompactWidth = "tui.compact_width"
)

// History Tracking - these keys configure the persistence of watch progress.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
