package playback

// TimeSource tags the author of a current time write.
type TimeSource int

const (
	// TimeElement is a timeupdate reported by the media element.
	TimeElement TimeSource = iota
	// TimeClock is a tick of the fallback progress clock.
	TimeClock
	// TimeSeek is an explicit seek or restart. Only seeks may move time backward.
	TimeSeek
)

func (s TimeSource) String() string {
	switch s {
	case TimeElement:
		return "element"
	case TimeClock:
		return "clock"
	case TimeSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// Quality is a display-only stream quality label.
type Quality string

// QualityAuto is the default label.
const QualityAuto Quality = "auto"

// DefaultQualities is the menu offered when none is configured.
var DefaultQualities = []Quality{QualityAuto, "1080p", "720p", "480p", "360p"}

// State is a snapshot of the canonical player state.
type State struct {
	Playing         bool    `json:"playing"`
	Muted           bool    `json:"muted"`
	Volume          float64 `json:"volume"`
	CurrentTime     float64 `json:"current_time"`
	Duration        float64 `json:"duration"`
	Quality         Quality `json:"quality"`
	ControlsVisible bool    `json:"controls_visible"`
	Buffering       bool    `json:"buffering"`
	BufferedTime    float64 `json:"buffered_time"`
	Ended           bool    `json:"ended"`
}

// Progress returns the played fraction in [0, 1].
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.CurrentTime / s.Duration
}

// BufferedProgress returns the buffered fraction in [0, 1].
func (s State) BufferedProgress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.BufferedTime / s.Duration
}

// Remaining returns the seconds left until the end.
func (s State) Remaining() float64 {
	if s.Duration <= s.CurrentTime {
		return 0
	}
	return s.Duration - s.CurrentTime
}

// Phase is the playback phase derived from state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhasePlaying
	PhasePaused
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// phaseOf derives the phase. started reports whether playback was ever requested.
func phaseOf(s State, started bool) Phase {
	switch {
	case s.Ended:
		return PhaseEnded
	case s.Duration <= 0:
		return PhaseIdle
	case s.Playing:
		return PhasePlaying
	case started:
		return PhasePaused
	default:
		return PhaseReady
	}
}

// Modes holds presentation flags local to one player.
type Modes struct {
	Fullscreen       bool
	Theater          bool
	PictureInPicture bool
	MobileLayout     bool
}
