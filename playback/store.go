package playback

import (
	"math"
	"sync"

	"github.com/marquee-cli/marquee/util"
)

// Store owns the canonical playback state of one player.
// Reads are safe from any goroutine; the owning controller serializes writes.
type Store struct {
	mu      sync.RWMutex
	state   State
	initial State
}

// NewStore creates a store whose Reset returns to initial.
func NewStore(initial State) *Store {
	initial.Volume = util.Clamp(initial.Volume, 0, 1)
	initial.Duration = math.Max(initial.Duration, 0)
	initial.CurrentTime = util.Clamp(initial.CurrentTime, 0, initial.Duration)
	if initial.Quality == "" {
		initial.Quality = QualityAuto
	}

	return &Store{state: initial, initial: initial}
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func field[T any](s *Store, f func(State) T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(s.state)
}

func (s *Store) Playing() bool {
	return field(s, func(st State) bool { return st.Playing })
}

func (s *Store) Muted() bool {
	return field(s, func(st State) bool { return st.Muted })
}

func (s *Store) Volume() float64 {
	return field(s, func(st State) float64 { return st.Volume })
}

func (s *Store) CurrentTime() float64 {
	return field(s, func(st State) float64 { return st.CurrentTime })
}

func (s *Store) Duration() float64 {
	return field(s, func(st State) float64 { return st.Duration })
}

func (s *Store) Quality() Quality {
	return field(s, func(st State) Quality { return st.Quality })
}

func (s *Store) ControlsVisible() bool {
	return field(s, func(st State) bool { return st.ControlsVisible })
}

func (s *Store) Buffering() bool {
	return field(s, func(st State) bool { return st.Buffering })
}

func (s *Store) BufferedTime() float64 {
	return field(s, func(st State) float64 { return st.BufferedTime })
}

func (s *Store) Ended() bool {
	return field(s, func(st State) bool { return st.Ended })
}

func (s *Store) write(f func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.state)
}

func (s *Store) SetPlaying(playing bool) {
	s.write(func(st *State) { st.Playing = playing })
}

func (s *Store) SetMuted(muted bool) {
	s.write(func(st *State) { st.Muted = muted })
}

// SetVolume clamps volume to [0, 1]. NaN is ignored.
func (s *Store) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		return
	}
	s.write(func(st *State) { st.Volume = util.Clamp(volume, 0, 1) })
}

// SetVideoDuration sets the duration in seconds and pulls current and buffered time inside it.
func (s *Store) SetVideoDuration(seconds float64) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	s.write(func(st *State) {
		st.Duration = seconds
		st.CurrentTime = util.Clamp(st.CurrentTime, 0, seconds)
		st.BufferedTime = util.Clamp(st.BufferedTime, 0, seconds)
	})
}

// SetCurrentTime is the single writer of current time. The value is clamped to
// [0, duration] and a non-seek write that would move time backward is dropped.
// It returns the current time after the write.
func (s *Store) SetCurrentTime(seconds float64, source TimeSource) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if math.IsNaN(seconds) {
		return s.state.CurrentTime
	}

	next := util.Clamp(seconds, 0, s.state.Duration)
	if source != TimeSeek && next < s.state.CurrentTime {
		return s.state.CurrentTime
	}

	s.state.CurrentTime = next
	return next
}

func (s *Store) SetQuality(quality Quality) {
	s.write(func(st *State) { st.Quality = quality })
}

func (s *Store) SetShowControls(visible bool) {
	s.write(func(st *State) { st.ControlsVisible = visible })
}

func (s *Store) SetBuffering(buffering bool) {
	s.write(func(st *State) { st.Buffering = buffering })
}

// SetBufferedTime records the buffered high-water mark, bounded by a known duration.
func (s *Store) SetBufferedTime(seconds float64) {
	if math.IsNaN(seconds) {
		return
	}
	s.write(func(st *State) {
		seconds = math.Max(seconds, 0)
		if st.Duration > 0 {
			seconds = math.Min(seconds, st.Duration)
		}
		st.BufferedTime = seconds
	})
}

func (s *Store) SetEnded(ended bool) {
	s.write(func(st *State) { st.Ended = ended })
}

// Reset returns every field to its initial value.
func (s *Store) Reset() {
	s.write(func(st *State) { *st = s.initial })
}
