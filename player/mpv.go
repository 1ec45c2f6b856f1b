package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/marquee-cli/marquee/constant"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond

	// pipScale is the window scale used to float the video in a corner.
	pipScale = 0.4
)

// MPV drives an mpv process over its JSON-IPC socket.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // serializes IPC round trips
}

var (
	_ Element                    = (*MPV)(nil)
	_ playback.Container         = (*MPV)(nil)
	_ playback.PictureInPicturer = (*MPV)(nil)
)

// NewMPV creates an mpv element. The process starts on Load.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)

	return &MPV{
		binary: "mpv",
		exited: exited,
	}
}

// Load starts mpv paused on src, or replaces the file of a running instance.
func (m *MPV) Load(ctx context.Context, src playback.Source) error {
	target, err := sanitizeMediaTarget(src.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.running() {
		if _, err := m.sendCommand(ctx, "loadfile", target, "replace"); err != nil {
			return fmt.Errorf("loadfile: %w", err)
		}
		return m.Set(ctx, "force-media-title", sanitizeTitle(src.Title))
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Socket(), fmt.Sprintf("%s-%x.sock", constant.Marquee, randomBytes))
	}

	m.cmd = exec.Command(m.binary, mpvArgs(m.socketPath, target, src)...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Reap the process to prevent zombies
	exited := make(chan struct{})
	m.exited = exited
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd)

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// mpvArgs builds the command line. User mpv.conf is respected: no --vo, --profile or --hwdec.
func mpvArgs(socketPath, target string, src playback.Source) []string {
	title := sanitizeTitle(src.Title)

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}

	return append(args, "--", target)
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	ticker := time.NewTicker(socketWaitDelay)
	defer ticker.Stop()

	var dialer net.Dialer
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-ticker.C:
		}

		conn, err := dialer.DialContext(ctx, "unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}

	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Listen mirrors observed mpv properties as element events.
func (m *MPV) Listen(handler func(playback.Event)) (func(), error) {
	if !m.running() {
		return nil, errors.New("mpv is not running")
	}

	l, err := listen(m.socketPath, handler)
	if err != nil {
		return nil, err
	}

	return l.stop, nil
}

func (m *MPV) Play(ctx context.Context) error {
	return m.Set(ctx, "pause", false)
}

func (m *MPV) Pause(ctx context.Context) error {
	return m.Set(ctx, "pause", true)
}

// SetCurrentTime seeks to an absolute position in seconds.
func (m *MPV) SetCurrentTime(ctx context.Context, seconds float64) error {
	_, err := m.sendCommand(ctx, "seek", seconds, "absolute")
	return err
}

// SetVolume maps [0, 1] onto mpv's percentage volume.
func (m *MPV) SetVolume(ctx context.Context, volume float64) error {
	return m.Set(ctx, "volume", volume*100)
}

func (m *MPV) SetMuted(ctx context.Context, muted bool) error {
	return m.Set(ctx, "mute", muted)
}

func (m *MPV) RequestFullscreen(ctx context.Context) error {
	return m.Set(ctx, "fullscreen", true)
}

func (m *MPV) ExitFullscreen(ctx context.Context) error {
	return m.Set(ctx, "fullscreen", false)
}

// RequestPictureInPicture shrinks the window and keeps it above others.
func (m *MPV) RequestPictureInPicture(ctx context.Context) error {
	if err := m.Set(ctx, "window-scale", pipScale); err != nil {
		return err
	}
	return m.Set(ctx, "ontop", true)
}

func (m *MPV) ExitPictureInPicture(ctx context.Context) error {
	if err := m.Set(ctx, "ontop", false); err != nil {
		return err
	}
	return m.Set(ctx, "window-scale", 1.0)
}

// Set a property
func (m *MPV) Set(ctx context.Context, property string, value any) error {
	_, err := m.sendCommand(ctx, "set_property", property, value)
	return err
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) running() bool {
	select {
	case <-m.exited:
		return false
	default:
		return m.socketPath != ""
	}
}

// Close shuts down the mpv process and removes its socket.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	if m.running() {
		// Try graceful quit via IPC
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, _ = m.sendCommand(ctx, "quit")
		cancel()

		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens the title onto one line for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
