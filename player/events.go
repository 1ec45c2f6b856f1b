package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/playback"
)

// observed lists the mpv properties mirrored as element events.
var observed = []string{
	"duration",
	"pause",
	"time-pos",
	"seeking",
	"eof-reached",
	"paused-for-cache",
	"demuxer-cache-state",
	"volume",
	"mute",
	"fullscreen",
	"ontop",
}

// timeUpdateStep is the minimal position change reported as a timeupdate.
const timeUpdateStep = 0.25

// eventListener owns a persistent IPC connection that receives property
// changes. Observers are registered on that same connection: mpv delivers
// notifications only to the client that asked for them.
type eventListener struct {
	conn    net.Conn
	handler func(playback.Event)
	tr      translator

	once sync.Once
	done chan struct{}
}

func listen(socketPath string, handler func(playback.Event)) (*eventListener, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	l := &eventListener{
		conn:    conn,
		handler: handler,
		done:    make(chan struct{}),
	}
	go l.readLoop()

	log.Infof("mpv event listener started on %s", socketPath)
	return l, nil
}

// stop closes the connection and waits for the read loop to exit.
func (l *eventListener) stop() {
	l.once.Do(func() {
		_ = l.conn.Close()
	})
	<-l.done
}

func (l *eventListener) readLoop() {
	defer close(l.done)

	scanner := bufio.NewScanner(l.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		for _, ev := range l.tr.message(msg) {
			l.handler(ev)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("event listener read error: %v", err)
	}
}

// translator turns mpv messages into element events. It is not safe for concurrent use.
type translator struct {
	seeking  bool
	hasTime  bool
	lastTime float64
	volume   float64
	muted    bool
}

func (t *translator) message(msg ipcMessage) []playback.Event {
	switch msg.Event {
	case "property-change":
		return t.property(msg.Name, msg.Data)
	case "seek":
		t.seeking = true
	case "end-file":
		if msg.Reason == "eof" {
			return []playback.Event{{Kind: playback.EventEnded}}
		}
	}

	return nil
}

func (t *translator) property(name string, data any) []playback.Event {
	switch name {
	case "duration":
		if d, ok := data.(float64); ok && d > 0 {
			return []playback.Event{{Kind: playback.EventMetadataLoaded, Duration: d}}
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			if paused {
				return []playback.Event{{Kind: playback.EventPause}}
			}
			return []playback.Event{{Kind: playback.EventPlay}}
		}
	case "seeking":
		if seeking, ok := data.(bool); ok && seeking {
			t.seeking = true
		}
	case "time-pos":
		return t.timePos(data)
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			return []playback.Event{{Kind: playback.EventEnded}}
		}
	case "paused-for-cache":
		if waiting, ok := data.(bool); ok {
			if waiting {
				return []playback.Event{{Kind: playback.EventWaiting}}
			}
			return []playback.Event{{Kind: playback.EventCanPlay}}
		}
	case "demuxer-cache-state":
		if ranges := seekableRanges(data); len(ranges) > 0 {
			return []playback.Event{{Kind: playback.EventProgress, Buffered: ranges}}
		}
	case "volume":
		if v, ok := data.(float64); ok {
			t.volume = v / 100
			return []playback.Event{t.volumeChange()}
		}
	case "mute":
		if muted, ok := data.(bool); ok {
			t.muted = muted
			return []playback.Event{t.volumeChange()}
		}
	case "fullscreen":
		if on, ok := data.(bool); ok {
			return []playback.Event{{Kind: playback.EventFullscreenChange, Active: on}}
		}
	case "ontop":
		if on, ok := data.(bool); ok {
			return []playback.Event{{Kind: playback.EventPictureInPictureChange, Active: on}}
		}
	}

	return nil
}

func (t *translator) timePos(data any) []playback.Event {
	pos, ok := data.(float64)
	if !ok {
		return nil
	}

	if t.seeking {
		t.seeking = false
		t.hasTime = true
		t.lastTime = pos
		return []playback.Event{{Kind: playback.EventSeeked, Time: pos}}
	}

	if t.hasTime && math.Abs(pos-t.lastTime) < timeUpdateStep {
		return nil
	}

	t.hasTime = true
	t.lastTime = pos
	return []playback.Event{{Kind: playback.EventTimeUpdate, Time: pos}}
}

func (t *translator) volumeChange() playback.Event {
	return playback.Event{Kind: playback.EventVolumeChange, Volume: t.volume, Muted: t.muted}
}

// seekableRanges extracts buffered spans from demuxer-cache-state.
func seekableRanges(data any) []playback.TimeRange {
	state, ok := data.(map[string]any)
	if !ok {
		return nil
	}

	raw, ok := state["seekable-ranges"].([]any)
	if !ok {
		return nil
	}

	var ranges []playback.TimeRange
	for _, r := range raw {
		span, ok := r.(map[string]any)
		if !ok {
			continue
		}
		start, okStart := span["start"].(float64)
		end, okEnd := span["end"].(float64)
		if okStart && okEnd && end >= start {
			ranges = append(ranges, playback.TimeRange{Start: start, End: end})
		}
	}

	return ranges
}
