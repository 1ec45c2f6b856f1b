package playbacktest

import (
	"context"
	"fmt"
	"sync"

	"github.com/marquee-cli/marquee/playback"
)

// Call is one recorded element invocation.
type Call struct {
	Method string
	Arg    any
}

func (c Call) String() string {
	if c.Arg == nil {
		return c.Method
	}
	return fmt.Sprintf("%s(%v)", c.Method, c.Arg)
}

// FakeElement records calls and lets tests emit native events.
type FakeElement struct {
	mu       sync.Mutex
	calls    []Call
	handlers map[int]func(playback.Event)
	nextID   int
	source   playback.Source

	// Errors maps a method name to the error it returns.
	Errors map[string]error
	// Block makes Play wait until its context is done, like a play request
	// held by an autoplay policy.
	Block bool
}

var _ playback.Element = (*FakeElement)(nil)

// NewFakeElement returns an element without fullscreen or picture-in-picture support.
func NewFakeElement() *FakeElement {
	return &FakeElement{
		handlers: make(map[int]func(playback.Event)),
		Errors:   make(map[string]error),
	}
}

func (f *FakeElement) record(method string, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Method: method, Arg: arg})
	return f.Errors[method]
}

// SetError makes method fail with err.
func (f *FakeElement) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[method] = err
}

// Calls returns the recorded invocations in order.
func (f *FakeElement) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many times method was invoked.
func (f *FakeElement) Count(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Last returns the most recent call of method.
func (f *FakeElement) Last(method string) (Call, bool) {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Source returns the source passed to Load.
func (f *FakeElement) Source() playback.Source {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

// Listening reports whether a listener is attached.
func (f *FakeElement) Listening() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers) > 0
}

// Emit delivers ev to every attached listener and returns once they ran.
func (f *FakeElement) Emit(ev playback.Event) {
	f.mu.Lock()
	handlers := make([]func(playback.Event), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (f *FakeElement) Load(_ context.Context, src playback.Source) error {
	f.mu.Lock()
	f.source = src
	f.mu.Unlock()
	return f.record("Load", src.URL)
}

func (f *FakeElement) Listen(handler func(playback.Event)) (func(), error) {
	if err := f.record("Listen", nil); err != nil {
		return nil, err
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}, nil
}

func (f *FakeElement) Play(ctx context.Context) error {
	if err := f.record("Play", nil); err != nil {
		return err
	}

	f.mu.Lock()
	block := f.Block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *FakeElement) Pause(context.Context) error {
	return f.record("Pause", nil)
}

func (f *FakeElement) SetCurrentTime(_ context.Context, seconds float64) error {
	return f.record("SetCurrentTime", seconds)
}

func (f *FakeElement) SetVolume(_ context.Context, volume float64) error {
	return f.record("SetVolume", volume)
}

func (f *FakeElement) SetMuted(_ context.Context, muted bool) error {
	return f.record("SetMuted", muted)
}

// CapableElement adds fullscreen and picture-in-picture support to FakeElement.
type CapableElement struct {
	*FakeElement
}

var (
	_ playback.Container         = (*CapableElement)(nil)
	_ playback.PictureInPicturer = (*CapableElement)(nil)
)

// NewCapableElement returns a fake element with every optional capability.
func NewCapableElement() *CapableElement {
	return &CapableElement{FakeElement: NewFakeElement()}
}

func (e *CapableElement) RequestFullscreen(context.Context) error {
	return e.record("RequestFullscreen", nil)
}

func (e *CapableElement) ExitFullscreen(context.Context) error {
	return e.record("ExitFullscreen", nil)
}

func (e *CapableElement) RequestPictureInPicture(context.Context) error {
	return e.record("RequestPictureInPicture", nil)
}

func (e *CapableElement) ExitPictureInPicture(context.Context) error {
	return e.record("ExitPictureInPicture", nil)
}
