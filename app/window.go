// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"log/slog"

	"github.com/yvt/Stella2/internal/pool"
	"github.com/yvt/Stella2/io/action"
	"github.com/yvt/Stella2/io/event"
	"github.com/yvt/Stella2/io/key"
	"github.com/yvt/Stella2/io/pointer"
	"github.com/yvt/Stella2/io/router"
)

// Listener is the client of a Window: it receives routed input,
// action queries and frame callbacks, always on the main thread.
type Listener interface {
	router.Listener
	action.Handler

	// UpdateReady reports the display tick answering an earlier
	// RequestUpdateReady.
	UpdateReady()
	// ScaleChanged reports a change of the backing scale factor.
	ScaleChanged(scale float32)
}

// Window binds one platform window's input routing, action resolution
// and frame pacing. All methods are main-thread only.
type Window struct {
	loop    *Loop
	client  Listener
	router  *router.Router
	actions *action.Resolver
	pacer   *framePacer
	handle  pool.Handle
	scale   float32
	closed  bool
}

// NewWindow registers a new window on loop, delivering to client and
// tuned by cfg.
func NewWindow(loop *Loop, client Listener, cfg Config) *Window {
	w := &Window{
		loop:    loop,
		client:  client,
		actions: action.NewResolver(client),
		scale:   1,
	}
	w.router = router.New(client, loop.After)
	w.router.MomentumWait = cfg.MomentumWait.Duration
	w.router.VelocityWindow = cfg.VelocityWindow.Duration
	w.router.MaxHandlers = cfg.MaxGestureHandlers
	w.router.Actions = w.actions
	w.pacer = newFramePacer(cfg.FrameInterval.Duration, loop.Post, client.UpdateReady, slog.Default())
	w.handle = loop.windows.Insert(w)
	return w
}

// Handle identifies the window to Loop.Dispatch. It expires when the
// window closes, so late events from detached platform sources are
// dropped instead of reviving state.
func (w *Window) Handle() pool.Handle {
	return w.handle
}

// BindActions installs the chord table consulted before key events
// reach the client.
func (w *Window) BindActions(t *action.Table) {
	w.router.Bindings = t
}

// Event feeds one platform input event to the window.
func (w *Window) Event(e event.Event) {
	if w.closed {
		return
	}
	switch e := e.(type) {
	case pointer.Event:
		w.router.Event(e)
	case key.Event:
		w.Key(e)
	}
}

// Key feeds a key event and reports whether it was consumed, either
// by a bound action or by the client.
func (w *Window) Key(e key.Event) bool {
	if w.closed {
		return false
	}
	return w.router.Key(e)
}

// SetVisible tracks window visibility. Hiding stops the frame pacing
// source; showing restarts it when a callback is still wanted.
func (w *Window) SetVisible(visible bool) {
	if w.closed {
		return
	}
	w.pacer.setOnscreen(visible)
}

// SetDisplay reports the window having moved to another display.
func (w *Window) SetDisplay(d DisplayID) {
	if w.closed {
		return
	}
	w.pacer.setDisplay(d)
}

// SetScale reports the backing scale factor, forwarding changes to
// the client.
func (w *Window) SetScale(scale float32) {
	if w.closed || scale == w.scale {
		return
	}
	w.scale = scale
	w.client.ScaleChanged(scale)
}

// Scale reports the current backing scale factor.
func (w *Window) Scale() float32 {
	return w.scale
}

// RequestUpdateReady asks for exactly one UpdateReady callback on the
// next display tick.
func (w *Window) RequestUpdateReady() {
	if w.closed {
		return
	}
	w.pacer.requestUpdate()
}

// FramePacing is a snapshot of the pacing state, for diagnostics.
func (w *Window) FramePacing() FramePacingState {
	return w.pacer.state()
}

// ActionStatus resolves the status of id over the window's handler
// chain.
func (w *Window) ActionStatus(id action.ID) action.Status {
	return w.actions.Status(id)
}

// PerformAction performs id when its resolved status is enabled and
// reports whether it ran.
func (w *Window) PerformAction(id action.ID) bool {
	return w.actions.Perform(id)
}

// Close cancels outstanding gesture sessions, stops frame pacing and
// expires the window's handle. Further calls are no-ops.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.router.CancelAll()
	w.pacer.release()
	w.loop.windows.Free(w.handle)
}
