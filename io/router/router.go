// SPDX-License-Identifier: Unlicense OR MIT

/*
Package router implements the per-window input dispatch surface. A
Router receives every raw pointer, scroll and key event targeting one
window, decides gesture admission, owns the live gesture sessions and
funnels their callbacks to a window-level Listener.

The Router keeps exactly one spare handler context waiting to capture
the next gesture's initiating event, plus a bounded ordered list of
active contexts. Starting a gesture promotes the spare into the active
list and creates a fresh spare; a gesture ending removes its context.
A context is therefore always in one of two roles, waiting or running,
which lets a drag and an unrelated scroll overlap without cross-talk.
*/
package router

import (
	"log/slog"
	"time"

	"golang.org/x/exp/slices"

	"github.com/yvt/Stella2/f32"
	"github.com/yvt/Stella2/gesture"
	"github.com/yvt/Stella2/io/action"
	"github.com/yvt/Stella2/io/key"
	"github.com/yvt/Stella2/io/pointer"
)

// DefaultMaxHandlers bounds the active handler context list. Reaching
// the bound means an upstream protocol violation left a gesture
// unterminated; the oldest context is then evicted by forced cancel.
const DefaultMaxHandlers = 10

// Listener is the client of a Router: the window-level code receiving
// routed input. All callbacks run on the main thread.
type Listener interface {
	// MouseDrag reports a press that may start a drag gesture and
	// returns the listener for the new drag session. Returning nil
	// rejects the gesture and the press falls through to the
	// platform's default handling.
	MouseDrag(pos f32.Point, button pointer.Buttons) gesture.DragListener
	// ScrollBegin reports the start of a phased scroll gesture and
	// returns the listener for the new scroll session. Returning nil
	// rejects the gesture.
	ScrollBegin(pos f32.Point) gesture.ScrollListener
	// ScrollMotion reports a one-shot wheel step outside any gesture.
	ScrollMotion(pos f32.Point, delta gesture.ScrollDelta)
	// MouseMotion reports pointer motion outside any drag.
	MouseMotion(pos f32.Point)
	// MouseLeave reports the pointer leaving the window.
	MouseLeave()
	// Key reports a key event no action binding consumed and reports
	// whether the client consumed it.
	Key(e key.Event) bool
}

// Router dispatches input events for one window. It must only be used
// from the main thread.
type Router struct {
	// MomentumWait overrides gesture.DefaultMomentumWait when positive.
	MomentumWait time.Duration
	// VelocityWindow overrides the velocity estimation window when
	// positive.
	VelocityWindow time.Duration
	// MaxHandlers overrides DefaultMaxHandlers when positive.
	MaxHandlers int
	// Bindings maps key chords to actions. Nil disables key bindings.
	Bindings *action.Table
	// Actions resolves and performs bound actions. Nil disables key
	// bindings as well.
	Actions *action.Resolver
	// Log receives diagnostics. Nil falls back to slog.Default.
	Log *slog.Logger

	client Listener
	after  gesture.TimerFunc

	spare     *handler
	active    []*handler
	dragging  *handler
	scrolling *handler
}

// handler is one gesture handler context. At most one of its session
// slots is in use; which one depends on the gesture that promoted it.
type handler struct {
	drag   *gesture.Drag
	scroll *gesture.Scroll
}

func (h *handler) cancel() {
	if h.drag != nil {
		h.drag.Cancel()
	}
	if h.scroll != nil {
		h.scroll.Cancel()
	}
}

// New returns a Router delivering to client. after schedules deferred
// work on the main thread and may be nil, in which case scroll
// sessions resolve their momentum wait immediately.
func New(client Listener, after gesture.TimerFunc) *Router {
	return &Router{
		client: client,
		after:  after,
		spare:  &handler{},
	}
}

// Event routes a pointer event.
func (r *Router) Event(e pointer.Event) {
	switch e.Kind {
	case pointer.Press:
		r.press(e)
	case pointer.Release:
		r.release(e)
	case pointer.Move:
		r.move(e)
	case pointer.Leave:
		r.client.MouseLeave()
	case pointer.Scroll:
		r.scroll(e)
	case pointer.Cancel:
		r.CancelAll()
	}
}

// CancelAll force-cancels every outstanding gesture session, active
// and spare. The window calls this on teardown and on a platform
// pointer cancel.
func (r *Router) CancelAll() {
	actives := r.active
	r.active = nil
	r.dragging, r.scrolling = nil, nil
	for _, h := range actives {
		h.cancel()
	}
	r.spare.cancel()
	r.spare = &handler{}
}

// promote moves the spare context into the active list and installs a
// fresh spare, evicting the oldest active context when the bound is
// exceeded.
func (r *Router) promote() *handler {
	h := r.spare
	r.spare = &handler{}
	r.active = append(r.active, h)
	if max := r.maxHandlers(); len(r.active) > max {
		evicted := r.active[0]
		r.active = slices.Delete(r.active, 0, 1)
		if r.dragging == evicted {
			r.dragging = nil
		}
		if r.scrolling == evicted {
			r.scrolling = nil
		}
		r.warn("input: evicting unterminated gesture handler", "active", len(r.active))
		evicted.cancel()
	}
	return h
}

// reap retires h's sessions that reached a terminal state and removes
// h from the active list once none remain.
func (r *Router) reap(h *handler) {
	if h == nil {
		return
	}
	if h.drag != nil && h.drag.State() == gesture.DragEnded {
		h.drag = nil
		if r.dragging == h {
			r.dragging = nil
		}
	}
	if h.scroll != nil {
		switch h.scroll.State() {
		case gesture.ScrollEnded, gesture.ScrollCancelled:
			h.scroll = nil
			if r.scrolling == h {
				r.scrolling = nil
			}
		}
	}
	if h.drag == nil && h.scroll == nil {
		if i := slices.Index(r.active, h); i >= 0 {
			r.active = slices.Delete(r.active, i, i+1)
		}
	}
}

func (r *Router) maxHandlers() int {
	if r.MaxHandlers > 0 {
		return r.MaxHandlers
	}
	return DefaultMaxHandlers
}

func (r *Router) warn(msg string, args ...any) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn(msg, args...)
}
