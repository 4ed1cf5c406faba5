// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"time"

	"github.com/yvt/Stella2/gesture"
	"github.com/yvt/Stella2/io/pointer"
)

func (r *Router) press(e pointer.Event) {
	if r.dragging != nil {
		r.dragging.drag.Event(e)
		return
	}
	if e.Button == 0 {
		// Unmapped button ordinal; cannot start a session.
		return
	}
	l := r.client.MouseDrag(e.Position, e.Button)
	if l == nil {
		return
	}
	h := r.promote()
	h.drag = gesture.NewDrag(l, e.Button)
	r.dragging = h
}

func (r *Router) release(e pointer.Event) {
	h := r.dragging
	if h == nil {
		return
	}
	h.drag.Event(e)
	r.reap(h)
}

func (r *Router) move(e pointer.Event) {
	if h := r.dragging; h != nil {
		h.drag.Event(e)
		return
	}
	r.client.MouseMotion(e.Position)
}

func (r *Router) scroll(e pointer.Event) {
	if e.Phase == pointer.PhaseNone && e.Momentum == pointer.PhaseNone {
		// A legacy wheel step proves a pending momentum phase is not
		// coming; resolve the wait before delivering.
		if h := r.scrolling; h != nil && h.scroll.Interrupt() {
			r.reap(h)
		}
		r.client.ScrollMotion(e.Position, gesture.ScrollDelta{
			Delta:   e.Scroll,
			Precise: e.Precise,
		})
		return
	}
	if h := r.scrolling; h != nil {
		h.scroll.Event(e)
		r.reap(h)
		return
	}
	if e.Phase != pointer.PhaseBegan {
		// Phased events without a session are an upstream protocol
		// violation; drop them rather than guess at a gesture.
		return
	}
	l := r.client.ScrollBegin(e.Position)
	if l == nil {
		return
	}
	h := r.promote()
	h.scroll = gesture.NewScroll(l, r.scrollTimer(h))
	h.scroll.Wait = r.MomentumWait
	h.scroll.Window = r.VelocityWindow
	r.scrolling = h
}

// scrollTimer wraps the router's deferred scheduler so an expiring
// momentum wait also retires the session's context.
func (r *Router) scrollTimer(h *handler) gesture.TimerFunc {
	if r.after == nil {
		return nil
	}
	return func(d time.Duration, f func()) func() {
		return r.after(d, func() {
			f()
			r.reap(h)
		})
	}
}
