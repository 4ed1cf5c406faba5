// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements the session state machines that turn raw
pointer events into the begin, update, end-or-cancel callback protocol
delivered to gesture listeners.

A session is created by the dispatcher when a gesture starts and is
retired by exactly one terminal transition. Drag sessions track the set
of pressed buttons and release their listener when the set empties.
Scroll sessions interpret the scroll and momentum phase pair, estimate
velocity from recent deltas and absorb the gap between the end of the
active phase and the start of inertial momentum.
*/
package gesture

import (
	"time"

	"github.com/yvt/Stella2/f32"
	"github.com/yvt/Stella2/internal/fling"
	"github.com/yvt/Stella2/io/pointer"
)

// DefaultMomentumWait is how long an ended scroll gesture waits for the
// momentum phase before it is considered complete.
const DefaultMomentumWait = 50 * time.Millisecond

// DragListener receives the callbacks of one mouse drag gesture.
// Exactly one of Release or Cancel is invoked over the listener's
// lifetime, and it is the last call the listener receives.
type DragListener interface {
	// Motion reports pointer motion while the drag is active.
	Motion(pos f32.Point)
	// Down reports an additional button pressed during the drag.
	Down(pos f32.Point, button pointer.Buttons)
	// Up reports a button released during the drag.
	Up(pos f32.Point, button pointer.Buttons)
	// Release retires the listener after the last button was released.
	Release()
	// Cancel aborts the gesture and retires the listener.
	Cancel()
}

// ScrollListener receives the callbacks of one scroll gesture. Exactly
// one of End or Cancel is invoked over the listener's lifetime,
// followed by exactly one Release as the final call.
type ScrollListener interface {
	// Update reports one scroll step together with the estimated
	// velocity in delta units per second.
	Update(d ScrollDelta, velocity f32.Point)
	// MomentumBegin reports the transition from the active phase to
	// inertial momentum.
	MomentumBegin()
	// End reports the gesture completing normally.
	End()
	// Cancel reports the gesture being aborted.
	Cancel()
	// Release retires the listener.
	Release()
}

// ScrollDelta is a single scroll step.
type ScrollDelta struct {
	Delta f32.Point
	// Precise reports a fine-grained device delta rather than a
	// coarse line-based amount.
	Precise bool
}

// TimerFunc schedules f to run on the session's owning thread after d.
// Calling the returned function cancels delivery if f has not run yet.
type TimerFunc func(d time.Duration, f func()) (cancel func())

// DragState is the lifecycle state of a Drag.
type DragState uint8

const (
	// DragIdle is the zero state before a session exists.
	DragIdle DragState = iota
	// DragActive is a running session with at least one pressed button.
	DragActive
	// DragEnded is the terminal state after Release or Cancel.
	DragEnded
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "DragIdle"
	case DragActive:
		return "DragActive"
	case DragEnded:
		return "DragEnded"
	}
	panic("unknown DragState")
}

// ScrollState is the lifecycle state of a Scroll.
type ScrollState uint8

const (
	// ScrollIdle is the zero state before a session exists.
	ScrollIdle ScrollState = iota
	// ScrollActive is a running session in the active phase.
	ScrollActive
	// ScrollMomentum is a running session in the inertial phase.
	ScrollMomentum
	// ScrollEnded is the terminal state after a normal completion.
	ScrollEnded
	// ScrollCancelled is the terminal state after an abort.
	ScrollCancelled
)

func (s ScrollState) String() string {
	switch s {
	case ScrollIdle:
		return "ScrollIdle"
	case ScrollActive:
		return "ScrollActive"
	case ScrollMomentum:
		return "ScrollMomentum"
	case ScrollEnded:
		return "ScrollEnded"
	case ScrollCancelled:
		return "ScrollCancelled"
	}
	panic("unknown ScrollState")
}

// Drag is the state machine for one mouse drag session. It is created
// with the button that started the gesture already pressed and must
// only be used from its owning thread.
type Drag struct {
	listener DragListener
	buttons  pointer.Buttons
	state    DragState
}

// NewDrag starts a drag session over listener with button pressed.
// The caller reports the initial press itself; the session only
// forwards subsequent events.
func NewDrag(listener DragListener, button pointer.Buttons) *Drag {
	return &Drag{
		listener: listener,
		buttons:  button,
		state:    DragActive,
	}
}

// State reports the session lifecycle state.
func (d *Drag) State() DragState {
	return d.state
}

// Buttons reports the set of currently pressed buttons.
func (d *Drag) Buttons() pointer.Buttons {
	return d.buttons
}

// Event feeds a pointer event to the session. Events after the
// terminal transition and presses of unmapped buttons are ignored.
func (d *Drag) Event(e pointer.Event) {
	if d.state != DragActive {
		return
	}
	switch e.Kind {
	case pointer.Move:
		d.listener.Motion(e.Position)
	case pointer.Press:
		if e.Button == 0 {
			break
		}
		d.buttons |= e.Button
		d.listener.Down(e.Position, e.Button)
	case pointer.Release:
		if e.Button == 0 {
			break
		}
		d.buttons &^= e.Button
		d.listener.Up(e.Position, e.Button)
		if d.buttons == 0 {
			d.state = DragEnded
			d.listener.Release()
		}
	case pointer.Cancel:
		d.Cancel()
	}
}

// Cancel aborts the session. It is a no-op after the terminal
// transition, so racing a natural completion is harmless.
func (d *Drag) Cancel() {
	if d.state != DragActive {
		return
	}
	d.state = DragEnded
	d.listener.Cancel()
}

// Scroll is the state machine for one scroll gesture session. It must
// only be used from its owning thread.
type Scroll struct {
	// Wait overrides DefaultMomentumWait when positive.
	Wait time.Duration
	// Window is the velocity estimation window. Zero selects the
	// estimator default.
	Window time.Duration

	listener    ScrollListener
	after       TimerFunc
	tracker     fling.Tracker
	state       ScrollState
	cancelTimer func()
	gen         uint
}

// NewScroll starts a scroll session over listener. after schedules the
// momentum-wait timeout; the begin callback is the caller's concern.
func NewScroll(listener ScrollListener, after TimerFunc) *Scroll {
	return &Scroll{
		listener: listener,
		after:    after,
		state:    ScrollActive,
	}
}

// State reports the session lifecycle state.
func (s *Scroll) State() ScrollState {
	return s.state
}

// Event feeds a phased scroll event to the session. Events after the
// terminal transition are ignored.
func (s *Scroll) Event(e pointer.Event) {
	if s.state != ScrollActive && s.state != ScrollMomentum {
		return
	}
	switch {
	case e.Phase == pointer.PhaseCancelled || e.Momentum == pointer.PhaseCancelled:
		s.abort()
	case e.Momentum == pointer.PhaseEnded:
		s.end()
	case e.Phase == pointer.PhaseEnded:
		s.phaseEnded()
	case e.Momentum == pointer.PhaseBegan:
		s.momentumBegan()
	case e.Phase == pointer.PhaseChanged || e.Momentum == pointer.PhaseChanged:
		s.tracker.Window = s.Window
		v := s.tracker.Update(e.Time, e.Scroll)
		s.listener.Update(ScrollDelta{Delta: e.Scroll, Precise: e.Precise}, v)
	}
}

// Cancel aborts the session. It is a no-op after the terminal
// transition.
func (s *Scroll) Cancel() {
	if s.state != ScrollActive && s.state != ScrollMomentum {
		return
	}
	s.abort()
}

// Interrupt resolves a pending momentum wait immediately and reports
// whether the session ended. The dispatcher calls this when a
// legacy wheel event proves the momentum phase is not coming.
func (s *Scroll) Interrupt() bool {
	if s.state != ScrollActive || s.cancelTimer == nil {
		return false
	}
	s.end()
	return true
}

func (s *Scroll) phaseEnded() {
	if s.state != ScrollActive {
		return
	}
	if s.after == nil {
		s.end()
		return
	}
	wait := s.Wait
	if wait <= 0 {
		wait = DefaultMomentumWait
	}
	gen := s.gen
	s.cancelTimer = s.after(wait, func() {
		s.timeout(gen)
	})
}

// timeout runs when the momentum wait expires. The generation guard
// drops callbacks that were already in flight when the wait was
// resolved another way.
func (s *Scroll) timeout(gen uint) {
	if gen != s.gen || s.state != ScrollActive {
		return
	}
	s.cancelTimer = nil
	s.end()
}

func (s *Scroll) momentumBegan() {
	if s.state != ScrollActive {
		return
	}
	s.stopTimer()
	s.state = ScrollMomentum
	s.listener.MomentumBegin()
}

func (s *Scroll) end() {
	s.stopTimer()
	s.state = ScrollEnded
	s.listener.End()
	s.listener.Release()
}

func (s *Scroll) abort() {
	s.stopTimer()
	s.state = ScrollCancelled
	s.listener.Cancel()
	s.listener.Release()
}

func (s *Scroll) stopTimer() {
	s.gen++
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}
