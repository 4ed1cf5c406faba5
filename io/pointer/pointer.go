// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer implements the raw pointer events delivered by a
platform backend to a window: button presses and releases per physical
button ordinal, pointer motion, and wheel or trackpad scrolling in both
its legacy (discrete, unphased) and phased forms.
*/
package pointer

import (
	"strings"
	"time"

	"github.com/yvt/Stella2/f32"
	"github.com/yvt/Stella2/io/key"
)

// Event is a pointer event.
type Event struct {
	Kind Kind
	// Time is when the event was received. The
	// timestamp is relative to an undefined base.
	Time time.Duration
	// Position is the event coordinates in the window coordinate
	// system.
	Position f32.Point
	// Button is the button that changed state for Press and Release
	// events. It is a single bit of Buttons, or zero when the physical
	// button ordinal was outside the supported range.
	Button Buttons
	// Scroll is the scroll amount, if any.
	Scroll f32.Point
	// Phase is the active scroll phase reported by the platform.
	// It is PhaseNone for legacy wheel events.
	Phase Phase
	// Momentum is the momentum scroll phase. The platform drives
	// Phase through Began, Changed and Ended with Momentum none,
	// then Momentum through the same progression with Phase none.
	Momentum Phase
	// Precise reports whether Scroll is a fine-grained device delta
	// rather than a coarse line-based amount.
	Precise bool
	// Modifiers is the set of active modifiers when
	// the event was fired.
	Modifiers key.Modifiers
}

// Kind of an Event.
type Kind uint

// Buttons is a set of mouse buttons.
type Buttons uint8

// Phase is the progression of one axis of a phased scroll stream.
type Phase uint8

const (
	// A Cancel event is generated when the current gesture is
	// interrupted by the system or by the window going away.
	Cancel Kind = 1 << iota
	// Press of a pointer button.
	Press
	// Release of a pointer button.
	Release
	// Move of a pointer.
	Move
	// Pointer leaves the window.
	Leave
	// Scroll of a pointer.
	Scroll
)

const (
	// ButtonPrimary is the primary button, usually the left button for a
	// right-handed user.
	ButtonPrimary Buttons = 1 << iota
	// ButtonSecondary is the secondary button, usually the right button for a
	// right-handed user.
	ButtonSecondary
	// ButtonTertiary is the tertiary button, usually the middle button.
	ButtonTertiary
)

const (
	// PhaseNone is the resting phase. A scroll event with both
	// phases none is a legacy wheel tick.
	PhaseNone Phase = iota
	// PhaseBegan starts an active or momentum scroll sequence.
	PhaseBegan
	// PhaseChanged carries a scroll delta within a sequence.
	PhaseChanged
	// PhaseEnded terminates a sequence normally.
	PhaseEnded
	// PhaseCancelled terminates a sequence abnormally.
	PhaseCancelled
)

// MaxButtonOrdinal bounds the physical button ordinals representable
// in Buttons. Ordinals at or above it are dropped at the boundary.
const MaxButtonOrdinal = 8

// ButtonForOrdinal returns the button bit for the physical button
// ordinal n, following the platform convention 0 = primary,
// 1 = secondary, 2 = tertiary. It returns 0, false for ordinals
// outside the supported range.
func ButtonForOrdinal(n int) (Buttons, bool) {
	if n < 0 || n >= MaxButtonOrdinal {
		return 0, false
	}
	return Buttons(1) << uint(n), true
}

func (t Kind) String() string {
	if t == Cancel {
		return "Cancel"
	}
	var buf strings.Builder
	for tt := Kind(1); tt > 0; tt <<= 1 {
		if t&tt > 0 {
			if buf.Len() > 0 {
				buf.WriteByte('|')
			}
			buf.WriteString((t & tt).string())
		}
	}
	return buf.String()
}

func (t Kind) string() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Cancel:
		return "Cancel"
	case Move:
		return "Move"
	case Leave:
		return "Leave"
	case Scroll:
		return "Scroll"
	default:
		panic("unknown Kind")
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "None"
	case PhaseBegan:
		return "Began"
	case PhaseChanged:
		return "Changed"
	case PhaseEnded:
		return "Ended"
	case PhaseCancelled:
		return "Cancelled"
	default:
		panic("unknown Phase")
	}
}

// Contain reports whether the set b contains
// all of the buttons.
func (b Buttons) Contain(buttons Buttons) bool {
	return b&buttons == buttons
}

func (b Buttons) String() string {
	var strs []string
	if b.Contain(ButtonPrimary) {
		strs = append(strs, "ButtonPrimary")
	}
	if b.Contain(ButtonSecondary) {
		strs = append(strs, "ButtonSecondary")
	}
	if b.Contain(ButtonTertiary) {
		strs = append(strs, "ButtonTertiary")
	}
	if rest := b &^ (ButtonPrimary | ButtonSecondary | ButtonTertiary); rest != 0 {
		for n := 3; n < MaxButtonOrdinal; n++ {
			if bit := Buttons(1) << uint(n); rest.Contain(bit) {
				strs = append(strs, "Button"+string(rune('0'+n)))
			}
		}
	}
	return strings.Join(strs, "|")
}

func (Event) ImplementsEvent() {}
