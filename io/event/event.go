// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the marker interface for events.
package event

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}
