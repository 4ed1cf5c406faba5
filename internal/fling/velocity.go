// SPDX-License-Identifier: Unlicense OR MIT

// Package fling estimates the velocity of scroll gestures from their
// recent event history, for use as the momentum hand-off velocity.
package fling

import (
	"math"
	"time"

	"github.com/yvt/Stella2/f32"
)

// HistorySize is the capacity of a Tracker's sample history. It must
// be a power of two.
const HistorySize = 4

// DefaultWindow is the largest inter-arrival gap between two samples
// that still counts them as part of the same burst. It is an
// empirically chosen platform constant, not a derived value.
const DefaultWindow = 50 * time.Millisecond

type sample struct {
	t     time.Duration
	delta f32.Point
}

// Tracker estimates gesture velocity from a bounded circular history
// of timestamped deltas. Sample timestamps are expected to be
// monotonic; ties are broken by insertion order.
//
// The zero value is an empty Tracker using DefaultWindow.
type Tracker struct {
	// Window overrides DefaultWindow when positive.
	Window time.Duration

	idx  int
	n    int
	hist [HistorySize]sample
}

// Reset discards the history.
func (t *Tracker) Reset() {
	t.idx = 0
	t.n = 0
}

// Update returns the estimated velocity, in units per second, for the
// event at time ts carrying delta, and then records the event in the
// history, overwriting the oldest sample.
//
// The estimate walks the history backward from the current event,
// accumulating samples while each is within Window of the previously
// examined one. The window therefore drifts with the samples rather
// than being anchored at ts. The walk stops at the first larger gap,
// treating older samples as an unrelated burst, or when the window
// reaches HistorySize records. With fewer than two records in the
// window the velocity is zero. Non-finite quotients, from a near-zero
// elapsed time, are clamped to zero.
func (t *Tracker) Update(ts time.Duration, delta f32.Point) f32.Point {
	v := t.estimate(ts)
	t.hist[t.idx] = sample{t: ts, delta: delta}
	t.idx = (t.idx + 1) & (HistorySize - 1)
	if t.n < HistorySize {
		t.n++
	}
	return v
}

func (t *Tracker) estimate(now time.Duration) f32.Point {
	window := t.Window
	if window <= 0 {
		window = DefaultWindow
	}
	// k counts the records in the window, the current event included.
	k := 1
	last := now
	oldest := now
	var sum f32.Point
	for i := 0; i < t.n && k < HistorySize; i++ {
		s := t.hist[(t.idx-1-i+2*HistorySize)&(HistorySize-1)]
		if last-s.t > window {
			break
		}
		k++
		sum = sum.Add(s.delta)
		oldest = s.t
		last = s.t
	}
	if k < 2 {
		return f32.Point{}
	}
	elapsed := float32((now - oldest).Seconds())
	return f32.Point{
		X: finiteOrZero(sum.X / elapsed),
		Y: finiteOrZero(sum.Y / elapsed),
	}
}

func finiteOrZero(v float32) float32 {
	if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}
