// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// DisplayID identifies a physical display to frame pacing.
type DisplayID uint32

// FramePacingState is a snapshot of a window's frame pacing state.
type FramePacingState struct {
	// HasSource reports an existing display-synchronized tick source.
	HasSource bool
	// WantsCallback reports an update-ready callback still owed to
	// the client.
	WantsCallback bool
	// Onscreen reports window visibility.
	Onscreen bool
	// Running reports the tick source being started.
	Running bool
}

// framePacer drives one window's update-ready callbacks from a
// display-synchronized tick source. Apart from the busy flag, which
// the timing thread touches, all state is main-thread only.
type framePacer struct {
	interval time.Duration
	post     func(func())
	update   func()
	newLink  func(d DisplayID, interval time.Duration, tick func()) (displayLink, error)
	log      *slog.Logger

	link     displayLink
	display  DisplayID
	linked   DisplayID
	wants    bool
	onscreen bool
	running  bool

	// busy bounds in-flight tick handlers to one. It is set on the
	// timing thread and cleared on the main thread.
	busy atomic.Bool
}

func newFramePacer(interval time.Duration, post func(func()), update func(), log *slog.Logger) *framePacer {
	if interval <= 0 {
		interval = time.Second / 60
	}
	if log == nil {
		log = slog.Default()
	}
	return &framePacer{
		interval: interval,
		post:     post,
		update:   update,
		newLink:  newDisplayLink,
		log:      log,
	}
}

func (p *framePacer) state() FramePacingState {
	return FramePacingState{
		HasSource:     p.link != nil,
		WantsCallback: p.wants,
		Onscreen:      p.onscreen,
		Running:       p.running,
	}
}

// requestUpdate arranges for exactly one update callback on the next
// refresh tick of the window's current display.
func (p *framePacer) requestUpdate() {
	p.wants = true
	p.ensureSource()
	p.startIfNeeded()
}

// setDisplay retargets the tick source after the window moved to
// another display. A pending callback request is preserved.
func (p *framePacer) setDisplay(d DisplayID) {
	p.display = d
	if p.link != nil {
		p.ensureSource()
	}
	p.startIfNeeded()
}

// setOnscreen tracks window visibility. The tick source only runs
// while the window is onscreen.
func (p *framePacer) setOnscreen(on bool) {
	if on == p.onscreen {
		return
	}
	p.onscreen = on
	if !on {
		p.stopSource()
		return
	}
	if p.wants {
		p.ensureSource()
	}
	p.startIfNeeded()
}

// release stops and frees the tick source. The pacer stays safe to
// tick into afterwards; callbacks simply stop.
func (p *framePacer) release() {
	p.stopSource()
	p.wants = false
	if p.link != nil {
		p.link.release()
		p.link = nil
	}
}

// tick runs on the timing thread. Ticks are dropped, not queued,
// while the previous handler is still in flight.
func (p *framePacer) tick() {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	p.post(p.frame)
}

// frame runs on the main thread, exactly once per accepted tick.
func (p *framePacer) frame() {
	p.busy.Store(false)
	if p.wants {
		p.wants = false
		p.update()
		return
	}
	// The client lost interest; keeping the source running would
	// burn a wakeup per refresh for nothing.
	p.stopSource()
}

// ensureSource creates the tick source for the current display, or
// retargets an existing one. Failures are logged and pacing degrades
// to doing nothing.
func (p *framePacer) ensureSource() {
	if p.link == nil {
		link, err := p.newLink(p.display, p.interval, p.tick)
		if err != nil {
			p.log.Error("app: creating display link failed", "display", p.display, "error", err)
			return
		}
		p.link = link
		p.linked = p.display
		return
	}
	if p.linked != p.display {
		if err := p.link.setDisplay(p.display); err != nil {
			// Keep ticking on the stale display rather than stopping.
			p.log.Error("app: retargeting display link failed", "display", p.display, "error", err)
			return
		}
		p.linked = p.display
	}
}

func (p *framePacer) startIfNeeded() {
	if !p.wants || !p.onscreen || p.running || p.link == nil {
		return
	}
	if err := p.link.start(); err != nil {
		p.log.Error("app: starting display link failed", "error", err)
		return
	}
	p.running = true
}

func (p *framePacer) stopSource() {
	if !p.running {
		return
	}
	if err := p.link.stop(); err != nil {
		p.log.Error("app: stopping display link failed", "error", err)
	}
	p.running = false
}
