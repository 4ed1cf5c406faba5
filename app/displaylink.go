// SPDX-License-Identifier: Unlicense OR MIT

package app

import "time"

// displayLink is a display-synchronized tick source. start, stop,
// setDisplay and release are main-thread only; the tick callback
// fires on the link's own timing thread and must hand work back to
// the main thread.
type displayLink interface {
	start() error
	stop() error
	setDisplay(d DisplayID) error
	release()
}

// tickerLink is a portable displayLink driven by a steady timer. It
// has no notion of displays, so retargeting is a no-op. It backs
// platforms without a native refresh source and the tests.
type tickerLink struct {
	interval time.Duration
	tick     func()
	stopc    chan struct{}
}

func newTickerLink(interval time.Duration, tick func()) *tickerLink {
	return &tickerLink{
		interval: interval,
		tick:     tick,
	}
}

func (l *tickerLink) start() error {
	if l.stopc != nil {
		return nil
	}
	l.stopc = make(chan struct{})
	stopc := l.stopc
	go func() {
		t := time.NewTicker(l.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				l.tick()
			case <-stopc:
				return
			}
		}
	}()
	return nil
}

func (l *tickerLink) stop() error {
	if l.stopc != nil {
		close(l.stopc)
		l.stopc = nil
	}
	return nil
}

func (l *tickerLink) setDisplay(DisplayID) error {
	return nil
}

func (l *tickerLink) release() {
	l.stop()
}
