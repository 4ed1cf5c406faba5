// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeLink struct {
	display   DisplayID
	starts    int
	stops     int
	retargets int
	failStart bool
	released  bool
}

func (l *fakeLink) start() error {
	if l.failStart {
		return errors.New("start failed")
	}
	l.starts++
	return nil
}

func (l *fakeLink) stop() error {
	l.stops++
	return nil
}

func (l *fakeLink) setDisplay(d DisplayID) error {
	l.display = d
	l.retargets++
	return nil
}

func (l *fakeLink) release() { l.released = true }

// pacerHarness runs a framePacer against a fakeLink with a manually
// drained task queue standing in for the main thread.
type pacerHarness struct {
	p       *framePacer
	link    *fakeLink
	tasks   []func()
	updates int
	linkErr error
}

func newPacerHarness() *pacerHarness {
	h := &pacerHarness{}
	h.p = newFramePacer(time.Second/60,
		func(f func()) { h.tasks = append(h.tasks, f) },
		func() { h.updates++ },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.p.newLink = func(d DisplayID, _ time.Duration, _ func()) (displayLink, error) {
		if h.linkErr != nil {
			return nil, h.linkErr
		}
		h.link = &fakeLink{display: d}
		return h.link, nil
	}
	return h
}

func (h *pacerHarness) drain() {
	for len(h.tasks) > 0 {
		f := h.tasks[0]
		h.tasks = h.tasks[1:]
		f()
	}
}

// checkAtRest verifies the pacer never rests in a state that owes the
// client a callback without a running source.
func (h *pacerHarness) checkAtRest(t *testing.T) {
	t.Helper()
	st := h.p.state()
	if st.WantsCallback && st.Onscreen && !st.Running {
		t.Errorf("pacer at rest owing a callback: %+v", st)
	}
}

func TestPacerSingleCallbackPerRequest(t *testing.T) {
	h := newPacerHarness()
	h.p.setOnscreen(true)
	h.p.requestUpdate()
	st := h.p.state()
	if !st.HasSource || !st.Running || !st.WantsCallback {
		t.Fatalf("got state %+v after request, expected source running", st)
	}

	h.p.tick()
	h.drain()
	if h.updates != 1 {
		t.Errorf("got %d updates, expected 1", h.updates)
	}

	// Without a new request the next tick stops the source instead
	// of invoking the client.
	h.p.tick()
	h.drain()
	if h.updates != 1 {
		t.Errorf("got %d updates after idle tick, expected 1", h.updates)
	}
	st = h.p.state()
	if st.Running {
		t.Error("source still running with no callback wanted")
	}
	if !st.HasSource {
		t.Error("idle stop released the source")
	}
	h.checkAtRest(t)
}

func TestPacerDropsBackToBackTicks(t *testing.T) {
	h := newPacerHarness()
	h.p.setOnscreen(true)
	h.p.requestUpdate()

	// Second tick arrives while the first handler is still queued.
	h.p.tick()
	h.p.tick()
	if got := len(h.tasks); got != 1 {
		t.Fatalf("got %d queued handlers, expected 1", got)
	}
	h.drain()
	if h.updates != 1 {
		t.Errorf("got %d updates, expected 1", h.updates)
	}

	// Once the handler ran, ticks are accepted again.
	h.p.requestUpdate()
	h.p.tick()
	h.drain()
	if h.updates != 2 {
		t.Errorf("got %d updates, expected 2", h.updates)
	}
}

func TestPacerOffscreen(t *testing.T) {
	h := newPacerHarness()
	h.p.requestUpdate()
	st := h.p.state()
	if st.Running {
		t.Error("source started while offscreen")
	}
	if !st.WantsCallback {
		t.Error("request lost while offscreen")
	}

	h.p.setOnscreen(true)
	if !h.p.state().Running {
		t.Error("source not started on visibility gain")
	}

	h.p.setOnscreen(false)
	st = h.p.state()
	if st.Running {
		t.Error("source running while offscreen")
	}
	if !st.WantsCallback {
		t.Error("visibility loss dropped the pending request")
	}
	if h.link.stops != 1 {
		t.Errorf("got %d stops, expected 1", h.link.stops)
	}

	h.p.setOnscreen(true)
	h.p.tick()
	h.drain()
	if h.updates != 1 {
		t.Errorf("got %d updates, expected 1", h.updates)
	}
	h.checkAtRest(t)
}

func TestPacerRetargetKeepsRequest(t *testing.T) {
	h := newPacerHarness()
	h.p.setOnscreen(true)
	h.p.setDisplay(1)
	h.p.requestUpdate()
	if h.link.display != 1 {
		t.Fatalf("got link display %d, expected 1", h.link.display)
	}

	h.p.setDisplay(2)
	if h.link.display != 2 || h.link.retargets != 1 {
		t.Errorf("got display %d with %d retargets, expected 2 with 1",
			h.link.display, h.link.retargets)
	}
	if !h.p.state().WantsCallback {
		t.Error("retargeting dropped the pending request")
	}
	if h.link.released {
		t.Error("retargeting released the source instead of moving it")
	}

	h.p.tick()
	h.drain()
	if h.updates != 1 {
		t.Errorf("got %d updates, expected 1", h.updates)
	}
}

func TestPacerSourceFailure(t *testing.T) {
	h := newPacerHarness()
	h.linkErr = errors.New("no display")
	h.p.setOnscreen(true)
	h.p.requestUpdate()
	st := h.p.state()
	if st.HasSource || st.Running {
		t.Errorf("got state %+v, expected no source", st)
	}

	// Pacing recovers once the source can be created.
	h.linkErr = nil
	h.p.requestUpdate()
	if !h.p.state().Running {
		t.Error("source not started after recovery")
	}
}

func TestPacerStartFailure(t *testing.T) {
	h := newPacerHarness()
	h.p.setOnscreen(true)
	h.p.requestUpdate()
	h.p.tick()
	h.drain()
	// The idle tick stops the source.
	h.p.tick()
	h.drain()
	if h.p.state().Running {
		t.Fatal("source still running after idle tick")
	}

	// A failing restart degrades to not running without panicking.
	h.link.failStart = true
	h.p.requestUpdate()
	if h.p.state().Running {
		t.Error("running reported despite failed start")
	}
}

func TestPacerRelease(t *testing.T) {
	h := newPacerHarness()
	h.p.setOnscreen(true)
	h.p.requestUpdate()
	h.p.tick()
	h.p.release()
	if !h.link.released {
		t.Error("link not released")
	}

	// The tick posted before release must not call the client.
	h.drain()
	if h.updates != 0 {
		t.Errorf("got %d updates after release, expected 0", h.updates)
	}
}
