// SPDX-License-Identifier: Unlicense OR MIT

// Command inputsim replays a synthetic input stream through a window
// and logs every listener callback. It exercises gesture routing,
// momentum handling, action resolution and frame pacing without a
// display server.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/yvt/Stella2/app"
	"github.com/yvt/Stella2/f32"
	"github.com/yvt/Stella2/gesture"
	"github.com/yvt/Stella2/io/action"
	"github.com/yvt/Stella2/io/key"
	"github.com/yvt/Stella2/io/pointer"
)

var (
	configPath = flag.String("config", "", "TOML config `file` overriding the built-in defaults")
	dumpConfig = flag.Bool("dump-config", false, "print the effective config as TOML and exit")
	verbose    = flag.Bool("v", false, "enable debug logging")
)

const (
	actSelectAll action.ID = iota + 1
	actPaste
)

func main() {
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	if err := run(); err != nil {
		slog.Error("inputsim failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = app.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *dumpConfig {
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	}

	loop := app.NewLoop()
	client := &simClient{loop: loop}
	loop.Post(func() {
		w := app.NewWindow(loop, client, cfg)
		client.win = w
		w.BindActions(bindings())
		w.SetVisible(true)
		w.SetScale(2)
		replay(w, loop)
		w.RequestUpdateReady()
		// Quit even if no display link could be created and pacing
		// degraded to nothing.
		loop.After(2*time.Second, func() {
			slog.Warn("watchdog quit, no update callbacks arrived")
			w.Close()
			loop.Quit()
		})
	})
	loop.Run()
	slog.Info("simulation finished", "updates", client.updates, "windows", loop.Windows())
	return nil
}

func bindings() *action.Table {
	t := action.NewTable()
	t.BindKey(key.ModCommand, "A", actSelectAll)
	t.BindKey(key.ModCommand, "P", actPaste)
	t.BindSelector("selectAll:", actSelectAll)
	return t
}

// replay feeds a scripted stream: a two-button drag, a momentum
// scroll, a scroll whose momentum wait gets interrupted by a legacy
// wheel step, and a few key chords.
func replay(w *app.Window, loop *app.Loop) {
	ts := func(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

	w.Event(pointer.Event{Kind: pointer.Press, Time: ts(0), Position: f32.Pt(20, 20), Button: pointer.ButtonPrimary})
	w.Event(pointer.Event{Kind: pointer.Move, Time: ts(10), Position: f32.Pt(24, 20)})
	w.Event(pointer.Event{Kind: pointer.Move, Time: ts(20), Position: f32.Pt(30, 22)})
	w.Event(pointer.Event{Kind: pointer.Press, Time: ts(30), Position: f32.Pt(30, 22), Button: pointer.ButtonSecondary})
	w.Event(pointer.Event{Kind: pointer.Release, Time: ts(40), Position: f32.Pt(31, 22), Button: pointer.ButtonPrimary})
	w.Event(pointer.Event{Kind: pointer.Release, Time: ts(50), Position: f32.Pt(31, 22), Button: pointer.ButtonSecondary})

	scrollEv := func(ms int, delta f32.Point, phase, momentum pointer.Phase) pointer.Event {
		return pointer.Event{
			Kind:     pointer.Scroll,
			Time:     ts(ms),
			Position: f32.Pt(40, 40),
			Scroll:   delta,
			Phase:    phase,
			Momentum: momentum,
			Precise:  true,
		}
	}
	w.Event(scrollEv(100, f32.Point{}, pointer.PhaseBegan, pointer.PhaseNone))
	w.Event(scrollEv(110, f32.Pt(0, 12), pointer.PhaseChanged, pointer.PhaseNone))
	w.Event(scrollEv(120, f32.Pt(0, 14), pointer.PhaseChanged, pointer.PhaseNone))
	w.Event(scrollEv(130, f32.Pt(0, 11), pointer.PhaseChanged, pointer.PhaseNone))
	w.Event(scrollEv(140, f32.Point{}, pointer.PhaseEnded, pointer.PhaseNone))
	w.Event(scrollEv(160, f32.Point{}, pointer.PhaseNone, pointer.PhaseBegan))
	w.Event(scrollEv(170, f32.Pt(0, 8), pointer.PhaseNone, pointer.PhaseChanged))
	w.Event(scrollEv(180, f32.Pt(0, 3), pointer.PhaseNone, pointer.PhaseChanged))
	w.Event(scrollEv(190, f32.Point{}, pointer.PhaseNone, pointer.PhaseEnded))

	// This gesture ends without a momentum phase. The legacy wheel
	// step below arrives while the momentum wait is pending and
	// resolves it early.
	w.Event(scrollEv(200, f32.Point{}, pointer.PhaseBegan, pointer.PhaseNone))
	w.Event(scrollEv(210, f32.Pt(0, 5), pointer.PhaseChanged, pointer.PhaseNone))
	w.Event(scrollEv(220, f32.Point{}, pointer.PhaseEnded, pointer.PhaseNone))
	loop.Dispatch(w.Handle(), pointer.Event{
		Kind:   pointer.Scroll,
		Time:   ts(230),
		Scroll: f32.Pt(0, -3),
	})

	w.Event(key.Event{Name: "A", Modifiers: key.ModCommand, State: key.Press})
	w.Event(key.Event{Name: "A", Modifiers: key.ModCommand, State: key.Release})
	// Bound but disabled: swallowed without being performed.
	w.Event(key.Event{Name: "P", Modifiers: key.ModCommand, State: key.Press})
	w.Event(key.Event{Name: "X", State: key.Press})
	w.Event(pointer.Event{Kind: pointer.Leave})
}

type simClient struct {
	loop    *app.Loop
	win     *app.Window
	updates int
}

func (c *simClient) MouseDrag(pos f32.Point, b pointer.Buttons) gesture.DragListener {
	slog.Info("drag began", "button", b.String(), "x", pos.X, "y", pos.Y)
	return &simDrag{c}
}

func (c *simClient) ScrollBegin(pos f32.Point) gesture.ScrollListener {
	slog.Info("scroll began", "x", pos.X, "y", pos.Y)
	return &simScroll{c}
}

func (c *simClient) ScrollMotion(pos f32.Point, d gesture.ScrollDelta) {
	slog.Info("wheel step", "dx", d.Delta.X, "dy", d.Delta.Y, "precise", d.Precise)
}

func (c *simClient) MouseMotion(pos f32.Point) {
	slog.Debug("mouse motion", "x", pos.X, "y", pos.Y)
}

func (c *simClient) MouseLeave() {
	slog.Info("mouse left the window")
}

func (c *simClient) Key(e key.Event) bool {
	slog.Info("key fell through", "name", string(e.Name), "state", e.State.String())
	return false
}

func (c *simClient) ActionStatus(id action.ID) action.Status {
	switch id {
	case actSelectAll:
		return action.Applicable | action.Enabled
	case actPaste:
		return action.Applicable
	}
	return 0
}

func (c *simClient) PerformAction(id action.ID) {
	slog.Info("action performed", "id", uint32(id))
}

func (c *simClient) UpdateReady() {
	c.updates++
	slog.Info("update ready", "n", c.updates)
	if c.updates >= 3 {
		c.win.Close()
		c.loop.Quit()
		return
	}
	c.win.RequestUpdateReady()
}

func (c *simClient) ScaleChanged(scale float32) {
	slog.Info("scale changed", "scale", scale)
}

type simDrag struct{ c *simClient }

func (d *simDrag) Motion(pos f32.Point) {
	slog.Debug("drag motion", "x", pos.X, "y", pos.Y)
	d.c.win.RequestUpdateReady()
}

func (d *simDrag) Down(pos f32.Point, b pointer.Buttons) {
	slog.Info("drag button down", "button", b.String())
}

func (d *simDrag) Up(pos f32.Point, b pointer.Buttons) {
	slog.Info("drag button up", "button", b.String())
}

func (d *simDrag) Release() {
	slog.Info("drag released")
}

func (d *simDrag) Cancel() {
	slog.Info("drag cancelled")
}

type simScroll struct{ c *simClient }

func (s *simScroll) Update(d gesture.ScrollDelta, velocity f32.Point) {
	slog.Info("scroll update",
		"dx", d.Delta.X, "dy", d.Delta.Y,
		"vx", velocity.X, "vy", velocity.Y,
		"precise", d.Precise)
	s.c.win.RequestUpdateReady()
}

func (s *simScroll) MomentumBegin() {
	slog.Info("scroll momentum began")
}

func (s *simScroll) End() {
	slog.Info("scroll ended")
}

func (s *simScroll) Cancel() {
	slog.Info("scroll cancelled")
}

func (s *simScroll) Release() {
	slog.Info("scroll listener released")
}
