// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app ties the input dispatch surface, gesture sessions, action
resolution and frame pacing together into windows driven by a single
main-thread event loop.

# Main Thread

A Loop owns the main thread. All window and gesture state is confined
to it: platform glue and timing threads hand work to the loop with
Post or Dispatch and never touch a Window directly. Run locks the
calling goroutine to its OS thread, as GUI platforms expect a fixed
main thread.

	loop := app.NewLoop()
	w := app.NewWindow(loop, client, app.DefaultConfig())
	go platformSource(loop, w.Handle())
	loop.Run()

# Frame Pacing

A window does not redraw on its own. The client calls
RequestUpdateReady and later receives exactly one UpdateReady callback
on the main thread, synchronized to the window's display. Ticks that
arrive while the previous callback is still pending are dropped rather
than queued.
*/
package app
