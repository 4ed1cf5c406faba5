// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"runtime"
	"sync"
	"time"

	"github.com/yvt/Stella2/internal/pool"
	"github.com/yvt/Stella2/io/event"
)

// Loop owns the main thread. Every window, gesture session and
// dispatch structure is confined to it; other threads communicate
// exclusively through Post and Dispatch.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}

	// Main-thread state.
	running bool
	windows pool.Pool[*Window]
}

// NewLoop returns a Loop ready to Run.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Run processes posted tasks until Quit. It locks the calling
// goroutine to its OS thread; platform event sources expect the main
// thread to stay fixed.
func (l *Loop) Run() {
	runtime.LockOSThread()
	// Don't UnlockOSThread to avoid reuse by the Go runtime.
	l.running = true
	for l.running {
		<-l.wake
		for _, f := range l.drain() {
			f()
		}
	}
}

// Post schedules f to run on the main thread. It never blocks and is
// safe to call from any thread, including from f itself.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, f)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After schedules f to run on the main thread once d elapsed. The
// returned function cancels delivery; it must be called on the main
// thread.
func (l *Loop) After(d time.Duration, f func()) func() {
	var cancelled bool
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			// cancelled is only touched on the main thread, so a
			// cancel that raced the timer firing still wins here.
			if !cancelled {
				f()
			}
		})
	})
	return func() {
		cancelled = true
		t.Stop()
	}
}

// Quit makes Run return after the tasks posted so far have run. It is
// safe to call from any thread.
func (l *Loop) Quit() {
	l.Post(func() {
		l.running = false
	})
}

// Dispatch posts e to the window identified by h. The event is
// dropped if the window was closed in the meantime.
func (l *Loop) Dispatch(h pool.Handle, e event.Event) {
	l.Post(func() {
		if w, ok := l.windows.Get(h); ok {
			w.Event(e)
		}
	})
}

// Windows reports the number of open windows. Main thread only.
func (l *Loop) Windows() int {
	return l.windows.Len()
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.tasks
	l.tasks = nil
	return tasks
}
