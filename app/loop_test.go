// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"testing"
	"time"
)

func runLoop(l *Loop) chan struct{} {
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	return done
}

func waitLoop(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not quit")
	}
}

func TestLoopPostOrder(t *testing.T) {
	l := NewLoop()
	done := runLoop(l)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() {
			got = append(got, i)
		})
	}
	l.Quit()
	waitLoop(t, done)
	for i, v := range got {
		if v != i {
			t.Fatalf("got order %v, expected ascending", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("got %d tasks, expected 5", len(got))
	}
}

func TestLoopPostFromTask(t *testing.T) {
	l := NewLoop()
	done := runLoop(l)
	ran := false
	l.Post(func() {
		l.Post(func() {
			ran = true
			l.Quit()
		})
	})
	waitLoop(t, done)
	if !ran {
		t.Error("nested post did not run")
	}
}

func TestLoopAfter(t *testing.T) {
	l := NewLoop()
	done := runLoop(l)
	fired := false
	l.Post(func() {
		l.After(time.Millisecond, func() {
			fired = true
			l.Quit()
		})
	})
	waitLoop(t, done)
	if !fired {
		t.Error("deferred task did not fire")
	}
}

func TestLoopAfterCancel(t *testing.T) {
	l := NewLoop()
	done := runLoop(l)
	fired := false
	l.Post(func() {
		cancel := l.After(10*time.Millisecond, func() {
			fired = true
		})
		cancel()
		l.After(50*time.Millisecond, l.Quit)
	})
	waitLoop(t, done)
	if fired {
		t.Error("cancelled deferred task fired")
	}
}

func TestLoopQuitRunsPendingTasks(t *testing.T) {
	l := NewLoop()
	ran := false
	l.Post(func() { ran = true })
	l.Quit()
	done := runLoop(l)
	waitLoop(t, done)
	if !ran {
		t.Error("task posted before quit did not run")
	}
}
