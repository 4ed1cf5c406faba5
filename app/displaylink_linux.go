// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux

package app

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// timerfdLink approximates a display-synchronized source with a
// timerfd firing at the configured refresh interval. Linux offers no
// vsync notification outside the display server protocol, so a steady
// kernel timer is the closest equivalent.
type timerfdLink struct {
	interval time.Duration
	tick     func()
	tfd      int
	efd      int
	running  bool
	stopped  chan struct{}
}

func newDisplayLink(_ DisplayID, interval time.Duration, tick func()) (displayLink, error) {
	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("app: timerfd_create: %w", err)
	}
	efd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(tfd)
		return nil, fmt.Errorf("app: eventfd: %w", err)
	}
	l := &timerfdLink{
		interval: interval,
		tick:     tick,
		tfd:      tfd,
		efd:      efd,
		stopped:  make(chan struct{}),
	}
	go l.poll()
	return l, nil
}

// poll runs on the timing thread, idling while the timer is disarmed.
// Writing the eventfd ends it.
func (l *timerfdLink) poll() {
	defer close(l.stopped)
	fds := []unix.PollFd{
		{Fd: int32(l.tfd), Events: unix.POLLIN},
		{Fd: int32(l.efd), Events: unix.POLLIN},
	}
	var buf [8]byte
	for {
		fds[0].Revents = 0
		fds[1].Revents = 0
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if fds[1].Revents != 0 {
			return
		}
		if fds[0].Revents&unix.POLLIN != 0 {
			// Drain the expiration count; overruns collapse into a
			// single tick.
			if _, err := unix.Read(l.tfd, buf[:]); err != nil {
				if err == unix.EINTR {
					continue
				}
				return
			}
			l.tick()
		}
	}
}

func (l *timerfdLink) start() error {
	if l.running {
		return nil
	}
	spec := unix.ItimerSpec{
		Interval: unix.NsecToTimespec(int64(l.interval)),
		Value:    unix.NsecToTimespec(int64(l.interval)),
	}
	if err := unix.TimerfdSettime(l.tfd, 0, &spec, nil); err != nil {
		return fmt.Errorf("app: timerfd_settime: %w", err)
	}
	l.running = true
	return nil
}

func (l *timerfdLink) stop() error {
	if !l.running {
		return nil
	}
	var spec unix.ItimerSpec
	if err := unix.TimerfdSettime(l.tfd, 0, &spec, nil); err != nil {
		return fmt.Errorf("app: timerfd_settime: %w", err)
	}
	l.running = false
	return nil
}

func (l *timerfdLink) setDisplay(DisplayID) error {
	// The timer source is display-agnostic.
	return nil
}

func (l *timerfdLink) release() {
	l.stop()
	var one [8]byte
	binary.NativeEndian.PutUint64(one[:], 1)
	unix.Write(l.efd, one[:])
	<-l.stopped
	unix.Close(l.tfd)
	unix.Close(l.efd)
}
