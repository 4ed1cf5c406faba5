// SPDX-License-Identifier: Unlicense OR MIT

//go:build darwin

package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/purego"
)

var (
	cvOnce sync.Once
	cvErr  error

	cvCreateWithActiveCGDisplays func(out *uintptr) int32
	cvSetOutputCallback          func(link, cb, userInfo uintptr) int32
	cvSetCurrentCGDisplay        func(link uintptr, display uint32) int32
	cvStart                      func(link uintptr) int32
	cvStop                       func(link uintptr) int32
	cvRelease                    func(link uintptr)
)

func loadCoreVideo() error {
	cvOnce.Do(func() {
		lib, err := purego.Dlopen("/System/Library/Frameworks/CoreVideo.framework/CoreVideo",
			purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			cvErr = fmt.Errorf("app: loading CoreVideo: %w", err)
			return
		}
		purego.RegisterLibFunc(&cvCreateWithActiveCGDisplays, lib, "CVDisplayLinkCreateWithActiveCGDisplays")
		purego.RegisterLibFunc(&cvSetOutputCallback, lib, "CVDisplayLinkSetOutputCallback")
		purego.RegisterLibFunc(&cvSetCurrentCGDisplay, lib, "CVDisplayLinkSetCurrentCGDisplay")
		purego.RegisterLibFunc(&cvStart, lib, "CVDisplayLinkStart")
		purego.RegisterLibFunc(&cvStop, lib, "CVDisplayLinkStop")
		purego.RegisterLibFunc(&cvRelease, lib, "CVDisplayLinkRelease")
	})
	return cvErr
}

// cvDisplayLink paces ticks with a CoreVideo display link, reached
// through purego to keep the build cgo-free. The output callback
// fires on CoreVideo's own high-priority thread.
type cvDisplayLink struct {
	tick    func()
	ref     uintptr
	running bool
}

func newDisplayLink(d DisplayID, _ time.Duration, tick func()) (displayLink, error) {
	if err := loadCoreVideo(); err != nil {
		return nil, err
	}
	l := &cvDisplayLink{tick: tick}
	if rc := cvCreateWithActiveCGDisplays(&l.ref); rc != 0 {
		return nil, fmt.Errorf("app: CVDisplayLinkCreateWithActiveCGDisplays: %d", rc)
	}
	cb := purego.NewCallback(func(_, _, _, _, _, _ uintptr) uintptr {
		l.tick()
		return 0
	})
	if rc := cvSetOutputCallback(l.ref, cb, 0); rc != 0 {
		cvRelease(l.ref)
		return nil, fmt.Errorf("app: CVDisplayLinkSetOutputCallback: %d", rc)
	}
	if d != 0 {
		if err := l.setDisplay(d); err != nil {
			cvRelease(l.ref)
			return nil, err
		}
	}
	return l, nil
}

func (l *cvDisplayLink) start() error {
	if l.running {
		return nil
	}
	if rc := cvStart(l.ref); rc != 0 {
		return fmt.Errorf("app: CVDisplayLinkStart: %d", rc)
	}
	l.running = true
	return nil
}

func (l *cvDisplayLink) stop() error {
	if !l.running {
		return nil
	}
	if rc := cvStop(l.ref); rc != 0 {
		return fmt.Errorf("app: CVDisplayLinkStop: %d", rc)
	}
	l.running = false
	return nil
}

func (l *cvDisplayLink) setDisplay(d DisplayID) error {
	if rc := cvSetCurrentCGDisplay(l.ref, uint32(d)); rc != 0 {
		return fmt.Errorf("app: CVDisplayLinkSetCurrentCGDisplay: %d", rc)
	}
	return nil
}

func (l *cvDisplayLink) release() {
	l.stop()
	if l.ref != 0 {
		cvRelease(l.ref)
		l.ref = 0
	}
}
