// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !darwin

package app

import "time"

func newDisplayLink(_ DisplayID, interval time.Duration, tick func()) (displayLink, error) {
	return newTickerLink(interval, tick), nil
}
