// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries the input and pacing tunables. The zero value of any
// field falls back to its built-in default at the point of use.
type Config struct {
	// VelocityWindow is the chaining window of the scroll velocity
	// estimator.
	VelocityWindow Duration `toml:"velocity_window"`
	// MomentumWait is how long an ended scroll gesture waits for the
	// momentum phase.
	MomentumWait Duration `toml:"momentum_wait"`
	// MaxGestureHandlers bounds the active gesture handler list.
	MaxGestureHandlers int `toml:"max_gesture_handlers"`
	// FrameInterval is the tick period of timer-backed display links.
	FrameInterval Duration `toml:"frame_interval"`
}

// Duration wraps time.Duration with TOML text encoding, using the
// "50ms" notation of time.ParseDuration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the built-in tunables: a 50 ms velocity
// window, a 50 ms momentum wait, ten gesture handlers and 60 Hz
// timer pacing.
func DefaultConfig() Config {
	return Config{
		VelocityWindow:     Duration{50 * time.Millisecond},
		MomentumWait:       Duration{50 * time.Millisecond},
		MaxGestureHandlers: 10,
		FrameInterval:      Duration{time.Second / 60},
	}
}

// LoadConfig reads the TOML file at path over the defaults. A missing
// file is not an error; it yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("app: loading config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes c as TOML to path, replacing the file.
func (c Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("app: saving config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("app: encoding config: %w", err)
	}
	return f.Close()
}
