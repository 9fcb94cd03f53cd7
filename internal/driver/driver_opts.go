package driver

import "time"

type DriverOpt func(*Driver)

// WithTickLength sets how often managers tick. Non-positive lengths keep the
// default.
func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		if tickLength > 0 {
			d.tickLength = tickLength
		}
	}
}

// WithOverrunThreshold sets how long a pass may take before it is logged as
// an overrun. It defaults to the tick length.
func WithOverrunThreshold(threshold time.Duration) DriverOpt {
	return func(d *Driver) {
		d.overrun = threshold
	}
}
