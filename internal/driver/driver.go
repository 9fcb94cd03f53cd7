// Package driver runs the simulation's fixed-rate tick loop.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 250
)

type Manager interface {
	Tick(context.Context) error
}

// Driver ticks each manager in order, once per tick length.
type Driver struct {
	tickLength time.Duration
	overrun    time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}
	if d.overrun <= 0 {
		d.overrun = d.tickLength
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick_length", d.tickLength, "managers", len(d.managers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick runs one pass over every manager. A pass longer than the overrun
// threshold is logged; the ticker drops the ticks it missed.
func (d *Driver) Tick(ctx context.Context) error {
	start := time.Now()
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return fmt.Errorf("ticking manager %d: %w", i, err)
		}
	}
	if took := time.Since(start); took > d.overrun {
		slog.WarnContext(ctx, "tick overran", "took", took, "threshold", d.overrun, "tick_length", d.tickLength)
	}
	return nil
}
