package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type mockManager struct {
	ticks int
	err   error
	order *[]string
	name  string
}

func (m *mockManager) Tick(context.Context) error {
	m.ticks++
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
	return m.err
}

func TestDriver_Tick(t *testing.T) {
	errBoom := errors.New("boom")

	tests := map[string]struct {
		firstErr     error
		expErr       error
		expSecondRan bool
	}{
		"all managers tick": {
			expSecondRan: true,
		},
		"error stops the tick": {
			firstErr: errBoom,
			expErr:   errBoom,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			first := &mockManager{err: tt.firstErr}
			second := &mockManager{}
			d := NewDriver([]Manager{first, second})

			err := d.Tick(context.Background())
			if !errors.Is(err, tt.expErr) {
				t.Errorf("expected error %v, got %v", tt.expErr, err)
			}
			testutil.AssertEqual(t, "first ticks", first.ticks, 1)
			testutil.AssertEqual(t, "second ran", second.ticks == 1, tt.expSecondRan)
		})
	}
}

func TestDriver_Start(t *testing.T) {
	var order []string
	a := &mockManager{name: "a", order: &order}
	b := &mockManager{name: "b", order: &order}
	d := NewDriver([]Manager{a, b}, WithTickLength(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ticks == 0 {
		t.Fatal("expected at least one tick")
	}
	testutil.AssertEqual(t, "same tick count", a.ticks, b.ticks)
	testutil.AssertEqual(t, "ordered", order[0]+order[1], "ab")
}

func TestDriver_StartStopsOnError(t *testing.T) {
	errBoom := errors.New("boom")
	d := NewDriver([]Manager{&mockManager{err: errBoom}}, WithTickLength(time.Millisecond))

	err := d.Start(context.Background())
	if !errors.Is(err, errBoom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestNewDriver_Options(t *testing.T) {
	tests := map[string]struct {
		opts       []DriverOpt
		expTick    time.Duration
		expOverrun time.Duration
	}{
		"defaults": {
			expTick:    DefaultTickLength,
			expOverrun: DefaultTickLength,
		},
		"tick length": {
			opts:       []DriverOpt{WithTickLength(time.Second)},
			expTick:    time.Second,
			expOverrun: time.Second,
		},
		"zero tick length keeps default": {
			opts:       []DriverOpt{WithTickLength(0)},
			expTick:    DefaultTickLength,
			expOverrun: DefaultTickLength,
		},
		"overrun threshold": {
			opts:       []DriverOpt{WithTickLength(time.Second), WithOverrunThreshold(3 * time.Second)},
			expTick:    time.Second,
			expOverrun: 3 * time.Second,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDriver(nil, tt.opts...)
			testutil.AssertEqual(t, "tick length", d.tickLength, tt.expTick)
			testutil.AssertEqual(t, "overrun", d.overrun, tt.expOverrun)
		})
	}
}
