// Package mods loads optional gameplay modules into the host and isolates
// their failures from it.
package mods

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

type State int

const (
	StateLoading State = iota
	StateRunning
	StateError
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StateError:
		return "error"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrDuplicateMod = errors.New("mod already registered")

type Mod interface {
	Key() string
	Init(context.Context) error
	Tick(context.Context) error
	Shutdown(context.Context) error
}

type entry struct {
	mod   Mod
	state State
}

// Manager owns the registered mods. A mod that fails to start or tick is
// disabled; the host keeps running.
type Manager struct {
	mu   sync.Mutex
	mods []*entry
}

func NewManager() *Manager {
	return &Manager{}
}

// Register adds p and initializes it. Initialization failures disable the mod
// and are not returned.
func (m *Manager) Register(ctx context.Context, p Mod) error {
	if p == nil {
		return fmt.Errorf("mod is nil")
	}

	m.mu.Lock()
	for _, e := range m.mods {
		if e.mod.Key() == p.Key() {
			m.mu.Unlock()
			return fmt.Errorf("registering %s: %w", p.Key(), ErrDuplicateMod)
		}
	}
	e := &entry{mod: p, state: StateLoading}
	m.mods = append(m.mods, e)
	m.mu.Unlock()

	slog.InfoContext(ctx, "registered mod", "key", p.Key())

	if err := p.Init(ctx); err != nil {
		m.setState(e, StateError)
		slog.ErrorContext(ctx, "mod failed to start, disabling", "key", p.Key(), "error", err)
		return nil
	}

	m.setState(e, StateRunning)
	return nil
}

// State reports the lifecycle state of the mod with the given key.
func (m *Manager) State(key string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.mods {
		if e.mod.Key() == key {
			return e.state, true
		}
	}
	return StateDisabled, false
}

// Tick ticks every running mod. A failing mod is moved to the error state.
func (m *Manager) Tick(ctx context.Context) error {
	for _, e := range m.running() {
		if err := e.mod.Tick(ctx); err != nil {
			m.setState(e, StateError)
			slog.ErrorContext(ctx, "mod tick failed, disabling", "key", e.mod.Key(), "error", err)
		}
	}
	return nil
}

// Shutdown stops every mod in reverse registration order.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	mods := make([]*entry, len(m.mods))
	copy(mods, m.mods)
	m.mu.Unlock()

	var errs []error
	for i := len(mods) - 1; i >= 0; i-- {
		e := mods[i]
		switch m.stateOf(e) {
		case StateError:
			slog.WarnContext(ctx, "improper shutdown", "key", e.mod.Key())
		case StateRunning:
			if err := e.mod.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", e.mod.Key(), err))
			}
		}
		m.setState(e, StateDisabled)
	}
	return errors.Join(errs...)
}

// Start blocks until ctx is done and then shuts every mod down.
func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()
	return m.Shutdown(context.WithoutCancel(ctx))
}

func (m *Manager) running() []*entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entry
	for _, e := range m.mods {
		if e.state == StateRunning {
			out = append(out, e)
		}
	}
	return out
}

func (m *Manager) setState(e *entry, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.state = s
}

func (m *Manager) stateOf(e *entry) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return e.state
}
