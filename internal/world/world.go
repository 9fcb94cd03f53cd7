// Package world is the host simulation: it owns every entity, buckets them
// spatially and reports proximity to trackers once per tick.
package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/storage"
)

const (
	DefaultSenseRange  = 96.0
	DefaultScanWorkers = 4
)

var (
	ErrEntityExists   = errors.New("entity already exists")
	ErrEntityNotFound = errors.New("entity not found")
)

// Tracker is told what each entity can sense every tick.
type Tracker interface {
	Sense(observer *entity.Entity, nearby []*entity.Entity)
	Despawned(e *entity.Entity)
}

// World is the single source of truth for entity membership and position.
type World struct {
	mu       sync.RWMutex
	entities map[entity.ID]*entity.Entity
	grid     *Grid

	trackers []Tracker
	sched    *Scheduler

	senseRangeSq float64
	scanWorkers  int
	metrics      *observe.Metrics
}

type WorldOpt func(*World)

// WithSenseRange sets how far entities sense each other. Ranges beyond one
// landblock are truncated by the grid.
func WithSenseRange(r float64) WorldOpt {
	return func(w *World) {
		w.senseRangeSq = r * r
	}
}

// WithScanWorkers bounds the goroutines used for the proximity scan.
func WithScanWorkers(n int) WorldOpt {
	return func(w *World) {
		w.scanWorkers = n
	}
}

func WithScheduler(s *Scheduler) WorldOpt {
	return func(w *World) {
		w.sched = s
	}
}

func WithWorldMetrics(m *observe.Metrics) WorldOpt {
	return func(w *World) {
		w.metrics = m
	}
}

func NewWorld(opts ...WorldOpt) *World {
	w := &World{
		entities:     make(map[entity.ID]*entity.Entity),
		grid:         NewGrid(),
		senseRangeSq: DefaultSenseRange * DefaultSenseRange,
		scanWorkers:  DefaultScanWorkers,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.sched == nil {
		w.sched = NewScheduler(time.Now)
	}
	if w.metrics == nil {
		w.metrics = observe.DefaultMetrics()
	}
	if w.scanWorkers < 1 {
		w.scanWorkers = 1
	}
	return w
}

// AddTracker registers t for proximity and despawn notifications.
func (w *World) AddTracker(t Tracker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trackers = append(w.trackers, t)
}

func (w *World) Scheduler() *Scheduler {
	return w.sched
}

// Spawn adds e to the world.
func (w *World) Spawn(e *entity.Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.entities[e.ID]; exists {
		return fmt.Errorf("spawning %s: %w", e, ErrEntityExists)
	}
	w.entities[e.ID] = e
	w.grid.Add(e.ID, e.Position)
	w.metrics.Entities.Add(context.Background(), 1)
	return nil
}

// SpawnTemplate creates a new entity from t at pos with a fresh id.
func (w *World) SpawnTemplate(t *Template, pos entity.Position) (*entity.Entity, error) {
	e := t.Instantiate(entity.ID(uuid.New().String()), pos)
	if err := w.Spawn(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Seed spawns every template at each of its spawn points.
func (w *World) Seed(ctx context.Context, store storage.Storer[*Template]) error {
	for _, id := range store.Ids() {
		t, _ := store.Get(id)
		for _, pos := range t.Spawns {
			if _, err := w.SpawnTemplate(t, pos); err != nil {
				return fmt.Errorf("seeding %s: %w", id, err)
			}
		}
		slog.DebugContext(ctx, "seeded template", "template", id, "count", len(t.Spawns))
	}
	return nil
}

// Despawn removes id from the world and tells every tracker.
func (w *World) Despawn(id entity.ID) error {
	w.mu.Lock()
	e, ok := w.entities[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("despawning %s: %w", id, ErrEntityNotFound)
	}
	delete(w.entities, id)
	w.grid.Remove(id, e.Position)
	trackers := slices.Clone(w.trackers)
	w.mu.Unlock()

	w.metrics.Entities.Add(context.Background(), -1)
	for _, t := range trackers {
		t.Despawned(e)
	}
	return nil
}

// Move relocates id to pos.
func (w *World) Move(id entity.ID, pos entity.Position) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("moving %s: %w", id, ErrEntityNotFound)
	}
	w.grid.Move(id, e.Position, pos)
	e.Position = pos
	return nil
}

func (w *World) Get(id entity.ID) (*entity.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.entities[id]
	return e, ok
}

// ForEachPlayer calls fn for every player. fn runs without the world lock.
func (w *World) ForEachPlayer(fn func(*entity.Entity)) {
	for _, e := range w.snapshot() {
		if e.IsPlayer() {
			fn(e)
		}
	}
}

// Nearby returns the entities within sense range of e, excluding e, ordered
// by id.
func (w *World) Nearby(e *entity.Entity) []*entity.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.nearby(e)
}

func (w *World) nearby(e *entity.Entity) []*entity.Entity {
	var out []*entity.Entity
	for _, id := range w.grid.Candidates(e.Position) {
		if id == e.ID {
			continue
		}
		other, ok := w.entities[id]
		if !ok {
			continue
		}
		if e.Position.Distance2DSquared(other.Position) <= w.senseRangeSq {
			out = append(out, other)
		}
	}
	sortByID(out)
	return out
}

// Tick runs due scheduled work, then reports what every entity can sense to
// each tracker. The scan runs in parallel; trackers are called serially.
func (w *World) Tick(ctx context.Context) error {
	start := time.Now()

	w.sched.RunDue()

	entities := w.snapshot()
	nearby := make([][]*entity.Entity, len(entities))

	w.mu.RLock()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(w.scanWorkers)
	for i, e := range entities {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			nearby[i] = w.nearby(e)
			return nil
		})
	}
	err := eg.Wait()
	trackers := slices.Clone(w.trackers)
	w.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("scanning proximity: %w", err)
	}

	for i, e := range entities {
		for _, t := range trackers {
			t.Sense(e, nearby[i])
		}
	}

	w.metrics.TickDuration.Record(ctx, time.Since(start).Seconds())
	return nil
}

func (w *World) snapshot() []*entity.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*entity.Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sortByID(out)
	return out
}

func sortByID(es []*entity.Entity) {
	slices.SortFunc(es, func(a, b *entity.Entity) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
