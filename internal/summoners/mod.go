// Package summoners is the PvP summoners mod. It plugs the visibility
// maintainer, the PvP death handling and the pet activation rules into the
// host world.
package summoners

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/pets"
	"github.com/pixil98/go-summoners/internal/pvp"
	"github.com/pixil98/go-summoners/internal/settings"
	"github.com/pixil98/go-summoners/internal/storage"
	"github.com/pixil98/go-summoners/internal/visibility"
	"github.com/pixil98/go-summoners/internal/world"
)

const Key = "pvp-summoners"

// Host is the part of the world the mod hooks into.
type Host interface {
	AddTracker(world.Tracker)
	ForEachPlayer(fn func(*entity.Entity))
	Get(entity.ID) (*entity.Entity, bool)
}

// Mod is inert until Init succeeds. A mod whose settings fail to load never
// registers with the host, so the host runs without it.
type Mod struct {
	doc     *storage.Document[*settings.Settings]
	host    Host
	sched   pvp.Scheduler
	effects pvp.DeathEffects
	catalog pets.Catalog
	msg     pvp.Messenger
	metrics *observe.Metrics
	now     func() time.Time

	// sensing serializes Sense with Despawned so a despawned entity is never
	// put back into the graph.
	sensing sync.Mutex

	mu         sync.RWMutex
	settings   *settings.Settings
	history    *combat.History
	maintainer *visibility.Maintainer
	death      *pvp.DeathHandler
	respite    *pvp.RespiteTicker
	activator  *pets.Activator
}

type ModOpt func(*Mod)

func WithModMetrics(m *observe.Metrics) ModOpt {
	return func(mod *Mod) {
		mod.metrics = m
	}
}

func WithModClock(now func() time.Time) ModOpt {
	return func(mod *Mod) {
		mod.now = now
	}
}

func NewMod(
	doc *storage.Document[*settings.Settings],
	host Host,
	sched pvp.Scheduler,
	effects pvp.DeathEffects,
	catalog pets.Catalog,
	msg pvp.Messenger,
	opts ...ModOpt,
) *Mod {
	m := &Mod{
		doc:     doc,
		host:    host,
		sched:   sched,
		effects: effects,
		catalog: catalog,
		msg:     msg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = observe.DefaultMetrics()
	}
	return m
}

func (m *Mod) Key() string {
	return Key
}

// Init loads the settings document and wires the mod into the host.
func (m *Mod) Init(ctx context.Context) error {
	s, err := m.doc.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	resolver, err := pvp.NewResolver(s, m.msg,
		pvp.WithClock(m.now),
		pvp.WithResolverMetrics(m.metrics))
	if err != nil {
		return fmt.Errorf("building resolver: %w", err)
	}

	history := combat.NewHistory()
	maintainer := visibility.NewMaintainer(visibility.Config{
		InitialClamp:       s.InitialClamp,
		InitialClampDistSq: s.InitialClampDistSq(),
	}, visibility.WithMetrics(m.metrics))

	m.mu.Lock()
	m.settings = s
	m.history = history
	m.maintainer = maintainer
	m.death = pvp.NewDeathHandler(resolver, history, m.effects, m.sched, maintainer, m.msg, s.DeathAnimationLength())
	m.respite = pvp.NewRespiteTicker(s, m.host, m.msg, pvp.WithRespiteClock(m.now))
	m.activator = pets.NewActivator(s, m.catalog, m.msg, pets.WithActivatorMetrics(m.metrics))
	m.mu.Unlock()

	m.host.AddTracker(m)

	slog.InfoContext(ctx, "summoners mod started",
		"pk_server", s.PKServer,
		"pkl_server", s.PKLServer,
		"initial_clamp", s.InitialClamp)
	return nil
}

// Tick advances PK respites.
func (m *Mod) Tick(ctx context.Context) error {
	r := m.respiteTicker()
	if r == nil {
		return nil
	}
	return r.Tick(ctx)
}

func (m *Mod) Shutdown(ctx context.Context) error {
	slog.InfoContext(ctx, "summoners mod stopped")
	return nil
}

// Sense refreshes observer's view of the world. Creatures pick up new visible
// targets before their known set is synced so first-sight players are still
// subject to the initial clamp.
func (m *Mod) Sense(observer *entity.Entity, nearby []*entity.Entity) {
	vis := m.graph()
	if vis == nil {
		return
	}

	m.sensing.Lock()
	defer m.sensing.Unlock()

	if !m.present(observer) {
		return
	}
	live := make([]*entity.Entity, 0, len(nearby))
	for _, e := range nearby {
		if m.present(e) {
			live = append(live, e)
		}
	}

	if !observer.IsPlayer() {
		vis.AddVisibleTargets(observer, live, true)
	}
	vis.SyncKnown(observer, live)
}

// present reports whether e is still spawned in the host.
func (m *Mod) present(e *entity.Entity) bool {
	if e == nil {
		return false
	}
	got, ok := m.host.Get(e.ID)
	return ok && got == e
}

// Despawned drops every edge and damage record involving e.
func (m *Mod) Despawned(e *entity.Entity) {
	m.mu.RLock()
	vis, history := m.maintainer, m.history
	m.mu.RUnlock()

	if vis == nil {
		return
	}

	m.sensing.Lock()
	defer m.sensing.Unlock()
	vis.RemoveEntity(e.ID)
	history.Forget(e.ID)
}

// RecordDamage attributes amount of damage against victim to attacker.
func (m *Mod) RecordDamage(victim, attacker *entity.Entity, amount float64) {
	m.mu.RLock()
	history := m.history
	m.mu.RUnlock()

	if history == nil {
		return
	}
	history.Record(victim, attacker, amount)
}

// HandleDeath runs the death of victim using the recorded damage.
func (m *Mod) HandleDeath(victim *entity.Entity) pvp.Outcome {
	m.mu.RLock()
	death, history := m.death, m.history
	m.mu.RUnlock()

	if death == nil {
		return pvp.Outcome{}
	}
	return death.Die(history.DeathOf(victim))
}

// CheckUseRequirements applies the pet device rules. Without the mod loaded
// every activation is allowed.
func (m *Mod) CheckUseRequirements(activator *entity.Entity, device pets.Device) pets.Result {
	m.mu.RLock()
	a := m.activator
	m.mu.RUnlock()

	if a == nil {
		return pets.Result{Success: true}
	}
	return a.CheckUseRequirements(activator, device)
}

// VisibleTargets returns what observer may currently target.
func (m *Mod) VisibleTargets(observer *entity.Entity) []*entity.Entity {
	vis := m.graph()
	if vis == nil {
		return nil
	}
	return vis.VisibleTargets(observer)
}

// KnownObjects returns what observer currently knows about.
func (m *Mod) KnownObjects(observer *entity.Entity) []*entity.Entity {
	vis := m.graph()
	if vis == nil {
		return nil
	}
	return vis.KnownObjects(observer)
}

func (m *Mod) graph() *visibility.Maintainer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maintainer
}

func (m *Mod) respiteTicker() *pvp.RespiteTicker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.respite
}
