package pvp

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/settings"
)

type mockMessenger struct {
	broadcasts []string
	sent       map[entity.ID][]string
	fail       bool
}

func (m *mockMessenger) Broadcast(msg string) error {
	m.broadcasts = append(m.broadcasts, msg)
	if m.fail {
		return errors.New("nats unavailable")
	}
	return nil
}

func (m *mockMessenger) SendToPlayer(id entity.ID, msg string) error {
	if m.sent == nil {
		m.sent = map[entity.ID][]string{}
	}
	m.sent[id] = append(m.sent[id], msg)
	return nil
}

type mockEffects struct {
	vitae    []entity.ID
	purged   []entity.ID
	corpses  []entity.ID
	killers  []*combat.DamageInfo
	hadVitae []bool
	teleport []entity.ID
}

func (m *mockEffects) InflictVitae(v *entity.Entity)      { m.vitae = append(m.vitae, v.ID) }
func (m *mockEffects) PurgeEnchantments(v *entity.Entity) { m.purged = append(m.purged, v.ID) }
func (m *mockEffects) TeleportOnDeath(v *entity.Entity)   { m.teleport = append(m.teleport, v.ID) }

func (m *mockEffects) CreateCorpse(v *entity.Entity, killer *combat.DamageInfo, hadVitae bool) {
	m.corpses = append(m.corpses, v.ID)
	m.killers = append(m.killers, killer)
	m.hadVitae = append(m.hadVitae, hadVitae)
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type mockScheduler struct {
	pending []scheduled
}

func (m *mockScheduler) After(d time.Duration, fn func()) {
	m.pending = append(m.pending, scheduled{delay: d, fn: fn})
}

func (m *mockScheduler) runAll() {
	pending := m.pending
	m.pending = nil
	for _, s := range pending {
		s.fn()
	}
}

type mockGraph struct {
	removed []entity.ID
}

func (m *mockGraph) RemoveEntity(id entity.ID) {
	m.removed = append(m.removed, id)
}

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestResolver(t *testing.T, msg Messenger) *Resolver {
	t.Helper()
	met, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	r, err := NewResolver(settings.Defaults(), msg,
		WithClock(func() time.Time { return fixedNow }),
		WithResolverMetrics(met))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}
