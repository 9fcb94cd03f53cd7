package pets

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/settings"
)

type mockCatalog map[string]entity.Category

func (m mockCatalog) PetCategory(class string) (entity.Category, bool) {
	c, ok := m[class]
	return c, ok
}

type mockRequirements struct {
	res Result
}

func (m mockRequirements) CheckUseRequirements(*entity.Entity) Result {
	return m.res
}

type mockNotifier struct {
	sent []string
}

func (m *mockNotifier) SendToPlayer(_ entity.ID, msg string) error {
	m.sent = append(m.sent, msg)
	return nil
}

func TestActivator_CheckUseRequirements(t *testing.T) {
	catalog := mockCatalog{
		"ember-wisp": entity.CategoryCombatPet,
		"cow":        entity.CategoryPet,
	}
	wisp := Device{Name: "Ember Wisp Essence", SummoningMastery: "Primalist", PetClass: "ember-wisp"}
	cow := Device{Name: "Cow Statue", PetClass: "cow"}
	unknown := Device{Name: "Mystery Box", PetClass: "missing"}

	tests := map[string]struct {
		modify    func(*settings.Settings)
		activator func() *entity.Entity
		base      *Result
		device    Device
		exp       Result
	}{
		"monster cannot activate": {
			activator: func() *entity.Entity { return &entity.Entity{ID: "m", Category: entity.CategoryMonster} },
			device:    cow,
			exp:       Result{},
		},
		"base requirements fail": {
			activator: func() *entity.Entity { return entity.NewPlayer("p", "Pat") },
			base:      &Result{Reason: "You are too weak"},
			device:    cow,
			exp:       Result{Reason: "You are too weak"},
		},
		"wrong mastery": {
			activator: func() *entity.Entity {
				p := entity.NewPlayer("p", "Pat")
				p.Player.SummoningMastery = "Necromancer"
				return p
			},
			device: wisp,
			exp:    Result{Reason: "You must be a Primalist to use the Ember Wisp Essence"},
		},
		"mastery ignored": {
			modify: func(s *settings.Settings) { s.IgnoreSummonerMasteries = true },
			activator: func() *entity.Entity {
				p := entity.NewPlayer("p", "Pat")
				p.Player.SummoningMastery = "Necromancer"
				return p
			},
			device: wisp,
			exp:    Result{Success: true},
		},
		"matching mastery": {
			activator: func() *entity.Entity {
				p := entity.NewPlayer("p", "Pat")
				p.Player.SummoningMastery = "Primalist"
				return p
			},
			device: wisp,
			exp:    Result{Success: true},
		},
		"stow replace blocks second pet": {
			modify:    func(s *settings.Settings) { s.PetStowReplace = true },
			activator: withActivePet,
			device:    cow,
			exp:       Result{Reason: "Wisp is already active"},
		},
		"retail stow allows passive pet": {
			activator: withActivePet,
			device:    cow,
			exp:       Result{Success: true},
		},
		"retail stow blocks combat pet": {
			activator: withActivePet,
			device:    Device{Name: "Ember Wisp Essence", PetClass: "ember-wisp"},
			exp:       Result{Reason: "Wisp is already active"},
		},
		"retail stow blocks unknown class": {
			activator: withActivePet,
			device:    unknown,
			exp:       Result{Reason: "Wisp is already active"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := settings.Defaults()
			if tt.modify != nil {
				tt.modify(s)
			}
			met, err := observe.NewMetrics(noop.NewMeterProvider())
			if err != nil {
				t.Fatalf("NewMetrics: %v", err)
			}
			opts := []ActivatorOpt{WithActivatorMetrics(met)}
			if tt.base != nil {
				opts = append(opts, WithRequirements(mockRequirements{res: *tt.base}))
			}
			notify := &mockNotifier{}
			a := NewActivator(s, catalog, notify, opts...)

			got := a.CheckUseRequirements(tt.activator(), tt.device)

			testutil.AssertEqual(t, "result", got, tt.exp)
			testutil.AssertEqual(t, "notified", len(notify.sent) == 1, tt.exp.Reason != "")
		})
	}
}

func withActivePet() *entity.Entity {
	p := entity.NewPlayer("p", "Pat")
	p.Player.ActivePet = entity.NewCombatPet("wisp", "Wisp", p)
	return p
}
