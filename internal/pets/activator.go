// Package pets checks whether a player may use a pet summoning device.
package pets

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/settings"
)

// Device is a pet summoning device.
type Device struct {
	Name string `json:"name"`
	// SummoningMastery restricts use to one mastery. Empty means anyone.
	SummoningMastery string `json:"summoning_mastery,omitempty"`
	// PetClass is the template the device summons.
	PetClass string `json:"pet_class"`
}

// Result reports whether activation may proceed. Reason is shown to the
// player on failure and may be empty.
type Result struct {
	Success bool
	Reason  string
}

func ok() Result { return Result{Success: true} }

func fail(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Catalog resolves the category of the pet a device summons.
type Catalog interface {
	PetCategory(class string) (entity.Category, bool)
}

// Requirements are the generic use checks shared by every usable item.
type Requirements interface {
	CheckUseRequirements(activator *entity.Entity) Result
}

// Notifier tells a player why their activation failed.
type Notifier interface {
	SendToPlayer(id entity.ID, msg string) error
}

type Activator struct {
	settings *settings.Settings
	catalog  Catalog
	base     Requirements
	notify   Notifier
	metrics  *observe.Metrics
}

type ActivatorOpt func(*Activator)

// WithRequirements adds generic use checks run before the pet checks.
func WithRequirements(r Requirements) ActivatorOpt {
	return func(a *Activator) {
		a.base = r
	}
}

// WithActivatorMetrics records to m instead of the package default.
func WithActivatorMetrics(m *observe.Metrics) ActivatorOpt {
	return func(a *Activator) {
		a.metrics = m
	}
}

func NewActivator(s *settings.Settings, catalog Catalog, notify Notifier, opts ...ActivatorOpt) *Activator {
	a := &Activator{
		settings: s,
		catalog:  catalog,
		notify:   notify,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a
}

// CheckUseRequirements decides whether activator may use device. Failures
// with a reason are also sent to the player.
func (a *Activator) CheckUseRequirements(activator *entity.Entity, device Device) Result {
	res := a.check(activator, device)

	a.metrics.Activations.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("success", res.Success)))
	if !res.Success && res.Reason != "" {
		if err := a.notify.SendToPlayer(activator.ID, res.Reason); err != nil {
			slog.Warn("sending activation failure", "player", activator.ID, "error", err)
		}
	}
	return res
}

func (a *Activator) check(activator *entity.Entity, device Device) Result {
	if !activator.IsPlayer() || activator.Player == nil {
		return Result{}
	}
	p := activator.Player

	if a.base != nil {
		if res := a.base.CheckUseRequirements(activator); !res.Success {
			return res
		}
	}

	if !a.settings.IgnoreSummonerMasteries && device.SummoningMastery != "" && p.SummoningMastery != device.SummoningMastery {
		return fail("You must be a %s to use the %s", device.SummoningMastery, device.Name)
	}

	// The device cooldown can expire while the previous pet is still alive.
	if p.ActivePet != nil && p.ActivePet.IsCombatPet() {
		if a.settings.PetStowReplace {
			return fail("%s is already active", p.ActivePet.Name)
		}
		// Retail stow: only a passive pet may be summoned alongside.
		if cat, found := a.catalog.PetCategory(device.PetClass); !found || cat != entity.CategoryPet {
			return fail("%s is already active", p.ActivePet.Name)
		}
	}

	return ok()
}
