package world

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
)

const (
	vitaePerDeath = 0.05
	vitaeFloor    = 0.6
)

// DeathEffects applies death penalties and the corpse to entities in a World.
type DeathEffects struct {
	world     *World
	lifestone entity.Position
}

func NewDeathEffects(w *World, lifestone entity.Position) *DeathEffects {
	return &DeathEffects{
		world:     w,
		lifestone: lifestone,
	}
}

// InflictVitae lowers the victim's vitae by one death's worth.
func (d *DeathEffects) InflictVitae(victim *entity.Entity) {
	p := victim.Player
	if p == nil {
		return
	}
	p.Vitae = max(p.Vitae-vitaePerDeath, vitaeFloor)
}

func (d *DeathEffects) PurgeEnchantments(victim *entity.Entity) {
	if victim.Player == nil {
		return
	}
	victim.Player.Enchantments = nil
}

// CreateCorpse leaves a static corpse where the victim fell.
func (d *DeathEffects) CreateCorpse(victim *entity.Entity, killer *combat.DamageInfo, hadVitae bool) {
	corpse := &entity.Entity{
		ID:       entity.ID(uuid.New().String()),
		Name:     fmt.Sprintf("Corpse of %s", victim.Name),
		Category: entity.CategoryOther,
		Static:   true,
		Position: victim.Position,
	}
	if err := d.world.Spawn(corpse); err != nil {
		slog.Error("spawning corpse", "victim", victim.ID, "error", err)
		return
	}

	var killerID entity.ID
	if killer != nil {
		killerID = killer.ID
	}
	slog.Info("corpse created",
		"corpse", corpse.ID,
		"victim", victim.ID,
		"killer", killerID,
		"had_vitae", hadVitae)
}

// TeleportOnDeath returns the victim to their lifestone.
func (d *DeathEffects) TeleportOnDeath(victim *entity.Entity) {
	if err := d.world.Move(victim.ID, d.lifestone); err != nil {
		slog.Warn("teleporting on death", "victim", victim.ID, "error", err)
	}
}
