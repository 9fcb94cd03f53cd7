package world

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
)

func TestDeathEffects_InflictVitae(t *testing.T) {
	tests := map[string]struct {
		start float64
		exp   float64
	}{
		"fresh":      {start: 1, exp: 0.95},
		"at floor":   {start: 0.6, exp: 0.6},
		"near floor": {start: 0.62, exp: 0.6},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDeathEffects(newTestWorld(t), entity.Position{})
			p := entity.NewPlayer("p", "Pat")
			p.Player.Vitae = tt.start

			d.InflictVitae(p)
			testutil.AssertEqual(t, "vitae", p.Player.Vitae, tt.exp)
		})
	}
}

func TestDeathEffects_PurgeEnchantments(t *testing.T) {
	d := NewDeathEffects(newTestWorld(t), entity.Position{})
	p := entity.NewPlayer("p", "Pat")
	p.Player.Enchantments = []string{"Strength Self VI"}

	d.PurgeEnchantments(p)
	testutil.AssertEqual(t, "enchantments", len(p.Player.Enchantments), 0)
}

func TestDeathEffects_CreateCorpse(t *testing.T) {
	w := newTestWorld(t)
	d := NewDeathEffects(w, entity.Position{})
	victim := entity.NewPlayer("v", "Vic")
	victim.Position = entity.Position{Cell: testCell, X: 12, Y: 34}
	_ = w.Spawn(victim)

	d.CreateCorpse(victim, combat.NewDamageInfo(entity.NewPlayer("k", "Kay")), false)

	var corpse *entity.Entity
	for _, e := range w.Nearby(victim) {
		if strings.HasPrefix(e.Name, "Corpse of") {
			corpse = e
		}
	}
	if corpse == nil {
		t.Fatal("expected a corpse near the victim")
	}
	testutil.AssertEqual(t, "name", corpse.Name, "Corpse of Vic")
	testutil.AssertEqual(t, "static", corpse.Static, true)
	testutil.AssertEqual(t, "position", corpse.Position, victim.Position)
}

func TestDeathEffects_TeleportOnDeath(t *testing.T) {
	lifestone := entity.Position{Cell: 0xA9B40019, X: 84, Y: 7}
	w := newTestWorld(t)
	d := NewDeathEffects(w, lifestone)
	victim := entity.NewPlayer("v", "Vic")
	_ = w.Spawn(victim)

	d.TeleportOnDeath(victim)
	testutil.AssertEqual(t, "position", victim.Position, lifestone)
}
