package visibility

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-summoners/internal/entity"
)

func ids(es []*entity.Entity) []entity.ID {
	out := make([]entity.ID, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	owner := entity.NewPlayer("owner", "Owner")
	player := entity.NewPlayer("player", "Player")
	pkPlayer := entity.NewPlayer("pk", "Killer")
	pkPlayer.PKStatus = entity.PK
	pet := entity.NewCombatPet("pet", "Pet", owner)
	drudge := &entity.Entity{ID: "drudge", Category: entity.CategoryMonster, CreatureType: "drudge"}
	olthoi := &entity.Entity{ID: "olthoi", Category: entity.CategoryMonster, CreatureType: "olthoi", FoeType: "drudge"}
	red := &entity.Entity{ID: "red", Category: entity.CategoryFactionMob, Faction: 1}
	blue := &entity.Entity{ID: "blue", Category: entity.CategoryFactionMob, Faction: 2}
	door := &entity.Entity{ID: "door", Category: entity.CategoryOther}

	all := []*entity.Entity{player, pkPlayer, pet, drudge, olthoi, red, blue, door}

	pkDrudge := &entity.Entity{ID: "pkdrudge", Category: entity.CategoryMonster, CreatureType: "drudge", PKStatus: entity.PK}

	tests := map[string]struct {
		kind     Kind
		observer *entity.Entity
		exp      []entity.ID
	}{
		"all returns input": {
			kind:     KindAll,
			observer: drudge,
			exp:      ids(all),
		},
		"unknown kind returns input": {
			kind:     Kind(42),
			observer: drudge,
			exp:      ids(all),
		},
		"players only": {
			kind:     KindPlayers,
			observer: drudge,
			exp:      []entity.ID{"player", "pk"},
		},
		"combat pet hunts monsters and pks": {
			kind:     KindAttackTargets,
			observer: pet,
			exp:      []entity.ID{"pk", "drudge", "olthoi", "red", "blue"},
		},
		"faction mob skips its own faction": {
			kind:     KindAttackTargets,
			observer: red,
			exp:      []entity.ID{"player", "pk", "pet", "drudge", "olthoi", "blue"},
		},
		"plain creature": {
			kind:     KindAttackTargets,
			observer: drudge,
			exp:      []entity.ID{"player", "pk", "pet", "olthoi", "red", "blue"},
		},
		"pk creature ignores pets": {
			kind:     KindAttackTargets,
			observer: pkDrudge,
			exp:      []entity.ID{"player", "pk", "olthoi", "red", "blue"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ApplyFilter(all, tt.kind, tt.observer)
			testutil.AssertEqual(t, "count", len(got), len(tt.exp))
			for i, id := range ids(got) {
				if i < len(tt.exp) {
					testutil.AssertEqual(t, "id", id, tt.exp[i])
				}
			}
		})
	}
}

func TestApplyFilter_Missing(t *testing.T) {
	p := entity.NewPlayer("b", "Bob")
	m := &entity.Entity{ID: "m", Category: entity.CategoryMonster}

	tests := map[string]struct {
		kind     Kind
		observer *entity.Entity
		exp      int
	}{
		"players skip nil":        {kind: KindPlayers, observer: m, exp: 1},
		"attack targets skip nil": {kind: KindAttackTargets, observer: m, exp: 1},
		"no observer":             {kind: KindAttackTargets, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ApplyFilter([]*entity.Entity{nil, p}, tt.kind, tt.observer)
			testutil.AssertEqual(t, "count", len(got), tt.exp)
		})
	}
}
