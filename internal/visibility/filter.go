package visibility

import (
	"fmt"

	"github.com/pixil98/go-summoners/internal/entity"
)

// Kind selects which subset of nearby entities a query is interested in.
type Kind int

const (
	// KindAll returns candidates unchanged.
	KindAll Kind = iota
	// KindPlayers keeps only players.
	KindPlayers
	// KindAttackTargets keeps what the observer would fight.
	KindAttackTargets
)

func (k Kind) String() string {
	switch k {
	case KindPlayers:
		return "players"
	case KindAttackTargets:
		return "attack_targets"
	case KindAll:
		return "all"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ApplyFilter returns the subset of candidates relevant to observer for kind.
// The input slice is never modified. Player and attack target queries drop
// nil candidates, and a nil observer has no attack targets.
func ApplyFilter(candidates []*entity.Entity, kind Kind, observer *entity.Entity) []*entity.Entity {
	switch kind {
	case KindPlayers:
		return keep(candidates, func(c *entity.Entity) bool { return c.IsPlayer() })
	case KindAttackTargets:
		if observer == nil {
			return nil
		}
		return keep(candidates, func(c *entity.Entity) bool { return isAttackTarget(observer, c) })
	default:
		return candidates
	}
}

func isAttackTarget(observer, c *entity.Entity) bool {
	switch {
	case observer.IsCombatPet():
		return c.IsMonster() || c.IsPK()
	case observer.IsFactionMob():
		return c.IsPlayer() || c.IsCombatPet() || (c.IsMonster() && !entity.SameFaction(observer, c))
	default:
		// PK creatures leave pets alone.
		return c.IsPlayer() ||
			(c.IsCombatPet() && observer.PKStatus != entity.PK) ||
			c.IsFactionMob() ||
			entity.IsPotentialFoe(c, observer)
	}
}

func keep(candidates []*entity.Entity, fn func(*entity.Entity) bool) []*entity.Entity {
	out := make([]*entity.Entity, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && fn(c) {
			out = append(out, c)
		}
	}
	return out
}
