package combat

import "github.com/pixil98/go-summoners/internal/entity"

// DamageInfo attributes damage to an attacker. It is captured when the damage
// lands so later changes to the attacker do not rewrite history.
type DamageInfo struct {
	ID       entity.ID
	Name     string
	Category entity.Category

	// Entity is the attacker itself.
	Entity *entity.Entity
	// PetOwner is set when the attacker is a combat pet.
	PetOwner *entity.Entity
}

// NewDamageInfo captures attribution for attacker.
func NewDamageInfo(attacker *entity.Entity) *DamageInfo {
	di := &DamageInfo{
		ID:       attacker.ID,
		Name:     attacker.Name,
		Category: attacker.Category,
		Entity:   attacker,
	}
	if attacker.IsCombatPet() {
		di.PetOwner = attacker.Owner
	}
	return di
}

// IsPlayer reports whether the attacker was a player when the damage landed.
func (d *DamageInfo) IsPlayer() bool {
	return d != nil && d.Category == entity.CategoryPlayer
}

// IsSummoned reports whether the damage came from a pet with a known owner.
func (d *DamageInfo) IsSummoned() bool {
	return d != nil && d.PetOwner != nil
}

// OwnerOrAttacker resolves a pet to its owner, otherwise the attacker.
func (d *DamageInfo) OwnerOrAttacker() *entity.Entity {
	if d == nil {
		return nil
	}
	if d.PetOwner != nil {
		return d.PetOwner
	}
	return d.Entity
}
