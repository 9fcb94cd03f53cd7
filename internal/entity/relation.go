package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOwner is returned when a combat pet has no owning player.
	ErrMissingOwner = errors.New("combat pet has no owner")
)

// IsPetOwner reports whether player summoned pet.
func IsPetOwner(pet, player *Entity) bool {
	return pet.Owner != nil && pet.Owner == player
}

// IsAllegianceMate reports whether both players are sworn to the same monarch.
func IsAllegianceMate(a, b *Entity) bool {
	if a == nil || b == nil {
		return false
	}
	return a.MonarchID != "" && b.MonarchID != "" && a.MonarchID == b.MonarchID
}

// IsFellowshipMate reports whether b is in a's fellowship.
func IsFellowshipMate(a, b *Entity) bool {
	if a == nil || b == nil || a.Fellowship == nil {
		return false
	}
	return a.Fellowship.HasMember(b.ID)
}

// IsAllyOfPet reports whether observer is friendly towards pet's side.
//
// A pet observer is an ally when the two owners share an allegiance or
// fellowship. A player observer is an ally when they own the pet or share an
// allegiance or fellowship with its owner. Everything else is never an ally.
func IsAllyOfPet(observer, pet *Entity) (bool, error) {
	if !pet.IsCombatPet() {
		return false, nil
	}
	owner := pet.Owner
	if owner == nil {
		return false, fmt.Errorf("classifying %s: %w", pet, ErrMissingOwner)
	}

	switch observer.Category {
	case CategoryCombatPet:
		if observer.Owner == nil {
			return false, fmt.Errorf("classifying %s: %w", observer, ErrMissingOwner)
		}
		return IsAllegianceMate(observer.Owner, owner) || IsFellowshipMate(owner, observer.Owner), nil
	case CategoryPlayer:
		return IsPetOwner(pet, observer) || IsAllegianceMate(observer, owner) || IsFellowshipMate(owner, observer), nil
	default:
		return false, nil
	}
}

// SameFaction reports whether two faction mobs fight for the same side.
func SameFaction(a, b *Entity) bool {
	return a.IsFactionMob() && b.IsFactionMob() && a.Faction == b.Faction
}

// IsPotentialFoe reports whether candidate always hunts observer's creature
// type. Same-faction pairs are never foes.
func IsPotentialFoe(candidate, observer *Entity) bool {
	if candidate.FoeType == "" || candidate.FoeType != observer.CreatureType {
		return false
	}
	return !SameFaction(candidate, observer)
}
