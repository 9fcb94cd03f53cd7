package combat

import "github.com/pixil98/go-summoners/internal/entity"

// DeathEvent carries the attribution for a single death.
type DeathEvent struct {
	Victim      *entity.Entity
	LastDamager *DamageInfo
	TopDamager  *DamageInfo
}

// DeathOf builds the death event for victim from its recorded damage.
func (h *History) DeathOf(victim *entity.Entity) DeathEvent {
	return DeathEvent{
		Victim:      victim,
		LastDamager: h.LastDamager(victim.ID),
		TopDamager:  h.TopDamager(victim.ID, true),
	}
}

// IsSuicide reports whether the victim landed the final blow.
func (e DeathEvent) IsSuicide() bool {
	return e.LastDamager != nil && e.LastDamager.ID == e.Victim.ID
}
