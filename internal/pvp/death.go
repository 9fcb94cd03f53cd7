package pvp

import (
	"log/slog"
	"time"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
)

const (
	msgSuicide       = "You have killed yourself!"
	msgAugmentations = "Your augmentation prevents the tides of death from ripping away your current enchantments!"
)

// DeathEffects applies the world side of a player death.
type DeathEffects interface {
	InflictVitae(victim *entity.Entity)
	PurgeEnchantments(victim *entity.Entity)
	CreateCorpse(victim *entity.Entity, killer *combat.DamageInfo, hadVitae bool)
	TeleportOnDeath(victim *entity.Entity)
}

// Scheduler runs fn once d has passed on the world tick.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Graph forgets an entity that has left the world.
type Graph interface {
	RemoveEntity(id entity.ID)
}

// DeathHandler runs a player's death: bookkeeping, PvP resolution, penalties
// and the delayed corpse and teleport.
type DeathHandler struct {
	resolver  *Resolver
	history   *combat.History
	effects   DeathEffects
	sched     Scheduler
	graph     Graph
	msg       Messenger
	animation time.Duration
}

func NewDeathHandler(
	resolver *Resolver,
	history *combat.History,
	effects DeathEffects,
	sched Scheduler,
	graph Graph,
	msg Messenger,
	animation time.Duration,
) *DeathHandler {
	return &DeathHandler{
		resolver:  resolver,
		history:   history,
		effects:   effects,
		sched:     sched,
		graph:     graph,
		msg:       msg,
		animation: animation,
	}
}

// Die handles the death of a player. Non-players are ignored.
func (h *DeathHandler) Die(ev combat.DeathEvent) Outcome {
	victim := ev.Victim
	p := victim.Player
	if p == nil {
		return Outcome{}
	}

	top := ev.TopDamager
	summoned := top.IsSummoned()

	p.InDeathProcess = true

	// A PK finishing themselves off still credits whoever hurt them most.
	if top != nil && top.ID == victim.ID && victim.IsPKType() {
		if other := h.history.TopDamager(victim.ID, false); other.IsPlayer() {
			top = other
		}
	}

	p.NumDeaths++
	p.Busy = true
	if top != nil {
		p.KillerID = top.ID
	}

	if ev.IsSuicide() {
		h.send(victim.ID, msgSuicide)
	}

	outcome := h.resolver.HandlePKDeathBroadcast(victim, ev.LastDamager, top)

	hadVitae := p.Vitae < 1
	pkDeath := h.resolver.IsPKDeath(victim, top)
	pkLiteDeath := h.resolver.IsPKLiteDeath(victim, top)

	// Lite deaths carry no vitae.
	if !pkLiteDeath {
		h.effects.InflictVitae(victim)
	}

	if summoned || pkDeath || !p.AugSpellsRemainPastDeath {
		h.effects.PurgeEnchantments(victim)
	} else {
		h.send(victim.ID, msgAugmentations)
	}

	startRespite := summoned || pkDeath || pkLiteDeath
	h.sched.After(h.animation+time.Second, func() {
		h.effects.CreateCorpse(victim, top, hadVitae)
		h.graph.RemoveEntity(victim.ID)
		h.history.Forget(victim.ID)
		h.effects.TeleportOnDeath(victim)

		// The victim sits out as NPK until the respite restores their level.
		if startRespite {
			var elapsed time.Duration
			p.RespiteElapsed = &elapsed
			victim.PKStatus = entity.NotPK
		}

		p.Busy = false
		p.InDeathProcess = false
	})

	return outcome
}

func (h *DeathHandler) send(id entity.ID, msg string) {
	if err := h.msg.SendToPlayer(id, msg); err != nil {
		slog.Warn("sending death message", "player", id, "error", err)
	}
}
