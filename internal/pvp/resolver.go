// Package pvp decides how player deaths count towards player-killer records
// and runs the death sequence around that decision.
package pvp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pixil98/go-summoners/internal/combat"
	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
	"github.com/pixil98/go-summoners/internal/settings"
)

// DeathTag is appended to every global PK death broadcast.
const DeathTag = "[PKDe]"

// Messenger delivers chat text. Delivery is fire-and-forget.
type Messenger interface {
	Broadcast(msg string) error
	SendToPlayer(id entity.ID, msg string) error
}

// Kind classifies a resolved death.
type Kind int

const (
	KindNone Kind = iota
	KindPK
	KindPKLite
)

func (k Kind) String() string {
	switch k {
	case KindPK:
		return "pk"
	case KindPKLite:
		return "pklite"
	default:
		return "none"
	}
}

// Outcome is the result of resolving one death.
type Outcome struct {
	Kind Kind
	// Attacker is the player credited with the kill, if any.
	Attacker *entity.Entity
	// Message is the broadcast text for PK kills.
	Message string
}

type broadcastData struct {
	Killer string
	Victim string
	Coords string
}

// Resolver attributes player deaths to player killers.
type Resolver struct {
	msg     Messenger
	tmpl    *template.Template
	now     func() time.Time
	metrics *observe.Metrics
}

type ResolverOpt func(*Resolver)

// WithClock replaces time.Now for kill timestamps.
func WithClock(now func() time.Time) ResolverOpt {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithResolverMetrics records to m instead of the package default.
func WithResolverMetrics(m *observe.Metrics) ResolverOpt {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func NewResolver(s *settings.Settings, msg Messenger, opts ...ResolverOpt) (*Resolver, error) {
	tmpl, err := s.ParseBroadcastTemplate()
	if err != nil {
		return nil, fmt.Errorf("parsing broadcast template: %w", err)
	}

	r := &Resolver{
		msg:  msg,
		tmpl: tmpl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r, nil
}

// IsPKDeath reports whether a player killer other than the victim landed the
// top damage on a PK victim.
func (r *Resolver) IsPKDeath(victim *entity.Entity, top *combat.DamageInfo) bool {
	return victim.PKStatus == entity.PK && top.IsPlayer() && top.ID != victim.ID
}

// IsPKLiteDeath is IsPKDeath for the lite ruleset.
func (r *Resolver) IsPKLiteDeath(victim *entity.Entity, top *combat.DamageInfo) bool {
	return victim.PKStatus == entity.PKLite && top.IsPlayer() && top.ID != victim.ID
}

// HandlePKDeathBroadcast credits the killer of victim and announces PK kills.
// A kill by a combat pet is credited to its owner and always counts as PK.
func (r *Resolver) HandlePKDeathBroadcast(victim *entity.Entity, last, top *combat.DamageInfo) Outcome {
	summoned := top.IsSummoned()
	if !top.IsPlayer() && !summoned {
		return Outcome{}
	}

	killer := top.OwnerOrAttacker()
	if killer == nil || !killer.IsPlayer() || killer.Player == nil {
		return Outcome{}
	}

	switch {
	case summoned || r.IsPKDeath(victim, top):
		killer.Player.PKTimestamp = r.now()
		killer.Player.PlayerKillsPK++

		msg := r.render(victim, killer)
		if err := r.msg.Broadcast(msg); err != nil {
			slog.Warn("broadcasting pk death", "victim", victim.ID, "killer", killer.ID, "error", err)
		}
		r.count(KindPK)
		return Outcome{Kind: KindPK, Attacker: killer, Message: msg}

	case r.IsPKLiteDeath(victim, top):
		killer.Player.PlayerKillsPKL++
		r.count(KindPKLite)
		return Outcome{Kind: KindPKLite, Attacker: killer}
	}

	return Outcome{}
}

func (r *Resolver) render(victim, killer *entity.Entity) string {
	data := broadcastData{
		Killer: killer.Name,
		Victim: victim.Name,
		Coords: victim.Position.MapCoordString(),
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		slog.Warn("rendering pk broadcast", "error", err)
		sb.Reset()
		fmt.Fprintf(&sb, "%s has defeated %s!", killer.Name, victim.Name)
	}
	sb.WriteString("\n")
	sb.WriteString(DeathTag)
	return sb.String()
}

func (r *Resolver) count(k Kind) {
	r.metrics.Kills.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", k.String())))
}
