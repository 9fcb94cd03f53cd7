// Package visibility maintains, for every entity, the set of entities it knows
// about and the subset it actively targets.
//
// Edges are not symmetric. Insertion rules depend on the observer's category
// and may add the inverse edge on another entity as a side effect.
package visibility

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/observe"
)

// Rejection reasons recorded on the targets_rejected counter.
const (
	reasonNotHostile     = "not_hostile"
	reasonAlly           = "ally"
	reasonClassification = "classification_error"
	reasonSameFaction    = "same_faction"
	reasonInverseOnly    = "inverse_only"
	reasonNotTrackable   = "not_trackable"
	reasonStatic         = "static"
	reasonRangeClamp     = "range_clamp"
	reasonDuplicate      = "duplicate"
)

// Config holds the policy values the maintainer reads.
type Config struct {
	// InitialClamp limits first sight of a player to InitialClampDistSq.
	InitialClamp       bool
	InitialClampDistSq float64
}

type node struct {
	known   map[entity.ID]*entity.Entity
	visible map[entity.ID]*entity.Entity
}

func newNode() *node {
	return &node{
		known:   map[entity.ID]*entity.Entity{},
		visible: map[entity.ID]*entity.Entity{},
	}
}

func (n *node) knows(id entity.ID) bool {
	if n == nil {
		return false
	}
	_, ok := n.known[id]
	return ok
}

func (n *node) targets(id entity.ID) bool {
	if n == nil {
		return false
	}
	_, ok := n.visible[id]
	return ok
}

// Maintainer owns the visibility graph. All methods are safe for concurrent
// use; a single lock covers both ends of an inverse edge.
type Maintainer struct {
	mu      sync.Mutex
	cfg     Config
	nodes   map[entity.ID]*node
	metrics *observe.Metrics
}

// MaintainerOpt configures a Maintainer.
type MaintainerOpt func(*Maintainer)

// WithMetrics records to m instead of the package default.
func WithMetrics(m *observe.Metrics) MaintainerOpt {
	return func(mt *Maintainer) {
		mt.metrics = m
	}
}

func NewMaintainer(cfg Config, opts ...MaintainerOpt) *Maintainer {
	m := &Maintainer{
		cfg:   cfg,
		nodes: map[entity.ID]*node{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = observe.DefaultMetrics()
	}
	return m
}

// TryAddVisibleTarget attempts to make observer target candidate. It returns
// true only when the forward edge was inserted. clamp requests the
// first-sight range check; foeType permits any candidate for a plain creature.
func (m *Maintainer) TryAddVisibleTarget(observer, candidate *entity.Entity, clamp, foeType bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tryAdd(observer, candidate, clamp, foeType)
}

// AddVisibleTargets filters candidates to observer's attack targets and tries
// each one. It returns the candidates that were inserted.
func (m *Maintainer) AddVisibleTargets(observer *entity.Entity, candidates []*entity.Entity, clamp bool) []*entity.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addVisibleTargets(observer, candidates, clamp)
}

func (m *Maintainer) addVisibleTargets(observer *entity.Entity, candidates []*entity.Entity, clamp bool) []*entity.Entity {
	var added []*entity.Entity
	for _, c := range ApplyFilter(candidates, KindAttackTargets, observer) {
		if c == observer {
			continue
		}
		if m.tryAdd(observer, c, clamp, false) {
			added = append(added, c)
		}
	}
	return added
}

// addInverse makes target try to track observer. Only the insertion rules
// apply, not the attack filter, and the first-sight clamp is always requested.
// Recursion stops at the first rejection or existing edge.
func (m *Maintainer) addInverse(target, observer *entity.Entity) {
	if target == observer {
		return
	}
	m.tryAdd(target, observer, true, false)
}

func (m *Maintainer) tryAdd(observer, candidate *entity.Entity, clamp, foeType bool) bool {
	if observer == nil || candidate == nil {
		slog.Warn("treating missing entity as rejection", "observer", idOf(observer), "candidate", idOf(candidate))
		m.metrics.ClassificationErrors.Add(context.Background(), 1)
		m.metrics.TargetsRejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reasonClassification)))
		return false
	}

	switch {
	case observer.IsCombatPet():
		if !candidate.IsMonster() && !candidate.IsPK() {
			return m.reject(observer, candidate, reasonNotHostile)
		}
		ally, err := safeIsAllyOfPet(candidate, observer)
		if err != nil {
			slog.Warn("treating failed relation check as rejection",
				"observer", observer.ID, "candidate", candidate.ID, "error", err)
			m.metrics.ClassificationErrors.Add(context.Background(), 1)
			return m.reject(observer, candidate, reasonClassification)
		}
		if ally {
			return m.reject(observer, candidate, reasonAlly)
		}

	case observer.IsFactionMob():
		if !candidate.IsPlayer() && !candidate.IsCombatPet() &&
			(!candidate.IsMonster() || entity.SameFaction(observer, candidate)) {
			return m.reject(observer, candidate, reasonSameFaction)
		}

	default:
		// Faction mobs discover plain creatures without being tracked back.
		if candidate.IsFactionMob() {
			m.addInverse(candidate, observer)
			return m.reject(observer, candidate, reasonInverseOnly)
		}
		// One-sided foe: only the hunter tracks its prey.
		if candidate.FoeType != "" && candidate.FoeType == observer.CreatureType &&
			(observer.FoeType == "" || observer.FoeType != candidate.CreatureType) {
			m.addInverse(candidate, observer)
			return m.reject(observer, candidate, reasonInverseOnly)
		}
		if !candidate.IsPlayer() && !candidate.IsCombatPet() && observer.FoeType == "" && !foeType {
			return m.reject(observer, candidate, reasonNotTrackable)
		}
	}

	if observer.Static {
		return m.reject(observer, candidate, reasonStatic)
	}

	// Nothing is created until the insertion is certain.
	n := m.nodes[observer.ID]

	if clamp && m.cfg.InitialClamp && candidate.IsPlayer() {
		if !n.knows(candidate.ID) &&
			observer.Position.Distance2DSquared(candidate.Position) > m.cfg.InitialClampDistSq {
			return m.reject(observer, candidate, reasonRangeClamp)
		}
	}

	if n.targets(candidate.ID) {
		return m.reject(observer, candidate, reasonDuplicate)
	}

	n = m.node(observer.ID)
	n.visible[candidate.ID] = candidate
	n.known[candidate.ID] = candidate
	m.metrics.TargetsAdded.Add(context.Background(), 1)

	// Players are tracked one way; everything else tracks back.
	if !candidate.IsPlayer() {
		m.addInverse(candidate, observer)
	}
	return true
}

func (m *Maintainer) reject(observer, candidate *entity.Entity, reason string) bool {
	slog.Debug("visible target rejected", "observer", observer.ID, "candidate", candidate.ID, "reason", reason)
	m.metrics.TargetsRejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
	return false
}

// safeIsAllyOfPet converts a panic during classification into an error.
func safeIsAllyOfPet(observer, pet *entity.Entity) (ally bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ally = false
			err = fmt.Errorf("classifying %s against %s: %v", observer.ID, pet.ID, r)
		}
	}()
	return entity.IsAllyOfPet(observer, pet)
}

func idOf(e *entity.Entity) entity.ID {
	if e == nil {
		return ""
	}
	return e.ID
}

func (m *Maintainer) node(id entity.ID) *node {
	n, ok := m.nodes[id]
	if !ok {
		n = newNode()
		m.nodes[id] = n
	}
	return n
}
