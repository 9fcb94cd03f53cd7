package visibility

import (
	"slices"
	"strings"

	"github.com/pixil98/go-summoners/internal/entity"
)

// AddKnownObject records that observer has noticed e. It reports whether e was
// new.
func (m *Maintainer) AddKnownObject(observer, e *entity.Entity) bool {
	if observer == nil || e == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.node(observer.ID)
	if _, ok := n.known[e.ID]; ok {
		return false
	}
	n.known[e.ID] = e
	return true
}

// SyncKnown replaces observer's known objects with nearby. Entities that left
// are dropped from both sets.
func (m *Maintainer) SyncKnown(observer *entity.Entity, nearby []*entity.Entity) (entered, left []*entity.Entity) {
	if observer == nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.node(observer.ID)
	present := make(map[entity.ID]struct{}, len(nearby))
	for _, e := range nearby {
		if e == nil || e == observer {
			continue
		}
		present[e.ID] = struct{}{}
		if _, ok := n.known[e.ID]; !ok {
			n.known[e.ID] = e
			entered = append(entered, e)
		}
	}

	for id, e := range n.known {
		if _, ok := present[id]; ok {
			continue
		}
		delete(n.known, id)
		delete(n.visible, id)
		left = append(left, e)
	}
	sortByID(entered)
	sortByID(left)
	return entered, left
}

// RemoveKnownObject drops e from observer's known objects and visible targets.
func (m *Maintainer) RemoveKnownObject(observer, e *entity.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[observer.ID]; ok {
		delete(n.known, e.ID)
		delete(n.visible, e.ID)
	}
}

// RemoveVisibleTarget stops observer targeting e. e stays known.
func (m *Maintainer) RemoveVisibleTarget(observer, e *entity.Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[observer.ID]; ok {
		delete(n.visible, e.ID)
	}
}

// RemoveEntity forgets id entirely, including every edge pointing at it.
func (m *Maintainer) RemoveEntity(id entity.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.nodes, id)
	for _, n := range m.nodes {
		delete(n.known, id)
		delete(n.visible, id)
	}
}

// KnownObjects returns observer's known objects ordered by id.
func (m *Maintainer) KnownObjects(observer *entity.Entity) []*entity.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[observer.ID]
	if !ok {
		return nil
	}
	return values(n.known)
}

// VisibleTargets returns observer's visible targets ordered by id.
func (m *Maintainer) VisibleTargets(observer *entity.Entity) []*entity.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[observer.ID]
	if !ok {
		return nil
	}
	return values(n.visible)
}

// VisibleObjects returns observer's known objects filtered for kind.
func (m *Maintainer) VisibleObjects(observer *entity.Entity, kind Kind) []*entity.Entity {
	return ApplyFilter(m.KnownObjects(observer), kind, observer)
}

func (m *Maintainer) IsKnown(observer *entity.Entity, id entity.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[observer.ID]
	if !ok {
		return false
	}
	_, ok = n.known[id]
	return ok
}

func (m *Maintainer) IsVisibleTarget(observer *entity.Entity, id entity.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[observer.ID]
	if !ok {
		return false
	}
	_, ok = n.visible[id]
	return ok
}

func values(set map[entity.ID]*entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	sortByID(out)
	return out
}

func sortByID(es []*entity.Entity) {
	slices.SortFunc(es, func(a, b *entity.Entity) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
