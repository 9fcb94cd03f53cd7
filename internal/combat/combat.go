package combat

import (
	"sync"

	"github.com/pixil98/go-summoners/internal/entity"
)

type contribution struct {
	info  *DamageInfo
	total float64
	seq   int
}

type ledger struct {
	last  *DamageInfo
	by    map[entity.ID]*contribution
	nextN int
}

// History tracks who has damaged whom until the victim dies or heals.
type History struct {
	mu      sync.Mutex
	victims map[entity.ID]*ledger
}

// NewHistory creates an empty damage history.
func NewHistory() *History {
	return &History{
		victims: make(map[entity.ID]*ledger),
	}
}

// Record adds amount of damage dealt by attacker to victim.
func (h *History) Record(victim, attacker *entity.Entity, amount float64) {
	if amount <= 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.victims[victim.ID]
	if !ok {
		l = &ledger{by: make(map[entity.ID]*contribution)}
		h.victims[victim.ID] = l
	}

	info := NewDamageInfo(attacker)
	l.last = info

	c, ok := l.by[attacker.ID]
	if !ok {
		c = &contribution{seq: l.nextN}
		l.nextN++
		l.by[attacker.ID] = c
	}
	c.info = info
	c.total += amount
}

// LastDamager returns whoever hit victim most recently, or nil.
func (h *History) LastDamager(victimID entity.ID) *DamageInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.victims[victimID]
	if !ok {
		return nil
	}
	return l.last
}

// TopDamager returns whoever dealt victim the most damage, or nil. Ties go to
// the earliest attacker. Self-inflicted damage is skipped unless includeSelf.
func (h *History) TopDamager(victimID entity.ID, includeSelf bool) *DamageInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.victims[victimID]
	if !ok {
		return nil
	}

	var top *contribution
	for id, c := range l.by {
		if !includeSelf && id == victimID {
			continue
		}
		if top == nil || c.total > top.total || (c.total == top.total && c.seq < top.seq) {
			top = c
		}
	}
	if top == nil {
		return nil
	}
	return top.info
}

// TotalFrom returns the damage attacker has dealt to victim.
func (h *History) TotalFrom(victimID, attackerID entity.ID) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.victims[victimID]; ok {
		if c, ok := l.by[attackerID]; ok {
			return c.total
		}
	}
	return 0
}

// Forget clears everything recorded against victim.
func (h *History) Forget(victimID entity.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.victims, victimID)
}
