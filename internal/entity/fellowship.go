package entity

import "sync"

// Fellowship is a runtime player group with shared membership. Membership is
// symmetric: every member sees every other member as a fellow.
type Fellowship struct {
	mu       sync.RWMutex
	LeaderID ID
	members  map[ID]*Entity
}

// NewFellowship creates a fellowship led by leader, who is also its first member.
func NewFellowship(leader *Entity) *Fellowship {
	f := &Fellowship{
		LeaderID: leader.ID,
		members:  map[ID]*Entity{leader.ID: leader},
	}
	leader.Fellowship = f
	return f
}

// AddMember adds a player to the fellowship.
func (f *Fellowship) AddMember(e *Entity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[e.ID] = e
	e.Fellowship = f
}

// RemoveMember removes a player from the fellowship.
// Returns true if the player was a member.
func (f *Fellowship) RemoveMember(e *Entity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[e.ID]; !ok {
		return false
	}
	delete(f.members, e.ID)
	if e.Fellowship == f {
		e.Fellowship = nil
	}
	return true
}

// HasMember reports whether id is a member of the fellowship.
func (f *Fellowship) HasMember(id ID) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.members[id]
	return ok
}

// ForEachMember calls fn for each member of the fellowship.
func (f *Fellowship) ForEachMember(fn func(*Entity)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, m := range f.members {
		fn(m)
	}
}
