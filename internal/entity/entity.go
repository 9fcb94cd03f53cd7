package entity

import (
	"fmt"
	"time"
)

// ID uniquely identifies an entity for the lifetime of the world.
type ID string

func (id ID) String() string {
	return string(id)
}

// Category tags the kind of actor an entity is.
type Category int

const (
	CategoryOther Category = iota
	CategoryPlayer
	CategoryMonster
	CategoryCombatPet
	CategoryFactionMob
	// CategoryPet is a passive, non-combat pet.
	CategoryPet
)

var categoryNames = map[Category]string{
	CategoryOther:      "other",
	CategoryPlayer:     "player",
	CategoryMonster:    "monster",
	CategoryCombatPet:  "combat_pet",
	CategoryFactionMob: "faction_mob",
	CategoryPet:        "pet",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c *Category) UnmarshalText(text []byte) error {
	for k, v := range categoryNames {
		if v == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown category: %s", text)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// PKStatus is an entity's current player-killer flag.
type PKStatus int

const (
	NotPK PKStatus = iota
	PK
	PKLite
)

func (s PKStatus) String() string {
	switch s {
	case PK:
		return "pk"
	case PKLite:
		return "pklite"
	default:
		return "npk"
	}
}

// PKLevel is the status a player returns to once their respite expires.
type PKLevel int

const (
	LevelNPK PKLevel = iota
	LevelPK
	LevelPKLite
)

// Entity is any simulated actor tracked by the world. Entities are owned by the
// world; fields are mutated only from the world tick.
type Entity struct {
	ID       ID
	Name     string
	Category Category

	// CreatureType is matched against other entities' FoeType.
	CreatureType string
	// FoeType makes this entity hostile to every creature of that type,
	// regardless of faction.
	FoeType string
	// Faction is only meaningful for faction mobs. Zero means none.
	Faction int

	// Static entities never track anything dynamically.
	Static bool

	Position Position
	PKStatus PKStatus

	// Owner is the summoning player of a combat pet.
	Owner *Entity
	// MonarchID identifies the allegiance of a player. Empty when unsworn.
	MonarchID ID
	// Fellowship is nil when the player is not in one.
	Fellowship *Fellowship

	// Player is non-nil for player entities.
	Player *PlayerState
}

// PlayerState holds the player-only bookkeeping touched by death and PK handling.
type PlayerState struct {
	PKLevel        PKLevel
	PlayerKillsPK  int
	PlayerKillsPKL int
	PKTimestamp    time.Time

	// RespiteElapsed is nil when no PK respite is running.
	RespiteElapsed  *time.Duration
	RecallsDisabled bool

	NumDeaths      int
	KillerID       ID
	InDeathProcess bool
	Busy           bool

	SummoningMastery string
	ActivePet        *Entity

	// Vitae is a health multiplier; 1 means no penalty.
	Vitae                    float64
	Enchantments             []string
	AugSpellsRemainPastDeath bool
}

// NewPlayer creates a player entity with fresh player state.
func NewPlayer(id ID, name string) *Entity {
	return &Entity{
		ID:       id,
		Name:     name,
		Category: CategoryPlayer,
		Player:   &PlayerState{Vitae: 1},
	}
}

// NewCombatPet creates a combat pet summoned by owner.
func NewCombatPet(id ID, name string, owner *Entity) *Entity {
	return &Entity{
		ID:       id,
		Name:     name,
		Category: CategoryCombatPet,
		Owner:    owner,
	}
}

func (e *Entity) IsPlayer() bool     { return e.Category == CategoryPlayer }
func (e *Entity) IsCombatPet() bool  { return e.Category == CategoryCombatPet }
func (e *Entity) IsFactionMob() bool { return e.Category == CategoryFactionMob }
func (e *Entity) IsPK() bool         { return e.PKStatus == PK }

// IsMonster reports whether the entity is a hostile creature. Faction mobs are
// monsters that also carry a faction.
func (e *Entity) IsMonster() bool {
	return e.Category == CategoryMonster || e.Category == CategoryFactionMob
}

// IsPKType reports whether the entity currently takes part in PvP.
func (e *Entity) IsPKType() bool {
	return e.PKStatus == PK || e.PKStatus == PKLite
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, e.ID)
}
