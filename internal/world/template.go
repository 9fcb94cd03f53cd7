package world

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/storage"
)

// Template describes a creature or object the world can spawn.
type Template struct {
	Name         string            `json:"name"`
	Category     entity.Category   `json:"category"`
	CreatureType string            `json:"creature_type,omitempty"`
	FoeType      string            `json:"foe_type,omitempty"`
	Faction      int               `json:"faction,omitempty"`
	Static       bool              `json:"static,omitempty"`
	Spawns       []entity.Position `json:"spawns,omitempty"`
}

func (t *Template) Validate() error {
	el := errors.NewErrorList()

	if t.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	if t.Category == entity.CategoryPlayer {
		el.Add(fmt.Errorf("players cannot be spawned from a template"))
	}

	if t.Faction != 0 && t.Category != entity.CategoryFactionMob {
		el.Add(fmt.Errorf("faction is only valid for faction_mob"))
	}

	if t.Category == entity.CategoryFactionMob && t.Faction == 0 {
		el.Add(fmt.Errorf("faction_mob requires a faction"))
	}

	return el.Err()
}

// Instantiate builds a new entity from the template.
func (t *Template) Instantiate(id entity.ID, pos entity.Position) *entity.Entity {
	return &entity.Entity{
		ID:           id,
		Name:         t.Name,
		Category:     t.Category,
		CreatureType: t.CreatureType,
		FoeType:      t.FoeType,
		Faction:      t.Faction,
		Static:       t.Static,
		Position:     pos,
	}
}

// Catalog looks templates up by id.
type Catalog struct {
	store storage.Storer[*Template]
}

func NewCatalog(store storage.Storer[*Template]) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) Get(id storage.Identifier) (*Template, bool) {
	return c.store.Get(id)
}

// PetCategory reports the category of the pet class a device summons.
func (c *Catalog) PetCategory(class string) (entity.Category, bool) {
	t, ok := c.store.Get(storage.Identifier(class))
	if !ok {
		return entity.CategoryOther, false
	}
	return t.Category, true
}
