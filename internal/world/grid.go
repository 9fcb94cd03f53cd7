package world

import (
	"math"

	"github.com/pixil98/go-summoners/internal/entity"
)

// cellSize matches a landblock so a 3x3 neighbourhood covers any sense range
// up to one landblock.
const cellSize = entity.LandblockSize

type cellKey struct {
	cx, cy int64
}

func keyFor(p entity.Position) cellKey {
	x, y := p.Global()
	return cellKey{
		cx: int64(math.Floor(x / cellSize)),
		cy: int64(math.Floor(y / cellSize)),
	}
}

// Grid buckets entities by cell for coarse proximity queries. It is not safe
// for concurrent use; World guards it.
type Grid struct {
	cells map[cellKey]map[entity.ID]struct{}
}

func NewGrid() *Grid {
	return &Grid{
		cells: make(map[cellKey]map[entity.ID]struct{}),
	}
}

func (g *Grid) Add(id entity.ID, p entity.Position) {
	k := keyFor(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[entity.ID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

func (g *Grid) Remove(id entity.ID, p entity.Position) {
	k := keyFor(p)
	if cell := g.cells[k]; cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Move rebuckets id if it crossed a cell boundary.
func (g *Grid) Move(id entity.ID, from, to entity.Position) {
	if keyFor(from) == keyFor(to) {
		return
	}
	g.Remove(id, from)
	g.Add(id, to)
}

// Candidates returns every id in the 3x3 cells around p. Callers filter by
// actual distance.
func (g *Grid) Candidates(p entity.Position) []entity.ID {
	k := keyFor(p)
	var out []entity.ID
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for id := range g.cells[cellKey{cx: k.cx + dx, cy: k.cy + dy}] {
				out = append(out, id)
			}
		}
	}
	return out
}
