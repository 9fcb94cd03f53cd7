package entity

import (
	"fmt"
	"math"
)

const (
	// LandblockSize is the edge length of one landblock in meters.
	LandblockSize = 192.0

	mapUnitSize   = 240.0
	mapOriginSize = 102.0
)

// Position locates an entity by landblock cell and local offset within that
// landblock. The high byte of Cell is the landblock x index, the next byte the
// y index, and the low 16 bits the cell within the block.
type Position struct {
	Cell uint32  `json:"cell"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// Global returns the planar world coordinates in meters.
func (p Position) Global() (x, y float64) {
	bx := float64(p.Cell >> 24)
	by := float64((p.Cell >> 16) & 0xFF)
	return bx*LandblockSize + p.X, by*LandblockSize + p.Y
}

// Distance2DSquared is the squared planar distance between two positions.
func (p Position) Distance2DSquared(o Position) float64 {
	ax, ay := p.Global()
	bx, by := o.Global()
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}

// Outdoor reports whether the position lies on the overworld rather than in
// a dungeon or building cell.
func (p Position) Outdoor() bool {
	return p.Cell&0xFFFF < 0x100
}

// MapCoords converts to map units. ok is false for indoor positions.
func (p Position) MapCoords() (x, y float64, ok bool) {
	if !p.Outdoor() {
		return 0, 0, false
	}
	gx, gy := p.Global()
	return gx/mapUnitSize - mapOriginSize, gy/mapUnitSize - mapOriginSize, true
}

// MapCoordString formats map coordinates like "12.3N, 45.6E". Empty for
// indoor positions.
func (p Position) MapCoordString() string {
	x, y, ok := p.MapCoords()
	if !ok {
		return ""
	}
	ns, ew := "N", "E"
	if y < 0 {
		ns = "S"
	}
	if x < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.1f%s, %.1f%s", math.Abs(y), ns, math.Abs(x), ew)
}
