// Package world provides the occupancy grid the raycaster marches through and
// the table of wall entities its cells point to.
package world

import (
	"image/color"

	"chosenoffset.com/raycaster/internal/core/geom"
)

// Kind identifies what an entity is
type Kind int

const (
	KindWall Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	default:
		return "unknown"
	}
}

// WallEntity is a straight, axis-aligned wall segment with a flat color.
// Start and End are grid coordinates and must share exactly one axis.
type WallEntity struct {
	Kind  Kind
	Start geom.Vec2U
	End   geom.Vec2U
	Color color.RGBA
}

// Wall creates a wall entity spanning start to end.
func Wall(start, end geom.Vec2U, clr color.RGBA) WallEntity {
	return WallEntity{
		Kind:  KindWall,
		Start: start,
		End:   end,
		Color: clr,
	}
}

// Horizontal reports whether the segment runs along the x axis.
func (e WallEntity) Horizontal() bool {
	return e.End.X > e.Start.X
}
