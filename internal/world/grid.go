package world

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a segment endpoint lies outside the grid.
	ErrOutOfBounds = errors.New("segment endpoint outside grid")
	// ErrNotAxisAligned is returned for diagonal or zero-length segments.
	ErrNotAxisAligned = errors.New("segment is not a straight horizontal or vertical run")
	// ErrReversedSegment is returned when end precedes start on the varying axis.
	ErrReversedSegment = errors.New("segment end precedes start")
)

// Grid is a square occupancy grid. Each cell holds 0 for empty or the id of
// the entity occupying it; ids index a dense entity table starting at 1.
type Grid struct {
	size     int
	cells    []uint32
	entities []WallEntity
}

// NewGrid allocates an empty size x size grid.
func NewGrid(size int) *Grid {
	if size < 1 {
		size = 1
	}
	return &Grid{
		size:  size,
		cells: make([]uint32, size*size),
	}
}

// Size returns the number of cells per side.
func (g *Grid) Size() int {
	return g.size
}

// Cell returns the entity id stored at (x, y), or 0 for coordinates outside the grid.
func (g *Grid) Cell(x, y int) uint32 {
	if x < 0 || x >= g.size || y < 0 || y >= g.size {
		return 0
	}
	return g.cells[y*g.size+x]
}

// Cells exposes the backing row-major slice.
func (g *Grid) Cells() []uint32 {
	return g.cells
}

// Entity looks up an entity by id.
func (g *Grid) Entity(id uint32) (WallEntity, bool) {
	if id == 0 || int(id) > len(g.entities) {
		return WallEntity{}, false
	}
	return g.entities[id-1], true
}

// EntityCount returns the number of registered entities.
func (g *Grid) EntityCount() int {
	return len(g.entities)
}

// Entities returns a copy of the entity table in id order.
func (g *Grid) Entities() []WallEntity {
	out := make([]WallEntity, len(g.entities))
	copy(out, g.entities)
	return out
}

// AddEntity assigns the next sequential id to e, writes that id into every
// cell the segment covers and stores the entity.
//
// Horizontal segments fill (i, End.Y) for i in [Start.X, End.X); anything
// else is treated as vertical and fills (Start.X, i) for i in [Start.Y, End.Y).
// The end cell on the varying axis is never filled. Invalid segments leave the
// grid untouched and consume no id.
func (g *Grid) AddEntity(e WallEntity) (uint32, error) {
	if err := g.validate(e); err != nil {
		return 0, err
	}

	id := uint32(len(g.entities) + 1)
	if e.Horizontal() {
		row := int(e.End.Y) * g.size
		for i := e.Start.X; i < e.End.X; i++ {
			g.cells[row+int(i)] = id
		}
	} else {
		for i := e.Start.Y; i < e.End.Y; i++ {
			g.cells[int(i)*g.size+int(e.Start.X)] = id
		}
	}

	g.entities = append(g.entities, e)
	return id, nil
}

// MustAddEntity is AddEntity for hard-coded geometry; it panics on error.
func (g *Grid) MustAddEntity(e WallEntity) uint32 {
	id, err := g.AddEntity(e)
	if err != nil {
		panic(err)
	}
	return id
}

func (g *Grid) validate(e WallEntity) error {
	limit := uint32(g.size)
	if e.Start.X >= limit || e.Start.Y >= limit || e.End.X >= limit || e.End.Y >= limit {
		return fmt.Errorf("%w: %v-%v in %dx%d grid", ErrOutOfBounds, e.Start, e.End, g.size, g.size)
	}

	sameX := e.Start.X == e.End.X
	sameY := e.Start.Y == e.End.Y
	if sameX == sameY {
		return fmt.Errorf("%w: %v-%v", ErrNotAxisAligned, e.Start, e.End)
	}
	if (sameY && e.End.X < e.Start.X) || (sameX && e.End.Y < e.Start.Y) {
		return fmt.Errorf("%w: %v-%v", ErrReversedSegment, e.Start, e.End)
	}
	return nil
}
