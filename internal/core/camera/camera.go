// Package camera tracks the viewer's position, facing and field of view in
// grid space.
package camera

import (
	"math"

	"chosenoffset.com/raycaster/internal/core/geom"
)

// Camera is a position plus a facing direction and a camera plane
// perpendicular to it. The plane's length relative to the direction sets the
// horizontal field of view.
type Camera struct {
	Position  geom.Vec2
	Direction geom.Vec2
	Plane     geom.Vec2
}

// New creates a camera.
func New(position, direction, plane geom.Vec2) *Camera {
	return &Camera{
		Position:  position,
		Direction: direction,
		Plane:     plane,
	}
}

// Default returns the startup camera: centered in a 25-cell world, looking
// down the negative x axis with a 0.75 plane.
func Default() *Camera {
	return New(geom.V(12, 12), geom.V(-1, 0), geom.V(0, 0.75))
}

// Rotate turns the direction and plane vectors by angle radians.
func (c *Camera) Rotate(angle float32) {
	c.Direction = rotate(c.Direction, angle)
	c.Plane = rotate(c.Plane, angle)
}

// Move advances the position along the facing direction. Negative speeds move
// backwards. Walls are not checked.
func (c *Camera) Move(speed float32) {
	c.Position = c.Position.Add(c.Direction.Scale(speed))
}

func rotate(v geom.Vec2, angle float32) geom.Vec2 {
	sin64, cos64 := math.Sincos(float64(angle))
	sin, cos := float32(sin64), float32(cos64)
	return geom.Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}
