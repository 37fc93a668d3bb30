// Package geom holds the small vector value types shared by the world,
// camera and raycasting packages.
package geom

import "fmt"

// Vec2 represents a 2D point or direction in grid space
type Vec2 struct {
	X, Y float32
}

// V is a convenience constructor for Vec2.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f,%.3f)", v.X, v.Y)
}

// Vec2U represents a grid cell coordinate
type Vec2U struct {
	X, Y uint32
}

// U is a convenience constructor for Vec2U.
func U(x, y uint32) Vec2U {
	return Vec2U{X: x, Y: y}
}

func (v Vec2U) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}
