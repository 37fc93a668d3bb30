package world

import (
	"image/color"

	"chosenoffset.com/raycaster/internal/core/geom"
)

// DefaultSize is the side length of the startup world.
const DefaultSize = 25

var (
	LeftWallColor = color.RGBA{R: 128, G: 128, B: 144, A: 255}
	WallColor     = color.RGBA{R: 112, G: 128, B: 144, A: 255}
)

// NewDefault builds the startup level: a walled square of the given size with
// a small three-sided room near the top-left corner.
func NewDefault(size int) (*Grid, error) {
	g := NewGrid(size)
	last := uint32(size - 1)

	walls := []WallEntity{
		Wall(geom.U(0, 0), geom.U(0, last), LeftWallColor),
		Wall(geom.U(0, 0), geom.U(last, 0), WallColor),
		Wall(geom.U(last, 0), geom.U(last, last), WallColor),
		Wall(geom.U(0, last), geom.U(last, last), WallColor),
	}
	if size >= 10 {
		walls = append(walls,
			Wall(geom.U(3, 5), geom.U(7, 5), WallColor),
			Wall(geom.U(3, 6), geom.U(3, 9), WallColor),
			Wall(geom.U(6, 6), geom.U(6, 9), WallColor),
		)
	}

	for _, w := range walls {
		if _, err := g.AddEntity(w); err != nil {
			return nil, err
		}
	}
	return g, nil
}
