// Package raycast turns a camera and an occupancy grid into one vertical wall
// slice per screen column using DDA grid traversal.
package raycast

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/raycaster/internal/core/camera"
	"chosenoffset.com/raycaster/internal/core/geom"
	"chosenoffset.com/raycaster/internal/render"
	"chosenoffset.com/raycaster/internal/world"
)

const (
	// Ray components smaller than epsilon are treated as zero.
	epsilon = 1e-20
	// sentinel replaces the per-cell delta of an axis the ray never crosses.
	sentinel = 1e30
)

var (
	// ErrUnknownEntity means a grid cell holds an id with no entity behind it.
	ErrUnknownEntity = errors.New("raycast: cell references unknown entity")
	// ErrBufferSize means the destination buffer does not match the engine's screen.
	ErrBufferSize = errors.New("raycast: pixel buffer size mismatch")
)

// Map is the read-only view of the world the engine marches through.
type Map interface {
	Size() int
	Cell(x, y int) uint32
	Entity(id uint32) (world.WallEntity, bool)
}

// Side records which grid axis the ray advanced on last.
type Side int

const (
	SideX Side = iota // struck a face whose normal points along x
	SideY             // struck a face whose normal points along y; shaded
)

func (s Side) String() string {
	if s == SideY {
		return "y"
	}
	return "x"
}

// Options configures an Engine.
type Options struct {
	Width  int
	Height int
	// MaxSteps bounds the traversal per ray. Zero derives a bound from the
	// map size.
	MaxSteps int
	// Sky is drawn over the full column when a ray leaves the world.
	Sky color.RGBA
}

// Engine casts rays for a fixed screen size.
type Engine struct {
	width    int
	height   int
	maxSteps int
	sky      color.RGBA
}

// New creates an engine for a width x height screen.
func New(opts Options) *Engine {
	return &Engine{
		width:    opts.Width,
		height:   opts.Height,
		maxSteps: opts.MaxSteps,
		sky:      opts.Sky,
	}
}

// Width returns the number of columns rendered per frame.
func (e *Engine) Width() int { return e.width }

// Height returns the screen height in pixels.
func (e *Engine) Height() int { return e.height }

// Hit describes the result of casting a single column.
type Hit struct {
	Column int
	// Cell is the grid cell the ray stopped in.
	Cell image.Point
	ID   uint32
	Side Side

	RayDir geom.Vec2
	DeltaX float32
	DeltaY float32

	// PerpDist is the distance to the struck face measured along the camera
	// direction, not the raw ray length.
	PerpDist   float32
	LineHeight int
	// Rows [Start, End) are drawn.
	Start int
	End   int
	Color color.RGBA

	// Escaped is set when the ray left the grid or ran out of steps.
	Escaped bool
	Steps   int
}

// MaxSteps returns the traversal bound used for a map of the given size.
func (e *Engine) MaxSteps(size int) int {
	if e.maxSteps > 0 {
		return e.maxSteps
	}
	// A ray crosses at most size boundaries on each axis before leaving.
	return 2 * (size + 1)
}

// Cast marches the ray for column x through m.
func (e *Engine) Cast(cam *camera.Camera, m Map, x int) (Hit, error) {
	hit := Hit{Column: x}

	cx := 2*(float32(x)/float32(e.width)) - 1
	ray := cam.Direction.Add(cam.Plane.Scale(cx))
	pos := cam.Position
	hit.RayDir = ray

	// Truncation toward zero, not floor.
	mapX := int(pos.X)
	mapY := int(pos.Y)

	deltaX := axisDelta(ray.X)
	deltaY := axisDelta(ray.Y)
	hit.DeltaX, hit.DeltaY = deltaX, deltaY

	var stepX, stepY int
	var sideDistX, sideDistY float32
	if ray.X < 0 {
		stepX = -1
		sideDistX = (pos.X - float32(mapX)) * deltaX
	} else {
		stepX = 1
		sideDistX = (float32(mapX) + 1 - pos.X) * deltaX
	}
	if ray.Y < 0 {
		stepY = -1
		sideDistY = (pos.Y - float32(mapY)) * deltaY
	} else {
		stepY = 1
		sideDistY = (float32(mapY) + 1 - pos.Y) * deltaY
	}

	size := m.Size()
	limit := e.MaxSteps(size)
	inside := func() bool {
		return mapX >= 0 && mapX < size && mapY >= 0 && mapY < size
	}
	// A camera that walked out of the grid keeps marching until its ray
	// enters; only leaving after having been inside counts as escaping.
	entered := inside()
	side := SideX
	var id uint32
	for {
		if hit.Steps >= limit {
			return e.escape(hit, mapX, mapY), nil
		}
		if sideDistX < sideDistY {
			sideDistX += deltaX
			mapX += stepX
			side = SideX
		} else {
			sideDistY += deltaY
			mapY += stepY
			side = SideY
		}
		hit.Steps++

		if !inside() {
			if entered {
				return e.escape(hit, mapX, mapY), nil
			}
			continue
		}
		entered = true
		if id = m.Cell(mapX, mapY); id != 0 {
			break
		}
	}

	hit.Cell = image.Pt(mapX, mapY)
	hit.ID = id
	hit.Side = side

	// Back out the last increment to land on the struck face.
	if side == SideX {
		hit.PerpDist = sideDistX - deltaX
	} else {
		hit.PerpDist = sideDistY - deltaY
	}

	hit.LineHeight = e.lineHeight(hit.PerpDist)
	hit.Start = e.height/2 - hit.LineHeight/2
	hit.End = e.height/2 + hit.LineHeight/2
	if hit.Start < 0 {
		hit.Start = 0
	}
	if hit.End >= e.height {
		hit.End = e.height - 1
	}

	entity, ok := m.Entity(id)
	if !ok {
		return hit, fmt.Errorf("%w: id %d at (%d,%d)", ErrUnknownEntity, id, mapX, mapY)
	}
	hit.Color = entity.Color
	if side == SideY {
		hit.Color = Shade(hit.Color)
	}

	return hit, nil
}

// Shade halves every channel, alpha included.
func Shade(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A / 2}
}

// Render clears buf and draws every column in order.
func (e *Engine) Render(cam *camera.Camera, m Map, buf *render.PixelBuffer) error {
	if err := e.checkBuffer(buf); err != nil {
		return err
	}
	buf.Clear()
	for x := 0; x < e.width; x++ {
		hit, err := e.Cast(cam, m, x)
		if err != nil {
			return err
		}
		buf.VerLine(x, hit.Start, hit.End, hit.Color)
	}
	return nil
}

// RenderParallel draws the same frame as Render, splitting the columns into
// contiguous bands cast on separate goroutines. Each band writes only its own
// columns.
func (e *Engine) RenderParallel(ctx context.Context, cam *camera.Camera, m Map, buf *render.PixelBuffer, workers int) error {
	if workers <= 1 {
		return e.Render(cam, m, buf)
	}
	if err := e.checkBuffer(buf); err != nil {
		return err
	}
	buf.Clear()

	view := *cam
	band := (e.width + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < e.width; lo += band {
		hi := min(lo+band, e.width)
		g.Go(func() error {
			for x := lo; x < hi; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				hit, err := e.Cast(&view, m, x)
				if err != nil {
					return err
				}
				buf.VerLine(x, hit.Start, hit.End, hit.Color)
			}
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) checkBuffer(buf *render.PixelBuffer) error {
	if buf.Width != e.width || buf.Height != e.height || len(buf.Pix) != e.width*e.height*4 {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrBufferSize, buf.Width, buf.Height, e.width, e.height)
	}
	return nil
}

// escape fills in a hit for a ray that never struck a wall.
func (e *Engine) escape(hit Hit, mapX, mapY int) Hit {
	hit.Cell = image.Pt(mapX, mapY)
	hit.Escaped = true
	hit.PerpDist = float32(math.Inf(1))
	hit.Start = 0
	hit.End = e.height
	hit.Color = e.sky
	return hit
}

// lineHeight projects a wall at dist. The result saturates at twice the
// screen height, which already clamps to the full column.
func (e *Engine) lineHeight(dist float32) int {
	limit := float32(2 * e.height)
	h := float32(e.height) / dist
	switch {
	case h >= limit || math.IsNaN(float64(h)):
		return 2 * e.height
	case h <= -limit:
		return -2 * e.height
	default:
		return int(h)
	}
}

func axisDelta(component float32) float32 {
	if abs32(component) < epsilon {
		return sentinel
	}
	return abs32(1 / component)
}

func abs32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}
