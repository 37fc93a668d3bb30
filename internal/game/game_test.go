package game

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/core/camera"
	"chosenoffset.com/raycaster/internal/core/geom"
	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/raycast"
	"chosenoffset.com/raycaster/internal/render"
	"chosenoffset.com/raycaster/internal/world"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeInput struct {
	held map[render.Key]bool
	just map[render.Key]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{held: map[render.Key]bool{}, just: map[render.Key]bool{}}
}

func (f *fakeInput) IsKeyPressed(k render.Key) bool     { return f.held[k] }
func (f *fakeInput) IsKeyJustPressed(k render.Key) bool { return f.just[k] }

type fakeImage struct {
	w, h   int
	pix    []byte
	writes int
	text   []string
}

func (f *fakeImage) Size() (int, int) { return f.w, f.h }

func (f *fakeImage) WritePixels(pix []byte) {
	f.pix = append(f.pix[:0], pix...)
	f.writes++
}

func (f *fakeImage) DebugText(text string) { f.text = append(f.text, text) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestGame(t *testing.T, width, height int) (*Game, *fakeInput) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Screen.Width = width
	cfg.Screen.Height = height

	grid, err := world.NewDefault(cfg.World.Size)
	if err != nil {
		t.Fatalf("Failed to build world: %v", err)
	}
	engine := raycast.New(raycast.Options{Width: width, Height: height, Sky: cfg.Sky()})
	input := newFakeInput()
	return New(cfg, grid, camera.Default(), engine, input), input
}

func TestUpdateEscapeTerminates(t *testing.T) {
	g, input := newTestGame(t, 40, 30)
	input.just[render.KeyEscape] = true

	if err := g.Update(); !errors.Is(err, render.ErrTerminated) {
		t.Errorf("Expected ErrTerminated, got %v", err)
	}
}

func TestUpdateMovesAndRotates(t *testing.T) {
	tests := []struct {
		name     string
		key      render.Key
		position geom.Vec2
		rotated  bool
	}{
		{"W forward", render.KeyW, geom.V(12-0.048, 12), false},
		{"Up forward", render.KeyUp, geom.V(12-0.048, 12), false},
		{"S back", render.KeyS, geom.V(12+0.048, 12), false},
		{"Down back", render.KeyDown, geom.V(12+0.048, 12), false},
		{"A rotates", render.KeyA, geom.V(12, 12), true},
		{"D rotates", render.KeyD, geom.V(12, 12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, input := newTestGame(t, 40, 30)
			input.held[tt.key] = true

			if err := g.Update(); err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			p := g.Camera.Position
			if abs(p.X-tt.position.X) > 1e-5 || abs(p.Y-tt.position.Y) > 1e-5 {
				t.Errorf("Expected position %v, got %v", tt.position, p)
			}
			moved := g.Camera.Direction != geom.V(-1, 0)
			if moved != tt.rotated {
				t.Errorf("Expected rotated=%v, got direction %v", tt.rotated, g.Camera.Direction)
			}
		})
	}
}

func TestUpdateRotationDirection(t *testing.T) {
	left, input := newTestGame(t, 40, 30)
	input.held[render.KeyA] = true
	left.Update()

	right, input := newTestGame(t, 40, 30)
	input.held[render.KeyD] = true
	right.Update()

	// Facing -x, a positive turn swings the view toward -y.
	if left.Camera.Direction.Y >= 0 {
		t.Errorf("Expected A to turn toward -y, got %v", left.Camera.Direction)
	}
	if right.Camera.Direction.Y <= 0 {
		t.Errorf("Expected D to turn toward +y, got %v", right.Camera.Direction)
	}
}

func TestUpdateOpposingKeysCancel(t *testing.T) {
	g, input := newTestGame(t, 40, 30)
	input.held[render.KeyW] = true
	input.held[render.KeyS] = true

	if err := g.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if abs(g.Camera.Position.X-12) > 1e-5 {
		t.Errorf("Expected forward and back to cancel, got %v", g.Camera.Position)
	}
}

func TestUpdateTogglesFPS(t *testing.T) {
	g, input := newTestGame(t, 40, 30)
	input.just[render.KeyF] = true

	g.Update()
	if !g.ShowFPS {
		t.Fatal("Expected F to enable the FPS overlay")
	}
	g.Update()
	if g.ShowFPS {
		t.Error("Expected second F to disable the FPS overlay")
	}
}

func TestDrawWritesFrame(t *testing.T) {
	g, _ := newTestGame(t, 40, 30)
	screen := &fakeImage{w: 40, h: 30}

	g.Draw(screen)

	if screen.writes != 1 {
		t.Fatalf("Expected 1 frame upload, got %d", screen.writes)
	}
	if len(screen.pix) != 40*30*4 {
		t.Fatalf("Expected %d bytes, got %d", 40*30*4, len(screen.pix))
	}
	if len(screen.text) != 0 {
		t.Errorf("Expected no overlay, got %v", screen.text)
	}

	// Center column must contain wall color somewhere mid-screen.
	off := 20*4 + 15*40*4
	if screen.pix[off+3] == 0 {
		t.Error("Expected a wall pixel in the middle of the screen")
	}
}

func TestDrawParallelMatchesSequential(t *testing.T) {
	seq, _ := newTestGame(t, 64, 48)
	par, _ := newTestGame(t, 64, 48)
	par.Workers = 4

	a := &fakeImage{w: 64, h: 48}
	b := &fakeImage{w: 64, h: 48}
	seq.Draw(a)
	par.Draw(b)

	if string(a.pix) != string(b.pix) {
		t.Error("Expected parallel frame to match sequential frame")
	}
}

func TestDrawOverlay(t *testing.T) {
	g, _ := newTestGame(t, 40, 30)
	g.ShowFPS = true
	screen := &fakeImage{w: 40, h: 30}

	g.Draw(screen)

	if len(screen.text) != 1 || !strings.HasPrefix(screen.text[0], "FPS: ") {
		t.Errorf("Expected FPS overlay, got %v", screen.text)
	}
}

func TestSnapshot(t *testing.T) {
	g, _ := newTestGame(t, 40, 30)
	screen := &fakeImage{w: 40, h: 30}

	before := g.Snapshot()
	if before.Frame != 0 || before.Position != [2]float32{12, 12} {
		t.Errorf("Expected initial snapshot at frame 0, got %+v", before)
	}

	g.Draw(screen)
	s := g.Snapshot()

	if s.Frame != 1 {
		t.Errorf("Expected frame 1, got %d", s.Frame)
	}
	if s.Center.Escaped {
		t.Fatal("Expected center ray to hit a wall")
	}
	// Looking down -x from (12,12) the center ray stops on the left wall.
	if s.Center.ID != 1 || s.Center.Cell != [2]int{0, 12} {
		t.Errorf("Expected left wall at (0,12), got id %d cell %v", s.Center.ID, s.Center.Cell)
	}
	if s.Center.Side != "x" {
		t.Errorf("Expected side x, got %s", s.Center.Side)
	}
	if abs(s.Center.Distance-11) > 1e-4 {
		t.Errorf("Expected distance 11, got %f", s.Center.Distance)
	}
}

func TestDrawUnknownEntityStopsLoop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Screen.Width, cfg.Screen.Height = 8, 6
	engine := raycast.New(raycast.Options{Width: 8, Height: 6})
	g := New(cfg, &brokenMap{size: 25}, camera.Default(), engine, newFakeInput())

	g.Draw(&fakeImage{w: 8, h: 6})

	if err := g.Update(); !errors.Is(err, raycast.ErrUnknownEntity) {
		t.Errorf("Expected ErrUnknownEntity from Update, got %v", err)
	}
}

func TestFPSCounter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewFPSCounter(clock.now)

	for i := 0; i < 59; i++ {
		if _, ok := c.Tick(); ok {
			t.Fatalf("Expected no report before a second elapsed (frame %d)", i)
		}
		clock.t = clock.t.Add(16 * time.Millisecond)
	}
	clock.t = clock.t.Add(100 * time.Millisecond)

	fps, ok := c.Tick()
	if !ok {
		t.Fatal("Expected a report after one second")
	}
	if fps != 60 {
		t.Errorf("Expected 60 fps, got %d", fps)
	}
	if c.Last() != 60 {
		t.Errorf("Expected Last 60, got %d", c.Last())
	}
	if _, ok := c.Tick(); ok {
		t.Error("Expected counter to restart its window")
	}
}

type brokenMap struct{ size int }

func (b *brokenMap) Size() int { return b.size }

func (b *brokenMap) Cell(x, y int) uint32 {
	if x == 0 {
		return 9
	}
	return 0
}

func (b *brokenMap) Entity(id uint32) (world.WallEntity, bool) {
	return world.WallEntity{}, false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
