// Package game runs the per-frame pipeline: input updates the camera, the
// raycaster renders the world into a pixel buffer and the buffer is handed to
// the display backend.
package game

import (
	"context"
	"sync"
	"time"

	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/core/camera"
	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/raycast"
	"chosenoffset.com/raycaster/internal/render"
)

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int

	World    raycast.Map
	Camera   *camera.Camera
	Engine   *raycast.Engine
	InputMgr render.InputManager
	Buffer   *render.PixelBuffer

	RotationSpeed float32
	MoveSpeed     float32
	Workers       int
	ShowFPS       bool

	fps       *FPSCounter
	frame     uint64
	renderErr error

	mu       sync.RWMutex
	snapshot Snapshot
}

// New wires a game from its parts. The buffer is sized from the engine.
func New(cfg *config.Config, grid raycast.Map, cam *camera.Camera, engine *raycast.Engine, input render.InputManager) *Game {
	g := &Game{
		ScreenWidth:   cfg.Screen.Width,
		ScreenHeight:  cfg.Screen.Height,
		World:         grid,
		Camera:        cam,
		Engine:        engine,
		InputMgr:      input,
		Buffer:        render.NewPixelBuffer(engine.Width(), engine.Height()),
		RotationSpeed: cfg.Controls.RotationSpeed,
		MoveSpeed:     cfg.Controls.MoveSpeed,
		Workers:       cfg.Render.Workers,
		ShowFPS:       cfg.Render.ShowFPS,
		fps:           NewFPSCounter(time.Now),
	}
	g.publish(raycast.Hit{Escaped: true})
	return g
}

// Update applies this tick's input to the camera.
func (g *Game) Update() error {
	if g.renderErr != nil {
		return g.renderErr
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyF) {
		g.ShowFPS = !g.ShowFPS
	}

	if g.pressed(render.KeyW, render.KeyUp) {
		g.Camera.Move(g.MoveSpeed)
	}
	if g.pressed(render.KeyS, render.KeyDown) {
		g.Camera.Move(-g.MoveSpeed)
	}
	if g.pressed(render.KeyA, render.KeyLeft) {
		g.Camera.Rotate(g.RotationSpeed)
	}
	if g.pressed(render.KeyD, render.KeyRight) {
		g.Camera.Rotate(-g.RotationSpeed)
	}

	return nil
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// RenderFrame raycasts the current camera view into the buffer.
func (g *Game) RenderFrame() error {
	if g.Workers > 1 {
		return g.Engine.RenderParallel(context.Background(), g.Camera, g.World, g.Buffer, g.Workers)
	}
	return g.Engine.Render(g.Camera, g.World, g.Buffer)
}

func (g *Game) pressed(keys ...render.Key) bool {
	for _, k := range keys {
		if g.InputMgr.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// fail records a render error; the next Update returns it and ends the loop.
func (g *Game) fail(err error) {
	logger.Log.WithError(err).Error("Frame render failed")
	g.renderErr = err
}
