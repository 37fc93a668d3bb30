// Package render defines the platform-facing interfaces the game loop talks
// to, plus the RGBA pixel buffer the raycaster draws into. Backends such as
// ebiten or a terminal implement these interfaces so the core never imports
// a display library.
package render

import "errors"

// ErrTerminated is returned from Game.Update to end the loop normally.
var ErrTerminated = errors.New("render: game terminated")

// Image represents a display surface that accepts a full frame of pixels.
type Image interface {
	// Size returns the logical size in pixels.
	Size() (width, height int)

	// WritePixels replaces the whole surface with row-major straight-alpha
	// RGBA bytes. len(pix) must be width*height*4. Backends show the frame
	// composited over black, so a pixel with alpha a appears at a/255 of its
	// color. Surfaces that expect premultiplied input convert with
	// Premultiply.
	WritePixels(pix []byte)

	// DebugText draws a short overlay string in the top-left corner.
	DebugText(text string)
}

// InputManager handles input from the user (keyboard).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game listens to
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyF // FPS overlay toggle
)

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick.
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}
