// Package config holds the runtime settings shared by the raycasting engine,
// the pixel buffer and the display backends. Settings are loaded from an
// optional JSON file layered over the defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"

	"chosenoffset.com/raycaster/internal/core/geom"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all runtime settings
type Config struct {
	Screen   ScreenConfig   `json:"screen"`
	World    WorldConfig    `json:"world"`
	Camera   CameraConfig   `json:"camera"`
	Controls ControlsConfig `json:"controls"`
	Render   RenderConfig   `json:"render"`
	Debug    DebugConfig    `json:"debug"`
}

// ScreenConfig is the rendered frame size in pixels
type ScreenConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WorldConfig sizes the occupancy grid
type WorldConfig struct {
	Size int `json:"size"` // cells per side
}

// CameraConfig is the starting camera state in grid units
type CameraConfig struct {
	Position  [2]float32 `json:"position"`
	Direction [2]float32 `json:"direction"`
	Plane     [2]float32 `json:"plane"`
}

// ControlsConfig holds the per-frame camera speeds
type ControlsConfig struct {
	RotationSpeed float32 `json:"rotation_speed"` // radians per frame
	MoveSpeed     float32 `json:"move_speed"`     // cells per frame
}

// RenderConfig tunes the raycaster
type RenderConfig struct {
	Workers  int      `json:"workers"`   // column bands rendered in parallel; <=1 is sequential
	MaxSteps int      `json:"max_steps"` // 0 derives the bound from the world size
	SkyColor [4]uint8 `json:"sky_color"`
	ShowFPS  bool     `json:"show_fps"`
}

// DebugConfig controls the optional HTTP/WebSocket debug server
type DebugConfig struct {
	Addr       string `json:"addr"`        // empty disables the server
	IntervalMS int    `json:"interval_ms"` // snapshot push interval for /ws
}

// DefaultConfig returns the startup settings: a 1200x900 view of a 25-cell
// world, camera in the middle looking down -x.
func DefaultConfig() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  1200,
			Height: 900,
		},
		World: WorldConfig{
			Size: 25,
		},
		Camera: CameraConfig{
			Position:  [2]float32{12, 12},
			Direction: [2]float32{-1, 0},
			Plane:     [2]float32{0, 0.75},
		},
		Controls: ControlsConfig{
			RotationSpeed: 3.0 * 0.016,
			MoveSpeed:     3.0 * 0.016,
		},
		Render: RenderConfig{
			Workers:  1,
			MaxSteps: 0,
			SkyColor: [4]uint8{0, 0, 0, 255},
			ShowFPS:  false,
		},
		Debug: DebugConfig{
			Addr:       "",
			IntervalMS: 250,
		},
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Validate checks that the settings describe a renderable scene.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen must be positive, got %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}
	if c.World.Size < 3 {
		return fmt.Errorf("%w: world size must be at least 3, got %d", ErrInvalid, c.World.Size)
	}
	size := float32(c.World.Size)
	p := c.Camera.Position
	if p[0] < 0 || p[1] < 0 || p[0] >= size || p[1] >= size {
		return fmt.Errorf("%w: camera position (%.2f,%.2f) outside %d-cell world", ErrInvalid, p[0], p[1], c.World.Size)
	}
	if c.Camera.Direction == [2]float32{} {
		return fmt.Errorf("%w: camera direction must be non-zero", ErrInvalid)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Render.Workers)
	}
	if c.Render.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative, got %d", ErrInvalid, c.Render.MaxSteps)
	}
	if c.Debug.IntervalMS <= 0 {
		return fmt.Errorf("%w: debug interval must be positive, got %d", ErrInvalid, c.Debug.IntervalMS)
	}
	return nil
}

// CameraVectors returns the starting camera state as vectors.
func (c *Config) CameraVectors() (position, direction, plane geom.Vec2) {
	return geom.V(c.Camera.Position[0], c.Camera.Position[1]),
		geom.V(c.Camera.Direction[0], c.Camera.Direction[1]),
		geom.V(c.Camera.Plane[0], c.Camera.Plane[1])
}

// Sky returns the escaped-ray color.
func (c *Config) Sky() color.RGBA {
	s := c.Render.SkyColor
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}
