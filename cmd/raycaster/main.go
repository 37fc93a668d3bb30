package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"chosenoffset.com/raycaster/internal/config"
	"chosenoffset.com/raycaster/internal/core/camera"
	"chosenoffset.com/raycaster/internal/debug"
	"chosenoffset.com/raycaster/internal/game"
	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/raycast"
	"chosenoffset.com/raycaster/internal/render"
	ebitenrender "chosenoffset.com/raycaster/internal/render/ebiten"
	"chosenoffset.com/raycaster/internal/render/terminal"
	"chosenoffset.com/raycaster/internal/world"
)

type options struct {
	configPath string
	backend    string
	workers    int
	debugAddr  string
	profile    string
	logFile    string
	width      int
	height     int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "raycaster.json", "Path to JSON config (missing file uses defaults)")
	flag.StringVar(&o.backend, "backend", "ebiten", "Display backend: ebiten or terminal")
	flag.IntVar(&o.workers, "workers", -1, "Render goroutines (0 = one per CPU, -1 = from config)")
	flag.StringVar(&o.debugAddr, "debug-addr", "", "Debug HTTP/WebSocket listen address, e.g. :8080")
	flag.StringVar(&o.profile, "profile", "", "Write a cpu or mem profile to the working directory")
	flag.StringVar(&o.logFile, "log-file", "raycaster.log", "Log destination while the terminal backend owns the screen (empty discards)")
	flag.IntVar(&o.width, "width", 0, "Screen width override in pixels")
	flag.IntVar(&o.height, "height", 0, "Screen height override in pixels")
	flag.Parse()
	return o
}

func main() {
	logger.Init()
	opts := parseFlags()

	if err := run(opts); err != nil {
		logger.Log.Fatal(err)
	}
}

func run(opts options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", opts.profile)
	}

	grid, err := world.NewDefault(cfg.World.Size)
	if err != nil {
		return fmt.Errorf("failed to build world: %w", err)
	}
	cam := camera.New(cfg.CameraVectors())
	engine := raycast.New(raycast.Options{
		Width:    cfg.Screen.Width,
		Height:   cfg.Screen.Height,
		MaxSteps: cfg.Render.MaxSteps,
		Sky:      cfg.Sky(),
	})

	var termLog io.Writer
	if opts.backend == "terminal" && opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		termLog = f
	}

	display, input, err := newBackend(opts.backend, termLog)
	if err != nil {
		return err
	}
	g := game.New(cfg, grid, cam, engine, input)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Debug.Addr != "" {
		srv := debug.New(g, grid, cfg.Debug.Addr, time.Duration(cfg.Debug.IntervalMS)*time.Millisecond)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Log.WithError(err).Error("Debug server failed")
			}
		}()
	}

	logger.Log.WithField("backend", opts.backend).
		WithField("workers", cfg.Render.Workers).
		Infof("Starting raycaster %dx%d, world %d", cfg.Screen.Width, cfg.Screen.Height, cfg.World.Size)

	display.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	display.SetWindowTitle("Raycaster")
	display.SetWindowResizable(true)

	if err := display.RunGame(g); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	logger.Log.Info("Bye")
	return nil
}

func applyOverrides(cfg *config.Config, opts options) {
	if opts.width > 0 {
		cfg.Screen.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Screen.Height = opts.height
	}
	switch {
	case opts.workers == 0:
		cfg.Render.Workers = runtime.NumCPU()
	case opts.workers > 0:
		cfg.Render.Workers = opts.workers
	}
	if opts.debugAddr != "" {
		cfg.Debug.Addr = opts.debugAddr
	}
}

// newBackend builds the display engine and its input. logOut only applies to
// the terminal backend.
func newBackend(name string, logOut io.Writer) (render.Engine, render.InputManager, error) {
	switch name {
	case "ebiten":
		return ebitenrender.NewEngine(), ebitenrender.NewInputManager(), nil
	case "terminal":
		e := terminal.NewEngine(nil, terminal.Options{LogOutput: logOut})
		return e, e.Input(), nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}
