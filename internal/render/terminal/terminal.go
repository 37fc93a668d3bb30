// Package terminal implements the render interfaces on a text terminal with
// tcell. Every character cell shows two stacked pixels using the upper half
// block, foreground for the top pixel and background for the bottom one.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/render"
)

const (
	halfBlock = '▀'

	defaultTPS  = 60
	defaultHold = 200 * time.Millisecond
)

// Options tunes the terminal loop.
type Options struct {
	// TPS is the number of Update/Draw ticks per second.
	TPS int
	// Hold is how long a key counts as pressed after its last event.
	// Terminals only report key presses and auto-repeats, never releases.
	Hold time.Duration
	// LogOutput receives log lines while the screen is active. Nil discards
	// them, since the terminal is busy showing frames.
	LogOutput io.Writer
}

// Engine implements render.Engine on a tcell screen.
type Engine struct {
	screen tcell.Screen
	tick   time.Duration
	input  *Input
	title  string
	logOut io.Writer
}

// NewEngine creates a terminal engine. A nil screen opens the controlling
// terminal when the game starts.
func NewEngine(screen tcell.Screen, opts Options) *Engine {
	if opts.TPS <= 0 {
		opts.TPS = defaultTPS
	}
	if opts.Hold <= 0 {
		opts.Hold = defaultHold
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	return &Engine{
		screen: screen,
		tick:   time.Second / time.Duration(opts.TPS),
		input:  NewInput(opts.Hold, time.Now),
		logOut: opts.LogOutput,
	}
}

// Input returns the keyboard state fed by this engine's event loop.
func (e *Engine) Input() render.InputManager {
	return e.input
}

// SetWindowSize is a no-op; the terminal decides its own size.
func (e *Engine) SetWindowSize(width, height int) {}

// SetWindowTitle records the title, logged when the loop starts.
func (e *Engine) SetWindowTitle(title string) {
	e.title = title
}

// SetWindowResizable is a no-op.
func (e *Engine) SetWindowResizable(resizable bool) {}

// RunGame drives game at the configured tick rate until Update fails.
// render.ErrTerminated ends the loop without an error.
func (e *Engine) RunGame(game render.Game) error {
	s := e.screen
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
	}
	logger.Log.WithField("title", e.title).Info("Terminal backend starting")

	// The screen owns the tty until Fini; logging resumes afterwards.
	log := logger.Log
	prev := log.Out
	log.SetOutput(e.logOut)
	defer log.SetOutput(prev)

	if err := s.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer s.Fini()
	s.HideCursor()
	s.Clear()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go s.ChannelEvents(events, quit)

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	img := &Image{}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				s.Sync()
			}
			e.input.Handle(ev)

		case <-ticker.C:
			if err := game.Update(); err != nil {
				if errors.Is(err, render.ErrTerminated) {
					return nil
				}
				return err
			}
			e.input.EndFrame()

			cols, rows := s.Size()
			img.Resize(game.Layout(cols, rows*2))
			game.Draw(img)
			img.Present(s)
			s.Show()
		}
	}
}
